// Package cli implements gestiongasto-cli, an operator tool that talks to
// the SharePoint document library directly with a caller-supplied Graph
// access token.
//
// Commands:
//
//	upload <entity-id> <file>...   upload files into the entity's dated folder
//	list <folder-path>             list a folder, folders first
//	find <entity-id>               locate the entity's folder
//	files <entity-id>              list the files of the entity's folder
//	get <item-id>                  show one item with its thumbnail
//	delete [-y] <item-id>          delete an item after confirmation
//	mkdir <folder-path>            create a folder chain
//
// The token comes from -token, GG_GRAPH_TOKEN or a hidden prompt.
package cli
