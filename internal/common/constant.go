package common

const (
	// DefaultSiteName is used when no SharePoint site name is configured.
	DefaultSiteName = "gestiongasto"

	// DefaultBaseFolder is the root of request attachments in the document library.
	DefaultBaseFolder = "/GestionGasto/Archivos"

	// EntityFolderPrefix is prepended to the request id in current folder naming.
	EntityFolderPrefix = "Solicitud-"
)
