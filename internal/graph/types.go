package graph

import "time"

// Site is a SharePoint site as returned by GET /sites?search=.
type Site struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	WebURL      string `json:"webUrl"`
}

// DriveItem is a file or folder in a drive. DownloadURL is pre-authenticated
// and short-lived; never log it.
type DriveItem struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	WebURL          string         `json:"webUrl"`
	Size            int64          `json:"size"`
	CreatedDateTime time.Time      `json:"createdDateTime"`
	DownloadURL     string         `json:"@microsoft.graph.downloadUrl,omitempty"`
	File            *FileFacet     `json:"file,omitempty"`
	Folder          *FolderFacet   `json:"folder,omitempty"`
	Thumbnails      []ThumbnailSet `json:"thumbnails,omitempty"`
}

// IsFolder reports whether the item carries the folder facet.
func (i DriveItem) IsFolder() bool { return i.Folder != nil }

// MimeType returns the file facet's MIME type, or "" for folders and
// items without one.
func (i DriveItem) MimeType() string {
	if i.File == nil {
		return ""
	}
	return i.File.MimeType
}

type FileFacet struct {
	MimeType string `json:"mimeType"`
}

type FolderFacet struct {
	ChildCount int `json:"childCount"`
}

type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ThumbnailSet struct {
	ID     string     `json:"id"`
	Small  *Thumbnail `json:"small,omitempty"`
	Medium *Thumbnail `json:"medium,omitempty"`
	Large  *Thumbnail `json:"large,omitempty"`
}

// BestURL prefers the medium rendition, then small, then large.
func (s ThumbnailSet) BestURL() string {
	for _, t := range []*Thumbnail{s.Medium, s.Small, s.Large} {
		if t != nil && t.URL != "" {
			return t.URL
		}
	}
	return ""
}

type collection[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"@odata.nextLink"`
}

type createFolderRequest struct {
	Name             string   `json:"name"`
	Folder           struct{} `json:"folder"`
	ConflictBehavior string   `json:"@microsoft.graph.conflictBehavior"`
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
