// Package models holds the value types shared by the storage backends,
// the attachment ledger and the HTTP layer.
package models

import (
	"io"
	"strings"
	"time"
)

// RemoteFile describes an object stored in the document library or in
// object storage. DownloadURL may be time-limited; callers must not cache it.
type RemoteFile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	WebURL       string    `json:"webUrl"`
	DownloadURL  string    `json:"downloadUrl,omitempty"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"createdDateTime"`
	MimeType     string    `json:"mimeType,omitempty"`
	IsImage      *bool     `json:"isImage,omitempty"` // nil when the MIME type is unknown
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
}

// ImageFlag reports whether mimeType is an image type. It returns nil for an
// empty MIME type: unknown is not the same as "not an image".
func ImageFlag(mimeType string) *bool {
	if mimeType == "" {
		return nil
	}
	v := strings.HasPrefix(mimeType, "image/")
	return &v
}

// Upload is one file of a (possibly batched) upload request.
type Upload struct {
	Name    string
	Content io.Reader
}

// UploadFailure records why a single file of a batch was not stored.
type UploadFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// BatchResult is the outcome of a best-effort batch upload.
type BatchResult struct {
	Succeeded []RemoteFile    `json:"succeeded"`
	Failed    []UploadFailure `json:"failed"`
}
