package services

import (
	"context"
	"io"

	"github.com/dmitrijs2005/gestiongasto/internal/models"
)

// FileStore is a storage backend for request attachments.
// *docsync.Service (SharePoint) and *objectstore.S3Store implement it.
type FileStore interface {
	UploadFile(ctx context.Context, content io.Reader, filename, basePath, entityID string) (*models.RemoteFile, error)
	UploadMultipleFiles(ctx context.Context, files []models.Upload, basePath, entityID string) *models.BatchResult
	ListFiles(ctx context.Context, folderPath string) ([]models.RemoteFile, error)
	GetFile(ctx context.Context, id string) (*models.RemoteFile, error)
	DeleteFile(ctx context.Context, id string) error
	CreateFolderIfNotExists(ctx context.Context, folderPath string) error
	FindFolderForEntity(ctx context.Context, entityID, basePath string) (string, bool, error)
	ListFilesForEntity(ctx context.Context, entityID, basePath string) ([]models.RemoteFile, error)
}

// Ledger records which files belong to which request.
type Ledger interface {
	RecordBatch(ctx context.Context, rows []models.Attachment) error
	Forget(ctx context.Context, backend, remoteID string) error
	ListByRequest(ctx context.Context, requestID string) ([]*models.Attachment, error)
}
