// Package services holds the attachment use cases on top of a FileStore
// and the optional ledger.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gestiongasto/internal/common"
	"github.com/dmitrijs2005/gestiongasto/internal/logging"
	"github.com/dmitrijs2005/gestiongasto/internal/models"
	"github.com/dmitrijs2005/gestiongasto/internal/pathx"
	"github.com/dmitrijs2005/gestiongasto/internal/server/config"
)

// Folders maps attachment kinds to their base folders.
type Folders struct {
	Request string
	Invoice string
}

type AttachmentService struct {
	folders Folders
	backend string
	ledger  Ledger
	logger  logging.Logger
}

// NewAttachmentService builds the service. ledger may be nil.
func NewAttachmentService(folders Folders, backend string, ledger Ledger, l logging.Logger) *AttachmentService {
	return &AttachmentService{
		folders: folders,
		backend: backend,
		ledger:  ledger,
		logger:  l.With("module", "attachments", "backend", backend),
	}
}

func (s *AttachmentService) FolderFor(kind models.AttachmentKind) string {
	if kind == models.KindInvoice {
		return s.folders.Invoice
	}
	return s.folders.Request
}

func validRequestID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", common.ErrInvalidEntityID)
	}
	return pathx.ValidateEntityID(id)
}

// Upload stores files for a request and records the successful ones.
// A ledger failure is logged; the files are already stored by then.
func (s *AttachmentService) Upload(ctx context.Context, store FileStore, requestID string, kind models.AttachmentKind, files []models.Upload) (*models.BatchResult, error) {
	if err := validRequestID(requestID); err != nil {
		return nil, err
	}

	res := store.UploadMultipleFiles(ctx, files, s.FolderFor(kind), requestID)

	s.logger.Info(ctx, "attachments uploaded",
		"request_id", requestID, "kind", kind, "succeeded", len(res.Succeeded), "failed", len(res.Failed))

	if s.ledger != nil && len(res.Succeeded) > 0 {
		rows := make([]models.Attachment, 0, len(res.Succeeded))
		for _, f := range res.Succeeded {
			created := f.CreatedAt
			if created.IsZero() {
				created = time.Now().UTC()
			}
			rows = append(rows, models.Attachment{
				ID:        uuid.NewString(),
				RequestID: requestID,
				Kind:      kind,
				Backend:   s.backend,
				RemoteID:  f.ID,
				Name:      f.Name,
				WebURL:    f.WebURL,
				Size:      f.Size,
				CreatedAt: created,
			})
		}
		if err := s.ledger.RecordBatch(ctx, rows); err != nil {
			s.logger.Error(ctx, "ledger write failed", "request_id", requestID, "error", err)
		}
	}

	return res, nil
}

// List finds the request's folder under the kind's base folder and lists it.
func (s *AttachmentService) List(ctx context.Context, store FileStore, requestID string, kind models.AttachmentKind) ([]models.RemoteFile, error) {
	if err := validRequestID(requestID); err != nil {
		return nil, err
	}
	return store.ListFilesForEntity(ctx, requestID, s.FolderFor(kind))
}

// scoped reports whether p lies under one of the base folders. Only the S3
// backend is checked: its store is shared by every session, while Graph
// answers each SharePoint session with the caller's own permissions.
// A folder path may name a base folder itself; a key must name an object
// below one.
func (s *AttachmentService) scoped(p string, folder bool) bool {
	if s.backend != config.BackendS3 {
		return true
	}
	if !folder && strings.HasSuffix(p, "/") {
		return false
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "." || seg == ".." {
			return false
		}
	}

	key := pathx.Clean(p)
	for _, base := range []string{s.folders.Request, s.folders.Invoice} {
		base = pathx.Clean(base)
		if base == "" {
			continue
		}
		if folder && key == base {
			return true
		}
		if strings.HasPrefix(key, base+"/") {
			return true
		}
	}
	return false
}

func (s *AttachmentService) Get(ctx context.Context, store FileStore, id string) (*models.RemoteFile, error) {
	if !s.scoped(id, false) {
		return nil, common.ErrorNotFound
	}
	return store.GetFile(ctx, id)
}

// Delete removes the file and then its ledger row, if any.
func (s *AttachmentService) Delete(ctx context.Context, store FileStore, id string) error {
	if !s.scoped(id, false) {
		return common.ErrorNotFound
	}
	if err := store.DeleteFile(ctx, id); err != nil {
		return err
	}
	if s.ledger != nil {
		if err := s.ledger.Forget(ctx, s.backend, id); err != nil {
			s.logger.Error(ctx, "ledger delete failed", "id", id, "error", err)
		}
	}
	return nil
}

func (s *AttachmentService) Browse(ctx context.Context, store FileStore, folderPath string) ([]models.RemoteFile, error) {
	if !s.scoped(folderPath, true) {
		return nil, common.ErrorNotFound
	}
	return store.ListFiles(ctx, folderPath)
}

func (s *AttachmentService) EnsureFolder(ctx context.Context, store FileStore, folderPath string) error {
	if !s.scoped(folderPath, true) {
		return common.ErrorNotFound
	}
	return store.CreateFolderIfNotExists(ctx, folderPath)
}

// History returns the ledger rows for a request.
func (s *AttachmentService) History(ctx context.Context, requestID string) ([]*models.Attachment, error) {
	if s.ledger == nil {
		return nil, common.ErrLedgerDisabled
	}
	if err := validRequestID(requestID); err != nil {
		return nil, err
	}
	return s.ledger.ListByRequest(ctx, requestID)
}
