package attachments

import (
	"context"

	"github.com/dmitrijs2005/gestiongasto/internal/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Attachment) error
	DeleteByRemoteID(ctx context.Context, backend, remoteID string) (int64, error)
	ListByRequest(ctx context.Context, requestID string) ([]*models.Attachment, error)
}
