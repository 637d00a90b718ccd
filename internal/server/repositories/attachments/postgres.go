// Package attachments stores the ledger that links purchase requests to the
// files kept in the document library or in object storage.
package attachments

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gestiongasto/internal/dbx"
	"github.com/dmitrijs2005/gestiongasto/internal/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a ledger row. Re-recording the same remote object updates
// its name, URL and size instead of failing.
func (r *PostgresRepository) Create(ctx context.Context, a *models.Attachment) error {
	query := `
		INSERT INTO attachments (id, request_id, kind, backend, remote_id, name, web_url, size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (backend, remote_id)
		DO UPDATE SET
			name = EXCLUDED.name,
			web_url = EXCLUDED.web_url,
			size = EXCLUDED.size;
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.RequestID, string(a.Kind), a.Backend, a.RemoteID, a.Name, a.WebURL, a.Size, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteByRemoteID removes the rows for a stored object and reports how many
// were removed. Zero is not an error: files uploaded before the ledger
// existed have no row.
func (r *PostgresRepository) DeleteByRemoteID(ctx context.Context, backend, remoteID string) (int64, error) {
	query := `DELETE FROM attachments WHERE backend=$1 AND remote_id=$2`
	res, err := r.db.ExecContext(ctx, query, backend, remoteID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete attachment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

// ListByRequest returns the request's attachments, oldest first.
func (r *PostgresRepository) ListByRequest(ctx context.Context, requestID string) ([]*models.Attachment, error) {
	query := `SELECT id, request_id, kind, backend, remote_id, name, web_url, size, created_at
		FROM attachments
		WHERE request_id=$1
		ORDER BY created_at, name`

	rows, err := r.db.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to select attachments: %w", err)
	}
	defer rows.Close()

	var result []*models.Attachment
	for rows.Next() {
		var item models.Attachment
		var kind string
		if err := rows.Scan(&item.ID, &item.RequestID, &kind, &item.Backend, &item.RemoteID,
			&item.Name, &item.WebURL, &item.Size, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.Kind = models.AttachmentKind(kind)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
