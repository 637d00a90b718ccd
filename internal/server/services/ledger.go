package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gestiongasto/internal/dbx"
	"github.com/dmitrijs2005/gestiongasto/internal/models"
	"github.com/dmitrijs2005/gestiongasto/internal/server/repositories/repomanager"
)

// PostgresLedger is the Ledger backed by the attachments table.
type PostgresLedger struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPostgresLedger(db *sql.DB, repomanager repomanager.RepositoryManager) *PostgresLedger {
	return &PostgresLedger{db: db, repomanager: repomanager}
}

// RecordBatch stores all rows in one transaction.
func (l *PostgresLedger) RecordBatch(ctx context.Context, rows []models.Attachment) error {
	if len(rows) == 0 {
		return nil
	}
	err := dbx.WithTx(ctx, l.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := l.repomanager.Attachments(tx)
		for i := range rows {
			if err := repo.Create(ctx, &rows[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error recording attachments: %w", err)
	}
	return nil
}

func (l *PostgresLedger) Forget(ctx context.Context, backend, remoteID string) error {
	_, err := l.repomanager.Attachments(l.db).DeleteByRemoteID(ctx, backend, remoteID)
	return err
}

func (l *PostgresLedger) ListByRequest(ctx context.Context, requestID string) ([]*models.Attachment, error) {
	return l.repomanager.Attachments(l.db).ListByRequest(ctx, requestID)
}
