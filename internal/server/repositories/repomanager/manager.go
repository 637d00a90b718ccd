package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gestiongasto/internal/dbx"
	"github.com/dmitrijs2005/gestiongasto/internal/server/repositories/attachments"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Attachments(db dbx.DBTX) attachments.Repository
}
