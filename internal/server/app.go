// Package server wires configuration, storage backends and the HTTP API
// together and runs them until the process is signalled to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gestiongasto/internal/docsync"
	"github.com/dmitrijs2005/gestiongasto/internal/graph"
	"github.com/dmitrijs2005/gestiongasto/internal/logging"
	"github.com/dmitrijs2005/gestiongasto/internal/objectstore"
	"github.com/dmitrijs2005/gestiongasto/internal/server/config"
	"github.com/dmitrijs2005/gestiongasto/internal/server/httpserver"
	"github.com/dmitrijs2005/gestiongasto/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gestiongasto/internal/server/services"
	"github.com/dmitrijs2005/gestiongasto/internal/server/sessions"
)

var (
	_ services.FileStore = (*docsync.Service)(nil)
	_ services.FileStore = (*objectstore.S3Store)(nil)
)

// test seams
var (
	openDB     = repomanager.Open
	newS3Store = objectstore.New
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	attachments *services.AttachmentService
	stores      *sessions.Registry
}

// ParseLevel maps a textual level ("debug", "info", "warn", "error") to slog.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", s, err)
	}
	return lvl, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	lvl, err := ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewJSONLogger(os.Stdout, lvl)

	return newApp(ctx, c, logger)
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger}

	var ledger services.Ledger
	if c.DatabaseDSN != "" {
		db, err := openDB(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm := repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
		app.db = db
		ledger = services.NewPostgresLedger(db, rm)
	} else {
		logger.Warn(ctx, "database dsn not set, attachment ledger disabled")
	}

	factory, err := storeFactory(ctx, c, logger)
	if err != nil {
		app.close()
		return nil, err
	}

	folders := services.Folders{Request: c.BaseFolder, Invoice: c.InvoicesFolder}
	app.attachments = services.NewAttachmentService(folders, c.Backend, ledger, logger)
	app.stores = sessions.NewRegistry(factory, sessions.DefaultTTL, logger)

	return app, nil
}

// storeFactory returns how a session obtains its FileStore. SharePoint
// sessions resolve the site with the caller's token; the S3 backend shares
// one store built from server credentials.
func storeFactory(ctx context.Context, c *config.Config, logger logging.Logger) (sessions.Factory, error) {
	switch c.Backend {
	case config.BackendS3:
		store, err := newS3Store(ctx, objectstore.Config{
			Bucket:        c.S3Bucket,
			Region:        c.S3Region,
			AccessKey:     c.S3RootUser,
			SecretKey:     c.S3RootPassword,
			Endpoint:      c.S3BaseEndpoint,
			PresignExpiry: c.S3PresignExpiry,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
		return func(context.Context, string) (services.FileStore, error) {
			return store, nil
		}, nil

	case config.BackendSharePoint:
		return func(ctx context.Context, token string) (services.FileStore, error) {
			svc := docsync.New(token, c.SiteName, logger,
				graph.WithBaseURL(c.GraphBaseURL),
				graph.WithTimeout(c.GraphTimeout),
			)
			if err := svc.Init(ctx); err != nil {
				return nil, err
			}
			return svc, nil
		}, nil
	}

	return nil, fmt.Errorf("unknown backend %q", c.Backend)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpserver.NewServer(app.config.HTTPAddr, app.logger, app.attachments, app.stores)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) close() {
	if app.db != nil {
		_ = app.db.Close()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.HTTPAddr, "backend", app.config.Backend)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.close()

	app.logger.Info(context.Background(), "app stopped")
}
