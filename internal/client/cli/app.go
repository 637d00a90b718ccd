package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/gestiongasto/internal/client/config"
	"github.com/dmitrijs2005/gestiongasto/internal/docsync"
	"github.com/dmitrijs2005/gestiongasto/internal/graph"
	"github.com/dmitrijs2005/gestiongasto/internal/logging"
	"github.com/dmitrijs2005/gestiongasto/internal/models"
)

// Store is the part of docsync.Service the commands use.
type Store interface {
	UploadMultipleFiles(ctx context.Context, files []models.Upload, basePath, entityID string) *models.BatchResult
	ListFiles(ctx context.Context, folderPath string) ([]models.RemoteFile, error)
	GetFile(ctx context.Context, id string) (*models.RemoteFile, error)
	DeleteFile(ctx context.Context, id string) error
	CreateFolderIfNotExists(ctx context.Context, folderPath string) error
	FindFolderForEntity(ctx context.Context, entityID, basePath string) (string, bool, error)
	ListFilesForEntity(ctx context.Context, entityID, basePath string) ([]models.RemoteFile, error)
}

var _ Store = (*docsync.Service)(nil)

var errNoToken = errors.New("no access token given")

// test seams
var (
	openFile = func(name string) (io.ReadCloser, error) { return os.Open(name) }
	newStore = func(ctx context.Context, cfg *config.Config, l logging.Logger) (Store, error) {
		svc := docsync.New(cfg.Token, cfg.SiteName, l,
			graph.WithBaseURL(cfg.GraphBaseURL),
			graph.WithTimeout(cfg.GraphTimeout),
		)
		if err := svc.Init(ctx); err != nil {
			return nil, err
		}
		return svc, nil
	}
)

type App struct {
	config *config.Config
	store  Store
	logger logging.Logger
	reader *bufio.Reader
	out    io.Writer
}

// NewApp resolves the access token, prompting for it when none was
// configured, and binds a store to the configured site.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out io.Writer) (*App, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	logger := logging.NewTextLogger(os.Stderr, lvl)

	if c.Token == "" {
		tok, err := GetToken(out)
		if err != nil {
			return nil, fmt.Errorf("read token: %w", err)
		}
		c.Token = tok
	}
	if c.Token == "" {
		return nil, errNoToken
	}

	store, err := newStore(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		config: c,
		store:  store,
		logger: logger,
		reader: bufio.NewReader(in),
		out:    out,
	}, nil
}
