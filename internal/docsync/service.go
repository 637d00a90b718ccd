// Package docsync keeps request attachments in a SharePoint document library.
//
// A Service is bound to one access token and, after Init, to one site. It
// lays files out as base/YYYY/MM[/entity]/<timestamp>-<name>, creating
// missing folders segment by segment, and can later find an entity's folder
// without knowing the month it was created in.
//
// Services are cheap to build and hold no state besides the resolved site
// id; recreate one whenever the access token changes.
package docsync

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gestiongasto/internal/common"
	"github.com/dmitrijs2005/gestiongasto/internal/graph"
	"github.com/dmitrijs2005/gestiongasto/internal/logging"
	"github.com/dmitrijs2005/gestiongasto/internal/models"
)

// Remote is the subset of the Graph API the service needs. *graph.Client
// implements it. Paths are already encoded.
type Remote interface {
	SearchSites(ctx context.Context, query string) ([]graph.Site, error)
	GetItemByPath(ctx context.Context, siteID, encodedPath string) (*graph.DriveItem, error)
	CreateFolder(ctx context.Context, siteID, encodedParent, name string) (*graph.DriveItem, error)
	PutContent(ctx context.Context, siteID, encodedPath string, content []byte) (*graph.DriveItem, error)
	GetItem(ctx context.Context, siteID, itemID string) (*graph.DriveItem, error)
	GetThumbnails(ctx context.Context, siteID, itemID string) ([]graph.ThumbnailSet, error)
	ListChildrenByPath(ctx context.Context, siteID, encodedPath string) ([]graph.DriveItem, error)
	ListChildren(ctx context.Context, siteID, itemID string) ([]graph.DriveItem, error)
	SearchItems(ctx context.Context, siteID, encodedFolder, query string) ([]graph.DriveItem, error)
	DeleteItem(ctx context.Context, siteID, itemID string) error
}

// now is a seam for tests.
var now = time.Now

type Service struct {
	remote   Remote
	siteName string
	siteID   string
	logger   logging.Logger
}

// New builds a service talking to Microsoft Graph with accessToken.
func New(accessToken, siteName string, l logging.Logger, opts ...graph.Option) *Service {
	return NewWithRemote(graph.NewClient(accessToken, opts...), siteName, l)
}

// NewWithRemote builds a service over an arbitrary Remote.
func NewWithRemote(remote Remote, siteName string, l logging.Logger) *Service {
	if siteName == "" {
		siteName = common.DefaultSiteName
	}
	return &Service{
		remote:   remote,
		siteName: siteName,
		logger:   l.With("module", "docsync", "site", siteName),
	}
}

// Init resolves the configured site name to a site id. It must succeed
// before any other call. A missing site is a configuration problem and is
// returned as common.ErrSiteNotFound; it is not retried.
func (s *Service) Init(ctx context.Context) error {
	if s.siteID != "" {
		s.logger.Warn(ctx, "init called twice, keeping existing binding", "site_id", s.siteID)
		return nil
	}

	sites, err := s.remote.SearchSites(ctx, s.siteName)
	if err != nil {
		s.logger.Error(ctx, "site lookup failed", "error", err)
		return fmt.Errorf("search site %q: %w", s.siteName, err)
	}
	if len(sites) == 0 {
		return fmt.Errorf("%w: %q", common.ErrSiteNotFound, s.siteName)
	}

	s.siteID = sites[0].ID
	s.logger = s.logger.With("site_id", s.siteID)
	s.logger.Info(ctx, "site resolved")
	return nil
}

// SiteID returns the bound site id, empty before Init.
func (s *Service) SiteID() string {
	return s.siteID
}

func (s *Service) requireSite() error {
	if s.siteID == "" {
		return common.ErrNotInitialized
	}
	return nil
}

func toRemoteFile(item graph.DriveItem) models.RemoteFile {
	f := models.RemoteFile{
		ID:          item.ID,
		Name:        item.Name,
		WebURL:      item.WebURL,
		DownloadURL: item.DownloadURL,
		Size:        item.Size,
		CreatedAt:   item.CreatedDateTime,
		MimeType:    item.MimeType(),
	}
	f.IsImage = models.ImageFlag(f.MimeType)
	if len(item.Thumbnails) > 0 {
		f.ThumbnailURL = item.Thumbnails[0].BestURL()
	}
	return f
}

func toRemoteFiles(items []graph.DriveItem) []models.RemoteFile {
	out := make([]models.RemoteFile, 0, len(items))
	for _, it := range items {
		out = append(out, toRemoteFile(it))
	}
	return out
}
