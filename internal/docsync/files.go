package docsync

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gestiongasto/internal/common"
	"github.com/dmitrijs2005/gestiongasto/internal/models"
	"github.com/dmitrijs2005/gestiongasto/internal/pathx"
)

// ListFiles lists the children of folderPath with thumbnails when available.
func (s *Service) ListFiles(ctx context.Context, folderPath string) ([]models.RemoteFile, error) {
	if err := s.requireSite(); err != nil {
		return nil, err
	}

	items, err := s.remote.ListChildrenByPath(ctx, s.siteID, pathx.EncodePath(folderPath))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", pathx.Clean(folderPath), err)
	}
	return toRemoteFiles(items), nil
}

// GetFile fetches a file by id. The thumbnail is best-effort.
func (s *Service) GetFile(ctx context.Context, id string) (*models.RemoteFile, error) {
	if err := s.requireSite(); err != nil {
		return nil, err
	}

	if err := checkItemID(id); err != nil {
		return nil, err
	}

	item, err := s.remote.GetItem(ctx, s.siteID, id)
	if err != nil {
		return nil, fmt.Errorf("get file %s: %w", id, err)
	}

	f := toRemoteFile(*item)
	if url, ok := s.thumbnail(ctx, id); ok {
		f.ThumbnailURL = url
	}
	return &f, nil
}

func (s *Service) thumbnail(ctx context.Context, id string) (string, bool) {
	sets, err := s.remote.GetThumbnails(ctx, s.siteID, id)
	if err != nil {
		s.logger.Debug(ctx, "thumbnail unavailable", "id", id, "error", err)
		return "", false
	}
	if len(sets) == 0 {
		return "", false
	}
	url := sets[0].BestURL()
	return url, url != ""
}

// DeleteFile removes a file for good; there is no trash at this layer.
func (s *Service) DeleteFile(ctx context.Context, id string) error {
	if err := s.requireSite(); err != nil {
		return err
	}

	if err := checkItemID(id); err != nil {
		return err
	}

	if err := s.remote.DeleteItem(ctx, s.siteID, id); err != nil {
		s.logger.Error(ctx, "delete failed", "id", id, "error", err)
		return fmt.Errorf("delete file %s: %w", id, err)
	}
	s.logger.Info(ctx, "file deleted", "id", id)
	return nil
}

// Drive item ids are opaque single tokens; anything path-like is refused
// before it reaches the request URL.
func checkItemID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\?#`) {
		return fmt.Errorf("%w: %q", common.ErrInvalidItemID, id)
	}
	return nil
}
