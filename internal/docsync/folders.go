package docsync

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gestiongasto/internal/common"
	"github.com/dmitrijs2005/gestiongasto/internal/graph"
	"github.com/dmitrijs2005/gestiongasto/internal/pathx"
)

// CreateFolderIfNotExists makes sure every segment of folderPath exists.
//
// The whole path is looked up first; when it exists this costs one round trip.
// Otherwise each prefix is checked and the missing segment created under its
// parent with rename-on-conflict. Ancestors created before a failure are
// left in place, the next call skips them.
func (s *Service) CreateFolderIfNotExists(ctx context.Context, folderPath string) error {
	if err := s.requireSite(); err != nil {
		return err
	}

	logical := pathx.Clean(folderPath)
	if logical == "" {
		return nil
	}

	exists, err := s.folderExists(ctx, logical)
	if err != nil {
		return fmt.Errorf("%w at %s: %w", common.ErrFolderCreation, logical, err)
	}
	if exists {
		s.logger.Debug(ctx, "folder exists", "path", logical)
		return nil
	}

	segs := pathx.Segments(logical)
	for i, name := range segs {
		current := strings.Join(segs[:i+1], "/")

		exists, err := s.folderExists(ctx, current)
		if err != nil {
			return fmt.Errorf("%w at %s: %w", common.ErrFolderCreation, current, err)
		}
		if exists {
			continue
		}

		parent := strings.Join(segs[:i], "/")
		item, err := s.remote.CreateFolder(ctx, s.siteID, pathx.EncodePath(parent), name)
		if err != nil {
			s.logger.Error(ctx, "folder creation failed", "path", current, "error", err)
			return fmt.Errorf("%w at %s: %w", common.ErrFolderCreation, current, err)
		}
		if item.Name != name {
			s.logger.Warn(ctx, "folder renamed by store on conflict", "path", current, "name", item.Name)
		}
		s.logger.Info(ctx, "folder created", "path", current)
	}

	return nil
}

func (s *Service) folderExists(ctx context.Context, logical string) (bool, error) {
	_, err := s.remote.GetItemByPath(ctx, s.siteID, pathx.EncodePath(logical))
	switch {
	case err == nil:
		return true, nil
	case graph.IsNotFound(err):
		return false, nil
	default:
		return false, err
	}
}
