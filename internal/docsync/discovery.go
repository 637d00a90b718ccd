package docsync

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gestiongasto/internal/common"
	"github.com/dmitrijs2005/gestiongasto/internal/graph"
	"github.com/dmitrijs2005/gestiongasto/internal/models"
	"github.com/dmitrijs2005/gestiongasto/internal/pathx"
)

// FindFolderForEntity looks below basePath for the entity's folder without
// knowing its year/month. "Solicitud-{id}" wins over the legacy "{id}" (or
// any folder whose name contains the id).
//
// Search failures count as "not found"; the error return is reserved for
// misuse (uninitialized service, unusable entity id).
func (s *Service) FindFolderForEntity(ctx context.Context, entityID, basePath string) (string, bool, error) {
	if err := s.requireSite(); err != nil {
		return "", false, err
	}
	if entityID == "" {
		return "", false, fmt.Errorf("%w: empty", common.ErrInvalidEntityID)
	}
	if err := pathx.ValidateEntityID(entityID); err != nil {
		return "", false, err
	}

	base := pathx.EncodePath(basePath)
	preferred := common.EntityFolderPrefix + entityID

	items, err := s.remote.SearchItems(ctx, s.siteID, base, preferred)
	if err != nil {
		s.logger.Warn(ctx, "entity folder search failed", "entity_id", entityID, "error", err)
		return "", false, nil
	}
	if id, ok := firstFolder(items, func(name string) bool { return name == preferred }); ok {
		return id, true, nil
	}

	items, err = s.remote.SearchItems(ctx, s.siteID, base, entityID)
	if err != nil {
		s.logger.Warn(ctx, "legacy entity folder search failed", "entity_id", entityID, "error", err)
		return "", false, nil
	}
	id, ok := firstFolder(items, func(name string) bool {
		return name == entityID || name == preferred || strings.Contains(name, entityID)
	})
	if !ok {
		s.logger.Debug(ctx, "entity folder not found", "entity_id", entityID)
	}
	return id, ok, nil
}

func firstFolder(items []graph.DriveItem, match func(string) bool) (string, bool) {
	for _, it := range items {
		if it.IsFolder() && match(it.Name) {
			return it.ID, true
		}
	}
	return "", false
}

// ListFilesForEntity lists the files in the entity's folder, or nothing when
// the folder cannot be found or listed.
func (s *Service) ListFilesForEntity(ctx context.Context, entityID, basePath string) ([]models.RemoteFile, error) {
	folderID, ok, err := s.FindFolderForEntity(ctx, entityID, basePath)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.RemoteFile{}, nil
	}

	items, err := s.remote.ListChildren(ctx, s.siteID, folderID)
	if err != nil {
		s.logger.Warn(ctx, "entity folder listing failed", "entity_id", entityID, "folder_id", folderID, "error", err)
		return []models.RemoteFile{}, nil
	}
	return toRemoteFiles(items), nil
}
