package objectstore

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/dmitrijs2005/gestiongasto/internal/common"
	"github.com/dmitrijs2005/gestiongasto/internal/models"
	"github.com/dmitrijs2005/gestiongasto/internal/pathx"
)

// entityFolders walks base/YYYY/MM/ and returns every third-level prefix.
func (s *S3Store) entityFolders(ctx context.Context, base string) ([]string, error) {
	level := []string{folderKey(base)}
	for depth := 0; depth < 3; depth++ {
		var next []string
		for _, prefix := range level {
			folders, _, err := s.children(ctx, strings.TrimSuffix(prefix, "/"))
			if err != nil {
				return nil, err
			}
			next = append(next, folders...)
		}
		level = next
	}
	return level, nil
}

// FindFolderForEntity scans the year/month folders below basePath.
// "Solicitud-{id}" wins over "{id}" and over any folder containing the id.
// Listing failures read as "not found".
func (s *S3Store) FindFolderForEntity(ctx context.Context, entityID, basePath string) (string, bool, error) {
	if entityID == "" {
		return "", false, fmt.Errorf("%w: empty", common.ErrInvalidEntityID)
	}
	if err := pathx.ValidateEntityID(entityID); err != nil {
		return "", false, err
	}

	prefixes, err := s.entityFolders(ctx, pathx.Clean(basePath))
	if err != nil {
		s.logger.Warn(ctx, "entity folder scan failed", "entity_id", entityID, "error", err)
		return "", false, nil
	}

	preferred := common.EntityFolderPrefix + entityID
	var fallback string
	for _, p := range prefixes {
		name := path.Base(strings.TrimSuffix(p, "/"))
		if name == preferred {
			return p, true, nil
		}
		if fallback == "" && (name == entityID || strings.Contains(name, entityID)) {
			fallback = p
		}
	}
	return fallback, fallback != "", nil
}

// ListFilesForEntity lists the entity folder, or nothing when there is none.
func (s *S3Store) ListFilesForEntity(ctx context.Context, entityID, basePath string) ([]models.RemoteFile, error) {
	prefix, ok, err := s.FindFolderForEntity(ctx, entityID, basePath)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.RemoteFile{}, nil
	}

	files, err := s.ListFiles(ctx, prefix)
	if err != nil {
		s.logger.Warn(ctx, "entity folder listing failed", "entity_id", entityID, "error", err)
		return []models.RemoteFile{}, nil
	}
	return files, nil
}
