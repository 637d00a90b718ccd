package docsync

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gestiongasto/internal/common"
	"github.com/dmitrijs2005/gestiongasto/internal/models"
	"github.com/dmitrijs2005/gestiongasto/internal/pathx"
)

// UploadFile stores content under basePath/YYYY/MM[/entityID] with a fresh
// timestamp prefix on the (sanitized) file name.
func (s *Service) UploadFile(ctx context.Context, content io.Reader, filename, basePath, entityID string) (*models.RemoteFile, error) {
	if err := s.requireSite(); err != nil {
		return nil, err
	}

	name, err := pathx.SanitizeFileName(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUpload, err)
	}
	if err := pathx.ValidateEntityID(entityID); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUpload, err)
	}

	t := now()
	folder := pathx.BuildNestedPath(basePath, entityID, t)
	if err := s.CreateFolderIfNotExists(ctx, folder); err != nil {
		return nil, fmt.Errorf("%w %s: %w", common.ErrUpload, name, err)
	}

	target := folder + "/" + pathx.TimestampedName(name, t)

	data, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("%w %s: read content: %w", common.ErrUpload, name, err)
	}

	s.logger.Debug(ctx, "uploading", "path", target, "size", len(data))

	item, err := s.remote.PutContent(ctx, s.siteID, pathx.EncodePath(target), data)
	if err != nil {
		s.logger.Error(ctx, "upload failed", "path", target, "error", err)
		return nil, fmt.Errorf("%w %s: %w", common.ErrUpload, target, err)
	}

	s.logger.Info(ctx, "file uploaded", "path", target, "id", item.ID, "size", item.Size)

	f := toRemoteFile(*item)
	return &f, nil
}

// UploadMultipleFiles uploads files one after another. A failing file is
// logged and recorded in the result; the rest still go through.
func (s *Service) UploadMultipleFiles(ctx context.Context, files []models.Upload, basePath, entityID string) *models.BatchResult {
	res := &models.BatchResult{
		Succeeded: make([]models.RemoteFile, 0, len(files)),
		Failed:    []models.UploadFailure{},
	}

	for _, u := range files {
		f, err := s.UploadFile(ctx, u.Content, u.Name, basePath, entityID)
		if err != nil {
			s.logger.Warn(ctx, "batch item failed, continuing", "name", u.Name, "error", err)
			res.Failed = append(res.Failed, models.UploadFailure{Name: u.Name, Error: err.Error()})
			continue
		}
		res.Succeeded = append(res.Succeeded, *f)
	}

	if len(res.Failed) > 0 {
		s.logger.Warn(ctx, "batch upload incomplete", "succeeded", len(res.Succeeded), "failed", len(res.Failed))
	}
	return res
}
