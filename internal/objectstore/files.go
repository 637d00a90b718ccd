package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"

	"github.com/dmitrijs2005/gestiongasto/internal/common"
	"github.com/dmitrijs2005/gestiongasto/internal/models"
	"github.com/dmitrijs2005/gestiongasto/internal/pathx"
)

type objectInfo struct {
	key      string
	size     int64
	modified time.Time
	mimeType string
}

func (s *S3Store) toRemoteFile(ctx context.Context, o objectInfo) models.RemoteFile {
	if o.mimeType == "" {
		o.mimeType = mime.TypeByExtension(path.Ext(o.key))
	}
	return models.RemoteFile{
		ID:          o.key,
		Name:        path.Base(o.key),
		WebURL:      "s3://" + s.bucket + "/" + o.key,
		DownloadURL: s.downloadURL(ctx, o.key),
		Size:        o.size,
		CreatedAt:   o.modified,
		MimeType:    o.mimeType,
		IsImage:     models.ImageFlag(o.mimeType),
	}
}

func folderEntry(prefix string) models.RemoteFile {
	return models.RemoteFile{
		ID:   prefix,
		Name: path.Base(strings.TrimSuffix(prefix, "/")),
	}
}

// UploadFile stores content under basePath/YYYY/MM[/entityID] with a fresh
// timestamp prefix. The content type is sniffed from the bytes.
func (s *S3Store) UploadFile(ctx context.Context, content io.Reader, filename, basePath, entityID string) (*models.RemoteFile, error) {
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

	data, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("%w %s: read content: %w", common.ErrUpload, name, err)
	}

	key := pathx.Clean(folder) + "/" + pathx.TimestampedName(name, t)
	contentType := mimetype.Detect(data).String()

	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		s.logger.Error(ctx, "upload failed", "key", key, "error", err)
		return nil, fmt.Errorf("%w %s: %w", common.ErrUpload, key, err)
	}

	s.logger.Info(ctx, "file uploaded", "key", key, "size", len(data), "content_type", contentType)

	f := s.toRemoteFile(ctx, objectInfo{key: key, size: int64(len(data)), modified: t, mimeType: contentType})
	return &f, nil
}

// UploadMultipleFiles uploads sequentially and keeps going past failures.
func (s *S3Store) UploadMultipleFiles(ctx context.Context, files []models.Upload, basePath, entityID string) *models.BatchResult {
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
	return res
}

// ListFiles returns sub-folders first, then objects, in key order.
func (s *S3Store) ListFiles(ctx context.Context, folderPath string) ([]models.RemoteFile, error) {
	logical := pathx.Clean(folderPath)

	folders, objects, err := s.children(ctx, logical)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", logical, err)
	}

	if len(folders) == 0 && len(objects) == 0 && logical != "" {
		_, ok, err := s.exists(ctx, folderKey(logical))
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", logical, err)
		}
		if !ok {
			return nil, notFound(logical)
		}
	}

	out := make([]models.RemoteFile, 0, len(folders)+len(objects))
	for _, p := range folders {
		out = append(out, folderEntry(p))
	}
	for _, o := range objects {
		out = append(out, s.toRemoteFile(ctx, o))
	}
	return out, nil
}

// GetFile looks up an object by key.
func (s *S3Store) GetFile(ctx context.Context, id string) (*models.RemoteFile, error) {
	head, ok, err := s.exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get file %s: %w", id, err)
	}
	if !ok {
		return nil, notFound(id)
	}

	f := s.toRemoteFile(ctx, objectInfo{
		key:      id,
		size:     aws.ToInt64(head.ContentLength),
		modified: aws.ToTime(head.LastModified),
		mimeType: aws.ToString(head.ContentType),
	})
	return &f, nil
}

// DeleteFile removes an object. Deleting a missing key reports not found
// even though S3 itself would succeed silently.
func (s *S3Store) DeleteFile(ctx context.Context, id string) error {
	_, ok, err := s.exists(ctx, id)
	if err != nil {
		return fmt.Errorf("delete file %s: %w", id, err)
	}
	if !ok {
		return notFound(id)
	}

	_, err = s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		s.logger.Error(ctx, "delete failed", "key", id, "error", err)
		return fmt.Errorf("delete file %s: %w", id, err)
	}
	s.logger.Info(ctx, "file deleted", "key", id)
	return nil
}
