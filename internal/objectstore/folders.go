package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/gestiongasto/internal/common"
	"github.com/dmitrijs2005/gestiongasto/internal/pathx"
)

func folderKey(logical string) string {
	if logical == "" {
		return ""
	}
	return logical + "/"
}

// CreateFolderIfNotExists writes a marker object for every missing prefix
// of folderPath.
func (s *S3Store) CreateFolderIfNotExists(ctx context.Context, folderPath string) error {
	logical := pathx.Clean(folderPath)
	if logical == "" {
		return nil
	}

	_, ok, err := s.exists(ctx, folderKey(logical))
	if err != nil {
		return fmt.Errorf("%w at %s: %w", common.ErrFolderCreation, logical, err)
	}
	if ok {
		return nil
	}

	segs := pathx.Segments(logical)
	for i := range segs {
		current := strings.Join(segs[:i+1], "/")

		_, ok, err := s.exists(ctx, folderKey(current))
		if err != nil {
			return fmt.Errorf("%w at %s: %w", common.ErrFolderCreation, current, err)
		}
		if ok {
			continue
		}

		_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(s.bucket),
			Key:           aws.String(folderKey(current)),
			Body:          bytes.NewReader(nil),
			ContentLength: aws.Int64(0),
		})
		if err != nil {
			s.logger.Error(ctx, "folder marker failed", "path", current, "error", err)
			return fmt.Errorf("%w at %s: %w", common.ErrFolderCreation, current, err)
		}
		s.logger.Info(ctx, "folder created", "path", current)
	}
	return nil
}

// children lists the direct sub-prefixes and objects of a folder. The
// folder's own marker is skipped.
func (s *S3Store) children(ctx context.Context, logical string) ([]string, []objectInfo, error) {
	prefix := folderKey(logical)
	p := s3.NewListObjectsV2Paginator(s.api, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	var folders []string
	var objects []objectInfo
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, nil, err
		}
		for _, cp := range page.CommonPrefixes {
			folders = append(folders, aws.ToString(cp.Prefix))
		}
		for _, o := range page.Contents {
			key := aws.ToString(o.Key)
			if key == prefix {
				continue
			}
			objects = append(objects, objectInfo{
				key:      key,
				size:     aws.ToInt64(o.Size),
				modified: aws.ToTime(o.LastModified),
			})
		}
	}
	return folders, objects, nil
}
