// Package objectstore stores request attachments in an S3-compatible bucket
// (MinIO in development) with the same folder layout as the SharePoint
// backend. Folders are key prefixes marked by zero-byte "prefix/" objects;
// file ids are object keys; download URLs are presigned GETs.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrijs2005/gestiongasto/internal/common"
	"github.com/dmitrijs2005/gestiongasto/internal/logging"
)

const DefaultPresignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	// now is a seam for tests.
	now = time.Now
)

// API is the part of *s3.Client the store calls.
type API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Presigner is the part of *s3.PresignClient the store calls.
type Presigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type Config struct {
	Bucket        string
	Region        string
	AccessKey     string
	SecretKey     string
	Endpoint      string
	PresignExpiry time.Duration
}

type S3Store struct {
	api     API
	presign Presigner
	bucket  string
	expiry  time.Duration
	logger  logging.Logger
}

// New builds a store from static credentials. An empty Endpoint means AWS;
// anything else is treated as a MinIO-style endpoint with path-style keys.
func New(ctx context.Context, cfg Config, l logging.Logger) (*S3Store, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewWithClients(client, s3.NewPresignClient(client), cfg.Bucket, cfg.PresignExpiry, l), nil
}

func NewWithClients(api API, presign Presigner, bucket string, expiry time.Duration, l logging.Logger) *S3Store {
	if expiry <= 0 {
		expiry = DefaultPresignExpiry
	}
	return &S3Store{
		api:     api,
		presign: presign,
		bucket:  bucket,
		expiry:  expiry,
		logger:  l.With("module", "objectstore", "bucket", bucket),
	}
}

func (s *S3Store) downloadURL(ctx context.Context, key string) string {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		s.logger.Warn(ctx, "presign failed", "key", key, "error", err)
		return ""
	}
	return req.URL
}

func (s *S3Store) exists(ctx context.Context, key string) (*s3.HeadObjectOutput, bool, error) {
	out, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return out, true, nil
	}
	if isNotFound(err) {
		return nil, false, nil
	}
	return nil, false, err
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	var nsk *types.NoSuchKey
	if errors.As(err, &nf) || errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}

func notFound(key string) error {
	return fmt.Errorf("%w: %s", common.ErrorNotFound, key)
}
