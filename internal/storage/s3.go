// Package storage uploads images to an S3-compatible object store.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopnest/shopnest-be/internal/config"
)

// Uploader is the file-object-storage collaborator used by the resource
// handlers for image attachments.
type Uploader interface {
	Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (string, error)
	Replace(ctx context.Context, oldURL, folder, filename, contentType string, body io.Reader) (string, error)
}

// S3Storage uploads objects to a single bucket and serves them from a
// public base URL.
type S3Storage struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// New builds an S3 client from static credentials. A custom endpoint
// supports S3-compatible stores such as MinIO.
func New(ctx context.Context, cfg config.S3Config) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// Upload stores the object under a fresh random key inside folder and
// returns its public URL.
func (s *S3Storage) Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (string, error) {
	key := objectKey(folder, filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return s.publicBaseURL + "/" + key, nil
}

// Replace uploads the new object, then deletes the object behind oldURL.
// A failed delete only logs; the new upload already succeeded and the
// orphaned object is harmless.
func (s *S3Storage) Replace(ctx context.Context, oldURL, folder, filename, contentType string, body io.Reader) (string, error) {
	url, err := s.Upload(ctx, folder, filename, contentType, body)
	if err != nil {
		return "", err
	}

	if oldKey := s.keyFromURL(oldURL); oldKey != "" {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(oldKey),
		})
		if err != nil {
			log.Warn().Err(err).Str("key", oldKey).Msg("Failed to delete replaced object")
		}
	}

	return url, nil
}

func (s *S3Storage) keyFromURL(url string) string {
	if url == "" || !strings.HasPrefix(url, s.publicBaseURL+"/") {
		return ""
	}
	return strings.TrimPrefix(url, s.publicBaseURL+"/")
}

// objectKey builds a collision-free key, keeping the original extension
// and bucketing by date for easier housekeeping.
func objectKey(folder, filename string) string {
	d := time.Now()
	return fmt.Sprintf("%s/%d/%02d/%v%s", folder, d.Year(), d.Month(), uuid.New(), path.Ext(filename))
}
