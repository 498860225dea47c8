package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/deividastamosaitis/objektai/config"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MediaService stores job photos and videos in object storage. Objects are
// grouped per job; the browser loads them straight from the public URL.
type MediaService struct {
	client *minio.Client
	bucket string
	config *config.MinioConfig
}

func NewMediaService(cfg *config.MinioConfig) (*MediaService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MediaService{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *MediaService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// UploadJobMedia stores one uploaded file under the job's prefix and returns
// its public URL. The original filename is kept for readability; a random
// prefix avoids collisions between same-named uploads.
func (s *MediaService) UploadJobMedia(ctx context.Context, jobID string, header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	name := filepath.Base(header.Filename)
	objectName := fmt.Sprintf("jobs/%s/%s-%s", jobID, uuid.New().String()[:8], name)

	_, err = s.client.PutObject(ctx, s.bucket, objectName, file, header.Size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload media: %w", err)
	}

	return s.PublicURL(objectName), nil
}

// DeleteObject removes a stored media object.
func (s *MediaService) DeleteObject(ctx context.Context, objectName string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}
	return nil
}

// PublicURL returns the browsable URL for an object (bucket policy permits
// anonymous reads for job media).
func (s *MediaService) PublicURL(objectName string) string {
	protocol := "http"
	if s.config.UseSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.config.Endpoint, s.bucket, objectName)
}

// ObjectNameFromURL recovers the object name from a public URL produced by
// PublicURL, or "" when the URL points elsewhere.
func (s *MediaService) ObjectNameFromURL(url string) string {
	marker := fmt.Sprintf("/%s/", s.bucket)
	idx := strings.Index(url, marker)
	if idx < 0 {
		return ""
	}
	return url[idx+len(marker):]
}
