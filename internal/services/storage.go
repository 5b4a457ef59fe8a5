package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"logbiz/recruitment-api/internal/config"
)

// StorageService stores rendered certificate PDFs and uploaded submission
// archives in object storage and returns durable URLs.
type StorageService interface {
	UploadPDF(ctx context.Context, key string, data []byte) (string, error)
	UploadSubmissionFile(ctx context.Context, file *multipart.FileHeader) (string, string, error)
}

type minioStorageService struct {
	client      *minio.Client
	bucket      string
	maxFileSize int64
}

func NewStorageService(cfg config.StorageConfig) (StorageService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &minioStorageService{
		client:      client,
		bucket:      cfg.Bucket,
		maxFileSize: cfg.MaxFileSize,
	}, nil
}

// UploadPDF implements StorageService.
func (s *minioStorageService) UploadPDF(ctx context.Context, key string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/pdf"})
	if err != nil {
		return "", fmt.Errorf("failed to upload PDF: %w", err)
	}

	return s.objectURL(key), nil
}

// UploadSubmissionFile implements StorageService.
func (s *minioStorageService) UploadSubmissionFile(ctx context.Context, file *multipart.FileHeader) (string, string, error) {
	if file.Size > s.maxFileSize {
		return "", "", fmt.Errorf("file too large: %d bytes (max %d)", file.Size, s.maxFileSize)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	key := fmt.Sprintf("submissions/%s%s", uuid.New().String(), ext)

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	_, err = s.client.PutObject(ctx, s.bucket, key, src, file.Size,
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload submission file: %w", err)
	}

	return file.Filename, s.objectURL(key), nil
}

func (s *minioStorageService) objectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), s.bucket, key)
}
