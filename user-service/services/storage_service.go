package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"

	"staffdesk/shared/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageService stores uploaded resumes and profile pictures in MinIO and
// streams them back for the /uploads routes.
type StorageService struct {
	client     *minio.Client
	bucketName string
}

func NewStorageService() (*StorageService, error) {
	cfg := config.GetConfig()

	// Parse endpoint URL to get host
	parsedURL, err := url.Parse(cfg.MinIOServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid MinIO endpoint: %v", err)
	}

	endpoint := parsedURL.Host
	useSSL := cfg.MinIOUseSSL

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIORootUser, cfg.MinIORootPassword, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %v", err)
	}

	service := &StorageService{
		client:     minioClient,
		bucketName: cfg.MinIOBucketName,
	}

	if err := service.initializeBucket(); err != nil {
		return nil, err
	}

	return service, nil
}

func (s *StorageService) initializeBucket() error {
	ctx := context.Background()

	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.Printf("✅ MinIO bucket '%s' created successfully", s.bucketName)
	}

	return nil
}

// UploadObject stores a file under the given object key.
func (s *StorageService) UploadObject(ctx context.Context, objectKey string, file io.Reader, fileSize int64, contentType string) error {
	log.Printf("⬆️ Uploading file to: %s/%s (size: %d bytes)", s.bucketName, objectKey, fileSize)

	_, err := s.client.PutObject(ctx, s.bucketName, objectKey, file, fileSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %v", err)
	}

	return nil
}

// GetObject streams a stored file. The caller closes the reader.
func (s *StorageService) GetObject(ctx context.Context, objectKey string) (io.ReadCloser, *minio.ObjectInfo, error) {
	object, err := s.client.GetObject(ctx, s.bucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open object: %v", err)
	}

	// Stat forces the first round trip so a missing key fails here instead
	// of on the first read.
	info, err := object.Stat()
	if err != nil {
		object.Close()
		return nil, nil, fmt.Errorf("object not found: %v", err)
	}

	return object, &info, nil
}

// RemoveObject deletes a stored file.
func (s *StorageService) RemoveObject(ctx context.Context, objectKey string) error {
	err := s.client.RemoveObject(ctx, s.bucketName, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to remove file: %v", err)
	}
	return nil
}
