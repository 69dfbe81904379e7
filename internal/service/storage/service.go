package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"retrouvaille/internal/config"
	"retrouvaille/internal/domain"
)

// Service is the blob storage collaborator for declaration images.
type Service interface {
	Upload(ctx context.Context, ownerID uuid.UUID, fileName string, fileSize int64, mimeType string, reader io.Reader) (domain.Image, error)
	Delete(ctx context.Context, storagePath string) error
}

type service struct {
	minioClient *minio.Client
	cfg         *config.Config
}

func NewService(minioClient *minio.Client, cfg *config.Config) Service {
	return &service{
		minioClient: minioClient,
		cfg:         cfg,
	}
}

func (s *service) Upload(ctx context.Context, ownerID uuid.UUID, fileName string, fileSize int64, mimeType string, reader io.Reader) (domain.Image, error) {
	if s.minioClient == nil {
		return domain.Image{}, fmt.Errorf("%w: storage not configured", domain.ErrStorageFailure)
	}

	storagePath := fmt.Sprintf("declarations/%s/%s/%s", ownerID, time.Now().Format("2006/01"), uuid.New())

	_, err := s.minioClient.PutObject(ctx, s.cfg.MinIOBucket, storagePath, reader, fileSize, minio.PutObjectOptions{
		ContentType: mimeType,
	})
	if err != nil {
		return domain.Image{}, fmt.Errorf("%w: upload %s: %v", domain.ErrStorageFailure, fileName, err)
	}

	return domain.Image{
		StoragePath: storagePath,
		DownloadURL: s.publicURL(storagePath),
	}, nil
}

func (s *service) Delete(ctx context.Context, storagePath string) error {
	if s.minioClient == nil {
		return fmt.Errorf("%w: storage not configured", domain.ErrStorageFailure)
	}

	err := s.minioClient.RemoveObject(ctx, s.cfg.MinIOBucket, storagePath, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", domain.ErrStorageFailure, storagePath, err)
	}
	return nil
}

func (s *service) publicURL(storagePath string) string {
	scheme := "http"
	if s.cfg.MinIOPublicUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.MinIOPublicEndpoint, s.cfg.MinIOBucket, url.PathEscape(storagePath))
}
