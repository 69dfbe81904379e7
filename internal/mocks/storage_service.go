package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"retrouvaille/internal/domain"
)

type StorageService struct {
	mock.Mock
}

func (m *StorageService) Upload(ctx context.Context, ownerID uuid.UUID, fileName string, fileSize int64, mimeType string, reader io.Reader) (domain.Image, error) {
	args := m.Called(ctx, ownerID, fileName, fileSize, mimeType, reader)
	return args.Get(0).(domain.Image), args.Error(1)
}

func (m *StorageService) Delete(ctx context.Context, storagePath string) error {
	args := m.Called(ctx, storagePath)
	return args.Error(0)
}
