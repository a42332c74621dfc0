package application

import (
	"context"

	"github.com/devbush/vidtrans/internal/ports"
)

// ScreenshotStats holds evidence directory statistics
type ScreenshotStats struct {
	Dir       string
	ItemCount int
	TotalSize int64
}

// ScreenshotService manages the generated evidence directory
type ScreenshotService struct {
	store ports.EvidenceStore
}

// NewScreenshotService creates a new screenshot service
func NewScreenshotService(store ports.EvidenceStore) *ScreenshotService {
	return &ScreenshotService{store: store}
}

// Stats returns evidence directory statistics
func (s *ScreenshotService) Stats(ctx context.Context) (*ScreenshotStats, error) {
	count, size, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &ScreenshotStats{
		Dir:       s.store.Dir(),
		ItemCount: count,
		TotalSize: size,
	}, nil
}

// Clear removes generated images and reports
func (s *ScreenshotService) Clear(ctx context.Context) (int, error) {
	return s.store.Clear(ctx)
}
