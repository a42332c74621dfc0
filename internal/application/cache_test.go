package application

import (
	"context"
	"errors"
	"testing"
)

func TestScreenshotService_Stats(t *testing.T) {
	store := &mockEvidenceStore{
		itemCount: 5,
		totalSize: 1024 * 1024 * 10, // 10MB
	}
	svc := NewScreenshotService(store)

	ctx := context.Background()
	stats, err := svc.Stats(ctx)

	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if stats.ItemCount != 5 {
		t.Errorf("ItemCount = %d, want 5", stats.ItemCount)
	}

	if stats.TotalSize != 1024*1024*10 {
		t.Errorf("TotalSize = %d, want %d", stats.TotalSize, 1024*1024*10)
	}

	if stats.Dir != "/shots" {
		t.Errorf("Dir = %s, want /shots", stats.Dir)
	}
}

func TestScreenshotService_Stats_Error(t *testing.T) {
	expectedErr := errors.New("failed to get stats")
	svc := NewScreenshotService(&mockEvidenceStore{statsErr: expectedErr})

	_, err := svc.Stats(context.Background())

	if err == nil {
		t.Fatal("Stats() expected error, got nil")
	}

	if err != expectedErr {
		t.Errorf("Stats() error = %v, want %v", err, expectedErr)
	}
}

func TestScreenshotService_Clear(t *testing.T) {
	svc := NewScreenshotService(&mockEvidenceStore{clearedCount: 3})

	count, err := svc.Clear(context.Background())

	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	if count != 3 {
		t.Errorf("Clear() = %d, want 3", count)
	}
}

func TestScreenshotService_Clear_Error(t *testing.T) {
	expectedErr := errors.New("failed to clear")
	svc := NewScreenshotService(&mockEvidenceStore{clearErr: expectedErr})

	_, err := svc.Clear(context.Background())

	if err != expectedErr {
		t.Errorf("Clear() error = %v, want %v", err, expectedErr)
	}
}
