package cache

import (
	"context"
	"testing"

	"github.com/spf13/afero"

	"github.com/devbush/vidtrans/internal/domain"
	"github.com/devbush/vidtrans/internal/ports"
)

func TestScreenshotStore_WriteExists(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewScreenshotStore(fs, "/shots")

	if store.Exists("a_screenshot_00-00-01.png") {
		t.Fatal("Exists() = true before write")
	}

	if err := store.WriteFile("a_screenshot_00-00-01.png", []byte("png")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if !store.Exists("a_screenshot_00-00-01.png") {
		t.Error("Exists() = false after write")
	}

	_ = store.WriteFile(domain.ReportFilename, []byte("old"))
	if err := store.WriteFile(domain.ReportFilename, []byte("<html></html>")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := afero.ReadFile(fs, "/shots/"+domain.ReportFilename)
	if err != nil || string(data) != "<html></html>" {
		t.Errorf("report contents = %q, err %v", data, err)
	}

	entries, _ := afero.ReadDir(fs, "/shots")
	if len(entries) != 2 {
		t.Errorf("directory holds %d files, want 2 with no temp files left", len(entries))
	}
}

func TestScreenshotStore_WriteFileFailureLeavesNothing(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewScreenshotStore(afero.NewReadOnlyFs(fs), "/shots")
	_ = fs.MkdirAll("/shots", 0755)

	if err := store.WriteFile("a_screenshot_00-00-01.png", []byte("png")); err == nil {
		t.Fatal("WriteFile() on read-only fs should fail")
	}
	if ok, _ := afero.Exists(fs, "/shots/a_screenshot_00-00-01.png"); ok {
		t.Error("failed write left a file behind")
	}
}

func TestScreenshotStore_Stats(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewScreenshotStore(fs, "/shots")
	ctx := context.Background()

	count, size, err := store.Stats(ctx)
	if err != nil || count != 0 || size != 0 {
		t.Fatalf("Stats() on missing dir = %d, %d, %v", count, size, err)
	}

	_ = store.WriteFile("a_screenshot_00-00-01.png", []byte("12345"))
	_ = store.WriteFile("b_screenshot_00-01-00.png", []byte("123"))
	_ = store.WriteFile(domain.ReportFilename, []byte("12"))
	_ = store.WriteFile("notes.txt", []byte("ignored"))

	count, size, err = store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Stats() count = %d, want 2", count)
	}
	if size != 10 {
		t.Errorf("Stats() size = %d, want 10", size)
	}
}

func TestScreenshotStore_Clear(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewScreenshotStore(fs, "/shots")
	ctx := context.Background()

	_ = store.WriteFile("a_screenshot_00-00-01.png", []byte("x"))
	_ = store.WriteFile(domain.ReportFilename, []byte("x"))
	_ = store.WriteFile(domain.DOCXReportFilename, []byte("x"))
	_ = store.WriteFile("keep.png", []byte("x"))

	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if removed != 3 {
		t.Errorf("Clear() = %d, want 3", removed)
	}
	if !store.Exists("keep.png") {
		t.Error("Clear() removed a file it did not generate")
	}
}

func TestScreenshotStore_ClearMissingDir(t *testing.T) {
	store := NewScreenshotStore(afero.NewMemMapFs(), "/nowhere")

	removed, err := store.Clear(context.Background())
	if err != nil || removed != 0 {
		t.Errorf("Clear() = %d, %v, want 0, nil", removed, err)
	}
}

func TestTranscriptCache(t *testing.T) {
	c, err := NewTranscriptCache(2)
	if err != nil {
		t.Fatalf("NewTranscriptCache() error = %v", err)
	}

	k1 := ports.TranscriptKey{Path: "/a.srt", ModTime: 1, Size: 10}
	k2 := ports.TranscriptKey{Path: "/b.srt", ModTime: 1, Size: 10}
	k3 := ports.TranscriptKey{Path: "/c.srt", ModTime: 1, Size: 10}

	c.Add(k1, &domain.Transcript{VideoID: "a"})
	c.Add(k2, &domain.Transcript{VideoID: "b"})

	if got, ok := c.Get(k1); !ok || got.VideoID != "a" {
		t.Errorf("Get(k1) = %v, %v", got, ok)
	}

	// A changed file is a different key
	if _, ok := c.Get(ports.TranscriptKey{Path: "/a.srt", ModTime: 2, Size: 10}); ok {
		t.Error("Get() hit for a modified file")
	}

	c.Add(k3, &domain.Transcript{VideoID: "c"})
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get(k2); ok {
		t.Error("least recently used entry should have been evicted")
	}

	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len() after Purge = %d", c.Len())
	}
}

func TestNewTranscriptCacheDefaultSize(t *testing.T) {
	if _, err := NewTranscriptCache(0); err != nil {
		t.Errorf("NewTranscriptCache(0) error = %v", err)
	}
}
