package ports

import (
	"context"

	"github.com/devbush/vidtrans/internal/domain"
)

// EvidenceStore manages the screenshot output directory, where evidence
// images and reports are written.
type EvidenceStore interface {
	// Dir returns the output directory path.
	Dir() string

	// Path returns the full path of a file inside the output directory.
	Path(name string) string

	// WriteFile replaces a file in the output directory with data. A failed
	// write leaves no partial file.
	WriteFile(name string, data []byte) error

	// Exists reports whether a file is present in the output directory.
	Exists(name string) bool

	// Clear removes generated images and reports and returns the count removed.
	Clear(ctx context.Context) (int, error)

	// Stats returns the number of evidence images and total size in bytes.
	Stats(ctx context.Context) (itemCount int, totalSize int64, err error)
}

// TranscriptKey identifies one version of a subtitle file on disk.
type TranscriptKey struct {
	Path    string
	ModTime int64 // unix nanoseconds
	Size    int64
}

// TranscriptCache holds parsed transcripts in memory between searches.
type TranscriptCache interface {
	Get(key TranscriptKey) (*domain.Transcript, bool)
	Add(key TranscriptKey, transcript *domain.Transcript)
	Len() int
	Purge()
}
