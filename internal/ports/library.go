package ports

import (
	"context"

	"github.com/devbush/vidtrans/internal/domain"
)

// VideoLibrary is the folder of videos and the subtitle files written next
// to them.
type VideoLibrary interface {
	// Dir returns the library folder.
	Dir() string

	// ListVideos returns the paths of all recognized video files, sorted.
	ListVideos(ctx context.Context) ([]string, error)

	// HasTranscript reports whether an SRT file exists for the video.
	HasTranscript(videoPath string) bool

	// ListTranscripts returns the paths of all SRT files, sorted.
	ListTranscripts(ctx context.Context) ([]string, error)

	// FindVideo returns the video matching a transcript's base name, trying
	// the recognized extensions in order.
	FindVideo(ctx context.Context, videoID string) (string, error)

	// LoadTranscript parses an SRT file.
	LoadTranscript(ctx context.Context, srtPath string) (*domain.Transcript, error)

	// SaveTranscript writes the TXT, SRT and VTT files for a video.
	SaveTranscript(ctx context.Context, videoPath string, transcript *domain.Transcript) error
}
