package library

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/devbush/vidtrans/internal/domain"
	"github.com/devbush/vidtrans/internal/ports"
)

// Store implements ports.VideoLibrary for one flat folder
type Store struct {
	fs        afero.Fs
	dir       string
	legacyVTT bool
	cache     ports.TranscriptCache
}

// Option configures a Store
type Option func(*Store)

// WithLegacyVTT writes WebVTT timestamps with "," as the millisecond separator
func WithLegacyVTT(enabled bool) Option {
	return func(s *Store) { s.legacyVTT = enabled }
}

// WithCache keeps parsed subtitle files in memory
func WithCache(cache ports.TranscriptCache) Option {
	return func(s *Store) { s.cache = cache }
}

func NewStore(fs afero.Fs, dir string, opts ...Option) *Store {
	s := &Store{fs: fs, dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) list(match func(name string) bool) ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.dir, err)
	}

	// ReadDir sorts by name
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !match(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, entry.Name()))
	}
	return paths, nil
}

func (s *Store) ListVideos(ctx context.Context) ([]string, error) {
	return s.list(domain.IsVideoFile)
}

func (s *Store) ListTranscripts(ctx context.Context) ([]string, error) {
	return s.list(func(name string) bool { return filepath.Ext(name) == domain.ExtSRT })
}

func sibling(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func (s *Store) exists(path string) bool {
	ok, err := afero.Exists(s.fs, path)
	return err == nil && ok
}

func (s *Store) HasTranscript(videoPath string) bool {
	return s.exists(sibling(videoPath, domain.ExtSRT))
}

func (s *Store) FindVideo(ctx context.Context, videoID string) (string, error) {
	for _, ext := range domain.VideoExtensions {
		path := filepath.Join(s.dir, videoID+ext)
		if s.exists(path) {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", domain.ErrMissingVideoForTranscript, videoID)
}

func (s *Store) LoadTranscript(ctx context.Context, srtPath string) (*domain.Transcript, error) {
	info, err := s.fs.Stat(srtPath)
	if err != nil {
		return nil, err
	}

	key := ports.TranscriptKey{Path: srtPath, ModTime: info.ModTime().UnixNano(), Size: info.Size()}
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			return cached, nil
		}
	}

	data, err := afero.ReadFile(s.fs, srtPath)
	if err != nil {
		return nil, err
	}

	transcript := &domain.Transcript{
		VideoID:  domain.VideoID(srtPath),
		Segments: domain.ParseSRT(string(data)),
	}
	transcript.SortSegments()

	if s.cache != nil {
		s.cache.Add(key, transcript)
	}
	return transcript, nil
}

// SaveTranscript writes <base>.txt, <base>.srt and <base>.vtt next to the video
func (s *Store) SaveTranscript(ctx context.Context, videoPath string, transcript *domain.Transcript) error {
	outputs := []struct {
		ext     string
		content string
	}{
		{domain.ExtText, transcript.ToText()},
		{domain.ExtSRT, transcript.ToSRT()},
		{domain.ExtVTT, transcript.ToVTT(s.legacyVTT)},
	}

	for _, out := range outputs {
		path := sibling(videoPath, out.ext)
		if err := afero.WriteFile(s.fs, path, []byte(out.content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

var _ ports.VideoLibrary = (*Store)(nil)
