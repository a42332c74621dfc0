package application

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/devbush/vidtrans/internal/domain"
	"github.com/devbush/vidtrans/internal/ports"
)

// mockLibrary implements ports.VideoLibrary in memory
type mockLibrary struct {
	videos      []string
	srtPaths    []string                      // ListTranscripts order
	transcripts map[string]*domain.Transcript // keyed by srt path
	saved       map[string]*domain.Transcript // keyed by video path
	listErr     error
	loadErr     map[string]error
	saveErr     error
}

func newMockLibrary() *mockLibrary {
	return &mockLibrary{
		transcripts: make(map[string]*domain.Transcript),
		saved:       make(map[string]*domain.Transcript),
		loadErr:     make(map[string]error),
	}
}

func srtPathFor(video string) string {
	return strings.TrimSuffix(video, filepath.Ext(video)) + domain.ExtSRT
}

// addTranscript registers an SRT file for id under /videos
func (m *mockLibrary) addTranscript(id string, segs ...domain.Segment) {
	path := "/videos/" + id + domain.ExtSRT
	m.srtPaths = append(m.srtPaths, path)
	m.transcripts[path] = &domain.Transcript{VideoID: id, Segments: segs}
}

func (m *mockLibrary) Dir() string { return "/videos" }

func (m *mockLibrary) ListVideos(ctx context.Context) ([]string, error) {
	return m.videos, m.listErr
}

func (m *mockLibrary) HasTranscript(videoPath string) bool {
	_, ok := m.transcripts[srtPathFor(videoPath)]
	return ok
}

func (m *mockLibrary) ListTranscripts(ctx context.Context) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.srtPaths, nil
}

func (m *mockLibrary) FindVideo(ctx context.Context, videoID string) (string, error) {
	for _, v := range m.videos {
		if domain.VideoID(v) == videoID {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %s", domain.ErrMissingVideoForTranscript, videoID)
}

func (m *mockLibrary) LoadTranscript(ctx context.Context, srtPath string) (*domain.Transcript, error) {
	if err := m.loadErr[srtPath]; err != nil {
		return nil, err
	}
	tr, ok := m.transcripts[srtPath]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", srtPath)
	}
	return tr, nil
}

func (m *mockLibrary) SaveTranscript(ctx context.Context, videoPath string, transcript *domain.Transcript) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved[videoPath] = transcript
	return nil
}

// mockTranscriber returns a fixed transcript, or an error for listed videos
type mockTranscriber struct {
	modelDownloaded bool
	failFor         map[string]error
	calls           []string
}

func (m *mockTranscriber) Transcribe(ctx context.Context, videoPath string, opts ports.TranscribeOpts) (*domain.Transcript, error) {
	m.calls = append(m.calls, videoPath)
	if err := m.failFor[videoPath]; err != nil {
		return nil, err
	}
	return &domain.Transcript{
		Segments: []domain.Segment{
			{Start: 3 * time.Second, End: 4 * time.Second, Text: "second"},
			{Start: 0, End: 3 * time.Second, Text: "first"},
		},
		Model: opts.Model,
	}, nil
}

func (m *mockTranscriber) AvailableModels() []ports.Model {
	return []ports.Model{{Name: "base", Size: 140 * 1024 * 1024, Downloaded: m.modelDownloaded}}
}

func (m *mockTranscriber) IsModelDownloaded(model string) bool { return m.modelDownloaded }
func (m *mockTranscriber) DownloadModel(ctx context.Context, model string, progress func(int64, int64)) error {
	return nil
}
func (m *mockTranscriber) DeleteModel(model string) error { return nil }
func (m *mockTranscriber) IsAvailable() bool              { return true }

// mockRenderer records render calls and fails for listed segment texts
type mockRenderer struct {
	rendered []string
	failText map[string]bool
}

func (m *mockRenderer) Render(ctx context.Context, match *domain.Match, pattern *domain.Pattern) (string, error) {
	if m.failText[match.Segment.Text] {
		return "", fmt.Errorf("%w: stderr: invalid data", domain.ErrFrameExtractionFailed)
	}
	name := match.EvidenceFilename()
	m.rendered = append(m.rendered, name)
	return "/shots/" + name, nil
}

// mockEvidenceStore implements ports.EvidenceStore for screenshot service testing
type mockEvidenceStore struct {
	itemCount    int
	totalSize    int64
	clearedCount int
	statsErr     error
	clearErr     error
}

func (m *mockEvidenceStore) Dir() string                              { return "/shots" }
func (m *mockEvidenceStore) Path(name string) string                  { return "/shots/" + name }
func (m *mockEvidenceStore) WriteFile(name string, data []byte) error { return nil }
func (m *mockEvidenceStore) Exists(name string) bool                  { return false }

func (m *mockEvidenceStore) Clear(ctx context.Context) (int, error) {
	if m.clearErr != nil {
		return 0, m.clearErr
	}
	return m.clearedCount, nil
}

func (m *mockEvidenceStore) Stats(ctx context.Context) (int, int64, error) {
	if m.statsErr != nil {
		return 0, 0, m.statsErr
	}
	return m.itemCount, m.totalSize, nil
}
