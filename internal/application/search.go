package application

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/devbush/vidtrans/internal/domain"
	"github.com/devbush/vidtrans/internal/logger"
	"github.com/devbush/vidtrans/internal/ports"
)

// SearchOptions configures a search
type SearchOptions struct {
	// Evidence renders one annotated frame per match
	Evidence bool
}

// SkippedTranscript is a subtitle file left out of the search
type SkippedTranscript struct {
	Path string
	Err  error
}

// RenderFailure is a match whose evidence image could not be produced
type RenderFailure struct {
	VideoID   string
	Timestamp string
	Err       error
}

// SearchResult holds everything one search produced
type SearchResult struct {
	Term string
	// Videos lists videos with at least one match, in input order
	Videos   []domain.VideoMatches
	Total    int
	Evidence []string
	Skipped  []SkippedTranscript
	Failures []RenderFailure
}

// Empty reports whether nothing matched
func (r *SearchResult) Empty() bool {
	return r.Total == 0
}

// SearchService finds terms in transcripts and renders evidence for matches
type SearchService struct {
	library  ports.VideoLibrary
	renderer ports.EvidenceRenderer
	logger   logger.Logger
}

// NewSearchService creates a new search service. renderer may be nil when
// evidence images are never wanted.
func NewSearchService(library ports.VideoLibrary, renderer ports.EvidenceRenderer, log logger.Logger) *SearchService {
	if log == nil {
		log = logger.Nop()
	}
	return &SearchService{
		library:  library,
		renderer: renderer,
		logger:   log,
	}
}

// LoadTranscripts parses every SRT file in the library. Transcripts without
// a matching video, or that cannot be read, are skipped and reported.
func (s *SearchService) LoadTranscripts(ctx context.Context) ([]*domain.Transcript, []SkippedTranscript, error) {
	paths, err := s.library.ListTranscripts(ctx)
	if err != nil {
		return nil, nil, err
	}

	var transcripts []*domain.Transcript
	var skipped []SkippedTranscript

	for _, path := range paths {
		videoPath, err := s.library.FindVideo(ctx, domain.VideoID(path))
		if err != nil {
			s.logger.Warn(ctx, "Skipping %s: %v", filepath.Base(path), err)
			skipped = append(skipped, SkippedTranscript{Path: path, Err: err})
			continue
		}

		loaded, err := s.library.LoadTranscript(ctx, path)
		if err != nil {
			s.logger.Warn(ctx, "Skipping %s: %v", filepath.Base(path), err)
			skipped = append(skipped, SkippedTranscript{Path: path, Err: err})
			continue
		}

		// Loaded transcripts may be shared through the cache
		tr := *loaded
		tr.VideoPath = videoPath
		transcripts = append(transcripts, &tr)
	}

	return transcripts, skipped, nil
}

// SearchLibrary loads all transcripts from the library and searches them
func (s *SearchService) SearchLibrary(ctx context.Context, term string, opts SearchOptions) (*SearchResult, error) {
	if _, err := domain.SearchPattern(term); err != nil {
		return nil, err
	}

	transcripts, skipped, err := s.LoadTranscripts(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.Search(ctx, transcripts, term, opts)
	if err != nil {
		return nil, err
	}
	result.Skipped = skipped
	return result, nil
}

// Search scans transcripts in order for whole-word occurrences of term.
// Evidence rendering failures are recorded and do not stop the search.
func (s *SearchService) Search(ctx context.Context, transcripts []*domain.Transcript, term string, opts SearchOptions) (*SearchResult, error) {
	pattern, err := domain.SearchPattern(term)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{Term: pattern.Term()}

	for _, tr := range transcripts {
		matches := FindMatches(tr, pattern)
		if len(matches) == 0 {
			continue
		}

		result.Videos = append(result.Videos, domain.VideoMatches{
			VideoID:   tr.VideoID,
			VideoPath: tr.VideoPath,
			Matches:   matches,
		})
		result.Total += len(matches)
	}

	if opts.Evidence && s.renderer != nil {
		if err := s.renderEvidence(ctx, result, pattern); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (s *SearchService) renderEvidence(ctx context.Context, result *SearchResult, pattern *domain.Pattern) error {
	for _, vm := range result.Videos {
		for i := range vm.Matches {
			if err := ctx.Err(); err != nil {
				return err
			}

			m := &vm.Matches[i]
			path, err := s.renderer.Render(ctx, m, pattern)
			if err != nil {
				s.logger.Error(ctx, "Evidence for %s at %s failed: %v", m.VideoID, m.Timestamp(), err)
				result.Failures = append(result.Failures, RenderFailure{
					VideoID:   m.VideoID,
					Timestamp: m.Timestamp(),
					Err:       err,
				})
				continue
			}
			s.logger.Debug(ctx, "Saved %s", path)
			result.Evidence = append(result.Evidence, path)
		}
	}
	return nil
}

// FindMatches returns one match per segment containing pattern, with the
// neighbouring segments as context.
func FindMatches(tr *domain.Transcript, pattern *domain.Pattern) []domain.Match {
	var matches []domain.Match
	n := len(tr.Segments)

	for i := range tr.Segments {
		seg := &tr.Segments[i]
		hits := pattern.FindAllIndex(seg.Text)
		if len(hits) == 0 {
			continue
		}

		m := domain.Match{
			VideoID:     tr.VideoID,
			VideoPath:   tr.VideoPath,
			Index:       i,
			Segment:     seg,
			Occurrences: len(hits),
		}
		if i > 0 {
			m.Before = &tr.Segments[i-1]
		}
		if i < n-1 {
			m.After = &tr.Segments[i+1]
		}
		matches = append(matches, m)
	}

	return matches
}

// Summary returns a one-line description of the result
func (r *SearchResult) Summary() string {
	if r.Empty() {
		return fmt.Sprintf("No matches found for %q", r.Term)
	}
	return fmt.Sprintf("Total matches found: %d", r.Total)
}
