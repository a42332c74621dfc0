package ports

import (
	"context"

	"github.com/devbush/vidtrans/internal/domain"
)

// EvidenceRenderer produces the annotated still frame for a match.
type EvidenceRenderer interface {
	// Render writes the evidence image for m and returns its path. pattern
	// is the search pattern used to find m; its hits are highlighted.
	Render(ctx context.Context, m *domain.Match, pattern *domain.Pattern) (string, error)
}

// ReportBuilder writes search results to a document.
type ReportBuilder interface {
	// Build writes the report and returns its path.
	Build(ctx context.Context, results []domain.VideoMatches, term string) (string, error)
}
