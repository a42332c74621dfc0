package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync"

	"github.com/devbush/vidtrans/internal/domain"
	"github.com/devbush/vidtrans/internal/ports"
)

const htmlTemplate = "report.html.tmpl"

// HTMLBuilder writes the self-contained search_results.html report
type HTMLBuilder struct {
	store     ports.EvidenceStore
	templates *template.Template
	once      sync.Once
	err       error
}

func NewHTMLBuilder(store ports.EvidenceStore) *HTMLBuilder {
	return &HTMLBuilder{store: store}
}

type resultView struct {
	VideoID    string
	Timestamp  string
	Before     template.HTML
	Match      template.HTML
	After      template.HTML
	Screenshot string
}

type pageView struct {
	Term    string
	Total   int
	Videos  int
	Results []resultView
}

func (b *HTMLBuilder) parseTemplates() error {
	b.once.Do(func() {
		t, err := template.ParseFS(embeddedTemplates, "templates/"+htmlTemplate)
		if err != nil {
			b.err = fmt.Errorf("parse report template: %w", err)
			return
		}
		b.templates = t
	})
	return b.err
}

func buildPage(results []domain.VideoMatches, term string) pageView {
	page := pageView{Term: term, Videos: len(results)}
	for _, vm := range results {
		for i := range vm.Matches {
			m := &vm.Matches[i]
			before, match, after := m.ContextLines()
			page.Results = append(page.Results, resultView{
				VideoID:    m.VideoID,
				Timestamp:  m.Timestamp(),
				Before:     highlight(before, term),
				Match:      highlight(match, term),
				After:      highlight(after, term),
				Screenshot: m.EvidenceFilename(),
			})
		}
	}
	page.Total = len(page.Results)
	return page
}

// Render returns the report document without writing it
func (b *HTMLBuilder) Render(results []domain.VideoMatches, term string) ([]byte, error) {
	if err := b.parseTemplates(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := b.templates.ExecuteTemplate(&buf, htmlTemplate, buildPage(results, term)); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", htmlTemplate, err)
	}
	return buf.Bytes(), nil
}

// Build writes search_results.html into the screenshot directory
func (b *HTMLBuilder) Build(ctx context.Context, results []domain.VideoMatches, term string) (string, error) {
	data, err := b.Render(results, term)
	if err != nil {
		return "", err
	}
	if err := b.store.WriteFile(domain.ReportFilename, data); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return b.store.Path(domain.ReportFilename), nil
}

var _ ports.ReportBuilder = (*HTMLBuilder)(nil)
