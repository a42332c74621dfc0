package report

import (
	"context"
	"fmt"
	"os"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/devbush/vidtrans/internal/domain"
	"github.com/devbush/vidtrans/internal/ports"
)

const (
	fontName = "Arial"
	fontSize = 11

	textColor      = "333333"
	contextColor   = "555555"
	timestampColor = "00509E"
	highlightColor = "FF0000"
)

// DOCXBuilder writes the search results as a Word document
type DOCXBuilder struct {
	store ports.EvidenceStore
}

func NewDOCXBuilder(store ports.EvidenceStore) *DOCXBuilder {
	return &DOCXBuilder{store: store}
}

// Build writes search_results.docx into the screenshot directory
func (b *DOCXBuilder) Build(ctx context.Context, results []domain.VideoMatches, term string) (string, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return "", err
	}

	total := 0
	for _, vm := range results {
		total += len(vm.Matches)
	}

	doc.AddParagraph("").AddText("Search Results").Font(fontName).Size(16).Color(timestampColor).Bold(true)
	doc.AddParagraph("").AddText(fmt.Sprintf("%d matches for %q", total, term)).Font(fontName).Size(fontSize).Color(contextColor)

	for _, vm := range results {
		for i := range vm.Matches {
			m := &vm.Matches[i]
			before, match, after := m.ContextLines()

			doc.AddParagraph("").
				AddText(fmt.Sprintf("%s - %s", m.VideoID, m.Timestamp())).
				Font(fontName).Size(fontSize).Color(timestampColor).Bold(true)

			if before != "" {
				addHighlighted(doc.AddParagraph(""), before, term, contextColor)
			}
			addHighlighted(doc.AddParagraph(""), match, term, textColor)
			if after != "" {
				addHighlighted(doc.AddParagraph(""), after, term, contextColor)
			}
			doc.AddParagraph("")
		}
	}

	data, err := encodeDocument(doc)
	if err != nil {
		return "", err
	}
	if err := b.store.WriteFile(domain.DOCXReportFilename, data); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", domain.DOCXReportFilename, err)
	}
	return b.store.Path(domain.DOCXReportFilename), nil
}

// encodeDocument serializes doc. godocx only saves to a path, so the document
// is staged in a scratch file and handed to the store as bytes.
func encodeDocument(doc *docx.RootDoc) ([]byte, error) {
	tmp, err := os.CreateTemp("", "vidtrans-*.docx")
	if err != nil {
		return nil, err
	}
	name := tmp.Name()
	tmp.Close()
	defer os.Remove(name)

	if err := doc.SaveTo(name); err != nil {
		return nil, fmt.Errorf("failed to encode docx: %w", err)
	}
	return os.ReadFile(name)
}

func addHighlighted(p *docx.Paragraph, text, term, color string) {
	for _, span := range literalSpans(text, term) {
		run := p.AddText(span.Text).Font(fontName).Size(fontSize)
		if span.Match {
			run.Color(highlightColor).Bold(true)
			continue
		}
		run.Color(color)
	}
}

var _ ports.ReportBuilder = (*DOCXBuilder)(nil)
