package report

import (
	"html/template"
	"strings"

	"github.com/devbush/vidtrans/internal/domain"
)

// literalSpans splits text around every literal, case-sensitive occurrence
// of the trimmed term.
func literalSpans(text, term string) []domain.Span {
	term = strings.TrimSpace(term)
	if term == "" {
		return []domain.Span{{Text: text}}
	}

	var spans []domain.Span
	for {
		i := strings.Index(text, term)
		if i < 0 {
			break
		}
		if i > 0 {
			spans = append(spans, domain.Span{Text: text[:i]})
		}
		spans = append(spans, domain.Span{Text: term, Match: true})
		text = text[i+len(term):]
	}
	if text != "" {
		spans = append(spans, domain.Span{Text: text})
	}
	return spans
}

// highlight escapes text and wraps each occurrence of term in a highlight span
func highlight(text, term string) template.HTML {
	var sb strings.Builder
	for _, span := range literalSpans(text, term) {
		if span.Match {
			sb.WriteString(`<span class="highlight">`)
			sb.WriteString(template.HTMLEscapeString(span.Text))
			sb.WriteString(`</span>`)
			continue
		}
		sb.WriteString(template.HTMLEscapeString(span.Text))
	}
	return template.HTML(sb.String())
}
