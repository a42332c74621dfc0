package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/devbush/vidtrans/internal/adapters/cli/tui"
	"github.com/devbush/vidtrans/internal/application"
	"github.com/devbush/vidtrans/internal/domain"
)

const separator = "----------"

// printResults writes one block per video with the context of every match,
// then the totals. shotPath maps an evidence filename to its full path.
func printResults(w io.Writer, result *application.SearchResult, shotPath func(name string) string) {
	for _, s := range result.Skipped {
		fmt.Fprintf(w, "Skipped %s: %v\n", s.Path, s.Err)
	}

	if result.Empty() {
		fmt.Fprintln(w, result.Summary())
		return
	}

	pattern, _ := domain.SearchPattern(result.Term)

	rendered := make(map[string]bool, len(result.Evidence))
	for _, p := range result.Evidence {
		rendered[p] = true
	}

	fmt.Fprintln(w, tui.HeaderStyle.Render("SEARCH RESULTS"))
	for _, vm := range result.Videos {
		fmt.Fprintf(w, "\nIn %s (%d):\n", vm.VideoID, len(vm.Matches))
		for i := range vm.Matches {
			m := &vm.Matches[i]
			printMatch(w, m, pattern)
			if p := shotPath(m.EvidenceFilename()); rendered[p] {
				fmt.Fprintf(w, "  Screenshot: %s\n", p)
			}
			fmt.Fprintln(w, separator)
		}
	}

	for _, f := range result.Failures {
		fmt.Fprintf(w, "%s %s at %s: %v\n", tui.ErrorStyle.Render("No screenshot for"), f.VideoID, f.Timestamp, f.Err)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, result.Summary())
}

func printMatch(w io.Writer, m *domain.Match, pattern *domain.Pattern) {
	if m.Before != nil {
		fmt.Fprintln(w, contextLine("Before", m.Before, nil))
	}
	fmt.Fprintln(w, contextLine("Match", m.Segment, pattern))
	if m.After != nil {
		fmt.Fprintln(w, contextLine("After", m.After, nil))
	}
}

// contextLine renders "[Label] HH:MM:SS: text" with hits of pattern styled
func contextLine(label string, seg *domain.Segment, pattern *domain.Pattern) string {
	prefix := fmt.Sprintf("[%s] %s: ", label, tui.TimestampStyle.Render(domain.FormatDuration(seg.Start)))
	if pattern == nil {
		return prefix + seg.Text
	}

	var sb strings.Builder
	sb.WriteString(prefix)
	for _, span := range domain.SplitMatches(pattern, seg.Text) {
		if span.Match {
			sb.WriteString(tui.MatchStyle.Render(span.Text))
		} else {
			sb.WriteString(span.Text)
		}
	}
	return sb.String()
}
