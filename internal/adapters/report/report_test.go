package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/devbush/vidtrans/internal/adapters/cache"
	"github.com/devbush/vidtrans/internal/domain"
)

func sampleResults() []domain.VideoMatches {
	segs := []domain.Segment{
		{Start: 0, End: 2 * time.Second, Text: "Hello"},
		{Start: 2 * time.Second, End: 5 * time.Second, Text: "I was here yesterday"},
		{Start: 5 * time.Second, End: 8 * time.Second, Text: "Goodbye"},
	}
	return []domain.VideoMatches{{
		VideoID:   "talk",
		VideoPath: "/v/talk.mp4",
		Matches: []domain.Match{{
			VideoID:   "talk",
			VideoPath: "/v/talk.mp4",
			Index:     1,
			Segment:   &segs[1],
			Before:    &segs[0],
			After:     &segs[2],
		}},
	}}
}

func TestLiteralSpans(t *testing.T) {
	tests := []struct {
		text, term string
		want       []domain.Span
	}{
		{"here and here", "here", []domain.Span{{Text: "here", Match: true}, {Text: " and "}, {Text: "here", Match: true}}},
		{"Here", "here", []domain.Span{{Text: "Here"}}},
		{"abc", "", []domain.Span{{Text: "abc"}}},
		{"I was here", " here\t", []domain.Span{{Text: "I was "}, {Text: "here", Match: true}}},
		{"abc", "  ", []domain.Span{{Text: "abc"}}},
		{"", "x", nil},
	}

	for _, tt := range tests {
		got := literalSpans(tt.text, tt.term)
		if len(got) != len(tt.want) {
			t.Errorf("literalSpans(%q, %q) = %v, want %v", tt.text, tt.term, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("literalSpans(%q, %q)[%d] = %+v, want %+v", tt.text, tt.term, i, got[i], tt.want[i])
			}
		}
	}
}

func TestHighlight_Escapes(t *testing.T) {
	got := string(highlight(`say <b> & "here"`, "<b>"))
	want := `say <span class="highlight">&lt;b&gt;</span> &amp; &#34;here&#34;`
	if got != want {
		t.Errorf("highlight() = %s, want %s", got, want)
	}
}

func TestHTMLBuilder_Build(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := cache.NewScreenshotStore(fs, "/shots")
	b := NewHTMLBuilder(store)

	path, err := b.Build(context.Background(), sampleResults(), "here")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if path != "/shots/"+domain.ReportFilename {
		t.Errorf("Build() path = %s", path)
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	html := string(data)

	for _, want := range []string{
		`<span class="context-before">[Before] 00:00:00: Hello</span>`,
		`<span class="match">[Match] 00:00:02: I was <span class="highlight">here</span> yesterday</span>`,
		`<span class="context-after">[After] 00:00:05: Goodbye</span>`,
		`<img src="talk_screenshot_00-00-02.png"`,
		`talk - 00:00:02`,
		`toggleContext()`,
		`toggleAllScreenshots()`,
		`1 match for`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
	if strings.Contains(html, "<link") || strings.Contains(html, "<script src") {
		t.Error("report should not reference external assets")
	}
}

func TestHTMLBuilder_OmitsMissingNeighbours(t *testing.T) {
	results := sampleResults()
	results[0].Matches[0].Before = nil
	results[0].Matches[0].After = nil

	data, err := NewHTMLBuilder(nil).Render(results, "here")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	html := string(data)

	if strings.Contains(html, `class="context-before"`) || strings.Contains(html, `class="context-after"`) {
		t.Error("absent neighbours should not be rendered")
	}
}

func TestHTMLBuilder_LabelsInTextDoNotBreakLayout(t *testing.T) {
	results := sampleResults()
	results[0].Matches[0].Segment.Text = "here [After] is a label"

	data, err := NewHTMLBuilder(nil).Render(results, "here")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(string(data), `<span class="context-after">[After] 00:00:05: Goodbye</span>`) {
		t.Error("after region should come from the neighbour segment")
	}
}

func TestHTMLBuilder_Empty(t *testing.T) {
	data, err := NewHTMLBuilder(nil).Render(nil, "nothing")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(string(data), "0 matches for") {
		t.Error("empty report should state zero matches")
	}
}

func TestDOCXBuilder_Build(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := filepath.Join(t.TempDir(), "shots")
	store := cache.NewScreenshotStore(fs, dir)

	path, err := NewDOCXBuilder(store).Build(context.Background(), sampleResults(), "here")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if path != filepath.Join(dir, domain.DOCXReportFilename) {
		t.Errorf("Build() path = %s", path)
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("docx not written to store: %v", err)
	}
	if len(data) < 4 || string(data[:2]) != "PK" {
		t.Error("docx should be a zip container")
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("docx builder touched the real filesystem: %v", err)
	}
}
