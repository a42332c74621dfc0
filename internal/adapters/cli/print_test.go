package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/devbush/vidtrans/internal/application"
	"github.com/devbush/vidtrans/internal/domain"
)

func shotPath(name string) string { return "/shots/" + name }

func sampleResult() *application.SearchResult {
	segs := []domain.Segment{
		{Start: 0, Text: "Hello"},
		{Start: 2 * time.Second, Text: "I was here yesterday"},
		{Start: 5 * time.Second, Text: "Goodbye"},
	}
	m := domain.Match{
		VideoID:     "talk",
		Index:       1,
		Segment:     &segs[1],
		Before:      &segs[0],
		After:       &segs[2],
		Occurrences: 1,
	}
	return &application.SearchResult{
		Term:     "here",
		Videos:   []domain.VideoMatches{{VideoID: "talk", Matches: []domain.Match{m}}},
		Total:    1,
		Evidence: []string{"/shots/talk_screenshot_00-00-02.png"},
	}
}

func TestPrintResults(t *testing.T) {
	var buf bytes.Buffer
	printResults(&buf, sampleResult(), shotPath)
	out := buf.String()

	for _, want := range []string{
		"In talk (1):",
		"[Before] ",
		": Hello",
		"[Match] ",
		"I was ",
		" yesterday",
		"[After] ",
		": Goodbye",
		"Screenshot: /shots/talk_screenshot_00-00-02.png",
		separator,
		"Total matches found: 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintResults_NoScreenshotWhenNotRendered(t *testing.T) {
	result := sampleResult()
	result.Evidence = nil
	result.Failures = []application.RenderFailure{
		{VideoID: "talk", Timestamp: "00:00:02", Err: errors.New("ffmpeg failed")},
	}

	var buf bytes.Buffer
	printResults(&buf, result, shotPath)
	out := buf.String()

	if strings.Contains(out, "Screenshot:") {
		t.Errorf("output should not list a screenshot:\n%s", out)
	}
	if !strings.Contains(out, "talk at 00:00:02: ffmpeg failed") {
		t.Errorf("output missing render failure:\n%s", out)
	}
}

func TestPrintResults_Empty(t *testing.T) {
	result := &application.SearchResult{
		Term:    "therefore",
		Skipped: []application.SkippedTranscript{{Path: "/v/orphan.srt", Err: domain.ErrMissingVideoForTranscript}},
	}

	var buf bytes.Buffer
	printResults(&buf, result, shotPath)
	out := buf.String()

	if !strings.Contains(out, `No matches found for "therefore"`) {
		t.Errorf("output missing empty summary:\n%s", out)
	}
	if !strings.Contains(out, "Skipped /v/orphan.srt") {
		t.Errorf("output missing skipped transcript:\n%s", out)
	}
	if strings.Contains(out, "SEARCH RESULTS") {
		t.Errorf("empty result should not print a results header:\n%s", out)
	}
}

func TestContextLine_PlainWithoutPattern(t *testing.T) {
	seg := &domain.Segment{Start: 61 * time.Second, Text: "here and there"}
	got := contextLine("After", seg, nil)

	if !strings.HasPrefix(got, "[After] ") || !strings.HasSuffix(got, ": here and there") {
		t.Errorf("contextLine() = %q", got)
	}
}
