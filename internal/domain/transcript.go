package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Segment represents a timed segment of transcribed text
type Segment struct {
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end"`
	Text  string        `json:"text"`
}

// NewSegment builds a segment with its text collapsed onto a single line.
// A negative start is clamped to zero and end is never before start.
func NewSegment(start, end time.Duration, text string) Segment {
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}
	return Segment{Start: start, End: end, Text: NormalizeText(text)}
}

// NormalizeText joins the lines of text with single spaces.
func NormalizeText(text string) string {
	lines := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

// Transcript represents the full transcription result for one video
type Transcript struct {
	VideoID       string    `json:"video_id"`
	VideoPath     string    `json:"video_path,omitempty"`
	Text          string    `json:"text"`
	Segments      []Segment `json:"segments"`
	Model         string    `json:"model,omitempty"`
	Language      string    `json:"language,omitempty"`
	TranscribedAt time.Time `json:"transcribed_at,omitempty"`
}

// SortSegments orders segments chronologically, keeping the relative order
// of segments that start at the same time.
func (t *Transcript) SortSegments() {
	sort.SliceStable(t.Segments, func(i, j int) bool {
		return t.Segments[i].Start < t.Segments[j].Start
	})
}

// ToText returns plain text concatenation of all segments
func (t *Transcript) ToText() string {
	if t.Text != "" {
		return t.Text
	}

	var parts []string
	for _, seg := range t.Segments {
		parts = append(parts, strings.TrimSpace(seg.Text))
	}
	return strings.Join(parts, " ")
}

// ToSRT returns the transcript in SRT subtitle format
func (t *Transcript) ToSRT() string {
	var sb strings.Builder

	for i, seg := range t.Segments {
		// Sequence number
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		// Timestamps
		sb.WriteString(fmt.Sprintf("%s --> %s\n", FormatSRTTime(seg.Start), FormatSRTTime(seg.End)))
		// Text
		sb.WriteString(NormalizeText(seg.Text))
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// ToVTT returns the transcript in WebVTT format. With legacySeparator the
// millisecond separator is written as "," the way older releases did.
func (t *Transcript) ToVTT(legacySeparator bool) string {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")

	for _, seg := range t.Segments {
		start, end := FormatSRTTime(seg.Start), FormatSRTTime(seg.End)
		if legacySeparator {
			start = strings.ReplaceAll(start, ".", ",")
			end = strings.ReplaceAll(end, ".", ",")
		}
		sb.WriteString(fmt.Sprintf("%s --> %s\n", start, end))
		sb.WriteString(NormalizeText(seg.Text))
		sb.WriteString("\n\n")
	}

	return sb.String()
}
