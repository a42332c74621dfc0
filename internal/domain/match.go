package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Pattern finds whole-word, case-insensitive occurrences of a search term.
// A word character is any Unicode letter or digit, or an underscore, so
// accented terms like "café" respect the same boundaries as ASCII ones.
type Pattern struct {
	term string
	re   *regexp.Regexp
}

// SearchPattern compiles the pattern for term. The term is trimmed, matched
// literally and may be followed by any run of . , ! ?
func SearchPattern(term string) (*Pattern, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrEmptySearchTerm
	}
	re, err := regexp.Compile(`(?i)(` + regexp.QuoteMeta(term) + `)[.,!?]*`)
	if err != nil {
		return nil, err
	}
	return &Pattern{term: term, re: re}, nil
}

// Term returns the trimmed search term
func (p *Pattern) Term() string {
	return p.term
}

// MatchString reports whether text contains the term as a whole word
func (p *Pattern) MatchString(text string) bool {
	return p.find(text, 1) != nil
}

// Count returns the number of whole-word occurrences in text
func (p *Pattern) Count(text string) int {
	return len(p.FindAllIndex(text))
}

// FindAllIndex returns the [start, end) byte offsets of every occurrence,
// trailing punctuation included
func (p *Pattern) FindAllIndex(text string) [][]int {
	return p.find(text, -1)
}

func (p *Pattern) find(text string, n int) [][]int {
	var hits [][]int
	pos := 0
	for pos <= len(text) && (n < 0 || len(hits) < n) {
		loc := p.re.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		termStart, termEnd := pos+loc[2], pos+loc[3]
		if !wordBoundary(text, termStart) || !wordBoundary(text, termEnd) {
			_, size := utf8.DecodeRuneInString(text[start:])
			pos = start + max(size, 1)
			continue
		}
		hits = append(hits, []int{start, end})
		if end == start {
			end++
		}
		pos = end
	}
	return hits
}

// wordBoundary reports whether the word-ness of the runes on either side of
// byte offset i differs. Text edges count as non-word.
func wordBoundary(text string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:i])
		before = isWordRune(r)
	}
	if i < len(text) {
		r, _ := utf8.DecodeRuneInString(text[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Span is a run of text that either matched the search pattern or did not
type Span struct {
	Text  string
	Match bool
}

// SplitMatches cuts text into alternating non-matching and matching spans.
// Empty spans are omitted; concatenating all spans yields text.
func SplitMatches(p *Pattern, text string) []Span {
	var spans []Span
	cursor := 0
	for _, loc := range p.FindAllIndex(text) {
		if loc[0] > cursor {
			spans = append(spans, Span{Text: text[cursor:loc[0]]})
		}
		if loc[1] > loc[0] {
			spans = append(spans, Span{Text: text[loc[0]:loc[1]], Match: true})
		}
		cursor = loc[1]
	}
	if cursor < len(text) {
		spans = append(spans, Span{Text: text[cursor:]})
	}
	return spans
}

// Match is a segment found to contain the search term, with its neighbours
type Match struct {
	VideoID   string
	VideoPath string
	Index     int
	Segment   *Segment
	Before    *Segment
	After     *Segment
	// Occurrences counts hits inside Segment; a segment yields one Match
	// regardless.
	Occurrences int
}

// Timestamp returns the match start as HH:MM:SS
func (m *Match) Timestamp() string {
	return FormatDuration(m.Segment.Start)
}

// EvidenceFilename returns the screenshot name for this match
func (m *Match) EvidenceFilename() string {
	return EvidenceFilename(m.VideoID, m.Timestamp())
}

// ContextLines returns the labeled before, match and after lines. before and
// after are empty when the neighbour does not exist.
func (m *Match) ContextLines() (before, match, after string) {
	if m.Before != nil {
		before = contextLine("Before", m.Before)
	}
	match = contextLine("Match", m.Segment)
	if m.After != nil {
		after = contextLine("After", m.After)
	}
	return before, match, after
}

// ContextText renders the labeled before/match/after lines
func (m *Match) ContextText() string {
	before, match, after := m.ContextLines()
	lines := make([]string, 0, 3)
	for _, line := range []string{before, match, after} {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func contextLine(label string, seg *Segment) string {
	return fmt.Sprintf("[%s] %s: %s", label, FormatDuration(seg.Start), seg.Text)
}

// VideoMatches groups the matches found in one transcript
type VideoMatches struct {
	VideoID   string
	VideoPath string
	Matches   []Match
}
