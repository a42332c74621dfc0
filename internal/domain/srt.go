package domain

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	srtIndexPattern  = regexp.MustCompile(`^\d+$`)
	srtTimingPattern = regexp.MustCompile(`^(\d+:\d+:\d+[.,]\d+)\s*-->\s*(\d+:\d+:\d+[.,]\d+)`)
)

// ParseSRT reads SRT content into segments.
//
// A block is an index line, a "start --> end" line and zero or more text
// lines, terminated by a blank line or the end of input. Blocks that do not
// have that shape, or whose timestamps do not parse, are skipped.
func ParseSRT(content string) []Segment {
	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = norm.NFC.String(content)

	var segments []Segment
	for _, block := range splitBlocks(content) {
		seg, ok := parseBlock(block)
		if !ok {
			continue
		}
		segments = append(segments, seg)
	}
	return segments
}

// splitBlocks groups lines into runs separated by blank lines.
func splitBlocks(content string) [][]string {
	var blocks [][]string
	var current []string

	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}

	return blocks
}

func parseBlock(lines []string) (Segment, bool) {
	if len(lines) < 2 {
		return Segment{}, false
	}
	if !srtIndexPattern.MatchString(strings.TrimSpace(lines[0])) {
		return Segment{}, false
	}

	m := srtTimingPattern.FindStringSubmatch(strings.TrimSpace(lines[1]))
	if m == nil {
		return Segment{}, false
	}

	start, err := ParseTimestamp(strings.ReplaceAll(m[1], ",", "."))
	if err != nil {
		return Segment{}, false
	}
	end, err := ParseTimestamp(strings.ReplaceAll(m[2], ",", "."))
	if err != nil {
		return Segment{}, false
	}

	return NewSegment(start, end, strings.Join(lines[2:], "\n")), true
}
