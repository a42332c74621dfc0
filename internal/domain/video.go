package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// VideoExtensions lists recognized video extensions, in lookup order.
// Matching is case-sensitive.
var VideoExtensions = []string{".mp4", ".mkv", ".avi", ".mov"}

// Subtitle file extensions written next to each video
const (
	ExtText = ".txt"
	ExtSRT  = ".srt"
	ExtVTT  = ".vtt"
)

// Report files written into the screenshot directory
const (
	ReportFilename     = "search_results.html"
	DOCXReportFilename = "search_results.docx"
)

const evidenceMarker = "_screenshot_"

// IsVideoFile reports whether name carries one of the recognized extensions
func IsVideoFile(name string) bool {
	ext := filepath.Ext(name)
	for _, v := range VideoExtensions {
		if ext == v {
			return true
		}
	}
	return false
}

// VideoID returns the base filename of path with its extension stripped
func VideoID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// EvidenceFilename builds the screenshot name for a match. timestamp is the
// HH:MM:SS form produced by FormatTimestamp; anything after a "." is dropped.
func EvidenceFilename(videoID, timestamp string) string {
	timestamp, _, _ = strings.Cut(timestamp, ".")
	return fmt.Sprintf("%s%s%s.png", videoID, evidenceMarker, strings.ReplaceAll(timestamp, ":", "-"))
}

// IsEvidenceFile reports whether name looks like a generated evidence image
func IsEvidenceFile(name string) bool {
	return strings.Contains(name, evidenceMarker) && filepath.Ext(name) == ".png"
}
