package tui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// renderProgressBar creates a text progress bar like [=====>    ]
func renderProgressBar(current, total, width int) string {
	if total <= 0 {
		return "[" + strings.Repeat(" ", width) + "]"
	}

	var bar strings.Builder
	bar.WriteString("[")

	switch {
	case current >= total:
		bar.WriteString(strings.Repeat("=", width))
	case current <= 0:
		bar.WriteString(strings.Repeat(" ", width))
	default:
		ratio := float64(current) / float64(total)
		arrowPos := int(ratio*float64(width) + 0.5)
		arrowPos = max(1, min(arrowPos, width))

		// From halfway on the head sits after the filled cells
		equals := arrowPos - 1
		if ratio >= 0.5 {
			equals = arrowPos
		}
		equals = max(0, min(equals, width-1))
		spaces := max(0, width-equals-1)

		bar.WriteString(strings.Repeat("=", equals))
		bar.WriteString(">")
		bar.WriteString(strings.Repeat(" ", spaces))
	}

	bar.WriteString("]")
	return bar.String()
}

// maxShownResults is how many recent results stay on screen
const maxShownResults = 10

// BatchResult is the outcome for one video of a batch
type BatchResult struct {
	Video    string
	Success  bool
	ErrMsg   string
	Duration time.Duration
}

// BatchProgress shows progress of a transcription batch
type BatchProgress struct {
	out      io.Writer
	total    int
	current  string
	started  time.Time
	results  []BatchResult
	failures []BatchResult
	quiet    bool
	mu       sync.Mutex
	lines    int
}

// NewBatchProgress creates a new batch progress display writing to out
func NewBatchProgress(out io.Writer, total int, quiet bool) *BatchProgress {
	return &BatchProgress{
		out:   out,
		total: max(total, 0),
		quiet: quiet,
	}
}

// Start marks a video as in progress
func (bp *BatchProgress) Start(video string) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	bp.current = filepath.Base(video)
	bp.started = time.Now()
	bp.render()
}

// Finish records the outcome of the video started last
func (bp *BatchProgress) Finish(video string, err error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	result := BatchResult{
		Video:    filepath.Base(video),
		Success:  err == nil,
		Duration: time.Since(bp.started),
	}
	if err != nil {
		result.ErrMsg = err.Error()
		bp.failures = append(bp.failures, result)
	}
	bp.results = append(bp.results, result)
	bp.current = ""
	bp.render()
}

func (bp *BatchProgress) render() {
	if bp.quiet {
		return
	}

	if bp.lines > 0 {
		fmt.Fprintf(bp.out, "\033[%dA\033[J", bp.lines)
	}
	bp.lines = 0

	completed := len(bp.results)
	percent := 0
	if bp.total > 0 {
		percent = completed * 100 / bp.total
	}
	fmt.Fprintf(bp.out, "Transcribing %d/%d videos %s %d%%\n",
		completed, bp.total, renderProgressBar(completed, bp.total, 20), percent)
	bp.lines++

	start := max(0, len(bp.results)-maxShownResults)
	for _, r := range bp.results[start:] {
		if r.Success {
			fmt.Fprintf(bp.out, "%s %s (%s)\n", SuccessStyle.Render("✓"), r.Video, FormatElapsed(r.Duration))
		} else {
			fmt.Fprintf(bp.out, "%s %s: %s\n", ErrorStyle.Render("✗"), r.Video, firstLine(r.ErrMsg))
		}
		bp.lines++
	}

	if bp.current != "" {
		fmt.Fprintf(bp.out, "  … %s\n", bp.current)
		bp.lines++
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Complete prints the final summary
func (bp *BatchProgress) Complete() {
	if bp.quiet {
		return
	}

	bp.mu.Lock()
	completed := len(bp.results)
	failures := append([]BatchResult(nil), bp.failures...)
	bp.mu.Unlock()

	fmt.Fprintln(bp.out)
	fmt.Fprintf(bp.out, "Batch complete: %d/%d succeeded\n", completed-len(failures), bp.total)

	if len(failures) > 0 {
		fmt.Fprintln(bp.out, "\nFailures:")
		for _, f := range failures {
			fmt.Fprintf(bp.out, "  ✗ %s: %s\n", f.Video, f.ErrMsg)
		}
	}
}

// SuccessCount returns the number of successful results
func (bp *BatchProgress) SuccessCount() int {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return len(bp.results) - len(bp.failures)
}

// FailureCount returns the number of failed results
func (bp *BatchProgress) FailureCount() int {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return len(bp.failures)
}
