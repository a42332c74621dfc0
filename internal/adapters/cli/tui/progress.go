package tui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// StepStatus represents the state of a progress step
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepComplete
	StepError
)

// ProgressStep represents a single step in the progress
type ProgressStep struct {
	Name     string
	Status   StepStatus
	Progress float64 // 0-100, only used for download steps
	Total    int64
	Current  int64
	Error    string
}

// Output is a file produced by a run, printed by Complete
type Output struct {
	Label string
	Path  string
}

// ProgressDisplay manages multi-step progress output
type ProgressDisplay struct {
	out        io.Writer
	steps      []ProgressStep
	spinnerIdx int
	quiet      bool
	mu         sync.Mutex
	lastRender time.Time
	lines      int
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewProgressDisplay creates a new progress display writing to out
func NewProgressDisplay(out io.Writer, steps []string, quiet bool) *ProgressDisplay {
	pd := &ProgressDisplay{
		out:   out,
		steps: make([]ProgressStep, len(steps)),
		quiet: quiet,
	}
	for i, name := range steps {
		pd.steps[i] = ProgressStep{Name: name, Status: StepPending}
	}
	return pd
}

func (p *ProgressDisplay) set(index int, fn func(*ProgressStep)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index >= 0 && index < len(p.steps) {
		fn(&p.steps[index])
		p.render()
	}
}

// StartStep marks a step as running
func (p *ProgressDisplay) StartStep(index int) {
	p.set(index, func(s *ProgressStep) { s.Status = StepRunning })
}

// CompleteStep marks a step as complete
func (p *ProgressDisplay) CompleteStep(index int) {
	p.set(index, func(s *ProgressStep) { s.Status = StepComplete })
}

// FailStep marks a step as failed
func (p *ProgressDisplay) FailStep(index int, err string) {
	p.set(index, func(s *ProgressStep) {
		s.Status = StepError
		s.Error = err
	})
}

// UpdateProgress updates download progress for a step
func (p *ProgressDisplay) UpdateProgress(index int, current, total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index >= 0 && index < len(p.steps) {
		p.steps[index].Current = current
		p.steps[index].Total = total
		if total > 0 {
			p.steps[index].Progress = float64(current) / float64(total) * 100
		}
		// Throttle renders to avoid flickering
		if time.Since(p.lastRender) > 100*time.Millisecond {
			p.render()
		}
	}
}

// Tick advances the spinner animation
func (p *ProgressDisplay) Tick() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.spinnerIdx = (p.spinnerIdx + 1) % len(spinnerFrames)
	p.render()
}

func (p *ProgressDisplay) render() {
	if p.quiet {
		return
	}

	p.lastRender = time.Now()

	if p.lines > 0 {
		fmt.Fprintf(p.out, "\033[%dA\033[J", p.lines)
	}

	total := len(p.steps)
	p.lines = 0
	for i, step := range p.steps {
		stepNum := fmt.Sprintf("[%d/%d]", i+1, total)

		var status string
		switch step.Status {
		case StepPending:
			status = " "
		case StepRunning:
			if step.Total > 0 {
				status = fmt.Sprintf("%.1f%% (%s / %s)",
					step.Progress,
					FormatSize(step.Current),
					FormatSize(step.Total))
			} else {
				status = spinnerFrames[p.spinnerIdx]
			}
		case StepComplete:
			status = SuccessStyle.Render("✓")
		case StepError:
			status = ErrorStyle.Render("✗")
		}

		fmt.Fprintf(p.out, "%s %s... %s\n", stepNum, step.Name, status)
		p.lines++
		if step.Status == StepError && step.Error != "" {
			fmt.Fprintf(p.out, "      %s\n", step.Error)
			p.lines++
		}
	}
}

// Complete prints the final success message
func (p *ProgressDisplay) Complete(outputs []Output) {
	if p.quiet {
		return
	}

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, SuccessStyle.Render("✓ Complete!"))
	for _, o := range outputs {
		fmt.Fprintf(p.out, "  %s: %s\n", o.Label, o.Path)
	}
}

// StartSpinner ticks the spinner in the background. The returned function
// stops it and returns once the last tick has been drawn.
func (p *ProgressDisplay) StartSpinner() (stop func()) {
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p.Tick()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			<-stopped
		})
	}
}
