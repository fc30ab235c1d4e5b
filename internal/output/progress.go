package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// writerIsTTY returns true if the given writer exposes an Fd() method
// (e.g. *os.File) and that fd is a terminal. Falls back to false for
// plain io.Writer values such as *bytes.Buffer.
func writerIsTTY(w io.Writer) bool {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd())
	}
	return false
}

// ProgressBar reports progress through a known number of steps.
// Example: [=========>          ]  45%  9/20 Writing databases
//
// On a terminal the bar is redrawn in place. Elsewhere a single line is
// written when the bar completes.
type ProgressBar struct {
	mu          sync.Mutex
	writer      io.Writer
	description string
	total       int
	current     int
	width       int
	done        bool
}

// NewProgress creates a progress bar writing to stderr.
func NewProgress(total int, description string) *ProgressBar {
	return &ProgressBar{
		writer:      os.Stderr,
		description: description,
		total:       total,
		width:       30,
	}
}

// SetWriter sets the output writer.
func (p *ProgressBar) SetWriter(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writer = w
}

// SetWidth sets the bar width in characters.
func (p *ProgressBar) SetWidth(width int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if width > 0 {
		p.width = width
	}
}

// Increment advances the bar by one step.
func (p *ProgressBar) Increment() {
	p.Add(1)
}

// Add advances the bar by n steps, clamped to the total.
func (p *ProgressBar) Add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current += n
	if p.current > p.total {
		p.current = p.total
	}
	p.draw()
}

// Current returns the number of completed steps.
func (p *ProgressBar) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Finish fills the bar and ends its line. Further calls do nothing.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return
	}
	wasComplete := p.current == p.total
	p.current = p.total

	if writerIsTTY(p.writer) {
		p.draw()
		fmt.Fprintln(p.writer)
	} else if !wasComplete {
		p.draw()
	}
	p.done = true
}

// draw must be called with the lock held.
func (p *ProgressBar) draw() {
	if p.done {
		return
	}

	percent, filled := 100, p.width
	if p.total > 0 {
		percent = p.current * 100 / p.total
		filled = p.current * p.width / p.total
	}

	bar := strings.Repeat("=", max(filled-1, 0))
	if filled > 0 {
		bar += ">"
	}
	bar += strings.Repeat(" ", p.width-filled)

	line := fmt.Sprintf("[%s] %3d%% %s/%s %s",
		bar, percent, humanize.Comma(int64(p.current)), humanize.Comma(int64(p.total)), p.description)

	if writerIsTTY(p.writer) {
		fmt.Fprintf(p.writer, "\r%s", line)
	} else if p.current == p.total {
		fmt.Fprintln(p.writer, line)
	}
}

// Spinner shows that an operation of unknown length is running.
// Example: /  Mining baskets_1 (3s)
//
// On a non-terminal writer the message is printed once at Start and the
// animation goroutine is never started.
type Spinner struct {
	mu      sync.Mutex
	writer  io.Writer
	message string
	frames  []string
	running bool
	started time.Time
	stop    chan struct{}
	stopped chan struct{}
}

// NewSpinner creates a spinner writing to stderr.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		writer:  os.Stderr,
		message: message,
		frames:  []string{"|", "/", "-", "\\"},
	}
}

// SetWriter sets the output writer.
func (s *Spinner) SetWriter(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer = w
}

// Start begins the animation. Starting a running spinner does nothing.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	s.started = time.Now()

	if !writerIsTTY(s.writer) {
		fmt.Fprintf(s.writer, "%s...\n", s.message)
		return
	}

	s.stop = make(chan struct{})
	s.stopped = make(chan struct{})
	go s.loop()
}

func (s *Spinner) loop() {
	defer close(s.stopped)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for frame := 0; ; frame = (frame + 1) % len(s.frames) {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			elapsed := time.Since(s.started).Truncate(time.Second)
			fmt.Fprintf(s.writer, "\r%s  %s (%s)", s.frames[frame], s.message, elapsed)
			s.mu.Unlock()
		}
	}
}

// UpdateMessage replaces the message shown while running.
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// Stop halts the animation and clears its line. Stopping a stopped spinner
// does nothing.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop, stopped := s.stop, s.stopped
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-stopped

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.writer, "\r%s\r", strings.Repeat(" ", len(s.message)+16))
}

// StopWithMessage stops the spinner and prints message on its own line.
func (s *Spinner) StopWithMessage(message string) {
	s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.writer, message)
}
