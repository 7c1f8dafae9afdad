// Package cli renders adminctl output: status lines, a pending indicator, tables,
// JSON and shell completion scripts.
package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Color codes for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
)

const (
	pendingGrace = 250 * time.Millisecond
	pendingTick  = 120 * time.Millisecond
	clearLine    = "\r\033[K"
)

var pendingFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// Pending marks an API call in flight on a terminal. Calls that finish within
// the grace period draw nothing, so quick commands leave no trace on stderr.
type Pending struct {
	w     io.Writer
	label string
	grace time.Duration
	on    bool

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewPending returns an indicator for label. It stays silent unless w is a terminal.
func NewPending(w io.Writer, label string) *Pending {
	return newPending(w, label, pendingGrace, IsTerminal(w))
}

func newPending(w io.Writer, label string, grace time.Duration, on bool) *Pending {
	return &Pending{w: w, label: label, grace: grace, on: on, stop: make(chan struct{}), done: make(chan struct{})}
}

// Start begins drawing after the grace period.
func (p *Pending) Start() {
	if !p.on {
		close(p.done)
		return
	}
	go p.run(time.Now())
}

func (p *Pending) run(started time.Time) {
	defer close(p.done)

	grace := time.NewTimer(p.grace)
	defer grace.Stop()
	select {
	case <-p.stop:
		return
	case <-grace.C:
	}

	tick := time.NewTicker(pendingTick)
	defer tick.Stop()
	for frame := 0; ; frame++ {
		r := pendingFrames[frame%len(pendingFrames)]
		fmt.Fprintf(p.w, "%s%s%c%s %s (%.1fs)", clearLine, ColorCyan, r, ColorReset, p.label, time.Since(started).Seconds())
		select {
		case <-p.stop:
			fmt.Fprint(p.w, clearLine)
			return
		case <-tick.C:
		}
	}
}

// Stop erases the indicator and waits for the drawing goroutine to exit. It is
// safe to call more than once.
func (p *Pending) Stop() {
	p.once.Do(func() { close(p.stop) })
	select {
	case <-p.done:
	case <-time.After(time.Second):
	}
}

// IsTerminal reports whether w is a character device.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
