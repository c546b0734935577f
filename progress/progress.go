package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"
)

// Progress shows a spinner while a lookup is in flight. When out is not a
// terminal the spinner is never started and only the stop messages are printed.
type Progress struct {
	spinner *spinner.Spinner
	out     io.Writer
	mu      sync.Mutex
	tty     bool
}

// New creates a new Progress writing to out (stderr when nil)
func New(out io.Writer) *Progress {
	if out == nil {
		out = os.Stderr
	}
	s := spinner.New(spinner.CharSets[14], 80*time.Millisecond, spinner.WithWriter(out))
	s.Color("cyan")

	return &Progress{
		spinner: s,
		out:     out,
		tty:     isTerminal(out),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Start sets the spinner message and starts it
func (p *Progress) Start(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.spinner.Suffix = " " + msg
	if p.tty {
		p.spinner.Start()
	}
}

// Stop halts the spinner and prints msg in its place
func (p *Progress) Stop(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.spinner.Active() {
		p.spinner.Stop()
	}
	if msg != "" {
		fmt.Fprintf(p.out, "%s\n", msg)
	}
}
