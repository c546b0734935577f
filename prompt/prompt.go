package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	// ErrCancelled is returned when the user leaves a prompt with esc or ctrl+c,
	// or submits an empty required value.
	ErrCancelled = errors.New("operation cancelled")
	// ErrNotInteractive is returned when stdin is not a terminal.
	ErrNotInteractive = fmt.Errorf("%w: stdin is not a terminal", ErrCancelled)
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Option is one choice of a Select prompt.
type Option struct {
	Label string
	Value string
	Hint  string
}

// Prompter asks the user questions.
type Prompter interface {
	Confirm(ctx context.Context, message string, initial bool) (bool, error)
	Select(ctx context.Context, message string, options []Option) (string, error)
	Text(ctx context.Context, message string) (string, error)
}

// Terminal runs prompts as bubbletea programs.
type Terminal struct {
	in          io.Reader
	out         io.Writer
	interactive func() bool
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	t := &Terminal{in: in, out: out}
	t.interactive = func() bool {
		f, ok := t.in.(*os.File)
		return ok && term.IsTerminal(int(f.Fd()))
	}
	return t
}

func (t *Terminal) Confirm(ctx context.Context, message string, initial bool) (bool, error) {
	m, err := t.run(ctx, confirmModel{title: message, value: initial})
	if err != nil {
		return false, err
	}
	rm := m.(confirmModel)
	if rm.aborted {
		return false, ErrCancelled
	}
	return rm.value, nil
}

func (t *Terminal) Select(ctx context.Context, message string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options for %q", message)
	}
	m, err := t.run(ctx, newSelectModel(message, options))
	if err != nil {
		return "", err
	}
	rm := m.(selectModel)
	if rm.aborted {
		return "", ErrCancelled
	}
	return rm.choice, nil
}

func (t *Terminal) Text(ctx context.Context, message string) (string, error) {
	m, err := t.run(ctx, newInputModel(message, ""))
	if err != nil {
		return "", err
	}
	rm := m.(inputModel)
	if rm.aborted || rm.Value() == "" {
		return "", ErrCancelled
	}
	return rm.Value(), nil
}

func (t *Terminal) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	if !t.interactive() {
		return nil, ErrNotInteractive
	}
	result, err := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
	).Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to run prompt: %w", err)
	}
	return result, nil
}
