package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	introStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")).Padding(0, 1)
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	noteStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

// UI writes styled status lines. All output goes to one writer so it does not
// interleave with the package manager's stdout.
type UI struct {
	out io.Writer
}

func New(out io.Writer) *UI {
	if out == nil {
		out = os.Stderr
	}
	return &UI{out: out}
}

func (u *UI) Intro(title string) {
	fmt.Fprintf(u.out, "%s\n%s\n", introStyle.Render(title), barStyle.Render("│"))
}

func (u *UI) Outro(msg string) {
	fmt.Fprintf(u.out, "%s %s\n\n", barStyle.Render("└"), msg)
}

func (u *UI) Info(format string, a ...any) {
	u.line(infoStyle.Render("●"), fmt.Sprintf(format, a...))
}

func (u *UI) Warn(format string, a ...any) {
	u.line(warnStyle.Render("▲"), warnStyle.Render(fmt.Sprintf(format, a...)))
}

func (u *UI) Error(format string, a ...any) {
	u.line(errorStyle.Render("✖"), errorStyle.Render(fmt.Sprintf(format, a...)))
}

func (u *UI) Success(format string, a ...any) {
	u.line(successStyle.Render("◆"), fmt.Sprintf(format, a...))
}

// Note prints body inside a bordered box with title above it.
func (u *UI) Note(title, body string) {
	body = strings.TrimRight(body, "\n")
	fmt.Fprintf(u.out, "%s %s\n", successStyle.Render("◇"), titleStyle.Render(title))
	fmt.Fprintln(u.out, noteStyle.Render(body))
	fmt.Fprintln(u.out, barStyle.Render("│"))
}

func (u *UI) line(icon, msg string) {
	fmt.Fprintf(u.out, "%s %s\n", icon, msg)
}
