package prompt

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

// --- inputModel: free text ---

type inputModel struct {
	textInput textinput.Model
	title     string
	errMsg    string
	done      bool
	aborted   bool
}

func newInputModel(title, placeholder string) inputModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	return inputModel{textInput: ti, title: title}
}

func (m inputModel) Value() string {
	return strings.TrimSpace(m.textInput.Value())
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			if m.Value() == "" {
				m.errMsg = "a value is required"
				return m, nil
			}
			m.done = true
			return m, tea.Quit
		}
	}
	m.errMsg = ""
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n")
	b.WriteString(m.textInput.View() + "\n")
	if m.errMsg != "" {
		b.WriteString(errStyle.Render(m.errMsg) + "\n")
	}
	return b.String()
}

// --- confirmModel: yes/no ---

type confirmModel struct {
	title   string
	value   bool
	done    bool
	aborted bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			m.done = true
			return m, tea.Quit
		case "y", "Y":
			m.value = true
			m.done = true
			return m, tea.Quit
		case "n", "N":
			m.value = false
			m.done = true
			return m, tea.Quit
		case "left", "right", "tab", "h", "l":
			m.value = !m.value
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	yes := " Yes "
	no := " No "
	if m.value {
		yes = selectedStyle.Render(yes)
	} else {
		no = selectedStyle.Render(no)
	}
	return fmt.Sprintf("%s %s / %s\n", titleStyle.Render(m.title), yes, no)
}

// --- selectModel: list with type-to-filter ---

type selectModel struct {
	title   string
	options []Option
	filter  textinput.Model
	visible []int
	cursor  int
	choice  string
	done    bool
	aborted bool
}

func newSelectModel(title string, options []Option) selectModel {
	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.Prompt = "/ "
	ti.Focus()

	m := selectModel{title: title, options: options, filter: ti}
	m.applyFilter()
	return m
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			if len(m.visible) == 0 {
				return m, nil
			}
			m.choice = m.options[m.visible[m.cursor]].Value
			m.done = true
			return m, tea.Quit
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.applyFilter()
	}
	return m, cmd
}

func (m *selectModel) applyFilter() {
	m.cursor = 0
	pattern := strings.TrimSpace(m.filter.Value())
	if pattern == "" {
		m.visible = make([]int, len(m.options))
		for i := range m.options {
			m.visible[i] = i
		}
		return
	}

	labels := make([]string, len(m.options))
	for i, o := range m.options {
		labels[i] = o.Label
	}
	matches := fuzzy.Find(pattern, labels)
	m.visible = make([]int, len(matches))
	for i, match := range matches {
		m.visible[i] = match.Index
	}
}

func (m selectModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n")
	b.WriteString(m.filter.View() + "\n")
	if len(m.visible) == 0 {
		b.WriteString(errStyle.Render("  no match") + "\n")
	}
	for i, idx := range m.visible {
		o := m.options[idx]
		line := "  " + o.Label
		if i == m.cursor {
			line = cursorStyle.Render("❯ ") + selectedStyle.Render(o.Label)
		}
		if o.Hint != "" {
			line += " " + hintStyle.Render(o.Hint)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
