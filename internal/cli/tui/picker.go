// Package tui provides full-screen terminal pickers built on bubbletea.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/uhco-curriculum/lomap/internal/cli/prompt"
)

// ErrCancelled is returned when the user leaves a picker with Esc or Ctrl-C.
var ErrCancelled = errors.New("selection cancelled")

// visibleRows is the number of options shown at once.
const visibleRows = 12

var (
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

// PickerModel is a filterable option list. Typing narrows the list by fuzzy match;
// up/down move the cursor; enter accepts.
type PickerModel struct {
	label    string
	options  []string
	filtered []string
	cursor   int
	offset   int
	input    textinput.Model

	choice    string
	cancelled bool
}

// NewPicker creates a picker over options.
func NewPicker(label string, options []string) PickerModel {
	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.Prompt = "/ "
	ti.Focus()
	return PickerModel{
		label:    label,
		options:  options,
		filtered: options,
		input:    ti,
	}
}

// Init implements tea.Model.
func (m PickerModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			if len(m.filtered) > 0 {
				m.choice = m.filtered[m.cursor]
				return m, tea.Quit
			}
			return m, nil
		case tea.KeyUp, tea.KeyCtrlP:
			m.moveCursor(-1)
			return m, nil
		case tea.KeyDown, tea.KeyCtrlN:
			m.moveCursor(1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refilter()
	}
	return m, cmd
}

func (m *PickerModel) moveCursor(delta int) {
	if len(m.filtered) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.filtered)) % len(m.filtered)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visibleRows {
		m.offset = m.cursor - visibleRows + 1
	}
}

func (m *PickerModel) refilter() {
	q := strings.TrimSpace(m.input.Value())
	if q == "" {
		m.filtered = m.options
	} else {
		m.filtered = prompt.Matches(q, m.options)
	}
	m.cursor, m.offset = 0, 0
}

// View implements tea.Model.
func (m PickerModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.label))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if len(m.filtered) == 0 {
		b.WriteString(mutedStyle.Render("  no matches"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.offset + visibleRows
	if end > len(m.filtered) {
		end = len(m.filtered)
	}
	for i := m.offset; i < end; i++ {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + m.filtered[i]))
		} else {
			b.WriteString("  " + m.filtered[i])
		}
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d/%d", len(m.filtered), len(m.options))))
	b.WriteString("\n")
	return b.String()
}

// Choice returns the accepted option, or "" when none was accepted.
func (m PickerModel) Choice() string {
	return m.choice
}

// Cancelled reports whether the user left without choosing.
func (m PickerModel) Cancelled() bool {
	return m.cancelled
}

// Prompter runs a picker for each choice and a single-line input for free text.
type Prompter struct {
	in  io.Reader
	out io.Writer
}

var _ prompt.Prompter = (*Prompter)(nil)

// NewPrompter creates a prompter on the given terminal streams.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out}
}

// Choose implements prompt.Prompter.
func (p *Prompter) Choose(label string, options []string) (string, error) {
	final, err := tea.NewProgram(NewPicker(label, options), tea.WithInput(p.in), tea.WithOutput(p.out)).Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(PickerModel)
	if !ok || m.Cancelled() || m.Choice() == "" {
		return "", ErrCancelled
	}
	return m.Choice(), nil
}

// Ask implements prompt.Prompter.
func (p *Prompter) Ask(label, def string) (string, error) {
	final, err := tea.NewProgram(newInput(label, def), tea.WithInput(p.in), tea.WithOutput(p.out)).Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(inputModel)
	if !ok || m.cancelled {
		return "", ErrCancelled
	}
	if v := strings.TrimSpace(m.input.Value()); v != "" {
		return v, nil
	}
	return def, nil
}

// Close implements prompt.Prompter.
func (p *Prompter) Close() error {
	return nil
}

type inputModel struct {
	label     string
	input     textinput.Model
	done      bool
	cancelled bool
}

func newInput(label, def string) inputModel {
	ti := textinput.New()
	ti.Placeholder = def
	ti.Focus()
	return inputModel{label: label, input: ti}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	return titleStyle.Render(m.label) + "\n" + m.input.View() + "\n"
}
