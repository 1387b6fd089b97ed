// pkg/interaction/checklist.go

package interaction

import (
	"context"
	"os"
	"strings"

	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/idp_err"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	cerr "github.com/cockroachdb/errors"
)

// TerminalPrompter replaces the numbered multi-select with a checkbox list.
type TerminalPrompter struct {
	*LinePrompter
	in  *os.File
	out *os.File
}

// ErrAborted is the cause of the expected error returned when the operator
// leaves the checklist with esc or ctrl+c.
var ErrAborted = cerr.New("selection aborted")

type checklistKeys struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Submit key.Binding
	Abort  key.Binding
}

var defaultChecklistKeys = checklistKeys{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Abort:  key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "abort")),
}

var (
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	checkedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff00"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	questionStyle = lipgloss.NewStyle().Bold(true)
)

type checklistModel struct {
	message string
	choices []string
	cursor  int
	checked []bool
	keys    checklistKeys
	done    bool
	aborted bool
}

func newChecklistModel(message string, choices []string) checklistModel {
	return checklistModel{
		message: message,
		choices: choices,
		checked: make([]bool, len(choices)),
		keys:    defaultChecklistKeys,
	}
}

func (m checklistModel) Init() tea.Cmd { return nil }

func (m checklistModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Abort):
		m.aborted = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Submit):
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Toggle):
		if len(m.choices) > 0 {
			m.checked[m.cursor] = !m.checked[m.cursor]
		}
	}
	return m, nil
}

func (m checklistModel) View() string {
	var b strings.Builder
	b.WriteString(questionStyle.Render("? " + m.message))
	b.WriteString("\n")

	if m.done || m.aborted {
		b.WriteString(helpStyle.Render("  " + strings.Join(m.selected(), ", ")))
		b.WriteString("\n")
		return b.String()
	}

	for i, choice := range m.choices {
		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("❯ ")
		}
		box := "◯ "
		if m.checked[i] {
			box = checkedStyle.Render("◉ ")
		}
		b.WriteString(pointer + box + choice + "\n")
	}

	help := []string{}
	for _, binding := range []key.Binding{m.keys.Up, m.keys.Down, m.keys.Toggle, m.keys.Submit, m.keys.Abort} {
		h := binding.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString(helpStyle.Render("(" + strings.Join(help, " • ") + ")"))
	b.WriteString("\n")
	return b.String()
}

func (m checklistModel) selected() []string {
	selected := make([]string, 0, len(m.choices))
	for i, ok := range m.checked {
		if ok {
			selected = append(selected, m.choices[i])
		}
	}
	return selected
}

// MultiSelect runs the checkbox list until enter, returning the checked
// choices in list order.
func (p *TerminalPrompter) MultiSelect(ctx context.Context, message string, choices []string) ([]string, error) {
	program := tea.NewProgram(
		newChecklistModel(message, choices),
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)
	final, err := program.Run()
	if err != nil {
		return nil, cerr.Wrap(err, "run checklist")
	}

	m, ok := final.(checklistModel)
	if !ok {
		return nil, cerr.AssertionFailedf("unexpected checklist model %T", final)
	}
	if m.aborted {
		return nil, idp_err.NewExpectedError(ctx, ErrAborted)
	}
	return m.selected(), nil
}
