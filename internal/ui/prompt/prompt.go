package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"siapkit/internal/ui/theme"
)

// ErrCancelled is returned when the user leaves a prompt with esc or ctrl+c.
var ErrCancelled = errors.New("prompt cancelled")

// Model is a single-line question backed by bubbles/textinput.
type Model struct {
	question  string
	input     textinput.Model
	done      bool
	cancelled bool
}

func New(question string) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 64
	ti.Focus()
	return Model{question: question, input: ti}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			m.input.Blur()
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.cancelled = true
			m.input.Blur()
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.done || m.cancelled {
		return theme.Prompt.Render(m.question) + " " + m.input.Value() + "\n"
	}
	return theme.Prompt.Render(m.question) + " " + m.input.View()
}

// Value is the trimmed answer.
func (m Model) Value() string { return strings.TrimSpace(m.input.Value()) }

func (m Model) Cancelled() bool { return m.cancelled }

// TeaPrompter runs one bubbletea program per question.
type TeaPrompter struct {
	in  io.Reader
	out io.Writer
}

func NewTeaPrompter(in io.Reader, out io.Writer) TeaPrompter {
	return TeaPrompter{in: in, out: out}
}

func (p TeaPrompter) Ask(ctx context.Context, question string) (string, error) {
	program := tea.NewProgram(New(question),
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)
	final, err := program.Run()
	if err != nil {
		return "", fmt.Errorf("prompt %q: %w", question, err)
	}
	m, ok := final.(Model)
	if !ok {
		return "", fmt.Errorf("prompt %q: unexpected model %T", question, final)
	}
	if m.Cancelled() {
		return "", ErrCancelled
	}
	return m.Value(), nil
}
