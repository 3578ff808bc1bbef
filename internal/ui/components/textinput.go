package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerfit/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with the app styling and an inline
// status line for the result of the last submit.
type TextInput struct {
	Model    textinput.Model
	MaxWidth int
	status   string
	failed   bool
}

// NewTextInput creates a focused text input prefilled with value.
func NewTextInput(placeholder, value string, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.SetValue(value)
	ti.Focus()

	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}

	return TextInput{
		Model:    ti,
		MaxWidth: maxWidth,
	}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the input followed by the status line, if any.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.status != "" {
		color := theme.Success
		if t.failed {
			color = theme.Error
		}
		view += "\n" + lipgloss.NewStyle().Foreground(color).Render(t.status)
	}
	return view
}

// Value returns the trimmed input value.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// SetStatus shows msg under the input, styled as an error when failed.
func (t *TextInput) SetStatus(msg string, failed bool) {
	t.status = msg
	t.failed = failed
}
