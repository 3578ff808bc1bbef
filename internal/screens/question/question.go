package question

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerfit/internal/catalog"
	"github.com/abhisek/careerfit/internal/responses"
	"github.com/abhisek/careerfit/internal/router"
	"github.com/abhisek/careerfit/internal/screen"
	"github.com/abhisek/careerfit/internal/ui/components"
	"github.com/abhisek/careerfit/internal/ui/layout"
	"github.com/abhisek/careerfit/internal/ui/theme"
	"github.com/abhisek/careerfit/internal/wizard"
)

const toastDuration = 2 * time.Second

// toastDoneMsg clears the toast it was scheduled for.
type toastDoneMsg struct {
	id int
}

// QuestionScreen shows one question at a time and walks the wizard forward.
type QuestionScreen struct {
	ctrl *wizard.Controller
	flow screen.Flow

	question catalog.Question
	choices  components.ChoiceList

	hint        string
	toast       string
	toastID     int
	confirmQuit bool
}

var _ screen.Screen = (*QuestionScreen)(nil)
var _ screen.KeyHintProvider = (*QuestionScreen)(nil)

// New creates a question screen positioned at the controller's current question.
func New(ctrl *wizard.Controller, flow screen.Flow) *QuestionScreen {
	s := &QuestionScreen{ctrl: ctrl, flow: flow}
	s.load()
	return s
}

// load rebuilds the option list for the current question, with the cursor
// on any earlier answer.
func (s *QuestionScreen) load() {
	q, ok := s.ctrl.Current()
	if !ok {
		s.question = catalog.Question{}
		s.choices = components.NewChoiceList(nil, -1)
		return
	}
	s.question = q
	opts := optionLabels(q)
	chosen := -1
	if v, ok := s.ctrl.CurrentAnswer(); ok {
		chosen = indexOf(q, v)
	}
	s.choices = components.NewChoiceList(opts, chosen)
}

// optionLabels returns the scale labels of a rating question or the options
// of a choice question.
func optionLabels(q catalog.Question) []string {
	if q.Type == catalog.TypeLikert && q.Scale != nil {
		return q.Scale.Labels
	}
	return q.Options
}

func indexOf(q catalog.Question, v responses.Value) int {
	if n, ok := v.AsRating(); ok && q.Scale != nil {
		return n - q.Scale.Min
	}
	if label, ok := v.AsChoice(); ok {
		for i, o := range q.Options {
			if o == label {
				return i
			}
		}
	}
	return -1
}

// valueAt converts option i into the response value the question expects.
func valueAt(q catalog.Question, i int) responses.Value {
	if q.Type == catalog.TypeLikert && q.Scale != nil {
		return responses.Rating(q.Scale.Min + i)
	}
	return responses.Choice(q.Options[i])
}

func (s *QuestionScreen) Init() tea.Cmd {
	return nil
}

func (s *QuestionScreen) Title() string {
	return s.ctrl.Section().Title()
}

func (s *QuestionScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave"},
			{Key: "N", Description: "Stay"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: fmt.Sprintf("1-%d/Space", len(s.choices.Options)), Description: "Choose"},
		{Key: "Enter", Description: "Next"},
		{Key: "Esc", Description: "Leave"},
	}
}

func (s *QuestionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case toastDoneMsg:
		if msg.id == s.toastID {
			s.toast = ""
		}
		return s, nil

	case tea.KeyMsg:
		if s.confirmQuit {
			return s, s.handleQuitConfirm(msg.String())
		}

		switch msg.String() {
		case "esc":
			s.confirmQuit = true
			return s, nil
		case "enter":
			return s, s.advance()
		}

		var changed bool
		s.choices, changed = s.choices.Update(msg)
		if changed {
			s.answer()
		}
	}
	return s, nil
}

func (s *QuestionScreen) handleQuitConfirm(key string) tea.Cmd {
	switch key {
	case "y", "Y":
		s.confirmQuit = false
		next := s.flow.Intro()
		return func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: next}
		}
	case "n", "N", "esc":
		s.confirmQuit = false
	}
	return nil
}

func (s *QuestionScreen) answer() {
	v := valueAt(s.question, s.choices.Chosen)
	if err := s.ctrl.Answer(context.Background(), v); err != nil {
		s.hint = "Could not record that answer: " + err.Error()
		return
	}
	s.hint = ""
}

func (s *QuestionScreen) advance() tea.Cmd {
	if !s.ctrl.CanAdvance() {
		s.hint = fmt.Sprintf("Choose an answer first (1-%d or Space).", len(s.choices.Options))
		return nil
	}

	t, err := s.ctrl.Advance(context.Background())
	if err != nil {
		if errors.Is(err, wizard.ErrUnanswered) {
			s.hint = "Choose an answer first."
		}
		return nil
	}
	s.hint = ""

	if t.To == wizard.SectionResults {
		next := s.flow.Results()
		return func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: next}
		}
	}

	s.load()
	if !t.Changed() {
		return nil
	}
	return s.showToast(fmt.Sprintf("Section %d of %d: %s",
		int(t.To), len(catalog.Categories), t.To.Title()))
}

func (s *QuestionScreen) showToast(text string) tea.Cmd {
	s.toastID++
	s.toast = text
	id := s.toastID
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastDoneMsg{id: id}
	})
}

func (s *QuestionScreen) View(width, height int) string {
	cw := min(width-4, 90)
	pos, total := s.ctrl.Position()

	var b strings.Builder

	// Section and position line.
	left := theme.SectionHeading.Render("  " + s.ctrl.Section().Title())
	right := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("Question %d of %d", s.ctrl.Index()+1, s.ctrl.SectionLen()))
	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4; pad > 0 {
		line += strings.Repeat(" ", pad) + right
	} else {
		line += "  " + right
	}
	b.WriteString(line)
	b.WriteString("\n")

	var pct float64
	if total > 0 {
		pct = float64(pos-1) / float64(total)
	}
	bar := components.NewProgressBar(fmt.Sprintf("%d/%d", pos, total), pct, true, cw-20)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	if s.toast != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Toast.Render(s.toast)))
		b.WriteString("\n\n")
	}

	text := lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(s.question.Text)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, text))
	b.WriteString("\n")
	if s.question.Type == catalog.TypeScenario {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render("Scenario: pick the best response")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choices.View()))
	b.WriteString("\n\n")

	switch {
	case s.confirmQuit:
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Warning).Bold(true).
				Render("Leave the assessment? Your answers are saved. (y/n)")))
	case s.hint != "":
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Error).Render(s.hint)))
	}

	return b.String()
}
