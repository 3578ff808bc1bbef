package results

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/careerfit/internal/catalog"
	"github.com/abhisek/careerfit/internal/coach"
	"github.com/abhisek/careerfit/internal/report"
	"github.com/abhisek/careerfit/internal/router"
	"github.com/abhisek/careerfit/internal/screen"
	"github.com/abhisek/careerfit/internal/scoring"
	"github.com/abhisek/careerfit/internal/ui/components"
	"github.com/abhisek/careerfit/internal/ui/layout"
	"github.com/abhisek/careerfit/internal/ui/theme"
	"github.com/abhisek/careerfit/internal/wizard"
)

const pollInterval = 120 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// coachPollMsg drives the spinner and checks for a finished narrative.
type coachPollMsg time.Time

type coachState int

const (
	coachOff coachState = iota
	coachWaiting
	coachReady
	coachFailed
)

// Option configures a ResultsScreen.
type Option func(*ResultsScreen)

// WithCoach enables personalized notes from svc.
func WithCoach(svc *coach.Service) Option {
	return func(s *ResultsScreen) { s.coach = svc }
}

// WithLogger sets the logger for print failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *ResultsScreen) { s.log = l }
}

// WithClock overrides time.Now for report timestamps and file names.
func WithClock(now func() time.Time) Option {
	return func(s *ResultsScreen) { s.now = now }
}

// ResultsScreen shows the scored assessment and offers retake and print.
type ResultsScreen struct {
	ctrl  *wizard.Controller
	flow  screen.Flow
	coach *coach.Service
	log   *zap.Logger
	now   func() time.Time

	result    scoring.Result
	narrative *coach.Narrative
	state     coachState
	frame     int

	buttons  components.ButtonRow
	printing bool
	input    components.TextInput
	status   string
	offset   int
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates the results screen for a controller that reached results.
func New(ctrl *wizard.Controller, flow screen.Flow, opts ...Option) *ResultsScreen {
	s := &ResultsScreen{
		ctrl: ctrl,
		flow: flow,
		log:  zap.NewNop(),
		now:  time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.result, _ = ctrl.Result()
	s.buttons = components.NewButtonRow(
		components.NewButton("Retake", true, s.retake),
		components.NewButton("Print", false, s.startPrint),
	)
	return s
}

func (s *ResultsScreen) Init() tea.Cmd {
	if s.coach == nil {
		return nil
	}
	s.coach.Request(context.Background(), coach.Input{Result: s.result})
	s.state = coachWaiting
	return poll()
}

func poll() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return coachPollMsg(t)
	})
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	if s.printing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "←→", Description: "Choose"},
		{Key: "Enter", Description: "Press"},
		{Key: "R", Description: "Retake"},
		{Key: "P", Description: "Print"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case coachPollMsg:
		return s, s.checkCoach()

	case tea.KeyMsg:
		if s.printing {
			return s, s.updatePrint(msg)
		}
		switch msg.String() {
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
			return s, nil
		case "down", "j":
			s.offset++
			return s, nil
		case "pgup":
			s.offset = max(0, s.offset-10)
			return s, nil
		case "pgdown":
			s.offset += 10
			return s, nil
		case "r", "R":
			return s, s.retake()
		case "p", "P":
			return s, s.startPrint()
		}
		var cmd tea.Cmd
		s.buttons, cmd = s.buttons.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ResultsScreen) checkCoach() tea.Cmd {
	if s.state != coachWaiting || s.coach == nil {
		return nil
	}
	if n, ok := s.coach.Consume(); ok {
		s.narrative = n
		s.state = coachReady
		return nil
	}
	if !s.coach.Pending() {
		s.state = coachFailed
		return nil
	}
	s.frame = (s.frame + 1) % len(spinnerFrames)
	return poll()
}

func (s *ResultsScreen) retake() tea.Cmd {
	s.ctrl.Restart(context.Background())
	if s.coach != nil {
		s.coach.Cancel()
	}
	s.state = coachOff
	next := s.flow.Intro()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (s *ResultsScreen) startPrint() tea.Cmd {
	s.printing = true
	s.status = ""
	name := fmt.Sprintf("careerfit-report-%s.txt", s.now().Format("20060102-1504"))
	s.input = components.NewTextInput("report file", name, 200)
	return s.input.Init()
}

func (s *ResultsScreen) updatePrint(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		s.printing = false
		return nil
	case "enter":
		path := s.input.Value()
		if path == "" {
			s.input.SetStatus("Enter a file name.", true)
			return nil
		}
		if err := s.writeReport(path); err != nil {
			s.log.Warn("print report", zap.String("path", path), zap.Error(err))
			s.input.SetStatus(err.Error(), true)
			return nil
		}
		s.printing = false
		s.status = "Report saved to " + path
		return nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

func (s *ResultsScreen) writeReport(path string) error {
	var buf bytes.Buffer
	err := report.Text(&buf, report.Report{
		Result:      s.result,
		RunID:       s.ctrl.RunID(),
		CompletedAt: s.now(),
		Narrative:   s.narrative,
	})
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func (s *ResultsScreen) View(width, height int) string {
	cw := min(width-4, 96)

	body := s.renderBody(cw)
	footer := s.renderActions(width)

	// Scroll the body so the actions stay visible.
	lines := strings.Split(body, "\n")
	avail := max(1, height-lipgloss.Height(footer)-1)
	maxOffset := max(0, len(lines)-avail)
	s.offset = min(s.offset, maxOffset)
	end := min(len(lines), s.offset+avail)
	visible := strings.Join(lines[s.offset:end], "\n")

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, visible) + "\n" + footer
}

func (s *ResultsScreen) renderBody(cw int) string {
	res := s.result
	var parts []string

	parts = append(parts, renderBanner(res, cw))
	parts = append(parts, renderScoreCards(res, cw))
	parts = append(parts, renderWiscar(res, cw))

	parts = append(parts, theme.SectionHeading.Render("Why")+"\n"+
		theme.Body.Width(cw).Render(res.Reasoning))

	parts = append(parts, renderList("Next Steps", res.NextSteps, cw))
	parts = append(parts, renderGaps(res.SkillGaps))

	if coachView := s.renderCoach(cw); coachView != "" {
		parts = append(parts, coachView)
	}

	return lipgloss.NewStyle().Width(cw).Render(strings.Join(parts, "\n\n"))
}

func renderBanner(res scoring.Result, cw int) string {
	color := theme.TierColor(res.Recommendation)
	label := lipgloss.NewStyle().Foreground(color).Bold(true).
		Render(scoring.TierLabel(res.Recommendation))
	conf := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("Confidence %.0f%%", res.ConfidenceScore))

	return theme.Card.
		BorderForeground(color).
		Width(cw).
		Align(lipgloss.Center).
		Render(label + "\n" + conf)
}

type scoreCard struct {
	Title string
	Score float64
	Badge string
}

func renderScoreCards(res scoring.Result, cw int) string {
	cards := []scoreCard{
		{"Psychometric Fit", res.PsychometricFit, scoring.PsychometricBadge(res.PsychometricFit)},
		{"Technical Readiness", res.TechnicalReadiness, scoring.TechnicalBadge(res.TechnicalReadiness)},
		{"Overall Score", res.OverallScore, scoring.OverallBadge(res.OverallScore)},
	}

	stacked := layout.IsCompactWidth(cw + 4)
	cardWidth := (cw - 4) / 3
	if stacked {
		cardWidth = cw
	}

	rendered := make([]string, len(cards))
	for i, c := range cards {
		score := lipgloss.NewStyle().Foreground(theme.BandColor(c.Score)).Bold(true).
			Render(fmt.Sprintf("%.0f%%", c.Score))
		rendered[i] = theme.Card.
			Width(cardWidth).
			Align(lipgloss.Center).
			Render(theme.Hint.Render(c.Title) + "\n" + score + "\n" + theme.Body.Render(c.Badge))
	}

	if stacked {
		return lipgloss.JoinVertical(lipgloss.Left, rendered...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered[0], "  ", rendered[1], "  ", rendered[2])
}

func renderWiscar(res scoring.Result, cw int) string {
	var b strings.Builder
	b.WriteString(theme.SectionHeading.Render("WISCAR Framework"))
	barWidth := max(10, cw-30)
	for _, d := range catalog.WiscarDimensions {
		b.WriteString("\n")
		b.WriteString(components.ScoreBar(d.DisplayName(), res.WISCAR.Get(d), barWidth))
	}
	return b.String()
}

func renderList(title string, items []string, cw int) string {
	var b strings.Builder
	b.WriteString(theme.SectionHeading.Render(title))
	for i, it := range items {
		b.WriteString("\n")
		b.WriteString(theme.Body.Width(cw).Render(fmt.Sprintf("%d. %s", i+1, it)))
	}
	return b.String()
}

func renderGaps(gaps []scoring.SkillGap) string {
	var b strings.Builder
	b.WriteString(theme.SectionHeading.Render("Skill Gaps"))
	for _, g := range gaps {
		b.WriteString("\n")
		line := fmt.Sprintf("%-28s required %3d  current %3d  ", g.Skill, g.Required, g.Current)
		gap := lipgloss.NewStyle().Foreground(theme.Warning).Render(fmt.Sprintf("Gap: %d points", g.Gap()))
		b.WriteString(theme.Body.Render(line) + gap)
	}
	return b.String()
}

func (s *ResultsScreen) renderCoach(cw int) string {
	heading := theme.SectionHeading.Render("Coach Notes")
	switch s.state {
	case coachWaiting:
		return heading + "\n" + lipgloss.NewStyle().Foreground(theme.Secondary).
			Render(spinnerFrames[s.frame]+" Your coach is writing personalized notes...")
	case coachFailed:
		return heading + "\n" + theme.Hint.Render("Coach notes are unavailable right now.")
	case coachReady:
		n := s.narrative
		var b strings.Builder
		b.WriteString(heading)
		b.WriteString("\n")
		b.WriteString(theme.Body.Width(cw).Render(n.Summary))
		for _, sec := range []struct {
			title string
			items []string
		}{
			{"Strengths", n.Strengths},
			{"Focus areas", n.FocusAreas},
			{"Your first week", n.FirstWeekPlan},
		} {
			if len(sec.items) == 0 {
				continue
			}
			b.WriteString("\n\n")
			b.WriteString(theme.Hint.Render(sec.title))
			for _, it := range sec.items {
				b.WriteString("\n")
				b.WriteString(theme.Body.Width(cw).Render("• " + it))
			}
		}
		return b.String()
	}
	return ""
}

func (s *ResultsScreen) renderActions(width int) string {
	var b strings.Builder
	if s.printing {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.SectionHeading.Render("Save report as")+"\n"+s.input.View()))
		return b.String()
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.buttons.View()))
	if s.status != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Success).Render(s.status)))
	}
	return b.String()
}
