package intro

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerfit/internal/router"
	"github.com/abhisek/careerfit/internal/screen"
	"github.com/abhisek/careerfit/internal/ui/components"
	"github.com/abhisek/careerfit/internal/ui/layout"
	"github.com/abhisek/careerfit/internal/ui/theme"
	"github.com/abhisek/careerfit/internal/wizard"
)

const heading = "Compliance Tracker Career Assessment"

const roleSummary = "Compliance trackers keep an organization on the right side of laws, " +
	"regulations and internal policy. They monitor deadlines, maintain records, " +
	"flag risks early, and prepare the evidence auditors and regulators ask for."

var careerPaths = []string{
	"Compliance Analyst",
	"Risk Management Associate",
	"Regulatory Affairs Coordinator",
	"Governance Officer",
	"Audit Assistant",
	"Legal Operations Specialist",
}

var predictors = []string{
	"Attention to detail",
	"Comfort with rules and structure",
	"Analytical thinking",
	"Integrity and discretion",
	"Clear written communication",
}

type sectionInfo struct {
	Name    string
	Minutes string
}

var sections = []sectionInfo{
	{wizard.SectionPsychometric.Title(), "~8 min"},
	{wizard.SectionTechnical.Title(), "~10 min"},
	{wizard.SectionWiscar.Title(), "~7 min"},
}

const totalTime = "20-30 minutes total"

// IntroScreen explains the role and starts or resumes the assessment.
type IntroScreen struct {
	ctrl *wizard.Controller
	flow screen.Flow
	menu components.Menu
}

var _ screen.Screen = (*IntroScreen)(nil)
var _ screen.KeyHintProvider = (*IntroScreen)(nil)

// New creates the intro screen for ctrl.
func New(ctrl *wizard.Controller, flow screen.Flow) *IntroScreen {
	s := &IntroScreen{ctrl: ctrl, flow: flow}

	start := components.MenuItem{Label: "Start assessment", Hint: totalTime, Action: s.start}
	if s.resuming() {
		start.Label = "Resume assessment"
		start.Hint = fmt.Sprintf("%d of %d answered", ctrl.Answered(), ctrl.Catalog().Len())
	}
	past := components.MenuItem{Label: "Past results", Action: s.history}
	if flow.History() == nil {
		past.Disabled = true
		past.Hint = "not kept with in-memory storage"
	}

	items := []components.MenuItem{
		start,
		past,
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	}
	s.menu = components.NewMenu(items)
	return s
}

// resuming reports whether there is progress to pick up.
func (s *IntroScreen) resuming() bool {
	return s.ctrl.Section().IsQuestion() || s.ctrl.Answered() > 0
}

func (s *IntroScreen) start() tea.Cmd {
	if s.ctrl.Section() == wizard.SectionIntro {
		s.ctrl.Resume(context.Background())
	}
	next := s.flow.Question()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (s *IntroScreen) history() tea.Cmd {
	h := s.flow.History()
	if h == nil {
		return nil
	}
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: h}
	}
}

func (s *IntroScreen) Init() tea.Cmd {
	return nil
}

func (s *IntroScreen) Title() string {
	return "Welcome"
}

func (s *IntroScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *IntroScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *IntroScreen) View(width, height int) string {
	cw := min(width-4, 84)
	compact := layout.IsCompactHeight(height) || layout.IsCompactWidth(width)

	var parts []string
	parts = append(parts, theme.Title.Width(cw).Render(heading))
	parts = append(parts, theme.Body.Width(cw).Render(roleSummary))

	if !compact {
		parts = append(parts, renderColumns(cw))
	}
	parts = append(parts, renderSections(cw))

	if notice := s.resumeNotice(); notice != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Warning).Bold(true).Render(notice))
	}

	parts = append(parts, s.menu.View())

	content := strings.Join(parts, "\n\n")
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}

func (s *IntroScreen) resumeNotice() string {
	n := s.ctrl.Answered()
	if n == 0 {
		return ""
	}
	_, total := s.ctrl.Position()
	return fmt.Sprintf("Welcome back! %d of %d answers were saved from your last visit.", n, total)
}

func renderColumns(cw int) string {
	colWidth := (cw - 4) / 2
	left := renderList("Typical career paths", careerPaths, colWidth)
	right := renderList("Success predictors", predictors, colWidth)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)
}

func renderList(title string, items []string, width int) string {
	var b strings.Builder
	b.WriteString(theme.SectionHeading.Render(title))
	for _, it := range items {
		b.WriteString("\n")
		b.WriteString(theme.Body.Render("• " + it))
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func renderSections(cw int) string {
	var b strings.Builder
	b.WriteString(theme.SectionHeading.Render("What to expect"))
	for i, sec := range sections {
		b.WriteString("\n")
		b.WriteString(theme.Body.Render(fmt.Sprintf("%d. %-24s %s", i+1, sec.Name, sec.Minutes)))
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(totalTime))
	return theme.Card.Width(cw).Render(b.String())
}
