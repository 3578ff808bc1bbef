package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/careerfit/internal/coach"
	"github.com/abhisek/careerfit/internal/router"
	"github.com/abhisek/careerfit/internal/screen"
	"github.com/abhisek/careerfit/internal/screens/history"
	"github.com/abhisek/careerfit/internal/screens/intro"
	"github.com/abhisek/careerfit/internal/screens/question"
	"github.com/abhisek/careerfit/internal/screens/results"
	"github.com/abhisek/careerfit/internal/screens/welcome"
	"github.com/abhisek/careerfit/internal/ui/layout"
	"github.com/abhisek/careerfit/internal/wizard"
)

// Options wires the TUI to the assessment and its optional services.
type Options struct {
	Controller *wizard.Controller

	// Coach writes personalized notes on the results screen. Optional.
	Coach *coach.Service

	// History backs the past results screen. Optional.
	History history.Source

	Logger *zap.Logger

	// SkipSplash starts on the intro instead of the welcome animation.
	SkipSplash bool
}

// flow builds screens for one assessment run.
type flow struct {
	opts Options
}

var _ screen.Flow = (*flow)(nil)

func (f *flow) Intro() screen.Screen {
	return intro.New(f.opts.Controller, f)
}

func (f *flow) Question() screen.Screen {
	return question.New(f.opts.Controller, f)
}

func (f *flow) Results() screen.Screen {
	opts := []results.Option{results.WithLogger(f.opts.Logger)}
	if f.opts.Coach != nil {
		opts = append(opts, results.WithCoach(f.opts.Coach))
	}
	return results.New(f.opts.Controller, f, opts...)
}

func (f *flow) History() screen.Screen {
	if f.opts.History == nil {
		return nil
	}
	return history.New(f.opts.History)
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	ctrl   *wizard.Controller
	width  int
	height int
}

// newAppModel creates the root model starting on the welcome splash.
func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	f := &flow{opts: opts}

	var root screen.Screen
	if opts.SkipSplash {
		root = f.Intro()
	} else {
		root = welcome.New(f.Intro)
	}
	return AppModel{
		router: router.New(root),
		ctrl:   opts.Controller,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// status is the header text on the right: answered count during questions.
func (m AppModel) status() string {
	if m.ctrl == nil || !m.ctrl.Section().IsQuestion() {
		return ""
	}
	_, total := m.ctrl.Position()
	return fmt.Sprintf("%d/%d answered  ", m.ctrl.Answered(), total)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the header, the active screen, and the footer.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status(), m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Any key", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
