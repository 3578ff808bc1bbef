package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerfit/internal/router"
	"github.com/abhisek/careerfit/internal/screen"
	"github.com/abhisek/careerfit/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

const clipboardArt = `   ╭──┴┴┴──╮
  ╭┤       ├╮
  ││ ☐ ──  ││
  ││ ☐ ──  ││
  ││ ☐ ──  ││
  │╰───────╯│
  ╰─────────╯`

// tagline is shown under the banner once the splash has played.
const tagline = "Is compliance tracking the career for you?"

type tickMsg time.Time

// WelcomeScreen shows a short splash before handing over to the intro.
// Each tick fills in one more checkbox on the clipboard.
type WelcomeScreen struct {
	next         func() screen.Screen
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that replaces itself with next() on any key.
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.elapsed >= totalDur {
			return w, nil
		}
		w.elapsed += tickInterval
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

// checked returns how many of the three boxes are ticked.
func (w *WelcomeScreen) checked() int {
	switch {
	case w.elapsed >= phase2End:
		return 3
	case w.elapsed >= phase1End:
		return 2
	case w.elapsed > 0:
		return 1
	}
	return 0
}

func (w *WelcomeScreen) View(width, height int) string {
	art := clipboardArt
	for i := 0; i < w.checked(); i++ {
		art = strings.Replace(art, "☐", "☑", 1)
	}

	sections := []string{lipgloss.NewStyle().Foreground(theme.Secondary).Render(art)}

	if w.elapsed >= phase2End {
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(tagline),
			"",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("press any key to continue"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
