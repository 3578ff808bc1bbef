package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/careerfit/internal/catalog"
	"github.com/abhisek/careerfit/internal/responses"
	"github.com/abhisek/careerfit/internal/router"
	"github.com/abhisek/careerfit/internal/screens/intro"
	"github.com/abhisek/careerfit/internal/screens/welcome"
	"github.com/abhisek/careerfit/internal/wizard"
)

func newModel(t *testing.T, skipSplash bool) (AppModel, *wizard.Controller) {
	t.Helper()
	ctrl := wizard.New(catalog.Default(), nil)
	m := newAppModel(Options{Controller: ctrl, SkipSplash: skipSplash})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(AppModel), ctrl
}

func TestStartsOnWelcome(t *testing.T) {
	m, _ := newModel(t, false)
	assert.IsType(t, &welcome.WelcomeScreen{}, m.router.Active())
	assert.NotNil(t, m.Init(), "splash animation ticks")
}

func TestSkipSplashStartsOnIntro(t *testing.T) {
	m, _ := newModel(t, true)
	assert.IsType(t, &intro.IntroScreen{}, m.router.Active())
}

func TestViewFramesActiveScreen(t *testing.T) {
	m, _ := newModel(t, true)
	assert.True(t, m.View().AltScreen)

	out := m.render()
	assert.Contains(t, out, "careerfit")
	assert.Contains(t, out, "Compliance Tracker Career Assessment")
	assert.Contains(t, out, "Navigate", "intro key hints in footer")
}

func TestTooSmall(t *testing.T) {
	m, _ := newModel(t, true)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	out := next.(AppModel).render()
	assert.NotContains(t, out, "Compliance Tracker Career Assessment")
}

func TestCtrlCQuits(t *testing.T) {
	m, _ := newModel(t, true)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestStartShowsQuestionAndStatus(t *testing.T) {
	m, ctrl := newModel(t, true)

	next, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	m = next.(AppModel)
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, router.ReplaceScreenMsg{}, msg)
	next, _ = m.Update(msg)
	m = next.(AppModel)

	assert.Equal(t, wizard.SectionPsychometric, ctrl.Section())
	assert.Equal(t, "Psychometric Analysis", m.router.Active().Title())
	assert.Contains(t, m.render(), "0/20 answered")

	require.NoError(t, ctrl.Answer(context.Background(), responses.Rating(5)))
	assert.Contains(t, m.render(), "1/20 answered")
}
