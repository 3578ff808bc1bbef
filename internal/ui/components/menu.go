package components

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerfit/internal/ui/theme"
)

// MenuItem is one action of a Menu. Hint is shown dimmed after the label.
type MenuItem struct {
	Label    string
	Hint     string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical action list. Disabled items are skipped by the cursor
// and by number shortcuts.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a menu with the cursor on the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	m.Selected = m.step(-1, 1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// step returns the next enabled index from i in direction dir, or -1.
func (m Menu) step(i, dir int) int {
	for j := i + dir; j >= 0 && j < len(m.Items); j += dir {
		if !m.Items[j].Disabled {
			return j
		}
	}
	return -1
}

// activate runs item i if it is enabled.
func (m Menu) activate(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	item := m.Items[i]
	if item.Disabled || item.Action == nil {
		return nil
	}
	return item.Action()
}

// Update moves the cursor and runs the selected action on enter. Number keys
// select and run the matching item.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if j := m.step(m.Selected, -1); j >= 0 {
			m.Selected = j
		}
	case "down", "j", "tab":
		if j := m.step(m.Selected, 1); j >= 0 {
			m.Selected = j
		}
	case "home", "g":
		if j := m.step(-1, 1); j >= 0 {
			m.Selected = j
		}
	case "end", "G":
		if j := m.step(len(m.Items), -1); j >= 0 {
			m.Selected = j
		}
	case "enter":
		return m, m.activate(m.Selected)
	default:
		n, err := strconv.Atoi(key)
		if err != nil || n < 1 || n > len(m.Items) || m.Items[n-1].Disabled {
			return m, nil
		}
		m.Selected = n - 1
		return m, m.activate(m.Selected)
	}
	return m, nil
}

// View renders one numbered item per line.
func (m Menu) View() string {
	hint := lipgloss.NewStyle().Foreground(theme.TextDim)
	disabled := lipgloss.NewStyle().Foreground(theme.Border)

	var b strings.Builder
	for i, item := range m.Items {
		prefix := "    "
		style := theme.Unselected
		switch {
		case item.Disabled:
			style = disabled
		case i == m.Selected:
			prefix = "  ▸ "
			style = theme.Selected
		}
		b.WriteString(style.Render(prefix + strconv.Itoa(i+1) + ". " + item.Label))
		if item.Hint != "" {
			b.WriteString(hint.Render("  " + item.Hint))
		}
		b.WriteString("\n")
	}
	return b.String()
}
