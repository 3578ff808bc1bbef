package components

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careerfit/internal/ui/theme"
)

// ChoiceList is a single-choice option list. The cursor moves freely; an
// option only counts as chosen after space, a number key, or Choose.
type ChoiceList struct {
	Options []string
	Cursor  int
	Chosen  int // -1 when nothing is chosen
}

// NewChoiceList creates a list with the given option pre-chosen, or -1.
func NewChoiceList(options []string, chosen int) ChoiceList {
	c := ChoiceList{Options: options, Chosen: -1}
	if chosen >= 0 && chosen < len(options) {
		c.Chosen = chosen
		c.Cursor = chosen
	}
	return c
}

// HasChoice reports whether an option is chosen.
func (c ChoiceList) HasChoice() bool {
	return c.Chosen >= 0
}

// ChosenLabel returns the chosen option text.
func (c ChoiceList) ChosenLabel() (string, bool) {
	if !c.HasChoice() {
		return "", false
	}
	return c.Options[c.Chosen], true
}

// Choose marks option i as chosen and moves the cursor there.
func (c *ChoiceList) Choose(i int) bool {
	if i < 0 || i >= len(c.Options) {
		return false
	}
	c.Chosen = i
	c.Cursor = i
	return true
}

// Update handles navigation. It reports whether the chosen option changed.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	case "space", " ", "x":
		before := c.Chosen
		c.Choose(c.Cursor)
		return c, before != c.Chosen
	default:
		if n, err := strconv.Atoi(key); err == nil {
			before := c.Chosen
			if c.Choose(n - 1) {
				return c, before != c.Chosen
			}
		}
	}
	return c, false
}

// View renders one option per line with its number key.
func (c ChoiceList) View() string {
	var b strings.Builder
	for i, opt := range c.Options {
		pointer := "  "
		if i == c.Cursor {
			pointer = "▸ "
		}
		mark := "○"
		if i == c.Chosen {
			mark = "●"
		}
		line := fmt.Sprintf("%s%d) %s %s", pointer, i+1, mark, opt)

		style := theme.Unselected
		switch {
		case i == c.Chosen:
			style = theme.Chosen
		case i == c.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		if i < len(c.Options)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
