package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(79, 24) || !IsTooSmall(80, 23) {
		t.Error("expected below-minimum sizes to be too small")
	}
	if IsTooSmall(80, 24) {
		t.Error("80x24 should fit")
	}
}

func TestRenderHeader(t *testing.T) {
	h := RenderHeader("Technical Assessment", "Q 9/22", 100)
	for _, want := range []string{"careerfit", "Technical Assessment", "Q 9/22"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
	if got := lipgloss.Height(h); got != 3 {
		t.Errorf("header height = %d, want 3", got)
	}
}

func TestRenderFooter(t *testing.T) {
	f := RenderFooter([]KeyHint{{Key: "Enter", Description: "Next"}}, 80)
	if !strings.Contains(f, "Enter") || !strings.Contains(f, "Next") {
		t.Errorf("footer missing hint: %q", f)
	}
}

func TestRenderFrameHeight(t *testing.T) {
	header := RenderHeader("t", "", 80)
	footer := RenderFooter(nil, 80)
	frame := RenderFrame(header, "body", footer, 80, 24)
	if got := lipgloss.Height(frame); got != 24 {
		t.Errorf("frame height = %d, want 24", got)
	}
}
