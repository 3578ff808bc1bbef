// Package report renders an assessment result as plain text or JSON for
// the CLI and for the results screen's print action.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/abhisek/careerfit/internal/catalog"
	"github.com/abhisek/careerfit/internal/coach"
	"github.com/abhisek/careerfit/internal/scoring"
)

// Title heads every text report.
const Title = "Compliance Tracker Career Assessment"

// Report is one result plus the optional context printed around it.
type Report struct {
	Result      scoring.Result
	RunID       string
	CompletedAt time.Time
	Narrative   *coach.Narrative
}

// Text writes r as a plain-text report.
func Text(w io.Writer, r Report) error {
	res := r.Result
	var b strings.Builder

	b.WriteString(Title + "\n")
	b.WriteString(strings.Repeat("=", len(Title)) + "\n")
	if !r.CompletedAt.IsZero() {
		fmt.Fprintf(&b, "Completed: %s\n", r.CompletedAt.Local().Format("2006-01-02 15:04"))
	}
	if r.RunID != "" {
		fmt.Fprintf(&b, "Run:       %s\n", r.RunID)
	}

	fmt.Fprintf(&b, "\nRecommendation: %s (%.0f%% confidence)\n",
		scoring.TierLabel(res.Recommendation), res.ConfidenceScore)
	b.WriteString(res.Reasoning + "\n")

	b.WriteString("\nScores\n------\n")
	fmt.Fprintf(&b, "%-22s %3.0f%%  %s\n", "Psychometric Fit", res.PsychometricFit, scoring.PsychometricBadge(res.PsychometricFit))
	fmt.Fprintf(&b, "%-22s %3.0f%%  %s\n", "Technical Readiness", res.TechnicalReadiness, scoring.TechnicalBadge(res.TechnicalReadiness))
	fmt.Fprintf(&b, "%-22s %3.0f%%  %s\n", "Overall Score", res.OverallScore, scoring.OverallBadge(res.OverallScore))

	b.WriteString("\nWISCAR Framework\n----------------\n")
	for _, d := range catalog.WiscarDimensions {
		v := res.WISCAR.Get(d)
		fmt.Fprintf(&b, "%-22s %3.0f%%  %s\n", d.DisplayName(), v, bar(v, 20))
	}

	b.WriteString("\nNext Steps\n----------\n")
	for i, s := range res.NextSteps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}

	b.WriteString("\nSkill Gaps\n----------\n")
	for _, g := range res.SkillGaps {
		fmt.Fprintf(&b, "%-22s current %3d / required %3d  Gap: %d points\n", g.Skill, g.Current, g.Required, g.Gap())
	}

	if n := r.Narrative; n != nil {
		b.WriteString("\nCoach Notes\n-----------\n")
		b.WriteString(n.Summary + "\n")
		writeList(&b, "Strengths", n.Strengths)
		writeList(&b, "Focus areas", n.FocusAreas)
		writeList(&b, "First week", n.FirstWeekPlan)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", heading)
	for _, it := range items {
		fmt.Fprintf(b, "  - %s\n", it)
	}
}

// bar draws a fixed-width ASCII meter for a 0-100 score.
func bar(score float64, width int) string {
	filled := int(score / 100 * float64(width))
	filled = max(0, min(filled, width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

type jsonNarrative struct {
	Summary       string   `json:"summary"`
	Strengths     []string `json:"strengths"`
	FocusAreas    []string `json:"focusAreas"`
	FirstWeekPlan []string `json:"firstWeekPlan"`
	Model         string   `json:"model,omitempty"`
}

type jsonReport struct {
	RunID       string         `json:"runId,omitempty"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
	Result      scoring.Result `json:"result"`
	Label       string         `json:"recommendationLabel"`
	Coach       *jsonNarrative `json:"coach,omitempty"`
}

// JSON writes r as indented JSON. The result keeps its own field names.
func JSON(w io.Writer, r Report) error {
	out := jsonReport{
		RunID:  r.RunID,
		Result: r.Result,
		Label:  scoring.TierLabel(r.Result.Recommendation),
	}
	if !r.CompletedAt.IsZero() {
		t := r.CompletedAt.UTC()
		out.CompletedAt = &t
	}
	if n := r.Narrative; n != nil {
		out.Coach = &jsonNarrative{
			Summary:       n.Summary,
			Strengths:     n.Strengths,
			FocusAreas:    n.FocusAreas,
			FirstWeekPlan: n.FirstWeekPlan,
			Model:         n.Model,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// Write renders r in the named format, "text" or "json".
func Write(w io.Writer, format string, r Report) error {
	switch format {
	case "", "text":
		return Text(w, r)
	case "json":
		return JSON(w, r)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}
