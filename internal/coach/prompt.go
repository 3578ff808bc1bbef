package coach

import (
	"fmt"
	"strings"

	"github.com/abhisek/careerfit/internal/catalog"
	"github.com/abhisek/careerfit/internal/scoring"
)

const systemPrompt = `You are a practical career coach. A person has just finished a self-assessment for a career path and wants an honest, encouraging reading of their result. Never contradict or recompute the scores you are given.`

func buildUserMessage(in Input) string {
	r := in.Result
	var b strings.Builder

	role := in.Role
	if role == "" {
		role = "Compliance Tracker"
	}
	fmt.Fprintf(&b, "Career: %s\n", role)
	fmt.Fprintf(&b, "Recommendation: %s\n", scoring.TierLabel(r.Recommendation))
	fmt.Fprintf(&b, "Overall score: %.0f/100 (%s)\n", r.OverallScore, scoring.OverallBadge(r.OverallScore))
	fmt.Fprintf(&b, "Psychometric fit: %.0f/100 (%s)\n", r.PsychometricFit, scoring.PsychometricBadge(r.PsychometricFit))
	fmt.Fprintf(&b, "Technical readiness: %.0f/100 (%s)\n", r.TechnicalReadiness, scoring.TechnicalBadge(r.TechnicalReadiness))
	fmt.Fprintf(&b, "Confidence: %.0f%%\n", r.ConfidenceScore)

	b.WriteString("\nWISCAR:\n")
	for _, d := range catalog.WiscarDimensions {
		fmt.Fprintf(&b, "- %s: %.0f\n", d.DisplayName(), r.WISCAR.Get(d))
	}

	if r.Reasoning != "" {
		fmt.Fprintf(&b, "\nAssessment reasoning:\n%s\n", r.Reasoning)
	}
	if len(r.NextSteps) > 0 {
		b.WriteString("\nSuggested next steps:\n")
		for _, s := range r.NextSteps {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}

	b.WriteString(`
Instructions:
1. Summarize what the scores say in 3-4 sentences, addressing the reader as "you".
2. Name strengths only where a score is 70 or higher. If none are, name the highest areas as emerging strengths.
3. Name focus areas from the lowest scores.
4. Write a first-week plan of small, concrete actions that fit the recommendation.
5. Plain text only. No markdown, no emoji.`)

	return b.String()
}
