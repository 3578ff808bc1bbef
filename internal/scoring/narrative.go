package scoring

import (
	"fmt"
	"math"
)

// Improvement threshold below which a category is called out in narrative text.
const improvementThreshold = 60

// Reasoning returns the tier-specific explanation. Percentages are rounded.
func Reasoning(tier Tier, psych, tech float64) string {
	switch tier {
	case TierYes:
		return fmt.Sprintf("You demonstrate strong alignment with compliance tracking work. "+
			"Your high psychological fit (%d%%) and technical readiness (%d%%) indicate "+
			"excellent potential for success in this field.",
			int(math.Round(psych)), int(math.Round(tech)))
	case TierMaybe:
		area := "technical skills"
		if psych < improvementThreshold {
			area = "psychological fit"
		}
		return fmt.Sprintf("You show moderate potential for compliance tracking. While you have "+
			"some strong areas, there are opportunities for improvement in %s that would "+
			"enhance your success.", area)
	default:
		return "Based on your assessment results, compliance tracking may not be the optimal " +
			"career path for you. Consider exploring alternative roles that better match your " +
			"strengths and interests."
	}
}

// NextSteps returns the ordered recommendations for a tier.
func NextSteps(tier Tier, psych, tech float64) []string {
	switch tier {
	case TierYes:
		return []string{
			"Apply for entry-level compliance positions",
			"Pursue compliance certifications (CISA, CAMS)",
			"Gain hands-on experience with compliance software",
			"Network with compliance professionals",
		}
	case TierMaybe:
		steps := []string{"Strengthen foundational knowledge in regulatory frameworks"}
		if psych < improvementThreshold {
			steps = append(steps,
				"Develop attention to detail through structured practice",
				"Consider personality development coaching",
			)
		}
		if tech < improvementThreshold {
			steps = append(steps,
				"Complete compliance training courses",
				"Practice with compliance management tools",
			)
		}
		return steps
	default:
		return []string{
			"Explore alternative careers: Audit Assistant, Quality Analyst",
			"Consider project management or business analysis roles",
			"Assess other career options through additional testing",
			"Speak with a career counselor",
		}
	}
}

// PlaceholderSkillGaps returns the static skill-gap table. The values do not
// depend on the responses.
func PlaceholderSkillGaps() []SkillGap {
	return []SkillGap{
		{Skill: "Document Control", Required: 90, Current: 65},
		{Skill: "Compliance Systems", Required: 80, Current: 45},
		{Skill: "Analytical Reasoning", Required: 85, Current: 75},
		{Skill: "Policy Interpretation", Required: 75, Current: 50},
	}
}
