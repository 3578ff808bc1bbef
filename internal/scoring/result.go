package scoring

import "github.com/abhisek/careerfit/internal/catalog"

// Tier is the final categorical recommendation.
type Tier string

const (
	TierYes   Tier = "yes"
	TierMaybe Tier = "maybe"
	TierNo    Tier = "no"
)

// Rank orders tiers from no (0) to yes (2).
func (t Tier) Rank() int {
	switch t {
	case TierYes:
		return 2
	case TierMaybe:
		return 1
	default:
		return 0
	}
}

// WiscarScores holds the six WISCAR sub-scores.
type WiscarScores struct {
	Will      float64 `json:"will"`
	Interest  float64 `json:"interest"`
	Skill     float64 `json:"skill"`
	Cognitive float64 `json:"cognitive"`
	Ability   float64 `json:"ability"`
	RealWorld float64 `json:"realWorld"`
}

// Get returns the score for a WISCAR dimension.
func (w WiscarScores) Get(d catalog.Subcategory) float64 {
	switch d {
	case catalog.SubWill:
		return w.Will
	case catalog.SubInterest:
		return w.Interest
	case catalog.SubSkill:
		return w.Skill
	case catalog.SubCognitive:
		return w.Cognitive
	case catalog.SubAbility:
		return w.Ability
	case catalog.SubRealWorld:
		return w.RealWorld
	}
	return 0
}

func (w *WiscarScores) set(d catalog.Subcategory, v float64) {
	switch d {
	case catalog.SubWill:
		w.Will = v
	case catalog.SubInterest:
		w.Interest = v
	case catalog.SubSkill:
		w.Skill = v
	case catalog.SubCognitive:
		w.Cognitive = v
	case catalog.SubAbility:
		w.Ability = v
	case catalog.SubRealWorld:
		w.RealWorld = v
	}
}

// Average returns the unweighted mean of the six sub-scores.
func (w WiscarScores) Average() float64 {
	return (w.Will + w.Interest + w.Skill + w.Cognitive + w.Ability + w.RealWorld) / 6
}

// SkillGap is one row of the skill-gap table.
type SkillGap struct {
	Skill    string `json:"skill"`
	Required int    `json:"required"`
	Current  int    `json:"current"`
}

// Gap returns how far the current level is below the required level.
func (g SkillGap) Gap() int {
	return g.Required - g.Current
}

// Result is the outcome of scoring a full response set. It is derived data,
// recomputed on demand and never mutated after ComputeResult returns it.
type Result struct {
	PsychometricFit    float64      `json:"psychometricFit"`
	TechnicalReadiness float64      `json:"technicalReadiness"`
	WISCAR             WiscarScores `json:"wiscarScores"`
	OverallScore       float64      `json:"overallScore"`
	Recommendation     Tier         `json:"recommendation"`
	Reasoning          string       `json:"reasoning"`
	NextSteps          []string     `json:"nextSteps"`
	SkillGaps          []SkillGap   `json:"skillGaps"`
	ConfidenceScore    float64      `json:"confidenceScore"`

	// Answered counts the responses that contributed to each category.
	Answered map[catalog.Category]int `json:"answered"`
}
