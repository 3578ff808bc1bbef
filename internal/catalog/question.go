package catalog

// QuestionType identifies how a question is answered.
type QuestionType string

const (
	TypeLikert         QuestionType = "likert"
	TypeMultipleChoice QuestionType = "multiple-choice"
	TypeScenario       QuestionType = "scenario"
)

// IsChoice reports whether answers are option labels rather than ratings.
func (t QuestionType) IsChoice() bool {
	return t == TypeMultipleChoice || t == TypeScenario
}

// Category is the top-level grouping of questions and scores.
type Category string

const (
	CategoryPsychometric Category = "psychometric"
	CategoryTechnical    Category = "technical"
	CategoryWiscar       Category = "wiscar"
)

// Categories lists the categories in the order the assessment presents them.
var Categories = []Category{CategoryPsychometric, CategoryTechnical, CategoryWiscar}

// Subcategory is a finer label within a category.
type Subcategory string

// WISCAR dimensions.
const (
	SubWill      Subcategory = "will"
	SubInterest  Subcategory = "interest"
	SubSkill     Subcategory = "skill"
	SubCognitive Subcategory = "cognitive"
	SubAbility   Subcategory = "ability"
	SubRealWorld Subcategory = "realWorld"
)

// WiscarDimensions lists the six WISCAR subcategories in display order.
var WiscarDimensions = []Subcategory{SubWill, SubInterest, SubSkill, SubCognitive, SubAbility, SubRealWorld}

// DisplayName returns a human-friendly name for a WISCAR dimension.
func (s Subcategory) DisplayName() string {
	switch s {
	case SubWill:
		return "Will"
	case SubInterest:
		return "Interest"
	case SubSkill:
		return "Skill"
	case SubCognitive:
		return "Cognitive Readiness"
	case SubAbility:
		return "Ability to Learn"
	case SubRealWorld:
		return "Real-World Alignment"
	default:
		return string(s)
	}
}

// Scale defines a rating scale with one label per point.
type Scale struct {
	Min    int
	Max    int
	Labels []string
}

// Contains reports whether v is a point on the scale.
func (s Scale) Contains(v int) bool {
	return v >= s.Min && v <= s.Max
}

// Label returns the label for rating v, or "" if out of range.
func (s Scale) Label(v int) string {
	i := v - s.Min
	if i < 0 || i >= len(s.Labels) {
		return ""
	}
	return s.Labels[i]
}

// Question is a single immutable item of the assessment.
type Question struct {
	ID          string
	Type        QuestionType
	Category    Category
	Subcategory Subcategory
	Text        string
	Options     []string
	Scale       *Scale
	Weight      float64
}

// clone returns a copy of q that shares no memory with it.
func (q Question) clone() Question {
	if q.Options != nil {
		q.Options = append([]string(nil), q.Options...)
	}
	if q.Scale != nil {
		sc := *q.Scale
		sc.Labels = append([]string(nil), sc.Labels...)
		q.Scale = &sc
	}
	return q
}

// EffectiveWeight returns Weight, defaulting to 1.0 when unset.
func (q Question) EffectiveWeight() float64 {
	if q.Weight == 0 {
		return 1.0
	}
	return q.Weight
}

// HasOption reports whether label is one of the question's options.
func (q Question) HasOption(label string) bool {
	for _, o := range q.Options {
		if o == label {
			return true
		}
	}
	return false
}
