package scoring

import (
	"math"

	"github.com/abhisek/careerfit/internal/catalog"
	"github.com/abhisek/careerfit/internal/responses"
)

// Composite weights for the overall score.
const (
	PsychometricWeight = 0.4
	TechnicalWeight    = 0.3
	WiscarWeight       = 0.3
)

// ComputeResult scores a response set against a catalog.
//
// It is pure and never fails. Responses whose question id is not in the
// catalog, whose value kind does not match the question type, or whose rating
// falls outside the question's scale, are skipped and add neither score nor
// weight. A category without usable responses
// scores 0. Rounding happens only on the returned fields.
func ComputeResult(cat *catalog.Catalog, rs []responses.Response) Result {
	live := dedupe(rs)

	psych, psychN := weightedCategory(cat, live, catalog.CategoryPsychometric)
	tech, techN := weightedCategory(cat, live, catalog.CategoryTechnical)
	wiscar, wiscarN := wiscarScores(cat, live)
	wAvg := wiscar.Average()

	overall := PsychometricWeight*psych + TechnicalWeight*tech + WiscarWeight*wAvg
	tier := Recommend(psych, tech, overall)

	rounded := WiscarScores{}
	for _, d := range catalog.WiscarDimensions {
		rounded.set(d, math.Round(wiscar.Get(d)))
	}

	return Result{
		PsychometricFit:    math.Round(psych),
		TechnicalReadiness: math.Round(tech),
		WISCAR:             rounded,
		OverallScore:       math.Round(overall),
		Recommendation:     tier,
		Reasoning:          Reasoning(tier, psych, tech),
		NextSteps:          NextSteps(tier, psych, tech),
		SkillGaps:          PlaceholderSkillGaps(),
		ConfidenceScore:    math.Round(Confidence(psych, tech, wAvg)),
		Answered: map[catalog.Category]int{
			catalog.CategoryPsychometric: psychN,
			catalog.CategoryTechnical:    techN,
			catalog.CategoryWiscar:       wiscarN,
		},
	}
}

// dedupe keeps only the last response per question id.
func dedupe(rs []responses.Response) []responses.Response {
	s := responses.NewStore()
	s.Load(rs)
	return s.All()
}

// NormalizeRating maps a rating on scale to [0,100].
func NormalizeRating(v int, scale catalog.Scale) float64 {
	span := scale.Max - scale.Min
	if span <= 0 {
		return 0
	}
	return float64(v-scale.Min) / float64(span) * 100
}

// questionScore returns the 0-100 score of a single response and whether the
// response is usable for its question.
func questionScore(cat *catalog.Catalog, q catalog.Question, v responses.Value) (float64, bool) {
	switch {
	case q.Type == catalog.TypeLikert:
		n, ok := v.AsRating()
		if !ok || q.Scale == nil || !q.Scale.Contains(n) {
			return 0, false
		}
		return NormalizeRating(n, *q.Scale), true
	case q.Type.IsChoice():
		label, ok := v.AsChoice()
		if !ok {
			return 0, false
		}
		if cat.IsCorrect(q.ID, label) {
			return 100, true
		}
		return 0, true
	}
	return 0, false
}

// weightedCategory computes the weighted average for psychometric or technical.
func weightedCategory(cat *catalog.Catalog, rs []responses.Response, c catalog.Category) (float64, int) {
	var sumScore, sumWeight float64
	n := 0
	for _, r := range rs {
		q, ok := cat.ByID(r.QuestionID)
		if !ok || q.Category != c {
			continue
		}
		score, ok := questionScore(cat, q, r.Value)
		if !ok {
			continue
		}
		w := q.EffectiveWeight()
		sumScore += score * w
		sumWeight += w
		n++
	}
	if sumWeight == 0 {
		return 0, n
	}
	return sumScore / sumWeight, n
}

// wiscarScores averages WISCAR responses per subcategory. Question weights
// are not applied here.
func wiscarScores(cat *catalog.Catalog, rs []responses.Response) (WiscarScores, int) {
	sums := make(map[catalog.Subcategory]float64)
	counts := make(map[catalog.Subcategory]int)
	n := 0
	for _, r := range rs {
		q, ok := cat.ByID(r.QuestionID)
		if !ok || q.Category != catalog.CategoryWiscar {
			continue
		}
		score, ok := questionScore(cat, q, r.Value)
		if !ok {
			continue
		}
		sums[q.Subcategory] += score
		counts[q.Subcategory]++
		n++
	}

	var out WiscarScores
	for _, d := range catalog.WiscarDimensions {
		if counts[d] > 0 {
			out.set(d, sums[d]/float64(counts[d]))
		}
	}
	return out, n
}

// Recommend maps category and overall scores to a tier. yes is checked first.
func Recommend(psych, tech, overall float64) Tier {
	switch {
	case psych >= 70 && tech >= 70 && overall >= 75:
		return TierYes
	case psych >= 50 && tech >= 50 && overall >= 60:
		return TierMaybe
	default:
		return TierNo
	}
}

// Confidence blends the mean category score with cross-category agreement.
func Confidence(psych, tech, wiscarAvg float64) float64 {
	variance := math.Abs(psych-tech) + math.Abs(psych-wiscarAvg) + math.Abs(tech-wiscarAvg)
	base := (psych + tech + wiscarAvg) / 3
	adjustment := math.Max(0, 100-variance)
	return (base + adjustment) / 2
}
