package scoring

// Band buckets a 0-100 score for coloring.
type Band int

const (
	BandLow Band = iota
	BandMid
	BandHigh
)

// ScoreBand returns high at 80 and above, mid at 60 and above, low otherwise.
func ScoreBand(score float64) Band {
	switch {
	case score >= 80:
		return BandHigh
	case score >= 60:
		return BandMid
	default:
		return BandLow
	}
}

// TierLabel is the display label of a recommendation.
func TierLabel(t Tier) string {
	switch t {
	case TierYes:
		return "Highly Recommended"
	case TierMaybe:
		return "Conditionally Recommended"
	default:
		return "Not Recommended"
	}
}

func badge(score, hi, mid float64, labels [3]string) string {
	switch {
	case score >= hi:
		return labels[0]
	case score >= mid:
		return labels[1]
	default:
		return labels[2]
	}
}

// PsychometricBadge labels a psychometric fit score.
func PsychometricBadge(score float64) string {
	return badge(score, 70, 50, [3]string{"Strong", "Moderate", "Weak"})
}

// TechnicalBadge labels a technical readiness score.
func TechnicalBadge(score float64) string {
	return badge(score, 70, 50, [3]string{"Ready", "Learning", "Developing"})
}

// OverallBadge labels an overall score.
func OverallBadge(score float64) string {
	return badge(score, 75, 60, [3]string{"Excellent", "Good", "Poor"})
}
