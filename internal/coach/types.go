package coach

import (
	"time"

	"github.com/abhisek/careerfit/internal/scoring"
)

// Narrative is model-written commentary on a Result. It never changes the
// scores it describes.
type Narrative struct {
	Summary       string
	Strengths     []string
	FocusAreas    []string
	FirstWeekPlan []string
	Model         string
	GeneratedAt   time.Time
}

// Config holds narrative generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Timeout bounds one background generation. Zero means no bound.
	Timeout time.Duration
}

// DefaultConfig returns the settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   768,
		Temperature: 0.4,
		Timeout:     45 * time.Second,
	}
}

// Input is everything the prompt is built from.
type Input struct {
	Result scoring.Result

	// Role is the career the assessment measured, e.g. "Compliance Tracker".
	Role string
}
