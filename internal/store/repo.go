package store

import (
	"time"

	"github.com/abhisek/careerfit/internal/responses"
	"github.com/abhisek/careerfit/internal/scoring"
)

// QueryOpts configures event queries. Results are newest first.
type QueryOpts struct {
	Limit          int    // max results (0 = unlimited)
	Purpose        string // LLM events only
	Recommendation string // assessment events only
}

// Snapshot is one saved response-set payload.
type Snapshot struct {
	ID        int
	Key       string
	Sequence  int64
	Timestamp time.Time
	Payload   string
}

// AssessmentEventData is what gets recorded when a run completes.
type AssessmentEventData struct {
	RunID       string
	StartedAt   time.Time
	CompletedAt time.Time
	Result      scoring.Result
	Responses   []responses.Response
}

// AssessmentEvent is a stored completed run.
type AssessmentEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AssessmentEventData
}

// AssessmentStats summarizes the stored runs.
type AssessmentStats struct {
	Total       int
	ByTier      map[scoring.Tier]int
	AvgOverall  float64
	BestOverall float64
	Last        time.Time
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM calls per purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM calls per model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}
