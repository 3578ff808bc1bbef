package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/careerfit/internal/llm"
)

// Service writes narratives asynchronously.
type Service struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	pending  *Narrative
	ready    bool
	inflight bool
	gen      int
}

// NewService creates a narrative service. A nil logger discards output.
func NewService(provider llm.Provider, cfg Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{provider: provider, cfg: cfg, log: log, now: time.Now}
}

// Request starts background generation. A newer request supersedes one
// still in flight; the older result is dropped when it arrives.
func (s *Service) Request(ctx context.Context, in Input) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.pending = nil
	s.ready = false
	s.inflight = true
	s.mu.Unlock()

	go func() {
		if s.cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
			defer cancel()
		}
		n, err := s.Generate(ctx, in)
		if err != nil {
			s.log.Warn("generate coach narrative", zap.Error(err))
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.gen {
			return
		}
		s.pending = n
		s.ready = true
		s.inflight = false
	}()
}

// Consume returns the narrative if one is ready and clears the slot.
// A failed generation is consumed as (nil, false).
func (s *Service) Consume() (*Narrative, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, false
	}
	n := s.pending
	s.pending = nil
	s.ready = false
	return n, n != nil
}

// Pending reports whether a requested narrative has not arrived yet.
func (s *Service) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight
}

// Cancel forgets any in-flight or unconsumed narrative.
func (s *Service) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.pending = nil
	s.ready = false
	s.inflight = false
}

type narrativeOutput struct {
	Summary       string   `json:"summary"`
	Strengths     []string `json:"strengths"`
	FocusAreas    []string `json:"focus_areas"`
	FirstWeekPlan []string `json:"first_week_plan"`
}

// Generate writes a narrative synchronously.
func (s *Service) Generate(ctx context.Context, in Input) (*Narrative, error) {
	ctx = llm.WithPurpose(ctx, "coach")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(in)},
		},
		Schema:      NarrativeSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("coach narrative: %w", err)
	}

	var out narrativeOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse coach response: %w", err)
	}

	return &Narrative{
		Summary:       out.Summary,
		Strengths:     out.Strengths,
		FocusAreas:    out.FocusAreas,
		FirstWeekPlan: out.FirstWeekPlan,
		Model:         resp.Model,
		GeneratedAt:   s.now(),
	}, nil
}
