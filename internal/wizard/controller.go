package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/careerfit/internal/catalog"
	"github.com/abhisek/careerfit/internal/metrics"
	"github.com/abhisek/careerfit/internal/responses"
	"github.com/abhisek/careerfit/internal/scoring"
)

var (
	// ErrUnanswered is returned when advancing past a question with no response.
	ErrUnanswered = errors.New("current question has not been answered")

	// ErrInvalidAnswer is returned for values the current question cannot accept.
	ErrInvalidAnswer = errors.New("invalid answer")

	// ErrNotInQuestion is returned when answering outside a question section.
	ErrNotInQuestion = errors.New("no question is being shown")

	// ErrFinished is returned when advancing from the results section.
	ErrFinished = errors.New("assessment already finished")
)

// Completed describes a finished assessment run.
type Completed struct {
	RunID       string
	StartedAt   time.Time
	CompletedAt time.Time
	Result      scoring.Result
	Responses   []responses.Response
}

// ResultRecorder receives every completed run, for example to keep history.
type ResultRecorder func(ctx context.Context, c Completed) error

// Transition reports a section change caused by Advance.
type Transition struct {
	From Section
	To   Section
}

// Changed reports whether the section changed.
func (t Transition) Changed() bool { return t.From != t.To }

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for best-effort failures.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithClock overrides time.Now for response timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithRecorder registers a callback for completed runs.
func WithRecorder(r ResultRecorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// Controller drives one assessment: which question is shown, response
// capture, snapshot mirroring, and scoring at the end.
type Controller struct {
	cat      *catalog.Catalog
	snap     responses.Snapshotter
	store    *responses.Store
	state    State
	result   *scoring.Result
	runID    string
	started  time.Time
	restored int

	log      *zap.Logger
	now      func() time.Time
	metrics  *metrics.Recorder
	recorder ResultRecorder
}

// New creates a Controller in the intro section. snap may be nil, in which
// case nothing is persisted.
func New(cat *catalog.Catalog, snap responses.Snapshotter, opts ...Option) *Controller {
	c := &Controller{
		cat:   cat,
		snap:  snap,
		store: responses.NewStore(),
		state: Start(),
		log:   zap.NewNop(),
		now:   time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	c.runID = uuid.NewString()
	c.started = c.now()
	return c
}

// Restore loads saved responses from the snapshot store. It never fails: an
// unreadable or corrupt snapshot is logged and treated as absent. It returns
// the number of responses restored.
func (c *Controller) Restore(ctx context.Context) int {
	if c.snap == nil {
		return 0
	}
	payload, found, err := c.snap.Get(ctx, responses.SnapshotKey)
	if err != nil {
		c.log.Warn("read response snapshot", zap.Error(err))
		c.metrics.SnapshotFailure("read")
		return 0
	}
	if !found || payload == "" {
		return 0
	}
	rs, err := responses.Decode(payload)
	if err != nil {
		c.log.Warn("discard response snapshot", zap.Error(err))
		c.metrics.SnapshotFailure("decode")
		return 0
	}

	kept := rs[:0]
	for _, r := range rs {
		q, ok := c.cat.ByID(r.QuestionID)
		if !ok {
			continue
		}
		if err := checkValue(q, r.Value); err != nil {
			c.log.Debug("drop restored response", zap.String("question", r.QuestionID), zap.Error(err))
			continue
		}
		kept = append(kept, r)
	}
	c.store.Load(kept)
	c.restored = c.store.Len()
	c.log.Debug("restored responses", zap.Int("count", c.restored))
	return c.restored
}

// Restored returns how many responses the last Restore loaded.
func (c *Controller) Restored() int { return c.restored }

// State returns the current position.
func (c *Controller) State() State { return c.state }

// Section returns the current section.
func (c *Controller) Section() Section { return c.state.Section }

// Index returns the question index within the current section.
func (c *Controller) Index() int { return c.state.Index }

// RunID identifies the current run. It changes on Restart.
func (c *Controller) RunID() string { return c.runID }

// Catalog returns the catalog the controller was built with.
func (c *Controller) Catalog() *catalog.Catalog { return c.cat }

func (c *Controller) size(s Section) int {
	cat, ok := s.Category()
	if !ok {
		return 0
	}
	return c.cat.SectionLen(cat)
}

// SectionLen returns the number of questions in the current section.
func (c *Controller) SectionLen() int { return c.size(c.state.Section) }

// Current returns the question being shown.
func (c *Controller) Current() (catalog.Question, bool) {
	cat, ok := c.state.Section.Category()
	if !ok {
		return catalog.Question{}, false
	}
	qs := c.cat.Section(cat)
	if c.state.Index < 0 || c.state.Index >= len(qs) {
		return catalog.Question{}, false
	}
	return qs[c.state.Index], true
}

// Position returns the 1-based overall position of the current question and
// the total number of questions. Outside question sections the position is 0
// (intro) or total (results).
func (c *Controller) Position() (int, int) {
	total := c.cat.Len()
	switch {
	case c.state.Section == SectionIntro:
		return 0, total
	case c.state.Section == SectionResults:
		return total, total
	}
	pos := c.state.Index + 1
	for s := SectionPsychometric; s < c.state.Section; s++ {
		pos += c.size(s)
	}
	return pos, total
}

// Answered returns how many catalog questions have a live response.
func (c *Controller) Answered() int { return c.store.Len() }

// CurrentAnswer returns the response value for the current question.
func (c *Controller) CurrentAnswer() (responses.Value, bool) {
	q, ok := c.Current()
	if !ok {
		return responses.Value{}, false
	}
	r, ok := c.store.Get(q.ID)
	return r.Value, ok
}

// Responses returns the live responses.
func (c *Controller) Responses() []responses.Response { return c.store.All() }

// Answer records v for the current question, replacing any earlier answer,
// and mirrors the response set to the snapshot store.
func (c *Controller) Answer(ctx context.Context, v responses.Value) error {
	q, ok := c.Current()
	if !ok {
		return ErrNotInQuestion
	}
	if err := checkValue(q, v); err != nil {
		return err
	}

	c.store.Set(responses.Response{QuestionID: q.ID, Value: v, Timestamp: c.now()})
	c.metrics.ObserveResponse(q.Category)
	c.persist(ctx)
	return nil
}

func checkValue(q catalog.Question, v responses.Value) error {
	if q.Type == catalog.TypeLikert {
		n, ok := v.AsRating()
		if !ok {
			return fmt.Errorf("%w: %s expects a rating", ErrInvalidAnswer, q.ID)
		}
		if q.Scale != nil && !q.Scale.Contains(n) {
			return fmt.Errorf("%w: rating %d outside %d-%d", ErrInvalidAnswer, n, q.Scale.Min, q.Scale.Max)
		}
		return nil
	}
	label, ok := v.AsChoice()
	if !ok {
		return fmt.Errorf("%w: %s expects an option", ErrInvalidAnswer, q.ID)
	}
	if !q.HasOption(label) {
		return fmt.Errorf("%w: %q is not an option of %s", ErrInvalidAnswer, label, q.ID)
	}
	return nil
}

func (c *Controller) persist(ctx context.Context) {
	if c.snap == nil {
		return
	}
	payload, err := responses.Encode(c.store.All())
	if err != nil {
		c.log.Warn("encode response snapshot", zap.Error(err))
		c.metrics.SnapshotFailure("encode")
		return
	}
	if err := c.snap.Set(ctx, responses.SnapshotKey, payload); err != nil {
		c.log.Warn("write response snapshot", zap.Error(err))
		c.metrics.SnapshotFailure("write")
	}
}

// CanAdvance reports whether Advance would succeed.
func (c *Controller) CanAdvance() bool {
	switch {
	case c.state.Section == SectionResults:
		return false
	case !c.state.Section.IsQuestion():
		return true
	}
	_, ok := c.CurrentAnswer()
	return ok
}

// Begin leaves the intro. It is a no-op elsewhere.
func (c *Controller) Begin(ctx context.Context) Transition {
	if c.state.Section != SectionIntro {
		return Transition{From: c.state.Section, To: c.state.Section}
	}
	t, _ := c.Advance(ctx)
	return t
}

// Resume begins the run and moves past questions that already have a
// response, stopping at the first unanswered question or the last question.
func (c *Controller) Resume(ctx context.Context) {
	c.Begin(ctx)
	for c.state.Section.IsQuestion() && c.CanAdvance() {
		if pos, total := c.Position(); pos >= total {
			return
		}
		if _, err := c.Advance(ctx); err != nil {
			return
		}
	}
}

// Advance moves to the next question, section, or results. Entering
// results scores the response set once.
func (c *Controller) Advance(ctx context.Context) (Transition, error) {
	from := c.state.Section
	if from == SectionResults {
		return Transition{From: from, To: from}, ErrFinished
	}
	if from.IsQuestion() {
		if _, ok := c.CurrentAnswer(); !ok {
			return Transition{From: from, To: from}, ErrUnanswered
		}
	}

	c.state = Next(c.state, c.size)
	if c.state.Section == SectionResults && c.result == nil {
		c.finish(ctx)
	}
	return Transition{From: from, To: c.state.Section}, nil
}

func (c *Controller) finish(ctx context.Context) {
	rs := c.store.All()
	r := scoring.ComputeResult(c.cat, rs)
	c.result = &r
	c.metrics.ObserveCompletion(r)
	c.log.Info("assessment completed",
		zap.String("run_id", c.runID),
		zap.String("recommendation", string(r.Recommendation)),
		zap.Float64("overall", r.OverallScore),
		zap.Int("responses", len(rs)),
	)

	if c.recorder == nil {
		return
	}
	err := c.recorder(ctx, Completed{
		RunID:       c.runID,
		StartedAt:   c.started,
		CompletedAt: c.now(),
		Result:      r,
		Responses:   rs,
	})
	if err != nil {
		c.log.Warn("record assessment result", zap.String("run_id", c.runID), zap.Error(err))
	}
}

// Result returns the computed result once the wizard reached results.
func (c *Controller) Result() (scoring.Result, bool) {
	if c.result == nil {
		return scoring.Result{}, false
	}
	return *c.result, true
}

// Restart discards all responses, the saved snapshot, and the result, and
// returns to the intro.
func (c *Controller) Restart(ctx context.Context) {
	c.store.Clear()
	c.state = Start()
	c.result = nil
	c.restored = 0
	c.runID = uuid.NewString()
	c.started = c.now()
	c.metrics.ObserveRestart()

	if c.snap != nil {
		if err := c.snap.Clear(ctx, responses.SnapshotKey); err != nil {
			c.log.Warn("clear response snapshot", zap.Error(err))
			c.metrics.SnapshotFailure("clear")
		}
	}
}
