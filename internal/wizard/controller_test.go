package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/careerfit/internal/catalog"
	"github.com/abhisek/careerfit/internal/responses"
	"github.com/abhisek/careerfit/internal/scoring"
)

type failingSnapshots struct {
	payload string
}

func (f *failingSnapshots) Get(context.Context, string) (string, bool, error) {
	if f.payload != "" {
		return f.payload, true, nil
	}
	return "", false, errors.New("disk on fire")
}

func (f *failingSnapshots) Set(context.Context, string, string) error {
	return errors.New("disk full")
}

func (f *failingSnapshots) Clear(context.Context, string) error {
	return errors.New("disk full")
}

func fixedClock() func() time.Time {
	t := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

// answerCurrent picks the highest rating or the keyed option.
func answerCurrent(t *testing.T, c *Controller) {
	t.Helper()
	q, ok := c.Current()
	require.True(t, ok)

	var v responses.Value
	if q.Type.IsChoice() {
		label, keyed := c.Catalog().CorrectAnswer(q.ID)
		if !keyed {
			label = q.Options[0]
		}
		v = responses.Choice(label)
	} else {
		v = responses.Rating(q.Scale.Max)
	}
	require.NoError(t, c.Answer(context.Background(), v))
}

func runToResults(t *testing.T, c *Controller) {
	t.Helper()
	ctx := context.Background()
	c.Begin(ctx)
	for c.Section() != SectionResults {
		answerCurrent(t, c)
		_, err := c.Advance(ctx)
		require.NoError(t, err)
	}
}

func TestControllerStartsAtIntro(t *testing.T) {
	c := New(catalog.Default(), nil)
	assert.Equal(t, SectionIntro, c.Section())
	assert.True(t, c.CanAdvance())

	_, ok := c.Current()
	assert.False(t, ok)

	err := c.Answer(context.Background(), responses.Rating(3))
	assert.ErrorIs(t, err, ErrNotInQuestion)
}

func TestBeginEntersPsychometric(t *testing.T) {
	c := New(catalog.Default(), nil)
	tr := c.Begin(context.Background())

	assert.Equal(t, Transition{From: SectionIntro, To: SectionPsychometric}, tr)
	assert.True(t, tr.Changed())
	q, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "p1", q.ID)

	pos, total := c.Position()
	assert.Equal(t, 1, pos)
	assert.Equal(t, 20, total)
}

func TestAdvanceRequiresAnswer(t *testing.T) {
	ctx := context.Background()
	c := New(catalog.Default(), nil)
	c.Begin(ctx)

	assert.False(t, c.CanAdvance())
	_, err := c.Advance(ctx)
	assert.ErrorIs(t, err, ErrUnanswered)
	assert.Equal(t, 0, c.Index())

	require.NoError(t, c.Answer(ctx, responses.Rating(4)))
	assert.True(t, c.CanAdvance())
	tr, err := c.Advance(ctx)
	require.NoError(t, err)
	assert.False(t, tr.Changed())
	assert.Equal(t, 1, c.Index())
}

func TestAnswerValidation(t *testing.T) {
	ctx := context.Background()
	c := New(catalog.Default(), nil)
	c.Begin(ctx)

	tests := []struct {
		name string
		v    responses.Value
	}{
		{"choice for likert", responses.Choice("Agree")},
		{"rating below scale", responses.Rating(0)},
		{"rating above scale", responses.Rating(6)},
		{"empty value", responses.Value{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Answer(ctx, tt.v)
			assert.ErrorIs(t, err, ErrInvalidAnswer)
		})
	}
	assert.Equal(t, 0, c.Answered())
}

func TestAnswerRejectsUnknownOption(t *testing.T) {
	ctx := context.Background()
	c := New(catalog.Default(), nil)
	c.Begin(ctx)
	for c.Section() == SectionPsychometric {
		answerCurrent(t, c)
		_, err := c.Advance(ctx)
		require.NoError(t, err)
	}
	require.Equal(t, SectionTechnical, c.Section())

	err := c.Answer(ctx, responses.Choice("Not an option"))
	assert.ErrorIs(t, err, ErrInvalidAnswer)
	err = c.Answer(ctx, responses.Rating(3))
	assert.ErrorIs(t, err, ErrInvalidAnswer)
}

func TestReanswerReplaces(t *testing.T) {
	ctx := context.Background()
	c := New(catalog.Default(), nil)
	c.Begin(ctx)

	require.NoError(t, c.Answer(ctx, responses.Rating(2)))
	require.NoError(t, c.Answer(ctx, responses.Rating(5)))

	assert.Equal(t, 1, c.Answered())
	v, ok := c.CurrentAnswer()
	require.True(t, ok)
	n, _ := v.AsRating()
	assert.Equal(t, 5, n)
}

func TestSectionTransitionsReported(t *testing.T) {
	ctx := context.Background()
	c := New(catalog.Default(), nil)
	c.Begin(ctx)

	var changes []Transition
	for c.Section() != SectionResults {
		answerCurrent(t, c)
		tr, err := c.Advance(ctx)
		require.NoError(t, err)
		if tr.Changed() {
			changes = append(changes, tr)
		}
	}

	assert.Equal(t, []Transition{
		{SectionPsychometric, SectionTechnical},
		{SectionTechnical, SectionWiscar},
		{SectionWiscar, SectionResults},
	}, changes)
}

func TestResultComputedAtResults(t *testing.T) {
	var recorded []Completed
	c := New(catalog.Default(), nil,
		WithClock(fixedClock()),
		WithRecorder(func(_ context.Context, done Completed) error {
			recorded = append(recorded, done)
			return nil
		}),
	)

	_, ok := c.Result()
	assert.False(t, ok)

	runToResults(t, c)

	r, ok := c.Result()
	require.True(t, ok)
	assert.Equal(t, 100.0, r.OverallScore)
	assert.Equal(t, scoring.TierYes, r.Recommendation)

	require.Len(t, recorded, 1)
	assert.Equal(t, c.RunID(), recorded[0].RunID)
	assert.Len(t, recorded[0].Responses, 20)

	_, err := c.Advance(context.Background())
	assert.ErrorIs(t, err, ErrFinished)
	assert.False(t, c.CanAdvance())
	assert.Len(t, recorded, 1)
}

func TestRecorderFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	c := New(catalog.Default(), nil,
		WithLogger(zap.New(core)),
		WithRecorder(func(context.Context, Completed) error { return errors.New("db locked") }),
	)

	runToResults(t, c)

	_, ok := c.Result()
	assert.True(t, ok)
	assert.Equal(t, 1, logs.FilterMessage("record assessment result").Len())
}

func TestAnswersMirroredToSnapshot(t *testing.T) {
	ctx := context.Background()
	snap := responses.NewMemorySnapshotter()
	c := New(catalog.Default(), snap, WithClock(fixedClock()))
	c.Begin(ctx)

	require.NoError(t, c.Answer(ctx, responses.Rating(4)))

	payload, found, err := snap.Get(ctx, responses.SnapshotKey)
	require.NoError(t, err)
	require.True(t, found)
	rs, err := responses.Decode(payload)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "p1", rs[0].QuestionID)
}

func TestRestoreLoadsSnapshot(t *testing.T) {
	ctx := context.Background()
	snap := responses.NewMemorySnapshotter()

	first := New(catalog.Default(), snap)
	first.Begin(ctx)
	require.NoError(t, first.Answer(ctx, responses.Rating(3)))
	_, err := first.Advance(ctx)
	require.NoError(t, err)
	require.NoError(t, first.Answer(ctx, responses.Rating(5)))

	second := New(catalog.Default(), snap)
	assert.Equal(t, 2, second.Restore(ctx))
	assert.Equal(t, SectionIntro, second.Section())

	second.Begin(ctx)
	v, ok := second.CurrentAnswer()
	require.True(t, ok)
	n, _ := v.AsRating()
	assert.Equal(t, 3, n)
	assert.True(t, second.CanAdvance())
}

func TestRestoreDropsUnknownQuestions(t *testing.T) {
	ctx := context.Background()
	snap := responses.NewMemorySnapshotter()
	require.NoError(t, snap.Set(ctx, responses.SnapshotKey,
		`[{"questionId":"p1","value":4,"timestamp":"2026-01-01T00:00:00Z"},{"questionId":"zz","value":1,"timestamp":"2026-01-01T00:00:00Z"}]`))

	c := New(catalog.Default(), snap)
	assert.Equal(t, 1, c.Restore(ctx))
}

func TestRestoreDropsInvalidValues(t *testing.T) {
	ctx := context.Background()
	snap := responses.NewMemorySnapshotter()
	require.NoError(t, snap.Set(ctx, responses.SnapshotKey, `[
		{"questionId":"p1","value":9,"timestamp":"2026-01-01T00:00:00Z"},
		{"questionId":"p2","value":4,"timestamp":"2026-01-01T00:00:00Z"},
		{"questionId":"w1","value":-3,"timestamp":"2026-01-01T00:00:00Z"},
		{"questionId":"t1","value":"Not an option","timestamp":"2026-01-01T00:00:00Z"},
		{"questionId":"t2","value":3,"timestamp":"2026-01-01T00:00:00Z"}
	]`))

	c := New(catalog.Default(), snap)
	assert.Equal(t, 1, c.Restore(ctx))

	c.Begin(ctx)
	_, ok := c.CurrentAnswer()
	assert.False(t, ok, "out-of-scale p1 must not be restored")
}

func TestRestoreIgnoresCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.WarnLevel)

	c := New(catalog.Default(), &failingSnapshots{payload: "{not json"}, WithLogger(zap.New(core)))
	assert.Equal(t, 0, c.Restore(ctx))
	assert.Equal(t, 1, logs.FilterMessage("discard response snapshot").Len())

	c = New(catalog.Default(), &failingSnapshots{}, WithLogger(zap.New(core)))
	assert.Equal(t, 0, c.Restore(ctx))
	assert.Equal(t, 1, logs.FilterMessage("read response snapshot").Len())
}

func TestSnapshotWriteFailureDoesNotBlockAnswer(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.WarnLevel)
	c := New(catalog.Default(), &failingSnapshots{}, WithLogger(zap.New(core)))
	c.Begin(ctx)

	require.NoError(t, c.Answer(ctx, responses.Rating(4)))
	assert.Equal(t, 1, c.Answered())
	assert.Equal(t, 1, logs.FilterMessage("write response snapshot").Len())
}

func TestRestartClearsEverything(t *testing.T) {
	ctx := context.Background()
	snap := responses.NewMemorySnapshotter()
	c := New(catalog.Default(), snap)
	runToResults(t, c)
	oldRun := c.RunID()

	c.Restart(ctx)

	assert.Equal(t, SectionIntro, c.Section())
	assert.Equal(t, 0, c.Answered())
	assert.NotEqual(t, oldRun, c.RunID())
	_, ok := c.Result()
	assert.False(t, ok)
	_, found, err := snap.Get(ctx, responses.SnapshotKey)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPositionSpansSections(t *testing.T) {
	ctx := context.Background()
	c := New(catalog.Default(), nil)
	c.Begin(ctx)
	for c.Section() == SectionPsychometric {
		answerCurrent(t, c)
		_, err := c.Advance(ctx)
		require.NoError(t, err)
	}

	pos, total := c.Position()
	assert.Equal(t, 9, pos)
	assert.Equal(t, 20, total)
	assert.Equal(t, 6, c.SectionLen())
}

func TestResumeSkipsAnsweredQuestions(t *testing.T) {
	ctx := context.Background()
	snap := responses.NewMemorySnapshotter()

	first := New(catalog.Default(), snap)
	first.Begin(ctx)
	for i := 0; i < 10; i++ {
		answerCurrent(t, first)
		_, err := first.Advance(ctx)
		require.NoError(t, err)
	}

	c := New(catalog.Default(), snap)
	require.Equal(t, 10, c.Restore(ctx))
	c.Resume(ctx)

	pos, _ := c.Position()
	assert.Equal(t, 11, pos)
	assert.Equal(t, SectionTechnical, c.Section())
	_, answered := c.CurrentAnswer()
	assert.False(t, answered)
}

func TestResumeStopsAtLastQuestion(t *testing.T) {
	ctx := context.Background()
	snap := responses.NewMemorySnapshotter()

	first := New(catalog.Default(), snap)
	first.Begin(ctx)
	for {
		answerCurrent(t, first)
		if pos, total := first.Position(); pos == total {
			break
		}
		_, err := first.Advance(ctx)
		require.NoError(t, err)
	}

	c := New(catalog.Default(), snap)
	require.Equal(t, 20, c.Restore(ctx))
	c.Resume(ctx)

	pos, total := c.Position()
	assert.Equal(t, total, pos)
	assert.Equal(t, SectionWiscar, c.Section())
	_, done := c.Result()
	assert.False(t, done, "resuming never scores on its own")
}
