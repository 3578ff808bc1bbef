package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/careerfit/internal/store"
)

type fakeRecorder struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (f *fakeRecorder) AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	f.events = append(f.events, data)
	return f.err
}

func retryConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts: attempts,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2,
	}
}

func TestRetry_SucceedsAfterOutage(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}},
		MockResponse{Content: json.RawMessage(`"ok"`)},
	)
	p := WithRetry(mock, retryConfig(3))

	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.JSONEq(t, `"ok"`, string(resp.Content))
	assert.Equal(t, 3, mock.CallCount())
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	mock := NewMockProvider()
	p := WithRetry(mock, retryConfig(2))

	_, err := p.Generate(context.Background(), Request{})
	var unavailable *ErrProviderUnavailable
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetry_InvalidResponseRetriedOnce(t *testing.T) {
	bad := &ErrInvalidResponse{Err: errors.New("schema")}
	mock := NewMockProvider(MockResponse{Err: bad}, MockResponse{Err: bad}, MockResponse{Content: json.RawMessage(`{}`)})
	p := WithRetry(mock, retryConfig(5))

	_, err := p.Generate(context.Background(), Request{})
	var invalid *ErrInvalidResponse
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetry_TruncationNotRetried(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrMaxTokensExceeded{}}, MockResponse{Content: json.RawMessage(`{}`)})
	p := WithRetry(mock, retryConfig(3))

	_, err := p.Generate(context.Background(), Request{})
	var truncated *ErrMaxTokensExceeded
	require.ErrorAs(t, err, &truncated)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_StopsOnCancel(t *testing.T) {
	mock := NewMockProvider()
	p := WithRetry(mock, RetryConfig{MaxAttempts: 5, InitialWait: time.Hour, Multiplier: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Generate(ctx, Request{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_WaitHonorsRetryAfter(t *testing.T) {
	r := &retryingProvider{cfg: retryConfig(3)}
	got := r.wait(0, &ErrRateLimit{RetryAfter: 7 * time.Second})
	assert.Equal(t, 7*time.Second, got)
}

func TestRetry_WaitIsCapped(t *testing.T) {
	r := &retryingProvider{cfg: RetryConfig{InitialWait: time.Second, MaxWait: 2 * time.Second, Multiplier: 10}}
	got := r.wait(4, errors.New("x"))
	assert.LessOrEqual(t, got, 2400*time.Millisecond)
	assert.GreaterOrEqual(t, got, 1600*time.Millisecond)
}

func TestRecording_Success(t *testing.T) {
	rec := &fakeRecorder{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"summary":"x"}`),
		Usage:   Usage{InputTokens: 10, OutputTokens: 4},
	})
	p := WithRecording(mock, ProviderMock, rec, nil)

	ctx := WithPurpose(context.Background(), "coach")
	_, err := p.Generate(ctx, Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
		Schema:   testSchema(),
	})
	require.NoError(t, err)

	require.Len(t, rec.events, 1)
	ev := rec.events[0]
	assert.Equal(t, "mock", ev.Provider)
	assert.Equal(t, "mock", ev.Model)
	assert.Equal(t, "coach", ev.Purpose)
	assert.True(t, ev.Success)
	assert.Equal(t, 10, ev.InputTokens)
	assert.Equal(t, 4, ev.OutputTokens)
	assert.Equal(t, `{"summary":"x"}`, ev.ResponseBody)
	assert.Contains(t, ev.RequestBody, "[system]\nsys")
	assert.Contains(t, ev.RequestBody, "[user]\nhello")
	assert.Contains(t, ev.RequestBody, "[schema: test-person]")
}

func TestRecording_Failure(t *testing.T) {
	rec := &fakeRecorder{}
	p := WithRecording(NewMockProvider(), ProviderMock, rec, nil)

	_, err := p.Generate(context.Background(), Request{})
	require.Error(t, err)

	require.Len(t, rec.events, 1)
	assert.False(t, rec.events[0].Success)
	assert.Equal(t, "unknown", rec.events[0].Purpose)
	assert.NotEmpty(t, rec.events[0].ErrorMessage)
}

func TestRecording_SurvivesCanceledContext(t *testing.T) {
	rec := &fakeRecorder{}
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithRecording(mock, ProviderMock, rec, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Generate(ctx, Request{})
	require.NoError(t, err)
	assert.Len(t, rec.events, 1)
}

func TestRecording_RecorderErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	rec := &fakeRecorder{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithRecording(mock, ProviderMock, rec, zap.New(core))

	_, err := p.Generate(WithPurpose(context.Background(), "coach"), Request{})
	require.NoError(t, err)

	entries := logs.FilterMessage("record llm request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "coach", entries[0].ContextMap()["purpose"])
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }

func TestTimeout(t *testing.T) {
	p := WithTimeout(slowProvider{}, 10*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "slow", p.ModelID())
}

func TestTimeout_ZeroDisables(t *testing.T) {
	var inner Provider = NewMockProvider()
	assert.Same(t, inner, WithTimeout(inner, 0))
}

func TestDescribeRequest_Empty(t *testing.T) {
	assert.Empty(t, strings.TrimSpace(describeRequest(Request{})))
}

func TestPurpose(t *testing.T) {
	assert.Equal(t, "unknown", PurposeFrom(context.Background()))
	assert.Equal(t, "coach", PurposeFrom(WithPurpose(context.Background(), "coach")))
	assert.Equal(t, "unknown", PurposeFrom(WithPurpose(context.Background(), "")))
}
