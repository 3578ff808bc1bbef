package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/careerfit/internal/catalog"
	"github.com/abhisek/careerfit/internal/responses"
	"github.com/abhisek/careerfit/internal/scoring"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is checked in TestOpenFileDatabase.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "careerfit.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	// Reopening must not re-run applied migrations.
	s.Close()
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	s2.Close()
}

func TestMigrationsCreateTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{"snapshots", "assessment_events", "llm_request_events", "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	sc := newSequenceCounter(s.DB())
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if seq != int64(i) {
			t.Errorf("seq = %d, want %d", seq, i)
		}
	}
}

func TestSnapshotRepoRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo(5)
	ctx := context.Background()

	_, found, err := repo.Get(ctx, responses.SnapshotKey)
	if err != nil {
		t.Fatalf("get (empty): %v", err)
	}
	if found {
		t.Fatal("expected no snapshot")
	}

	if err := repo.Set(ctx, responses.SnapshotKey, `[{"questionId":"p1","value":4}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(ctx, responses.SnapshotKey, `[{"questionId":"p1","value":5}]`); err != nil {
		t.Fatalf("set: %v", err)
	}

	payload, found, err := repo.Get(ctx, responses.SnapshotKey)
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if !strings.Contains(payload, `"value":5`) {
		t.Errorf("payload = %s, want newest", payload)
	}

	if err := repo.Clear(ctx, responses.SnapshotKey); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, found, _ := repo.Get(ctx, responses.SnapshotKey); found {
		t.Error("snapshot survived Clear")
	}
}

func TestSnapshotRepoPrunesOnSet(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo(3)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		if err := repo.Set(ctx, "k", fmt.Sprintf("payload-%d", i)); err != nil {
			t.Fatalf("set %d: %v", i, err)
		}
	}
	if err := repo.Set(ctx, "other", "x"); err != nil {
		t.Fatalf("set other: %v", err)
	}

	n, err := repo.Count(ctx, "k")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Errorf("remaining snapshots = %d, want 3", n)
	}
	if n, _ := repo.Count(ctx, "other"); n != 1 {
		t.Errorf("other key count = %d, want 1", n)
	}

	latest, err := repo.Latest(ctx, "k")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.Payload != "payload-6" {
		t.Errorf("latest payload = %q, want payload-6", latest.Payload)
	}
}

func TestSnapshotPruneWithFewerThanKeep(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo(0)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := repo.Set(ctx, "k", "p"); err != nil {
			t.Fatalf("set %d: %v", i, err)
		}
	}
	if err := repo.Prune(ctx, "k", 5); err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n, _ := repo.Count(ctx, "k"); n != 2 {
		t.Errorf("remaining snapshots = %d, want 2", n)
	}
}

func completedRun(t *testing.T, runID string, tier scoring.Tier, overall float64) AssessmentEventData {
	t.Helper()
	start := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	res := scoring.Result{
		PsychometricFit:    overall,
		TechnicalReadiness: overall,
		OverallScore:       overall,
		Recommendation:     tier,
		ConfidenceScore:    70,
		Answered:           map[catalog.Category]int{catalog.CategoryPsychometric: 1},
	}
	return AssessmentEventData{
		RunID:       runID,
		StartedAt:   start,
		CompletedAt: start.Add(6 * time.Minute),
		Result:      res,
		Responses: []responses.Response{
			{QuestionID: "p1", Value: responses.Rating(4), Timestamp: start.Add(time.Minute)},
		},
	}
}

func TestAssessmentEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	runs := []AssessmentEventData{
		completedRun(t, "run-1", scoring.TierNo, 40),
		completedRun(t, "run-2", scoring.TierYes, 90),
		completedRun(t, "run-3", scoring.TierMaybe, 65),
	}
	for _, r := range runs {
		if err := repo.AppendAssessment(ctx, r); err != nil {
			t.Fatalf("append %s: %v", r.RunID, err)
		}
	}

	events, err := repo.QueryAssessments(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].RunID != "run-3" || events[1].RunID != "run-2" {
		t.Errorf("order = %s,%s; want newest first", events[0].RunID, events[1].RunID)
	}

	yes, err := repo.QueryAssessments(ctx, QueryOpts{Recommendation: "yes"})
	if err != nil {
		t.Fatalf("query yes: %v", err)
	}
	if len(yes) != 1 || yes[0].Result.OverallScore != 90 {
		t.Errorf("filtered events = %+v", yes)
	}

	got, err := repo.GetAssessment(ctx, events[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Result.Recommendation != scoring.TierMaybe {
		t.Errorf("recommendation = %s, want maybe", got.Result.Recommendation)
	}
	if len(got.Responses) != 1 || got.Responses[0].QuestionID != "p1" {
		t.Errorf("responses = %+v", got.Responses)
	}
	if !got.CompletedAt.Equal(runs[2].CompletedAt) {
		t.Errorf("completed at = %v, want %v", got.CompletedAt, runs[2].CompletedAt)
	}

	missing, err := repo.GetAssessment(ctx, 999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing event")
	}
}

func TestAssessmentStats(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	stats, err := repo.AssessmentStats(ctx)
	if err != nil {
		t.Fatalf("stats (empty): %v", err)
	}
	if stats.Total != 0 || !stats.Last.IsZero() {
		t.Errorf("empty stats = %+v", stats)
	}

	for i, overall := range []float64{40, 90, 80} {
		tier := scoring.TierYes
		if overall < 60 {
			tier = scoring.TierNo
		}
		if err := repo.AppendAssessment(ctx, completedRun(t, fmt.Sprintf("run-%d", i), tier, overall)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	stats, err = repo.AssessmentStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("total = %d, want 3", stats.Total)
	}
	if stats.AvgOverall != 70 || stats.BestOverall != 90 {
		t.Errorf("avg/best = %v/%v, want 70/90", stats.AvgOverall, stats.BestOverall)
	}
	if stats.ByTier[scoring.TierYes] != 2 || stats.ByTier[scoring.TierNo] != 1 {
		t.Errorf("by tier = %v", stats.ByTier)
	}
	if stats.Last.IsZero() {
		t.Error("expected last timestamp")
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "coach", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true, RequestBody: "{}", ResponseBody: `{"summary":"ok"}`},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "coach", InputTokens: 300, OutputTokens: 150, LatencyMs: 400, Success: true},
		{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "coach", LatencyMs: 30, Success: false, ErrorMessage: "rate limited"},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "probe", InputTokens: 10, OutputTokens: 5, LatencyMs: 20, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	coach, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "coach"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(coach) != 3 {
		t.Fatalf("got %d coach events, want 3", len(coach))
	}
	if coach[0].Success || coach[0].ErrorMessage != "rate limited" {
		t.Errorf("newest coach event = %+v", coach[0])
	}

	first, err := repo.GetLLMEvent(ctx, coach[2].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if first.ResponseBody != `{"summary":"ok"}` || !first.Success {
		t.Errorf("event = %+v", first)
	}
	if none, _ := repo.GetLLMEvent(ctx, 12345); none != nil {
		t.Error("expected nil for missing event")
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 || byPurpose[0].Purpose != "coach" {
		t.Fatalf("usage by purpose = %+v", byPurpose)
	}
	if byPurpose[0].Calls != 3 || byPurpose[0].InputTokens != 400 || byPurpose[0].OutputTokens != 200 {
		t.Errorf("coach usage = %+v", byPurpose[0])
	}
	if byPurpose[0].AvgLatencyMs != 210 {
		t.Errorf("avg latency = %d, want 210", byPurpose[0].AvgLatencyMs)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 {
		t.Fatalf("usage by model = %+v, want failed calls excluded", byModel)
	}
	if byModel[1].Model != "gpt-4o-mini" || byModel[1].Calls != 2 {
		t.Errorf("model usage = %+v", byModel[1])
	}
}

func TestResetKeepsLLMEvents(t *testing.T) {
	s := openTestStore(t)
	events := s.EventRepo()
	snaps := s.SnapshotRepo(5)
	ctx := context.Background()

	if err := events.AppendAssessment(ctx, completedRun(t, "r", scoring.TierNo, 10)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := events.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: "coach", Success: true}); err != nil {
		t.Fatalf("append llm: %v", err)
	}
	if err := snaps.Set(ctx, responses.SnapshotKey, "[]"); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := events.Reset(ctx, true); err != nil {
		t.Fatalf("reset: %v", err)
	}

	runs, _ := events.QueryAssessments(ctx, QueryOpts{})
	if len(runs) != 0 {
		t.Errorf("assessments after reset = %d", len(runs))
	}
	if _, found, _ := snaps.Get(ctx, responses.SnapshotKey); found {
		t.Error("snapshot survived reset")
	}
	llm, _ := events.QueryLLMEvents(ctx, QueryOpts{})
	if len(llm) != 1 {
		t.Errorf("llm events after reset = %d, want 1", len(llm))
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CAREERFIT_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if want := filepath.Join(dir, "careerfit", "careerfit.db"); p != want {
		t.Errorf("path = %q, want %q", p, want)
	}

	t.Setenv("CAREERFIT_DB", filepath.Join(dir, "custom", "x.db"))
	p, err = DefaultDBPath()
	if err != nil {
		t.Fatalf("env path: %v", err)
	}
	if !strings.HasSuffix(p, filepath.Join("custom", "x.db")) {
		t.Errorf("path = %q", p)
	}
}
