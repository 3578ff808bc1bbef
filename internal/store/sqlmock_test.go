package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/abhisek/careerfit/internal/scoring"
)

func newMockRepos(t *testing.T) (*EventRepo, *SnapshotRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }
	seq := newSequenceCounter(db)
	return &EventRepo{db: db, seq: seq, now: now},
		&SnapshotRepo{db: db, seq: seq, keep: 2, now: now},
		mock
}

func expectSequence(mock sqlmock.Sqlmock, next int64) {
	mock.ExpectQuery("UPDATE global_sequence").
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(next))
}

func TestAppendAssessmentInsertFailure(t *testing.T) {
	events, _, mock := newMockRepos(t)

	expectSequence(mock, 7)
	mock.ExpectExec("INSERT INTO assessment_events").
		WithArgs(
			int64(7),
			"2026-05-01T00:00:00Z",
			"run-x",
			sqlmock.AnyArg(), // started_at
			sqlmock.AnyArg(), // completed_at
			"maybe",
			65.0, 55.0, 0.0, 60.0, 70.0,
			0,
			sqlmock.AnyArg(), // result_json
			"null",
		).
		WillReturnError(errors.New("disk I/O error"))

	err := events.AppendAssessment(context.Background(), AssessmentEventData{
		RunID: "run-x",
		Result: scoring.Result{
			PsychometricFit:    65,
			TechnicalReadiness: 55,
			OverallScore:       60,
			ConfidenceScore:    70,
			Recommendation:     scoring.TierMaybe,
		},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestAppendLLMRequestSequenceFailure(t *testing.T) {
	events, _, mock := newMockRepos(t)

	mock.ExpectQuery("UPDATE global_sequence").WillReturnError(errors.New("database is locked"))

	err := events.AppendLLMRequest(context.Background(), LLMRequestEventData{Provider: "mock"})
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestSnapshotSetPrunes(t *testing.T) {
	_, snaps, mock := newMockRepos(t)

	expectSequence(mock, 3)
	mock.ExpectExec("INSERT INTO snapshots").
		WithArgs("k", int64(3), "2026-05-01T00:00:00Z", "[]").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec("DELETE FROM snapshots WHERE key = \\? AND id NOT IN").
		WithArgs("k", "k", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := snaps.Set(context.Background(), "k", "[]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestSnapshotGetQueryFailure(t *testing.T) {
	_, snaps, mock := newMockRepos(t)

	mock.ExpectQuery("SELECT id, key, sequence, timestamp, payload FROM snapshots").
		WithArgs("k").
		WillReturnError(errors.New("no such table: snapshots"))

	if _, _, err := snaps.Get(context.Background(), "k"); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestResetRollsBackOnFailure(t *testing.T) {
	events, _, mock := newMockRepos(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM assessment_events").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM snapshots").WillReturnError(errors.New("readonly database"))
	mock.ExpectRollback()

	if err := events.Reset(context.Background(), true); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
