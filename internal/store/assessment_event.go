package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/careerfit/internal/scoring"
)

// EventRepo appends and queries assessment and LLM events.
type EventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	now func() time.Time
}

func (r *EventRepo) AppendAssessment(ctx context.Context, data AssessmentEventData) error {
	resultJSON, err := json.Marshal(data.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	responsesJSON, err := json.Marshal(data.Responses)
	if err != nil {
		return fmt.Errorf("marshal responses: %w", err)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	res := data.Result
	_, err = r.db.ExecContext(ctx, `INSERT INTO assessment_events (
			sequence, timestamp, run_id, started_at, completed_at, recommendation,
			psychometric_fit, technical_readiness, wiscar_average, overall_score,
			confidence_score, answered, result_json, responses_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, formatTime(r.now()), data.RunID,
		formatTime(data.StartedAt), formatTime(data.CompletedAt), string(res.Recommendation),
		res.PsychometricFit, res.TechnicalReadiness, res.WISCAR.Average(), res.OverallScore,
		res.ConfidenceScore, len(data.Responses), string(resultJSON), string(responsesJSON),
	)
	if err != nil {
		return fmt.Errorf("save assessment event: %w", err)
	}
	return nil
}

const assessmentColumns = `id, sequence, timestamp, run_id, started_at, completed_at, result_json, responses_json`

// QueryAssessments returns completed runs, newest first.
func (r *EventRepo) QueryAssessments(ctx context.Context, opts QueryOpts) ([]AssessmentEvent, error) {
	var (
		where []string
		args  []any
	)
	if opts.Recommendation != "" {
		where = append(where, "recommendation = ?")
		args = append(args, opts.Recommendation)
	}
	q := `SELECT ` + assessmentColumns + ` FROM assessment_events`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY sequence DESC"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query assessment events: %w", err)
	}
	defer rows.Close()

	var out []AssessmentEvent
	for rows.Next() {
		e, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessment events: %w", err)
	}
	return out, nil
}

// GetAssessment returns one run by id, or nil if it doesn't exist.
func (r *EventRepo) GetAssessment(ctx context.Context, id int) (*AssessmentEvent, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+assessmentColumns+` FROM assessment_events WHERE id = ?`, id)
	e, err := scanAssessment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// AssessmentStats aggregates all stored runs.
func (r *EventRepo) AssessmentStats(ctx context.Context) (*AssessmentStats, error) {
	stats := &AssessmentStats{ByTier: make(map[scoring.Tier]int)}

	var (
		avg, best sql.NullFloat64
		last      sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), AVG(overall_score), MAX(overall_score),
		        (SELECT timestamp FROM assessment_events ORDER BY sequence DESC LIMIT 1)
		 FROM assessment_events`,
	).Scan(&stats.Total, &avg, &best, &last)
	if err != nil {
		return nil, fmt.Errorf("query assessment stats: %w", err)
	}
	stats.AvgOverall = avg.Float64
	stats.BestOverall = best.Float64
	if last.Valid {
		if stats.Last, err = parseTime(last.String); err != nil {
			return nil, err
		}
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT recommendation, COUNT(*) FROM assessment_events GROUP BY recommendation`)
	if err != nil {
		return nil, fmt.Errorf("query tier counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			tier string
			n    int
		)
		if err := rows.Scan(&tier, &n); err != nil {
			return nil, fmt.Errorf("scan tier count: %w", err)
		}
		stats.ByTier[scoring.Tier(tier)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tier counts: %w", err)
	}
	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAssessment(s scanner) (*AssessmentEvent, error) {
	var (
		e                         AssessmentEvent
		ts, started, completed    string
		resultJSON, responsesJSON string
	)
	err := s.Scan(&e.ID, &e.Sequence, &ts, &e.RunID, &started, &completed, &resultJSON, &responsesJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan assessment event: %w", err)
	}
	if e.Timestamp, err = parseTime(ts); err != nil {
		return nil, err
	}
	if e.StartedAt, err = parseTime(started); err != nil {
		return nil, err
	}
	if e.CompletedAt, err = parseTime(completed); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(resultJSON), &e.Result); err != nil {
		return nil, fmt.Errorf("decode result of event %d: %w", e.ID, err)
	}
	if err := json.Unmarshal([]byte(responsesJSON), &e.Responses); err != nil {
		return nil, fmt.Errorf("decode responses of event %d: %w", e.ID, err)
	}
	return &e, nil
}

// Reset deletes all stored runs. With snapshots set it also drops saved
// in-progress responses.
func (r *EventRepo) Reset(ctx context.Context, snapshots bool) error {
	stmts := []string{`DELETE FROM assessment_events`}
	if snapshots {
		stmts = append(stmts, `DELETE FROM snapshots`)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			tx.Rollback()
			return fmt.Errorf("reset: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return nil
}
