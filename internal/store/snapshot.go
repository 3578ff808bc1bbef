package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SnapshotRepo stores response snapshots in SQLite. Every Set appends a row
// and prunes the key down to the newest keep rows, so a short history of
// saves survives. It satisfies responses.Snapshotter.
type SnapshotRepo struct {
	db   *sql.DB
	seq  *sequenceCounter
	keep int
	now  func() time.Time
}

// Get returns the newest payload saved under key.
func (r *SnapshotRepo) Get(ctx context.Context, key string) (string, bool, error) {
	snap, err := r.Latest(ctx, key)
	if err != nil {
		return "", false, err
	}
	if snap == nil {
		return "", false, nil
	}
	return snap.Payload, true, nil
}

// Set saves payload as the newest snapshot under key.
func (r *SnapshotRepo) Set(ctx context.Context, key, payload string) error {
	if err := r.Save(ctx, &Snapshot{Key: key, Timestamp: r.now(), Payload: payload}); err != nil {
		return err
	}
	if r.keep > 0 {
		return r.Prune(ctx, key, r.keep)
	}
	return nil
}

// Clear deletes every snapshot under key.
func (r *SnapshotRepo) Clear(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}
	return nil
}

// Save stores a new snapshot, assigning its sequence when unset.
func (r *SnapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	if snap.Sequence == 0 {
		seq, err := r.seq.Next(ctx)
		if err != nil {
			return err
		}
		snap.Sequence = seq
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO snapshots (key, sequence, timestamp, payload) VALUES (?, ?, ?, ?)`,
		snap.Key, snap.Sequence, formatTime(snap.Timestamp), snap.Payload,
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		snap.ID = int(id)
	}
	return nil
}

// Latest returns the most recent snapshot under key, or nil if none exist.
func (r *SnapshotRepo) Latest(ctx context.Context, key string) (*Snapshot, error) {
	var (
		s  Snapshot
		ts string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, key, sequence, timestamp, payload FROM snapshots
		 WHERE key = ? ORDER BY sequence DESC LIMIT 1`, key,
	).Scan(&s.ID, &s.Key, &s.Sequence, &ts, &s.Payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	if s.Timestamp, err = parseTime(ts); err != nil {
		return nil, err
	}
	return &s, nil
}

// Count returns how many snapshots exist under key.
func (r *SnapshotRepo) Count(ctx context.Context, key string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots WHERE key = ?`, key).Scan(&n); err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return n, nil
}

// Prune deletes all but the keep most recent snapshots under key.
func (r *SnapshotRepo) Prune(ctx context.Context, key string, keep int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE key = ? AND id NOT IN (
			SELECT id FROM snapshots WHERE key = ? ORDER BY sequence DESC LIMIT ?
		)`, key, key, keep,
	)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
