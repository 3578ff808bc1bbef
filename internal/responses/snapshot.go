package responses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// SnapshotKey is the fixed key under which in-progress responses are saved.
const SnapshotKey = "assessmentResponses"

// ErrMalformedSnapshot is returned by Decode for unreadable payloads.
var ErrMalformedSnapshot = errors.New("malformed response snapshot")

// Snapshotter is a string key-value store for serialized response sets.
type Snapshotter interface {
	// Get returns the payload under key. found is false when nothing is stored.
	Get(ctx context.Context, key string) (payload string, found bool, err error)

	// Set stores payload under key, replacing any previous value.
	Set(ctx context.Context, key, payload string) error

	// Clear removes key.
	Clear(ctx context.Context, key string) error
}

// Encode serializes responses as a JSON array.
func Encode(rs []Response) (string, error) {
	if rs == nil {
		rs = []Response{}
	}
	b, err := json.Marshal(rs)
	if err != nil {
		return "", fmt.Errorf("encode responses: %w", err)
	}
	return string(b), nil
}

// Decode parses a payload produced by Encode.
func Decode(payload string) ([]Response, error) {
	var rs []Response
	if err := json.Unmarshal([]byte(payload), &rs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	for i, r := range rs {
		if r.QuestionID == "" {
			return nil, fmt.Errorf("%w: entry %d has no question id", ErrMalformedSnapshot, i)
		}
		if r.Value.IsZero() {
			return nil, fmt.Errorf("%w: entry %d (%s) has no value", ErrMalformedSnapshot, i, r.QuestionID)
		}
	}
	return rs, nil
}

// MemorySnapshotter keeps snapshots in process memory.
type MemorySnapshotter struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemorySnapshotter returns an empty MemorySnapshotter.
func NewMemorySnapshotter() *MemorySnapshotter {
	return &MemorySnapshotter{data: make(map[string]string)}
}

func (m *MemorySnapshotter) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemorySnapshotter) Set(_ context.Context, key, payload string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = payload
	return nil
}

func (m *MemorySnapshotter) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
