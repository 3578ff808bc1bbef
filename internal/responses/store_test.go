package responses

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreReplacesEarlierResponse(t *testing.T) {
	s := NewStore()
	t0 := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	s.Set(Response{QuestionID: "p1", Value: Rating(2), Timestamp: t0})
	s.Set(Response{QuestionID: "p2", Value: Rating(4), Timestamp: t0})
	s.Set(Response{QuestionID: "p1", Value: Rating(5), Timestamp: t0.Add(time.Minute)})

	require.Equal(t, 2, s.Len())
	r, ok := s.Get("p1")
	require.True(t, ok)
	got, _ := r.Value.AsRating()
	assert.Equal(t, 5, got)
	assert.Equal(t, t0.Add(time.Minute), r.Timestamp)

	all := s.All()
	assert.Equal(t, "p1", all[0].QuestionID, "replacement keeps first-answered position")
	assert.Equal(t, "p2", all[1].QuestionID)
}

func TestStoreRemoveAndClear(t *testing.T) {
	s := NewStore()
	s.Set(Response{QuestionID: "a", Value: Rating(1)})
	s.Set(Response{QuestionID: "b", Value: Choice("x")})
	s.Set(Response{QuestionID: "c", Value: Rating(3)})

	s.Remove("b")
	s.Remove("missing")
	assert.False(t, s.Has("b"))
	assert.Equal(t, []string{"a", "c"}, ids(s.All()))

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.All())
}

func TestStoreLoadLaterDuplicateWins(t *testing.T) {
	s := NewStore()
	s.Set(Response{QuestionID: "old", Value: Rating(1)})
	s.Load([]Response{
		{QuestionID: "t1", Value: Choice("first")},
		{QuestionID: "t1", Value: Choice("second")},
	})

	assert.False(t, s.Has("old"))
	r, _ := s.Get("t1")
	label, ok := r.Value.AsChoice()
	require.True(t, ok)
	assert.Equal(t, "second", label)
}

func TestValueKinds(t *testing.T) {
	r := Rating(4)
	if _, ok := r.AsChoice(); ok {
		t.Error("rating must not read as choice")
	}
	c := Choice("Agree")
	if _, ok := c.AsRating(); ok {
		t.Error("choice must not read as rating")
	}
	var zero Value
	if !zero.IsZero() {
		t.Error("zero value should be empty")
	}
	if _, ok := zero.AsRating(); ok {
		t.Error("zero value must not read as rating")
	}
}

func TestEncodeDecodeShape(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	payload, err := Encode([]Response{
		{QuestionID: "p1", Value: Rating(5), Timestamp: ts},
		{QuestionID: "t4", Value: Choice("Data protection and privacy rights"), Timestamp: ts},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"questionId":"p1","value":5,"timestamp":"2026-03-04T05:06:07Z"},
		{"questionId":"t4","value":"Data protection and privacy rights","timestamp":"2026-03-04T05:06:07Z"}
	]`, payload)

	rs, err := Decode(payload)
	require.NoError(t, err)
	require.Len(t, rs, 2)
	n, ok := rs[0].Value.AsRating()
	assert.True(t, ok)
	assert.Equal(t, 5, n)
}

func TestEncodeEmpty(t *testing.T) {
	payload, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", payload)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "{oops"},
		{"object instead of array", `{"questionId":"p1"}`},
		{"missing id", `[{"value":3}]`},
		{"missing value", `[{"questionId":"p1"}]`},
		{"fractional rating", `[{"questionId":"p1","value":2.5}]`},
		{"boolean value", `[{"questionId":"p1","value":true}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.payload)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedSnapshot)
		})
	}
}

func ids(rs []Response) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.QuestionID
	}
	return out
}
