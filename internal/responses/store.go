package responses

import "time"

// Response records one answer to a question.
type Response struct {
	QuestionID string    `json:"questionId"`
	Value      Value     `json:"value"`
	Timestamp  time.Time `json:"timestamp"`
}

// Store holds at most one live response per question. A later response for
// the same question replaces the earlier one in place, so iteration order is
// the order in which questions were first answered.
type Store struct {
	order []string
	byID  map[string]Response
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{byID: make(map[string]Response)}
}

// Set records r, replacing any earlier response for the same question.
func (s *Store) Set(r Response) {
	if _, ok := s.byID[r.QuestionID]; !ok {
		s.order = append(s.order, r.QuestionID)
	}
	s.byID[r.QuestionID] = r
}

// Get returns the live response for a question.
func (s *Store) Get(questionID string) (Response, bool) {
	r, ok := s.byID[questionID]
	return r, ok
}

// Has reports whether the question has a live response.
func (s *Store) Has(questionID string) bool {
	_, ok := s.byID[questionID]
	return ok
}

// Remove drops the response for a question, if any.
func (s *Store) Remove(questionID string) {
	if _, ok := s.byID[questionID]; !ok {
		return
	}
	delete(s.byID, questionID)
	for i, id := range s.order {
		if id == questionID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// All returns the live responses in first-answered order.
func (s *Store) All() []Response {
	out := make([]Response, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Len returns the number of live responses.
func (s *Store) Len() int { return len(s.order) }

// Clear removes every response.
func (s *Store) Clear() {
	s.order = nil
	s.byID = make(map[string]Response)
}

// Load replaces the store contents with rs. Later duplicates win.
func (s *Store) Load(rs []Response) {
	s.Clear()
	for _, r := range rs {
		s.Set(r)
	}
}
