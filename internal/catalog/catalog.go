package catalog

import (
	"errors"
	"fmt"
)

// Catalog is an ordered, read-only set of questions with an answer key.
type Catalog struct {
	sections map[Category][]Question
	all      []Question
	byID     map[string]int
	answers  map[string]string
}

// New builds a Catalog from per-category question lists and a per-question
// answer key. Questions are copied; the catalog never changes afterwards.
func New(psychometric, technical, wiscar []Question, answers map[string]string) *Catalog {
	c := &Catalog{
		sections: make(map[Category][]Question, 3),
		byID:     make(map[string]int),
		answers:  make(map[string]string, len(answers)),
	}
	for _, part := range []struct {
		cat Category
		qs  []Question
	}{
		{CategoryPsychometric, psychometric},
		{CategoryTechnical, technical},
		{CategoryWiscar, wiscar},
	} {
		qs := cloneAll(part.qs)
		c.sections[part.cat] = qs
		for _, q := range qs {
			if _, dup := c.byID[q.ID]; !dup {
				c.byID[q.ID] = len(c.all)
			}
			c.all = append(c.all, q)
		}
	}
	for id, a := range answers {
		c.answers[id] = a
	}
	return c
}

// Section returns the questions of a category in presentation order.
func (c *Catalog) Section(cat Category) []Question {
	return cloneAll(c.sections[cat])
}

// Psychometric returns the psychometric section.
func (c *Catalog) Psychometric() []Question { return c.Section(CategoryPsychometric) }

// Technical returns the technical section.
func (c *Catalog) Technical() []Question { return c.Section(CategoryTechnical) }

// Wiscar returns the WISCAR section.
func (c *Catalog) Wiscar() []Question { return c.Section(CategoryWiscar) }

// All returns every question: psychometric, then technical, then WISCAR.
func (c *Catalog) All() []Question {
	return cloneAll(c.all)
}

func cloneAll(qs []Question) []Question {
	if qs == nil {
		return nil
	}
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = q.clone()
	}
	return out
}

// Len returns the total number of questions.
func (c *Catalog) Len() int { return len(c.all) }

// SectionLen returns the number of questions in a category.
func (c *Catalog) SectionLen(cat Category) int { return len(c.sections[cat]) }

// ByID looks up a question by id.
func (c *Catalog) ByID(id string) (Question, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Question{}, false
	}
	return c.all[i].clone(), true
}

// CorrectAnswer returns the correct option label for a choice question.
func (c *Catalog) CorrectAnswer(id string) (string, bool) {
	a, ok := c.answers[id]
	return a, ok
}

// IsCorrect reports whether label is the keyed answer for question id.
func (c *Catalog) IsCorrect(id, label string) bool {
	a, ok := c.answers[id]
	return ok && a == label
}

// Validate checks the structural integrity of the catalog.
func (c *Catalog) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(c.all))
	known := make(map[Subcategory]bool, len(WiscarDimensions))
	for _, d := range WiscarDimensions {
		known[d] = true
	}

	for _, q := range c.all {
		if q.ID == "" {
			errs = append(errs, fmt.Errorf("question with text %q has no id", q.Text))
			continue
		}
		if seen[q.ID] {
			errs = append(errs, fmt.Errorf("%s: duplicate id", q.ID))
		}
		seen[q.ID] = true

		if q.Text == "" {
			errs = append(errs, fmt.Errorf("%s: empty text", q.ID))
		}
		if q.Weight < 0 {
			errs = append(errs, fmt.Errorf("%s: negative weight %v", q.ID, q.Weight))
		}
		if q.Category == CategoryWiscar && !known[q.Subcategory] {
			errs = append(errs, fmt.Errorf("%s: unknown WISCAR subcategory %q", q.ID, q.Subcategory))
		}

		switch {
		case q.Type == TypeLikert:
			if q.Scale == nil {
				errs = append(errs, fmt.Errorf("%s: likert question without scale", q.ID))
				break
			}
			if q.Scale.Max <= q.Scale.Min {
				errs = append(errs, fmt.Errorf("%s: scale max %d not above min %d", q.ID, q.Scale.Max, q.Scale.Min))
			}
			if want := q.Scale.Max - q.Scale.Min + 1; len(q.Scale.Labels) != want {
				errs = append(errs, fmt.Errorf("%s: scale has %d labels, want %d", q.ID, len(q.Scale.Labels), want))
			}
		case q.Type.IsChoice():
			if len(q.Options) == 0 {
				errs = append(errs, fmt.Errorf("%s: choice question without options", q.ID))
			}
			a, ok := c.answers[q.ID]
			if !ok {
				errs = append(errs, fmt.Errorf("%s: no answer key entry", q.ID))
			} else if !q.HasOption(a) {
				errs = append(errs, fmt.Errorf("%s: keyed answer %q is not an option", q.ID, a))
			}
		default:
			errs = append(errs, fmt.Errorf("%s: unknown question type %q", q.ID, q.Type))
		}
	}

	for id := range c.answers {
		if !seen[id] {
			errs = append(errs, fmt.Errorf("answer key references unknown question %s", id))
		}
	}

	return errors.Join(errs...)
}
