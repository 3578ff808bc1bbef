package wizard

import "github.com/abhisek/careerfit/internal/catalog"

// Section is a stage of the assessment.
type Section int

const (
	SectionIntro Section = iota
	SectionPsychometric
	SectionTechnical
	SectionWiscar
	SectionResults
)

func (s Section) String() string {
	switch s {
	case SectionIntro:
		return "intro"
	case SectionPsychometric:
		return "psychometric"
	case SectionTechnical:
		return "technical"
	case SectionWiscar:
		return "wiscar"
	case SectionResults:
		return "results"
	default:
		return "unknown"
	}
}

// Title is the heading shown for the section.
func (s Section) Title() string {
	switch s {
	case SectionIntro:
		return "Introduction"
	case SectionPsychometric:
		return "Psychometric Analysis"
	case SectionTechnical:
		return "Technical Assessment"
	case SectionWiscar:
		return "WISCAR Framework"
	case SectionResults:
		return "Results"
	default:
		return ""
	}
}

// Category returns the question category a section presents.
func (s Section) Category() (catalog.Category, bool) {
	switch s {
	case SectionPsychometric:
		return catalog.CategoryPsychometric, true
	case SectionTechnical:
		return catalog.CategoryTechnical, true
	case SectionWiscar:
		return catalog.CategoryWiscar, true
	default:
		return "", false
	}
}

// IsQuestion reports whether the section shows questions.
func (s Section) IsQuestion() bool {
	_, ok := s.Category()
	return ok
}

// State is the position of the wizard: a section and, for question
// sections, an index into that section's questions.
type State struct {
	Section Section
	Index   int
}

// Start returns the initial state.
func Start() State {
	return State{Section: SectionIntro}
}

// Next returns the state after advancing once from s. size reports how many
// questions a section holds; sections with none are passed over. Results is
// terminal.
func Next(s State, size func(Section) int) State {
	if s.Section == SectionResults {
		return s
	}
	if s.Section.IsQuestion() && s.Index+1 < size(s.Section) {
		return State{Section: s.Section, Index: s.Index + 1}
	}
	for sec := s.Section + 1; sec < SectionResults; sec++ {
		if size(sec) > 0 {
			return State{Section: sec}
		}
	}
	return State{Section: SectionResults}
}
