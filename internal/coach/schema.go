package coach

import "github.com/abhisek/careerfit/internal/llm"

// NarrativeSchema is the structured output requested from the model.
var NarrativeSchema = &llm.Schema{
	Name:        "career-narrative",
	Description: "Personal commentary on a career self-assessment result",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "3-4 sentence plain-language reading of the result",
			},
			"strengths": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "2-3 strengths backed by the scores (5-12 words each)",
			},
			"focus_areas": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "2-3 areas to develop (5-12 words each)",
			},
			"first_week_plan": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "3-5 concrete actions for the next seven days",
			},
		},
		"required":             []any{"summary", "strengths", "focus_areas", "first_week_plan"},
		"additionalProperties": false,
	},
}
