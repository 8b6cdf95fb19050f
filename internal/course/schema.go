package course

import "github.com/anay/litquest/internal/llm"

// ChapterPlanSchema defines the JSON schema for the course's chapter plan.
var ChapterPlanSchema = &llm.Schema{
	Name:        "chapter-plan",
	Description: "An ordered list of 6-10 course chapters for a book",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{
					"type":        "integer",
					"description": "Sequential chapter number starting at 1",
				},
				"title": map[string]any{
					"type":        "string",
					"description": "Short evocative chapter title",
				},
				"description": map[string]any{
					"type":        "string",
					"description": "1-2 sentence teaser for the chapter",
				},
				"activities": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "string",
						"enum": []any{"QUIZ", "FLASHCARDS", "ROLEPLAY"},
					},
					"description": "2-3 activity types that best fit this chapter",
				},
			},
			"required":             []any{"id", "title", "description", "activities"},
			"additionalProperties": false,
		},
	},
}

// StudyGuideSchema defines the JSON schema for the book-level study guide.
var StudyGuideSchema = &llm.Schema{
	Name:        "study-guide",
	Description: "A deep-dive study guide: global summary, key characters, key themes",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"globalSummary": map[string]any{
				"type":        "string",
				"description": "Detailed overview of the entire book (approx 400-600 words), Markdown formatted",
			},
			"characters": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":        map[string]any{"type": "string"},
						"role":        map[string]any{"type": "string"},
						"description": map[string]any{"type": "string"},
					},
					"required":             []any{"name", "role", "description"},
					"additionalProperties": false,
				},
				"description": "5-8 key characters with analysis of their roles and evolution",
			},
			"themes": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":        map[string]any{"type": "string"},
						"description": map[string]any{"type": "string"},
					},
					"required":             []any{"name", "description"},
					"additionalProperties": false,
				},
				"description": "5-8 key themes with deep analysis",
			},
		},
		"required":             []any{"globalSummary", "characters", "themes"},
		"additionalProperties": false,
	},
}

// ChapterGuideSchema defines the JSON schema for one chapter's guided reading.
var ChapterGuideSchema = &llm.Schema{
	Name:        "chapter-guide",
	Description: "An extensive guided-reading module for one chapter",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"chapterTitle": map[string]any{
				"type": "string",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Very detailed reading section (approx 800-1200 words), heavy Markdown",
			},
			"keyPoints": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "5-7 crucial takeaways or analysis points",
			},
		},
		"required":             []any{"chapterTitle", "content", "keyPoints"},
		"additionalProperties": false,
	},
}

// QuizSchema defines the JSON schema for a chapter quiz.
var QuizSchema = &llm.Schema{
	Name:        "chapter-quiz",
	Description: "Challenging multiple-choice questions for one chapter",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{"type": "string"},
				"options": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"correctAnswerIndex": map[string]any{"type": "integer"},
				"explanation":        map[string]any{"type": "string"},
			},
			"required":             []any{"question", "options", "correctAnswerIndex", "explanation"},
			"additionalProperties": false,
		},
	},
}

// FlashcardSchema defines the JSON schema for a chapter flashcard set.
var FlashcardSchema = &llm.Schema{
	Name:        "chapter-flashcards",
	Description: "Front/back flashcards for one chapter",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"front": map[string]any{"type": "string"},
				"back":  map[string]any{"type": "string"},
			},
			"required":             []any{"front", "back"},
			"additionalProperties": false,
		},
	},
}
