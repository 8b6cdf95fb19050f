package course

// Config holds generation parameters per entity kind.
type Config struct {
	// PlanMaxTokens bounds the chapter plan response.
	PlanMaxTokens int

	// StudyGuideMaxTokens bounds the study guide response; the global
	// summary alone runs 400-600 words.
	StudyGuideMaxTokens int

	// ChapterGuideMaxTokens bounds the guided-reading response, the
	// longest entity (800-1200 words of content).
	ChapterGuideMaxTokens int

	// ActivityMaxTokens bounds quiz and flashcard responses.
	ActivityMaxTokens int

	// Temperature for all structured generations. Moderate: the output
	// should vary between runs but stay on-book.
	Temperature float64
}

// DefaultConfig returns production generation parameters.
func DefaultConfig() Config {
	return Config{
		PlanMaxTokens:         2048,
		StudyGuideMaxTokens:   4096,
		ChapterGuideMaxTokens: 4096,
		ActivityMaxTokens:     2048,
		Temperature:           0.7,
	}
}
