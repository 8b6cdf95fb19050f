package course

import (
	"fmt"
	"strings"

	"github.com/anay/litquest/internal/locale"
)

// ExcerptLimit caps how much uploaded text is forwarded as generation
// context.
const ExcerptLimit = 1500

// clipExcerpt truncates to at most limit runes; a byte cut could split
// a multi-byte character and feed invalid UTF-8 to the provider.
func clipExcerpt(excerpt string, limit int) string {
	if len(excerpt) <= limit {
		return excerpt
	}
	runes := []rune(excerpt)
	if len(runes) <= limit {
		return excerpt
	}
	return string(runes[:limit])
}

func buildPlanPrompt(bookTitle, excerpt string, prefs UserPreferences, loc locale.Locale) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a personalized gamified learning path for the book %q.\n", bookTitle)
	b.WriteString(loc.Directive())
	b.WriteString("\n\nUser Preferences:\n")
	fmt.Fprintf(&b, "- Goal: %s\n", prefs.Goal)
	fmt.Fprintf(&b, "- Interests: %s\n", strings.Join(prefs.Interests, ", "))
	fmt.Fprintf(&b, "- Prior Knowledge: %s\n", prefs.PriorKnowledge)

	b.WriteString(`
Break the book down into 6-10 distinct levels or "Chapters" to ensure deep coverage.
If the goal is "Exam Prep", emphasize key facts and summaries.
If the goal is "Casual Reading", emphasize plot and roleplay.

For each chapter, suggest 2-3 suitable activity types (QUIZ, FLASHCARDS, ROLEPLAY) that best fit the content and user preferences.
`)

	if excerpt != "" {
		fmt.Fprintf(&b, "\nFile Content Snippet (first %d chars): %s...\n", ExcerptLimit, clipExcerpt(excerpt, ExcerptLimit))
	}

	return b.String()
}

func buildStudyGuidePrompt(bookTitle, excerpt string, loc locale.Locale) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a comprehensive, deep-dive study guide for the book %q.\n", bookTitle)
	b.WriteString(loc.Directive())
	b.WriteString(`

Provide:
1. A Global Summary: A detailed overview of the entire book (approx 400-600 words). Use Markdown for formatting.
2. A list of 5-8 Key Characters with detailed analysis of their roles and evolution.
3. A list of 5-8 Key Themes with deep analysis.
`)

	if excerpt != "" {
		fmt.Fprintf(&b, "\nFile Content Snippet: %s...\n", clipExcerpt(excerpt, 1000))
	}

	return b.String()
}

func buildChapterGuidePrompt(bookTitle, chapterTitle string, prefs UserPreferences, loc locale.Locale) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an expert literature professor teaching a master class. The student is studying %q from %q.\n", chapterTitle, bookTitle)
	fmt.Fprintf(&b, "User Goal: %s.\n", prefs.Goal)
	fmt.Fprintf(&b, "User Interests: %s.\n", strings.Join(prefs.Interests, ", "))
	b.WriteString(loc.Directive())

	b.WriteString(`

Create an extensive "Guided Reading" module for this chapter.

1. 'content': This is the main reading section. It must be VERY DETAILED (approx 800-1200 words).
   - Do NOT just summarize. Retell the narrative in an engaging way.
   - Analyze user interests (e.g., if they like Symbolism, discuss symbols in this chapter).
   - Use Markdown heavily: Headers (##), Bold (**text**), Blockquotes (>), and Lists.
   - Make it immersive. The user should feel like they read the chapter.

2. 'keyPoints': A list of 5-7 crucial takeaways or analysis points.

Output pure JSON.
`)

	return b.String()
}

func buildQuizPrompt(bookTitle, chapterTitle string, loc locale.Locale) string {
	return fmt.Sprintf(
		"Generate 5 challenging multiple-choice questions for the chapter %q of the book %q. Questions should test deep understanding, not just surface facts. %s",
		chapterTitle, bookTitle, loc.Directive(),
	)
}

func buildFlashcardPrompt(bookTitle, chapterTitle string, loc locale.Locale) string {
	return fmt.Sprintf(
		"Create 8 flashcards for %q of %q. Include complex concepts, key quotes, or character motivations. %s",
		chapterTitle, bookTitle, loc.Directive(),
	)
}

// RoleplaySystemInstruction builds the persona instruction for a
// roleplay chat scoped to one chapter.
func RoleplaySystemInstruction(bookTitle, chapterTitle string, loc locale.Locale) string {
	return fmt.Sprintf(
		`You are an immersive roleplay character from the book %q, specifically relevant to the chapter %q.
First, introduce yourself briefly and set the scene. Then engage the user in a deep discussion about the events.
Encourage the user to think critically.
%s
Do not break character.`,
		bookTitle, chapterTitle, loc.SpeakDirective(),
	)
}
