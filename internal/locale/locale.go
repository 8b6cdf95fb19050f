// Package locale supplies the active locale code, the language
// directive attached to every generation request, and the locale
// variants of free-form prompt and display strings.
package locale

import "fmt"

// Locale is a supported display language code.
type Locale string

const (
	English Locale = "en"
	Chinese Locale = "zh"
)

// Default is the locale used when none is selected.
const Default = English

// Toggle returns the other supported locale.
func (l Locale) Toggle() Locale {
	if l == Chinese {
		return English
	}
	return Chinese
}

// Directive returns the language instruction appended to every
// generation prompt. JSON property keys stay in English regardless.
func (l Locale) Directive() string {
	if l == Chinese {
		return "IMPORTANT: Generate all display text (titles, descriptions, questions, answers, content) in Simplified Chinese (zh-CN). Keep JSON property keys in English."
	}
	return "IMPORTANT: Generate all content in English."
}

// OpeningLine is the synthetic user message that elicits a roleplay
// character's self-introduction. It is never shown to the user.
func (l Locale) OpeningLine() string {
	if l == Chinese {
		return "你好！你是谁？"
	}
	return "Hello! Who are you?"
}

// SpeakDirective is the spoken-language line in the roleplay system
// instruction.
func (l Locale) SpeakDirective() string {
	if l == Chinese {
		return "Speak in Simplified Chinese."
	}
	return "Speak in English."
}

// Strings holds the locale-dependent display text the core needs for
// progress labels and activity names. Screen chrome strings live with
// the screens; only text that crosses the engine boundary is here.
type Strings struct {
	Creating      string
	Analyzing     string
	PreparingFmt  string // takes a chapter or activity title
	Quiz          string
	Flashcards    string
	Roleplay      string
	ChatFallback  string // shown when the roleplay opening turn fails
	StudyGuide    string
}

var table = map[Locale]Strings{
	English: {
		Creating:     "Creating your course",
		Analyzing:    "Analyzing book structure...",
		PreparingFmt: "Preparing %s...",
		Quiz:         "Quiz Challenge",
		Flashcards:   "Key Terms",
		Roleplay:     "Character Chat",
		ChatFallback: "I'm having trouble connecting to the story right now.",
		StudyGuide:   "Study Guide",
	},
	Chinese: {
		Creating:     "正在创建课程",
		Analyzing:    "正在分析书籍结构...",
		PreparingFmt: "正在准备内容：%s...",
		Quiz:         "知识测验",
		Flashcards:   "核心卡片",
		Roleplay:     "角色对话",
		ChatFallback: "我暂时无法连接到故事世界。",
		StudyGuide:   "学习指南",
	},
}

// T returns the string table for the locale, falling back to English.
func (l Locale) T() Strings {
	if s, ok := table[l]; ok {
		return s
	}
	return table[English]
}

// Preparing formats the stage progress label for a titled unit.
func (l Locale) Preparing(title string) string {
	return fmt.Sprintf(l.T().PreparingFmt, title)
}
