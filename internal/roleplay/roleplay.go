package roleplay

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/anay/litquest/internal/course"
	"github.com/anay/litquest/internal/llm"
	"github.com/anay/litquest/internal/locale"
)

// MessageRole labels who spoke a chat message.
type MessageRole string

const (
	RoleUser  MessageRole = "user"
	RoleModel MessageRole = "model"
)

// ChatMessage is one turn in a roleplay transcript.
type ChatMessage struct {
	ID   string
	Role MessageRole
	Text string
}

// Session is one roleplay conversation with a character from the book.
// The transcript grows only through Start and Send; every successful
// Send appends exactly one user message and one model message.
//
// Session is not safe for concurrent use.
type Session struct {
	provider llm.Provider
	system   string
	loc      locale.Locale

	messages []ChatMessage
	started  bool
}

// NewSession creates a roleplay session for one chapter. No request is
// made until Start.
func NewSession(provider llm.Provider, bookTitle, chapterTitle string, loc locale.Locale) *Session {
	return &Session{
		provider: provider,
		system:   course.RoleplaySystemInstruction(bookTitle, chapterTitle, loc),
		loc:      loc,
	}
}

// Messages returns the transcript so far. The slice is shared; callers
// must not modify it.
func (s *Session) Messages() []ChatMessage { return s.messages }

// Started reports whether the character has introduced itself.
func (s *Session) Started() bool { return s.started }

// Start elicits the character's self-introduction. The opening line is
// a synthetic user turn sent with an empty history and never shown in
// the transcript; only the model's introduction is recorded.
func (s *Session) Start(ctx context.Context) (ChatMessage, error) {
	if s.started {
		return ChatMessage{}, fmt.Errorf("session already started")
	}

	ctx = llm.WithPurpose(ctx, "roleplay")
	reply, err := s.provider.Converse(ctx, llm.ChatRequest{
		System:  s.system,
		History: nil,
		Message: s.loc.OpeningLine(),
	})
	if err != nil {
		return ChatMessage{}, fmt.Errorf("roleplay introduction: %w", err)
	}

	msg := ChatMessage{ID: uuid.NewString(), Role: RoleModel, Text: reply}
	s.messages = append(s.messages, msg)
	s.started = true
	return msg, nil
}

// Send delivers the learner's message and returns the character's
// reply. On failure the transcript is unchanged; a turn is recorded
// only when both halves exist.
func (s *Session) Send(ctx context.Context, text string) (ChatMessage, error) {
	if !s.started {
		return ChatMessage{}, fmt.Errorf("session not started")
	}
	if text == "" {
		return ChatMessage{}, fmt.Errorf("empty message")
	}

	history := make([]llm.Message, len(s.messages))
	for i, m := range s.messages {
		role := llm.RoleUser
		if m.Role == RoleModel {
			role = llm.RoleAssistant
		}
		history[i] = llm.Message{Role: role, Content: m.Text}
	}

	ctx = llm.WithPurpose(ctx, "roleplay")
	reply, err := s.provider.Converse(ctx, llm.ChatRequest{
		System:  s.system,
		History: history,
		Message: text,
	})
	if err != nil {
		return ChatMessage{}, fmt.Errorf("roleplay reply: %w", err)
	}

	s.messages = append(s.messages,
		ChatMessage{ID: uuid.NewString(), Role: RoleUser, Text: text},
		ChatMessage{ID: uuid.NewString(), Role: RoleModel, Text: reply},
	)
	return s.messages[len(s.messages)-1], nil
}
