package chat

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/anay/litquest/internal/course"
	"github.com/anay/litquest/internal/engine"
	"github.com/anay/litquest/internal/llm"
	"github.com/anay/litquest/internal/locale"
	"github.com/anay/litquest/internal/roleplay"
	"github.com/anay/litquest/internal/store"
)

func newChatScreen(provider llm.Provider) *ChatScreen {
	orch := engine.New(provider, course.DefaultConfig(), store.NopEventRepo{})
	session := roleplay.NewSession(provider, "Dune", "Arrival", locale.English)
	run := &engine.ActivityRun{
		Kind:      course.ActivityRoleplay,
		ChapterID: 1,
		Content:   course.RoleplayActivity{},
		Chat:      session,
	}
	return New(orch, run)
}

func TestIntroDeliveredByMessage(t *testing.T) {
	mock := llm.NewMockProvider()
	c := newChatScreen(mock)

	// nothing rendered until the message arrives
	if view := c.View(80, 24); strings.Contains(view, "Paul") {
		t.Error("intro rendered before delivery")
	}
	if view := c.View(80, 24); !strings.Contains(view, "...") {
		t.Error("no waiting indicator while the intro is pending")
	}

	c.Update(introMsg{intro: roleplay.ChatMessage{Role: roleplay.RoleModel, Text: "I am Paul."}})
	if view := c.View(80, 24); !strings.Contains(view, "I am Paul.") {
		t.Error("delivered intro missing from the transcript")
	}
}

func TestIntroFailureShowsFallback(t *testing.T) {
	mock := llm.NewMockProvider()
	c := newChatScreen(mock)

	c.Update(introMsg{err: &llm.ErrProviderUnavailable{}})

	fallback := locale.English.T().ChatFallback
	if view := c.View(80, 24); !strings.Contains(view, fallback) {
		t.Error("fallback line missing after failed intro")
	}
}

func TestSendAppendsTurnPair(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddReply(llm.MockReply{Text: "I am Paul."})
	mock.AddReply(llm.MockReply{Text: "The spice must flow."})
	c := newChatScreen(mock)

	if _, err := c.session.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	c.Update(introMsg{intro: roleplay.ChatMessage{Role: roleplay.RoleModel, Text: "I am Paul."}})

	c.input.Model.SetValue("Tell me about the spice")
	_, cmd := c.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter produced no send command")
	}
	c.Update(cmd())

	view := c.View(80, 24)
	if !strings.Contains(view, "Tell me about the spice") {
		t.Error("user turn missing from the transcript")
	}
	if !strings.Contains(view, "The spice must flow.") {
		t.Error("reply missing from the transcript")
	}
	if c.waiting {
		t.Error("still waiting after the reply arrived")
	}
}

func TestFailedSendLeavesTranscript(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddReply(llm.MockReply{Text: "I am Paul."})
	c := newChatScreen(mock)

	if _, err := c.session.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	c.Update(introMsg{intro: roleplay.ChatMessage{Role: roleplay.RoleModel, Text: "I am Paul."}})

	// reply queue is empty, the send fails
	c.input.Model.SetValue("hello?")
	_, cmd := c.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	c.Update(cmd())

	if len(c.transcript) != 1 {
		t.Errorf("transcript has %d messages after failed send, want the intro only", len(c.transcript))
	}
	if c.errMsg == "" {
		t.Error("failed send reported no error")
	}
}

// gatedChat parks each Converse call until the test releases it, so a
// send can be held in flight while the screen renders.
type gatedChat struct {
	*llm.MockProvider
	entered chan struct{}
	release chan struct{}
}

func (g *gatedChat) Converse(ctx context.Context, req llm.ChatRequest) (string, error) {
	g.entered <- struct{}{}
	<-g.release
	return g.MockProvider.Converse(ctx, req)
}

func TestViewWhileSendInFlight(t *testing.T) {
	// the session is mutated on the command goroutine; rendering must
	// not read it concurrently
	mock := llm.NewMockProvider()
	mock.AddReply(llm.MockReply{Text: "I am Paul."})
	mock.AddReply(llm.MockReply{Text: "The spice must flow."})
	gated := &gatedChat{MockProvider: mock, entered: make(chan struct{}), release: make(chan struct{})}

	c := newChatScreen(gated)

	startDone := make(chan error, 1)
	go func() {
		_, err := c.session.Start(context.Background())
		startDone <- err
	}()
	<-gated.entered
	gated.release <- struct{}{}
	if err := <-startDone; err != nil {
		t.Fatalf("Start: %v", err)
	}
	c.Update(introMsg{intro: roleplay.ChatMessage{Role: roleplay.RoleModel, Text: "I am Paul."}})

	c.input.Model.SetValue("Tell me more")
	_, cmd := c.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	<-gated.entered
	view := c.View(80, 24)
	if !strings.Contains(view, "Tell me more") {
		t.Error("pending turn not rendered while in flight")
	}
	gated.release <- struct{}{}

	c.Update(<-done)
	if view := c.View(80, 24); !strings.Contains(view, "The spice must flow.") {
		t.Error("reply missing after delivery")
	}
}
