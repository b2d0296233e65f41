// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vorgawall/assistant-tui/internal/generate"
	"github.com/vorgawall/assistant-tui/internal/model"
	"github.com/vorgawall/assistant-tui/internal/storage"
)

// stubGenerator returns a fixed reply or error, optionally blocking until
// released.
type stubGenerator struct {
	reply   string
	err     error
	block   chan struct{} // non-nil: wait for close or ctx
	started chan struct{} // non-nil: closed when a call begins
}

func (s *stubGenerator) GenerateReply(ctx context.Context, in generate.Input) (string, error) {
	if s.started != nil {
		close(s.started)
		s.started = nil
	}
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.reply, s.err
}

func (s *stubGenerator) GenerateVoiceReply(ctx context.Context, transcript string) (string, error) {
	return s.reply, s.err
}

func newTestController(t *testing.T, gen generate.Generator) (*Controller, *storage.SessionStore) {
	t.Helper()
	store := storage.NewSessionStore(t.TempDir())
	ctrl := NewController(store, gen, Config{RevealInterval: time.Microsecond})
	return ctrl, store
}

// drain consumes the event stream until it closes, returning the terminal
// event if one arrived.
func drain(t *testing.T, events <-chan Event) (Event, bool) {
	t.Helper()
	var last Event
	var done bool
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return last, done
			}
			if ev.Done {
				last = ev
				done = true
			}
		case <-timeout:
			t.Fatal("timed out draining events")
		}
	}
}

func TestSendMessageNewConversation(t *testing.T) {
	ctrl, store := newTestController(t, &stubGenerator{reply: "Hello there"})
	ctrl.LoadOrCreate("")

	events, err := ctrl.SendMessage(context.Background(), "Hi", nil, generate.FeatureNone)
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	ev, done := drain(t, events)
	if !done {
		t.Fatal("no terminal event")
	}
	if ev.Err != nil {
		t.Errorf("unexpected generation error: %v", ev.Err)
	}
	if ev.Message == nil || ev.Message.Content != "Hello there" {
		t.Errorf("terminal message = %+v", ev.Message)
	}

	sessions := store.List()
	if len(sessions) != 1 {
		t.Fatalf("expected 1 persisted session, got %d", len(sessions))
	}
	conv := sessions[0]
	if conv.ID == "" {
		t.Error("conversation should have been assigned an id")
	}
	if conv.Title != "Hi" {
		t.Errorf("Title = %q, want %q", conv.Title, "Hi")
	}
	if conv.MessageCount() != 2 {
		t.Fatalf("expected 2 messages, got %d", conv.MessageCount())
	}
	if conv.Messages[0].Role != model.RoleUser || conv.Messages[0].Content != "Hi" {
		t.Errorf("first message = %+v", conv.Messages[0])
	}
	if conv.Messages[1].Role != model.RoleAssistant || conv.Messages[1].Content != "Hello there" {
		t.Errorf("second message = %+v", conv.Messages[1])
	}
	if conv.CreatedAt.IsZero() {
		t.Error("CreatedAt should be captured at first save")
	}
}

func TestSendMessageBlankIsNoOp(t *testing.T) {
	ctrl, store := newTestController(t, &stubGenerator{reply: "x"})
	ctrl.LoadOrCreate("")

	events, err := ctrl.SendMessage(context.Background(), "   \n", nil, generate.FeatureNone)
	if err != nil {
		t.Errorf("blank send should not error, got %v", err)
	}
	if events != nil {
		t.Error("blank send should not start a cycle")
	}
	if len(store.List()) != 0 {
		t.Error("blank send should not persist anything")
	}
	if ctrl.State() != StateIdle {
		t.Error("controller should stay Idle")
	}
}

func TestSendMessageAttachmentOnly(t *testing.T) {
	ctrl, store := newTestController(t, &stubGenerator{reply: "Nice picture"})
	ctrl.LoadOrCreate("")

	att := model.NewAttachment(model.AttachmentImage, "file:///tmp/cat.png", "cat.png")
	events, err := ctrl.SendMessage(context.Background(), "", []model.Attachment{att}, generate.FeatureNone)
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	drain(t, events)

	sessions := store.List()
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	msgs := sessions[0].Messages
	if len(msgs) != 2 || len(msgs[0].Attachments) != 1 {
		t.Errorf("attachment not persisted: %+v", msgs)
	}
}

func TestSendMessageFailureAppendsFallback(t *testing.T) {
	boom := errors.New("provider down")
	ctrl, store := newTestController(t, &stubGenerator{err: boom})
	ctrl.LoadOrCreate("")

	events, err := ctrl.SendMessage(context.Background(), "hello", nil, generate.FeatureNone)
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	ev, done := drain(t, events)
	if !done {
		t.Fatal("no terminal event")
	}
	if !errors.Is(ev.Err, boom) {
		t.Errorf("terminal Err = %v, want the provider error", ev.Err)
	}

	sessions := store.List()
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	msgs := sessions[0].Messages
	if len(msgs) != 2 {
		t.Fatalf("expected exactly 2 messages (user + fallback), got %d", len(msgs))
	}
	if msgs[1].Role != model.RoleAssistant || msgs[1].Content != generate.FallbackReply {
		t.Errorf("fallback message = %+v", msgs[1])
	}
	if ctrl.State() != StateIdle {
		t.Error("controller should return to Idle after failure")
	}
}

func TestEmptyReplyTakesFallbackPath(t *testing.T) {
	gen := &coercingStub{}
	ctrl, store := newTestController(t, gen)
	ctrl.LoadOrCreate("")

	events, _ := ctrl.SendMessage(context.Background(), "hello", nil, generate.FeatureNone)
	ev, _ := drain(t, events)

	if !errors.Is(ev.Err, generate.ErrEmptyReply) {
		t.Errorf("Err = %v, want ErrEmptyReply", ev.Err)
	}
	msgs := store.List()[0].Messages
	if msgs[1].Content != generate.FallbackReply {
		t.Errorf("expected fallback content, got %q", msgs[1].Content)
	}
}

// A generator outside this module may hand back a blank reply with a nil
// error instead of reporting ErrEmptyReply itself. The controller must not
// let that through: the stored conversation would end up with the user
// message only, while the terminal event claimed an assistant message.
func TestBlankReplyWithoutErrorFallsBack(t *testing.T) {
	for _, reply := range []string{"", "   \n\t "} {
		gen := &stubGenerator{reply: reply}
		ctrl, store := newTestController(t, gen)
		ctrl.LoadOrCreate("")

		events, err := ctrl.SendMessage(context.Background(), "hello", nil, generate.FeatureNone)
		if err != nil {
			t.Fatalf("SendMessage failed: %v", err)
		}

		ev, done := drain(t, events)
		if !done {
			t.Fatalf("reply %q: no terminal event", reply)
		}
		if !errors.Is(ev.Err, generate.ErrEmptyReply) {
			t.Errorf("reply %q: Err = %v, want ErrEmptyReply", reply, ev.Err)
		}

		msgs := store.List()[0].Messages
		if len(msgs) != 2 {
			t.Fatalf("reply %q: stored %d messages, want user + fallback", reply, len(msgs))
		}
		if msgs[1].Content != generate.FallbackReply {
			t.Errorf("reply %q: assistant content = %q, want fallback", reply, msgs[1].Content)
		}
	}
}

// coercingStub behaves like a real provider that got nothing back.
type coercingStub struct{}

func (s *coercingStub) GenerateReply(ctx context.Context, in generate.Input) (string, error) {
	return "", generate.ErrEmptyReply
}

func (s *coercingStub) GenerateVoiceReply(ctx context.Context, transcript string) (string, error) {
	return "", generate.ErrEmptyReply
}

func TestSendMessageWhileBusyRejected(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	ctrl, _ := newTestController(t, &stubGenerator{reply: "slow", block: block, started: started})
	ctrl.LoadOrCreate("")

	events, err := ctrl.SendMessage(context.Background(), "first", nil, generate.FeatureNone)
	if err != nil {
		t.Fatalf("first send failed: %v", err)
	}
	<-started

	if _, err := ctrl.SendMessage(context.Background(), "second", nil, generate.FeatureNone); !errors.Is(err, ErrBusy) {
		t.Errorf("second send = %v, want ErrBusy", err)
	}

	close(block)
	drain(t, events)

	if ctrl.State() != StateIdle {
		t.Error("controller should be Idle after the cycle completes")
	}
}

func TestIdStableAcrossSends(t *testing.T) {
	ctrl, store := newTestController(t, &stubGenerator{reply: "ok"})
	ctrl.LoadOrCreate("")

	events, _ := ctrl.SendMessage(context.Background(), "one", nil, generate.FeatureNone)
	drain(t, events)
	firstID := store.List()[0].ID

	events, _ = ctrl.SendMessage(context.Background(), "two", nil, generate.FeatureNone)
	drain(t, events)

	sessions := store.List()
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].ID != firstID {
		t.Errorf("id changed across sends: %q -> %q", firstID, sessions[0].ID)
	}
	if sessions[0].MessageCount() != 4 {
		t.Errorf("expected 4 messages, got %d", sessions[0].MessageCount())
	}
}

func TestAppendOnlyAcrossSends(t *testing.T) {
	ctrl, store := newTestController(t, &stubGenerator{reply: "ok"})
	ctrl.LoadOrCreate("")

	var previous []model.Message
	for _, content := range []string{"one", "two", "three"} {
		events, _ := ctrl.SendMessage(context.Background(), content, nil, generate.FeatureNone)
		drain(t, events)

		current := store.List()[0].Messages
		if len(current) <= len(previous) {
			t.Fatalf("messages did not grow: %d -> %d", len(previous), len(current))
		}
		for i := range previous {
			if current[i].ID != previous[i].ID || current[i].Content != previous[i].Content {
				t.Errorf("prior message %d mutated", i)
			}
		}
		previous = current
	}
}

func TestLoadOrCreateIdempotentReload(t *testing.T) {
	ctrl, store := newTestController(t, &stubGenerator{reply: "ok"})
	ctrl.LoadOrCreate("")

	events, _ := ctrl.SendMessage(context.Background(), "hello", nil, generate.FeatureNone)
	drain(t, events)
	id := store.List()[0].ID

	first := ctrl.LoadOrCreate(id)
	second := ctrl.LoadOrCreate(id)

	if len(first.Messages) != len(second.Messages) {
		t.Fatalf("reload changed message count: %d vs %d", len(first.Messages), len(second.Messages))
	}
	for i := range first.Messages {
		if first.Messages[i].Content != second.Messages[i].Content {
			t.Errorf("message %d differs between reloads", i)
		}
	}
}

func TestLoadOrCreateUnknownIdStartsFresh(t *testing.T) {
	ctrl, _ := newTestController(t, &stubGenerator{reply: "ok"})

	conv := ctrl.LoadOrCreate("does-not-exist")
	if conv.ID != "" {
		t.Errorf("unknown id should start an unsaved conversation, got id %q", conv.ID)
	}
	if conv.MessageCount() != 0 {
		t.Errorf("fresh conversation should be empty")
	}
}

func TestRenameThenList(t *testing.T) {
	ctrl, store := newTestController(t, &stubGenerator{reply: "ok"})
	ctrl.LoadOrCreate("")

	events, _ := ctrl.SendMessage(context.Background(), "hello", nil, generate.FeatureNone)
	drain(t, events)

	before := store.List()[0].Messages
	ctrl.Rename("Project X")

	sessions := store.List()
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].Title != "Project X" {
		t.Errorf("Title = %q, want %q", sessions[0].Title, "Project X")
	}
	if len(sessions[0].Messages) != len(before) {
		t.Error("rename must not touch messages")
	}
}

func TestRenameWithoutActiveIsNoOp(t *testing.T) {
	ctrl, store := newTestController(t, &stubGenerator{reply: "ok"})
	ctrl.LoadOrCreate("")

	ctrl.Rename("nope")
	if len(store.List()) != 0 {
		t.Error("rename before first save should be a no-op")
	}
}

func TestDeleteActiveRemovesFromList(t *testing.T) {
	ctrl, store := newTestController(t, &stubGenerator{reply: "ok"})

	ctrl.LoadOrCreate("")
	events, _ := ctrl.SendMessage(context.Background(), "first conversation", nil, generate.FeatureNone)
	drain(t, events)
	aID := store.List()[0].ID

	ctrl.LoadOrCreate("")
	events, _ = ctrl.SendMessage(context.Background(), "second conversation", nil, generate.FeatureNone)
	drain(t, events)

	ctrl.LoadOrCreate(aID)
	ctrl.DeleteActive()

	sessions := store.List()
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session after delete, got %d", len(sessions))
	}
	if sessions[0].ID == aID {
		t.Error("deleted session still listed")
	}
	if ctrl.Active() != nil {
		t.Error("active conversation should be cleared after delete")
	}
}

func TestDeleteWithoutActiveIsNoOp(t *testing.T) {
	ctrl, _ := newTestController(t, &stubGenerator{reply: "ok"})
	ctrl.LoadOrCreate("")
	ctrl.DeleteActive() // must not panic or write anything
}

func TestSupersededCycleAppliesNothing(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	ctrl, store := newTestController(t, &stubGenerator{reply: "late reply", block: block, started: started})
	ctrl.LoadOrCreate("")

	events, err := ctrl.SendMessage(context.Background(), "hello", nil, generate.FeatureNone)
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	<-started
	firstID := store.List()[0].ID

	// Navigating to another conversation supersedes the in-flight cycle.
	ctrl.LoadOrCreate("")
	close(block)

	if _, done := drain(t, events); done {
		t.Error("superseded cycle must not emit a terminal event")
	}

	stored, ok := store.FindByID(firstID)
	if !ok {
		t.Fatal("first session should still exist")
	}
	if stored.MessageCount() != 1 {
		t.Errorf("superseded reply was applied: %d messages", stored.MessageCount())
	}
	if ctrl.State() != StateIdle {
		t.Error("controller should be Idle for the new conversation")
	}
}

func TestContextCancellationAbandonsCycle(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	ctrl, store := newTestController(t, &stubGenerator{reply: "late", block: block, started: started})
	ctrl.LoadOrCreate("")

	ctx, cancel := context.WithCancel(context.Background())
	events, _ := ctrl.SendMessage(ctx, "hello", nil, generate.FeatureNone)
	<-started
	cancel()

	if _, done := drain(t, events); done {
		t.Error("cancelled cycle must not emit a terminal event")
	}
	if got := store.List()[0].MessageCount(); got != 1 {
		t.Errorf("cancelled cycle appended a reply: %d messages", got)
	}
	if ctrl.State() != StateIdle {
		t.Error("controller should settle back to Idle")
	}
}

func TestRevealEmitsPartials(t *testing.T) {
	ctrl, _ := newTestController(t, &stubGenerator{reply: "one two three"})
	ctrl.LoadOrCreate("")

	events, _ := ctrl.SendMessage(context.Background(), "count", nil, generate.FeatureNone)

	var partials []string
	var final Event
	for ev := range events {
		if ev.Done {
			final = ev
			continue
		}
		partials = append(partials, ev.Partial)
	}

	if len(partials) == 0 {
		t.Fatal("expected reveal partials before the terminal event")
	}
	last := partials[len(partials)-1]
	if last != "one two three" {
		t.Errorf("last partial = %q, want full text", last)
	}
	for i := 1; i < len(partials); i++ {
		if len(partials[i]) < len(partials[i-1]) {
			t.Error("partials should be cumulative")
		}
	}
	if final.Message == nil || final.Message.Content != "one two three" {
		t.Errorf("final message = %+v", final.Message)
	}
}
