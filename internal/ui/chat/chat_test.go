// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

package chat

import (
	"testing"

	"github.com/vorgawall/assistant-tui/internal/conversation"
	"github.com/vorgawall/assistant-tui/internal/generate"
)

func TestNextFeatureCycles(t *testing.T) {
	order := []generate.Feature{
		generate.FeatureNone,
		generate.FeatureSearch,
		generate.FeatureImage,
		generate.FeatureArticle,
		generate.FeatureNone,
	}
	f := generate.FeatureNone
	for i := 1; i < len(order); i++ {
		f = nextFeature(f)
		if f != order[i] {
			t.Fatalf("step %d: feature = %q, want %q", i, f, order[i])
		}
	}
}

func TestNextFeatureUnknownResets(t *testing.T) {
	if got := nextFeature(generate.Feature("bogus")); got != generate.FeatureNone {
		t.Errorf("unknown feature should reset to none, got %q", got)
	}
}

// A reveal event can still be in flight after new-chat or a session switch
// dropped the channel reference. Handling it must not schedule another wait:
// that command would block on a nil channel forever.
func TestStaleCycleEventDoesNotRearmWait(t *testing.T) {
	m := &Model{}

	_, cmd := m.handleCycleEvent(conversation.Event{Partial: "left over"})
	if cmd != nil {
		t.Error("stale partial event scheduled another wait")
	}

	_, cmd = m.handleCycleEvent(conversation.Event{Done: true})
	if cmd != nil {
		t.Error("stale terminal event scheduled another wait")
	}
}

func TestWaitForEventBridgesAndCloses(t *testing.T) {
	ch := make(chan conversation.Event, 2)
	ch <- conversation.Event{Partial: "hello"}
	close(ch)

	msg := waitForEvent(ch)()
	ev, ok := msg.(revealEventMsg)
	if !ok {
		t.Fatalf("first msg = %T, want revealEventMsg", msg)
	}
	if ev.event.Partial != "hello" {
		t.Errorf("Partial = %q", ev.event.Partial)
	}

	msg = waitForEvent(ch)()
	if _, ok := msg.(cycleClosedMsg); !ok {
		t.Errorf("closed channel should produce cycleClosedMsg, got %T", msg)
	}
}
