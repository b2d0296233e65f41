// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/vorgawall/assistant-tui/internal/model"
	"github.com/vorgawall/assistant-tui/internal/ui/styles"
)

func TestWordWrap(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"fits", "hello world", 20, "hello world"},
		{"wraps", "one two three four", 9, "one two\nthree\nfour"},
		{"preserves newlines", "a b\nc d", 10, "a b\nc d"},
		{"zero width passthrough", "anything", 0, "anything"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := wordWrap(tc.text, tc.width); got != tc.want {
				t.Errorf("wordWrap(%q, %d) = %q, want %q", tc.text, tc.width, got, tc.want)
			}
		})
	}
}

func TestMaxLineWidth(t *testing.T) {
	if got := maxLineWidth("ab\nabcd\na"); got != 4 {
		t.Errorf("maxLineWidth = %d, want 4", got)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()
	cases := []struct {
		t    time.Time
		want string
	}{
		{time.Time{}, ""},
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-48 * time.Hour), "2d ago"},
	}
	for _, tc := range cases {
		if got := RelativeTime(tc.t); got != tc.want {
			t.Errorf("RelativeTime(%v) = %q, want %q", tc.t, got, tc.want)
		}
	}
}

func TestParseCodeBlocksPassesProseThrough(t *testing.T) {
	text := "before\nafter"
	if got := ParseCodeBlocks(text, 80); got != text {
		t.Errorf("prose should pass through unchanged, got %q", got)
	}
}

func TestParseCodeBlocksRendersFence(t *testing.T) {
	text := "intro\n```go\nfmt.Println(1)\n```\noutro"
	got := ParseCodeBlocks(text, 80)

	if !strings.Contains(got, "intro") || !strings.Contains(got, "outro") {
		t.Error("prose around the fence was lost")
	}
	if strings.Contains(got, "```") {
		t.Error("fence markers should be consumed")
	}
	if !strings.Contains(got, "Println") {
		t.Error("code content was lost")
	}
}

func TestParseCodeBlocksUnclosedFence(t *testing.T) {
	text := "prose\n```python\nprint(1)"
	got := ParseCodeBlocks(text, 80)
	if !strings.Contains(got, "print") {
		t.Error("unclosed fence content should still render")
	}
}

func TestMessageBubbleRendersContent(t *testing.T) {
	theme := styles.NewTheme()

	user := model.NewUserMessage("hello shop", nil)
	ub := NewMessageBubble(&user, theme)
	ub.SetWidth(60)
	if out := ub.View(); !strings.Contains(out, "hello shop") {
		t.Error("user bubble lost its content")
	}

	asst := model.NewAssistantMessage("welcome aboard")
	ab := NewMessageBubble(&asst, theme)
	ab.SetWidth(60)
	if out := ab.View(); !strings.Contains(out, "welcome aboard") {
		t.Error("assistant bubble lost its content")
	}
}

func TestMessageBubbleShowsAttachmentChips(t *testing.T) {
	theme := styles.NewTheme()

	att := model.NewAttachment(model.AttachmentImage, "file:///tmp/logo.png", "logo.png")
	msg := model.NewUserMessage("", []model.Attachment{att})
	b := NewMessageBubble(&msg, theme)
	b.SetWidth(60)

	out := b.View()
	if !strings.Contains(out, "logo.png") {
		t.Error("attachment name missing from bubble")
	}
	if !strings.Contains(out, "[img]") {
		t.Error("attachment kind marker missing")
	}
}

func TestMessageBubbleNilMessage(t *testing.T) {
	theme := styles.NewTheme()
	b := NewMessageBubble(nil, theme)
	// Must not panic.
	_ = b.View()
}

func TestSessionListSelection(t *testing.T) {
	theme := styles.NewTheme()
	l := NewSessionList(theme)

	l.SetSessions([]*model.Conversation{
		{ID: "a", Title: "First"},
		{ID: "b", Title: "Second"},
		{ID: "c", Title: "Third"},
	})

	if cur := l.Current(); cur == nil || cur.ID != "a" {
		t.Fatalf("initial selection = %+v", cur)
	}

	l.MoveDown()
	l.MoveDown()
	l.MoveDown() // clamped at the end
	if cur := l.Current(); cur.ID != "c" {
		t.Errorf("after MoveDown x3: %q", cur.ID)
	}

	l.MoveUp()
	if cur := l.Current(); cur.ID != "b" {
		t.Errorf("after MoveUp: %q", cur.ID)
	}

	// Shrinking the list clamps the selection.
	l.SetSessions([]*model.Conversation{{ID: "a", Title: "First"}})
	if cur := l.Current(); cur == nil || cur.ID != "a" {
		t.Errorf("selection not clamped after shrink: %+v", cur)
	}
}

func TestSessionListEmpty(t *testing.T) {
	theme := styles.NewTheme()
	l := NewSessionList(theme)
	l.SetSessions(nil)

	if l.Current() != nil {
		t.Error("Current on empty list should be nil")
	}
	if out := l.View(); !strings.Contains(out, "No saved conversations") {
		t.Error("empty state text missing")
	}
}

func TestWelcomeRenders(t *testing.T) {
	theme := styles.NewTheme()
	w := NewWelcome(theme)
	w.SetSize(100, 30)

	out := w.View()
	if !strings.Contains(out, "Vorgawall Assistant") {
		t.Error("welcome screen missing branding")
	}
	if !strings.Contains(out, "pricing") {
		t.Error("welcome screen missing suggestions")
	}
}

func TestHeaderSubtitleTruncated(t *testing.T) {
	theme := styles.NewTheme()
	h := NewHeader(theme)
	h.SetWidth(100)
	h.SetSubtitle(strings.Repeat("x", 120))

	out := h.View()
	if strings.Contains(out, strings.Repeat("x", 120)) {
		t.Error("subtitle should be truncated")
	}
	if !strings.Contains(out, "Vorgawall Assistant") {
		t.Error("header missing title")
	}
}
