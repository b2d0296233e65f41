// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

package model

import (
	"strings"
	"testing"
)

func TestNewConversationIsUnsaved(t *testing.T) {
	conv := NewConversation()

	if conv.ID != "" {
		t.Errorf("new conversation should have no ID, got %q", conv.ID)
	}
	if conv.IsSaved() {
		t.Error("new conversation should not report saved")
	}
	if conv.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", conv.Title, DefaultTitle)
	}
	if len(conv.Messages) != 0 {
		t.Errorf("expected no messages, got %d", len(conv.Messages))
	}
}

func TestAddMessageAppendsInOrder(t *testing.T) {
	conv := NewConversation()
	conv.AddMessage(NewUserMessage("Hi", nil))
	conv.AddMessage(NewAssistantMessage("Hello there"))

	if len(conv.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(conv.Messages))
	}
	if conv.Messages[0].Role != RoleUser || conv.Messages[1].Role != RoleAssistant {
		t.Error("messages out of order")
	}
}

func TestAddMessageIgnoresEmpty(t *testing.T) {
	conv := NewConversation()
	conv.AddMessage(Message{Role: RoleUser})

	if len(conv.Messages) != 0 {
		t.Errorf("empty message should be ignored, got %d messages", len(conv.Messages))
	}

	// Attachment-only messages do carry something.
	att := NewAttachment(AttachmentImage, "file:///tmp/pic.png", "pic.png")
	conv.AddMessage(NewUserMessage("", []Attachment{att}))
	if len(conv.Messages) != 1 {
		t.Errorf("attachment-only message should be kept, got %d messages", len(conv.Messages))
	}
}

func TestTitleDerivation(t *testing.T) {
	conv := NewConversation()
	conv.AddMessage(NewUserMessage("How do I connect my shop to the unified API?", nil))

	want := "How do I connect my shop to th"
	if conv.Title != want {
		t.Errorf("Title = %q, want %q", conv.Title, want)
	}
	if got := len([]rune(conv.Title)); got > TitleMaxRunes {
		t.Errorf("title length = %d runes, want <= %d", got, TitleMaxRunes)
	}
}

func TestTitleNotOverwrittenAfterRename(t *testing.T) {
	conv := NewConversation()
	conv.AddMessage(NewUserMessage("first question", nil))
	conv.Rename("Project X")
	conv.AddMessage(NewAssistantMessage("answer"))

	if conv.Title != "Project X" {
		t.Errorf("Title = %q, want %q", conv.Title, "Project X")
	}
}

func TestDeriveTitleMultiline(t *testing.T) {
	msgs := []Message{NewUserMessage("line one\nline two", nil)}
	if got := DeriveTitle(msgs); strings.Contains(got, "\n") {
		t.Errorf("title should be single-line, got %q", got)
	}
}

func TestDeriveTitleEmpty(t *testing.T) {
	if got := DeriveTitle(nil); got != DefaultTitle {
		t.Errorf("DeriveTitle(nil) = %q, want %q", got, DefaultTitle)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	conv := NewConversation()
	conv.AddMessage(NewUserMessage("Hi", nil))

	clone := conv.Clone()
	clone.AddMessage(NewAssistantMessage("Hello there"))

	if len(conv.Messages) != 1 {
		t.Errorf("mutating the clone changed the original: %d messages", len(conv.Messages))
	}
	if len(clone.Messages) != 2 {
		t.Errorf("clone should have 2 messages, got %d", len(clone.Messages))
	}
}

func TestMessageIDsUnique(t *testing.T) {
	a := NewUserMessage("a", nil)
	b := NewUserMessage("b", nil)
	if a.ID == b.ID {
		t.Error("message IDs should be unique")
	}
	if a.ID == "" {
		t.Error("message ID should be assigned at creation")
	}
}

func TestRoleDisplayName(t *testing.T) {
	if RoleUser.DisplayName() != "You" {
		t.Errorf("RoleUser.DisplayName() = %q", RoleUser.DisplayName())
	}
	if RoleAssistant.DisplayName() != "Assistant" {
		t.Errorf("RoleAssistant.DisplayName() = %q", RoleAssistant.DisplayName())
	}
}
