// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

package model

import (
	"time"

	"github.com/vorgawall/assistant-tui/internal/util"
)

// TitleMaxRunes is how much of the first message becomes the default title.
const TitleMaxRunes = 30

// DefaultTitle is used when a conversation has no messages to derive a
// title from.
const DefaultTitle = "New Chat"

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is a titled, ordered sequence of exchanged messages. The ID
// stays empty until the conversation is first persisted; CreatedAt is
// captured at that moment and never changes afterwards. Messages are
// append-only and unbounded.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []Message `json:"messages"`
}

// NewConversation creates an empty, unsaved conversation. No ID is assigned;
// that happens on first save.
func NewConversation() *Conversation {
	return &Conversation{
		Title:    DefaultTitle,
		Messages: make([]Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message and refreshes the derived title. Messages
// carrying neither content nor attachments are ignored.
func (c *Conversation) AddMessage(msg Message) {
	if msg.IsEmpty() {
		return
	}
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.refreshTitle()
}

// LastMessage returns the most recent message and true, or false when the
// conversation is empty.
func (c *Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// MessageCount returns the number of messages in the conversation.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsSaved reports whether the conversation has been persisted at least once.
func (c *Conversation) IsSaved() bool {
	return c.ID != ""
}

// refreshTitle derives the title from the first message unless the user has
// renamed the conversation already.
func (c *Conversation) refreshTitle() {
	if c.Title != "" && c.Title != DefaultTitle {
		return
	}
	c.Title = DeriveTitle(c.Messages)
}

// Rename sets a user-chosen title. Blank titles are ignored so a
// conversation never loses its label.
func (c *Conversation) Rename(title string) {
	if title == "" {
		return
	}
	c.Title = title
	c.UpdatedAt = time.Now()
}

// DeriveTitle produces the default title for a message sequence: the first
// TitleMaxRunes characters of the first message's content, single-line, or
// DefaultTitle when there is nothing to derive from.
func DeriveTitle(messages []Message) string {
	for _, msg := range messages {
		if msg.Content == "" {
			continue
		}
		title := util.CollapseWhitespace(msg.Content)
		return util.TruncateRunesNoEllipsis(title, TitleMaxRunes)
	}
	return DefaultTitle
}

// =============================================================================
// COPY SEMANTICS
// =============================================================================

// Clone returns a value copy of the conversation with its own message slice.
// The store and the active view never share a mutable message sequence.
func (c *Conversation) Clone() *Conversation {
	clone := *c
	clone.Messages = make([]Message, len(c.Messages))
	copy(clone.Messages, c.Messages)
	for i := range clone.Messages {
		if len(c.Messages[i].Attachments) > 0 {
			clone.Messages[i].Attachments = append([]Attachment(nil), c.Messages[i].Attachments...)
		}
	}
	return &clone
}
