// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vorgawall/assistant-tui/internal/logging"
	"github.com/vorgawall/assistant-tui/internal/model"
	"github.com/vorgawall/assistant-tui/internal/util"
)

// SlotName is the storage slot shared by every component that reads or
// writes chat history. The active chat view and the history browser must
// agree on it, so it is a single constant.
const SlotName = "vorgawall_chats"

// =============================================================================
// SESSION STORE
// =============================================================================

// SessionStore owns the persisted conversation collection. All operations
// are synchronous full read-modify-write cycles against the slot file;
// concurrent processes writing the same slot are not coordinated.
type SessionStore struct {
	mu      sync.Mutex
	dataDir string
}

// ErrNoSessionID is returned when a conversation without an id is handed to
// Upsert. Ids are assigned by the caller before the first save.
var ErrNoSessionID = errors.New("conversation has no session id")

var storeLog = logging.GetLogger("SessionStore")

// NewSessionStore creates a store rooted at dataDir. The directory is
// created lazily on first write.
func NewSessionStore(dataDir string) *SessionStore {
	return &SessionStore{dataDir: dataDir}
}

// SlotPath returns the path of the slot file.
func (s *SessionStore) SlotPath() string {
	return filepath.Join(s.dataDir, SlotName+".json")
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// List returns all sessions, most-recently-touched first. An absent or
// unparsable slot reads as an empty collection; List never fails.
func (s *SessionStore) List() []*model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readSlot()
}

// FindByID returns the session with the given id, or false when absent.
func (s *SessionStore) FindByID(id string) (*model.Conversation, bool) {
	if id == "" {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, conv := range s.readSlot() {
		if conv.ID == id {
			return conv, true
		}
	}
	return nil, false
}

// Search returns sessions whose title or message content contains the query
// (case-insensitive). An empty query returns everything.
func (s *SessionStore) Search(query string) []*model.Conversation {
	all := s.List()
	if query == "" {
		return all
	}

	query = strings.ToLower(query)
	var results []*model.Conversation
	for _, conv := range all {
		if strings.Contains(strings.ToLower(conv.Title), query) {
			results = append(results, conv)
			continue
		}
		for _, msg := range conv.Messages {
			if strings.Contains(strings.ToLower(msg.Content), query) {
				results = append(results, conv)
				break
			}
		}
	}
	return results
}

// =============================================================================
// WRITE OPERATIONS
// =============================================================================

// Upsert inserts or replaces the session with the same id and moves it to
// the front of the collection, reflecting most-recent-first ordering. The
// conversation must already carry an id.
func (s *SessionStore) Upsert(conv *model.Conversation) error {
	if conv == nil || conv.ID == "" {
		return ErrNoSessionID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.readSlot()
	updated := make([]*model.Conversation, 0, len(sessions)+1)
	updated = append(updated, conv.Clone())
	for _, existing := range sessions {
		if existing.ID != conv.ID {
			updated = append(updated, existing)
		}
	}

	return s.writeSlot(updated)
}

// Remove deletes the session with the given id. Removing an absent id is a
// no-op, not an error.
func (s *SessionStore) Remove(id string) error {
	if id == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.readSlot()
	kept := sessions[:0]
	found := false
	for _, conv := range sessions {
		if conv.ID == id {
			found = true
			continue
		}
		kept = append(kept, conv)
	}
	if !found {
		return nil
	}

	return s.writeSlot(kept)
}

// Clear empties the entire collection.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeSlot(nil)
}

// =============================================================================
// SLOT I/O
// =============================================================================

// readSlot loads the whole collection. Corruption degrades to empty: the
// UI must keep working even if the slot file was damaged by hand-editing
// or a torn write from another process.
func (s *SessionStore) readSlot() []*model.Conversation {
	data, err := os.ReadFile(s.SlotPath())
	if err != nil {
		if !os.IsNotExist(err) {
			storeLog.Warn().Err(err).Msg("failed to read session slot, treating as empty")
		}
		return []*model.Conversation{}
	}

	var sessions []*model.Conversation
	if err := json.Unmarshal(data, &sessions); err != nil {
		storeLog.Warn().Err(err).Msg("session slot is corrupt, treating as empty")
		return []*model.Conversation{}
	}

	// Drop null entries a damaged slot might contain.
	kept := sessions[:0]
	for _, conv := range sessions {
		if conv != nil {
			kept = append(kept, conv)
		}
	}
	return kept
}

// writeSlot serializes and atomically replaces the whole collection.
func (s *SessionStore) writeSlot(sessions []*model.Conversation) error {
	if sessions == nil {
		sessions = []*model.Conversation{}
	}

	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return err
	}

	return util.AtomicWriteFile(s.SlotPath(), data, 0644)
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportMarkdown renders a conversation as a Markdown document with session
// metadata and role-labelled messages.
func ExportMarkdown(conv *model.Conversation) string {
	var sb strings.Builder
	sb.WriteString("# " + conv.Title + "\n\n")
	if !conv.CreatedAt.IsZero() {
		sb.WriteString("Created: " + conv.CreatedAt.Format(time.RFC3339) + "\n\n")
	}
	sb.WriteString("---\n\n")

	for _, msg := range conv.Messages {
		sb.WriteString("**" + msg.Role.DisplayName() + "**")
		if !msg.Timestamp.IsZero() {
			sb.WriteString(" (" + msg.Timestamp.Format("15:04") + ")")
		}
		sb.WriteString(":\n\n")
		sb.WriteString(msg.Content)
		for _, att := range msg.Attachments {
			sb.WriteString("\n\n> attachment: " + att.DisplayName + " (" + string(att.Kind) + ")")
		}
		sb.WriteString("\n\n---\n\n")
	}

	return sb.String()
}
