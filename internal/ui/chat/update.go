// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

package chat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vorgawall/assistant-tui/internal/conversation"
	"github.com/vorgawall/assistant-tui/internal/generate"
	"github.com/vorgawall/assistant-tui/internal/model"
	"github.com/vorgawall/assistant-tui/internal/storage"
)

// featureCycle is the ctrl+t rotation order.
var featureCycle = []generate.Feature{
	generate.FeatureNone,
	generate.FeatureSearch,
	generate.FeatureImage,
	generate.FeatureArticle,
}

// Update is the Bubble Tea update loop.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		if m.showHistory {
			return m.handleHistoryKey(msg)
		}
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.ctrl.State() == conversation.StateIdle {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case revealEventMsg:
		return m.handleCycleEvent(msg.event)

	case cycleClosedMsg:
		// A superseded or cancelled cycle closes without a terminal event;
		// resync from the controller either way.
		m.events = nil
		m.partial = ""
		m.conv = m.ctrl.Active()
		m.refreshViewport()
		return m, nil

	case slotChangedMsg:
		if m.showHistory {
			m.sessions.SetSessions(m.store.List())
		}
		return m, m.waitForSlotChange()

	case flashClearMsg:
		m.flash = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	m.header.SetWidth(msg.Width)
	m.welcome.SetSize(msg.Width, m.viewportHeight())
	m.sessions.SetSize(msg.Width, msg.Height)
	m.input.Width = msg.Width - 8

	if !m.ready {
		m.viewport = viewport.New(msg.Width, m.viewportHeight())
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = m.viewportHeight()
	}
	m.refreshViewport()

	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Cancel):
		if m.ctrl.State() != conversation.StateIdle {
			// Abandon the in-flight reply; the user message stays.
			m.ctrl.Close()
		}
		return m, nil

	case key.Matches(msg, m.keys.History):
		m.showHistory = true
		m.sessions.SetSessions(m.store.List())
		return m, nil

	case key.Matches(msg, m.keys.NewChat):
		m.conv = m.ctrl.LoadOrCreate("")
		m.partial = ""
		m.events = nil
		m.pendingAtts = nil
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keys.Feature):
		m.feature = nextFeature(m.feature)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+h":
		m.showHistory = false
		return m, nil

	case "up":
		m.sessions.MoveUp()
		return m, nil

	case "down":
		m.sessions.MoveDown()
		return m, nil

	case "enter":
		if cur := m.sessions.Current(); cur != nil {
			m.conv = m.ctrl.LoadOrCreate(cur.ID)
			m.partial = ""
			m.events = nil
			m.refreshViewport()
		}
		m.showHistory = false
		return m, nil

	case "d":
		if cur := m.sessions.Current(); cur != nil {
			m.ctrl.LoadOrCreate(cur.ID)
			m.ctrl.DeleteActive()
			m.conv = m.ctrl.LoadOrCreate("")
			m.sessions.SetSessions(m.store.List())
			m.refreshViewport()
		}
		return m, nil

	case "ctrl+c":
		m.Shutdown()
		return m, tea.Quit
	}

	return m, nil
}

func nextFeature(f generate.Feature) generate.Feature {
	for i, cur := range featureCycle {
		if cur == f {
			return featureCycle[(i+1)%len(featureCycle)]
		}
	}
	return generate.FeatureNone
}

// =============================================================================
// SEND PATH
// =============================================================================

func (m *Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())

	if strings.HasPrefix(text, "/") {
		return m.runSlashCommand(text)
	}

	events, err := m.ctrl.SendMessage(context.Background(), text, m.pendingAtts, m.feature)
	if err != nil {
		if errors.Is(err, conversation.ErrBusy) {
			return m.setFlash("A reply is still in flight.")
		}
		return m.setFlash(err.Error())
	}
	if events == nil {
		// Blank input with no attachments: nothing to do.
		return m, nil
	}

	m.events = events
	m.input.Reset()
	m.pendingAtts = nil
	m.conv = m.ctrl.Active()
	m.refreshViewport()

	return m, tea.Batch(waitForEvent(events), m.spin.Tick)
}

func (m *Model) handleCycleEvent(ev conversation.Event) (tea.Model, tea.Cmd) {
	// A straggler from a cycle that was already abandoned (new chat, session
	// switch) must not re-arm the wait: waiting on a nil channel blocks its
	// goroutine forever.
	if m.events == nil {
		return m, nil
	}

	if ev.Done {
		m.partial = ""
		m.conv = m.ctrl.Active()
		m.refreshViewport()
		if ev.Err != nil {
			chatLog.Warn().Err(ev.Err).Msg("reply fell back")
		}
		// Keep reading until the channel closes.
		return m, waitForEvent(m.events)
	}

	m.partial = ev.Partial
	m.refreshViewport()
	return m, waitForEvent(m.events)
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func (m *Model) runSlashCommand(text string) (tea.Model, tea.Cmd) {
	parts := strings.SplitN(text, " ", 2)
	cmd := parts[0]
	arg := ""
	if len(parts) > 1 {
		arg = strings.TrimSpace(parts[1])
	}

	switch cmd {
	case "/attach":
		return m.attach(arg)

	case "/feature":
		return m.setFeature(arg)

	case "/rename":
		if arg == "" {
			return m.setFlash("Usage: /rename <title>")
		}
		m.ctrl.Rename(arg)
		m.conv = m.ctrl.Active()
		m.input.Reset()
		return m.setFlash("Renamed.")

	case "/export":
		return m.export()
	}

	return m.setFlash("Unknown command: " + cmd)
}

func (m *Model) attach(path string) (tea.Model, tea.Cmd) {
	if path == "" {
		return m.setFlash("Usage: /attach <path>")
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return m.setFlash("Cannot attach: " + path)
	}

	kind := model.AttachmentFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		kind = model.AttachmentImage
	}

	att := model.NewAttachment(kind, "file://"+path, filepath.Base(path))
	m.pendingAtts = append(m.pendingAtts, att)
	m.input.Reset()
	return m.setFlash(fmt.Sprintf("Attached %s (%d pending)", att.DisplayName, len(m.pendingAtts)))
}

func (m *Model) setFeature(name string) (tea.Model, tea.Cmd) {
	switch generate.Feature(name) {
	case generate.FeatureNone, generate.FeatureSearch, generate.FeatureImage, generate.FeatureArticle:
		m.feature = generate.Feature(name)
		m.input.Reset()
		if name == "" {
			return m.setFlash("Feature cleared.")
		}
		return m.setFlash("Feature: " + name)
	}
	return m.setFlash("Unknown feature: " + name + " (search, image, article)")
}

func (m *Model) export() (tea.Model, tea.Cmd) {
	if m.conv == nil || !m.conv.IsSaved() {
		return m.setFlash("Nothing to export yet.")
	}

	md := storage.ExportMarkdown(m.conv)
	name := fmt.Sprintf("vorgawall-%s.md", m.conv.ID[:8])
	path := filepath.Join(m.opts.DataDir, name)
	if err := os.WriteFile(path, []byte(md), 0644); err != nil {
		return m.setFlash("Export failed: " + err.Error())
	}
	m.input.Reset()
	return m.setFlash("Exported to " + path)
}

func (m *Model) setFlash(text string) (tea.Model, tea.Cmd) {
	m.flash = text
	return m, clearFlashAfter(3 * time.Second)
}
