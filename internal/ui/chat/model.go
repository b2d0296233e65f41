// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vorgawall/assistant-tui/internal/conversation"
	"github.com/vorgawall/assistant-tui/internal/generate"
	"github.com/vorgawall/assistant-tui/internal/logging"
	"github.com/vorgawall/assistant-tui/internal/model"
	"github.com/vorgawall/assistant-tui/internal/storage"
	"github.com/vorgawall/assistant-tui/internal/ui/components"
	"github.com/vorgawall/assistant-tui/internal/ui/styles"
)

var chatLog = logging.GetLogger("ChatUI")

// =============================================================================
// MESSAGES
// =============================================================================

// revealEventMsg carries one controller event into the update loop.
type revealEventMsg struct {
	event conversation.Event
}

// cycleClosedMsg signals that the controller closed the event channel.
type cycleClosedMsg struct{}

// slotChangedMsg signals an external change to the session slot file.
type slotChangedMsg struct{}

// flashClearMsg clears a transient status message.
type flashClearMsg struct{}

// =============================================================================
// MODEL
// =============================================================================

// Options configures the chat model.
type Options struct {
	// DataDir is where /export writes Markdown files.
	DataDir string
}

// Model is the Bubble Tea model for the chat view.
type Model struct {
	ctrl  *conversation.Controller
	store *storage.SessionStore
	theme *styles.Theme
	keys  KeyMap
	opts  Options

	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model

	header   *components.Header
	welcome  *components.Welcome
	sessions *components.SessionList

	// conv is the render copy of the active conversation.
	conv *model.Conversation
	// partial holds the in-flight reveal text, "" when idle.
	partial string
	events  <-chan conversation.Event

	feature     generate.Feature
	pendingAtts []model.Attachment

	showHistory bool
	watcher     *storage.SlotWatcher
	slotChanged chan struct{}

	flash string

	width  int
	height int
	ready  bool
}

// New creates the chat model around an existing controller and store.
func New(ctrl *conversation.Controller, store *storage.SessionStore, theme *styles.Theme, opts Options) *Model {
	input := textinput.New()
	input.Placeholder = "Ask the Vorgawall Assistant..."
	input.CharLimit = 4000
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.MiniDot
	spin.Style = theme.Spinner

	m := &Model{
		ctrl:        ctrl,
		store:       store,
		theme:       theme,
		keys:        DefaultKeyMap(),
		opts:        opts,
		input:       input,
		spin:        spin,
		header:      components.NewHeader(theme),
		welcome:     components.NewWelcome(theme),
		sessions:    components.NewSessionList(theme),
		conv:        ctrl.LoadOrCreate(""),
		slotChanged: make(chan struct{}, 1),
	}

	watcher, err := storage.NewSlotWatcher(store, 250*time.Millisecond, m.notifySlotChange)
	if err != nil {
		chatLog.Warn().Err(err).Msg("slot watcher unavailable, history will not live-refresh")
	} else {
		m.watcher = watcher
	}

	return m
}

// notifySlotChange runs on the watcher goroutine; it nudges the update
// loop without blocking.
func (m *Model) notifySlotChange() {
	select {
	case m.slotChanged <- struct{}{}:
	default:
	}
}

// Init starts the cursor blink, the spinner, and the slot watcher.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spin.Tick}

	if m.watcher != nil {
		if err := m.watcher.Watch(); err != nil {
			chatLog.Warn().Err(err).Msg("slot watcher failed to start")
		} else {
			cmds = append(cmds, m.waitForSlotChange())
		}
	}

	return tea.Batch(cmds...)
}

// Shutdown releases the watcher and cancels any in-flight cycle.
func (m *Model) Shutdown() {
	if m.watcher != nil {
		m.watcher.Close()
	}
	m.ctrl.Close()
}

// =============================================================================
// COMMANDS
// =============================================================================

// waitForEvent bridges one controller event into the update loop.
func waitForEvent(ch <-chan conversation.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return cycleClosedMsg{}
		}
		return revealEventMsg{event: ev}
	}
}

func (m *Model) waitForSlotChange() tea.Cmd {
	return func() tea.Msg {
		<-m.slotChanged
		return slotChangedMsg{}
	}
}

func clearFlashAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return flashClearMsg{}
	})
}
