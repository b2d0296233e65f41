// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vorgawall/assistant-tui/internal/generate"
	"github.com/vorgawall/assistant-tui/internal/logging"
	"github.com/vorgawall/assistant-tui/internal/model"
	"github.com/vorgawall/assistant-tui/internal/storage"
)

// =============================================================================
// STATES
// =============================================================================

// State is the controller's position in the send cycle.
type State int

const (
	// StateIdle means no reply is in flight.
	StateIdle State = iota
	// StateGenerating means the user message is persisted and the external
	// generator call is outstanding.
	StateGenerating
	// StateRevealing means the full reply arrived and is being disclosed
	// incrementally; the assistant message is not yet persisted.
	StateRevealing
)

// ErrBusy is returned by SendMessage while a previous cycle is still
// generating or revealing. One cycle per conversation at a time; callers
// disable input rather than queueing.
var ErrBusy = errors.New("a reply is already in flight")

// =============================================================================
// EVENTS
// =============================================================================

// Event reports progress of one send cycle on the channel returned by
// SendMessage. Reveal progress events carry Partial; the terminal event has
// Done set, the appended assistant message, and the generation error if the
// fallback path was taken. The channel is closed after the terminal event,
// or without one when the cycle was superseded.
type Event struct {
	Partial string
	Message *model.Message
	Err     error
	Done    bool
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller orchestrates one active conversation against the session store
// and the external generator.
type Controller struct {
	mu    sync.Mutex
	store *storage.SessionStore
	gen   generate.Generator

	state  State
	active *model.Conversation

	// generation numbers each send cycle; a cycle applies its result only
	// if the number still matches, so a superseded cycle can never touch a
	// conversation it no longer owns.
	generation uint64
	cancel     context.CancelFunc
	token      *RevealToken

	revealInterval time.Duration
	now            func() time.Time
}

// Config carries controller tuning.
type Config struct {
	// RevealInterval is the word reveal cadence (default 40ms).
	RevealInterval time.Duration
}

var ctrlLog = logging.GetLogger("ConversationController")

// NewController creates an Idle controller with no active conversation.
func NewController(store *storage.SessionStore, gen generate.Generator, cfg Config) *Controller {
	interval := cfg.RevealInterval
	if interval == 0 {
		interval = DefaultRevealInterval
	}

	return &Controller{
		store:          store,
		gen:            gen,
		state:          StateIdle,
		revealInterval: interval,
		now:            time.Now,
	}
}

// =============================================================================
// SESSION LIFECYCLE
// =============================================================================

// LoadOrCreate makes the stored session with the given id active, or starts
// an empty unsaved conversation when id is empty or unknown. Any in-flight
// cycle for the previous conversation is cancelled; its result will not be
// applied.
func (c *Controller) LoadOrCreate(id string) *model.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.supersedeLocked()

	if id != "" {
		if stored, ok := c.store.FindByID(id); ok {
			c.active = stored.Clone()
			return c.active.Clone()
		}
	}

	c.active = model.NewConversation()
	return c.active.Clone()
}

// Active returns a value copy of the active conversation for rendering, or
// nil when none is loaded.
func (c *Controller) Active() *model.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return nil
	}
	return c.active.Clone()
}

// State returns the controller's current cycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close cancels any in-flight cycle. The controller stays usable.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.supersedeLocked()
}

// supersedeLocked invalidates the in-flight cycle, if any.
func (c *Controller) supersedeLocked() {
	c.generation++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.token != nil {
		c.token.Cancel()
		c.token = nil
	}
	c.state = StateIdle
}

// =============================================================================
// SEND CYCLE
// =============================================================================

// SendMessage appends the user message, persists it, and starts the
// generate-and-reveal cycle. A blank message with no attachments is a
// silent no-op returning (nil, nil). Returns ErrBusy while a cycle is in
// flight. Context cancellation abandons the cycle without appending a
// reply.
func (c *Controller) SendMessage(ctx context.Context, content string, attachments []model.Attachment, feature generate.Feature) (<-chan Event, error) {
	content = strings.TrimSpace(content)
	if content == "" && len(attachments) == 0 {
		return nil, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return nil, ErrBusy
	}

	if c.active == nil {
		c.active = model.NewConversation()
	}

	// First save assigns the id and captures CreatedAt, once.
	if c.active.ID == "" {
		c.active.ID = uuid.NewString()
	}
	if c.active.CreatedAt.IsZero() {
		c.active.CreatedAt = c.now()
	}

	c.active.AddMessage(model.NewUserMessage(content, attachments))
	c.persistLocked()

	c.state = StateGenerating
	c.generation++
	gen := c.generation

	cycleCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	// Buffered for every reveal step plus the terminal event, so a slow
	// consumer can never wedge the cycle goroutine.
	events := make(chan Event, 256)

	go c.runCycle(cycleCtx, gen, generate.Input{Message: content, Feature: feature}, events)

	return events, nil
}

// runCycle is the generation goroutine for one send.
func (c *Controller) runCycle(ctx context.Context, gen uint64, in generate.Input, events chan<- Event) {
	defer close(events)

	reply, err := c.gen.GenerateReply(ctx, in)
	if err == nil && strings.TrimSpace(reply) == "" {
		// Generators are not required to report blank output as an error;
		// a whitespace-only reply takes the fallback path regardless.
		err = generate.ErrEmptyReply
	}
	if err != nil {
		if ctx.Err() != nil {
			// Cancelled or superseded: apply nothing.
			c.settleAbandoned(gen)
			return
		}
		ctrlLog.Warn().Err(err).Msg("generation failed, appending fallback")
		c.finish(gen, model.NewAssistantMessage(generate.FallbackReply), err, events)
		return
	}

	token := NewRevealToken()
	if !c.beginReveal(gen, token) {
		return
	}

	// A context cancelled mid-reveal must tear the timer down too.
	stop := context.AfterFunc(ctx, token.Cancel)
	completed := reveal(token, reply, c.revealInterval, func(partial string) {
		select {
		case events <- Event{Partial: partial}:
		default:
		}
	})
	stop()

	if !completed {
		c.settleAbandoned(gen)
		return
	}

	c.finish(gen, model.NewAssistantMessage(reply), nil, events)
}

// beginReveal moves a still-current cycle into Revealing. Returns false if
// the cycle was superseded while generating.
func (c *Controller) beginReveal(gen uint64, token *RevealToken) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen {
		return false
	}
	c.state = StateRevealing
	c.token = token
	return true
}

// finish appends the assistant message (real reply or fallback), persists,
// and returns the controller to Idle - unless the cycle went stale, in
// which case nothing is applied.
func (c *Controller) finish(gen uint64, msg model.Message, genErr error, events chan<- Event) {
	c.mu.Lock()

	if c.generation != gen || c.active == nil {
		c.mu.Unlock()
		return
	}

	c.active.AddMessage(msg)
	c.persistLocked()
	c.state = StateIdle
	c.cancel = nil
	c.token = nil
	c.mu.Unlock()

	events <- Event{Message: &msg, Err: genErr, Done: true}
}

// settleAbandoned returns a cancelled-but-not-superseded cycle to Idle.
func (c *Controller) settleAbandoned(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen {
		return
	}
	c.state = StateIdle
	c.cancel = nil
	c.token = nil
}

// persistLocked writes the active conversation through to the store.
// Persistence failures are logged and swallowed: the in-memory conversation
// stays coherent and the next write retries the whole slot anyway.
func (c *Controller) persistLocked() {
	if err := c.store.Upsert(c.active); err != nil {
		ctrlLog.Warn().Err(err).Str("session", c.active.ID).Msg("failed to persist session")
	}
}

// =============================================================================
// RENAME / DELETE
// =============================================================================

// Rename retitles the active conversation in both the working copy and the
// store. No-op when nothing persisted is active.
func (c *Controller) Rename(title string) {
	title = strings.TrimSpace(title)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil || !c.active.IsSaved() || title == "" {
		return
	}

	c.active.Rename(title)
	c.persistLocked()
}

// DeleteActive removes the active conversation from the store and clears
// it. No-op when nothing persisted is active. The caller is expected to
// navigate away afterwards.
func (c *Controller) DeleteActive() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil || !c.active.IsSaved() {
		return
	}

	c.supersedeLocked()
	if err := c.store.Remove(c.active.ID); err != nil {
		ctrlLog.Warn().Err(err).Str("session", c.active.ID).Msg("failed to delete session")
	}
	c.active = nil
}
