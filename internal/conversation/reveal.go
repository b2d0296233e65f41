// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

package conversation

import (
	"strings"
	"sync"
	"time"
)

// DefaultRevealInterval is the cadence of the word-by-word reveal. A
// presentation knob, not a correctness constraint.
const DefaultRevealInterval = 40 * time.Millisecond

// =============================================================================
// CANCELLATION TOKEN
// =============================================================================

// RevealToken tears down an in-progress reveal. Cancel is safe to call from
// any goroutine and more than once.
type RevealToken struct {
	once sync.Once
	done chan struct{}
}

// NewRevealToken creates an un-cancelled token.
func NewRevealToken() *RevealToken {
	return &RevealToken{done: make(chan struct{})}
}

// Cancel stops the reveal the token was handed to.
func (t *RevealToken) Cancel() {
	t.once.Do(func() { close(t.done) })
}

// Cancelled reports whether Cancel has been called.
func (t *RevealToken) Cancelled() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// =============================================================================
// WORD REVEAL
// =============================================================================

// reveal discloses text word by word at the given cadence, calling emit with
// the cumulative partial string after each step. Splitting is on single
// spaces only, so newlines and Markdown structure survive inside the
// tokens. Returns false if the token was cancelled before the last word.
func reveal(token *RevealToken, text string, interval time.Duration, emit func(partial string)) bool {
	words := strings.Split(text, " ")

	if interval <= 0 {
		interval = time.Microsecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var sb strings.Builder
	for i, word := range words {
		// Checked ahead of the tick so cancellation wins when both are ready.
		if token.Cancelled() {
			return false
		}
		select {
		case <-token.done:
			return false
		case <-ticker.C:
		}

		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(word)
		emit(sb.String())
	}
	return true
}
