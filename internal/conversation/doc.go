// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

// Package conversation drives one active chat session through the
// send -> generate -> reveal -> persist cycle.
//
// The controller is a small state machine: Idle until a message is sent,
// Generating while the external generator call is outstanding, Revealing
// while the finished reply is disclosed word by word, then back to Idle.
// The assistant message is only appended and persisted once the reveal
// completes; mid-reveal state is never stored.
//
// Exactly one cycle may be in flight. A send while not Idle is rejected
// with ErrBusy; callers gate input on State. Loading another session or
// closing the controller cancels the in-flight cycle, and a stale cycle's
// result is never applied to a conversation that is no longer active.
package conversation
