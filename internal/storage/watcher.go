// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

package storage

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vorgawall/assistant-tui/internal/logging"
)

// =============================================================================
// SLOT WATCHER
// =============================================================================

// SlotWatcher notifies when the session slot file changes underneath a
// running client, e.g. when a second process saves a chat. It is strictly
// read-side: watchers refresh their view of the slot, they do not coordinate
// writers. The slot is rewritten via rename, so Create events matter as much
// as Write events.
type SlotWatcher struct {
	store    *SessionStore
	watcher  *fsnotify.Watcher
	onChange func()
	debounce time.Duration

	mu      sync.Mutex
	pending bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewSlotWatcher creates a watcher for the store's slot file. onChange is
// called from the watcher goroutine after changes settle for the debounce
// interval; callers marshal it onto their own event loop.
func NewSlotWatcher(store *SessionStore, debounce time.Duration, onChange func()) (*SlotWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &SlotWatcher{
		store:    store,
		watcher:  watcher,
		onChange: onChange,
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts watching. The parent directory is watched rather than the
// slot file itself because atomic rename replaces the file's inode.
func (w *SlotWatcher) Watch() error {
	dir := filepath.Dir(w.store.SlotPath())
	if err := w.watcher.Add(dir); err != nil {
		return err
	}

	go w.processEvents()
	go w.processPending()

	return nil
}

// Close stops watching and releases resources.
func (w *SlotWatcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

func (w *SlotWatcher) processEvents() {
	slotPath := w.store.SlotPath()
	log := logging.GetLogger("SlotWatcher")

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != slotPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.mu.Lock()
				w.pending = true
				w.mu.Unlock()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("slot watcher error")
		}
	}
}

// processPending collapses bursts of events (temp file create + rename) into
// a single notification per debounce window.
func (w *SlotWatcher) processPending() {
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			w.mu.Lock()
			fire := w.pending
			w.pending = false
			w.mu.Unlock()

			if fire && w.onChange != nil {
				w.onChange()
			}
		}
	}
}
