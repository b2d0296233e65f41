// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

// Package storage persists the session collection in a single JSON slot
// file under the data directory. The whole collection is read and written
// as one unit; writes are atomic (temp file + rename) and a corrupt slot
// degrades to an empty collection instead of an error. A SlotWatcher can
// report external changes to the slot file so other processes' writes
// show up live.
package storage
