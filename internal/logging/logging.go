// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

// Package logging provides the structured file logger for the assistant
// client. A full-screen TUI owns the terminal, so logs always go to a file
// under the data directory rather than stdout.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const logFileName = "vorgawall.log"

// sink is the shared output. Loggers are handed out before Setup runs (the
// config layer itself logs), so the writer is swapped in place rather than
// rebuilding every logger.
var sink = &switchableWriter{w: io.Discard}

var root = zerolog.New(sink).With().Timestamp().Logger()

type switchableWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *switchableWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *switchableWriter) set(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w = w
}

// Setup opens the log file under dataDir and installs it as the sink for all
// loggers handed out by GetLogger, including ones created earlier. Level is
// one of "debug", "info", "warn", "error"; anything else falls back to info.
// Logging failures are swallowed: a client that cannot open its log file
// still runs, it just runs quiet.
func Setup(dataDir, level string) {
	zerolog.SetGlobalLevel(parseLevel(level))

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return
	}
	f, err := os.OpenFile(filepath.Join(dataDir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	sink.set(f)
}

// GetLogger returns a named logger. The name shows up as the "component"
// field on every event, matching the one-logger-per-subsystem convention.
func GetLogger(name string) zerolog.Logger {
	return root.With().Str("component", name).Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
