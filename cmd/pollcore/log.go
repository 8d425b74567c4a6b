// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"

	"github.com/scantegrity/pollcore/internal/pollengine"
)

// logRotator rotates the on-disk log file pollcore writes alongside
// its stderr output.
var logRotator *rotator.Rotator

// logWriter forwards log output to both stderr and the rotator.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	os.Stderr.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

var (
	backendLog = slog.NewBackend(logWriter{})
	log        = backendLog.Logger("PCOR")
	engineLog  = backendLog.Logger("PENG")
)

func init() {
	pollengine.UseLogger(engineLog)
}

// initLogRotator opens a rotating log file at path, in the manner of
// dcrd's logger.go: the working log file is rolled over at 10 MiB and
// up to three rolled-over files are kept.
func initLogRotator(path string) error {
	r, err := rotator.New(path, 10*1024, false, 3)
	if err != nil {
		return err
	}
	logRotator = r
	return nil
}

// setLogLevel parses and applies a slog level string such as "debug"
// or "info" to every subsystem logger pollcore defines.
func setLogLevel(levelStr string) {
	level, ok := slog.LevelFromString(levelStr)
	if !ok {
		return
	}
	log.SetLevel(level)
	engineLog.SetLevel(level)
}
