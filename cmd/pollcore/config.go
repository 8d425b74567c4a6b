// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"
)

const (
	defaultConfigFilename = "pollcore.conf"
	defaultLogFilename    = "pollcore.log"
	defaultDebugLevel     = "info"
)

var (
	defaultHomeDir    = filepath.Join(appDataDir(), "pollcore")
	defaultConfigFile = filepath.Join(defaultHomeDir, defaultConfigFilename)
	defaultLogFile    = filepath.Join(defaultHomeDir, "logs", defaultLogFilename)
)

// config holds every flag and option shared across pollcore's
// subcommands, in go-flags' struct-tag style. Only the command line is
// parsed; the file named by ConfigFile is not read.
type config struct {
	ConfigFile  string `short:"C" long:"configfile" description:"Path to configuration file"`
	PollFile    string `short:"f" long:"pollfile" description:"Path to the plaintext poll configuration (FILE, not FILE.secure)" required:"true"`
	LogDir      string `long:"logdir" description:"Directory to log output"`
	DebugLevel  string `long:"debuglevel" description:"Logging level: trace, debug, info, warn, error, critical"`
	Force       bool   `long:"force" description:"Allow a command to re-run an already-completed transition"`
	AllowDevKDF bool   `long:"allow-dev-kdf" description:"Seal trustee shares with the fast development scrypt parameters instead of the production ones (new only)"`
}

// appDataDir returns the default application data directory:
// $XDG_DATA_HOME when set, otherwise ~/.pollcore.
func appDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".pollcore")
}

// loadConfig parses command-line flags, with defaults rooted at
// defaultHomeDir. A -C/--configfile value is stored but no file is
// loaded from it.
func loadConfig() (*config, []string, error) {
	cfg := config{
		ConfigFile: defaultConfigFile,
		LogDir:     filepath.Dir(defaultLogFile),
		DebugLevel: defaultDebugLevel,
	}
	parser := flags.NewParser(&cfg, flags.Default)
	remaining, err := parser.Parse()
	if err != nil {
		return nil, nil, err
	}
	return &cfg, remaining, nil
}
