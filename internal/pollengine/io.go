// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pollengine orchestrates pollcore's command surface: each
// exported function here implements one of spec.md §6's commands,
// wiring together pollstate, pollconfig, schedule, ballots, summands,
// planes, roster, merkle, audit, and bulletin, one file per command.
package pollengine

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/scantegrity/pollcore/internal/pollconfig"
	"github.com/scantegrity/pollcore/internal/pollerr"
)

// readSecuredConfig reads and parses a FILE.secure document.
func readSecuredConfig(path string) (*pollconfig.SecuredPollConfiguration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pollerr.New(pollerr.ErrExternalIoError, "read secured configuration %s: %v", path, err)
	}
	var spc pollconfig.SecuredPollConfiguration
	if err := yaml.Unmarshal(data, &spc); err != nil {
		return nil, pollerr.New(pollerr.ErrCodecError, "parse secured configuration %s: %v", path, err)
	}
	return &spc, nil
}

// writeSecuredConfig atomically persists spc to path: it writes to a
// temporary file in the same directory and renames it into place, so
// a crash mid-write never leaves a corrupt or partial configuration
// behind (spec.md §5's write-encrypted-configuration-last ordering).
func writeSecuredConfig(path string, spc *pollconfig.SecuredPollConfiguration) error {
	data, err := yaml.Marshal(spc)
	if err != nil {
		return pollerr.New(pollerr.ErrCodecError, "marshal secured configuration: %v", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return pollerr.New(pollerr.ErrExternalIoError, "write secured configuration: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return pollerr.New(pollerr.ErrExternalIoError, "commit secured configuration: %v", err)
	}
	return nil
}

// secureConfigPath derives FILE.secure from the plaintext config path
// an operator names on the command line.
func secureConfigPath(configPath string) string {
	return configPath + ".secure"
}
