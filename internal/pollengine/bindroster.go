// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pollengine

import (
	"bytes"
	"encoding/base64"
	"os"

	"github.com/scantegrity/pollcore/internal/pollconfig"
	"github.com/scantegrity/pollcore/internal/pollerr"
	"github.com/scantegrity/pollcore/internal/roster"
)

// BindRoster implements the `bind-roster` command: it attaches a
// voter roster CSV to the poll, storing its raw bytes so later phases
// can recompute committed and revealed forms deterministically.
func BindRoster(configPath, rosterPath string, voterPrivacy, force bool, prompt PasswordPrompter) error {
	spc, err := readSecuredConfig(secureConfigPath(configPath))
	if err != nil {
		return err
	}
	pmk, err := reconstructPMK(spc.PollTrustees, prompt)
	if err != nil {
		return err
	}
	identifier, cfg, pubKey, err := spc.Open(pmk)
	if err != nil {
		return err
	}

	rosterBytes, err := os.ReadFile(rosterPath)
	if err != nil {
		return pollerr.New(pollerr.ErrExternalIoError, "read voter roster %s: %v", rosterPath, err)
	}
	parsed, err := roster.FromCSV(bytes.NewReader(rosterBytes))
	if err != nil {
		return err
	}

	cfg.VoterRoster = base64.StdEncoding.EncodeToString(rosterBytes)
	cfg.VoterRosterSize = parsed.Len()
	cfg.VoterPrivacy = voterPrivacy

	if err := cfg.PollState.BindRoster(force); err != nil {
		return err
	}

	sealed, err := pollconfig.SealPollConfiguration(identifier, spc.PollTrustees, cfg, pubKey, pmk)
	if err != nil {
		return err
	}
	return writeSecuredConfig(secureConfigPath(configPath), sealed)
}
