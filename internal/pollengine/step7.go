// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pollengine

import (
	"encoding/hex"

	"github.com/scantegrity/pollcore/internal/pollconfig"
	"github.com/scantegrity/pollcore/internal/pollerr"
)

// Step7 implements the `step7` command: it records the tally-audit
// seed, an independently generated public-beacon value that selects
// which of each plane's two columns (col1 or col3) gets revealed for
// every row at step8.
func Step7(configPath, seedHex string, prompt PasswordPrompter) error {
	if _, err := hex.DecodeString(seedHex); err != nil {
		return pollerr.New(pollerr.ErrCodecError, "audited columns seed must be hex: %v", err)
	}

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

	cfg.AuditedColumnsSeed = seedHex
	if err := cfg.PollState.Step7(); err != nil {
		return err
	}

	sealed, err := pollconfig.SealPollConfiguration(identifier, spc.PollTrustees, cfg, pubKey, pmk)
	if err != nil {
		return err
	}
	return writeSecuredConfig(secureConfigPath(configPath), sealed)
}
