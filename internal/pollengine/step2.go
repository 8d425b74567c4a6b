// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pollengine

import (
	"encoding/hex"

	"github.com/scantegrity/pollcore/internal/pollconfig"
	"github.com/scantegrity/pollcore/internal/pollerr"
)

// Step2 implements the `step2` command: it records an externally
// supplied public-beacon seed as the drawn-summands seed, from which
// every voter's ballot selection is later computed.
func Step2(configPath, seedHex string, force bool, prompt PasswordPrompter) error {
	if _, err := hex.DecodeString(seedHex); err != nil {
		return pollerr.New(pollerr.ErrCodecError, "drawn summands seed must be hex: %v", err)
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

	cfg.DrawnSummandsSeed = seedHex
	if err := cfg.PollState.Step2(force); err != nil {
		return err
	}

	sealed, err := pollconfig.SealPollConfiguration(identifier, spc.PollTrustees, cfg, pubKey, pmk)
	if err != nil {
		return err
	}
	return writeSecuredConfig(secureConfigPath(configPath), sealed)
}
