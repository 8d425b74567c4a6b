// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pollengine

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/scantegrity/pollcore/internal/ballots"
	"github.com/scantegrity/pollcore/internal/planes"
	"github.com/scantegrity/pollcore/internal/pollconfig"
	"github.com/scantegrity/pollcore/internal/pollerr"
	"github.com/scantegrity/pollcore/internal/schedule"
)

// Step4 implements the `step4` command: the print audit ceremony. It
// records the serials an auditor selected to spoil, and for every
// plane emits a key file revealing the col1/col3 AEAD keys for those
// serials' rows, so anyone can confirm the printed vote codes match
// what the schedule committed to. Audited serials are never voted: the
// audit tally excludes them regardless of any vote code later
// submitted against them.
func Step4(configPath string, auditedSerials []ballots.Serial, keyFilesDir string, force bool, prompt PasswordPrompter) error {
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

	secrets := schedule.Derive(pmk)

	if err := os.MkdirAll(keyFilesDir, 0o755); err != nil {
		return pollerr.New(pollerr.ErrExternalIoError, "create key files directory: %v", err)
	}

	for i := 0; i < schedule.NumberOfPlanes; i++ {
		resolved := secrets.PlaneSecrets[i].Resolve(2 * cfg.NumBallots)
		filter := planes.NewPlaneFilter(2 * cfg.NumBallots)
		filter.DecryptSerials(auditedSerials)
		permutedFilter, err := filter.Resolve(resolved.Permutation, resolved)
		if err != nil {
			return err
		}
		keyPath := filepath.Join(keyFilesDir, fmt.Sprintf("plane-%02d-keys.csv", i))
		f, err := os.Create(keyPath)
		if err != nil {
			return pollerr.New(pollerr.ErrExternalIoError, "create key file %s: %v", keyPath, err)
		}
		err = permutedFilter.WriteCSV(f)
		f.Close()
		if err != nil {
			return err
		}
	}

	cfg.AuditedBallots = make([]string, len(auditedSerials))
	for i, s := range auditedSerials {
		cfg.AuditedBallots[i] = strconv.Itoa(s)
	}

	if err := cfg.PollState.Step4(force); err != nil {
		return err
	}

	sealed, err := pollconfig.SealPollConfiguration(identifier, spc.PollTrustees, cfg, pubKey, pmk)
	if err != nil {
		return err
	}
	return writeSecuredConfig(secureConfigPath(configPath), sealed)
}
