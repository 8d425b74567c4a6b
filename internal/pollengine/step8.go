// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pollengine

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/scantegrity/pollcore/internal/ballots"
	"github.com/scantegrity/pollcore/internal/corecrypto/csprng"
	"github.com/scantegrity/pollcore/internal/planes"
	"github.com/scantegrity/pollcore/internal/pollconfig"
	"github.com/scantegrity/pollcore/internal/pollerr"
	"github.com/scantegrity/pollcore/internal/roster"
	"github.com/scantegrity/pollcore/internal/schedule"
	"github.com/scantegrity/pollcore/internal/summands"
)

// Step8 implements the `step8` command: the tally audit's closing
// disclosure. For every plane it reveals exactly one of column 1 or
// column 3 across all rows, chosen by the recorded audited-columns
// seed (the rows of audited serials have both columns revealed, as at
// step4), and it publishes the voter roster and both summand tables in
// the clear so the whole poll can be independently reconstructed and
// checked against the root committed at step1.
func Step8(configPath, planesKeysDir, rosterRevealPath, summandsRevealDir string, force bool, prompt PasswordPrompter) error {
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

	seedBytes, err := hex.DecodeString(cfg.AuditedColumnsSeed)
	if err != nil {
		return pollerr.New(pollerr.ErrCodecError, "decode audited columns seed: %v", err)
	}
	secrets := schedule.Derive(pmk)

	auditedSerials := make([]ballots.Serial, len(cfg.AuditedBallots))
	for i, s := range cfg.AuditedBallots {
		serial, err := strconv.Atoi(s)
		if err != nil {
			return pollerr.New(pollerr.ErrCodecError, "parse audited serial %q: %v", s, err)
		}
		auditedSerials[i] = serial
	}

	if err := os.MkdirAll(planesKeysDir, 0o755); err != nil {
		return pollerr.New(pollerr.ErrExternalIoError, "create tally key files directory: %v", err)
	}
	columnRng := csprng.New(csprng.SeedFromBytes(seedBytes))
	for i := 0; i < schedule.NumberOfPlanes; i++ {
		col := int(columnRng.GenRange(2))
		resolved := secrets.PlaneSecrets[i].Resolve(2 * cfg.NumBallots)
		filter := planes.NewPlaneFilter(2 * cfg.NumBallots)
		filter.DecryptSerials(auditedSerials)
		filter.DecryptColumn(col)
		permutedFilter, err := filter.Resolve(resolved.Permutation, resolved)
		if err != nil {
			return err
		}
		keyPath := filepath.Join(planesKeysDir, fmt.Sprintf("plane-%02d-tally-keys.csv", i))
		f, err := os.Create(keyPath)
		if err != nil {
			return pollerr.New(pollerr.ErrExternalIoError, "create tally key file %s: %v", keyPath, err)
		}
		err = permutedFilter.WriteCSV(f)
		f.Close()
		if err != nil {
			return err
		}
	}

	rosterBytes, err := base64.StdEncoding.DecodeString(cfg.VoterRoster)
	if err != nil {
		return pollerr.New(pollerr.ErrCodecError, "decode stored voter roster: %v", err)
	}
	parsedRoster, err := roster.FromCSV(bytes.NewReader(rosterBytes))
	if err != nil {
		return err
	}
	plaintext := parsedRoster.Commit(false, nil)
	rosterFile, err := os.Create(rosterRevealPath)
	if err != nil {
		return pollerr.New(pollerr.ErrExternalIoError, "create roster reveal file: %v", err)
	}
	err = writeRosterReveal(rosterFile, plaintext, secrets.RosterSalt[:])
	rosterFile.Close()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(summandsRevealDir, 0o755); err != nil {
		return pollerr.New(pollerr.ErrExternalIoError, "create summands reveal directory: %v", err)
	}
	drawnSeedBytes, err := hex.DecodeString(cfg.DrawnSummandsSeed)
	if err != nil {
		return pollerr.New(pollerr.ErrCodecError, "decode drawn summands seed: %v", err)
	}
	committedTable := summands.GenerateCommitted(secrets.SummandsRoot, cfg.NumBallots, cfg.VoterRosterSize)
	drawnTable := summands.GenerateDrawn(csprng.SeedFromBytes(drawnSeedBytes), cfg.NumBallots, cfg.VoterRosterSize)
	if err := writeSummandsTable(filepath.Join(summandsRevealDir, "committed-summands.csv"), committedTable); err != nil {
		return err
	}
	if err := writeSummandsTable(filepath.Join(summandsRevealDir, "drawn-summands.csv"), drawnTable); err != nil {
		return err
	}

	if err := cfg.PollState.Step8(force); err != nil {
		return err
	}

	sealed, err := pollconfig.SealPollConfiguration(identifier, spc.PollTrustees, cfg, pubKey, pmk)
	if err != nil {
		return err
	}
	return writeSecuredConfig(secureConfigPath(configPath), sealed)
}

func writeRosterReveal(f *os.File, records []roster.CommittedRecord, salt []byte) error {
	w := csv.NewWriter(f)
	if err := w.Write([]string{"salt", base64.StdEncoding.EncodeToString(salt)}); err != nil {
		return pollerr.New(pollerr.ErrExternalIoError, "write roster reveal salt: %v", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return pollerr.New(pollerr.ErrExternalIoError, "flush roster reveal salt: %v", err)
	}
	return roster.WriteCSV(f, records)
}

func writeSummandsTable(path string, table summands.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return pollerr.New(pollerr.ErrExternalIoError, "create summands table file %s: %v", path, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	for _, rec := range table {
		if err := w.Write([]string{strconv.Itoa(rec.Position), strconv.Itoa(rec.Summand)}); err != nil {
			return pollerr.New(pollerr.ErrExternalIoError, "write summands row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return pollerr.New(pollerr.ErrExternalIoError, "flush summands table: %v", err)
	}
	return nil
}
