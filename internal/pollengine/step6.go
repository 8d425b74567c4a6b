// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pollengine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/scantegrity/pollcore/internal/ballots"
	"github.com/scantegrity/pollcore/internal/planes"
	"github.com/scantegrity/pollcore/internal/pollconfig"
	"github.com/scantegrity/pollcore/internal/pollerr"
	"github.com/scantegrity/pollcore/internal/schedule"
)

// Step6 implements the `step6` command: it records the vote codes
// submitted over the poll's life and rewrites every published plane's
// column 2 to mark each row Voted or Not Voted. Codes that fail their
// parity check are recorded but excluded from the voted set, per
// spec.md §7: a malformed code is discarded, not treated as an error.
func Step6(configPath, planesDir string, votes []ballots.VoteCode, force bool, prompt PasswordPrompter) error {
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
	db, err := deriveBallots(secrets, cfg.NumBallots, cfg.NumDecoys)
	if err != nil {
		return err
	}

	votedCodes := make(map[ballots.VoteCode]struct{}, len(votes))
	for _, vc := range votes {
		if !vc.ValidParity() {
			continue
		}
		votedCodes[vc] = struct{}{}
	}

	ballotsByRow := make(map[int]ballots.VoteCode, 2*len(db.Ballots))
	for _, b := range db.Ballots {
		ballotsByRow[2*b.Serial] = b.ForCode.VoteCode
		ballotsByRow[2*b.Serial+1] = b.Against.VoteCode
	}

	for i := 0; i < schedule.NumberOfPlanes; i++ {
		resolved := secrets.PlaneSecrets[i].Resolve(2 * cfg.NumBallots)
		plane, err := planes.Build(db.Ballots, db.Decoys, cfg.NumBallots, resolved)
		if err != nil {
			return err
		}
		plane.MarkVotes(ballotsByRow, votedCodes)
		permuted, err := plane.Permute(resolved.Permutation)
		if err != nil {
			return err
		}
		planePath := filepath.Join(planesDir, fmt.Sprintf("plane-%02d.csv", i))
		f, err := os.Create(planePath)
		if err != nil {
			return pollerr.New(pollerr.ErrExternalIoError, "create plane file %s: %v", planePath, err)
		}
		err = permuted.WriteCSV(f)
		f.Close()
		if err != nil {
			return err
		}
	}

	cfg.Votes = make([]string, len(votes))
	for i, vc := range votes {
		cfg.Votes[i] = vc.String()
	}

	if err := cfg.PollState.Step6(force); err != nil {
		return err
	}

	sealed, err := pollconfig.SealPollConfiguration(identifier, spc.PollTrustees, cfg, pubKey, pmk)
	if err != nil {
		return err
	}
	return writeSecuredConfig(secureConfigPath(configPath), sealed)
}
