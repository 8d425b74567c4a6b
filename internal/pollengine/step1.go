// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pollengine

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/scantegrity/pollcore/internal/bulletin"
	"github.com/scantegrity/pollcore/internal/merkle"
	"github.com/scantegrity/pollcore/internal/pollconfig"
	"github.com/scantegrity/pollcore/internal/pollerr"
	"github.com/scantegrity/pollcore/internal/roster"
	"github.com/scantegrity/pollcore/internal/schedule"
)

// Step1 implements the `step1` command: it commits the voter roster
// and all column planes, publishing a single Merkle root over both to
// log and, if notifier is non-nil, broadcasting it to any subscribed
// observers in real time. log and notifier may both be nil, in which
// case the root is computed and returned to the caller but not
// published or broadcast (useful for dry runs and tests).
func Step1(configPath, rosterOutPath, planesDir string, force bool, prompt PasswordPrompter, log bulletin.Log, notifier *bulletin.RootNotifier) (merkle.Hash, error) {
	spc, err := readSecuredConfig(secureConfigPath(configPath))
	if err != nil {
		return merkle.Hash{}, err
	}
	pmk, err := reconstructPMK(spc.PollTrustees, prompt)
	if err != nil {
		return merkle.Hash{}, err
	}
	identifier, cfg, pubKey, err := spc.Open(pmk)
	if err != nil {
		return merkle.Hash{}, err
	}

	rosterBytes, err := base64.StdEncoding.DecodeString(cfg.VoterRoster)
	if err != nil {
		return merkle.Hash{}, pollerr.New(pollerr.ErrCodecError, "decode stored voter roster: %v", err)
	}
	parsedRoster, err := roster.FromCSV(bytes.NewReader(rosterBytes))
	if err != nil {
		return merkle.Hash{}, err
	}

	secrets := schedule.Derive(pmk)
	committed := parsedRoster.Commit(cfg.VoterPrivacy, secrets.RosterSalt[:])

	rosterFile, err := os.Create(rosterOutPath)
	if err != nil {
		return merkle.Hash{}, pollerr.New(pollerr.ErrExternalIoError, "create committed roster file: %v", err)
	}
	defer rosterFile.Close()
	if err := roster.WriteCSV(rosterFile, committed); err != nil {
		return merkle.Hash{}, err
	}

	db, err := deriveBallots(secrets, cfg.NumBallots, cfg.NumDecoys)
	if err != nil {
		return merkle.Hash{}, err
	}

	if err := os.MkdirAll(planesDir, 0o755); err != nil {
		return merkle.Hash{}, pollerr.New(pollerr.ErrExternalIoError, "create planes directory: %v", err)
	}

	var leaves []string
	for _, rec := range committed {
		leaves = append(leaves, rec.Value)
	}
	for i := 0; i < schedule.NumberOfPlanes; i++ {
		permuted, _, err := buildPlane(secrets, i, db, cfg.NumBallots)
		if err != nil {
			return merkle.Hash{}, err
		}
		planePath := filepath.Join(planesDir, fmt.Sprintf("plane-%02d.csv", i))
		f, err := os.Create(planePath)
		if err != nil {
			return merkle.Hash{}, pollerr.New(pollerr.ErrExternalIoError, "create plane file %s: %v", planePath, err)
		}
		err = permuted.WriteCSV(f)
		f.Close()
		if err != nil {
			return merkle.Hash{}, err
		}
		leaves = append(leaves, planeLeaves(permuted)...)
	}

	tree := merkle.Build(leaves)
	root := tree.Root()

	if err := cfg.PollState.Step1(force); err != nil {
		return merkle.Hash{}, err
	}

	sealed, err := pollconfig.SealPollConfiguration(identifier, spc.PollTrustees, cfg, pubKey, pmk)
	if err != nil {
		return merkle.Hash{}, err
	}
	if err := writeSecuredConfig(secureConfigPath(configPath), sealed); err != nil {
		return merkle.Hash{}, err
	}

	if log != nil {
		if _, err := log.Publish(context.Background(), root); err != nil {
			return merkle.Hash{}, err
		}
	}
	if notifier != nil {
		if err := notifier.Broadcast(context.Background(), root); err != nil {
			return merkle.Hash{}, err
		}
	}
	return root, nil
}
