// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pollengine

import (
	"context"
	"strconv"

	"github.com/scantegrity/pollcore/internal/audit"
	"github.com/scantegrity/pollcore/internal/ballots"
	"github.com/scantegrity/pollcore/internal/bulletin"
	"github.com/scantegrity/pollcore/internal/pollerr"
)

// Audit implements the `audit` command: it fetches every transaction
// sent to explorerAddress over the poll's published window, decodes
// each as a submitted vote code, and reconciles them against the
// ballots, decoys, and audited serials reconstructed purely from the
// Poll Master Key.
func Audit(configPath, explorerAddress string, log bulletin.Log, prompt PasswordPrompter) (audit.Tally, error) {
	spc, err := readSecuredConfig(secureConfigPath(configPath))
	if err != nil {
		return audit.Tally{}, err
	}
	pmk, err := reconstructPMK(spc.PollTrustees, prompt)
	if err != nil {
		return audit.Tally{}, err
	}
	_, cfg, _, err := spc.Open(pmk)
	if err != nil {
		return audit.Tally{}, err
	}

	auditedSerials := make(map[ballots.Serial]struct{}, len(cfg.AuditedBallots))
	for _, s := range cfg.AuditedBallots {
		serial, err := strconv.Atoi(s)
		if err != nil {
			return audit.Tally{}, pollerr.New(pollerr.ErrCodecError, "malformed audited serial %q: %v", s, err)
		}
		auditedSerials[serial] = struct{}{}
	}

	txs, err := log.FetchTransactions(context.Background(), explorerAddress, cfg.StartDate, cfg.EndDate)
	if err != nil {
		return audit.Tally{}, err
	}
	var votes []ballots.VoteCode
	for _, tx := range txs {
		vc, err := bulletin.ParseVotePayload(tx.Input)
		if err != nil {
			continue
		}
		votes = append(votes, vc)
	}

	reconstructor, err := audit.NewReconstructor(pmk, cfg.NumBallots, cfg.NumDecoys, cfg.VoterRosterSize)
	if err != nil {
		return audit.Tally{}, err
	}
	return reconstructor.Reconcile(votes, auditedSerials, cfg.Option1, cfg.Option2), nil
}
