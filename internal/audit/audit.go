// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package audit implements the reconstruction-based tally and decoy
// recovery that let anyone holding the Poll Master Key independently
// recompute a poll's result from the published bulletin log, per
// spec.md §4.8.
package audit

import (
	"strconv"
	"strings"

	"github.com/scantegrity/pollcore/internal/ballots"
	"github.com/scantegrity/pollcore/internal/pollerr"
	"github.com/scantegrity/pollcore/internal/schedule"
)

// Tally is the reconstructed vote count.
type Tally struct {
	Option1Text  string
	Option2Text  string
	Option1Count int
	Option2Count int
}

// Reconstructor rebuilds a poll's ballots, decoys, and vote-code
// mapping from its Poll Master Key, ready to resolve submitted votes.
type Reconstructor struct {
	Secrets    schedule.PollSecrets
	NumBallots int
	NumDecoys  int
	VoterRosterSize int

	Ballots  []ballots.Ballot
	Decoys   map[ballots.Serial]struct{}
	VoteCodeMap *ballots.VoteCodeMap
}

// NewReconstructor re-derives every artifact a poll's audit needs from
// its Poll Master Key and the plaintext configuration fields that
// parameterize generation.
func NewReconstructor(pmk [32]byte, numBallots, numDecoys, voterRosterSize int) (*Reconstructor, error) {
	secrets := schedule.Derive(pmk)

	serials := make([]ballots.Serial, numBallots)
	for i := range serials {
		serials[i] = i
	}
	votecodes := ballots.GenerateVoteCodes(secrets.VoteCodeRoot, 2*numBallots)
	bs, err := ballots.GenerateBallots(serials, votecodes)
	if err != nil {
		return nil, err
	}
	decoySerials, err := ballots.GenerateDecoySerials(secrets.DecoyRoot, numDecoys, numBallots)
	if err != nil {
		return nil, err
	}
	decoySet := make(map[ballots.Serial]struct{}, len(decoySerials))
	for _, s := range decoySerials {
		decoySet[s] = struct{}{}
	}

	return &Reconstructor{
		Secrets:         secrets,
		NumBallots:      numBallots,
		NumDecoys:       numDecoys,
		VoterRosterSize: voterRosterSize,
		Ballots:         bs,
		Decoys:          decoySet,
		VoteCodeMap:     ballots.BuildVoteCodeMap(bs),
	}, nil
}

// RecoverDecoysFromPlaneZero cross-checks the reconstructor's
// CSPRNG-derived decoy set against the decoy serials visible once
// plane 0's columns are fully revealed, by parsing each row tagged
// "Decoy" in column 3 for its serial in column 1. This is the
// audit-time confirmation described in spec.md §4.8; the decoy set
// itself still comes from the deterministic schedule.
func RecoverDecoysFromPlaneZero(col1Plain, col3Plain []string) (map[ballots.Serial]struct{}, error) {
	if len(col1Plain) != len(col3Plain) {
		return nil, pollerr.New(pollerr.ErrCodecError, "plane zero column length mismatch: %d != %d", len(col1Plain), len(col3Plain))
	}
	decoys := make(map[ballots.Serial]struct{})
	for i, tag := range col3Plain {
		if strings.TrimSpace(tag) != "Decoy" {
			continue
		}
		serial, err := serialFromCol1(col1Plain[i])
		if err != nil {
			return nil, err
		}
		decoys[serial] = struct{}{}
	}
	return decoys, nil
}

// serialFromCol1 parses the leading "<serial>: " prefix of a decrypted
// column 1 cell.
func serialFromCol1(col1 string) (ballots.Serial, error) {
	idx := strings.Index(col1, ":")
	if idx < 0 {
		return 0, pollerr.New(pollerr.ErrCodecError, "malformed column 1 cell %q", col1)
	}
	serial, err := strconv.Atoi(col1[:idx])
	if err != nil {
		return 0, pollerr.New(pollerr.ErrCodecError, "malformed serial in column 1 cell %q: %v", col1, err)
	}
	return serial, nil
}

// Reconcile tallies submittedVotes against r's reconstructed ballots,
// discarding votes whose serial is audited (spoiled at print time) or
// a decoy, and codes that fail parity or do not match any ballot.
func (r *Reconstructor) Reconcile(submittedVotes []ballots.VoteCode, auditedSerials map[ballots.Serial]struct{}, option1Text, option2Text string) Tally {
	t := Tally{Option1Text: option1Text, Option2Text: option2Text}
	for _, vc := range submittedVotes {
		if !vc.ValidParity() {
			continue
		}
		serial, choice, ok := r.VoteCodeMap.Lookup(vc)
		if !ok {
			continue
		}
		if _, audited := auditedSerials[serial]; audited {
			continue
		}
		if _, decoy := r.Decoys[serial]; decoy {
			continue
		}
		switch choice {
		case ballots.For:
			t.Option1Count++
		case ballots.Against:
			t.Option2Count++
		}
	}
	return t
}
