// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pollengine

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"encoding/hex"
	"io"
	"strconv"

	"github.com/scantegrity/pollcore/internal/ballots"
	"github.com/scantegrity/pollcore/internal/corecrypto/csprng"
	"github.com/scantegrity/pollcore/internal/pollerr"
	"github.com/scantegrity/pollcore/internal/roster"
	"github.com/scantegrity/pollcore/internal/schedule"
	"github.com/scantegrity/pollcore/internal/summands"
)

// Step3 implements the `generate-print-files` command: it derives,
// for every ballot serial, the voter it was selected for and the two
// vote codes printed under its scratch-off panels, ready to hand to
// the print house. It reads state but performs no transition, so it
// may be run as many times as needed once columns are committed and
// summands drawn.
func Step3(configPath string, addressesOut, ballotsOut io.Writer, prompt PasswordPrompter) error {
	spc, err := readSecuredConfig(secureConfigPath(configPath))
	if err != nil {
		return err
	}
	pmk, err := reconstructPMK(spc.PollTrustees, prompt)
	if err != nil {
		return err
	}
	_, cfg, _, err := spc.Open(pmk)
	if err != nil {
		return err
	}
	if !cfg.PollState.ColumnsCommitted || !cfg.PollState.SummandsDrawn {
		return pollerr.New(pollerr.ErrPreconditionUnmet, "generate-print-files requires columns_committed and summands_drawn")
	}

	rosterBytes, err := base64.StdEncoding.DecodeString(cfg.VoterRoster)
	if err != nil {
		return pollerr.New(pollerr.ErrCodecError, "decode stored voter roster: %v", err)
	}
	parsedRoster, err := roster.FromCSV(bytes.NewReader(rosterBytes))
	if err != nil {
		return err
	}

	drawnSeedBytes, err := hex.DecodeString(cfg.DrawnSummandsSeed)
	if err != nil {
		return pollerr.New(pollerr.ErrCodecError, "decode drawn summands seed: %v", err)
	}

	secrets := schedule.Derive(pmk)
	committed := summands.GenerateCommitted(secrets.SummandsRoot, cfg.NumBallots, cfg.VoterRosterSize)
	drawn := summands.GenerateDrawn(csprng.SeedFromBytes(drawnSeedBytes), cfg.NumBallots, cfg.VoterRosterSize)
	voters, err := summands.SelectVoters(committed, drawn, cfg.VoterRosterSize)
	if err != nil {
		return err
	}

	db, err := deriveBallots(secrets, cfg.NumBallots, cfg.NumDecoys)
	if err != nil {
		return err
	}

	addrWriter := csv.NewWriter(addressesOut)
	ballotWriter := csv.NewWriter(ballotsOut)
	for _, b := range db.Ballots {
		voterIdx := voters[b.Serial]
		v := parsedRoster.Records[voterIdx].VoterInfo
		if err := addrWriter.Write([]string{
			ballots.SerialString(b.Serial, cfg.NumBallots),
			strconv.Itoa(voterIdx),
			v.LastName, v.FirstName, v.StreetAddress, v.City, v.State, v.ZipCode,
		}); err != nil {
			return pollerr.New(pollerr.ErrExternalIoError, "write address label row: %v", err)
		}
		if err := ballotWriter.Write([]string{
			ballots.SerialString(b.Serial, cfg.NumBallots),
			b.ForCode.VoteCode.String(),
			b.Against.VoteCode.String(),
		}); err != nil {
			return pollerr.New(pollerr.ErrExternalIoError, "write ballot info row: %v", err)
		}
	}
	addrWriter.Flush()
	ballotWriter.Flush()
	if err := addrWriter.Error(); err != nil {
		return pollerr.New(pollerr.ErrExternalIoError, "flush address labels: %v", err)
	}
	if err := ballotWriter.Error(); err != nil {
		return pollerr.New(pollerr.ErrExternalIoError, "flush ballot info: %v", err)
	}
	return nil
}
