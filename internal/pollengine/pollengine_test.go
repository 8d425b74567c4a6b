// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pollengine

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/scantegrity/pollcore/internal/ballots"
	"github.com/scantegrity/pollcore/internal/bulletin"
	"github.com/scantegrity/pollcore/internal/pollconfig"
)

// stubLog is an in-memory bulletin.Log for exercising Step1 and Audit
// without a network dependency.
type stubLog struct {
	published    [][32]byte
	transactions []bulletin.Transaction
}

func (s *stubLog) Publish(ctx context.Context, root [32]byte) (string, error) {
	s.published = append(s.published, root)
	return "stub-handle", nil
}

func (s *stubLog) FetchTransactions(ctx context.Context, address, startDate, endDate string) ([]bulletin.Transaction, error) {
	return s.transactions, nil
}

func TestFullPollLifecycle(t *testing.T) {
	dir := t.TempDir()

	newPath := filepath.Join(dir, "new.yaml")
	configPath := filepath.Join(dir, "poll.yaml")
	rosterPath := filepath.Join(dir, "roster.csv")
	rosterOutPath := filepath.Join(dir, "committed-roster.csv")
	planesDir := filepath.Join(dir, "planes")
	keyFilesDir := filepath.Join(dir, "audit-keys")
	tallyKeysDir := filepath.Join(dir, "tally-keys")
	rosterRevealPath := filepath.Join(dir, "roster-reveal.csv")
	summandsRevealDir := filepath.Join(dir, "summands-reveal")

	newCfg := pollconfig.NewPollConfiguration{
		PollIdentifier: "test-poll",
		PollTrustees:   []pollconfig.NewPollConfigurationTrustee{{Identifier: "alice"}},
		NumBallots:     2,
		NumDecoys:      0,
		Question:       "Adopt the bylaw?",
		Option1:        "Yes",
		Option2:        "No",
		StartDate:      "2026-01-01",
		EndDate:        "2026-01-31",
	}
	newBytes, err := yaml.Marshal(newCfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(newPath, newBytes, 0o644); err != nil {
		t.Fatal(err)
	}

	rosterCSV := "last_name,first_name,street_address,city,state,zip_code\n" +
		"Doe,Jane,1 Main St,Springfield,IL,62701\n" +
		"Roe,John,2 Main St,Springfield,IL,62701\n" +
		"Lee,Sam,3 Main St,Springfield,IL,62701\n"
	if err := os.WriteFile(rosterPath, []byte(rosterCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	prompt := FixedPrompter{"alice": "correct horse battery staple"}

	backup, err := New(newPath, configPath, true, prompt)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if backup == "" {
		t.Fatal("New: empty poll master key backup string")
	}
	if _, err := pollconfig.ParsePMKBackup(backup); err != nil {
		t.Fatalf("ParsePMKBackup: %v", err)
	}
	if err := BindRoster(configPath, rosterPath, false, false, prompt); err != nil {
		t.Fatalf("BindRoster: %v", err)
	}

	log := &stubLog{}
	if _, err := Step1(configPath, rosterOutPath, planesDir, false, prompt, log, nil); err != nil {
		t.Fatalf("Step1: %v", err)
	}
	if len(log.published) != 1 {
		t.Fatalf("expected 1 published root, got %d", len(log.published))
	}

	if err := Step2(configPath, "deadbeef", false, prompt); err != nil {
		t.Fatalf("Step2: %v", err)
	}

	var addrBuf, ballotBuf bytes.Buffer
	if err := Step3(configPath, &addrBuf, &ballotBuf, prompt); err != nil {
		t.Fatalf("Step3: %v", err)
	}
	ballotRows, err := csv.NewReader(&ballotBuf).ReadAll()
	if err != nil {
		t.Fatalf("parse ballot info csv: %v", err)
	}
	if len(ballotRows) != 2 {
		t.Fatalf("expected 2 ballot rows, got %d", len(ballotRows))
	}

	if err := Step4(configPath, nil, keyFilesDir, false, prompt); err != nil {
		t.Fatalf("Step4: %v", err)
	}

	forCode, err := ballots.ParseVoteCode(ballotRows[0][1])
	if err != nil {
		t.Fatal(err)
	}
	againstCode, err := ballots.ParseVoteCode(ballotRows[1][2])
	if err != nil {
		t.Fatal(err)
	}
	votes := []ballots.VoteCode{forCode, againstCode}

	if err := Step6(configPath, planesDir, votes, false, prompt); err != nil {
		t.Fatalf("Step6: %v", err)
	}
	if err := Step7(configPath, "cafef00d", prompt); err != nil {
		t.Fatalf("Step7: %v", err)
	}
	if err := Step8(configPath, tallyKeysDir, rosterRevealPath, summandsRevealDir, false, prompt); err != nil {
		t.Fatalf("Step8: %v", err)
	}

	log.transactions = []bulletin.Transaction{
		{Hash: "0x1", Input: bulletin.EncodeVotePayload(forCode)},
		{Hash: "0x2", Input: bulletin.EncodeVotePayload(againstCode)},
	}
	tally, err := Audit(configPath, "0xExplorerAddress", log, prompt)
	if err != nil {
		t.Fatalf("Audit: %v", err)
	}
	if tally.Option1Count != 1 || tally.Option2Count != 1 {
		t.Fatalf("unexpected tally: %+v", tally)
	}
}
