// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package audit

import (
	"testing"

	"github.com/scantegrity/pollcore/internal/ballots"
	"github.com/scantegrity/pollcore/internal/corecrypto/csprng"
)

func TestReconcileCountsGenuineVotesOnly(t *testing.T) {
	var pmk [32]byte
	csprng.New(csprng.SeedFromBytes([]byte("test-pmk"))).FillBytes(pmk[:])

	const numBallots = 20
	const numDecoys = 2
	r, err := NewReconstructor(pmk, numBallots, numDecoys, 50)
	if err != nil {
		t.Fatal(err)
	}

	var genuineFor, genuineAgainst ballots.Serial = -1, -1
	for _, b := range r.Ballots {
		if _, decoy := r.Decoys[b.Serial]; decoy {
			continue
		}
		if genuineFor < 0 {
			genuineFor = b.Serial
		} else if genuineAgainst < 0 {
			genuineAgainst = b.Serial
			break
		}
	}
	if genuineFor < 0 || genuineAgainst < 0 {
		t.Fatal("expected at least two non-decoy ballots")
	}

	forCode := r.Ballots[genuineFor].ForCode.VoteCode
	againstCode := r.Ballots[genuineAgainst].Against.VoteCode

	var auditedSerial ballots.Serial = -1
	for _, b := range r.Ballots {
		if b.Serial != genuineFor && b.Serial != genuineAgainst {
			auditedSerial = b.Serial
			break
		}
	}
	auditedCode := r.Ballots[auditedSerial].ForCode.VoteCode
	audited := map[ballots.Serial]struct{}{auditedSerial: {}}

	tally := r.Reconcile([]ballots.VoteCode{forCode, againstCode, auditedCode}, audited, "Yes", "No")
	if tally.Option1Count != 1 || tally.Option2Count != 1 {
		t.Fatalf("expected 1/1 tally, got %+v", tally)
	}
}

func TestRecoverDecoysFromPlaneZero(t *testing.T) {
	col1 := []string{"00: 1111-11116-0000-00000", "01: 2222-22228-0000-00000"}
	col3 := []string{"Decoy  ", "For    "}
	decoys, err := RecoverDecoysFromPlaneZero(col1, col3)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := decoys[0]; !ok || len(decoys) != 1 {
		t.Fatalf("expected decoy set {0}, got %v", decoys)
	}
}

func TestReconcilePrintAudit(t *testing.T) {
	report := ReconcilePrintAudit([]ballots.Serial{1, 2, 3}, []ballots.Serial{1, 2, 4})
	if report.OK() {
		t.Fatal("expected mismatch")
	}
	if len(report.Missing) != 1 || report.Missing[0] != 3 {
		t.Fatalf("missing = %v", report.Missing)
	}
	if len(report.Unexpected) != 1 || report.Unexpected[0] != 4 {
		t.Fatalf("unexpected = %v", report.Unexpected)
	}
}
