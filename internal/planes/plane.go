// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package planes

import (
	"github.com/scantegrity/pollcore/internal/ballots"
	"github.com/scantegrity/pollcore/internal/pollerr"
	"github.com/scantegrity/pollcore/internal/schedule"
)

// Plane is a single column plane: R = 2*numBallots rows, in
// pre-permutation (canonical) order.
type Plane struct {
	Rows []Record
}

// Build constructs a plane in canonical row order from a poll's
// ballots and decoy set, encrypting col1 and col3 under the plane's
// resolved per-row secrets. Row 2k holds serial k's For choice, row
// 2k+1 its Against choice, per spec.md §4.5.
func Build(bs []ballots.Ballot, decoys map[ballots.Serial]struct{}, numBallots int, resolved schedule.Resolved) (*Plane, error) {
	numRows := 2 * len(bs)
	if len(resolved.Col1Keys) != numRows {
		return nil, numRowsError(numRows, len(resolved.Col1Keys))
	}

	p := &Plane{Rows: make([]Record, numRows)}
	for _, b := range bs {
		forRow := 2 * b.Serial
		againstRow := forRow + 1

		forPlain := BallotRow(b.Serial, numBallots, b.ForCode.VoteCode)
		againstPlain := BallotRow(b.Serial, numBallots, b.Against.VoteCode)

		forTag := ballots.TagSerial(b.Serial, decoys, ballots.For).String()
		againstTag := ballots.TagSerial(b.Serial, decoys, ballots.Against).String()

		forCol1, err := EncryptCell(forPlain, resolved.Col1Keys[forRow], resolved.Col1Nonces[forRow])
		if err != nil {
			return nil, err
		}
		againstCol1, err := EncryptCell(againstPlain, resolved.Col1Keys[againstRow], resolved.Col1Nonces[againstRow])
		if err != nil {
			return nil, err
		}
		forCol3, err := EncryptCell(forTag, resolved.Col3Keys[forRow], resolved.Col3Nonces[forRow])
		if err != nil {
			return nil, err
		}
		againstCol3, err := EncryptCell(againstTag, resolved.Col3Keys[againstRow], resolved.Col3Nonces[againstRow])
		if err != nil {
			return nil, err
		}

		p.Rows[forRow] = Record{
			Col1: Column1Entry{Encrypted: forCol1},
			Col2: VoteEmpty,
			Col3: Column3Entry{Encrypted: forCol3},
		}
		p.Rows[againstRow] = Record{
			Col1: Column1Entry{Encrypted: againstCol1},
			Col2: VoteEmpty,
			Col3: Column3Entry{Encrypted: againstCol3},
		}
	}
	return p, nil
}

// Len returns the plane's row count.
func (p *Plane) Len() int { return len(p.Rows) }

// Permute returns a PermutedPlane reflecting permutation perm, where
// perm[i] is the canonical row placed at permuted position i.
func (p *Plane) Permute(perm []int) (*PermutedPlane, error) {
	if len(perm) != len(p.Rows) {
		return nil, numRowsError(len(perm), len(p.Rows))
	}
	rows := make([]Record, len(perm))
	for i, canonical := range perm {
		rows[i] = p.Rows[canonical]
	}
	return &PermutedPlane{Rows: rows, Permutation: perm}, nil
}

// MarkVotes sets col2 to Voted for every row whose pre-permutation vote
// code appears in votedCodes, NotVoted otherwise, per spec.md §4.5
// phase 7.
func (p *Plane) MarkVotes(ballotsByRow map[int]ballots.VoteCode, votedCodes map[ballots.VoteCode]struct{}) {
	for row := range p.Rows {
		vc, ok := ballotsByRow[row]
		if !ok {
			continue
		}
		if _, voted := votedCodes[vc]; voted {
			p.Rows[row] = p.Rows[row].MarkVoted()
		} else {
			p.Rows[row] = p.Rows[row].MarkNotVoted()
		}
	}
}

// PermutedPlane is a plane after row permutation: the form the plane
// is ever published in.
type PermutedPlane struct {
	Rows        []Record
	Permutation []int // Permutation[i] = canonical row at permuted position i
}

// Len returns the permuted plane's row count.
func (pp *PermutedPlane) Len() int { return len(pp.Rows) }

// RevealPrintAudit decrypts both columns of the two rows (For and
// Against) matching an audited serial, given the plane's resolved
// secrets, per spec.md §4.5 phase 5.
func (pp *PermutedPlane) RevealPrintAudit(serial ballots.Serial, resolved schedule.Resolved) error {
	forRow := 2 * serial
	againstRow := forRow + 1
	for _, canonical := range []int{forRow, againstRow} {
		permuted := pp.indexOfCanonical(canonical)
		if permuted < 0 {
			return pollerr.New(pollerr.ErrCodecError, "audited serial %d not found in plane", serial)
		}
		if err := pp.decryptRow(permuted, canonical, resolved); err != nil {
			return err
		}
	}
	return nil
}

func (pp *PermutedPlane) indexOfCanonical(canonical int) int {
	for i, c := range pp.Permutation {
		if c == canonical {
			return i
		}
	}
	return -1
}

func (pp *PermutedPlane) decryptRow(permuted, canonical int, resolved schedule.Resolved) error {
	r := pp.Rows[permuted]
	if r.Col1.IsEncrypted() {
		plain, err := DecryptCell(r.Col1.Encrypted, resolved.Col1Keys[canonical])
		if err != nil {
			return err
		}
		r.Col1 = Column1Entry{Plain: plain}
	}
	if r.Col3.IsEncrypted() {
		plain, err := DecryptCell(r.Col3.Encrypted, resolved.Col3Keys[canonical])
		if err != nil {
			return err
		}
		r.Col3 = Column3Entry{Plain: plain}
	}
	pp.Rows[permuted] = r
	return nil
}
