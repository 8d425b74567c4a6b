// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ballots

import (
	"fmt"

	"github.com/scantegrity/pollcore/internal/corecrypto/csprng"
	"github.com/scantegrity/pollcore/internal/pollerr"
)

// Serial identifies a ballot by its position in [0, numBallots).
type Serial = int

// BallotChoice pairs a serial and choice with the vote code printed
// under that choice's scratch-off.
type BallotChoice struct {
	Serial   Serial
	VoteCode VoteCode
	Choice   Choice
}

// Ballot is one physical ballot: a serial and its two choices.
type Ballot struct {
	Serial  Serial
	ForCode BallotChoice
	Against BallotChoice
}

// GenerateBallots pairs serials with votecodes to build ballots,
// assigning codes 2k/2k+1 to serial k's For/Against choices (spec.md
// §3 Ballot invariant).
func GenerateBallots(serials []Serial, votecodes []VoteCode) ([]Ballot, error) {
	if 2*len(serials) != len(votecodes) {
		return nil, pollerr.New(pollerr.ErrCodecError,
			"expected %d vote codes for %d serials, got %d", 2*len(serials), len(serials), len(votecodes))
	}
	out := make([]Ballot, len(serials))
	for i, serial := range serials {
		out[i] = Ballot{
			Serial: serial,
			ForCode: BallotChoice{
				Serial: serial, VoteCode: votecodes[2*i], Choice: For,
			},
			Against: BallotChoice{
				Serial: serial, VoteCode: votecodes[2*i+1], Choice: Against,
			},
		}
	}
	return out, nil
}

// GenerateDecoySerials draws numDecoys distinct serials uniformly from
// [0, numBallots) using rejection sampling, returned sorted, per
// spec.md §4.4.
func GenerateDecoySerials(seed csprng.Seed, numDecoys, numBallots int) ([]Serial, error) {
	rng := csprng.New(seed)
	decoys, err := rng.DistinctSample(numDecoys, numBallots)
	if err != nil {
		return nil, pollerr.New(pollerr.ErrCodecError, "generate decoy serials: %v", err)
	}
	return decoys, nil
}

// VoteCodeMap builds a lookup from every generated vote code to the
// serial and choice it belongs to, used by the audit reconstructor
// (spec.md §4.8).
type VoteCodeMap struct {
	byDedupKey map[uint64][]mapping
}

type mapping struct {
	code   VoteCode
	serial Serial
	choice Choice
}

// BuildVoteCodeMap indexes ballots for fast lookup by vote code.
func BuildVoteCodeMap(bs []Ballot) *VoteCodeMap {
	m := &VoteCodeMap{byDedupKey: make(map[uint64][]mapping, 2*len(bs))}
	for _, b := range bs {
		m.add(b.ForCode)
		m.add(b.Against)
	}
	return m
}

func (m *VoteCodeMap) add(bc BallotChoice) {
	key := bc.VoteCode.DedupKey()
	m.byDedupKey[key] = append(m.byDedupKey[key], mapping{code: bc.VoteCode, serial: bc.Serial, choice: bc.Choice})
}

// Lookup resolves a submitted vote code to its serial and choice. The
// second return is false if the code does not correspond to any
// generated ballot.
func (m *VoteCodeMap) Lookup(vc VoteCode) (serial Serial, choice Choice, ok bool) {
	for _, cand := range m.byDedupKey[vc.DedupKey()] {
		if cand.code == vc {
			return cand.serial, cand.choice, true
		}
	}
	return 0, 0, false
}

// TaggedChoice identifies the printed tag for column 3 of a plane row:
// For, Against, or Decoy when the serial is in the decoy set.
type TaggedChoice int

const (
	TagFor TaggedChoice = iota
	TagAgainst
	TagDecoy
)

// String renders the tag padded to 7 characters, matching spec.md
// §4.5's col3 cell format.
func (t TaggedChoice) String() string {
	var s string
	switch t {
	case TagFor:
		s = "For"
	case TagAgainst:
		s = "Against"
	case TagDecoy:
		s = "Decoy"
	}
	return fmt.Sprintf("%-7s", s)
}

// TagSerial returns the column-3 tag for serial given the decoy set
// and which half (For/Against) of the row this is.
func TagSerial(serial Serial, decoys map[Serial]struct{}, choice Choice) TaggedChoice {
	if _, isDecoy := decoys[serial]; isDecoy {
		return TagDecoy
	}
	if choice == For {
		return TagFor
	}
	return TagAgainst
}
