// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pollengine

import (
	"github.com/scantegrity/pollcore/internal/ballots"
	"github.com/scantegrity/pollcore/internal/planes"
	"github.com/scantegrity/pollcore/internal/schedule"
)

// derivedBallots holds the serial/vote-code/decoy artifacts the
// schedule generates from a Poll Master Key, shared by every command
// that needs to rebuild a poll's planes.
type derivedBallots struct {
	Ballots []ballots.Ballot
	Decoys  map[ballots.Serial]struct{}
}

func deriveBallots(secrets schedule.PollSecrets, numBallots, numDecoys int) (*derivedBallots, error) {
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
	decoys := make(map[ballots.Serial]struct{}, len(decoySerials))
	for _, s := range decoySerials {
		decoys[s] = struct{}{}
	}
	return &derivedBallots{Ballots: bs, Decoys: decoys}, nil
}

// buildPlane rebuilds plane index i in its permuted, published form
// from the derived ballots and the plane's resolved secrets.
func buildPlane(secrets schedule.PollSecrets, index int, db *derivedBallots, numBallots int) (*planes.PermutedPlane, schedule.Resolved, error) {
	resolved := secrets.PlaneSecrets[index].Resolve(2 * numBallots)
	plane, err := planes.Build(db.Ballots, db.Decoys, numBallots, resolved)
	if err != nil {
		return nil, schedule.Resolved{}, err
	}
	permuted, err := plane.Permute(resolved.Permutation)
	if err != nil {
		return nil, schedule.Resolved{}, err
	}
	return permuted, resolved, nil
}

// planeLeaves renders a permuted plane's rows as Merkle leaf strings,
// one per row, in published order.
func planeLeaves(pp *planes.PermutedPlane) []string {
	leaves := make([]string, pp.Len())
	for i, r := range pp.Rows {
		col1 := r.Col1.Encrypted
		if !r.Col1.IsEncrypted() {
			col1 = r.Col1.Plain
		}
		col3 := r.Col3.Encrypted
		if !r.Col3.IsEncrypted() {
			col3 = r.Col3.Plain
		}
		leaves[i] = col1 + "," + r.Col2.String() + "," + col3
	}
	return leaves
}
