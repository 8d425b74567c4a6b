// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package schedule implements the secret schedule: the pure function
// mapping the 256-bit Poll Master Key to every derived secret used by
// the rest of pollcore, per spec.md §4.2. The schedule is deterministic,
// so the same PMK always yields the same artifacts, which is what
// makes print audits and tally audits independently reproducible.
package schedule

import (
	"github.com/scantegrity/pollcore/internal/corecrypto/aead"
	"github.com/scantegrity/pollcore/internal/corecrypto/csprng"
)

// NumberOfPlanes is the fixed number of column planes every poll
// publishes, per spec.md §2 item 6.
const NumberOfPlanes = 50

// PlaneSecrets holds the seven roots a single column plane's secrets
// derive from.
type PlaneSecrets struct {
	PlaneRoot       csprng.Seed
	PermutationRoot csprng.Seed
	KeyRoot         csprng.Seed
	Col1KeyRoot     csprng.Seed
	Col1NonceRoot   csprng.Seed
	Col3KeyRoot     csprng.Seed
	Col3NonceRoot   csprng.Seed
}

// DerivePlaneSecrets expands a single plane root into its seven roots,
// per spec.md §4.2 step 5.
func DerivePlaneSecrets(planeRoot csprng.Seed) PlaneSecrets {
	ps := PlaneSecrets{PlaneRoot: planeRoot}
	prkRng := csprng.New(planeRoot)
	ps.PermutationRoot = prkRng.NextSeed()
	ps.KeyRoot = prkRng.NextSeed()

	keyRng := csprng.New(ps.KeyRoot)
	ps.Col1KeyRoot = keyRng.NextSeed()
	ps.Col1NonceRoot = keyRng.NextSeed()
	ps.Col3KeyRoot = keyRng.NextSeed()
	ps.Col3NonceRoot = keyRng.NextSeed()
	return ps
}

// Resolved holds a plane's fully expanded, row-count-sized secrets:
// the row permutation and the per-row AEAD keys/nonces for columns 1
// and 3.
type Resolved struct {
	Permutation []int
	Col1Keys    []aead.Key
	Col1Nonces  []aead.Nonce
	Col3Keys    []aead.Key
	Col3Nonces  []aead.Nonce
}

// Resolve expands PlaneSecrets into numRows keys, nonces, and a
// permutation of [0, numRows), per spec.md §4.2 step 6.
func (ps PlaneSecrets) Resolve(numRows int) Resolved {
	permRng := csprng.New(ps.PermutationRoot)
	col1KeyRng := csprng.New(ps.Col1KeyRoot)
	col1NonceRng := csprng.New(ps.Col1NonceRoot)
	col3KeyRng := csprng.New(ps.Col3KeyRoot)
	col3NonceRng := csprng.New(ps.Col3NonceRoot)

	r := Resolved{
		Permutation: permRng.Shuffle(numRows),
		Col1Keys:    make([]aead.Key, numRows),
		Col1Nonces:  make([]aead.Nonce, numRows),
		Col3Keys:    make([]aead.Key, numRows),
		Col3Nonces:  make([]aead.Nonce, numRows),
	}
	for i := 0; i < numRows; i++ {
		var k aead.Key
		col1KeyRng.FillBytes(k[:])
		r.Col1Keys[i] = k

		var n aead.Nonce
		col1NonceRng.FillBytes(n[:])
		r.Col1Nonces[i] = n

		var k3 aead.Key
		col3KeyRng.FillBytes(k3[:])
		r.Col3Keys[i] = k3

		var n3 aead.Nonce
		col3NonceRng.FillBytes(n3[:])
		r.Col3Nonces[i] = n3
	}
	return r
}

// PollSecrets holds the complete secret schedule derived from a Poll
// Master Key.
type PollSecrets struct {
	VoteCodeRoot csprng.Seed
	DecoyRoot    csprng.Seed
	SummandsRoot csprng.Seed
	PlanesRoot   csprng.Seed
	SummandsKey  aead.Key
	RosterSalt   [32]byte
	PlaneSecrets [NumberOfPlanes]PlaneSecrets
}

// Derive expands a 32-byte Poll Master Key into the full secret
// schedule, per spec.md §4.2 steps 1-5.
func Derive(pmk [32]byte) PollSecrets {
	var s PollSecrets
	pmkSeed := csprng.SeedFromBytes(pmk[:])
	pmkRng := csprng.New(pmkSeed)

	s.VoteCodeRoot = pmkRng.NextSeed()
	s.DecoyRoot = pmkRng.NextSeed()
	s.SummandsRoot = pmkRng.NextSeed()
	s.PlanesRoot = pmkRng.NextSeed()
	pmkRng.FillBytes(s.SummandsKey[:])
	pmkRng.FillBytes(s.RosterSalt[:])

	planesRng := csprng.New(s.PlanesRoot)
	for i := 0; i < NumberOfPlanes; i++ {
		planeRoot := planesRng.NextSeed()
		s.PlaneSecrets[i] = DerivePlaneSecrets(planeRoot)
	}
	return s
}
