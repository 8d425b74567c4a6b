// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package merkle implements the append-only commitment log used to
// publish every poll artifact: a SHA3-256 binary Merkle tree over a
// padded, power-of-two list of leaf strings, with inclusion-proof
// generation and verification, per spec.md §4.6.
package merkle

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/scantegrity/pollcore/internal/pollerr"
)

// HashSize is the width of a SHA3-256 digest.
const HashSize = 32

// Hash is a raw SHA3-256 digest.
type Hash [HashSize]byte

// padLeaf is the single NUL-byte string used to pad the leaf list up
// to a power of two.
const padLeaf = "\x00"

func hashLeaf(s string) Hash {
	inner := sha3.Sum256([]byte(s))
	var buf [1 + HashSize]byte
	buf[0] = 0x00
	copy(buf[1:], inner[:])
	return sha3.Sum256(buf[:])
}

func hashNode(left, right Hash) Hash {
	var buf [2 * HashSize]byte
	copy(buf[:HashSize], left[:])
	copy(buf[HashSize:], right[:])
	return sha3.Sum256(buf[:])
}

// nextPowerOfTwo returns the smallest power of two >= n, with a floor
// of 1 (matching spec.md §8 property 6).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Tree is a built Merkle tree: every level of the binary tree, leaves
// first, stored so that proofs and the root can be produced without
// recomputation.
type Tree struct {
	leaves []string
	levels [][]Hash // levels[0] is the (padded) leaf hash level
}

// Build constructs a Tree over leaves, padding with padLeaf until the
// count is a power of two.
func Build(leaves []string) *Tree {
	padded := append([]string(nil), leaves...)
	target := nextPowerOfTwo(len(padded))
	for len(padded) < target {
		padded = append(padded, padLeaf)
	}

	level := make([]Hash, len(padded))
	for i, l := range padded {
		level[i] = hashLeaf(l)
	}

	levels := [][]Hash{level}
	for len(level) > 1 {
		next := make([]Hash, len(level)/2)
		for i := range next {
			next[i] = hashNode(level[2*i], level[2*i+1])
		}
		levels = append(levels, next)
		level = next
	}

	return &Tree{leaves: padded, levels: levels}
}

// Root returns the tree's root hash.
func (t *Tree) Root() Hash {
	top := t.levels[len(t.levels)-1]
	return top[0]
}

// LeafCount returns the padded leaf count.
func (t *Tree) LeafCount() int {
	return len(t.leaves)
}

// Leaves returns the padded leaf strings, in order, for persistence.
func (t *Tree) Leaves() []string {
	return append([]string(nil), t.leaves...)
}

// Proof is an inclusion proof for one leaf: the leaf's own hash,
// followed by the sibling hash at each level from leaf to root,
// followed by the claimed root itself (the "lemma"), alongside the
// left/right path bit at each level (0 = accumulator is the left
// operand, 1 = right).
type Proof struct {
	Lemma []Hash
	Path  []int
}

// GenProof returns the inclusion proof for the leaf at index i.
func (t *Tree) GenProof(i int) (Proof, error) {
	if i < 0 || i >= len(t.leaves) {
		return Proof{}, pollerr.New(pollerr.ErrCodecError, "leaf index %d out of range [0, %d)", i, len(t.leaves))
	}
	lemma := []Hash{t.levels[0][i]}
	var path []int
	idx := i
	for level := 0; level < len(t.levels)-1; level++ {
		siblingIdx := idx ^ 1
		lemma = append(lemma, t.levels[level][siblingIdx])
		if idx%2 == 0 {
			path = append(path, 0)
		} else {
			path = append(path, 1)
		}
		idx /= 2
	}
	lemma = append(lemma, t.Root())
	return Proof{Lemma: lemma, Path: path}, nil
}

// Verify recomputes the leaf hash of data and walks proof's lemma,
// succeeding iff the final accumulated hash equals the proof's last
// lemma entry (the claimed root).
func Verify(proof Proof, data string) bool {
	if len(proof.Lemma) < 2 {
		return false
	}
	acc := hashLeaf(data)
	if acc != proof.Lemma[0] {
		return false
	}
	siblings := proof.Lemma[1 : len(proof.Lemma)-1]
	claimedRoot := proof.Lemma[len(proof.Lemma)-1]
	if len(siblings) != len(proof.Path) {
		return false
	}
	for i, sib := range siblings {
		if proof.Path[i] == 0 {
			acc = hashNode(acc, sib)
		} else {
			acc = hashNode(sib, acc)
		}
	}
	return acc == claimedRoot
}

// HexString returns the lowercase hex encoding of h.
func (h Hash) HexString() string {
	return hex.EncodeToString(h[:])
}

// HashFromHex parses a hex-encoded 32-byte hash.
func HashFromHex(s string) (Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, pollerr.New(pollerr.ErrCodecError, "decode hash hex: %v", err)
	}
	if len(b) != HashSize {
		return Hash{}, pollerr.New(pollerr.ErrCodecError, "hash must be %d bytes, got %d", HashSize, len(b))
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}
