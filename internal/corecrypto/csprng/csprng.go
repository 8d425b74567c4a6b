// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package csprng implements the deterministic, cryptographically
// secure pseudorandom number generator used throughout the secret
// schedule (spec.md §4.1, §4.2). It must be re-derivable bit-for-bit
// from a given 32-byte seed, since the entire ballot-generation
// pipeline is a pure function of the Poll Master Key.
//
// The underlying stream cipher is ChaCha20, used purely as a keystream
// generator: the "plaintext" is always the zero string, so the
// keystream itself is the random output.
package csprng

import (
	"encoding/binary"
	"sort"

	"golang.org/x/crypto/chacha20"

	"github.com/scantegrity/pollcore/internal/pollerr"
)

// SeedSize is the width of a CSPRNG seed.
const SeedSize = 32

// Seed is a 256-bit CSPRNG seed.
type Seed [SeedSize]byte

// SeedFromBytes truncates or left-copies value into a Seed.
func SeedFromBytes(value []byte) Seed {
	var s Seed
	copy(s[:], value)
	return s
}

// CSPRNG is a ChaCha20 keystream generator seeded by a 256-bit value.
// Nonces are fixed to all-zero since the seed itself is never reused
// across logically distinct roles in the schedule (§4.2 always derives
// a fresh seed for each role before constructing a new CSPRNG).
type CSPRNG struct {
	cipher *chacha20.Cipher
}

// New constructs a CSPRNG from a 256-bit seed.
func New(seed Seed) *CSPRNG {
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce[:])
	if err != nil {
		// Only possible if the key size is wrong, which SeedSize
		// guarantees it is not.
		panic(err)
	}
	return &CSPRNG{cipher: c}
}

// FillBytes fills buf with keystream output.
func (c *CSPRNG) FillBytes(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	c.cipher.XORKeyStream(buf, buf)
}

// NextSeed draws the next 32 bytes of keystream as a new Seed, letting
// one CSPRNG deterministically spawn a sequence of independent
// downstream CSPRNGs (the pattern spec.md §4.2 uses throughout the
// schedule).
func (c *CSPRNG) NextSeed() Seed {
	var s Seed
	c.FillBytes(s[:])
	return s
}

// GenRange returns an unbiased uniform sample from [0, n) by drawing
// 8 bytes of keystream at a time and rejecting values that would bias
// the modulus, following the standard rejection-sampling approach used
// by Rust's rand::Rng::gen_range that this schedule's original
// implementation relied on.
func (c *CSPRNG) GenRange(n uint64) uint64 {
	if n == 0 {
		panic("csprng: GenRange with n == 0")
	}
	// Largest multiple of n that fits in 64 bits; values drawn at or
	// above this threshold are rejected and redrawn to avoid modulo
	// bias.
	limit := (^uint64(0) / n) * n
	var buf [8]byte
	for {
		c.FillBytes(buf[:])
		v := binary.LittleEndian.Uint64(buf[:])
		if v < limit {
			return v % n
		}
	}
}

// Shuffle returns the identity permutation of [0, n) after a
// Fisher-Yates shuffle using c as the source of randomness, matching
// the `permutation.shuffle` step of spec.md §4.2 item 6.
func (c *CSPRNG) Shuffle(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := int(c.GenRange(uint64(i + 1)))
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}

// DistinctSample draws count distinct values uniformly from [0, n) via
// rejection (insert into a set until full), matching the decoy-serial
// sampling of spec.md §4.4. The result is returned in sorted order.
func (c *CSPRNG) DistinctSample(count, n int) ([]int, error) {
	if count > n {
		return nil, pollerr.New(pollerr.ErrCodecError, "cannot draw %d distinct values from [0, %d)", count, n)
	}
	seen := make(map[int]struct{}, count)
	for len(seen) < count {
		seen[int(c.GenRange(uint64(n)))] = struct{}{}
	}
	out := make([]int, 0, count)
	for v := range seen {
		out = append(out, v)
	}
	sort.Ints(out)
	return out, nil
}
