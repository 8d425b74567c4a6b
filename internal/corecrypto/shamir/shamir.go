// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package shamir implements Shamir secret sharing over the prime
// field Z_32749, the largest 15-bit prime, per spec.md §4.1. Sharing
// operates byte-by-byte: each secret byte is shared independently and
// the resulting share vectors are transposed so that each trustee
// receives one share per secret byte plus a leading index word.
package shamir

import (
	"crypto/rand"
	"math/big"

	"github.com/scantegrity/pollcore/internal/pollerr"
)

// Prime is the modulus of the sharing field, the largest prime below
// 2^15: every field element fits a 16-bit word, and every 8-bit secret
// byte is representable.
const Prime int64 = 32749

// Share is one trustee's share of a secret: a leading index followed
// by one field element per secret byte.
type Share struct {
	Index  uint16
	Values []uint16
}

// Sharing parameterizes a Shamir sharing/reconstruction scheme by its
// threshold and the total number of shares to generate.
type Sharing struct {
	Threshold  int
	ShareCount int
}

// MajorityThreshold returns the sharing's threshold when configured
// for "majority plus one if even" quorum: ⌈N/2⌉ + (N mod 2 == 0 ? 1 :
// 0), matching spec.md's TrusteeShare invariant.
func MajorityThreshold(shareCount int) int {
	return (shareCount+1)/2 + (1 - (shareCount % 2))
}

// New constructs a Sharing with the majority threshold for shareCount
// trustees.
func New(shareCount int) Sharing {
	return Sharing{Threshold: MajorityThreshold(shareCount), ShareCount: shareCount}
}

// NewWithThreshold constructs a Sharing with an explicit threshold,
// for callers (e.g. tests) that need to exercise non-default quorums.
func NewWithThreshold(shareCount, threshold int) Sharing {
	return Sharing{Threshold: threshold, ShareCount: shareCount}
}

func evalPoly(coeffs []int64, x int64) int64 {
	var acc int64
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc = (acc*x + coeffs[i]) % Prime
	}
	return ((acc % Prime) + Prime) % Prime
}

func shareByte(secretByte byte, threshold, shareCount int) ([]int64, error) {
	coeffs := make([]int64, threshold)
	coeffs[0] = int64(secretByte)
	max := big.NewInt(Prime)
	for i := 1; i < threshold; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return nil, pollerr.New(pollerr.ErrExternalIoError, "read random coefficient: %v", err)
		}
		coeffs[i] = n.Int64()
	}
	shares := make([]int64, shareCount)
	for x := 0; x < shareCount; x++ {
		shares[x] = evalPoly(coeffs, int64(x+1))
	}
	return shares, nil
}

// Share splits secret into s.ShareCount shares such that any
// s.Threshold of them reconstruct it.
func (s Sharing) Share(secret []byte) ([]Share, error) {
	transposed := make([][]int64, len(secret))
	for i, b := range secret {
		row, err := shareByte(b, s.Threshold, s.ShareCount)
		if err != nil {
			return nil, err
		}
		transposed[i] = row
	}
	shares := make([]Share, s.ShareCount)
	for n := 0; n < s.ShareCount; n++ {
		values := make([]uint16, len(secret))
		for i := range secret {
			values[i] = uint16(transposed[i][n])
		}
		shares[n] = Share{Index: uint16(n), Values: values}
	}
	return shares, nil
}

// modInverse returns the multiplicative inverse of a modulo Prime.
func modInverse(a int64) int64 {
	a = ((a % Prime) + Prime) % Prime
	// Prime is prime, so Fermat's little theorem gives a^(p-2) = a^-1.
	return new(big.Int).Exp(big.NewInt(a), big.NewInt(Prime-2), big.NewInt(Prime)).Int64()
}

// lagrangeAtZero evaluates the unique degree-(len(shares)-1)
// polynomial interpolated through (xs[i], ys[i]) at x == 0.
func lagrangeAtZero(xs, ys []int64) int64 {
	var result int64
	for i := range xs {
		num := int64(1)
		den := int64(1)
		for j := range xs {
			if i == j {
				continue
			}
			num = (num * (-xs[j] % Prime + Prime)) % Prime
			den = (den * ((xs[i]-xs[j])%Prime + Prime)) % Prime
		}
		term := (ys[i] * num) % Prime
		term = (term * modInverse(den)) % Prime
		result = (result + term) % Prime
	}
	return ((result % Prime) + Prime) % Prime
}

// Reconstruct recovers the original secret from exactly s.Threshold
// shares.
func (s Sharing) Reconstruct(shares []Share) ([]byte, error) {
	if len(shares) < s.Threshold {
		return nil, pollerr.New(pollerr.ErrSharesBelowThreshold,
			"need at least %d shares, got %d", s.Threshold, len(shares))
	}
	use := shares[:s.Threshold]
	secretLen := len(use[0].Values)
	xs := make([]int64, len(use))
	for i, sh := range use {
		xs[i] = int64(sh.Index) + 1
	}
	secret := make([]byte, secretLen)
	for byteIdx := 0; byteIdx < secretLen; byteIdx++ {
		ys := make([]int64, len(use))
		for i, sh := range use {
			ys[i] = int64(sh.Values[byteIdx])
		}
		secret[byteIdx] = byte(lagrangeAtZero(xs, ys))
	}
	return secret, nil
}
