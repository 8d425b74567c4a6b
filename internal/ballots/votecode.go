// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ballots generates the deterministic artifacts printed on a
// physical ballot: 20-digit vote codes with decimal parity, decoy
// serials, and the For/Against choice pairing, per spec.md §4.3-§4.4.
package ballots

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/dchest/siphash"

	"github.com/scantegrity/pollcore/internal/corecrypto/csprng"
	"github.com/scantegrity/pollcore/internal/corecrypto/fdr"
	"github.com/scantegrity/pollcore/internal/pollerr"
)

const (
	numGroups       = 4
	groupDataDigits = 4
	// Length of a vote code's digit string before grouping with
	// hyphens: 4 groups of (4 data digits + 1 parity digit).
	CodeLength = numGroups * (groupDataDigits + 1)
	// noParityLength is the width of the 16-digit unparitied code.
	noParityLength = numGroups * groupDataDigits
)

// npvcModulus is 10^16, the modulus for the unparitied 16-digit code.
var npvcModulus = new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(noParityLength)), nil)

// Choice identifies which half of a ballot a vote code belongs to.
type Choice int

const (
	For Choice = iota
	Against
)

// String renders Choice the way it is printed on a ballot and in the
// plane's col3 entries.
func (c Choice) String() string {
	switch c {
	case For:
		return "For"
	case Against:
		return "Against"
	default:
		return "Against"
	}
}

// VoteCode is a 20-digit vote code: the 16 random digits plus one
// parity digit per group of 4.
type VoteCode struct {
	Digits [CodeLength]byte
}

// String returns vc as a hyphen-grouped string, e.g.
// "12340-56784-..." with 5-digit groups (4 data + 1 parity).
func (vc VoteCode) String() string {
	groups := make([]string, numGroups)
	for g := 0; g < numGroups; g++ {
		base := g * (groupDataDigits + 1)
		var sb strings.Builder
		for i := 0; i < groupDataDigits+1; i++ {
			sb.WriteByte('0' + vc.Digits[base+i])
		}
		groups[g] = sb.String()
	}
	return strings.Join(groups, "-")
}

// ParseVoteCode parses a vote code string with or without hyphens.
func ParseVoteCode(s string) (VoteCode, error) {
	clean := strings.ReplaceAll(s, "-", "")
	if len(clean) != CodeLength {
		return VoteCode{}, pollerr.New(pollerr.ErrCodecError, "vote code must have %d digits, got %d", CodeLength, len(clean))
	}
	var vc VoteCode
	for i, r := range clean {
		if r < '0' || r > '9' {
			return VoteCode{}, pollerr.New(pollerr.ErrCodecError, "vote code contains non-digit %q", r)
		}
		vc.Digits[i] = byte(r - '0')
	}
	return vc, nil
}

// ValidParity reports whether every group's parity digit makes the
// group sum a multiple of 10, per spec.md §3's VoteCode invariant.
func (vc VoteCode) ValidParity() bool {
	for g := 0; g < numGroups; g++ {
		base := g * (groupDataDigits + 1)
		sum := 0
		for i := 0; i < groupDataDigits+1; i++ {
			sum += int(vc.Digits[base+i])
		}
		if sum%10 != 0 {
			return false
		}
	}
	return true
}

// siphashKey is a fixed, non-secret key used only to build an
// in-memory dedup index over submitted vote codes during `audit`; it
// has no bearing on vote-code secrecy, which rests entirely on the
// CSPRNG-derived digits themselves.
var siphashKey0, siphashKey1 uint64 = 0x506f6c6c636f7265, 0x766f7465636f6465

// DedupKey returns a fast 64-bit SipHash digest of vc suitable for use
// as a map key when bulk-matching large submitted-vote files against
// the reconstructed vote-code-to-ballot map.
func (vc VoteCode) DedupKey() uint64 {
	return siphash.Hash(siphashKey0, siphashKey1, vc.Digits[:])
}

// GenerateVoteCodes deterministically produces count vote codes from
// seed. Ballot k uses codes 2k (For) and 2k+1 (Against), per spec.md
// §4.3.
//
// The 16-digit no-parity body is drawn via the Fast Dice Roller fed by
// a CSPRNG byte buffer, growing the buffer by 1024 bytes and retrying
// whenever the roller runs out of bits.
func GenerateVoteCodes(seed csprng.Seed, count int) []VoteCode {
	var npvcs []*big.Int
	numBytes := 1024
	for {
		rng := csprng.New(seed)
		buf := make([]byte, numBytes)
		rng.FillBytes(buf)
		roller := fdr.FromBytes(buf)
		npvcs = make([]*big.Int, 0, count)
		ok := true
		for i := 0; i < count; i++ {
			v, got := roller.Random(npvcModulus)
			if !got {
				ok = false
				break
			}
			npvcs = append(npvcs, v)
		}
		if ok {
			break
		}
		numBytes += 1024
	}

	codes := make([]VoteCode, count)
	for i, npvc := range npvcs {
		digits := digitsOf(npvc, noParityLength)
		var vc VoteCode
		// Interleave the 16 data digits into the 20-digit code,
		// leaving room for one parity digit after every 4.
		for g := 0; g < numGroups; g++ {
			for d := 0; d < groupDataDigits; d++ {
				vc.Digits[g*(groupDataDigits+1)+d] = digits[g*groupDataDigits+d]
			}
		}
		// Compute each group's parity digit so the group sum is a
		// multiple of 10.
		for g := 0; g < numGroups; g++ {
			base := g * (groupDataDigits + 1)
			sum := 0
			for d := 0; d < groupDataDigits; d++ {
				sum += int(vc.Digits[base+d])
			}
			vc.Digits[base+groupDataDigits] = byte(((groupDataDigits * 10) - sum) % 10)
		}
		codes[i] = vc
	}
	return codes
}

// digitsOf renders v as exactly width decimal digits, most significant
// first.
func digitsOf(v *big.Int, width int) []byte {
	s := v.String()
	for len(s) < width {
		s = "0" + s
	}
	digits := make([]byte, width)
	for i := 0; i < width; i++ {
		digits[i] = s[i] - '0'
	}
	return digits
}

// SerialString renders a zero-padded serial wide enough to represent
// every serial in [0, numBallots).
func SerialString(serial, numBallots int) string {
	digits := 1
	max := 10
	for numBallots-1 >= max {
		max *= 10
		digits++
	}
	return padLeft(strconv.Itoa(serial), digits)
}

func padLeft(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}
