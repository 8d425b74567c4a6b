// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package planes implements the column planes: the permuted,
// selectively encrypted tables whose structure makes Scantegrity-style
// tallies verifiable (spec.md §4.5).
package planes

import (
	"encoding/base64"

	"github.com/scantegrity/pollcore/internal/ballots"
	"github.com/scantegrity/pollcore/internal/corecrypto/aead"
	"github.com/scantegrity/pollcore/internal/pollerr"
)

// Column1Entry is column 1 of a plane row: either the plaintext
// "<serial>: <vote-code>" string or its AEAD-encrypted form.
type Column1Entry struct {
	Plain     string
	Encrypted string // non-empty iff this entry is still encrypted
}

// IsEncrypted reports whether the entry is still in its encrypted
// form.
func (e Column1Entry) IsEncrypted() bool { return e.Encrypted != "" }

// Vote records whether a ballot choice's vote code was seen among the
// submitted votes.
type Vote int

const (
	VoteEmpty Vote = iota
	VoteVoted
	VoteNotVoted
)

func (v Vote) String() string {
	switch v {
	case VoteVoted:
		return "Voted"
	case VoteNotVoted:
		return "Not Voted"
	default:
		return ""
	}
}

// Column3Entry is column 3 of a plane row: either the plaintext
// For/Against/Decoy tag or its AEAD-encrypted form.
type Column3Entry struct {
	Plain     string
	Encrypted string
}

// IsEncrypted reports whether the entry is still in its encrypted
// form.
func (e Column3Entry) IsEncrypted() bool { return e.Encrypted != "" }

// Record is one row of a column plane.
type Record struct {
	Col1 Column1Entry
	Col2 Vote
	Col3 Column3Entry
}

// MarkVoted returns a copy of r with column 2 set to Voted.
func (r Record) MarkVoted() Record { r.Col2 = VoteVoted; return r }

// MarkNotVoted returns a copy of r with column 2 set to NotVoted.
func (r Record) MarkNotVoted() Record { r.Col2 = VoteNotVoted; return r }

// EncryptCell encrypts a column 1 or column 3 plaintext under
// key/nonce, with the base64 of the nonce as associated data (binding the nonce to the
// ciphertext, per spec.md §4.5).
func EncryptCell(plain string, key aead.Key, nonce aead.Nonce) (string, error) {
	aad := []byte(nonceAAD(nonce))
	values, err := aead.EncryptWithNonce(key, nonce, aad, []byte(plain))
	if err != nil {
		return "", err
	}
	return aeadString(values), nil
}

// DecryptCell reverses EncryptCell given the encrypted cell string and
// key.
func DecryptCell(encrypted string, key aead.Key) (string, error) {
	values, err := parseAEADString(encrypted)
	if err != nil {
		return "", err
	}
	plain, err := aead.Decrypt(key, values)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// BallotRow renders the canonical col1 plaintext string
// "<serial>: <vote-code>" for a choice.
func BallotRow(serial, numBallots int, vc ballots.VoteCode) string {
	return ballots.SerialString(serial, numBallots) + ": " + vc.String()
}

// RowSerial returns the canonical (pre-permutation) serial for row r,
// where row 2k is the For row of serial k and row 2k+1 is the Against
// row, per spec.md §4.5 and §3's PlaneRecord row-ordering invariant.
func RowSerial(row int) int { return row / 2 }

// RowChoice returns the canonical choice for row r.
func RowChoice(row int) ballots.Choice {
	if row%2 == 0 {
		return ballots.For
	}
	return ballots.Against
}

// numRowsError is returned when a plane and a companion structure
// (filter, permutation) disagree in row count.
func numRowsError(a, b int) error {
	return pollerr.New(pollerr.ErrCodecError, "row count mismatch: %d != %d", a, b)
}

// nonceAAD renders a nonce as the associated data bound to its cell's
// ciphertext, per spec.md §4.5.
func nonceAAD(nonce aead.Nonce) string {
	return base64.StdEncoding.EncodeToString(nonce[:])
}

// aeadString renders an AEAD ciphertext bundle in its serialized form.
func aeadString(values aead.Values) string {
	return aead.String(values)
}

// parseAEADString parses a cell's serialized AEAD ciphertext bundle.
func parseAEADString(s string) (aead.Values, error) {
	return aead.ParseString(s)
}
