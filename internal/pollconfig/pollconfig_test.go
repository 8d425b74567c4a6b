// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pollconfig

import (
	"bytes"
	"errors"
	"testing"

	"github.com/scantegrity/pollcore/internal/corecrypto/kdf"
	"github.com/scantegrity/pollcore/internal/pollerr"
)

func TestTrusteeShareRoundTrip(t *testing.T) {
	share := []byte{1, 2, 3, 4, 5}
	encrypted, err := EncryptTrusteeShare("correct horse", "alice", share, kdf.ParamsDev)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	decrypted, err := DecryptTrusteeShare("correct horse", "alice", encrypted)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(share, decrypted) {
		t.Fatalf("round trip mismatch: got %v, want %v", decrypted, share)
	}
}

func TestTrusteeShareRejectsWrongIdentity(t *testing.T) {
	encrypted, err := EncryptTrusteeShare("pw", "alice", []byte{9}, kdf.ParamsDev)
	if err != nil {
		t.Fatal(err)
	}
	_, err = DecryptTrusteeShare("pw", "bob", encrypted)
	if !errors.Is(err, pollerr.ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed for mismatched identity, got %v", err)
	}
}

func TestPollMasterKeyShareReconstruct(t *testing.T) {
	pmk, err := NewPollMasterKey()
	if err != nil {
		t.Fatal(err)
	}
	const n = 5
	shares, err := SharePollMasterKey(pmk, n)
	if err != nil {
		t.Fatal(err)
	}
	// majority threshold for n=5 is 3.
	reconstructed, err := ReconstructPollMasterKey(shares[:3], n)
	if err != nil {
		t.Fatal(err)
	}
	if reconstructed != pmk {
		t.Fatalf("reconstructed PMK mismatch")
	}
	if _, err := ReconstructPollMasterKey(shares[:2], n); !errors.Is(err, pollerr.ErrSharesBelowThreshold) {
		t.Fatalf("expected ErrSharesBelowThreshold with 2 shares, got %v", err)
	}
}

func TestSealOpenPollConfiguration(t *testing.T) {
	pmk, err := NewPollMasterKey()
	if err != nil {
		t.Fatal(err)
	}
	cfg := PollConfiguration{NumBallots: 100, NumDecoys: 5, Question: "Adopt the bylaw?"}
	trustees := []PollConfigurationTrustee{{Identifier: "alice", Share: "x"}}

	sealed, err := SealPollConfiguration("poll-1", trustees, cfg, "signing-pubkey", pmk)
	if err != nil {
		t.Fatal(err)
	}
	identifier, opened, pubkey, err := sealed.Open(pmk)
	if err != nil {
		t.Fatal(err)
	}
	if identifier != "poll-1" {
		t.Fatalf("identifier mismatch: %q", identifier)
	}
	if opened.NumBallots != cfg.NumBallots || opened.Question != cfg.Question {
		t.Fatalf("opened config mismatch: %+v", opened)
	}
	if pubkey != "signing-pubkey" {
		t.Fatalf("pubkey mismatch: %q", pubkey)
	}

	var wrongPMK [32]byte
	copy(wrongPMK[:], pmk[:])
	wrongPMK[0] ^= 0xff
	if _, _, _, err := sealed.Open(wrongPMK); !errors.Is(err, pollerr.ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed opening with wrong PMK, got %v", err)
	}
}
