// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package aead implements the authenticated-encryption scheme used to
// protect every secret published or persisted by pollcore: trustee
// shares, the encrypted poll configuration, and the two encrypted
// columns of every column plane cell.
//
// The scheme is ChaCha20-Poly1305 with a 256-bit key, a 96-bit nonce,
// and a 128-bit tag, matching spec.md §4.1.
package aead

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/scantegrity/pollcore/internal/pollerr"
)

// KeySize, NonceSize, and TagSize mirror the ChaCha20-Poly1305 IETF
// variant's fixed widths.
const (
	KeySize   = chacha20poly1305.KeySize   // 32 bytes
	NonceSize = chacha20poly1305.NonceSize  // 12 bytes
	TagSize   = 16                          // 128 bits
)

// Scheme names the serialised tag prepended to every encoded AEAD
// string, so future schemes can be distinguished on disk.
const Scheme = "chacha20_poly1305_aead"

// Key is a 256-bit ChaCha20-Poly1305 key.
type Key [KeySize]byte

// Nonce is a 96-bit ChaCha20-Poly1305 nonce.
type Nonce [NonceSize]byte

// KeyFromBytes truncates or left-copies value into a Key. Values
// shorter than KeySize are zero-padded on the right.
func KeyFromBytes(value []byte) Key {
	var k Key
	n := copy(k[:], value)
	_ = n
	return k
}

// Values holds the four components of an authenticated-encryption
// operation: the nonce, the associated data, the ciphertext, and the
// authentication tag.
type Values struct {
	Nonce      []byte
	AAD        []byte
	Ciphertext []byte
	Tag        []byte
}

// Encrypt authenticates and encrypts value under key with a randomly
// generated nonce drawn from the system CSPRNG.
func Encrypt(key Key, aad, value []byte) (Values, error) {
	var nonce Nonce
	if _, err := rand.Read(nonce[:]); err != nil {
		return Values{}, pollerr.New(pollerr.ErrExternalIoError, "read random nonce: %v", err)
	}
	return EncryptWithNonce(key, nonce, aad, value)
}

// EncryptWithNonce authenticates and encrypts value under key using a
// caller-supplied nonce. Deterministic callers (the secret schedule)
// use this to reproduce a prior ciphertext bit-for-bit; all other
// callers should prefer Encrypt.
func EncryptWithNonce(key Key, nonce Nonce, aad, value []byte) (Values, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return Values{}, pollerr.New(pollerr.ErrExternalIoError, "construct aead cipher: %v", err)
	}
	sealed := aead.Seal(nil, nonce[:], value, aad)
	ct := sealed[:len(sealed)-TagSize]
	tag := sealed[len(sealed)-TagSize:]
	return Values{
		Nonce:      append([]byte(nil), nonce[:]...),
		AAD:        append([]byte(nil), aad...),
		Ciphertext: append([]byte(nil), ct...),
		Tag:        append([]byte(nil), tag...),
	}, nil
}

// Decrypt verifies and decrypts values under key, returning
// pollerr.ErrAuthenticationFailed if the tag or associated data do not
// match.
func Decrypt(key Key, values Values) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, pollerr.New(pollerr.ErrExternalIoError, "construct aead cipher: %v", err)
	}
	if len(values.Nonce) != NonceSize {
		return nil, pollerr.New(pollerr.ErrAuthenticationFailed, "invalid nonce length %d", len(values.Nonce))
	}
	sealed := append(append([]byte(nil), values.Ciphertext...), values.Tag...)
	plaintext, err := aead.Open(nil, values.Nonce, sealed, values.AAD)
	if err != nil {
		return nil, pollerr.New(pollerr.ErrAuthenticationFailed, "aead authentication failed: %v", err)
	}
	return plaintext, nil
}

// String serialises Values into the dollar-delimited form
// "$chacha20_poly1305_aead$<nonce64>$<aad64>$<ct64>$<tag64>$".
func String(values Values) string {
	return fmt.Sprintf("$%s$%s$%s$%s$%s$",
		Scheme,
		base64.StdEncoding.EncodeToString(values.Nonce),
		base64.StdEncoding.EncodeToString(values.AAD),
		base64.StdEncoding.EncodeToString(values.Ciphertext),
		base64.StdEncoding.EncodeToString(values.Tag))
}

// ParseString parses the dollar-delimited full form produced by
// String.
func ParseString(s string) (Values, error) {
	parts := strings.Split(s, "$")
	if len(parts) != 7 || parts[1] != Scheme {
		return Values{}, pollerr.New(pollerr.ErrCodecError, "malformed aead string")
	}
	nonce, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return Values{}, pollerr.New(pollerr.ErrCodecError, "decode nonce: %v", err)
	}
	aad, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return Values{}, pollerr.New(pollerr.ErrCodecError, "decode aad: %v", err)
	}
	ct, err := base64.StdEncoding.DecodeString(parts[4])
	if err != nil {
		return Values{}, pollerr.New(pollerr.ErrCodecError, "decode ciphertext: %v", err)
	}
	tag, err := base64.StdEncoding.DecodeString(parts[5])
	if err != nil {
		return Values{}, pollerr.New(pollerr.ErrCodecError, "decode tag: %v", err)
	}
	return Values{Nonce: nonce, AAD: aad, Ciphertext: ct, Tag: tag}, nil
}

// Authenticate seals data as associated data with an empty plaintext,
// producing a tag that proves data's integrity under key without
// hiding it. Used for fields that must remain visible on disk but
// tamper-evident: a poll's identifier and its signing public key.
func Authenticate(key Key, data []byte) (string, error) {
	values, err := Encrypt(key, data, nil)
	if err != nil {
		return "", err
	}
	return String(values), nil
}

// OpenAuthenticated verifies a string produced by Authenticate and
// returns the authenticated data.
func OpenAuthenticated(key Key, s string) ([]byte, error) {
	values, err := ParseString(s)
	if err != nil {
		return nil, err
	}
	if _, err := Decrypt(key, values); err != nil {
		return nil, err
	}
	return values.AAD, nil
}

// ShortString serialises the envelope form used inside the secured
// file container, "$chacha20_poly1305_aead$<nonce64>$<tag64>$", where
// the AAD and ciphertext are carried separately from the envelope.
func ShortString(nonce, tag []byte) string {
	return fmt.Sprintf("$%s$%s$%s$",
		Scheme,
		base64.StdEncoding.EncodeToString(nonce),
		base64.StdEncoding.EncodeToString(tag))
}

// ParseShortString parses the envelope form produced by ShortString,
// returning the decoded nonce and tag.
func ParseShortString(s string) (nonce, tag []byte, err error) {
	parts := strings.Split(s, "$")
	if len(parts) != 5 || parts[1] != Scheme {
		return nil, nil, pollerr.New(pollerr.ErrCodecError, "malformed aead envelope string")
	}
	nonce, err = base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, nil, pollerr.New(pollerr.ErrCodecError, "decode nonce: %v", err)
	}
	tag, err = base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return nil, nil, pollerr.New(pollerr.ErrCodecError, "decode tag: %v", err)
	}
	return nonce, tag, nil
}
