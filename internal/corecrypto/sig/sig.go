// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package sig implements the Ed25519 signing used to certify
// published artifacts (spec.md §4.1). The signing key lives inside the
// encrypted poll configuration; the public key is carried as
// associated data in the secured container so tampering is detectable
// even without the Poll Master Key.
package sig

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/agl/ed25519"

	"github.com/scantegrity/pollcore/internal/pollerr"
)

// PublicKeySize and SignatureSize mirror agl/ed25519's fixed widths.
// PrivateKeySize is agl/ed25519's NaCl-style representation: the
// 32-byte seed followed by the 32-byte public key.
const (
	PublicKeySize  = 32
	PrivateKeySize = 64
	SignatureSize  = 64
)

// NewSigningKey generates a fresh Ed25519 key pair, returning the
// base64-encoded private key and base64-encoded public key.
func NewSigningKey() (priv64, pub64 string, err error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", "", pollerr.New(pollerr.ErrExternalIoError, "generate signing key: %v", err)
	}
	return base64.StdEncoding.EncodeToString(priv[:]),
		base64.StdEncoding.EncodeToString(pub[:]), nil
}

// Sign signs data with the Ed25519 key whose base64-encoded private
// key is priv64, returning the raw signature bytes.
func Sign(priv64 string, data []byte) ([]byte, error) {
	priv, err := base64.StdEncoding.DecodeString(priv64)
	if err != nil {
		return nil, pollerr.New(pollerr.ErrCodecError, "decode signing key: %v", err)
	}
	if len(priv) != PrivateKeySize {
		return nil, pollerr.New(pollerr.ErrCodecError, "signing key must be %d bytes, got %d", PrivateKeySize, len(priv))
	}
	var privArr [64]byte
	copy(privArr[:], priv)
	sig := ed25519.Sign(&privArr, data)
	return sig[:], nil
}

// Verify checks sig over data using the base64-encoded public key
// pub64.
func Verify(pub64 string, data, signature []byte) (bool, error) {
	pub, err := base64.StdEncoding.DecodeString(pub64)
	if err != nil {
		return false, pollerr.New(pollerr.ErrCodecError, "decode public key: %v", err)
	}
	if len(pub) != PublicKeySize || len(signature) != SignatureSize {
		return false, nil
	}
	var pubArr [32]byte
	var sigArr [64]byte
	copy(pubArr[:], pub)
	copy(sigArr[:], signature)
	return ed25519.Verify(&pubArr, data, &sigArr), nil
}
