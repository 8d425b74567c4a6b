// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package kdf derives symmetric keys from trustee passwords using
// scrypt, per spec.md §4.1.
package kdf

import (
	"crypto/rand"

	"golang.org/x/crypto/scrypt"

	"github.com/scantegrity/pollcore/internal/pollerr"
)

// SaltSize is the width of a randomly generated scrypt salt.
const SaltSize = 32

// OutputSize is the width of the derived key.
const OutputSize = 32

// Params holds the scrypt cost parameters (N = 2^LogN, r, p).
type Params struct {
	LogN int
	R    int
	P    int
}

// ParamsDev are the (N=2^4, r=3, p=1) cost parameters. They are fast
// enough for tests and local development but are not suitable for
// production: see ParamsProd.
var ParamsDev = Params{LogN: 4, R: 3, P: 1}

// ParamsProd are the (N=2^20, r=8, p=1) cost parameters intended for
// production use. pollcore's `new` command requires these unless
// --allow-dev-kdf is explicitly passed.
var ParamsProd = Params{LogN: 20, R: 8, P: 1}

// Values holds the public parameters needed to re-derive a key from a
// password: the salt and the cost parameters used.
type Values struct {
	Salt   []byte
	Params Params
}

// Derive generates a fresh random salt and derives a key from
// password using params, returning both the key and the Values needed
// to re-derive it later.
func Derive(password string, params Params) ([]byte, Values, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, Values{}, pollerr.New(pollerr.ErrExternalIoError, "read random salt: %v", err)
	}
	values := Values{Salt: salt, Params: params}
	key, err := DeriveWithValues(password, values)
	return key, values, err
}

// DeriveWithValues re-derives a key from password using a previously
// generated salt and parameter set. Used both for verification and for
// re-deriving a key to decrypt a previously encrypted trustee share.
func DeriveWithValues(password string, values Values) ([]byte, error) {
	n := 1 << uint(values.Params.LogN)
	key, err := scrypt.Key([]byte(password), values.Salt, n, values.Params.R, values.Params.P, OutputSize)
	if err != nil {
		return nil, pollerr.New(pollerr.ErrExternalIoError, "scrypt derivation failed: %v", err)
	}
	return key, nil
}
