// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package aead

import (
	"bytes"
	"testing"
)

func testKey() Key {
	var k Key
	for i := range k {
		k[i] = byte(i)
	}
	return k
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := testKey()
	aad := []byte("poll-identifier")
	plaintext := []byte("the quick brown fox")

	values, err := Encrypt(key, aad, plaintext)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decrypt(key, values)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("Decrypt() = %q, want %q", got, plaintext)
	}
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	key := testKey()
	values, err := Encrypt(key, nil, []byte("vote code payload"))
	if err != nil {
		t.Fatal(err)
	}
	values.Ciphertext[0] ^= 0xff
	if _, err := Decrypt(key, values); err == nil {
		t.Fatal("Decrypt accepted tampered ciphertext")
	}
}

func TestStringParseStringRoundTrip(t *testing.T) {
	key := testKey()
	values, err := Encrypt(key, []byte("aad"), []byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	s := String(values)
	parsed, err := ParseString(s)
	if err != nil {
		t.Fatalf("ParseString(%q): %v", s, err)
	}
	if !bytes.Equal(parsed.Nonce, values.Nonce) || !bytes.Equal(parsed.AAD, values.AAD) ||
		!bytes.Equal(parsed.Ciphertext, values.Ciphertext) || !bytes.Equal(parsed.Tag, values.Tag) {
		t.Fatalf("ParseString round trip mismatch: got %+v, want %+v", parsed, values)
	}
	if _, err := Decrypt(key, parsed); err != nil {
		t.Fatalf("Decrypt(ParseString(String(values))): %v", err)
	}
}

func TestParseStringRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"not-an-aead-string",
		"$chacha20_poly1305_aead$onlyonepart$",
		"$wrong_scheme$AAAA$AAAA$AAAA$AAAA$",
	}
	for _, c := range cases {
		if _, err := ParseString(c); err == nil {
			t.Errorf("ParseString(%q) succeeded, want error", c)
		}
	}
}

func TestAuthenticateOpenAuthenticatedRoundTrip(t *testing.T) {
	key := testKey()
	data := []byte("example-poll-2026")
	s, err := Authenticate(key, data)
	if err != nil {
		t.Fatal(err)
	}
	got, err := OpenAuthenticated(key, s)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("OpenAuthenticated() = %q, want %q", got, data)
	}
}

func TestOpenAuthenticatedRejectsTamperedEnvelope(t *testing.T) {
	key := testKey()
	s, err := Authenticate(key, []byte("example-poll-2026"))
	if err != nil {
		t.Fatal(err)
	}
	tampered := s[:len(s)-3] + "xx$"
	if _, err := OpenAuthenticated(key, tampered); err == nil {
		t.Fatal("OpenAuthenticated accepted a tampered envelope")
	}
}

func TestShortStringParseShortStringRoundTrip(t *testing.T) {
	key := testKey()
	values, err := EncryptWithNonce(key, Nonce{1, 2, 3}, []byte("aad"), []byte("cell"))
	if err != nil {
		t.Fatal(err)
	}
	s := ShortString(values.Nonce, values.Tag)
	nonce, tag, err := ParseShortString(s)
	if err != nil {
		t.Fatalf("ParseShortString(%q): %v", s, err)
	}
	if !bytes.Equal(nonce, values.Nonce) || !bytes.Equal(tag, values.Tag) {
		t.Fatalf("ParseShortString round trip mismatch: got nonce=%x tag=%x, want nonce=%x tag=%x",
			nonce, tag, values.Nonce, values.Tag)
	}
}

func TestParseShortStringRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"$chacha20_poly1305_aead$onlynonce$",
		"$wrong_scheme$AAAA$AAAA$",
	}
	for _, c := range cases {
		if _, _, err := ParseShortString(c); err == nil {
			t.Errorf("ParseShortString(%q) succeeded, want error", c)
		}
	}
}
