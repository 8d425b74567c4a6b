// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
)

// s1Leaves is the literal leaf set from spec.md's S1 Merkle root
// scenario: a committed roster entry, a vote code, a vote status, a
// sealed ciphertext, and a summand group, padded from five entries to
// eight.
var s1Leaves = []string{
	"Colombier,Gerri,7 Del Sol Lane,Philadelphia,PA,19160",
	"64: 86961-67106-91541-74973",
	"Not Voted",
	"$chacha20_poly1305_aead$GZm76RMgPAkMQMki$R1ptNzZSTWdQQWtNUU1raQ==$OFz4Z9GNmg==$6MzPD1MV07tqNG+JCYkp6Q==$",
	"13, 20, 35, 43, 58, 69, 73, 77, 81, 88, 93, 96",
}

func TestBuildPadsToPowerOfTwo(t *testing.T) {
	tree := Build(s1Leaves)
	if got, want := tree.LeafCount(), 8; got != want {
		t.Fatalf("LeafCount() = %d, want %d\nleaves: %s", got, want, spew.Sdump(tree.Leaves()))
	}
	for i, l := range tree.Leaves()[len(s1Leaves):] {
		if l != padLeaf {
			t.Errorf("pad leaf %d = %q, want %q", i, l, padLeaf)
		}
	}
}

func TestGenProofVerifiesEveryLeaf(t *testing.T) {
	tree := Build(s1Leaves)
	root := tree.Root()
	for i, leaf := range tree.Leaves() {
		proof, err := tree.GenProof(i)
		if err != nil {
			t.Fatalf("GenProof(%d): %v", i, err)
		}
		if got := proof.Lemma[len(proof.Lemma)-1]; got != root {
			t.Fatalf("proof %d claimed root = %x, want %x\nproof: %s", i, got, root, spew.Sdump(proof))
		}
		if !Verify(proof, leaf) {
			t.Fatalf("Verify failed for leaf %d (%q)\nproof: %s", i, leaf, spew.Sdump(proof))
		}
	}
}

func TestVerifyRejectsWrongData(t *testing.T) {
	tree := Build(s1Leaves)
	proof, err := tree.GenProof(2) // "Not Voted"
	if err != nil {
		t.Fatal(err)
	}
	if Verify(proof, "Voted") {
		t.Fatal("Verify accepted mismatched leaf data")
	}
}

func TestVerifyRejectsTamperedLemma(t *testing.T) {
	tree := Build(s1Leaves)
	proof, err := tree.GenProof(2)
	if err != nil {
		t.Fatal(err)
	}
	tampered := proof
	tampered.Lemma = append([]Hash(nil), proof.Lemma...)
	tampered.Lemma[1][0] ^= 0xff
	if Verify(tampered, s1Leaves[2]) {
		t.Fatalf("Verify accepted a flipped byte in the lemma\nlemma: %s", spew.Sdump(tampered.Lemma))
	}
}

func TestHashFromHexRoundTrip(t *testing.T) {
	tree := Build(s1Leaves)
	root := tree.Root()
	parsed, err := HashFromHex(root.HexString())
	if err != nil {
		t.Fatal(err)
	}
	if parsed != root {
		t.Fatalf("HashFromHex round trip mismatch: got %s, want %s", spew.Sdump(parsed), spew.Sdump(root))
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 5: 8, 8: 8, 9: 16}
	for n, want := range cases {
		if got := nextPowerOfTwo(n); got != want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", n, got, want)
		}
	}
}
