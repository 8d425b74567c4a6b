// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package schedule

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testPMK(fill byte) [32]byte {
	var pmk [32]byte
	for i := range pmk {
		pmk[i] = fill
	}
	return pmk
}

// TestDeriveIsDeterministic exercises spec.md §8 property 1: the same
// Poll Master Key always yields the identical secret schedule, byte
// for byte, across every plane.
func TestDeriveIsDeterministic(t *testing.T) {
	pmk := testPMK(0x42)
	first := Derive(pmk)
	second := Derive(pmk)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("Derive(pmk) is not deterministic (-first +second):\n%s", diff)
	}
}

func TestDeriveDiffersAcrossKeys(t *testing.T) {
	a := Derive(testPMK(0x01))
	b := Derive(testPMK(0x02))
	if cmp.Equal(a, b) {
		t.Fatal("Derive produced identical schedules for two different Poll Master Keys")
	}
}

func TestRosterSaltIndependentOfOtherSecrets(t *testing.T) {
	a := Derive(testPMK(0x11))
	b := Derive(testPMK(0x11))
	if diff := cmp.Diff(a.RosterSalt, b.RosterSalt); diff != "" {
		t.Fatalf("RosterSalt is not reproducible from the same PMK (-a +b):\n%s", diff)
	}
	if a.RosterSalt == a.SummandsKey {
		t.Fatal("RosterSalt must not coincide with SummandsKey")
	}
}

func TestResolvePermutationIsDeterministic(t *testing.T) {
	secrets := Derive(testPMK(0x99))
	const numRows = 40
	r1 := secrets.PlaneSecrets[0].Resolve(numRows)
	r2 := secrets.PlaneSecrets[0].Resolve(numRows)
	if diff := cmp.Diff(r1, r2); diff != "" {
		t.Fatalf("Resolve is not deterministic (-r1 +r2):\n%s", diff)
	}
	seen := make(map[int]bool, numRows)
	for _, p := range r1.Permutation {
		if seen[p] {
			t.Fatalf("permutation repeats index %d: %v", p, r1.Permutation)
		}
		seen[p] = true
	}
	if len(seen) != numRows {
		t.Fatalf("permutation has %d distinct entries, want %d", len(seen), numRows)
	}
}

func TestPlaneSecretsDifferAcrossPlanes(t *testing.T) {
	secrets := Derive(testPMK(0x77))
	if cmp.Equal(secrets.PlaneSecrets[0], secrets.PlaneSecrets[1]) {
		t.Fatal("plane 0 and plane 1 derived identical secrets")
	}
}
