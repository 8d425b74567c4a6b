// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package roster

import (
	"strings"
	"testing"
)

const sampleCSV = `last_name,first_name,street_address,city,state,zip_code
Colombier,Gerri,7 Del Sol Lane,Philadelphia,PA,19160
Smith,John,1 Main St,Springfield,IL,62701
`

func TestFromCSVLeafString(t *testing.T) {
	roster, err := FromCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	if roster.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", roster.Len())
	}
	got := roster.Records[0].VoterInfo.LeafString()
	want := "Colombier,Gerri,7 Del Sol Lane,Philadelphia,PA,19160"
	if got != want {
		t.Fatalf("leaf string = %q, want %q", got, want)
	}
}

func TestCommitPrivacyHidesValue(t *testing.T) {
	roster, err := FromCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	salt := []byte("roster-salt")

	plain := roster.Commit(false, salt)
	if plain[0].Value != roster.Records[0].VoterInfo.LeafString() {
		t.Fatalf("expected plaintext commit to equal leaf string")
	}

	private := roster.Commit(true, salt)
	if private[0].Value == plain[0].Value {
		t.Fatalf("expected privacy-committed value to differ from plaintext")
	}

	private2 := roster.Commit(true, salt)
	if private[0].Value != private2[0].Value {
		t.Fatalf("expected deterministic commit for same salt")
	}

	otherSalt := roster.Commit(true, []byte("different-salt"))
	if private[0].Value == otherSalt[0].Value {
		t.Fatalf("expected different salts to produce different digests")
	}
}
