// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package roster implements the voter roster: the CSV an operator
// submits at bind-roster, and the committed form published at step1,
// either in the clear or as salted digests when voter privacy is
// enabled.
package roster

import (
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"io"

	"lukechampine.com/blake3"

	"github.com/scantegrity/pollcore/internal/pollerr"
)

// VoterInfo is one voter's identifying and mailing information.
type VoterInfo struct {
	LastName      string
	FirstName     string
	StreetAddress string
	City          string
	State         string
	ZipCode       string
}

// Record pairs a voter with their position in the roster; position is
// the index voter selection resolves against.
type Record struct {
	Position  int
	VoterInfo VoterInfo
}

// Roster is the full voter roster read from the bind-roster CSV.
type Roster struct {
	Records []Record
}

// FromCSV parses a roster CSV with header
// last_name,first_name,street_address,city,state,zip_code.
func FromCSV(r io.Reader) (*Roster, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, pollerr.New(pollerr.ErrCodecError, "read roster header: %v", err)
	}
	want := []string{"last_name", "first_name", "street_address", "city", "state", "zip_code"}
	if len(header) != len(want) {
		return nil, pollerr.New(pollerr.ErrCodecError, "roster header has %d columns, want %d", len(header), len(want))
	}
	for i := range want {
		if header[i] != want[i] {
			return nil, pollerr.New(pollerr.ErrCodecError, "roster header column %d is %q, want %q", i, header[i], want[i])
		}
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, pollerr.New(pollerr.ErrCodecError, "read roster rows: %v", err)
	}
	records := make([]Record, len(rows))
	for i, row := range rows {
		if len(row) != 6 {
			return nil, pollerr.New(pollerr.ErrCodecError, "roster row %d has %d columns, want 6", i, len(row))
		}
		records[i] = Record{
			Position: i,
			VoterInfo: VoterInfo{
				LastName:      row[0],
				FirstName:     row[1],
				StreetAddress: row[2],
				City:          row[3],
				State:         row[4],
				ZipCode:       row[5],
			},
		}
	}
	return &Roster{Records: records}, nil
}

// Len returns the number of voters in the roster.
func (r *Roster) Len() int { return len(r.Records) }

// LeafString renders a roster row as its Merkle-leaf representation:
// the comma-joined CSV fields, matching the published committed-roster
// row exactly.
func (v VoterInfo) LeafString() string {
	return fmt.Sprintf("%s,%s,%s,%s,%s,%s", v.LastName, v.FirstName, v.StreetAddress, v.City, v.State, v.ZipCode)
}

// restrictedString renders the printed-label form of a voter's
// information: public name line, then private address lines.
func (v VoterInfo) restrictedString() string {
	return fmt.Sprintf("%s, %s\n%s\n%s %s, %s", v.LastName, v.FirstName, v.StreetAddress, v.City, v.State, v.ZipCode)
}

// CommittedRecord is one row of the published committed roster: a
// position and either the plaintext comma-joined row or, under voter
// privacy, a salted digest of it.
type CommittedRecord struct {
	Position int
	Value    string
}

// Commit renders the roster's committed form. With privacy disabled,
// Value is each row's plaintext LeafString. With privacy enabled,
// Value is base64(BLAKE3(salt || leaf_string)), so the roster content
// is fixed to its committed digest without revealing voter information
// in the published file, while remaining bindable once the roster's
// own bytes and the salt are later disclosed for audit.
func (r *Roster) Commit(privacy bool, salt []byte) []CommittedRecord {
	out := make([]CommittedRecord, len(r.Records))
	for i, rec := range r.Records {
		leaf := rec.VoterInfo.LeafString()
		value := leaf
		if privacy {
			value = digestRow(salt, leaf)
		}
		out[i] = CommittedRecord{Position: rec.Position, Value: value}
	}
	return out
}

func digestRow(salt []byte, leaf string) string {
	h := blake3.New(32, nil)
	h.Write(salt)
	h.Write([]byte(leaf))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// WriteCSV serializes committed records as CSV: position,value.
func WriteCSV(w io.Writer, records []CommittedRecord) error {
	cw := csv.NewWriter(w)
	for _, rec := range records {
		if err := cw.Write([]string{fmt.Sprintf("%d", rec.Position), rec.Value}); err != nil {
			return pollerr.New(pollerr.ErrExternalIoError, "write committed roster row: %v", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return pollerr.New(pollerr.ErrExternalIoError, "flush committed roster csv: %v", err)
	}
	return nil
}
