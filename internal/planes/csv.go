// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package planes

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/scantegrity/pollcore/internal/pollerr"
)

// PlaneRecordFileRow is one row of a plane's published CSV form:
// column 1, column 2, and column 3 as literal strings (encrypted or
// plain depending on reveal state).
type PlaneRecordFileRow struct {
	Col1 string
	Col2 string
	Col3 string
}

func recordToRow(r Record) PlaneRecordFileRow {
	col1 := r.Col1.Encrypted
	if !r.Col1.IsEncrypted() {
		col1 = r.Col1.Plain
	}
	col3 := r.Col3.Encrypted
	if !r.Col3.IsEncrypted() {
		col3 = r.Col3.Plain
	}
	return PlaneRecordFileRow{Col1: col1, Col2: r.Col2.String(), Col3: col3}
}

// WriteCSV serializes a permuted plane as CSV, one row per permuted
// row, in column order col1,col2,col3.
func (pp *PermutedPlane) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	for _, r := range pp.Rows {
		row := recordToRow(r)
		if err := cw.Write([]string{row.Col1, row.Col2, row.Col3}); err != nil {
			return pollerr.New(pollerr.ErrExternalIoError, "write plane csv row: %v", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return pollerr.New(pollerr.ErrExternalIoError, "flush plane csv: %v", err)
	}
	return nil
}

// ReadPermutedPlaneCSV parses a published plane's CSV form back into
// its rows, given the permutation it was published under. Column 2 is
// parsed from its rendered string back into a Vote.
func ReadPermutedPlaneCSV(r io.Reader, permutation []int) (*PermutedPlane, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, pollerr.New(pollerr.ErrExternalIoError, "read plane csv: %v", err)
	}
	if len(rows) != len(permutation) {
		return nil, numRowsError(len(rows), len(permutation))
	}

	out := make([]Record, len(rows))
	for i, row := range rows {
		var vote Vote
		switch row[1] {
		case "Voted":
			vote = VoteVoted
		case "Not Voted":
			vote = VoteNotVoted
		default:
			vote = VoteEmpty
		}
		out[i] = Record{
			Col1: Column1Entry{Encrypted: row[0]},
			Col2: vote,
			Col3: Column3Entry{Encrypted: row[2]},
		}
	}
	return &PermutedPlane{Rows: out, Permutation: append([]int(nil), permutation...)}, nil
}

// PlaneFilterFileRecord is one CSV row of an emitted key file.
type PlaneFilterFileRecord struct {
	Row     int
	Col1Key string
	Col3Key string
}

// WriteCSV serializes a permuted plane filter as CSV: permuted row
// index, col1 key (or empty), col3 key (or empty).
func (pf *PermutedPlaneFilter) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	for i, rec := range pf.Records {
		if err := cw.Write([]string{strconv.Itoa(i), rec.Col1Key, rec.Col3Key}); err != nil {
			return pollerr.New(pollerr.ErrExternalIoError, "write plane filter csv row: %v", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return pollerr.New(pollerr.ErrExternalIoError, "flush plane filter csv: %v", err)
	}
	return nil
}
