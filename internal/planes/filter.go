// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package planes

import (
	"encoding/base64"

	"github.com/scantegrity/pollcore/internal/ballots"
	"github.com/scantegrity/pollcore/internal/schedule"
)

// PlaneFilterEntry records, for one canonical row, whether column 1
// and/or column 3 should be revealed.
type PlaneFilterEntry struct {
	RevealCol1 bool
	RevealCol3 bool
}

// PlaneFilter selects which cells of a plane to reveal. It is built up
// by composing DecryptSerials and DecryptColumn calls starting from
// "reveal nothing", per spec.md §4.5.
type PlaneFilter struct {
	Entries []PlaneFilterEntry // indexed by canonical (pre-permutation) row
}

// NewPlaneFilter returns a filter over numRows rows with every cell
// marked "don't reveal".
func NewPlaneFilter(numRows int) *PlaneFilter {
	return &PlaneFilter{Entries: make([]PlaneFilterEntry, numRows)}
}

// DecryptSerials marks both columns of the two rows (For and Against)
// matching each serial in serials as revealed.
func (f *PlaneFilter) DecryptSerials(serials []ballots.Serial) {
	for _, s := range serials {
		forRow := 2 * s
		againstRow := forRow + 1
		f.Entries[forRow].RevealCol1 = true
		f.Entries[forRow].RevealCol3 = true
		f.Entries[againstRow].RevealCol1 = true
		f.Entries[againstRow].RevealCol3 = true
	}
}

// DecryptColumn marks column col (0 = col1, 1 = col3) revealed on
// every row.
func (f *PlaneFilter) DecryptColumn(col int) {
	for i := range f.Entries {
		switch col {
		case 0:
			f.Entries[i].RevealCol1 = true
		case 1:
			f.Entries[i].RevealCol3 = true
		}
	}
}

// PlaneFilterRecord is one row of an emitted key file: the base64 key
// for each column the filter marks revealed, an empty string
// otherwise.
type PlaneFilterRecord struct {
	Col1Key string
	Col3Key string
}

// PermutedPlaneFilter is a PlaneFilter's decisions reordered into
// permuted row order and resolved against the plane's actual keys,
// ready for serialization alongside a published plane.
type PermutedPlaneFilter struct {
	Records []PlaneFilterRecord
}

// Len returns the permuted filter's row count.
func (pf *PermutedPlaneFilter) Len() int { return len(pf.Records) }

// Resolve applies f to resolved's keys in permutation order,
// producing the key-file records a plane publication ships alongside
// the permuted plane.
func (f *PlaneFilter) Resolve(permutation []int, resolved schedule.Resolved) (*PermutedPlaneFilter, error) {
	if len(permutation) != len(f.Entries) {
		return nil, numRowsError(len(permutation), len(f.Entries))
	}
	out := &PermutedPlaneFilter{Records: make([]PlaneFilterRecord, len(permutation))}
	for i, canonical := range permutation {
		e := f.Entries[canonical]
		var rec PlaneFilterRecord
		if e.RevealCol1 {
			rec.Col1Key = base64.StdEncoding.EncodeToString(resolved.Col1Keys[canonical][:])
		}
		if e.RevealCol3 {
			rec.Col3Key = base64.StdEncoding.EncodeToString(resolved.Col3Keys[canonical][:])
		}
		out.Records[i] = rec
	}
	return out, nil
}
