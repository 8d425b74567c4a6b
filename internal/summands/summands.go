// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package summands implements the committed and drawn summand tables
// and the voter-selection arithmetic derived from them, per spec.md
// §4.4.
package summands

import (
	"github.com/scantegrity/pollcore/internal/corecrypto/csprng"
	"github.com/scantegrity/pollcore/internal/pollerr"
)

// Record pairs a ballot position with its summand value.
type Record struct {
	Position int
	Summand  int
}

// Table is an ordered list of summand records, one per ballot.
type Table []Record

// GenerateCommitted derives the committed summands table from
// summandsRoot: count samples uniformly from [0, rosterSize), indexed
// 0..count-1.
func GenerateCommitted(seed csprng.Seed, count, rosterSize int) Table {
	return generate(seed, count, rosterSize)
}

// GenerateDrawn derives the drawn summands table from an externally
// supplied seed (a public beacon), in the same shape as the committed
// table.
func GenerateDrawn(seed csprng.Seed, count, rosterSize int) Table {
	return generate(seed, count, rosterSize)
}

func generate(seed csprng.Seed, count, modulus int) Table {
	rng := csprng.New(seed)
	t := make(Table, count)
	for i := 0; i < count; i++ {
		t[i] = Record{Position: i, Summand: int(rng.GenRange(uint64(modulus)))}
	}
	return t
}

// SelectVoters computes the voter index for every ballot position:
// v_k = (committed[k] + drawn[k]) mod rosterSize, per spec.md §4.4.
// Duplicates are allowed: two positions that select the same voter are
// returned as is, with no resampling (see DESIGN.md, Open Questions).
func SelectVoters(committed, drawn Table, rosterSize int) ([]int, error) {
	if len(committed) != len(drawn) {
		return nil, pollerr.New(pollerr.ErrCodecError,
			"committed and drawn summand tables must have equal length, got %d and %d", len(committed), len(drawn))
	}
	out := make([]int, len(committed))
	for i := range committed {
		if committed[i].Position != drawn[i].Position {
			return nil, pollerr.New(pollerr.ErrCodecError,
				"summand record position mismatch at index %d: %d != %d", i, committed[i].Position, drawn[i].Position)
		}
		out[i] = (committed[i].Summand + drawn[i].Summand) % rosterSize
	}
	return out, nil
}
