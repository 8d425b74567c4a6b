// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pollstate implements the poll's phase flags and the legal
// transitions between them, per spec.md §4.7.
package pollstate

import "github.com/scantegrity/pollcore/internal/pollerr"

// State is the set of 11 boolean flags recording which phases of a
// poll have run: the ten phase flags plus AuditedColumnsSeedSet, which
// step7 sets. Flags are monotonic: a legal transition only ever sets
// flags, never clears one.
type State struct {
	Announced             bool
	RosterCommitted       bool
	SummandsCommitted     bool
	ColumnsCommitted      bool
	SummandsDrawn         bool
	CeremonyConducted     bool
	VotesCommitted        bool
	AuditedColumnsSeedSet bool
	SummandsRevealed      bool
	RosterRevealed        bool
	ColumnsRevealed       bool
}

// require returns a PreconditionUnmet error naming the command and
// missing precondition when ok is false.
func require(ok bool, command, precondition string) error {
	if ok {
		return nil
	}
	return pollerr.New(pollerr.ErrPreconditionUnmet, "%s requires %s", command, precondition)
}

// Announce transitions new → announced.
func (s *State) Announce(force bool) error {
	if !force {
		if err := require(!s.Announced, "new", "poll not already announced"); err != nil {
			return err
		}
	}
	s.Announced = true
	return nil
}

// BindRoster transitions announced → roster_committed.
func (s *State) BindRoster(force bool) error {
	if err := require(s.Announced, "bind-roster", "announced"); err != nil {
		return err
	}
	if !force {
		if err := require(!s.RosterCommitted, "bind-roster", "roster not already committed"); err != nil {
			return err
		}
	}
	s.RosterCommitted = true
	return nil
}

// Step1 transitions roster_committed → summands_committed ∧
// columns_committed.
func (s *State) Step1(force bool) error {
	if err := require(s.RosterCommitted, "step1", "roster_committed"); err != nil {
		return err
	}
	if !force {
		if err := require(!s.SummandsCommitted && !s.ColumnsCommitted, "step1", "commitments not already made"); err != nil {
			return err
		}
	}
	s.SummandsCommitted = true
	s.ColumnsCommitted = true
	return nil
}

// Step2 transitions columns_committed → summands_drawn.
func (s *State) Step2(force bool) error {
	if err := require(s.ColumnsCommitted, "step2", "columns_committed"); err != nil {
		return err
	}
	if !force {
		if err := require(!s.SummandsDrawn, "step2", "summands not already drawn"); err != nil {
			return err
		}
	}
	s.SummandsDrawn = true
	return nil
}

// Step4 transitions summands_drawn → ceremony_conducted. No Merkle
// root is published at this transition; the only root pollcore
// publishes is the one computed at step1.
func (s *State) Step4(force bool) error {
	if err := require(s.SummandsDrawn, "step4", "summands_drawn"); err != nil {
		return err
	}
	if !force {
		if err := require(!s.CeremonyConducted, "step4", "ceremony not already conducted"); err != nil {
			return err
		}
	}
	s.CeremonyConducted = true
	return nil
}

// Step6 transitions ceremony_conducted → votes_committed.
func (s *State) Step6(force bool) error {
	if err := require(s.CeremonyConducted, "step6", "ceremony_conducted"); err != nil {
		return err
	}
	if !force {
		if err := require(!s.VotesCommitted, "step6", "votes not already committed"); err != nil {
			return err
		}
	}
	s.VotesCommitted = true
	return nil
}

// Step7 transitions votes_committed → audited_columns_seed set. Step7
// has no force override in spec.md; it is always legal to re-set the
// seed as long as votes are committed.
func (s *State) Step7() error {
	if err := require(s.VotesCommitted, "step7", "votes_committed"); err != nil {
		return err
	}
	s.AuditedColumnsSeedSet = true
	return nil
}

// Step8 transitions votes_committed → summands_revealed ∧
// roster_revealed ∧ columns_revealed.
func (s *State) Step8(force bool) error {
	if err := require(s.VotesCommitted, "step8", "votes_committed"); err != nil {
		return err
	}
	if !force {
		if err := require(!s.SummandsRevealed && !s.RosterRevealed && !s.ColumnsRevealed, "step8", "revelations not already published"); err != nil {
			return err
		}
	}
	s.SummandsRevealed = true
	s.RosterRevealed = true
	s.ColumnsRevealed = true
	return nil
}
