// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pollstate

import (
	"errors"
	"testing"

	"github.com/scantegrity/pollcore/internal/pollerr"
)

func TestLegalTransitionSequence(t *testing.T) {
	var s State
	if err := s.Announce(false); err != nil {
		t.Fatalf("Announce: %v", err)
	}
	if err := s.BindRoster(false); err != nil {
		t.Fatalf("BindRoster: %v", err)
	}
	if err := s.Step1(false); err != nil {
		t.Fatalf("Step1: %v", err)
	}
	if err := s.Step2(false); err != nil {
		t.Fatalf("Step2: %v", err)
	}
	if err := s.Step4(false); err != nil {
		t.Fatalf("Step4: %v", err)
	}
	if err := s.Step6(false); err != nil {
		t.Fatalf("Step6: %v", err)
	}
	if err := s.Step7(); err != nil {
		t.Fatalf("Step7: %v", err)
	}
	if err := s.Step8(false); err != nil {
		t.Fatalf("Step8: %v", err)
	}

	if !s.ColumnsRevealed || !s.RosterRevealed || !s.SummandsRevealed {
		t.Fatalf("expected all revelation flags set, got %+v", s)
	}
}

func TestUnmetPreconditionLeavesFlagsUnchanged(t *testing.T) {
	var s State
	before := s
	err := s.Step1(false)
	if err == nil {
		t.Fatal("expected error calling step1 before roster_committed")
	}
	if !errors.Is(err, pollerr.ErrPreconditionUnmet) {
		t.Fatalf("expected ErrPreconditionUnmet, got %v", err)
	}
	if s != before {
		t.Fatalf("flags changed on failed transition: %+v != %+v", s, before)
	}
}

func TestForceRepeatsWithoutSkipping(t *testing.T) {
	var s State
	if err := s.Announce(false); err != nil {
		t.Fatal(err)
	}
	if err := s.BindRoster(false); err != nil {
		t.Fatal(err)
	}
	if err := s.Step1(false); err != nil {
		t.Fatal(err)
	}
	if err := s.Step1(false); err == nil {
		t.Fatal("expected error repeating step1 without force")
	}
	if err := s.Step1(true); err != nil {
		t.Fatalf("force should permit repeating step1: %v", err)
	}
	// force never permits skipping an unmet precondition.
	var fresh State
	if err := fresh.Step2(true); err == nil {
		t.Fatal("expected error: force must not skip columns_committed precondition")
	}
}
