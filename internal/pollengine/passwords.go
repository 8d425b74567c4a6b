// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pollengine

import (
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/scantegrity/pollcore/internal/pollerr"
)

// PasswordPrompter supplies a trustee's password, prompting and
// reprompting until the confirmation matches. Implementations for
// batch/testing contexts may simply return a fixed value.
type PasswordPrompter interface {
	Password(identifier string) (string, error)
}

// TerminalPrompter reads trustee passwords from a terminal, looping
// until the initial entry and its confirmation match, per spec.md
// §7's PasswordMismatch handling.
type TerminalPrompter struct {
	In  io.Reader
	Out io.Writer
	Fd  int
}

// Password prompts for and confirms a trustee's password.
func (p TerminalPrompter) Password(identifier string) (string, error) {
	for {
		fmt.Fprintf(p.Out, "Password for %q: ", identifier)
		initial, err := term.ReadPassword(p.Fd)
		fmt.Fprintln(p.Out)
		if err != nil {
			return "", pollerr.New(pollerr.ErrExternalIoError, "read password: %v", err)
		}
		fmt.Fprint(p.Out, "Confirm password: ")
		confirm, err := term.ReadPassword(p.Fd)
		fmt.Fprintln(p.Out)
		if err != nil {
			return "", pollerr.New(pollerr.ErrExternalIoError, "read password confirmation: %v", err)
		}
		if string(initial) == string(confirm) {
			return string(initial), nil
		}
		fmt.Fprintln(p.Out, "passwords did not match, try again")
	}
}

// FixedPrompter maps each trustee identifier to a preset password;
// useful for scripted runs and tests.
type FixedPrompter map[string]string

// Password looks up identifier's password.
func (f FixedPrompter) Password(identifier string) (string, error) {
	pw, ok := f[identifier]
	if !ok {
		return "", pollerr.New(pollerr.ErrCodecError, "no password configured for trustee %q", identifier)
	}
	return pw, nil
}
