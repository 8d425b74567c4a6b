// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pollerr defines the error taxonomy shared by every pollcore
// package: a small closed set of error kinds that a command-line
// frontend can switch on to decide an exit code, plus a concrete error
// type that carries a human-readable description alongside the kind.
package pollerr

import "fmt"

// ErrorKind identifies a class of error that pollcore operations can
// return. See spec.md §7 for the full taxonomy this mirrors.
type ErrorKind string

const (
	// ErrPreconditionUnmet indicates an operation was issued while the
	// poll state machine was in the wrong phase. No state is changed.
	ErrPreconditionUnmet = ErrorKind("ErrPreconditionUnmet")

	// ErrAuthenticationFailed indicates an AEAD tag mismatch on a
	// configuration, a trustee share, or a plane cell. Fatal to the
	// current command; implies tampering.
	ErrAuthenticationFailed = ErrorKind("ErrAuthenticationFailed")

	// ErrPasswordMismatch indicates a trustee's password confirmation
	// did not match the initial entry.
	ErrPasswordMismatch = ErrorKind("ErrPasswordMismatch")

	// ErrSharesBelowThreshold indicates too few trustees authenticated
	// to reconstruct the Poll Master Key.
	ErrSharesBelowThreshold = ErrorKind("ErrSharesBelowThreshold")

	// ErrCodecError indicates malformed YAML, CSV, or hex input.
	ErrCodecError = ErrorKind("ErrCodecError")

	// ErrExternalIoError indicates an HTTP or disk I/O operation
	// failed. The on-disk state is preserved.
	ErrExternalIoError = ErrorKind("ErrExternalIoError")

	// ErrBitsExhausted is internal: a Fast Dice Roller byte stream ran
	// out of bits. Callers recover by lengthening the stream and
	// retrying; this kind should never propagate to a command boundary.
	ErrBitsExhausted = ErrorKind("ErrBitsExhausted")

	// ErrVoteCodeParityInvalid indicates a submitted vote code failed
	// its parity check. Per spec.md §7 this is not fatal: the caller
	// silently discards the vote instead of treating it as an error.
	ErrVoteCodeParityInvalid = ErrorKind("ErrVoteCodeParityInvalid")
)

// Error satisfies the error interface.
func (e ErrorKind) Error() string {
	return string(e)
}

// PollError wraps an ErrorKind with a human-readable description,
// following the RuleError pattern used throughout the dcrd lineage so
// callers can both match on kind via errors.Is and print a useful
// message.
type PollError struct {
	Kind        ErrorKind
	Description string
}

// Error implements the error interface.
func (e PollError) Error() string {
	return e.Description
}

// Is implements the errors.Is interface, allowing callers to write
// errors.Is(err, pollerr.ErrPreconditionUnmet).
func (e PollError) Is(target error) bool {
	kind, ok := target.(ErrorKind)
	if !ok {
		return false
	}
	return e.Kind == kind
}

// New constructs a PollError with a formatted description.
func New(kind ErrorKind, format string, args ...interface{}) error {
	return PollError{Kind: kind, Description: fmt.Sprintf(format, args...)}
}
