// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pollconfig defines the poll configuration documents: the
// plaintext YAML an operator submits to start a poll, the complete
// in-memory configuration the engine mutates through each phase, and
// the AEAD-secured form persisted to disk between commands. Grounded
// on the original poll_configuration module: new/complete/secured
// split into the same three documents.
package pollconfig

// NewPollConfigurationTrustee names one trustee by identifier only;
// no key material exists yet at poll creation.
type NewPollConfigurationTrustee struct {
	Identifier string `yaml:"identifier"`
}

// NewPollConfiguration is the plaintext YAML an operator hands to the
// `new` command to start a poll.
type NewPollConfiguration struct {
	PollIdentifier string                       `yaml:"poll_identifier"`
	PollTrustees   []NewPollConfigurationTrustee `yaml:"poll_trustees"`
	NumBallots     int                          `yaml:"num_ballots"`
	NumDecoys      int                          `yaml:"num_decoys"`
	Question       string                       `yaml:"question"`
	Option1        string                       `yaml:"option1"`
	Option2        string                       `yaml:"option2"`
	StartDate      string                       `yaml:"start_date"`
	EndDate        string                       `yaml:"end_date"`
}
