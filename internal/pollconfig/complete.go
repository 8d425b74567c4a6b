// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pollconfig

import "github.com/scantegrity/pollcore/internal/pollstate"

// PollConfigurationTrustee names a trustee alongside their encrypted
// Poll Master Key share, as stored in the secured configuration file.
type PollConfigurationTrustee struct {
	Identifier string `yaml:"identifier"`
	Share      string `yaml:"share"` // AEAD-string, see internal/corecrypto/aead
}

// PollConfiguration is the complete, plaintext-once-decrypted poll
// configuration: everything the engine reads and mutates across
// phases. It is never written to disk directly; only sealed inside a
// SecuredPollConfiguration.
type PollConfiguration struct {
	PollState pollstate.State `yaml:"poll_state"`

	SigningKey string `yaml:"signing_key"` // base64 agl/ed25519 private key

	NumBallots int `yaml:"num_ballots"`
	NumDecoys  int `yaml:"num_decoys"`

	VoterRoster     string `yaml:"voter_roster,omitempty"` // base64 CSV bytes
	VoterRosterSize int    `yaml:"voter_roster_size"`
	VoterPrivacy    bool   `yaml:"voter_privacy"`

	DrawnSummandsSeed   string   `yaml:"drawn_summands_seed,omitempty"`
	AuditedColumnsSeed  string   `yaml:"audited_columns_seed,omitempty"`
	AuditedBallots      []string `yaml:"audited_ballots,omitempty"`
	Votes               []string `yaml:"votes,omitempty"`

	Question string `yaml:"question"`
	Option1  string `yaml:"option1"`
	Option2  string `yaml:"option2"`

	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
}

// FromNew builds the initial PollConfiguration for a freshly announced
// poll from its plaintext NewPollConfiguration and a freshly generated
// signing key.
func FromNew(n NewPollConfiguration, signingKey string) *PollConfiguration {
	return &PollConfiguration{
		SigningKey: signingKey,
		NumBallots: n.NumBallots,
		NumDecoys:  n.NumDecoys,
		Question:   n.Question,
		Option1:    n.Option1,
		Option2:    n.Option2,
		StartDate:  n.StartDate,
		EndDate:    n.EndDate,
	}
}
