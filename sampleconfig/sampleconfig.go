// Copyright (c) 2017-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sampleconfig

import (
	_ "embed"
)

// sampleNewPollConf is a string containing the commented example
// NewPollConfiguration YAML document handed to `pollcore new`.
//
//go:embed sample-new-poll.yaml
var sampleNewPollConf string

// NewPollConfig returns a string containing the commented example
// configuration for the `new` command.
func NewPollConfig() string {
	return sampleNewPollConf
}
