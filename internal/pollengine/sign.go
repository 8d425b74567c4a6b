// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pollengine

import (
	"encoding/base64"
	"os"

	"github.com/scantegrity/pollcore/internal/corecrypto/sig"
	"github.com/scantegrity/pollcore/internal/pollerr"
)

// Sign implements the `sign` command: it signs filePath's contents
// with the poll's Ed25519 signing key and writes the base64 signature
// to filePath + ".sig". No poll state changes; signing may be run
// against any published artifact at any phase.
func Sign(configPath, filePath string, prompt PasswordPrompter) error {
	spc, err := readSecuredConfig(secureConfigPath(configPath))
	if err != nil {
		return err
	}
	pmk, err := reconstructPMK(spc.PollTrustees, prompt)
	if err != nil {
		return err
	}
	_, cfg, _, err := spc.Open(pmk)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return pollerr.New(pollerr.ErrExternalIoError, "read file to sign %s: %v", filePath, err)
	}
	signature, err := sig.Sign(cfg.SigningKey, data)
	if err != nil {
		return err
	}
	sigPath := filePath + ".sig"
	if err := os.WriteFile(sigPath, []byte(base64.StdEncoding.EncodeToString(signature)), 0o644); err != nil {
		return pollerr.New(pollerr.ErrExternalIoError, "write signature %s: %v", sigPath, err)
	}
	return nil
}
