// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pollengine

import (
	"github.com/scantegrity/pollcore/internal/corecrypto/shamir"
	"github.com/scantegrity/pollcore/internal/pollconfig"
	"github.com/scantegrity/pollcore/internal/pollerr"
)

// reconstructPMK prompts for each trustee's password in turn and
// reconstructs the Poll Master Key once enough shares decrypt
// successfully. A trustee whose password is wrong (AEAD tag mismatch)
// is simply skipped, not treated as fatal, so the operator can recover
// from a mistyped password as long as enough other trustees succeed.
func reconstructPMK(trustees []pollconfig.PollConfigurationTrustee, prompt PasswordPrompter) ([32]byte, error) {
	var shares []shamir.Share
	for _, trustee := range trustees {
		password, err := prompt.Password(trustee.Identifier)
		if err != nil {
			return [32]byte{}, err
		}
		shareBytes, err := pollconfig.DecryptTrusteeShare(password, trustee.Identifier, trustee.Share)
		if err != nil {
			continue
		}
		share, err := pollconfig.DecodeShare(shareBytes)
		if err != nil {
			continue
		}
		shares = append(shares, share)
	}
	if len(shares) == 0 {
		return [32]byte{}, pollerr.New(pollerr.ErrSharesBelowThreshold, "no trustee passwords were accepted")
	}
	return pollconfig.ReconstructPollMasterKey(shares, len(trustees))
}
