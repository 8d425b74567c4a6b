// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pollengine

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/scantegrity/pollcore/internal/corecrypto/kdf"
	"github.com/scantegrity/pollcore/internal/corecrypto/sig"
	"github.com/scantegrity/pollcore/internal/pollconfig"
	"github.com/scantegrity/pollcore/internal/pollerr"
)

// New implements the `new` command: it reads a plaintext
// NewPollConfiguration, generates the poll's signing key and Poll
// Master Key, splits the PMK among the named trustees under
// passwords obtained from prompt, and writes the resulting
// FILE.secure document. It announces the poll in the same step,
// leaving no observable gap between key generation and the poll
// becoming "announced".
//
// Trustee shares are sealed under kdf.ParamsProd unless allowDevKDF is
// set, in which case the much cheaper kdf.ParamsDev is used instead
// and a warning is logged; New always logs which parameters it chose.
// New returns a base58Check backup string for the generated Poll
// Master Key. The caller is expected to hand this to the poll's
// administrator to transcribe to paper; pollcore never persists it
// anywhere, since the Shamir shares already held by the trustees are
// the durable recovery path and the backup string is strictly a
// last-resort supplement to them.
func New(newConfigPath, configPath string, allowDevKDF bool, prompt PasswordPrompter) (string, error) {
	data, err := os.ReadFile(newConfigPath)
	if err != nil {
		return "", pollerr.New(pollerr.ErrExternalIoError, "read new poll configuration %s: %v", newConfigPath, err)
	}
	var n pollconfig.NewPollConfiguration
	if err := yaml.Unmarshal(data, &n); err != nil {
		return "", pollerr.New(pollerr.ErrCodecError, "parse new poll configuration %s: %v", newConfigPath, err)
	}

	kdfParams := kdf.ParamsProd
	if allowDevKDF {
		kdfParams = kdf.ParamsDev
		log.Warnf("sealing trustee shares with kdf.ParamsDev (--allow-dev-kdf): unsuitable for production")
	} else {
		log.Infof("sealing trustee shares with kdf.ParamsProd")
	}

	privKey, pubKey, err := sig.NewSigningKey()
	if err != nil {
		return "", err
	}

	pmk, err := pollconfig.NewPollMasterKey()
	if err != nil {
		return "", err
	}
	shares, err := pollconfig.SharePollMasterKey(pmk, len(n.PollTrustees))
	if err != nil {
		return "", err
	}

	trustees := make([]pollconfig.PollConfigurationTrustee, len(n.PollTrustees))
	for i, t := range n.PollTrustees {
		password, err := prompt.Password(t.Identifier)
		if err != nil {
			return "", err
		}
		encrypted, err := pollconfig.EncryptTrusteeShare(password, t.Identifier, pollconfig.EncodeShare(shares[i]), kdfParams)
		if err != nil {
			return "", err
		}
		trustees[i] = pollconfig.PollConfigurationTrustee{Identifier: t.Identifier, Share: encrypted}
	}

	cfg := pollconfig.FromNew(n, privKey)
	if err := cfg.PollState.Announce(false); err != nil {
		return "", err
	}

	sealed, err := pollconfig.SealPollConfiguration(n.PollIdentifier, trustees, *cfg, pubKey, pmk)
	if err != nil {
		return "", err
	}
	if err := writeSecuredConfig(secureConfigPath(configPath), sealed); err != nil {
		return "", err
	}
	return pollconfig.BackupString(pmk), nil
}
