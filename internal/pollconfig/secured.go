// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pollconfig

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/scantegrity/pollcore/internal/corecrypto/aead"
	"github.com/scantegrity/pollcore/internal/corecrypto/kdf"
	"github.com/scantegrity/pollcore/internal/pollerr"
)

// SecuredPollConfiguration is the document persisted as FILE.secure.
// The poll identifier, trustee list, and signing certificate are
// visible but integrity-protected; the poll configuration and each
// trustee's share are confidential, decryptable only with the Poll
// Master Key or that trustee's password respectively.
type SecuredPollConfiguration struct {
	PollIdentifier            string                     `yaml:"poll_identifier"`
	PollTrustees              []PollConfigurationTrustee `yaml:"poll_trustees"`
	EncryptedPollConfiguration string                    `yaml:"encrypted_poll_configuration"`
	SigningCertificate        string                     `yaml:"signing_certificate"`
}

// EncryptTrusteeShare seals one trustee's Poll Master Key share under
// a password, binding the trustee's identity, the KDF parameters, and
// the KDF salt into the associated data so a share cannot be
// relabelled or replayed against a different trustee, and so
// DecryptTrusteeShare can re-derive the key with whichever of
// kdf.ParamsDev or kdf.ParamsProd sealed it.
func EncryptTrusteeShare(password, identity string, share []byte, params kdf.Params) (string, error) {
	key, values, err := kdf.Derive(password, params)
	if err != nil {
		return "", err
	}
	salt64 := base64.StdEncoding.EncodeToString(values.Salt)
	aad := []byte(fmt.Sprintf("%s-%d.%d.%d-%s", identity, params.LogN, params.R, params.P, salt64))

	var aeadKey aead.Key
	copy(aeadKey[:], key)

	sealed, err := aead.Encrypt(aeadKey, aad, share)
	if err != nil {
		return "", err
	}
	return aead.String(sealed), nil
}

// DecryptTrusteeShare reverses EncryptTrusteeShare. It verifies that
// the identity encoded in the ciphertext's associated data matches
// identity, returning ErrAuthenticationFailed if it does not.
func DecryptTrusteeShare(password, identity, encryptedShare string) ([]byte, error) {
	values, err := aead.ParseString(encryptedShare)
	if err != nil {
		return nil, err
	}

	parts := strings.SplitN(string(values.AAD), "-", 3)
	if len(parts) != 3 {
		return nil, pollerr.New(pollerr.ErrCodecError, "malformed trustee share associated data")
	}
	boundIdentity, paramsStr, salt64 := parts[0], parts[1], parts[2]
	if boundIdentity != identity {
		return nil, pollerr.New(pollerr.ErrAuthenticationFailed,
			"trustee share bound to identity %q, expected %q", boundIdentity, identity)
	}
	params, err := parseKDFParams(paramsStr)
	if err != nil {
		return nil, err
	}
	salt, err := base64.StdEncoding.DecodeString(salt64)
	if err != nil {
		return nil, pollerr.New(pollerr.ErrCodecError, "malformed trustee share salt: %v", err)
	}

	key, err := kdf.DeriveWithValues(password, kdf.Values{Salt: salt, Params: params})
	if err != nil {
		return nil, err
	}
	var aeadKey aead.Key
	copy(aeadKey[:], key)

	return aead.Decrypt(aeadKey, values)
}

// parseKDFParams parses the "logN.r.p" form embedded in a trustee
// share's associated data.
func parseKDFParams(s string) (kdf.Params, error) {
	fields := strings.SplitN(s, ".", 3)
	if len(fields) != 3 {
		return kdf.Params{}, pollerr.New(pollerr.ErrCodecError, "malformed kdf parameters %q", s)
	}
	logN, err1 := strconv.Atoi(fields[0])
	r, err2 := strconv.Atoi(fields[1])
	p, err3 := strconv.Atoi(fields[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return kdf.Params{}, pollerr.New(pollerr.ErrCodecError, "malformed kdf parameters %q", s)
	}
	return kdf.Params{LogN: logN, R: r, P: p}, nil
}

// SealPollConfiguration YAML-serializes config and seals it under the
// Poll Master Key, authenticates the poll identifier and signing
// public key (visible but tamper-evident), and produces the document
// written to FILE.secure.
func SealPollConfiguration(pollIdentifier string, trustees []PollConfigurationTrustee, config PollConfiguration, signingPublicKey string, pmk [32]byte) (*SecuredPollConfiguration, error) {
	var pmkKey aead.Key
	copy(pmkKey[:], pmk[:])

	configBytes, err := yaml.Marshal(config)
	if err != nil {
		return nil, pollerr.New(pollerr.ErrCodecError, "marshal poll configuration: %v", err)
	}
	encryptedConfig, err := aead.Encrypt(pmkKey, nil, configBytes)
	if err != nil {
		return nil, err
	}

	authenticatedIdentifier, err := aead.Authenticate(pmkKey, []byte(pollIdentifier))
	if err != nil {
		return nil, err
	}
	authenticatedCert, err := aead.Authenticate(pmkKey, []byte(signingPublicKey))
	if err != nil {
		return nil, err
	}

	return &SecuredPollConfiguration{
		PollIdentifier:             authenticatedIdentifier,
		PollTrustees:               trustees,
		EncryptedPollConfiguration: aead.String(encryptedConfig),
		SigningCertificate:         authenticatedCert,
	}, nil
}

// Open decrypts spc's poll configuration and verifies the poll
// identifier and signing public key under the given Poll Master Key,
// returning the identifier, the configuration, and the public key.
func (spc *SecuredPollConfiguration) Open(pmk [32]byte) (pollIdentifier string, config PollConfiguration, signingPublicKey string, err error) {
	var pmkKey aead.Key
	copy(pmkKey[:], pmk[:])

	identifierBytes, err := aead.OpenAuthenticated(pmkKey, spc.PollIdentifier)
	if err != nil {
		return "", PollConfiguration{}, "", err
	}

	configValues, err := aead.ParseString(spc.EncryptedPollConfiguration)
	if err != nil {
		return "", PollConfiguration{}, "", err
	}
	configBytes, err := aead.Decrypt(pmkKey, configValues)
	if err != nil {
		return "", PollConfiguration{}, "", err
	}
	if err := yaml.Unmarshal(configBytes, &config); err != nil {
		return "", PollConfiguration{}, "", pollerr.New(pollerr.ErrCodecError, "unmarshal poll configuration: %v", err)
	}

	certBytes, err := aead.OpenAuthenticated(pmkKey, spc.SigningCertificate)
	if err != nil {
		return "", PollConfiguration{}, "", err
	}

	return string(identifierBytes), config, string(certBytes), nil
}
