// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pollconfig

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/decred/base58"

	"github.com/scantegrity/pollcore/internal/corecrypto/shamir"
	"github.com/scantegrity/pollcore/internal/pollerr"
)

// pmkBackupVersion tags a base58Check-encoded Poll Master Key backup
// so a trustee's recovery sheet can never be mistaken for a
// differently-shaped base58 string.
const pmkBackupVersion = 0x50 // 'P'

// PMKSize is the byte length of a Poll Master Key.
const PMKSize = 32

// NewPollMasterKey generates a fresh 32-byte Poll Master Key.
func NewPollMasterKey() ([32]byte, error) {
	var pmk [32]byte
	if _, err := rand.Read(pmk[:]); err != nil {
		return pmk, pollerr.New(pollerr.ErrExternalIoError, "generate poll master key: %v", err)
	}
	return pmk, nil
}

// SharePollMasterKey splits pmk into numShares Shamir shares under the
// majority threshold.
func SharePollMasterKey(pmk [32]byte, numShares int) ([]shamir.Share, error) {
	sharing := shamir.New(numShares)
	return sharing.Share(pmk[:])
}

// ReconstructPollMasterKey rebuilds the Poll Master Key from a subset
// of its shares, given the total number of shares it was split into.
func ReconstructPollMasterKey(shares []shamir.Share, totalShares int) ([32]byte, error) {
	var pmk [32]byte
	sharing := shamir.New(totalShares)
	secret, err := sharing.Reconstruct(shares)
	if err != nil {
		return pmk, err
	}
	if len(secret) != PMKSize {
		return pmk, pollerr.New(pollerr.ErrCodecError, "reconstructed poll master key has %d bytes, want %d", len(secret), PMKSize)
	}
	copy(pmk[:], secret)
	return pmk, nil
}

// BackupString renders pmk as a base58Check string a trustee can
// transcribe to paper as a last-resort recovery path independent of
// the Shamir shares, analogous to a wallet seed backup.
func BackupString(pmk [32]byte) string {
	return base58.CheckEncode(pmk[:], pmkBackupVersion)
}

// ParsePMKBackup reverses BackupString, rejecting a string with the
// wrong version byte or a corrupted checksum.
func ParsePMKBackup(s string) ([32]byte, error) {
	var pmk [32]byte
	decoded, version, err := base58.CheckDecode(s)
	if err != nil {
		return pmk, pollerr.New(pollerr.ErrCodecError, "decode poll master key backup: %v", err)
	}
	if version != pmkBackupVersion {
		return pmk, pollerr.New(pollerr.ErrCodecError, "poll master key backup has wrong version byte %#x", version)
	}
	if len(decoded) != PMKSize {
		return pmk, pollerr.New(pollerr.ErrCodecError, "poll master key backup has %d bytes, want %d", len(decoded), PMKSize)
	}
	copy(pmk[:], decoded)
	return pmk, nil
}

// EncodeShare serializes a Shamir share to bytes for encryption under
// a trustee's password: a two-byte index followed by two bytes per
// value.
func EncodeShare(share shamir.Share) []byte {
	out := make([]byte, 2+2*len(share.Values))
	binary.BigEndian.PutUint16(out, share.Index)
	for i, v := range share.Values {
		binary.BigEndian.PutUint16(out[2+2*i:], v)
	}
	return out
}

// DecodeShare reverses EncodeShare.
func DecodeShare(b []byte) (shamir.Share, error) {
	if len(b) < 2 || len(b)%2 != 0 {
		return shamir.Share{}, pollerr.New(pollerr.ErrCodecError, "malformed trustee share: %d bytes", len(b))
	}
	share := shamir.Share{Index: binary.BigEndian.Uint16(b)}
	share.Values = make([]uint16, (len(b)-2)/2)
	for i := range share.Values {
		share.Values[i] = binary.BigEndian.Uint16(b[2+2*i:])
	}
	return share, nil
}
