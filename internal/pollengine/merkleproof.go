// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pollengine

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/scantegrity/pollcore/internal/merkle"
	"github.com/scantegrity/pollcore/internal/pollerr"
)

// MerkleLeafFile is the YAML document a plane or roster publication's
// leaf list is shipped as, the input to `gen`.
type MerkleLeafFile struct {
	Leaves []string `yaml:"leaves"`
}

// MerkleProofFile is the YAML document `gen` writes and `validate`
// reads: an inclusion proof for one leaf, hex-encoded.
type MerkleProofFile struct {
	Lemma []string `yaml:"lemma"`
	Path  []int    `yaml:"path"`
}

// GenMerkleProof implements the `gen` command: it builds the Merkle
// tree over leavesPath's leaf list and writes the inclusion proof for
// the first leaf equal to data.
func GenMerkleProof(leavesPath, data, proofOutPath string) error {
	leafData, err := os.ReadFile(leavesPath)
	if err != nil {
		return pollerr.New(pollerr.ErrExternalIoError, "read leaf file %s: %v", leavesPath, err)
	}
	var leafFile MerkleLeafFile
	if err := yaml.Unmarshal(leafData, &leafFile); err != nil {
		return pollerr.New(pollerr.ErrCodecError, "parse leaf file %s: %v", leavesPath, err)
	}

	index := -1
	for i, l := range leafFile.Leaves {
		if l == data {
			index = i
			break
		}
	}
	if index < 0 {
		return pollerr.New(pollerr.ErrCodecError, "leaf %q not found in %s", data, leavesPath)
	}

	tree := merkle.Build(leafFile.Leaves)
	proof, err := tree.GenProof(index)
	if err != nil {
		return err
	}

	out := MerkleProofFile{Lemma: make([]string, len(proof.Lemma)), Path: proof.Path}
	for i, h := range proof.Lemma {
		out.Lemma[i] = h.HexString()
	}
	proofBytes, err := yaml.Marshal(out)
	if err != nil {
		return pollerr.New(pollerr.ErrCodecError, "marshal merkle proof: %v", err)
	}
	if err := os.WriteFile(proofOutPath, proofBytes, 0o644); err != nil {
		return pollerr.New(pollerr.ErrExternalIoError, "write merkle proof %s: %v", proofOutPath, err)
	}
	return nil
}

// ValidateMerkleProof implements the `validate` command: it reports
// whether proofPath's inclusion proof verifies data against its
// claimed root.
func ValidateMerkleProof(proofPath, data string) (bool, error) {
	proofBytes, err := os.ReadFile(proofPath)
	if err != nil {
		return false, pollerr.New(pollerr.ErrExternalIoError, "read merkle proof %s: %v", proofPath, err)
	}
	var proofFile MerkleProofFile
	if err := yaml.Unmarshal(proofBytes, &proofFile); err != nil {
		return false, pollerr.New(pollerr.ErrCodecError, "parse merkle proof %s: %v", proofPath, err)
	}

	proof := merkle.Proof{Lemma: make([]merkle.Hash, len(proofFile.Lemma)), Path: proofFile.Path}
	for i, hexStr := range proofFile.Lemma {
		h, err := merkle.HashFromHex(hexStr)
		if err != nil {
			return false, err
		}
		proof.Lemma[i] = h
	}
	return merkle.Verify(proof, data), nil
}
