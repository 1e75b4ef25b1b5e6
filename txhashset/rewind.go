// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package txhashset

import (
	"encoding/binary"

	"github.com/grinledger/node/consensus"
	"github.com/grinledger/node/secp256k1zkp"
)

// Rewind truncates the TxHashSet back to the state committed to by header:
// the output and kernel MMRs shrink to header's sizes, and every output
// spent at a height strictly greater than header.Height is marked alive
// again, by walking the spent log written by ApplyBlock in reverse — the
// inverse of the removal bitmap the spec describes.
func (s *TxHashSet) Rewind(header *consensus.BlockHeader) error {
	var restoreLeaves []uint64

	for height := s.tipHeight; height > header.Height; height-- {
		raw, err := s.positions.Get(spentLogKey(height))
		if err != nil {
			return err
		}
		if raw == nil {
			continue
		}
		for i := 0; i+8 <= len(raw); i += 8 {
			restoreLeaves = append(restoreLeaves, binary.BigEndian.Uint64(raw[i:i+8]))
		}
		if err := s.positions.Delete(spentLogKey(height)); err != nil {
			return err
		}

		created, err := s.positions.Get(createdLogKey(height))
		if err != nil {
			return err
		}
		for i := 0; i+secp256k1zkp.PedersenCommitmentSize <= len(created); i += secp256k1zkp.PedersenCommitmentSize {
			commit := created[i : i+secp256k1zkp.PedersenCommitmentSize]
			if err := s.positions.Delete(commit); err != nil {
				return err
			}
		}
		if err := s.positions.Delete(createdLogKey(height)); err != nil {
			return err
		}
	}

	if err := s.outputMMR.Rewind(header.OutputMMRSize, restoreLeaves); err != nil {
		return err
	}
	if err := s.rproofMMR.Rewind(header.OutputMMRSize, restoreLeaves); err != nil {
		return err
	}
	if err := s.kernelMMR.Rewind(header.KernelMMRSize); err != nil {
		return err
	}

	s.tipHeight = header.Height
	s.tipHash = header.Hash()
	return nil
}
