// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package txhashset

import "github.com/grinledger/node/consensus"

func (s *TxHashSet) blockSums(headerHash consensus.Hash) (consensus.BlockSums, error) {
	if len(headerHash) == 0 {
		return consensus.BlockSums{}, nil
	}

	raw, err := s.sums.Get(blockSumsKey(headerHash))
	if err != nil {
		return consensus.BlockSums{}, err
	}
	if raw == nil {
		return consensus.BlockSums{}, nil
	}

	half := len(raw) / 2
	return consensus.BlockSums{
		OutputSum: raw[:half],
		KernelSum: raw[half:],
	}, nil
}

func (s *TxHashSet) putBlockSums(headerHash consensus.Hash, sums consensus.BlockSums) error {
	raw := append(append([]byte{}, sums.OutputSum...), sums.KernelSum...)
	return s.sums.Put(blockSumsKey(headerHash), raw)
}

// BlockSumsAt returns the persisted BlockSums for a given header hash: the
// same lookup Validate makes to re-check the running commitment identity
// without replaying the whole chain.
func (s *TxHashSet) BlockSumsAt(headerHash consensus.Hash) (consensus.BlockSums, error) {
	return s.blockSums(headerHash)
}
