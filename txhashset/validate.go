// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package txhashset

import (
	"github.com/grinledger/node/consensus"
	"github.com/grinledger/node/validation"
)

// Validate checks that the TxHashSet's current roots and sizes match
// header. It is the check run at snapshot-load time, before any block is
// applied on top, to confirm a downloaded TxHashSet archive actually
// represents the header it claims to: the same check ApplyBlock performs
// incrementally on every new block, run once against the bulk-loaded state.
func (s *TxHashSet) Validate(header *consensus.BlockHeader) error {
	outputRoot, rangeProofRoot, kernelRoot, err := s.Roots()
	if err != nil {
		return err
	}
	outputMMRSize, kernelMMRSize := s.Sizes()

	if !bytesEqual(outputRoot, header.OutputRoot) ||
		!bytesEqual(rangeProofRoot, header.RangeProofRoot) ||
		!bytesEqual(kernelRoot, header.KernelRoot) ||
		outputMMRSize != header.OutputMMRSize ||
		kernelMMRSize != header.KernelMMRSize {
		return ErrInvalidRoots
	}

	sums, err := s.blockSums(header.Hash())
	if err != nil {
		return err
	}

	outputPoint, err := decodeCommitment(sums.OutputSum)
	if err != nil {
		return err
	}
	kernelPoint, err := decodeCommitment(sums.KernelSum)
	if err != nil {
		return err
	}

	overage := consensus.CumulativeSupply(header.Height)
	if err := validation.VerifyKernelSums(outputPoint, kernelPoint, header.TotalKernelOffset, overage); err != nil {
		return ErrKernelSumMismatch
	}
	return nil
}
