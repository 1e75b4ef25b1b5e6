// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package txhashset

import "github.com/grinledger/node/consensus"

// Compact reclaims the data-file storage of every output already marked
// spent, on both the output and range-proof MMRs. It is meant to be called
// no more often than once per consensus.CutThroughHorizon blocks — calling
// it sooner is safe (PrunableMMR.Compact only ever touches leaves the leaf
// set already marks pruned) but defeats the horizon's purpose, which is to
// give a still-possible short reorg a chance to need a just-spent output
// again before its data is gone for good.
func (s *TxHashSet) Compact() error {
	numLeaves := s.outputMMR.NumLeaves()

	if err := s.outputMMR.Compact(numLeaves); err != nil {
		return err
	}
	return s.rproofMMR.Compact(numLeaves)
}

// CutThroughHorizonHeight returns the height below which a spent output is
// eligible for compaction, given the current tip.
func (s *TxHashSet) CutThroughHorizonHeight() uint64 {
	if s.tipHeight < uint64(consensus.CutThroughHorizon) {
		return 0
	}
	return s.tipHeight - uint64(consensus.CutThroughHorizon)
}
