// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package compactblock builds and reconstructs the short-id block
// broadcast format: a peer that already holds a block's non-coinbase
// transactions in its own pool never needs them sent again in full.
package compactblock

import (
	"math/rand"
	"sort"

	"github.com/grinledger/node/consensus"
)

// Build derives a CompactBlock from a full block: a fresh random nonce,
// every coinbase output/kernel carried in full (a peer can never already
// hold them), and a 6-byte short id for every other kernel. Outputs,
// kernels and short ids are each sorted by their own identity hash, the
// same total order CompactBlock.Bytes serializes them in.
func Build(block *consensus.Block) *consensus.CompactBlock {
	nonce := rand.Uint64()
	blockHash := block.Header.Hash()

	var coinbaseOutputs consensus.OutputList
	for _, out := range block.Body.Outputs {
		if out.IsCoinbase() {
			coinbaseOutputs = append(coinbaseOutputs, out)
		}
	}

	var coinbaseKernels consensus.TxKernelList
	var kernelIDs consensus.ShortIDList
	for _, k := range block.Body.Kernels {
		if k.IsCoinbase() {
			coinbaseKernels = append(coinbaseKernels, k)
		} else {
			kernelIDs = append(kernelIDs, k.Hash().ShortID(blockHash, nonce))
		}
	}

	sort.Sort(coinbaseOutputs)
	sort.Sort(coinbaseKernels)
	sort.Sort(kernelIDs)

	return &consensus.CompactBlock{
		Header:      block.Header,
		Nonce:       nonce,
		FullOutputs: coinbaseOutputs,
		FullKernels: coinbaseKernels,
		KernelIDs:   kernelIDs,
	}
}
