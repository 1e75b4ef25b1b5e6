// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package compactblock

import (
	"github.com/grinledger/node/consensus"
)

// TransactionSource is anything a Reconstruct call can search for
// transactions by kernel short id — in practice a txpool.Pool snapshot.
type TransactionSource interface {
	Transactions() []*consensus.Transaction
}

// Reconstruct rebuilds a full block from a compact block and a local
// transaction source. Every non-coinbase kernel short id is resolved by
// recomputing each pooled transaction's own kernel short ids under the
// compact block's (header hash, nonce) and matching byte-for-byte. Short
// ids with no match are returned as Missing so the caller can fall back to
// requesting those transactions explicitly from the sending peer.
type Result struct {
	Block   *consensus.Block
	Missing consensus.ShortIDList
}

// Reconstruct attempts to fill in every non-coinbase kernel named by
// cb.KernelIDs from source. The returned Block is only valid (fully
// populated, every input/output/kernel present) when Missing is empty.
func Reconstruct(cb *consensus.CompactBlock, source TransactionSource) Result {
	blockHash := cb.Header.Hash()

	byShortID := make(map[string]*consensus.Transaction)
	for _, tx := range source.Transactions() {
		for _, k := range tx.Body.Kernels {
			id := k.Hash().ShortID(blockHash, cb.Nonce)
			byShortID[string(id)] = tx
		}
	}

	body := consensus.TransactionBody{
		Outputs: append(consensus.OutputList{}, cb.FullOutputs...),
		Kernels: append(consensus.TxKernelList{}, cb.FullKernels...),
	}

	var missing consensus.ShortIDList
	resolved := make(map[*consensus.Transaction]struct{})
	for _, id := range cb.KernelIDs {
		tx, ok := byShortID[string(id)]
		if !ok {
			missing = append(missing, id)
			continue
		}
		if _, already := resolved[tx]; already {
			continue
		}
		resolved[tx] = struct{}{}
		body.Inputs = append(body.Inputs, tx.Body.Inputs...)
		body.Outputs = append(body.Outputs, tx.Body.Outputs...)
		body.Kernels = append(body.Kernels, tx.Body.Kernels...)
	}

	if len(missing) > 0 {
		return Result{Missing: missing}
	}

	body.CutThrough()
	return Result{Block: &consensus.Block{Header: cb.Header, Body: body}}
}
