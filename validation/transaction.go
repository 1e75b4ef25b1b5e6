// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package validation

import (
	"errors"

	"github.com/yoss22/bulletproofs"

	"github.com/grinledger/node/consensus"
)

// ErrCoinbaseInTransaction is returned when a standalone transaction (as
// opposed to a block body) carries a coinbase-featured input, output, or
// kernel. Coinbase outputs only ever originate from a block's own subsidy.
var ErrCoinbaseInTransaction = errors.New("validation: standalone transaction must not contain a coinbase output or kernel")

// ValidateTransaction checks a standalone (pre-aggregation or mempool)
// transaction: its body's structural invariants and range proofs/kernel
// signatures, that it carries no coinbase features, and that its own
// output/kernel commitments balance against its declared fee and offset.
func ValidateTransaction(tx *consensus.Transaction, cache *RangeProofCache) error {
	if err := ValidateBody(&tx.Body, cache); err != nil {
		return err
	}
	if tx.Body.Weight() > consensus.MaxBlockWeight-consensus.CoinbaseWeight {
		return newErr(KindWeightExceeded, consensus.ErrWeightExceeded)
	}

	outputs, kernels := tx.Body.CoinbaseCounts()
	if outputs > 0 || kernels > 0 {
		return newErr(KindBadFeature, ErrCoinbaseInTransaction)
	}

	outputSum, err := netOutputSum(tx.Body.Inputs, tx.Body.Outputs)
	if err != nil {
		return newErr(KindIO, err)
	}

	kernelSum, err := tx.Body.Kernels.Sum()
	if err != nil {
		kernelSum = &bulletproofs.Point{}
	}

	if err := VerifyKernelSums(outputSum, kernelSum, tx.Offset, tx.Fee()); err != nil {
		return newErr(KindKernelSumMismatch, err)
	}

	return nil
}
