// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package validation

import (
	"bytes"
	"errors"
	"math/big"

	"github.com/grinledger/node/secp256k1zkp"
	"github.com/yoss22/bulletproofs"
)

// ErrKernelSumMismatch is returned when the output/kernel commitment sum
// identity does not hold.
var ErrKernelSumMismatch = errors.New("validation: output commitment sum does not match kernel excess sum")

// VerifyKernelSums checks the Mimblewimble balance identity:
//
//	outputSum - overage*H == kernelSum + offset*G
//
// where outputSum is the sum of every live output commitment the identity
// covers (a transaction's own outputs minus its own inputs, or the whole
// chain's UTXO set), kernelSum is the sum of every kernel excess the
// identity covers, offset is the (possibly aggregate) kernel offset, and
// overage is the net value the identity's scope adds to circulation: a
// transaction's total fee for a standalone transaction, or the cumulative
// block subsidy for the whole chain.
func VerifyKernelSums(outputSum, kernelSum *bulletproofs.Point, offset secp256k1zkp.BlindingFactor, overage uint64) error {
	rhs := bulletproofs.SumPoints(kernelSum, secp256k1zkp.CommitOffset(offset))

	if overage > 0 {
		overageCommit := secp256k1zkp.CommitValue(big.NewInt(0), new(big.Int).SetUint64(overage))
		rhs = bulletproofs.SumPoints(rhs, overageCommit)
	}

	if !pointsEqual(outputSum, rhs) {
		return ErrKernelSumMismatch
	}
	return nil
}

func pointsEqual(a, b *bulletproofs.Point) bool {
	if a == nil || b == nil {
		return a == b
	}
	return bytes.Equal(a.Bytes(), b.Bytes())
}
