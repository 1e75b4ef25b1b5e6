// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package validation

import (
	"math/big"
	"testing"

	. "github.com/yoss22/bulletproofs"

	"github.com/grinledger/node/secp256k1zkp"
)

func blindingFactorFromInt(n int64) secp256k1zkp.BlindingFactor {
	b := big.NewInt(n).Bytes()
	bf, err := secp256k1zkp.BlindingFactorFromBytes(append(make([]byte, secp256k1zkp.SecretKeySize-len(b)), b...))
	if err != nil {
		panic(err)
	}
	return bf
}

func TestVerifyKernelSumsBalances(t *testing.T) {
	kernelSum := secp256k1zkp.CommitValue(big.NewInt(7), big.NewInt(0))
	offset := blindingFactorFromInt(3)
	overage := uint64(5)

	outputSum := SumPoints(
		SumPoints(kernelSum, secp256k1zkp.CommitOffset(offset)),
		secp256k1zkp.CommitValue(big.NewInt(0), big.NewInt(int64(overage))))

	if err := VerifyKernelSums(outputSum, kernelSum, offset, overage); err != nil {
		t.Errorf("expected balanced identity to verify, got %v", err)
	}
}

func TestVerifyKernelSumsRejectsMismatch(t *testing.T) {
	kernelSum := secp256k1zkp.CommitValue(big.NewInt(7), big.NewInt(0))
	offset := blindingFactorFromInt(3)
	overage := uint64(5)

	outputSum := SumPoints(
		SumPoints(kernelSum, secp256k1zkp.CommitOffset(offset)),
		secp256k1zkp.CommitValue(big.NewInt(0), big.NewInt(int64(overage)+1)))

	if err := VerifyKernelSums(outputSum, kernelSum, offset, overage); err == nil {
		t.Errorf("expected mismatched identity to fail")
	}
}

func TestNegatePointIsInvolution(t *testing.T) {
	p := secp256k1zkp.CommitValue(big.NewInt(11), big.NewInt(0))
	back := secp256k1zkp.NegatePoint(secp256k1zkp.NegatePoint(p))

	if p.X.Cmp(back.X) != 0 || p.Y.Cmp(back.Y) != 0 {
		t.Errorf("expected -(-p) == p, got x=%s y=%s want x=%s y=%s", back.X, back.Y, p.X, p.Y)
	}
}
