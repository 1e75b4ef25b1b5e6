// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import (
	"bytes"

	"github.com/grinledger/node/secp256k1zkp"
	"github.com/yoss22/bulletproofs"
)

// BlockSums is the running Pedersen-commitment identity that lets a chain
// verify total supply without ever decrypting a single output value: the sum
// of every unspent output commitment, minus the sum of every kernel excess
// and kernel offset accumulated since genesis, must equal a commitment to
// zero (the overage is carried separately as the known block reward).
type BlockSums struct {
	OutputSum secp256k1zkp.Commitment
	KernelSum secp256k1zkp.Commitment
}

// ApplyBlock folds a block's kernel excess sum and its net output commitment
// sum (new outputs minus spent inputs) into the running sums, returning the
// updated BlockSums for the new tip.
func (s BlockSums) ApplyBlock(kernelExcessSum *bulletproofs.Point, outputSum *bulletproofs.Point) (BlockSums, error) {
	prevOutput, err := pointFromCommitment(s.OutputSum)
	if err != nil {
		return BlockSums{}, err
	}
	prevKernel, err := pointFromCommitment(s.KernelSum)
	if err != nil {
		return BlockSums{}, err
	}

	nextOutput := bulletproofs.SumPoints(prevOutput, outputSum)
	nextKernel := bulletproofs.SumPoints(prevKernel, kernelExcessSum)

	return BlockSums{
		OutputSum: secp256k1zkp.Commitment(nextOutput.Bytes()),
		KernelSum: secp256k1zkp.Commitment(nextKernel.Bytes()),
	}, nil
}

func pointFromCommitment(c secp256k1zkp.Commitment) (*bulletproofs.Point, error) {
	if len(c) == 0 {
		return &bulletproofs.Point{}, nil
	}
	var p bulletproofs.Point
	if err := p.Read(bytes.NewReader(c)); err != nil {
		return nil, err
	}
	return &p, nil
}
