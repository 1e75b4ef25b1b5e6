// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package validation

import (
	"bytes"

	"github.com/yoss22/bulletproofs"

	"github.com/grinledger/node/consensus"
	"github.com/grinledger/node/secp256k1zkp"
)

// decodeCommitment parses a 33-byte Pedersen commitment back into its
// underlying curve point.
func decodeCommitment(c secp256k1zkp.Commitment) (*bulletproofs.Point, error) {
	var p bulletproofs.Point
	if err := p.Read(bytes.NewReader(c)); err != nil {
		return nil, err
	}
	return &p, nil
}

// netOutputSum returns Σ output commitments − Σ input commitments for a
// transaction or body, the left-hand side of the kernel-sum identity.
func netOutputSum(inputs consensus.InputList, outputs consensus.OutputList) (*bulletproofs.Point, error) {
	acc := &bulletproofs.Point{}
	have := false

	for i := range outputs {
		if !have {
			acc, have = outputs[i].Commit, true
			continue
		}
		acc = bulletproofs.SumPoints(acc, outputs[i].Commit)
	}

	for i := range inputs {
		p, err := decodeCommitment(inputs[i].Commit)
		if err != nil {
			return nil, err
		}
		neg := secp256k1zkp.NegatePoint(p)
		if !have {
			acc, have = neg, true
			continue
		}
		acc = bulletproofs.SumPoints(acc, neg)
	}

	return acc, nil
}
