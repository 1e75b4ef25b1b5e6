// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package cuckoo

import (
	"errors"

	"github.com/grinledger/node/consensus"
)

// ErrInvalidEdgeBits is returned when a proof's edge-bits setting is neither
// the fixed secondary size nor at least the primary minimum.
var ErrInvalidEdgeBits = errors.New("cuckoo: proof uses an edge-bits size outside the accepted primary/secondary range")

// VerifyHeaderPOW checks a header's Cuckoo-cycle proof against the header it
// was mined for. A primary-graph proof must use at least DefaultMinEdgeBits
// and is accepted at the base Easiness; a secondary-graph proof must use
// exactly SecondPowEdgeBits and its easiness is scaled by the header's
// declared secondary scaling factor.
func VerifyHeaderPOW(header *consensus.BlockHeader) error {
	proof := &header.POW

	if len(proof.Nonces) != int(consensus.ProofSize) {
		return consensus.ErrInvalidProofLength
	}

	var ease uint64
	switch {
	case proof.IsSecondary():
		ease = consensus.Easiness * uint64(header.ScalingDifficulty)
	case proof.EdgeBits >= consensus.DefaultMinEdgeBits:
		ease = consensus.Easiness
	default:
		return ErrInvalidEdgeBits
	}

	preHashHeader := *header
	preHashHeader.POW = consensus.Proof{}
	key := preHashHeader.Hash()

	ctx := New(key, proof.EdgeBits)
	if !ctx.Verify(proof.Nonces, ease) {
		return consensus.ErrBadProofOfWork
	}
	return nil
}
