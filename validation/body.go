// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package validation

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/yoss22/bulletproofs"

	"github.com/grinledger/node/consensus"
)

// rangeProofCacheSize matches the reference implementation's bulletproof
// verification cache, sized to comfortably hold a few blocks' worth of
// outputs without needing eviction under normal traffic.
const rangeProofCacheSize = 3000

// RangeProofCache remembers commitments whose range proof has already been
// verified once, so re-validating a body that shares outputs with one
// already checked (e.g. the same block re-offered by two peers) never pays
// for Bulletproof verification twice.
type RangeProofCache struct {
	verified *lru.Cache[string, struct{}]
}

// NewRangeProofCache builds a RangeProofCache with the default capacity.
func NewRangeProofCache() *RangeProofCache {
	cache, err := lru.New[string, struct{}](rangeProofCacheSize)
	if err != nil {
		panic(err)
	}
	return &RangeProofCache{verified: cache}
}

func (c *RangeProofCache) seen(commit []byte) bool {
	if c == nil {
		return false
	}
	_, ok := c.verified.Get(string(commit))
	return ok
}

func (c *RangeProofCache) remember(commit []byte) {
	if c == nil {
		return
	}
	c.verified.Add(string(commit), struct{}{})
}

// ValidateBody checks everything about a TransactionBody that does not
// require chain context: structural invariants I1-I5, the weight bound,
// every range proof, and every kernel's excess signature. cache may be nil,
// in which case every range proof is verified unconditionally.
func ValidateBody(body *consensus.TransactionBody, cache *RangeProofCache) error {
	if body.Weight() > consensus.MaxBlockWeight {
		return newErr(KindWeightExceeded, fmt.Errorf("body weight %d exceeds maximum %d", body.Weight(), consensus.MaxBlockWeight))
	}
	if err := body.VerifySorted(); err != nil {
		return newErr(KindBadSort, err)
	}
	if err := body.VerifyCutThrough(); err != nil {
		return newErr(KindBadCutThrough, err)
	}

	if err := verifyRangeProofs(body.Outputs, cache); err != nil {
		return err
	}

	for i := range body.Kernels {
		if err := body.Kernels[i].Validate(); err != nil {
			return newErr(KindBadKernelSig, err)
		}
	}

	return nil
}

func verifyRangeProofs(outputs consensus.OutputList, cache *RangeProofCache) error {
	prover := bulletproofs.NewProver(64)

	for i := range outputs {
		commit := outputs[i].CommitBytes()
		if cache.seen(commit) {
			continue
		}
		if !prover.Verify(outputs[i].Commit, outputs[i].RangeProof) {
			return newErr(KindBadRangeProof, fmt.Errorf("range proof verification failed for commitment %x", commit))
		}
		cache.remember(commit)
	}
	return nil
}
