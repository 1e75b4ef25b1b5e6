// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package validation

import (
	"fmt"
	"time"

	"github.com/grinledger/node/consensus"
	"github.com/grinledger/node/cuckoo"
)

// ValidateBlock checks every rule a block must satisfy on its own (given its
// parent's height/timestamp context) before txhashset.ApplyBlock is ever
// asked to apply it: body structure/range-proofs/kernel-sigs, the
// exactly-one-coinbase rule, header version, proof of work, timestamp
// bounds, and kernel lock heights. It does not check MMR roots/sizes or the
// chain-wide kernel-sum identity — those require the live TxHashSet and are
// checked by txhashset.ApplyBlock itself.
//
// medianTimestamp is the median of the preceding MedianTimeWindow headers'
// timestamps (the caller's responsibility to compute from its own header
// index); pass the zero time to skip that check, e.g. for genesis.
func ValidateBlock(block *consensus.Block, network consensus.Network, medianTimestamp, now time.Time, cache *RangeProofCache) error {
	if err := ValidateBody(&block.Body, cache); err != nil {
		return err
	}

	if err := block.VerifyCoinbase(); err != nil {
		return newErr(KindBadFeature, err)
	}

	header := &block.Header

	if err := consensus.ValidateBlockVersion(header, network); err != nil {
		return newErr(KindBadHeaderVersion, err)
	}

	if err := cuckoo.VerifyHeaderPOW(header); err != nil {
		return newErr(KindBadPOW, err)
	}

	if !medianTimestamp.IsZero() && !header.Timestamp.After(medianTimestamp) {
		return newErr(KindFutureTimestamp, fmt.Errorf("header timestamp %s is not after the median of the preceding window %s", header.Timestamp, medianTimestamp))
	}
	if header.Timestamp.After(now.Add(consensus.FutureTimeLimit)) {
		return newErr(KindFutureTimestamp, fmt.Errorf("header timestamp %s is too far in the future of %s", header.Timestamp, now))
	}

	for i := range block.Body.Kernels {
		k := &block.Body.Kernels[i]
		if k.Features&consensus.HeightLockedKernel == consensus.HeightLockedKernel && k.LockHeight > header.Height {
			return newErr(KindBadFeature, fmt.Errorf("kernel lock height %d exceeds block height %d", k.LockHeight, header.Height))
		}
	}

	return nil
}
