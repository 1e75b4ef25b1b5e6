// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/grinledger/node/consensus"
)

func TestValidateBlockRejectsMissingCoinbase(t *testing.T) {
	block := &consensus.Block{
		Header: consensus.BlockHeader{Height: 1, Timestamp: time.Unix(0, 0)},
	}

	err := ValidateBlock(block, consensus.Mainnet, time.Time{}, time.Unix(0, 0), nil)
	var verr *Error
	if !errors.As(err, &verr) || verr.Kind != KindBadFeature {
		t.Errorf("expected KindBadFeature for a coinbase-less block, got %v", err)
	}
}
