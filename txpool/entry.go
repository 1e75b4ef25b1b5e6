// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package txpool

import (
	"time"

	"github.com/grinledger/node/consensus"
)

// Entry is one pooled transaction together with its Dandelion++ state.
type Entry struct {
	Tx        *consensus.Transaction
	Status    Status
	Timestamp time.Time

	// embargoDeadline is only meaningful while Status == Stemmed: once
	// reached without the tx being seen fluffed elsewhere, the pool
	// force-fluffs it itself rather than let it die with its stem peer.
	embargoDeadline time.Time
}

func (e *Entry) hash() string {
	return string(e.Tx.Hash())
}
