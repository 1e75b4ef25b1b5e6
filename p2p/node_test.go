// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package p2p

import (
	"testing"

	"github.com/grinledger/node/txpool"
)

var _ NodeClient = (*Node)(nil)

func TestInitialStatusFollowsArrivalPath(t *testing.T) {
	if got := initialStatus(true); got != txpool.ToStem {
		t.Errorf("expected a stem-relayed transaction to start ToStem, got %s", got)
	}
	if got := initialStatus(false); got != txpool.ToFluff {
		t.Errorf("expected a directly-received transaction to start ToFluff, got %s", got)
	}
}
