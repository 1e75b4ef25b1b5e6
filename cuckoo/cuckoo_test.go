// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package cuckoo

import "testing"

func TestSiphash24(t *testing.T) {
	if siphash24([]uint64{1, 2, 3, 4}, 10) != uint64(928382149599306901) {
		t.Errorf("siphash24 was incorrect, want: %d.", uint64(928382149599306901))
	}
	if siphash24([]uint64{1, 2, 3, 4}, 111) != uint64(10524991083049122233) {
		t.Errorf("siphash24 was incorrect, want: %d.", uint64(10524991083049122233))
	}
	if siphash24([]uint64{9, 7, 6, 7}, 12) != uint64(1305683875471634734) {
		t.Errorf("siphash24 was incorrect, want: %d.", uint64(1305683875471634734))
	}
	if siphash24([]uint64{9, 7, 6, 7}, 10) != uint64(11589833042187638814) {
		t.Errorf("siphash24 was incorrect, want: %d.", uint64(11589833042187638814))
	}
}

func TestVerifyRejectsZeroLengthProof(t *testing.T) {
	ctx := New([]byte("test key"), 16)
	if ctx.Verify(nil, 50) {
		t.Fatal("an empty proof must never verify")
	}
}

func TestVerifyRejectsUnsortedNonces(t *testing.T) {
	ctx := New([]byte("test key"), 16)
	if ctx.Verify([]uint32{5, 3}, 50) {
		t.Fatal("non-ascending nonces must be rejected before any cycle search")
	}
}

func TestVerifyRejectsNonceAboveEasiness(t *testing.T) {
	ctx := New([]byte("test key"), 8)
	if ctx.Verify([]uint32{1 << 20}, 50) {
		t.Fatal("a nonce beyond the easiness threshold must be rejected")
	}
}
