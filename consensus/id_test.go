// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import (
	"encoding/hex"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

func TestShortIDSmoke(t *testing.T) {
	kernelHash := Hash(mustHex(t, "81e47a19e6b29b0a65b9591762ce5143ed30d0261e5d24a3201752506b20f15c"))
	blockHash := Hash(make([]byte, BlockHashSize))

	got := kernelHash.ShortID(blockHash, 0)
	want := mustHex(t, "4cc808b62476")

	if got.String() != hex.EncodeToString(want) {
		t.Errorf("short id = %s, want %s", got, hex.EncodeToString(want))
	}
}

func TestShortIDWithNonce(t *testing.T) {
	kernelHash := Hash(mustHex(t, "3a42e66e46dd7633b57d1f921780a1ac715e6b93c19ee52ab714178eb3a9f673"))
	blockHash := Hash(make([]byte, BlockHashSize))

	got := kernelHash.ShortID(blockHash, 5)
	want := "02955a094534"

	if got.String() != want {
		t.Errorf("short id = %s, want %s", got, want)
	}
}

func TestShortIDWithBlockHash(t *testing.T) {
	kernelHash := Hash(mustHex(t, "3a42e66e46dd7633b57d1f921780a1ac715e6b93c19ee52ab714178eb3a9f673"))
	blockHash := Hash(mustHex(t, "81e47a19e6b29b0a65b9591762ce5143ed30d0261e5d24a3201752506b20f15c"))

	got := kernelHash.ShortID(blockHash, 5)
	want := "3e9cde72a687"

	if got.String() != want {
		t.Errorf("short id = %s, want %s", got, want)
	}
}

func TestShortIDListSortsByHashOfShortID(t *testing.T) {
	a := ShortID(mustHex(t, "0000000000ff"))
	b := ShortID(mustHex(t, "0000000000aa"))

	list := ShortIDList{a, b}

	// Sorting must be driven by Hash(), not the raw bytes - assert the
	// list is a valid permutation and Less is consistent with Hash().
	less := list.Less(0, 1)
	if less != (a.Hash().String() < b.Hash().String()) {
		t.Errorf("ShortIDList.Less must compare Hash() of the short ids")
	}
}
