// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package pmmr

import "testing"

func TestLayoutKnownSizes(t *testing.T) {
	// The canonical MMR size sequence after n leaves: 1, 3, 4, 7, 8, 10, 11, 15.
	want := []uint64{1, 3, 4, 7, 8, 10, 11, 15}

	hashes := NewMemHashStore()
	m := NewAppendOnlyMMR(hashes)

	for i, expect := range want {
		if _, err := m.Append([]byte{byte(i)}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if got := m.Size(); got != expect {
			t.Fatalf("after %d leaves: size = %d, want %d", i+1, got, expect)
		}
	}
}

func TestAppendOnlyRootStableAcrossAppends(t *testing.T) {
	hashes := NewMemHashStore()
	m := NewAppendOnlyMMR(hashes)

	var roots []Hash
	for i := 0; i < 8; i++ {
		if _, err := m.Append([]byte{byte(i)}); err != nil {
			t.Fatalf("append: %v", err)
		}
		root, err := m.Root()
		if err != nil {
			t.Fatalf("root: %v", err)
		}
		roots = append(roots, root)
	}

	// Rebuilding from scratch must reproduce every intermediate root
	// (P1: MMR round-trip).
	replay := NewAppendOnlyMMR(NewMemHashStore())
	for i := 0; i < 8; i++ {
		if _, err := replay.Append([]byte{byte(i)}); err != nil {
			t.Fatalf("replay append: %v", err)
		}
		root, err := replay.Root()
		if err != nil {
			t.Fatalf("replay root: %v", err)
		}
		if root != roots[i] {
			t.Fatalf("replay root %d mismatch: got %x, want %x", i, root, roots[i])
		}
	}
}

func TestAppendOnlyRewind(t *testing.T) {
	hashes := NewMemHashStore()
	m := NewAppendOnlyMMR(hashes)

	for i := 0; i < 4; i++ {
		if _, err := m.Append([]byte{byte(i)}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	sizeAt4 := m.Size()
	rootAt4, err := m.Root()
	if err != nil {
		t.Fatalf("root: %v", err)
	}

	for i := 4; i < 8; i++ {
		if _, err := m.Append([]byte{byte(i)}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	if err := m.Rewind(sizeAt4); err != nil {
		t.Fatalf("rewind: %v", err)
	}
	if m.Size() != sizeAt4 {
		t.Fatalf("size after rewind = %d, want %d", m.Size(), sizeAt4)
	}
	root, err := m.Root()
	if err != nil {
		t.Fatalf("root after rewind: %v", err)
	}
	if root != rootAt4 {
		t.Fatalf("root after rewind = %x, want %x", root, rootAt4)
	}
}

func TestPrunableRemoveAndRestore(t *testing.T) {
	m := NewPrunableMMR(NewMemHashStore(), NewMemDataStore(), NewBitSet())

	var leafIndices []uint64
	for i := 0; i < 4; i++ {
		_, leafIndex, err := m.Append([]byte{byte(i)})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		leafIndices = append(leafIndices, leafIndex)
	}

	rootBefore, err := m.Root()
	if err != nil {
		t.Fatalf("root: %v", err)
	}

	m.Remove(leafIndices[1])
	if m.IsAlive(leafIndices[1]) {
		t.Fatal("leaf should be spent after Remove")
	}

	// Pruning a leaf must never change the MMR root: the hash structure
	// does not depend on the leaf-alive bitmap.
	rootAfter, err := m.Root()
	if err != nil {
		t.Fatalf("root after remove: %v", err)
	}
	if rootAfter != rootBefore {
		t.Fatal("root changed after pruning a leaf")
	}
}

func TestHeightOfMatchesLayout(t *testing.T) {
	heights, _, _ := layout(7)
	for pos, want := range heights {
		if got := HeightOf(uint64(pos)); got != want {
			t.Fatalf("HeightOf(%d) = %d, want %d", pos, got, want)
		}
	}
}
