// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package pmmr

import "errors"

// ErrPositionOutOfRange is returned by a store when asked to read or
// truncate past its current extent.
var ErrPositionOutOfRange = errors.New("pmmr: position out of range")

// AppendOnlyMMR is the pure append-only MMR variant, used for the kernel MMR
// (this module builds no header MMR): every leaf that has ever been appended remains readable
// forever, so there is no leaf set or prune list, just the node-hash file.
type AppendOnlyMMR struct {
	hashes HashStore

	// peakHeights/peakPositions mirror layout()'s merge bookkeeping,
	// maintained incrementally so Append is O(log n) instead of replaying
	// the whole history on every call.
	peakHeights   []uint64
	peakPositions []uint64
}

// NewAppendOnlyMMR wraps an existing (possibly non-empty) hash store.
func NewAppendOnlyMMR(hashes HashStore) *AppendOnlyMMR {
	m := &AppendOnlyMMR{hashes: hashes}
	heights, peaks, _ := layout(hashes.Size())
	m.peakPositions = peaks
	m.peakHeights = make([]uint64, len(peaks))
	for i, p := range peaks {
		m.peakHeights[i] = heights[p]
	}
	return m
}

// Size returns the current node count.
func (m *AppendOnlyMMR) Size() uint64 { return m.hashes.Size() }

// Append adds a new leaf, serialized by the caller, cascading parent-hash
// creation as required, and returns the position assigned to the new leaf.
func (m *AppendOnlyMMR) Append(leaf []byte) (uint64, error) {
	pos := m.hashes.Size()
	leafHash := HashLeaf(pos, leaf)

	if err := m.hashes.Append(leafHash); err != nil {
		return 0, err
	}

	m.peakHeights = append(m.peakHeights, 0)
	m.peakPositions = append(m.peakPositions, pos)

	for len(m.peakHeights) >= 2 && m.peakHeights[len(m.peakHeights)-1] == m.peakHeights[len(m.peakHeights)-2] {
		leftPos := m.peakPositions[len(m.peakPositions)-2]
		rightPos := m.peakPositions[len(m.peakPositions)-1]

		leftHash, err := m.hashes.At(leftPos)
		if err != nil {
			return 0, err
		}
		rightHash, err := m.hashes.At(rightPos)
		if err != nil {
			return 0, err
		}

		parentPos := m.hashes.Size()
		parentHash := HashParent(parentPos, leftHash, rightHash)
		if err := m.hashes.Append(parentHash); err != nil {
			return 0, err
		}

		newHeight := m.peakHeights[len(m.peakHeights)-1] + 1
		m.peakHeights = m.peakHeights[:len(m.peakHeights)-2]
		m.peakPositions = m.peakPositions[:len(m.peakPositions)-2]
		m.peakHeights = append(m.peakHeights, newHeight)
		m.peakPositions = append(m.peakPositions, parentPos)
	}

	return pos, nil
}

// Root returns the bagged root of the current peaks.
func (m *AppendOnlyMMR) Root() (Hash, error) {
	peakHashes := make([]Hash, len(m.peakPositions))
	for i, p := range m.peakPositions {
		h, err := m.hashes.At(p)
		if err != nil {
			return Hash{}, err
		}
		peakHashes[i] = h
	}
	return BagPeaks(m.hashes.Size(), peakHashes), nil
}

// Rewind truncates the MMR back to an earlier size. Append-only MMRs never
// lose data otherwise, so rewinding only ever discards a chain's most
// recent extension, never data belonging to a still-live fork.
func (m *AppendOnlyMMR) Rewind(size uint64) error {
	if err := m.hashes.Truncate(size); err != nil {
		return err
	}
	heights, peaks, _ := layout(size)
	m.peakPositions = peaks
	m.peakHeights = make([]uint64, len(peaks))
	for i, p := range peaks {
		m.peakHeights[i] = heights[p]
	}
	return nil
}
