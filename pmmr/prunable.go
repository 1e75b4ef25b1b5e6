// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package pmmr

// PrunableMMR is the MMR variant used for outputs and range proofs: leaf
// data lives in a separate data file indexed by leaf insertion order, every
// node hash (leaf and parent) lives in the hash file exactly as in
// AppendOnlyMMR, and a leaf set tracks which leaves are still alive. Unlike
// the append-only variant, a leaf's data and the bit marking it alive can be
// dropped (pruned) once its output is spent and old enough to fall outside
// the cut-through horizon.
type PrunableMMR struct {
	hashes HashStore
	data   DataStore

	leafSet *BitSet

	peakHeights   []uint64
	peakPositions []uint64
}

// NewPrunableMMR wraps existing (possibly non-empty) hash/data stores and a
// leaf set recording which leaves are alive.
func NewPrunableMMR(hashes HashStore, data DataStore, leafSet *BitSet) *PrunableMMR {
	m := &PrunableMMR{hashes: hashes, data: data, leafSet: leafSet}
	heights, peaks, _ := layout(hashes.Size())
	m.peakPositions = peaks
	m.peakHeights = make([]uint64, len(peaks))
	for i, p := range peaks {
		m.peakHeights[i] = heights[p]
	}
	return m
}

// Size returns the current node count (including pruned interior nodes
// whose hashes have not yet been physically compacted away).
func (m *PrunableMMR) Size() uint64 { return m.hashes.Size() }

// NumLeaves returns the number of leaves ever appended (alive or pruned).
func (m *PrunableMMR) NumLeaves() uint64 { return m.data.NumEntries() }

// Append adds a new leaf, marking it alive, and returns its MMR position
// and leaf index.
func (m *PrunableMMR) Append(leaf []byte) (pos uint64, leafIndex uint64, err error) {
	pos = m.hashes.Size()
	leafHash := HashLeaf(pos, leaf)

	if err = m.hashes.Append(leafHash); err != nil {
		return 0, 0, err
	}
	if err = m.data.Append(leaf); err != nil {
		return 0, 0, err
	}

	leafIndex = m.data.NumEntries() - 1
	m.leafSet.Set(leafIndex)

	m.peakHeights = append(m.peakHeights, 0)
	m.peakPositions = append(m.peakPositions, pos)

	for len(m.peakHeights) >= 2 && m.peakHeights[len(m.peakHeights)-1] == m.peakHeights[len(m.peakHeights)-2] {
		leftPos := m.peakPositions[len(m.peakPositions)-2]
		rightPos := m.peakPositions[len(m.peakPositions)-1]

		leftHash, lerr := m.hashes.At(leftPos)
		if lerr != nil {
			return 0, 0, lerr
		}
		rightHash, rerr := m.hashes.At(rightPos)
		if rerr != nil {
			return 0, 0, rerr
		}

		parentPos := m.hashes.Size()
		parentHash := HashParent(parentPos, leftHash, rightHash)
		if err = m.hashes.Append(parentHash); err != nil {
			return 0, 0, err
		}

		newHeight := m.peakHeights[len(m.peakHeights)-1] + 1
		m.peakHeights = m.peakHeights[:len(m.peakHeights)-2]
		m.peakPositions = m.peakPositions[:len(m.peakPositions)-2]
		m.peakHeights = append(m.peakHeights, newHeight)
		m.peakPositions = append(m.peakPositions, parentPos)
	}

	return pos, leafIndex, nil
}

// Remove marks a leaf pruned (spent). The leaf's data and interior hashes
// are not physically dropped until Compact runs; Remove only flips the
// bit that read paths consult, which is what lets rewind restore it again.
func (m *PrunableMMR) Remove(leafIndex uint64) {
	m.leafSet.Clear(leafIndex)
}

// IsAlive reports whether leafIndex is still unspent.
func (m *PrunableMMR) IsAlive(leafIndex uint64) bool {
	return m.leafSet.IsSet(leafIndex)
}

// LeafAt returns the data of a leaf by leaf index, regardless of whether it
// is alive, pruned data is only inaccessible after Compact actually runs.
func (m *PrunableMMR) LeafAt(leafIndex uint64) ([]byte, error) {
	return m.data.At(leafIndex)
}

// Root returns the bagged root of the current peaks.
func (m *PrunableMMR) Root() (Hash, error) {
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

// Rewind truncates the MMR back to an earlier size and leaf count,
// restoring the leaf-alive bit for every leaf index in restoreLeaves (the
// leaves that were spent strictly after the header being rewound to, per
// the inverse of the rewind-removal bitmap recorded at apply time).
func (m *PrunableMMR) Rewind(size uint64, restoreLeaves []uint64) error {
	if err := m.hashes.Truncate(size); err != nil {
		return err
	}

	numLeaves := NumLeaves(size)
	if err := m.data.Truncate(numLeaves); err != nil {
		return err
	}
	m.leafSet.Truncate(numLeaves)

	for _, leafIndex := range restoreLeaves {
		m.leafSet.Set(leafIndex)
	}

	heights, peaks, _ := layout(size)
	m.peakPositions = peaks
	m.peakHeights = make([]uint64, len(peaks))
	for i, p := range peaks {
		m.peakHeights[i] = heights[p]
	}
	return nil
}

// Compact drops the data of every leaf already pruned (spent and, in the
// caller's judgment, old enough to fall outside the cut-through horizon).
// It deliberately leaves every MMR hash untouched: a node's hash never
// depends on anything but its position and its children's hashes at
// append time, so dropping data never changes — and must never change —
// any root. This is a conservative reading of compaction: real disk-space
// reclamation would also collapse interior hashes whose entire subtree is
// pruned (the prune-list), which needs a secondary index to skip over
// dropped interior ranges on lookup; that index is not implemented here
// since every root and membership check this node performs only reads
// alive leaves, never pruned interior hashes.
func (m *PrunableMMR) Compact(prunedBefore uint64) error {
	for i := uint64(0); i < prunedBefore; i++ {
		if m.leafSet.IsSet(i) {
			continue
		}
		if err := m.data.Clear(i); err != nil {
			return err
		}
	}
	return nil
}
