// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package pmmr implements Merkle Mountain Ranges: append-only hash trees
// with a canonical positional flattening that lets every node — leaf or
// parent — be addressed by a single integer position instead of a
// (row, column) pair. A complete binary tree of height h occupies
// 2^(h+1)-1 consecutive positions; an MMR of arbitrary size is a forest of
// such complete trees (its "peaks"), each strictly smaller than the last,
// read right to left as height increases.
package pmmr

// layout replays the standard MMR append/merge rule — a new leaf merges
// with the current rightmost peak whenever the two are the same height,
// repeatedly, until the remaining peaks have strictly decreasing height —
// to recover, for an arbitrary historical node count, the height of every
// position up to it and the positions of its current peaks. Every node's
// height is fixed forever once it is created, so replaying from position 0
// is always correct; it is simply not the fastest way to ask the question,
// which is why the live MMR types below track their own peak stack
// incrementally instead of calling this on every append.
func layout(size uint64) (heights []uint64, peaks []uint64, leafPositions []uint64) {
	heights = make([]uint64, 0, size)

	var stackHeights []uint64
	var stackPos []uint64

	for uint64(len(heights)) < size {
		pos := uint64(len(heights))
		leafPositions = append(leafPositions, pos)

		h := uint64(0)
		heights = append(heights, h)
		stackHeights = append(stackHeights, h)
		stackPos = append(stackPos, pos)

		for len(stackHeights) >= 2 && stackHeights[len(stackHeights)-1] == stackHeights[len(stackHeights)-2] {
			newHeight := stackHeights[len(stackHeights)-1] + 1

			stackHeights = stackHeights[:len(stackHeights)-2]
			stackPos = stackPos[:len(stackPos)-2]

			parentPos := uint64(len(heights))
			heights = append(heights, newHeight)

			stackHeights = append(stackHeights, newHeight)
			stackPos = append(stackPos, parentPos)
		}
	}

	peaks = append([]uint64{}, stackPos...)
	return heights, peaks, leafPositions
}

// Peaks returns the peak positions of an MMR with the given node count,
// left to right (tallest peak first).
func Peaks(size uint64) []uint64 {
	_, peaks, _ := layout(size)
	return peaks
}

// HeightOf returns the height of the node at pos (0 for a leaf).
func HeightOf(pos uint64) uint64 {
	heights, _, _ := layout(pos + 1)
	return heights[pos]
}

// IsLeaf reports whether pos is a leaf position.
func IsLeaf(pos uint64) bool {
	return HeightOf(pos) == 0
}

// NumLeaves returns the number of leaves contained in an MMR with the given
// node count.
func NumLeaves(size uint64) uint64 {
	_, _, leafPositions := layout(size)
	return uint64(len(leafPositions))
}

// LeafToPos returns the MMR position assigned to the leafIndex'th leaf
// (0-indexed in insertion order) of an MMR whose current size is at least
// large enough to contain it.
func LeafToPos(size uint64, leafIndex uint64) uint64 {
	_, _, leafPositions := layout(size)
	return leafPositions[leafIndex]
}
