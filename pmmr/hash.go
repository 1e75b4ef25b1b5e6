// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package pmmr

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// Hash is a 32-byte MMR node hash.
type Hash [32]byte

// ZeroHash is the all-zero hash, used as the empty-MMR root.
var ZeroHash = Hash{}

// HashLeaf computes the leaf-node hash at pos: Blake2b(position_be ‖
// leaf_serialization).
func HashLeaf(pos uint64, leaf []byte) Hash {
	var posBuf [8]byte
	binary.BigEndian.PutUint64(posBuf[:], pos)

	h, _ := blake2b.New256(nil)
	h.Write(posBuf[:])
	h.Write(leaf)

	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// HashParent computes the parent-node hash at pos: Blake2b(position_be ‖
// left_hash ‖ right_hash).
func HashParent(pos uint64, left, right Hash) Hash {
	var posBuf [8]byte
	binary.BigEndian.PutUint64(posBuf[:], pos)

	h, _ := blake2b.New256(nil)
	h.Write(posBuf[:])
	h.Write(left[:])
	h.Write(right[:])

	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// BagPeaks folds a list of peak hashes (left to right, tallest first) into
// a single MMR root, starting from the rightmost peak: bag_peaks(peaks) =
// Blake2b(n_be ‖ peak_right ‖ bag_peaks(remainder)).
func BagPeaks(size uint64, peakHashes []Hash) Hash {
	if len(peakHashes) == 0 {
		return ZeroHash
	}

	acc := peakHashes[len(peakHashes)-1]
	for i := len(peakHashes) - 2; i >= 0; i-- {
		var sizeBuf [8]byte
		binary.BigEndian.PutUint64(sizeBuf[:], size)

		h, _ := blake2b.New256(nil)
		h.Write(sizeBuf[:])
		h.Write(peakHashes[i][:])
		h.Write(acc[:])

		var next Hash
		copy(next[:], h.Sum(nil))
		acc = next
	}
	return acc
}
