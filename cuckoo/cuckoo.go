// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package cuckoo verifies Cuckoo-cycle proofs of work: a solution is a set
// of edges in a large bipartite graph, keyed by a block header, that forms a
// cycle of a fixed length. Finding one is asymmetrically hard (solvers do
// most of the work); verifying one is cheap, which is what this package
// does — it never searches for solutions, only checks them.
package cuckoo

import (
	"encoding/binary"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

// New builds a Cuckoo graph context keyed by header hash, sized to
// 2^edgeBits nodes in all: 2^(edgeBits-1) on each side.
func New(key []byte, edgeBits uint8) *Cuckoo {
	bsum := blake2b.Sum256(key)
	key = bsum[:]

	k0 := binary.LittleEndian.Uint64(key[:8])
	k1 := binary.LittleEndian.Uint64(key[8:16])

	v := make([]uint64, 4)
	v[0] = k0 ^ 0x736f6d6570736575
	v[1] = k1 ^ 0x646f72616e646f6d
	v[2] = k0 ^ 0x6c7967656e657261
	v[3] = k1 ^ 0x7465646279746573

	return &Cuckoo{
		mask:     (uint64(1)<<edgeBits)/2 - 1,
		size:     uint64(1) << edgeBits,
		edgeBits: edgeBits,
		v:        v,
	}
}

// Edge is one edge of a candidate cycle, connecting node U on one side of
// the bipartite graph to node V on the other.
type Edge struct {
	U uint64
	V uint64

	usedU bool
	usedV bool
}

// Cuckoo is a verification context for one header/edge-bits combination.
type Cuckoo struct {
	mask     uint64
	size     uint64
	edgeBits uint8

	v []uint64
}

func (c *Cuckoo) newNode(nonce uint64, i uint64) uint64 {
	return ((siphash24(c.v, 2*nonce+i) & c.mask) << 1) | i
}

// NewEdge returns the edge a given proof nonce generates in this graph.
func (c *Cuckoo) NewEdge(nonce uint32) *Edge {
	return &Edge{
		U: c.newNode(uint64(nonce), 0),
		V: c.newNode(uint64(nonce), 1),
	}
}

// Verify checks that nonces forms a simple cycle of exactly len(nonces)
// edges in this graph, with every edge below the easiness threshold and
// nonces presented in strictly ascending order (a proof encoding rule that
// prevents trivial re-orderings of the same cycle from hashing differently).
func (c *Cuckoo) Verify(nonces []uint32, ease uint64) bool {
	proofSize := len(nonces)

	if proofSize == 0 {
		return false
	}

	easiness := ease * c.size / 100

	proof := make([]*Edge, proofSize)
	for i := 0; i < proofSize; i++ {
		if uint64(nonces[i]) >= easiness || (i != 0 && nonces[i] <= nonces[i-1]) {
			return false
		}

		proof[i] = c.NewEdge(nonces[i])
		logrus.Debugf("%#v", *proof[i])
	}

	i := 0
	flag := 0
	cycle := 0

loop:
	for {
		if flag%2 == 0 {
			for j := 0; j < proofSize; j++ {
				if j != i && !proof[j].usedU && proof[i].U == proof[j].U {
					proof[i].usedU = true
					proof[j].usedU = true

					i = j
					flag ^= 1
					cycle++

					continue loop
				}
			}
		} else {
			for j := 0; j < proofSize; j++ {
				if j != i && !proof[j].usedV && proof[i].V == proof[j].V {
					proof[i].usedV = true
					proof[j].usedV = true

					i = j
					flag ^= 1
					cycle++

					continue loop
				}
			}
		}

		break
	}

	return cycle == proofSize
}
