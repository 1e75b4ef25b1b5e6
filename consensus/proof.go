// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"golang.org/x/crypto/blake2b"
)

// ErrInvalidProofLength is returned when a Cuckoo-cycle proof's nonce count
// does not equal ProofSize.
var ErrInvalidProofLength = errors.New("consensus: invalid proof-of-work nonce count")

// Proof is a Cuckoo-cycle proof of work: a set of edge indices (nonces)
// forming a cycle of length ProofSize in the Cuckoo graph keyed by the
// header it proves.
type Proof struct {
	EdgeBits uint8
	Nonces   []uint32
}

// Bytes serializes the proof's edge-bits and nonces.
func (p *Proof) Bytes() []byte {
	buf := new(bytes.Buffer)
	buf.WriteByte(p.EdgeBits)
	for _, n := range p.Nonces {
		binary.Write(buf, binary.BigEndian, n)
	}
	return buf.Bytes()
}

// Read deserializes a proof; the nonce count is fixed at ProofSize.
func (p *Proof) Read(r io.Reader) error {
	var edgeBits [1]byte
	if _, err := io.ReadFull(r, edgeBits[:]); err != nil {
		return err
	}
	p.EdgeBits = edgeBits[0]

	p.Nonces = make([]uint32, ProofSize)
	buf := make([]byte, 4)
	for i := range p.Nonces {
		if _, err := io.ReadFull(r, buf); err != nil {
			return err
		}
		p.Nonces[i] = binary.BigEndian.Uint32(buf)
	}
	return nil
}

// Hash returns Blake2b of the serialized proof, used as the difficulty input.
func (p *Proof) Hash() Hash {
	sum := blake2b.Sum256(p.Bytes())
	return sum[:]
}

// IsSecondary reports whether this proof uses the fixed secondary edge-bits
// (secondary PoW), as opposed to a primary Cuckoo-cycle proof.
func (p *Proof) IsSecondary() bool {
	return p.EdgeBits == SecondPowEdgeBits
}
