// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/grinledger/node/secp256k1zkp"
	"golang.org/x/crypto/blake2b"
)

// Input references a previous output being spent. Its identity is the
// commitment; an input has no identity beyond that of the output it spends.
type Input struct {
	Features OutputFeatures
	Commit   secp256k1zkp.Commitment
}

// Bytes implements deterministic serialization.
func (in *Input) Bytes() []byte {
	buf := new(bytes.Buffer)
	buf.WriteByte(byte(in.Features))
	buf.Write(in.Commit)
	return buf.Bytes()
}

// Read implements deterministic deserialization.
func (in *Input) Read(r io.Reader) error {
	if err := binary.Read(r, binary.BigEndian, &in.Features); err != nil {
		return err
	}

	commitment := make([]byte, secp256k1zkp.PedersenCommitmentSize)
	if _, err := io.ReadFull(r, commitment); err != nil {
		return err
	}
	in.Commit = commitment

	return nil
}

// Hash returns Blake2b of the serialized input.
func (in *Input) Hash() Hash {
	sum := blake2b.Sum256(in.Bytes())
	return sum[:]
}

// InputList is a sortable list of inputs, ordered by hash ascending (I1).
type InputList []Input

func (m InputList) Len() int { return len(m) }

func (m InputList) Less(i, j int) bool {
	return bytes.Compare(m[i].Hash(), m[j].Hash()) < 0
}

func (m InputList) Swap(i, j int) { m[i], m[j] = m[j], m[i] }

// Commitments returns the list of input commitments, in list order.
func (m InputList) Commitments() []secp256k1zkp.Commitment {
	out := make([]secp256k1zkp.Commitment, len(m))
	for i, in := range m {
		out[i] = in.Commit
	}
	return out
}
