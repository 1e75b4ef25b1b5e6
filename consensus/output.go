// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/grinledger/node/secp256k1zkp"
	"github.com/yoss22/bulletproofs"
	"golang.org/x/crypto/blake2b"
)

// Output defines the new ownership of coins being transferred. The
// commitment is a blinded value; the range proof guarantees the committed
// value is positive and within range without revealing it.
//
// The output's identity hash only covers features and commitment - the
// range proof is committed to separately by the rproof MMR, so that pruning
// a spent output's proof never disturbs the output-MMR leaf hash.
type Output struct {
	Features   OutputFeatures
	Commit     *bulletproofs.Point
	RangeProof bulletproofs.BulletProof
}

// BytesWithoutProof serializes everything but the range proof.
func (o *Output) BytesWithoutProof() []byte {
	buf := new(bytes.Buffer)
	buf.WriteByte(byte(o.Features))
	buf.Write(o.Commit.Bytes())
	return buf.Bytes()
}

// CommitBytes returns the 33-byte serialized commitment, used for cut-through
// and position-index lookups against Input.Commit.
func (o *Output) CommitBytes() secp256k1zkp.Commitment {
	return secp256k1zkp.Commitment(o.Commit.Bytes())
}

// Bytes implements full deterministic serialization (features, commitment,
// then the length-prefixed range proof).
func (o *Output) Bytes() []byte {
	buf := new(bytes.Buffer)
	buf.Write(o.BytesWithoutProof())

	proof := o.RangeProof.Bytes()
	if err := binary.Write(buf, binary.BigEndian, uint64(len(proof))); err != nil {
		panic(err)
	}
	buf.Write(proof)

	return buf.Bytes()
}

// Read implements deterministic deserialization, rejecting over-long range
// proofs per the §4.1 parse-error rule.
func (o *Output) Read(r io.Reader) error {
	if err := binary.Read(r, binary.BigEndian, (*uint8)(&o.Features)); err != nil {
		return err
	}

	o.Commit = new(bulletproofs.Point)
	if err := o.Commit.Read(r); err != nil {
		return err
	}

	var proofLen uint64
	if err := binary.Read(r, binary.BigEndian, &proofLen); err != nil {
		return err
	}

	if proofLen > uint64(secp256k1zkp.MaxProofSize) {
		return fmt.Errorf("parse error: range proof length %d exceeds maximum %d", proofLen, secp256k1zkp.MaxProofSize)
	}

	proof := new(bulletproofs.BulletProof)
	if err := proof.Read(io.LimitReader(r, int64(proofLen))); err != nil {
		return errors.New("parse error: failed to deserialize range proof")
	}
	o.RangeProof = *proof

	return nil
}

// IdentityHash returns Blake2b(features || commitment) - the output-MMR leaf
// hash. It excludes the range proof, which is hashed separately into the
// rproof MMR.
func (o *Output) IdentityHash() Hash {
	sum := blake2b.Sum256(o.BytesWithoutProof())
	return sum[:]
}

// RangeProofHash returns Blake2b of the range proof bytes, the rproof-MMR
// leaf hash for this output's position.
func (o *Output) RangeProofHash() Hash {
	sum := blake2b.Sum256(o.RangeProof.Bytes())
	return sum[:]
}

// IsCoinbase reports whether this output carries the coinbase feature.
func (o *Output) IsCoinbase() bool {
	return o.Features&CoinbaseOutput == CoinbaseOutput
}

// OutputList is a sortable list of outputs, ordered by identity hash
// ascending (I2).
type OutputList []Output

func (m OutputList) Len() int { return len(m) }

func (m OutputList) Less(i, j int) bool {
	return bytes.Compare(m[i].IdentityHash(), m[j].IdentityHash()) < 0
}

func (m OutputList) Swap(i, j int) { m[i], m[j] = m[j], m[i] }
