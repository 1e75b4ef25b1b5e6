// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"time"

	"github.com/grinledger/node/secp256k1zkp"
	"golang.org/x/crypto/blake2b"
)

// ErrBadProofOfWork is returned when a header's Cuckoo-cycle proof fails to
// verify against the header it was mined for.
var ErrBadProofOfWork = errors.New("consensus: proof of work does not verify against this header")

// BlockHeader is the committing summary of a block: its position in the
// chain, the roots of the three TxHashSet MMRs at this height, and the
// proof of work securing it.
type BlockHeader struct {
	Version uint16
	Height  uint64

	Previous     Hash
	PreviousRoot Hash

	Timestamp time.Time

	OutputRoot     Hash
	RangeProofRoot Hash
	KernelRoot     Hash

	TotalKernelOffset secp256k1zkp.BlindingFactor
	TotalKernelSum    secp256k1zkp.Commitment

	OutputMMRSize uint64
	KernelMMRSize uint64

	TotalDifficulty   Difficulty
	ScalingDifficulty uint32
	Nonce             uint64

	POW Proof
}

func (b *BlockHeader) bytesWithoutPOW() []byte {
	buf := new(bytes.Buffer)

	binary.Write(buf, binary.BigEndian, b.Version)
	binary.Write(buf, binary.BigEndian, b.Height)
	binary.Write(buf, binary.BigEndian, b.Timestamp.Unix())

	mustWriteHash(buf, b.Previous)
	mustWriteHash(buf, b.PreviousRoot)
	mustWriteHash(buf, b.OutputRoot)
	mustWriteHash(buf, b.RangeProofRoot)
	mustWriteHash(buf, b.KernelRoot)

	buf.Write(b.TotalKernelOffset.Bytes())

	binary.Write(buf, binary.BigEndian, b.OutputMMRSize)
	binary.Write(buf, binary.BigEndian, b.KernelMMRSize)
	binary.Write(buf, binary.BigEndian, uint64(b.TotalDifficulty))
	binary.Write(buf, binary.BigEndian, b.ScalingDifficulty)
	binary.Write(buf, binary.BigEndian, b.Nonce)

	return buf.Bytes()
}

func mustWriteHash(buf *bytes.Buffer, h Hash) {
	if len(h) != BlockHashSize {
		panic(errors.New("consensus: invalid hash length in header"))
	}
	buf.Write(h)
}

// Bytes serializes the full header, including the proof of work.
func (b *BlockHeader) Bytes() []byte {
	var buf bytes.Buffer
	buf.Write(b.bytesWithoutPOW())
	buf.Write(b.POW.Bytes())
	return buf.Bytes()
}

// Read deserializes a header.
func (b *BlockHeader) Read(r io.Reader) error {
	if err := binary.Read(r, binary.BigEndian, &b.Version); err != nil {
		return err
	}
	if err := binary.Read(r, binary.BigEndian, &b.Height); err != nil {
		return err
	}

	var ts int64
	if err := binary.Read(r, binary.BigEndian, &ts); err != nil {
		return err
	}
	b.Timestamp = time.Unix(ts, 0).UTC()

	var err error
	if b.Previous, err = readHash(r); err != nil {
		return err
	}
	if b.PreviousRoot, err = readHash(r); err != nil {
		return err
	}
	if b.OutputRoot, err = readHash(r); err != nil {
		return err
	}
	if b.RangeProofRoot, err = readHash(r); err != nil {
		return err
	}
	if b.KernelRoot, err = readHash(r); err != nil {
		return err
	}

	offsetBytes := make([]byte, secp256k1zkp.SecretKeySize)
	if _, err := io.ReadFull(r, offsetBytes); err != nil {
		return err
	}
	if b.TotalKernelOffset, err = secp256k1zkp.BlindingFactorFromBytes(offsetBytes); err != nil {
		return err
	}

	if err := binary.Read(r, binary.BigEndian, &b.OutputMMRSize); err != nil {
		return err
	}
	if err := binary.Read(r, binary.BigEndian, &b.KernelMMRSize); err != nil {
		return err
	}
	if err := binary.Read(r, binary.BigEndian, &b.TotalDifficulty); err != nil {
		return err
	}
	if err := binary.Read(r, binary.BigEndian, &b.ScalingDifficulty); err != nil {
		return err
	}
	if err := binary.Read(r, binary.BigEndian, &b.Nonce); err != nil {
		return err
	}

	return b.POW.Read(r)
}

func readHash(r io.Reader) (Hash, error) {
	h := make([]byte, BlockHashSize)
	if _, err := io.ReadFull(r, h); err != nil {
		return nil, err
	}
	return h, nil
}

// Hash is Blake2b of the serialized pre-PoW prefix plus the Cuckoo cycle
// proof, making the proof of work itself part of the block's identity.
func (b *BlockHeader) Hash() Hash {
	sum := blake2b.Sum256(b.Bytes())
	return sum[:]
}
