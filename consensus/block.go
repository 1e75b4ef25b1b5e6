// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// ErrCoinbaseCount is returned when a block's body does not carry exactly
// one coinbase output and one coinbase kernel.
var ErrCoinbaseCount = errors.New("consensus: block must contain exactly one coinbase output and one coinbase kernel")

// Block is a full block: a header plus the complete transaction body of
// every input, output and kernel introduced since its parent.
type Block struct {
	Header BlockHeader
	Body   TransactionBody
}

// Bytes implements deterministic serialization.
func (b *Block) Bytes() []byte {
	buf := new(bytes.Buffer)
	buf.Write(b.Header.Bytes())
	buf.Write(b.Body.Bytes())
	return buf.Bytes()
}

// Read implements deterministic deserialization.
func (b *Block) Read(r io.Reader) error {
	if err := b.Header.Read(r); err != nil {
		return err
	}
	return b.Body.Read(r)
}

// Hash returns the block's identity, which is its header hash.
func (b *Block) Hash() Hash {
	return b.Header.Hash()
}

// VerifyCoinbase implements the exactly-one-coinbase-output,
// exactly-one-coinbase-kernel rule every block (other than via aggregation
// quirks the validator rejects outright) must satisfy.
func (b *Block) VerifyCoinbase() error {
	outputs, kernels := b.Body.CoinbaseCounts()
	if outputs != MaxBlockCoinbaseOutputs || kernels != MaxBlockCoinbaseKernels {
		return ErrCoinbaseCount
	}
	return nil
}

// CompactBlock is the short-id reconstruction format broadcast to peers:
// it carries the header, the coinbase outputs/kernels in full (since a peer
// can never already hold them), and 6-byte short ids for every other
// kernel, to be resolved against the receiving peer's own transaction pool.
type CompactBlock struct {
	Header BlockHeader
	Nonce  uint64

	FullOutputs OutputList
	FullKernels TxKernelList

	KernelIDs ShortIDList
}

// Bytes implements deterministic serialization.
func (c *CompactBlock) Bytes() []byte {
	buf := new(bytes.Buffer)
	buf.Write(c.Header.Bytes())

	binary.Write(buf, binary.BigEndian, c.Nonce)

	binary.Write(buf, binary.BigEndian, uint64(len(c.FullOutputs)))
	for i := range c.FullOutputs {
		buf.Write(c.FullOutputs[i].Bytes())
	}

	binary.Write(buf, binary.BigEndian, uint64(len(c.FullKernels)))
	for i := range c.FullKernels {
		buf.Write(c.FullKernels[i].Bytes())
	}

	binary.Write(buf, binary.BigEndian, uint64(len(c.KernelIDs)))
	for i := range c.KernelIDs {
		buf.Write(c.KernelIDs[i])
	}

	return buf.Bytes()
}

// Read implements deterministic deserialization.
func (c *CompactBlock) Read(r io.Reader) error {
	if err := c.Header.Read(r); err != nil {
		return err
	}

	if err := binary.Read(r, binary.BigEndian, &c.Nonce); err != nil {
		return err
	}

	var numOutputs uint64
	if err := binary.Read(r, binary.BigEndian, &numOutputs); err != nil {
		return err
	}
	c.FullOutputs = make(OutputList, numOutputs)
	for i := range c.FullOutputs {
		if err := c.FullOutputs[i].Read(r); err != nil {
			return err
		}
	}

	var numKernels uint64
	if err := binary.Read(r, binary.BigEndian, &numKernels); err != nil {
		return err
	}
	c.FullKernels = make(TxKernelList, numKernels)
	for i := range c.FullKernels {
		if err := c.FullKernels[i].Read(r); err != nil {
			return err
		}
	}

	var numIDs uint64
	if err := binary.Read(r, binary.BigEndian, &numIDs); err != nil {
		return err
	}
	c.KernelIDs = make(ShortIDList, numIDs)
	for i := range c.KernelIDs {
		id := make(ShortID, ShortIDSize)
		if _, err := io.ReadFull(r, id); err != nil {
			return err
		}
		c.KernelIDs[i] = id
	}

	return nil
}

// Hash returns the compact block's identity, which is its header hash.
func (c *CompactBlock) Hash() Hash {
	return c.Header.Hash()
}
