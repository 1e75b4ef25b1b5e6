// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/grinledger/node/secp256k1zkp"
	"github.com/yoss22/bulletproofs"
	"golang.org/x/crypto/blake2b"
)

// ErrInvalidKernelSignature is returned when a kernel's excess signature
// fails to verify against its excess commitment.
var ErrInvalidKernelSignature = errors.New("consensus: kernel excess signature is invalid")

// TxKernel proves a transaction sums to zero: the excess commitment is a
// Pedersen commitment to zero, and the excess signature proves the signer
// knows its blinding factor, without revealing any value.
type TxKernel struct {
	Features   KernelFeatures
	Fee        uint64
	LockHeight uint64
	Excess     bulletproofs.Point
	ExcessSig  [64]byte
}

// Bytes implements deterministic serialization.
func (k *TxKernel) Bytes() []byte {
	buf := new(bytes.Buffer)
	buf.WriteByte(byte(k.Features))

	if err := binary.Write(buf, binary.BigEndian, k.Fee); err != nil {
		panic(err)
	}
	if err := binary.Write(buf, binary.BigEndian, k.LockHeight); err != nil {
		panic(err)
	}

	buf.Write(k.Excess.Bytes())
	buf.Write(k.ExcessSig[:])

	return buf.Bytes()
}

// Read implements deterministic deserialization.
func (k *TxKernel) Read(r io.Reader) error {
	if err := binary.Read(r, binary.BigEndian, (*uint8)(&k.Features)); err != nil {
		return err
	}
	if err := binary.Read(r, binary.BigEndian, &k.Fee); err != nil {
		return err
	}
	if err := binary.Read(r, binary.BigEndian, &k.LockHeight); err != nil {
		return err
	}
	if err := k.Excess.Read(r); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, k.ExcessSig[:]); err != nil {
		return err
	}
	return nil
}

// Hash returns Blake2b of the serialized kernel.
func (k *TxKernel) Hash() Hash {
	sum := blake2b.Sum256(k.Bytes())
	return sum[:]
}

// IsCoinbase reports whether this kernel carries the coinbase feature.
func (k *TxKernel) IsCoinbase() bool {
	return k.Features&CoinbaseKernel == CoinbaseKernel
}

// Validate checks the excess signature against the excess commitment,
// over the feature-tagged signature message (fee, lock height).
func (k *TxKernel) Validate() error {
	msg := secp256k1zkp.ComputeMessage(secp256k1zkp.KernelFeatureTag(k.Features.SignatureTag()), k.Fee, k.LockHeight)
	signature := secp256k1zkp.DecodeSignature(k.ExcessSig)

	if !secp256k1zkp.VerifySignature(k.Excess, msg, signature) {
		return ErrInvalidKernelSignature
	}
	return nil
}

// ExcessBytes returns the 33-byte serialized excess commitment.
func (k *TxKernel) ExcessBytes() secp256k1zkp.Commitment {
	return secp256k1zkp.Commitment(k.Excess.Bytes())
}

// TxKernelList is a sortable list of kernels, ordered by hash ascending (I3).
type TxKernelList []TxKernel

func (m TxKernelList) Len() int { return len(m) }

func (m TxKernelList) Less(i, j int) bool {
	return bytes.Compare(m[i].Hash(), m[j].Hash()) < 0
}

func (m TxKernelList) Swap(i, j int) { m[i], m[j] = m[j], m[i] }

// Sum returns the aggregate (summed) excess commitment of the kernel list.
func (m TxKernelList) Sum() (*bulletproofs.Point, error) {
	if len(m) == 0 {
		return nil, errors.New("consensus: cannot sum an empty kernel list")
	}
	acc := m[0].Excess
	for i := 1; i < len(m); i++ {
		acc = *bulletproofs.SumPoints(&acc, &m[i].Excess)
	}
	return &acc, nil
}

// TotalFee returns the sum of all kernel fees.
func (m TxKernelList) TotalFee() uint64 {
	var total uint64
	for _, k := range m {
		total += k.Fee
	}
	return total
}
