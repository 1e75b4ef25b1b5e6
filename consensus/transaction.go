// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import (
	"bytes"
	"io"

	"github.com/grinledger/node/secp256k1zkp"
	"golang.org/x/crypto/blake2b"
)

// Transaction is an aggregate Mimblewimble transaction. Offset (k2) splits
// the excess k = k1 + k2 so that k1*G becomes the kernel excess while k2 is
// published in the clear, which is what lets kernels from unrelated
// transactions be summed together (aggregation) without leaking either
// party's blinding factor.
type Transaction struct {
	Offset secp256k1zkp.BlindingFactor
	Body   TransactionBody
}

// Bytes implements deterministic serialization.
func (t *Transaction) Bytes() []byte {
	buf := new(bytes.Buffer)
	buf.Write(t.Offset.Bytes())
	buf.Write(t.Body.Bytes())
	return buf.Bytes()
}

// Read implements deterministic deserialization.
func (t *Transaction) Read(r io.Reader) error {
	offsetBytes := make([]byte, secp256k1zkp.SecretKeySize)
	if _, err := io.ReadFull(r, offsetBytes); err != nil {
		return err
	}
	offset, err := secp256k1zkp.BlindingFactorFromBytes(offsetBytes)
	if err != nil {
		return err
	}
	t.Offset = offset

	return t.Body.Read(r)
}

// Hash returns Blake2b of the serialized transaction.
func (t *Transaction) Hash() Hash {
	sum := blake2b.Sum256(t.Bytes())
	return sum[:]
}

// Fee returns the total fee this transaction pays (sum of kernel fees).
func (t *Transaction) Fee() uint64 {
	return t.Body.Kernels.TotalFee()
}

// LockHeight returns the maximum lock height across the transaction's
// height-locked kernels, i.e. the height at which the transaction itself
// becomes valid.
func (t *Transaction) LockHeight() uint64 {
	var max uint64
	for i := range t.Body.Kernels {
		if t.Body.Kernels[i].LockHeight > max {
			max = t.Body.Kernels[i].LockHeight
		}
	}
	return max
}
