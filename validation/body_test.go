// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package validation

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	. "github.com/yoss22/bulletproofs"

	"github.com/grinledger/node/consensus"
)

func decompressPointFromHex(t *testing.T, s string) *Point {
	t.Helper()
	point := new(Point)
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex: %v", err)
	}
	if err := point.Read(bytes.NewReader(b)); err != nil {
		t.Fatalf("decode point: %v", err)
	}
	return point
}

func decodeHex64(t *testing.T, s string) [64]byte {
	t.Helper()
	slice, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex: %v", err)
	}
	var arr [64]byte
	copy(arr[:], slice)
	return arr
}

// validPlainKernel reuses the worked Schnorr test vector the secp256k1zkp
// package already verifies against, so ValidateBody exercises a kernel
// signature check known to succeed.
func validPlainKernel(t *testing.T) consensus.TxKernel {
	t.Helper()
	excess := decompressPointFromHex(t, "092095ceab2c20f9a6109a7b0add8d488b3838dcc007c77a43cbe99a14a81b62e8")
	sig := decodeHex64(t, "804b2ed798221e8f4c139daeedeab487221be33db1adf9e129928564e1702b02fbbacaf4cbe4c4b122a9b39d2a7625b9254e43eeade171e9ccafda6dd8538acc")

	return consensus.TxKernel{
		Features:  consensus.PlainKernel,
		Fee:       2,
		Excess:    *excess,
		ExcessSig: sig,
	}
}

func TestValidateBodyAcceptsValidKernel(t *testing.T) {
	body := consensus.TransactionBody{Kernels: consensus.TxKernelList{validPlainKernel(t)}}

	if err := ValidateBody(&body, nil); err != nil {
		t.Errorf("expected valid body to pass, got %v", err)
	}
}

func TestValidateBodyRejectsBadKernelSignature(t *testing.T) {
	k := validPlainKernel(t)
	k.Fee = 3 // changes the signed message, invalidating the signature

	body := consensus.TransactionBody{Kernels: consensus.TxKernelList{k}}

	err := ValidateBody(&body, nil)
	if err == nil {
		t.Fatalf("expected bad kernel signature to be rejected")
	}
	var verr *Error
	if !errors.As(err, &verr) || verr.Kind != KindBadKernelSig {
		t.Errorf("expected KindBadKernelSig, got %v", err)
	}
}

func TestValidateBodyRejectsUnsortedKernels(t *testing.T) {
	k1 := validPlainKernel(t)
	k2 := validPlainKernel(t)
	k2.LockHeight = 1 // gives k2 a different hash so the list isn't a duplicate

	body := consensus.TransactionBody{Kernels: consensus.TxKernelList{k2, k1}}
	if bytes.Compare(k1.Hash(), k2.Hash()) >= 0 {
		t.Fatalf("test fixture assumption violated: k1 must hash before k2")
	}

	err := ValidateBody(&body, nil)
	var verr *Error
	if !errors.As(err, &verr) || verr.Kind != KindBadSort {
		t.Errorf("expected KindBadSort, got %v", err)
	}
}

func TestValidateBodyRejectsWeightExceeded(t *testing.T) {
	kernels := make(consensus.TxKernelList, int(consensus.MaxBlockWeight)+1)
	for i := range kernels {
		k := validPlainKernel(t)
		k.LockHeight = uint64(i)
		kernels[i] = k
	}
	body := consensus.TransactionBody{Kernels: kernels}

	err := ValidateBody(&body, nil)
	var verr *Error
	if !errors.As(err, &verr) || verr.Kind != KindWeightExceeded {
		t.Errorf("expected KindWeightExceeded, got %v", err)
	}
}

func TestValidateTransactionRejectsCoinbaseFeature(t *testing.T) {
	k := validPlainKernel(t)
	k.Features = consensus.CoinbaseKernel

	tx := consensus.Transaction{Body: consensus.TransactionBody{Kernels: consensus.TxKernelList{k}}}

	err := ValidateTransaction(&tx, nil)
	var verr *Error
	if !errors.As(err, &verr) || verr.Kind != KindBadFeature {
		t.Errorf("expected KindBadFeature, got %v", err)
	}
}

func TestRangeProofCacheSkipsRepeatVerification(t *testing.T) {
	cache := NewRangeProofCache()
	commit := []byte{0x01, 0x02, 0x03}

	if cache.seen(commit) {
		t.Fatalf("commitment should not be marked seen yet")
	}
	cache.remember(commit)
	if !cache.seen(commit) {
		t.Errorf("expected commitment to be remembered after verification")
	}
}
