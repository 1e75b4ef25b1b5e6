// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package secp256k1zkp

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"testing"

	. "github.com/yoss22/bulletproofs"
)

func decompressPointFromHex(s string) *Point {
	point := new(Point)
	b, _ := hex.DecodeString(s)
	if err := point.Read(bytes.NewReader(b)); err != nil {
		panic(err)
	}
	return point
}

func decodeHex64(s string) [64]byte {
	slice, _ := hex.DecodeString(s)
	var arr [64]byte
	copy(arr[:], slice)
	return arr
}

func TestVerifySignature(t *testing.T) {
	x := big.NewInt(8)
	P := ScalarMulPoint(&G, x)

	msg := [32]byte{}

	sig := SignMessage(*P, *x, msg)

	if !VerifySignature(*P, msg, sig) {
		t.Errorf("failed to verify signature")
	}
}

func TestVerifyKernel(t *testing.T) {
	excess := decompressPointFromHex("092095ceab2c20f9a6109a7b0add8d488b3838dcc007c77a43cbe99a14a81b62e8")
	signature := decodeHex64("804b2ed798221e8f4c139daeedeab487221be33db1adf9e129928564e1702b02fbbacaf4cbe4c4b122a9b39d2a7625b9254e43eeade171e9ccafda6dd8538acc")

	fee := uint64(2)
	lockHeight := uint64(0)

	msg := ComputeMessage(FeaturePlain, fee, lockHeight)

	sig := DecodeSignature(signature)

	if !VerifySignature(*excess, msg, sig) {
		t.Errorf("verify failed")
	}
}

func TestComputeMessageDomainSeparation(t *testing.T) {
	plain := ComputeMessage(FeaturePlain, 2, 0)
	heightLocked := ComputeMessage(FeatureHeightLocked, 2, 0)

	if plain == heightLocked {
		t.Errorf("expected height-locked kernel message to differ from plain kernel message")
	}
}

func TestBlindingFactorAddSub(t *testing.T) {
	a, _ := BlindingFactorFromBytes(bytes.Repeat([]byte{0x01}, SecretKeySize))
	b, _ := BlindingFactorFromBytes(bytes.Repeat([]byte{0x02}, SecretKeySize))

	sum := a.Add(b)
	back := sum.Sub(b)

	if back != a {
		t.Errorf("expected (a+b)-b == a, got %x want %x", back.Bytes(), a.Bytes())
	}
}
