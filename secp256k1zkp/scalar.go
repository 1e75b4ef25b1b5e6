// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package secp256k1zkp

import (
	"math/big"

	"github.com/btcsuite/btcd/btcec"
)

func scalarFromBytes(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

func negateScalar(x *big.Int) *big.Int {
	n := btcec.S256().N
	neg := new(big.Int).Sub(n, new(big.Int).Mod(x, n))
	return neg.Mod(neg, n)
}

func addScalars(a, b *big.Int) *big.Int {
	n := btcec.S256().N
	sum := new(big.Int).Add(a, b)
	return sum.Mod(sum, n)
}

func padTo32(b []byte) []byte {
	if len(b) >= 32 {
		return b[len(b)-32:]
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}
