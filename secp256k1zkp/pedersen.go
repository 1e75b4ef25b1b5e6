// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package secp256k1zkp provides the homomorphic-commitment primitives a
// Mimblewimble node treats as black boxes: Pedersen commitments, blinding
// factors and Schnorr excess signatures over secp256k1.
package secp256k1zkp

import (
	"errors"
	"fmt"
	"io"
)

const (
	// PedersenCommitmentSize is the size of a serialized Pedersen commitment.
	PedersenCommitmentSize = 33

	// SecretKeySize is the size of a blinding factor / secret scalar.
	SecretKeySize = 32

	// MaxSignatureSize is the size of an aggregate Schnorr signature.
	MaxSignatureSize = 64

	// MaxProofSize bounds a Bulletproof range-proof blob.
	MaxProofSize = 675
)

// Commitment is a 33-byte Pedersen commitment C = r*G + v*H.
type Commitment []byte

// Bytes returns the raw commitment bytes.
func (c *Commitment) Bytes() []byte {
	return *c
}

// Read reads a 33-byte commitment from r.
func (c *Commitment) Read(r io.Reader) error {
	buf := make([]byte, PedersenCommitmentSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	*c = buf
	return nil
}

// String implements the String() interface.
func (c Commitment) String() string {
	return fmt.Sprintf("%x", []byte(c))
}

// Equal reports whether two commitments are byte-identical.
func (c Commitment) Equal(other Commitment) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// BlindingFactor is a 32-byte scalar blinding a Pedersen commitment. It may
// be the zero scalar and composes under signed addition.
type BlindingFactor [SecretKeySize]byte

// ZeroBlindingFactor is the additive identity.
var ZeroBlindingFactor = BlindingFactor{}

// IsZero reports whether the blinding factor is the zero scalar.
func (b BlindingFactor) IsZero() bool {
	return b == ZeroBlindingFactor
}

// Bytes returns the 32-byte serialized form.
func (b BlindingFactor) Bytes() []byte {
	out := make([]byte, SecretKeySize)
	copy(out, b[:])
	return out
}

// BlindingFactorFromBytes decodes a 32-byte scalar.
func BlindingFactorFromBytes(b []byte) (BlindingFactor, error) {
	var bf BlindingFactor
	if len(b) != SecretKeySize {
		return bf, errors.New("invalid blinding factor length")
	}
	copy(bf[:], b)
	return bf, nil
}

// Add returns a+b mod n, delegating to the curve's scalar arithmetic.
func (b BlindingFactor) Add(other BlindingFactor) BlindingFactor {
	sum := addScalars(scalarFromBytes(b[:]), scalarFromBytes(other[:]))
	var out BlindingFactor
	copy(out[:], padTo32(sum.Bytes()))
	return out
}

// Sub returns a-b mod n.
func (b BlindingFactor) Sub(other BlindingFactor) BlindingFactor {
	neg := negateScalar(scalarFromBytes(other[:]))
	sum := addScalars(scalarFromBytes(b[:]), neg)
	var out BlindingFactor
	copy(out[:], padTo32(sum.Bytes()))
	return out
}

// SumBlindingFactors adds an arbitrary number of blinding factors together.
func SumBlindingFactors(factors ...BlindingFactor) BlindingFactor {
	acc := ZeroBlindingFactor
	for _, f := range factors {
		acc = acc.Add(f)
	}
	return acc
}
