// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package secp256k1zkp

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"math/big"

	"github.com/btcsuite/btcd/btcec"
	. "github.com/yoss22/bulletproofs"
)

const (
	// TagPubkeyEven is prepended to a compressed pubkey to signal that the y
	// coordinate is even.
	TagPubkeyEven = 0x02

	// TagPubkeyOdd is prepended to a compressed pubkey to signal that the y
	// coordinate is odd.
	TagPubkeyOdd = 0x03
)

// RandomBytes returns 32 bytes of randomness from the platform CSPRNG.
func RandomBytes() [32]byte {
	buf := [32]byte{}
	if _, err := rand.Read(buf[:]); err != nil {
		panic("secp256k1zkp: unable to generate random bytes")
	}
	return buf
}

// RandomInt returns a uniform scalar in Z_n.
func RandomInt() *big.Int {
	for {
		buf := RandomBytes()
		r := new(big.Int).SetBytes(buf[:])
		if r.Cmp(btcec.S256().N) < 0 {
			return r
		}
	}
}

// Signature is a Schnorr-style argument of knowledge over secp256k1 that the
// signer possesses the private key for the excess public key.
type Signature struct {
	S big.Int
	R Point
}

// Bytes serializes the signature as R.x (32 bytes) || s (32 bytes).
func (s Signature) Bytes() [64]byte {
	var buf [64]byte
	rx := GetB32(s.R.X)
	sb := GetB32(&s.S)
	copy(buf[0:32], rx[:])
	copy(buf[32:64], sb[:])
	return buf
}

// SignMessage produces a Schnorr signature proving knowledge of privateKey
// for publicKey over message, following the teacher's non-interactive
// Fiat-Shamir transform: R = k*G, e = H(R.x || P || m), s = k + e*x.
func SignMessage(publicKey Point, privateKey big.Int, message [32]byte) Signature {
	k := RandomInt()
	R := ScalarMulPoint(&G, k)

	rx := GetB32(R.X)
	compressedPubkey := CompressPubkey(publicKey)
	challenge := ComputeHash(rx[:], compressedPubkey[:], message[:])
	e := new(big.Int).SetBytes(challenge[:])

	s := Sum(k, Mul(e, &privateKey))

	return Signature{S: *s, R: *R}
}

// VerifySignature returns true when signature was produced by signing
// message under the private key corresponding to publicKey.
func VerifySignature(publicKey Point, message [32]byte, signature Signature) bool {
	rx := GetB32(signature.R.X)
	compressedPubkey := CompressPubkey(publicKey)

	challenge := ComputeHash(rx[:], compressedPubkey[:], message[:])
	e := new(big.Int).SetBytes(challenge[:])

	lhs := ScalarMulPoint(&G, &signature.S)
	rhs := SumPoints(&signature.R, ScalarMulPoint(&publicKey, e))

	return lhs.X.Cmp(rhs.X) == 0
}

// CommitValue returns the Pedersen commitment r*G + v*H.
func CommitValue(blind, v *big.Int) *Point {
	return SumPoints(
		ScalarMulPoint(&G, blind),
		ScalarMulPoint(&H, v))
}

// CommitOffset returns the commitment to zero under blinding factor b, i.e.
// b*G. A transaction's kernel offset is folded into the output/kernel
// commitment identity this way: sum(outputs) - sum(inputs) must equal
// sum(kernel excesses) + CommitOffset(offset).
func CommitOffset(b BlindingFactor) *Point {
	return CommitValue(scalarFromBytes(b[:]), big.NewInt(0))
}

// NegatePoint returns -p, reflecting it across the curve's x-axis. Used to
// turn commitment subtraction into the additions SumPoints already provides.
func NegatePoint(p *Point) *Point {
	y := new(big.Int).Mod(new(big.Int).Neg(p.Y), btcec.S256().Params().P)
	return &Point{X: new(big.Int).Set(p.X), Y: y}
}

// CompressPubkey returns p as a 33-byte compressed public key.
func CompressPubkey(p Point) [33]byte {
	var buf [33]byte
	if p.Y.Bit(0) == 1 {
		buf[0] = TagPubkeyOdd
	} else {
		buf[0] = TagPubkeyEven
	}
	x := GetB32(p.X)
	copy(buf[1:33], x[:])
	return buf
}

func decompressPoint(xBytes []byte) *big.Int {
	x := new(big.Int).SetBytes(xBytes)

	x3 := new(big.Int).Mul(x, x)
	x3.Mul(x3, x)
	x3.Add(x3, btcec.S256().Params().B)

	return ModSqrtFast(x3)
}

// DecodeSignature parses a 64-byte R.x||s signature.
func DecodeSignature(signature [64]byte) Signature {
	s := new(big.Int).SetBytes(signature[32:64])

	R := new(Point)
	R.X = new(big.Int).SetBytes(signature[0:32])
	R.Y = decompressPoint(signature[0:32])

	return Signature{S: *s, R: *R}
}

// ComputeHash returns the SHA-256 digest of the concatenation of inputs.
func ComputeHash(inputs ...[]byte) [32]byte {
	hasher := sha256.New()
	for _, in := range inputs {
		hasher.Write(in)
	}

	var result [32]byte
	copy(result[:], hasher.Sum(nil))
	return result
}

// KernelFeatureTag domain-separates the kernel signature message by feature
// variant, per GetSignatureMessage in the reference implementation.
type KernelFeatureTag uint8

const (
	FeaturePlain               KernelFeatureTag = 0
	FeatureCoinbase            KernelFeatureTag = 1
	FeatureHeightLocked        KernelFeatureTag = 2
	FeatureNoRecentDuplicate   KernelFeatureTag = 3
)

// ComputeMessage encodes a kernel's signed fields into the 32-byte message
// the excess signature signs over. Plain/coinbase kernels sign only fee and
// lock height (matching the teacher); height-locked and no-recent-duplicate
// kernels additionally domain-separate by prefixing the feature tag, so two
// kernels that coincidentally share fee/lock_height across feature variants
// never collide on signature message.
func ComputeMessage(feature KernelFeatureTag, fee, lockHeight uint64) [32]byte {
	var msg [32]byte
	switch feature {
	case FeaturePlain, FeatureCoinbase:
		binary.BigEndian.PutUint64(msg[16:24], fee)
		binary.BigEndian.PutUint64(msg[24:32], lockHeight)
	default:
		msg[7] = byte(feature)
		binary.BigEndian.PutUint64(msg[16:24], fee)
		binary.BigEndian.PutUint64(msg[24:32], lockHeight)
	}
	return msg
}
