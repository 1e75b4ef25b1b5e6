// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"

	"github.com/dchest/siphash"
	"golang.org/x/crypto/blake2b"
)

const (
	// ShortIDSize is the size of a short id used to identify kernels (6 bytes).
	ShortIDSize = 6
)

// Hash is a generic 32-byte hash (block hash, commitment hash, kernel hash...).
type Hash []byte

// String implements the String() interface.
func (h Hash) String() string {
	return hex.EncodeToString(h)
}

// ShortID derives the compact-block short id for this hash (typically a
// kernel hash) given the owning block's hash and the block's short-id nonce.
//
// Per the reference implementation: the SipHash keys (k0,k1) are the first
// 16 bytes of Blake2b(blockHash || nonce_be), and the short id is the
// little-endian low 6 bytes of SipHash24_{k0,k1}(h).
func (h Hash) ShortID(blockHash Hash, nonce uint64) ShortID {
	var nonceBuf [8]byte
	binary.BigEndian.PutUint64(nonceBuf[:], nonce)

	keyed := blake2b.Sum256(append(append([]byte{}, blockHash...), nonceBuf[:]...))

	k0 := binary.LittleEndian.Uint64(keyed[0:8])
	k1 := binary.LittleEndian.Uint64(keyed[8:16])

	sip := siphash.Hash(k0, k1, h)

	var result [8]byte
	binary.LittleEndian.PutUint64(result[:], sip)

	out := make(ShortID, ShortIDSize)
	copy(out, result[:ShortIDSize])
	return out
}

// ShortID is a 6-byte SipHash fingerprint of a kernel hash.
type ShortID []byte

// String returns the hex representation.
func (id ShortID) String() string {
	return hex.EncodeToString(id)
}

// Hash returns Blake2b(id). Per the wire contract, compact-block kernel ids
// are sorted by the hash of the short id rather than the short id itself.
func (id ShortID) Hash() Hash {
	sum := blake2b.Sum256(id)
	return sum[:]
}

// ShortIDList is a sortable list of short ids, ordered by Hash() (the wire
// contract), not by the raw short id bytes.
type ShortIDList []ShortID

func (s ShortIDList) Len() int { return len(s) }

func (s ShortIDList) Less(i, j int) bool {
	return bytes.Compare(s[i].Hash(), s[j].Hash()) < 0
}

func (s ShortIDList) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
