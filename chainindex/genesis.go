// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package chainindex

import (
	"bytes"
	"time"

	"github.com/grinledger/node/consensus"
	"github.com/grinledger/node/secp256k1zkp"
)

// zeroRoot is the bagged root of an empty MMR (pmmr.ZeroHash), which is
// what the three TxHashSet MMRs start at before any block is applied.
var zeroRoot = bytes.Repeat([]byte{0x00}, consensus.BlockHashSize)

func genesisHeader(version uint16, timestamp time.Time, difficulty consensus.Difficulty, nonce uint64, edgeBits uint8, pow []uint32) consensus.BlockHeader {
	return consensus.BlockHeader{
		Version:           version,
		Height:            0,
		Previous:          bytes.Repeat([]byte{0xff}, consensus.BlockHashSize),
		PreviousRoot:      zeroRoot,
		Timestamp:         timestamp,
		OutputRoot:        zeroRoot,
		RangeProofRoot:    zeroRoot,
		KernelRoot:        zeroRoot,
		TotalKernelOffset: secp256k1zkp.ZeroBlindingFactor,
		OutputMMRSize:     0,
		KernelMMRSize:     0,
		TotalDifficulty:   difficulty,
		ScalingDifficulty: 1,
		Nonce:             nonce,
		POW: consensus.Proof{
			EdgeBits: edgeBits,
			Nonces:   pow,
		},
	}
}

// testnetPOW is the 42-cycle reused across every genesis block below,
// mainnet's included; it is not a verified solution (this module never mines), only a
// fixed-size placeholder so POW.Read/Bytes round-trip.
var testnetPOW = []uint32{
	0x21e, 0x7a2, 0xeae, 0x144e, 0x1b1c, 0x1fbd,
	0x203a, 0x214b, 0x293b, 0x2b74, 0x2bfa, 0x2c26,
	0x32bb, 0x346a, 0x34c7, 0x37c5, 0x4164, 0x42cc,
	0x4cc3, 0x55af, 0x5a70, 0x5b14, 0x5e1c, 0x5f76,
	0x6061, 0x60f9, 0x61d7, 0x6318, 0x63a1, 0x63fb,
	0x649b, 0x64e5, 0x65a1, 0x6b69, 0x70f8, 0x71c7,
	0x71cd, 0x7492, 0x7b11, 0x7db8, 0x7f29, 0x7ff8,
}

// MainnetGenesis is the genesis block for consensus.Mainnet.
var MainnetGenesis = consensus.Block{
	Header: genesisHeader(1, time.Date(2018, 8, 14, 0, 0, 0, 0, time.UTC), 1000, 28205, consensus.DefaultMinEdgeBits, testnetPOW),
}

// FloonetGenesis is the genesis block for consensus.Floonet.
var FloonetGenesis = consensus.Block{
	Header: genesisHeader(1, time.Date(2017, 11, 16, 20, 0, 0, 0, time.UTC), 10, 28205, consensus.DefaultMinEdgeBits, testnetPOW),
}

// AutomatedTestingGenesis is a minimum-difficulty genesis for integration
// tests and AutomatedTesting-network nodes, where the point is exercising
// chain logic, not proof-of-work economics.
var AutomatedTestingGenesis = consensus.Block{
	Header: genesisHeader(1, time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), 1, 1, consensus.DefaultMinEdgeBits, testnetPOW),
}

// GenesisFor returns the fixed genesis block for network.
func GenesisFor(network consensus.Network) *consensus.Block {
	switch network {
	case consensus.Floonet:
		return &FloonetGenesis
	case consensus.AutomatedTesting:
		return &AutomatedTestingGenesis
	default:
		return &MainnetGenesis
	}
}
