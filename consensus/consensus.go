// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package consensus holds the Mimblewimble entity model (inputs, outputs,
// kernels, headers, blocks, compact blocks), its deterministic serialization
// and the consensus constants every other package measures itself against.
package consensus

import "time"

const (
	// BlockHashSize is the size of a block hash.
	BlockHashSize = 32

	// GrinBase is the base unit; a coin divides to 1e9, following SI prefixes.
	GrinBase uint64 = 1e9

	// MilliGrin is a thousandth of a GrinBase unit.
	MilliGrin uint64 = GrinBase / 1000

	// MicroGrin is a thousandth of a MilliGrin.
	MicroGrin uint64 = MilliGrin / 1000

	// NanoGrin is the smallest unit.
	NanoGrin uint64 = 1

	// CoinbaseMaturity is the number of blocks before a coinbase output may
	// be spent.
	CoinbaseMaturity uint64 = 1000

	// MaxBlockCoinbaseOutputs bounds the coinbase outputs a block may carry.
	MaxBlockCoinbaseOutputs int = 1

	// MaxBlockCoinbaseKernels bounds the coinbase kernels a block may carry.
	MaxBlockCoinbaseKernels int = 1

	// BlockTimeSec is the target block interval in seconds.
	BlockTimeSec time.Duration = 60

	// ProofSize is the Cuckoo-cycle proof length (cycle length).
	ProofSize uint32 = 42

	// DefaultMinEdgeBits is the minimum primary-PoW edge-bits size allowed.
	DefaultMinEdgeBits uint8 = 29

	// SecondPowEdgeBits is the fixed edge-bits used by the secondary PoW.
	SecondPowEdgeBits uint8 = 29

	// Easiness is the Cuckoo-cycle easiness percentage used for mining and
	// validating.
	Easiness uint64 = 50

	// CutThroughHorizon is the number of blocks in the past after which
	// cross-block cut-through (pruning of spent outputs) may happen.
	CutThroughHorizon uint32 = 48 * 3600 / uint32(BlockTimeSec)

	// BlockInputWeight is the weight contribution of a single input.
	BlockInputWeight int64 = -1

	// BlockOutputWeight is the weight contribution of a single output.
	BlockOutputWeight int64 = 4

	// BlockKernelWeight is the weight contribution of a single kernel.
	BlockKernelWeight int64 = 1

	// MaxBlockWeight is the total maximum block weight.
	MaxBlockWeight int64 = 40000

	// CoinbaseWeight is the weight reserved for the mandatory coinbase
	// output + kernel, subtracted from the budget a plain transaction may
	// use.
	CoinbaseWeight int64 = BlockOutputWeight + BlockKernelWeight

	// HardForkV2Height is the mainnet height of the v1->v2 hard fork, half a
	// year after genesis.
	HardForkV2Height uint64 = Year / 2

	// HardForkInterval is how many blocks each mainnet header version from
	// v2 onward lasts: half a year.
	HardForkInterval uint64 = Year / 2

	// Year is the height span of one year's worth of blocks.
	Year uint64 = 365 * 24 * 3600 / uint64(BlockTimeSec)

	// FloonetHardForkV2Height / V3Height are floonet's own off-cycle
	// schedule (testnet uses different heights than mainnet).
	FloonetHardForkV2Height uint64 = 185040
	FloonetHardForkV3Height uint64 = 298080

	// MedianTimeWindow is the window, in blocks, used to calculate the
	// block-time median.
	MedianTimeWindow int = 11

	// DifficultyAdjustWindow is the number of blocks used to calculate
	// difficulty adjustments.
	DifficultyAdjustWindow int = 23

	// BlockTimeWindow is the average span of the difficulty adjustment
	// window.
	BlockTimeWindow time.Duration = time.Duration(DifficultyAdjustWindow) * BlockTimeSec

	// UpperTimeBound is the maximum time window used for difficulty
	// adjustments.
	UpperTimeBound time.Duration = BlockTimeWindow * 4 / 3

	// LowerTimeBound is the minimum time window used for difficulty
	// adjustments.
	LowerTimeBound time.Duration = BlockTimeWindow * 5 / 6

	// FutureTimeLimit bounds how far into the future a block timestamp may
	// be relative to local time before it is deferred as FUTURE_TIMESTAMP.
	FutureTimeLimit time.Duration = BlockTimeSec * 12 * time.Second / time.Second * time.Second

	// MaxBlockHeaders bounds a single headers response.
	MaxBlockHeaders = 512

	// MaxLocators bounds a single block locator.
	MaxLocators = 64
)

// Reward returns the block subsidy at a given height. Grin's subsidy is
// constant (no halving schedule); modeled as a function of height to make
// adding one later a one-line change and to match how callers use it.
func Reward(height uint64) uint64 {
	return 60 * GrinBase
}

// CumulativeSupply returns the total coin supply minted by the subsidy of
// every block from genesis up to and including height. This is the
// "overage" side of the chain-wide kernel-sum identity: the only way value
// enters the commitment graph without a matching input is through each
// block's coinbase reward, so the running total of every output commitment
// ever created minus every input commitment ever spent must equal the
// running total of every kernel excess plus the cumulative kernel offset,
// offset by exactly this much value.
func CumulativeSupply(height uint64) uint64 {
	return (height + 1) * Reward(height)
}

// Network identifies the consensus ruleset in effect (mainnet vs the
// floonet testnet use different hard-fork height schedules).
type Network uint8

const (
	Mainnet Network = iota
	Floonet
	AutomatedTesting
)
