// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package txhashset binds the three transaction MMRs (outputs, range
// proofs, kernels) plus the output-position index and the output leaf set
// to one confirmed chain tip, and is the only place a block is actually
// "applied": every consensus rule about what exists, what is spent, and
// what the next header's roots must equal is enforced here.
package txhashset

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/grinledger/node/consensus"
	"github.com/grinledger/node/pmmr"
	"github.com/grinledger/node/secp256k1zkp"
	"github.com/grinledger/node/storage"
	"github.com/grinledger/node/validation"
	"github.com/yoss22/bulletproofs"
)

// Errors returned by TxHashSet operations, matching the spec's apply_block
// failure modes.
var (
	ErrInvalidRoots      = errors.New("txhashset: block header roots do not match the roots after applying its body")
	ErrDoubleSpend       = errors.New("txhashset: input commitment is already spent")
	ErrUnknownOutput     = errors.New("txhashset: input commitment has no corresponding output")
	ErrKernelSumMismatch = errors.New("txhashset: output sum minus overage does not equal the kernel excess sum")
	ErrImmatureCoinbase  = errors.New("txhashset: input spends a coinbase output before it reaches CoinbaseMaturity")
)

// outputEntry is the value stored in the position index for a live or
// formerly-live output commitment.
type outputEntry struct {
	LeafIndex  uint64
	Height     uint64
	IsCoinbase bool
}

func (e outputEntry) encode() []byte {
	buf := make([]byte, 17)
	binary.BigEndian.PutUint64(buf[0:8], e.LeafIndex)
	binary.BigEndian.PutUint64(buf[8:16], e.Height)
	if e.IsCoinbase {
		buf[16] = 1
	}
	return buf
}

func decodeOutputEntry(b []byte) (outputEntry, error) {
	if len(b) != 17 {
		return outputEntry{}, errors.New("txhashset: corrupt output-position index entry")
	}
	return outputEntry{
		LeafIndex:  binary.BigEndian.Uint64(b[0:8]),
		Height:     binary.BigEndian.Uint64(b[8:16]),
		IsCoinbase: b[16] == 1,
	}, nil
}

// TxHashSet is the live chain-state commitment structure, always bound to
// one confirmed tip.
type TxHashSet struct {
	outputMMR *pmmr.PrunableMMR
	rproofMMR *pmmr.PrunableMMR
	kernelMMR *pmmr.AppendOnlyMMR

	positions *storage.KVStore
	sums      *storage.KVStore

	tipHeight uint64
	tipHash   consensus.Hash
}

// New builds a TxHashSet over the given backing stores.
func New(outputMMR, rproofMMR *pmmr.PrunableMMR, kernelMMR *pmmr.AppendOnlyMMR, positions, sums *storage.KVStore) *TxHashSet {
	return &TxHashSet{
		outputMMR: outputMMR,
		rproofMMR: rproofMMR,
		kernelMMR: kernelMMR,
		positions: positions,
		sums:      sums,
	}
}

// Roots returns the three current MMR roots, in output/range-proof/kernel
// order, matching the fields a BlockHeader commits to.
func (s *TxHashSet) Roots() (outputRoot, rangeProofRoot, kernelRoot consensus.Hash, err error) {
	oRoot, err := s.outputMMR.Root()
	if err != nil {
		return nil, nil, nil, err
	}
	rRoot, err := s.rproofMMR.Root()
	if err != nil {
		return nil, nil, nil, err
	}
	kRoot, err := s.kernelMMR.Root()
	if err != nil {
		return nil, nil, nil, err
	}
	return oRoot[:], rRoot[:], kRoot[:], nil
}

// Sizes returns the current output and kernel MMR node counts, matching the
// header's output_mmr_size and kernel_mmr_size fields.
func (s *TxHashSet) Sizes() (outputMMRSize, kernelMMRSize uint64) {
	return s.outputMMR.Size(), s.kernelMMR.Size()
}

// TipHeight returns the height of the block last applied by ApplyBlock.
func (s *TxHashSet) TipHeight() uint64 {
	return s.tipHeight
}

// Spendable reports whether commit names a live (unspent) output and, if
// so, whether it is mature to spend at spendHeight — the same lookup
// ApplyBlock performs on every input, exposed read-only so a transaction
// pool can validate candidate transactions against the confirmed tip
// without mutating chain state.
func (s *TxHashSet) Spendable(commit []byte, spendHeight uint64) (bool, error) {
	raw, err := s.positions.Get(commit)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	entry, err := decodeOutputEntry(raw)
	if err != nil {
		return false, err
	}
	if !s.outputMMR.IsAlive(entry.LeafIndex) {
		return false, nil
	}
	if entry.IsCoinbase {
		loc := consensus.OutputLocation{MMRLeafIndex: entry.LeafIndex, Height: entry.Height}
		if spendHeight < loc.MatureAt(true) {
			return false, nil
		}
	}
	return true, nil
}

func spentLogKey(height uint64) []byte {
	key := make([]byte, 9)
	key[0] = 's'
	binary.BigEndian.PutUint64(key[1:], height)
	return key
}

func createdLogKey(height uint64) []byte {
	key := make([]byte, 9)
	key[0] = 'c'
	binary.BigEndian.PutUint64(key[1:], height)
	return key
}

func blockSumsKey(headerHash consensus.Hash) []byte {
	return append([]byte("bs:"), headerHash...)
}

// ApplyBlock advances the TxHashSet by one block: every input's output is
// marked spent, every output and range proof is appended, every kernel is
// appended, and the resulting roots/sizes are checked against the header
// (TH4, I-apply). On success the new BlockSums are persisted, keyed by the
// header hash, so a later rewind can restore them without recomputation.
func (s *TxHashSet) ApplyBlock(block *consensus.Block) error {
	header := &block.Header

	prevSums, err := s.blockSums(header.Previous)
	if err != nil {
		return err
	}

	batch := s.positions.NewBatch()
	var spentLeaves []uint64

	for _, in := range block.Body.Inputs {
		raw, err := s.positions.Get([]byte(in.Commit))
		if err != nil {
			return err
		}
		if raw == nil {
			return ErrUnknownOutput
		}
		entry, err := decodeOutputEntry(raw)
		if err != nil {
			return err
		}
		if !s.outputMMR.IsAlive(entry.LeafIndex) {
			return ErrDoubleSpend
		}
		loc := consensus.OutputLocation{MMRLeafIndex: entry.LeafIndex, Height: entry.Height}
		if entry.IsCoinbase && header.Height < loc.MatureAt(true) {
			return ErrImmatureCoinbase
		}

		s.outputMMR.Remove(entry.LeafIndex)
		s.rproofMMR.Remove(entry.LeafIndex)
		spentLeaves = append(spentLeaves, entry.LeafIndex)
	}

	createdLog := make([]byte, 0, 33*len(block.Body.Outputs))

	for _, out := range block.Body.Outputs {
		_, leafIndex, err := s.outputMMR.Append(out.BytesWithoutProof())
		if err != nil {
			return err
		}
		if _, _, err := s.rproofMMR.Append(out.RangeProof.Bytes()); err != nil {
			return err
		}

		entry := outputEntry{LeafIndex: leafIndex, Height: header.Height, IsCoinbase: out.IsCoinbase()}
		commit := out.CommitBytes()
		batch.Put([]byte(commit), entry.encode())
		createdLog = append(createdLog, commit...)
	}

	for _, k := range block.Body.Kernels {
		if _, err := s.kernelMMR.Append(k.Bytes()); err != nil {
			return err
		}
	}

	outputRoot, rangeProofRoot, kernelRoot, err := s.Roots()
	if err != nil {
		return err
	}
	outputMMRSize, kernelMMRSize := s.Sizes()

	if !bytesEqual(outputRoot, header.OutputRoot) ||
		!bytesEqual(rangeProofRoot, header.RangeProofRoot) ||
		!bytesEqual(kernelRoot, header.KernelRoot) ||
		outputMMRSize != header.OutputMMRSize ||
		kernelMMRSize != header.KernelMMRSize {
		return ErrInvalidRoots
	}

	kernelSum, err := block.Body.Kernels.Sum()
	if err != nil && len(block.Body.Kernels) > 0 {
		return err
	}
	if kernelSum == nil {
		kernelSum = &bulletproofs.Point{}
	}

	outputSum, err := netOutputCommitmentSum(block.Body.Inputs, block.Body.Outputs)
	if err != nil {
		return err
	}

	nextSums, err := prevSums.ApplyBlock(kernelSum, outputSum)
	if err != nil {
		return err
	}

	nextOutputPoint, err := decodeCommitment(nextSums.OutputSum)
	if err != nil {
		return err
	}
	nextKernelPoint, err := decodeCommitment(nextSums.KernelSum)
	if err != nil {
		return err
	}
	overage := consensus.CumulativeSupply(header.Height)
	if err := validation.VerifyKernelSums(nextOutputPoint, nextKernelPoint, header.TotalKernelOffset, overage); err != nil {
		return ErrKernelSumMismatch
	}

	if err := batch.Commit(); err != nil {
		return err
	}

	if len(spentLeaves) > 0 {
		logBuf := make([]byte, 8*len(spentLeaves))
		for i, leafIndex := range spentLeaves {
			binary.BigEndian.PutUint64(logBuf[i*8:], leafIndex)
		}
		if err := s.positions.Put(spentLogKey(header.Height), logBuf); err != nil {
			return err
		}
	}

	if len(createdLog) > 0 {
		if err := s.positions.Put(createdLogKey(header.Height), createdLog); err != nil {
			return err
		}
	}

	if err := s.putBlockSums(header.Hash(), nextSums); err != nil {
		return err
	}

	s.tipHeight = header.Height
	s.tipHash = header.Hash()
	return nil
}

// netOutputCommitmentSum returns Σ new output commitments − Σ spent input
// commitments, the per-block delta that keeps BlockSums.OutputSum tracking
// the sum of the live UTXO set rather than every output ever created:
// whenever an output is later spent, its commitment cancels out of the
// running total exactly as it cancelled out of the original sending
// transaction's own balance.
func netOutputCommitmentSum(inputs consensus.InputList, outputs consensus.OutputList) (*bulletproofs.Point, error) {
	acc := &bulletproofs.Point{}
	have := false

	for i := range outputs {
		if !have {
			acc, have = outputs[i].Commit, true
			continue
		}
		acc = bulletproofs.SumPoints(acc, outputs[i].Commit)
	}

	for i := range inputs {
		p, err := decodeCommitment(inputs[i].Commit)
		if err != nil {
			return nil, err
		}
		neg := secp256k1zkp.NegatePoint(p)
		if !have {
			acc, have = neg, true
			continue
		}
		acc = bulletproofs.SumPoints(acc, neg)
	}

	return acc, nil
}

// decodeCommitment parses a 33-byte Pedersen commitment back into its
// underlying curve point, so it can be negated and folded into the net
// output-commitment sum.
func decodeCommitment(c secp256k1zkp.Commitment) (*bulletproofs.Point, error) {
	var p bulletproofs.Point
	if err := p.Read(bytes.NewReader(c)); err != nil {
		return nil, err
	}
	return &p, nil
}

func bytesEqual(a, b consensus.Hash) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
