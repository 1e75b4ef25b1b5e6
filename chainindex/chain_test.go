// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package chainindex

import (
	"path/filepath"
	"testing"

	"github.com/grinledger/node/consensus"
	"github.com/grinledger/node/pmmr"
	"github.com/grinledger/node/storage"
	"github.com/grinledger/node/txhashset"
)

// outputEntryWidth/rangeProofEntryWidth are generous fixed widths for the
// two leaf data files; the output leaf itself is 34 bytes
// (1 feature byte + a 33-byte commitment) and a single-output Bulletproof
// is a few hundred bytes, so both widths carry comfortable headroom above
// anything either ever serializes to.
const (
	outputEntryWidth     = 64
	rangeProofEntryWidth = 1024
)

func openTestTxHashSet(t *testing.T) *txhashset.TxHashSet {
	t.Helper()
	dir := t.TempDir()

	outputHashes, err := storage.OpenHashFile(filepath.Join(dir, "output.hashes"))
	if err != nil {
		t.Fatalf("open output hash file: %v", err)
	}
	rproofHashes, err := storage.OpenHashFile(filepath.Join(dir, "rproof.hashes"))
	if err != nil {
		t.Fatalf("open rproof hash file: %v", err)
	}
	kernelHashes, err := storage.OpenHashFile(filepath.Join(dir, "kernel.hashes"))
	if err != nil {
		t.Fatalf("open kernel hash file: %v", err)
	}

	outputData, err := storage.OpenDataFile(filepath.Join(dir, "output.data"), outputEntryWidth)
	if err != nil {
		t.Fatalf("open output data file: %v", err)
	}
	rproofData, err := storage.OpenDataFile(filepath.Join(dir, "rproof.data"), rangeProofEntryWidth)
	if err != nil {
		t.Fatalf("open rproof data file: %v", err)
	}

	positions, err := storage.OpenKVStore(filepath.Join(dir, "positions.db"))
	if err != nil {
		t.Fatalf("open positions store: %v", err)
	}
	sums, err := storage.OpenKVStore(filepath.Join(dir, "sums.db"))
	if err != nil {
		t.Fatalf("open sums store: %v", err)
	}

	outputMMR := pmmr.NewPrunableMMR(outputHashes, outputData, pmmr.NewBitSet())
	rproofMMR := pmmr.NewPrunableMMR(rproofHashes, rproofData, pmmr.NewBitSet())
	kernelMMR := pmmr.NewAppendOnlyMMR(kernelHashes)

	return txhashset.New(outputMMR, rproofMMR, kernelMMR, positions, sums)
}

func openTestChain(t *testing.T, network consensus.Network) *Chain {
	t.Helper()
	dir := t.TempDir()

	index, err := OpenBlockIndex(filepath.Join(dir, "candidate.idx"), filepath.Join(dir, "confirmed.idx"))
	if err != nil {
		t.Fatalf("open block index: %v", err)
	}
	blocks, err := OpenBlockStore(filepath.Join(dir, "blocks.db"), filepath.Join(dir, "headers.db"))
	if err != nil {
		t.Fatalf("open block store: %v", err)
	}

	chain, err := New(network, index, blocks, openTestTxHashSet(t))
	if err != nil {
		t.Fatalf("open chain: %v", err)
	}
	return chain
}

func TestNewChainSeedsGenesis(t *testing.T) {
	chain := openTestChain(t, consensus.AutomatedTesting)

	if chain.Height() != 0 {
		t.Errorf("expected height 0 at genesis, got %d", chain.Height())
	}

	genesis := chain.Genesis()
	head := chain.Head()
	if string(head.Hash()) != string(genesis.Hash()) {
		t.Errorf("expected head to be genesis")
	}

	stored, err := chain.GetBlock(genesis.Hash())
	if err != nil {
		t.Fatalf("get genesis block: %v", err)
	}
	if stored == nil {
		t.Fatalf("expected genesis block to be stored")
	}
}

func TestProcessBlockRejectsWrongParent(t *testing.T) {
	chain := openTestChain(t, consensus.AutomatedTesting)

	block := &consensus.Block{
		Header: consensus.BlockHeader{
			Height:   1,
			Previous: consensus.Hash(make([]byte, consensus.BlockHashSize)), // not genesis's hash
		},
	}

	if err := chain.ProcessBlock(block); err != ErrWrongParent {
		t.Errorf("expected ErrWrongParent, got %v", err)
	}
}

func TestProcessBlockAcceptsAlreadyConfirmedTip(t *testing.T) {
	chain := openTestChain(t, consensus.AutomatedTesting)
	genesis := chain.Genesis()

	if err := chain.ProcessBlock(&genesis); err != nil {
		t.Errorf("expected re-processing the confirmed tip to be a no-op, got %v", err)
	}
}

func TestProcessHeadersParksOrphan(t *testing.T) {
	chain := openTestChain(t, consensus.AutomatedTesting)

	orphan := consensus.BlockHeader{
		Height:   5,
		Previous: consensus.Hash(bytesOfLen(consensus.BlockHashSize, 0x42)),
	}

	if err := chain.ProcessHeaders([]consensus.BlockHeader{orphan}); err != nil {
		t.Fatalf("expected an orphan header to be parked, not rejected: %v", err)
	}
	if chain.OrphanHeaderCount() != 1 {
		t.Errorf("expected 1 parked orphan header, got %d", chain.OrphanHeaderCount())
	}
}

func bytesOfLen(n int, b byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}
