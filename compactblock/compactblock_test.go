// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package compactblock

import (
	"math/big"
	"testing"

	"github.com/yoss22/bulletproofs"

	"github.com/grinledger/node/consensus"
)

func point(b byte) *bulletproofs.Point {
	return &bulletproofs.Point{X: big.NewInt(int64(b) + 1), Y: big.NewInt(int64(b) + 2)}
}

func kernel(features consensus.KernelFeatures, fee uint64, b byte) consensus.TxKernel {
	return consensus.TxKernel{Features: features, Fee: fee, Excess: *point(b)}
}

func output(features consensus.OutputFeatures, b byte) consensus.Output {
	return consensus.Output{Features: features, Commit: point(b)}
}

type fakeSource struct {
	txs []*consensus.Transaction
}

func (s fakeSource) Transactions() []*consensus.Transaction { return s.txs }

func zeroHash() consensus.Hash {
	return make(consensus.Hash, consensus.BlockHashSize)
}

func testHeader(height uint64) consensus.BlockHeader {
	return consensus.BlockHeader{
		Height:         height,
		Previous:       zeroHash(),
		PreviousRoot:   zeroHash(),
		OutputRoot:     zeroHash(),
		RangeProofRoot: zeroHash(),
		KernelRoot:     zeroHash(),
	}
}

func TestBuildSeparatesCoinbaseFromShortIDs(t *testing.T) {
	block := &consensus.Block{
		Header: testHeader(10),
		Body: consensus.TransactionBody{
			Outputs: consensus.OutputList{
				output(consensus.CoinbaseOutput, 1),
				output(consensus.PlainOutput, 2),
			},
			Kernels: consensus.TxKernelList{
				kernel(consensus.CoinbaseKernel, 0, 10),
				kernel(consensus.PlainKernel, 5, 20),
			},
		},
	}

	cb := Build(block)

	if len(cb.FullOutputs) != 1 || !cb.FullOutputs[0].IsCoinbase() {
		t.Fatalf("expected exactly one coinbase output carried in full, got %d", len(cb.FullOutputs))
	}
	if len(cb.FullKernels) != 1 || !cb.FullKernels[0].IsCoinbase() {
		t.Fatalf("expected exactly one coinbase kernel carried in full, got %d", len(cb.FullKernels))
	}
	if len(cb.KernelIDs) != 1 {
		t.Fatalf("expected exactly one short id for the non-coinbase kernel, got %d", len(cb.KernelIDs))
	}
}

func TestReconstructResolvesFromPool(t *testing.T) {
	header := testHeader(10)
	nonce := uint64(12345)
	blockHash := header.Hash()

	plainKernel := kernel(consensus.PlainKernel, 5, 20)
	tx := &consensus.Transaction{
		Body: consensus.TransactionBody{
			Inputs:  consensus.InputList{{Commit: []byte{0x09}}},
			Outputs: consensus.OutputList{output(consensus.PlainOutput, 2)},
			Kernels: consensus.TxKernelList{plainKernel},
		},
	}

	cb := &consensus.CompactBlock{
		Header:      header,
		Nonce:       nonce,
		FullOutputs: consensus.OutputList{output(consensus.CoinbaseOutput, 1)},
		FullKernels: consensus.TxKernelList{kernel(consensus.CoinbaseKernel, 0, 10)},
		KernelIDs:   consensus.ShortIDList{plainKernel.Hash().ShortID(blockHash, nonce)},
	}

	result := Reconstruct(cb, fakeSource{txs: []*consensus.Transaction{tx}})

	if len(result.Missing) != 0 {
		t.Fatalf("expected no missing short ids, got %d", len(result.Missing))
	}
	if result.Block == nil {
		t.Fatal("expected a reconstructed block")
	}
	if len(result.Block.Body.Kernels) != 2 {
		t.Errorf("expected coinbase + resolved kernel, got %d", len(result.Block.Body.Kernels))
	}
	if len(result.Block.Body.Outputs) != 2 {
		t.Errorf("expected coinbase + resolved output, got %d", len(result.Block.Body.Outputs))
	}
}

func TestReconstructReportsMissing(t *testing.T) {
	header := testHeader(10)
	unresolvedKernel := kernel(consensus.PlainKernel, 1, 99)
	cb := &consensus.CompactBlock{
		Header:    header,
		Nonce:     1,
		KernelIDs: consensus.ShortIDList{unresolvedKernel.Hash().ShortID(header.Hash(), 1)},
	}

	result := Reconstruct(cb, fakeSource{})

	if result.Block != nil {
		t.Errorf("expected no reconstructed block when a short id can't be resolved")
	}
	if len(result.Missing) != 1 {
		t.Fatalf("expected exactly one missing short id, got %d", len(result.Missing))
	}
}
