// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package txpool

import (
	"math/big"
	"testing"
	"time"

	"github.com/grinledger/node/consensus"
	"github.com/grinledger/node/secp256k1zkp"
	"github.com/yoss22/bulletproofs"
)

// fakeOutput builds a structurally-valid Output around an arbitrary
// commitment byte, without a real range proof — good enough for exercising
// pool bookkeeping, which never re-verifies a proof.
func fakeOutput(b byte) consensus.Output {
	return consensus.Output{Commit: &bulletproofs.Point{X: big.NewInt(int64(b) + 1), Y: big.NewInt(int64(b) + 2)}}
}

func fakeInput(b byte) consensus.Input {
	return consensus.Input{Commit: secp256k1zkp.Commitment{b}}
}

func fakeExcess(b byte) bulletproofs.Point {
	return bulletproofs.Point{X: big.NewInt(int64(b) + 1), Y: big.NewInt(int64(b) + 2)}
}

func entryWithCommits(inCommit, outCommit byte, status Status) *Entry {
	return &Entry{
		Tx: &consensus.Transaction{
			Body: consensus.TransactionBody{
				Inputs:  consensus.InputList{fakeInput(inCommit)},
				Outputs: consensus.OutputList{fakeOutput(outCommit)},
			},
		},
		Status:    status,
		Timestamp: time.Now(),
	}
}

func newTestPool() *Pool {
	return &Pool{
		entries:   make(map[string]*Entry),
		spentBy:   make(map[string]string),
		createdBy: make(map[string]string),
	}
}

func TestStatusString(t *testing.T) {
	cases := map[Status]string{ToStem: "to_stem", Stemmed: "stemmed", ToFluff: "to_fluff", Fluffed: "fluffed"}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", status, got, want)
		}
	}
}

func TestPoolRemoveClearsIndexes(t *testing.T) {
	p := newTestPool()
	entry := entryWithCommits(0x01, 0x02, ToFluff)
	hash := string(entry.Tx.Hash())

	p.entries[hash] = entry
	p.spentBy[string(entry.Tx.Body.Inputs[0].Commit)] = hash
	p.createdBy[string(entry.Tx.Body.Outputs[0].CommitBytes())] = hash

	p.remove(hash)

	if len(p.entries) != 0 || len(p.spentBy) != 0 || len(p.createdBy) != 0 {
		t.Errorf("expected remove to clear every index, got entries=%d spentBy=%d createdBy=%d",
			len(p.entries), len(p.spentBy), len(p.createdBy))
	}
}

func TestEvictConfirmedDropsEntriesWithOnChainKernels(t *testing.T) {
	p := newTestPool()

	confirmed := entryWithCommits(0x01, 0x02, ToFluff)
	confirmed.Tx.Body.Kernels = consensus.TxKernelList{{Fee: 1, Excess: fakeExcess(0x11)}}
	stillPending := entryWithCommits(0x03, 0x04, ToFluff)
	stillPending.Tx.Body.Kernels = consensus.TxKernelList{{Fee: 2, Excess: fakeExcess(0x22)}}

	p.entries[string(confirmed.Tx.Hash())] = confirmed
	p.entries[string(stillPending.Tx.Hash())] = stillPending
	p.spentBy[string(confirmed.Tx.Body.Inputs[0].Commit)] = string(confirmed.Tx.Hash())
	p.spentBy[string(stillPending.Tx.Body.Inputs[0].Commit)] = string(stillPending.Tx.Hash())

	block := &consensus.Block{Body: consensus.TransactionBody{Kernels: consensus.TxKernelList{{Fee: 1, Excess: fakeExcess(0x11)}}}}

	p.mu.Lock()
	onChainKernels := map[string]struct{}{string(block.Body.Kernels[0].Hash()): {}}
	for hash, entry := range p.entries {
		for _, k := range entry.Tx.Body.Kernels {
			if _, onChain := onChainKernels[string(k.Hash())]; onChain {
				p.remove(hash)
				break
			}
		}
	}
	p.mu.Unlock()

	if len(p.entries) != 1 {
		t.Fatalf("expected exactly one surviving entry, got %d", len(p.entries))
	}
	if _, ok := p.entries[string(stillPending.Tx.Hash())]; !ok {
		t.Errorf("expected the not-yet-confirmed entry to survive eviction")
	}
}

func TestAggregateSumsOffsetsAndCutsThrough(t *testing.T) {
	offsetA := blindingFactorOfByte(3)
	offsetB := blindingFactorOfByte(5)

	shared := fakeOutput(0x42)

	txA := &consensus.Transaction{
		Offset: offsetA,
		Body:   consensus.TransactionBody{Outputs: consensus.OutputList{shared}},
	}
	txB := &consensus.Transaction{
		Offset: offsetB,
		Body:   consensus.TransactionBody{Inputs: consensus.InputList{consensus.Input{Commit: shared.CommitBytes()}}},
	}

	result := aggregate([]*consensus.Transaction{txA, txB})

	if len(result.Body.Inputs) != 0 || len(result.Body.Outputs) != 0 {
		t.Errorf("expected cut-through to cancel the shared commitment, got %d inputs, %d outputs",
			len(result.Body.Inputs), len(result.Body.Outputs))
	}

	want := secp256k1zkp.SumBlindingFactors(offsetA, offsetB)
	if result.Offset != want {
		t.Errorf("expected aggregated offset %x, got %x", want, result.Offset)
	}
}

func TestCollectStemWorkForceFluffsExpiredEmbargo(t *testing.T) {
	p := newTestPool()
	entry := entryWithCommits(0x01, 0x02, Stemmed)
	entry.embargoDeadline = time.Now().Add(-time.Second)
	p.entries[string(entry.Tx.Hash())] = entry

	cfg := DefaultDandelionConfig()
	toRelay, toFluffNow := p.collectStemWork(cfg, time.Now())

	if len(toRelay) != 0 {
		t.Errorf("expected no new stem relays, got %d", len(toRelay))
	}
	if len(toFluffNow) != 1 {
		t.Fatalf("expected the expired-embargo entry to be force-fluffed, got %d", len(toFluffNow))
	}
	if entry.Status != ToFluff {
		t.Errorf("expected entry status ToFluff, got %s", entry.Status)
	}
}

func blindingFactorOfByte(b byte) secp256k1zkp.BlindingFactor {
	var bf secp256k1zkp.BlindingFactor
	bf[len(bf)-1] = b
	return bf
}
