// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package txpool

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/grinledger/node/consensus"
	"github.com/grinledger/node/txhashset"
	"github.com/grinledger/node/validation"
)

// Errors returned by admission.
var (
	ErrAlreadyInPool  = errors.New("txpool: a transaction with this kernel hash is already pooled")
	ErrUnknownInput   = errors.New("txpool: input spends an output that is not in the confirmed UTXO set")
	ErrDoubleSpend    = errors.New("txpool: input is already spent by another pooled transaction")
	ErrDuplicateOutput = errors.New("txpool: output commitment is already pooled")
	ErrWeightExceeded = errors.New("txpool: aggregating this transaction would exceed the maximum block weight")
)

// Pool holds every transaction candidate for the next block, validated
// against the confirmed chain tip's UTXO set. A single mutex serializes
// admission and eviction; Dandelion scheduling takes the same lock only for
// the brief bookkeeping around each tick, never while waiting on a timer or
// a network call.
type Pool struct {
	mu sync.Mutex

	state *txhashset.TxHashSet
	cache *validation.RangeProofCache

	entries map[string]*Entry // kernel hash -> entry

	// spentBy indexes every pooled input's commitment to the entry that
	// spends it, so a second transaction spending the same output is
	// rejected in O(1) rather than scanning every pooled entry.
	spentBy map[string]string // commitment -> kernel hash

	// createdBy indexes every pooled output's commitment, mirroring
	// spentBy, so two pooled transactions can never both claim the same
	// new output (I-pool-dup-output).
	createdBy map[string]string // commitment -> kernel hash
}

// New builds an empty Pool bound to state for UTXO lookups and cache for
// range-proof memoization.
func New(state *txhashset.TxHashSet, cache *validation.RangeProofCache) *Pool {
	return &Pool{
		state:     state,
		cache:     cache,
		entries:   make(map[string]*Entry),
		spentBy:   make(map[string]string),
		createdBy: make(map[string]string),
	}
}

// Len returns the number of pooled transactions.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// totalWeight returns the aggregate body weight of every pooled
// transaction, without acquiring the lock (callers must already hold it).
func (p *Pool) totalWeight() int64 {
	var total int64
	for _, e := range p.entries {
		total += e.Tx.Body.Weight()
	}
	return total
}

// Add validates tx against the confirmed chain tip and, if it passes,
// admits it to the pool with the given initial Dandelion status (ToStem
// for a tx just received from a peer or ourselves, ToFluff to skip
// stemming for a tx reconstructed from a compact block). Admission
// enforces: (1) the body's own structural/signature/balance checks, (2) no
// unknown or already-spent inputs, no output colliding with a pooled
// output, (3) the pool's aggregate weight stays within the max block
// weight, (4) no duplicate kernel hash.
func (p *Pool) Add(tx *consensus.Transaction, status Status) error {
	if err := validation.ValidateTransaction(tx, p.cache); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	hash := string(tx.Hash())
	if _, exists := p.entries[hash]; exists {
		return ErrAlreadyInPool
	}

	spendHeight := p.state.TipHeight() + 1

	for _, in := range tx.Body.Inputs {
		commit := string(in.Commit)
		if _, spent := p.spentBy[commit]; spent {
			return ErrDoubleSpend
		}
		spendable, err := p.state.Spendable(in.Commit, spendHeight)
		if err != nil {
			return err
		}
		if !spendable {
			return ErrUnknownInput
		}
	}

	for _, out := range tx.Body.Outputs {
		commit := string(out.CommitBytes())
		if _, exists := p.createdBy[commit]; exists {
			return ErrDuplicateOutput
		}
	}

	if p.totalWeight()+tx.Body.Weight() > consensus.MaxBlockWeight {
		return ErrWeightExceeded
	}

	entry := &Entry{Tx: tx, Status: status, Timestamp: time.Now()}
	p.entries[hash] = entry
	for _, in := range tx.Body.Inputs {
		p.spentBy[string(in.Commit)] = hash
	}
	for _, out := range tx.Body.Outputs {
		p.createdBy[string(out.CommitBytes())] = hash
	}

	logrus.WithField("hash", entry.Tx.Hash().String()).Infof("txpool: admitted transaction (status=%s)", status)
	return nil
}

// EvictConfirmed removes every pooled transaction whose kernel set
// overlaps block's kernels (it is now on-chain), then re-validates every
// remaining entry against the new confirmed tip, dropping any that no
// longer apply (a spent input, for instance). Call this once per newly
// applied block, after txhashset.ApplyBlock.
func (p *Pool) EvictConfirmed(block *consensus.Block) {
	p.mu.Lock()
	defer p.mu.Unlock()

	onChainKernels := make(map[string]struct{}, len(block.Body.Kernels))
	for _, k := range block.Body.Kernels {
		onChainKernels[string(k.Hash())] = struct{}{}
	}

	for hash, entry := range p.entries {
		for _, k := range entry.Tx.Body.Kernels {
			if _, onChain := onChainKernels[string(k.Hash())]; onChain {
				p.remove(hash)
				break
			}
		}
	}

	spendHeight := p.state.TipHeight() + 1
	for hash, entry := range p.entries {
		if err := p.revalidate(entry.Tx, spendHeight); err != nil {
			logrus.WithError(err).WithField("hash", entry.Tx.Hash().String()).Warn("txpool: dropping entry that no longer applies to the confirmed tip")
			p.remove(hash)
		}
	}
}

// revalidate re-runs only the chain-context checks (inputs still
// spendable); the transaction's own structural/signature/balance checks
// never change once it was first admitted.
func (p *Pool) revalidate(tx *consensus.Transaction, spendHeight uint64) error {
	for _, in := range tx.Body.Inputs {
		spendable, err := p.state.Spendable(in.Commit, spendHeight)
		if err != nil {
			return err
		}
		if !spendable {
			return ErrUnknownInput
		}
	}
	return nil
}

// remove drops an entry and its index rows. Callers must hold p.mu.
func (p *Pool) remove(hash string) {
	entry, ok := p.entries[hash]
	if !ok {
		return
	}
	for _, in := range entry.Tx.Body.Inputs {
		delete(p.spentBy, string(in.Commit))
	}
	for _, out := range entry.Tx.Body.Outputs {
		delete(p.createdBy, string(out.CommitBytes()))
	}
	delete(p.entries, hash)
}

// CandidateBody aggregates every pooled transaction into one cut-through
// body, the candidate set a block assembler would build on top of the
// coinbase. Inputs and outputs that cancel across transactions are
// removed, same as within a single transaction.
func (p *Pool) CandidateBody() consensus.TransactionBody {
	p.mu.Lock()
	defer p.mu.Unlock()

	body := consensus.TransactionBody{}
	for _, entry := range p.entries {
		body.Inputs = append(body.Inputs, entry.Tx.Body.Inputs...)
		body.Outputs = append(body.Outputs, entry.Tx.Body.Outputs...)
		body.Kernels = append(body.Kernels, entry.Tx.Body.Kernels...)
	}
	body.CutThrough()
	return body
}

// Has reports whether a transaction with this hash is already pooled.
func (p *Pool) Has(hash consensus.Hash) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.entries[string(hash)]
	return ok
}

// Get returns the pooled entry for hash, or nil if not pooled. Used by
// compact-block reconstruction to resolve a kernel short ID back to a full
// transaction.
func (p *Pool) Get(hash consensus.Hash) *Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.entries[string(hash)]
}

// Transactions returns every pooled transaction, for callers that need a
// point-in-time snapshot (e.g. compact-block short ID resolution).
func (p *Pool) Transactions() []*consensus.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*consensus.Transaction, 0, len(p.entries))
	for _, e := range p.entries {
		out = append(out, e.Tx)
	}
	return out
}
