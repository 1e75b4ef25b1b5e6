// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package txpool

import (
	"context"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/grinledger/node/consensus"
	"github.com/grinledger/node/secp256k1zkp"
)

// StemRelay sends a single transaction privately to the current Dandelion
// stem successor. The network layer owns peer selection and rotation
// (RelaySeconds); the pool only ever asks it to relay.
type StemRelay interface {
	SendToStem(tx *consensus.Transaction) error
}

// Broadcaster floods a transaction to the whole peer set, the fluff-phase
// terminal action.
type Broadcaster interface {
	Broadcast(tx *consensus.Transaction) error
}

// RunDandelion runs the patience-timer loop until ctx is cancelled. Each
// tick it: force-fluffs any Stemmed entry whose embargo has expired,
// decides each ToStem entry's fate (relay onward and mark Stemmed, or
// promote straight to ToFluff), and aggregates every ToFluff entry into a
// single cut-through body that it hands to broadcaster before marking
// those entries Fluffed.
//
// No lock is held while sleeping or while calling relay/broadcaster; the
// pool's mutex is only taken for the bookkeeping around each tick.
func (p *Pool) RunDandelion(ctx context.Context, cfg DandelionConfig, relay StemRelay, broadcaster Broadcaster) {
	ticker := time.NewTicker(cfg.patience())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.dandelionTick(cfg, relay, broadcaster)
		}
	}
}

func (p *Pool) dandelionTick(cfg DandelionConfig, relay StemRelay, broadcaster Broadcaster) {
	now := time.Now()

	fluffBatch := p.collectFluffWork()
	toRelay, toFluffNow := p.collectStemWork(cfg, now)

	for _, tx := range toRelay {
		if err := relay.SendToStem(tx); err != nil {
			logrus.WithError(err).Warn("txpool: stem relay failed, force-fluffing")
			p.mu.Lock()
			p.markToFluff(tx.Hash())
			p.mu.Unlock()
			toFluffNow = append(toFluffNow, tx)
		}
	}

	fluffBatch = append(fluffBatch, toFluffNow...)
	if len(fluffBatch) == 0 {
		return
	}

	aggregated := aggregate(fluffBatch)
	if err := broadcaster.Broadcast(&aggregated); err != nil {
		logrus.WithError(err).Warn("txpool: fluff broadcast failed")
		return
	}

	p.mu.Lock()
	for _, tx := range fluffBatch {
		if entry, ok := p.entries[string(tx.Hash())]; ok {
			entry.Status = Fluffed
		}
	}
	p.mu.Unlock()
}

// collectStemWork decides each ToStem entry's fate for this tick and
// force-fluffs any Stemmed entry past its embargo. It returns the
// transactions to relay onward (still ToStem→Stemmed) separately from the
// ones to fluff immediately (promoted this tick, or past embargo).
func (p *Pool) collectStemWork(cfg DandelionConfig, now time.Time) (toRelay, toFluffNow []*consensus.Transaction) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, entry := range p.entries {
		switch entry.Status {
		case ToStem:
			if rand.Intn(100) < int(cfg.StemProbability) {
				entry.Status = Stemmed
				entry.embargoDeadline = now.Add(cfg.embargo())
				toRelay = append(toRelay, entry.Tx)
			} else {
				entry.Status = ToFluff
				toFluffNow = append(toFluffNow, entry.Tx)
			}
		case Stemmed:
			if now.After(entry.embargoDeadline) {
				entry.Status = ToFluff
				toFluffNow = append(toFluffNow, entry.Tx)
			}
		}
	}
	return toRelay, toFluffNow
}

// collectFluffWork returns every entry already queued ToFluff (from a
// previous tick, or received directly as ToFluff) before this tick's own
// promotions are folded in.
func (p *Pool) collectFluffWork() []*consensus.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []*consensus.Transaction
	for _, entry := range p.entries {
		if entry.Status == ToFluff {
			out = append(out, entry.Tx)
		}
	}
	return out
}

// markToFluff reassigns a single entry's status; callers must hold p.mu.
func (p *Pool) markToFluff(hash consensus.Hash) {
	if entry, ok := p.entries[string(hash)]; ok {
		entry.Status = ToFluff
	}
}

// aggregate cut-throughs a batch of independently-valid transactions into
// one, summing each one's offset into the aggregate's own so the combined
// kernel excess sum still balances against the combined output sum.
func aggregate(txs []*consensus.Transaction) consensus.Transaction {
	var body consensus.TransactionBody
	offsets := make([]secp256k1zkp.BlindingFactor, 0, len(txs))
	for _, tx := range txs {
		body.Inputs = append(body.Inputs, tx.Body.Inputs...)
		body.Outputs = append(body.Outputs, tx.Body.Outputs...)
		body.Kernels = append(body.Kernels, tx.Body.Kernels...)
		offsets = append(offsets, tx.Offset)
	}
	body.CutThrough()
	return consensus.Transaction{Offset: secp256k1zkp.SumBlindingFactors(offsets...), Body: body}
}
