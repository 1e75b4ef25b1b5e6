// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/grinledger/node/chainindex"
	"github.com/grinledger/node/config"
	"github.com/grinledger/node/consensus"
	"github.com/grinledger/node/p2p"
	"github.com/grinledger/node/pmmr"
	"github.com/grinledger/node/storage"
	"github.com/grinledger/node/txhashset"
	"github.com/grinledger/node/txpool"
	"github.com/grinledger/node/validation"
)

// outputEntryWidth/rangeProofEntryWidth are generous fixed widths for the
// two leaf data files; the output leaf itself is 34 bytes (1 feature byte
// + a 33-byte commitment) and a single-output Bulletproof is a few
// hundred bytes, so both widths carry comfortable headroom above
// anything either ever serializes to.
const (
	outputEntryWidth     = 64
	rangeProofEntryWidth = 1024
)

func init() {
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	cfg, err := config.LoadFlags(fs, os.Args[1:])
	if err != nil {
		logrus.WithError(err).Fatal("node: invalid configuration")
	}

	logrus.WithField("network", cfg.Network).WithField("data-dir", cfg.DataDir).Info("node: starting")

	if err := cfg.EnsureDirs(); err != nil {
		logrus.WithError(err).Fatal("node: failed to create data directories")
	}

	chain, pool, err := open(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("node: failed to open chain state")
	}

	node := p2p.NewNode(chain, pool)
	logrus.WithField("height", node.Height()).Info("node: chain opened")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go node.Pool.RunDandelion(ctx, cfg.Dandelion, noopRelay{}, noopBroadcaster{})

	<-ctx.Done()
	logrus.Info("node: shutting down")
}

// open assembles the chain index, block store, and tx hashset backing a
// Chain, and the pool layered on top of it, out of the on-disk files
// config names.
func open(cfg config.Config) (*chainindex.Chain, *txpool.Pool, error) {
	index, err := chainindex.OpenBlockIndex(
		filepath.Join(cfg.ChainPath(), "candidate.bin"),
		filepath.Join(cfg.ChainPath(), "confirmed.bin"),
	)
	if err != nil {
		return nil, nil, err
	}

	blocks, err := chainindex.OpenBlockStore(
		filepath.Join(cfg.DatabasePath(), "blocks.db"),
		filepath.Join(cfg.DatabasePath(), "headers.db"),
	)
	if err != nil {
		return nil, nil, err
	}

	state, err := openTxHashSet(cfg)
	if err != nil {
		return nil, nil, err
	}

	chain, err := chainindex.New(cfg.Network, index, blocks, state)
	if err != nil {
		return nil, nil, err
	}

	pool := txpool.New(state, validation.NewRangeProofCache())
	return chain, pool, nil
}

func openTxHashSet(cfg config.Config) (*txhashset.TxHashSet, error) {
	root := cfg.TxHashSetPath()
	for _, kind := range []string{"output", "rangeproof", "kernel"} {
		if err := os.MkdirAll(filepath.Join(root, "mmr", kind), 0o755); err != nil {
			return nil, err
		}
	}

	outputHashes, err := storage.OpenHashFile(filepath.Join(root, "mmr", "output", "pmmr_hash.bin"))
	if err != nil {
		return nil, err
	}
	rproofHashes, err := storage.OpenHashFile(filepath.Join(root, "mmr", "rangeproof", "pmmr_hash.bin"))
	if err != nil {
		return nil, err
	}
	kernelHashes, err := storage.OpenHashFile(filepath.Join(root, "mmr", "kernel", "pmmr_hash.bin"))
	if err != nil {
		return nil, err
	}

	outputData, err := storage.OpenDataFile(filepath.Join(root, "mmr", "output", "pmmr_data.bin"), outputEntryWidth)
	if err != nil {
		return nil, err
	}
	rproofData, err := storage.OpenDataFile(filepath.Join(root, "mmr", "rangeproof", "pmmr_data.bin"), rangeProofEntryWidth)
	if err != nil {
		return nil, err
	}

	positions, err := storage.OpenKVStore(filepath.Join(root, "positions.db"))
	if err != nil {
		return nil, err
	}
	sums, err := storage.OpenKVStore(filepath.Join(root, "sums.db"))
	if err != nil {
		return nil, err
	}

	outputMMR := pmmr.NewPrunableMMR(outputHashes, outputData, pmmr.NewBitSet())
	rproofMMR := pmmr.NewPrunableMMR(rproofHashes, rproofData, pmmr.NewBitSet())
	kernelMMR := pmmr.NewAppendOnlyMMR(kernelHashes)

	return txhashset.New(outputMMR, rproofMMR, kernelMMR, positions, sums), nil
}

// noopRelay and noopBroadcaster stand in for the peer-to-peer layer this
// module doesn't build (see p2p's package doc): running the Dandelion
// loop against them keeps every stemmed transaction's embargo timer
// ticking and force-fluffing locally even with no network attached,
// rather than leaving the pool's bookkeeping untested until a real
// transport is wired in.
type noopRelay struct{}

func (noopRelay) SendToStem(tx *consensus.Transaction) error { return nil }

type noopBroadcaster struct{}

func (noopBroadcaster) Broadcast(tx *consensus.Transaction) error { return nil }
