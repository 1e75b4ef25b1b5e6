// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package p2p

import (
	"github.com/sirupsen/logrus"

	"github.com/grinledger/node/chainindex"
	"github.com/grinledger/node/compactblock"
	"github.com/grinledger/node/consensus"
	"github.com/grinledger/node/txpool"
)

// Node implements NodeClient by wiring together the chain index and the
// transaction pool, the same two collaborators the reference peer-to-peer
// layer's Syncer held directly as its Chain and Mempool fields.
type Node struct {
	Chain *chainindex.Chain
	Pool  *txpool.Pool
}

// NewNode wires a Node over an already-opened chain and pool.
func NewNode(chain *chainindex.Chain, pool *txpool.Pool) *Node {
	return &Node{Chain: chain, Pool: pool}
}

func (n *Node) Genesis() consensus.Block             { return n.Chain.Genesis() }
func (n *Node) Height() uint64                       { return n.Chain.Height() }
func (n *Node) TotalDifficulty() consensus.Difficulty { return n.Chain.TotalDifficulty() }

func (n *Node) GetBlockHeaders(loc chainindex.Locator) ([]consensus.BlockHeader, error) {
	return n.Chain.GetBlockHeaders(loc)
}

func (n *Node) GetBlock(hash consensus.Hash) (*consensus.Block, error) {
	return n.Chain.GetBlock(hash)
}

func (n *Node) ProcessHeaders(headers []consensus.BlockHeader) error {
	return n.Chain.ProcessHeaders(headers)
}

// ProcessBlock admits the block and, on success, evicts its now-confirmed
// transactions from the pool — the same "clear tx's from pool on new
// block" step the reference Syncer documents on its own ProcessBlock.
func (n *Node) ProcessBlock(block *consensus.Block) error {
	if err := n.Chain.ProcessBlock(block); err != nil {
		return err
	}
	n.Pool.EvictConfirmed(block)
	return nil
}

// ProcessCompactBlock attempts reconstruction against the pool and, on a
// full hit, runs the reconstructed block through the same path as a
// directly-received block.
func (n *Node) ProcessCompactBlock(cb *consensus.CompactBlock) (compactblock.Result, error) {
	result := compactblock.Reconstruct(cb, n.Pool)
	if len(result.Missing) > 0 {
		logrus.WithField("height", cb.Header.Height).Infof("p2p: compact block reconstruction missing %d transactions", len(result.Missing))
		return result, nil
	}
	return result, n.ProcessBlock(result.Block)
}

func (n *Node) ProcessTransaction(tx *consensus.Transaction, stem bool) error {
	return n.Pool.Add(tx, initialStatus(stem))
}

// initialStatus maps how a transaction arrived (over a Dandelion stem
// relay, or any other way) to the Dandelion state it enters the pool with.
func initialStatus(stem bool) txpool.Status {
	if stem {
		return txpool.ToStem
	}
	return txpool.ToFluff
}
