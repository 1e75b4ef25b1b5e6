// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package p2p defines the boundary between the node's core (chain index,
// transaction pool, compact blocks) and the peer-to-peer network: what the
// network layer may ask the core to do, and what the core may ask the
// network layer to do on its behalf. The handshake, peer discovery,
// connection pool and wire framing that would normally sit behind these
// contracts are out of scope here; a network implementation plugs into
// NodeClient and supplies a PeerBroadcaster.
package p2p

import (
	"github.com/grinledger/node/chainindex"
	"github.com/grinledger/node/compactblock"
	"github.com/grinledger/node/consensus"
)

// NodeClient is everything a peer connection may ask of this node: header
// and block sync, compact block reconstruction, and transaction
// submission. An implementation wraps a *chainindex.Chain and a
// *txpool.Pool, as this package's Node does.
type NodeClient interface {
	// Genesis returns this node's genesis block, checked against a peer's
	// own at handshake time by the network layer.
	Genesis() consensus.Block

	// Height and TotalDifficulty report the confirmed chain tip, the pair
	// a peer compares against its own to decide who should sync from whom.
	Height() uint64
	TotalDifficulty() consensus.Difficulty

	// GetBlockHeaders answers a locator-based header request.
	GetBlockHeaders(loc chainindex.Locator) ([]consensus.BlockHeader, error)

	// GetBlock answers a full-block request by hash.
	GetBlock(hash consensus.Hash) (*consensus.Block, error)

	// ProcessHeaders admits a batch of headers received from a peer into
	// the candidate chain (or the orphan pool). A returned error is a
	// consensus violation: the caller should ban the sending peer.
	ProcessHeaders(headers []consensus.BlockHeader) error

	// ProcessBlock admits a full block received from a peer. A returned
	// error is a consensus violation: the caller should ban the sending
	// peer. On success the implementation has evicted the block's
	// transactions from the pool; relaying the block onward to peers with
	// less work is left to the network layer.
	ProcessBlock(block *consensus.Block) error

	// ProcessCompactBlock attempts local reconstruction of a compact
	// block against the pool. A non-empty Missing means the caller must
	// request those specific transactions from the sending peer and retry.
	ProcessCompactBlock(cb *consensus.CompactBlock) (compactblock.Result, error)

	// ProcessTransaction admits a transaction received from a peer (stem =
	// true for one received over a Dandelion stem relay, which should
	// itself be relayed onward rather than fluffed immediately).
	ProcessTransaction(tx *consensus.Transaction, stem bool) error
}

// PeerBroadcaster is everything the node's core may ask the network layer
// to do on its behalf: relay or flood data outward, or fetch data this
// node doesn't yet have.
type PeerBroadcaster interface {
	// BroadcastCompactBlock floods a newly confirmed block's compact form
	// to every connected peer.
	BroadcastCompactBlock(cb *consensus.CompactBlock)

	// RequestBlock asks peers for a full block by hash, the fallback path
	// when compact block reconstruction reports missing transactions.
	RequestBlock(hash consensus.Hash)
}
