// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package chainindex

import (
	"bytes"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/grinledger/node/consensus"
	"github.com/grinledger/node/cuckoo"
	"github.com/grinledger/node/txhashset"
	"github.com/grinledger/node/validation"
)

// Errors returned by Chain's header/block acceptance path.
var (
	ErrUnknownParent      = errors.New("chainindex: header's parent is not known")
	ErrStaleBlock         = errors.New("chainindex: block is behind the confirmed chain tip and is not the existing tip")
	ErrWrongParent        = errors.New("chainindex: block does not extend the confirmed chain's current tip")
	ErrBadTimestamp       = errors.New("chainindex: header timestamp does not exceed the running median")
	ErrDifficultyTooLow   = errors.New("chainindex: total difficulty does not meet the adjustment window's requirement")
)

// Locator is a sparse list of block hashes a peer already has, newest
// first, used to find the common ancestor with this chain without
// exchanging every header in between.
type Locator struct {
	Hashes []consensus.Hash
}

// Chain is the top-level orchestrator: it accepts headers onto a
// best-known "candidate" chain, accepts full blocks onto the "confirmed"
// chain once their bodies are validated and applied to the TxHashSet, and
// parks headers whose parent hasn't arrived yet in an orphan pool.
type Chain struct {
	mu sync.RWMutex

	network consensus.Network
	genesis *consensus.Block

	index   *BlockIndex
	blocks  *BlockStore
	state   *txhashset.TxHashSet
	cache   *validation.RangeProofCache
	orphans *orphanHeaderPool

	head            *consensus.BlockHeader
	height          uint64
	totalDifficulty consensus.Difficulty
}

// New opens a Chain over already-opened backing stores, seeding them with
// network's genesis block the first time they are used.
func New(network consensus.Network, index *BlockIndex, blocks *BlockStore, state *txhashset.TxHashSet) (*Chain, error) {
	c := &Chain{
		network: network,
		genesis: GenesisFor(network),
		index:   index,
		blocks:  blocks,
		state:   state,
		cache:   validation.NewRangeProofCache(),
		orphans: newOrphanHeaderPool(),
	}

	if genesisHash, err := index.ConfirmedHashAt(0); err != nil {
		return nil, err
	} else if genesisHash == nil {
		if err := c.seedGenesis(); err != nil {
			return nil, err
		}
	}

	headHash, err := index.ConfirmedHashAt(index.ConfirmedHeight())
	if err != nil {
		return nil, err
	}
	head, err := blocks.GetHeader(headHash)
	if err != nil {
		return nil, err
	}
	if head == nil {
		return nil, errors.New("chainindex: confirmed chain tip header is missing from the block store")
	}

	c.head = head
	c.height = head.Height
	c.totalDifficulty = head.TotalDifficulty
	return c, nil
}

func (c *Chain) seedGenesis() error {
	if err := c.blocks.PutBlock(c.genesis); err != nil {
		return err
	}
	hash := c.genesis.Hash()

	candidate := c.index.RewriteCandidate(0)
	candidate.Append(hash)
	if err := candidate.Commit(); err != nil {
		return err
	}

	confirmed := c.index.RewriteConfirmed(0)
	confirmed.Append(hash)
	return confirmed.Commit()
}

// Genesis returns the network's fixed genesis block.
func (c *Chain) Genesis() consensus.Block {
	return *c.genesis
}

// Head returns the confirmed chain's tip header.
func (c *Chain) Head() consensus.BlockHeader {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return *c.head
}

// Height returns the confirmed chain's tip height.
func (c *Chain) Height() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.height
}

// TotalDifficulty returns the confirmed chain's accumulated difficulty.
func (c *Chain) TotalDifficulty() consensus.Difficulty {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.totalDifficulty
}

// GetBlock returns the full block for hash, or nil if this node doesn't
// have it.
func (c *Chain) GetBlock(hash consensus.Hash) (*consensus.Block, error) {
	return c.blocks.GetBlock(hash)
}

// GetBlockAt returns the confirmed block at height, or nil if height is
// beyond the confirmed tip.
func (c *Chain) GetBlockAt(height uint64) (*consensus.Block, error) {
	hash, err := c.index.ConfirmedHashAt(height)
	if err != nil || hash == nil {
		return nil, err
	}
	return c.blocks.GetBlock(hash)
}

// GetBlockHeaders returns the confirmed headers immediately following the
// first hash in loc that this chain recognizes, capped at
// consensus.MaxBlockHeaders, mirroring a peer's getheaders request.
func (c *Chain) GetBlockHeaders(loc Locator) ([]consensus.BlockHeader, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	hashes := loc.Hashes
	if len(hashes) > consensus.MaxLocators {
		hashes = hashes[:consensus.MaxLocators]
	}

	for _, hash := range hashes {
		if bytes.Equal(hash, c.head.Hash()) {
			return nil, nil
		}

		header, err := c.blocks.GetHeader(hash)
		if err != nil {
			return nil, err
		}
		if header == nil {
			continue
		}

		result := make([]consensus.BlockHeader, 0, consensus.MaxBlockHeaders)
		for h := header.Height + 1; h <= c.height && len(result) < consensus.MaxBlockHeaders; h++ {
			next, err := c.confirmedHeaderAt(h)
			if err != nil {
				return nil, err
			}
			if next == nil {
				break
			}
			result = append(result, *next)
		}
		return result, nil
	}

	return nil, nil
}

// Validate re-checks that the TxHashSet's current state matches the
// confirmed tip header's committed roots and the chain-wide kernel-sum
// identity; every block was already checked incrementally as it was
// applied, so this is a consistency self-check, not a full chain replay.
func (c *Chain) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Validate(c.head)
}

// OrphanHeaderCount reports how many headers are parked awaiting a parent.
func (c *Chain) OrphanHeaderCount() int {
	return c.orphans.len()
}

// ProcessHeaders validates and accepts a run of headers onto the candidate
// chain. Headers whose parent is not yet known are parked in the orphan
// pool instead of rejected, and replayed automatically once their parent
// arrives (including transitively, via a later ProcessHeaders call).
func (c *Chain) ProcessHeaders(headers []consensus.BlockHeader) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range headers {
		if err := c.acceptHeader(&headers[i]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) acceptHeader(header *consensus.BlockHeader) error {
	if header.Height == 0 {
		// genesis is seeded directly by New, never accepted here
		return nil
	}

	if existing, err := c.blocks.GetHeader(header.Hash()); err != nil {
		return err
	} else if existing != nil {
		return nil
	}

	parent, err := c.blocks.GetHeader(header.Previous)
	if err != nil {
		return err
	}
	if parent == nil {
		c.orphans.add(header)
		return nil
	}

	medianHeaders, err := c.headersBefore(c.index.CandidateHashAt, header.Height-1, consensus.MedianTimeWindow)
	if err != nil {
		return err
	}
	median := medianOf(medianHeaders)

	if err := c.checkHeader(header, median); err != nil {
		return err
	}

	window, err := c.difficultyWindowOver(c.index.CandidateHashAt, header.Height-1)
	if err != nil {
		return err
	}
	requiredDifficulty, _ := consensus.NextDifficulty(header.Height, window)
	if header.TotalDifficulty < parent.TotalDifficulty+requiredDifficulty {
		return ErrDifficultyTooLow
	}

	if err := c.blocks.PutHeader(header); err != nil {
		return err
	}
	if err := c.extendCandidate(header); err != nil {
		return err
	}

	for _, child := range c.orphans.take(header.Hash()) {
		if err := c.acceptHeader(child); err != nil {
			logrus.WithError(err).Warn("chainindex: orphan header rejected once its parent arrived")
		}
	}
	return nil
}

// checkHeader runs the header-only subset of block validation: version
// schedule, proof of work, and timestamp bounds. The body-dependent checks
// (range proofs, kernel signatures, kernel sums, coinbase shape) only run
// once the full block reaches ProcessBlock.
func (c *Chain) checkHeader(header *consensus.BlockHeader, median time.Time) error {
	if err := consensus.ValidateBlockVersion(header, c.network); err != nil {
		return err
	}
	if err := cuckoo.VerifyHeaderPOW(header); err != nil {
		return err
	}
	if !median.IsZero() && !header.Timestamp.After(median) {
		return ErrBadTimestamp
	}
	if header.Timestamp.After(time.Now().Add(consensus.FutureTimeLimit)) {
		return ErrBadTimestamp
	}
	return nil
}

// extendCandidate walks back from header until it reaches a height already
// recorded on the candidate chain, then rewrites the candidate array from
// that fork point forward to include header (and every ancestor between
// the fork point and header already known to this chain). A header whose
// chain is not currently the best known is still stored (by the caller)
// but left off the candidate array.
func (c *Chain) extendCandidate(header *consensus.BlockHeader) error {
	tipHeight := c.index.CandidateHeight()
	tipHash, err := c.index.CandidateHashAt(tipHeight)
	if err != nil {
		return err
	}
	if tipHash != nil {
		tip, err := c.blocks.GetHeader(tipHash)
		if err != nil {
			return err
		}
		if tip != nil && header.TotalDifficulty <= tip.TotalDifficulty {
			return nil
		}
	}

	var run []*consensus.BlockHeader
	cursor := header
	for {
		existing, err := c.index.CandidateHashAt(cursor.Height)
		if err != nil {
			return err
		}
		if existing != nil && bytes.Equal(existing, cursor.Hash()) {
			break
		}
		run = append(run, cursor)
		if cursor.Height == 0 {
			break
		}
		parent, err := c.blocks.GetHeader(cursor.Previous)
		if err != nil {
			return err
		}
		if parent == nil {
			return ErrUnknownParent
		}
		cursor = parent
	}

	if len(run) == 0 {
		return nil
	}

	forkHeight := run[len(run)-1].Height - 1
	w := c.index.RewriteCandidate(forkHeight)
	for i := len(run) - 1; i >= 0; i-- {
		w.Append(run[i].Hash())
	}
	return w.Commit()
}

// ProcessBlock validates a full block's body against the chain's current
// state, applies it to the TxHashSet, and extends the confirmed chain.
func (c *Chain) ProcessBlock(block *consensus.Block) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	header := &block.Header
	logrus.Infof("chainindex: processing block (height=%d, hash=%s)", header.Height, header.Hash())

	if header.Height <= c.height {
		existing, err := c.index.ConfirmedHashAt(header.Height)
		if err != nil {
			return err
		}
		if bytes.Equal(existing, header.Hash()) {
			return nil
		}
		return ErrStaleBlock
	}

	if header.Height != c.height+1 || !bytes.Equal(header.Previous, c.head.Hash()) {
		return ErrWrongParent
	}

	medianHeaders, err := c.headersBefore(c.index.ConfirmedHashAt, c.height, consensus.MedianTimeWindow)
	if err != nil {
		return err
	}
	median := medianOf(medianHeaders)

	if !median.IsZero() && !header.Timestamp.After(median) {
		return ErrBadTimestamp
	}

	window, err := c.difficultyWindowOver(c.index.ConfirmedHashAt, c.height)
	if err != nil {
		return err
	}
	requiredDifficulty, _ := consensus.NextDifficulty(header.Height, window)
	if header.TotalDifficulty < c.totalDifficulty+requiredDifficulty {
		return ErrDifficultyTooLow
	}

	if err := validation.ValidateBlock(block, c.network, median, time.Now(), c.cache); err != nil {
		return err
	}

	if err := c.state.ApplyBlock(block); err != nil {
		return err
	}

	if err := c.blocks.PutBlock(block); err != nil {
		return err
	}

	w := c.index.RewriteConfirmed(c.height)
	w.Append(header.Hash())
	if err := w.Commit(); err != nil {
		return err
	}

	c.head = header
	c.height = header.Height
	c.totalDifficulty = header.TotalDifficulty

	if err := c.extendCandidate(header); err != nil {
		return err
	}

	for _, child := range c.orphans.take(header.Hash()) {
		if err := c.acceptHeader(child); err != nil {
			logrus.WithError(err).Warn("chainindex: orphan header rejected once its parent was confirmed")
		}
	}
	return nil
}

// Rewind reverts the confirmed chain (and the TxHashSet backing it) to
// target, used when a competing chain with more accumulated work overtakes
// the current confirmed tip. Callers are expected to ProcessBlock the new
// chain's blocks immediately afterward.
func (c *Chain) Rewind(targetHeight uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if targetHeight >= c.height {
		return nil
	}

	targetHash, err := c.index.ConfirmedHashAt(targetHeight)
	if err != nil {
		return err
	}
	target, err := c.blocks.GetHeader(targetHash)
	if err != nil {
		return err
	}
	if target == nil {
		return errors.New("chainindex: rewind target header is missing from the block store")
	}

	if err := c.state.Rewind(target); err != nil {
		return err
	}

	w := c.index.RewriteConfirmed(targetHeight)
	if err := w.Commit(); err != nil {
		return err
	}

	c.head = target
	c.height = target.Height
	c.totalDifficulty = target.TotalDifficulty
	return nil
}

func (c *Chain) confirmedHeaderAt(height uint64) (*consensus.BlockHeader, error) {
	hash, err := c.index.ConfirmedHashAt(height)
	if err != nil || hash == nil {
		return nil, err
	}
	return c.blocks.GetHeader(hash)
}

type heightHashFunc func(height uint64) (consensus.Hash, error)

// headersBefore returns up to n headers, oldest first, ending at and
// including endHeight, read through hashAt (either the candidate or the
// confirmed chain).
func (c *Chain) headersBefore(hashAt heightHashFunc, endHeight uint64, n int) ([]*consensus.BlockHeader, error) {
	if n <= 0 {
		return nil, nil
	}
	start := uint64(0)
	if endHeight+1 > uint64(n) {
		start = endHeight + 1 - uint64(n)
	}

	headers := make([]*consensus.BlockHeader, 0, n)
	for h := start; h <= endHeight; h++ {
		hash, err := hashAt(h)
		if err != nil {
			return nil, err
		}
		if hash == nil {
			continue
		}
		header, err := c.blocks.GetHeader(hash)
		if err != nil {
			return nil, err
		}
		if header == nil {
			continue
		}
		headers = append(headers, header)
	}
	return headers, nil
}

// difficultyWindowOver builds the consensus.NextDifficulty input window
// from DifficultyAdjustWindow+1 headers ending at endHeight, each entry's
// difficulty being the delta between consecutive headers' cumulative
// total difficulty (the only difficulty measure a solved-but-unscored
// Cuckoo proof leaves us, since this module verifies proofs without
// reconstructing their exact graph-weight score).
func (c *Chain) difficultyWindowOver(hashAt heightHashFunc, endHeight uint64) ([]consensus.HeaderInfo, error) {
	headers, err := c.headersBefore(hashAt, endHeight, consensus.DifficultyAdjustWindow+1)
	if err != nil {
		return nil, err
	}
	if len(headers) < 2 {
		return nil, nil
	}

	window := make([]consensus.HeaderInfo, 0, len(headers)-1)
	for i := 1; i < len(headers); i++ {
		prev, cur := headers[i-1], headers[i]
		window = append(window, consensus.HeaderInfo{
			Timestamp:      cur.Timestamp,
			Difficulty:     cur.TotalDifficulty - prev.TotalDifficulty,
			SecondaryScale: cur.ScalingDifficulty,
			IsSecondary:    cur.POW.IsSecondary(),
		})
	}
	return window, nil
}

func medianOf(headers []*consensus.BlockHeader) time.Time {
	if len(headers) == 0 {
		return time.Time{}
	}
	times := make([]time.Time, len(headers))
	for i, h := range headers {
		times[i] = h.Timestamp
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times[len(times)/2]
}
