// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package chainindex ties the txhashset, the header proof-of-work check and
// the block validator together into the one stateful thing a peer actually
// talks to: a Chain that accepts headers and blocks, tracks the
// most-work candidate chain ahead of what has been fully validated, and
// keeps an orphan pool for headers that arrive before their parent.
package chainindex

import (
	"encoding/binary"
	"errors"
	"os"
	"sync"

	"github.com/grinledger/node/consensus"
)

// indexRecordSize is the on-disk width of one BlockIndex entry: a 32-byte
// hash followed by its big-endian u64 height, contiguous by height per the
// chain/candidate.bin and chain/confirmed.bin layouts.
const indexRecordSize = consensus.BlockHashSize + 8

// ErrForkTooDeep is returned when a batch write's fork height is at or past
// the end of a non-empty index file, so there is no record at forkHeight to
// keep.
var ErrForkTooDeep = errors.New("chainindex: fork height exceeds current chain height")

// ErrCorruptIndex is returned when an index file's size is not a multiple
// of the record width, or a read record's embedded height doesn't match
// its file position.
var ErrCorruptIndex = errors.New("chainindex: block index file is corrupt")

// indexFile is an os.File-backed array of fixed-width (hash, height)
// records, addressed by height (= file position). The height is carried
// in the record itself, redundant with position, so a reader can confirm
// the file wasn't silently reordered.
type indexFile struct {
	f *os.File
}

func openIndexFile(path string) (*indexFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size()%indexRecordSize != 0 {
		f.Close()
		return nil, ErrCorruptIndex
	}
	return &indexFile{f: f}, nil
}

func (i *indexFile) size() uint64 {
	info, err := i.f.Stat()
	if err != nil {
		return 0
	}
	return uint64(info.Size()) / indexRecordSize
}

func (i *indexFile) at(height uint64) (consensus.Hash, error) {
	if height >= i.size() {
		return nil, nil
	}
	buf := make([]byte, indexRecordSize)
	if _, err := i.f.ReadAt(buf, int64(height)*indexRecordSize); err != nil {
		return nil, err
	}
	recordedHeight := binary.BigEndian.Uint64(buf[consensus.BlockHashSize:])
	if recordedHeight != height {
		return nil, ErrCorruptIndex
	}
	hash := make(consensus.Hash, consensus.BlockHashSize)
	copy(hash, buf[:consensus.BlockHashSize])
	return hash, nil
}

func (i *indexFile) append(height uint64, hash consensus.Hash) error {
	buf := make([]byte, indexRecordSize)
	copy(buf, hash)
	binary.BigEndian.PutUint64(buf[consensus.BlockHashSize:], height)
	_, err := i.f.WriteAt(buf, int64(height)*indexRecordSize)
	return err
}

func (i *indexFile) truncate(numEntries uint64) error {
	return i.f.Truncate(int64(numEntries) * indexRecordSize)
}

// BlockIndex holds two parallel height-indexed hash arrays: "candidate",
// the best header chain known regardless of whether its blocks have been
// fully downloaded and applied, and "confirmed", the chain whose blocks
// have actually been run through txhashset.ApplyBlock. Headers can race
// ahead of bodies; confirmed never does.
type BlockIndex struct {
	mu sync.RWMutex

	candidate *indexFile
	confirmed *indexFile
}

// OpenBlockIndex opens or creates the candidate and confirmed index files.
func OpenBlockIndex(candidatePath, confirmedPath string) (*BlockIndex, error) {
	candidate, err := openIndexFile(candidatePath)
	if err != nil {
		return nil, err
	}
	confirmed, err := openIndexFile(confirmedPath)
	if err != nil {
		return nil, err
	}
	return &BlockIndex{candidate: candidate, confirmed: confirmed}, nil
}

// CandidateHeight returns the height of the highest-known header chain.
func (idx *BlockIndex) CandidateHeight() uint64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return tipHeight(idx.candidate)
}

// ConfirmedHeight returns the height of the chain tip whose block has
// actually been applied to the txhashset.
func (idx *BlockIndex) ConfirmedHeight() uint64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return tipHeight(idx.confirmed)
}

func tipHeight(f *indexFile) uint64 {
	size := f.size()
	if size == 0 {
		return 0
	}
	return size - 1
}

// CandidateHashAt returns the header-chain hash at height, or nil if not
// yet recorded.
func (idx *BlockIndex) CandidateHashAt(height uint64) (consensus.Hash, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.candidate.at(height)
}

// ConfirmedHashAt returns the applied-chain hash at height, or nil if not
// yet recorded.
func (idx *BlockIndex) ConfirmedHashAt(height uint64) (consensus.Hash, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.confirmed.at(height)
}

// BatchWrite atomically rewinds one of the index's hash arrays to a fork
// height and extends it with a run of new hashes, so a reorg is never
// observable as a partially-written chain: either the whole new run lands,
// or Commit returns an error and nothing on disk has moved past forkHeight.
type BatchWrite struct {
	idx        *BlockIndex
	file       *indexFile
	forkHeight uint64
	hashes     []consensus.Hash
}

// RewriteCandidate starts a batch against the candidate chain, truncating
// back to (but keeping) forkHeight before any Append.
func (idx *BlockIndex) RewriteCandidate(forkHeight uint64) *BatchWrite {
	return &BatchWrite{idx: idx, file: idx.candidate, forkHeight: forkHeight}
}

// RewriteConfirmed starts a batch against the confirmed chain.
func (idx *BlockIndex) RewriteConfirmed(forkHeight uint64) *BatchWrite {
	return &BatchWrite{idx: idx, file: idx.confirmed, forkHeight: forkHeight}
}

// Append queues hash to be written at the next height after the fork point.
func (w *BatchWrite) Append(hash consensus.Hash) {
	w.hashes = append(w.hashes, hash)
}

// Commit truncates the target file to forkHeight+1 entries and appends the
// queued hashes in order.
func (w *BatchWrite) Commit() error {
	w.idx.mu.Lock()
	defer w.idx.mu.Unlock()

	if w.file.size() > 0 {
		if w.forkHeight+1 > w.file.size() {
			return ErrForkTooDeep
		}
		if err := w.file.truncate(w.forkHeight + 1); err != nil {
			return err
		}
	}

	base := w.file.size()
	next := w.forkHeight + 1
	if base == 0 {
		next = 0
	}
	for _, h := range w.hashes {
		if err := w.file.append(next, h); err != nil {
			w.file.truncate(base)
			return err
		}
		next++
	}
	return nil
}
