// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package pmmr

// HashStore is the append-only backing file for an MMR's node hashes,
// written in MMR-position order (pmmr_hash.bin). Implementations live in
// the storage package; pmmr only depends on this interface so it can be
// driven equally by a memory-mapped file or an in-memory store in tests.
type HashStore interface {
	Append(h Hash) error
	At(pos uint64) (Hash, error)
	Size() uint64
	Truncate(size uint64) error
}

// DataStore is the backing file for a prunable MMR's leaf payloads
// (pmmr_data.bin), indexed by leaf position (0-indexed insertion order, not
// MMR node position).
type DataStore interface {
	Append(data []byte) error
	At(leafIndex uint64) ([]byte, error)
	NumEntries() uint64
	Truncate(numEntries uint64) error

	// Clear drops the payload stored at leafIndex without changing
	// NumEntries or shifting any other entry, used by Compact to reclaim
	// space for leaves pruned outside the cut-through horizon while
	// leaving every other leaf's index — and every MMR hash, which never
	// depends on data-file contents past append time — untouched.
	Clear(leafIndex uint64) error
}

// MemHashStore is an in-memory HashStore for any MMR that does not need
// durability; in this module only tests use it.
type MemHashStore struct {
	hashes []Hash
}

func NewMemHashStore() *MemHashStore { return &MemHashStore{} }

func (s *MemHashStore) Append(h Hash) error {
	s.hashes = append(s.hashes, h)
	return nil
}

func (s *MemHashStore) At(pos uint64) (Hash, error) {
	if pos >= uint64(len(s.hashes)) {
		return Hash{}, ErrPositionOutOfRange
	}
	return s.hashes[pos], nil
}

func (s *MemHashStore) Size() uint64 { return uint64(len(s.hashes)) }

func (s *MemHashStore) Truncate(size uint64) error {
	if size > uint64(len(s.hashes)) {
		return ErrPositionOutOfRange
	}
	s.hashes = s.hashes[:size]
	return nil
}

// MemDataStore is an in-memory DataStore.
type MemDataStore struct {
	entries [][]byte
}

func NewMemDataStore() *MemDataStore { return &MemDataStore{} }

func (s *MemDataStore) Append(data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	s.entries = append(s.entries, cp)
	return nil
}

func (s *MemDataStore) At(leafIndex uint64) ([]byte, error) {
	if leafIndex >= uint64(len(s.entries)) {
		return nil, ErrPositionOutOfRange
	}
	return s.entries[leafIndex], nil
}

func (s *MemDataStore) NumEntries() uint64 { return uint64(len(s.entries)) }

func (s *MemDataStore) Truncate(numEntries uint64) error {
	if numEntries > uint64(len(s.entries)) {
		return ErrPositionOutOfRange
	}
	s.entries = s.entries[:numEntries]
	return nil
}

func (s *MemDataStore) Clear(leafIndex uint64) error {
	if leafIndex >= uint64(len(s.entries)) {
		return ErrPositionOutOfRange
	}
	s.entries[leafIndex] = nil
	return nil
}
