// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package storage

import (
	"database/sql"
	"sync"

	"github.com/grinledger/node/consensus"
	_ "github.com/go-sql-driver/mysql"
)

// ArchiveStore is a secondary, queryable archival record of confirmed
// headers, kept in MySQL so operators can run ad-hoc SQL over chain history
// (explorers, analytics) without touching the hot chain-index path the
// validator itself reads and writes. It is a convenience mirror, not a
// consensus-critical store: the chainindex package's flat-file BlockIndex
// remains the sole source of truth for ProcessBlock/ProcessHeaders.
type ArchiveStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// NewArchiveStore wraps an already-opened database handle.
func NewArchiveStore(db *sql.DB) *ArchiveStore {
	return &ArchiveStore{db: db}
}

// EnsureSchema creates the headers table if it does not already exist.
func (s *ArchiveStore) EnsureSchema() error {
	const stmt = `
CREATE TABLE IF NOT EXISTS headers (
	height BIGINT UNSIGNED NOT NULL,
	hash BINARY(32) NOT NULL,
	previous_hash BINARY(32) NOT NULL,
	timestamp BIGINT NOT NULL,
	total_difficulty BIGINT UNSIGNED NOT NULL,
	PRIMARY KEY (hash),
	INDEX idx_height (height)
)`
	_, err := s.db.Exec(stmt)
	return err
}

// PutHeader archives a confirmed header.
func (s *ArchiveStore) PutHeader(header *consensus.BlockHeader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	const stmt = `
INSERT INTO headers (height, hash, previous_hash, timestamp, total_difficulty)
VALUES (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE height = VALUES(height)`

	_, err := s.db.Exec(stmt,
		header.Height,
		[]byte(header.Hash()),
		[]byte(header.Previous),
		header.Timestamp.Unix(),
		uint64(header.TotalDifficulty),
	)
	return err
}

// HeaderHashAtHeight returns the archived header hash at height, or nil if
// none is recorded.
func (s *ArchiveStore) HeaderHashAtHeight(height uint64) (consensus.Hash, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT hash FROM headers WHERE height = ? LIMIT 1`, height)

	var hash []byte
	if err := row.Scan(&hash); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return consensus.Hash(hash), nil
}

// DeleteFrom removes every archived header at or above height, used when a
// reorg invalidates a previously-confirmed range.
func (s *ArchiveStore) DeleteFrom(height uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM headers WHERE height >= ?`, height)
	return err
}

func (s *ArchiveStore) Close() error {
	return s.db.Close()
}
