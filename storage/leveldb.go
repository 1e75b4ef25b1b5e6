// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
)

// KVStore is a thin LevelDB wrapper used for every point-lookup index the
// chain state needs that isn't naturally an MMR: the output-position index
// (commitment -> leaf index/height) and the per-header block-sums store.
// goleveldb is EXCCoin-exccd's key-value backend of choice in the pack;
// it is reused here rather than introducing another store for the same
// concern.
type KVStore struct {
	db *leveldb.DB
}

// OpenKVStore opens or creates a LevelDB database at path.
func OpenKVStore(path string) (*KVStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &KVStore{db: db}, nil
}

func (s *KVStore) Get(key []byte) ([]byte, error) {
	val, err := s.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	return val, err
}

func (s *KVStore) Put(key, value []byte) error {
	return s.db.Put(key, value, nil)
}

func (s *KVStore) Delete(key []byte) error {
	return s.db.Delete(key, nil)
}

func (s *KVStore) Has(key []byte) (bool, error) {
	return s.db.Has(key, nil)
}

// Batch groups a set of writes to be committed atomically, used by the
// output-position index so a block's inserts and removals never become
// visible as a partial write.
type Batch struct {
	store *KVStore
	batch *leveldb.Batch
}

// NewBatch starts a new atomic write batch against this store.
func (s *KVStore) NewBatch() *Batch {
	return &Batch{store: s, batch: new(leveldb.Batch)}
}

func (b *Batch) Put(key, value []byte) { b.batch.Put(key, value) }
func (b *Batch) Delete(key []byte)     { b.batch.Delete(key) }

// Commit writes the batch atomically.
func (b *Batch) Commit() error {
	return b.store.db.Write(b.batch, nil)
}

func (s *KVStore) Close() error { return s.db.Close() }
