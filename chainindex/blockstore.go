// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package chainindex

import (
	"bytes"

	"github.com/grinledger/node/consensus"
	"github.com/grinledger/node/storage"
)

// BlockStore persists full blocks and bare headers by hash, the
// content-addressed complement to BlockIndex's height-addressed hash
// arrays. Headers are stored separately from bodies so a header that
// arrives during headers-first sync can be looked up and validated long
// before its body does.
type BlockStore struct {
	blocks  *storage.KVStore
	headers *storage.KVStore
}

// OpenBlockStore opens or creates the block and header key-value stores.
func OpenBlockStore(blocksPath, headersPath string) (*BlockStore, error) {
	blocks, err := storage.OpenKVStore(blocksPath)
	if err != nil {
		return nil, err
	}
	headers, err := storage.OpenKVStore(headersPath)
	if err != nil {
		return nil, err
	}
	return &BlockStore{blocks: blocks, headers: headers}, nil
}

// PutBlock persists a full block and its header.
func (s *BlockStore) PutBlock(block *consensus.Block) error {
	if err := s.PutHeader(&block.Header); err != nil {
		return err
	}
	return s.blocks.Put([]byte(block.Hash()), block.Bytes())
}

// GetBlock returns the full block for hash, or nil if not stored.
func (s *BlockStore) GetBlock(hash consensus.Hash) (*consensus.Block, error) {
	raw, err := s.blocks.Get([]byte(hash))
	if err != nil || raw == nil {
		return nil, err
	}
	block := new(consensus.Block)
	if err := block.Read(bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return block, nil
}

// PutHeader persists header, independent of whether its body is known.
func (s *BlockStore) PutHeader(header *consensus.BlockHeader) error {
	return s.headers.Put([]byte(header.Hash()), header.Bytes())
}

// GetHeader returns the header for hash, or nil if not known.
func (s *BlockStore) GetHeader(hash consensus.Hash) (*consensus.BlockHeader, error) {
	if len(hash) == 0 {
		return nil, nil
	}
	raw, err := s.headers.Get([]byte(hash))
	if err != nil || raw == nil {
		return nil, err
	}
	header := new(consensus.BlockHeader)
	if err := header.Read(bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return header, nil
}

func (s *BlockStore) Close() error {
	if err := s.blocks.Close(); err != nil {
		return err
	}
	return s.headers.Close()
}
