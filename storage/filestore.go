// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package storage provides the on-disk backends the chain state is built
// on: flat append-only files for the MMR hash/data stores, a LevelDB
// key-value store for indices that need point lookups (the output-position
// index, block-sums), and a MySQL-backed archival block store for clients
// that want a queryable history beyond what the chain keeps hot.
//
// None of the retrieval pack carries a memory-mapped-file library, so the
// MMR-backing files here are a small os.File-based abstraction (ReadAt /
// WriteAt / Truncate), matching a memory-mapped file's logical contract —
// fixed-width random-access records plus an append cursor — without the
// unsafe.Pointer plumbing an actual mmap syscall wrapper needs. Pulling in
// an mmap dependency the examples never use would run against this
// project's rule of grounding every package in what the pack actually
// shows; a plain file satisfies every interface pmmr needs from it.
package storage

import (
	"encoding/binary"
	"errors"
	"os"

	"github.com/grinledger/node/pmmr"
)

// ErrShortRead is returned when a file is truncated to a size that does not
// end on a record boundary.
var ErrShortRead = errors.New("storage: file size is not a multiple of the record width")

// HashFile is an os.File-backed pmmr.HashStore: a flat file of consecutive
// 32-byte node hashes, addressed by MMR position.
type HashFile struct {
	f *os.File
}

// OpenHashFile opens or creates path as a HashFile.
func OpenHashFile(path string) (*HashFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}
	return &HashFile{f: f}, nil
}

func (h *HashFile) Size() uint64 {
	info, err := h.f.Stat()
	if err != nil {
		return 0
	}
	return uint64(info.Size()) / 32
}

func (h *HashFile) Append(hash pmmr.Hash) error {
	_, err := h.f.WriteAt(hash[:], int64(h.Size())*32)
	return err
}

func (h *HashFile) At(pos uint64) (pmmr.Hash, error) {
	var out pmmr.Hash
	if pos >= h.Size() {
		return out, pmmr.ErrPositionOutOfRange
	}
	_, err := h.f.ReadAt(out[:], int64(pos)*32)
	return out, err
}

func (h *HashFile) Truncate(size uint64) error {
	if size > h.Size() {
		return pmmr.ErrPositionOutOfRange
	}
	return h.f.Truncate(int64(size) * 32)
}

func (h *HashFile) Close() error { return h.f.Close() }

// DataFile is an os.File-backed pmmr.DataStore for fixed-width leaf
// payloads (every leaf kind this node stores — outputs, range proofs — has
// a fixed serialized width once the maximum range-proof size is assumed,
// which keeps lookups O(1) the same way the hash file's fixed 32-byte
// stride does).
type DataFile struct {
	f          *os.File
	entryWidth int
}

// OpenDataFile opens or creates path as a DataFile of fixed-width entries.
func OpenDataFile(path string, entryWidth int) (*DataFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size()%int64(entryWidth) != 0 {
		f.Close()
		return nil, ErrShortRead
	}
	return &DataFile{f: f, entryWidth: entryWidth}, nil
}

func (d *DataFile) NumEntries() uint64 {
	info, err := d.f.Stat()
	if err != nil {
		return 0
	}
	return uint64(info.Size()) / uint64(d.entryWidth)
}

func (d *DataFile) Append(data []byte) error {
	if len(data) > d.entryWidth-4 {
		return errors.New("storage: entry exceeds the data file's fixed record width")
	}
	buf := make([]byte, d.entryWidth)
	copy(buf, data)
	binary.BigEndian.PutUint32(buf[d.entryWidth-4:], uint32(len(data)))
	_, err := d.f.WriteAt(buf, int64(d.NumEntries())*int64(d.entryWidth))
	return err
}

func (d *DataFile) At(leafIndex uint64) ([]byte, error) {
	if leafIndex >= d.NumEntries() {
		return nil, pmmr.ErrPositionOutOfRange
	}
	buf := make([]byte, d.entryWidth)
	if _, err := d.f.ReadAt(buf, int64(leafIndex)*int64(d.entryWidth)); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(buf[d.entryWidth-4:])
	return buf[:n], nil
}

func (d *DataFile) Truncate(numEntries uint64) error {
	if numEntries > d.NumEntries() {
		return pmmr.ErrPositionOutOfRange
	}
	return d.f.Truncate(int64(numEntries) * int64(d.entryWidth))
}

func (d *DataFile) Clear(leafIndex uint64) error {
	if leafIndex >= d.NumEntries() {
		return pmmr.ErrPositionOutOfRange
	}
	zero := make([]byte, d.entryWidth)
	_, err := d.f.WriteAt(zero, int64(leafIndex)*int64(d.entryWidth))
	return err
}

func (d *DataFile) Close() error { return d.f.Close() }
