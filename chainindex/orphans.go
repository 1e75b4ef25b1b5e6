// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package chainindex

import (
	"sync"

	"github.com/grinledger/node/consensus"
)

// orphanHeaderPool holds headers whose parent has not yet been seen, keyed
// by hash, with a side index from parent hash to the children waiting on
// it. A header that arrives ahead of its parent (out-of-order delivery, or
// a peer announcing a fork tip before the intervening headers) is parked
// here instead of rejected outright, and replayed once its parent is
// accepted.
type orphanHeaderPool struct {
	mu       sync.Mutex
	byHash   map[string]*consensus.BlockHeader
	byParent map[string][]string
}

func newOrphanHeaderPool() *orphanHeaderPool {
	return &orphanHeaderPool{
		byHash:   make(map[string]*consensus.BlockHeader),
		byParent: make(map[string][]string),
	}
}

func (p *orphanHeaderPool) add(header *consensus.BlockHeader) {
	p.mu.Lock()
	defer p.mu.Unlock()

	hash := header.Hash().String()
	if _, exists := p.byHash[hash]; exists {
		return
	}
	p.byHash[hash] = header
	parent := header.Previous.String()
	p.byParent[parent] = append(p.byParent[parent], hash)
}

// take removes and returns every orphan directly parented by hash.
func (p *orphanHeaderPool) take(hash consensus.Hash) []*consensus.BlockHeader {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := hash.String()
	children := p.byParent[key]
	if len(children) == 0 {
		return nil
	}
	delete(p.byParent, key)

	out := make([]*consensus.BlockHeader, 0, len(children))
	for _, h := range children {
		if header, ok := p.byHash[h]; ok {
			out = append(out, header)
			delete(p.byHash, h)
		}
	}
	return out
}

func (p *orphanHeaderPool) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.byHash)
}
