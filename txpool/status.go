// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package txpool holds candidate transactions between the moment they are
// received and the moment they land in a confirmed block, aggregating them
// for block assembly and relaying them over Dandelion++ to blur their
// originating peer.
package txpool

// Status is the Dandelion++ state of a pooled transaction.
type Status int

const (
	// ToStem is queued for the next stem-phase relay.
	ToStem Status = iota
	// Stemmed was relayed to a single stem successor and is waiting out
	// its embargo before it may be force-fluffed.
	Stemmed
	// ToFluff is queued for the next fluff-phase aggregation and broadcast.
	ToFluff
	// Fluffed has been aggregated and broadcast to the whole network.
	Fluffed
)

func (s Status) String() string {
	switch s {
	case ToStem:
		return "to_stem"
	case Stemmed:
		return "stemmed"
	case ToFluff:
		return "to_fluff"
	case Fluffed:
		return "fluffed"
	default:
		return "unknown"
	}
}
