// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package txpool

import "time"

// DandelionConfig tunes the stem/fluff timers and the per-hop decision to
// keep relaying in the stem phase versus promoting to fluff.
type DandelionConfig struct {
	// RelaySeconds: pick a new Dandelion stem relay peer every n seconds.
	RelaySeconds uint16

	// EmbargoSeconds: fluff and broadcast a stemmed tx if it hasn't been
	// seen fluffed on the network before the embargo expires.
	EmbargoSeconds uint16

	// PatienceSeconds: how often the stem/fluff pass runs. Stem txs
	// received within one patience window are aggregated together before
	// being relayed onward.
	PatienceSeconds uint8

	// StemProbability is the percent chance (0-100) that a tx is kept in
	// the stem phase at each hop rather than promoted to fluff.
	StemProbability uint8
}

// DefaultDandelionConfig matches the reference network's tuning: relay
// peers rotate every 10 minutes, an embargo of 180 seconds forces a
// stemmed tx to fluff if it stalls, the patience timer runs every 10
// seconds, and a tx stays in the stem phase 90% of the time.
func DefaultDandelionConfig() DandelionConfig {
	return DandelionConfig{
		RelaySeconds:    600,
		EmbargoSeconds:  180,
		PatienceSeconds: 10,
		StemProbability: 90,
	}
}

func (c DandelionConfig) patience() time.Duration {
	return time.Duration(c.PatienceSeconds) * time.Second
}

func (c DandelionConfig) embargo() time.Duration {
	return time.Duration(c.EmbargoSeconds) * time.Second
}

func (c DandelionConfig) relayInterval() time.Duration {
	return time.Duration(c.RelaySeconds) * time.Second
}
