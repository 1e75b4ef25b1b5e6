// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import "time"

// Difficulty is an additive measure of accumulated proof-of-work: the number
// of primary-graph Cuckoo solutions an attacker would need, on average, to
// reproduce the work behind a given total.
type Difficulty uint64

// HeaderInfo is the subset of a BlockHeader the difficulty-adjustment window
// needs: its timestamp and difficulty, plus whether its proof used the
// secondary (more easily solved) Cuckoo graph.
type HeaderInfo struct {
	Timestamp      time.Time
	Difficulty     Difficulty
	SecondaryScale uint32
	IsSecondary    bool
}

// SecondaryPOWRatio returns the percentage (0-100) of blocks that are allowed
// to carry a secondary proof of work at the given height, linearly decaying
// from 100 at genesis to 0 once two years of blocks have elapsed. This is
// the AltInstance transition schedule: secondary PoW exists only to bootstrap
// the network before enough primary-graph miners come online.
func SecondaryPOWRatio(height uint64) uint32 {
	decayBlocks := uint64(2 * 365 * 24 * 3600 / BlockTimeSec)
	if height >= decayBlocks {
		return 0
	}
	return uint32(100 - (100*height)/decayBlocks)
}

// NextDifficulty computes the difficulty and secondary scaling factor for
// the block following the given window of the most recent
// DifficultyAdjustWindow headers (oldest first), using a damped
// Digishield-style average: the window's total work is scaled by the ratio
// of its target duration to its observed (clamped) duration.
func NextDifficulty(height uint64, window []HeaderInfo) (Difficulty, uint32) {
	if len(window) == 0 {
		return Difficulty(1), 1
	}

	var totalDifficulty uint64
	for _, h := range window {
		totalDifficulty += uint64(h.Difficulty)
	}

	first := window[0].Timestamp
	last := window[len(window)-1].Timestamp
	duration := int64(last.Sub(first) / time.Second)

	targetDuration := int64(BlockTimeSec) * int64(len(window))

	if lower := int64(LowerTimeBound); duration < lower {
		duration = lower
	}
	if upper := int64(UpperTimeBound); duration > upper {
		duration = upper
	}
	if duration == 0 {
		duration = 1
	}

	nextDifficulty := totalDifficulty * uint64(targetDuration) / uint64(duration)
	if nextDifficulty < 1 {
		nextDifficulty = 1
	}

	scaling := nextSecondaryScaling(height, window)

	return Difficulty(nextDifficulty), scaling
}

// nextSecondaryScaling adjusts the secondary proof-of-work's scaling factor
// so that, combined with SecondaryPOWRatio, secondary-graph blocks stay
// roughly as hard to find as primary-graph ones.
func nextSecondaryScaling(height uint64, window []HeaderInfo) uint32 {
	ratio := SecondaryPOWRatio(height)
	if ratio == 0 {
		return 0
	}

	var sum uint64
	var count uint64
	for _, h := range window {
		if h.IsSecondary {
			sum += uint64(h.SecondaryScale)
			count++
		}
	}
	if count == 0 {
		return 1
	}
	avg := sum / count
	if avg < 1 {
		avg = 1
	}
	return uint32(avg)
}
