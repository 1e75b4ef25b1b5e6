// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import "errors"

// ErrInvalidHeaderVersion is returned when a header's version does not match
// the version mandated for its height by the hard-fork schedule.
var ErrInvalidHeaderVersion = errors.New("consensus: header version does not match the hard-fork schedule at this height")

// HeaderVersion returns the mandated header version for a block at the given
// height on the given network. Mainnet starts at v1 and moves to the next
// version every half year (v2 at HardForkV2Height, v3 one HardForkInterval
// later, and so on); Floonet exercises the same upgrades off-cycle, at heights
// chosen to let the testnet soak each version ahead of mainnet.
func HeaderVersion(height uint64, network Network) uint16 {
	if network == Floonet {
		switch {
		case height < FloonetHardForkV2Height:
			return 1
		case height < FloonetHardForkV3Height:
			return 2
		default:
			return 3
		}
	}

	switch {
	case height < HardForkV2Height:
		return 1
	case height < HardForkV2Height+HardForkInterval:
		return 2
	case height < HardForkV2Height+2*HardForkInterval:
		return 3
	default:
		return 4 + uint16((height-HardForkV2Height-2*HardForkInterval)/HardForkInterval)
	}
}

// ValidateBlockVersion reports whether header carries the version mandated
// for its height.
func ValidateBlockVersion(header *BlockHeader, network Network) error {
	if header.Version != HeaderVersion(header.Height, network) {
		return ErrInvalidHeaderVersion
	}
	return nil
}
