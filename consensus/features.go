// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

// OutputFeatures are options for an output's structure or use.
type OutputFeatures uint8

const (
	// PlainOutput carries no special consensus treatment.
	PlainOutput OutputFeatures = 0
	// CoinbaseOutput must not be spent until CoinbaseMaturity blocks pass.
	CoinbaseOutput OutputFeatures = 1 << 0
)

func (f OutputFeatures) String() string {
	switch f {
	case CoinbaseOutput:
		return "Coinbase"
	default:
		return "Plain"
	}
}

// KernelFeatures are options for a kernel's structure or use.
type KernelFeatures uint8

const (
	// PlainKernel carries no special consensus treatment.
	PlainKernel KernelFeatures = 0
	// CoinbaseKernel matches a coinbase output.
	CoinbaseKernel KernelFeatures = 1 << 0
	// HeightLockedKernel is not valid until the chain reaches LockHeight.
	HeightLockedKernel KernelFeatures = 1 << 1
	// NoRecentDuplicateKernel may not share its excess commitment with any
	// other kernel within a recent window (replay protection for
	// zero-value transactions); not modeled further than the feature bit
	// and its signature-message tag: no component of this module checks the
	// recent-duplicate window.
	NoRecentDuplicateKernel KernelFeatures = 1 << 2
)

func (f KernelFeatures) String() string {
	switch f {
	case CoinbaseKernel:
		return "Coinbase"
	case HeightLockedKernel:
		return "HeightLocked"
	case NoRecentDuplicateKernel:
		return "NoRecentDuplicate"
	default:
		return "Plain"
	}
}

// SignatureTag maps a kernel's features to the domain-separation tag used
// when computing its signature message.
func (f KernelFeatures) SignatureTag() uint8 {
	switch f {
	case CoinbaseKernel:
		return 1
	case HeightLockedKernel:
		return 2
	case NoRecentDuplicateKernel:
		return 3
	default:
		return 0
	}
}
