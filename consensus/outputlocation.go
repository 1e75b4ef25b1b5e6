// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

// OutputLocation pins an output commitment to its position in the output
// MMR and the height at which it was inserted, so a spend can be checked
// against coinbase maturity and the output's range-proof leaf can be
// recovered without a linear scan.
type OutputLocation struct {
	MMRLeafIndex uint64
	Height       uint64
}

// MatureAt returns the height at which an output at this location becomes
// spendable, accounting for coinbase maturity when isCoinbase is set.
func (l OutputLocation) MatureAt(isCoinbase bool) uint64 {
	if !isCoinbase {
		return l.Height
	}
	return l.Height + CoinbaseMaturity
}
