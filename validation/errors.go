// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package validation applies the consensus rules that `consensus` and
// `txhashset` only encode the shape of: transaction/body structural
// invariants, range-proof and kernel-signature checks, the header/block
// rules (PoW, timestamp, version, coinbase) a block must satisfy before
// txhashset.ApplyBlock is ever called against it, and the kernel-sum
// identity check that ValidateTransaction and txhashset.ApplyBlock run.
package validation

import "fmt"

// ErrorKind classifies why a transaction, body, or block was rejected, so a
// caller (txpool admission, block processing, peer banning) can react
// differently to a malformed message than to one that is merely orphaned or
// premature.
type ErrorKind int

const (
	// KindParse marks a structurally malformed wire message.
	KindParse ErrorKind = iota
	// KindBadSort marks an unsorted or duplicate input/output/kernel list.
	KindBadSort
	// KindBadCutThrough marks an input commitment matching an output
	// commitment within the same body.
	KindBadCutThrough
	// KindWeightExceeded marks a body whose weight exceeds the maximum.
	KindWeightExceeded
	// KindBadFeature marks a disallowed feature combination (e.g. a
	// coinbase-featured input/output/kernel outside a block body).
	KindBadFeature
	// KindBadRangeProof marks a range proof that fails to verify.
	KindBadRangeProof
	// KindBadKernelSig marks a kernel excess signature that fails to verify.
	KindBadKernelSig
	// KindKernelSumMismatch marks a failure of the output/kernel commitment
	// sum identity.
	KindKernelSumMismatch
	// KindDoubleSpend marks an input whose output is already spent.
	KindDoubleSpend
	// KindUnknownOutput marks an input with no corresponding output.
	KindUnknownOutput
	// KindOrphan marks a block or header whose parent is not yet known.
	KindOrphan
	// KindBadPOW marks a header whose proof of work fails to verify.
	KindBadPOW
	// KindBadHeaderVersion marks a header version that does not match the
	// hard-fork schedule for its height.
	KindBadHeaderVersion
	// KindInvalidRoots marks MMR roots or sizes that do not match a header.
	KindInvalidRoots
	// KindFutureTimestamp marks a header timestamp outside the accepted
	// bounds: too far ahead of local time, or not after the median of the
	// preceding window.
	KindFutureTimestamp
	// KindIO marks an underlying storage failure, not a consensus defect.
	KindIO
)

func (k ErrorKind) String() string {
	switch k {
	case KindParse:
		return "PARSE"
	case KindBadSort:
		return "BAD_SORT"
	case KindBadCutThrough:
		return "BAD_CUT_THROUGH"
	case KindWeightExceeded:
		return "WEIGHT_EXCEEDED"
	case KindBadFeature:
		return "BAD_FEATURE"
	case KindBadRangeProof:
		return "BAD_RANGE_PROOF"
	case KindBadKernelSig:
		return "BAD_KERNEL_SIG"
	case KindKernelSumMismatch:
		return "KERNEL_SUM_MISMATCH"
	case KindDoubleSpend:
		return "DOUBLE_SPEND"
	case KindUnknownOutput:
		return "UNKNOWN_OUTPUT"
	case KindOrphan:
		return "ORPHAN"
	case KindBadPOW:
		return "BAD_POW"
	case KindBadHeaderVersion:
		return "BAD_HEADER_VERSION"
	case KindInvalidRoots:
		return "INVALID_ROOTS"
	case KindFutureTimestamp:
		return "FUTURE_TIMESTAMP"
	case KindIO:
		return "IO"
	default:
		return "UNKNOWN"
	}
}

// Error wraps an underlying error with the ErrorKind a caller should act on.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newErr(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
