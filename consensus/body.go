// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"sort"
)

// Errors returned by TransactionBody structural checks (I1-I5).
var (
	ErrInputsNotSorted    = errors.New("consensus: inputs are not sorted or contain duplicates")
	ErrOutputsNotSorted   = errors.New("consensus: outputs are not sorted or contain duplicates")
	ErrKernelsNotSorted   = errors.New("consensus: kernels are not sorted or contain duplicates")
	ErrCutThroughViolated = errors.New("consensus: an input commitment matches an output commitment in the same body")
	ErrWeightExceeded     = errors.New("consensus: body weight exceeds the maximum allowed")
)

// TransactionBody is the ordered (inputs, outputs, kernels) payload shared
// by both standalone transactions and blocks.
type TransactionBody struct {
	Inputs  InputList
	Outputs OutputList
	Kernels TxKernelList
}

// Bytes implements deterministic serialization. The consensus rule is that
// every sequence is sorted before being written to the wire; callers that
// already hold a normalized body pay only the cost of the sort check.
func (b *TransactionBody) Bytes() []byte {
	sort.Sort(b.Inputs)
	sort.Sort(b.Outputs)
	sort.Sort(b.Kernels)

	buf := new(bytes.Buffer)
	binary.Write(buf, binary.BigEndian, uint64(len(b.Inputs)))
	binary.Write(buf, binary.BigEndian, uint64(len(b.Outputs)))
	binary.Write(buf, binary.BigEndian, uint64(len(b.Kernels)))

	for i := range b.Inputs {
		buf.Write(b.Inputs[i].Bytes())
	}
	for i := range b.Outputs {
		buf.Write(b.Outputs[i].Bytes())
	}
	for i := range b.Kernels {
		buf.Write(b.Kernels[i].Bytes())
	}

	return buf.Bytes()
}

// Read implements deterministic deserialization.
func (b *TransactionBody) Read(r io.Reader) error {
	var inputs, outputs, kernels uint64
	if err := binary.Read(r, binary.BigEndian, &inputs); err != nil {
		return err
	}
	if err := binary.Read(r, binary.BigEndian, &outputs); err != nil {
		return err
	}
	if err := binary.Read(r, binary.BigEndian, &kernels); err != nil {
		return err
	}

	const maxEntries = 1000000
	if inputs > maxEntries || outputs > maxEntries || kernels > maxEntries {
		return errors.New("parse error: transaction body contains too many entries")
	}

	b.Inputs = make(InputList, inputs)
	for i := range b.Inputs {
		if err := b.Inputs[i].Read(r); err != nil {
			return err
		}
	}

	b.Outputs = make(OutputList, outputs)
	for i := range b.Outputs {
		if err := b.Outputs[i].Read(r); err != nil {
			return err
		}
	}

	b.Kernels = make(TxKernelList, kernels)
	for i := range b.Kernels {
		if err := b.Kernels[i].Read(r); err != nil {
			return err
		}
	}

	return nil
}

// Weight implements I4: weight = max(1, -1*|inputs| + 4*|outputs| + 1*|kernels|).
func (b *TransactionBody) Weight() int64 {
	w := BlockInputWeight*int64(len(b.Inputs)) +
		BlockOutputWeight*int64(len(b.Outputs)) +
		BlockKernelWeight*int64(len(b.Kernels))
	if w < 1 {
		return 1
	}
	return w
}

// VerifySorted implements I1-I3: every sequence sorted ascending by hash and
// free of duplicates.
func (b *TransactionBody) VerifySorted() error {
	if !sort.IsSorted(b.Inputs) || hasDuplicateInputs(b.Inputs) {
		return ErrInputsNotSorted
	}
	if !sort.IsSorted(b.Outputs) || hasDuplicateOutputs(b.Outputs) {
		return ErrOutputsNotSorted
	}
	if !sort.IsSorted(b.Kernels) || hasDuplicateKernels(b.Kernels) {
		return ErrKernelsNotSorted
	}
	return nil
}

func hasDuplicateInputs(in InputList) bool {
	for i := 1; i < len(in); i++ {
		if bytes.Equal(in[i-1].Hash(), in[i].Hash()) {
			return true
		}
	}
	return false
}

func hasDuplicateOutputs(out OutputList) bool {
	for i := 1; i < len(out); i++ {
		if bytes.Equal(out[i-1].IdentityHash(), out[i].IdentityHash()) {
			return true
		}
	}
	return false
}

func hasDuplicateKernels(k TxKernelList) bool {
	for i := 1; i < len(k); i++ {
		if bytes.Equal(k[i-1].Hash(), k[i].Hash()) {
			return true
		}
	}
	return false
}

// VerifyCutThrough implements I5: no input commitment may equal any output
// commitment within the same body.
func (b *TransactionBody) VerifyCutThrough() error {
	seen := make(map[string]struct{}, len(b.Inputs))
	for _, in := range b.Inputs {
		seen[string(in.Commit)] = struct{}{}
	}
	for _, out := range b.Outputs {
		if _, ok := seen[string(out.CommitBytes())]; ok {
			return ErrCutThroughViolated
		}
	}
	return nil
}

// CutThrough removes any (input, output) pair sharing the same commitment,
// re-sorting the remaining entries. It is idempotent (P6): applying it to an
// already cut-through body is a no-op beyond the sort.
func (b *TransactionBody) CutThrough() {
	outByCommit := make(map[string]int, len(b.Outputs))
	for i, out := range b.Outputs {
		outByCommit[string(out.CommitBytes())] = i
	}

	dropInputs := make(map[int]struct{})
	dropOutputs := make(map[int]struct{})

	for i, in := range b.Inputs {
		if j, ok := outByCommit[string(in.Commit)]; ok {
			dropInputs[i] = struct{}{}
			dropOutputs[j] = struct{}{}
		}
	}

	if len(dropInputs) == 0 {
		sort.Sort(b.Inputs)
		sort.Sort(b.Outputs)
		sort.Sort(b.Kernels)
		return
	}

	newInputs := make(InputList, 0, len(b.Inputs)-len(dropInputs))
	for i, in := range b.Inputs {
		if _, dropped := dropInputs[i]; !dropped {
			newInputs = append(newInputs, in)
		}
	}

	newOutputs := make(OutputList, 0, len(b.Outputs)-len(dropOutputs))
	for i, out := range b.Outputs {
		if _, dropped := dropOutputs[i]; !dropped {
			newOutputs = append(newOutputs, out)
		}
	}

	b.Inputs = newInputs
	b.Outputs = newOutputs

	sort.Sort(b.Inputs)
	sort.Sort(b.Outputs)
	sort.Sort(b.Kernels)
}

// CoinbaseCounts returns the number of coinbase outputs and coinbase kernels
// present in the body.
func (b *TransactionBody) CoinbaseCounts() (outputs, kernels int) {
	for i := range b.Outputs {
		if b.Outputs[i].IsCoinbase() {
			outputs++
		}
	}
	for i := range b.Kernels {
		if b.Kernels[i].IsCoinbase() {
			kernels++
		}
	}
	return
}
