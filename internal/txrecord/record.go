// Package txrecord holds the transaction data model: the immutable
// record of a single transaction's inputs and outputs, and the
// id<->index mapper used to give the partition engine a compact
// representation to work with.
package txrecord

import (
	"github.com/pkg/errors"

	"github.com/txflow/txflow/internal/txflowerr"
)

// ErrDuplicateID is returned when the same id is added twice to one side.
// It wraps txflowerr.ErrMalformedInput so callers can match on either the
// specific cause or the general failure class.
var ErrDuplicateID = errors.Wrap(txflowerr.ErrMalformedInput, "txrecord: duplicate id")

// ErrEmptyID is returned when an id is the empty string.
var ErrEmptyID = errors.Wrap(txflowerr.ErrMalformedInput, "txrecord: empty id")

// ErrNonPositiveAmount is returned when an amount is not strictly positive.
var ErrNonPositiveAmount = errors.Wrap(txflowerr.ErrMalformedInput, "txrecord: amount must be positive")

// Record is an immutable (Inputs, Outputs) pair. Build one with Builder.
type Record struct {
	inputs     map[string]int64
	outputs    map[string]int64
	inputIDs   []string
	outputIDs  []string
	totalIn    int64
	totalOut   int64
}

// Builder constructs a Record through append-only calls, matching the
// teacher's construction idiom of accumulating state before acting on it.
type Builder struct {
	rec *Record
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{rec: &Record{
		inputs:  make(map[string]int64),
		outputs: make(map[string]int64),
	}}
}

// AddInput appends an input id/amount pair. amountSat is in satoshis.
func (b *Builder) AddInput(id string, amountSat int64) error {
	if id == "" {
		return ErrEmptyID
	}
	if amountSat <= 0 {
		return errors.Wrapf(ErrNonPositiveAmount, "input %q: %d", id, amountSat)
	}
	if _, exists := b.rec.inputs[id]; exists {
		return errors.Wrapf(ErrDuplicateID, "input %q", id)
	}
	b.rec.inputs[id] = amountSat
	b.rec.inputIDs = append(b.rec.inputIDs, id)
	b.rec.totalIn += amountSat
	return nil
}

// AddOutput appends an output id/amount pair. amountSat is in satoshis.
func (b *Builder) AddOutput(id string, amountSat int64) error {
	if id == "" {
		return ErrEmptyID
	}
	if amountSat <= 0 {
		return errors.Wrapf(ErrNonPositiveAmount, "output %q: %d", id, amountSat)
	}
	if _, exists := b.rec.outputs[id]; exists {
		return errors.Wrapf(ErrDuplicateID, "output %q", id)
	}
	b.rec.outputs[id] = amountSat
	b.rec.outputIDs = append(b.rec.outputIDs, id)
	b.rec.totalOut += amountSat
	return nil
}

// Build finalizes the Record. The Builder must not be reused afterwards.
func (b *Builder) Build() *Record {
	return b.rec
}

// InputIDs returns the canonical insertion-ordered input id list.
func (r *Record) InputIDs() []string {
	out := make([]string, len(r.inputIDs))
	copy(out, r.inputIDs)
	return out
}

// OutputIDs returns the canonical insertion-ordered output id list.
func (r *Record) OutputIDs() []string {
	out := make([]string, len(r.outputIDs))
	copy(out, r.outputIDs)
	return out
}

// InputValue returns the amount for an input id, or 0 if unknown.
func (r *Record) InputValue(id string) int64 {
	return r.inputs[id]
}

// OutputValue returns the amount for an output id, or 0 if unknown.
func (r *Record) OutputValue(id string) int64 {
	return r.outputs[id]
}

// SumInputIDs sums the amounts of the given input ids.
func (r *Record) SumInputIDs(ids []string) int64 {
	var total int64
	for _, id := range ids {
		total += r.inputs[id]
	}
	return total
}

// SumOutputIDs sums the amounts of the given output ids.
func (r *Record) SumOutputIDs(ids []string) int64 {
	var total int64
	for _, id := range ids {
		total += r.outputs[id]
	}
	return total
}

// TotalIn is the sum of all input amounts.
func (r *Record) TotalIn() int64 { return r.totalIn }

// TotalOut is the sum of all output amounts.
func (r *Record) TotalOut() int64 { return r.totalOut }

// Fee is TotalIn - TotalOut. It may be negative.
func (r *Record) Fee() int64 { return r.totalIn - r.totalOut }

// Valid reports whether TotalIn >= TotalOut. The engine analyzes
// invalid transactions too; this is informational only.
func (r *Record) Valid() bool { return r.totalIn >= r.totalOut }
