// Package sink serializes discovered mappings and combinations to a
// CSV stream with per-mapping write atomicity, and offers an optional
// human-readable table preview of the first N results.
package sink

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/txflow/txflow/internal/amount"
	"github.com/txflow/txflow/internal/result"
)

// PartitionMappingHeader is the fixed two-header-row preamble for
// partition-mapping mode, per spec.md §6.
var PartitionMappingHeader = [2][]string{
	{"Mapping_ID", "Group_Count", "Total_Input_Value", "Total_Output_Value", "Total_Difference"},
	{"Mapping_ID", "Group_Number", "Input_Group", "Input_Value", "Output_Group", "Output_Value", "Difference"},
}

// SubsetPairsHeader is the single header row for subset-pairs mode.
var SubsetPairsHeader = []string{"Combination_ID", "Input_Subset", "Input_Value", "Output_Subset", "Output_Value", "Difference"}

// CSVSink writes results to an underlying io.Writer as CSV, holding an
// exclusive lock for the full duration of each mapping's write so that
// a mapping's summary and detail rows are never interleaved with
// another worker's output. IDs come from a single atomic counter,
// dense and starting at 1; their order across the file is not
// deterministic across concurrent runs (spec.md §4.7).
type CSVSink struct {
	mu      sync.Mutex
	w       *csv.Writer
	closer  io.Closer
	nextID  atomic.Uint64
	headers bool
}

// Mode selects which CSV shape a CSVSink emits.
type Mode int

const (
	// ModePartitionMapping emits the two-header-row partition/mapping format.
	ModePartitionMapping Mode = iota
	// ModeSubsetPairs emits the single-header-row subset-combination format.
	ModeSubsetPairs
)

// NewCSVSink wraps w (typically an *os.File) and writes the header
// preamble for the given mode immediately.
func NewCSVSink(w io.WriteCloser, mode Mode) (*CSVSink, error) {
	s := &CSVSink{w: csv.NewWriter(w), closer: w}

	switch mode {
	case ModePartitionMapping:
		if err := s.w.Write(PartitionMappingHeader[0]); err != nil {
			return nil, errors.Wrap(err, "sink: writing summary header")
		}
		if err := s.w.Write(PartitionMappingHeader[1]); err != nil {
			return nil, errors.Wrap(err, "sink: writing detail header")
		}
	case ModeSubsetPairs:
		if err := s.w.Write(SubsetPairsHeader); err != nil {
			return nil, errors.Wrap(err, "sink: writing header")
		}
	default:
		return nil, errors.Errorf("sink: unknown mode %d", mode)
	}
	s.w.Flush()

	return s, s.w.Error()
}

// EmitMapping assigns the next id and writes one summary row followed
// by GroupCount detail rows, all under a single lock so no interleaving
// from another goroutine can occur.
func (s *CSVSink) EmitMapping(m result.Mapping) (uint64, error) {
	id := s.nextID.Add(1)
	idStr := strconv.FormatUint(id, 10)

	s.mu.Lock()
	defer s.mu.Unlock()

	summary := []string{
		idStr,
		strconv.Itoa(m.GroupCount),
		amount.FromSatoshis(m.TotalInput).String(),
		amount.FromSatoshis(m.TotalOutput).String(),
		amount.FromSatoshis(m.TotalDifference).String(),
	}
	if err := s.w.Write(summary); err != nil {
		return id, errors.Wrap(err, "sink: writing summary row")
	}

	for _, row := range m.Rows {
		detail := []string{
			idStr,
			strconv.Itoa(row.GroupNumber),
			strings.Join(row.InputIDs, ","),
			amount.FromSatoshis(row.InputValue).String(),
			strings.Join(row.OutputIDs, ","),
			amount.FromSatoshis(row.OutputValue).String(),
			amount.FromSatoshis(row.Difference).String(),
		}
		if err := s.w.Write(detail); err != nil {
			return id, errors.Wrap(err, "sink: writing detail row")
		}
	}

	s.w.Flush()
	return id, s.w.Error()
}

// EmitCombination assigns the next id and writes one row for a
// subset-pairs mode combination.
func (s *CSVSink) EmitCombination(c result.Combination) (uint64, error) {
	id := s.nextID.Add(1)
	idStr := strconv.FormatUint(id, 10)

	s.mu.Lock()
	defer s.mu.Unlock()

	row := []string{
		idStr,
		strings.Join(c.InputIDs, ","),
		amount.FromSatoshis(c.InputValue).String(),
		strings.Join(c.OutputIDs, ","),
		amount.FromSatoshis(c.OutputValue).String(),
		amount.FromSatoshis(c.Difference).String(),
	}
	if err := s.w.Write(row); err != nil {
		return id, errors.Wrap(err, "sink: writing combination row")
	}

	s.w.Flush()
	return id, s.w.Error()
}

// Close flushes and closes the underlying writer.
func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return errors.Wrap(err, "sink: flushing on close")
	}
	return s.closer.Close()
}

// ValidCount returns the number of mappings/combinations assigned an
// id so far.
func (s *CSVSink) ValidCount() uint64 {
	return s.nextID.Load()
}
