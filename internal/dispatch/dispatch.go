// Package dispatch owns the outer partition-mapping search loop: it
// slices each chunk of candidate (input-partition, output-partition)
// pairs across a bounded worker pool, coordinates the pruner and
// mapping checker, and feeds results to a single result sink while
// keeping shared progress counters up to date.
package dispatch

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/txflow/txflow/internal/mapping"
	"github.com/txflow/txflow/internal/partition"
	"github.com/txflow/txflow/internal/pruner"
	"github.com/txflow/txflow/internal/result"
)

// DefaultChunkSize is the tunable (not contractual) batch size used
// when the caller does not specify one.
const DefaultChunkSize = 500

// maxWorkers caps concurrency the way the teacher's broadcaster bounds
// its goroutine pool via a buffered semaphore channel.
const maxWorkers = 16

// Counters are the shared, monotonically increasing statistics that
// the progress reporter reads without ever blocking a worker.
type Counters struct {
	PairsProcessed atomic.Uint64
	Pruned         atomic.Uint64
	Valid          atomic.Uint64
	OuterTotal     atomic.Uint64
	OuterProgress  atomic.Uint64
}

// Dispatcher runs the outer loop described in spec.md §4.6.
type Dispatcher struct {
	ChunkSize int
	Workers   int
}

// New returns a Dispatcher with defaults matching spec.md: chunk size
// 500, worker count min(NumCPU, 16) falling back to 4 when the CPU
// count cannot be determined usefully.
func New() *Dispatcher {
	w := runtime.NumCPU()
	if w <= 0 {
		w = 4
	}
	if w > maxWorkers {
		w = maxWorkers
	}
	return &Dispatcher{ChunkSize: DefaultChunkSize, Workers: w}
}

// Run enumerates every partition pair of inputAmounts against
// outputAmounts (both indexed by the ElementMapper index space used to
// build them), pruning and checking each pair, and emitting every
// valid mapping to sink. Cancellation is honored only at chunk
// boundaries, per spec.md §5: an in-flight pair's permutation
// enumeration always runs to completion.
func (d *Dispatcher) Run(
	ctx context.Context,
	inputAmounts []int64,
	outputAmounts []int64,
	resolveInput func(partition.IndexSet) []string,
	resolveOutput func(partition.IndexSet) []string,
	sink result.Sink,
	counters *Counters,
) error {
	if len(inputAmounts) == 0 || len(outputAmounts) == 0 {
		return nil
	}

	chunkSize := d.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	workers := d.Workers
	if workers <= 0 {
		workers = 4
	}

	inputGen, err := partition.New(len(inputAmounts))
	if err != nil {
		return errors.Wrap(err, "dispatch: building input generator")
	}
	counters.OuterTotal.Store(inputGen.Total())

	for inputGen.HasMore() {
		if err := ctx.Err(); err != nil {
			return err
		}

		inputChunk := inputGen.NextChunk(chunkSize)

		outputGen, err := partition.New(len(outputAmounts))
		if err != nil {
			return errors.Wrap(err, "dispatch: building output generator")
		}

		for outputGen.HasMore() {
			if err := ctx.Err(); err != nil {
				return err
			}

			outputChunk := outputGen.NextChunk(chunkSize)

			pairs := buildPairs(inputChunk, outputChunk)
			if len(pairs) == 0 {
				continue
			}

			g, _ := errgroup.WithContext(ctx)
			g.SetLimit(workers)

			for _, pr := range pairs {
				pr := pr
				g.Go(func() error {
					return processPair(pr, inputAmounts, outputAmounts, resolveInput, resolveOutput, sink, counters)
				})
			}

			if err := g.Wait(); err != nil {
				return err
			}
		}

		counters.OuterProgress.Add(uint64(len(inputChunk)))
	}

	return nil
}

type pair struct {
	input  partition.IndexPartition
	output partition.IndexPartition
}

func buildPairs(inputChunk, outputChunk []partition.IndexPartition) []pair {
	var pairs []pair
	for _, ip := range inputChunk {
		for _, op := range outputChunk {
			if len(ip) != len(op) {
				continue
			}
			pairs = append(pairs, pair{input: ip, output: op})
		}
	}
	return pairs
}

func processPair(
	pr pair,
	inputAmounts, outputAmounts []int64,
	resolveInput, resolveOutput func(partition.IndexSet) []string,
	sink result.Sink,
	counters *Counters,
) error {
	defer counters.PairsProcessed.Add(1)

	inputSums := blockSums(pr.input, inputAmounts)
	outputSums := blockSums(pr.output, outputAmounts)

	if !pruner.CanAdmit(inputSums, outputSums) {
		counters.Pruned.Add(1)
		return nil
	}

	sigmas := mapping.AllValid(inputSums, outputSums)
	for _, sigma := range sigmas {
		m := buildMapping(pr, sigma, inputSums, outputSums, resolveInput, resolveOutput)
		if _, err := sink.EmitMapping(m); err != nil {
			return errors.Wrap(err, "dispatch: emitting mapping")
		}
		counters.Valid.Add(1)
	}

	return nil
}

func blockSums(p partition.IndexPartition, amounts []int64) []int64 {
	sums := make([]int64, len(p))
	for i, block := range p {
		var total int64
		for _, idx := range block {
			total += amounts[idx]
		}
		sums[i] = total
	}
	return sums
}

func buildMapping(
	pr pair,
	sigma []int,
	inputSums, outputSums []int64,
	resolveInput, resolveOutput func(partition.IndexSet) []string,
) result.Mapping {
	k := len(pr.input)
	rows := make([]result.Row, k)

	var totalIn, totalOut int64
	for i := 0; i < k; i++ {
		j := sigma[i]
		rows[i] = result.Row{
			GroupNumber: i,
			InputIDs:    resolveInput(pr.input[i]),
			InputValue:  inputSums[i],
			OutputIDs:   resolveOutput(pr.output[j]),
			OutputValue: outputSums[j],
			Difference:  inputSums[i] - outputSums[j],
		}
		totalIn += inputSums[i]
		totalOut += outputSums[j]
	}

	return result.Mapping{
		GroupCount:      k,
		TotalInput:      totalIn,
		TotalOutput:     totalOut,
		TotalDifference: totalIn - totalOut,
		Rows:            rows,
	}
}
