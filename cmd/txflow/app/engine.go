package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/errors"

	"github.com/txflow/txflow/internal/bell"
	"github.com/txflow/txflow/internal/dispatch"
	"github.com/txflow/txflow/internal/mapping"
	"github.com/txflow/txflow/internal/partition"
	"github.com/txflow/txflow/internal/progress"
	"github.com/txflow/txflow/internal/result"
	"github.com/txflow/txflow/internal/sink"
	"github.com/txflow/txflow/internal/txflowerr"
	"github.com/txflow/txflow/internal/txrecord"
)

// analysisMode selects which of the two engine outputs runAnalysis
// produces.
type analysisMode string

const (
	modePartitionMapping analysisMode = "partition-mapping"
	modeSubsetPairs      analysisMode = "subset-pairs"
)

// runOptions gathers everything runAnalysis needs, whether it was
// collected interactively or from flags.
type runOptions struct {
	Record      *txrecord.Record
	Mode        analysisMode
	OutputFile  string
	PreviewRows int
	ChunkSize   int
	Workers     int
	Interactive bool
	SizeLimit   uint64
	AssumeYes   bool
}

// estimateSearchSize returns the rough B(n)*B(m)*min(n,m)! upper bound
// on work, per spec.md §7's SizeExceeded guard.
func estimateSearchSize(n, m int) (uint64, error) {
	bn, err := bell.Number(n)
	if err != nil {
		return 0, err
	}
	bm, err := bell.Number(m)
	if err != nil {
		return 0, err
	}

	small := n
	if m < small {
		small = m
	}
	fact := uint64(1)
	for i := 2; i <= small; i++ {
		fact *= uint64(i)
	}

	return bn * bm * fact, nil
}

// runAnalysis wires the record through the engine components in
// spec.md §4's order: ElementMapper, partition generation (twice, once
// per side, driven by the dispatcher), the pruner and mapping checker
// inside the dispatcher's worker pool, and a CSV sink. It always reports
// progress on stderr: as a live bar when opts.Interactive is set, as a
// plain status line otherwise.
func runAnalysis(ctx context.Context, logger *slog.Logger, opts runOptions) (uint64, error) {
	rec := opts.Record

	inputIDs := rec.InputIDs()
	outputIDs := rec.OutputIDs()

	inputMapper, err := txrecord.NewElementMapper(inputIDs)
	if err != nil {
		return 0, errors.Wrap(txflowerr.ErrMalformedInput, err.Error())
	}
	outputMapper, err := txrecord.NewElementMapper(outputIDs)
	if err != nil {
		return 0, errors.Wrap(txflowerr.ErrMalformedInput, err.Error())
	}

	inputAmounts := make([]int64, len(inputIDs))
	for i, id := range inputIDs {
		inputAmounts[i] = int64(rec.InputValue(id))
	}
	outputAmounts := make([]int64, len(outputIDs))
	for i, id := range outputIDs {
		outputAmounts[i] = int64(rec.OutputValue(id))
	}

	size, err := estimateSearchSize(len(inputIDs), len(outputIDs))
	if err != nil {
		return 0, errors.Wrap(err, "estimating search size")
	}
	if size > opts.SizeLimit && !opts.AssumeYes {
		return 0, errors.Wrapf(txflowerr.ErrSizeExceeded, "estimated %d candidate pairs exceeds threshold %d; rerun with --yes to proceed", size, opts.SizeLimit)
	}
	logger.Info("starting analysis", "mode", opts.Mode, "inputs", len(inputIDs), "outputs", len(outputIDs), "estimated_size", size)

	f, err := os.Create(opts.OutputFile)
	if err != nil {
		return 0, errors.Wrap(txflowerr.ErrOutputSink, err.Error())
	}

	var sk *sink.CSVSink
	switch opts.Mode {
	case modePartitionMapping:
		sk, err = sink.NewCSVSink(f, sink.ModePartitionMapping)
	case modeSubsetPairs:
		sk, err = sink.NewCSVSink(f, sink.ModeSubsetPairs)
	default:
		f.Close()
		return 0, errors.Errorf("unknown analysis mode %q", opts.Mode)
	}
	if err != nil {
		f.Close()
		return 0, errors.Wrap(txflowerr.ErrOutputSink, err.Error())
	}
	defer sk.Close()

	d := dispatch.New()
	if opts.ChunkSize > 0 {
		d.ChunkSize = opts.ChunkSize
	}
	if opts.Workers > 0 {
		d.Workers = opts.Workers
	}

	counters := &dispatch.Counters{}

	progCtx, cancelProg := context.WithCancel(ctx)
	defer cancelProg()

	reporter := progress.New(counters, os.Stderr, opts.Interactive)
	if opts.Mode == modePartitionMapping {
		reporter.InputCount = len(inputIDs)
		reporter.OutputCount = len(outputIDs)
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		reporter.Run(progCtx)
	}()

	resolveInput := func(idx partition.IndexSet) []string {
		return inputMapper.ToIDs(idx)
	}
	resolveOutput := func(idx partition.IndexSet) []string {
		return outputMapper.ToIDs(idx)
	}

	preview := sink.NewPreviewingSink(sk, opts.PreviewRows)

	var runErr error
	switch opts.Mode {
	case modeSubsetPairs:
		runErr = runSubsetPairs(inputAmounts, outputAmounts, resolveInput, resolveOutput, sk, counters)
	default:
		runErr = d.Run(ctx, inputAmounts, outputAmounts, resolveInput, resolveOutput, preview, counters)
	}

	cancelProg()
	<-done

	if opts.Mode == modePartitionMapping && opts.PreviewRows > 0 {
		if rows := preview.Preview(); len(rows) > 0 {
			fmt.Fprintln(os.Stdout, sink.PreviewTable(rows, opts.PreviewRows))
		}
	}

	if runErr != nil {
		return sk.ValidCount(), errors.Wrap(txflowerr.ErrOutputSink, runErr.Error())
	}

	return sk.ValidCount(), nil
}

// runSubsetPairs implements the subset-pairs analysis mode: it does
// not use the partition dispatcher at all, since subset pairs range
// over the power set rather than over set partitions (spec.md §9,
// open question 1).
func runSubsetPairs(inputAmounts, outputAmounts []int64, resolveInput, resolveOutput func(partition.IndexSet) []string, sk *sink.CSVSink, counters *dispatch.Counters) error {
	pairs := mapping.SubsetPairs(inputAmounts, outputAmounts)
	counters.OuterTotal.Store(uint64(len(pairs)))

	for i, p := range pairs {
		inIdx := mapping.MaskToIndices(p[0], len(inputAmounts))
		outIdx := mapping.MaskToIndices(p[1], len(outputAmounts))

		var inSum, outSum int64
		for _, idx := range inIdx {
			inSum += inputAmounts[idx]
		}
		for _, idx := range outIdx {
			outSum += outputAmounts[idx]
		}

		if _, err := sk.EmitCombination(result.Combination{
			InputIDs:    resolveInput(inIdx),
			InputValue:  inSum,
			OutputIDs:   resolveOutput(outIdx),
			OutputValue: outSum,
			Difference:  inSum - outSum,
		}); err != nil {
			return err
		}
		counters.Valid.Add(1)
		counters.OuterProgress.Store(uint64(i + 1))
	}

	return nil
}
