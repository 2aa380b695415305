// Package progress renders a periodic, informational-only view of the
// dispatcher's shared counters: percent complete, pairs processed and
// pruned, valid mappings found, and an ETA. It never blocks workers —
// it only reads atomics on its own ticker, grounded on the teacher's
// background_worker ticker-scheduler shape.
package progress

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	ppb "github.com/jedib0t/go-pretty/v6/progress"

	"github.com/txflow/txflow/internal/bell"
	"github.com/txflow/txflow/internal/dispatch"
)

// Reporter periodically renders dispatch.Counters to a writer.
type Reporter struct {
	Counters    *dispatch.Counters
	Writer      io.Writer
	Interval    time.Duration
	Interactive bool

	// InputCount and OutputCount, when both set, let the reporter size
	// its percent-complete and ETA off the actual pair count (weighted
	// by block count via bell.Stirling2) instead of the coarser outer
	// input-partition count.
	InputCount  int
	OutputCount int

	start      time.Time
	totalPairs uint64
}

// New returns a Reporter over counters, rendering at most once per
// second unless overridden. interactive selects a go-pretty progress
// bar rendering instead of the plain status line.
func New(counters *dispatch.Counters, w io.Writer, interactive bool) *Reporter {
	return &Reporter{
		Counters:    counters,
		Writer:      w,
		Interval:    time.Second,
		Interactive: interactive,
	}
}

// Run blocks, rendering until ctx is done. It is meant to be started in
// its own goroutine alongside a dispatch.Dispatcher.Run call.
func (r *Reporter) Run(ctx context.Context) {
	r.start = time.Now()
	if r.InputCount > 0 && r.OutputCount > 0 {
		r.totalPairs = totalPairsByBlockCount(r.InputCount, r.OutputCount)
	}

	interval := r.Interval
	if interval <= 0 {
		interval = time.Second
	}

	if r.Interactive {
		r.runInteractive(ctx, interval)
		return
	}
	r.runPlain(ctx, interval)
}

func (r *Reporter) runPlain(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fmt.Fprintln(r.Writer, r.line())
		}
	}
}

func (r *Reporter) line() string {
	pct := 0.0
	if r.totalPairs > 0 {
		pct = float64(r.Counters.PairsProcessed.Load()) / float64(r.totalPairs) * 100
		if pct > 100 {
			pct = 100
		}
	} else if total := r.Counters.OuterTotal.Load(); total > 0 {
		pct = float64(r.Counters.OuterProgress.Load()) / float64(total) * 100
	}

	eta := etaFor(time.Since(r.start), pct)

	return fmt.Sprintf(
		"progress: %.2f%% pairs_processed=%d pruned=%d valid=%d eta=%s",
		pct,
		r.Counters.PairsProcessed.Load(),
		r.Counters.Pruned.Load(),
		r.Counters.Valid.Load(),
		eta.Round(time.Second),
	)
}

// etaFor implements spec.md §4.8: ETA = elapsed * (100-pct)/pct,
// clamped to >= 0.
func etaFor(elapsed time.Duration, pct float64) time.Duration {
	if pct <= 0 {
		return 0
	}
	remaining := elapsed.Seconds() * (100 - pct) / pct
	if remaining < 0 || math.IsNaN(remaining) || math.IsInf(remaining, 0) {
		remaining = 0
	}
	return time.Duration(remaining * float64(time.Second))
}

// totalPairsByBlockCount sums, over every block count k shared by both
// sides, the number of same-k partition pairs the dispatcher will build
// (bell.Stirling2(n, k) * bell.Stirling2(m, k)). It is a tighter
// denominator for percent-complete than the outer input-partition count
// alone, since block count is what drives how many candidate pairs and
// permutations each outer partition costs.
func totalPairsByBlockCount(n, m int) uint64 {
	small := n
	if m < small {
		small = m
	}

	var total uint64
	for k := 1; k <= small; k++ {
		total += bell.Stirling2(n, k) * bell.Stirling2(m, k)
	}
	return total
}

func (r *Reporter) runInteractive(ctx context.Context, interval time.Duration) {
	pw := ppb.NewWriter()
	pw.SetOutputWriter(r.Writer)
	pw.SetTrackerLength(30)
	pw.SetUpdateFrequency(interval)
	pw.SetAutoStop(false)
	pw.Style().Visibility.ETA = true
	pw.Style().Visibility.Percentage = true
	pw.Style().Visibility.Value = true

	tracker := &ppb.Tracker{Message: "analyzing partitions"}
	pw.AppendTracker(tracker)

	go pw.Render()
	defer pw.Stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			tracker.MarkAsDone()
			return
		case <-ticker.C:
			if r.totalPairs > 0 {
				tracker.Total = int64(r.totalPairs)
				tracker.SetValue(int64(r.Counters.PairsProcessed.Load()))
			} else if total := r.Counters.OuterTotal.Load(); total > 0 {
				tracker.Total = int64(total)
				tracker.SetValue(int64(r.Counters.OuterProgress.Load()))
			}
		}
	}
}
