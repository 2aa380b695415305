// Package partition lazily and iteratively enumerates every canonical
// set partition of {0, ..., n-1} exactly once, without recursion and
// without ever materializing more than one chunk at a time. It walks
// restricted growth strings (RGS) in successor order, as suggested by
// the "unranking algorithm indexed by a restricted-growth-string"
// design note: a[i] is the block index of element i, a[0] = 0, and
// a[i] <= 1 + max(a[0..i-1]). Blocks numbered in order of first
// appearance in an RGS are automatically in canonical order (ordered
// by smallest element, elements ascending within a block), so no
// separate canonicalization pass is needed.
package partition

import "github.com/txflow/txflow/internal/bell"

// IndexSet is one block of a partition: an ordered, ascending list of
// element indices.
type IndexSet []uint16

// IndexPartition is an ordered list of blocks in canonical order.
type IndexPartition []IndexSet

// Generator produces every canonical IndexPartition of {0,...,n-1}
// exactly once. It is not safe for concurrent use; it is a finite,
// non-restartable, single-owner lazy sequence, per spec: callers that
// need a fresh sequence construct a new Generator.
type Generator struct {
	n        int
	total    uint64
	emitted  uint64
	done     bool
	a        []int
	m        []int
	started  bool
}

// New constructs a Generator over n elements. n == 0 produces exactly
// one degenerate partition (the empty partition); downstream callers
// treat that as "nothing to analyze" per spec.
func New(n int) (*Generator, error) {
	total := uint64(1)
	if n > 0 {
		t, err := bell.Number(n)
		if err != nil {
			return nil, err
		}
		total = t
	}

	return &Generator{
		n:     n,
		total: total,
		a:     make([]int, n),
		m:     make([]int, n),
	}, nil
}

// Total returns B(n), the number of partitions this Generator will
// produce in total.
func (g *Generator) Total() uint64 { return g.total }

// CurrentProgress returns the number of partitions emitted so far.
func (g *Generator) CurrentProgress() uint64 { return g.emitted }

// HasMore reports whether at least one more partition remains.
func (g *Generator) HasMore() bool {
	return !g.done
}

// NextChunk returns up to size partitions in canonical order, advancing
// generator state. It returns fewer than size (possibly zero) once the
// sequence is exhausted.
func (g *Generator) NextChunk(size int) []IndexPartition {
	if size <= 0 || g.done {
		return nil
	}

	chunk := make([]IndexPartition, 0, size)

	if g.n == 0 {
		if !g.started {
			g.started = true
			g.emitted++
			chunk = append(chunk, IndexPartition{})
		}
		g.done = true
		return chunk
	}

	if !g.started {
		g.started = true
		chunk = append(chunk, g.snapshot())
		g.emitted++
	}

	for len(chunk) < size {
		if !g.advance() {
			g.done = true
			break
		}
		chunk = append(chunk, g.snapshot())
		g.emitted++
	}

	return chunk
}

// advance computes the successor RGS in place. It returns false once
// the maximal RGS (all-singletons, a[i] == i) has been reached.
func (g *Generator) advance() bool {
	n := g.n
	for i := n - 1; i >= 1; i-- {
		prevMax := 0
		if i >= 1 {
			prevMax = g.m[i-1]
		}
		if g.a[i] <= prevMax {
			g.a[i]++
			for j := i + 1; j < n; j++ {
				g.a[j] = 0
			}

			if g.a[i] > prevMax {
				g.m[i] = g.a[i]
			} else {
				g.m[i] = prevMax
			}
			for j := i + 1; j < n; j++ {
				g.m[j] = g.m[j-1]
			}
			return true
		}
	}
	return false
}

// snapshot converts the current RGS into an IndexPartition.
func (g *Generator) snapshot() IndexPartition {
	numBlocks := 0
	for _, v := range g.a {
		if v+1 > numBlocks {
			numBlocks = v + 1
		}
	}

	blocks := make([]IndexSet, numBlocks)
	for i, v := range g.a {
		blocks[v] = append(blocks[v], uint16(i))
	}

	partition := make(IndexPartition, numBlocks)
	copy(partition, blocks)
	return partition
}
