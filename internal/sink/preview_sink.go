package sink

import (
	"sync"

	"github.com/txflow/txflow/internal/result"
)

// PreviewingSink wraps another result.Sink, retaining a bounded
// prefix of the mappings it sees so the CLI can render a PreviewTable
// after a run without holding the full result set in memory.
// Combinations are forwarded to the wrapped sink without being retained.
type PreviewingSink struct {
	result.Sink

	max int

	mu       sync.Mutex
	mappings []result.Mapping
}

// NewPreviewingSink wraps inner, keeping at most max mappings for
// later preview. max <= 0 disables retention.
func NewPreviewingSink(inner result.Sink, max int) *PreviewingSink {
	return &PreviewingSink{Sink: inner, max: max}
}

// EmitMapping forwards to the wrapped sink and retains the mapping if
// there is still room in the preview buffer.
func (p *PreviewingSink) EmitMapping(m result.Mapping) (uint64, error) {
	id, err := p.Sink.EmitMapping(m)
	if err == nil && p.max > 0 {
		p.mu.Lock()
		if len(p.mappings) < p.max {
			p.mappings = append(p.mappings, m)
		}
		p.mu.Unlock()
	}
	return id, err
}

// Preview returns the retained mapping prefix.
func (p *PreviewingSink) Preview() []result.Mapping {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]result.Mapping, len(p.mappings))
	copy(out, p.mappings)
	return out
}
