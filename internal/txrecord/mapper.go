package txrecord

import (
	"github.com/ccoveille/go-safecast"
	"github.com/pkg/errors"
)

// ElementMapper is a read-only bijection between an ordered sequence of
// ids and compact uint16 indices, used so the partition engine can work
// with small integers instead of copying strings around.
type ElementMapper struct {
	elements []string
	indexOf  map[string]uint16
}

// NewElementMapper builds a mapper over ids in the given order.
// n is expected to be well within the uint16 range (spec: n, m <= ~65k,
// typically <= 12); a safe-cast failure indicates a caller error far
// outside the tool's intended use and is reported rather than truncated.
func NewElementMapper(ids []string) (*ElementMapper, error) {
	indexOf := make(map[string]uint16, len(ids))
	elements := make([]string, len(ids))

	for i, id := range ids {
		idx, err := safecast.ToUint16(i)
		if err != nil {
			return nil, errors.Wrapf(err, "txrecord: too many elements (%d) for a uint16 index", len(ids))
		}
		elements[idx] = id
		indexOf[id] = idx
	}

	return &ElementMapper{elements: elements, indexOf: indexOf}, nil
}

// Len returns the number of elements.
func (m *ElementMapper) Len() int { return len(m.elements) }

// ToID resolves a single index back to its id.
func (m *ElementMapper) ToID(idx uint16) string {
	return m.elements[idx]
}

// ToIDs resolves an IndexSet (block) back to an ordered list of ids.
func (m *ElementMapper) ToIDs(block []uint16) []string {
	ids := make([]string, len(block))
	for i, idx := range block {
		ids[i] = m.elements[idx]
	}
	return ids
}

// ToIDPartition resolves an IndexPartition back to a list of id lists.
func (m *ElementMapper) ToIDPartition(partition [][]uint16) [][]string {
	out := make([][]string, len(partition))
	for i, block := range partition {
		out[i] = m.ToIDs(block)
	}
	return out
}

// IndexOf resolves an id to its index. The second return is false if
// the id is unknown to this mapper.
func (m *ElementMapper) IndexOf(id string) (uint16, bool) {
	idx, ok := m.indexOf[id]
	return idx, ok
}
