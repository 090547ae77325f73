// Package identity assigns row IDs. An ID is one greater than the largest ID
// ever seen in the collection, so deleting the newest row never frees its ID
// for reuse.
package identity

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Sequences persists the highest ID issued per collection.
type Sequences interface {
	HighWater(ctx context.Context, collection string) (int64, error)
	Advance(ctx context.Context, collection string, id int64) error
}

// NextID returns max(parsed cells, highWater) + 1. Blank or non-numeric cells
// are skipped; an empty or fully unparsable column yields highWater + 1.
func NextID(cells []string, highWater int64) int64 {
	next := max(highWater, 0)
	for _, cell := range cells {
		id, err := strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
		if err != nil {
			continue
		}
		next = max(next, id)
	}
	return next + 1
}

type Assigner struct {
	mu  sync.Mutex
	seq Sequences
}

func NewAssigner(seq Sequences) *Assigner {
	return &Assigner{seq: seq}
}

// Next reserves the next ID for collection. The reservation is committed to
// the sequence store before it is returned, so concurrent callers never
// receive the same value.
func (a *Assigner) Next(ctx context.Context, collection string, cells []string) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	hw, err := a.seq.HighWater(ctx, collection)
	if err != nil {
		return 0, fmt.Errorf("failed to read id sequence for %s: %w", collection, err)
	}

	id := NextID(cells, hw)
	if err := a.seq.Advance(ctx, collection, id); err != nil {
		return 0, fmt.Errorf("failed to reserve id %d for %s: %w", id, collection, err)
	}
	return id, nil
}

// MemorySequences keeps high-water marks in process memory.
type MemorySequences struct {
	mu   sync.Mutex
	last map[string]int64
}

func NewMemorySequences() *MemorySequences {
	return &MemorySequences{last: make(map[string]int64)}
}

func (m *MemorySequences) HighWater(_ context.Context, collection string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last[collection], nil
}

func (m *MemorySequences) Advance(_ context.Context, collection string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id > m.last[collection] {
		m.last[collection] = id
	}
	return nil
}
