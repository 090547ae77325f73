// Package memory is a process-local record store backend. It can be
// disconnected to exercise unavailable-backend handling.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/vbonduro/kitroom/internal/domain"
	"github.com/vbonduro/kitroom/internal/identity"
	"github.com/vbonduro/kitroom/internal/store"
)

// link is the connection state shared by every table of one backend.
type link struct {
	mu  sync.RWMutex
	err error
}

func (l *link) check() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, l.err)
	}
	return nil
}

type Table[T any] struct {
	mu     sync.Mutex
	link   *link
	schema store.Schema[T]
	ids    *identity.Assigner
	rows   []T
}

func (t *Table[T]) ReadAll(_ context.Context) ([]T, error) {
	if err := t.link.check(); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.rows), nil
}

func (t *Table[T]) Append(ctx context.Context, rec T) (T, error) {
	var zero T
	if err := t.link.check(); err != nil {
		return zero, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	cells := make([]string, len(t.rows))
	for i, r := range t.rows {
		cells[i] = strconv.FormatInt(t.schema.ID(r), 10)
	}
	id, err := t.ids.Next(ctx, string(t.schema.Collection), cells)
	if err != nil {
		return zero, err
	}

	rec = t.schema.WithID(rec, id)
	t.rows = append(t.rows, rec)
	return rec, nil
}

func (t *Table[T]) index(id int64) int {
	return slices.IndexFunc(t.rows, func(r T) bool { return t.schema.ID(r) == id })
}

func (t *Table[T]) FindByID(_ context.Context, id int64) (T, error) {
	var zero T
	if err := t.link.check(); err != nil {
		return zero, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.index(id)
	if i < 0 {
		return zero, fmt.Errorf("%s %d: %w", t.schema.Collection, id, store.ErrNotFound)
	}
	return t.rows[i], nil
}

func (t *Table[T]) UpdateField(_ context.Context, id int64, field string, value any) error {
	if err := t.link.check(); err != nil {
		return err
	}
	f, err := t.schema.Field(field)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.index(id)
	if i < 0 {
		return fmt.Errorf("%s %d: %w", t.schema.Collection, id, store.ErrNotFound)
	}
	updated := t.rows[i]
	if err := f.Set(&updated, value); err != nil {
		return fmt.Errorf("%s.%s: %w", t.schema.Collection, field, err)
	}
	t.rows[i] = updated
	return nil
}

func (t *Table[T]) Delete(_ context.Context, id int64) error {
	if err := t.link.check(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.index(id)
	if i < 0 {
		return fmt.Errorf("%s %d: %w", t.schema.Collection, id, store.ErrNotFound)
	}
	t.rows = slices.Delete(t.rows, i, i+1)
	return nil
}

type Backend struct {
	link         *link
	inventory    *Table[domain.StockLine]
	inbound      *Table[domain.InboundRecord]
	distribution *Table[domain.DistributionRecord]
	players      *Table[domain.Person]
	staff        *Table[domain.Person]
	memos        *Table[domain.Memo]
}

var _ store.Backend = (*Backend)(nil)

func NewBackend() *Backend {
	l := &link{}
	ids := identity.NewAssigner(identity.NewMemorySequences())
	return &Backend{
		link:         l,
		inventory:    newTable(l, store.StockLines, ids),
		inbound:      newTable(l, store.InboundRecords, ids),
		distribution: newTable(l, store.DistributionRecords, ids),
		players:      newTable(l, store.PlayerRecords, ids),
		staff:        newTable(l, store.StaffRecords, ids),
		memos:        newTable(l, store.MemoRecords, ids),
	}
}

func newTable[T any](l *link, schema store.Schema[T], ids *identity.Assigner) *Table[T] {
	return &Table[T]{link: l, schema: schema, ids: ids}
}

// Disconnect makes every subsequent call fail with store.ErrUnavailable
// wrapping cause, until Reconnect.
func (b *Backend) Disconnect(cause error) {
	b.link.mu.Lock()
	defer b.link.mu.Unlock()
	b.link.err = cause
}

func (b *Backend) Reconnect() {
	b.link.mu.Lock()
	defer b.link.mu.Unlock()
	b.link.err = nil
}

func (b *Backend) Ping(_ context.Context) error { return b.link.check() }

func (b *Backend) Inventory() store.Table[domain.StockLine]                 { return b.inventory }
func (b *Backend) InboundLogs() store.Table[domain.InboundRecord]           { return b.inbound }
func (b *Backend) DistributionLogs() store.Table[domain.DistributionRecord] { return b.distribution }
func (b *Backend) Players() store.Table[domain.Person]                      { return b.players }
func (b *Backend) Staff() store.Table[domain.Person]                        { return b.staff }
func (b *Backend) Memos() store.Table[domain.Memo]                          { return b.memos }
