package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vbonduro/kitroom/internal/domain"
	"github.com/vbonduro/kitroom/internal/identity"
	"github.com/vbonduro/kitroom/internal/store"
)

// Sequences keeps ID high-water marks in the id_sequences table so deleted
// IDs stay retired across restarts.
type Sequences struct {
	db *sql.DB
}

func NewSequences(db *sql.DB) *Sequences {
	return &Sequences{db: db}
}

func (s *Sequences) HighWater(ctx context.Context, collection string) (int64, error) {
	var last int64
	err := s.db.QueryRowContext(ctx, `
		SELECT last_id FROM id_sequences WHERE collection = ?
	`, collection).Scan(&last)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get id sequence: %w", err)
	}
	return last, nil
}

func (s *Sequences) Advance(ctx context.Context, collection string, id int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO id_sequences (collection, last_id) VALUES (?, ?)
		ON CONFLICT (collection) DO UPDATE SET last_id = max(last_id, excluded.last_id)
	`, collection, id)
	if err != nil {
		return fmt.Errorf("failed to advance id sequence: %w", err)
	}
	return nil
}

type Backend struct {
	db           *sql.DB
	inventory    *Table[domain.StockLine]
	inbound      *Table[domain.InboundRecord]
	distribution *Table[domain.DistributionRecord]
	players      *Table[domain.Person]
	staff        *Table[domain.Person]
	memos        *Table[domain.Memo]
}

var _ store.Backend = (*Backend)(nil)

// NewBackend expects db to be migrated (see db.Open).
func NewBackend(db *sql.DB) *Backend {
	ids := identity.NewAssigner(NewSequences(db))
	return &Backend{
		db:           db,
		inventory:    NewTable(db, store.StockLines, ids),
		inbound:      NewTable(db, store.InboundRecords, ids),
		distribution: NewTable(db, store.DistributionRecords, ids),
		players:      NewTable(db, store.PlayerRecords, ids),
		staff:        NewTable(db, store.StaffRecords, ids),
		memos:        NewTable(db, store.MemoRecords, ids),
	}
}

func (b *Backend) Ping(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

func (b *Backend) Inventory() store.Table[domain.StockLine]                 { return b.inventory }
func (b *Backend) InboundLogs() store.Table[domain.InboundRecord]           { return b.inbound }
func (b *Backend) DistributionLogs() store.Table[domain.DistributionRecord] { return b.distribution }
func (b *Backend) Players() store.Table[domain.Person]                      { return b.players }
func (b *Backend) Staff() store.Table[domain.Person]                        { return b.staff }
func (b *Backend) Memos() store.Table[domain.Memo]                          { return b.memos }
