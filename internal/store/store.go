// Package store defines the record store boundary: named collections of typed
// rows keyed by an integer ID unique within the collection. Backends live in
// the sqlite and memory subpackages.
package store

import (
	"context"
	"errors"

	"github.com/vbonduro/kitroom/internal/domain"
)

type Collection string

const (
	Inventory        Collection = "inventory"
	InboundLogs      Collection = "inbound_logs"
	DistributionLogs Collection = "logs"
	Players          Collection = "players"
	Staff            Collection = "staff"
	Memos            Collection = "memos"
)

var collections = []Collection{Inventory, InboundLogs, DistributionLogs, Players, Staff, Memos}

// ParseCollection maps a collection name to its Collection.
func ParseCollection(name string) (Collection, bool) {
	for _, c := range collections {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

var (
	ErrNotFound     = errors.New("record not found")
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidValue = errors.New("invalid field value")
	// ErrUnavailable means the backend could not be reached. An empty
	// collection is never reported this way.
	ErrUnavailable = errors.New("record store unavailable")
)

// Table is one collection. Append assigns the row ID; the ID on the record
// passed in is ignored.
type Table[T any] interface {
	ReadAll(ctx context.Context) ([]T, error)
	Append(ctx context.Context, rec T) (T, error)
	FindByID(ctx context.Context, id int64) (T, error)
	UpdateField(ctx context.Context, id int64, field string, value any) error
	Delete(ctx context.Context, id int64) error
}

// Backend bundles every collection of one storage backend.
type Backend interface {
	Ping(ctx context.Context) error
	Inventory() Table[domain.StockLine]
	InboundLogs() Table[domain.InboundRecord]
	DistributionLogs() Table[domain.DistributionRecord]
	Players() Table[domain.Person]
	Staff() Table[domain.Person]
	Memos() Table[domain.Memo]
}
