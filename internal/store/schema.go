package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vbonduro/kitroom/internal/domain"
)

// DateLayout is how calendar dates are persisted.
const DateLayout = "2006-01-02"

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Schema describes how a row type maps onto a collection. Backends use it to
// persist rows without knowing the concrete type, and to validate
// UpdateField calls at the boundary.
type Schema[T any] struct {
	Collection Collection
	// Columns lists persisted columns after id, in Values order.
	Columns []string
	Values  func(rec T) []any
	// Scan reads id followed by Columns.
	Scan   func(sc Scanner) (T, error)
	ID     func(rec T) int64
	WithID func(rec T, id int64) T
	// Fields are the columns UpdateField may change.
	Fields map[string]Field[T]
}

// Field sets and reads back one updatable column on a row.
type Field[T any] struct {
	Set func(rec *T, value any) error
	Get func(rec *T) any
}

// Field returns the updatable field named name.
func (s Schema[T]) Field(name string) (Field[T], error) {
	f, ok := s.Fields[name]
	if !ok {
		return Field[T]{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, s.Collection, name)
	}
	return f, nil
}

// Normalize checks value against field name and returns the value to persist.
func (s Schema[T]) Normalize(name string, value any) (any, error) {
	f, err := s.Field(name)
	if err != nil {
		return nil, err
	}
	var scratch T
	if err := f.Set(&scratch, value); err != nil {
		return nil, fmt.Errorf("%s.%s: %w", s.Collection, name, err)
	}
	return f.Get(&scratch), nil
}

func stringField[T any](ptr func(*T) *string) Field[T] {
	return Field[T]{
		Set: func(rec *T, value any) error {
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("%w: want string, got %T", ErrInvalidValue, value)
			}
			*ptr(rec) = s
			return nil
		},
		Get: func(rec *T) any { return *ptr(rec) },
	}
}

// quantityField rejects negative values so no backend can persist one.
func quantityField[T any](ptr func(*T) *int) Field[T] {
	return Field[T]{
		Set: func(rec *T, value any) error {
			var n int
			switch v := value.(type) {
			case int:
				n = v
			case int64:
				n = int(v)
			default:
				return fmt.Errorf("%w: want integer, got %T", ErrInvalidValue, value)
			}
			if n < 0 {
				return fmt.Errorf("%w: quantity %d is negative", ErrInvalidValue, n)
			}
			*ptr(rec) = n
			return nil
		},
		Get: func(rec *T) any { return *ptr(rec) },
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// parseDate treats blank or malformed cells as an unknown date.
func parseDate(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

var StockLines = Schema[domain.StockLine]{
	Collection: Inventory,
	Columns:    []string{"date", "category", "item_name", "size", "quantity", "image_ref"},
	Values: func(r domain.StockLine) []any {
		return []any{formatDate(r.Date), r.Category, r.ItemName, r.Size, r.Quantity, r.ImageRef}
	},
	Scan: func(sc Scanner) (domain.StockLine, error) {
		var r domain.StockLine
		var date string
		err := sc.Scan(&r.ID, &date, &r.Category, &r.ItemName, &r.Size, &r.Quantity, &r.ImageRef)
		r.Date = parseDate(date)
		return r, err
	},
	ID:     func(r domain.StockLine) int64 { return r.ID },
	WithID: func(r domain.StockLine, id int64) domain.StockLine { r.ID = id; return r },
	Fields: map[string]Field[domain.StockLine]{
		"item_name": stringField(func(r *domain.StockLine) *string { return &r.ItemName }),
		"quantity":  quantityField(func(r *domain.StockLine) *int { return &r.Quantity }),
		"image_ref": stringField(func(r *domain.StockLine) *string { return &r.ImageRef }),
	},
}

// InboundRecords has no updatable fields: journal rows are write-once.
var InboundRecords = Schema[domain.InboundRecord]{
	Collection: InboundLogs,
	Columns:    []string{"date", "category", "item_name", "size", "quantity"},
	Values: func(r domain.InboundRecord) []any {
		return []any{formatDate(r.Date), r.Category, r.ItemName, r.Size, r.Quantity}
	},
	Scan: func(sc Scanner) (domain.InboundRecord, error) {
		var r domain.InboundRecord
		var date string
		err := sc.Scan(&r.ID, &date, &r.Category, &r.ItemName, &r.Size, &r.Quantity)
		r.Date = parseDate(date)
		return r, err
	},
	ID:     func(r domain.InboundRecord) int64 { return r.ID },
	WithID: func(r domain.InboundRecord, id int64) domain.InboundRecord { r.ID = id; return r },
}

var DistributionRecords = Schema[domain.DistributionRecord]{
	Collection: DistributionLogs,
	Columns:    []string{"date", "target_type", "target_id", "target_name", "category", "item_name", "size", "quantity"},
	Values: func(r domain.DistributionRecord) []any {
		var targetID any
		if r.TargetID != nil {
			targetID = *r.TargetID
		}
		return []any{formatDate(r.Date), string(r.TargetType), targetID, r.TargetName, r.Category, r.ItemName, r.Size, r.Quantity}
	},
	Scan: func(sc Scanner) (domain.DistributionRecord, error) {
		var r domain.DistributionRecord
		var date, targetType string
		var targetID sql.NullInt64
		err := sc.Scan(&r.ID, &date, &targetType, &targetID, &r.TargetName, &r.Category, &r.ItemName, &r.Size, &r.Quantity)
		r.Date = parseDate(date)
		r.TargetType = domain.PersonKind(targetType)
		if targetID.Valid {
			id := targetID.Int64
			r.TargetID = &id
		}
		return r, err
	},
	ID:     func(r domain.DistributionRecord) int64 { return r.ID },
	WithID: func(r domain.DistributionRecord, id int64) domain.DistributionRecord { r.ID = id; return r },
}

var PlayerRecords = personSchema(Players, domain.Player, "back_number", func(p *domain.Person) *string { return &p.BackNumber })

var StaffRecords = personSchema(Staff, domain.Staff, "role", func(p *domain.Person) *string { return &p.Role })

// personSchema builds the schema shared by both rosters; they differ only in
// the label column (back number or role).
func personSchema(c Collection, kind domain.PersonKind, labelColumn string, label func(*domain.Person) *string) Schema[domain.Person] {
	return Schema[domain.Person]{
		Collection: c,
		Columns:    []string{"name", labelColumn, "top_size", "bottom_size", "shoe_size", "image_ref"},
		Values: func(p domain.Person) []any {
			return []any{p.Name, *label(&p), p.TopSize, p.BottomSize, p.ShoeSize, p.ImageRef}
		},
		Scan: func(sc Scanner) (domain.Person, error) {
			p := domain.Person{Kind: kind}
			err := sc.Scan(&p.ID, &p.Name, label(&p), &p.TopSize, &p.BottomSize, &p.ShoeSize, &p.ImageRef)
			return p, err
		},
		ID: func(p domain.Person) int64 { return p.ID },
		WithID: func(p domain.Person, id int64) domain.Person {
			p.ID = id
			p.Kind = kind
			return p
		},
		Fields: map[string]Field[domain.Person]{
			"name":        stringField(func(p *domain.Person) *string { return &p.Name }),
			labelColumn:   stringField(label),
			"top_size":    stringField(func(p *domain.Person) *string { return &p.TopSize }),
			"bottom_size": stringField(func(p *domain.Person) *string { return &p.BottomSize }),
			"shoe_size":   stringField(func(p *domain.Person) *string { return &p.ShoeSize }),
			"image_ref":   stringField(func(p *domain.Person) *string { return &p.ImageRef }),
		},
	}
}

var MemoRecords = Schema[domain.Memo]{
	Collection: Memos,
	Columns:    []string{"date", "category", "content"},
	Values: func(m domain.Memo) []any {
		return []any{formatDate(m.Date), m.Category, m.Content}
	},
	Scan: func(sc Scanner) (domain.Memo, error) {
		var m domain.Memo
		var date string
		err := sc.Scan(&m.ID, &date, &m.Category, &m.Content)
		m.Date = parseDate(date)
		return m, err
	},
	ID:     func(m domain.Memo) int64 { return m.ID },
	WithID: func(m domain.Memo, id int64) domain.Memo { m.ID = id; return m },
	Fields: map[string]Field[domain.Memo]{
		"category": stringField(func(m *domain.Memo) *string { return &m.Category }),
		"content":  stringField(func(m *domain.Memo) *string { return &m.Content }),
	},
}
