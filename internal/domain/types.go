package domain

import (
	"fmt"
	"time"
)

// PersonKind distinguishes the two rosters. It doubles as the distribution
// target type.
type PersonKind string

const (
	Player PersonKind = "player"
	Staff  PersonKind = "staff"
)

// ParseKind accepts "player" and "staff".
func ParseKind(s string) (PersonKind, bool) {
	switch k := PersonKind(s); k {
	case Player, Staff:
		return k, true
	}
	return "", false
}

// StockKey is the identity used to merge inbound events into one StockLine.
type StockKey struct {
	ItemName string
	Category string
	Size     string
}

func (k StockKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Category, k.ItemName, k.Size)
}

// StockLine is the current on-hand quantity for one StockKey.
type StockLine struct {
	ID       int64     `json:"id"`
	Date     time.Time `json:"date"`
	Category string    `json:"category"`
	ItemName string    `json:"item_name"`
	Size     string    `json:"size"`
	Quantity int       `json:"quantity"`
	ImageRef string    `json:"image_ref,omitempty"`
}

func (s StockLine) Key() StockKey {
	return StockKey{ItemName: s.ItemName, Category: s.Category, Size: s.Size}
}

// InboundRecord is one received-stock event. Never mutated.
type InboundRecord struct {
	ID       int64     `json:"id"`
	Date     time.Time `json:"date"`
	Category string    `json:"category"`
	ItemName string    `json:"item_name"`
	Size     string    `json:"size"`
	Quantity int       `json:"quantity"`
}

// DistributionRecord is one hand-out event. TargetID is nil when the name
// could not be tied to a single roster entry.
type DistributionRecord struct {
	ID         int64      `json:"id"`
	Date       time.Time  `json:"date"`
	TargetType PersonKind `json:"target_type"`
	TargetID   *int64     `json:"target_id,omitempty"`
	TargetName string     `json:"target_name"`
	Category   string     `json:"category"`
	ItemName   string     `json:"item_name"`
	Size       string     `json:"size"`
	Quantity   int        `json:"quantity"`
}

// Person is a roster entry. BackNumber is only used for players, Role only
// for staff.
type Person struct {
	ID         int64      `json:"id"`
	Kind       PersonKind `json:"kind"`
	Name       string     `json:"name"`
	BackNumber string     `json:"back_number,omitempty"`
	Role       string     `json:"role,omitempty"`
	TopSize    string     `json:"top_size"`
	BottomSize string     `json:"bottom_size"`
	ShoeSize   string     `json:"shoe_size"`
	ImageRef   string     `json:"image_ref,omitempty"`
}

// Label is the back number for players and the role for staff.
func (p Person) Label() string {
	if p.Kind == Staff {
		return p.Role
	}
	return p.BackNumber
}

type Memo struct {
	ID       int64     `json:"id"`
	Date     time.Time `json:"date"`
	Category string    `json:"category"`
	Content  string    `json:"content"`
}
