package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/vbonduro/kitroom/internal/domain"
	"github.com/vbonduro/kitroom/internal/metrics"
	"github.com/vbonduro/kitroom/internal/store"
	"github.com/vbonduro/kitroom/internal/vocab"
)

// ledgerBackend is the subset of store.Backend that LedgerService requires.
type ledgerBackend interface {
	Ping(ctx context.Context) error
	Inventory() store.Table[domain.StockLine]
	InboundLogs() store.Table[domain.InboundRecord]
	DistributionLogs() store.Table[domain.DistributionRecord]
	Players() store.Table[domain.Person]
	Staff() store.Table[domain.Person]
}

// LedgerService owns stock lines and the inbound and distribution journals.
// Stock updates are read-modify-write without locking; one operator at a
// time is assumed.
type LedgerService struct {
	backend  ledgerBackend
	images   *Images
	metrics  *metrics.Metrics
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

func NewLedgerService(backend ledgerBackend, images *Images, m *metrics.Metrics, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		backend:  backend,
		images:   images,
		metrics:  m,
		validate: newValidator(),
		logger:   logger,
		now:      time.Now,
	}
}

type InboundRequest struct {
	Date     time.Time `json:"date"`
	Category string    `json:"category" validate:"required,category"`
	ItemName string    `json:"item_name" validate:"required,max=100"`
	Size     string    `json:"size" validate:"required"`
	Quantity int       `json:"quantity" validate:"gt=0"`
	// Image, when set, replaces the stock line's photo.
	Image io.Reader `json:"-" validate:"-"`
}

// RecordInbound adds stock. A receipt for an existing (item, category, size)
// is merged into that line, keeping its id and date; otherwise a new line is
// created. Every successful call appends exactly one inbound record.
func (s *LedgerService) RecordInbound(ctx context.Context, req InboundRequest) (domain.StockLine, error) {
	if err := guard(ctx, s.backend); err != nil {
		return domain.StockLine{}, err
	}

	req.ItemName = strings.TrimSpace(req.ItemName)
	if err := checkStruct(s.validate, req); err != nil {
		return domain.StockLine{}, err
	}

	inventory := s.backend.Inventory()
	lines, err := inventory.ReadAll(ctx)
	if err != nil {
		return domain.StockLine{}, fmt.Errorf("failed to read inventory: %w", err)
	}

	var imageRef string
	if req.Image != nil {
		if imageRef, err = s.images.save(ctx, "stock", req.Image); err != nil {
			return domain.StockLine{}, err
		}
	}

	key := domain.StockKey{ItemName: req.ItemName, Category: req.Category, Size: req.Size}
	existing, merged := findLine(lines, key)

	var line domain.StockLine
	if merged {
		line, err = s.merge(ctx, existing, req.Quantity, imageRef)
	} else {
		line, err = inventory.Append(ctx, domain.StockLine{
			Date:     s.dateOr(req.Date),
			Category: req.Category,
			ItemName: req.ItemName,
			Size:     req.Size,
			Quantity: req.Quantity,
			ImageRef: imageRef,
		})
		if err != nil {
			err = fmt.Errorf("failed to create stock line: %w", err)
		}
	}
	if err != nil {
		if imageRef != existing.ImageRef {
			s.images.discard(ctx, imageRef)
		}
		return domain.StockLine{}, err
	}

	rec, err := s.backend.InboundLogs().Append(ctx, domain.InboundRecord{
		Date:     s.dateOr(req.Date),
		Category: req.Category,
		ItemName: req.ItemName,
		Size:     req.Size,
		Quantity: req.Quantity,
	})
	if err != nil {
		s.undoInbound(ctx, line, existing, merged)
		return domain.StockLine{}, fmt.Errorf("failed to append inbound record: %w", err)
	}

	if merged && imageRef != "" && existing.ImageRef != imageRef {
		s.images.discard(ctx, existing.ImageRef)
	}

	s.metrics.RecordInbound(req.Category, req.Quantity, merged)
	s.logger.Info("inbound recorded",
		"stock_id", line.ID, "inbound_id", rec.ID, "key", key.String(),
		"added", req.Quantity, "quantity", line.Quantity, "merged", merged)
	return line, nil
}

func (s *LedgerService) merge(ctx context.Context, existing domain.StockLine, add int, imageRef string) (domain.StockLine, error) {
	inventory := s.backend.Inventory()
	line := existing
	line.Quantity = existing.Quantity + add
	if err := inventory.UpdateField(ctx, line.ID, "quantity", line.Quantity); err != nil {
		return domain.StockLine{}, fmt.Errorf("failed to merge stock line %d: %w", line.ID, err)
	}

	if imageRef != "" {
		if err := inventory.UpdateField(ctx, line.ID, "image_ref", imageRef); err != nil {
			s.restoreQuantity(ctx, line.ID, existing.Quantity)
			return domain.StockLine{}, fmt.Errorf("failed to replace image on stock line %d: %w", line.ID, err)
		}
		line.ImageRef = imageRef
	}
	return line, nil
}

// undoInbound reverts the stock change of an inbound whose journal append
// failed.
func (s *LedgerService) undoInbound(ctx context.Context, line, existing domain.StockLine, merged bool) {
	if !merged {
		if err := s.backend.Inventory().Delete(ctx, line.ID); err != nil {
			s.logger.Error("failed to remove unjournaled stock line", "stock_id", line.ID, "error", err)
		}
		s.images.discard(ctx, line.ImageRef)
		return
	}
	s.restoreQuantity(ctx, line.ID, existing.Quantity)
	if line.ImageRef != existing.ImageRef {
		if err := s.backend.Inventory().UpdateField(ctx, line.ID, "image_ref", existing.ImageRef); err != nil {
			s.logger.Error("failed to restore stock image", "stock_id", line.ID, "error", err)
			return
		}
		s.images.discard(ctx, line.ImageRef)
	}
}

func (s *LedgerService) restoreQuantity(ctx context.Context, id int64, qty int) {
	if err := s.backend.Inventory().UpdateField(ctx, id, "quantity", qty); err != nil {
		s.logger.Error("failed to restore stock quantity", "stock_id", id, "quantity", qty, "error", err)
	}
}

type DistributionRequest struct {
	Date       time.Time `json:"date"`
	TargetType string    `json:"target_type" validate:"required,target_type"`
	TargetID   *int64    `json:"target_id" validate:"omitempty,gt=0"`
	TargetName string    `json:"target_name" validate:"required_without=TargetID,max=50"`
	// Category narrows the stock lookup. Empty or vocab.AllCategories takes
	// the first line, by id, matching item name and size.
	Category string `json:"category" validate:"category_filter"`
	ItemName string `json:"item_name" validate:"required"`
	Size     string `json:"size" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

// Distribute hands stock to a player or staff member. A request for more
// than is on hand fails with *InsufficientStockError and changes nothing.
func (s *LedgerService) Distribute(ctx context.Context, req DistributionRequest) (domain.DistributionRecord, error) {
	if err := guard(ctx, s.backend); err != nil {
		return domain.DistributionRecord{}, err
	}

	req.TargetName = strings.TrimSpace(req.TargetName)
	req.ItemName = strings.TrimSpace(req.ItemName)
	if err := checkStruct(s.validate, req); err != nil {
		return domain.DistributionRecord{}, err
	}
	kind := domain.PersonKind(req.TargetType)

	targetID, targetName, err := s.resolveTarget(ctx, kind, req.TargetID, req.TargetName)
	if err != nil {
		return domain.DistributionRecord{}, err
	}

	inventory := s.backend.Inventory()
	lines, err := inventory.ReadAll(ctx)
	if err != nil {
		return domain.DistributionRecord{}, fmt.Errorf("failed to read inventory: %w", err)
	}

	line, ok := matchLine(lines, req.Category, req.ItemName, req.Size)
	if !ok {
		return domain.DistributionRecord{}, fmt.Errorf("no stock line for %s (%s) in %q: %w", req.ItemName, req.Size, req.Category, ErrNotFound)
	}

	if line.Quantity < req.Quantity {
		s.metrics.RecordInsufficientStock(line.Category)
		return domain.DistributionRecord{}, &InsufficientStockError{Key: line.Key(), Available: line.Quantity, Requested: req.Quantity}
	}

	remaining := line.Quantity - req.Quantity
	if err := inventory.UpdateField(ctx, line.ID, "quantity", remaining); err != nil {
		return domain.DistributionRecord{}, fmt.Errorf("failed to decrement stock line %d: %w", line.ID, err)
	}

	rec, err := s.backend.DistributionLogs().Append(ctx, domain.DistributionRecord{
		Date:       s.dateOr(req.Date),
		TargetType: kind,
		TargetID:   targetID,
		TargetName: targetName,
		Category:   line.Category,
		ItemName:   line.ItemName,
		Size:       line.Size,
		Quantity:   req.Quantity,
	})
	if err != nil {
		s.restoreQuantity(ctx, line.ID, line.Quantity)
		return domain.DistributionRecord{}, fmt.Errorf("failed to append distribution record: %w", err)
	}

	s.metrics.RecordDistribution(string(kind), req.Quantity)
	s.logger.Info("stock distributed",
		"stock_id", line.ID, "log_id", rec.ID, "key", line.Key().String(),
		"target_type", kind, "target_name", targetName, "quantity", req.Quantity, "remaining", remaining)
	return rec, nil
}

// resolveTarget ties a distribution to a roster entry where it can. An
// explicit id must exist. A name matching nobody is still accepted; a name
// shared by several people is rejected as ambiguous.
func (s *LedgerService) resolveTarget(ctx context.Context, kind domain.PersonKind, id *int64, name string) (*int64, string, error) {
	roster := rosterTable(s.backend, kind)

	if id != nil {
		p, err := roster.FindByID(ctx, *id)
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", invalid("target_id", fmt.Sprintf("no %s with id %d", kind, *id))
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to look up %s %d: %w", kind, *id, err)
		}
		pid := p.ID
		return &pid, p.Name, nil
	}

	people, err := roster.ReadAll(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s roster: %w", kind, err)
	}
	var matches []domain.Person
	for _, p := range people {
		if p.Name == name {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		s.logger.Warn("distribution target not on roster", "target_type", kind, "target_name", name)
		return nil, name, nil
	case 1:
		pid := matches[0].ID
		return &pid, name, nil
	default:
		return nil, "", invalid("target_name", fmt.Sprintf("%d people share this name; choose by target_id", len(matches)))
	}
}

type StockFilter struct {
	// Category is empty or vocab.AllCategories for every category.
	Category string
	// Query matches item names case-insensitively.
	Query        string
	IncludeEmpty bool
}

// ListStock returns stock lines in id order. Lines with zero quantity are
// left out unless IncludeEmpty is set.
func (s *LedgerService) ListStock(ctx context.Context, f StockFilter) ([]domain.StockLine, error) {
	if err := guard(ctx, s.backend); err != nil {
		return nil, err
	}
	if !vocab.IsCategoryFilter(f.Category) {
		return nil, invalid("category", "unknown category")
	}

	lines, err := s.backend.Inventory().ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]domain.StockLine, 0, len(lines))
	for _, l := range lines {
		if f.Category != "" && f.Category != vocab.AllCategories && l.Category != f.Category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(l.ItemName), q) {
			continue
		}
		if l.Quantity == 0 && !f.IncludeEmpty {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

// StockLineUpdate edits a line in place. Nil fields are left unchanged.
type StockLineUpdate struct {
	ItemName *string
	Quantity *int
}

func (s *LedgerService) UpdateStockLine(ctx context.Context, id int64, u StockLineUpdate) (domain.StockLine, error) {
	if err := guard(ctx, s.backend); err != nil {
		return domain.StockLine{}, err
	}

	inventory := s.backend.Inventory()
	line, err := inventory.FindByID(ctx, id)
	if err != nil {
		return domain.StockLine{}, err
	}

	fields := make(map[string]string)
	updated := line
	if u.ItemName != nil {
		updated.ItemName = strings.TrimSpace(*u.ItemName)
		if updated.ItemName == "" {
			fields["item_name"] = "is required"
		}
	}
	if u.Quantity != nil {
		updated.Quantity = *u.Quantity
		if updated.Quantity < 0 {
			fields["quantity"] = "must be at least 0"
		}
	}
	if len(fields) > 0 {
		return domain.StockLine{}, &ValidationError{Fields: fields}
	}

	if updated.ItemName != line.ItemName {
		lines, err := inventory.ReadAll(ctx)
		if err != nil {
			return domain.StockLine{}, fmt.Errorf("failed to read inventory: %w", err)
		}
		if other, ok := findLine(lines, updated.Key()); ok && other.ID != id {
			return domain.StockLine{}, invalid("item_name", fmt.Sprintf("stock line %d already holds %s", other.ID, updated.Key()))
		}
		if err := inventory.UpdateField(ctx, id, "item_name", updated.ItemName); err != nil {
			return domain.StockLine{}, fmt.Errorf("failed to rename stock line %d: %w", id, err)
		}
	}
	if updated.Quantity != line.Quantity {
		if err := inventory.UpdateField(ctx, id, "quantity", updated.Quantity); err != nil {
			return domain.StockLine{}, fmt.Errorf("failed to set quantity on stock line %d: %w", id, err)
		}
	}

	s.logger.Info("stock line updated", "stock_id", id, "item_name", updated.ItemName, "quantity", updated.Quantity)
	return updated, nil
}

// DeleteStockLine removes a line permanently. Journal rows are untouched.
func (s *LedgerService) DeleteStockLine(ctx context.Context, id int64) error {
	if err := guard(ctx, s.backend); err != nil {
		return err
	}
	inventory := s.backend.Inventory()
	line, err := inventory.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := inventory.Delete(ctx, id); err != nil {
		return err
	}
	s.images.discard(ctx, line.ImageRef)
	s.logger.Info("stock line deleted", "stock_id", id, "key", line.Key().String(), "quantity", line.Quantity)
	return nil
}

// DeleteInbound removes a journal row. Stock is not adjusted.
func (s *LedgerService) DeleteInbound(ctx context.Context, id int64) error {
	if err := guard(ctx, s.backend); err != nil {
		return err
	}
	if err := s.backend.InboundLogs().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("inbound record deleted", "inbound_id", id)
	return nil
}

// DeleteDistribution removes a journal row. Stock is not restored.
func (s *LedgerService) DeleteDistribution(ctx context.Context, id int64) error {
	if err := guard(ctx, s.backend); err != nil {
		return err
	}
	if err := s.backend.DistributionLogs().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("distribution record deleted", "log_id", id)
	return nil
}

// ListInbound returns the inbound journal, newest first.
func (s *LedgerService) ListInbound(ctx context.Context) ([]domain.InboundRecord, error) {
	if err := guard(ctx, s.backend); err != nil {
		return nil, err
	}
	recs, err := s.backend.InboundLogs().ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read inbound journal: %w", err)
	}
	slices.SortStableFunc(recs, func(a, b domain.InboundRecord) int {
		return newestFirst(a.Date, b.Date, a.ID, b.ID)
	})
	return recs, nil
}

// ListDistributions returns the distribution journal, newest first,
// optionally narrowed to target names containing query.
func (s *LedgerService) ListDistributions(ctx context.Context, query string) ([]domain.DistributionRecord, error) {
	if err := guard(ctx, s.backend); err != nil {
		return nil, err
	}
	recs, err := s.backend.DistributionLogs().ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read distribution journal: %w", err)
	}
	if q := strings.TrimSpace(query); q != "" {
		recs = slices.DeleteFunc(recs, func(r domain.DistributionRecord) bool {
			return !strings.Contains(r.TargetName, q)
		})
	}
	slices.SortStableFunc(recs, func(a, b domain.DistributionRecord) int {
		return newestFirst(a.Date, b.Date, a.ID, b.ID)
	})
	return recs, nil
}

func newestFirst(da, db time.Time, ia, ib int64) int {
	if c := db.Compare(da); c != 0 {
		return c
	}
	switch {
	case ia > ib:
		return -1
	case ia < ib:
		return 1
	}
	return 0
}

func findLine(lines []domain.StockLine, key domain.StockKey) (domain.StockLine, bool) {
	for _, l := range lines {
		if l.Key() == key {
			return l, true
		}
	}
	return domain.StockLine{}, false
}

// matchLine finds the line to distribute from. A specific category selects
// the full key. Without one, the first line by id that still has stock wins;
// if every candidate is empty the first candidate is returned so the caller
// reports insufficient stock.
func matchLine(lines []domain.StockLine, category, itemName, size string) (domain.StockLine, bool) {
	unfiltered := category == "" || category == vocab.AllCategories
	var empty *domain.StockLine
	for i, l := range lines {
		if l.ItemName != itemName || l.Size != size {
			continue
		}
		if !unfiltered {
			if l.Category == category {
				return l, true
			}
			continue
		}
		if l.Quantity > 0 {
			return l, true
		}
		if empty == nil {
			empty = &lines[i]
		}
	}
	if empty != nil {
		return *empty, true
	}
	return domain.StockLine{}, false
}

func (s *LedgerService) dateOr(t time.Time) time.Time {
	if t.IsZero() {
		t = s.now()
	}
	return dateOnly(t)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type rosters interface {
	Players() store.Table[domain.Person]
	Staff() store.Table[domain.Person]
}

func rosterTable(b rosters, kind domain.PersonKind) store.Table[domain.Person] {
	if kind == domain.Staff {
		return b.Staff()
	}
	return b.Players()
}
