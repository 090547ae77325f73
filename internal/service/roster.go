package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vbonduro/kitroom/internal/domain"
	"github.com/vbonduro/kitroom/internal/store"
)

// rosterBackend is the subset of store.Backend that RosterService requires.
type rosterBackend interface {
	Ping(ctx context.Context) error
	Players() store.Table[domain.Person]
	Staff() store.Table[domain.Person]
}

type RosterService struct {
	backend  rosterBackend
	images   *Images
	validate *validator.Validate
	logger   *slog.Logger
}

func NewRosterService(backend rosterBackend, images *Images, logger *slog.Logger) *RosterService {
	return &RosterService{backend: backend, images: images, validate: newValidator(), logger: logger}
}

// PersonRequest carries every editable roster field. BackNumber is kept for
// players and Role for staff; the other is ignored.
type PersonRequest struct {
	Kind       string    `json:"kind" validate:"required,target_type"`
	Name       string    `json:"name" validate:"required,max=50"`
	BackNumber string    `json:"back_number" validate:"omitempty,max=10"`
	Role       string    `json:"role" validate:"omitempty,staff_role"`
	TopSize    string    `json:"top_size" validate:"omitempty,clothing_size"`
	BottomSize string    `json:"bottom_size" validate:"omitempty,clothing_size"`
	ShoeSize   string    `json:"shoe_size" validate:"omitempty,shoe_size"`
	Image      io.Reader `json:"-" validate:"-"`
}

func (s *RosterService) check(kind domain.PersonKind, req *PersonRequest) error {
	req.Kind = string(kind)
	req.Name = strings.TrimSpace(req.Name)
	req.BackNumber = strings.TrimSpace(req.BackNumber)
	if kind == domain.Staff {
		req.BackNumber = ""
	} else {
		req.Role = ""
	}
	return checkStruct(s.validate, *req)
}

func labelColumn(kind domain.PersonKind) string {
	if kind == domain.Staff {
		return "role"
	}
	return "back_number"
}

func (s *RosterService) Add(ctx context.Context, kind domain.PersonKind, req PersonRequest) (domain.Person, error) {
	if err := guard(ctx, s.backend); err != nil {
		return domain.Person{}, err
	}
	if err := s.check(kind, &req); err != nil {
		return domain.Person{}, err
	}

	var imageRef string
	if req.Image != nil {
		var err error
		if imageRef, err = s.images.save(ctx, string(kind), req.Image); err != nil {
			return domain.Person{}, err
		}
	}

	p, err := rosterTable(s.backend, kind).Append(ctx, domain.Person{
		Kind:       kind,
		Name:       req.Name,
		BackNumber: req.BackNumber,
		Role:       req.Role,
		TopSize:    req.TopSize,
		BottomSize: req.BottomSize,
		ShoeSize:   req.ShoeSize,
		ImageRef:   imageRef,
	})
	if err != nil {
		s.images.discard(ctx, imageRef)
		return domain.Person{}, fmt.Errorf("failed to add %s: %w", kind, err)
	}

	s.logger.Info("roster entry added", "kind", kind, "id", p.ID, "name", p.Name)
	return p, nil
}

// Update overwrites every field of the entry. The photo is only replaced when
// req.Image is set. Fields are written one at a time; if a write fails, the
// fields already changed are put back before the error is returned.
func (s *RosterService) Update(ctx context.Context, kind domain.PersonKind, id int64, req PersonRequest) (domain.Person, error) {
	if err := guard(ctx, s.backend); err != nil {
		return domain.Person{}, err
	}
	if err := s.check(kind, &req); err != nil {
		return domain.Person{}, err
	}

	table := rosterTable(s.backend, kind)
	current, err := table.FindByID(ctx, id)
	if err != nil {
		return domain.Person{}, err
	}

	updated := current
	updated.Name = req.Name
	updated.BackNumber = req.BackNumber
	updated.Role = req.Role
	updated.TopSize = req.TopSize
	updated.BottomSize = req.BottomSize
	updated.ShoeSize = req.ShoeSize

	changes := []fieldChange{
		{"name", current.Name, updated.Name},
		{labelColumn(kind), current.Label(), updated.Label()},
		{"top_size", current.TopSize, updated.TopSize},
		{"bottom_size", current.BottomSize, updated.BottomSize},
		{"shoe_size", current.ShoeSize, updated.ShoeSize},
	}
	var applied []fieldChange
	for _, c := range changes {
		if c.old == c.new {
			continue
		}
		if err := table.UpdateField(ctx, id, c.field, c.new); err != nil {
			s.revert(ctx, table, kind, id, applied)
			return domain.Person{}, fmt.Errorf("failed to update %s %d %s: %w", kind, id, c.field, err)
		}
		applied = append(applied, c)
	}

	if req.Image != nil {
		imageRef, err := s.images.save(ctx, string(kind), req.Image)
		if err != nil {
			s.revert(ctx, table, kind, id, applied)
			return domain.Person{}, err
		}
		if err := table.UpdateField(ctx, id, "image_ref", imageRef); err != nil {
			s.images.discard(ctx, imageRef)
			s.revert(ctx, table, kind, id, applied)
			return domain.Person{}, fmt.Errorf("failed to replace photo on %s %d: %w", kind, id, err)
		}
		s.images.discard(ctx, current.ImageRef)
		updated.ImageRef = imageRef
	}

	s.logger.Info("roster entry updated", "kind", kind, "id", id, "name", updated.Name)
	return updated, nil
}

type fieldChange struct {
	field    string
	old, new string
}

// revert puts applied fields back to their old values, newest first. It is
// best effort: failures are logged.
func (s *RosterService) revert(ctx context.Context, table store.Table[domain.Person], kind domain.PersonKind, id int64, applied []fieldChange) {
	for i := len(applied) - 1; i >= 0; i-- {
		c := applied[i]
		if err := table.UpdateField(ctx, id, c.field, c.old); err != nil {
			s.logger.Error("failed to restore roster field", "kind", kind, "id", id, "field", c.field, "error", err)
		}
	}
}

func (s *RosterService) Delete(ctx context.Context, kind domain.PersonKind, id int64) error {
	if err := guard(ctx, s.backend); err != nil {
		return err
	}
	table := rosterTable(s.backend, kind)
	p, err := table.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := table.Delete(ctx, id); err != nil {
		return err
	}
	s.images.discard(ctx, p.ImageRef)
	s.logger.Info("roster entry deleted", "kind", kind, "id", id, "name", p.Name)
	return nil
}

// List returns the roster in id order.
func (s *RosterService) List(ctx context.Context, kind domain.PersonKind) ([]domain.Person, error) {
	if err := guard(ctx, s.backend); err != nil {
		return nil, err
	}
	people, err := rosterTable(s.backend, kind).ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s roster: %w", kind, err)
	}
	return people, nil
}

func (s *RosterService) Get(ctx context.Context, kind domain.PersonKind, id int64) (domain.Person, error) {
	if err := guard(ctx, s.backend); err != nil {
		return domain.Person{}, err
	}
	return rosterTable(s.backend, kind).FindByID(ctx, id)
}

// FindPerson returns the first entry, by id, whose name equals name.
func (s *RosterService) FindPerson(ctx context.Context, kind domain.PersonKind, name string) (domain.Person, error) {
	people, err := s.List(ctx, kind)
	if err != nil {
		return domain.Person{}, err
	}
	name = strings.TrimSpace(name)
	for _, p := range people {
		if p.Name == name {
			return p, nil
		}
	}
	return domain.Person{}, fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
}

// PersonCard is what the distribution screen shows next to a selected name.
// Found is false, with only Kind and Name set, when nobody matches.
type PersonCard struct {
	Found      bool              `json:"found"`
	Kind       domain.PersonKind `json:"kind"`
	ID         int64             `json:"id,omitempty"`
	Name       string            `json:"name"`
	Label      string            `json:"label,omitempty"`
	TopSize    string            `json:"top_size,omitempty"`
	BottomSize string            `json:"bottom_size,omitempty"`
	ShoeSize   string            `json:"shoe_size,omitempty"`
	ImageRef   string            `json:"image_ref,omitempty"`
}

// Card never fails for an unknown name; only store errors are returned.
func (s *RosterService) Card(ctx context.Context, kind domain.PersonKind, name string) (PersonCard, error) {
	p, err := s.FindPerson(ctx, kind, name)
	if errors.Is(err, ErrNotFound) {
		return PersonCard{Kind: kind, Name: strings.TrimSpace(name)}, nil
	}
	if err != nil {
		return PersonCard{}, err
	}
	return PersonCard{
		Found:      true,
		Kind:       kind,
		ID:         p.ID,
		Name:       p.Name,
		Label:      p.Label(),
		TopSize:    p.TopSize,
		BottomSize: p.BottomSize,
		ShoeSize:   p.ShoeSize,
		ImageRef:   p.ImageRef,
	}, nil
}
