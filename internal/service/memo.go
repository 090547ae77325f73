package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/vbonduro/kitroom/internal/domain"
	"github.com/vbonduro/kitroom/internal/store"
)

type memoBackend interface {
	Ping(ctx context.Context) error
	Memos() store.Table[domain.Memo]
}

type MemoService struct {
	backend  memoBackend
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

func NewMemoService(backend memoBackend, logger *slog.Logger) *MemoService {
	return &MemoService{backend: backend, validate: newValidator(), logger: logger, now: time.Now}
}

type MemoRequest struct {
	Date     time.Time `json:"date"`
	Category string    `json:"category" validate:"required,memo_category"`
	Content  string    `json:"content" validate:"required,max=2000"`
}

func (s *MemoService) Add(ctx context.Context, req MemoRequest) (domain.Memo, error) {
	if err := guard(ctx, s.backend); err != nil {
		return domain.Memo{}, err
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := checkStruct(s.validate, req); err != nil {
		return domain.Memo{}, err
	}

	date := req.Date
	if date.IsZero() {
		date = s.now()
	}
	m, err := s.backend.Memos().Append(ctx, domain.Memo{Date: dateOnly(date), Category: req.Category, Content: req.Content})
	if err != nil {
		return domain.Memo{}, fmt.Errorf("failed to add memo: %w", err)
	}
	s.logger.Info("memo added", "id", m.ID, "category", m.Category)
	return m, nil
}

// List returns memos newest first.
func (s *MemoService) List(ctx context.Context) ([]domain.Memo, error) {
	if err := guard(ctx, s.backend); err != nil {
		return nil, err
	}
	memos, err := s.backend.Memos().ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read memos: %w", err)
	}
	slices.SortStableFunc(memos, func(a, b domain.Memo) int {
		return newestFirst(a.Date, b.Date, a.ID, b.ID)
	})
	return memos, nil
}

func (s *MemoService) Delete(ctx context.Context, id int64) error {
	if err := guard(ctx, s.backend); err != nil {
		return err
	}
	if err := s.backend.Memos().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("memo deleted", "id", id)
	return nil
}
