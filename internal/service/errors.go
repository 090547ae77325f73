package service

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vbonduro/kitroom/internal/domain"
	"github.com/vbonduro/kitroom/internal/store"
	"github.com/vbonduro/kitroom/internal/vocab"
)

var (
	ErrNotFound = store.ErrNotFound
	// ErrBackendUnavailable is returned by every operation while the record
	// store cannot be reached. It is never used for an empty result.
	ErrBackendUnavailable = store.ErrUnavailable
)

// ValidationError reports rejected input per field. Nothing was changed.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid input: " + strings.Join(parts, ", ")
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// checkStruct runs v over req and converts validator failures into a
// *ValidationError.
func checkStruct(v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return &ValidationError{Fields: vocab.FormatErrors(verrs)}
	}
	return fmt.Errorf("failed to validate request: %w", err)
}

// InsufficientStockError rejects a distribution larger than the stock on
// hand. Nothing was changed.
type InsufficientStockError struct {
	Key       domain.StockKey
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d available, %d requested", e.Key, e.Available, e.Requested)
}
