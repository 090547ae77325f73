package service

import (
	"context"
	"errors"
	"fmt"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// guard fails fast when the record store is unreachable so callers never
// mistake an outage for an empty collection.
func guard(ctx context.Context, p pinger) error {
	err := p.Ping(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrBackendUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
}
