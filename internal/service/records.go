package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vbonduro/kitroom/internal/domain"
	"github.com/vbonduro/kitroom/internal/store"
)

// Records deletes rows from any collection by id, routing through the owning
// service so side effects (photo cleanup, logging) stay in one place.
type Records struct {
	ledger *LedgerService
	roster *RosterService
	memos  *MemoService
}

func NewRecords(ledger *LedgerService, roster *RosterService, memos *MemoService) *Records {
	return &Records{ledger: ledger, roster: roster, memos: memos}
}

func (r *Records) Delete(ctx context.Context, c store.Collection, id int64) error {
	switch c {
	case store.Inventory:
		return r.ledger.DeleteStockLine(ctx, id)
	case store.InboundLogs:
		return r.ledger.DeleteInbound(ctx, id)
	case store.DistributionLogs:
		return r.ledger.DeleteDistribution(ctx, id)
	case store.Players:
		return r.roster.Delete(ctx, domain.Player, id)
	case store.Staff:
		return r.roster.Delete(ctx, domain.Staff, id)
	case store.Memos:
		return r.memos.Delete(ctx, id)
	}
	return fmt.Errorf("unknown collection %q", c)
}

type BulkResult struct {
	Deleted []int64 `json:"deleted"`
	Missing []int64 `json:"missing"`
}

// DeleteMany deletes each id independently. Ids that do not exist are
// reported in Missing; any other failure stops the run and is returned with
// the partial result.
func (r *Records) DeleteMany(ctx context.Context, c store.Collection, ids []int64) (BulkResult, error) {
	res := BulkResult{Deleted: []int64{}, Missing: []int64{}}
	for _, id := range ids {
		err := r.Delete(ctx, c, id)
		switch {
		case err == nil:
			res.Deleted = append(res.Deleted, id)
		case errors.Is(err, ErrNotFound):
			res.Missing = append(res.Missing, id)
		default:
			return res, err
		}
	}
	return res, nil
}
