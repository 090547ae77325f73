package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/kitroom/internal/domain"
	"github.com/vbonduro/kitroom/internal/store"
)

func TestDeleteManyReportsMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.inbound(t, "양말", "A", "M", 1)
	f.inbound(t, "양말", "B", "M", 1)
	f.inbound(t, "양말", "C", "M", 1)

	res, err := f.records.DeleteMany(ctx, store.Inventory, []int64{1, 7, 3})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, res.Deleted)
	assert.Equal(t, []int64{7}, res.Missing)

	lines := f.stock(t)
	require.Len(t, lines, 1)
	assert.Equal(t, "B", lines[0].ItemName)
	assert.Equal(t, 3, f.inboundCount(t))
}

func TestDeleteRoutesEveryCollection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.inbound(t, "양말", "Sock", "M", 5)
	_, err := f.ledger.Distribute(ctx, DistributionRequest{TargetType: "player", TargetName: "Lee", Category: "양말", ItemName: "Sock", Size: "M", Quantity: 1})
	require.NoError(t, err)
	_, err = f.roster.Add(ctx, domain.Player, PersonRequest{Name: "Lee"})
	require.NoError(t, err)
	_, err = f.roster.Add(ctx, domain.Staff, PersonRequest{Name: "Kim", Role: "코치"})
	require.NoError(t, err)
	_, err = f.memos.Add(ctx, MemoRequest{Category: "기타 비고", Content: "x"})
	require.NoError(t, err)

	for _, c := range []store.Collection{store.DistributionLogs, store.InboundLogs, store.Inventory, store.Players, store.Staff, store.Memos} {
		assert.NoError(t, f.records.Delete(ctx, c, 1), c)
		assert.ErrorIs(t, f.records.Delete(ctx, c, 1), ErrNotFound, c)
	}
}

func TestDeleteManyStopsOnOutage(t *testing.T) {
	f := newFixture(t)
	f.backend.Disconnect(errors.New("offline"))

	res, err := f.records.DeleteMany(context.Background(), store.Memos, []int64{1, 2})
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.Empty(t, res.Deleted)
}
