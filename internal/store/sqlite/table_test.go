package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/kitroom/internal/db"
	"github.com/vbonduro/kitroom/internal/domain"
	"github.com/vbonduro/kitroom/internal/store"
)

func openTestDB(t *testing.T) *sql.DB {
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func day(s string) time.Time {
	t, _ := time.Parse(store.DateLayout, s)
	return t
}

func TestAppendAssignsSequentialIDs(t *testing.T) {
	b := NewBackend(openTestDB(t))
	ctx := context.Background()

	first, err := b.Inventory().Append(ctx, domain.StockLine{Date: day("2025-01-02"), Category: "양말", ItemName: "Sock", Size: "M", Quantity: 5})
	require.NoError(t, err)
	second, err := b.Inventory().Append(ctx, domain.StockLine{Date: day("2025-01-02"), Category: "양말", ItemName: "Sock", Size: "L", Quantity: 2})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	got, err := b.Inventory().FindByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestDeletedIDIsNotReissued(t *testing.T) {
	d := openTestDB(t)
	b := NewBackend(d)
	ctx := context.Background()

	m1, err := b.Memos().Append(ctx, domain.Memo{Category: "기타 비고", Content: "a"})
	require.NoError(t, err)
	m2, err := b.Memos().Append(ctx, domain.Memo{Category: "기타 비고", Content: "b"})
	require.NoError(t, err)
	require.NoError(t, b.Memos().Delete(ctx, m2.ID))

	// A fresh backend over the same database still remembers id 2.
	m3, err := NewBackend(d).Memos().Append(ctx, domain.Memo{Category: "기타 비고", Content: "c"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), m1.ID)
	assert.Equal(t, int64(3), m3.ID)
}

func TestAppendSeesRowsWrittenOutsideTheStore(t *testing.T) {
	d := openTestDB(t)
	_, err := d.Exec(`INSERT INTO players (id, name) VALUES (41, 'Imported')`)
	require.NoError(t, err)

	p, err := NewBackend(d).Players().Append(context.Background(), domain.Person{Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.ID)
	assert.Equal(t, domain.Player, p.Kind)
}

func TestCollectionsHaveIndependentIDs(t *testing.T) {
	b := NewBackend(openTestDB(t))
	ctx := context.Background()

	p, err := b.Players().Append(ctx, domain.Person{Name: "Lee", BackNumber: "10"})
	require.NoError(t, err)
	s, err := b.Staff().Append(ctx, domain.Person{Name: "Kim", Role: "코치"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, int64(1), s.ID)

	staff, err := b.Staff().ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, "코치", staff[0].Role)
	assert.Equal(t, domain.Staff, staff[0].Kind)
}

func TestUpdateField(t *testing.T) {
	b := NewBackend(openTestDB(t))
	ctx := context.Background()

	line, err := b.Inventory().Append(ctx, domain.StockLine{Category: "양말", ItemName: "Sock", Size: "M", Quantity: 5})
	require.NoError(t, err)

	require.NoError(t, b.Inventory().UpdateField(ctx, line.ID, "quantity", 2))
	got, err := b.Inventory().FindByID(ctx, line.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)

	assert.ErrorIs(t, b.Inventory().UpdateField(ctx, line.ID, "quantity", -1), store.ErrInvalidValue)
	assert.ErrorIs(t, b.Inventory().UpdateField(ctx, line.ID, "size; DROP TABLE inventory", "x"), store.ErrUnknownField)
	assert.ErrorIs(t, b.Inventory().UpdateField(ctx, 99, "quantity", 1), store.ErrNotFound)
}

func TestDistributionTargetIDRoundTrip(t *testing.T) {
	b := NewBackend(openTestDB(t))
	ctx := context.Background()

	id := int64(3)
	_, err := b.DistributionLogs().Append(ctx, domain.DistributionRecord{TargetType: domain.Player, TargetID: &id, TargetName: "Lee", Category: "양말", ItemName: "Sock", Size: "M", Quantity: 1})
	require.NoError(t, err)
	_, err = b.DistributionLogs().Append(ctx, domain.DistributionRecord{TargetType: domain.Staff, TargetName: "Unknown", Category: "양말", ItemName: "Sock", Size: "M", Quantity: 1})
	require.NoError(t, err)

	logs, err := b.DistributionLogs().ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.NotNil(t, logs[0].TargetID)
	assert.Equal(t, int64(3), *logs[0].TargetID)
	assert.Nil(t, logs[1].TargetID)
}

func TestDeleteMissing(t *testing.T) {
	b := NewBackend(openTestDB(t))
	assert.ErrorIs(t, b.InboundLogs().Delete(context.Background(), 5), store.ErrNotFound)

	_, err := b.InboundLogs().FindByID(context.Background(), 5)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPingClosedDatabase(t *testing.T) {
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	b := NewBackend(d)
	require.NoError(t, b.Ping(context.Background()))

	require.NoError(t, d.Close())
	assert.ErrorIs(t, b.Ping(context.Background()), store.ErrUnavailable)
}
