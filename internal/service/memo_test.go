package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoAddListDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	old, err := f.memos.Add(ctx, MemoRequest{Date: time.Date(2024, 11, 20, 9, 0, 0, 0, time.UTC), Category: "드래프트", Content: "first round pick signed"})
	require.NoError(t, err)
	recent, err := f.memos.Add(ctx, MemoRequest{Category: "부상/재활", Content: "  hamstring, two weeks  "})
	require.NoError(t, err)
	assert.Equal(t, "hamstring, two weeks", recent.Content)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), recent.Date)

	memos, err := f.memos.List(ctx)
	require.NoError(t, err)
	require.Len(t, memos, 2)
	assert.Equal(t, recent.ID, memos[0].ID)
	assert.Equal(t, old.ID, memos[1].ID)

	require.NoError(t, f.memos.Delete(ctx, old.ID))
	assert.ErrorIs(t, f.memos.Delete(ctx, old.ID), ErrNotFound)
}

func TestMemoValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.memos.Add(context.Background(), MemoRequest{Category: "잡담", Content: " "})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "unknown memo category", verr.Fields["category"])
	assert.Equal(t, "is required", verr.Fields["content"])
	assert.Equal(t, "invalid input: category: unknown memo category, content: is required", verr.Error())
}
