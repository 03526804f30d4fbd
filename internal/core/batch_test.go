package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printhub/server/internal/core"
)

func TestBatchCancelSkipsMissingAndIneligible(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	batch := core.NewBatchCoordinator(f.lc)

	a, err := f.lc.CreateOrder(ctx, validInput())
	require.NoError(t, err)
	b, err := f.lc.CreateOrder(ctx, validInput())
	require.NoError(t, err)

	// Already collected orders cannot be cancelled.
	c, _ := startPrinting(t, f)
	_, err = f.lc.UpdateProgress(ctx, c.ID, 100)
	require.NoError(t, err)
	_, err = f.lc.Collect(ctx, c.ID)
	require.NoError(t, err)

	res, err := batch.CancelAll(ctx, []string{a.ID, "missing", b.ID, c.ID})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Requested)
	assert.Equal(t, 2, res.Affected)

	for _, id := range []string{a.ID, b.ID} {
		cur, err := f.lc.GetOrder(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, core.StatusCancelled, cur.Status)
	}
	cur, err := f.lc.GetOrder(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCollected, cur.Status)
}

func TestBatchUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	batch := core.NewBatchCoordinator(f.lc)

	a, err := f.lc.CreateOrder(ctx, validInput())
	require.NoError(t, err)
	f.advance(time.Second)
	b, err := f.lc.CreateOrder(ctx, validInput())
	require.NoError(t, err)

	idx := int64(500)
	res, err := batch.UpdateAll(ctx, []string{a.ID, b.ID, "missing"}, core.OrderPatch{PriorityIndex: &idx})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Requested)
	assert.Equal(t, 2, res.Affected)

	cur, err := f.lc.GetOrder(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), cur.PriorityIndex)
}

func TestBatchDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	batch := core.NewBatchCoordinator(f.lc)

	a, err := f.lc.CreateOrder(ctx, validInput())
	require.NoError(t, err)
	b, err := f.lc.CreateOrder(ctx, validInput())
	require.NoError(t, err)

	res, err := batch.DeleteAll(ctx, []string{a.ID, "missing", b.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Requested)
	assert.Equal(t, 2, res.Affected)

	_, err = f.lc.GetOrder(ctx, a.ID)
	require.ErrorIs(t, err, core.ErrOrderNotFound)
}
