package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printhub/server/internal/core"
)

func sampleOrder(id string, created time.Time) *core.Order {
	return &core.Order{
		ID:            id,
		CustomerName:  "Asha",
		Mobile:        "9876543210",
		JobSpec:       core.JobSpec{FileName: "a.pdf", Pages: 3, Copies: 1, Color: core.ColorBW, Sides: core.SidesSingle, Size: core.SizeA4},
		Status:        core.StatusPending,
		PaymentStatus: core.PaymentUnpaid,
		QueueType:     core.QueueNormal,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func TestMemoryOrderCRUD(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	now := time.Now()

	o := sampleOrder("o1", now)
	require.NoError(t, m.InsertOrder(ctx, o))

	got, err := m.GetOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)

	// Reads are isolated copies; mutating one must not leak into the store.
	got.CustomerName = "tampered"
	again, err := m.GetOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", again.CustomerName)

	_, err = m.GetOrder(ctx, "nope")
	require.ErrorIs(t, err, core.ErrOrderNotFound)

	ok, err := m.DeleteOrder(ctx, "o1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = m.DeleteOrder(ctx, "o1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryOrderCAS(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	o := sampleOrder("o1", time.Now())
	require.NoError(t, m.InsertOrder(ctx, o))

	first, err := m.GetOrder(ctx, "o1")
	require.NoError(t, err)
	second, err := m.GetOrder(ctx, "o1")
	require.NoError(t, err)

	first.Status = core.StatusQueued
	require.NoError(t, m.UpdateOrder(ctx, first))
	assert.Equal(t, int64(2), first.Version)

	second.Status = core.StatusCancelled
	require.ErrorIs(t, m.UpdateOrder(ctx, second), core.ErrVersionConflict)
}

func TestMemoryUpdateOrdersAllOrNothing(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	now := time.Now()

	a := sampleOrder("a", now)
	b := sampleOrder("b", now)
	require.NoError(t, m.InsertOrder(ctx, a))
	require.NoError(t, m.InsertOrder(ctx, b))

	a.PriorityIndex = 1000
	b.PriorityIndex = 2000
	b.Version = 42
	require.ErrorIs(t, m.UpdateOrders(ctx, []*core.Order{a, b}), core.ErrVersionConflict)

	got, err := m.GetOrder(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.PriorityIndex)
}

func TestMemoryListOrdersSortedByCreation(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, m.InsertOrder(ctx, sampleOrder("late", base.Add(time.Minute))))
	require.NoError(t, m.InsertOrder(ctx, sampleOrder("early", base)))

	out, err := m.ListOrders(ctx, core.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "early", out[0].ID)
}

func TestMemoryPrinters(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	p := &core.Printer{ID: "p1", Name: "hp-1", Status: core.PrinterIdle, A4: true}
	require.NoError(t, m.InsertPrinter(ctx, p))

	got, err := m.GetPrinterByName(ctx, "hp-1")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)

	got.Status = core.PrinterOffline
	require.NoError(t, m.UpdatePrinter(ctx, got))

	stale := &core.Printer{ID: "p1", Name: "hp-1", Version: 1}
	require.ErrorIs(t, m.UpdatePrinter(ctx, stale), core.ErrVersionConflict)

	_, err = m.GetPrinterByName(ctx, "ghost")
	require.ErrorIs(t, err, core.ErrPrinterNotFound)
}

func TestMemorySettings(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.GetThresholds(ctx)
	require.ErrorIs(t, err, core.ErrNotConfigured)

	require.NoError(t, m.SetThresholds(ctx, core.DefaultThresholds()))
	th, err := m.GetThresholds(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.DefaultThresholds(), th)

	_, err = m.GetSetting(ctx, "jwt_secret")
	require.ErrorIs(t, err, core.ErrNotConfigured)
	require.NoError(t, m.SetSetting(ctx, "jwt_secret", "s"))
	v, err := m.GetSetting(ctx, "jwt_secret")
	require.NoError(t, err)
	assert.Equal(t, "s", v)
}
