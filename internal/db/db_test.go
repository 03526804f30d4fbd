package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printhub/server/internal/core"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func sampleOrder(id string) *core.Order {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return &core.Order{
		ID:           id,
		CustomerName: "Asha",
		Mobile:       "9876543210",
		JobSpec: core.JobSpec{
			FileName: "notes.pdf",
			FileRef:  "uploads/notes.pdf",
			Pages:    5,
			Copies:   1,
			Color:    core.ColorBW,
			Sides:    core.SidesSingle,
			Size:     core.SizeA4,
		},
		Status:        core.StatusPending,
		PaymentStatus: core.PaymentUnpaid,
		QueueType:     core.QueueNormal,
		PriorityIndex: now.Unix(),
		PriceTotal:    10,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestOrderRoundTrip(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	o := sampleOrder("o1")
	pickup := o.CreatedAt.Add(2 * time.Hour)
	o.PickupTime = &pickup
	require.NoError(t, d.InsertOrder(ctx, o))

	got, err := d.GetOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, o.CustomerName, got.CustomerName)
	assert.Equal(t, o.Pages, got.Pages)
	assert.Equal(t, core.StatusPending, got.Status)
	assert.Equal(t, int64(1), got.Version)
	require.NotNil(t, got.PickupTime)
	assert.True(t, got.PickupTime.Equal(pickup))
	assert.Nil(t, got.PaidAt)
}

func TestGetOrderNotFound(t *testing.T) {
	d := openTestDB(t)
	_, err := d.GetOrder(context.Background(), "nope")
	require.ErrorIs(t, err, core.ErrOrderNotFound)
}

func TestUpdateOrderVersioning(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	o := sampleOrder("o1")
	require.NoError(t, d.InsertOrder(ctx, o))

	o.Status = core.StatusQueued
	require.NoError(t, d.UpdateOrder(ctx, o))
	assert.Equal(t, int64(2), o.Version)

	// A writer holding the old stamp loses.
	stale := sampleOrder("o1")
	stale.Version = 1
	stale.Status = core.StatusCancelled
	require.ErrorIs(t, d.UpdateOrder(ctx, stale), core.ErrVersionConflict)

	got, err := d.GetOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, core.StatusQueued, got.Status)

	missing := sampleOrder("ghost")
	missing.Version = 1
	require.ErrorIs(t, d.UpdateOrder(ctx, missing), core.ErrOrderNotFound)
}

func TestListOrdersFilter(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	a := sampleOrder("a")
	b := sampleOrder("b")
	b.Status = core.StatusQueued
	b.CreatedAt = a.CreatedAt.Add(time.Second)
	c := sampleOrder("c")
	c.QueueType = core.QueueBulk
	c.CreatedAt = a.CreatedAt.Add(2 * time.Second)
	for _, o := range []*core.Order{a, b, c} {
		require.NoError(t, d.InsertOrder(ctx, o))
	}

	all, err := d.ListOrders(ctx, core.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	queued, err := d.ListOrders(ctx, core.OrderFilter{Statuses: []core.OrderStatus{core.StatusQueued}})
	require.NoError(t, err)
	require.Len(t, queued, 1)
	assert.Equal(t, "b", queued[0].ID)

	normal, err := d.ListOrders(ctx, core.OrderFilter{
		Statuses:  []core.OrderStatus{core.StatusPending, core.StatusQueued},
		QueueType: core.QueueNormal,
	})
	require.NoError(t, err)
	assert.Len(t, normal, 2)
}

func TestUpdateOrdersAtomicity(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	a := sampleOrder("a")
	b := sampleOrder("b")
	require.NoError(t, d.InsertOrder(ctx, a))
	require.NoError(t, d.InsertOrder(ctx, b))

	a.PriorityIndex = 1000
	b.PriorityIndex = 2000
	b.Version = 99 // stale
	require.ErrorIs(t, d.UpdateOrders(ctx, []*core.Order{a, b}), core.ErrVersionConflict)

	// Nothing from the batch may have landed.
	got, err := d.GetOrder(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, sampleOrder("a").PriorityIndex, got.PriorityIndex)

	b.Version = 1
	require.NoError(t, d.UpdateOrders(ctx, []*core.Order{a, b}))
	got, err = d.GetOrder(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, int64(2000), got.PriorityIndex)
}

func TestDeleteOrder(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, d.InsertOrder(ctx, sampleOrder("a")))

	ok, err := d.DeleteOrder(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.DeleteOrder(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPrinterRoundTrip(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	p := &core.Printer{
		ID: "p1", Name: "hp-1", Status: core.PrinterIdle,
		PPM: 20, Color: true, A4: true, UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, d.InsertPrinter(ctx, p))

	got, err := d.GetPrinterByName(ctx, "hp-1")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)
	assert.True(t, got.Color)
	assert.False(t, got.A3)

	got.Status = core.PrinterPrinting
	got.CurrentJobID = "o1"
	require.NoError(t, d.UpdatePrinter(ctx, got))

	stale := p.Clone()
	stale.Status = core.PrinterOffline
	require.ErrorIs(t, d.UpdatePrinter(ctx, stale), core.ErrVersionConflict)

	_, err = d.GetPrinter(ctx, "nope")
	require.ErrorIs(t, err, core.ErrPrinterNotFound)
}

func TestSettingsRoundTrip(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	_, err := d.GetRates(ctx)
	require.ErrorIs(t, err, core.ErrNotConfigured)

	rates := &core.Rates{BWSingleA4: 2, BWDuplexA4: 3, ColorSingleA4: 10, ColorDuplexA4: 15, MinCharge: 5}
	require.NoError(t, d.SetRates(ctx, rates))

	got, err := d.GetRates(ctx)
	require.NoError(t, err)
	assert.Equal(t, rates.ColorDuplexA4, got.ColorDuplexA4)

	th := &core.Thresholds{SmallPages: 10, ChunkPages: 50, AgingMinutes: 5}
	require.NoError(t, d.SetThresholds(ctx, th))
	gotTh, err := d.GetThresholds(ctx)
	require.NoError(t, err)
	assert.Equal(t, th, gotTh)

	require.NoError(t, d.SetSetting(ctx, "admin_password", "hash"))
	v, err := d.GetSetting(ctx, "admin_password")
	require.NoError(t, err)
	assert.Equal(t, "hash", v)
}
