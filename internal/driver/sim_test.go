package driver

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printhub/server/internal/core"
)

type fakeReporter struct {
	mu     sync.Mutex
	orders map[string]*core.Order
}

func (f *fakeReporter) ListOrders(_ context.Context, filter core.OrderFilter) ([]*core.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*core.Order
	for _, o := range f.orders {
		if filter.Match(o) {
			out = append(out, o.Clone())
		}
	}
	return out, nil
}

func (f *fakeReporter) UpdateProgress(_ context.Context, id string, pct int) (*core.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.orders[id]
	if !ok {
		return nil, core.ErrOrderNotFound
	}
	if pct > o.ProgressPct {
		o.ProgressPct = pct
	}
	if o.ProgressPct >= 100 {
		o.Status = core.StatusReady
	}
	return o.Clone(), nil
}

func (f *fakeReporter) progress(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[id].ProgressPct
}

func TestSimulatorAdvancesPrintingOrders(t *testing.T) {
	reporter := &fakeReporter{orders: map[string]*core.Order{
		"printing": {ID: "printing", Status: core.StatusPrinting},
		"waiting":  {ID: "waiting", Status: core.StatusQueued},
	}}

	sim := NewSimulator(reporter, 10*time.Millisecond)
	sim.Start()
	defer sim.Stop()

	require.Eventually(t, func() bool {
		return reporter.progress("printing") >= 100
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 0, reporter.progress("waiting"))
}

func TestSimulatorAcceptsEverySubmission(t *testing.T) {
	sim := NewSimulator(nil, time.Second)
	assert.NoError(t, sim.Submit(context.Background(), "hp-1", "uploads/a.pdf", 2))

	status, err := sim.QueryStatus(context.Background(), "hp-1")
	require.NoError(t, err)
	assert.Equal(t, core.PrinterIdle, status)
}
