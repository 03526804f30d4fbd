// Package store provides an in-memory implementation of the core storage
// interfaces. It backs tests and ephemeral deployments; the sqlite adapter in
// internal/db is the durable one.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/printhub/server/internal/core"
)

// Memory holds all records behind one RWMutex. Records are cloned on every
// read and write so callers never share memory with the store.
type Memory struct {
	mu         sync.RWMutex
	orders     map[string]*core.Order
	printers   map[string]*core.Printer
	rates      *core.Rates
	thresholds *core.Thresholds
	settings   map[string]string
}

func NewMemory() *Memory {
	return &Memory{
		orders:   make(map[string]*core.Order),
		printers: make(map[string]*core.Printer),
		settings: make(map[string]string),
	}
}

func (m *Memory) InsertOrder(_ context.Context, o *core.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	o.Version = 1
	m.orders[o.ID] = o.Clone()
	return nil
}

func (m *Memory) GetOrder(_ context.Context, id string) (*core.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, core.ErrOrderNotFound
	}
	return o.Clone(), nil
}

func (m *Memory) ListOrders(_ context.Context, filter core.OrderFilter) ([]*core.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*core.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if filter.Match(o) {
			out = append(out, o.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) UpdateOrder(_ context.Context, o *core.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateOrderLocked(o)
}

func (m *Memory) updateOrderLocked(o *core.Order) error {
	cur, ok := m.orders[o.ID]
	if !ok {
		return core.ErrOrderNotFound
	}
	if cur.Version != o.Version {
		return core.ErrVersionConflict
	}
	o.Version++
	m.orders[o.ID] = o.Clone()
	return nil
}

func (m *Memory) UpdateOrders(_ context.Context, orders []*core.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Verify every stamp before applying anything, so the batch is all or
	// nothing under the single lock.
	for _, o := range orders {
		cur, ok := m.orders[o.ID]
		if !ok {
			return core.ErrOrderNotFound
		}
		if cur.Version != o.Version {
			return core.ErrVersionConflict
		}
	}
	for _, o := range orders {
		o.Version++
		m.orders[o.ID] = o.Clone()
	}
	return nil
}

func (m *Memory) DeleteOrder(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.orders[id]; !ok {
		return false, nil
	}
	delete(m.orders, id)
	return true, nil
}

func (m *Memory) InsertPrinter(_ context.Context, p *core.Printer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.Version = 1
	m.printers[p.ID] = p.Clone()
	return nil
}

func (m *Memory) GetPrinter(_ context.Context, id string) (*core.Printer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.printers[id]
	if !ok {
		return nil, core.ErrPrinterNotFound
	}
	return p.Clone(), nil
}

func (m *Memory) GetPrinterByName(_ context.Context, name string) (*core.Printer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.printers {
		if p.Name == name {
			return p.Clone(), nil
		}
	}
	return nil, core.ErrPrinterNotFound
}

func (m *Memory) ListPrinters(_ context.Context) ([]*core.Printer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*core.Printer, 0, len(m.printers))
	for _, p := range m.printers {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) UpdatePrinter(_ context.Context, p *core.Printer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.printers[p.ID]
	if !ok {
		return core.ErrPrinterNotFound
	}
	if cur.Version != p.Version {
		return core.ErrVersionConflict
	}
	p.Version++
	m.printers[p.ID] = p.Clone()
	return nil
}

func (m *Memory) DeletePrinter(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.printers[id]; !ok {
		return false, nil
	}
	delete(m.printers, id)
	return true, nil
}

func (m *Memory) GetRates(_ context.Context) (*core.Rates, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.rates == nil {
		return nil, core.ErrNotConfigured
	}
	r := *m.rates
	return &r, nil
}

func (m *Memory) SetRates(_ context.Context, r *core.Rates) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := *r
	m.rates = &c
	return nil
}

func (m *Memory) GetThresholds(_ context.Context) (*core.Thresholds, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.thresholds == nil {
		return nil, core.ErrNotConfigured
	}
	t := *m.thresholds
	return &t, nil
}

func (m *Memory) SetThresholds(_ context.Context, t *core.Thresholds) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := *t
	m.thresholds = &c
	return nil
}

func (m *Memory) GetSetting(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.settings[key]
	if !ok {
		return "", core.ErrNotConfigured
	}
	return v, nil
}

func (m *Memory) SetSetting(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings[key] = value
	return nil
}
