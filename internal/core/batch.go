package core

import (
	"context"
	"log"
)

// BatchResult reports how much of a bulk operation took effect. Per-id
// failure detail is deliberately not returned: missing or ineligible ids are
// skipped and the caller compares counts.
type BatchResult struct {
	Requested int `json:"requestedCount"`
	Affected  int `json:"affectedCount"`
}

// BatchCoordinator applies an operation across many orders, one at a time
// through the normal lifecycle guards. There is no cross-order atomicity; a
// batch that half-succeeds leaves the succeeded half applied.
type BatchCoordinator struct {
	lc *Lifecycle
}

func NewBatchCoordinator(lc *Lifecycle) *BatchCoordinator {
	return &BatchCoordinator{lc: lc}
}

// CancelAll cancels every eligible order in ids. Orders that are missing or
// not cancellable are skipped, not errors.
func (b *BatchCoordinator) CancelAll(ctx context.Context, ids []string) (BatchResult, error) {
	res := BatchResult{Requested: len(ids)}
	for _, id := range ids {
		if _, err := b.lc.Cancel(ctx, id); err != nil {
			continue
		}
		res.Affected++
	}
	return res, nil
}

// UpdateAll applies the same patch to every order in ids, skipping any the
// patch does not apply to.
func (b *BatchCoordinator) UpdateAll(ctx context.Context, ids []string, patch OrderPatch) (BatchResult, error) {
	res := BatchResult{Requested: len(ids)}
	for _, id := range ids {
		if _, err := b.lc.UpdateOrder(ctx, id, patch); err != nil {
			continue
		}
		res.Affected++
	}
	return res, nil
}

// DeleteAll hard-deletes orders, bypassing the state machine. This is the
// administrative escape hatch for purging records; operational flows cancel
// instead.
func (b *BatchCoordinator) DeleteAll(ctx context.Context, ids []string) (BatchResult, error) {
	res := BatchResult{Requested: len(ids)}
	for _, id := range ids {
		ok, err := b.lc.orders.DeleteOrder(ctx, id)
		if err != nil {
			log.Printf("batch: delete order %s: %v", id, err)
			continue
		}
		if ok {
			res.Affected++
		}
	}
	return res, nil
}
