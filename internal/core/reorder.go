package core

import (
	"context"
	"fmt"
)

// MoveDirection is an operator nudge within a queue.
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// Reorder moves a waiting order one position within its queue's dispatch
// sequence by giving it a priority index between its neighbor's index and the
// one beyond. When the gap between those indices is exhausted the whole queue
// is reindexed in one atomic write and the move retried. The queue mutex
// serializes concurrent moves in the same queue; readers see either all old
// or all new indices.
//
// An order already at the edge it is being moved toward is returned
// unchanged.
func (l *Lifecycle) Reorder(ctx context.Context, id string, dir MoveDirection) (*Order, error) {
	if dir != MoveUp && dir != MoveDown {
		return nil, invalidField("direction", "must be up or down")
	}

	probe, err := l.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	qmu := l.queueMu[probe.QueueType]
	if qmu == nil {
		return nil, invalidField("queueType", "unknown queue")
	}
	qmu.Lock()
	defer qmu.Unlock()

	for attempt := 0; attempt < 2; attempt++ {
		queue, err := l.ListQueue(ctx, probe.QueueType)
		if err != nil {
			return nil, err
		}

		pos := -1
		for i, o := range queue {
			if o.ID == id {
				pos = i
				break
			}
		}
		if pos == -1 {
			return nil, invalidField("id", "order is not waiting in a queue")
		}

		o := queue[pos]
		var lo, hi int64
		switch dir {
		case MoveUp:
			if pos == 0 {
				return o, nil
			}
			hi = queue[pos-1].PriorityIndex
			if pos >= 2 {
				lo = queue[pos-2].PriorityIndex
			} else {
				lo = hi - 2*reindexStep
			}
		case MoveDown:
			if pos == len(queue)-1 {
				return o, nil
			}
			lo = queue[pos+1].PriorityIndex
			if pos+2 < len(queue) {
				hi = queue[pos+2].PriorityIndex
			} else {
				hi = lo + 2*reindexStep
			}
		}

		mid := lo + (hi-lo)/2
		if mid == lo || mid == hi {
			// No integer left between the neighbors; renumber and retry.
			now := l.now()
			Reindex(queue, probe.QueueType)
			for _, q := range queue {
				q.UpdatedAt = now
			}
			if err := l.orders.UpdateOrders(ctx, queue); err != nil {
				return nil, fmt.Errorf("failed to reindex %s queue: %w", probe.QueueType, err)
			}
			continue
		}

		return l.withOrder(ctx, id, func(o *Order) error {
			o.PriorityIndex = mid
			if th, err := l.Thresholds(ctx); err == nil {
				o.PriorityScore = Score(o, l.now(), th)
			}
			return nil
		})
	}

	return nil, fmt.Errorf("reorder of order %s did not converge", id)
}
