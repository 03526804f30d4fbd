package core

import (
	"sort"
	"time"
)

// reindexStep is the spacing between priority indices after a reindex,
// leaving room for midpoint insertions.
const reindexStep = 1000

// Score computes the advisory priority score shown to operators. It is never
// the sort key of record; authoritative ordering is by PriorityIndex through
// the queue comparator.
//
//	score = 5*[urgent] + 3/max(pages,1) + 2*agingBoost
//
// agingBoost ramps from 0 to 1 as waiting time exceeds the aging threshold.
func Score(o *Order, now time.Time, th *Thresholds) float64 {
	if th == nil {
		th = DefaultThresholds()
	}

	score := 0.0
	if o.QueueType == QueueUrgent {
		score += 5.0
	}

	pages := o.Pages
	if pages < 1 {
		pages = 1
	}
	score += 3.0 / float64(pages)

	ageMinutes := now.Sub(o.CreatedAt).Minutes()
	aging := float64(th.AgingMinutes)
	if aging > 0 && ageMinutes > aging {
		boost := (ageMinutes - aging) / aging
		if boost > 1 {
			boost = 1
		}
		score += 2.0 * boost
	}

	return score
}

// QueueLess returns the authoritative comparator for a queue type:
// urgent and bulk serve first-come-first-served by PriorityIndex; normal is
// shortest-job-first by pages, tie-broken by PriorityIndex.
func QueueLess(qt QueueType) func(a, b *Order) bool {
	if qt == QueueNormal {
		return func(a, b *Order) bool {
			if a.Pages != b.Pages {
				return a.Pages < b.Pages
			}
			return a.PriorityIndex < b.PriorityIndex
		}
	}
	return func(a, b *Order) bool {
		return a.PriorityIndex < b.PriorityIndex
	}
}

// SortQueue orders the slice in place by the queue comparator. The sort is
// stable so reindexing never reorders relative to the comparator.
func SortQueue(orders []*Order, qt QueueType) {
	less := QueueLess(qt)
	sort.SliceStable(orders, func(i, j int) bool {
		return less(orders[i], orders[j])
	})
}

// Reindex renumbers the queue's priority indices in comparator order using
// fixed steps, restoring headroom for future midpoint insertions. Input
// orders must all belong to the same queue type. The slice is sorted and
// mutated in place and returned for convenience; persisting the result
// atomically is the caller's job.
func Reindex(orders []*Order, qt QueueType) []*Order {
	SortQueue(orders, qt)
	for i, o := range orders {
		o.PriorityIndex = int64(i+1) * reindexStep
	}
	return orders
}
