package core

import "time"

// urgentWindow is how close a requested pickup must be for a job to jump to
// the urgent queue. Overdue pickups also qualify.
const urgentWindow = time.Hour

// Classify buckets a job spec into a service queue:
//
//  1. pickup time set and due within the urgent window -> urgent
//  2. pages at or under the small-job threshold -> normal
//  3. otherwise -> bulk
//
// Classification runs once at creation and is never recomputed as time
// passes; an order created "normal" stays normal even as its pickup time
// approaches. Only an explicit re-submission re-classifies. Known
// limitation, kept deliberately so queue membership stays stable.
func Classify(spec JobSpec, now time.Time, th *Thresholds) QueueType {
	if th == nil {
		th = DefaultThresholds()
	}

	if spec.PickupTime != nil && spec.PickupTime.Sub(now) <= urgentWindow {
		return QueueUrgent
	}

	if spec.Pages <= th.SmallPages {
		return QueueNormal
	}

	return QueueBulk
}
