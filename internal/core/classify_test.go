package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	soon := now.Add(30 * time.Minute)
	later := now.Add(3 * time.Hour)
	past := now.Add(-10 * time.Minute)

	tests := []struct {
		name string
		spec JobSpec
		want QueueType
	}{
		{"pickup within the hour", JobSpec{Pages: 50, PickupTime: &soon}, QueueUrgent},
		{"overdue pickup", JobSpec{Pages: 50, PickupTime: &past}, QueueUrgent},
		{"distant pickup falls through to size", JobSpec{Pages: 5, PickupTime: &later}, QueueNormal},
		{"no pickup, small job", JobSpec{Pages: 15}, QueueNormal},
		{"no pickup, large job", JobSpec{Pages: 16}, QueueBulk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.spec, now, DefaultThresholds()))
		})
	}
}

func TestClassifyCustomSmallPages(t *testing.T) {
	now := time.Now()
	th := &Thresholds{SmallPages: 5, ChunkPages: 100, AgingMinutes: 12}

	assert.Equal(t, QueueNormal, Classify(JobSpec{Pages: 5}, now, th))
	assert.Equal(t, QueueBulk, Classify(JobSpec{Pages: 6}, now, th))
}
