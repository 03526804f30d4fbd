package driver

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/printhub/server/internal/core"
)

// ProgressReporter is the slice of the engine the simulator drives. Defined
// here, on the consumer side, so the simulator can be tested against a fake.
type ProgressReporter interface {
	ListOrders(ctx context.Context, filter core.OrderFilter) ([]*core.Order, error)
	UpdateProgress(ctx context.Context, id string, pct int) (*core.Order, error)
}

// Simulator is a printer driver for deployments without physical devices.
// Submit accepts everything; a background loop then walks every printing
// order's progress forward so the full lifecycle can be exercised end to end.
type Simulator struct {
	reporter ProgressReporter
	interval time.Duration
	step     int

	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

func NewSimulator(reporter ProgressReporter, interval time.Duration) *Simulator {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Simulator{
		reporter: reporter,
		interval: interval,
		step:     20,
		stopCh:   make(chan struct{}),
	}
}

// Bind attaches the engine after construction. The simulator doubles as the
// engine's printer driver, so the two reference each other; call Bind before
// Start.
func (s *Simulator) Bind(reporter ProgressReporter) {
	s.reporter = reporter
}

func (s *Simulator) Submit(_ context.Context, _, _ string, _ int) error {
	return nil
}

func (s *Simulator) QueryStatus(_ context.Context, _ string) (core.PrinterStatus, error) {
	return core.PrinterIdle, nil
}

// Start launches the progress loop. Safe to call once; Stop waits for it.
func (s *Simulator) Start() {
	s.once.Do(func() {
		s.wg.Add(1)
		go s.loop()
	})
}

func (s *Simulator) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *Simulator) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Simulator) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	printing, err := s.reporter.ListOrders(ctx, core.OrderFilter{
		Statuses: []core.OrderStatus{core.StatusPrinting},
	})
	if err != nil {
		log.Printf("simulator: list printing orders: %v", err)
		return
	}

	for _, o := range printing {
		next := o.ProgressPct + s.step
		if next > 100 {
			next = 100
		}
		if _, err := s.reporter.UpdateProgress(ctx, o.ID, next); err != nil {
			log.Printf("simulator: advance order %s: %v", o.ID, err)
		}
	}
}
