// Package metrics exposes order flow counters for Prometheus scraping.
package metrics

import (
	"context"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/printhub/server/internal/core"
)

const listTimeout = 5 * time.Second

// OrderLister is the slice of the engine the queue depth gauge reads from.
type OrderLister interface {
	ListOrders(ctx context.Context, filter core.OrderFilter) ([]*core.Order, error)
}

// Collector counts lifecycle events by type. It implements core.EventSink so
// it plugs into the engine like any other sink; the increments are cheap
// atomic operations. Queue depth is not derived from event arithmetic, which
// cannot see whether a cancelled or deleted order was still waiting; it is
// counted from the store at scrape time instead.
type Collector struct {
	ordersCreated     prometheus.Counter
	paymentsConfirmed prometheus.Counter
	ordersPrinted     prometheus.Counter
	ordersCollected   prometheus.Counter
	ordersCancelled   prometheus.Counter
	ordersErrored     prometheus.Counter

	revenue prometheus.Counter

	queueDepth *prometheus.Desc
	lister     OrderLister
}

func NewCollector() *Collector {
	return newCollector(prometheus.DefaultRegisterer)
}

func newCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "printhub_orders_created_total",
			Help: "Orders accepted at the counter.",
		}),
		paymentsConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "printhub_payments_confirmed_total",
			Help: "Orders that moved to paid.",
		}),
		ordersPrinted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "printhub_orders_printed_total",
			Help: "Orders submitted to a printer.",
		}),
		ordersCollected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "printhub_orders_collected_total",
			Help: "Orders handed over to the customer.",
		}),
		ordersCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "printhub_orders_cancelled_total",
			Help: "Orders cancelled before completion.",
		}),
		ordersErrored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "printhub_orders_errored_total",
			Help: "Orders that ended in the error state.",
		}),
		revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "printhub_revenue_total",
			Help: "Sum of confirmed payment amounts.",
		}),
		queueDepth: prometheus.NewDesc(
			"printhub_queue_depth",
			"Waiting orders per queue.",
			[]string{"queue"}, nil),
	}

	reg.MustRegister(
		c.ordersCreated,
		c.paymentsConfirmed,
		c.ordersPrinted,
		c.ordersCollected,
		c.ordersCancelled,
		c.ordersErrored,
		c.revenue,
		c,
	)
	return c
}

// BindQueueSource attaches the order source the depth gauge is counted from.
// Until bound, the gauge is absent from scrapes.
func (c *Collector) BindQueueSource(l OrderLister) {
	c.lister = l
}

func (c *Collector) OrderEvent(event string, o *core.Order) {
	switch event {
	case core.EventOrderCreated:
		c.ordersCreated.Inc()
	case core.EventPaymentConfirmed:
		c.paymentsConfirmed.Inc()
		c.revenue.Add(o.PriceTotal)
	case core.EventOrderPrinting:
		c.ordersPrinted.Inc()
	case core.EventOrderCollected:
		c.ordersCollected.Inc()
	case core.EventOrderCancelled:
		c.ordersCancelled.Inc()
	case core.EventOrderError:
		c.ordersErrored.Inc()
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.queueDepth
}

// Collect counts Pending and Queued orders per queue at scrape time.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c.lister == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
	defer cancel()

	waiting, err := c.lister.ListOrders(ctx, core.OrderFilter{
		Statuses: []core.OrderStatus{core.StatusPending, core.StatusQueued},
	})
	if err != nil {
		log.Printf("metrics: list waiting orders: %v", err)
		return
	}

	depth := map[core.QueueType]int{
		core.QueueUrgent: 0,
		core.QueueNormal: 0,
		core.QueueBulk:   0,
	}
	for _, o := range waiting {
		depth[o.QueueType]++
	}
	for qt, n := range depth {
		ch <- prometheus.MustNewConstMetric(c.queueDepth, prometheus.GaugeValue, float64(n), string(qt))
	}
}
