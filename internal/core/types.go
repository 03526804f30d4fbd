package core

import (
	"context"
	"io"
	"time"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusQueued    OrderStatus = "Queued"
	StatusPrinting  OrderStatus = "Printing"
	StatusReady     OrderStatus = "Ready"
	StatusCollected OrderStatus = "Collected"
	StatusCancelled OrderStatus = "Cancelled"
	StatusError     OrderStatus = "Error"
)

// IsTerminal reports whether no further transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCollected || s == StatusCancelled || s == StatusError
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type QueueType string

const (
	QueueUrgent QueueType = "urgent"
	QueueNormal QueueType = "normal"
	QueueBulk   QueueType = "bulk"
)

type ColorMode string

const (
	ColorBW    ColorMode = "bw"
	ColorColor ColorMode = "color"
)

type DuplexMode string

const (
	SidesSingle DuplexMode = "single"
	SidesDuplex DuplexMode = "duplex"
)

type PaperSize string

const (
	SizeA4 PaperSize = "A4"
	SizeA3 PaperSize = "A3"
)

type PrinterStatus string

const (
	PrinterIdle     PrinterStatus = "idle"
	PrinterPrinting PrinterStatus = "printing"
	PrinterOffline  PrinterStatus = "offline"
	PrinterError    PrinterStatus = "error"
)

// JobSpec is the immutable print request: what to print and how. It is fixed
// at order creation; only an explicit re-submission produces a new spec.
type JobSpec struct {
	FileName   string     `json:"fileName"`
	FileRef    string     `json:"filePath,omitempty"`
	Pages      int        `json:"pages"`
	Copies     int        `json:"copies"`
	Color      ColorMode  `json:"color"`
	Sides      DuplexMode `json:"sides"`
	Size       PaperSize  `json:"size"`
	PickupTime *time.Time `json:"pickupTime,omitempty"`
}

// Order is a walk-up print job. Control fields (status, payment, queue
// placement, printer assignment, progress) are mutated only by Lifecycle.
type Order struct {
	ID           string `json:"id"`
	CustomerName string `json:"customerName"`
	Mobile       string `json:"mobile"`
	JobSpec

	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	TransactionID string        `json:"transactionId,omitempty"`
	PaidAt        *time.Time    `json:"paidAt,omitempty"`

	QueueType     QueueType `json:"queueType"`
	PriorityIndex int64     `json:"priorityIndex"`
	PriorityScore float64   `json:"priorityScore"`

	AssignedPrinterID string  `json:"assignedPrinterId,omitempty"`
	ProgressPct       int     `json:"progressPct"`
	PriceTotal        float64 `json:"priceTotal"`

	// Version is the optimistic-concurrency stamp checked by stores on write.
	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a shallow copy safe to hand to callers.
func (o *Order) Clone() *Order {
	c := *o
	return &c
}

// Printer is a proxy for a physical output device. Capabilities are set at
// registration; runtime state is written by Lifecycle and status updates.
type Printer struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Status PrinterStatus `json:"status"`
	PPM    int           `json:"ppm"`

	Color  bool `json:"color"`
	Duplex bool `json:"duplex"`
	A4     bool `json:"a4"`
	A3     bool `json:"a3"`

	CurrentJobID string `json:"currentJobId,omitempty"`
	ProgressPct  int    `json:"progressPct"`

	Version   int64     `json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Printer) Clone() *Printer {
	c := *p
	return &c
}

// Available reports whether the printer can accept work at all.
func (p *Printer) Available() bool {
	return p.Status == PrinterIdle || p.Status == PrinterPrinting
}

// Rates is the per-page price table. A3 pricing is derived as twice the A4
// rate and therefore carries no keys of its own.
type Rates struct {
	BWSingleA4    float64   `json:"bwSingleA4"`
	BWDuplexA4    float64   `json:"bwDuplexA4"`
	ColorSingleA4 float64   `json:"colorSingleA4"`
	ColorDuplexA4 float64   `json:"colorDuplexA4"`
	MinCharge     float64   `json:"minCharge"`
	EffectiveDate time.Time `json:"effectiveDate"`
}

// Thresholds tunes queue classification and aging. ChunkPages is persisted
// and served for operator tooling but does not drive scheduling here.
type Thresholds struct {
	SmallPages   int `json:"smallPages"`
	ChunkPages   int `json:"chunkPages"`
	AgingMinutes int `json:"agingMinutes"`
}

func DefaultThresholds() *Thresholds {
	return &Thresholds{SmallPages: 15, ChunkPages: 100, AgingMinutes: 12}
}

// OrderFilter is a typed query; an empty field means "no constraint".
// Statuses are OR-ed together.
type OrderFilter struct {
	Statuses  []OrderStatus
	QueueType QueueType
}

// Match reports whether an order satisfies the filter.
func (f OrderFilter) Match(o *Order) bool {
	if len(f.Statuses) > 0 {
		ok := false
		for _, s := range f.Statuses {
			if o.Status == s {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.QueueType != "" && o.QueueType != f.QueueType {
		return false
	}
	return true
}

// OrderStore is the abstract keyed collection orders live in. UpdateOrder
// must compare-and-swap on Version and bump it; UpdateOrders must apply all
// writes atomically with respect to concurrent readers.
type OrderStore interface {
	InsertOrder(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, id string) (*Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]*Order, error)
	UpdateOrder(ctx context.Context, o *Order) error
	UpdateOrders(ctx context.Context, orders []*Order) error
	DeleteOrder(ctx context.Context, id string) (bool, error)
}

type PrinterStore interface {
	InsertPrinter(ctx context.Context, p *Printer) error
	GetPrinter(ctx context.Context, id string) (*Printer, error)
	GetPrinterByName(ctx context.Context, name string) (*Printer, error)
	ListPrinters(ctx context.Context) ([]*Printer, error)
	UpdatePrinter(ctx context.Context, p *Printer) error
	DeletePrinter(ctx context.Context, id string) (bool, error)
}

// ConfigStore holds rates, thresholds and operational settings.
type ConfigStore interface {
	GetRates(ctx context.Context) (*Rates, error)
	SetRates(ctx context.Context, r *Rates) error
	GetThresholds(ctx context.Context) (*Thresholds, error)
	SetThresholds(ctx context.Context, t *Thresholds) error
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// PrinterDriver is the external device layer. Submit hands a stored document
// to the named printer; failures surface as DeviceError to callers.
type PrinterDriver interface {
	Submit(ctx context.Context, printerName, documentRef string, copies int) error
	QueryStatus(ctx context.Context, printerName string) (PrinterStatus, error)
}

// DocumentIngestion validates an uploaded file, stores it, and reports the
// page count. Conversion details are the collaborator's problem.
type DocumentIngestion interface {
	Process(ctx context.Context, fileName string, r io.Reader) (ref string, pages int, err error)
}

// EventSink receives lifecycle event notifications. Implementations must not
// block; the engine calls sinks synchronously on the request path.
type EventSink interface {
	OrderEvent(event string, o *Order)
}

const (
	EventOrderCreated     = "order_created"
	EventPaymentConfirmed = "payment_confirmed"
	EventOrderQueued      = "order_queued"
	EventOrderPrinting    = "order_printing"
	EventOrderReady       = "order_ready"
	EventOrderCollected   = "order_collected"
	EventOrderCancelled   = "order_cancelled"
	EventOrderError       = "order_error"
)

type multiSink []EventSink

func (m multiSink) OrderEvent(event string, o *Order) {
	for _, s := range m {
		s.OrderEvent(event, o)
	}
}

// MultiSink fans one event out to several sinks; nil sinks are dropped.
func MultiSink(sinks ...EventSink) EventSink {
	out := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
