package core

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/printhub/server/internal/config"
)

const lockStripes = 64

// Lifecycle is the order state machine. It is the only component that writes
// an order's control fields (status, payment, printer assignment, progress);
// everything else reads them. Every read-modify-write runs under a striped
// per-id mutex, with the store's version stamp as the backstop against a
// concurrent writer slipping through.
type Lifecycle struct {
	orders   OrderStore
	printers PrinterStore
	settings ConfigStore
	driver   PrinterDriver
	events   EventSink

	cacheTTL time.Duration
	strict   bool
	now      func() time.Time

	locks   [lockStripes]sync.Mutex
	queueMu map[QueueType]*sync.Mutex

	seqMu     sync.Mutex
	lastIndex int64

	cacheMu    sync.Mutex
	ratesCache struct {
		val     *Rates
		expires time.Time
	}
	thresholdsCache struct {
		val     *Thresholds
		expires time.Time
	}
}

func NewLifecycle(orders OrderStore, printers PrinterStore, settings ConfigStore, driver PrinterDriver, events EventSink, cfg *config.SchedulerConfig) *Lifecycle {
	if cfg == nil {
		cfg = &config.SchedulerConfig{ConfigCacheTTL: 60 * time.Second}
	}

	return &Lifecycle{
		orders:   orders,
		printers: printers,
		settings: settings,
		driver:   driver,
		events:   events,
		cacheTTL: cfg.ConfigCacheTTL,
		strict:   cfg.StrictCapabilityMatch,
		now:      time.Now,
		queueMu: map[QueueType]*sync.Mutex{
			QueueUrgent: {},
			QueueNormal: {},
			QueueBulk:   {},
		},
	}
}

// WithClock swaps the time source. Hook for tests and simulated deployments;
// returns the receiver for chaining at construction.
func (l *Lifecycle) WithClock(now func() time.Time) *Lifecycle {
	l.now = now
	return l
}

func (l *Lifecycle) lockFor(id string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(id))
	return &l.locks[h.Sum32()%lockStripes]
}

func (l *Lifecycle) emit(event string, o *Order) {
	if l.events != nil {
		l.events.OrderEvent(event, o)
	}
}

// withOrder runs fn on the current record under the order's lock and writes
// the result back. fn mutates the order in place; returning an error aborts
// without writing.
func (l *Lifecycle) withOrder(ctx context.Context, id string, fn func(o *Order) error) (*Order, error) {
	mu := l.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	o, err := l.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(o); err != nil {
		return nil, err
	}

	o.UpdatedAt = l.now()
	if err := l.orders.UpdateOrder(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

type CreateOrderInput struct {
	CustomerName string
	Mobile       string
	Spec         JobSpec
}

func (in *CreateOrderInput) validate() error {
	switch {
	case in.CustomerName == "":
		return invalidField("customerName", "must not be empty")
	case in.Mobile == "":
		return invalidField("mobile", "must not be empty")
	case in.Spec.Pages < 1:
		return invalidField("pages", "must be at least 1")
	case in.Spec.Copies < 1:
		return invalidField("copies", "must be at least 1")
	}
	if in.Spec.Color != ColorBW && in.Spec.Color != ColorColor {
		return invalidField("color", "must be bw or color")
	}
	if in.Spec.Sides != SidesSingle && in.Spec.Sides != SidesDuplex {
		return invalidField("sides", "must be single or duplex")
	}
	if in.Spec.Size != SizeA4 && in.Spec.Size != SizeA3 {
		return invalidField("size", "must be A4 or A3")
	}
	return nil
}

// nextPriorityIndex returns the creation-time index, bumped past the last
// issued value so two orders created within the same second never share an
// index.
func (l *Lifecycle) nextPriorityIndex(now time.Time) int64 {
	l.seqMu.Lock()
	defer l.seqMu.Unlock()

	idx := now.Unix()
	if idx <= l.lastIndex {
		idx = l.lastIndex + 1
	}
	l.lastIndex = idx
	return idx
}

// CreateOrder validates the spec, prices it, classifies it into a queue and
// stores it as Pending/unpaid. The initial priority index is the creation
// time in unix seconds, made unique across same-second arrivals, which
// preserves arrival order within a queue.
func (l *Lifecycle) CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	rates, err := l.Rates(ctx)
	if err != nil {
		return nil, err
	}
	th, err := l.Thresholds(ctx)
	if err != nil {
		return nil, err
	}

	price, err := Price(in.Spec, rates)
	if err != nil {
		return nil, err
	}

	now := l.now()
	o := &Order{
		ID:            uuid.NewString(),
		CustomerName:  in.CustomerName,
		Mobile:        in.Mobile,
		JobSpec:       in.Spec,
		Status:        StatusPending,
		PaymentStatus: PaymentUnpaid,
		QueueType:     Classify(in.Spec, now, th),
		PriorityIndex: l.nextPriorityIndex(now),
		PriceTotal:    price,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	o.PriorityScore = Score(o, now, th)

	if err := l.orders.InsertOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to store order: %w", err)
	}

	l.emit(EventOrderCreated, o)
	return o, nil
}

func (l *Lifecycle) GetOrder(ctx context.Context, id string) (*Order, error) {
	return l.orders.GetOrder(ctx, id)
}

func (l *Lifecycle) ListOrders(ctx context.Context, filter OrderFilter) ([]*Order, error) {
	return l.orders.ListOrders(ctx, filter)
}

// ListQueue returns the waiting orders of one queue in authoritative
// dispatch order.
func (l *Lifecycle) ListQueue(ctx context.Context, qt QueueType) ([]*Order, error) {
	orders, err := l.orders.ListOrders(ctx, OrderFilter{
		Statuses:  []OrderStatus{StatusPending, StatusQueued},
		QueueType: qt,
	})
	if err != nil {
		return nil, err
	}
	SortQueue(orders, qt)
	return orders, nil
}

// ConfirmPayment marks a pending order paid and advances it to Queued.
// Confirming twice is rejected with ErrAlreadyPaid rather than treated as a
// no-op, so double submissions in callers surface instead of hiding.
func (l *Lifecycle) ConfirmPayment(ctx context.Context, id, transactionRef string) (*Order, error) {
	o, err := l.withOrder(ctx, id, func(o *Order) error {
		if o.PaymentStatus == PaymentPaid {
			return ErrAlreadyPaid
		}
		if o.Status != StatusPending {
			return &InvalidTransitionError{
				OrderID: id, From: o.Status, To: StatusQueued,
				Reason: "payment can only be confirmed while pending",
			}
		}

		now := l.now()
		o.PaymentStatus = PaymentPaid
		o.PaidAt = &now
		if transactionRef != "" {
			o.TransactionID = transactionRef
		}
		o.Status = StatusQueued
		if th, err := l.Thresholds(ctx); err == nil {
			o.PriorityScore = Score(o, now, th)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.emit(EventPaymentConfirmed, o)
	l.emit(EventOrderQueued, o)
	return o, nil
}

// AdminQueue advances an unpaid pending order to Queued. This is the
// explicit administrative override of the payment gate; normal progression
// goes through ConfirmPayment.
func (l *Lifecycle) AdminQueue(ctx context.Context, id string) (*Order, error) {
	o, err := l.withOrder(ctx, id, func(o *Order) error {
		if o.Status != StatusPending {
			return &InvalidTransitionError{
				OrderID: id, From: o.Status, To: StatusQueued,
				Reason: "only pending orders can be queued",
			}
		}
		o.Status = StatusQueued
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.emit(EventOrderQueued, o)
	return o, nil
}

// AssignPrinterAuto picks a compatible printer from the current pool and
// assigns it. Assignment implies Queued, so the payment gate applies: an
// unpaid order cannot be assigned.
func (l *Lifecycle) AssignPrinterAuto(ctx context.Context, id string) (*Order, error) {
	return l.withOrder(ctx, id, func(o *Order) error {
		if o.Status != StatusPending && o.Status != StatusQueued {
			return &InvalidTransitionError{
				OrderID: id, From: o.Status, To: StatusQueued,
				Reason: "printer assignment allowed only while pending or queued",
			}
		}
		if o.PaymentStatus != PaymentPaid {
			return &InvalidTransitionError{
				OrderID: id, From: o.Status, To: StatusQueued,
				Reason: "payment required before printer assignment",
			}
		}

		pool, err := l.printers.ListPrinters(ctx)
		if err != nil {
			return fmt.Errorf("failed to list printers: %w", err)
		}

		selected := SelectPrinter(pool, o.Color == ColorColor, o.Size == SizeA3, l.strict)
		if selected == nil {
			return ErrNoPrinterAvailable
		}

		o.AssignedPrinterID = selected.ID
		o.ProgressPct = 0
		o.Status = StatusQueued
		return nil
	})
}

// SendToPrinter submits the order's stored document to its assigned printer
// and moves the order to Printing. An order without an assigned printer gets
// one picked automatically first.
func (l *Lifecycle) SendToPrinter(ctx context.Context, id string) (*Order, error) {
	var printer *Printer

	o, err := l.withOrder(ctx, id, func(o *Order) error {
		if o.Status != StatusQueued {
			return &InvalidTransitionError{
				OrderID: id, From: o.Status, To: StatusPrinting,
				Reason: "only queued orders can be sent to a printer",
			}
		}
		if o.FileRef == "" {
			return ErrNoFileAttached
		}

		if o.AssignedPrinterID == "" {
			pool, err := l.printers.ListPrinters(ctx)
			if err != nil {
				return fmt.Errorf("failed to list printers: %w", err)
			}
			selected := SelectPrinter(pool, o.Color == ColorColor, o.Size == SizeA3, l.strict)
			if selected == nil {
				return ErrNoPrinterAvailable
			}
			o.AssignedPrinterID = selected.ID
		}

		p, err := l.printers.GetPrinter(ctx, o.AssignedPrinterID)
		if err != nil {
			return err
		}
		if !p.Available() {
			return &DeviceError{PrinterName: p.Name, Err: fmt.Errorf("printer is %s", p.Status)}
		}

		if l.driver != nil {
			if err := l.driver.Submit(ctx, p.Name, o.FileRef, o.Copies); err != nil {
				return &DeviceError{PrinterName: p.Name, Err: err}
			}
		}

		printer = p
		o.Status = StatusPrinting
		o.ProgressPct = 0
		return nil
	})
	if err != nil {
		return nil, err
	}

	printer.Status = PrinterPrinting
	printer.CurrentJobID = o.ID
	printer.ProgressPct = 0
	printer.UpdatedAt = l.now()
	if err := l.printers.UpdatePrinter(ctx, printer); err != nil {
		log.Printf("lifecycle: failed to mark printer %s printing: %v", printer.ID, err)
	}

	l.emit(EventOrderPrinting, o)
	return o, nil
}

// UpdateProgress records progress reported by the device layer. Progress is
// monotonically non-decreasing while Printing; stale lower readings are
// ignored. Reaching 100 completes the job: the order becomes Ready and the
// printer is released.
func (l *Lifecycle) UpdateProgress(ctx context.Context, id string, pct int) (*Order, error) {
	if pct < 0 {
		return nil, invalidField("progressPct", "must be between 0 and 100")
	}
	if pct > 100 {
		pct = 100
	}

	completed := false
	o, err := l.withOrder(ctx, id, func(o *Order) error {
		if o.Status != StatusPrinting {
			return &InvalidTransitionError{
				OrderID: id, From: o.Status, To: o.Status,
				Reason: "progress updates accepted only while printing",
			}
		}
		if pct > o.ProgressPct {
			o.ProgressPct = pct
		}
		if o.ProgressPct >= 100 {
			o.ProgressPct = 100
			o.Status = StatusReady
			completed = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completed {
		l.releasePrinter(ctx, o.AssignedPrinterID, o.ID)
		l.emit(EventOrderReady, o)
	} else {
		l.mirrorPrinterProgress(ctx, o.AssignedPrinterID, o.ID, o.ProgressPct)
	}
	return o, nil
}

// MarkReady completes a printing order by explicit operator action,
// regardless of reported progress.
func (l *Lifecycle) MarkReady(ctx context.Context, id string) (*Order, error) {
	o, err := l.withOrder(ctx, id, func(o *Order) error {
		if o.Status != StatusPrinting {
			return &InvalidTransitionError{
				OrderID: id, From: o.Status, To: StatusReady,
				Reason: "only printing orders can be marked ready",
			}
		}
		o.ProgressPct = 100
		o.Status = StatusReady
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.releasePrinter(ctx, o.AssignedPrinterID, o.ID)
	l.emit(EventOrderReady, o)
	return o, nil
}

// Collect hands a ready order to the customer. Terminal.
func (l *Lifecycle) Collect(ctx context.Context, id string) (*Order, error) {
	var printerID string
	o, err := l.withOrder(ctx, id, func(o *Order) error {
		if o.Status != StatusReady {
			return &InvalidTransitionError{
				OrderID: id, From: o.Status, To: StatusCollected,
				Reason: "only ready orders can be collected",
			}
		}
		printerID = o.AssignedPrinterID
		o.AssignedPrinterID = ""
		o.Status = StatusCollected
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.releasePrinter(ctx, printerID, o.ID)
	l.emit(EventOrderCollected, o)
	return o, nil
}

// Cancel aborts an order that has not yet completed. Forbidden once the
// output exists (Ready) or the order is terminal.
func (l *Lifecycle) Cancel(ctx context.Context, id string) (*Order, error) {
	var printerID string
	o, err := l.withOrder(ctx, id, func(o *Order) error {
		switch o.Status {
		case StatusPending, StatusQueued, StatusPrinting:
		default:
			return &InvalidTransitionError{
				OrderID: id, From: o.Status, To: StatusCancelled,
				Reason: "cancel forbidden once ready, collected or terminal",
			}
		}
		printerID = o.AssignedPrinterID
		o.AssignedPrinterID = ""
		o.ProgressPct = 0
		o.Status = StatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.releasePrinter(ctx, printerID, o.ID)
	l.emit(EventOrderCancelled, o)
	return o, nil
}

// MarkError moves a non-terminal order to the Error sink after an
// unrecoverable external failure, releasing any assigned printer.
func (l *Lifecycle) MarkError(ctx context.Context, id, reason string) (*Order, error) {
	var printerID string
	o, err := l.withOrder(ctx, id, func(o *Order) error {
		if o.Status.IsTerminal() {
			return &InvalidTransitionError{
				OrderID: id, From: o.Status, To: StatusError,
				Reason: "order already terminal",
			}
		}
		printerID = o.AssignedPrinterID
		o.AssignedPrinterID = ""
		o.Status = StatusError
		return nil
	})
	if err != nil {
		return nil, err
	}
	if reason != "" {
		log.Printf("lifecycle: order %s errored: %s", id, reason)
	}
	l.releasePrinter(ctx, printerID, o.ID)
	l.emit(EventOrderError, o)
	return o, nil
}

// OrderPatch is the operator-facing partial update. Only control fields are
// patchable; the job spec is immutable after creation.
type OrderPatch struct {
	PriorityIndex *int64
	ProgressPct   *int
	TransactionID *string
	PaymentStatus *PaymentStatus
}

// UpdateOrder applies an operator patch. Payment moves are restricted here:
// confirming goes through ConfirmPayment so its guards cannot be bypassed,
// leaving only the paid -> refunded move. A priority change recomputes the
// advisory score.
func (l *Lifecycle) UpdateOrder(ctx context.Context, id string, patch OrderPatch) (*Order, error) {
	if patch.ProgressPct != nil {
		return l.UpdateProgress(ctx, id, *patch.ProgressPct)
	}

	return l.withOrder(ctx, id, func(o *Order) error {
		if patch.PaymentStatus != nil {
			switch *patch.PaymentStatus {
			case PaymentRefunded:
				if o.PaymentStatus != PaymentPaid {
					return invalidField("paymentStatus", "only paid orders can be refunded")
				}
				o.PaymentStatus = PaymentRefunded
			case PaymentPaid:
				return invalidField("paymentStatus", "use the payment confirmation operation")
			default:
				return invalidField("paymentStatus", "cannot revert to unpaid")
			}
		}
		if patch.TransactionID != nil {
			o.TransactionID = *patch.TransactionID
		}
		if patch.PriorityIndex != nil {
			o.PriorityIndex = *patch.PriorityIndex
			if th, err := l.Thresholds(ctx); err == nil {
				o.PriorityScore = Score(o, l.now(), th)
			}
		}
		return nil
	})
}

// releasePrinter frees a printer after its job leaves the Printing state.
// The idle flip only applies when the printer is actually printing, so a
// device that meanwhile went offline or errored keeps that status.
func (l *Lifecycle) releasePrinter(ctx context.Context, printerID, jobID string) {
	if printerID == "" {
		return
	}

	p, err := l.printers.GetPrinter(ctx, printerID)
	if err != nil {
		log.Printf("lifecycle: release printer %s: %v", printerID, err)
		return
	}
	if p.CurrentJobID != jobID && p.CurrentJobID != "" {
		return
	}

	p.CurrentJobID = ""
	p.ProgressPct = 0
	if p.Status == PrinterPrinting {
		p.Status = PrinterIdle
	}
	p.UpdatedAt = l.now()
	if err := l.printers.UpdatePrinter(ctx, p); err != nil {
		log.Printf("lifecycle: release printer %s: %v", printerID, err)
	}
}

func (l *Lifecycle) mirrorPrinterProgress(ctx context.Context, printerID, jobID string, pct int) {
	if printerID == "" {
		return
	}
	p, err := l.printers.GetPrinter(ctx, printerID)
	if err != nil || p.CurrentJobID != jobID {
		return
	}
	p.ProgressPct = pct
	p.UpdatedAt = l.now()
	if err := l.printers.UpdatePrinter(ctx, p); err != nil {
		log.Printf("lifecycle: mirror progress to printer %s: %v", printerID, err)
	}
}

// Rates returns the current rate table, cached for the configured TTL. A
// rate change may not apply to orders created inside the cache window;
// callers tolerate that bounded staleness.
func (l *Lifecycle) Rates(ctx context.Context) (*Rates, error) {
	l.cacheMu.Lock()
	defer l.cacheMu.Unlock()

	now := l.now()
	if l.ratesCache.val != nil && now.Before(l.ratesCache.expires) {
		return l.ratesCache.val, nil
	}

	r, err := l.settings.GetRates(ctx)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return nil, &ConfigurationError{Reason: "rates not configured"}
		}
		return nil, err
	}

	l.ratesCache.val = r
	l.ratesCache.expires = now.Add(l.cacheTTL)
	return r, nil
}

func (l *Lifecycle) SetRates(ctx context.Context, r *Rates) (*Rates, error) {
	if err := validateRates(r); err != nil {
		return nil, err
	}
	r.EffectiveDate = l.now()

	if err := l.settings.SetRates(ctx, r); err != nil {
		return nil, err
	}

	l.cacheMu.Lock()
	l.ratesCache.val = nil
	l.cacheMu.Unlock()
	return r, nil
}

// Thresholds returns the classification thresholds, cached like Rates.
// Missing configuration falls back to defaults rather than failing order
// intake.
func (l *Lifecycle) Thresholds(ctx context.Context) (*Thresholds, error) {
	l.cacheMu.Lock()
	defer l.cacheMu.Unlock()

	now := l.now()
	if l.thresholdsCache.val != nil && now.Before(l.thresholdsCache.expires) {
		return l.thresholdsCache.val, nil
	}

	t, err := l.settings.GetThresholds(ctx)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			t = DefaultThresholds()
		} else {
			return nil, err
		}
	}

	l.thresholdsCache.val = t
	l.thresholdsCache.expires = now.Add(l.cacheTTL)
	return t, nil
}

func (l *Lifecycle) SetThresholds(ctx context.Context, t *Thresholds) (*Thresholds, error) {
	switch {
	case t.SmallPages < 1:
		return nil, &ConfigurationError{Reason: "smallPages must be at least 1"}
	case t.ChunkPages < 1:
		return nil, &ConfigurationError{Reason: "chunkPages must be at least 1"}
	case t.AgingMinutes < 1:
		return nil, &ConfigurationError{Reason: "agingMinutes must be at least 1"}
	}

	if err := l.settings.SetThresholds(ctx, t); err != nil {
		return nil, err
	}

	l.cacheMu.Lock()
	l.thresholdsCache.val = nil
	l.cacheMu.Unlock()
	return t, nil
}

// RegisterPrinter upserts a printer by name, the way device discovery syncs
// the pool: capabilities and status refresh in place, identity is stable.
func (l *Lifecycle) RegisterPrinter(ctx context.Context, p *Printer) (*Printer, error) {
	if p.Name == "" {
		return nil, invalidField("name", "must not be empty")
	}
	if p.Status == "" {
		p.Status = PrinterIdle
	}
	if !validPrinterStatus(p.Status) {
		return nil, invalidField("status", "must be idle, printing, offline or error")
	}

	existing, err := l.printers.GetPrinterByName(ctx, p.Name)
	if err != nil && !errors.Is(err, ErrPrinterNotFound) {
		return nil, err
	}

	now := l.now()
	if existing != nil {
		existing.PPM = p.PPM
		existing.Color = p.Color
		existing.Duplex = p.Duplex
		existing.A4 = p.A4
		existing.A3 = p.A3
		if existing.CurrentJobID == "" {
			existing.Status = p.Status
		}
		existing.UpdatedAt = now
		if err := l.printers.UpdatePrinter(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.UpdatedAt = now
	if err := l.printers.InsertPrinter(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SetPrinterStatus applies an externally observed device status. A printer
// cannot be forced to printing by hand: that state exists only while a job
// is submitted through the engine, keeping currentJobId and status in step.
// A device fault while a job is on the printer sends that order to Error.
func (l *Lifecycle) SetPrinterStatus(ctx context.Context, id string, status PrinterStatus) (*Printer, error) {
	if !validPrinterStatus(status) {
		return nil, invalidField("status", "must be idle, printing, offline or error")
	}

	p, err := l.printers.GetPrinter(ctx, id)
	if err != nil {
		return nil, err
	}

	if status == PrinterPrinting && p.CurrentJobID == "" {
		return nil, invalidField("status", "printing is set by job submission, not manually")
	}

	interruptedJob := ""
	if p.CurrentJobID != "" && status != PrinterPrinting {
		interruptedJob = p.CurrentJobID
		p.CurrentJobID = ""
		p.ProgressPct = 0
	}

	p.Status = status
	p.UpdatedAt = l.now()
	if err := l.printers.UpdatePrinter(ctx, p); err != nil {
		return nil, err
	}

	if interruptedJob != "" {
		if _, err := l.MarkError(ctx, interruptedJob, fmt.Sprintf("printer %s went %s mid-job", p.Name, status)); err != nil {
			log.Printf("lifecycle: mark interrupted order %s: %v", interruptedJob, err)
		}
	}
	return p, nil
}

// RefreshPrinterStatus polls the device layer for the printer's live status
// and applies it through the same guards as a manual status update.
func (l *Lifecycle) RefreshPrinterStatus(ctx context.Context, id string) (*Printer, error) {
	p, err := l.printers.GetPrinter(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.driver == nil {
		return p, nil
	}

	status, err := l.driver.QueryStatus(ctx, p.Name)
	if err != nil {
		return nil, &DeviceError{PrinterName: p.Name, Err: err}
	}
	if status == p.Status {
		return p, nil
	}
	// A reachable device reports idle even while our job is in flight; that
	// is not a fault, so keep the engine's view.
	if status == PrinterIdle && p.Status == PrinterPrinting {
		return p, nil
	}
	return l.SetPrinterStatus(ctx, id, status)
}

func (l *Lifecycle) GetPrinter(ctx context.Context, id string) (*Printer, error) {
	return l.printers.GetPrinter(ctx, id)
}

func (l *Lifecycle) ListPrinters(ctx context.Context) ([]*Printer, error) {
	return l.printers.ListPrinters(ctx)
}

// DeletePrinter removes a printer from the pool. Refused while a job is on
// the device; fail or finish the job first.
func (l *Lifecycle) DeletePrinter(ctx context.Context, id string) error {
	p, err := l.printers.GetPrinter(ctx, id)
	if err != nil {
		return err
	}
	if p.CurrentJobID != "" {
		return invalidField("id", "printer has an active job")
	}

	ok, err := l.printers.DeletePrinter(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPrinterNotFound
	}
	return nil
}

func validPrinterStatus(s PrinterStatus) bool {
	switch s {
	case PrinterIdle, PrinterPrinting, PrinterOffline, PrinterError:
		return true
	}
	return false
}
