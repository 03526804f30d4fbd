package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/printhub/server/internal/core"
)

type OrderHandler struct {
	lifecycle *core.Lifecycle
	batch     *core.BatchCoordinator
	ingest    core.DocumentIngestion
}

func NewOrderHandler(lifecycle *core.Lifecycle, batch *core.BatchCoordinator, ingest core.DocumentIngestion) *OrderHandler {
	return &OrderHandler{
		lifecycle: lifecycle,
		batch:     batch,
		ingest:    ingest,
	}
}

type CreateOrderRequest struct {
	CustomerName string     `json:"customerName" binding:"required"`
	Mobile       string     `json:"mobile" binding:"required"`
	FileName     string     `json:"fileName"`
	FilePath     string     `json:"filePath"`
	Pages        int        `json:"pages" binding:"required,gt=0"`
	Copies       int        `json:"copies" binding:"required,gt=0"`
	Color        string     `json:"color" binding:"required"`
	Sides        string     `json:"sides" binding:"required"`
	Size         string     `json:"size" binding:"required"`
	PickupTime   *time.Time `json:"pickupTime"`
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	order, err := h.lifecycle.CreateOrder(c.Request.Context(), core.CreateOrderInput{
		CustomerName: req.CustomerName,
		Mobile:       req.Mobile,
		Spec: core.JobSpec{
			FileName:   req.FileName,
			FileRef:    req.FilePath,
			Pages:      req.Pages,
			Copies:     req.Copies,
			Color:      core.ColorMode(req.Color),
			Sides:      core.DuplexMode(req.Sides),
			Size:       core.PaperSize(req.Size),
			PickupTime: req.PickupTime,
		},
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// CreateOrderWithFile accepts a multipart upload; the document is stored
// through the ingestion layer and the page count comes from the file itself,
// not the form.
func (h *OrderHandler) CreateOrderWithFile(c *gin.Context) {
	if h.ingest == nil {
		c.JSON(http.StatusNotImplemented, ErrorResponse{Error: "uploads_disabled", Message: "File uploads are not configured"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "Missing file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "Unreadable file"})
		return
	}
	defer file.Close()

	ref, pages, err := h.ingest.Process(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		writeError(c, err)
		return
	}

	copies := intForm(c, "copies", 1)
	var pickup *time.Time
	if raw := c.PostForm("pickupTime"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "pickupTime must be RFC 3339"})
			return
		}
		pickup = &t
	}

	order, err := h.lifecycle.CreateOrder(c.Request.Context(), core.CreateOrderInput{
		CustomerName: c.PostForm("customerName"),
		Mobile:       c.PostForm("mobile"),
		Spec: core.JobSpec{
			FileName:   fileHeader.Filename,
			FileRef:    ref,
			Pages:      pages,
			Copies:     copies,
			Color:      core.ColorMode(c.DefaultPostForm("color", string(core.ColorBW))),
			Sides:      core.DuplexMode(c.DefaultPostForm("sides", string(core.SidesSingle))),
			Size:       core.PaperSize(c.DefaultPostForm("size", string(core.SizeA4))),
			PickupTime: pickup,
		},
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// ListOrders filters by ?status=A|B (pipe-separated, OR-ed) and ?queueType=.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	filter := core.OrderFilter{
		QueueType: core.QueueType(c.Query("queueType")),
	}
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, "|") {
			if s != "" {
				filter.Statuses = append(filter.Statuses, core.OrderStatus(s))
			}
		}
	}

	orders, err := h.lifecycle.ListOrders(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	if orders == nil {
		orders = []*core.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

// GetQueue returns one queue's waiting orders in dispatch order.
func (h *OrderHandler) GetQueue(c *gin.Context) {
	qt := core.QueueType(c.Param("queueType"))
	if qt != core.QueueUrgent && qt != core.QueueNormal && qt != core.QueueBulk {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "queueType must be urgent, normal or bulk"})
		return
	}

	orders, err := h.lifecycle.ListQueue(c.Request.Context(), qt)
	if err != nil {
		writeError(c, err)
		return
	}
	if orders == nil {
		orders = []*core.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.lifecycle.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type UpdateOrderRequest struct {
	PriorityIndex *int64  `json:"priorityIndex"`
	ProgressPct   *int    `json:"progressPct"`
	TransactionID *string `json:"transactionId"`
	PaymentStatus *string `json:"paymentStatus"`
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	patch := core.OrderPatch{
		PriorityIndex: req.PriorityIndex,
		ProgressPct:   req.ProgressPct,
		TransactionID: req.TransactionID,
	}
	if req.PaymentStatus != nil {
		ps := core.PaymentStatus(*req.PaymentStatus)
		patch.PaymentStatus = &ps
	}

	order, err := h.lifecycle.UpdateOrder(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type ConfirmPaymentRequest struct {
	TransactionID string `json:"transactionId"`
}

func (h *OrderHandler) ConfirmPayment(c *gin.Context) {
	var req ConfirmPaymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
			return
		}
	}

	order, err := h.lifecycle.ConfirmPayment(c.Request.Context(), c.Param("id"), req.TransactionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) QueueOrder(c *gin.Context) {
	order, err := h.lifecycle.AdminQueue(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) AssignPrinter(c *gin.Context) {
	order, err := h.lifecycle.AssignPrinterAuto(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) PrintOrder(c *gin.Context) {
	order, err := h.lifecycle.SendToPrinter(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type ProgressRequest struct {
	ProgressPct int `json:"progressPct"`
}

func (h *OrderHandler) UpdateProgress(c *gin.Context) {
	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	order, err := h.lifecycle.UpdateProgress(c.Request.Context(), c.Param("id"), req.ProgressPct)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type MoveOrderRequest struct {
	Direction string `json:"direction" binding:"required"`
}

func (h *OrderHandler) MoveOrder(c *gin.Context) {
	var req MoveOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	order, err := h.lifecycle.Reorder(c.Request.Context(), c.Param("id"), core.MoveDirection(req.Direction))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	order, err := h.lifecycle.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) CollectOrder(c *gin.Context) {
	order, err := h.lifecycle.Collect(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) MarkReady(c *gin.Context) {
	order, err := h.lifecycle.MarkReady(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type BatchRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

func (h *OrderHandler) BatchCancel(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	res, err := h.batch.CancelAll(c.Request.Context(), req.IDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type BatchUpdateRequest struct {
	IDs           []string `json:"ids" binding:"required"`
	PriorityIndex *int64   `json:"priorityIndex"`
	PaymentStatus *string  `json:"paymentStatus"`
}

func (h *OrderHandler) BatchUpdate(c *gin.Context) {
	var req BatchUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	patch := core.OrderPatch{PriorityIndex: req.PriorityIndex}
	if req.PaymentStatus != nil {
		ps := core.PaymentStatus(*req.PaymentStatus)
		patch.PaymentStatus = &ps
	}

	res, err := h.batch.UpdateAll(c.Request.Context(), req.IDs, patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *OrderHandler) BatchDelete(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	res, err := h.batch.DeleteAll(c.Request.Context(), req.IDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *OrderHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/orders", h.ListOrders)
	r.POST("/orders", h.CreateOrder)
	r.POST("/orders/upload", h.CreateOrderWithFile)
	r.GET("/orders/queues/:queueType", h.GetQueue)
	r.GET("/orders/:id", h.GetOrder)
	r.PATCH("/orders/:id", h.UpdateOrder)
	r.POST("/orders/:id/pay", h.ConfirmPayment)
	r.POST("/orders/:id/assign", h.AssignPrinter)
	r.POST("/orders/:id/print", h.PrintOrder)
	r.POST("/orders/:id/progress", h.UpdateProgress)
	r.POST("/orders/:id/move", h.MoveOrder)
	r.POST("/orders/:id/cancel", h.CancelOrder)
	r.POST("/orders/:id/collect", h.CollectOrder)
	r.POST("/orders/:id/ready", h.MarkReady)
}

// RegisterAdminRoutes holds the operations gated behind authentication.
func (h *OrderHandler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.POST("/orders/:id/queue", h.QueueOrder)
	r.POST("/orders/batch/cancel", h.BatchCancel)
	r.POST("/orders/batch/update", h.BatchUpdate)
	r.POST("/orders/batch/delete", h.BatchDelete)
}

func intForm(c *gin.Context, key string, fallback int) int {
	n, err := strconv.Atoi(c.PostForm(key))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
