package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/printhub/server/internal/core"
)

type PrinterHandler struct {
	lifecycle *core.Lifecycle
}

func NewPrinterHandler(lifecycle *core.Lifecycle) *PrinterHandler {
	return &PrinterHandler{lifecycle: lifecycle}
}

type RegisterPrinterRequest struct {
	Name   string `json:"name" binding:"required"`
	Status string `json:"status"`
	PPM    int    `json:"ppm"`
	Color  bool   `json:"color"`
	Duplex bool   `json:"duplex"`
	A4     bool   `json:"a4"`
	A3     bool   `json:"a3"`
}

func (h *PrinterHandler) RegisterPrinter(c *gin.Context) {
	var req RegisterPrinterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	printer, err := h.lifecycle.RegisterPrinter(c.Request.Context(), &core.Printer{
		Name:   req.Name,
		Status: core.PrinterStatus(req.Status),
		PPM:    req.PPM,
		Color:  req.Color,
		Duplex: req.Duplex,
		A4:     req.A4,
		A3:     req.A3,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, printer)
}

func (h *PrinterHandler) ListPrinters(c *gin.Context) {
	printers, err := h.lifecycle.ListPrinters(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if printers == nil {
		printers = []*core.Printer{}
	}
	c.JSON(http.StatusOK, printers)
}

func (h *PrinterHandler) GetPrinter(c *gin.Context) {
	printer, err := h.lifecycle.GetPrinter(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, printer)
}

type SetPrinterStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *PrinterHandler) SetStatus(c *gin.Context) {
	var req SetPrinterStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	printer, err := h.lifecycle.SetPrinterStatus(c.Request.Context(), c.Param("id"), core.PrinterStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, printer)
}

// RefreshStatus polls the device layer for the live status.
func (h *PrinterHandler) RefreshStatus(c *gin.Context) {
	printer, err := h.lifecycle.RefreshPrinterStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, printer)
}

func (h *PrinterHandler) DeletePrinter(c *gin.Context) {
	if err := h.lifecycle.DeletePrinter(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PrinterHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/printers", h.ListPrinters)
	r.GET("/printers/:id", h.GetPrinter)
	r.GET("/printers/:id/status", h.RefreshStatus)
}

func (h *PrinterHandler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.POST("/printers", h.RegisterPrinter)
	r.POST("/printers/:id/status", h.SetStatus)
	r.DELETE("/printers/:id", h.DeletePrinter)
}
