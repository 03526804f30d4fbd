package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/printhub/server/internal/core"
)

// SettingsHandler serves the pricing and scheduling configuration.
type SettingsHandler struct {
	lifecycle *core.Lifecycle
}

func NewSettingsHandler(lifecycle *core.Lifecycle) *SettingsHandler {
	return &SettingsHandler{lifecycle: lifecycle}
}

func (h *SettingsHandler) GetRates(c *gin.Context) {
	rates, err := h.lifecycle.Rates(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rates)
}

type SetRatesRequest struct {
	BWSingleA4    float64 `json:"bwSingleA4" binding:"required,gt=0"`
	BWDuplexA4    float64 `json:"bwDuplexA4" binding:"required,gt=0"`
	ColorSingleA4 float64 `json:"colorSingleA4" binding:"required,gt=0"`
	ColorDuplexA4 float64 `json:"colorDuplexA4" binding:"required,gt=0"`
	MinCharge     float64 `json:"minCharge" binding:"gte=0"`
}

func (h *SettingsHandler) SetRates(c *gin.Context) {
	var req SetRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	rates, err := h.lifecycle.SetRates(c.Request.Context(), &core.Rates{
		BWSingleA4:    req.BWSingleA4,
		BWDuplexA4:    req.BWDuplexA4,
		ColorSingleA4: req.ColorSingleA4,
		ColorDuplexA4: req.ColorDuplexA4,
		MinCharge:     req.MinCharge,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rates)
}

func (h *SettingsHandler) GetThresholds(c *gin.Context) {
	th, err := h.lifecycle.Thresholds(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, th)
}

type SetThresholdsRequest struct {
	SmallPages   int `json:"smallPages" binding:"required,gt=0"`
	ChunkPages   int `json:"chunkPages" binding:"required,gt=0"`
	AgingMinutes int `json:"agingMinutes" binding:"required,gt=0"`
}

func (h *SettingsHandler) SetThresholds(c *gin.Context) {
	var req SetThresholdsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	th, err := h.lifecycle.SetThresholds(c.Request.Context(), &core.Thresholds{
		SmallPages:   req.SmallPages,
		ChunkPages:   req.ChunkPages,
		AgingMinutes: req.AgingMinutes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, th)
}

func (h *SettingsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/settings/rates", h.GetRates)
	r.GET("/settings/thresholds", h.GetThresholds)
}

func (h *SettingsHandler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.PUT("/settings/rates", h.SetRates)
	r.PUT("/settings/thresholds", h.SetThresholds)
}
