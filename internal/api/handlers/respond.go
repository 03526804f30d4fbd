package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/printhub/server/internal/core"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError maps domain errors onto HTTP statuses in one place so every
// handler reports failures the same way.
func writeError(c *gin.Context, err error) {
	var (
		vErr   *core.ValidationError
		tErr   *core.InvalidTransitionError
		cfgErr *core.ConfigurationError
		devErr *core.DeviceError
	)

	switch {
	case errors.Is(err, core.ErrOrderNotFound), errors.Is(err, core.ErrPrinterNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: err.Error()})
	case errors.Is(err, core.ErrAlreadyPaid):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "already_paid", Message: err.Error()})
	case errors.Is(err, core.ErrNoPrinterAvailable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "no_printer_available", Message: err.Error()})
	case errors.Is(err, core.ErrNoFileAttached):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no_file_attached", Message: err.Error()})
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
	case errors.As(err, &tErr):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "invalid_transition", Message: err.Error()})
	case errors.As(err, &cfgErr):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "configuration_error", Message: err.Error()})
	case errors.As(err, &devErr):
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "device_error", Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: "Unexpected server error"})
	}
}
