// Package api assembles the HTTP surface from the handler groups.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/printhub/server/internal/api/handlers"
	"github.com/printhub/server/internal/api/middleware"
	"github.com/printhub/server/internal/core"
)

// Deps carries everything the router needs. All fields except Auth are
// required.
type Deps struct {
	Lifecycle *core.Lifecycle
	Batch     *core.BatchCoordinator
	Ingest    core.DocumentIngestion
	Auth      *middleware.AuthMiddleware
}

// NewRouter builds the gin engine. Read paths and the walk-up order flow are
// open; administrative operations sit behind auth when it is configured.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	orderHandler := handlers.NewOrderHandler(deps.Lifecycle, deps.Batch, deps.Ingest)
	printerHandler := handlers.NewPrinterHandler(deps.Lifecycle)
	settingsHandler := handlers.NewSettingsHandler(deps.Lifecycle)

	apiGroup := r.Group("/api/v1")
	orderHandler.RegisterRoutes(apiGroup)
	printerHandler.RegisterRoutes(apiGroup)
	settingsHandler.RegisterRoutes(apiGroup)

	admin := r.Group("/api/v1")
	if deps.Auth != nil {
		deps.Auth.RegisterRoutes(apiGroup)
		admin.Use(deps.Auth.RequireAuth())
	}
	orderHandler.RegisterAdminRoutes(admin)
	printerHandler.RegisterAdminRoutes(admin)
	settingsHandler.RegisterAdminRoutes(admin)

	return r
}
