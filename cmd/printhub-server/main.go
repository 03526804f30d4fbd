package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/printhub/server/internal/api"
	"github.com/printhub/server/internal/api/middleware"
	"github.com/printhub/server/internal/config"
	"github.com/printhub/server/internal/core"
	"github.com/printhub/server/internal/db"
	"github.com/printhub/server/internal/driver"
	"github.com/printhub/server/internal/ingest"
	"github.com/printhub/server/internal/metrics"
	"github.com/printhub/server/internal/webhook"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("create data dir: %v", err)
	}
	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close()

	uploads, err := ingest.NewLocal(cfg.Database.UploadDir)
	if err != nil {
		log.Fatalf("init upload storage: %v", err)
	}

	collector := metrics.NewCollector()

	var hooks *webhook.Sender
	if len(cfg.Webhooks) > 0 {
		hooks = webhook.NewSender(cfg.Webhooks, webhook.Options{})
		hooks.Start()
		defer hooks.Stop()
	}

	var sink core.EventSink = collector
	if hooks != nil {
		sink = core.MultiSink(collector, hooks)
	}

	var printerDriver core.PrinterDriver
	var sim *driver.Simulator
	if len(cfg.Printers.Addresses) > 0 {
		network := driver.NewNetwork(cfg.Printers.Addresses, cfg.Printers.ConnectionTimeout)
		defer network.Close()
		printerDriver = network
	} else if cfg.Printers.SimulateProgress {
		sim = driver.NewSimulator(nil, cfg.Printers.ProgressInterval)
		printerDriver = sim
	}

	lifecycle := core.NewLifecycle(database, database, database, printerDriver, sink, &cfg.Scheduler)
	batch := core.NewBatchCoordinator(lifecycle)
	collector.BindQueueSource(lifecycle)

	if sim != nil {
		sim.Bind(lifecycle)
		sim.Start()
		defer sim.Stop()
	}

	auth, err := middleware.NewAuthMiddleware(database)
	if err != nil {
		log.Fatalf("init auth: %v", err)
	}

	router := api.NewRouter(api.Deps{
		Lifecycle: lifecycle,
		Batch:     batch,
		Ingest:    uploads,
		Auth:      auth,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("printhub listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
