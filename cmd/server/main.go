package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/swiftbill/be-invoicing/internal/client"
	"github.com/swiftbill/be-invoicing/internal/config"
	"github.com/swiftbill/be-invoicing/internal/database"
	"github.com/swiftbill/be-invoicing/internal/handler"
	"github.com/swiftbill/be-invoicing/internal/logger"
	"github.com/swiftbill/be-invoicing/internal/middleware"
	"github.com/swiftbill/be-invoicing/internal/reconcile"
	"github.com/swiftbill/be-invoicing/internal/repository"
	"github.com/swiftbill/be-invoicing/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	})

	log.Info().
		Str("version", cfg.Version).
		Str("environment", cfg.Environment).
		Msg("Starting invoicing service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := database.New(ctx, database.Config{
		URL:             cfg.DatabaseURL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
		MaxConnIdleTime: cfg.DBMaxConnIdleTime,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("Database connection established")

	// Initialize repositories
	invoiceRepo := repository.NewInvoiceRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Optional NATS event publishing
	var events *client.NotificationPublisher
	if cfg.NATSURL != "" {
		nc, err := client.NewNATSClient(cfg.NATSURL, cfg.ServiceName)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to NATS")
		}
		defer nc.Close()
		events = client.NewNotificationPublisher(nc, log)
		log.Info().Str("nats_url", cfg.NATSURL).Msg("Event publishing enabled")
	} else {
		log.Info().Msg("NATS_URL not set, event publishing disabled")
	}

	// Optional image upload collaborator
	var uploads *client.UploadClient
	if cfg.UploadEndpoint != "" {
		uploads = client.NewUploadClient(cfg.UploadEndpoint)
	}

	// Initialize services
	invoiceService := service.NewInvoiceService(invoiceRepo, sequenceRepo, accountRepo, settingsRepo, events, log)
	accountService := service.NewAccountService(db, accountRepo, settingsRepo, log)
	settingsService := service.NewSettingsService(settingsRepo, uploads, log)

	// Setup HTTP routes
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, log)
	accountHandler := handler.NewAccountHandler(accountService, log)
	settingsHandler := handler.NewSettingsHandler(settingsService, log)

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Invoice routes
	mux.HandleFunc("/api/v1/invoices", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			invoiceHandler.ListInvoices(w, r)
		case http.MethodPost:
			invoiceHandler.CreateInvoice(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/v1/invoices/get", invoiceHandler.GetInvoice)
	mux.HandleFunc("/api/v1/invoices/status", invoiceHandler.UpdateStatus)
	mux.HandleFunc("/api/v1/invoices/delete", invoiceHandler.DeleteInvoice)
	mux.HandleFunc("/api/v1/invoices/stats", invoiceHandler.GetStats)

	// Bank account routes
	mux.HandleFunc("/api/v1/accounts", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			accountHandler.ListAccounts(w, r)
		case http.MethodPost:
			accountHandler.AddAccount(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/v1/accounts/update", accountHandler.UpdateAccount)
	mux.HandleFunc("/api/v1/accounts/delete", accountHandler.DeleteAccount)
	mux.HandleFunc("/api/v1/accounts/default", accountHandler.SetDefaultAccount)

	// Settings routes
	mux.HandleFunc("/api/v1/settings", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			settingsHandler.GetSettings(w, r)
		case http.MethodPost:
			settingsHandler.UpdateSettings(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/v1/settings/logo", settingsHandler.UploadLogo)

	// Apply middleware
	var h http.Handler = mux
	h = middleware.RequestID(h)
	h = middleware.Logger(log)(h)
	h = middleware.Recovery(log)(h)
	h = middleware.CORS([]string{"*"})(h)
	h = middleware.Timeout(cfg.RequestTimeout)(h)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Msg("Starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server failed")
		}
	}()

	// Start overdue reconciliation loop
	reconciler := reconcile.New(invoiceRepo, events, log, cfg.SweepInterval)
	go reconciler.Run(ctx)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	log.Info().Msg("Server stopped")
}
