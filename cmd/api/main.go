package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/kmwangi/mpesa-gateway/internal/domain/usecase/disbursement"
	"github.com/kmwangi/mpesa-gateway/internal/domain/usecase/payment"
	"github.com/kmwangi/mpesa-gateway/internal/domain/usecase/qrcode"
	"github.com/kmwangi/mpesa-gateway/internal/domain/usecase/query"
	"github.com/kmwangi/mpesa-gateway/internal/domain/usecase/reconcile"
	"github.com/kmwangi/mpesa-gateway/internal/domain/usecase/reversal"

	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/api/handler"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/api/routes"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/daraja"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/database"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/database/migration"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/logger"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/qr"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/repository"
	timeProvider "github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/time"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(cfg.Environment == "production", cfg.Logger.Level)
	defer func() { _ = appLogger.Flush() }()

	tp := timeProvider.NewRealTimeProvider()

	// Database
	dbManager := database.NewManager(&cfg.Database, appLogger, tp)
	if _, err := dbManager.Connect(); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer dbManager.Close()

	migrateCtx, cancelMigrate := dbManager.WithTimeout(context.Background())
	if err := migration.NewManager(dbManager.DB(), appLogger).MigrateAll(migrateCtx); err != nil {
		cancelMigrate()
		appLogger.Error("Failed to run migrations", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	cancelMigrate()

	// Repositories
	paymentRepo := repository.NewPaymentRepository(dbManager.DB(), appLogger)
	b2cRepo := repository.NewB2CRepository(dbManager.DB(), appLogger)
	b2bRepo := repository.NewB2BRepository(dbManager.DB(), appLogger)
	balanceRepo := repository.NewBalanceQueryRepository(dbManager.DB(), appLogger)
	statusRepo := repository.NewStatusQueryRepository(dbManager.DB(), appLogger)
	reversalRepo := repository.NewReversalRepository(dbManager.DB(), appLogger)
	qrRepo := repository.NewQRCodeRepository(dbManager.DB(), appLogger)

	// Vendor client and use cases
	darajaClient := daraja.NewClient(cfg.Daraja, tp, appLogger)
	qrRenderer := qr.NewPNGRenderer()

	paymentService := payment.NewService(darajaClient, paymentRepo, tp, appLogger)
	disbursementService := disbursement.NewService(darajaClient, b2cRepo, b2bRepo, cfg.Daraja.ShortCode, tp, appLogger)
	queryService := query.NewService(darajaClient, balanceRepo, statusRepo, tp, appLogger)
	qrCodeService := qrcode.NewService(darajaClient, qrRepo, qrRenderer, tp, appLogger)
	reversalService := reversal.NewService(darajaClient, reversalRepo, tp, appLogger)
	reconciler := reconcile.NewReconciler(appLogger, b2cRepo, b2bRepo, balanceRepo, statusRepo, reversalRepo)

	// HTTP surface
	paymentHandler := handler.NewPaymentHandler(paymentService, appLogger)
	disbursementHandler := handler.NewDisbursementHandler(disbursementService, appLogger)
	queryHandler := handler.NewQueryHandler(queryService, appLogger)
	qrCodeHandler := handler.NewQRCodeHandler(qrCodeService, appLogger)
	reversalHandler := handler.NewReversalHandler(reversalService, appLogger)
	callbackHandler := handler.NewCallbackHandler(paymentService, reconciler, appLogger)

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger, cfg.Server.FrontendOrigin)
	routes.SetupRoutes(
		router,
		paymentHandler,
		disbursementHandler,
		queryHandler,
		qrCodeHandler,
		reversalHandler,
		callbackHandler,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting server", map[string]any{
			"port":        cfg.Server.Port,
			"env":         cfg.Environment,
			"daraja_env":  cfg.Daraja.Environment,
			"daraja_base": cfg.Daraja.BaseURL(),
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Failed to start server", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{"error": err.Error()})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missing []string

	if cfg.Server.Port == 0 {
		missing = append(missing, "server.port")
	}
	if cfg.Database.Host == "" {
		missing = append(missing, "database.host")
	}
	if cfg.Daraja.ConsumerKey == "" {
		missing = append(missing, "daraja.consumerKey")
	}
	if cfg.Daraja.ConsumerSecret == "" {
		missing = append(missing, "daraja.consumerSecret")
	}
	if cfg.Daraja.ShortCode == "" {
		missing = append(missing, "daraja.shortCode")
	}
	if cfg.Daraja.Passkey == "" {
		missing = append(missing, "daraja.passkey")
	}
	if cfg.Daraja.CallbackURL == "" {
		missing = append(missing, "daraja.callbackUrl")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v", missing)
	}
	return nil
}
