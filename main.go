package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rijnfleet/fleet-backend/config"
	"github.com/rijnfleet/fleet-backend/db"
	"github.com/rijnfleet/fleet-backend/handlers"
	"github.com/rijnfleet/fleet-backend/internal/store/postgres"
	"github.com/rijnfleet/fleet-backend/logger"
	"github.com/rijnfleet/fleet-backend/models"
	"github.com/rijnfleet/fleet-backend/router"
	"github.com/rijnfleet/fleet-backend/services"
)

var version = "dev"

func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbURL := cfg.Database.URL()
	if err := db.RunMigrations(dbURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatalf("Failed to parse database config: %v", err)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	if cfg.IsProduction() {
		poolConfig.ConnConfig.TLSConfig = &tls.Config{
			ServerName: cfg.Database.Host,
			MinVersion: tls.VersionTLS12,
		}
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Stores
	companyStore := postgres.NewPgCompanyStore(pool)
	driverStore := postgres.NewPgDriverStore(pool)
	carStore := postgres.NewPgCarStore(pool)
	contractStore := postgres.NewPgContractStore(pool)
	earningStore := postgres.NewPgEarningStore(pool)
	settlementStore := postgres.NewPgSettlementStore(pool)
	expenseStore := postgres.NewPgExpenseStore(pool)

	// Models
	companyModel := models.NewCompanyModel(companyStore)
	driverModel := models.NewDriverModel(driverStore)
	carModel := models.NewCarModel(carStore)
	contractModel := models.NewContractModel(contractStore, carStore, driverStore)
	earningModel := models.NewEarningModel(earningStore, contractStore)
	settlementModel := models.NewSettlementModel(settlementStore, earningStore, contractStore, driverStore, carStore)
	expenseModel := models.NewExpenseModel(expenseStore, earningStore)

	// Services
	pdfService := services.NewPDFService()
	healthService := services.NewHealthService(pool, version)

	deps := router.Dependencies{
		Config:            cfg,
		HealthHandler:     handlers.NewHealthHandler(healthService),
		CompanyHandler:    handlers.NewCompanyHandler(companyModel),
		DriverHandler:     handlers.NewDriverHandler(driverModel),
		CarHandler:        handlers.NewCarHandler(carModel),
		ContractHandler:   handlers.NewContractHandler(contractModel),
		EarningHandler:    handlers.NewEarningHandler(earningModel),
		SettlementHandler: handlers.NewSettlementHandler(settlementModel, pdfService),
		ExpenseHandler:    handlers.NewExpenseHandler(expenseModel),
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router.SetupRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("Starting server", "port", cfg.Server.Port, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("Forced server shutdown", "error", err)
	}
	log.Info("Server stopped")
}
