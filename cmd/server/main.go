package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"harvesterbilling/auth"
	"harvesterbilling/backup"
	"harvesterbilling/billing"
	"harvesterbilling/config"
	"harvesterbilling/db"
	"harvesterbilling/db/mongo"
	"harvesterbilling/db/postgres"
	"harvesterbilling/handlers"
	"harvesterbilling/logger"
	"harvesterbilling/repository"
	"harvesterbilling/routes"
	"harvesterbilling/services"
)

func main() {
	cfg := config.LoadConfig()

	if err := logger.Init("harvester-billing", cfg.IsDevelopment()); err != nil {
		logger.InitDefault("harvester-billing")
	}
	defer logger.Sync()

	dbType, err := db.ParseDBType(cfg.DBType)
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	var kv repository.KVStore
	switch dbType {
	case db.Postgres:
		pg := postgres.NewPostgresDB(cfg.PostgresURL)
		if err := pg.Connect(); err != nil {
			logger.Fatal("postgres connect failed", zap.Error(err))
		}
		defer pg.Disconnect()

		if err := db.RunMigrations(pg.Conn, cfg.MigrationsPath); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
		kv = repository.NewPostgresKVStore(pg.Conn)

	case db.Mongo:
		mg := mongo.NewMongoDB(cfg.MongoURL, cfg.MongoDatabase)
		if err := mg.Connect(); err != nil {
			logger.Fatal("mongo connect failed", zap.Error(err))
		}
		defer mg.Disconnect()

		kv = repository.NewMongoKVStore(mg.Client, cfg.MongoDatabase)

	case db.Memory:
		logger.Warn("using in-memory store, data is lost on restart")
		kv = repository.NewMemoryKVStore()
	}

	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET not set in environment")
	}

	store := repository.NewStore(kv)
	users := repository.NewKVUserRepo(store)
	remote := backup.NewR2Remote(cfg.R2AccountID, cfg.R2Bucket, cfg.R2Endpoint)
	syncer := backup.NewSyncer(store, remote, cfg.BackupFileName)

	svc := services.New(store, users, syncer, services.Options{
		Payee: billing.Payee{
			UPIID:    cfg.DefaultUPIID,
			Name:     cfg.DefaultCompanyName,
			Currency: cfg.CurrencyCode,
		},
		CountryCode:      cfg.CountryCode,
		OverdueAfterDays: cfg.OverdueAfterDays,
	})
	tokens := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)

	router := routes.SetupRoutes(routes.Handlers{
		Users:         &handlers.UserHandler{Accounts: svc.Accounts, Tokens: tokens},
		Fleet:         &handlers.FleetHandler{Fleet: svc.Fleet},
		Bills:         &handlers.BillHandler{Bills: svc.Bills},
		Reports:       &handlers.ReportHandler{Reports: svc.Reports},
		Notifications: &handlers.NotificationHandler{Notifications: svc.Notifications},
		Backup:        &handlers.BackupHandler{Store: store, Cloud: syncer},
		Tokens:        tokens,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go svc.Notifications.RunOverdueScanner(ctx, cfg.OverdueScanInterval)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("server running", zap.String("port", cfg.Port), zap.String("db_type", string(dbType)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
