package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/IIBendyII/ProjectWork2025/internal/checkin/privacy"
	"github.com/IIBendyII/ProjectWork2025/internal/checkin/service"
	"github.com/IIBendyII/ProjectWork2025/internal/checkin/store/sqlstore"
	"github.com/IIBendyII/ProjectWork2025/internal/checkin/validate"
	"github.com/IIBendyII/ProjectWork2025/internal/config"
	"github.com/IIBendyII/ProjectWork2025/internal/db"
	"github.com/IIBendyII/ProjectWork2025/internal/httpapi"
)

func main() {
	// Optional .env for local development; real deployments use the
	// environment and docker secrets directly.
	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	encryptKey, err := privacy.ParsePublicKey(cfg.EncryptKeyPEM)
	if err != nil {
		logger.WithError(err).Fatal("load encryption key")
	}

	ctx := context.Background()

	mgmtDB, err := db.Open(ctx, db.Config{Driver: cfg.ManagementDriver, DSN: cfg.ManagementDSN})
	if err != nil {
		logger.WithError(err).Fatal("open management database")
	}
	defer mgmtDB.Close()

	visitsDB, err := db.Open(ctx, db.Config{Driver: cfg.VisitsDriver, DSN: cfg.VisitsDSN})
	if err != nil {
		logger.WithError(err).Fatal("open visits database")
	}
	defer visitsDB.Close()

	// The production schemas are owned by the external systems; only the
	// local dev databases are migrated and seeded here.
	if cfg.Env == "dev" {
		if cfg.VisitsDriver == "sqlite" {
			if err := db.Migrate(ctx, visitsDB); err != nil {
				logger.WithError(err).Fatal("migrate visits database")
			}
		}
		if cfg.ManagementDriver == "sqlite" {
			if err := db.Migrate(ctx, mgmtDB); err != nil {
				logger.WithError(err).Fatal("migrate management database")
			}
			if err := db.SeedDev(ctx, mgmtDB); err != nil {
				logger.WithError(err).Fatal("seed management database")
			}
		}
	}

	writer := db.NewWorker(visitsDB)
	defer writer.Close()

	mgmtStore := sqlstore.NewManagementStore(mgmtDB)
	visitStore := sqlstore.NewVisitStore(writer)

	checkInSvc := service.New(service.Options{
		Management:    mgmtStore,
		Visits:        visitStore,
		Validator:     validate.NewValidator(mgmtStore, cfg.APIKey, logger),
		Pseudonymizer: privacy.NewPseudonymizer(encryptKey, cfg.PseudoPad),
		APIKey:        cfg.APIKey,
		Logger:        logger,
		StoreTimeout:  cfg.StoreTimeout,
	})

	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:  logger,
		Addr:    cfg.HTTPAddr,
		CheckIn: checkInSvc,
	})

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("listening")
		if err := srv.Start(); err != nil {
			logger.WithError(err).Error("server stopped")
			stop()
		}
	}()

	<-runCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
