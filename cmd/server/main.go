package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/calebmorris/trade-journal/internal/api"
	"github.com/calebmorris/trade-journal/internal/config"
	"github.com/calebmorris/trade-journal/internal/database"
	"github.com/calebmorris/trade-journal/internal/kafka"
	"github.com/calebmorris/trade-journal/internal/prefs"
)

const migrationsPath = "db/migrations"

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found")
	}

	cfg := config.Load()

	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(migrationsPath); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}
	logrus.Info("database ready")

	// The journal works without Redis; preference endpoints return 503
	prefsStore, err := prefs.New(cfg.Redis.Addr)
	if err != nil {
		logrus.WithError(err).Warn("preferences store unavailable")
		prefsStore = nil
	} else {
		defer prefsStore.Close()
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.JournalTopic)
	defer producer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := kafka.NewImportConsumer(cfg.Kafka.Brokers, cfg.Kafka.ExecutionsTopic, cfg.Kafka.ConsumerGroup, db)
	defer consumer.Close()
	go func() {
		if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
			logrus.WithError(err).Error("import consumer stopped")
		}
	}()

	handler := api.NewHandler(db, producer, prefsStore)
	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      api.SetupRoutes(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logrus.WithField("addr", server.Addr).Info("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("forced shutdown")
	}
}
