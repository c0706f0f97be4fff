package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"chart-digitizer/config"
	telegram "chart-digitizer/internal/api"
	"chart-digitizer/internal/api/rest"
	"chart-digitizer/internal/container"
	"chart-digitizer/internal/infrastructure/storage"
	"chart-digitizer/internal/infrastructure/vision"
	"chart-digitizer/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.SetLevel(cfg.LogLevel)

	// Хранилище размеченных изображений
	sink, err := container.NewArtifactSink(cfg)
	if err != nil {
		log.Fatalf("Failed to create artifact sink: %v", err)
	}

	// Собираем сервисы приложения
	appContainer := container.New(
		storage.NewMemoryUserRepository(),
		vision.NewGoCVDigitizer(),
		storage.NewMemoryAnalysisRepository(),
		sink,
		cfg.AnalysisTimeout,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      rest.NewHandler(appContainer.DigitizationService, cfg),
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"address": cfg.ServerAddress(),
			"timeout": cfg.RequestTimeout,
			"storage": cfg.StorageBackend,
		}).Info("Starting HTTP server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	if cfg.BotEnabled() {
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
		if err != nil {
			log.Fatalf("Failed to create bot: %v", err)
		}
		go func() {
			logger.Info("Bot is running...")
			if err := bot.Run(ctx); err != nil {
				logger.WithError(err).Error("Bot error")
			}
		}()
	} else {
		logger.Warn("TELEGRAM_TOKEN is not set, bot is disabled")
	}

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
		os.Exit(1)
	}

	logger.Info("Server exited")
}
