package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"telegram-personal-api/internal/core/services"
	"telegram-personal-api/internal/notifier"
	"telegram-personal-api/internal/pkg/config"
	"telegram-personal-api/internal/ports"
	"telegram-personal-api/internal/server"
	"telegram-personal-api/internal/telegram"
	"telegram-personal-api/internal/tracker"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}

// run инкапсулирует всю логику инициализации и запуска приложения.
func run() error {
	// 1. Загрузка и валидация конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		// Логгер еще не инициализирован, выводим в stderr
		_, _ = fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Инициализация логгера
	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// 3. Валидация конфигурации (после инициализации логгера)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// 4. Инициализация и запуск фоновых сервисов
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	client := telegram.NewClient(telegram.Config{
		APIID:       cfg.TelegramAPI.APIID,
		APIHash:     cfg.TelegramAPI.APIHash,
		PhoneNumber: cfg.TelegramAPI.PhoneNumber,
		SessionPath: cfg.TelegramAPI.SessionFile,
	}, telegram.WithLogger(logger))

	trackStore := tracker.NewStore()
	trackStore.StartCleanupTicker(appCtx, config.DefaultCleanupInterval, cfg.ExpiryHorizon())

	buttonSvc := services.NewButtonService(client, logger)
	mediaSvc := services.NewMediaService()

	// Приемник уведомлений необязателен: без него отслеживание ответов
	// отключено, но остальная поверхность API работает.
	var dispatcher ports.EventDispatcher
	if cfg.Tracking.WebhookURL != "" {
		dispatcher = notifier.New(cfg.Tracking.WebhookURL, logger)
	} else {
		slog.Info("WEBHOOK_URL не задан, отслеживание ответов отключено")
	}

	// 5. Запуск клиента Telegram
	client.Start(appCtx)

	readyCtx, readyCancel := context.WithTimeout(appCtx, config.DefaultReadyTimeout)
	err = client.WaitReady(readyCtx)
	readyCancel()
	if err != nil {
		return fmt.Errorf("telegram client failed to become ready: %w", err)
	}

	var selfID int64
	if self := client.Self(); self != nil {
		selfID = self.ID
		slog.Info("Авторизован как", "id", self.ID, "username", self.Username)
	}

	// Классификатор регистрируется после готовности: ему нужен selfID.
	replySvc := services.NewReplyService(
		trackStore, buttonSvc, dispatcher, cfg.AllowedChatIDs(), selfID, logger)
	client.OnMessage(replySvc.HandleMessage)

	// 6. Создание HTTP-сервера
	srv, err := server.New(cfg, client, trackStore, buttonSvc, mediaSvc, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// 7. Запуск сервера и graceful shutdown
	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		slog.Info("Starting server", "addr", cfg.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Signal received, shutting down...")

	// Сначала отменяем контекст приложения, чтобы остановить фоновые
	// процессы (клиент Telegram и тикер очистки)
	appCancel()
	slog.Info("Application context canceled, waiting for background services to stop...")

	// Затем останавливаем HTTP-сервер
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	<-serverDone
	slog.Info("HTTP server stopped")

	slog.Info("Application exited gracefully")
	return nil
}
