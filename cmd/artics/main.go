package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mdayat/artics-communication/internal/account"
	"github.com/mdayat/artics-communication/internal/api"
	"github.com/mdayat/artics-communication/internal/config"
	"github.com/mdayat/artics-communication/internal/google"
	"github.com/mdayat/artics-communication/internal/metrics"
	"github.com/mdayat/artics-communication/internal/notice"
	"github.com/mdayat/artics-communication/internal/reminders"
	"github.com/mdayat/artics-communication/internal/reservation"
	"github.com/mdayat/artics-communication/internal/rooms"
	"github.com/mdayat/artics-communication/internal/session"
	"github.com/mdayat/artics-communication/internal/store"
	"github.com/mdayat/artics-communication/internal/ui"
)

func main() {
	// .env is optional; the config file carries the real settings.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("ARTICS_CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := os.OpenFile(cfg.Log.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	output := zerolog.ConsoleWriter{Out: logFile, TimeFormat: time.RFC3339, NoColor: true}
	logger := zerolog.New(output).With().Timestamp().Logger()

	client, err := api.NewClient(cfg.API.BaseURL, cfg.APITimeout(), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create api client")
	}

	var rdb *redis.Client
	if cfg.Redis.Address != "" && cfg.API.CacheTTLSeconds > 0 {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		client.UseRedisCache(rdb, cfg.CacheTTL())
	}

	database, err := store.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open local store")
	}
	defer database.Close()

	feed := notice.NewFeed()
	sessions := session.NewStore(client, feed, logger)
	accounts := account.NewService(client, sessions, feed, logger)
	catalog := rooms.NewCatalog(client, database, feed, logger)
	mutator := reservation.NewMutator(client, feed, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics.Register()
	if cfg.Monitoring.PrometheusEnabled {
		port := cfg.Monitoring.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go startMetricsServer(ctx, port, &logger)
	}

	if cfg.Reminders.Enabled {
		var sender reminders.Sender = reminders.LogSender{Logf: func(format string, args ...any) {
			logger.Info().Msgf(format, args...)
		}}
		if cfg.Reminders.Telegram.BotToken != "" && cfg.Reminders.Telegram.ChatID != 0 {
			tg, err := reminders.NewTelegramSender(cfg.Reminders.Telegram.BotToken, cfg.Reminders.Telegram.ChatID)
			if err != nil {
				logger.Error().Err(err).Msg("failed to create telegram sender, falling back to log")
			} else {
				sender = tg
			}
		}

		svc := reminders.NewService(reminders.Config{
			CheckInterval: cfg.RemindersCheckInterval(),
			Before:        cfg.RemindBefore(),
		}, database, sender, logger)
		svc.Start(ctx)
		defer svc.Stop()
	}

	var sheetsService *google.SheetsService
	if cfg.Sheets.Enabled {
		sheetsService, err = google.NewSheetsService(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID, cfg.Sheets.SheetName, logger)
		if err != nil {
			logger.Error().Err(err).Msg("failed to create sheets service, sync disabled")
			sheetsService = nil
		}
	}

	app := ui.New(ui.Deps{
		Sessions: sessions,
		Account:  accounts,
		Catalog:  catalog,
		Mutator:  mutator,
		Notices:  feed,
		Sheets:   sheetsService,
		Logger:   logger,
	})

	logger.Info().Str("base_url", cfg.API.BaseURL).Msg("client started")
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		logger.Fatal().Err(err).Msg("ui error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
