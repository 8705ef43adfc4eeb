package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mitkov/calbot/internal/availability"
	"github.com/mitkov/calbot/internal/calendar"
	"github.com/mitkov/calbot/internal/instrumentation"
	"github.com/mitkov/calbot/internal/reminder"
	"github.com/mitkov/calbot/internal/session"
	"github.com/mitkov/calbot/internal/telegram"
)

func newServeCmd() *cobra.Command {
	var (
		debugMode   bool
		jsonLogs    bool
		token       string
		calendarID  string
		timezone    string
		metricsAddr string
		pollTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Telegram bot",
		Long: `Starts polling Telegram for updates and serves calendar workflows
until interrupted. Requires a bot token and an authorized Google
account (see 'calbot auth').`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env file is not an error; the environment may
			// be set directly.
			_ = godotenv.Load()

			logger := newLogger(debugMode, jsonLogs)
			slog.SetDefault(logger)

			if token == "" {
				token = os.Getenv("TELEGRAM_BOT_TOKEN")
			}
			if token == "" {
				return fmt.Errorf("telegram bot token is required (--telegram-token or TELEGRAM_BOT_TOKEN)")
			}
			if id := os.Getenv("CALENDAR_ID"); calendarID == "primary" && id != "" {
				calendarID = id
			}
			if tz := os.Getenv("TIMEZONE"); timezone == "" && tz != "" {
				timezone = tz
			}

			loc := time.Local
			if timezone != "" {
				parsed, err := time.LoadLocation(timezone)
				if err != nil {
					return fmt.Errorf("invalid timezone %q: %w", timezone, err)
				}
				loc = parsed
			}

			ctx, stop := signal.NotifyContext(context.Background(),
				os.Interrupt, syscall.SIGTERM)
			defer stop()

			instrConfig := instrumentation.ConfigFromEnv(version)
			provider, err := instrumentation.NewProvider(ctx, instrConfig)
			if err != nil {
				return fmt.Errorf("failed to create instrumentation provider: %w", err)
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := provider.Shutdown(shutdownCtx); err != nil {
					logger.Error("instrumentation shutdown failed", slog.Any("error", err))
				}
			}()

			if addr := os.Getenv("METRICS_ADDR"); metricsAddr == ":9090" && addr != "" {
				metricsAddr = addr
			}

			if provider.Enabled() && metricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", provider.MetricsHandler())
				metricsServer := &http.Server{Addr: metricsAddr, Handler: mux}
				go func() {
					logger.Info("metrics server listening", slog.String("addr", metricsAddr))
					if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("metrics server failed", slog.Any("error", err))
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = metricsServer.Shutdown(shutdownCtx)
				}()
			}

			gateway, err := calendar.NewClient(ctx, logger, provider.Metrics())
			if err != nil {
				return fmt.Errorf("failed to create calendar client: %w", err)
			}

			bot, err := telegram.New(telegram.Config{
				Token:       token,
				Logger:      logger,
				PollTimeout: pollTimeout,
				Debug:       debugMode,
			})
			if err != nil {
				return err
			}

			scheduler := reminder.NewScheduler(logger)
			defer scheduler.Stop()

			manager := session.NewManager(session.Config{
				Gateway:      gateway,
				Availability: availability.NewResolver(gateway, logger),
				Transport:    bot,
				Reminders:    scheduler,
				Metrics:      provider.Metrics(),
				Logger:       logger,
				CalendarID:   calendarID,
				Location:     loc,
			})

			logger.Info("bot started",
				slog.String("calendar", calendarID),
				slog.String("timezone", loc.String()))

			if err := bot.Run(ctx, manager.HandleInput); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			logger.Info("shutting down")
			return nil
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&jsonLogs, "json-logs", false, "Emit logs as JSON")
	cmd.Flags().StringVar(&token, "telegram-token", "", "Telegram bot token. Can also use TELEGRAM_BOT_TOKEN env var.")
	cmd.Flags().StringVar(&calendarID, "calendar", "primary", "Calendar identifier to manage. Can also use CALENDAR_ID env var.")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone for date parsing and display (e.g. Europe/Berlin). Can also use TIMEZONE env var. Defaults to the system timezone.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")
	cmd.Flags().DurationVar(&pollTimeout, "poll-timeout", telegram.DefaultPollTimeout, "Telegram long-poll timeout")

	return cmd
}

func newLogger(debug, jsonLogs bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if jsonLogs {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
