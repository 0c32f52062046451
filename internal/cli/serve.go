package cli

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

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/sellbot/internal/bot"
	"github.com/roach88/sellbot/internal/engine"
	"github.com/roach88/sellbot/internal/i18n"
	"github.com/roach88/sellbot/internal/journal"
	"github.com/roach88/sellbot/internal/obs"
	"github.com/roach88/sellbot/internal/store"
	"github.com/roach88/sellbot/internal/vault"
)

const (
	pollTimeoutSec  = 60
	shutdownTimeout = 10 * time.Second
)

// TelegramAPI is the part of *tgbotapi.BotAPI that serve needs.
type TelegramAPI interface {
	bot.Sender
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	configFlags
	Token       string
	MetricsAddr string
	LogFormat   string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve [bot-token]",
		Short: "Run the Telegram bot",
		Long: `Run the bot with long polling until interrupted.

Configuration comes from built-in defaults, the --config YAML file,
environment variables (ADMIN_ID, ADMIN_PHONE, ENCRYPTION_KEY, BOT_TOKEN,
DATA_FILE, JOURNAL_DB, METRICS_ADDR, RATE_LIMIT_PER_SEC, RATE_LIMIT_BURST)
and finally flags. The bot token may also be passed as the only argument.

Exit codes:
  0 - Stopped by signal, data saved
  1 - Telegram unreachable or data not saved on shutdown
  2 - Invalid configuration

Examples:
  sellbot serve 123456:ABC-DEF
  sellbot serve --config sellbot.yaml --log-format json
  sellbot serve --journal-db journal.db --metrics-addr :9090`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Token = args[0]
			}
			return runServe(cmd.Context(), opts, cmd)
		},
	}

	opts.configFlags.register(cmd)
	cmd.Flags().StringVar(&opts.Token, "token", "", "Telegram bot token (overrides BOT_TOKEN)")
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", "", "serve Prometheus /metrics on this address")
	cmd.Flags().StringVar(&opts.LogFormat, "log-format", "text", "log format (text|json)")

	return cmd
}

func runServe(parent context.Context, opts *ServeOptions, cmd *cobra.Command) error {
	if opts.LogFormat != "text" && opts.LogFormat != "json" {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid log format %q: must be text or json", opts.LogFormat))
	}

	cfg, err := opts.load(opts.Lookup)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load configuration", err)
	}
	if opts.Token != "" {
		cfg.BotToken = opts.Token
	}
	if opts.MetricsAddr != "" {
		cfg.MetricsAddr = opts.MetricsAddr
	}
	if err := cfg.Validate(true); err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	obs.SetupLogger(cmd.ErrOrStderr(), opts.LogFormat, opts.Verbose)
	obs.Init()

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	v, err := vault.FromEncodedKey(cfg.EncryptionKey)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid encryption key", err)
	}
	st := store.New(cfg.DataFile, v)
	doc := st.Load(ctx)
	slog.Info("data loaded", "path", st.Path(), "products", len(doc.Products), "pending", len(doc.Pending))

	var engOpts []engine.Option
	if cfg.JournalDB != "" {
		j, err := journal.Open(cfg.JournalDB)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer func() {
			if closeErr := j.Close(); closeErr != nil {
				slog.Error("error closing journal", "error", closeErr)
			}
		}()
		engOpts = append(engOpts, engine.WithJournal(j))
		slog.Info("journal ready", "path", cfg.JournalDB)
	}

	newAPI := opts.Connect
	if newAPI == nil {
		newAPI = connectTelegram
	}
	api, err := newAPI(cfg.BotToken)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to connect to Telegram", err)
	}

	cat, err := i18n.New()
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load messages", err)
	}

	notifier := bot.NewNotifier(api, cat)
	outbox := engine.NewQueueOutbox(notifier)
	eng := engine.New(doc, st, outbox, cfg.AdminID, engOpts...)
	notifier.Languages = eng

	b := bot.New(api, eng, cat, bot.Options{
		AdminPhone: cfg.AdminPhone,
		RatePerSec: cfg.RateLimitPerSec,
		RateBurst:  cfg.RateLimitBurst,
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = pollTimeoutSec
	updates := api.GetUpdatesChan(updateCfg)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Queued notices are still delivered after a signal, so the outbox
		// only stops once Close has been called and it has drained.
		return outbox.Run(context.WithoutCancel(gctx))
	})
	g.Go(func() error {
		err := b.Run(gctx, updates)
		api.StopReceivingUpdates()
		outbox.Close()
		cancel()
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return serveMetrics(gctx, cfg.MetricsAddr)
		})
	}

	slog.Info("bot serving", "admin_id", cfg.AdminID, "data_file", cfg.DataFile)
	fmt.Fprintln(cmd.OutOrStdout(), "Bot started. Press Ctrl-C to stop.")

	runErr := g.Wait()

	saveCtx, saveCancel := context.WithTimeout(context.WithoutCancel(parent), shutdownTimeout)
	defer saveCancel()
	if err := eng.Persist(saveCtx); err != nil {
		slog.Error("final save failed", "path", st.Path(), "error", err)
		return WrapExitError(ExitFailure, "failed to save data on shutdown", err)
	}
	if runErr != nil {
		return WrapExitError(ExitFailure, "bot error", runErr)
	}

	slog.Info("bot stopped gracefully")
	return nil
}

func connectTelegram(token string) (TelegramAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	slog.Info("authorized on Telegram", "username", api.Self.UserName)
	return api, nil
}

// serveMetrics serves /metrics until ctx is cancelled.
func serveMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", obs.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown", "error", err)
		}
	}()

	slog.Info("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
