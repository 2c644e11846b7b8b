package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sfeuerstein/watch-monitor/internal/engine"
	"github.com/sfeuerstein/watch-monitor/internal/notify"
	"github.com/sfeuerstein/watch-monitor/internal/rates"
	"github.com/sfeuerstein/watch-monitor/internal/scrape"
	"github.com/sfeuerstein/watch-monitor/pkg/logger"
	"github.com/sfeuerstein/watch-monitor/pkg/normalize"
	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

const serverShutdownTimeout = 10 * time.Second

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the monitor: scheduler plus API server",
		Long: "Starts the monitor daemon. A scheduler runs a full cycle at the\n" +
			"configured interval (scrape every enabled source, detect new\n" +
			"listings, notify, commit); an HTTP server exposes health probes,\n" +
			"Prometheus metrics, and the ops API the client commands use.",
		Example: `  watch-monitor run
  watch-monitor run --config watch-monitor.yaml`,
		RunE: runMonitor,
	}
}

func runMonitor(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	// cycleCtx outlives the signal context so an in-flight cycle keeps
	// running through the shutdown grace. Canceling it cuts the cycle off.
	cycleCtx, cancelCycles := context.WithCancel(context.Background())
	defer cancelCycles()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Error("closing store", "error", err)
		}
	}()

	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating store: %w", err)
	}

	overrides := make(map[string]scrape.Override, len(cfg.Scrape.Sources))
	for key, ov := range cfg.Scrape.Sources {
		overrides[key] = scrape.Override{Disabled: ov.Disabled, BaseURL: ov.BaseURL}
	}

	fetcher := scrape.NewFetcher(
		cfg.Scrape.UserAgent,
		cfg.Scrape.Timeout,
		cfg.Scrape.Delay,
		scrape.WithLogger(log),
	)
	scrapers := scrape.BuildAll(fetcher, overrides)
	if len(scrapers) == 0 {
		return fmt.Errorf("all sources are disabled, nothing to monitor")
	}

	var notifier notify.Notifier
	if cfg.Notifications.Discord.Enabled {
		notifier = notify.NewDiscord(cfg.Notifications.Discord.WebhookURL)
	} else {
		log.Warn("discord disabled, new listings are logged only")
		notifier = notify.NewNoOp(log)
	}

	rateClient := rates.New(cfg.Rates.Endpoint, cfg.Rates.Fallback, cfg.Rates.TTL)

	eng := engine.NewEngine(st, scrapers, normalize.New(rateClient.Rate), notifier,
		engine.WithLogger(log),
		engine.WithRetryBackoff(cfg.Scrape.RetryBackoff),
		engine.WithSendDelay(cfg.Notifications.Discord.SendDelay),
	)

	sched, err := engine.NewScheduler(cycleCtx, eng, cfg.Schedule.Interval, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	e := newAPIServer(cfg, st, eng, enabledSources(overrides), log)

	sched.Start()
	log.Info("monitor started",
		"sources", len(scrapers),
		"interval", cfg.Schedule.Interval.String(),
	)

	// First cycle right away; subsequent ones come from the scheduler.
	go func() {
		if err := eng.RunCycle(cycleCtx); err != nil && !errors.Is(err, engine.ErrCycleInFlight) {
			log.Error("startup cycle failed", "error", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down", "grace", cfg.Schedule.ShutdownGrace.String())

	// No new ticks; a running cycle gets the grace period to finish, then
	// is cut off. Confirmed commits run on a detached context either way.
	stopCtx := sched.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(cfg.Schedule.ShutdownGrace):
		log.Warn("shutdown grace expired, canceling running cycle")
		cancelCycles()
		<-stopCtx.Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("monitor stopped")
	return nil
}

// enabledSources returns the descriptors of sources not disabled by
// config, in registry order.
func enabledSources(overrides map[string]scrape.Override) []domain.Source {
	all := scrape.Sources()
	out := make([]domain.Source, 0, len(all))
	for _, src := range all {
		if overrides[src.Key].Disabled {
			continue
		}
		out = append(out, src)
	}
	return out
}
