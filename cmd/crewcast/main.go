// Command crewcast runs the team KPI prediction service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/crewcast/internal/adapters/audit"
	"github.com/okian/crewcast/internal/adapters/http/api"
	"github.com/okian/crewcast/internal/adapters/repository"
	"github.com/okian/crewcast/internal/app"
	"github.com/okian/crewcast/internal/config"
	"github.com/okian/crewcast/internal/ingest"
	"github.com/okian/crewcast/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 65 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Load the event history once at startup.
	loader := ingest.NewLoader()
	money, err := loader.LoadMoneyEvents(ctx, cfg.MoneyEventsPath)
	if err != nil {
		log.Error(ctx, "failed to load money events", logger.Error(err))
		return
	}
	burns, err := loader.LoadBurnEvents(ctx, cfg.BurnEventsPath)
	if err != nil {
		log.Error(ctx, "failed to load burn events", logger.Error(err))
		return
	}

	// Session state persists across restarts.
	store, err := repository.OpenSQLite(cfg.SessionDBPath)
	if err != nil {
		log.Error(ctx, "failed to open session store", logger.Error(err))
		return
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn(ctx, "session store close failed", logger.Error(err))
		}
	}()

	// Seed the initial roster on first run.
	bootstrapper := ingest.NewBootstrapper(store, cfg.BootstrapRosterSize)
	if err := bootstrapper.EnsureInitialized(ctx, money); err != nil {
		log.Error(ctx, "bootstrap failed", logger.Error(err))
		return
	}

	// Audit sink: NATS when configured, a no-op otherwise.
	var sink audit.Sink = audit.NewNopSink()
	if cfg.NATSURL != "" {
		natsSink, err := audit.NewNATSSink(cfg.NATSURL, audit.WithSubjectPrefix(cfg.AuditSubjectPrefix))
		if err != nil {
			log.Error(ctx, "failed to connect audit sink", logger.Error(err))
			return
		}
		sink = natsSink
	}
	defer func() {
		if err := sink.Close(); err != nil {
			log.Warn(ctx, "audit sink close failed", logger.Error(err))
		}
	}()

	svc := app.New(
		app.WithLogger(log),
		app.WithEvents(money, burns),
		app.WithStore(store),
		app.WithAuditSink(sink),
		app.WithMinBaselineEvents(cfg.MinBaselineEvents),
		app.WithWeightWindowWeeks(cfg.WeightWindowWeeks),
		app.WithKPIWindowDays(cfg.KPIWindowDays),
		app.WithGroupSizeBounds(cfg.GroupSizeMin, cfg.GroupSizeMax),
		app.WithCandidatePool(cfg.CandidatePoolSize),
		app.WithTeamSize(cfg.TeamSize),
		app.WithQueueCapacity(cfg.EditQueueSize),
	)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}

	mux := http.NewServeMux()
	apiServer := api.NewServer(svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "HTTP shutdown failed", logger.Error(err))
	}
	svc.Stop(shutdownCtx)
}
