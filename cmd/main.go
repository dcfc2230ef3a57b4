package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/vigil/internal/adapters/http/api"
	"github.com/okian/vigil/internal/adapters/provider"
	"github.com/okian/vigil/internal/adapters/sink"
	"github.com/okian/vigil/internal/adapters/ws"
	app "github.com/okian/vigil/internal/app"
	"github.com/okian/vigil/internal/auth"
	"github.com/okian/vigil/internal/config"
	"github.com/okian/vigil/internal/domain/classify"
	"github.com/okian/vigil/internal/domain/model"
	"github.com/okian/vigil/internal/domain/scoring"
	"github.com/okian/vigil/internal/monitor"
	"github.com/okian/vigil/internal/simulate"
	"github.com/okian/vigil/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
		}
	}()

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

	// Apply configured log level (fallback to info on invalid input).
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Event sink: PostgreSQL when configured, in-memory otherwise.
	store, err := buildStore(ctx, cfg)
	if err != nil {
		log.Error(ctx, "failed to initialize event sink", logger.Error(err))
		return
	}

	// Alert fan-out over WebSocket.
	broadcaster := ws.NewBroadcaster()
	defer broadcaster.Close()

	svc := app.New(
		app.WithLogger(log),
		app.WithStore(store),
		app.WithAggregator(buildAggregator(cfg)),
		app.WithResolver(auth.ClaimsResolver{}),
		app.WithProviderFactory(buildProviderFactory(cfg)),
		app.WithMonitorOptions(
			monitor.WithTickInterval(time.Duration(cfg.TickIntervalMS)*time.Millisecond),
			monitor.WithProviderTimeout(time.Duration(cfg.ProviderTimeoutMS)*time.Millisecond),
			monitor.WithClassifier(buildClassifier(cfg)),
			monitor.WithLogger(log),
		),
		app.WithAlertConsumer(broadcaster.Publish),
	)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)
	mux.HandleFunc("/alerts/ws", broadcaster.HandleAlerts)

	// Bearer-token auth wraps everything when a secret is configured.
	var handler http.Handler = mux
	if mw := auth.NewMiddleware([]byte(cfg.JWTSecret)); mw.Enabled() {
		handler = mw.Wrap(mux)
		log.Info(ctx, "bearer-token auth enabled")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// buildStore selects the event sink backend from configuration.
func buildStore(ctx context.Context, cfg *config.Config) (sink.Store, error) {
	if cfg.DatabaseURL == "" {
		return sink.NewMemoryStore(), nil
	}
	return sink.NewPostgresStore(ctx, cfg.DatabaseURL)
}

// buildClassifier applies the configured detection thresholds.
func buildClassifier(cfg *config.Config) *classify.Classifier {
	opts := []classify.Option{
		classify.WithGazeRatio(cfg.GazeRatio),
		classify.WithMinConfidence(cfg.MinObjectConfidence),
	}
	if len(cfg.TargetObjects) > 0 {
		opts = append(opts, classify.WithTargetObjects(cfg.TargetObjects))
	}
	return classify.New(opts...)
}

// buildAggregator applies any configured deduction overrides.
func buildAggregator(cfg *config.Config) *scoring.Aggregator {
	opts := []scoring.Option{scoring.WithDefaultDeduction(cfg.DefaultDeduction)}
	if len(cfg.Deductions) > 0 {
		table := scoring.DefaultDeductions()
		for name, points := range cfg.Deductions {
			table[model.AlertType(name)] = points
		}
		opts = append(opts, scoring.WithDeductions(table))
	}
	return scoring.NewAggregator(opts...)
}

// buildProviderFactory backs sessions with a scripted scenario when
// demo_scenario is set; otherwise sessions only accept externally
// reported events.
func buildProviderFactory(cfg *config.Config) app.ProviderFactory {
	scenario, ok := simulate.ByName(cfg.DemoScenario)
	if !ok {
		return nil
	}
	interval := time.Duration(cfg.TickIntervalMS) * time.Millisecond
	return func(string) (provider.FaceProvider, provider.ObjectProvider, error) {
		// One script per session so face and object reads share a frame.
		script := scenario.Script(interval)
		return script, script, nil
	}
}
