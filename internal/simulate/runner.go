package simulate

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/okian/vigil/internal/adapters/provider"
	"github.com/okian/vigil/internal/app"
	"github.com/okian/vigil/internal/domain/classify"
	"github.com/okian/vigil/internal/domain/debounce"
	"github.com/okian/vigil/internal/domain/types"
	"github.com/okian/vigil/internal/monitor"
	"github.com/okian/vigil/pkg/logger"
)

const realTick = 500 * time.Millisecond

// Runner replays one scenario through the full pipeline in-process:
// scripted providers feed the monitor, alerts land in an in-memory
// sink, and the run ends with a computed report.
type Runner struct {
	scenario Scenario
	tick     time.Duration
	logger   logger.Logger
}

// Option configures the Runner.
type Option func(*Runner)

// WithTick overrides the monitoring cadence. Sustain and cooldown
// windows are scaled by the same factor, so a short tick compresses
// the scenario without changing which alerts fire.
func WithTick(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.tick = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a runner for the given scenario.
func NewRunner(sc Scenario, opts ...Option) *Runner {
	r := &Runner{scenario: sc, tick: realTick, logger: logger.Get()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run executes the scenario and returns the session report.
func (r *Runner) Run(ctx context.Context) (types.Report, error) {
	sessionID := gofakeit.UUID()
	script := r.scenario.Script(r.tick)

	svc := app.New(
		app.WithLogger(r.logger),
		app.WithProviderFactory(func(string) (provider.FaceProvider, provider.ObjectProvider, error) {
			return script, script, nil
		}),
		app.WithMonitorOptions(
			monitor.WithTickInterval(r.tick),
			monitor.WithProviderTimeout(r.tick*4/5),
			monitor.WithTrackerOptions(r.trackerOptions()...),
			monitor.WithLogger(r.logger),
		),
	)
	if err := svc.Start(ctx); err != nil {
		return types.Report{}, fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	if err := svc.StartMonitoring(ctx, sessionID); err != nil {
		return types.Report{}, fmt.Errorf("start monitoring: %w", err)
	}

	// One extra tick of slack lets the last frame get classified.
	deadline := r.scenario.Duration(r.tick) + 2*r.tick
	select {
	case <-ctx.Done():
	case <-time.After(deadline):
	}
	svc.StopMonitoring(sessionID)

	report, err := svc.ComputeReport(ctx, sessionID)
	if err != nil {
		return types.Report{}, fmt.Errorf("compute report: %w", err)
	}
	return report, nil
}

// trackerOptions scales the debounce windows to the runner's tick for
// every alert type the classifier can produce, object types included.
func (r *Runner) trackerOptions() []debounce.Option {
	factor := float64(r.tick) / float64(realTick)
	scale := func(d time.Duration) time.Duration {
		return time.Duration(float64(d) * factor)
	}
	var opts []debounce.Option
	for _, at := range classify.New().Types() {
		opts = append(opts,
			debounce.WithSustain(at, scale(at.Sustain())),
			debounce.WithCooldown(at, scale(at.Cooldown())),
		)
	}
	return opts
}
