// Command simulate replays a scripted proctoring scenario through the
// detection pipeline and prints the resulting integrity report.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/okian/vigil/internal/domain/scoring"
	"github.com/okian/vigil/internal/simulate"
	"github.com/okian/vigil/pkg/logger"
)

func main() {
	scenarioName := flag.String("scenario", "mixed", "scenario to replay: "+strings.Join(simulate.Names(), ", "))
	tick := flag.Duration("tick", 50*time.Millisecond, "monitoring tick interval (shorter compresses the run)")
	list := flag.Bool("list", false, "list available scenarios and exit")
	flag.Parse()

	if *list {
		for _, s := range simulate.Scenarios() {
			os.Stdout.WriteString(s.Name + "\t" + s.Description + "\n")
		}
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	scenario, ok := simulate.ByName(*scenarioName)
	if !ok {
		os.Stderr.WriteString("unknown scenario " + *scenarioName + "; available: " + strings.Join(simulate.Names(), ", ") + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.Get()
	log.Info(ctx, "replaying scenario",
		logger.String("scenario", scenario.Name),
		logger.String("duration", scenario.Duration(*tick).String()))

	runner := simulate.NewRunner(scenario, simulate.WithTick(*tick), simulate.WithLogger(log))
	report, err := runner.Run(ctx)
	if err != nil {
		if errors.Is(err, scoring.ErrNoEvents) {
			log.Info(ctx, "no alerts recorded; integrity intact", logger.String("scenario", scenario.Name))
			return
		}
		log.Error(ctx, "simulation failed", logger.Error(err))
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Error(ctx, "failed to encode report", logger.Error(err))
		os.Exit(1)
	}
}
