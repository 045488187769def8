// Command turbinesim streams synthetic wind-turbine telemetry for one unit
// as JSON lines on stdout: a full power-curve sweep on startup and on every
// unit selection, then the re-sorted factor set on each tick. It stands in
// for the dashboard that would normally consume the generator.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/windscope/turbinesim"
	"github.com/windscope/turbinesim/config"
	"github.com/windscope/turbinesim/internal/logger"
	"github.com/windscope/turbinesim/session"
)

var (
	configPath = flag.String("config", "", "Path to configuration file (optional)")
	unitID     = flag.Int("unit", 1, "Unit ID to monitor")
	listUnits  = flag.Bool("units", false, "Print the unit catalogue and exit")
)

// tickOutput is one line of tick output.
type tickOutput struct {
	Tick    int                            `json:"tick"`
	Factors []turbinesim.CorrelationFactor `json:"factors"`
}

// curveOutput is the power-curve line emitted on startup.
type curveOutput struct {
	UnitID          int                           `json:"unitId"`
	MeanActualPower float64                       `json:"meanActualPower"`
	Samples         []turbinesim.PowerCurveSample `json:"samples"`
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	registry, err := cfg.Registry()
	if err != nil {
		logger.Fatal("Failed to build unit registry: %v", err)
	}

	sim := turbinesim.New(registry)
	if cfg.Simulator.Seed != 0 {
		sim = turbinesim.NewWithRand(registry, rand.New(rand.NewPCG(cfg.Simulator.Seed, 0)))
	}

	enc := json.NewEncoder(os.Stdout)

	if *listUnits {
		if err := enc.Encode(sim.Units()); err != nil {
			logger.Fatal("Failed to encode unit catalogue: %v", err)
		}
		return
	}

	samples, err := sim.GeneratePowerCurveSamples(*unitID, cfg.Simulator.PointHint)
	if err != nil {
		logger.Fatal("Failed to generate power curve: %v", err)
	}
	meanPower := turbinesim.MeanActualPower(samples)
	logger.Info("Unit %d: %d samples, mean actual power %.1f kW", *unitID, len(samples), meanPower)
	if err := enc.Encode(curveOutput{UnitID: *unitID, MeanActualPower: meanPower, Samples: samples}); err != nil {
		logger.Fatal("Failed to encode power curve: %v", err)
	}

	sess, err := session.New(sim, *unitID, cfg.Simulator.TickInterval, func(tick int, factors []turbinesim.CorrelationFactor) {
		if err := enc.Encode(tickOutput{Tick: tick, Factors: factors}); err != nil {
			logger.Error("Failed to encode tick %d: %v", tick, err)
		}
	})
	if err != nil {
		logger.Fatal("Failed to create session: %v", err)
	}
	sess.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Received signal %v, shutting down", sig)

	sess.Stop()
}
