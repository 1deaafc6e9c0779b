package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/clkctl/internal/clk"
	"codeberg.org/mutker/clkctl/internal/config"
	"codeberg.org/mutker/clkctl/internal/ctlfs"
	"codeberg.org/mutker/clkctl/internal/logger"
	"codeberg.org/mutker/clkctl/internal/pid"
	"codeberg.org/mutker/clkctl/internal/simclk"
	"codeberg.org/mutker/clkctl/internal/telemetry"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	logger.Debug().Msg("Config loaded")
}

func main() {
	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write PID file")
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Warn().Err(err).Msg("failed to remove PID file")
		}
	}()

	registry, probe, err := buildTree(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build clock tree")
	}
	logger.Info().Msgf("Registered %d clocks", registry.Len())
	if !probe.Available() {
		logger.Warn().Msgf("No probe clock %q, measurement unavailable", cfg.Probe)
	}

	var recorder telemetry.Recorder
	if cfg.Telemetry {
		tcfg := telemetry.DefaultConfig()
		tcfg.Enabled = true
		if cfg.TelemetryDB != "" {
			tcfg.DBPath = cfg.TelemetryDB
		}
		recorder, err = telemetry.NewService(tcfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize telemetry")
		}
		defer func() {
			if err := recorder.Close(); err != nil {
				logger.Warn().Err(err).Msg("failed to close telemetry")
			}
		}()
	}

	reporter := clk.NewReporter(registry)
	srv, err := ctlfs.New(registry, probe, reporter, recorder)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create control plane")
	}
	srv.Mount()

	logger.Info().Msg(reporter.Report().String())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := srv.ListenAndServe(ctx, cfg.Listen); err != nil {
		logger.Error().Err(err).Msg("control plane failed")
	}
	logger.Info().Msg("Exiting...")
}

// buildTree constructs the simulated clock tree from configuration and
// resolves the probe clock by name. A missing probe is not fatal: it
// leaves measurement permanently unavailable.
func buildTree(cfg *config.Config) (*clk.Registry, *clk.Probe, error) {
	nodes := make([]*clk.Node, 0, len(cfg.Clocks))
	for i := range cfg.Clocks {
		cc := &cfg.Clocks[i]

		clock := simclk.New(simclk.Spec{
			Name:       cc.Name,
			Rate:       cc.Rate,
			HardMin:    cc.MinRate,
			HardMax:    cc.MaxRate,
			Rates:      cc.Rates,
			Local:      cc.Local,
			MuxParents: cc.Mux,
			Enabled:    cc.Enabled,
		})

		var ops clk.Ops = clock
		if cc.Minimal {
			ops = simclk.Minimal(clock)
		}

		nodes = append(nodes, &clk.Node{
			Name:  cc.Name,
			Flags: policyFlags(cc.Flags),
			Ops:   ops,
		})
	}

	registry, err := clk.NewRegistry(nodes)
	if err != nil {
		return nil, nil, err
	}

	probeNode, _ := registry.Lookup(cfg.Probe)
	return registry, clk.NewProbe(probeNode), nil
}

func policyFlags(flags []string) clk.Flags {
	var f clk.Flags
	for _, name := range flags {
		switch name {
		case "min":
			f |= clk.FlagMin
		case "max":
			f |= clk.FlagMax
		}
	}
	return f
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
