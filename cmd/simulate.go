package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/cabs/app"
	"github.com/kilianp07/cabs/config"
	"github.com/kilianp07/cabs/core/model"
	"github.com/kilianp07/cabs/infra/logger"
	"github.com/kilianp07/cabs/internal/eventbus"
	"github.com/kilianp07/cabs/pkg/export"
)

var simOpts struct {
	rides     int
	seed      int64
	cabs      int
	customers int
	maxPos    int
	format    string
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run an in-process workload and print a report",
	Long: "Signs every cab in at a random position, issues ride requests on random " +
		"shards and reports matches, fares and cache divergence. Without a config " +
		"file a synthetic roster is generated from --cabs and --customers.",
	RunE: runSimulate,
}

func init() {
	f := simulateCmd.Flags()
	f.IntVar(&simOpts.rides, "rides", 100, "number of ride requests")
	f.Int64Var(&simOpts.seed, "seed", 0, "random seed, 0 picks one")
	f.IntVar(&simOpts.cabs, "cabs", 20, "cabs in the synthetic roster")
	f.IntVar(&simOpts.customers, "customers", 10, "customers in the synthetic roster")
	f.IntVar(&simOpts.maxPos, "max-position", 1000, "positions are drawn from [0, max-position)")
	f.StringVar(&simOpts.format, "format", "json", "report format: json or csv")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, roster, err := simulationSetup()
	if err != nil {
		return err
	}
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return err
	}
	if simOpts.seed != 0 {
		cfg.Dispatch.Seed = simOpts.seed
	}

	bus := eventbus.New()
	defer bus.Close()
	sys := app.NewSystem(roster, cfg.Dispatch, bus, logger.New("simulator"))
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- sys.Run(runCtx) }()

	rep, err := app.Simulate(ctx, sys, app.SimConfig{
		Rides:       simOpts.rides,
		Seed:        simOpts.seed,
		MaxPosition: simOpts.maxPos,
	})
	cancel()
	if rerr := <-done; rerr != nil && err == nil {
		err = rerr
	}
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}
	return export.Write(cmd.OutOrStdout(), simOpts.format, rep)
}

func simulationSetup() (*config.Config, model.Roster, error) {
	if _, err := os.Stat(cfgPath); err == nil {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, model.Roster{}, fmt.Errorf("load config: %w", err)
		}
		roster, err := config.LoadRoster(cfg.Fleet)
		if err != nil {
			return nil, model.Roster{}, fmt.Errorf("roster: %w", err)
		}
		if len(roster.Cabs) > 0 {
			return cfg, roster, nil
		}
	}
	cfg := config.Default()
	return cfg, syntheticRoster(simOpts.cabs, simOpts.customers, cfg.Fleet.DefaultBalance), nil
}

func syntheticRoster(cabs, customers, balance int) model.Roster {
	var r model.Roster
	for i := 0; i < cabs; i++ {
		r.Cabs = append(r.Cabs, fmt.Sprintf("cab%03d", i+1))
	}
	for i := 0; i < customers; i++ {
		r.Customers = append(r.Customers, model.Customer{ID: fmt.Sprintf("cust%03d", i+1), Balance: balance})
	}
	return r
}
