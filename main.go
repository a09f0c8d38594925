// Command fcnpost post-processes FourCastNet forecast output.
//
// Usage:
//
//	fcnpost edges    -in land_sea_mask.npy -out land_sea_edges_mask.npy
//	fcnpost reformat -in autoregressive_predictions_z500_vis.h5 -rewrite
//	fcnpost process  -in autoregressive_predictions_z500_vis.nc -out processed.nc
//	fcnpost export   -file processed.nc -vmInsertUrl http://localhost:8428/write
//
// Settings shared by all subcommands come from environment variables, see
// internal/config.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jonboulle/clockwork"

	"github.com/rtm0/fcnpost/internal/config"
	"github.com/rtm0/fcnpost/internal/observability"
)

type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
	stdout  io.Writer
}

type command struct {
	name  string
	usage string
	run   func(e *env, args []string) error
}

var commands = []command{
	{"edges", "derive a coastline mask from a land/sea mask", runEdges},
	{"reformat", "label placeholder dimensions and rewrite as netCDF", runReformat},
	{"process", "attach coordinates and denormalize a forecast", runProcess},
	{"export", "send a processed forecast to Victoria Metrics", runExport},
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var cmd *command
	for i := range commands {
		if commands[i].name == os.Args[1] {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		usage()
		os.Exit(2)
	}

	if err := config.LoadDotenv(); err != nil {
		slog.Error("Could not load .env", "err", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Could not load config", "err", err)
		os.Exit(1)
	}
	e := &env{
		cfg:     cfg,
		logger:  observability.NewLogger(cfg),
		metrics: observability.NewMetrics(),
		clock:   clockwork.NewRealClock(),
		stdout:  os.Stdout,
	}

	start := e.clock.Now()
	err = cmd.run(e, os.Args[2:])
	e.metrics.RunDuration.WithLabelValues(cmd.name).Observe(e.clock.Since(start).Seconds())
	if mErr := e.metrics.WriteTextfile(cfg.MetricsTextfile); mErr != nil {
		e.logger.Warn("Could not write metrics", "err", mErr)
	}
	if err != nil {
		e.logger.Error("Command failed", "command", cmd.name, "err", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: fcnpost <command> [flags]")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-9s %s\n", c.name, c.usage)
	}
}
