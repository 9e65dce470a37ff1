/* Copyright 2021, Arkadiusz Zarychta, arkadiusz.zarychta@h-brs.de */

package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"git.solver4all.com/azaryc2s/trainroute"
	"git.solver4all.com/azaryc2s/trainroute/bench"
	"git.solver4all.com/azaryc2s/trainroute/milp"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

const (
	SolverBnB    = "bnb"
	SolverGurobi = "gurobi"

	ExportClipboard = "clipboard"
	ExportStdout    = "stdout"
	ExportNone      = "none"
)

var configs trainroute.ConfigurationFlags

func main() {
	app := cli.NewApp()
	app.Name = "benchmark"
	app.Usage = "Time building and solving the train routing MILP for growing network sizes"
	app.Flags = []cli.Flag{
		cli.IntFlag{Name: "trials", Value: bench.DefaultTrials, Usage: "Number of repetitions of the configuration list", EnvVar: "TRAINBENCH_TRIALS"},
		cli.Int64Flag{Name: "seed", Usage: "Seed of the instance generator, 0 for a time based seed", EnvVar: "TRAINBENCH_SEED"},
		cli.StringFlag{Name: "solver", Value: defaultSolver, Usage: "MILP engine: bnb or gurobi", EnvVar: "TRAINBENCH_SOLVER"},
		cli.GenericFlag{Name: "config", Value: &configs, Usage: "Configuration stations,trains,routes,minstops; repeat to replace the default list"},
		cli.BoolFlag{Name: "solver-output", Usage: "Do not suppress the solver output", EnvVar: "TRAINBENCH_SOLVER_OUTPUT"},
		cli.StringFlag{Name: "export", Value: ExportClipboard, Usage: "Destination of the tab separated results: clipboard, stdout or none", EnvVar: "TRAINBENCH_EXPORT"},
		cli.BoolFlag{Name: "json", Usage: "Print the report as JSON"},
		cli.StringFlag{Name: "metrics-addr", Usage: "Serve Prometheus metrics on this address while running", EnvVar: "TRAINBENCH_METRICS_ADDR"},
		cli.IntFlag{Name: "max-nodes", Usage: "Branch-and-bound node limit of the bnb solver, 0 for none", EnvVar: "TRAINBENCH_MAX_NODES"},
		cli.StringFlag{Name: "log-level", Value: "info", Usage: "debug, info, warn or error", EnvVar: "TRAINBENCH_LOG_LEVEL"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logger, err := newLogger(c.String("log-level"))
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	sink, err := newSink(c.String("export"))
	if err != nil {
		return err
	}

	seed := c.Int64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	cfgs := []trainroute.ProblemConfiguration(configs)
	if len(cfgs) == 0 {
		cfgs = bench.DefaultConfigurations
	}

	engine, closeEngine, err := newEngine(c.String("solver"), c.Int("max-nodes"), c.Bool("solver-output"), logger)
	if err != nil {
		return err
	}
	defer closeEngine()

	var silencer bench.Silencer = bench.Silencers{bench.NewStdoutSilencer(), bench.NewStderrSilencer()}
	if c.Bool("solver-output") {
		silencer = bench.NopSilencer{}
	}

	metrics := bench.NewMetrics()
	if addr := c.String("metrics-addr"); addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		go func() {
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Error("metrics server stopped", "addr", addr, "error", err)
			}
		}()
	}

	trials := c.Int("trials")
	logger.Info("starting benchmark", "solver", c.String("solver"), "trials", trials,
		"configurations", len(cfgs), "seed", seed)

	harness := &bench.Harness{
		Runner: &bench.TrialRunner{
			Generator: trainroute.NewGenerator(seed),
			Solver:    milp.NewLexicographic(engine, logger),
			Silencer:  silencer,
			Clock:     bench.RealClock{},
			Logger:    logger,
			Metrics:   metrics,
		},
		Configs: cfgs,
		Trials:  trials,
		Logger:  logger,
	}
	state, err := harness.Run()
	if err != nil {
		return err
	}

	reporter := bench.Reporter{Trials: trials}
	summaries, err := reporter.Summaries(state)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		if err = reporter.WriteJSON(os.Stdout, trainroute.CollectSysInfo(), summaries); err != nil {
			return err
		}
	} else {
		reporter.Print(os.Stdout, summaries)
	}

	return sink.Export(reporter.Export(summaries))
}

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}

func newSink(export string) (bench.Sink, error) {
	switch strings.ToLower(export) {
	case ExportClipboard:
		return bench.ClipboardSink{}, nil
	case ExportStdout:
		return bench.WriterSink{W: os.Stdout}, nil
	case ExportNone:
		return bench.NopSink{}, nil
	}
	return nil, errors.Errorf("unsupported export destination: %s", export)
}
