package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"sync"
	"syscall"

	"github.com/rxtech-lab/argo-sweep/internal/backtest"
	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/internal/sweep"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

// sweepAction is the core logic executed by the CLI command. It parses the
// sweep configuration, loads candle data, wires the evaluator and the result
// store, and runs the sweep.
func sweepAction(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	dataPath := cmd.String("data")
	symbol := cmd.String("symbol")
	storePath := cmd.String("store")
	capital := cmd.Float("capital")
	metric := cmd.String("metric")
	top := cmd.Int("top")

	content, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := sweep.ParseSweepConfig(string(content))
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	loggerInstance, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	candles, err := backtest.LoadCandles(dataPath, symbol, loggerInstance)
	if err != nil {
		return fmt.Errorf("failed to load candles: %w", err)
	}

	// Bindings are resolved to typed parameters once, up front. A typo in
	// the config fails here instead of on the first evaluation.
	bindings := make(map[string]backtest.Param, len(cfg.Distributions))

	for _, dc := range cfg.Distributions {
		param, err := backtest.ResolveParam(dc.Binding)
		if err != nil {
			return err
		}

		bindings[dc.Label] = param
	}

	evaluator, err := backtest.NewEvaluator(candles, capital, bindings, loggerInstance)
	if err != nil {
		return fmt.Errorf("failed to create evaluator: %w", err)
	}

	var store sweep.ResultStore

	if storePath != "" {
		duckdbStore, err := sweep.NewDuckDBStore(storePath, loggerInstance)
		if err != nil {
			return fmt.Errorf("failed to open result store: %w", err)
		}
		defer duckdbStore.Close()

		store = duckdbStore
	}

	s := sweep.NewSweep(cfg.Strategy, evaluator, store, loggerInstance)

	if err := cfg.Apply(s, func(binding string) (any, error) {
		return backtest.ResolveParam(binding)
	}); err != nil {
		return fmt.Errorf("failed to apply config: %w", err)
	}

	s.SetWorkers(resolveWorkers(cmd, cfg))

	var (
		barOnce sync.Once
		bar     *progressbar.ProgressBar
	)

	s.SetProgressCallback(func(completed, total int) {
		barOnce.Do(func() {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Evaluating combinations"),
				progressbar.OptionSetWidth(30),
				progressbar.OptionShowCount(),
			)
		})

		//nolint:errcheck // progress display is best-effort
		bar.Set(completed)
	})

	// Ctrl-C lets in-flight evaluations finish, then marks the run
	// incomplete instead of killing it.
	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	set, err := s.Run(runCtx)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	fmt.Println()
	printSummary(set, metric, int(top))

	return nil
}

// resolveWorkers picks the worker count: the flag wins if set, then the
// config, then one worker per CPU.
func resolveWorkers(cmd *cli.Command, cfg *sweep.SweepConfig) int {
	if cmd.IsSet("workers") {
		return int(cmd.Int("workers"))
	}

	if cfg.Workers > 0 {
		return cfg.Workers
	}

	return runtime.NumCPU()
}

// printSummary prints the top combinations ranked by the chosen metric,
// highest first, followed by any failures.
func printSummary(set *sweep.ResultSet, metric string, top int) {
	fmt.Printf("Sweep %s finished: status=%s results=%d failures=%d\n",
		set.Identity, set.Status, set.Len(), set.FailureCount())

	type ranked struct {
		result sweep.Result
		score  float64
	}

	var rankable []ranked

	for _, r := range set.Results {
		if r.Failed() {
			continue
		}

		metrics := r.Metrics.TakeOr(sweep.Output{})

		score, ok := metrics[metric]
		if !ok {
			continue
		}

		rankable = append(rankable, ranked{result: r, score: score})
	}

	sort.SliceStable(rankable, func(i, j int) bool {
		return rankable[i].score > rankable[j].score
	})

	if top > len(rankable) {
		top = len(rankable)
	}

	fmt.Printf("\nTop %d by %s:\n", top, metric)

	for i := 0; i < top; i++ {
		r := rankable[i]
		fmt.Printf("  %2d. %-40s %s=%.4f (%.2fms)\n",
			i+1, r.result.Combination.Key(), metric, r.score,
			float64(r.result.Duration.Microseconds())/1000.0)
	}

	for _, r := range set.Results {
		if r.Failed() {
			fmt.Printf("  FAILED %-40s %s\n", r.Combination.Key(), r.Error)
		}
	}
}

// schemaAction prints the JSON schema of the sweep configuration file.
func schemaAction(ctx context.Context, cmd *cli.Command) error {
	schemaJSON, err := (&sweep.SweepConfig{}).GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	fmt.Println(schemaJSON)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "sweep",
		Usage: "Run a parameter sweep over a crossover strategy",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Path to the sweep configuration YAML file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "Path to the candle data file (.csv or .parquet)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "symbol",
				Aliases: []string{"s"},
				Usage:   "Symbol the candle data belongs to",
				Value:   "TEST",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "Path to the DuckDB result store (empty = no persistence)",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Worker pool size (defaults to config, then CPU count)",
			},
			&cli.FloatFlag{
				Name:  "capital",
				Usage: "Initial capital for each backtest",
				Value: 10000,
			},
			&cli.StringFlag{
				Name:  "metric",
				Usage: "Metric used to rank results",
				Value: "total_return_pct",
			},
			&cli.IntFlag{
				Name:  "top",
				Usage: "How many top combinations to print",
				Value: 10,
			},
		},
		Action: sweepAction,
		Commands: []*cli.Command{
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the sweep configuration",
				Action: schemaAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
