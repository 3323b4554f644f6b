package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/perdasilva/mpsolve/pkg/optimizer"
	"github.com/perdasilva/mpsolve/pkg/program"
	"github.com/perdasilva/mpsolve/pkg/solver"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		problemFile string
		timeout     time.Duration
		verbose     bool
	)
	flag.StringVar(&problemFile, "f", "", "problem file (YAML, or JSON with a .json extension)")
	flag.DurationVar(&timeout, "timeout", 0, "per-solve timeout (0 disables)")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.Parse()

	if problemFile == "" {
		fmt.Fprintln(os.Stderr, "usage: mpsolve -f <problem file> [-timeout <duration>] [-v]")
		return 2
	}

	log, err := newLogger(verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		_ = log.Sync()
	}()

	in, err := optimizer.LoadRequest(problemFile)
	if err != nil {
		log.Error("could not load problem", zap.Error(err))
		return 1
	}

	opt := optimizer.New(
		optimizer.WithLogger(log),
		optimizer.WithSolver(solver.New(
			solver.WithLogger(log),
			solver.WithTimeout(timeout),
		)),
	)

	resp, err := opt.Solve(context.Background(), in)
	if resp != nil {
		for _, d := range resp.Diagnostics {
			fmt.Fprintf(os.Stderr, "warning: %v\n", d)
		}
	}
	if err != nil {
		log.Error("optimization failed", zap.Error(err))
		return 1
	}

	result := resp.Result
	if !result.Optimal() {
		fmt.Printf("status: %s\n", result.Status)
		if result.RawMessage != "" {
			fmt.Printf("detail: %s\n", result.RawMessage)
		}
		return 1
	}

	decimals := 2
	if in.Class == program.ClassNLP || in.Class == program.ClassMINLP {
		decimals = 4
	}
	fmt.Printf("status: %s\n", result.Status)
	fmt.Printf("objective: %s\n", result.FormatObjective(decimals))

	names := make([]string, 0, len(result.Values))
	for name := range result.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s = %.*f\n", name, decimals, result.Values[name])
	}
	return 0
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}
