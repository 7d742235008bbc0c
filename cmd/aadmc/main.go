// Package main provides the aadmc command: Monte-Carlo pricing with
// adjoint deltas, compared against closed-form Black prices.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/born-ml/aadmc/internal/ledger"
	"github.com/born-ml/aadmc/internal/metrics"
	"github.com/born-ml/aadmc/internal/pricing"
	"github.com/born-ml/aadmc/internal/randomvalue"
	"github.com/born-ml/aadmc/internal/sampling"
)

const version = "v0.1.0"

var errUsage = errors.New("usage: aadmc <price|runs|version> [flags]")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "price":
		return runPrice(ctx, args[1:], stdout, stderr)
	case "runs":
		return runRuns(ctx, args[1:], stdout)
	case "version":
		fmt.Fprintf(stdout, "aadmc %s\n", version)
		return nil
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}

func runPrice(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	model := pricing.DefaultBlackModel()
	samples := sampling.DefaultConfig()
	tapeCfg := randomvalue.DefaultConfig()

	fs := flag.NewFlagSet("price", flag.ContinueOnError)
	fs.SetOutput(stderr)
	product := fs.String("product", "all", "product: digital-caplet|caplet|fra-in-arrears|all")
	fs.Float64Var(&model.Forward, "forward", model.Forward, "initial forward rate")
	fs.Float64Var(&model.PayoffUnit, "payoff-unit", model.PayoffUnit, "discount factor to the payment date")
	fs.Float64Var(&model.Volatility, "volatility", model.Volatility, "lognormal volatility")
	fs.Float64Var(&model.Strike, "strike", model.Strike, "strike rate")
	fs.Float64Var(&model.Maturity, "maturity", model.Maturity, "fixing time in years")
	fs.Float64Var(&model.PeriodLength, "period", model.PeriodLength, "accrual period in years")
	fs.IntVar(&samples.Paths, "paths", samples.Paths, "number of Monte-Carlo paths")
	fs.Uint64Var(&samples.Seed, "seed", samples.Seed, "random seed")
	method := fs.String("method", samples.Method.String(), "sampling method: stratified|pseudorandom")
	fs.BoolVar(&samples.Antithetic, "antithetic", false, "use antithetic normals")
	fs.Float64Var(&tapeCfg.HFactor, "h-factor", tapeCfg.HFactor, "call spread width in standard deviations")
	dbPath := fs.String("db", "", "record runs in this sqlite database")
	verbose := fs.Bool("v", false, "debug logging")
	showMetrics := fs.Bool("metrics", false, "print collected metrics")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if samples.Method, err = sampling.ParseMethod(*method); err != nil {
		return err
	}
	products := pricing.Products
	if *product != "all" {
		p, err := pricing.ParseProduct(*product)
		if err != nil {
			return err
		}
		products = []pricing.Product{p}
	}

	if *verbose {
		tapeCfg.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	reg := prometheus.NewRegistry()
	tapeCfg.Metrics = metrics.New(reg)

	normals, err := sampling.Normal(samples)
	if err != nil {
		return err
	}

	var store *ledger.Store
	if *dbPath != "" {
		store, err = ledger.Open(ctx, *dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "product\tvalue\tanalytic\terror\tdelta\tanalytic\terror\telapsed")
	for _, p := range products {
		r, err := pricing.Price(p, model, normals, tapeCfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.2e\t%.6f\t%.6f\t%.2e\t%s\n",
			p, r.Value, r.AnalyticValue, r.ValueError(), r.Delta, r.AnalyticDelta, r.DeltaError(), r.Elapsed.Round(time.Microsecond))

		if store != nil {
			if _, err := store.Record(ctx, ledger.FromResult(r, samples.Seed, samples.Method.String())); err != nil {
				return err
			}
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if *showMetrics {
		return writeMetrics(stdout, reg)
	}
	return nil
}

func runRuns(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	dbPath := fs.String("db", "aadmc.db", "sqlite database path")
	limit := fs.Int("limit", 20, "maximum number of runs, 0 for all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := ledger.Open(ctx, *dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(ctx, *limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "id\tcreated\tproduct\tpaths\tseed\tmethod\tvalue\tdelta\tanalytic delta")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%.6f\t%.6f\t%.6f\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Product, r.Paths, r.Seed, r.Method,
			r.Value, r.Delta, r.AnalyticDelta)
	}
	return w.Flush()
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
