// Command report prints one user's month at a glance: the aggregate
// statistics row, the per-category ranking and the daily breakdown. The
// three reads are independent single statements, so they run concurrently.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"expenses/internal/cli"
	"expenses/internal/core"
	"expenses/internal/log"
	"expenses/internal/services"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	now := time.Now()
	userID := fs.Int64("user", 0, "User ID")
	month := fs.Int("month", int(now.Month()), "Month (1-12)")
	year := fs.Int("year", now.Year(), "Year")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userID <= 0 {
		fs.PrintDefaults()
		return fmt.Errorf("missing required flag: user")
	}

	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg).WithComponent(log.ComponentReport)

	repo := cli.InitRepository(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	reports := services.NewReportService(repo, logger)

	var (
		stats     core.ExpenseStats
		breakdown []core.CategoryExpense
		daily     []core.DailyTotal
	)

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		var err error
		stats, err = reports.Stats(ctx, *userID, *month, *year)
		return err
	})
	g.Go(func() error {
		var err error
		breakdown, err = reports.CategoryBreakdown(ctx, *userID, *month, *year)
		return err
	})
	g.Go(func() error {
		var err error
		daily, err = reports.MonthByDay(ctx, *userID, *month, *year)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("Report for user %d, %s %d\n\n", *userID, time.Month(*month), *year)
	fmt.Printf("Total: %s  Average: %s  Max: %s  Min: %s  Transactions: %d\n\n",
		stats.Total, stats.Average, stats.Max, stats.Min, stats.Count)

	fmt.Println("By category:")
	for _, ce := range breakdown {
		fmt.Printf("  %-20s %10s  (%d)\n", ce.Name, ce.Total, ce.Count)
	}

	if len(daily) > 0 {
		fmt.Println("\nBy day:")
		for _, d := range daily {
			fmt.Printf("  %02d  %10s  (%d)\n", d.Day, d.Total, d.Count)
		}
	}

	return nil
}
