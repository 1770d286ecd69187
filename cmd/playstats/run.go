package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"playstats/internal/amqp"
	"playstats/internal/core"
	applog "playstats/internal/log"
	"playstats/internal/pipeline"
	"playstats/internal/reports"

	"golang.org/x/sync/errgroup"
)

type summaryPublisher interface {
	PublishMonthlyInstalls(ctx context.Context, msg *amqp.MonthlyInstallsMessage) error
}

// runAll aggregates every package, at most limit at a time. Each package runs
// its own sequential pipeline; the first fatal error cancels the rest.
// Publishing failures are logged and do not fail the run.
func runAll(ctx context.Context, logger *applog.Logger, store reports.Store, bucket string, packages []string, limit int, pub summaryPublisher) ([][]core.MonthlySummary, error) {
	results := make([][]core.MonthlySummary, len(packages))
	plog := logger.WithComponent(applog.ComponentPipeline)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, pkg := range packages {
		g.Go(func() error {
			months, err := pipeline.MonthlyInstalls(gctx, store, pipeline.Config{Bucket: bucket, Package: pkg, Logger: plog})
			if err != nil {
				plog.ErrorContext(gctx, "Package aggregation failed", applog.FieldPackage, pkg, applog.FieldError, err)
				return fmt.Errorf("package %s: %w", pkg, err)
			}
			results[i] = months

			if pub == nil {
				return nil
			}
			if err := pub.PublishMonthlyInstalls(gctx, amqp.NewMonthlyInstallsMessage(bucket, pkg, months)); err != nil {
				logger.Warn("Failed to publish monthly installs", applog.FieldPackage, pkg, applog.FieldError, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// writeResults prints a JSON array for a single package, or an object keyed by
// package name when several were aggregated.
func writeResults(w io.Writer, packages []string, results [][]core.MonthlySummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if len(packages) == 1 {
		return enc.Encode(nonNil(results[0]))
	}
	byPackage := make(map[string][]core.MonthlySummary, len(packages))
	for i, pkg := range packages {
		byPackage[pkg] = nonNil(results[i])
	}
	return enc.Encode(byPackage)
}

func nonNil(months []core.MonthlySummary) []core.MonthlySummary {
	if months == nil {
		return []core.MonthlySummary{}
	}
	return months
}
