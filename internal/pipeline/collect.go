package pipeline

import (
	"context"
	"fmt"

	"playstats/internal/core"
	applog "playstats/internal/log"
	"playstats/internal/reports"
)

// Download fetches one report and decodes it. Any download or decode failure
// yields Decoded{OK: false}; the caller treats it as a month without data.
func Download(ctx context.Context, reader reports.ObjectReader, cfg Config, name string) Decoded {
	data, err := reader.ReadObject(ctx, cfg.Bucket, name)
	if err != nil {
		return Decoded{}
	}
	return Decode(data, cfg.encodings())
}

// Collect locates every overview report and stacks their rows into one table,
// each row tagged with its report period in PeriodColumn. Reports that cannot
// be downloaded or decoded are left out.
func Collect(ctx context.Context, store reports.Store, cfg Config) (core.Table, error) {
	descs, err := Locate(ctx, store, cfg)
	if err != nil {
		return core.Table{}, err
	}
	if len(descs) == 0 {
		return core.Table{}, nil
	}

	log := cfg.logger()
	tables := make([]core.Table, 0, len(descs))
	for _, d := range descs {
		if err := ctx.Err(); err != nil {
			return core.Table{}, fmt.Errorf("collect reports: %w", err)
		}
		res := Download(ctx, store, cfg, d.Name)
		if !res.OK {
			continue
		}
		log.Debug("Decoded overview report",
			"name", d.Name,
			"period", d.Period,
			"encoding", res.Encoding.String(),
			"rows", res.Table.Len())
		tables = append(tables, res.Table.WithColumn(PeriodColumn, d.Period))
	}
	// a read cut short by cancellation looks like a month without data
	if err := ctx.Err(); err != nil {
		return core.Table{}, fmt.Errorf("collect reports: %w", err)
	}
	if len(tables) == 0 {
		return core.Table{}, nil
	}
	return core.Concat(tables...), nil
}

// MonthlyInstalls runs the whole pipeline for one package.
func MonthlyInstalls(ctx context.Context, store reports.Store, cfg Config) ([]core.MonthlySummary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t, err := Collect(ctx, store, cfg)
	if err != nil {
		return nil, err
	}
	out := Summarize(t)

	cfg.logger().InfoContext(ctx, "Aggregated monthly installs",
		applog.FieldPackage, cfg.Package,
		"rows", t.Len(),
		applog.FieldMonths, len(out))
	return out, nil
}
