package pipeline

import (
	"context"
	"fmt"

	"playstats/internal/core"
	applog "playstats/internal/log"
	"playstats/internal/reports"
)

// ReportPrefix is the listing prefix for a package's install reports.
func ReportPrefix(pkg string) string {
	return fmt.Sprintf("stats/installs/installs_%s_", pkg)
}

// Locate lists the package's overview reports and returns them in chronological
// order. Objects that do not follow the overview naming are skipped; a listing
// failure is returned as is.
func Locate(ctx context.Context, lister reports.ObjectLister, cfg Config) ([]core.ReportDescriptor, error) {
	prefix := ReportPrefix(cfg.Package)
	names, err := lister.ListObjects(ctx, cfg.Bucket, prefix)
	if err != nil {
		return nil, fmt.Errorf("list overview reports: %w", err)
	}

	var out []core.ReportDescriptor
	for _, name := range names {
		if d, ok := core.ParseReportName(name); ok {
			out = append(out, d)
		}
	}
	core.SortDescriptors(out)

	cfg.logger().InfoContext(ctx, "Located overview reports",
		applog.FieldBucket, cfg.Bucket,
		applog.FieldPackage, cfg.Package,
		"objects", len(names),
		"reports", len(out))
	return out, nil
}
