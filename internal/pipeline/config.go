// Package pipeline turns the monthly install reports of one application into
// a per-month summary: locate the overview reports, download and decode each,
// then reduce them to the peak active device installs per month.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	applog "playstats/internal/log"
)

// Column names consumed from, or added to, the report tables.
const (
	DateColumn     = "Date"
	InstallsColumn = "Active Device Installs"
	PeriodColumn   = "report_period"
)

// Config identifies which reports to aggregate. It is passed explicitly to each
// stage and never mutated.
type Config struct {
	Bucket  string
	Package string
	// Encodings is the decode preference order; DefaultEncodings when empty.
	Encodings []Encoding
	// Logger receives progress logs; a pipeline logger on the slog default
	// handler when nil.
	Logger *applog.Logger
}

// Validate reports missing identifiers.
func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Bucket) == "" {
		problems = append(problems, "bucket is required")
	}
	if strings.TrimSpace(c.Package) == "" {
		problems = append(problems, "package is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("pipeline config: %w", errors.New(strings.Join(problems, "; ")))
	}
	return nil
}

func (c Config) encodings() []Encoding {
	if len(c.Encodings) == 0 {
		return DefaultEncodings
	}
	return c.Encodings
}

func (c Config) logger() *applog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return applog.New(applog.Config{
		Component: applog.ComponentPipeline,
		Handler:   slog.Default().Handler(),
	})
}
