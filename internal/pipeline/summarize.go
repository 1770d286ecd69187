package pipeline

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"playstats/internal/core"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"Jan 2, 2006",
	"2 Jan 2006",
}

// Summarize reduces a collected table to one entry per report period holding
// the highest "Active Device Installs" value. Rows without a parseable Date
// are dropped first. Periods are emitted in ascending order of their
// "YYYY-MM" tag, which is chronological.
func Summarize(t core.Table) []core.MonthlySummary {
	out := []core.MonthlySummary{}
	if t.Empty() {
		return out
	}

	type datedRow struct {
		row core.Row
		at  time.Time
	}
	rows := make([]datedRow, 0, t.Len())
	for _, r := range t.Rows {
		raw, _ := r.Get(DateColumn)
		at, ok := parseDate(raw)
		if !ok {
			continue
		}
		rows = append(rows, datedRow{row: r, at: at})
	}
	// Only affects inspection order; grouping below is by period tag.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].at.Before(rows[j].at) })

	type peak struct {
		max float64
		has bool
	}
	peaks := map[string]*peak{}
	for _, dr := range rows {
		period, ok := dr.row.Get(PeriodColumn)
		if !ok {
			continue
		}
		p, seen := peaks[period]
		if !seen {
			p = &peak{}
			peaks[period] = p
		}
		raw, _ := dr.row.Get(InstallsColumn)
		v, ok := parseInstalls(raw)
		if !ok {
			continue
		}
		if !p.has || v > p.max {
			p.max, p.has = v, true
		}
	}

	periods := make([]string, 0, len(peaks))
	for period := range peaks {
		periods = append(periods, period)
	}
	sort.Strings(periods)

	for _, period := range periods {
		p := peaks[period]
		if !p.has {
			continue
		}
		label, err := core.MonthLabel(period)
		if err != nil {
			continue
		}
		out = append(out, core.MonthlySummary{Month: label, ActiveUsers: int64(math.Trunc(p.max))})
	}
	return out
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if at, err := time.Parse(layout, s); err == nil {
			return at, true
		}
	}
	return time.Time{}, false
}

// maxInstalls is 2^63, the first float64 that no longer fits an int64.
const maxInstalls = float64(math.MaxInt64)

func parseInstalls(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || v < 0 || v >= maxInstalls {
		return 0, false
	}
	return v, true
}
