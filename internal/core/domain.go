package core

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// OverviewSuffix marks monthly overview reports among the install statistics objects.
const OverviewSuffix = "_overview.csv"

type (
	// ReportDescriptor identifies one monthly overview report in the bucket.
	ReportDescriptor struct {
		Name   string
		Year   int
		Month  int    // 1-12
		Period string // "YYYY-MM"
	}
)

var (
	ErrInvalidPeriod = errors.New("invalid period")
	ErrInvalidMonth  = errors.New("invalid month")
)

var reportDatePattern = regexp.MustCompile(`_(\d{6})_overview\.csv`)

var monthAbbrev = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// ParseReportName extracts the report period from an object name such as
// "stats/installs/installs_com.example.app_202401_overview.csv".
// Names that are not overview reports are reported with ok=false.
func ParseReportName(name string) (ReportDescriptor, bool) {
	if !strings.Contains(name, OverviewSuffix) {
		return ReportDescriptor{}, false
	}
	m := reportDatePattern.FindStringSubmatch(name)
	if m == nil {
		return ReportDescriptor{}, false
	}
	token := m[1]
	year, _ := strconv.Atoi(token[:4])
	month, _ := strconv.Atoi(token[4:])
	if month < 1 || month > 12 {
		return ReportDescriptor{}, false
	}
	return ReportDescriptor{
		Name:   name,
		Year:   year,
		Month:  month,
		Period: FormatPeriod(year, month),
	}, true
}

// FormatPeriod renders a year and month as "YYYY-MM".
func FormatPeriod(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// SortDescriptors orders reports chronologically. Reports sharing a period keep
// their listing order.
func SortDescriptors(ds []ReportDescriptor) {
	sort.SliceStable(ds, func(i, j int) bool {
		if ds[i].Year != ds[j].Year {
			return ds[i].Year < ds[j].Year
		}
		return ds[i].Month < ds[j].Month
	})
}

// MonthLabel converts a "YYYY-MM" period into a label like "Jan 2024".
func MonthLabel(period string) (string, error) {
	year, month, ok := strings.Cut(period, "-")
	if !ok || year == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
	if m < 1 || m > 12 {
		return "", fmt.Errorf("%w: %d", ErrInvalidMonth, m)
	}
	return monthAbbrev[m-1] + " " + year, nil
}
