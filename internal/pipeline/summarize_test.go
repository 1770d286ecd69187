package pipeline

import (
	"testing"

	"playstats/internal/core"
)

func row(date, installs, period string) core.Row {
	r := core.Row{PeriodColumn: period}
	if date != "" {
		r[DateColumn] = date
	}
	if installs != "" {
		r[InstallsColumn] = installs
	}
	return r
}

func TestSummarize_MaxPerPeriod(t *testing.T) {
	tbl := core.Table{
		Columns: []string{DateColumn, InstallsColumn, PeriodColumn},
		Rows: []core.Row{
			row("2024-01-01", "100", "2024-01"),
			row("2024-01-02", "150", "2024-01"),
			row("2024-01-03", "120", "2024-01"),
		},
	}
	got := Summarize(tbl)
	if len(got) != 1 || got[0] != (core.MonthlySummary{Month: "Jan 2024", ActiveUsers: 150}) {
		t.Fatalf("unexpected summary %+v", got)
	}
}

func TestSummarize_OrdersPeriodsChronologically(t *testing.T) {
	tbl := core.Table{Rows: []core.Row{
		row("2024-10-01", "10", "2024-10"),
		row("2024-02-01", "2", "2024-02"),
		row("2023-12-01", "1", "2023-12"),
	}}
	got := Summarize(tbl)
	want := []string{"Dec 2023", "Feb 2024", "Oct 2024"}
	if len(got) != len(want) {
		t.Fatalf("unexpected summary %+v", got)
	}
	for i, w := range want {
		if got[i].Month != w {
			t.Fatalf("position %d: got %s, want %s", i, got[i].Month, w)
		}
	}
}

func TestSummarize_DropsRowsWithBadDates(t *testing.T) {
	tbl := core.Table{Rows: []core.Row{
		row("2024-01-01", "100", "2024-01"),
		row("not a date", "999", "2024-01"),
		row("", "500", "2024-01"),
		row("garbage", "700", "2024-02"),
	}}
	got := Summarize(tbl)
	if len(got) != 1 || got[0].ActiveUsers != 100 {
		t.Fatalf("unexpected summary %+v", got)
	}
}

func TestSummarize_GroupsByPeriodTagNotDate(t *testing.T) {
	// A row dated in February but tagged January still counts for January.
	tbl := core.Table{Rows: []core.Row{
		row("2024-02-15", "300", "2024-01"),
		row("2024-01-15", "100", "2024-01"),
	}}
	got := Summarize(tbl)
	if len(got) != 1 || got[0] != (core.MonthlySummary{Month: "Jan 2024", ActiveUsers: 300}) {
		t.Fatalf("unexpected summary %+v", got)
	}
}

func TestSummarize_SkipsUnusableInstallValues(t *testing.T) {
	tbl := core.Table{Rows: []core.Row{
		row("2024-01-01", "", "2024-01"),
		row("2024-01-02", "n/a", "2024-01"),
		row("2024-01-03", "1,234.9", "2024-01"),
		row("2024-02-01", "", "2024-02"),
	}}
	got := Summarize(tbl)
	if len(got) != 1 || got[0] != (core.MonthlySummary{Month: "Jan 2024", ActiveUsers: 1234}) {
		t.Fatalf("unexpected summary %+v", got)
	}
}

func TestSummarize_Empty(t *testing.T) {
	got := Summarize(core.Table{})
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestParseDateLayouts(t *testing.T) {
	for _, s := range []string{"2024-01-31", "2024/01/31", "01/31/2024", "2024-01-31 10:00:00", "2024-01-31T10:00:00Z", "Jan 31, 2024", "31 Jan 2024"} {
		at, ok := parseDate(s)
		if !ok || at.Year() != 2024 || at.Month() != 1 || at.Day() != 31 {
			t.Errorf("parseDate(%q) = %v, %v", s, at, ok)
		}
	}
	if _, ok := parseDate("31.01.2024"); ok {
		t.Error("expected unsupported layout to fail")
	}
}

func TestParseInstalls(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"100", 100, true},
		{" 1,234.5 ", 1234.5, true},
		{"0", 0, true},
		{"-3", 0, false},
		{"NaN", 0, false},
		{"+Inf", 0, false},
		{"1e19", 0, false},
		{"9223372036854775808", 0, false},
		{"9007199254740992", 9007199254740992, true},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseInstalls(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("parseInstalls(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSummarize_IgnoresValuesBeyondInt64(t *testing.T) {
	tbl := core.Table{Rows: []core.Row{
		row("2024-01-01", "42", "2024-01"),
		row("2024-01-02", "1e30", "2024-01"),
	}}
	got := Summarize(tbl)
	if len(got) != 1 || got[0].ActiveUsers != 42 {
		t.Fatalf("unexpected summary %+v", got)
	}
}
