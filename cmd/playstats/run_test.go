package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"playstats/internal/amqp"
	"playstats/internal/core"
	applog "playstats/internal/log"
	"playstats/internal/pipeline"
	"playstats/internal/reports/memory"
)

type fakePublisher struct {
	mu   sync.Mutex
	msgs []*amqp.MonthlyInstallsMessage
	err  error
}

func (f *fakePublisher) PublishMonthlyInstalls(_ context.Context, msg *amqp.MonthlyInstallsMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
	return f.err
}

func seededStore() *memory.Store {
	s := memory.New()
	s.Put("bucket", pipeline.ReportPrefix("com.example.app")+"202401_overview.csv",
		[]byte("Date,Active Device Installs\n2024-01-01,100\n"))
	s.Put("bucket", pipeline.ReportPrefix("com.example.lite")+"202402_overview.csv",
		[]byte("Date,Active Device Installs\n2024-02-01,7\n"))
	return s
}

func testLogger(buf *bytes.Buffer) *applog.Logger {
	return applog.New(applog.Config{Component: applog.ComponentApp, Output: buf})
}

func TestRunAll_MultiplePackages(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	packages := []string{"com.example.app", "com.example.lite", "com.example.none"}
	var logs bytes.Buffer

	results, err := runAll(context.Background(), testLogger(&logs), seededStore(), "bucket", packages, 2, pub)
	if err != nil {
		t.Fatalf("runAll: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %v", results)
	}
	if len(results[0]) != 1 || results[0][0] != (core.MonthlySummary{Month: "Jan 2024", ActiveUsers: 100}) {
		t.Fatalf("app results = %+v", results[0])
	}
	if len(results[1]) != 1 || results[1][0].Month != "Feb 2024" {
		t.Fatalf("lite results = %+v", results[1])
	}
	if len(results[2]) != 0 {
		t.Fatalf("none results = %+v", results[2])
	}
	if len(pub.msgs) != 3 {
		t.Fatalf("expected 3 published messages, got %d", len(pub.msgs))
	}
	if !strings.Contains(logs.String(), "Failed to publish monthly installs") {
		t.Fatalf("expected publish warning in %q", logs.String())
	}
	if !strings.Contains(logs.String(), "component=pipeline") {
		t.Fatalf("expected pipeline component in %q", logs.String())
	}
}

func TestRunAll_ListingFailureIsFatal(t *testing.T) {
	var logs bytes.Buffer
	_, err := runAll(context.Background(), testLogger(&logs), seededStore(), "missing-bucket", []string{"com.example.app"}, 1, nil)
	if err == nil || !strings.Contains(err.Error(), "com.example.app") {
		t.Fatalf("expected package error, got %v", err)
	}
	if !strings.Contains(logs.String(), "Package aggregation failed") {
		t.Fatalf("expected error log in %q", logs.String())
	}
}

func TestWriteResults_SinglePackageIsArray(t *testing.T) {
	var buf bytes.Buffer
	results := [][]core.MonthlySummary{{{Month: "Jan 2024", ActiveUsers: 100}, {Month: "Feb 2024", ActiveUsers: 200}}}
	if err := writeResults(&buf, []string{"com.example.app"}, results); err != nil {
		t.Fatalf("write: %v", err)
	}

	var got []core.MonthlySummary
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not an array: %v\n%s", err, buf.String())
	}
	if len(got) != 2 || got[1].ActiveUsers != 200 {
		t.Fatalf("unexpected output %+v", got)
	}
}

func TestWriteResults_EmptyIsEmptyArray(t *testing.T) {
	var buf bytes.Buffer
	if err := writeResults(&buf, []string{"p"}, [][]core.MonthlySummary{nil}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestWriteResults_SeveralPackagesIsObject(t *testing.T) {
	var buf bytes.Buffer
	results := [][]core.MonthlySummary{{{Month: "Jan 2024", ActiveUsers: 1}}, nil}
	if err := writeResults(&buf, []string{"a", "b"}, results); err != nil {
		t.Fatalf("write: %v", err)
	}

	var got map[string][]core.MonthlySummary
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not an object: %v", err)
	}
	if len(got["a"]) != 1 || got["b"] == nil || len(got["b"]) != 0 {
		t.Fatalf("unexpected output %+v", got)
	}
}
