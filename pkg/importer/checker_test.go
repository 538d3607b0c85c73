package importer

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCheckAll_Mixed(t *testing.T) {
	// Server that returns 200.
	srv200 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv200.Close()

	// Server that returns 404.
	srv404 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv404.Close()

	// Server that returns 500.
	srv500 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv500.Close()

	dir := t.TempDir()
	sdb, err := OpenSourceDB(filepath.Join(dir, "sources.db"))
	if err != nil {
		t.Fatalf("OpenSourceDB: %v", err)
	}
	defer sdb.Close()

	adapters := []Adapter{
		&fakeAdapter{"ok-source", "d1", "OK source", srv200.URL, "CC0"},
		&fakeAdapter{"notfound-source", "d2", "404 source", srv404.URL, "CC0"},
		&fakeAdapter{"error-source", "d3", "500 source", srv500.URL, "CC0"},
	}
	if err := sdb.Seed(adapters); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	checker := NewChecker(sdb, logger, time.Hour)

	results := checker.CheckAll(context.Background())
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	statusByID := make(map[string]CheckResult)
	for _, res := range results {
		statusByID[res.AdapterID] = res
	}

	if res := statusByID["ok-source"]; res.Status != 200 || !res.OK() {
		t.Errorf("ok-source: expected 200/ok, got %+v", res)
	}
	if res := statusByID["notfound-source"]; res.Status != 404 || res.OK() {
		t.Errorf("notfound-source: expected 404/fail, got %+v", res)
	}
	if res := statusByID["error-source"]; res.Status != 500 || res.OK() {
		t.Errorf("error-source: expected 500/fail, got %+v", res)
	}

	// Results are persisted too.
	sources, err := sdb.ListSources()
	if err != nil {
		t.Fatalf("ListSources: %v", err)
	}
	for _, src := range sources {
		if src.LastStatus == nil {
			t.Errorf("%s: last_status not persisted", src.AdapterID)
		}
	}
}

func TestCheckAll_NetworkError(t *testing.T) {
	dir := t.TempDir()
	sdb, err := OpenSourceDB(filepath.Join(dir, "sources.db"))
	if err != nil {
		t.Fatalf("OpenSourceDB: %v", err)
	}
	defer sdb.Close()

	adapters := []Adapter{
		&fakeAdapter{"dead-source", "d1", "dead", "http://127.0.0.1:1", "CC0"},
	}
	if err := sdb.Seed(adapters); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	checker := NewChecker(sdb, logger, time.Hour)

	results := checker.CheckAll(context.Background())
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Status != 0 || results[0].OK() {
		t.Errorf("expected status 0/fail for network error, got %+v", results[0])
	}
	if results[0].Err == "" {
		t.Error("expected non-empty error for network error")
	}

	sources, _ := sdb.ListSources()
	src := sources[0]
	if src.LastError == nil || *src.LastError == "" {
		t.Error("expected non-empty last_error for network error")
	}
}

func TestCheckAll_EmptyDB(t *testing.T) {
	dir := t.TempDir()
	sdb, err := OpenSourceDB(filepath.Join(dir, "sources.db"))
	if err != nil {
		t.Fatalf("OpenSourceDB: %v", err)
	}
	defer sdb.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	checker := NewChecker(sdb, logger, time.Hour)

	if results := checker.CheckAll(context.Background()); len(results) != 0 {
		t.Fatalf("expected no results on empty db, got %d", len(results))
	}
}

func TestCheckAll_Redirect(t *testing.T) {
	// 301 redirect should be treated as OK (2xx/3xx).
	srv301 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "https://example.com/new")
		w.WriteHeader(http.StatusMovedPermanently)
	}))
	defer srv301.Close()

	dir := t.TempDir()
	sdb, err := OpenSourceDB(filepath.Join(dir, "sources.db"))
	if err != nil {
		t.Fatalf("OpenSourceDB: %v", err)
	}
	defer sdb.Close()

	adapters := []Adapter{
		&fakeAdapter{"redirect-source", "d1", "redirect", srv301.URL, "CC0"},
	}
	if err := sdb.Seed(adapters); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	checker := NewChecker(sdb, logger, time.Hour)
	results := checker.CheckAll(context.Background())

	if len(results) != 1 || results[0].Status != 301 || !results[0].OK() {
		t.Fatalf("expected 301/ok, got %+v", results)
	}
}
