package loadgen

import (
	"bytes"
	"context"
	"flag"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestParseConfig(t *testing.T) {
	fs := flag.NewFlagSet("loadgen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg, err := ParseConfig(fs, []string{"-url", "http://svc:8080", "-slugs", "cafe, bistro,", "-items", "3", "-rate", "20", "-duration", "2s"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(cfg.Slugs) != 2 || cfg.Slugs[1] != "bistro" || cfg.Items != 3 || cfg.Rate != 20 || cfg.Duration != 2*time.Second {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	fs := flag.NewFlagSet("loadgen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	_, err := ParseConfig(fs, []string{"-url", "localhost", "-slugs", " ", "-rate", "0"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"-url", "-slugs", "-rate"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %s in error, got %v", want, err)
		}
	}
}

func TestTargets(t *testing.T) {
	targets := Targets(Config{BaseURL: "http://svc/", Slugs: []string{"cafe"}, Items: 2})

	want := []string{
		"http://svc/api/cafe/scan",
		"http://svc/api/cafe/click",
		"http://svc/api/cafe/item/0/click",
		"http://svc/api/cafe/item/1/click",
	}
	if len(targets) != len(want) {
		t.Fatalf("expected %d targets, got %d", len(want), len(targets))
	}
	for i, tg := range targets {
		if tg.URL != want[i] || tg.Method != http.MethodPost {
			t.Fatalf("target %d: got %s %s", i, tg.Method, tg.URL)
		}
	}
}

func TestRun_AgainstServer(t *testing.T) {
	var (
		mu   sync.Mutex
		hits = map[string]int{}
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits[r.URL.Path]++
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	cfg := Config{
		BaseURL:  srv.URL,
		Slugs:    []string{"cafe"},
		Items:    1,
		Rate:     100,
		Duration: 300 * time.Millisecond,
		Workers:  4,
		Timeout:  time.Second,
	}

	var out bytes.Buffer
	metrics, err := Run(context.Background(), cfg, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if metrics.Requests == 0 || metrics.Success != 1 {
		t.Fatalf("expected only successful requests, got %d requests, success %.2f", metrics.Requests, metrics.Success)
	}
	if !strings.Contains(out.String(), "Requests") {
		t.Fatalf("expected text report, got %q", out.String())
	}

	mu.Lock()
	defer mu.Unlock()
	if hits["/api/cafe/scan"] == 0 || hits["/api/cafe/item/0/click"] == 0 {
		t.Fatalf("expected every target to be hit, got %v", hits)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{BaseURL: srv.URL, Slugs: []string{"cafe"}, Rate: 10, Duration: time.Hour, Workers: 1, Timeout: time.Second}

	done := make(chan struct{})
	go func() {
		_, _ = Run(ctx, cfg, io.Discard)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after cancellation")
	}
}
