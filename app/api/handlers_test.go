package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lysyi3m/rss-estate/app/article"
	"github.com/lysyi3m/rss-estate/app/ingest"
	"github.com/lysyi3m/rss-estate/app/tasks"
)

type MockRunner struct {
	summary ingest.Summary
	err     error
	calls   int
	last    *ingest.Summary
}

var _ tasks.SyncRunner = (*MockRunner)(nil)

func (m *MockRunner) Run(ctx context.Context, trigger tasks.Trigger) (ingest.Summary, error) {
	m.calls++
	return m.summary, m.err
}

func (m *MockRunner) LastSummary() (ingest.Summary, bool) {
	if m.last == nil {
		return ingest.Summary{}, false
	}
	return *m.last, true
}

type MockStats struct {
	counts map[article.Category]int
	err    error
}

func (m *MockStats) CountArticles(ctx context.Context) (int, error) {
	total := 0
	for _, c := range m.counts {
		total += c
	}
	return total, m.err
}

func (m *MockStats) CountByCategory(ctx context.Context) (map[article.Category]int, error) {
	return m.counts, m.err
}

func newTestServer(runner *MockRunner, stats *MockStats, opts ServerOptions) http.Handler {
	return NewServer(NewHandler(runner, stats, "test"), opts)
}

func doRequest(t *testing.T, h http.Handler, method, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body %q: %v", w.Body.String(), err)
	}
	return w, body
}

func TestSync_Success(t *testing.T) {
	runner := &MockRunner{summary: ingest.Summary{Success: true, Synced: 3, Enriched: 1, Skipped: 2}}
	server := newTestServer(runner, &MockStats{}, ServerOptions{})

	w, body := doRequest(t, server, http.MethodPost, "/sync")
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if body["success"] != true || body["synced"] != float64(3) || body["skipped"] != float64(2) {
		t.Errorf("Unexpected body: %v", body)
	}
	if _, ok := body["errors"]; ok {
		t.Error("Expected errors to be omitted when empty")
	}
}

func TestSync_Failure(t *testing.T) {
	runner := &MockRunner{summary: ingest.Failure(errors.New("store unavailable"))}
	server := newTestServer(runner, &MockStats{}, ServerOptions{})

	w, body := doRequest(t, server, http.MethodPost, "/sync")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
	if body["success"] != false || body["error"] != "store unavailable" {
		t.Errorf("Unexpected body: %v", body)
	}
}

func TestSync_InProgress(t *testing.T) {
	runner := &MockRunner{err: tasks.ErrRunInProgress}
	server := newTestServer(runner, &MockStats{}, ServerOptions{})

	w, body := doRequest(t, server, http.MethodPost, "/sync")
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}
	if body["error"] != "run already in progress" {
		t.Errorf("Unexpected body: %v", body)
	}
}

func TestSync_RateLimited(t *testing.T) {
	runner := &MockRunner{summary: ingest.Summary{Success: true}}
	server := newTestServer(runner, &MockStats{}, ServerOptions{SyncRate: 0.001, SyncBurst: 1})

	if w, _ := doRequest(t, server, http.MethodPost, "/sync"); w.Code != http.StatusOK {
		t.Fatalf("Expected first request to pass, got %d", w.Code)
	}
	w, _ := doRequest(t, server, http.MethodPost, "/sync")
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", w.Code)
	}
	if runner.calls != 1 {
		t.Errorf("Expected 1 runner call, got %d", runner.calls)
	}
}

func TestGetHealth(t *testing.T) {
	last := ingest.Summary{Success: true, Synced: 5}
	runner := &MockRunner{last: &last}
	stats := &MockStats{counts: map[article.Category]int{article.CategoryOffPlan: 2, article.CategoryRegulations: 1}}
	server := newTestServer(runner, stats, ServerOptions{})

	w, body := doRequest(t, server, http.MethodGet, "/health")
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if body["status"] != "ok" || body["articles"] != float64(3) {
		t.Errorf("Unexpected body: %v", body)
	}
	lastSync, ok := body["last_sync"].(map[string]any)
	if !ok {
		t.Fatalf("Expected last_sync object, got %v", body["last_sync"])
	}
	summary := lastSync["summary"].(map[string]any)
	if summary["synced"] != float64(5) {
		t.Errorf("Expected last synced=5, got %v", summary["synced"])
	}
}

func TestGetHealth_DatabaseDown(t *testing.T) {
	server := newTestServer(&MockRunner{}, &MockStats{err: errors.New("closed")}, ServerOptions{})

	w, body := doRequest(t, server, http.MethodGet, "/health")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
	if body["status"] != "unavailable" {
		t.Errorf("Unexpected body: %v", body)
	}
}

func TestGetStats(t *testing.T) {
	stats := &MockStats{counts: map[article.Category]int{
		article.CategoryGoldenVisa:   1,
		article.CategoryMarketTrends: 4,
	}}
	server := newTestServer(&MockRunner{}, stats, ServerOptions{})

	w, body := doRequest(t, server, http.MethodGet, "/stats")
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if body["total"] != float64(5) {
		t.Errorf("Expected total 5, got %v", body["total"])
	}
	categories := body["categories"].(map[string]any)
	if categories["golden_visa"] != float64(1) || categories["market_trends"] != float64(4) {
		t.Errorf("Unexpected categories: %v", categories)
	}
}

func TestRoot(t *testing.T) {
	server := newTestServer(&MockRunner{}, &MockStats{}, ServerOptions{Version: "1.2.3"})

	w, body := doRequest(t, server, http.MethodGet, "/")
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if body["version"] != "1.2.3" {
		t.Errorf("Expected version 1.2.3, got %v", body["version"])
	}
}
