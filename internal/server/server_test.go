package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bidgoat/bidgoat/internal/analysis"
	"github.com/bidgoat/bidgoat/internal/dataset"
	"github.com/bidgoat/bidgoat/internal/server"
	"github.com/bidgoat/bidgoat/internal/store"
	"github.com/bidgoat/bidgoat/internal/testutil"
)

const testToken = "c0ffee42"

func setupTestServer(t *testing.T) (*server.Server, *analysis.Report) {
	t.Helper()

	s := testutil.SetupTestStore(t)

	control, err := dataset.NewFrame(dataset.NewFloatColumn("Purchase", testutil.ControlPurchases))
	if err != nil {
		t.Fatalf("failed to build control frame: %v", err)
	}
	test, err := dataset.NewFrame(dataset.NewFloatColumn("Purchase", testutil.StudentTestPurchases))
	if err != nil {
		t.Fatalf("failed to build test frame: %v", err)
	}
	rep, err := analysis.Run(context.Background(), control, test, analysis.Options{Input: "ab_testing.xlsx"})
	if err != nil {
		t.Fatalf("failed to run analysis: %v", err)
	}

	body, err := json.Marshal(rep)
	if err != nil {
		t.Fatalf("failed to marshal report: %v", err)
	}
	var checks []store.Check
	for _, c := range rep.Checks() {
		checks = append(checks, store.Check{Stage: c.Stage, Subject: c.Subject, Name: c.Result.Name,
			Hypothesis: c.Hypothesis, Statistic: c.Result.Statistic, PValue: c.Result.PValue, Rejected: c.Rejected})
	}
	run := &store.Run{
		ID: rep.ID, Input: rep.Input, Metric: rep.Metric, Alpha: rep.Alpha, Selected: string(rep.Selected),
		Statistic: rep.Final.Result.Statistic, PValue: rep.Final.Result.PValue, Rejected: rep.Decision.Rejected,
		Report: body, CreatedAt: time.Now(),
	}
	if err := s.SaveRun(context.Background(), run, checks); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	return server.New(s, 0, testToken), rep
}

func get(srv *server.Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var health server.HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&health); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if health.Status != "ok" || health.RunsCount != 1 {
		t.Errorf("unexpected health %+v", health)
	}
}

func TestRuns_Unauthorized(t *testing.T) {
	srv, _ := setupTestServer(t)

	for _, path := range []string{"/api/runs", "/runs/abc"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected status 401, got %d", path, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong bearer: expected status 401, got %d", w.Code)
	}
}

func TestRuns_QueryTokenSetsCookie(t *testing.T) {
	srv, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/runs?token="+testToken, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected status 302 (redirect), got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); strings.Contains(loc, "token=") {
		t.Errorf("redirect still carries the token: %s", loc)
	}

	var tokenCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "bidgoat_token" {
			tokenCookie = c
		}
	}
	if tokenCookie == nil {
		t.Fatal("expected bidgoat_token cookie to be set")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	req.AddCookie(tokenCookie)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200 with cookie, got %d", w.Code)
	}
}

func TestListRuns(t *testing.T) {
	srv, rep := setupTestServer(t)

	w := get(srv, "/api/runs")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var runs []server.RunResponse
	if err := json.NewDecoder(w.Body).Decode(&runs); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].ID != rep.ID || runs[0].Test != "student" || runs[0].Rejected {
		t.Errorf("unexpected run %+v", runs[0])
	}
}

func TestGetRun(t *testing.T) {
	srv, rep := setupTestServer(t)

	w := get(srv, "/api/runs/"+rep.ID[:8])
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var got analysis.Report
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.ID != rep.ID || got.Selected != rep.Selected {
		t.Errorf("unexpected report %s / %s", got.ID, got.Selected)
	}

	if w := get(srv, "/api/runs/ffffffff"); w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestGetChecks(t *testing.T) {
	srv, rep := setupTestServer(t)

	w := get(srv, "/api/runs/"+rep.ID+"/checks")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var checks []server.CheckResponse
	if err := json.NewDecoder(w.Body).Decode(&checks); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	// normality x2, homogeneity, final; no count columns for proportions
	if len(checks) != 4 {
		t.Fatalf("expected 4 checks, got %d", len(checks))
	}
	if checks[3].Stage != analysis.StageHypothesis {
		t.Errorf("expected final check last, got %s", checks[3].Stage)
	}
}

func TestRunText(t *testing.T) {
	srv, rep := setupTestServer(t)

	w := get(srv, "/runs/"+rep.ID)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("unexpected content type %q", ct)
	}
	if !strings.Contains(w.Body.String(), "Test Stat = -0.7430, p-value = 0.4670") {
		t.Errorf("report missing final test line:\n%s", w.Body.String())
	}
}

func TestNew_GeneratesToken(t *testing.T) {
	srv := server.New(testutil.SetupTestStore(t), 0, "")
	if len(srv.Token()) != 8 {
		t.Errorf("expected 8-char token, got %q", srv.Token())
	}
}
