package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/bidgoat/bidgoat/internal/analysis"
	"github.com/bidgoat/bidgoat/internal/report"
	"github.com/bidgoat/bidgoat/internal/store"
)

type HealthResponse struct {
	Status        string `json:"status"`
	RunsCount     int    `json:"runs_count"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.ListRuns(r.Context())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, HealthResponse{
		Status:        "ok",
		RunsCount:     len(runs),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	})
}

// RunResponse is the list view of a saved run.
type RunResponse struct {
	ID        string    `json:"id"`
	Input     string    `json:"input"`
	Metric    string    `json:"metric"`
	Alpha     float64   `json:"alpha"`
	Test      string    `json:"test"`
	Statistic float64   `json:"statistic"`
	PValue    float64   `json:"p_value"`
	Rejected  bool      `json:"rejected"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.ListRuns(r.Context())
	if err != nil {
		http.Error(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}

	// Return empty array instead of null
	response := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		response = append(response, RunResponse{
			ID:        run.ID,
			Input:     run.Input,
			Metric:    run.Metric,
			Alpha:     run.Alpha,
			Test:      run.Selected,
			Statistic: run.Statistic,
			PValue:    run.PValue,
			Rejected:  run.Rejected,
			CreatedAt: run.CreatedAt,
		})
	}

	writeJSON(w, response)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(run.Report)
}

// CheckResponse is one saved hypothesis test.
type CheckResponse struct {
	Stage      string  `json:"stage"`
	Subject    string  `json:"subject,omitempty"`
	Test       string  `json:"test"`
	Hypothesis string  `json:"hypothesis"`
	Statistic  float64 `json:"statistic"`
	PValue     float64 `json:"p_value"`
	Rejected   bool    `json:"rejected"`
}

func (s *Server) handleGetChecks(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}

	checks, err := s.store.GetChecks(r.Context(), run.ID)
	if err != nil {
		http.Error(w, "Failed to get checks", http.StatusInternalServerError)
		return
	}

	response := make([]CheckResponse, 0, len(checks))
	for _, c := range checks {
		response = append(response, CheckResponse{
			Stage:      c.Stage,
			Subject:    c.Subject,
			Test:       c.Name,
			Hypothesis: c.Hypothesis,
			Statistic:  c.Statistic,
			PValue:     c.PValue,
			Rejected:   c.Rejected,
		})
	}

	writeJSON(w, response)
}

// handleRunText renders a saved report the way 'bidgoat show' prints it.
func (s *Server) handleRunText(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}

	var rep analysis.Report
	if err := json.Unmarshal(run.Report, &rep); err != nil {
		http.Error(w, "Failed to decode report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := report.Write(w, &rep, report.FormatText); err != nil {
		http.Error(w, "Failed to render report", http.StatusInternalServerError)
	}
}

func (s *Server) lookupRun(w http.ResponseWriter, r *http.Request) (*store.Run, bool) {
	run, err := s.store.GetRun(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "Run not found", http.StatusNotFound)
		return nil, false
	case errors.Is(err, store.ErrAmbiguous):
		http.Error(w, "Run id is ambiguous", http.StatusBadRequest)
		return nil, false
	case err != nil:
		http.Error(w, "Failed to get run", http.StatusInternalServerError)
		return nil, false
	}
	return run, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
