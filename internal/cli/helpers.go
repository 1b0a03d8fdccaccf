package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bidgoat/bidgoat/internal/analysis"
	"github.com/bidgoat/bidgoat/internal/store"
)

// withStore opens the database, executes the function, and handles cleanup.
func withStore(dbPath string, fn func(*store.SQLiteStore) error) error {
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer s.Close()

	return fn(s)
}

func saveReport(ctx context.Context, s store.Store, rep *analysis.Report) error {
	body, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	run := &store.Run{
		ID:        rep.ID,
		Input:     rep.Input,
		Metric:    rep.Metric,
		Alpha:     rep.Alpha,
		Selected:  string(rep.Selected),
		Statistic: rep.Final.Result.Statistic,
		PValue:    rep.Final.Result.PValue,
		Rejected:  rep.Decision.Rejected,
		Report:    body,
		CreatedAt: rep.CreatedAt,
	}

	checks := make([]store.Check, 0, len(rep.Checks()))
	for _, c := range rep.Checks() {
		checks = append(checks, store.Check{
			Stage:      c.Stage,
			Subject:    c.Subject,
			Name:       c.Result.Name,
			Hypothesis: c.Hypothesis,
			Statistic:  c.Result.Statistic,
			PValue:     c.Result.PValue,
			Rejected:   c.Rejected,
		})
	}

	if err := s.SaveRun(ctx, run, checks); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// findRun resolves a full or abbreviated run id.
func findRun(ctx context.Context, s store.Store, id string) (*store.Run, error) {
	run, err := s.GetRun(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("run '%s' not found", id)
	case errors.Is(err, store.ErrAmbiguous):
		return nil, fmt.Errorf("run id '%s' is ambiguous, use more characters", id)
	case err != nil:
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

func decodeReport(run *store.Run) (*analysis.Report, error) {
	var rep analysis.Report
	if err := json.Unmarshal(run.Report, &rep); err != nil {
		return nil, fmt.Errorf("failed to decode saved report: %w", err)
	}
	return &rep, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
