package store

import "context"

// Store defines the interface for run history storage
type Store interface {
	// Run operations
	SaveRun(ctx context.Context, run *Run, checks []Check) error
	GetRun(ctx context.Context, idPrefix string) (*Run, error)
	ListRuns(ctx context.Context) ([]*Run, error)
	DeleteRun(ctx context.Context, id string) error

	// Check operations
	GetChecks(ctx context.Context, runID string) ([]*Check, error)

	// Lifecycle
	Close() error
}
