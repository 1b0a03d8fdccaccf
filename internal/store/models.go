package store

import "time"

// Run is one saved analysis. Report holds the full report as JSON.
type Run struct {
	ID        string
	Input     string
	Metric    string
	Alpha     float64
	Selected  string // test kind
	Statistic float64
	PValue    float64
	Rejected  bool
	Report    []byte
	CreatedAt time.Time
}

// Check is one saved hypothesis test belonging to a run.
type Check struct {
	ID         int64
	RunID      string
	Stage      string // "normality", "homogeneity", "hypothesis" or "proportion"
	Subject    string
	Name       string
	Hypothesis string
	Statistic  float64
	PValue     float64
	Rejected   bool
	CreatedAt  time.Time
}
