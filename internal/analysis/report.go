package analysis

import (
	"time"

	"github.com/bidgoat/bidgoat/internal/stats"
)

// Check stages.
const (
	StageNormality   = "normality"
	StageHomogeneity = "homogeneity"
	StageHypothesis  = "hypothesis"
	StageProportion  = "proportion"
)

const (
	HypothesisNormality   = "H0: normality assumption is met"
	HypothesisHomogeneity = "H0: variances are homogeneous"
	HypothesisMeans       = "H0: M1 = M2 (M = mean)"
	HypothesisSameDist    = "H0: both groups come from the same distribution"
	HypothesisProportions = "H0: p1 = p2"
)

// GroupReport is the per-sample part of a report.
type GroupReport struct {
	Label    string         `json:"label" yaml:"label"`
	Summary  *stats.Summary `json:"summary" yaml:"summary"`
	Interval stats.Interval `json:"interval" yaml:"interval"`
}

// GroupMean is one row of the merged table's group-by-mean.
type GroupMean struct {
	Group string  `json:"group" yaml:"group"`
	Count int     `json:"count" yaml:"count"`
	Mean  float64 `json:"mean" yaml:"mean"`
}

// Merged describes the stacked control and test table.
type Merged struct {
	Rows  int         `json:"rows" yaml:"rows"`
	Means []GroupMean `json:"means" yaml:"means"`
}

// Check is one hypothesis test with its outcome at the report's alpha.
type Check struct {
	Stage      string           `json:"stage" yaml:"stage"`
	Subject    string           `json:"subject" yaml:"subject"`
	Hypothesis string           `json:"hypothesis" yaml:"hypothesis"`
	Result     stats.TestResult `json:"result" yaml:"result"`
	Rejected   bool             `json:"rejected" yaml:"rejected"`
}

func newCheck(stage, subject, hypothesis string, res stats.TestResult, alpha float64) Check {
	return Check{
		Stage:      stage,
		Subject:    subject,
		Hypothesis: hypothesis,
		Result:     res,
		Rejected:   stats.Rejects(res.PValue, alpha),
	}
}

// Rate is one group's observed proportion with its Wilson interval.
type Rate struct {
	Successes float64 `json:"successes" yaml:"successes"`
	Trials    float64 `json:"trials" yaml:"trials"`
	Rate      float64 `json:"rate" yaml:"rate"`
	Lower     float64 `json:"lower" yaml:"lower"`
	Upper     float64 `json:"upper" yaml:"upper"`
}

// ProportionReport compares one rate between the groups.
type ProportionReport struct {
	Name    string `json:"name" yaml:"name"`
	Control Rate   `json:"control" yaml:"control"`
	Test    Rate   `json:"test" yaml:"test"`
	Check   Check  `json:"check" yaml:"check"`
}

// Report is the full outcome of one analysis run.
type Report struct {
	ID          string             `json:"id" yaml:"id"`
	CreatedAt   time.Time          `json:"created_at" yaml:"created_at"`
	Input       string             `json:"input" yaml:"input"`
	Metric      string             `json:"metric" yaml:"metric"`
	Alpha       float64            `json:"alpha" yaml:"alpha"`
	Confidence  float64            `json:"confidence" yaml:"confidence"`
	Control     GroupReport        `json:"control" yaml:"control"`
	Test        GroupReport        `json:"test" yaml:"test"`
	Merged      Merged             `json:"merged" yaml:"merged"`
	Normality   []Check            `json:"normality" yaml:"normality"`
	Homogeneity *Check             `json:"homogeneity,omitempty" yaml:"homogeneity,omitempty"`
	Selected    stats.TestKind     `json:"selected" yaml:"selected"`
	Final       Check              `json:"final" yaml:"final"`
	Decision    stats.Decision     `json:"decision" yaml:"decision"`
	Proportions []ProportionReport `json:"proportions,omitempty" yaml:"proportions,omitempty"`
}

// Checks lists every test in the order it ran.
func (r *Report) Checks() []Check {
	checks := append([]Check(nil), r.Normality...)
	if r.Homogeneity != nil {
		checks = append(checks, *r.Homogeneity)
	}
	checks = append(checks, r.Final)
	for _, p := range r.Proportions {
		checks = append(checks, p.Check)
	}
	return checks
}
