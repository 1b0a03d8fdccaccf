package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bidgoat/bidgoat/internal/dataset"
	"github.com/bidgoat/bidgoat/internal/stats"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	GroupColumn   = "Group"
	ControlLabel  = "control group(max bidding)"
	TestLabel     = "test group(avg bidding)"
	DefaultMetric = "Purchase"
)

var ErrMetricNotFound = errors.New("metric is not a numeric column in both groups")

// Options controls one run.
type Options struct {
	Input      string
	Metric     string
	Alpha      float64
	Confidence float64
	HeadRows   int
}

func (o Options) withDefaults() Options {
	if o.Metric == "" {
		o.Metric = DefaultMetric
	}
	if o.Alpha == 0 {
		o.Alpha = stats.DefaultAlpha
	}
	if o.Confidence == 0 {
		o.Confidence = 0.95
	}
	return o
}

// Describe profiles both samples without running any test.
func Describe(ctx context.Context, control, test *dataset.Frame, opts Options) (*stats.Summary, *stats.Summary) {
	opts = opts.withDefaults()
	log := zerolog.Ctx(ctx)

	c := stats.Describe(control, opts.HeadRows)
	t := stats.Describe(test, opts.HeadRows)
	log.Debug().Int("control_rows", c.Rows).Int("test_rows", t.Rows).Msg("described samples")
	return c, t
}

// Run executes the whole comparison of control against test on the
// configured metric. Any failing stage aborts the run.
func Run(ctx context.Context, control, test *dataset.Frame, opts Options) (*Report, error) {
	opts = opts.withDefaults()
	log := zerolog.Ctx(ctx).With().Str("metric", opts.Metric).Logger()

	if err := checkMetric(opts.Metric, control, test); err != nil {
		return nil, err
	}

	rep := &Report{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Input:      opts.Input,
		Metric:     opts.Metric,
		Alpha:      opts.Alpha,
		Confidence: opts.Confidence,
	}

	// Descriptive summary and confidence intervals
	cs, ts := Describe(ctx, control, test, opts)
	var err error
	if rep.Control, err = groupReport(ControlLabel, control, cs, opts); err != nil {
		return nil, err
	}
	if rep.Test, err = groupReport(TestLabel, test, ts, opts); err != nil {
		return nil, err
	}
	log.Debug().
		Float64("control_mean", rep.Control.Interval.Mean).
		Float64("test_mean", rep.Test.Interval.Mean).
		Msg("computed confidence intervals")

	// Merge
	merged, err := dataset.Concat(
		control.WithLabel(GroupColumn, ControlLabel),
		test.WithLabel(GroupColumn, TestLabel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to merge groups: %w", err)
	}
	a, err := merged.GroupValues(GroupColumn, ControlLabel, opts.Metric)
	if err != nil {
		return nil, fmt.Errorf("failed to select control values: %w", err)
	}
	b, err := merged.GroupValues(GroupColumn, TestLabel, opts.Metric)
	if err != nil {
		return nil, fmt.Errorf("failed to select test values: %w", err)
	}
	rep.Merged = Merged{
		Rows: merged.Len(),
		Means: []GroupMean{
			{Group: ControlLabel, Count: len(a), Mean: rep.Control.Interval.Mean},
			{Group: TestLabel, Count: len(b), Mean: rep.Test.Interval.Mean},
		},
	}
	log.Debug().Int("rows", merged.Len()).Msg("merged groups")

	// Assumption checks
	normControl, err := stats.ShapiroWilk(a)
	if err != nil {
		return nil, fmt.Errorf("failed normality check on control group: %w", err)
	}
	normTest, err := stats.ShapiroWilk(b)
	if err != nil {
		return nil, fmt.Errorf("failed normality check on test group: %w", err)
	}
	rep.Normality = []Check{
		newCheck(StageNormality, ControlLabel, HypothesisNormality, normControl, opts.Alpha),
		newCheck(StageNormality, TestLabel, HypothesisNormality, normTest, opts.Alpha),
	}
	log.Debug().
		Float64("control_p", normControl.PValue).
		Float64("test_p", normTest.PValue).
		Msg("checked normality")

	// Homogeneity only matters when both groups are normal.
	homogeneityP := 1.0
	if !rep.Normality[0].Rejected && !rep.Normality[1].Rejected {
		lev, err := stats.Levene(a, b)
		if err != nil {
			return nil, fmt.Errorf("failed homogeneity check: %w", err)
		}
		homo := newCheck(StageHomogeneity, "", HypothesisHomogeneity, lev, opts.Alpha)
		rep.Homogeneity = &homo
		homogeneityP = lev.PValue
		log.Debug().Float64("p", lev.PValue).Msg("checked homogeneity of variances")
	} else {
		log.Debug().Msg("skipped homogeneity check, normality rejected")
	}

	// Test selection and the final test
	rep.Selected = stats.SelectTest(normControl.PValue, normTest.PValue, homogeneityP, opts.Alpha)
	final, err := stats.RunTest(rep.Selected, a, b)
	if err != nil {
		return nil, fmt.Errorf("failed to run %s: %w", rep.Selected.Title(), err)
	}
	hypothesis := HypothesisMeans
	if !rep.Selected.Parametric() {
		hypothesis = HypothesisSameDist
	}
	rep.Final = newCheck(StageHypothesis, opts.Metric, hypothesis, final, opts.Alpha)
	rep.Decision = stats.Interpret(final, opts.Alpha)
	log.Debug().
		Str("test", string(rep.Selected)).
		Float64("statistic", final.Statistic).
		Float64("p", final.PValue).
		Bool("rejected", rep.Decision.Rejected).
		Msg("ran hypothesis test")

	rep.Proportions = compareProportions(ctx, control, test, opts)

	return rep, nil
}

func checkMetric(metric string, frames ...*dataset.Frame) error {
	for _, f := range frames {
		c, ok := f.Column(metric)
		if !ok || c.Type != dataset.TypeFloat {
			return fmt.Errorf("%w: %s", ErrMetricNotFound, metric)
		}
	}
	return nil
}

func groupReport(label string, f *dataset.Frame, s *stats.Summary, opts Options) (GroupReport, error) {
	values, err := f.Float(opts.Metric)
	if err != nil {
		return GroupReport{}, err
	}
	ci, err := stats.TConfInt(values, opts.Confidence)
	if err != nil {
		return GroupReport{}, fmt.Errorf("failed confidence interval for %s: %w", label, err)
	}
	return GroupReport{Label: label, Summary: s, Interval: ci}, nil
}
