package analysis

import (
	"context"

	"github.com/bidgoat/bidgoat/internal/dataset"
	"github.com/bidgoat/bidgoat/internal/stats"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
)

type rateDef struct {
	name      string
	successes string
	trials    string
}

var rates = []rateDef{
	{name: "click-through rate", successes: "Click", trials: "Impression"},
	{name: "purchase conversion", successes: "Purchase", trials: "Click"},
}

// compareProportions runs a two-proportion z-test for each rate over
// the column totals of both groups. A rate whose columns are missing or
// whose totals are not valid counts is skipped with a warning.
func compareProportions(ctx context.Context, control, test *dataset.Frame, opts Options) []ProportionReport {
	log := zerolog.Ctx(ctx)

	var out []ProportionReport
	for _, def := range rates {
		cs, ct, err1 := totals(control, def)
		ts, tt, err2 := totals(test, def)
		if err1 != nil || err2 != nil {
			log.Warn().Str("rate", def.name).Msg("skipped proportion test, columns missing")
			continue
		}

		res, err := stats.ProportionsZTest(cs, ct, ts, tt)
		if err != nil {
			log.Warn().Err(err).Str("rate", def.name).Msg("skipped proportion test")
			continue
		}

		out = append(out, ProportionReport{
			Name:    def.name,
			Control: newRate(cs, ct, opts.Confidence),
			Test:    newRate(ts, tt, opts.Confidence),
			Check:   newCheck(StageProportion, def.name, HypothesisProportions, res, opts.Alpha),
		})
		log.Debug().Str("rate", def.name).Float64("p", res.PValue).Msg("compared proportions")
	}
	return out
}

func totals(f *dataset.Frame, def rateDef) (successes, trials float64, err error) {
	s, err := f.Float(def.successes)
	if err != nil {
		return 0, 0, err
	}
	t, err := f.Float(def.trials)
	if err != nil {
		return 0, 0, err
	}
	return floats.Sum(s), floats.Sum(t), nil
}

func newRate(successes, trials, confidence float64) Rate {
	lower, upper := stats.WilsonInterval(successes, trials, confidence)
	return Rate{
		Successes: successes,
		Trials:    trials,
		Rate:      successes / trials,
		Lower:     lower,
		Upper:     upper,
	}
}
