package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// Royston (1995) polynomial approximations, algorithm AS R94.
var (
	swC1 = []float64{0.0, 0.221157, -0.147981, -2.07119, 4.434685, -2.706056}
	swC2 = []float64{0.0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.544, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
	swG  = []float64{-2.273, 0.459}
)

// ShapiroWilk tests H0: values come from a normal distribution.
// It needs at least 3 values; the p-value approximation is tuned for
// n <= 5000.
func ShapiroWilk(values []float64) (TestResult, error) {
	res := TestResult{Name: "Shapiro-Wilk"}

	n := len(values)
	if n < 3 {
		return res, fmt.Errorf("%w: shapiro-wilk needs at least 3, got %d", ErrTooFewObservations, n)
	}

	x := append([]float64(nil), values...)
	sort.Float64s(x)
	if x[n-1]-x[0] < 1e-19 {
		return res, ErrZeroRange
	}

	a := shapiroCoefficients(n)

	var mean float64
	for _, v := range x {
		mean += v
	}
	mean /= float64(n)

	var ss, num float64
	for _, v := range x {
		ss += (v - mean) * (v - mean)
	}
	for i := range a {
		num += a[i] * (x[n-1-i] - x[i])
	}

	w := num * num / ss
	if w > 1 {
		w = 1
	}

	res.Statistic = w
	res.PValue = ShapiroWilkPValue(w, n)
	return res, nil
}

// shapiroCoefficients returns the n/2 positive weights a_i applied to
// x(n+1-i) - x(i).
func shapiroCoefficients(n int) []float64 {
	half := n / 2
	if n == 3 {
		return []float64{math.Sqrt2 / 2}
	}

	m := make([]float64, half)
	var summ2 float64
	for i := range m {
		m[i] = distuv.UnitNormal.Quantile((float64(i+1) - 0.375) / (float64(n) + 0.25))
		summ2 += m[i] * m[i]
	}
	summ2 *= 2
	ssumm2 := math.Sqrt(summ2)
	rsn := 1 / math.Sqrt(float64(n))

	a := make([]float64, half)
	a1 := poly(swC1, rsn) - m[0]/ssumm2

	var first int
	var fac float64
	if n > 5 {
		a2 := -m[1]/ssumm2 + poly(swC2, rsn)
		fac = math.Sqrt((summ2 - 2*m[0]*m[0] - 2*m[1]*m[1]) / (1 - 2*a1*a1 - 2*a2*a2))
		a[1] = a2
		first = 2
	} else {
		fac = math.Sqrt((summ2 - 2*m[0]*m[0]) / (1 - 2*a1*a1))
		first = 1
	}
	a[0] = a1
	for i := first; i < half; i++ {
		a[i] = -m[i] / fac
	}
	return a
}

// ShapiroWilkPValue maps a W statistic for a sample of size n to its
// upper-tail p-value.
func ShapiroWilkPValue(w float64, n int) float64 {
	if n == 3 {
		p := 6 / math.Pi * (math.Asin(math.Sqrt(w)) - math.Pi/3)
		return clampProbability(p)
	}

	y := math.Log(1 - w)
	var mu, sigma float64
	if n <= 11 {
		gamma := poly(swG, float64(n))
		if y >= gamma {
			return 1e-99
		}
		y = -math.Log(gamma - y)
		mu = poly(swC3, float64(n))
		sigma = math.Exp(poly(swC4, float64(n)))
	} else {
		ln := math.Log(float64(n))
		mu = poly(swC5, ln)
		sigma = math.Exp(poly(swC6, ln))
	}

	return clampProbability(distuv.UnitNormal.Survival((y - mu) / sigma))
}

// poly evaluates c[0] + c[1]x + c[2]x^2 + ...
func poly(c []float64, x float64) float64 {
	var r float64
	for i := len(c) - 1; i >= 0; i-- {
		r = r*x + c[i]
	}
	return r
}
