package stats

import (
	"math"
	"sort"

	"github.com/bidgoat/bidgoat/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// SummaryQuantiles are the probabilities reported in the quantile table.
var SummaryQuantiles = []float64{0, 0.05, 0.50, 0.95, 0.99, 1}

// Summary is the descriptive profile of one sample.
type Summary struct {
	Rows      int           `json:"rows" yaml:"rows"`
	Columns   int           `json:"columns" yaml:"columns"`
	Types     []ColumnType  `json:"types" yaml:"types"`
	Head      Table         `json:"head" yaml:"head"`
	Tail      Table         `json:"tail" yaml:"tail"`
	Nulls     []NullCount   `json:"nulls" yaml:"nulls"`
	Quantiles QuantileTable `json:"quantiles" yaml:"quantiles"`
	Profiles  []Profile     `json:"profiles" yaml:"profiles"`
}

type ColumnType struct {
	Column string `json:"column" yaml:"column"`
	Type   string `json:"type" yaml:"type"`
}

// Table is a printable slice of rows. Cells are pre-formatted.
type Table struct {
	Columns []string   `json:"columns" yaml:"columns"`
	Index   []int      `json:"index" yaml:"index"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

type NullCount struct {
	Column string `json:"column" yaml:"column"`
	Nulls  int    `json:"nulls" yaml:"nulls"`
}

// QuantileTable holds one row per numeric column, one value per entry
// in Probs.
type QuantileTable struct {
	Probs []float64     `json:"probs" yaml:"probs"`
	Rows  []QuantileRow `json:"rows" yaml:"rows"`
}

type QuantileRow struct {
	Column string    `json:"column" yaml:"column"`
	Values []float64 `json:"values" yaml:"values"`
}

// Profile is one row of the transposed describe table.
type Profile struct {
	Column string  `json:"column" yaml:"column"`
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Std    float64 `json:"std" yaml:"std"`
	Min    float64 `json:"min" yaml:"min"`
	Q25    float64 `json:"q25" yaml:"q25"`
	Q50    float64 `json:"q50" yaml:"q50"`
	Q75    float64 `json:"q75" yaml:"q75"`
	Max    float64 `json:"max" yaml:"max"`
}

// Describe profiles a frame. Numeric columns without any non-null
// value are left out of the quantile and profile tables; a column with
// a single value reports a zero standard deviation.
func Describe(f *dataset.Frame, headRows int) *Summary {
	rows, cols := f.Shape()
	s := &Summary{
		Rows:      rows,
		Columns:   cols,
		Head:      toTable(f.Head(headRows)),
		Tail:      toTable(f.Tail(headRows)),
		Quantiles: QuantileTable{Probs: SummaryQuantiles},
	}

	for _, c := range f.Columns {
		s.Types = append(s.Types, ColumnType{Column: c.Name, Type: string(c.Type)})
		s.Nulls = append(s.Nulls, NullCount{Column: c.Name, Nulls: c.NullCount()})

		if c.Type != dataset.TypeFloat {
			continue
		}
		values := c.Values()
		if len(values) == 0 {
			continue
		}
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)

		qs := make([]float64, len(SummaryQuantiles))
		for i, p := range SummaryQuantiles {
			qs[i] = Quantile(sorted, p)
		}
		s.Quantiles.Rows = append(s.Quantiles.Rows, QuantileRow{Column: c.Name, Values: qs})
		s.Profiles = append(s.Profiles, profile(c.Name, sorted))
	}

	return s
}

func profile(name string, sorted []float64) Profile {
	p := Profile{
		Column: name,
		Count:  len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Min:    sorted[0],
		Q25:    Quantile(sorted, 0.25),
		Q50:    Quantile(sorted, 0.50),
		Q75:    Quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
	if len(sorted) > 1 {
		p.Std = stat.StdDev(sorted, nil)
	}
	return p
}

// Quantile returns the p-quantile of sorted data, interpolating
// linearly between the two closest order statistics at position
// (n-1)*p. sorted must be ascending and non-empty.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	if lo < 0 {
		return sorted[0]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// Median is Quantile(sorted copy of x, 0.5).
func Median(x []float64) float64 {
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	return Quantile(sorted, 0.5)
}

func toTable(f *dataset.Frame) Table {
	t := Table{
		Columns: f.Names(),
		Index:   append([]int{}, f.Index...),
		Rows:    make([][]string, f.Len()),
	}
	for r := range t.Rows {
		row := make([]string, len(f.Columns))
		for ci, c := range f.Columns {
			row[ci] = c.Format(r)
		}
		t.Rows[r] = row
	}
	return t
}
