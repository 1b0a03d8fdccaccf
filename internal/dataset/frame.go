package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	ErrColumnMissing  = errors.New("column missing")
	ErrNotNumeric     = errors.New("column is not numeric")
	ErrSchemaMismatch = errors.New("frames have different columns")
)

type ColumnType string

const (
	TypeFloat  ColumnType = "float64"
	TypeObject ColumnType = "object"
)

// Column holds one named column. Float columns mark nulls with NaN,
// object columns with the empty string.
type Column struct {
	Name   string
	Type   ColumnType
	Floats []float64
	Texts  []string
}

func NewFloatColumn(name string, values []float64) *Column {
	return &Column{Name: name, Type: TypeFloat, Floats: values}
}

func NewObjectColumn(name string, values []string) *Column {
	return &Column{Name: name, Type: TypeObject, Texts: values}
}

func (c *Column) Len() int {
	if c.Type == TypeFloat {
		return len(c.Floats)
	}
	return len(c.Texts)
}

func (c *Column) IsNull(i int) bool {
	if c.Type == TypeFloat {
		return math.IsNaN(c.Floats[i])
	}
	return c.Texts[i] == ""
}

func (c *Column) NullCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			n++
		}
	}
	return n
}

// Values returns the non-null values of a float column in row order.
func (c *Column) Values() []float64 {
	out := make([]float64, 0, len(c.Floats))
	for _, v := range c.Floats {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Format renders a single cell the way the text report prints it.
func (c *Column) Format(i int) string {
	if c.IsNull(i) {
		return "NaN"
	}
	if c.Type == TypeFloat {
		return strconv.FormatFloat(c.Floats[i], 'f', 5, 64)
	}
	return c.Texts[i]
}

func (c *Column) slice(start, end int) *Column {
	out := &Column{Name: c.Name, Type: c.Type}
	if c.Type == TypeFloat {
		out.Floats = append([]float64(nil), c.Floats[start:end]...)
	} else {
		out.Texts = append([]string(nil), c.Texts[start:end]...)
	}
	return out
}

// Frame is an ordered table of rows with named, typed columns. Index
// carries each row's position in the sheet it was read from.
type Frame struct {
	Index   []int
	Columns []*Column
}

// NewFrame builds a frame with a 0..n-1 index. All columns must have
// the same length.
func NewFrame(columns ...*Column) (*Frame, error) {
	n := 0
	for i, c := range columns {
		if i == 0 {
			n = c.Len()
			continue
		}
		if c.Len() != n {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), n)
		}
	}

	index := make([]int, n)
	for i := range index {
		index[i] = i
	}
	return &Frame{Index: index, Columns: columns}, nil
}

func (f *Frame) Len() int {
	return len(f.Index)
}

// Shape returns (rows, columns).
func (f *Frame) Shape() (int, int) {
	return len(f.Index), len(f.Columns)
}

func (f *Frame) Names() []string {
	names := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		names[i] = c.Name
	}
	return names
}

func (f *Frame) Column(name string) (*Column, bool) {
	for _, c := range f.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Float returns the non-null values of a numeric column.
func (f *Frame) Float(name string) ([]float64, error) {
	c, ok := f.Column(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnMissing, name)
	}
	if c.Type != TypeFloat {
		return nil, fmt.Errorf("%w: %s", ErrNotNumeric, name)
	}
	return c.Values(), nil
}

func (f *Frame) NumericColumns() []string {
	var names []string
	for _, c := range f.Columns {
		if c.Type == TypeFloat {
			names = append(names, c.Name)
		}
	}
	return names
}

func (f *Frame) Head(n int) *Frame {
	if n > f.Len() {
		n = f.Len()
	}
	return f.slice(0, n)
}

func (f *Frame) Tail(n int) *Frame {
	if n > f.Len() {
		n = f.Len()
	}
	return f.slice(f.Len()-n, f.Len())
}

func (f *Frame) slice(start, end int) *Frame {
	out := &Frame{Index: append([]int(nil), f.Index[start:end]...)}
	for _, c := range f.Columns {
		out.Columns = append(out.Columns, c.slice(start, end))
	}
	return out
}

// Drop returns a copy of the frame without the named columns.
func (f *Frame) Drop(names ...string) *Frame {
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}

	out := &Frame{Index: append([]int(nil), f.Index...)}
	for _, c := range f.Columns {
		if skip[c.Name] {
			continue
		}
		out.Columns = append(out.Columns, c.slice(0, c.Len()))
	}
	return out
}
