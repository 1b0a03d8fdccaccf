package dataset

import (
	"fmt"
	"math"
)

// WithLabel returns a copy of the frame with an extra object column
// holding label on every row. The receiver is not modified.
func (f *Frame) WithLabel(column, label string) *Frame {
	out := f.Drop()
	labels := make([]string, f.Len())
	for i := range labels {
		labels[i] = label
	}
	out.Columns = append(out.Columns, NewObjectColumn(column, labels))
	return out
}

// Concat stacks frames vertically, lining columns up by name. The
// result carries the first frame's columns in order, followed by any
// column only later frames have. Rows from a frame without a column are
// null there. A name present with two different types is an error.
// Source indices are kept as-is, so the result may repeat index values.
func Concat(frames ...*Frame) (*Frame, error) {
	out := &Frame{}
	pos := make(map[string]int)
	for fi, f := range frames {
		for _, c := range f.Columns {
			i, ok := pos[c.Name]
			if !ok {
				pos[c.Name] = len(out.Columns)
				out.Columns = append(out.Columns, &Column{Name: c.Name, Type: c.Type})
				continue
			}
			if dst := out.Columns[i]; dst.Type != c.Type {
				return nil, fmt.Errorf("%w: column %s is %s in frame %d, want %s",
					ErrSchemaMismatch, c.Name, c.Type, fi, dst.Type)
			}
		}
	}

	for _, f := range frames {
		n := f.Len()
		for _, dst := range out.Columns {
			src, ok := f.Column(dst.Name)
			switch {
			case ok && dst.Type == TypeFloat:
				dst.Floats = append(dst.Floats, src.Floats...)
			case ok:
				dst.Texts = append(dst.Texts, src.Texts...)
			case dst.Type == TypeFloat:
				for i := 0; i < n; i++ {
					dst.Floats = append(dst.Floats, math.NaN())
				}
			default:
				dst.Texts = append(dst.Texts, make([]string, n)...)
			}
		}
		out.Index = append(out.Index, f.Index...)
	}

	return out, nil
}

// Filter returns the rows whose object column equals value, in order.
func (f *Frame) Filter(column, value string) (*Frame, error) {
	c, ok := f.Column(column)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnMissing, column)
	}
	if c.Type != TypeObject {
		return nil, fmt.Errorf("filter column %s must be %s, got %s", column, TypeObject, c.Type)
	}

	var rows []int
	for i, v := range c.Texts {
		if v == value {
			rows = append(rows, i)
		}
	}

	out := &Frame{Index: make([]int, 0, len(rows))}
	for _, r := range rows {
		out.Index = append(out.Index, f.Index[r])
	}
	for _, src := range f.Columns {
		dst := &Column{Name: src.Name, Type: src.Type}
		for _, r := range rows {
			if src.Type == TypeFloat {
				dst.Floats = append(dst.Floats, src.Floats[r])
			} else {
				dst.Texts = append(dst.Texts, src.Texts[r])
			}
		}
		out.Columns = append(out.Columns, dst)
	}

	return out, nil
}

// GroupValues returns the non-null values of a numeric column for the
// rows labelled value.
func (f *Frame) GroupValues(groupColumn, value, column string) ([]float64, error) {
	sub, err := f.Filter(groupColumn, value)
	if err != nil {
		return nil, err
	}
	return sub.Float(column)
}
