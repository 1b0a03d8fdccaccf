package dataset

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrSheetNotFound = errors.New("sheet not found")
	ErrEmptySheet    = errors.New("sheet has no header row")
)

// RequiredColumns are the numeric columns every sample sheet must carry.
var RequiredColumns = []string{"Impression", "Click", "Purchase", "Earning"}

// Workbook holds the two samples read from one spreadsheet.
type Workbook struct {
	Control *Frame
	Test    *Frame
}

// LoadWorkbook opens the spreadsheet at path and reads the control and
// test sheets. The file is closed before returning.
func LoadWorkbook(path, controlSheet, testSheet string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return readWorkbook(f, controlSheet, testSheet)
}

// ReadWorkbook is LoadWorkbook for an already open stream.
func ReadWorkbook(r io.Reader, controlSheet, testSheet string) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	defer f.Close()

	return readWorkbook(f, controlSheet, testSheet)
}

func readWorkbook(f *excelize.File, controlSheet, testSheet string) (*Workbook, error) {
	control, err := ReadSheet(f, controlSheet)
	if err != nil {
		return nil, err
	}
	test, err := ReadSheet(f, testSheet)
	if err != nil {
		return nil, err
	}
	return &Workbook{Control: control, Test: test}, nil
}

// ReadSheet reads one sheet into a frame. The first row is the header.
func ReadSheet(f *excelize.File, sheet string) (*Frame, error) {
	if !slices.Contains(f.GetSheetList(), sheet) {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	frame, err := ParseRows(rows, RequiredColumns)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	return frame, nil
}

// ParseRows turns a header row plus data rows into a frame. A column is
// float64 when every non-empty cell parses as a number, object otherwise.
// Each name in required must be present and numeric.
func ParseRows(rows [][]string, required []string) (*Frame, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptySheet
	}

	header := rows[0]
	data := rows[1:]

	columns := make([]*Column, len(header))
	for ci, raw := range header {
		name := strings.TrimSpace(raw)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", ci)
		}
		columns[ci] = parseColumn(name, data, ci)
	}

	frame, err := NewFrame(columns...)
	if err != nil {
		return nil, err
	}

	for _, name := range required {
		c, ok := frame.Column(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrColumnMissing, name)
		}
		if c.Type != TypeFloat {
			return nil, fmt.Errorf("%w: %s (row %d: %q)", ErrNotNumeric, name, firstText(c)+2, c.Texts[firstText(c)])
		}
	}

	return frame, nil
}

func parseColumn(name string, data [][]string, ci int) *Column {
	cells := make([]string, len(data))
	for ri, row := range data {
		// GetRows trims trailing empty cells, so short rows are nulls.
		if ci < len(row) {
			cells[ri] = strings.TrimSpace(row[ci])
		}
	}

	floats := make([]float64, len(cells))
	for i, cell := range cells {
		if cell == "" {
			floats[i] = math.NaN()
			continue
		}
		v, ok := parseNumber(cell)
		if !ok {
			return NewObjectColumn(name, cells)
		}
		floats[i] = v
	}
	return NewFloatColumn(name, floats)
}

func firstText(c *Column) int {
	for i, v := range c.Texts {
		if v == "" {
			continue
		}
		if _, ok := parseNumber(v); !ok {
			return i
		}
	}
	return 0
}

// parseNumber accepts finite numbers only. "inf" and "nan" spellings are
// text.
func parseNumber(cell string) (float64, bool) {
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
