package testutil

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/bidgoat/bidgoat/internal/store"
	"github.com/xuri/excelize/v2"
)

// SetupTestStore creates a test database and returns the store.
// Uses t.TempDir() for automatic cleanup on test completion.
func SetupTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

// Header is the column layout of both sample sheets.
var Header = []any{"Impression", "Click", "Purchase", "Earning"}

// SampleRows builds sheet rows around a purchase series. Impression,
// Click and Earning are derived from the row position so every row is
// distinct and Purchase never exceeds Click.
func SampleRows(purchases []float64) [][]any {
	rows := [][]any{Header}
	for i, p := range purchases {
		rows = append(rows, []any{
			float64(100000 + 1250*i),
			float64(4000 + 75*i),
			p,
			p * 4.5,
		})
	}
	return rows
}

// WriteWorkbook writes one sheet per map entry to a temp xlsx file and
// returns its path.
func WriteWorkbook(t *testing.T, sheets map[string][][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	names := make([]string, 0, len(sheets))
	for name := range sheets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("failed to create sheet %q: %v", name, err)
		}
		for i, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatalf("failed to build cell name: %v", err)
			}
			r := row
			if err := f.SetSheetRow(name, cell, &r); err != nil {
				t.Fatalf("failed to write row %d of %q: %v", i, name, err)
			}
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		t.Fatalf("failed to drop default sheet: %v", err)
	}

	path := filepath.Join(t.TempDir(), "ab_testing.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	return path
}

// Fixture purchase series. Control and StudentTest share a variance so
// the equal-variance t-test applies; WelchTest is wider; the skewed pair
// fails normality.
var (
	ControlPurchases     = []float64{19.8, 20.4, 19.6, 17.8, 18.5, 18.9, 18.3, 18.9, 19.5, 22.0}
	StudentTestPurchases = []float64{22.4, 19.9, 19.3, 18.7, 19.3, 18.9, 18.2, 20.0, 20.8, 20.2}
	WelchTestPurchases   = []float64{28.2, 26.6, 20.1, 23.3, 25.2, 22.1, 17.7, 27.6, 20.6, 13.7,
		23.2, 17.5, 20.6, 18.0, 23.9, 21.6, 24.3, 20.4, 23.9, 13.3}
	SkewedControlPurchases = []float64{1, 1, 1, 1, 1, 1, 1, 1, 2, 2, 3, 50}
	SkewedTestPurchases    = []float64{2, 3, 3, 4, 5, 5, 6, 7, 8, 9, 10, 12}
)

// SampleWorkbook writes a workbook with the default sheet names.
func SampleWorkbook(t *testing.T, control, test []float64) string {
	t.Helper()
	return WriteWorkbook(t, map[string][][]any{
		"Control Group": SampleRows(control),
		"Test Group":    SampleRows(test),
	})
}
