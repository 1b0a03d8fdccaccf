package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bidgoat/bidgoat/internal/analysis"
	"github.com/bidgoat/bidgoat/internal/stats"
	"github.com/bidgoat/bidgoat/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRoot_DefaultsToAnalyze(t *testing.T) {
	path := testutil.SampleWorkbook(t, testutil.ControlPurchases, testutil.StudentTestPurchases)

	out, _, err := execute(t, path, "--format", "json")
	require.NoError(t, err)

	var rep analysis.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, stats.TestKindStudent, rep.Selected)
	assert.Equal(t, path, rep.Input)
	assert.False(t, rep.Decision.Rejected)
}

func TestAnalyze_TextReport(t *testing.T) {
	path := testutil.SampleWorkbook(t, testutil.ControlPurchases, testutil.WelchTestPurchases)

	out, _, err := execute(t, "analyze", path, "--head", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "##################### Shape #####################")
	assert.Contains(t, out, "Welch's t-test (unequal variances)")
	assert.Contains(t, out, "Test Stat = -2.2255, p-value = 0.0355")
	assert.Contains(t, out, stats.MessageSignificant)
}

func TestAnalyze_LogsToStderr(t *testing.T) {
	path := testutil.SampleWorkbook(t, testutil.ControlPurchases, testutil.StudentTestPurchases)

	out, logs, err := execute(t, "analyze", path, "--log-format", "json", "--log-level", "debug")
	require.NoError(t, err)

	assert.Contains(t, logs, `"message":"loaded workbook"`)
	assert.Contains(t, logs, `"message":"ran hypothesis test"`)
	assert.NotContains(t, out, "loaded workbook")
}

func TestAnalyze_StricterAlpha(t *testing.T) {
	path := testutil.SampleWorkbook(t, testutil.ControlPurchases, testutil.WelchTestPurchases)

	out, _, err := execute(t, "analyze", path, "--alpha", "0.01", "-f", "json")
	require.NoError(t, err)

	var rep analysis.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 0.01, rep.Alpha)
	// Levene p = 0.0066 still rejects; Welch p = 0.0355 no longer does.
	assert.Equal(t, stats.TestKindWelch, rep.Selected)
	assert.False(t, rep.Decision.Rejected)
}

func TestAnalyze_Errors(t *testing.T) {
	path := testutil.SampleWorkbook(t, testutil.ControlPurchases, testutil.StudentTestPurchases)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{"analyze", filepath.Join(t.TempDir(), "missing.xlsx")}, "failed to open workbook"},
		{"missing sheet", []string{"analyze", path, "--test-sheet", "Variant B"}, "sheet not found"},
		{"unknown metric", []string{"analyze", path, "--metric", "Revenue"}, "metric is not a numeric column"},
		{"alpha out of range", []string{"analyze", path, "--alpha", "1.5"}, "BIDGOAT_ALPHA"},
		{"bad format", []string{"analyze", path, "--format", "xml"}, "BIDGOAT_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAnalyze_InteractiveMetric(t *testing.T) {
	path := testutil.SampleWorkbook(t, testutil.ControlPurchases, testutil.StudentTestPurchases)

	var offered []string
	selectMetric = func(columns []string, current string) (string, error) {
		offered = columns
		assert.Equal(t, "Purchase", current)
		return "Earning", nil
	}
	t.Cleanup(func() { selectMetric = promptMetric })

	out, _, err := execute(t, "analyze", path, "-i", "-f", "json")
	require.NoError(t, err)

	assert.Equal(t, []string{"Impression", "Click", "Purchase", "Earning"}, offered)
	var rep analysis.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "Earning", rep.Metric)
}

func TestAnalyze_InteractiveCancelled(t *testing.T) {
	path := testutil.SampleWorkbook(t, testutil.ControlPurchases, testutil.StudentTestPurchases)

	selectMetric = func([]string, string) (string, error) { return "", errCancelled }
	t.Cleanup(func() { selectMetric = promptMetric })

	_, _, err := execute(t, "analyze", path, "-i")
	assert.ErrorIs(t, err, errCancelled)
}

func TestDescribe(t *testing.T) {
	path := testutil.SampleWorkbook(t, testutil.ControlPurchases, testutil.StudentTestPurchases)

	out, _, err := execute(t, "describe", path)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out, "##################### Statistical Description #####################"))
	assert.NotContains(t, out, "Test Stat")
}

func TestHistory_Empty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")

	out, _, err := execute(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No saved runs yet.")
}

func TestSavedRunLifecycle(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	path := testutil.SampleWorkbook(t, testutil.ControlPurchases, testutil.StudentTestPurchases)

	out, _, err := execute(t, "analyze", path, "--save", "--db", db, "-f", "json")
	require.NoError(t, err)
	var rep analysis.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	prefix := rep.ID[:8]

	// history
	out, _, err = execute(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, prefix)
	assert.Contains(t, out, "STUDENT")
	assert.Contains(t, out, "NOT SIGNIFICANT")

	// show by prefix
	out, _, err = execute(t, "show", prefix, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Test Stat = -0.7430, p-value = 0.4670")
	assert.Contains(t, out, rep.ID)

	// export
	out, _, err = execute(t, "export", "--db", db)
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 7) // header + 6 checks
	assert.Equal(t, "run_id", records[0][1])
	assert.Equal(t, rep.ID, records[1][1])
	assert.Equal(t, "normality", records[1][2])

	out, _, err = execute(t, "export", prefix, "--db", db, "--format", "json")
	require.NoError(t, err)
	var exported jsonExport
	require.NoError(t, json.Unmarshal([]byte(out), &exported))
	assert.Len(t, exported.Checks, 6)

	_, _, err = execute(t, "export", "--db", db, "--format", "xml")
	assert.Error(t, err)

	// delete
	out, _, err = execute(t, "delete", prefix, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted run "+rep.ID)

	_, _, err = execute(t, "show", prefix, "--db", db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
