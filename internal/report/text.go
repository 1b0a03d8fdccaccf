package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/bidgoat/bidgoat/internal/analysis"
	"github.com/bidgoat/bidgoat/internal/stats"
)

// textWriter keeps the first write error so the render code can stay
// linear.
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *textWriter) banner(title string) {
	t.printf("##################### %s #####################\n", title)
}

func (t *textWriter) table(header []string, rows [][]string) {
	if t.err != nil {
		return
	}
	tw := tabwriter.NewWriter(t.w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	t.err = tw.Flush()
}

func (t *textWriter) testLine(res stats.TestResult) {
	t.printf("Test Stat = %.4f, p-value = %.4f\n", res.Statistic, res.PValue)
}

func f5(v float64) string {
	return strconv.FormatFloat(v, 'f', 5, 64)
}

func (t *textWriter) summary(label string, s *stats.Summary) {
	t.printf("\n%s\n\n", strings.ToUpper(label))

	t.banner("Shape")
	t.printf("(%d, %d)\n", s.Rows, s.Columns)

	t.banner("Types")
	rows := make([][]string, len(s.Types))
	for i, ct := range s.Types {
		rows[i] = []string{ct.Column, ct.Type}
	}
	t.table([]string{"column", "dtype"}, rows)

	t.banner("Head")
	t.frame(s.Head)
	t.banner("Tail")
	t.frame(s.Tail)

	t.banner("NA")
	rows = make([][]string, len(s.Nulls))
	for i, n := range s.Nulls {
		rows[i] = []string{n.Column, strconv.Itoa(n.Nulls)}
	}
	t.table([]string{"column", "nulls"}, rows)

	t.banner("Quantiles")
	header := []string{""}
	for _, p := range s.Quantiles.Probs {
		header = append(header, strconv.FormatFloat(p, 'f', 2, 64))
	}
	rows = make([][]string, len(s.Quantiles.Rows))
	for i, q := range s.Quantiles.Rows {
		row := []string{q.Column}
		for _, v := range q.Values {
			row = append(row, f5(v))
		}
		rows[i] = row
	}
	t.table(header, rows)

	t.banner("Statistical Description")
	rows = make([][]string, len(s.Profiles))
	for i, p := range s.Profiles {
		rows[i] = []string{p.Column, strconv.Itoa(p.Count), f5(p.Mean), f5(p.Std),
			f5(p.Min), f5(p.Q25), f5(p.Q50), f5(p.Q75), f5(p.Max)}
	}
	t.table([]string{"", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}, rows)
}

func (t *textWriter) frame(tab stats.Table) {
	header := append([]string{""}, tab.Columns...)
	rows := make([][]string, len(tab.Rows))
	for i, r := range tab.Rows {
		rows[i] = append([]string{strconv.Itoa(tab.Index[i])}, r...)
	}
	t.table(header, rows)
}

func writeText(w io.Writer, rep *analysis.Report) error {
	t := &textWriter{w: w}

	t.printf("A/B test on %s (alpha = %.2f)\n", rep.Metric, rep.Alpha)
	if rep.Input != "" {
		t.printf("Input: %s\n", rep.Input)
	}
	t.printf("Run: %s\n", rep.ID)

	t.summary(rep.Control.Label, rep.Control.Summary)
	t.summary(rep.Test.Label, rep.Test.Summary)

	t.printf("\n")
	t.banner("Confidence Intervals")
	var rows [][]string
	for _, g := range []analysis.GroupReport{rep.Control, rep.Test} {
		rows = append(rows, []string{g.Label, f5(g.Interval.Mean), f5(g.Interval.Lower), f5(g.Interval.Upper)})
	}
	t.table([]string{"group", "mean", "lower", "upper"}, rows)
	t.printf("confidence: %.0f%%\n", rep.Confidence*100)

	t.banner("Group Means")
	rows = rows[:0]
	for _, m := range rep.Merged.Means {
		rows = append(rows, []string{m.Group, strconv.Itoa(m.Count), f5(m.Mean)})
	}
	t.table([]string{"Group", "count", rep.Metric}, rows)
	t.printf("merged rows: %d\n", rep.Merged.Rows)

	t.banner("Normality")
	for _, c := range rep.Normality {
		t.check(c)
	}

	t.banner("Homogeneity of Variance")
	if rep.Homogeneity != nil {
		t.check(*rep.Homogeneity)
	} else {
		t.printf("skipped: normality rejected, non-parametric test selected\n")
	}

	t.banner("Hypothesis Test")
	t.printf("selected: %s\n", rep.Selected.Title())
	t.check(rep.Final)
	t.printf("%s\n", rep.Decision.Message)

	if len(rep.Proportions) > 0 {
		t.banner("Proportions")
		rows = rows[:0]
		for _, p := range rep.Proportions {
			rows = append(rows,
				[]string{p.Name, rep.Control.Label, f5(p.Control.Rate), f5(p.Control.Lower), f5(p.Control.Upper)},
				[]string{p.Name, rep.Test.Label, f5(p.Test.Rate), f5(p.Test.Lower), f5(p.Test.Upper)},
			)
		}
		t.table([]string{"rate", "group", "value", "lower", "upper"}, rows)
		for _, p := range rep.Proportions {
			t.check(p.Check)
		}
	}

	return t.err
}

func (t *textWriter) check(c analysis.Check) {
	subject := c.Result.Name
	if c.Subject != "" {
		subject += " [" + c.Subject + "]"
	}
	verdict := "H0 not rejected"
	if c.Rejected {
		verdict = "H0 rejected"
	}
	t.printf("%s\n%s\n", subject, c.Hypothesis)
	t.testLine(c.Result)
	t.printf("%s\n\n", verdict)
}
