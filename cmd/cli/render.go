package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"bankinfer/adapters/stats/describe"
	"bankinfer/app"
	"bankinfer/domain/stats"
	"bankinfer/domain/verdict"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func interval(i stats.Interval) string {
	return fmt.Sprintf("[%.4f, %.4f]", i.Lower, i.Upper)
}

func writeOverview(w io.Writer, o *app.Overview) {
	fmt.Fprintf(w, "dataset:  %s (%s)\n", o.Dataset, o.Source)
	fmt.Fprintf(w, "rows:     %d\n", o.Rows)
	fmt.Fprintf(w, "outcome:  %s (%d positive)\n\n", o.OutcomeColumn, o.Positives)

	tw := newTable(w)
	fmt.Fprintln(tw, "COLUMN\tKIND\tDISTINCT\tMISSING")
	for _, c := range o.Columns {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", c.Name, c.Kind, c.Distinct, c.Missing)
	}
	tw.Flush()
}

func writeReport(w io.Writer, r *describe.Report) {
	fmt.Fprintf(w, "rows: %d\n", r.Rows)

	if len(r.Numeric) > 0 {
		fmt.Fprintln(w)
		tw := newTable(w)
		fmt.Fprintln(tw, "NUMERIC\tN\tMISSING\tMEAN\tSTD\tMIN\tQ1\tMEDIAN\tQ3\tMAX")
		for _, n := range r.Numeric {
			if n.Stats == nil {
				fmt.Fprintf(tw, "%s\t%d\t%d\t-\t-\t-\t-\t-\t-\t-\n", n.Column, n.Count, n.Missing)
				continue
			}
			m := n.Stats
			fmt.Fprintf(tw, "%s\t%d\t%d\t%.4g\t%s\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\n",
				n.Column, n.Count, n.Missing, m.Mean, optional(m.StdDev), m.Min, m.Q1, m.Median, m.Q3, m.Max)
		}
		tw.Flush()
	}

	if len(r.Categorical) > 0 {
		fmt.Fprintln(w)
		tw := newTable(w)
		fmt.Fprintln(tw, "CATEGORICAL\tN\tMISSING\tDISTINCT\tMODE")
		for _, c := range r.Categorical {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", c.Column, c.Count, c.Missing, c.Distinct, c.Mode)
		}
		tw.Flush()
	}

	if m := r.Correlation; m != nil {
		fmt.Fprintln(w)
		tw := newTable(w)
		fmt.Fprintf(tw, "PEARSON\t%s\n", strings.Join(m.Columns, "\t"))
		for i, name := range m.Columns {
			cells := make([]string, len(m.Columns))
			for j := range m.Columns {
				cells[j] = optional(m.Values[i][j])
			}
			fmt.Fprintf(tw, "%s\t%s\n", name, strings.Join(cells, "\t"))
		}
		tw.Flush()
	}

	if x := r.CrossTab; x != nil {
		fmt.Fprintln(w)
		tw := newTable(w)
		fmt.Fprintf(tw, "%s \\ %s\t%s\tTOTAL\n", x.Row, x.Col, strings.Join(x.ColLevels, "\t"))
		for i, level := range x.RowLevels {
			cells := make([]string, len(x.ColLevels))
			for j := range x.ColLevels {
				cells[j] = fmt.Sprint(x.Counts[i][j])
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\n", level, strings.Join(cells, "\t"), x.RowTotals[i])
		}
		totals := make([]string, len(x.ColTotals))
		for j, t := range x.ColTotals {
			totals[j] = fmt.Sprint(t)
		}
		fmt.Fprintf(tw, "TOTAL\t%s\t%d\n", strings.Join(totals, "\t"), x.Total)
		tw.Flush()
	}
}

func writeBundle(w io.Writer, b *stats.Bundle) {
	fmt.Fprintf(w, "analysis %s: %s mode on %s (%d rows, outcome %s)\n", b.AnalysisID, b.Mode, b.Dataset, b.Rows, b.OutcomeColumn)

	if p := b.Proportion; p != nil {
		fmt.Fprintf(w, "\nglobal rate: %.4f %s (%d/%d)\n", p.Global.Proportion, interval(p.Global.Interval), p.Global.Successes, p.Global.Trials)

		if len(p.Groups) > 0 {
			fmt.Fprintln(w)
			tw := newTable(w)
			fmt.Fprintf(tw, "%s\tRATE\t95%% WILSON\tPOSITIVE\tN\n", strings.ToUpper(p.GroupColumn))
			for _, g := range p.Groups {
				fmt.Fprintf(tw, "%s\t%.4f\t%s\t%d\t%d\n", g.Group, g.Proportion, interval(g.Interval), g.Successes, g.Trials)
			}
			tw.Flush()
		}
		if z := p.Pairwise; z != nil {
			fmt.Fprintf(w, "\ntwo-proportion z-test, %s vs %s\n", z.A.Group, z.B.Group)
			fmt.Fprintf(w, "  difference %.4f %s, z = %.4f, p = %.4g\n", z.Difference, interval(z.DifferenceInterval), z.Z, z.PValue)
			writeVerdict(w, z.Verdict)
		}
		if c := p.Independence; c != nil {
			fmt.Fprintf(w, "\nchi-square test of independence, %s by %s\n", c.Table.RowVariable, c.Table.ColVariable)
			fmt.Fprintf(w, "  chi2 = %.4f, df = %g, p = %.4g\n", c.Statistic, c.DF, c.PValue)
			writeVerdict(w, c.Verdict)
		}
	}

	if m := b.Mean; m != nil {
		fmt.Fprintln(w)
		tw := newTable(w)
		fmt.Fprintf(tw, "%s BY OUTCOME\tN\tMEAN\t95%% T\tSTD\n", strings.ToUpper(m.Column))
		for _, g := range m.Groups {
			fmt.Fprintf(tw, "%s\t%d\t%.4f\t%s\t%.4f\n", g.Group, g.N, g.Mean, interval(g.Interval), g.StdDev)
		}
		tw.Flush()
		if t := m.Welch; t != nil {
			fmt.Fprintf(w, "\nWelch's t-test, %s vs %s\n", t.A.Label, t.B.Label)
			fmt.Fprintf(w, "  difference %.4f %s, t = %.4f, df = %.2f, p = %.4g\n", t.Difference, interval(t.DifferenceInterval), t.T, t.DF, t.PValue)
			writeVerdict(w, t.Verdict)
		}
	}

	for _, a := range b.Advisories {
		fmt.Fprintf(w, "\nadvisory [%s] %s: %s\n", a.Section, a.Code, a.Message)
	}
}

func writeVerdict(w io.Writer, v verdict.Verdict) {
	fmt.Fprintf(w, "  %s: %s\n", v.Decision, v.Conclusion)
}

func optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.4g", *v)
}
