package means

import (
	"fmt"
	"math"

	"bankinfer/domain/core"
	"bankinfer/domain/stats"
	"bankinfer/domain/verdict"
)

// WelchTTest compares the means of two samples without assuming equal
// variances
func (c *Calculator) WelchTTest(column string, a, b []float64, labelA, labelB string) (*stats.WelchTest, error) {
	sumA, err := Summarize(labelA, a)
	if err != nil {
		return nil, err
	}
	sumB, err := Summarize(labelB, b)
	if err != nil {
		return nil, err
	}
	return c.WelchFromSummary(column, sumA, sumB)
}

// WelchFromSummary runs Welch's t-test from per-group n, mean and variance.
//
//	t  = (mA − mB) / √(vA/nA + vB/nB)
//	df = (vA/nA + vB/nB)² / ((vA/nA)²/(nA−1) + (vB/nB)²/(nB−1))
func (c *Calculator) WelchFromSummary(column string, a, b stats.GroupSummary) (*stats.WelchTest, error) {
	for _, g := range []stats.GroupSummary{a, b} {
		if g.N < minGroupSize {
			return nil, core.NewGroupSizeError(g.Label, g.N, minGroupSize)
		}
		if g.Variance < 0 || math.IsNaN(g.Variance) || math.IsNaN(g.Mean) {
			return nil, core.NewNoUsableDataError(fmt.Sprintf("group %q has invalid moments", g.Label))
		}
	}

	nA, nB := float64(a.N), float64(b.N)
	qA, qB := a.Variance/nA, b.Variance/nB
	se := math.Sqrt(qA + qB)
	if se == 0 {
		return nil, core.NewNoUsableDataError("both groups are constant, the standard error is zero")
	}

	diff := a.Mean - b.Mean
	t := diff / se
	df := (qA + qB) * (qA + qB) / (qA*qA/(nA-1) + qB*qB/(nB-1))
	p := c.dist.TTestPValue(t, df)
	margin := c.dist.TCritical(df, stats.ConfidenceLevel) * se

	v, err := verdict.Decide(p, verdict.TwoMeans(column, a.Label, b.Label))
	if err != nil {
		return nil, err
	}

	return &stats.WelchTest{
		Test:       stats.TestWelchT,
		A:          a,
		B:          b,
		Difference: diff,
		StdErr:     se,
		T:          t,
		DF:         df,
		PValue:     p,
		DifferenceInterval: stats.Interval{
			Lower: diff - margin,
			Upper: diff + margin,
			Level: stats.ConfidenceLevel,
		},
		Verdict: v,
	}, nil
}
