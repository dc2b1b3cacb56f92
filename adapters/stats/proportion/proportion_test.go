package proportion

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"bankinfer/adapters/stats/target"
	"bankinfer/domain/core"
	"bankinfer/domain/dataset"
	"bankinfer/domain/stats"
	"bankinfer/domain/verdict"
)

func newCalculator() *Calculator {
	return NewCalculator(stats.DefaultPolicy())
}

// fixture builds a dataset with a categorical grouping column and a y column
func fixture(t *testing.T, groups, outcomes []string) (*dataset.Column, *target.Outcome) {
	t.Helper()
	missing := make([]bool, len(groups))
	for i, g := range groups {
		missing[i] = g == ""
	}
	group, err := dataset.NewColumn("job", dataset.KindCategorical, groups, missing)
	require.NoError(t, err)
	y, err := dataset.NewColumn("y", dataset.KindCategorical, outcomes, nil)
	require.NoError(t, err)
	ds, err := dataset.New("fixture", group, y)
	require.NoError(t, err)

	outcome, err := target.NewDetector(stats.DefaultPolicy()).Normalize(ds, "y")
	require.NoError(t, err)
	return group, outcome
}

func TestWilsonInterval_Scenario(t *testing.T) {
	ci, err := WilsonInterval(2, 4)
	require.NoError(t, err)
	assert.InDelta(t, 0.1500, ci.Lower, 5e-4)
	assert.InDelta(t, 0.8500, ci.Upper, 5e-4)
	assert.Equal(t, stats.ConfidenceLevel, ci.Level)
}

func TestWilsonInterval_ContainsEstimate(t *testing.T) {
	for n := 1; n <= 60; n++ {
		for k := 0; k <= n; k++ {
			ci, err := WilsonInterval(k, n)
			require.NoError(t, err)
			p := float64(k) / float64(n)
			assert.True(t, ci.Lower >= 0 && ci.Upper <= 1, "k=%d n=%d bounds %v", k, n, ci)
			assert.True(t, ci.Lower <= p+1e-12 && p <= ci.Upper+1e-12, "k=%d n=%d p=%f ci=%v", k, n, p, ci)
		}
	}
}

func TestWilsonInterval_Errors(t *testing.T) {
	_, err := WilsonInterval(0, 0)
	assert.True(t, errors.Is(err, core.ErrInsufficientGroupSize))

	_, err = WilsonInterval(5, 4)
	assert.True(t, errors.Is(err, core.ErrNoUsableData))
}

func TestGlobal(t *testing.T) {
	_, outcome := fixture(t, []string{"a", "b", "a", "b"}, []string{"yes", "no", "yes", "no"})

	est, err := newCalculator().Global(outcome)
	require.NoError(t, err)
	assert.Equal(t, GlobalLabel, est.Group)
	assert.Equal(t, 2, est.Successes)
	assert.Equal(t, 4, est.Trials)
	assert.Equal(t, 0.5, est.Proportion)
}

func TestBreakdown_OrderAndMissingGroups(t *testing.T) {
	col, outcome := fixture(t,
		[]string{"admin", "technician", "technician", "", "admin", "technician", "retired"},
		[]string{"yes", "no", "yes", "yes", "no", "no", "yes"},
	)

	got, err := newCalculator().Breakdown(col, outcome)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "technician", got[0].Group)
	assert.Equal(t, 3, got[0].Trials)
	assert.Equal(t, 1, got[0].Successes)

	assert.Equal(t, "admin", got[1].Group)
	assert.Equal(t, 2, got[1].Trials)

	assert.Equal(t, "retired", got[2].Group)
	assert.Equal(t, 1, got[2].Successes)

	total := 0
	for _, g := range got {
		total += g.Trials
	}
	assert.Equal(t, 6, total, "the row with a missing group is dropped")
}

func TestBreakdown_TooManyCategories(t *testing.T) {
	groups := make([]string, 9)
	outcomes := make([]string, 9)
	for i := range groups {
		groups[i] = fmt.Sprintf("level-%d", i)
		outcomes[i] = "no"
	}
	col, outcome := fixture(t, groups, outcomes)

	_, err := newCalculator().Breakdown(col, outcome)
	assert.True(t, errors.Is(err, core.ErrTooManyCategories))

	eight, eightOutcome := fixture(t, groups[:8], outcomes[:8])
	got, err := newCalculator().Breakdown(eight, eightOutcome)
	require.NoError(t, err)
	assert.Len(t, got, 8)
}

func TestBreakdown_RejectsNumericAndEmptyColumns(t *testing.T) {
	calc := newCalculator()
	_, outcome := fixture(t, []string{"a", "b"}, []string{"yes", "no"})

	num, err := dataset.NewColumn("age", dataset.KindNumeric, []string{"30", "40"}, nil)
	require.NoError(t, err)
	_, err = calc.Breakdown(num, outcome)
	assert.True(t, errors.Is(err, core.ErrNoUsableData))

	empty, err := dataset.NewColumn("job", dataset.KindCategorical, []string{"", ""}, []bool{true, true})
	require.NoError(t, err)
	_, err = calc.Breakdown(empty, outcome)
	assert.True(t, errors.Is(err, core.ErrNoUsableData))
}

func TestChart(t *testing.T) {
	est := stats.ProportionEstimate{
		Group:      "admin",
		Proportion: 0.25,
		Interval:   stats.Interval{Lower: 0.2, Upper: 0.35},
	}
	chart := Chart("Rate by job", []stats.ProportionEstimate{est})

	assert.Equal(t, []string{"admin"}, chart.Categories)
	assert.InDelta(t, 25.0, chart.Values[0], 1e-9)
	assert.InDelta(t, 10.0, chart.ErrorPlus[0], 1e-9)
	assert.InDelta(t, 5.0, chart.ErrorMinus[0], 1e-9)
	assert.Equal(t, "%", chart.Unit)
}

func TestTwoProportionZTest_Scenario(t *testing.T) {
	a := stats.Counts{Label: "A", Successes: 7, Trials: 10}
	b := stats.Counts{Label: "B", Successes: 3, Trials: 10}

	res, err := newCalculator().TwoProportionZTest(a, b)
	require.NoError(t, err)

	se := math.Sqrt(0.7*0.3/10 + 0.3*0.7/10)
	z := 0.4 / se
	assert.InDelta(t, z, res.Z, 1e-12)
	assert.InDelta(t, 1.9518, res.Z, 1e-4)
	assert.InDelta(t, 2*(1-distuv.UnitNormal.CDF(z)), res.PValue, 1e-12)
	assert.Less(t, res.PValue, 0.20)
	assert.False(t, res.Verdict.Rejected, "p is just above 0.05")
	assert.Equal(t, verdict.DecisionFailToReject, res.Verdict.Decision)

	assert.InDelta(t, 0.4, res.Difference, 1e-12)
	assert.InDelta(t, 0.4-1.96*se, res.DifferenceInterval.Lower, 1e-12)
	assert.InDelta(t, 0.4+1.96*se, res.DifferenceInterval.Upper, 1e-12)
}

func TestTwoProportionZTest_Symmetric(t *testing.T) {
	calc := newCalculator()
	a := stats.Counts{Label: "cellular", Successes: 120, Trials: 800}
	b := stats.Counts{Label: "telephone", Successes: 31, Trials: 310}

	ab, err := calc.TwoProportionZTest(a, b)
	require.NoError(t, err)
	ba, err := calc.TwoProportionZTest(b, a)
	require.NoError(t, err)

	assert.InDelta(t, -ab.Z, ba.Z, 1e-12)
	assert.InDelta(t, ab.PValue, ba.PValue, 1e-12)
}

func TestTwoProportionZTest_Errors(t *testing.T) {
	calc := newCalculator()

	_, err := calc.TwoProportionZTest(stats.Counts{Label: "A", Trials: 0}, stats.Counts{Label: "B", Successes: 1, Trials: 3})
	assert.True(t, errors.Is(err, core.ErrInsufficientGroupSize))

	_, err = calc.TwoProportionZTest(stats.Counts{Label: "A", Successes: 5, Trials: 5}, stats.Counts{Label: "B", Successes: 0, Trials: 4})
	assert.True(t, errors.Is(err, core.ErrNoUsableData), "zero standard error is reported, never NaN")
}

func TestChiSquare_Pearson(t *testing.T) {
	table := stats.ContingencyTable{
		RowVariable: "contact",
		ColVariable: "y",
		Rows:        []string{"cellular", "telephone"},
		Cols:        []string{"not subscribed", "subscribed"},
		Counts:      [][]int{{10, 20}, {30, 40}},
	}

	res, err := newCalculator().ChiSquare(table)
	require.NoError(t, err)

	assert.InDelta(t, 0.793651, res.Statistic, 1e-6)
	assert.Equal(t, 1.0, res.DF)
	assert.InDelta(t, distuv.ChiSquared{K: 1}.Survival(res.Statistic), res.PValue, 1e-12)
	assert.False(t, res.YatesCorrected)
	assert.Equal(t, [][]float64{{12, 18}, {28, 42}}, res.Expected)
	assert.Equal(t, verdict.DecisionFailToReject, res.Verdict.Decision)
}

func TestChiSquare_Yates(t *testing.T) {
	policy := stats.DefaultPolicy()
	policy.YatesCorrection = true

	res, err := NewCalculator(policy).ChiSquare(stats.ContingencyTable{
		RowVariable: "contact",
		ColVariable: "y",
		Counts:      [][]int{{10, 20}, {30, 40}},
	})
	require.NoError(t, err)
	assert.True(t, res.YatesCorrected)
	assert.InDelta(t, 0.446429, res.Statistic, 1e-6)

	wide, err := NewCalculator(policy).ChiSquare(stats.ContingencyTable{
		Counts: [][]int{{10, 20}, {30, 40}, {5, 5}},
	})
	require.NoError(t, err)
	assert.False(t, wide.YatesCorrected, "only 2x2 tables are corrected")
}

func TestChiSquare_Bounds(t *testing.T) {
	calc := newCalculator()
	tables := [][][]int{
		{{1, 1}, {1, 1}},
		{{50, 0}, {0, 50}},
		{{3, 7}, {8, 2}, {4, 4}},
		{{1000, 1}, {1, 1000}},
	}
	for _, counts := range tables {
		res, err := calc.ChiSquare(stats.ContingencyTable{Counts: counts})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.Statistic, 0.0)
		assert.GreaterOrEqual(t, res.PValue, 0.0)
		assert.LessOrEqual(t, res.PValue, 1.0)
	}
}

func TestChiSquare_Degenerate(t *testing.T) {
	calc := newCalculator()
	tables := map[string][][]int{
		"single row":  {{3, 4}},
		"zero row":    {{3, 4}, {0, 0}},
		"zero column": {{3, 0}, {5, 0}},
		"no rows":     {},
	}
	for name, counts := range tables {
		t.Run(name, func(t *testing.T) {
			_, err := calc.ChiSquare(stats.ContingencyTable{Counts: counts})
			assert.True(t, errors.Is(err, core.ErrDegenerateContingencyTable))
		})
	}
}

func TestIndependence_FromColumns(t *testing.T) {
	col, outcome := fixture(t,
		[]string{"a", "a", "a", "b", "b", "b"},
		[]string{"yes", "yes", "no", "no", "no", "no"},
	)

	res, err := newCalculator().Independence(col, outcome)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, res.Table.Rows)
	assert.Equal(t, []string{"not subscribed", "subscribed"}, res.Table.Cols)
	assert.Equal(t, [][]int{{1, 2}, {3, 0}}, res.Table.Counts)
	assert.Equal(t, "job", res.Table.RowVariable)
	assert.Equal(t, "y", res.Table.ColVariable)
}

func TestIndependence_ConstantOutcomeIsDegenerate(t *testing.T) {
	col, outcome := fixture(t, []string{"a", "b", "a"}, []string{"no", "no", "no"})

	_, err := newCalculator().Independence(col, outcome)
	assert.True(t, errors.Is(err, core.ErrDegenerateContingencyTable))
}
