package describe

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"bankinfer/adapters/stats/distributions"
	"bankinfer/domain/core"
	"bankinfer/domain/dataset"
)

// Describer computes descriptive statistics over a dataset
type Describer struct {
	dist *distributions.StatisticalDistributions
}

// NewDescriber creates a describer
func NewDescriber() *Describer {
	return &Describer{dist: distributions.NewDistributions()}
}

// Describe summarizes every column and correlates the chosen numeric columns
// (all numeric columns when none are given)
func (d *Describer) Describe(ds *dataset.Dataset, correlate []string) (*Report, error) {
	report := &Report{Rows: ds.Rows()}
	var numeric []string
	for _, col := range ds.Columns() {
		switch col.Kind() {
		case dataset.KindNumeric:
			summary, err := Numeric(col)
			if err != nil {
				return nil, err
			}
			report.Numeric = append(report.Numeric, summary)
			numeric = append(numeric, col.Name())
		case dataset.KindCategorical:
			report.Categorical = append(report.Categorical, Categorical(col))
		}
	}

	if len(correlate) == 0 {
		correlate = numeric
	}
	if len(correlate) > 0 {
		matrix, err := d.Correlation(ds, correlate)
		if err != nil {
			return nil, err
		}
		report.Correlation = matrix
	}
	return report, nil
}

// Numeric summarizes a numeric column
func Numeric(col *dataset.Column) (NumericSummary, error) {
	if col.Kind() != dataset.KindNumeric {
		return NumericSummary{}, core.NewNoUsableDataError(fmt.Sprintf("column %s is not numeric", col.Name()))
	}

	data := stats.Float64Data(col.Floats())
	summary := NumericSummary{
		Column:  col.Name(),
		Count:   len(data),
		Missing: col.MissingCount(),
	}
	if len(data) == 0 {
		return summary, nil
	}

	m := &Moments{}
	var err error
	if m.Mean, err = stats.Mean(data); err != nil {
		return summary, err
	}
	if m.Median, err = stats.Median(data); err != nil {
		return summary, err
	}
	if m.Modes, err = stats.Mode(data); err != nil {
		return summary, err
	}
	if m.Min, err = stats.Min(data); err != nil {
		return summary, err
	}
	if m.Max, err = stats.Max(data); err != nil {
		return summary, err
	}
	if m.Q1, err = stats.Percentile(data, 25); err != nil {
		return summary, err
	}
	if m.Q3, err = stats.Percentile(data, 75); err != nil {
		return summary, err
	}
	if m.Modes == nil {
		m.Modes = []float64{}
	}

	if len(data) >= 2 {
		variance, err := stats.SampleVariance(data)
		if err != nil {
			return summary, err
		}
		sd, err := stats.StandardDeviationSample(data)
		if err != nil {
			return summary, err
		}
		lower, upper := m.Mean-sd, m.Mean+sd
		m.Variance, m.StdDev = &variance, &sd
		m.BandLower, m.BandUpper = &lower, &upper
	}

	summary.Stats = m
	return summary, nil
}

// Categorical summarizes a categorical column
func Categorical(col *dataset.Column) CategoricalSummary {
	levels := col.Levels()
	summary := CategoricalSummary{
		Column:   col.Name(),
		Count:    col.Len() - col.MissingCount(),
		Missing:  col.MissingCount(),
		Distinct: len(levels),
		Levels:   levels,
	}
	if len(levels) > 0 {
		summary.Mode = levels[0].Value
	}
	if summary.Levels == nil {
		summary.Levels = []dataset.Level{}
	}
	return summary
}

// Correlation computes the Pearson matrix over pairwise complete rows
func (d *Describer) Correlation(ds *dataset.Dataset, columns []string) (*CorrelationMatrix, error) {
	cols := make([]*dataset.Column, len(columns))
	seen := make(map[string]bool, len(columns))
	for i, name := range columns {
		col, err := ds.Column(name)
		if err != nil {
			return nil, err
		}
		if col.Kind() != dataset.KindNumeric {
			return nil, core.NewNoUsableDataError(fmt.Sprintf("column %s is not numeric", name))
		}
		if seen[name] {
			return nil, core.NewNoUsableDataError(fmt.Sprintf("column %s listed twice", name))
		}
		seen[name] = true
		cols[i] = col
	}

	k := len(cols)
	m := &CorrelationMatrix{
		Columns: append([]string(nil), columns...),
		Values:  make([][]*float64, k),
		PValues: make([][]*float64, k),
		N:       make([][]int, k),
	}
	for i := range cols {
		m.Values[i] = make([]*float64, k)
		m.PValues[i] = make([]*float64, k)
		m.N[i] = make([]int, k)
	}

	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			x, y := completePairs(cols[i], cols[j])
			m.N[i][j], m.N[j][i] = len(x), len(x)

			r, ok := pearson(x, y)
			if !ok {
				continue
			}
			m.Values[i][j], m.Values[j][i] = &r, &r
			if p := d.dist.CorrelationPValue(r, len(x)); !math.IsNaN(p) {
				m.PValues[i][j], m.PValues[j][i] = &p, &p
			}
		}
	}
	return m, nil
}

// CrossTabulate counts rows by the levels of two categorical columns. Rows
// missing either value are dropped.
func CrossTabulate(ds *dataset.Dataset, row, col string) (*CrossTab, error) {
	r, err := ds.Column(row)
	if err != nil {
		return nil, err
	}
	c, err := ds.Column(col)
	if err != nil {
		return nil, err
	}
	if r.Kind() != dataset.KindCategorical || c.Kind() != dataset.KindCategorical {
		return nil, core.NewNoUsableDataError(fmt.Sprintf("cross tabulation needs categorical columns, got %s and %s", r.Kind(), c.Kind()))
	}

	rowIndex, rowLevels := levelIndex(r)
	colIndex, colLevels := levelIndex(c)
	tab := &CrossTab{
		Row:       row,
		Col:       col,
		RowLevels: rowLevels,
		ColLevels: colLevels,
		Counts:    make([][]int, len(rowLevels)),
		RowTotals: make([]int, len(rowLevels)),
		ColTotals: make([]int, len(colLevels)),
	}
	for i := range tab.Counts {
		tab.Counts[i] = make([]int, len(colLevels))
	}

	for i := 0; i < ds.Rows(); i++ {
		if r.IsMissing(i) || c.IsMissing(i) {
			continue
		}
		ri, ci := rowIndex[r.Key(i)], colIndex[c.Key(i)]
		tab.Counts[ri][ci]++
		tab.RowTotals[ri]++
		tab.ColTotals[ci]++
		tab.Total++
	}
	return tab, nil
}

func levelIndex(col *dataset.Column) (map[string]int, []string) {
	levels := col.Levels()
	index := make(map[string]int, len(levels))
	names := make([]string, len(levels))
	for i, lvl := range levels {
		index[lvl.Value] = i
		names[i] = lvl.Value
	}
	return index, names
}

func completePairs(a, b *dataset.Column) (x, y []float64) {
	for i := 0; i < a.Len(); i++ {
		va, okA := a.Float(i)
		vb, okB := b.Float(i)
		if okA && okB {
			x = append(x, va)
			y = append(y, vb)
		}
	}
	return x, y
}

// pearson returns the coefficient, or false when it is undefined
func pearson(x, y []float64) (float64, bool) {
	if len(x) < 2 {
		return 0, false
	}
	vx, err := stats.PopulationVariance(x)
	if err != nil || vx == 0 {
		return 0, false
	}
	vy, err := stats.PopulationVariance(y)
	if err != nil || vy == 0 {
		return 0, false
	}
	r, err := stats.Correlation(x, y)
	if err != nil || math.IsNaN(r) {
		return 0, false
	}
	return math.Max(-1, math.Min(1, r)), true
}
