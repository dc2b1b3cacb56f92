package means

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"bankinfer/adapters/stats/distributions"
	"bankinfer/adapters/stats/target"
	"bankinfer/domain/core"
	"bankinfer/domain/dataset"
	"bankinfer/domain/stats"
)

// minGroupSize is the smallest group with a defined sample variance
const minGroupSize = 2

// Calculator computes mean estimates and Welch tests under one policy
type Calculator struct {
	dist          *distributions.StatisticalDistributions
	positiveLabel string
	negativeLabel string
}

// NewCalculator creates a calculator from the inference policy
func NewCalculator(policy stats.Policy) *Calculator {
	return &Calculator{
		dist:          distributions.NewDistributions(),
		positiveLabel: policy.PositiveLabel,
		negativeLabel: policy.NegativeLabel,
	}
}

// Split partitions the non-missing values of a numeric column by the outcome.
// Rows with a missing value are dropped.
func (c *Calculator) Split(col *dataset.Column, outcome *target.Outcome) (positive, negative []float64, err error) {
	if col.Kind() != dataset.KindNumeric {
		return nil, nil, core.NewNoUsableDataError(fmt.Sprintf("column %s is not numeric", col.Name()))
	}
	if col.Len() != outcome.Len() {
		return nil, nil, core.NewNoUsableDataError(fmt.Sprintf("column %s has %d rows, outcome has %d", col.Name(), col.Len(), outcome.Len()))
	}

	for i := 0; i < col.Len(); i++ {
		v, ok := col.Float(i)
		if !ok {
			continue
		}
		if outcome.Positive(i) {
			positive = append(positive, v)
		} else {
			negative = append(negative, v)
		}
	}
	if len(positive)+len(negative) == 0 {
		return nil, nil, core.NewNoUsableDataError(fmt.Sprintf("column %s has no values", col.Name()))
	}
	return positive, negative, nil
}

// Summarize returns n, mean and unbiased variance of a sample
func Summarize(label string, values []float64) (stats.GroupSummary, error) {
	if len(values) < minGroupSize {
		return stats.GroupSummary{}, core.NewGroupSizeError(label, len(values), minGroupSize)
	}
	mean, variance := stat.MeanVariance(values, nil)
	if math.IsNaN(mean) || math.IsInf(mean, 0) || math.IsNaN(variance) || math.IsInf(variance, 0) {
		return stats.GroupSummary{}, core.NewNoUsableDataError(fmt.Sprintf("group %q has non-finite moments", label))
	}
	return stats.GroupSummary{Label: label, N: len(values), Mean: mean, Variance: variance}, nil
}

// Interval returns the group mean with a Student t interval at n−1 degrees
// of freedom
func (c *Calculator) Interval(label string, values []float64) (stats.MeanEstimate, error) {
	sum, err := Summarize(label, values)
	if err != nil {
		return stats.MeanEstimate{}, err
	}
	return c.IntervalFromSummary(sum)
}

// IntervalFromSummary is Interval for precomputed sufficient statistics
func (c *Calculator) IntervalFromSummary(sum stats.GroupSummary) (stats.MeanEstimate, error) {
	if sum.N < minGroupSize {
		return stats.MeanEstimate{}, core.NewGroupSizeError(sum.Label, sum.N, minGroupSize)
	}
	if sum.Variance < 0 || math.IsNaN(sum.Variance) || math.IsNaN(sum.Mean) {
		return stats.MeanEstimate{}, core.NewNoUsableDataError(fmt.Sprintf("group %q has invalid moments", sum.Label))
	}

	sd := math.Sqrt(sum.Variance)
	se := sd / math.Sqrt(float64(sum.N))
	df := float64(sum.N - 1)
	margin := c.dist.TCritical(df, stats.ConfidenceLevel) * se

	return stats.MeanEstimate{
		Group:  sum.Label,
		N:      sum.N,
		Mean:   sum.Mean,
		StdDev: sd,
		StdErr: se,
		DF:     df,
		Interval: stats.Interval{
			Lower: sum.Mean - margin,
			Upper: sum.Mean + margin,
			Level: stats.ConfidenceLevel,
		},
	}, nil
}

// GroupIntervals splits a numeric column by the outcome and returns the
// positive group's estimate followed by the negative group's
func (c *Calculator) GroupIntervals(col *dataset.Column, outcome *target.Outcome) ([]stats.MeanEstimate, error) {
	positive, negative, err := c.Split(col, outcome)
	if err != nil {
		return nil, err
	}

	pos, err := c.Interval(c.positiveLabel, positive)
	if err != nil {
		return nil, err
	}
	neg, err := c.Interval(c.negativeLabel, negative)
	if err != nil {
		return nil, err
	}
	return []stats.MeanEstimate{pos, neg}, nil
}

// Chart renders mean estimates as bars with t-interval error bars
func Chart(title string, estimates []stats.MeanEstimate) stats.Chart {
	chart := stats.Chart{
		Title:      title,
		Categories: make([]string, len(estimates)),
		Values:     make([]float64, len(estimates)),
		ErrorPlus:  make([]float64, len(estimates)),
		ErrorMinus: make([]float64, len(estimates)),
	}
	for i, e := range estimates {
		chart.Categories[i] = e.Group
		chart.Values[i] = e.Mean
		chart.ErrorPlus[i] = e.Interval.Upper - e.Mean
		chart.ErrorMinus[i] = e.Mean - e.Interval.Lower
	}
	return chart
}
