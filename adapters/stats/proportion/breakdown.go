package proportion

import (
	"fmt"

	"bankinfer/adapters/stats/target"
	"bankinfer/domain/core"
	"bankinfer/domain/dataset"
	"bankinfer/domain/stats"
)

// GroupCounts tallies outcome successes per level of a categorical column.
// Rows whose grouping value is missing are dropped. Levels are ordered by
// descending count, ties by first appearance.
func (c *Calculator) GroupCounts(col *dataset.Column, outcome *target.Outcome) ([]stats.Counts, error) {
	if col.Kind() != dataset.KindCategorical {
		return nil, core.NewNoUsableDataError(fmt.Sprintf("grouping column %s is not categorical", col.Name()))
	}
	if col.Len() != outcome.Len() {
		return nil, core.NewNoUsableDataError(fmt.Sprintf("grouping column %s has %d rows, outcome has %d", col.Name(), col.Len(), outcome.Len()))
	}

	levels := col.Levels()
	if len(levels) == 0 {
		return nil, core.NewNoUsableDataError(fmt.Sprintf("grouping column %s has no valid levels", col.Name()))
	}
	if len(levels) > c.maxCategories {
		return nil, core.NewTooManyCategoriesError(col.Name(), len(levels), c.maxCategories)
	}

	index := make(map[string]int, len(levels))
	counts := make([]stats.Counts, len(levels))
	for i, lvl := range levels {
		index[lvl.Value] = i
		counts[i] = stats.Counts{Label: lvl.Value}
	}
	for row := 0; row < col.Len(); row++ {
		if col.IsMissing(row) {
			continue
		}
		i := index[col.Key(row)]
		counts[i].Trials++
		counts[i].Successes += outcome.Value(row)
	}
	return counts, nil
}

// Breakdown returns a Wilson estimate for every level of the grouping column
func (c *Calculator) Breakdown(col *dataset.Column, outcome *target.Outcome) ([]stats.ProportionEstimate, error) {
	counts, err := c.GroupCounts(col, outcome)
	if err != nil {
		return nil, err
	}

	out := make([]stats.ProportionEstimate, 0, len(counts))
	for _, cnt := range counts {
		est, err := c.Estimate(cnt)
		if err != nil {
			return nil, err
		}
		out = append(out, est)
	}
	return out, nil
}

// Chart renders estimates as percentage bars with Wilson error bars
func Chart(title string, estimates []stats.ProportionEstimate) stats.Chart {
	chart := stats.Chart{
		Title:      title,
		Unit:       "%",
		Categories: make([]string, len(estimates)),
		Values:     make([]float64, len(estimates)),
		ErrorPlus:  make([]float64, len(estimates)),
		ErrorMinus: make([]float64, len(estimates)),
	}
	for i, e := range estimates {
		chart.Categories[i] = e.Group
		chart.Values[i] = 100 * e.Proportion
		chart.ErrorPlus[i] = 100 * (e.Interval.Upper - e.Proportion)
		chart.ErrorMinus[i] = 100 * (e.Proportion - e.Interval.Lower)
	}
	return chart
}
