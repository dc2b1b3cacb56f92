package proportion

import (
	"fmt"
	"math"

	"bankinfer/adapters/stats/target"
	"bankinfer/domain/core"
	"bankinfer/domain/dataset"
	"bankinfer/domain/stats"
	"bankinfer/domain/verdict"
)

// ContingencyTable cross-tabulates the levels of a categorical column against
// the outcome, columns ordered {0, 1}
func (c *Calculator) ContingencyTable(col *dataset.Column, outcome *target.Outcome) (stats.ContingencyTable, error) {
	counts, err := c.GroupCounts(col, outcome)
	if err != nil {
		return stats.ContingencyTable{}, err
	}

	table := stats.ContingencyTable{
		RowVariable: col.Name(),
		ColVariable: outcome.Column(),
		Rows:        make([]string, len(counts)),
		Cols:        []string{c.negativeLabel, c.positiveLabel},
		Counts:      make([][]int, len(counts)),
	}
	for i, cnt := range counts {
		table.Rows[i] = cnt.Label
		table.Counts[i] = []int{cnt.Trials - cnt.Successes, cnt.Successes}
	}
	return table, nil
}

// ChiSquare runs Pearson's test of independence on the table. A table with
// fewer than two rows or columns, or with an empty row or column, is
// degenerate. The Yates correction applies to 2x2 tables when the policy
// enables it.
func (c *Calculator) ChiSquare(table stats.ContingencyTable) (*stats.ChiSquareTest, error) {
	rows := len(table.Counts)
	if rows < 2 {
		return nil, core.NewDegenerateTableError(fmt.Sprintf("%s has %d level(s), need at least 2", table.RowVariable, rows))
	}
	cols := len(table.Counts[0])
	if cols < 2 {
		return nil, core.NewDegenerateTableError(fmt.Sprintf("%s has %d column(s), need at least 2", table.ColVariable, cols))
	}

	rowTotals := make([]int, rows)
	colTotals := make([]int, cols)
	total := 0
	for i := 0; i < rows; i++ {
		if len(table.Counts[i]) != cols {
			return nil, core.NewDegenerateTableError(fmt.Sprintf("row %d has %d cells, expected %d", i, len(table.Counts[i]), cols))
		}
		for j := 0; j < cols; j++ {
			v := table.Counts[i][j]
			if v < 0 {
				return nil, core.NewDegenerateTableError("negative cell count")
			}
			rowTotals[i] += v
			colTotals[j] += v
			total += v
		}
	}
	for i, rt := range rowTotals {
		if rt == 0 {
			return nil, core.NewDegenerateTableError(fmt.Sprintf("row %s sums to zero", rowLabel(table, i)))
		}
	}
	for j, ct := range colTotals {
		if ct == 0 {
			return nil, core.NewDegenerateTableError(fmt.Sprintf("column %s sums to zero", colLabel(table, j)))
		}
	}

	yates := c.yates && rows == 2 && cols == 2
	expected := make([][]float64, rows)
	chiSq := 0.0
	for i := 0; i < rows; i++ {
		expected[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			e := float64(rowTotals[i]) * float64(colTotals[j]) / float64(total)
			expected[i][j] = e
			dev := math.Abs(float64(table.Counts[i][j]) - e)
			if yates {
				dev = math.Max(0, dev-0.5)
			}
			chiSq += dev * dev / e
		}
	}

	df := float64((rows - 1) * (cols - 1))
	p := c.dist.ChiSquarePValue(chiSq, df)

	v, err := verdict.Decide(p, verdict.Independence(table.RowVariable, table.ColVariable))
	if err != nil {
		return nil, err
	}

	return &stats.ChiSquareTest{
		Test:           stats.TestChiSquare,
		Table:          table,
		Expected:       expected,
		Statistic:      chiSq,
		DF:             df,
		PValue:         p,
		YatesCorrected: yates,
		Verdict:        v,
	}, nil
}

// Independence builds the contingency table for a grouping column and tests it
func (c *Calculator) Independence(col *dataset.Column, outcome *target.Outcome) (*stats.ChiSquareTest, error) {
	table, err := c.ContingencyTable(col, outcome)
	if err != nil {
		return nil, err
	}
	return c.ChiSquare(table)
}

func rowLabel(t stats.ContingencyTable, i int) string {
	if i < len(t.Rows) {
		return t.Rows[i]
	}
	return fmt.Sprintf("#%d", i)
}

func colLabel(t stats.ContingencyTable, j int) string {
	if j < len(t.Cols) {
		return t.Cols[j]
	}
	return fmt.Sprintf("#%d", j)
}
