package describe

import "bankinfer/domain/dataset"

// NumericSummary describes one numeric column. Stats is nil when the column
// has no values.
type NumericSummary struct {
	Column  string   `json:"column"`
	Count   int      `json:"count"`
	Missing int      `json:"missing"`
	Stats   *Moments `json:"stats,omitempty"`
}

// Moments holds central tendency and dispersion of a non-empty sample.
// Sample variance and std need two observations and are nil otherwise.
type Moments struct {
	Mean      float64   `json:"mean"`
	Median    float64   `json:"median"`
	Modes     []float64 `json:"modes"`
	Variance  *float64  `json:"variance,omitempty"`
	StdDev    *float64  `json:"std_dev,omitempty"`
	Min       float64   `json:"min"`
	Q1        float64   `json:"q1"`
	Q3        float64   `json:"q3"`
	Max       float64   `json:"max"`
	BandLower *float64  `json:"band_lower,omitempty"` // mean - 1 std
	BandUpper *float64  `json:"band_upper,omitempty"` // mean + 1 std
}

// CategoricalSummary describes one categorical column
type CategoricalSummary struct {
	Column   string          `json:"column"`
	Count    int             `json:"count"`
	Missing  int             `json:"missing"`
	Distinct int             `json:"distinct"`
	Mode     string          `json:"mode,omitempty"`
	Levels   []dataset.Level `json:"levels"`
}

// CorrelationMatrix holds pairwise Pearson coefficients over complete pairs.
// Undefined coefficients (constant column, fewer than two pairs) are nil.
type CorrelationMatrix struct {
	Columns []string     `json:"columns"`
	Values  [][]*float64 `json:"values"`
	PValues [][]*float64 `json:"p_values"`
	N       [][]int      `json:"n"`
}

// CrossTab counts rows by two categorical columns
type CrossTab struct {
	Row       string   `json:"row"`
	Col       string   `json:"col"`
	RowLevels []string `json:"row_levels"`
	ColLevels []string `json:"col_levels"`
	Counts    [][]int  `json:"counts"`
	RowTotals []int    `json:"row_totals"`
	ColTotals []int    `json:"col_totals"`
	Total     int      `json:"total"`
}

// Report is the full descriptive view of a dataset
type Report struct {
	Rows        int                  `json:"rows"`
	Numeric     []NumericSummary     `json:"numeric"`
	Categorical []CategoricalSummary `json:"categorical"`
	Correlation *CorrelationMatrix   `json:"correlation,omitempty"`
	CrossTab    *CrossTab            `json:"cross_tab,omitempty"`
}
