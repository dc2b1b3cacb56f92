package stats

import (
	"bankinfer/domain/verdict"
)

// ConfidenceLevel is the coverage of every interval the engine reports
const ConfidenceLevel = 0.95

// TestType names a hypothesis test
type TestType string

const (
	TestTwoProportionZ TestType = "two_proportion_z"
	TestChiSquare      TestType = "chi_square_independence"
	TestWelchT         TestType = "welch_t"
)

// Interval is a two-sided confidence interval
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Level float64 `json:"level"`
}

// Contains reports whether x lies inside the closed interval
func (i Interval) Contains(x float64) bool {
	return i.Lower <= x && x <= i.Upper
}

// Counts is a binomial sample: successes out of trials for one group
type Counts struct {
	Label     string `json:"label"`
	Successes int    `json:"successes"`
	Trials    int    `json:"trials"`
}

// ProportionEstimate is a sample proportion with its Wilson interval
type ProportionEstimate struct {
	Group      string   `json:"group"`
	Successes  int      `json:"successes"`
	Trials     int      `json:"trials"`
	Proportion float64  `json:"proportion"`
	Interval   Interval `json:"interval"`
}

// TwoProportionTest is the unpooled two-proportion z-test of A against B
type TwoProportionTest struct {
	Test               TestType           `json:"test"`
	A                  ProportionEstimate `json:"a"`
	B                  ProportionEstimate `json:"b"`
	Difference         float64            `json:"difference"`
	StdErr             float64            `json:"std_err"`
	DifferenceInterval Interval           `json:"difference_interval"`
	Z                  float64            `json:"z"`
	PValue             float64            `json:"p_value"`
	Verdict            verdict.Verdict    `json:"verdict"`
}

// ContingencyTable holds observed counts of RowVariable levels by ColVariable levels
type ContingencyTable struct {
	RowVariable string   `json:"row_variable"`
	ColVariable string   `json:"col_variable"`
	Rows        []string `json:"rows"`
	Cols        []string `json:"cols"`
	Counts      [][]int  `json:"counts"`
}

// ChiSquareTest is Pearson's chi-square test of independence
type ChiSquareTest struct {
	Test           TestType         `json:"test"`
	Table          ContingencyTable `json:"table"`
	Expected       [][]float64      `json:"expected"`
	Statistic      float64          `json:"statistic"`
	DF             float64          `json:"df"`
	PValue         float64          `json:"p_value"`
	YatesCorrected bool             `json:"yates_corrected"`
	Verdict        verdict.Verdict  `json:"verdict"`
}

// GroupSummary is the sufficient statistics of one group for mean comparisons
type GroupSummary struct {
	Label    string  `json:"label"`
	N        int     `json:"n"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
}

// MeanEstimate is a group mean with its Student t interval
type MeanEstimate struct {
	Group    string   `json:"group"`
	N        int      `json:"n"`
	Mean     float64  `json:"mean"`
	StdDev   float64  `json:"std_dev"`
	StdErr   float64  `json:"std_err"`
	DF       float64  `json:"df"`
	Interval Interval `json:"interval"`
}

// WelchTest is Welch's unequal-variance t-test of mean(A) - mean(B)
type WelchTest struct {
	Test               TestType        `json:"test"`
	A                  GroupSummary    `json:"a"`
	B                  GroupSummary    `json:"b"`
	Difference         float64         `json:"difference"`
	StdErr             float64         `json:"std_err"`
	T                  float64         `json:"t"`
	DF                 float64         `json:"df"`
	PValue             float64         `json:"p_value"`
	DifferenceInterval Interval        `json:"difference_interval"`
	Verdict            verdict.Verdict `json:"verdict"`
}

// Counts returns the binomial sample behind the estimate
func (e ProportionEstimate) Counts() Counts {
	return Counts{Label: e.Group, Successes: e.Successes, Trials: e.Trials}
}

// Summary returns the sufficient statistics behind the estimate
func (e MeanEstimate) Summary() GroupSummary {
	return GroupSummary{Label: e.Group, N: e.N, Mean: e.Mean, Variance: e.StdDev * e.StdDev}
}
