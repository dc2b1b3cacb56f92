package stats

import (
	"time"

	"bankinfer/domain/core"
)

// Mode selects the family of procedures an analysis runs
type Mode string

const (
	ModeProportion Mode = "proportion"
	ModeMean       Mode = "mean"
)

// Valid reports whether m is a known mode
func (m Mode) Valid() bool {
	return m == ModeProportion || m == ModeMean
}

// Selection is the user's choice of mode and columns for one analysis
type Selection struct {
	Mode    Mode   `json:"mode" form:"mode"`
	Group   string `json:"group,omitempty" form:"group"`
	LevelA  string `json:"level_a,omitempty" form:"level_a"`
	LevelB  string `json:"level_b,omitempty" form:"level_b"`
	Numeric string `json:"numeric,omitempty" form:"numeric"`
}

// Advisory is a user-facing note replacing a section that could not be computed
type Advisory struct {
	Code    string `json:"code"`
	Section string `json:"section,omitempty"`
	Message string `json:"message"`
}

// Chart is a bar series with asymmetric error bars, ready for a plot renderer
type Chart struct {
	Title      string    `json:"title"`
	Unit       string    `json:"unit,omitempty"`
	Categories []string  `json:"categories"`
	Values     []float64 `json:"values"`
	ErrorPlus  []float64 `json:"error_plus"`
	ErrorMinus []float64 `json:"error_minus"`
}

// ProportionReport holds the proportion-mode sections of a bundle
type ProportionReport struct {
	Global       ProportionEstimate   `json:"global"`
	GlobalChart  Chart                `json:"global_chart"`
	GroupColumn  string               `json:"group_column,omitempty"`
	Groups       []ProportionEstimate `json:"groups,omitempty"`
	GroupChart   *Chart               `json:"group_chart,omitempty"`
	Pairwise     *TwoProportionTest   `json:"pairwise,omitempty"`
	Independence *ChiSquareTest       `json:"independence,omitempty"`
}

// MeanReport holds the mean-mode sections of a bundle
type MeanReport struct {
	Column string         `json:"column"`
	Groups []MeanEstimate `json:"groups"`
	Chart  Chart          `json:"chart"`
	Welch  *WelchTest     `json:"welch,omitempty"`
}

// Bundle is everything one analysis produced
type Bundle struct {
	AnalysisID    core.AnalysisID   `json:"analysis_id"`
	Mode          Mode              `json:"mode"`
	Selection     Selection         `json:"selection"`
	Dataset       string            `json:"dataset"`
	Fingerprint   string            `json:"fingerprint"`
	Rows          int               `json:"rows"`
	OutcomeColumn string            `json:"outcome_column"`
	Proportion    *ProportionReport `json:"proportion,omitempty"`
	Mean          *MeanReport       `json:"mean,omitempty"`
	Advisories    []Advisory        `json:"advisories"`
	ComputedAt    time.Time         `json:"computed_at"`
}

// Candidate is a categorical column eligible for grouping, with its levels
type Candidate struct {
	Column string   `json:"column"`
	Levels []string `json:"levels"`
}

// Catalog lists the selections an analysis can be run with
type Catalog struct {
	OutcomeColumn   string      `json:"outcome_column"`
	GroupCandidates []Candidate `json:"group_candidates"`
	NumericColumns  []string    `json:"numeric_columns"`
	MaxCategories   int         `json:"max_categories"`
}
