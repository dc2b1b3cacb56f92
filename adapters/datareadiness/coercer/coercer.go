package coercer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"bankinfer/domain/dataset"
)

// TypeCoercer classifies raw string columns and builds typed datasets from
// raw tables
type TypeCoercer struct {
	config  CoercionConfig
	missing map[string]struct{}
}

// CoercionConfig defines the coercion rules
type CoercionConfig struct {
	MissingTokens []string `json:"missing_tokens"` // matched case-insensitively after trimming; "" is always missing
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		MissingTokens: []string{"na", "n/a", "nan", "null"},
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	missing := make(map[string]struct{}, len(config.MissingTokens)+1)
	missing[""] = struct{}{}
	for _, tok := range config.MissingTokens {
		missing[strings.ToLower(strings.TrimSpace(tok))] = struct{}{}
	}
	return &TypeCoercer{config: config, missing: missing}
}

// IsMissing reports whether a raw cell is a null marker
func (c *TypeCoercer) IsMissing(cell string) bool {
	_, ok := c.missing[strings.ToLower(strings.TrimSpace(cell))]
	return ok
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int                `json:"total_count"`
	ValidCount      int                `json:"valid_count"`
	NumericCount    int                `json:"numeric_count"`
	NumericRatio    float64            `json:"numeric_ratio"`
	RecommendedType dataset.ColumnKind `json:"recommended_type"`
}

// AnalyzeTypeDistribution classifies a column. It is numeric only when it has
// at least one value and every non-missing cell parses as a finite number.
func (c *TypeCoercer) AnalyzeTypeDistribution(cells []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(cells)}

	for _, cell := range cells {
		if c.IsMissing(cell) {
			continue
		}
		analysis.ValidCount++
		if _, ok := tryParseNumeric(cell); ok {
			analysis.NumericCount++
		}
	}

	if analysis.ValidCount > 0 {
		analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
	}

	analysis.RecommendedType = dataset.KindCategorical
	if analysis.ValidCount > 0 && analysis.NumericCount == analysis.ValidCount {
		analysis.RecommendedType = dataset.KindNumeric
	}
	return analysis
}

// CoerceColumn builds a typed column from raw cells
func (c *TypeCoercer) CoerceColumn(name string, cells []string) (*dataset.Column, error) {
	missing := make([]bool, len(cells))
	for i, cell := range cells {
		missing[i] = c.IsMissing(cell)
	}
	analysis := c.AnalyzeTypeDistribution(cells)
	return dataset.NewColumn(name, analysis.RecommendedType, cells, missing)
}

// BuildDataset turns a header row and data rows into a typed dataset. Short
// rows are padded with missing cells; rows wider than the header are
// rejected.
func (c *TypeCoercer) BuildDataset(name string, headers []string, rows [][]string) (*dataset.Dataset, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("%s: header row is empty", name)
	}

	columns := make([][]string, len(headers))
	for j := range columns {
		columns[j] = make([]string, len(rows))
	}
	for i, row := range rows {
		if len(row) > len(headers) {
			return nil, fmt.Errorf("%s: row %d has %d cells, header has %d", name, i+1, len(row), len(headers))
		}
		for j, cell := range row {
			columns[j][i] = cell
		}
	}

	cols := make([]*dataset.Column, len(headers))
	for j, header := range headers {
		header = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
		if header == "" {
			header = fmt.Sprintf("column_%d", j+1)
		}
		col, err := c.CoerceColumn(header, columns[j])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		cols[j] = col
	}

	return dataset.New(name, cols...)
}

// tryParseNumeric parses a plain decimal or scientific literal. Locale
// formats are not accepted; the cell must round-trip through strconv.
func tryParseNumeric(cell string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
