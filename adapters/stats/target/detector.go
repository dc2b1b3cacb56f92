package target

import (
	"fmt"
	"strings"

	"bankinfer/domain/core"
	"bankinfer/domain/dataset"
	"bankinfer/domain/stats"
)

// Outcome is the binary outcome column of a dataset normalized to 0/1. It
// is derived once and never mutated.
type Outcome struct {
	column    string
	values    []int
	successes int
}

// Column returns the source column name
func (o *Outcome) Column() string { return o.column }

// Len returns the number of rows
func (o *Outcome) Len() int { return len(o.values) }

// Value returns the 0/1 value of row i
func (o *Outcome) Value(i int) int { return o.values[i] }

// Positive reports whether row i normalized to 1
func (o *Outcome) Positive(i int) bool { return o.values[i] == 1 }

// Values returns a copy of the 0/1 vector
func (o *Outcome) Values() []int {
	out := make([]int, len(o.values))
	copy(out, o.values)
	return out
}

// Successes returns the number of rows that normalized to 1
func (o *Outcome) Successes() int { return o.successes }

// Detector picks the outcome column of a dataset and normalizes it
type Detector struct {
	override   string
	candidates []string
	positive   map[string]struct{}
}

// NewDetector creates a detector from the inference policy
func NewDetector(policy stats.Policy) *Detector {
	return &Detector{
		override:   strings.TrimSpace(policy.OutcomeColumn),
		candidates: policy.OutcomeCandidates,
		positive:   policy.PositiveSet(),
	}
}

// Detect returns the name of the outcome column. An explicit override wins;
// otherwise candidate names are tried in order, then every column in natural
// order. A column qualifies when it has exactly two distinct non-missing
// values.
func (d *Detector) Detect(ds *dataset.Dataset) (string, error) {
	if d.override != "" {
		col, err := ds.Column(d.override)
		if err != nil {
			return "", fmt.Errorf("%w: configured outcome column %s does not exist", core.ErrNoBinaryColumnFound, d.override)
		}
		if n := col.DistinctCount(); n != 2 {
			return "", fmt.Errorf("%w: configured outcome column %s has %d distinct values", core.ErrNoBinaryColumnFound, d.override, n)
		}
		return col.Name(), nil
	}

	for _, name := range d.candidates {
		col, err := ds.Column(name)
		if err != nil {
			continue
		}
		if isBinary(col) {
			return col.Name(), nil
		}
	}

	for _, col := range ds.Columns() {
		if isBinary(col) {
			return col.Name(), nil
		}
	}

	return "", fmt.Errorf("%w: none of %d columns has exactly two distinct values", core.ErrNoBinaryColumnFound, len(ds.Names()))
}

// Normalize maps the named column to 0/1. Cells whose lower-cased, trimmed
// text is a positive token map to 1; everything else, missing cells
// included, maps to 0. Numeric cells use their parsed form, so "1.0" reads
// as "1".
func (d *Detector) Normalize(ds *dataset.Dataset, column string) (*Outcome, error) {
	col, err := ds.Column(column)
	if err != nil {
		return nil, err
	}

	out := &Outcome{
		column: col.Name(),
		values: make([]int, col.Len()),
	}
	for i := 0; i < col.Len(); i++ {
		if col.IsMissing(i) {
			continue
		}
		if _, ok := d.positive[strings.ToLower(col.Key(i))]; ok {
			out.values[i] = 1
			out.successes++
		}
	}
	return out, nil
}

// Resolve detects the outcome column and normalizes it in one step
func (d *Detector) Resolve(ds *dataset.Dataset) (*Outcome, error) {
	name, err := d.Detect(ds)
	if err != nil {
		return nil, err
	}
	return d.Normalize(ds, name)
}

func isBinary(col *dataset.Column) bool {
	return col.DistinctCount() == 2
}
