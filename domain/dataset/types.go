package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"bankinfer/domain/core"
)

// ColumnKind is the statistical type of a column
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
)

// Column is one immutable named column. Every cell keeps its trimmed raw
// text; numeric columns additionally keep the parsed value (NaN when missing).
type Column struct {
	name    string
	kind    ColumnKind
	raw     []string
	missing []bool
	numbers []float64
}

// Level is one distinct non-missing value of a column and its frequency
type Level struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ColumnInfo describes a column for schema listings
type ColumnInfo struct {
	Name     string     `json:"name"`
	Kind     ColumnKind `json:"kind"`
	Distinct int        `json:"distinct"`
	Missing  int        `json:"missing"`
}

// NewColumn builds a column from raw cells. missing marks null cells; a nil
// slice means no cell is missing. Numeric columns must parse every
// non-missing cell.
func NewColumn(name string, kind ColumnKind, raw []string, missing []bool) (*Column, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("column name cannot be empty")
	}
	if missing != nil && len(missing) != len(raw) {
		return nil, fmt.Errorf("column %s: %d cells but %d missing flags", name, len(raw), len(missing))
	}

	col := &Column{
		name:    name,
		kind:    kind,
		raw:     make([]string, len(raw)),
		missing: make([]bool, len(raw)),
	}
	for i, cell := range raw {
		col.raw[i] = strings.TrimSpace(cell)
		if missing != nil {
			col.missing[i] = missing[i]
		}
	}

	switch kind {
	case KindCategorical:
	case KindNumeric:
		col.numbers = make([]float64, len(raw))
		for i, cell := range col.raw {
			if col.missing[i] {
				col.numbers[i] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
				return nil, fmt.Errorf("column %s row %d: %q is not numeric", name, i, cell)
			}
			col.numbers[i] = v
		}
	default:
		return nil, fmt.Errorf("column %s: unknown kind %q", name, kind)
	}

	return col, nil
}

// Name returns the column name
func (c *Column) Name() string { return c.name }

// Kind returns the statistical type
func (c *Column) Kind() ColumnKind { return c.kind }

// Len returns the number of cells, missing included
func (c *Column) Len() int { return len(c.raw) }

// IsMissing reports whether row i is null
func (c *Column) IsMissing(i int) bool { return c.missing[i] }

// Raw returns the trimmed raw text of row i
func (c *Column) Raw(i int) string { return c.raw[i] }

// Float returns the parsed value of row i. ok is false for categorical
// columns and missing cells.
func (c *Column) Float(i int) (float64, bool) {
	if c.kind != KindNumeric || c.missing[i] {
		return 0, false
	}
	return c.numbers[i], true
}

// Floats returns the non-missing values of a numeric column in row order
func (c *Column) Floats() []float64 {
	if c.kind != KindNumeric {
		return nil
	}
	out := make([]float64, 0, len(c.numbers))
	for i, v := range c.numbers {
		if !c.missing[i] {
			out = append(out, v)
		}
	}
	return out
}

// Key returns the value used for distinctness of row i: the parsed value for
// numeric columns (so "1" and "1.0" coincide) and the raw text otherwise.
func (c *Column) Key(i int) string {
	if c.kind == KindNumeric && !c.missing[i] {
		return strconv.FormatFloat(c.numbers[i], 'g', -1, 64)
	}
	return c.raw[i]
}

// MissingCount returns the number of null cells
func (c *Column) MissingCount() int {
	n := 0
	for _, m := range c.missing {
		if m {
			n++
		}
	}
	return n
}

// DistinctCount returns the number of distinct non-missing values
func (c *Column) DistinctCount() int {
	seen := make(map[string]struct{})
	for i := range c.raw {
		if !c.missing[i] {
			seen[c.Key(i)] = struct{}{}
		}
	}
	return len(seen)
}

// Levels returns distinct non-missing values ordered by descending count;
// ties keep first-appearance order.
func (c *Column) Levels() []Level {
	index := make(map[string]int)
	var levels []Level
	for i := range c.raw {
		if c.missing[i] {
			continue
		}
		key := c.Key(i)
		if pos, ok := index[key]; ok {
			levels[pos].Count++
			continue
		}
		index[key] = len(levels)
		levels = append(levels, Level{Value: key, Count: 1})
	}
	sortLevels(levels)
	return levels
}

// sortLevels is a stable insertion sort by descending count. Level lists are
// short (categorical caps are single digits) so this stays cheap.
func sortLevels(levels []Level) {
	for i := 1; i < len(levels); i++ {
		for j := i; j > 0 && levels[j].Count > levels[j-1].Count; j-- {
			levels[j], levels[j-1] = levels[j-1], levels[j]
		}
	}
}

// Dataset is an immutable in-memory table. Column names are unique and the
// schema never changes after construction.
type Dataset struct {
	name        string
	columns     []*Column
	index       map[string]int
	rows        int
	fingerprint core.Hash
}

// New assembles a dataset from columns of equal length
func New(name string, columns ...*Column) (*Dataset, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("dataset %s: no columns", name)
	}

	ds := &Dataset{
		name:    name,
		columns: make([]*Column, len(columns)),
		index:   make(map[string]int, len(columns)),
		rows:    columns[0].Len(),
	}
	if ds.rows == 0 {
		return nil, fmt.Errorf("dataset %s: %w", name, core.ErrEmptyDataset)
	}

	fp := core.NewFingerprinter()
	for i, col := range columns {
		if col == nil {
			return nil, fmt.Errorf("dataset %s: column %d is nil", name, i)
		}
		if col.Len() != ds.rows {
			return nil, fmt.Errorf("dataset %s: column %s has %d rows, expected %d", name, col.Name(), col.Len(), ds.rows)
		}
		if _, dup := ds.index[col.Name()]; dup {
			return nil, fmt.Errorf("dataset %s: %w: %s", name, core.ErrDuplicateName, col.Name())
		}
		ds.index[col.Name()] = i
		ds.columns[i] = col

		fp.Add(col.Name())
		fp.Add(string(col.Kind()))
		for r := 0; r < col.Len(); r++ {
			if col.IsMissing(r) {
				fp.Add("\x00")
				continue
			}
			fp.Add(col.Raw(r))
		}
	}
	ds.fingerprint = fp.Sum()

	return ds, nil
}

// Name returns the dataset's source description
func (d *Dataset) Name() string { return d.name }

// Rows returns the row count
func (d *Dataset) Rows() int { return d.rows }

// Fingerprint returns a content hash over names, kinds and cells
func (d *Dataset) Fingerprint() core.Hash { return d.fingerprint }

// Columns returns the columns in natural order
func (d *Dataset) Columns() []*Column {
	out := make([]*Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// Names returns column names in natural order
func (d *Dataset) Names() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name()
	}
	return names
}

// Has reports whether a column exists
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Column looks a column up by name
func (d *Dataset) Column(name string) (*Column, error) {
	i, ok := d.index[name]
	if !ok {
		return nil, core.NewColumnNotFoundError(name)
	}
	return d.columns[i], nil
}

// Schema lists every column with its kind, distinct and missing counts
func (d *Dataset) Schema() []ColumnInfo {
	out := make([]ColumnInfo, len(d.columns))
	for i, c := range d.columns {
		out[i] = ColumnInfo{
			Name:     c.Name(),
			Kind:     c.Kind(),
			Distinct: c.DistinctCount(),
			Missing:  c.MissingCount(),
		}
	}
	return out
}
