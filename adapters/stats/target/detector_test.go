package target

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankinfer/domain/core"
	"bankinfer/domain/dataset"
	"bankinfer/domain/stats"
)

func categorical(t *testing.T, name string, values ...string) *dataset.Column {
	t.Helper()
	missing := make([]bool, len(values))
	for i, v := range values {
		missing[i] = v == ""
	}
	col, err := dataset.NewColumn(name, dataset.KindCategorical, values, missing)
	require.NoError(t, err)
	return col
}

func numeric(t *testing.T, name string, values ...string) *dataset.Column {
	t.Helper()
	col, err := dataset.NewColumn(name, dataset.KindNumeric, values, nil)
	require.NoError(t, err)
	return col
}

func build(t *testing.T, cols ...*dataset.Column) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New("test", cols...)
	require.NoError(t, err)
	return ds
}

func TestDetectAndNormalize_YColumn(t *testing.T) {
	ds := build(t,
		numeric(t, "age", "30", "41", "52", "38"),
		categorical(t, "y", "yes", "no", "yes", "no"),
	)
	d := NewDetector(stats.DefaultPolicy())

	out, err := d.Resolve(ds)
	require.NoError(t, err)
	assert.Equal(t, "y", out.Column())
	assert.Equal(t, []int{1, 0, 1, 0}, out.Values())
	assert.Equal(t, 2, out.Successes())
	assert.Equal(t, 4, out.Len())
}

func TestDetect_Idempotent(t *testing.T) {
	ds := build(t,
		categorical(t, "marital", "married", "single", "married", "divorced"),
		categorical(t, "deposit", "yes", "no", "yes", "no"),
	)
	d := NewDetector(stats.DefaultPolicy())

	first, err := d.Resolve(ds)
	require.NoError(t, err)
	second, err := d.Resolve(ds)
	require.NoError(t, err)

	assert.Equal(t, "deposit", first.Column())
	assert.Equal(t, first.Column(), second.Column())
	assert.Equal(t, first.Values(), second.Values())
	assert.Equal(t, []int{1, 0, 1, 0}, first.Values())
}

func TestDetect_DistinctnessIsCaseSensitive(t *testing.T) {
	ds := build(t,
		categorical(t, "deposit", "Yes", " no", "YES", "no"),
		categorical(t, "housing", "yes", "no", "no", "yes"),
	)
	d := NewDetector(stats.DefaultPolicy())

	name, err := d.Detect(ds)
	require.NoError(t, err)
	assert.Equal(t, "housing", name, "Yes and YES are two raw values, so deposit has three")

	_, err = d.Detect(build(t, categorical(t, "deposit", "Yes", "no", "YES")))
	assert.True(t, errors.Is(err, core.ErrNoBinaryColumnFound))
}

func TestNormalize_IgnoresCaseAndSpace(t *testing.T) {
	ds := build(t,
		categorical(t, "deposit", "Yes", " no", "YES", "no"),
	)

	out, err := NewDetector(stats.DefaultPolicy()).Normalize(ds, "deposit")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 1, 0}, out.Values())
	assert.Equal(t, 2, out.Successes())
}

func TestDetect_CandidateOrderBeatsColumnOrder(t *testing.T) {
	ds := build(t,
		categorical(t, "default", "no", "yes", "no"),
		categorical(t, "response", "t", "f", "f"),
		categorical(t, "deposit", "yes", "no", "no"),
	)

	name, err := NewDetector(stats.DefaultPolicy()).Detect(ds)
	require.NoError(t, err)
	assert.Equal(t, "deposit", name)
}

func TestDetect_CandidateWithWrongCardinalityIsSkipped(t *testing.T) {
	ds := build(t,
		categorical(t, "y", "yes", "no", "maybe"),
		categorical(t, "housing", "yes", "no", "no"),
	)

	name, err := NewDetector(stats.DefaultPolicy()).Detect(ds)
	require.NoError(t, err)
	assert.Equal(t, "housing", name, "falls back to the first binary column in natural order")
}

func TestDetect_MissingValuesDoNotCount(t *testing.T) {
	ds := build(t,
		categorical(t, "y", "yes", "", "no", ""),
	)

	name, err := NewDetector(stats.DefaultPolicy()).Detect(ds)
	require.NoError(t, err)
	assert.Equal(t, "y", name)
}

func TestDetect_Override(t *testing.T) {
	ds := build(t,
		categorical(t, "y", "yes", "no", "yes"),
		categorical(t, "loan", "no", "no", "yes"),
		categorical(t, "job", "admin", "blue", "tech"),
	)

	policy := stats.DefaultPolicy()
	policy.OutcomeColumn = "loan"
	name, err := NewDetector(policy).Detect(ds)
	require.NoError(t, err)
	assert.Equal(t, "loan", name)

	policy.OutcomeColumn = "job"
	_, err = NewDetector(policy).Detect(ds)
	assert.True(t, errors.Is(err, core.ErrNoBinaryColumnFound))

	policy.OutcomeColumn = "absent"
	_, err = NewDetector(policy).Detect(ds)
	assert.True(t, errors.Is(err, core.ErrNoBinaryColumnFound))
}

func TestDetect_NoBinaryColumn(t *testing.T) {
	ds := build(t,
		categorical(t, "job", "admin", "blue", "tech"),
		numeric(t, "age", "1", "1", "1"),
	)

	_, err := NewDetector(stats.DefaultPolicy()).Detect(ds)
	assert.True(t, errors.Is(err, core.ErrNoBinaryColumnFound))
}

func TestNormalize_TotalMapping(t *testing.T) {
	ds := build(t,
		categorical(t, "y", "sim", "nao", "", "TRUE", "unknown"),
		numeric(t, "flag", "1.0", "0", "1", "0", "0"),
	)
	d := NewDetector(stats.DefaultPolicy())

	out, err := d.Normalize(ds, "y")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 0, 1, 0}, out.Values(), "unrecognized and missing cells map to 0")

	flag, err := d.Normalize(ds, "flag")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 1, 0, 0}, flag.Values())
}

func TestNormalize_DoesNotMutateSource(t *testing.T) {
	ds := build(t, categorical(t, "y", "Yes", "no"))
	d := NewDetector(stats.DefaultPolicy())

	out, err := d.Normalize(ds, "y")
	require.NoError(t, err)

	values := out.Values()
	values[0] = 0
	assert.Equal(t, 1, out.Value(0), "Values returns a copy")

	col, err := ds.Column("y")
	require.NoError(t, err)
	assert.Equal(t, "Yes", col.Raw(0))
}

func TestNormalize_CustomTokens(t *testing.T) {
	ds := build(t, categorical(t, "y", "ok", "nope", "OK"))
	policy := stats.DefaultPolicy()
	policy.PositiveTokens = []string{"ok"}

	out, err := NewDetector(policy).Normalize(ds, "y")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 1}, out.Values())
}

func TestNormalize_UnknownColumn(t *testing.T) {
	ds := build(t, categorical(t, "y", "yes", "no"))
	_, err := NewDetector(stats.DefaultPolicy()).Normalize(ds, "deposit")
	assert.True(t, errors.Is(err, core.ErrNoUsableData))
}
