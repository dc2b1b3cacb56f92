package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankinfer/domain/core"
	"bankinfer/domain/dataset"
	"bankinfer/internal"
)

func TestOverview(t *testing.T) {
	svc := NewDescribeService(&staticSnapshots{snap: bankSnapshot(t)}, internal.NewNopLogger())

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "bank.csv", overview.Dataset)
	assert.Equal(t, 20, overview.Rows)
	assert.Equal(t, "y", overview.OutcomeColumn)
	assert.Equal(t, 10, overview.Positives)
	assert.Len(t, overview.Fingerprint, 64)
	require.Len(t, overview.Columns, 6)
	assert.Equal(t, dataset.ColumnInfo{Name: "age", Kind: dataset.KindNumeric, Distinct: 20, Missing: 0}, overview.Columns[2])
}

func TestDescribe_WithCrossTab(t *testing.T) {
	svc := NewDescribeService(&staticSnapshots{snap: bankSnapshot(t)}, internal.NewNopLogger())

	report, err := svc.Describe(context.Background(), DescribeRequest{CrossRow: "job", CrossCol: "y"})
	require.NoError(t, err)

	assert.Len(t, report.Numeric, 2)
	assert.Len(t, report.Categorical, 4)
	require.NotNil(t, report.CrossTab)
	assert.Equal(t, 20, report.CrossTab.Total)
	assert.Equal(t, []int{10, 10}, report.CrossTab.RowTotals)

	report, err = svc.Describe(context.Background(), DescribeRequest{CrossRow: "job"})
	require.NoError(t, err)
	assert.Nil(t, report.CrossTab, "a cross tabulation needs both columns")
}

func TestDescribe_Errors(t *testing.T) {
	svc := NewDescribeService(&staticSnapshots{snap: bankSnapshot(t)}, internal.NewNopLogger())

	_, err := svc.Describe(context.Background(), DescribeRequest{Correlate: []string{"age", "job"}})
	assert.True(t, errors.Is(err, core.ErrNoUsableData))

	_, err = svc.Describe(context.Background(), DescribeRequest{CrossRow: "job", CrossCol: "age"})
	assert.True(t, errors.Is(err, core.ErrNoUsableData))
}
