package app

import (
	"context"
	"time"

	"bankinfer/adapters/stats/describe"
	"bankinfer/domain/dataset"
	"bankinfer/internal"
)

// Overview is the schema view of the loaded dataset
type Overview struct {
	Dataset       string               `json:"dataset"`
	Source        string               `json:"source"`
	Fingerprint   string               `json:"fingerprint"`
	Rows          int                  `json:"rows"`
	OutcomeColumn string               `json:"outcome_column"`
	Positives     int                  `json:"positives"`
	Columns       []dataset.ColumnInfo `json:"columns"`
	LoadedAt      time.Time            `json:"loaded_at"`
}

// DescribeRequest selects the optional parts of a descriptive report
type DescribeRequest struct {
	Correlate []string
	CrossRow  string
	CrossCol  string
}

// DescribeService serves the schema overview and descriptive statistics
type DescribeService struct {
	snapshots SnapshotProvider
	describer *describe.Describer
	logger    *internal.Logger
}

// NewDescribeService creates the service
func NewDescribeService(snapshots SnapshotProvider, logger *internal.Logger) *DescribeService {
	return &DescribeService{
		snapshots: snapshots,
		describer: describe.NewDescriber(),
		logger:    logger,
	}
}

// Overview returns rows, column kinds and the detected outcome
func (s *DescribeService) Overview(ctx context.Context) (*Overview, error) {
	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &Overview{
		Dataset:       snap.Dataset.Name(),
		Source:        snap.Source,
		Fingerprint:   snap.Dataset.Fingerprint().String(),
		Rows:          snap.Dataset.Rows(),
		OutcomeColumn: snap.Outcome.Column(),
		Positives:     snap.Outcome.Successes(),
		Columns:       snap.Dataset.Schema(),
		LoadedAt:      snap.LoadedAt,
	}, nil
}

// Describe summarizes every column, correlates the requested numeric columns
// and cross tabulates CrossRow by CrossCol when both are set
func (s *DescribeService) Describe(ctx context.Context, req DescribeRequest) (*describe.Report, error) {
	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	report, err := s.describer.Describe(snap.Dataset, req.Correlate)
	if err != nil {
		return nil, err
	}
	if req.CrossRow != "" && req.CrossCol != "" {
		tab, err := describe.CrossTabulate(snap.Dataset, req.CrossRow, req.CrossCol)
		if err != nil {
			return nil, err
		}
		report.CrossTab = tab
	}

	s.logger.Debug("described %d numeric and %d categorical columns", len(report.Numeric), len(report.Categorical))
	return report, nil
}
