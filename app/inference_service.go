package app

import (
	"context"
	"fmt"
	"time"

	"bankinfer/adapters/stats/means"
	"bankinfer/adapters/stats/proportion"
	"bankinfer/domain/core"
	"bankinfer/domain/dataset"
	"bankinfer/domain/stats"
	"bankinfer/internal"
	apperrors "bankinfer/internal/errors"
	"bankinfer/internal/session"
)

// Bundle sections that can degrade into advisories
const (
	SectionPairwise     = "pairwise"
	SectionIndependence = "independence"
	SectionWelch        = "welch"
)

// SnapshotProvider hands out the loaded dataset and outcome
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*session.Snapshot, error)
}

// AnalysisObserver receives one call per finished analysis and per advisory
type AnalysisObserver interface {
	ObserveAnalysis(mode, result string, elapsed time.Duration)
	ObserveAdvisory(code string)
}

// InferenceService validates selections and assembles result bundles. It
// holds no numeric logic of its own.
type InferenceService struct {
	snapshots     SnapshotProvider
	proportions   *proportion.Calculator
	means         *means.Calculator
	maxCategories int
	logger        *internal.Logger
	observer      AnalysisObserver
	now           func() time.Time
}

// NewInferenceService creates the orchestrator over a snapshot provider
func NewInferenceService(snapshots SnapshotProvider, policy stats.Policy, logger *internal.Logger) *InferenceService {
	return &InferenceService{
		snapshots:     snapshots,
		proportions:   proportion.NewCalculator(policy),
		means:         means.NewCalculator(policy),
		maxCategories: policy.MaxCategories,
		logger:        logger,
		now:           time.Now,
	}
}

// WithObserver attaches a metrics observer
func (s *InferenceService) WithObserver(o AnalysisObserver) *InferenceService {
	s.observer = o
	return s
}

// Run loads the snapshot and analyzes it
func (s *InferenceService) Run(ctx context.Context, sel stats.Selection) (*stats.Bundle, error) {
	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.Analyze(snap, sel)
}

// Analyze runs the procedures of sel.Mode against snap. Prerequisite failures
// fail the whole call; failures of a single test become advisories.
func (s *InferenceService) Analyze(snap *session.Snapshot, sel stats.Selection) (bundle *stats.Bundle, err error) {
	if sel.Mode == "" {
		sel.Mode = stats.ModeProportion
	}
	start := s.now()
	defer func() {
		s.observe(sel.Mode, bundle, err, s.now().Sub(start))
	}()

	if !sel.Mode.Valid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown mode %q, expected %q or %q", sel.Mode, stats.ModeProportion, stats.ModeMean))
	}

	id := core.NewAnalysisID()
	log := s.logger.With("analysis_id", id.String())
	log.Debug("analysis requested: mode=%s group=%q levels=%q/%q numeric=%q", sel.Mode, sel.Group, sel.LevelA, sel.LevelB, sel.Numeric)

	bundle = &stats.Bundle{
		AnalysisID:    id,
		Mode:          sel.Mode,
		Selection:     sel,
		Dataset:       snap.Dataset.Name(),
		Fingerprint:   snap.Dataset.Fingerprint().String(),
		Rows:          snap.Dataset.Rows(),
		OutcomeColumn: snap.Outcome.Column(),
		Advisories:    []stats.Advisory{},
	}

	switch sel.Mode {
	case stats.ModeProportion:
		bundle.Proportion, err = s.proportionReport(snap, sel, bundle)
	case stats.ModeMean:
		bundle.Mean, bundle.Selection.Numeric, err = s.meanReport(snap, sel, bundle)
	}
	if err != nil {
		log.Warn("analysis failed: %v", err)
		return nil, err
	}

	bundle.ComputedAt = s.now()
	log.Info("analysis complete: mode=%s advisories=%d in %s", sel.Mode, len(bundle.Advisories), bundle.ComputedAt.Sub(start))
	return bundle, nil
}

func (s *InferenceService) proportionReport(snap *session.Snapshot, sel stats.Selection, bundle *stats.Bundle) (*stats.ProportionReport, error) {
	global, err := s.proportions.Global(snap.Outcome)
	if err != nil {
		return nil, err
	}
	report := &stats.ProportionReport{
		Global:      global,
		GlobalChart: proportion.Chart(fmt.Sprintf("Rate of %s", snap.Outcome.Column()), []stats.ProportionEstimate{global}),
	}

	if sel.Group == "" {
		if sel.LevelA != "" || sel.LevelB != "" {
			return nil, core.NewNoUsableDataError("levels were selected without a grouping column")
		}
		return report, nil
	}

	col, err := s.groupingColumn(snap, sel.Group)
	if err != nil {
		return nil, err
	}
	groups, err := s.proportions.Breakdown(col, snap.Outcome)
	if err != nil {
		return nil, err
	}
	chart := proportion.Chart(fmt.Sprintf("Rate of %s by %s", snap.Outcome.Column(), col.Name()), groups)
	report.GroupColumn = col.Name()
	report.Groups = groups
	report.GroupChart = &chart

	a, b, err := pickLevels(groups, sel.LevelA, sel.LevelB)
	switch {
	case err != nil && (sel.LevelA != "" || sel.LevelB != ""):
		return nil, err
	case err != nil:
		s.advise(bundle, SectionPairwise, err)
	default:
		pairwise, err := s.proportions.TwoProportionZTest(a.Counts(), b.Counts())
		if err != nil {
			s.advise(bundle, SectionPairwise, err)
		} else {
			report.Pairwise = pairwise
		}
	}

	independence, err := s.proportions.Independence(col, snap.Outcome)
	if err != nil {
		s.advise(bundle, SectionIndependence, err)
	} else {
		report.Independence = independence
	}
	return report, nil
}

func (s *InferenceService) meanReport(snap *session.Snapshot, sel stats.Selection, bundle *stats.Bundle) (*stats.MeanReport, string, error) {
	name := sel.Numeric
	if name == "" {
		numeric := s.catalogOf(snap).NumericColumns
		if len(numeric) == 0 {
			return nil, "", core.NewNoUsableDataError("the dataset has no numeric column to compare")
		}
		name = numeric[0]
	}
	if name == snap.Outcome.Column() {
		return nil, "", core.NewNoUsableDataError(fmt.Sprintf("column %s is the outcome column", name))
	}
	col, err := snap.Dataset.Column(name)
	if err != nil {
		return nil, "", err
	}

	groups, err := s.means.GroupIntervals(col, snap.Outcome)
	if err != nil {
		return nil, "", err
	}
	report := &stats.MeanReport{
		Column: name,
		Groups: groups,
		Chart:  means.Chart(fmt.Sprintf("Mean %s by %s", name, snap.Outcome.Column()), groups),
	}

	welch, err := s.means.WelchFromSummary(name, groups[0].Summary(), groups[1].Summary())
	if err != nil {
		s.advise(bundle, SectionWelch, err)
	} else {
		report.Welch = welch
	}
	return report, name, nil
}

// Catalog lists grouping and numeric candidates of the loaded dataset
func (s *InferenceService) Catalog(ctx context.Context) (*stats.Catalog, error) {
	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.catalogOf(snap), nil
}

func (s *InferenceService) catalogOf(snap *session.Snapshot) *stats.Catalog {
	catalog := &stats.Catalog{
		OutcomeColumn:   snap.Outcome.Column(),
		GroupCandidates: []stats.Candidate{},
		NumericColumns:  []string{},
		MaxCategories:   s.maxCategories,
	}
	for _, col := range snap.Dataset.Columns() {
		if col.Name() == snap.Outcome.Column() {
			continue
		}
		switch col.Kind() {
		case dataset.KindCategorical:
			levels := col.Levels()
			if len(levels) == 0 || len(levels) > s.maxCategories {
				continue
			}
			values := make([]string, len(levels))
			for i, lvl := range levels {
				values[i] = lvl.Value
			}
			catalog.GroupCandidates = append(catalog.GroupCandidates, stats.Candidate{Column: col.Name(), Levels: values})
		case dataset.KindNumeric:
			if col.MissingCount() < col.Len() {
				catalog.NumericColumns = append(catalog.NumericColumns, col.Name())
			}
		}
	}
	return catalog
}

func (s *InferenceService) groupingColumn(snap *session.Snapshot, name string) (*dataset.Column, error) {
	if name == snap.Outcome.Column() {
		return nil, core.NewNoUsableDataError(fmt.Sprintf("column %s is the outcome column", name))
	}
	col, err := snap.Dataset.Column(name)
	if err != nil {
		return nil, err
	}
	if col.Kind() != dataset.KindCategorical {
		return nil, core.NewNoUsableDataError(fmt.Sprintf("grouping column %s is %s, expected categorical", name, col.Kind()))
	}
	return col, nil
}

// pickLevels resolves the compared levels. Unset levels default to the most
// frequent levels not already chosen.
func pickLevels(groups []stats.ProportionEstimate, levelA, levelB string) (a, b stats.ProportionEstimate, err error) {
	find := func(level string) (stats.ProportionEstimate, bool) {
		for _, g := range groups {
			if g.Group == level {
				return g, true
			}
		}
		return stats.ProportionEstimate{}, false
	}

	for _, level := range []string{levelA, levelB} {
		if level == "" {
			continue
		}
		if _, ok := find(level); !ok {
			return a, b, core.NewNoUsableDataError(fmt.Sprintf("level %q does not occur in the grouping column", level))
		}
	}
	if levelA != "" && levelA == levelB {
		return a, b, core.NewNoUsableDataError(fmt.Sprintf("level %q cannot be compared with itself", levelA))
	}
	if len(groups) < 2 {
		return a, b, core.NewGroupSizeError("levels", len(groups), 2)
	}

	fill := func(level, other string) string {
		if level != "" {
			return level
		}
		for _, g := range groups {
			if g.Group != other {
				return g.Group
			}
		}
		return ""
	}
	levelA = fill(levelA, levelB)
	levelB = fill(levelB, levelA)

	a, _ = find(levelA)
	b, _ = find(levelB)
	return a, b, nil
}

func (s *InferenceService) advise(bundle *stats.Bundle, section string, err error) {
	advisory := apperrors.Advise(section, err)
	bundle.Advisories = append(bundle.Advisories, advisory)
	s.logger.Debug("section %s replaced by advisory %s: %s", section, advisory.Code, advisory.Message)
}

func (s *InferenceService) observe(mode stats.Mode, bundle *stats.Bundle, err error, elapsed time.Duration) {
	if s.observer == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = apperrors.GetCode(err)
		if apperrors.IsTaxonomy(err) {
			s.observer.ObserveAdvisory(result)
		}
	}
	s.observer.ObserveAnalysis(string(mode), result, elapsed)
	if bundle != nil && err == nil {
		for _, a := range bundle.Advisories {
			s.observer.ObserveAdvisory(a.Code)
		}
	}
}
