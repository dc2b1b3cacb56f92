package distributions

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// StatisticalDistributions provides the reference distributions used by the
// inference procedures. All tail probabilities come from survival functions
// so small p-values keep their precision.
type StatisticalDistributions struct{}

// NewDistributions creates a new distributions utility
func NewDistributions() *StatisticalDistributions {
	return &StatisticalDistributions{}
}

// ZTestPValue computes the two-sided p-value of a z statistic: 2·(1 − Φ(|z|))
func (sd *StatisticalDistributions) ZTestPValue(z float64) float64 {
	if math.IsNaN(z) {
		return math.NaN()
	}
	return clampProbability(2 * distuv.UnitNormal.Survival(math.Abs(z)))
}

// TTestPValue computes the two-sided p-value of a t statistic with df degrees
// of freedom. df may be fractional (Welch–Satterthwaite).
func (sd *StatisticalDistributions) TTestPValue(tStatistic, df float64) float64 {
	if math.IsNaN(tStatistic) || !(df > 0) {
		return math.NaN()
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return clampProbability(2 * tDist.Survival(math.Abs(tStatistic)))
}

// TCritical returns the two-sided critical value of Student's t for the
// given confidence level
func (sd *StatisticalDistributions) TCritical(df, confidenceLevel float64) float64 {
	if !(df > 0) || confidenceLevel <= 0 || confidenceLevel >= 1 {
		return math.NaN()
	}
	alpha := 1.0 - confidenceLevel
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Quantile(1.0 - alpha/2.0)
}

// ChiSquarePValue computes the upper-tail p-value of a chi-square statistic
func (sd *StatisticalDistributions) ChiSquarePValue(chiSquare, df float64) float64 {
	if math.IsNaN(chiSquare) || !(df > 0) {
		return math.NaN()
	}
	if chiSquare <= 0 {
		return 1.0
	}
	chiDist := distuv.ChiSquared{K: df}
	return clampProbability(chiDist.Survival(chiSquare))
}

// CorrelationPValue computes the two-sided p-value of a Pearson correlation
// coefficient through its t transform
func (sd *StatisticalDistributions) CorrelationPValue(correlation float64, sampleSize int) float64 {
	if sampleSize < 3 || math.IsNaN(correlation) {
		return math.NaN()
	}
	if math.Abs(correlation) >= 1 {
		return 0
	}

	df := float64(sampleSize - 2)
	tStatistic := correlation * math.Sqrt(df/(1-correlation*correlation))
	return sd.TTestPValue(tStatistic, df)
}

func clampProbability(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
