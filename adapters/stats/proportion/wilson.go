package proportion

import (
	"math"

	"bankinfer/adapters/stats/target"
	"bankinfer/domain/core"
	"bankinfer/domain/stats"
)

// wilsonZ is the 97.5th percentile of the standard normal
const wilsonZ = 1.959964

// WilsonInterval returns the 95% Wilson score interval for k successes in n
// trials, clamped to [0,1]
func WilsonInterval(k, n int) (stats.Interval, error) {
	if n < 1 {
		return stats.Interval{}, core.NewGroupSizeError("sample", n, 1)
	}
	if k < 0 || k > n {
		return stats.Interval{}, core.NewNoUsableDataError("successes outside [0, trials]")
	}

	nf, kf := float64(n), float64(k)
	z2 := wilsonZ * wilsonZ
	denom := nf + z2
	center := (kf + z2/2) / denom
	half := wilsonZ * math.Sqrt(kf*(nf-kf)/nf+z2/4) / denom

	return stats.Interval{
		Lower: math.Max(0, center-half),
		Upper: math.Min(1, center+half),
		Level: stats.ConfidenceLevel,
	}, nil
}

// Estimate returns p̂ = k/n with its Wilson interval
func (c *Calculator) Estimate(counts stats.Counts) (stats.ProportionEstimate, error) {
	if counts.Trials < 1 {
		return stats.ProportionEstimate{}, core.NewGroupSizeError(counts.Label, counts.Trials, 1)
	}
	ci, err := WilsonInterval(counts.Successes, counts.Trials)
	if err != nil {
		return stats.ProportionEstimate{}, err
	}
	return stats.ProportionEstimate{
		Group:      counts.Label,
		Successes:  counts.Successes,
		Trials:     counts.Trials,
		Proportion: float64(counts.Successes) / float64(counts.Trials),
		Interval:   ci,
	}, nil
}

// Global estimates the outcome rate over every row
func (c *Calculator) Global(outcome *target.Outcome) (stats.ProportionEstimate, error) {
	return c.Estimate(stats.Counts{
		Label:     GlobalLabel,
		Successes: outcome.Successes(),
		Trials:    outcome.Len(),
	})
}
