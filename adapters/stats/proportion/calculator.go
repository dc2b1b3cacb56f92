package proportion

import (
	"bankinfer/adapters/stats/distributions"
	"bankinfer/domain/stats"
)

// GlobalLabel names the whole-sample group
const GlobalLabel = "overall"

// Calculator computes proportion estimates and tests under one policy
type Calculator struct {
	dist          *distributions.StatisticalDistributions
	maxCategories int
	yates         bool
	negativeLabel string
	positiveLabel string
}

// NewCalculator creates a calculator from the inference policy
func NewCalculator(policy stats.Policy) *Calculator {
	return &Calculator{
		dist:          distributions.NewDistributions(),
		maxCategories: policy.MaxCategories,
		yates:         policy.YatesCorrection,
		negativeLabel: policy.NegativeLabel,
		positiveLabel: policy.PositiveLabel,
	}
}

// MaxCategories returns the level cap for grouping columns
func (c *Calculator) MaxCategories() int { return c.maxCategories }
