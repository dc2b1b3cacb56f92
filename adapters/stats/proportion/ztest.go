package proportion

import (
	"math"

	"bankinfer/domain/core"
	"bankinfer/domain/stats"
	"bankinfer/domain/verdict"
)

// diffCritical is the critical value for the 95% interval of p̂A − p̂B
const diffCritical = 1.96

// TwoProportionZTest compares the rates of A and B with the unpooled
// standard error √(p̂A(1−p̂A)/nA + p̂B(1−p̂B)/nB). Swapping A and B negates z
// and leaves the p-value unchanged.
func (c *Calculator) TwoProportionZTest(a, b stats.Counts) (*stats.TwoProportionTest, error) {
	if a.Trials < 1 {
		return nil, core.NewGroupSizeError(a.Label, a.Trials, 1)
	}
	if b.Trials < 1 {
		return nil, core.NewGroupSizeError(b.Label, b.Trials, 1)
	}

	estA, err := c.Estimate(a)
	if err != nil {
		return nil, err
	}
	estB, err := c.Estimate(b)
	if err != nil {
		return nil, err
	}

	pA, pB := estA.Proportion, estB.Proportion
	se := math.Sqrt(pA*(1-pA)/float64(a.Trials) + pB*(1-pB)/float64(b.Trials))
	if se == 0 || math.IsNaN(se) {
		return nil, core.NewNoUsableDataError("both groups have a constant outcome, the standard error is zero")
	}

	diff := pA - pB
	z := diff / se
	p := c.dist.ZTestPValue(z)

	v, err := verdict.Decide(p, verdict.TwoProportions(a.Label, b.Label))
	if err != nil {
		return nil, err
	}

	return &stats.TwoProportionTest{
		Test:       stats.TestTwoProportionZ,
		A:          estA,
		B:          estB,
		Difference: diff,
		StdErr:     se,
		DifferenceInterval: stats.Interval{
			Lower: diff - diffCritical*se,
			Upper: diff + diffCritical*se,
			Level: stats.ConfidenceLevel,
		},
		Z:       z,
		PValue:  p,
		Verdict: v,
	}, nil
}
