package verdict

import (
	"fmt"
	"math"

	"bankinfer/domain/core"
)

// Alpha is the significance threshold for every test
const Alpha = 0.05

// Decision is the outcome of comparing a p-value against Alpha
type Decision string

const (
	DecisionReject       Decision = "reject H0"
	DecisionFailToReject Decision = "fail to reject H0"
)

// Statement holds the hypotheses of one test and the conclusion for each decision
type Statement struct {
	Null        string
	Alternative string
	Reject      string
	Retain      string
}

// Verdict represents the judgment on one hypothesis test
type Verdict struct {
	Decision    Decision `json:"decision"`
	Rejected    bool     `json:"rejected"`
	PValue      float64  `json:"p_value"`
	Alpha       float64  `json:"alpha"`
	Null        string   `json:"null_hypothesis"`
	Alternative string   `json:"alternative_hypothesis"`
	Conclusion  string   `json:"conclusion"`
}

// Decide labels the test "reject H0" when p < Alpha and "fail to reject H0"
// otherwise. A p-value outside [0,1] is never turned into a verdict.
func Decide(pValue float64, s Statement) (Verdict, error) {
	if math.IsNaN(pValue) || pValue < 0 || pValue > 1 {
		return Verdict{}, core.NewNoUsableDataError(fmt.Sprintf("p-value %v is not a probability", pValue))
	}

	v := Verdict{
		PValue:      pValue,
		Alpha:       Alpha,
		Null:        s.Null,
		Alternative: s.Alternative,
	}
	if pValue < Alpha {
		v.Decision = DecisionReject
		v.Rejected = true
		v.Conclusion = fmt.Sprintf("%s (p = %.4g).", s.Reject, pValue)
	} else {
		v.Decision = DecisionFailToReject
		v.Conclusion = fmt.Sprintf("%s (p = %.4g).", s.Retain, pValue)
	}
	return v, nil
}

// TwoProportions describes the two-proportion z-test between levels a and b
func TwoProportions(a, b string) Statement {
	return Statement{
		Null:        fmt.Sprintf("p(%s) = p(%s)", a, b),
		Alternative: fmt.Sprintf("p(%s) != p(%s)", a, b),
		Reject:      fmt.Sprintf("Reject H0: the conversion rate differs between %s and %s", a, b),
		Retain:      fmt.Sprintf("Fail to reject H0: no evidence of a difference in conversion between %s and %s", a, b),
	}
}

// Independence describes the chi-square test between a grouping column and the outcome
func Independence(column, outcome string) Statement {
	return Statement{
		Null:        fmt.Sprintf("%s and %s are independent", column, outcome),
		Alternative: fmt.Sprintf("%s and %s are associated", column, outcome),
		Reject:      fmt.Sprintf("Reject H0: evidence of association between %s and %s", column, outcome),
		Retain:      fmt.Sprintf("Fail to reject H0: no evidence of association between %s and %s", column, outcome),
	}
}

// TwoMeans describes Welch's t-test on column between two outcome groups
func TwoMeans(column, groupA, groupB string) Statement {
	return Statement{
		Null:        fmt.Sprintf("mean(%s | %s) = mean(%s | %s)", column, groupA, column, groupB),
		Alternative: fmt.Sprintf("mean(%s | %s) != mean(%s | %s)", column, groupA, column, groupB),
		Reject:      fmt.Sprintf("Reject H0: the mean of %s differs between %s and %s", column, groupA, groupB),
		Retain:      fmt.Sprintf("Fail to reject H0: no evidence of a difference in %s between %s and %s", column, groupA, groupB),
	}
}
