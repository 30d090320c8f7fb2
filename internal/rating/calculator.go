// Package rating computes the weighted composite score a review receives
// when it is finalized. It is pure: callers load the four inputs, the
// package only does arithmetic.
package rating

import "github.com/shopspring/decimal"

// Composite weights. They must sum to 1.0.
var (
	weightSelf     = decimal.RequireFromString("0.40")
	weightFeedback = decimal.RequireFromString("0.30")
	weightL3       = decimal.RequireFromString("0.20")
	weightKRA      = decimal.RequireFromString("0.10")
)

// neutralDefault substitutes for inputs that are not yet available, so a
// review can still be finalized before every source has reported. Three is
// the midpoint of the 1-5 scale.
var neutralDefault = decimal.NewFromInt(3)

// Inputs are the four rated sources on a 1-5 scale. A nil field means the
// source has not produced a score yet and the neutral default applies.
type Inputs struct {
	SelfAssessment  *decimal.Decimal
	FeedbackAverage *decimal.Decimal
	L3Manager       *decimal.Decimal
	KRAAchievement  *decimal.Decimal
}

// Compute returns the weighted composite rounded to one decimal place.
func Compute(in Inputs) decimal.Decimal {
	total := orDefault(in.SelfAssessment).Mul(weightSelf).
		Add(orDefault(in.FeedbackAverage).Mul(weightFeedback)).
		Add(orDefault(in.L3Manager).Mul(weightL3)).
		Add(orDefault(in.KRAAchievement).Mul(weightKRA))

	return total.Round(1)
}

func orDefault(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return neutralDefault
	}
	return *v
}
