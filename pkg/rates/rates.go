// Package rates converts interest rates between nominal annual, effective
// annual, per-period, in-advance and in-arrears representations.
package rates

import (
	"fmt"
	"math"
)

// NominalToEffectiveAnnual converts a nominal annual rate compounded
// compoundingsPerYear times into the equivalent effective annual rate.
func NominalToEffectiveAnnual(nominalRate float64, compoundingsPerYear int) (float64, error) {
	if compoundingsPerYear <= 0 {
		return 0, fmt.Errorf("compoundings per year must be positive, got %d: %w", compoundingsPerYear, ErrInvalidInput)
	}
	m := float64(compoundingsPerYear)
	return math.Pow(1+nominalRate/m, m) - 1, nil
}

// EffectiveAnnualToPeriodRate returns the rate per payment period equivalent
// to the given effective annual rate.
func EffectiveAnnualToPeriodRate(effectiveAnnualRate float64, paymentsPerYear int) (float64, error) {
	if paymentsPerYear <= 0 {
		return 0, fmt.Errorf("payments per year must be positive, got %d: %w", paymentsPerYear, ErrInvalidInput)
	}
	return math.Pow(1+effectiveAnnualRate, 1/float64(paymentsPerYear)) - 1, nil
}

// InAdvanceToInArrears converts a rate charged at the start of the period into
// the equivalent rate charged at the end of it. The input must satisfy
// 0 <= rate < 1.
func InAdvanceToInArrears(rateInAdvance float64) (float64, error) {
	switch {
	case rateInAdvance == 1:
		return 0, fmt.Errorf("in-advance rate of 1: %w", ErrDivisionByZero)
	case rateInAdvance > 1:
		return 0, fmt.Errorf("in-advance rate %g yields a negative in-arrears rate: %w", rateInAdvance, ErrInvalidInput)
	case rateInAdvance < 0:
		return 0, fmt.Errorf("in-advance rate %g is negative: %w", rateInAdvance, ErrInvalidInput)
	}
	return rateInAdvance / (1 - rateInAdvance), nil
}

// InArrearsToInAdvance is the inverse of InAdvanceToInArrears.
func InArrearsToInAdvance(rateInArrears float64) (float64, error) {
	if rateInArrears <= -1 {
		return 0, fmt.Errorf("in-arrears rate %g must be greater than -1: %w", rateInArrears, ErrInvalidInput)
	}
	return rateInArrears / (1 + rateInArrears), nil
}
