// Package loans implements the French amortization method: the fixed
// installment formula and the period-by-period schedule generator.
package loans

import (
	"fmt"
	"math"
)

// FixedInstallment returns the constant installment that repays principal over
// numPeriods at periodRate. No rounding is applied.
func FixedInstallment(principal, periodRate float64, numPeriods int) (float64, error) {
	if numPeriods < 1 {
		return 0, fmt.Errorf("number of periods must be at least 1, got %d: %w", numPeriods, ErrInvalidInput)
	}

	if periodRate == 0 {
		return principal / float64(numPeriods), nil
	}

	// 1 - (1+r)^-n through Expm1/Log1p, which stays finite for long terms and
	// exact for small rates.
	discount := -math.Expm1(-float64(numPeriods) * math.Log1p(periodRate))
	installment := principal * periodRate / discount
	if math.IsNaN(installment) || math.IsInf(installment, 0) {
		return 0, fmt.Errorf("installment for principal %g at rate %g over %d periods is not finite: %w",
			principal, periodRate, numPeriods, ErrInvalidInput)
	}
	return installment, nil
}
