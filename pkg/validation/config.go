// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"sort"
)

// ValidateExtraPayment checks a single extra payment against the loan term
func ValidateExtraPayment(scenarioName string, period int, amount float64, term int) []string {
	var warnings []string

	if period < 1 || period > term {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' extra payment on period %d is outside the term (1..%d)",
			scenarioName, period, term))
	}

	if amount < 0 {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' extra payment on period %d is negative (%.2f)",
			scenarioName, period, amount))
	} else if amount == 0 {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' extra payment on period %d has no amount",
			scenarioName, period))
	}

	return warnings
}

// ValidateDuplicatePeriods reports periods that receive more than one extra
// payment. Only the last entry for a period is applied.
func ValidateDuplicatePeriods(scenarioName string, payments []ExtraPaymentConfig) []string {
	counts := make(map[int]int)
	for _, payment := range payments {
		counts[payment.Period]++
	}

	var periods []int
	for period, count := range counts {
		if count > 1 {
			periods = append(periods, period)
		}
	}
	sort.Ints(periods)

	var warnings []string
	for _, period := range periods {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' has %d extra payments on period %d, only the last one applies",
			scenarioName, counts[period], period))
	}
	return warnings
}

// ConfigValidator performs comprehensive configuration validation
type ConfigValidator struct {
	Term      int
	Scenarios []ScenarioConfig
}

type ScenarioConfig struct {
	Name            string
	Active          bool
	ReductionPolicy string
	ExtraPayments   []ExtraPaymentConfig
}

type ExtraPaymentConfig struct {
	Period int
	Amount float64
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	if len(cv.Scenarios) > 0 {
		active := 0
		for _, scenario := range cv.Scenarios {
			if scenario.Active {
				active++
			}
		}
		if active == 0 {
			warnings = append(warnings, "No active scenarios, nothing will be computed")
		}
	}

	for _, scenario := range cv.Scenarios {
		if !scenario.Active {
			continue
		}

		for _, payment := range scenario.ExtraPayments {
			warnings = append(warnings, ValidateExtraPayment(scenario.Name, payment.Period, payment.Amount, cv.Term)...)
		}
		warnings = append(warnings, ValidateDuplicatePeriods(scenario.Name, scenario.ExtraPayments)...)

		if scenario.ReductionPolicy != "" && len(scenario.ExtraPayments) == 0 {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' sets a reduction policy but has no extra payments",
				scenario.Name))
		}
	}

	return warnings
}
