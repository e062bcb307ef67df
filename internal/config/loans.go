package config

import (
	"fmt"
	"time"

	"github.com/iwvelando/amortization/pkg/constants"
	"github.com/iwvelando/amortization/pkg/datetime"
	"github.com/iwvelando/amortization/pkg/loans"
	"github.com/iwvelando/amortization/pkg/mathutil"
	"github.com/iwvelando/amortization/pkg/rates"
)

// Loan indicates a loan and its parameters.
type Loan struct {
	Name                string  `yaml:"name,omitempty"`
	Principal           float64 `yaml:"principal"`
	InterestRate        float64 `yaml:"interestRate"`                  // percent
	RateType            string  `yaml:"rateType,omitempty"`            // nominal, effective, periodic
	RateTiming          string  `yaml:"rateTiming,omitempty"`          // in-arrears, in-advance
	CompoundingsPerYear int     `yaml:"compoundingsPerYear,omitempty"` // nominal rates only
	Frequency           string  `yaml:"frequency,omitempty"`
	Term                int     `yaml:"term"` // periods
	StartDate           string  `yaml:"startDate,omitempty"`
	PeriodDays          int     `yaml:"periodDays,omitempty"`
	CalendarMonths      int     `yaml:"calendarMonths,omitempty"`
	StopWhenPaid        bool    `yaml:"stopWhenPaid,omitempty"`
}

// Quote interprets the configured rate. A missing rate type means nominal and
// a nominal rate without compoundings is compounded monthly.
func (loan *Loan) Quote() (rates.Quote, error) {
	rateType := rates.Nominal
	if loan.RateType != "" {
		parsed, err := rates.ParseType(loan.RateType)
		if err != nil {
			return rates.Quote{}, err
		}
		rateType = parsed
	}

	timing, err := rates.ParseTiming(loan.RateTiming)
	if err != nil {
		return rates.Quote{}, err
	}

	compoundings := loan.CompoundingsPerYear
	if compoundings == 0 {
		compoundings = constants.DefaultCompoundingsPerYear
	}

	return rates.Quote{
		Value:               mathutil.FromPercentage(loan.InterestRate),
		Type:                rateType,
		Timing:              timing,
		CompoundingsPerYear: compoundings,
	}, nil
}

// Parameters resolves the loan into the inputs of the schedule generator.
func (loan *Loan) Parameters() (loans.Parameters, error) {
	frequency, err := rates.ParseFrequency(loan.Frequency)
	if err != nil {
		return loans.Parameters{}, err
	}

	quote, err := loan.Quote()
	if err != nil {
		return loans.Parameters{}, err
	}

	periodRate, err := rates.PeriodRate(quote, frequency)
	if err != nil {
		return loans.Parameters{}, fmt.Errorf("loan %q: %w", loan.Name, err)
	}

	params := loans.Parameters{
		Principal:  loan.Principal,
		PeriodRate: periodRate,
		NumPeriods: loan.Term,
		Frequency:  frequency,
		Timing:     quote.Timing,
	}
	if err := params.Validate(); err != nil {
		return loans.Parameters{}, fmt.Errorf("loan %q: %w", loan.Name, err)
	}
	return params, nil
}

// GeneratorOptions returns the schedule generator options, using now when no
// start date is configured. CalendarMonths takes precedence over PeriodDays.
func (loan *Loan) GeneratorOptions(now time.Time) (loans.Options, error) {
	startDate, err := datetime.ParseDate(loan.StartDate, now)
	if err != nil {
		return loans.Options{}, fmt.Errorf("loan %q: %v: %w", loan.Name, err, loans.ErrInvalidInput)
	}

	increment := datetime.Increment{Days: loan.PeriodDays}
	if loan.CalendarMonths != 0 {
		increment = datetime.CalendarMonths(loan.CalendarMonths)
	}
	if err := increment.Validate(); err != nil {
		return loans.Options{}, fmt.Errorf("loan %q: %v: %w", loan.Name, err, loans.ErrInvalidInput)
	}

	return loans.Options{
		StartDate:    startDate,
		Increment:    increment,
		StopWhenPaid: loan.StopWhenPaid,
	}, nil
}

// Extras collects the scenario's extra payments. A later entry for the same
// period replaces an earlier one.
func (scenario *Scenario) Extras() loans.ExtraPayments {
	extras := make(loans.ExtraPayments, len(scenario.ExtraPayments))
	for _, payment := range scenario.ExtraPayments {
		extras.Set(payment.Period, payment.Amount)
	}
	return extras
}

// Policy parses the scenario's reduction policy.
func (scenario *Scenario) Policy() (loans.ReductionPolicy, error) {
	return loans.ParseReductionPolicy(scenario.ReductionPolicy)
}
