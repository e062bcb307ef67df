package rates

import (
	"fmt"
	"strings"
)

// Type says how a quoted rate is expressed.
type Type string

const (
	// Nominal is a stated annual rate before compounding.
	Nominal Type = "nominal"
	// Effective is an effective annual rate.
	Effective Type = "effective"
	// Periodic is already a rate per payment period.
	Periodic Type = "periodic"
)

// Timing says whether interest is charged at the start or the end of a period.
type Timing string

const (
	// InArrears charges interest at the end of the period.
	InArrears Timing = "in-arrears"
	// InAdvance charges interest at the start of the period.
	InAdvance Timing = "in-advance"
)

// Frequency is the payment frequency of a loan.
type Frequency string

const (
	Monthly    Frequency = "monthly"
	Bimonthly  Frequency = "bimonthly"
	Quarterly  Frequency = "quarterly"
	Semiannual Frequency = "semiannual"
	Annual     Frequency = "annual"
)

var paymentsPerYear = map[Frequency]int{
	Monthly:    12,
	Bimonthly:  6,
	Quarterly:  4,
	Semiannual: 2,
	Annual:     1,
}

// PaymentsPerYear returns the number of installments per year, or 0 for an
// unknown frequency.
func (f Frequency) PaymentsPerYear() int {
	return paymentsPerYear[f]
}

// ParseType accepts the English and Spanish spellings of a rate type.
func ParseType(value string) (Type, error) {
	switch normalize(value) {
	case "nominal":
		return Nominal, nil
	case "effective", "efectiva", "efectivo":
		return Effective, nil
	case "periodic", "period", "periodica":
		return Periodic, nil
	}
	return "", fmt.Errorf("unsupported rate type %q: %w", value, ErrConfiguration)
}

// ParseTiming accepts the English and Spanish spellings of a rate timing.
// An empty value means in-arrears.
func ParseTiming(value string) (Timing, error) {
	switch normalize(value) {
	case "", "in-arrears", "arrears", "vencida":
		return InArrears, nil
	case "in-advance", "advance", "anticipada":
		return InAdvance, nil
	}
	return "", fmt.Errorf("unsupported rate timing %q: %w", value, ErrConfiguration)
}

// ParseFrequency accepts a frequency name or a number of payments per year.
// An empty value means monthly.
func ParseFrequency(value string) (Frequency, error) {
	switch normalize(value) {
	case "", "monthly", "mensual", "12":
		return Monthly, nil
	case "bimonthly", "bimestral", "6":
		return Bimonthly, nil
	case "quarterly", "trimestral", "4":
		return Quarterly, nil
	case "semiannual", "semestral", "2":
		return Semiannual, nil
	case "annual", "anual", "1":
		return Annual, nil
	}
	return "", fmt.Errorf("unsupported payment frequency %q: %w", value, ErrConfiguration)
}

// FrequencyFromPaymentsPerYear maps a count of payments per year to a Frequency.
func FrequencyFromPaymentsPerYear(n int) (Frequency, error) {
	for frequency, count := range paymentsPerYear {
		if count == n {
			return frequency, nil
		}
	}
	return "", fmt.Errorf("unsupported number of payments per year %d: %w", n, ErrConfiguration)
}

func normalize(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.ReplaceAll(v, "_", "-")
	return strings.ReplaceAll(v, "í", "i")
}

// Quote is a rate as stated by a lender.
type Quote struct {
	Value               float64 // fraction, e.g. 0.24 for 24%
	Type                Type
	Timing              Timing
	CompoundingsPerYear int // nominal rates only
}

// PeriodRate resolves a quote into the in-arrears rate per payment period for
// the given frequency. In-advance quotes are converted after the period rate
// has been derived.
func PeriodRate(quote Quote, frequency Frequency) (float64, error) {
	payments := frequency.PaymentsPerYear()
	if payments == 0 {
		return 0, fmt.Errorf("unsupported payment frequency %q: %w", frequency, ErrConfiguration)
	}

	var rate float64
	var err error
	switch quote.Type {
	case Nominal:
		var effective float64
		effective, err = NominalToEffectiveAnnual(quote.Value, quote.CompoundingsPerYear)
		if err != nil {
			return 0, err
		}
		rate, err = EffectiveAnnualToPeriodRate(effective, payments)
	case Effective:
		rate, err = EffectiveAnnualToPeriodRate(quote.Value, payments)
	case Periodic:
		rate = quote.Value
	default:
		return 0, fmt.Errorf("unsupported rate type %q: %w", quote.Type, ErrConfiguration)
	}
	if err != nil {
		return 0, err
	}

	switch quote.Timing {
	case InArrears, "":
		return rate, nil
	case InAdvance:
		return InAdvanceToInArrears(rate)
	}
	return 0, fmt.Errorf("unsupported rate timing %q: %w", quote.Timing, ErrConfiguration)
}
