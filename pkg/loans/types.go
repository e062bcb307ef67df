package loans

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/iwvelando/amortization/pkg/mathutil"
	"github.com/iwvelando/amortization/pkg/rates"
)

// ReductionPolicy governs what happens after an extra payment.
type ReductionPolicy string

const (
	// ReduceTerm recomputes the installment over the remaining periods using
	// the balance left after the extra payment.
	ReduceTerm ReductionPolicy = "reduce-term"

	// ReduceInstallment keeps the installment unchanged, so the extra payment
	// pays the loan off earlier.
	ReduceInstallment ReductionPolicy = "reduce-installment"
)

// ParseReductionPolicy accepts the English names and the Spanish "plazo" and
// "cuota". An empty value means ReduceInstallment.
func ParseReductionPolicy(value string) (ReductionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "reduce-installment", "installment", "cuota":
		return ReduceInstallment, nil
	case "reduce-term", "term", "plazo":
		return ReduceTerm, nil
	}
	return "", fmt.Errorf("unsupported reduction policy %q: %w", value, ErrConfiguration)
}

// Validate reports whether the policy is one of the known values.
func (p ReductionPolicy) Validate() error {
	if p != ReduceTerm && p != ReduceInstallment {
		return fmt.Errorf("unsupported reduction policy %q: %w", p, ErrConfiguration)
	}
	return nil
}

// Parameters describes the loan being amortized.
type Parameters struct {
	Principal  float64
	PeriodRate float64 // in-arrears rate per payment period, as a fraction
	NumPeriods int
	Frequency  rates.Frequency // informational once PeriodRate is known
	Timing     rates.Timing    // informational once PeriodRate is known
}

// Validate checks the caller contract of the schedule generator.
func (p Parameters) Validate() error {
	if !mathutil.IsFinite(p.Principal) || p.Principal <= 0 {
		return fmt.Errorf("principal must be positive, got %g: %w", p.Principal, ErrInvalidInput)
	}
	if p.NumPeriods < 1 {
		return fmt.Errorf("number of periods must be at least 1, got %d: %w", p.NumPeriods, ErrInvalidInput)
	}
	if !mathutil.IsFinite(p.PeriodRate) || p.PeriodRate < -1 {
		return fmt.Errorf("period rate must be at least -1, got %g: %w", p.PeriodRate, ErrInvalidInput)
	}
	if p.Frequency != "" && p.Frequency.PaymentsPerYear() == 0 {
		return fmt.Errorf("unsupported payment frequency %q: %w", p.Frequency, ErrConfiguration)
	}
	if p.Timing != "" && p.Timing != rates.InArrears && p.Timing != rates.InAdvance {
		return fmt.Errorf("unsupported rate timing %q: %w", p.Timing, ErrConfiguration)
	}
	return nil
}

// ExtraPayments maps a 1-based period index to the extra principal paid on it.
type ExtraPayments map[int]float64

// Amount returns the extra payment for period, or 0 when there is none.
func (e ExtraPayments) Amount(period int) float64 {
	return e[period]
}

// Set records an extra payment, replacing any earlier amount for the period.
func (e ExtraPayments) Set(period int, amount float64) {
	e[period] = amount
}

// Periods returns the periods carrying an extra payment in ascending order.
func (e ExtraPayments) Periods() []int {
	periods := make([]int, 0, len(e))
	for period := range e {
		periods = append(periods, period)
	}
	sort.Ints(periods)
	return periods
}

// Total returns the sum of all extra payments.
func (e ExtraPayments) Total() float64 {
	total := 0.0
	for _, amount := range e {
		total += amount
	}
	return total
}

// Validate checks that every period lies within 1..numPeriods and every amount
// is a non-negative finite number.
func (e ExtraPayments) Validate(numPeriods int) error {
	for _, period := range e.Periods() {
		amount := e[period]
		if period < 1 || period > numPeriods {
			return fmt.Errorf("extra payment period %d outside 1..%d: %w", period, numPeriods, ErrInvalidInput)
		}
		if !mathutil.IsFinite(amount) || amount < 0 {
			return fmt.Errorf("extra payment for period %d must be non-negative, got %g: %w", period, amount, ErrInvalidInput)
		}
	}
	return nil
}

// PeriodRecord is one row of the amortization table. Money fields are rounded
// to cents.
type PeriodRecord struct {
	Period             int       `json:"period"`
	Date               time.Time `json:"date"`
	Installment        float64   `json:"installment"`
	Interest           float64   `json:"interest"`
	ScheduledPrincipal float64   `json:"scheduledPrincipal"`
	ExtraPrincipal     float64   `json:"extraPrincipal"`
	Balance            float64   `json:"balance"`
}

// Summary holds totals derived from the records of a schedule.
type Summary struct {
	Periods                 int     `json:"periods"`
	TotalInterest           float64 `json:"totalInterest"`
	TotalScheduledPrincipal float64 `json:"totalScheduledPrincipal"`
	TotalExtra              float64 `json:"totalExtra"`
	TotalPaid               float64 `json:"totalPaid"`
	FinalBalance            float64 `json:"finalBalance"`
}

// Schedule is the finished amortization table. It is not modified after
// Generate returns it.
type Schedule struct {
	Parameters Parameters      `json:"-"`
	Policy     ReductionPolicy `json:"reductionPolicy"`
	Records    []PeriodRecord  `json:"records"`
	Summary    Summary         `json:"summary"`
}
