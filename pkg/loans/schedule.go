package loans

import (
	"fmt"
	"time"

	"github.com/iwvelando/amortization/pkg/constants"
	"github.com/iwvelando/amortization/pkg/datetime"
	"github.com/iwvelando/amortization/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// State is the value carried from one period to the next.
type State struct {
	Balance     float64
	Installment float64
	Date        time.Time
	// Term is the number of periods the current installment was computed over.
	Term int
}

// PeriodInput is what a single period contributes besides the carried state.
type PeriodInput struct {
	Period int
	Extra  float64
}

// Options configures a ScheduleGenerator.
type Options struct {
	// StartDate is the date of the first period. A zero value means today.
	StartDate time.Time
	// Increment separates consecutive period dates. A zero value means 30 days.
	Increment datetime.Increment
	// StopWhenPaid ends the table at the first period whose closing balance is
	// zero instead of emitting trailing zero-balance rows.
	StopWhenPaid bool
}

// ScheduleGenerator produces amortization schedules. It holds no per-loan
// state, so one generator may serve independent loans concurrently.
type ScheduleGenerator struct {
	logger  *zap.Logger
	options Options
}

// NewScheduleGenerator creates a new generator instance
func NewScheduleGenerator(logger *zap.Logger, options Options) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if options.StartDate.IsZero() {
		options.StartDate = datetime.Today()
	}
	options.Increment = options.Increment.Normalize()
	return &ScheduleGenerator{logger: logger, options: options}
}

// InitialState returns the state before period 1.
func (g *ScheduleGenerator) InitialState(params Parameters) (State, error) {
	installment, err := FixedInstallment(params.Principal, params.PeriodRate, params.NumPeriods)
	if err != nil {
		return State{}, err
	}
	return State{
		Balance:     params.Principal,
		Installment: installment,
		Date:        g.options.StartDate,
		Term:        params.NumPeriods,
	}, nil
}

// Step applies one period to state and returns the next state together with
// the record for the period. It does not modify its arguments.
func (g *ScheduleGenerator) Step(params Parameters, policy ReductionPolicy, state State, in PeriodInput) (State, PeriodRecord, error) {
	next := state

	interest := state.Balance * params.PeriodRate
	scheduledPrincipal := state.Installment - interest
	next.Balance = state.Balance - (scheduledPrincipal + in.Extra)
	if !mathutil.IsFinite(interest) || !mathutil.IsFinite(next.Balance) {
		return state, PeriodRecord{}, fmt.Errorf("period %d: balance is not finite: %w", in.Period, ErrInvalidInput)
	}

	if next.Balance < 0 {
		g.logger.Debug(fmt.Sprintf("period %d: overpayment of %.2f discarded", in.Period, -next.Balance),
			zap.String("op", "loans.Step"),
		)
		next.Balance = 0
	}

	record := PeriodRecord{
		Period:             in.Period,
		Date:               state.Date,
		Installment:        mathutil.Round(state.Installment),
		Interest:           mathutil.Round(interest),
		ScheduledPrincipal: mathutil.Round(scheduledPrincipal),
		ExtraPrincipal:     mathutil.Round(in.Extra),
		Balance:            mathutil.Round(next.Balance),
	}

	if in.Extra > 0 && policy == ReduceTerm {
		remaining := params.NumPeriods - in.Period
		if remaining > 0 {
			installment, err := FixedInstallment(next.Balance, params.PeriodRate, remaining)
			if err != nil {
				return state, PeriodRecord{}, err
			}
			g.logger.Debug(fmt.Sprintf("period %d: installment recomputed from %.2f to %.2f over %d periods",
				in.Period, state.Installment, installment, remaining),
				zap.String("op", "loans.Step"),
			)
			next.Installment = installment
			next.Term = remaining
		} else {
			g.logger.Debug(fmt.Sprintf("period %d: extra payment on the final period, no recomputation", in.Period),
				zap.String("op", "loans.Step"),
			)
		}
	}

	next.Date = g.options.Increment.Next(state.Date)
	return next, record, nil
}

// Generate builds the full schedule for a loan. Nothing is returned on error.
func (g *ScheduleGenerator) Generate(params Parameters, extras ExtraPayments, policy ReductionPolicy) (*Schedule, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if err := extras.Validate(params.NumPeriods); err != nil {
		return nil, err
	}
	if err := g.options.Increment.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}

	state, err := g.InitialState(params)
	if err != nil {
		return nil, err
	}

	records := make([]PeriodRecord, 0, params.NumPeriods)
	for period := 1; period <= params.NumPeriods; period++ {
		var record PeriodRecord
		state, record, err = g.Step(params, policy, state, PeriodInput{Period: period, Extra: extras.Amount(period)})
		if err != nil {
			return nil, err
		}
		records = append(records, record)

		if g.options.StopWhenPaid && state.Balance <= constants.PaidOffTolerance {
			if period < params.NumPeriods {
				g.logger.Debug(fmt.Sprintf("loan repaid at period %d of %d, stopping", period, params.NumPeriods),
					zap.String("op", "loans.Generate"),
				)
			}
			break
		}
	}

	g.logger.Debug("schedule generated",
		zap.String("op", "loans.Generate"),
		zap.Int("periods", len(records)),
		zap.String("policy", string(policy)),
	)

	return &Schedule{
		Parameters: params,
		Policy:     policy,
		Records:    records,
		Summary:    Summarize(records),
	}, nil
}

// Summarize totals the rounded record fields. Sums are accumulated in decimal
// so the totals are exact in cents.
func Summarize(records []PeriodRecord) Summary {
	interest := decimal.Zero
	principal := decimal.Zero
	extra := decimal.Zero
	for _, record := range records {
		interest = interest.Add(decimal.NewFromFloat(record.Interest))
		principal = principal.Add(decimal.NewFromFloat(record.ScheduledPrincipal))
		extra = extra.Add(decimal.NewFromFloat(record.ExtraPrincipal))
	}

	summary := Summary{
		Periods:                 len(records),
		TotalInterest:           interest.InexactFloat64(),
		TotalScheduledPrincipal: principal.InexactFloat64(),
		TotalExtra:              extra.InexactFloat64(),
		TotalPaid:               interest.Add(principal).Add(extra).InexactFloat64(),
	}
	if len(records) > 0 {
		summary.FinalBalance = records[len(records)-1].Balance
	}
	return summary
}
