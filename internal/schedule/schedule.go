// Package schedule defines the data structures related to a computed loan
// scenario and includes functions for computing them from a configuration.
package schedule

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/iwvelando/amortization/internal/config"
	"github.com/iwvelando/amortization/pkg/constants"
	"github.com/iwvelando/amortization/pkg/datetime"
	"github.com/iwvelando/amortization/pkg/format"
	"github.com/iwvelando/amortization/pkg/loans"
	"github.com/iwvelando/amortization/pkg/mathutil"
	"go.uber.org/zap"
)

// Result holds all information related to a specific scenario run.
type Result struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Policy     loans.ReductionPolicy `json:"policy"`
	PeriodRate float64               `json:"periodRate"`
	Schedule   *loans.Schedule       `json:"schedule"`
	Notes      map[int][]string      `json:"notes,omitempty"`
}

// GetSchedules computes the schedule of every active scenario. Scenarios are
// independent and computed concurrently; results keep the configured order.
func GetSchedules(logger *zap.Logger, conf config.Configuration) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	params, err := conf.Loan.Parameters()
	if err != nil {
		return nil, err
	}

	options, err := conf.Loan.GeneratorOptions(datetime.Today())
	if err != nil {
		return nil, err
	}

	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "schedule.GetSchedules"),
			)
		}
	}

	scenarios := conf.ActiveScenarios()
	results := make([]Result, len(scenarios))
	errs := make([]error, len(scenarios))
	generator := loans.NewScheduleGenerator(logger, options)

	var wg sync.WaitGroup
	for i := range scenarios {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = run(generator, params, scenarios[i])
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenarios[i].Name, err)
		}
	}

	for _, result := range results {
		logger.Debug(fmt.Sprintf("computed scenario %s", result.Name),
			zap.String("op", "schedule.GetSchedules"),
			zap.Int("periods", result.Schedule.Summary.Periods),
			zap.Float64("totalInterest", result.Schedule.Summary.TotalInterest),
		)
	}

	return results, nil
}

func run(generator *loans.ScheduleGenerator, params loans.Parameters, scenario config.Scenario) (Result, error) {
	policy, err := scenario.Policy()
	if err != nil {
		return Result{}, err
	}

	sched, err := generator.Generate(params, scenario.Extras(), policy)
	if err != nil {
		return Result{}, err
	}

	return Result{
		ID:         uuid.NewString(),
		Name:       scenario.Name,
		Policy:     policy,
		PeriodRate: params.PeriodRate,
		Schedule:   sched,
		Notes:      Annotate(sched),
	}, nil
}

// Annotate lists the notable events of a schedule by period: extra payments,
// installment changes and the payoff.
func Annotate(sched *loans.Schedule) map[int][]string {
	notes := make(map[int][]string)
	records := sched.Records

	for i, record := range records {
		if record.ExtraPrincipal > 0 {
			notes[record.Period] = append(notes[record.Period],
				fmt.Sprintf("extra payment of %s", format.Currency(record.ExtraPrincipal)))
		}
		if i > 0 && !mathutil.WithinTolerance(record.Installment, records[i-1].Installment, constants.CurrencyTolerance/2) {
			notes[record.Period] = append(notes[record.Period],
				fmt.Sprintf("installment changed to %s", format.Currency(record.Installment)))
		}
		if record.Balance == 0 && (i == 0 || records[i-1].Balance > 0) && record.Period < sched.Parameters.NumPeriods {
			notes[record.Period] = append(notes[record.Period],
				fmt.Sprintf("loan repaid %d periods early", sched.Parameters.NumPeriods-record.Period))
		}
	}

	return notes
}
