// Package prompt builds a loan configuration by asking questions on a terminal.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/amortization/internal/config"
	"github.com/iwvelando/amortization/pkg/loans"
	"github.com/iwvelando/amortization/pkg/mathutil"
	"github.com/iwvelando/amortization/pkg/rates"
	"go.uber.org/zap"
)

// ScenarioName names the scenario built from the answers.
const ScenarioName = "interactive"

// Prompter asks questions on out and reads the answers from in, one per line.
type Prompter struct {
	in     *bufio.Scanner
	out    io.Writer
	logger *zap.Logger
}

// NewPrompter creates a new prompter instance
func NewPrompter(logger *zap.Logger, in io.Reader, out io.Writer) *Prompter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prompter{in: bufio.NewScanner(in), out: out, logger: logger}
}

// Configure replaces the loan and scenarios of conf with the answers. Invalid
// answers are reported and asked again; running out of input is an error.
func (p *Prompter) Configure(conf *config.Configuration) error {
	var loan config.Loan
	var err error

	p.say("=== LOAN SIMULATOR - AMORTIZATION SCHEDULE ===\n\n")

	if loan.Principal, err = p.askFloat("Loan amount ($): ", positive); err != nil {
		return err
	}
	if loan.InterestRate, err = p.askFloat("Interest rate, comma or point decimals (%): ", nonNegative); err != nil {
		return err
	}
	if loan.RateType, err = p.askChoice("Rate type (nominal/effective/periodic): ", func(v string) error {
		_, err := rates.ParseType(v)
		return err
	}); err != nil {
		return err
	}
	if loan.RateTiming, err = p.askChoice("Rate timing (in-arrears/in-advance): ", func(v string) error {
		_, err := rates.ParseTiming(v)
		return err
	}); err != nil {
		return err
	}

	if rateType, _ := rates.ParseType(loan.RateType); rateType == rates.Nominal {
		if loan.CompoundingsPerYear, err = p.askInt("Compoundings per year (e.g. 12 for monthly): ", positiveInt); err != nil {
			return err
		}
	}

	if loan.Frequency, err = p.askChoice("Payments per year (12 monthly, 4 quarterly, etc.): ", func(v string) error {
		_, err := rates.ParseFrequency(v)
		return err
	}); err != nil {
		return err
	}
	if loan.Term, err = p.askInt("Term in periods: ", positiveInt); err != nil {
		return err
	}

	scenario := config.Scenario{Name: ScenarioName, Active: true}

	more, err := p.askYesNo("\nAdd extra payments? (y/n): ")
	if err != nil {
		return err
	}
	for more {
		var payment config.ExtraPayment
		term := loan.Term
		if payment.Period, err = p.askInt("Period of the extra payment: ", func(n int) error {
			if n < 1 || n > term {
				return fmt.Errorf("the period must be between 1 and %d", term)
			}
			return nil
		}); err != nil {
			return err
		}
		if payment.Amount, err = p.askFloat("Amount of the extra payment ($): ", positive); err != nil {
			return err
		}
		scenario.ExtraPayments = append(scenario.ExtraPayments, payment)

		if more, err = p.askYesNo("Another extra payment? (y/n): "); err != nil {
			return err
		}
	}

	// The policy only matters once there is an extra payment.
	if len(scenario.ExtraPayments) > 0 {
		if scenario.ReductionPolicy, err = p.askChoice("\nAfter an extra payment, reduce the 'term' or the 'installment'? [installment]: ", func(v string) error {
			_, err := loans.ParseReductionPolicy(v)
			return err
		}); err != nil {
			return err
		}
	}

	p.logger.Debug("interactive configuration complete",
		zap.String("op", "prompt.Configure"),
		zap.Int("extraPayments", len(scenario.ExtraPayments)),
	)

	conf.Loan = loan
	conf.Scenarios = []config.Scenario{scenario}
	return nil
}

func (p *Prompter) say(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

func (p *Prompter) readLine(question string) (string, error) {
	p.say("%s", question)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("no answer to %q: %w", strings.TrimSpace(question), io.ErrUnexpectedEOF)
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *Prompter) askFloat(question string, check func(float64) error) (float64, error) {
	for {
		answer, err := p.readLine(question)
		if err != nil {
			return 0, err
		}
		value, err := ParseDecimal(answer)
		if err == nil {
			err = check(value)
		}
		if err == nil {
			return value, nil
		}
		p.say("Invalid input: %v. Use digits with a point or comma decimal separator (e.g. 3.5). Try again.\n", err)
	}
}

func (p *Prompter) askInt(question string, check func(int) error) (int, error) {
	for {
		answer, err := p.readLine(question)
		if err != nil {
			return 0, err
		}
		value, err := strconv.Atoi(answer)
		if err == nil {
			err = check(value)
		}
		if err == nil {
			return value, nil
		}
		p.say("Invalid input: %v. It must be a whole number. Try again.\n", err)
	}
}

func (p *Prompter) askChoice(question string, check func(string) error) (string, error) {
	for {
		answer, err := p.readLine(question)
		if err != nil {
			return "", err
		}
		if err := check(answer); err != nil {
			p.say("Invalid input: %v. Try again.\n", err)
			continue
		}
		return answer, nil
	}
}

func (p *Prompter) askYesNo(question string) (bool, error) {
	answer, err := p.readLine(question)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "s", "si", "sí":
		return true, nil
	}
	return false, nil
}

// ParseDecimal parses a number written with either a point or a comma as the
// decimal separator.
func ParseDecimal(value string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(strings.TrimSpace(value), ",", ".", 1), 64)
}

func positive(v float64) error {
	if !mathutil.IsFinite(v) || v <= 0 {
		return fmt.Errorf("the value must be greater than zero")
	}
	return nil
}

func nonNegative(v float64) error {
	if !mathutil.IsFinite(v) || v < 0 {
		return fmt.Errorf("the value must not be negative")
	}
	return nil
}

func positiveInt(n int) error {
	if n < 1 {
		return fmt.Errorf("the value must be at least 1")
	}
	return nil
}
