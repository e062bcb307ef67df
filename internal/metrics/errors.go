package metrics

import (
	"errors"

	"github.com/iwvelando/amortization/pkg/loans"
)

// ErrorType classifies err for the error_type label.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, loans.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, loans.ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, loans.ErrConfiguration):
		return "configuration"
	default:
		return "internal"
	}
}
