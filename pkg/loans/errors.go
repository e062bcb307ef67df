package loans

import "github.com/iwvelando/amortization/pkg/rates"

// Error kinds shared with the rates package so a single errors.Is check works
// for any failure of the calculation core.
var (
	ErrInvalidInput   = rates.ErrInvalidInput
	ErrDivisionByZero = rates.ErrDivisionByZero
	ErrConfiguration  = rates.ErrConfiguration
)
