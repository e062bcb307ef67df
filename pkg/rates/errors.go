package rates

import "errors"

// Error kinds returned by the rate conversions. Callers match them with errors.Is.
var (
	// ErrInvalidInput marks an argument outside the domain of a conversion.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDivisionByZero marks a conversion whose formula would divide by zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrConfiguration marks an unsupported enum value such as an unknown frequency.
	ErrConfiguration = errors.New("configuration error")
)
