package pricing

import (
	"errors"
	"fmt"
)

// Volatility estimation errors.
var (
	// ErrInsufficientData means the price history is too short to form a
	// sample of returns.
	ErrInsufficientData = errors.New("insufficient price history")

	// ErrInvalidData means the price history contains a non-positive close,
	// for which a log return is undefined.
	ErrInvalidData = errors.New("invalid price history")
)

// InvalidParameterError reports a pricing input outside the model's domain
// (non-positive spot, strike or volatility, or a negative time to expiry).
type InvalidParameterError struct {
	Param string
	Value float64
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v", e.Param, e.Value)
}
