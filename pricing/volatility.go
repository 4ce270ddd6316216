package pricing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// DefaultTradingPeriods is the conventional number of trading days per year.
const DefaultTradingPeriods = 252

// HistoricalVolatility estimates annualized volatility from a chronological
// series of closing prices: the Bessel-corrected sample standard deviation of
// log returns, scaled by the square root of periodsPerYear.
//
// The sample standard deviation needs at least two returns, so at least three
// closes are required; shorter input returns ErrInsufficientData.
func HistoricalVolatility(closes []float64, periodsPerYear int) (float64, error) {
	if periodsPerYear <= 0 {
		return 0, &InvalidParameterError{Param: "periods_per_year", Value: float64(periodsPerYear)}
	}
	if len(closes) < 2 {
		return 0, fmt.Errorf("%w: need at least 2 closes, got %d", ErrInsufficientData, len(closes))
	}
	for i, px := range closes {
		if !(px > 0) {
			return 0, fmt.Errorf("%w: close[%d]=%v", ErrInvalidData, i, px)
		}
	}

	returns := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		returns[i-1] = math.Log(closes[i] / closes[i-1])
	}
	if len(returns) < 2 {
		return 0, fmt.Errorf("%w: a single return has no sample variance", ErrInsufficientData)
	}

	return stat.StdDev(returns, nil) * math.Sqrt(float64(periodsPerYear)), nil
}
