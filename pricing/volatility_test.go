package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistoricalVolatilityReference(t *testing.T) {
	closes := []float64{100, 102, 101, 105, 103}

	got, err := HistoricalVolatility(closes, DefaultTradingPeriods)
	require.NoError(t, err)
	require.Greater(t, got, 0.0)
	require.InDelta(t, 0.4249, got, 1e-3)

	// Same input, same estimate.
	again, err := HistoricalVolatility(closes, DefaultTradingPeriods)
	require.NoError(t, err)
	require.Equal(t, got, again)
}

func TestHistoricalVolatilityScaleInvariance(t *testing.T) {
	closes := []float64{100, 102, 101, 105, 103, 108, 104}
	scaled := make([]float64, len(closes))
	for i, px := range closes {
		scaled[i] = px * 3.7
	}

	base, err := HistoricalVolatility(closes, DefaultTradingPeriods)
	require.NoError(t, err)
	shifted, err := HistoricalVolatility(scaled, DefaultTradingPeriods)
	require.NoError(t, err)

	// The estimate depends only on relative returns, not price level.
	require.InDelta(t, base, shifted, 1e-12)
}

func TestHistoricalVolatilityErrors(t *testing.T) {
	type testCase struct {
		name   string
		closes []float64
		want   error
	}

	for _, test := range []testCase{
		{name: "EMPTY", closes: nil, want: ErrInsufficientData},
		{name: "SINGLE_CLOSE", closes: []float64{100}, want: ErrInsufficientData},
		{name: "SINGLE_RETURN", closes: []float64{100, 101}, want: ErrInsufficientData},
		{name: "ZERO_PRICE", closes: []float64{100, 0, 101}, want: ErrInvalidData},
		{name: "NEGATIVE_PRICE", closes: []float64{100, -4, 101}, want: ErrInvalidData},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := HistoricalVolatility(test.closes, DefaultTradingPeriods)
			require.ErrorIs(t, err, test.want)
		})
	}

	_, err := HistoricalVolatility([]float64{100, 101, 102}, 0)
	var perr *InvalidParameterError
	require.ErrorAs(t, err, &perr)
}
