package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlackScholesReferenceValues(t *testing.T) {
	// Standard textbook case: spot=100, strike=100, T=1y, r=5%, sigma=20%.
	call, err := BlackScholes(100, 100, 1, 0.05, 0.2, Call)
	require.NoError(t, err)
	require.InDelta(t, 10.45, call, 0.01)

	put, err := BlackScholes(100, 100, 1, 0.05, 0.2, Put)
	require.NoError(t, err)
	require.InDelta(t, 5.57, put, 0.01)
}

func TestBlackScholesPutCallParity(t *testing.T) {
	type testCase struct {
		name                       string
		spot, strike, tYears, rate float64
		sigma                      float64
	}

	for _, test := range []testCase{
		{name: "ATM", spot: 100, strike: 100, tYears: 1, rate: 0.05, sigma: 0.2},
		{name: "ITM_CALL", spot: 120, strike: 90, tYears: 0.5, rate: 0.03, sigma: 0.35},
		{name: "OTM_CALL", spot: 80, strike: 130, tYears: 2, rate: 0.01, sigma: 0.15},
		{name: "NEGATIVE_RATE", spot: 50, strike: 55, tYears: 0.25, rate: -0.01, sigma: 0.4},
		{name: "SHORT_DATED", spot: 250, strike: 245, tYears: 7.0 / 365.0, rate: 0.0415, sigma: 0.28},
	} {
		t.Run(test.name, func(t *testing.T) {
			call, err := BlackScholes(test.spot, test.strike, test.tYears, test.rate, test.sigma, Call)
			require.NoError(t, err)
			put, err := BlackScholes(test.spot, test.strike, test.tYears, test.rate, test.sigma, Put)
			require.NoError(t, err)

			lhs := call - put
			rhs := test.spot - test.strike*math.Exp(-test.rate*test.tYears)
			require.InEpsilon(t, rhs, lhs, 1e-6)
		})
	}
}

func TestBlackScholesIntrinsicAtExpiry(t *testing.T) {
	call, err := BlackScholes(110, 100, 0, 0.05, 0.2, Call)
	require.NoError(t, err)
	require.Equal(t, 10.0, call)

	put, err := BlackScholes(110, 100, 0, 0.05, 0.2, Put)
	require.NoError(t, err)
	require.Equal(t, 0.0, put)

	put, err = BlackScholes(90, 100, 0, 0.05, 0.2, Put)
	require.NoError(t, err)
	require.Equal(t, 10.0, put)
}

func TestBlackScholesCallMonotonicInVolatility(t *testing.T) {
	prev := 0.0
	for _, sigma := range []float64{0.05, 0.1, 0.2, 0.4, 0.8, 1.6} {
		call, err := BlackScholes(100, 105, 0.5, 0.05, sigma, Call)
		require.NoError(t, err)
		require.GreaterOrEqual(t, call, prev, "call price must not decrease as volatility rises (sigma=%v)", sigma)
		prev = call
	}
}

func TestBlackScholesDeepTails(t *testing.T) {
	// Deep OTM call: the erfc-based CDF must not go negative or blow up.
	call, err := BlackScholes(100, 300, 0.1, 0.05, 0.2, Call)
	require.NoError(t, err)
	require.GreaterOrEqual(t, call, 0.0)
	require.Less(t, call, 1e-12)

	// Deep ITM call converges to forward intrinsic value.
	call, err = BlackScholes(300, 100, 0.1, 0.05, 0.2, Call)
	require.NoError(t, err)
	require.InDelta(t, 300-100*math.Exp(-0.05*0.1), call, 1e-6)
}

func TestBlackScholesInvalidParameters(t *testing.T) {
	type testCase struct {
		name                       string
		spot, strike, tYears, rate float64
		sigma                      float64
		kind                       OptionType
		param                      string
	}

	for _, test := range []testCase{
		{name: "ZERO_SPOT", spot: 0, strike: 100, tYears: 1, rate: 0.05, sigma: 0.2, kind: Call, param: "spot"},
		{name: "NEGATIVE_SPOT", spot: -10, strike: 100, tYears: 1, rate: 0.05, sigma: 0.2, kind: Call, param: "spot"},
		{name: "ZERO_STRIKE", spot: 100, strike: 0, tYears: 1, rate: 0.05, sigma: 0.2, kind: Put, param: "strike"},
		{name: "NEGATIVE_STRIKE", spot: 100, strike: -5, tYears: 1, rate: 0.05, sigma: 0.2, kind: Put, param: "strike"},
		{name: "ZERO_SIGMA", spot: 100, strike: 100, tYears: 1, rate: 0.05, sigma: 0, kind: Call, param: "volatility"},
		{name: "NEGATIVE_TIME", spot: 100, strike: 100, tYears: -0.1, rate: 0.05, sigma: 0.2, kind: Call, param: "time_to_expiry"},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := BlackScholes(test.spot, test.strike, test.tYears, test.rate, test.sigma, test.kind)
			var perr *InvalidParameterError
			require.ErrorAs(t, err, &perr)
			require.Equal(t, test.param, perr.Param)
		})
	}

	_, err := BlackScholes(100, 100, 1, 0.05, 0.2, OptionType("straddle"))
	require.Error(t, err)
}
