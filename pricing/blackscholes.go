package pricing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// OptionType distinguishes call and put contracts.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// stdNormal is the standard normal distribution used for Φ. distuv computes
// the CDF through erfc, which keeps accuracy in the tails for deep ITM/OTM
// strikes.
var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// BlackScholes returns the theoretical price of a European option under the
// Black-Scholes model. tYears is the time to expiry in years; tYears == 0 is
// valid and prices the option at its intrinsic value.
func BlackScholes(spot, strike, tYears, rate, sigma float64, kind OptionType) (float64, error) {
	switch {
	case !(spot > 0):
		return 0, &InvalidParameterError{Param: "spot", Value: spot}
	case !(strike > 0):
		return 0, &InvalidParameterError{Param: "strike", Value: strike}
	case !(sigma > 0):
		return 0, &InvalidParameterError{Param: "volatility", Value: sigma}
	case tYears < 0 || math.IsNaN(tYears):
		return 0, &InvalidParameterError{Param: "time_to_expiry", Value: tYears}
	}
	if kind != Call && kind != Put {
		return 0, fmt.Errorf("unknown option type %q", kind)
	}

	// At expiry the formula below divides by zero; the contract is worth
	// exactly its intrinsic value.
	if tYears == 0 {
		if kind == Call {
			return math.Max(spot-strike, 0), nil
		}
		return math.Max(strike-spot, 0), nil
	}

	sqrtT := math.Sqrt(tYears)
	d1 := (math.Log(spot/strike) + (rate+0.5*sigma*sigma)*tYears) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT
	discount := math.Exp(-rate * tYears)

	if kind == Call {
		return spot*stdNormal.CDF(d1) - strike*discount*stdNormal.CDF(d2), nil
	}
	return strike*discount*stdNormal.CDF(-d2) - spot*stdNormal.CDF(-d1), nil
}
