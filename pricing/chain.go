package pricing

import (
	"math"
	"time"
)

// Moneyness classifies a strike relative to the spot price.
type Moneyness string

const (
	ITM Moneyness = "ITM"
	ATM Moneyness = "ATM"
	OTM Moneyness = "OTM"
)

// DefaultATMTolerance is the relative band around spot treated as
// at-the-money (0.1% of spot), so float comparisons don't miss ATM strikes.
const DefaultATMTolerance = 0.001

// MarketSnapshot fixes the market inputs for one evaluation pass. It is
// built fresh per refresh and never mutated afterwards.
type MarketSnapshot struct {
	Spot         float64 `json:"spot"`
	Rate         float64 `json:"rate"`
	Volatility   float64 `json:"volatility"`
	TimeToExpiry float64 `json:"time_to_expiry"`
}

// OptionQuote is one strike observed in the market chain.
type OptionQuote struct {
	Symbol      string     `json:"symbol"`
	Strike      float64    `json:"strike"`
	Kind        OptionType `json:"kind"`
	MarketPrice float64    `json:"market_price"`
}

// PricingResult joins the model price with the observed quote.
// Diff is market minus model: positive means the market prices the option
// above the model.
type PricingResult struct {
	Symbol         string     `json:"symbol"`
	Strike         float64    `json:"strike"`
	Kind           OptionType `json:"kind"`
	ModelPrice     float64    `json:"model_price"`
	MarketPrice    float64    `json:"market_price"`
	Diff           float64    `json:"diff"`
	Moneyness      Moneyness  `json:"moneyness"`
	HasMarketPrice bool       `json:"has_market_price"`
}

// SkippedQuote records a quote the evaluator dropped instead of aborting the
// whole chain.
type SkippedQuote struct {
	Index  int     `json:"index"`
	Symbol string  `json:"symbol"`
	Strike float64 `json:"strike"`
	Reason string  `json:"reason"`
}

// ChainReport is the outcome of evaluating one chain: results for every
// well-formed quote, in input order, plus the quotes that were skipped.
type ChainReport struct {
	Results []PricingResult `json:"results"`
	Skipped []SkippedQuote  `json:"skipped,omitempty"`
}

// ChainEvaluator prices every strike in a chain against one MarketSnapshot.
type ChainEvaluator struct {
	ATMTolerance float64
}

// NewChainEvaluator returns an evaluator with the default ATM tolerance.
func NewChainEvaluator() *ChainEvaluator {
	return &ChainEvaluator{ATMTolerance: DefaultATMTolerance}
}

// Evaluate prices each quote with the snapshot's market inputs. A quote that
// fails to price (e.g. a corrupt strike) is recorded in Skipped and does not
// abort the pass. Invalid snapshot-level inputs are fatal and return an
// error with no report.
func (e *ChainEvaluator) Evaluate(snap MarketSnapshot, quotes []OptionQuote) (*ChainReport, error) {
	switch {
	case !(snap.Spot > 0):
		return nil, &InvalidParameterError{Param: "spot", Value: snap.Spot}
	case !(snap.Volatility > 0):
		return nil, &InvalidParameterError{Param: "volatility", Value: snap.Volatility}
	case snap.TimeToExpiry < 0 || math.IsNaN(snap.TimeToExpiry):
		return nil, &InvalidParameterError{Param: "time_to_expiry", Value: snap.TimeToExpiry}
	}

	report := &ChainReport{Results: make([]PricingResult, 0, len(quotes))}
	for i, q := range quotes {
		model, err := BlackScholes(snap.Spot, q.Strike, snap.TimeToExpiry, snap.Rate, snap.Volatility, q.Kind)
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedQuote{
				Index:  i,
				Symbol: q.Symbol,
				Strike: q.Strike,
				Reason: err.Error(),
			})
			continue
		}
		report.Results = append(report.Results, PricingResult{
			Symbol:         q.Symbol,
			Strike:         q.Strike,
			Kind:           q.Kind,
			ModelPrice:     model,
			MarketPrice:    q.MarketPrice,
			Diff:           q.MarketPrice - model,
			Moneyness:      e.classify(q.Strike, snap.Spot, q.Kind),
			HasMarketPrice: q.MarketPrice > 0,
		})
	}
	return report, nil
}

func (e *ChainEvaluator) classify(strike, spot float64, kind OptionType) Moneyness {
	if math.Abs(strike-spot) <= e.ATMTolerance*spot {
		return ATM
	}
	itm := strike < spot
	if kind == Put {
		itm = strike > spot
	}
	if itm {
		return ITM
	}
	return OTM
}

// EvaluateChain evaluates quotes with the default ATM tolerance.
func EvaluateChain(snap MarketSnapshot, quotes []OptionQuote) (*ChainReport, error) {
	return NewChainEvaluator().Evaluate(snap, quotes)
}

// YearsToExpiry converts an expiration date to a year fraction using
// calendar days over 365. Expirations in the past clamp to 0, which prices
// at intrinsic value.
func YearsToExpiry(now, expiry time.Time) float64 {
	days := expiry.Sub(now).Hours() / 24
	if days < 0 {
		return 0
	}
	return days / 365.0
}
