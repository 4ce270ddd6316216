package services

import (
	"context"
	"fmt"
	"time"

	"optionscope/interfaces"
	"optionscope/pricing"

	"github.com/sirupsen/logrus"
)

// Analysis statuses. A response always carries one, so an empty table is
// never silent: the client can tell "nothing listed" from "some strikes
// skipped" from a clean run.
const (
	StatusOK      = "ok"
	StatusPartial = "partial"
	StatusNoData  = "no_data"
)

// Contract type filters accepted by Analyze.
const (
	TypeCall = "call"
	TypePut  = "put"
	TypeBoth = "both"
)

// ChainAnalysis is the full payload for one refresh: header data for
// display, the evaluated chain, and anything that was skipped.
type ChainAnalysis struct {
	Symbol       string                  `json:"symbol"`
	Snapshot     pricing.MarketSnapshot  `json:"snapshot"`
	Expiration   string                  `json:"expiration"`
	DaysToExpiry int                     `json:"days_to_expiry"`
	ContractType string                  `json:"contract_type"`
	Status       string                  `json:"status"`
	Results      []pricing.PricingResult `json:"results"`
	Skipped      []pricing.SkippedQuote  `json:"skipped,omitempty"`
	GeneratedAt  time.Time               `json:"generated_at"`
}

// ChainAnalysisService runs one synchronous evaluation pass per request:
// fetch spot and history, estimate volatility, price the chain, compare.
// It holds no per-request state, so concurrent requests are independent.
type ChainAnalysisService struct {
	provider  interfaces.MarketDataProvider
	evaluator *pricing.ChainEvaluator
	logger    *logrus.Logger
}

// NewChainAnalysisService creates an analysis service on top of a market
// data provider.
func NewChainAnalysisService(provider interfaces.MarketDataProvider) *ChainAnalysisService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &ChainAnalysisService{
		provider:  provider,
		evaluator: pricing.NewChainEvaluator(),
		logger:    logger,
	}
}

// Expirations lists the available option expiration dates for a symbol.
func (s *ChainAnalysisService) Expirations(ctx context.Context, symbol string) ([]time.Time, error) {
	return s.provider.GetExpirations(ctx, symbol)
}

// Analyze runs one full evaluation pass. Errors from snapshot construction
// (spot, history, volatility) are fatal and returned; per-strike pricing
// failures are reported through the Skipped list instead.
func (s *ChainAnalysisService) Analyze(ctx context.Context, symbol string, expiration time.Time, rate float64, contractType string) (*ChainAnalysis, error) {
	if contractType != TypeCall && contractType != TypePut && contractType != TypeBoth {
		return nil, fmt.Errorf("unknown contract type %q", contractType)
	}

	now := time.Now()

	spot, err := s.provider.GetSpotPrice(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get spot price: %w", err)
	}

	// One year of daily closes, like the original dashboard's volatility
	// window.
	bars, err := s.provider.GetHistoricalBars(ctx, symbol, now.AddDate(-1, 0, 0), now)
	if err != nil {
		return nil, fmt.Errorf("failed to get price history: %w", err)
	}
	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close
	}

	sigma, err := pricing.HistoricalVolatility(closes, pricing.DefaultTradingPeriods)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate volatility: %w", err)
	}

	snap := pricing.MarketSnapshot{
		Spot:         spot,
		Rate:         rate,
		Volatility:   sigma,
		TimeToExpiry: pricing.YearsToExpiry(now, expiration),
	}

	analysis := &ChainAnalysis{
		Symbol:       symbol,
		Snapshot:     snap,
		Expiration:   expiration.Format("2006-01-02"),
		DaysToExpiry: int(expiration.Sub(now).Hours() / 24),
		ContractType: contractType,
		GeneratedAt:  now,
	}

	chain, err := s.provider.GetOptionChain(ctx, symbol, expiration)
	if err != nil {
		return nil, fmt.Errorf("failed to get option chain: %w", err)
	}

	quotes := filterQuotes(chain, contractType)
	if len(quotes) == 0 {
		analysis.Status = StatusNoData
		analysis.Results = []pricing.PricingResult{}
		s.logger.WithFields(logrus.Fields{
			"symbol":     symbol,
			"expiration": analysis.Expiration,
		}).Warn("No contracts listed for expiration")
		return analysis, nil
	}

	report, err := s.evaluator.Evaluate(snap, quotes)
	if err != nil {
		return nil, fmt.Errorf("chain evaluation failed: %w", err)
	}

	analysis.Results = report.Results
	analysis.Skipped = report.Skipped
	analysis.Status = StatusOK
	if len(report.Skipped) > 0 {
		analysis.Status = StatusPartial
	}

	s.logger.WithFields(logrus.Fields{
		"symbol":     symbol,
		"expiration": analysis.Expiration,
		"spot":       snap.Spot,
		"volatility": snap.Volatility,
		"results":    len(analysis.Results),
		"skipped":    len(analysis.Skipped),
		"status":     analysis.Status,
	}).Info("Chain analysis complete")

	return analysis, nil
}

// filterQuotes converts provider quotes into pricing quotes, keeping only
// the requested contract type.
func filterQuotes(chain []*interfaces.OptionQuote, contractType string) []pricing.OptionQuote {
	quotes := make([]pricing.OptionQuote, 0, len(chain))
	for _, q := range chain {
		if contractType != TypeBoth && q.Type != contractType {
			continue
		}
		quotes = append(quotes, pricing.OptionQuote{
			Symbol:      q.Symbol,
			Strike:      q.Strike,
			Kind:        pricing.OptionType(q.Type),
			MarketPrice: q.LastPrice,
		})
	}
	return quotes
}
