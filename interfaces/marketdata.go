package interfaces

import (
	"context"
	"time"
)

// MarketDataProvider defines the market data boundary for the analyzer. The
// pricing core never talks to the network; everything it needs comes through
// this interface.
type MarketDataProvider interface {
	// GetSpotPrice returns the latest traded price of the underlying.
	GetSpotPrice(ctx context.Context, symbol string) (float64, error)

	// GetHistoricalBars returns daily bars in chronological order.
	GetHistoricalBars(ctx context.Context, symbol string, start, end time.Time) ([]*Bar, error)

	// GetExpirations returns the available option expiration dates, ascending.
	GetExpirations(ctx context.Context, symbol string) ([]time.Time, error)

	// GetOptionChain returns every listed contract for one expiration.
	GetOptionChain(ctx context.Context, symbol string, expiration time.Time) ([]*OptionQuote, error)
}

// Bar is one daily price bar.
type Bar struct {
	Symbol    string
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
	VWAP      float64
}

// OptionQuote is a listed contract with its latest observed market price.
// LastPrice may be zero for illiquid strikes.
type OptionQuote struct {
	Symbol         string
	Underlying     string
	Type           string // "call" or "put"
	Strike         float64
	ExpirationDate time.Time
	LastPrice      float64
	Bid            float64
	Ask            float64
	OpenInterest   int64
}
