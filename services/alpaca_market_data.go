package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"optionscope/database"
	"optionscope/interfaces"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/sirupsen/logrus"
)

// AlpacaMarketData implements interfaces.MarketDataProvider against Alpaca's
// data plane: the official SDK for stock bars and trades, raw HTTP for the
// v1beta1 options endpoints.
type AlpacaMarketData struct {
	stocks    *marketdata.Client
	apiKey    string
	secretKey string
	baseURL   string
	client    *http.Client
	storage   *database.LocalStorage
	logger    *logrus.Logger
}

// NewAlpacaMarketData creates a provider. storage is an optional bar cache;
// pass nil to always hit the API.
func NewAlpacaMarketData(apiKey, secretKey string, storage *database.LocalStorage) *AlpacaMarketData {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &AlpacaMarketData{
		stocks: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: secretKey,
		}),
		apiKey:    apiKey,
		secretKey: secretKey,
		baseURL:   "https://data.alpaca.markets",
		client:    &http.Client{Timeout: 30 * time.Second},
		storage:   storage,
		logger:    logger,
	}
}

// GetSpotPrice returns the latest traded price of the underlying.
func (s *AlpacaMarketData) GetSpotPrice(ctx context.Context, symbol string) (float64, error) {
	trade, err := s.stocks.GetLatestTrade(symbol, marketdata.GetLatestTradeRequest{})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch latest trade for %s: %w", symbol, err)
	}
	if trade.Price <= 0 {
		return 0, fmt.Errorf("no traded price available for %s", symbol)
	}
	return trade.Price, nil
}

// GetHistoricalBars returns daily bars, served from the cache when it still
// covers the requested window.
func (s *AlpacaMarketData) GetHistoricalBars(ctx context.Context, symbol string, start, end time.Time) ([]*interfaces.Bar, error) {
	if cached := s.cachedBars(symbol, start, end); cached != nil {
		return cached, nil
	}

	alpacaBars, err := s.stocks.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     start,
		End:       end,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bars for %s: %w", symbol, err)
	}

	bars := make([]*interfaces.Bar, len(alpacaBars))
	for i, b := range alpacaBars {
		bars[i] = &interfaces.Bar{
			Symbol:    symbol,
			Timestamp: b.Timestamp,
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    int64(b.Volume),
			VWAP:      b.VWAP,
		}
	}

	if s.storage != nil {
		if err := s.storage.SaveBars(bars); err != nil {
			s.logger.WithError(err).WithField("symbol", symbol).Warn("Failed to cache bars")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"symbol": symbol,
		"count":  len(bars),
	}).Debug("Fetched daily bars")
	return bars, nil
}

// cachedBars returns cached bars when the cache covers the window; stale or
// partial coverage falls through to the API.
func (s *AlpacaMarketData) cachedBars(symbol string, start, end time.Time) []*interfaces.Bar {
	if s.storage == nil {
		return nil
	}
	bars, err := s.storage.GetBars(symbol, start, end)
	if err != nil {
		s.logger.WithError(err).WithField("symbol", symbol).Warn("Bar cache read failed")
		return nil
	}
	if len(bars) < 2 {
		return nil
	}
	// Allow a few days of slack at both edges for weekends and holidays.
	if bars[0].Timestamp.After(start.AddDate(0, 0, 7)) {
		return nil
	}
	if bars[len(bars)-1].Timestamp.Before(end.AddDate(0, 0, -4)) {
		return nil
	}
	return bars
}

// contractsResponse mirrors the v1beta1 options contracts payload.
type contractsResponse struct {
	OptionContracts []contractEntry `json:"option_contracts"`
	NextPageToken   string          `json:"next_page_token"`
}

type contractEntry struct {
	Symbol           string  `json:"symbol"`
	UnderlyingSymbol string  `json:"underlying_symbol"`
	ExpirationDate   string  `json:"expiration_date"`
	StrikePrice      float64 `json:"strike_price"`
	Type             string  `json:"type"` // "call" or "put"
	OpenInterest     int64   `json:"open_interest"`
}

// snapshotsResponse mirrors the v1beta1 options snapshots payload.
type snapshotsResponse struct {
	Snapshots map[string]contractSnapshot `json:"snapshots"`
}

type contractSnapshot struct {
	LatestTrade struct {
		Price float64 `json:"p"`
	} `json:"latestTrade"`
	LatestQuote struct {
		BidPrice float64 `json:"bp"`
		AskPrice float64 `json:"ap"`
	} `json:"latestQuote"`
}

// GetExpirations returns the distinct expiration dates with listed
// contracts, ascending.
func (s *AlpacaMarketData) GetExpirations(ctx context.Context, symbol string) ([]time.Time, error) {
	endpoint := fmt.Sprintf("%s/v1beta1/options/contracts?underlying_symbols=%s&limit=1000", s.baseURL, url.QueryEscape(symbol))

	var resp contractsResponse
	if err := s.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch option contracts: %w", err)
	}

	seen := map[string]bool{}
	var expirations []time.Time
	for _, c := range resp.OptionContracts {
		if seen[c.ExpirationDate] {
			continue
		}
		seen[c.ExpirationDate] = true
		exp, err := time.Parse("2006-01-02", c.ExpirationDate)
		if err != nil {
			s.logger.WithField("expiration", c.ExpirationDate).Warn("Skipping unparsable expiration date")
			continue
		}
		expirations = append(expirations, exp)
	}
	sort.Slice(expirations, func(i, j int) bool { return expirations[i].Before(expirations[j]) })

	s.logger.WithFields(logrus.Fields{
		"symbol": symbol,
		"count":  len(expirations),
	}).Debug("Fetched expirations")
	return expirations, nil
}

// GetOptionChain returns every listed contract for one expiration, joined
// with its latest snapshot price. Strikes without a recent trade come back
// with LastPrice 0.
func (s *AlpacaMarketData) GetOptionChain(ctx context.Context, symbol string, expiration time.Time) ([]*interfaces.OptionQuote, error) {
	expDate := expiration.Format("2006-01-02")

	contractsURL := fmt.Sprintf("%s/v1beta1/options/contracts?underlying_symbols=%s&expiration_date=%s&limit=1000",
		s.baseURL, url.QueryEscape(symbol), expDate)
	var contracts contractsResponse
	if err := s.getJSON(ctx, contractsURL, &contracts); err != nil {
		return nil, fmt.Errorf("failed to fetch option contracts: %w", err)
	}

	snapshotsURL := fmt.Sprintf("%s/v1beta1/options/snapshots/%s?expiration_date=%s",
		s.baseURL, url.QueryEscape(symbol), expDate)
	var snapshots snapshotsResponse
	if err := s.getJSON(ctx, snapshotsURL, &snapshots); err != nil {
		return nil, fmt.Errorf("failed to fetch option snapshots: %w", err)
	}

	quotes := make([]*interfaces.OptionQuote, 0, len(contracts.OptionContracts))
	for _, c := range contracts.OptionContracts {
		parsedExp, err := time.Parse("2006-01-02", c.ExpirationDate)
		if err != nil {
			continue
		}
		quote := &interfaces.OptionQuote{
			Symbol:         c.Symbol,
			Underlying:     c.UnderlyingSymbol,
			Type:           c.Type,
			Strike:         c.StrikePrice,
			ExpirationDate: parsedExp,
			OpenInterest:   c.OpenInterest,
		}
		if snap, ok := snapshots.Snapshots[c.Symbol]; ok {
			quote.LastPrice = snap.LatestTrade.Price
			quote.Bid = snap.LatestQuote.BidPrice
			quote.Ask = snap.LatestQuote.AskPrice
		}
		quotes = append(quotes, quote)
	}
	sort.Slice(quotes, func(i, j int) bool { return quotes[i].Strike < quotes[j].Strike })

	s.logger.WithFields(logrus.Fields{
		"symbol":     symbol,
		"expiration": expDate,
		"count":      len(quotes),
	}).Debug("Fetched option chain")
	return quotes, nil
}

func (s *AlpacaMarketData) getJSON(ctx context.Context, endpoint string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("APCA-API-KEY-ID", s.apiKey)
	req.Header.Set("APCA-API-SECRET-KEY", s.secretKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(target)
}
