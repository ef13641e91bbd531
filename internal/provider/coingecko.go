package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"market-mood/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoProvider fetches the Bitcoin price history (EUR) from the
// CoinGecko free API. market_chart samples finer than daily for short
// windows, so points are collapsed to one per calendar day (last sample
// wins) before use.
type CoinGeckoProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewCoinGeckoProvider creates a provider with built-in rate limiting.
// The free tier allows roughly 8 requests per minute.
func NewCoinGeckoProvider(tracer trace.Tracer) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		client:  &http.Client{Timeout: requestTimeout},
		baseURL: coingeckoBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(8, 7500*time.Millisecond),
	}
}

func (p *CoinGeckoProvider) Kind() domain.SeriesKind { return domain.KindPrice }

// Fetch retrieves the last 180 days of Bitcoin prices in EUR.
func (p *CoinGeckoProvider) Fetch(ctx context.Context) (domain.Series, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.fetch-price-history")
	defer span.End()

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	url := fmt.Sprintf("%s/coins/bitcoin/market_chart?vs_currency=eur&days=%d",
		p.baseURL, lookbackDays)

	body, err := fetchJSON(ctx, p.client, url)
	if err != nil {
		return nil, fmt.Errorf("fetch bitcoin prices: %w", err)
	}

	var raw struct {
		Prices [][]float64 `json:"prices"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse bitcoin prices: %w", err)
	}

	// One point per calendar day, the last sample of the day winning.
	byDay := make(map[time.Time]float64, len(raw.Prices))
	for _, pt := range raw.Prices {
		if len(pt) < 2 {
			continue
		}
		day := time.UnixMilli(int64(pt[0])).UTC().Truncate(24 * time.Hour)
		byDay[day] = pt[1]
	}

	series := make(domain.Series, 0, len(byDay))
	for day, price := range byDay {
		series = append(series, domain.Point{Date: day, Value: price})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })

	return series, nil
}
