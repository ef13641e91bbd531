package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"market-mood/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const twelveDataBaseURL = "https://api.twelvedata.com"

// equityProxySymbol is the ETF whose close stands in for the MSCI World index.
const equityProxySymbol = "VEA"

// TwelveDataProvider fetches daily closes for the equity proxy ETF. Twelve
// Data reports quota and auth errors in-band with HTTP 200, so a response
// missing the values key is treated as a fetch failure.
type TwelveDataProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
}

func NewTwelveDataProvider(apiKey string, tracer trace.Tracer) *TwelveDataProvider {
	return &TwelveDataProvider{
		client:  &http.Client{Timeout: requestTimeout},
		baseURL: twelveDataBaseURL,
		apiKey:  apiKey,
		tracer:  tracer,
	}
}

func (p *TwelveDataProvider) Kind() domain.SeriesKind { return domain.KindEquity }

// Fetch retrieves up to 180 of the most recent daily closes for VEA.
func (p *TwelveDataProvider) Fetch(ctx context.Context) (domain.Series, error) {
	ctx, span := p.tracer.Start(ctx, "twelvedata.fetch-equity-proxy")
	defer span.End()

	url := fmt.Sprintf("%s/time_series?symbol=%s&interval=1day&outputsize=%d&apikey=%s",
		p.baseURL, equityProxySymbol, lookbackDays, p.apiKey)

	body, err := fetchJSON(ctx, p.client, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s time series: %w", equityProxySymbol, err)
	}

	var raw struct {
		Values []struct {
			Datetime string `json:"datetime"`
			Close    string `json:"close"`
		} `json:"values"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse %s time series: %w", equityProxySymbol, err)
	}
	if raw.Values == nil {
		return nil, fmt.Errorf("no %s data in response", equityProxySymbol)
	}

	series := make(domain.Series, 0, len(raw.Values))
	for _, row := range raw.Values {
		close, err := strconv.ParseFloat(strings.TrimSpace(row.Close), 64)
		if err != nil {
			continue
		}
		date, err := time.Parse("2006-01-02", row.Datetime)
		if err != nil {
			continue
		}
		series = append(series, domain.Point{Date: date.UTC(), Value: close})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })

	return series, nil
}
