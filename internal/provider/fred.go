package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"market-mood/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const fredBaseURL = "https://api.stlouisfed.org"

// FREDProvider fetches VIX daily closes (series VIXCLS) from the FRED
// observations API. FRED reports holidays as "." which are dropped rather
// than coerced to zero.
type FREDProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
	now     func() time.Time
}

// NewFREDProvider creates a provider with the credential passed explicitly.
// An empty key is not rejected here; it surfaces as an upstream 400.
func NewFREDProvider(apiKey string, tracer trace.Tracer) *FREDProvider {
	return &FREDProvider{
		client:  &http.Client{Timeout: requestTimeout},
		baseURL: fredBaseURL,
		apiKey:  apiKey,
		tracer:  tracer,
		now:     time.Now,
	}
}

func (p *FREDProvider) Kind() domain.SeriesKind { return domain.KindVolatility }

// Fetch retrieves VIXCLS observations from 180 days back through present.
// The observation start is clamped so it can never land in the future.
func (p *FREDProvider) Fetch(ctx context.Context) (domain.Series, error) {
	ctx, span := p.tracer.Start(ctx, "fred.fetch-vix")
	defer span.End()

	today := p.now().UTC()
	start := today.AddDate(0, 0, -lookbackDays)
	if start.After(today) {
		start = today
	}

	url := fmt.Sprintf("%s/fred/series/observations?series_id=VIXCLS&api_key=%s&file_type=json&observation_start=%s",
		p.baseURL, p.apiKey, start.Format("2006-01-02"))

	body, err := fetchJSON(ctx, p.client, url)
	if err != nil {
		return nil, fmt.Errorf("fetch VIX observations: %w", err)
	}

	var raw struct {
		Observations []struct {
			Date  string `json:"date"`
			Value string `json:"value"`
		} `json:"observations"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse VIX observations: %w", err)
	}

	series := make(domain.Series, 0, len(raw.Observations))
	for _, obs := range raw.Observations {
		close, err := strconv.ParseFloat(strings.TrimSpace(obs.Value), 64)
		if err != nil {
			continue // holidays come back as "."
		}
		date, err := time.Parse("2006-01-02", obs.Date)
		if err != nil {
			continue
		}
		series = append(series, domain.Point{Date: date.UTC(), Value: close})
	}

	return series, nil
}
