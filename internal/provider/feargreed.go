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

const fearGreedBaseURL = "https://api.alternative.me"

// FearGreedProvider fetches the crypto fear & greed index history from
// alternative.me. The API returns rows newest-first; they are reversed to
// ascending order here.
type FearGreedProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
}

func NewFearGreedProvider(tracer trace.Tracer) *FearGreedProvider {
	return &FearGreedProvider{
		client:  &http.Client{Timeout: requestTimeout},
		baseURL: fearGreedBaseURL,
		tracer:  tracer,
	}
}

func (p *FearGreedProvider) Kind() domain.SeriesKind { return domain.KindFearGreed }

// Fetch retrieves the last 180 daily index values, oldest first.
func (p *FearGreedProvider) Fetch(ctx context.Context) (domain.Series, error) {
	ctx, span := p.tracer.Start(ctx, "feargreed.fetch-history")
	defer span.End()

	url := fmt.Sprintf("%s/fng/?limit=%d&format=json", strings.TrimRight(p.baseURL, "/"), lookbackDays)

	body, err := fetchJSON(ctx, p.client, url)
	if err != nil {
		return nil, fmt.Errorf("fetch fear & greed history: %w", err)
	}

	var payload struct {
		Data []struct {
			Value     string `json:"value"`
			Timestamp string `json:"timestamp"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse fear & greed history: %w", err)
	}

	series := make(domain.Series, 0, len(payload.Data))
	for i := len(payload.Data) - 1; i >= 0; i-- {
		row := payload.Data[i]
		value, err := strconv.Atoi(strings.TrimSpace(row.Value))
		if err != nil {
			continue
		}
		ts, err := strconv.ParseInt(strings.TrimSpace(row.Timestamp), 10, 64)
		if err != nil {
			continue
		}
		if ts > 1_000_000_000_000 {
			ts = ts / 1000
		}
		series = append(series, domain.Point{
			Date:  time.Unix(ts, 0).UTC(),
			Value: float64(value),
		})
	}

	return series, nil
}
