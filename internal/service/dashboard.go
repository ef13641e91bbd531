package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"market-mood/internal/cache"
	"market-mood/internal/domain"
	"market-mood/internal/provider"
	"market-mood/internal/sentiment"

	"go.opentelemetry.io/otel/trace"
)

// Display window bounds for the day slider.
const (
	MinDays     = 7
	MaxDays     = 180
	DefaultDays = 180
)

// DefaultCacheTTL matches the upstream refresh cadence of the slowest feed.
const DefaultCacheTTL = 12 * time.Hour

// DashboardService owns the fetch -> cache -> classify pipeline. Each series
// is refreshed at most once per TTL; a failed fetch degrades that series to
// empty for the current render and is retried on the next cache miss.
type DashboardService struct {
	tracer    trace.Tracer
	providers map[domain.SeriesKind]provider.SeriesProvider
	store     cache.Store
	ttl       time.Duration
	now       func() time.Time
}

func NewDashboardService(
	tracer trace.Tracer,
	store cache.Store,
	ttl time.Duration,
	providers ...provider.SeriesProvider,
) *DashboardService {
	byKind := make(map[domain.SeriesKind]provider.SeriesProvider, len(providers))
	for _, p := range providers {
		byKind[p.Kind()] = p
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &DashboardService{
		tracer:    tracer,
		providers: byKind,
		store:     store,
		ttl:       ttl,
		now:       time.Now,
	}
}

// GetSeries returns one series, from cache when fresh, fetching otherwise.
// Fetch failures are never cached so the next render retries.
func (s *DashboardService) GetSeries(ctx context.Context, kind domain.SeriesKind) domain.FetchResult {
	ctx, span := s.tracer.Start(ctx, "dashboard-service.get-series")
	defer span.End()

	result := domain.FetchResult{Kind: kind, Series: domain.Series{}}

	if cached, ok := s.readCache(ctx, kind); ok {
		result.Series = cached
		return result
	}

	p, ok := s.providers[kind]
	if !ok {
		return result
	}

	series, err := p.Fetch(ctx)
	if err != nil {
		result.Err = err
		log.Printf("%s", result.Warning())
		return result
	}
	if series == nil {
		series = domain.Series{}
	}
	result.Series = series
	s.writeCache(ctx, kind, series)
	return result
}

// BuildSnapshot assembles one dashboard render: the four series fetched
// sequentially, filtered to the requested day window, plus the sentiment
// readings. days is clamped to [MinDays, MaxDays].
func (s *DashboardService) BuildSnapshot(ctx context.Context, days int) domain.Snapshot {
	ctx, span := s.tracer.Start(ctx, "dashboard-service.build-snapshot")
	defer span.End()

	days = ClampDays(days)
	cutoff := s.now().AddDate(0, 0, -days)

	snapshot := domain.Snapshot{
		Days:      days,
		FetchedAt: s.now().UTC(),
		Results:   make(map[domain.SeriesKind]domain.FetchResult, len(domain.Kinds)),
		Warnings:  []string{},
	}

	for _, kind := range domain.Kinds {
		result := s.GetSeries(ctx, kind)
		if result.Failed() {
			snapshot.Warnings = append(snapshot.Warnings, result.Warning())
		}

		// Score and delta come from the unfiltered index history so a
		// narrow window cannot hide the latest readings.
		if kind == domain.KindFearGreed {
			snapshot.Score = result.Series.Score()
			snapshot.Delta, snapshot.DeltaOK = result.Series.Delta()
		}

		result.Series = result.Series.FilterSince(cutoff)
		snapshot.Results[kind] = result
	}

	snapshot.ScoreLabel = string(sentiment.ClassifyIndex(snapshot.Score))
	if latest, ok := snapshot.SeriesFor(domain.KindVolatility).Latest(); ok {
		snapshot.VolLabel = string(sentiment.ClassifyVolatility(latest.Value))
	}

	return snapshot
}

// ClampDays bounds a requested display window to the slider range.
func ClampDays(days int) int {
	if days < MinDays {
		return MinDays
	}
	if days > MaxDays {
		return MaxDays
	}
	return days
}

func cacheKey(kind domain.SeriesKind) string { return "series:" + string(kind) }

func (s *DashboardService) readCache(ctx context.Context, kind domain.SeriesKind) (domain.Series, bool) {
	if s.store == nil {
		return nil, false
	}
	data, ok, err := s.store.Get(ctx, cacheKey(kind))
	if err != nil {
		log.Printf("cache read error for %s: %v", kind, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var series domain.Series
	if err := json.Unmarshal(data, &series); err != nil {
		log.Printf("cache decode error for %s: %v", kind, err)
		return nil, false
	}
	return series, true
}

func (s *DashboardService) writeCache(ctx context.Context, kind domain.SeriesKind, series domain.Series) {
	if s.store == nil {
		return
	}
	data, err := json.Marshal(series)
	if err != nil {
		log.Printf("cache encode error for %s: %v", kind, err)
		return
	}
	if err := s.store.Set(ctx, cacheKey(kind), data, s.ttl); err != nil {
		log.Printf("cache write error for %s: %v", kind, err)
	}
}
