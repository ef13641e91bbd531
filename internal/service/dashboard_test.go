package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"market-mood/internal/cache"
	"market-mood/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type fakeProvider struct {
	kind   domain.SeriesKind
	series domain.Series
	err    error
	calls  int
}

func (f *fakeProvider) Kind() domain.SeriesKind { return f.kind }

func (f *fakeProvider) Fetch(ctx context.Context) (domain.Series, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.series, nil
}

func daysAgo(now time.Time, n int) time.Time {
	return now.AddDate(0, 0, -n)
}

func indexSeries(now time.Time, values ...float64) domain.Series {
	s := make(domain.Series, 0, len(values))
	for i, v := range values {
		s = append(s, domain.Point{Date: daysAgo(now, len(values)-1-i), Value: v})
	}
	return s
}

func noopTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("test")
}

func TestGetSeriesCachesWithinTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	p := &fakeProvider{kind: domain.KindFearGreed, series: indexSeries(now, 40, 55)}
	svc := NewDashboardService(noopTracer(), cache.NewMemoryStore(), 12*time.Hour, p)

	first := svc.GetSeries(ctx, domain.KindFearGreed)
	second := svc.GetSeries(ctx, domain.KindFearGreed)

	if first.Failed() || second.Failed() {
		t.Fatalf("unexpected failures: %v %v", first.Err, second.Err)
	}
	if p.calls != 1 {
		t.Fatalf("expected 1 upstream call within TTL, got %d", p.calls)
	}
	if len(second.Series) != 2 {
		t.Fatalf("unexpected cached series: %+v", second.Series)
	}
}

func TestGetSeriesFailureNotCached(t *testing.T) {
	ctx := context.Background()

	p := &fakeProvider{kind: domain.KindPrice, err: errors.New("upstream status 500: boom")}
	svc := NewDashboardService(noopTracer(), cache.NewMemoryStore(), 12*time.Hour, p)

	result := svc.GetSeries(ctx, domain.KindPrice)
	if !result.Failed() {
		t.Fatal("expected failed result")
	}
	if !result.Series.Empty() {
		t.Fatalf("expected empty series, got %+v", result.Series)
	}

	// Second call retries instead of serving the failure from cache.
	svc.GetSeries(ctx, domain.KindPrice)
	if p.calls != 2 {
		t.Fatalf("expected retry on next access, got %d calls", p.calls)
	}
}

func TestGetSeriesUnknownKind(t *testing.T) {
	svc := NewDashboardService(noopTracer(), cache.NewMemoryStore(), time.Hour)
	result := svc.GetSeries(context.Background(), domain.KindEquity)
	if result.Failed() || !result.Series.Empty() {
		t.Fatalf("expected empty non-failed result, got %+v", result)
	}
}

func TestBuildSnapshotPartialFailure(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	price := &fakeProvider{kind: domain.KindPrice, err: errors.New("upstream status 500: boom")}
	vix := &fakeProvider{kind: domain.KindVolatility, series: indexSeries(now, 14, 16.5)}
	equity := &fakeProvider{kind: domain.KindEquity, series: indexSeries(now, 51.2, 52.4)}
	fg := &fakeProvider{kind: domain.KindFearGreed, series: indexSeries(now, 40, 55)}

	svc := NewDashboardService(noopTracer(), cache.NewMemoryStore(), 12*time.Hour, price, vix, equity, fg)
	svc.now = func() time.Time { return now }

	snap := svc.BuildSnapshot(ctx, 180)

	if len(snap.Warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %v", snap.Warnings)
	}
	if !strings.Contains(snap.Warnings[0], "Bitcoin price") {
		t.Fatalf("warning should name the failed series: %s", snap.Warnings[0])
	}
	if !snap.SeriesFor(domain.KindPrice).Empty() {
		t.Fatal("price series should be empty")
	}
	for _, kind := range []domain.SeriesKind{domain.KindVolatility, domain.KindEquity, domain.KindFearGreed} {
		if snap.SeriesFor(kind).Empty() {
			t.Fatalf("%s series should be intact", kind)
		}
	}

	if !snap.Score.OK || snap.Score.Value != 55 {
		t.Fatalf("unexpected score: %+v", snap.Score)
	}
	if !snap.DeltaOK || snap.Delta != 15 {
		t.Fatalf("expected delta +15, got %d ok=%v", snap.Delta, snap.DeltaOK)
	}
	if snap.ScoreLabel != "greed" {
		t.Fatalf("unexpected score label: %s", snap.ScoreLabel)
	}
	if snap.VolLabel != "elevated" {
		t.Fatalf("unexpected vol label: %s", snap.VolLabel)
	}
}

func TestBuildSnapshotAppliesWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	series := domain.Series{
		{Date: daysAgo(now, 30), Value: 10},
		{Date: daysAgo(now, 3), Value: 20},
		{Date: daysAgo(now, 1), Value: 30},
	}
	vix := &fakeProvider{kind: domain.KindVolatility, series: series}

	svc := NewDashboardService(noopTracer(), cache.NewMemoryStore(), 12*time.Hour, vix)
	svc.now = func() time.Time { return now }

	snap := svc.BuildSnapshot(ctx, 7)
	got := snap.SeriesFor(domain.KindVolatility)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows within 7 days, got %+v", got)
	}
	if got[0].Value != 20 || got[1].Value != 30 {
		t.Fatalf("unexpected rows: %+v", got)
	}
}

func TestBuildSnapshotEmptyIndex(t *testing.T) {
	svc := NewDashboardService(noopTracer(), cache.NewMemoryStore(), time.Hour)
	snap := svc.BuildSnapshot(context.Background(), 180)

	if snap.Score.OK {
		t.Fatalf("expected unavailable score, got %+v", snap.Score)
	}
	if snap.DeltaOK {
		t.Fatal("expected delta unavailable")
	}
	if snap.ScoreLabel != "neutral" {
		t.Fatalf("unavailable score should classify neutral, got %s", snap.ScoreLabel)
	}
	if snap.VolLabel != "" {
		t.Fatalf("expected no vol label without data, got %s", snap.VolLabel)
	}
}

func TestClampDays(t *testing.T) {
	tests := []struct{ in, want int }{
		{1, 7}, {7, 7}, {90, 90}, {180, 180}, {365, 180},
	}
	for _, tt := range tests {
		if got := ClampDays(tt.in); got != tt.want {
			t.Errorf("ClampDays(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
