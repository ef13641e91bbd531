package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"market-mood/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
)

type stubDashboard struct {
	lastDays int
	snapshot domain.Snapshot
}

func (s *stubDashboard) BuildSnapshot(ctx context.Context, days int) domain.Snapshot {
	s.lastDays = days
	snap := s.snapshot
	snap.Days = days
	return snap
}

type stubAdvisor struct {
	comment string
	err     error
}

func (s *stubAdvisor) Comment(ctx context.Context, snapshot domain.Snapshot) (string, error) {
	return s.comment, s.err
}

func tuiSnapshot() domain.Snapshot {
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	series := func(values ...float64) domain.Series {
		s := make(domain.Series, 0, len(values))
		for i, v := range values {
			s = append(s, domain.Point{Date: now.AddDate(0, 0, i-len(values)), Value: v})
		}
		return s
	}
	return domain.Snapshot{
		Days: 180,
		Results: map[domain.SeriesKind]domain.FetchResult{
			domain.KindPrice:      {Kind: domain.KindPrice, Series: series(95000, 96000, 97123)},
			domain.KindVolatility: {Kind: domain.KindVolatility, Series: series(14, 15.5, 16.5)},
			domain.KindEquity:     {Kind: domain.KindEquity, Series: series(51, 51.7, 52.4)},
			domain.KindFearGreed:  {Kind: domain.KindFearGreed, Series: series(40, 55)},
		},
		Score:      domain.IndexScore{Value: 55, OK: true},
		ScoreLabel: "greed",
		Delta:      15,
		DeltaOK:    true,
		VolLabel:   "elevated",
		Warnings:   []string{},
	}
}

func loadedModel(t *testing.T, dash *stubDashboard, advisor AdvisorQuerier) Model {
	t.Helper()
	m := NewModel(Services{Dashboard: dash, Advisor: advisor})
	m.SetSize(80, 40)

	cmd := m.loadSnapshot()
	msg := cmd()
	updated, _ := m.Update(msg)
	model, ok := updated.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", updated)
	}
	return model
}

func TestSliderKeysAdjustWindow(t *testing.T) {
	dash := &stubDashboard{snapshot: tuiSnapshot()}
	m := loadedModel(t, dash, nil)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = updated.(Model)
	if m.days != 173 {
		t.Fatalf("expected 173 days after one narrow step, got %d", m.days)
	}
	if cmd == nil {
		t.Fatal("expected a reload command")
	}

	// Widening above the max clamps at 180.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = updated.(Model)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = updated.(Model)
	if m.days != 180 {
		t.Fatalf("expected clamp at 180, got %d", m.days)
	}
}

func TestSliderClampsAtMinimum(t *testing.T) {
	dash := &stubDashboard{snapshot: tuiSnapshot()}
	m := loadedModel(t, dash, nil)
	m.days = 8

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = updated.(Model)
	if m.days != 7 {
		t.Fatalf("expected clamp at 7, got %d", m.days)
	}
}

func TestViewRendersMetrics(t *testing.T) {
	dash := &stubDashboard{snapshot: tuiSnapshot()}
	m := loadedModel(t, dash, nil)

	view := m.View()
	for _, want := range []string{
		"Bitcoin Price (EUR): 97.123",
		"Crypto Fear & Greed: 55",
		"Δ +15",
		"MSCI World Proxy (VEA): 52.40",
		"VIX Index: 16.50",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewSkipsEmptySeries(t *testing.T) {
	snap := tuiSnapshot()
	snap.Results[domain.KindPrice] = domain.FetchResult{
		Kind:   domain.KindPrice,
		Series: domain.Series{},
		Err:    errors.New("upstream status 500"),
	}
	snap.Warnings = []string{"Failed to load Bitcoin price data: upstream status 500"}

	dash := &stubDashboard{snapshot: snap}
	m := loadedModel(t, dash, nil)

	view := m.View()
	if strings.Contains(view, "Bitcoin Price (EUR)") {
		t.Error("empty price series should omit its metric")
	}
	if strings.Contains(view, "Bitcoin Price Trend") {
		t.Error("empty price series should omit its chart")
	}
	if !strings.Contains(view, "Failed to load Bitcoin price data") {
		t.Error("warning line missing")
	}
	// The other sections are unaffected.
	if !strings.Contains(view, "Crypto Fear & Greed: 55") {
		t.Error("fear & greed metric should be unaffected")
	}
}

func TestViewWarnsOnMissingFearGreedChart(t *testing.T) {
	snap := tuiSnapshot()
	snap.Results[domain.KindFearGreed] = domain.FetchResult{Kind: domain.KindFearGreed, Series: domain.Series{}}
	snap.Score = domain.IndexScore{}
	snap.ScoreLabel = "neutral"
	snap.DeltaOK = false

	m := loadedModel(t, &stubDashboard{snapshot: snap}, nil)
	view := m.View()
	if !strings.Contains(view, "Could not load Fear & Greed data") {
		t.Error("expected fear & greed chart warning")
	}
	if !strings.Contains(view, "Crypto Fear & Greed: n/a") {
		t.Error("expected n/a metric")
	}
}

func TestAdviceFlow(t *testing.T) {
	dash := &stubDashboard{snapshot: tuiSnapshot()}
	m := loadedModel(t, dash, &stubAdvisor{comment: "calm seas"})

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	m = updated.(Model)
	if !m.adviceLoading || cmd == nil {
		t.Fatal("expected advice load to start")
	}

	// Run the batch and find the advice message.
	msg := findAdviceMsg(t, cmd)
	updated, _ = m.Update(msg)
	m = updated.(Model)
	if m.advice != "calm seas" {
		t.Fatalf("unexpected advice: %q", m.advice)
	}
	if !strings.Contains(m.View(), "calm seas") {
		t.Error("advice missing from view")
	}
}

func TestAdviceKeyDisabledWithoutAdvisor(t *testing.T) {
	dash := &stubDashboard{snapshot: tuiSnapshot()}
	m := loadedModel(t, dash, nil)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	m = updated.(Model)
	if m.adviceLoading || cmd != nil {
		t.Fatal("advice key should be inert without an advisor")
	}
}

func TestQuitKey(t *testing.T) {
	dash := &stubDashboard{snapshot: tuiSnapshot()}
	m := loadedModel(t, dash, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func findAdviceMsg(t *testing.T, cmd tea.Cmd) adviceMsg {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case adviceMsg:
			return msg
		case tea.BatchMsg:
			queue = append(queue, msg...)
		}
	}
	t.Fatal("no advice message produced")
	return adviceMsg{}
}
