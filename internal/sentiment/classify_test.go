package sentiment

import (
	"testing"

	"market-mood/internal/domain"
)

func TestClassifyIndexBands(t *testing.T) {
	tests := []struct {
		value int
		want  Label
	}{
		{0, LabelExtremeFear},
		{24, LabelExtremeFear},
		{25, LabelFear}, // lower bound is inclusive for the upper band
		{49, LabelFear},
		{50, LabelGreed},
		{74, LabelGreed},
		{75, LabelExtremeGreed},
		{100, LabelExtremeGreed},
	}
	for _, tt := range tests {
		got := ClassifyIndex(domain.IndexScore{Value: tt.value, OK: true})
		if got != tt.want {
			t.Errorf("ClassifyIndex(%d) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestClassifyIndexUnavailable(t *testing.T) {
	if got := ClassifyIndex(domain.IndexScore{}); got != LabelNeutral {
		t.Fatalf("expected neutral for unavailable score, got %s", got)
	}
}

func TestClassifyIndexAlwaysBucketed(t *testing.T) {
	valid := map[Label]bool{
		LabelExtremeFear: true, LabelFear: true,
		LabelGreed: true, LabelExtremeGreed: true,
	}
	for v := 0; v <= 100; v++ {
		got := ClassifyIndex(domain.IndexScore{Value: v, OK: true})
		if !valid[got] {
			t.Fatalf("ClassifyIndex(%d) = %s, not a score label", v, got)
		}
	}
}

func TestClassifyVolatility(t *testing.T) {
	tests := []struct {
		close float64
		want  Label
	}{
		{14.9, LabelCalm},
		{15, LabelElevated},
		{24.9, LabelElevated},
		{25, LabelHighFear},
		{80, LabelHighFear},
	}
	for _, tt := range tests {
		if got := ClassifyVolatility(tt.close); got != tt.want {
			t.Errorf("ClassifyVolatility(%v) = %s, want %s", tt.close, got, tt.want)
		}
	}
}
