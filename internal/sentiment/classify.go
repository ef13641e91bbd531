package sentiment

import "market-mood/internal/domain"

// Label is a discrete sentiment bucket derived from a numeric reading.
type Label string

const (
	LabelNeutral      Label = "neutral"
	LabelExtremeFear  Label = "extreme-fear"
	LabelFear         Label = "fear"
	LabelGreed        Label = "greed"
	LabelExtremeGreed Label = "extreme-greed"

	LabelCalm     Label = "calm"
	LabelElevated Label = "elevated"
	LabelHighFear Label = "high-fear"
)

// Describe maps a label to the evaluation text shown on the dashboard.
var Describe = map[Label]string{
	LabelNeutral:      "Neutral",
	LabelExtremeFear:  "Extreme Fear (buy opportunity?)",
	LabelFear:         "Fear",
	LabelGreed:        "Greed",
	LabelExtremeGreed: "Extreme Greed (caution)",
	LabelCalm:         "Calm (low volatility)",
	LabelElevated:     "Elevated volatility",
	LabelHighFear:     "High Fear (risk-off mode)",
}

// ClassifyIndex buckets a fear & greed score. Bands are half-open on the
// lower bound: 25 is fear, 75 is extreme greed. An unavailable score is
// neutral.
func ClassifyIndex(score domain.IndexScore) Label {
	switch {
	case !score.OK:
		return LabelNeutral
	case score.Value < 25:
		return LabelExtremeFear
	case score.Value < 50:
		return LabelFear
	case score.Value < 75:
		return LabelGreed
	default:
		return LabelExtremeGreed
	}
}

// ClassifyVolatility buckets a VIX close. The caller must pass a real
// reading; there is no unavailable case at this level.
func ClassifyVolatility(close float64) Label {
	switch {
	case close < 15:
		return LabelCalm
	case close < 25:
		return LabelElevated
	default:
		return LabelHighFear
	}
}
