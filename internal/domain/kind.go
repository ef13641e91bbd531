package domain

import "fmt"

// SeriesKind identifies one of the four tracked series.
type SeriesKind string

const (
	KindPrice      SeriesKind = "price"      // Bitcoin price, EUR
	KindVolatility SeriesKind = "volatility" // VIX daily close
	KindEquity     SeriesKind = "equity"     // VEA daily close, MSCI World proxy
	KindFearGreed  SeriesKind = "feargreed"  // crypto fear & greed index, 0-100
)

// Kinds lists all tracked series in render order.
var Kinds = []SeriesKind{KindPrice, KindVolatility, KindEquity, KindFearGreed}

// DisplayName maps a kind to the label shown in warnings and charts.
var DisplayName = map[SeriesKind]string{
	KindPrice:      "Bitcoin price",
	KindVolatility: "VIX",
	KindEquity:     "MSCI World proxy (VEA)",
	KindFearGreed:  "Fear & Greed",
}

// ParseKind validates a kind received from the outside.
func ParseKind(raw string) (SeriesKind, error) {
	k := SeriesKind(raw)
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown series kind: %s", raw)
}

// FetchResult is the explicit outcome of one fetch cycle. Err set means the
// fetch itself failed and Series is empty; Err nil with an empty Series means
// the upstream returned no rows (or the window filtered them all out).
type FetchResult struct {
	Kind   SeriesKind `json:"kind"`
	Series Series     `json:"series"`
	Err    error      `json:"-"`
}

// Failed reports whether the fetch degraded to an empty series.
func (r FetchResult) Failed() bool { return r.Err != nil }

// Warning renders the user-visible warning line for a failed fetch.
func (r FetchResult) Warning() string {
	if r.Err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to load %s data: %v", DisplayName[r.Kind], r.Err)
}
