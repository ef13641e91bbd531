package domain

import "time"

// Snapshot is one fully assembled dashboard render: the four window-filtered
// series plus the derived sentiment readings. Rebuilt on every request;
// never mutated after construction.
type Snapshot struct {
	Days      int                         `json:"days"`
	FetchedAt time.Time                   `json:"fetched_at"`
	Results   map[SeriesKind]FetchResult  `json:"results"`
	Score     IndexScore                  `json:"score"`
	ScoreLabel string                     `json:"score_label"`
	Delta     int                         `json:"delta"`
	DeltaOK   bool                        `json:"delta_ok"`
	VolLabel  string                      `json:"vol_label,omitempty"`
	Warnings  []string                    `json:"warnings"`
}

// Series is a convenience accessor; missing kinds come back empty.
func (s Snapshot) SeriesFor(kind SeriesKind) Series {
	if r, ok := s.Results[kind]; ok {
		return r.Series
	}
	return nil
}
