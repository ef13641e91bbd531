package domain

import "time"

// Point is a single dated observation in a time series.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is a date-ascending sequence of observations. A failed fetch
// produces an empty series, never nil entries mixed into a populated one.
type Series []Point

// Empty reports whether the series has no rows.
func (s Series) Empty() bool { return len(s) == 0 }

// Latest returns the most recent observation.
func (s Series) Latest() (Point, bool) {
	if len(s) == 0 {
		return Point{}, false
	}
	return s[len(s)-1], true
}

// FilterSince retains only rows with Date >= cutoff. Filtering is
// idempotent and an empty series stays empty.
func (s Series) FilterSince(cutoff time.Time) Series {
	out := make(Series, 0, len(s))
	for _, p := range s {
		if !p.Date.Before(cutoff) {
			out = append(out, p)
		}
	}
	return out
}

// Delta returns the difference between the two most recent values as a
// signed integer. ok is false when fewer than two points exist.
func (s Series) Delta() (int, bool) {
	if len(s) < 2 {
		return 0, false
	}
	return int(s[len(s)-1].Value) - int(s[len(s)-2].Value), true
}

// IndexScore is an optional 0-100 index value. OK is false when the
// underlying series had no data; callers must not read Value in that case.
type IndexScore struct {
	Value int  `json:"value"`
	OK    bool `json:"ok"`
}

// Score extracts the latest value of an integer-valued index series.
func (s Series) Score() IndexScore {
	p, ok := s.Latest()
	if !ok {
		return IndexScore{}
	}
	return IndexScore{Value: int(p.Value), OK: true}
}
