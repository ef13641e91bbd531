// Package format holds the locale-style number helpers shared by the HTTP
// API and the terminal dashboard.
package format

import (
	"fmt"
	"strconv"
)

// Thousands renders a value rounded to a whole number with dot-grouped
// thousands, e.g. 97123.4 -> "97.123".
func Thousands(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}

	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// SignedInt renders a delta with an explicit sign, e.g. 15 -> "+15".
func SignedInt(v int) string {
	if v > 0 {
		return fmt.Sprintf("+%d", v)
	}
	return strconv.Itoa(v)
}
