// Package timecode converts scene timestamps ("HH:MM:SS", "MM:SS" or bare
// seconds) into elapsed seconds.
package timecode

import (
	"math"
	"strconv"
	"strings"
)

// ParseSeconds never fails: input that is neither a 2/3-field timestamp nor a
// number yields 0. Field values are summed as-is, "0:75" is 75 seconds.
func ParseSeconds(s string) float64 {
	parts := strings.Split(s, ":")

	switch len(parts) {
	case 3:
		h, okH := parseField(parts[0])
		m, okM := parseField(parts[1])
		sec, okS := parseField(parts[2])
		if okH && okM && okS {
			return sanitize(h*3600 + m*60 + sec)
		}
	case 2:
		m, okM := parseField(parts[0])
		sec, okS := parseField(parts[1])
		if okM && okS {
			return sanitize(m*60 + sec)
		}
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}

	return sanitize(v)
}

// an empty field counts as zero, like "1::30"
func parseField(field string) (float64, bool) {
	field = strings.TrimSpace(field)
	if field == "" {
		return 0, true
	}

	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}

	return v
}
