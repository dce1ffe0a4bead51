package filter

import (
	"strconv"
	"strings"
)

const (
	croreValue = 10_000_000
	lakhValue  = 100_000
)

// ParsePrice normalizes a free-form listing price to an absolute rupee
// value. Handles unit markers ("1.2 Cr", "45 L", "45 Lakh") and formatted
// absolute amounts ("₹ 1,25,00,000"). Returns false when no number can be
// extracted.
func ParsePrice(raw string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}

	// Strip currency symbols and thousands separators.
	s = strings.ReplaceAll(s, "₹", "")
	s = strings.ReplaceAll(s, "rs.", "")
	s = strings.ReplaceAll(s, "rs", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	multiplier := 1.0
	switch {
	case strings.HasSuffix(s, "crore"):
		multiplier = croreValue
		s = strings.TrimSuffix(s, "crore")
	case strings.HasSuffix(s, "cr"):
		multiplier = croreValue
		s = strings.TrimSuffix(s, "cr")
	case strings.HasSuffix(s, "lakh"):
		multiplier = lakhValue
		s = strings.TrimSuffix(s, "lakh")
	case strings.HasSuffix(s, "lac"):
		multiplier = lakhValue
		s = strings.TrimSuffix(s, "lac")
	case strings.HasSuffix(s, "l"):
		multiplier = lakhValue
		s = strings.TrimSuffix(s, "l")
	}
	s = strings.TrimSpace(s)

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	return value * multiplier, true
}
