package value

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseDouble parses decimal floating-point text, ignoring surrounding space.
// Besides plain and exponent forms it accepts only "NaN" and "Infinity", either
// optionally signed. Hex floats, digit underscores and spellings like "inf"
// are rejected. Out-of-range text saturates to ±Infinity.
func ParseDouble(text string) (float64, error) {
	s := strings.TrimSpace(text)
	body, sign := s, 1
	if body != "" && (body[0] == '+' || body[0] == '-') {
		if body[0] == '-' {
			sign = -1
		}
		body = body[1:]
	}

	switch body {
	case "NaN":
		return math.NaN(), nil
	case "Infinity":
		return math.Inf(sign), nil
	}
	if body == "" || strings.Trim(body, "0123456789.eE+-") != "" {
		return 0, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidValue, text)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	return f, nil
}

// FormatDouble renders f so it always reads back as a double: "3.0" rather
// than "3", and "NaN", "Infinity" or "-Infinity" for non-finite values.
func FormatDouble(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
