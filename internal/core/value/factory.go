package value

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidValue marks raw scalars that cannot be represented as the requested kind.
var ErrInvalidValue = errors.New("invalid typed value")

var (
	minInt64 = decimal.NewFromInt(math.MinInt64)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// New builds a value of kind t from a raw scalar.
// Numeric kinds accept Go integers and floats, json.Number, numeric strings and
// decimal.Decimal, as long as the value fits the target width without loss.
// Untyped returns raw unchanged behind an untyped tag.
func New(t Type, raw any) (TypedValue, error) {
	switch t {
	case Untyped:
		return UntypedValue(raw), nil
	case TypeInteger:
		n, err := toInt64(raw)
		if err != nil {
			return TypedValue{}, invalid(t, raw, err)
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return TypedValue{}, invalid(t, raw, errors.New("out of 32-bit range"))
		}
		return Integer(int32(n)), nil
	case TypeLong:
		n, err := toInt64(raw)
		if err != nil {
			return TypedValue{}, invalid(t, raw, err)
		}
		return Long(n), nil
	case TypeDouble:
		f, err := toFloat64(raw)
		if err != nil {
			return TypedValue{}, invalid(t, raw, err)
		}
		return Double(f), nil
	case TypeString:
		s, ok := raw.(string)
		if !ok {
			return TypedValue{}, invalid(t, raw, nil)
		}
		return String(s), nil
	case TypeBoolean:
		switch b := raw.(type) {
		case bool:
			return Boolean(b), nil
		case string:
			parsed, err := strconv.ParseBool(strings.TrimSpace(b))
			if err != nil {
				return TypedValue{}, invalid(t, raw, err)
			}
			return Boolean(parsed), nil
		}
		return TypedValue{}, invalid(t, raw, nil)
	}
	return TypedValue{}, fmt.Errorf("%w: unknown type %q", ErrInvalidValue, string(t))
}

func invalid(t Type, raw any, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w: cannot build %s from %T %v: %v", ErrInvalidValue, t, raw, raw, cause)
	}
	return fmt.Errorf("%w: cannot build %s from %T %v", ErrInvalidValue, t, raw, raw)
}

func toInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, errors.New("out of 64-bit range")
		}
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, errors.New("out of 64-bit range")
		}
		return int64(v), nil
	case float32:
		return integralFloat(float64(v))
	case float64:
		return integralFloat(v)
	case json.Number:
		return parseIntegral(v.String())
	case string:
		return parseIntegral(v)
	case decimal.Decimal:
		return decimalInt64(v)
	}
	return 0, errors.New("not a number")
}

// parseIntegral reads decimal text exactly, so "20.0" and "1e3" are integers
// while "1.5" and "1e19" are rejected.
func parseIntegral(text string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return 0, err
	}
	return decimalInt64(d)
}

func decimalInt64(d decimal.Decimal) (int64, error) {
	if d.IsZero() {
		return 0, nil
	}
	// Bound the exponent before comparing, which would otherwise rescale.
	if int(d.Exponent())+d.NumDigits() > 19 {
		return 0, errors.New("out of 64-bit range")
	}
	if int(d.Exponent()) < -d.NumDigits() || !d.IsInteger() {
		return 0, errors.New("not an integer")
	}
	if d.LessThan(minInt64) || d.GreaterThan(maxInt64) {
		return 0, errors.New("out of 64-bit range")
	}
	return d.IntPart(), nil
}

// integralFloat accepts floats with no fractional part, which is what JSON
// decoders without UseNumber produce for integer literals.
func integralFloat(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, errors.New("not an integer")
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errors.New("out of 64-bit range")
	}
	return int64(f), nil
}

func toFloat64(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case json.Number:
		return ParseDouble(v.String())
	case string:
		return ParseDouble(v)
	case decimal.Decimal:
		f, _ := v.Float64()
		return f, nil
	}
	n, err := toInt64(raw)
	if err != nil {
		return 0, err
	}
	return float64(n), nil
}
