package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// wireValue is the JSON shape of a TypedValue: {"type": "long", "value": 20}.
// A missing or empty type decodes to an untyped value.
type wireValue struct {
	Type  Type            `json:"type,omitempty"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON writes non-finite doubles as the strings "NaN", "Infinity" and
// "-Infinity", which JSON numbers cannot express.
func (v TypedValue) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(wireScalar(v.val))
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireValue{Type: v.typ, Value: raw})
}

func (v *TypedValue) UnmarshalJSON(data []byte) error {
	var w wireValue
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if !w.Type.Known() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidValue, string(w.Type))
	}

	var raw any
	if len(w.Value) > 0 {
		dec := json.NewDecoder(bytes.NewReader(w.Value))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
	}

	if w.Type == Untyped {
		*v = UntypedValue(inferNumber(raw))
		return nil
	}

	built, err := New(w.Type, raw)
	if err != nil {
		return err
	}
	*v = built
	return nil
}

func wireScalar(val any) any {
	switch f := val.(type) {
	case float64:
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return FormatDouble(f, 64)
		}
	case float32:
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return FormatDouble(float64(f), 32)
		}
	}
	return val
}

// inferNumber maps an untyped JSON number onto the narrowest runtime
// representation: int32, then int64, then float64. Other values pass through,
// so JSON strings stay strings and are only coerced by consumers.
func inferNumber(raw any) any {
	num, ok := raw.(json.Number)
	if !ok {
		return raw
	}
	if n, err := strconv.ParseInt(num.String(), 10, 64); err == nil {
		if n >= math.MinInt32 && n <= math.MaxInt32 {
			return int32(n)
		}
		return n
	}
	if f, err := num.Float64(); err == nil {
		return f
	}
	return num.String()
}
