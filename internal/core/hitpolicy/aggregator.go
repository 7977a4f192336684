package hitpolicy

import (
	"fmt"
	"strconv"

	"github.com/aevon-lab/hitpolicy/internal/core/value"
)

// Aggregator collapses the outputs of all matched rules into one value.
// A nil result with a nil error means no rule fired into the aggregation.
type Aggregator interface {
	Name() string
	Aggregate(values []value.TypedValue) (*value.TypedValue, error)
}

// NumericAggregator implements a numeric hit policy. It finds the narrowest
// width (integer, long, double) that every value coerces to and hands the
// coerced list to the policy's Reducer for that width.
// It holds no mutable state and is safe for concurrent use.
type NumericAggregator struct {
	name    string
	reducer Reducer
}

func NewNumericAggregator(name string, reducer Reducer) *NumericAggregator {
	return &NumericAggregator{name: name, reducer: reducer}
}

func (a *NumericAggregator) Name() string { return a.name }

// Aggregate returns nil, nil for an empty input. Otherwise it returns the reduced
// value tagged with the coerced width, or an *AggregationError if no width fits
// every value.
func (a *NumericAggregator) Aggregate(values []value.TypedValue) (*value.TypedValue, error) {
	if len(values) == 0 {
		return nil, nil
	}

	for _, w := range widths {
		if result, ok := w.reduce(a.reducer, values); ok {
			return &result, nil
		}
	}

	return nil, &AggregationError{
		Policy: a.name,
		Values: values,
		Kinds:  AcceptedKinds(),
	}
}

// width is one step of the coercion chain.
type width struct {
	kind   value.Type
	reduce func(Reducer, []value.TypedValue) (value.TypedValue, bool)
}

// widths is tried in order; the first width accepting every value wins.
var widths = []width{
	{
		kind: value.TypeInteger,
		reduce: func(r Reducer, values []value.TypedValue) (value.TypedValue, bool) {
			xs, ok := coerceAll(values, asInteger)
			if !ok {
				return value.TypedValue{}, false
			}
			return r.ReduceIntegers(xs), true
		},
	},
	{
		kind: value.TypeLong,
		reduce: func(r Reducer, values []value.TypedValue) (value.TypedValue, bool) {
			xs, ok := coerceAll(values, asLong)
			if !ok {
				return value.TypedValue{}, false
			}
			return r.ReduceLongs(xs), true
		},
	},
	{
		kind: value.TypeDouble,
		reduce: func(r Reducer, values []value.TypedValue) (value.TypedValue, bool) {
			xs, ok := coerceAll(values, asDouble)
			if !ok {
				return value.TypedValue{}, false
			}
			return r.ReduceDoubles(xs), true
		},
	},
}

// AcceptedKinds lists the numeric widths in coercion order.
func AcceptedKinds() []value.Type {
	kinds := make([]value.Type, len(widths))
	for i, w := range widths {
		kinds[i] = w.kind
	}
	return kinds
}

// coerceAll converts every value or none: the first rejection discards the attempt.
func coerceAll[T any](values []value.TypedValue, conv func(value.TypedValue) (T, bool)) ([]T, bool) {
	out := make([]T, 0, len(values))
	for _, v := range values {
		x, ok := conv(v)
		if !ok {
			return nil, false
		}
		out = append(out, x)
	}
	return out, true
}

// asInteger never parses text: untyped values must already be int32.
func asInteger(v value.TypedValue) (int32, bool) {
	if !v.IsUntyped() && v.Type() != value.TypeInteger {
		return 0, false
	}
	n, ok := v.Value().(int32)
	return n, ok
}

func asLong(v value.TypedValue) (int64, bool) {
	if !v.IsUntyped() {
		if v.Type() != value.TypeLong {
			return 0, false
		}
		n, ok := v.Value().(int64)
		return n, ok
	}
	if n, ok := v.Value().(int64); ok {
		return n, true
	}
	text, ok := canonicalText(v)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(text, 10, 64)
	return n, err == nil
}

func asDouble(v value.TypedValue) (float64, bool) {
	if !v.IsUntyped() {
		if v.Type() != value.TypeDouble {
			return 0, false
		}
		f, ok := v.Value().(float64)
		return f, ok
	}
	if f, ok := v.Value().(float64); ok {
		return f, true
	}
	text, ok := canonicalText(v)
	if !ok {
		return 0, false
	}
	f, err := value.ParseDouble(text)
	return f, err == nil
}

// canonicalText is the textual form used to parse untyped values.
// Floats keep a fraction ("3.0"), so an integral float never passes the long
// width. A nil scalar has no text.
func canonicalText(v value.TypedValue) (string, bool) {
	switch raw := v.Value().(type) {
	case nil:
		return "", false
	case float64:
		return value.FormatDouble(raw, 64), true
	case float32:
		return value.FormatDouble(float64(raw), 32), true
	}
	return fmt.Sprint(v.Value()), true
}
