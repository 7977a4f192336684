package hitpolicy

import (
	"slices"
	"sort"
	"strings"

	"github.com/aevon-lab/hitpolicy/internal/core/value"
)

// Supported numeric hit policies.
const (
	PolicySum   = "sum"
	PolicyMin   = "min"
	PolicyMax   = "max"
	PolicyCount = "count"
	PolicyAvg   = "avg"
)

// Reducer supplies a policy's reduction for each numeric width.
// Inputs are never empty.
type Reducer interface {
	ReduceIntegers(xs []int32) value.TypedValue
	ReduceLongs(xs []int64) value.TypedValue
	ReduceDoubles(xs []float64) value.TypedValue
}

// Policies is the registry of numeric hit policies, keyed by lower-case name.
// To add a policy: implement Reducer and add an entry here.
var Policies = map[string]*NumericAggregator{
	PolicySum:   NewNumericAggregator(PolicySum, sumReducer{}),
	PolicyMin:   NewNumericAggregator(PolicyMin, minReducer{}),
	PolicyMax:   NewNumericAggregator(PolicyMax, maxReducer{}),
	PolicyCount: NewNumericAggregator(PolicyCount, countReducer{}),
	PolicyAvg:   NewNumericAggregator(PolicyAvg, avgReducer{}),
}

// Lookup finds a policy by name, ignoring case ("SUM" and "sum" are the same).
func Lookup(name string) (*NumericAggregator, bool) {
	agg, ok := Policies[strings.ToLower(strings.TrimSpace(name))]
	return agg, ok
}

// PolicyNames returns the registered policy names, sorted.
func PolicyNames() []string {
	names := make([]string, 0, len(Policies))
	for name := range Policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type number interface {
	~int32 | ~int64 | ~float64
}

// sum uses the width's native addition; integer overflow wraps.
func sum[T number](xs []T) T {
	var total T
	for _, x := range xs {
		total += x
	}
	return total
}

func mean[T number](xs []T) float64 {
	var total float64
	for _, x := range xs {
		total += float64(x)
	}
	return total / float64(len(xs))
}

type sumReducer struct{}

func (sumReducer) ReduceIntegers(xs []int32) value.TypedValue  { return value.Integer(sum(xs)) }
func (sumReducer) ReduceLongs(xs []int64) value.TypedValue     { return value.Long(sum(xs)) }
func (sumReducer) ReduceDoubles(xs []float64) value.TypedValue { return value.Double(sum(xs)) }

type minReducer struct{}

func (minReducer) ReduceIntegers(xs []int32) value.TypedValue  { return value.Integer(slices.Min(xs)) }
func (minReducer) ReduceLongs(xs []int64) value.TypedValue     { return value.Long(slices.Min(xs)) }
func (minReducer) ReduceDoubles(xs []float64) value.TypedValue { return value.Double(slices.Min(xs)) }

type maxReducer struct{}

func (maxReducer) ReduceIntegers(xs []int32) value.TypedValue  { return value.Integer(slices.Max(xs)) }
func (maxReducer) ReduceLongs(xs []int64) value.TypedValue     { return value.Long(slices.Max(xs)) }
func (maxReducer) ReduceDoubles(xs []float64) value.TypedValue { return value.Double(slices.Max(xs)) }

// countReducer counts values; the result keeps the coerced width.
type countReducer struct{}

func (countReducer) ReduceIntegers(xs []int32) value.TypedValue  { return value.Integer(int32(len(xs))) }
func (countReducer) ReduceLongs(xs []int64) value.TypedValue     { return value.Long(int64(len(xs))) }
func (countReducer) ReduceDoubles(xs []float64) value.TypedValue { return value.Double(float64(len(xs))) }

// avgReducer always divides in float64 and yields a double.
type avgReducer struct{}

func (avgReducer) ReduceIntegers(xs []int32) value.TypedValue  { return value.Double(mean(xs)) }
func (avgReducer) ReduceLongs(xs []int64) value.TypedValue     { return value.Double(mean(xs)) }
func (avgReducer) ReduceDoubles(xs []float64) value.TypedValue { return value.Double(mean(xs)) }
