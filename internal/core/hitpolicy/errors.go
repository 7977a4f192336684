package hitpolicy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aevon-lab/hitpolicy/internal/core/value"
)

// ErrUnaggregatable is matched by every *AggregationError via errors.Is.
var ErrUnaggregatable = errors.New("values cannot be aggregated")

// AggregationError reports values that could not be reconciled to one numeric width.
type AggregationError struct {
	Policy string
	Values []value.TypedValue
	Kinds  []value.Type
}

func (e *AggregationError) Error() string {
	vals := make([]string, len(e.Values))
	for i, v := range e.Values {
		vals[i] = v.String()
	}
	kinds := make([]string, len(e.Kinds))
	for i, k := range e.Kinds {
		kinds[i] = k.String()
	}
	return fmt.Sprintf("%s policy: unable to convert values [%s] to one of the aggregatable types %s",
		e.Policy, strings.Join(vals, ", "), strings.Join(kinds, ", "))
}

func (e *AggregationError) Unwrap() error { return ErrUnaggregatable }
