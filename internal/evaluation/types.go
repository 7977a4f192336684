package evaluation

import (
	httperr "github.com/aevon-lab/hitpolicy/internal/core/errors"
	"github.com/aevon-lab/hitpolicy/internal/core/hitpolicy"
	"github.com/aevon-lab/hitpolicy/internal/core/value"
)

// AggregateRequest is one group of rule outputs sharing an aggregation policy.
// Exactly one of Policy or Definition selects the policy; when both are set they
// must agree.
type AggregateRequest struct {
	Policy     string             `json:"policy,omitempty"`
	Definition string             `json:"definition,omitempty"`
	Values     []value.TypedValue `json:"values"`
}

// AggregateResponse carries the aggregated value. Result is null and Empty is
// true when no rule fired into the group.
type AggregateResponse struct {
	EvaluationID string            `json:"evaluation_id"`
	Policy       string            `json:"policy"`
	Definition   string            `json:"definition,omitempty"`
	Decision     string            `json:"decision,omitempty"`
	Fingerprint  string            `json:"fingerprint,omitempty"`
	ValueCount   int               `json:"value_count"`
	Empty        bool              `json:"empty"`
	Result       *value.TypedValue `json:"result"`
}

// BatchRequest evaluates several independent groups in one call.
type BatchRequest struct {
	Groups []AggregateRequest `json:"groups"`
}

// BatchItem is the outcome of one group, positioned like its request.
// A failed group carries Error and leaves Response nil.
type BatchItem struct {
	Index    int                    `json:"index"`
	Status   int                    `json:"status"`
	Response *AggregateResponse     `json:"response,omitempty"`
	Error    *httperr.ErrorResponse `json:"error,omitempty"`
}

type BatchResponse struct {
	BatchID string      `json:"batch_id"`
	Results []BatchItem `json:"results"`
}

type PoliciesResponse struct {
	Policies []string `json:"policies"`
}

type DefinitionsResponse struct {
	Definitions []hitpolicy.Definition `json:"definitions"`
}
