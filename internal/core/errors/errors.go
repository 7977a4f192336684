package errors

const (
	HttpInternalError            = "internal_error"
	HttpInvalidJsonError         = "invalid_json"
	HttpInvalidRequestError      = "invalid_request"
	HttpPolicyNotFoundError      = "policy_not_found"
	HttpDefinitionNotFoundError  = "definition_not_found"
	HttpTypeAggregationError     = "type_aggregation_failed"
	HttpBatchTooLargeError       = "batch_too_large"
	HttpEvaluationCancelledError = "evaluation_cancelled"
)

// ErrorResponse is the error response body shared by every endpoint.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
