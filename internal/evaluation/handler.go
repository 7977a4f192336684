package evaluation

import (
	"errors"
	"net/http"

	httperr "github.com/aevon-lab/hitpolicy/internal/core/errors"
	"github.com/aevon-lab/hitpolicy/internal/core/hitpolicy"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all evaluation API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/aggregate", s.HandleAggregate)
	r.POST("/v1/aggregate/batch", s.HandleAggregateBatch)
	r.GET("/v1/policies", s.HandleListPolicies)
	r.GET("/v1/definitions", s.HandleListDefinitions)
}

// HandleAggregate handles POST /v1/aggregate
func (s *Service) HandleAggregate(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBodyBytes)

	var req AggregateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid JSON body",
			Details:   err.Error(),
		})
		return
	}

	resp, err := s.Aggregate(c.Request.Context(), req)
	if err != nil {
		status, body := errorResponse(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleAggregateBatch handles POST /v1/aggregate/batch
func (s *Service) HandleAggregateBatch(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBodyBytes)

	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid JSON body",
			Details:   err.Error(),
		})
		return
	}

	resp, err := s.AggregateBatch(c.Request.Context(), req.Groups)
	if err != nil {
		status, body := errorResponse(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleListPolicies handles GET /v1/policies
func (s *Service) HandleListPolicies(c *gin.Context) {
	c.JSON(http.StatusOK, PoliciesResponse{Policies: s.Policies()})
}

// HandleListDefinitions handles GET /v1/definitions
// Query parameters: decision
func (s *Service) HandleListDefinitions(c *gin.Context) {
	defs, err := s.Definitions(c.Request.Context(), c.Query("decision"))
	if err != nil {
		status, body := errorResponse(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, DefinitionsResponse{Definitions: defs})
}

// errorResponse maps service errors onto the HTTP status and error envelope.
func errorResponse(err error) (int, httperr.ErrorResponse) {
	var aggErr *hitpolicy.AggregationError
	switch {
	case errors.As(err, &aggErr):
		return http.StatusUnprocessableEntity, httperr.ErrorResponse{
			ErrorType: httperr.HttpTypeAggregationError,
			Message:   "Values cannot be converted to a common numeric type",
			Details: gin.H{
				"policy":         aggErr.Policy,
				"values":         aggErr.Values,
				"accepted_kinds": aggErr.Kinds,
				"error":          aggErr.Error(),
			},
		}
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidRequestError,
			Message:   "Invalid aggregation request",
			Details:   err.Error(),
		}
	case errors.Is(err, ErrPolicyNotFound):
		return http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpPolicyNotFoundError,
			Message:   "Unknown hit policy",
			Details:   err.Error(),
		}
	case errors.Is(err, hitpolicy.ErrDefinitionNotFound):
		return http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpDefinitionNotFoundError,
			Message:   "Aggregation definition not found",
			Details:   err.Error(),
		}
	case errors.Is(err, ErrBatchTooLarge):
		return http.StatusRequestEntityTooLarge, httperr.ErrorResponse{
			ErrorType: httperr.HttpBatchTooLargeError,
			Message:   "Batch exceeds the configured group limit",
			Details:   err.Error(),
		}
	case isCancellation(err):
		return http.StatusServiceUnavailable, httperr.ErrorResponse{
			ErrorType: httperr.HttpEvaluationCancelledError,
			Message:   "Evaluation cancelled",
			Details:   err.Error(),
		}
	}
	return http.StatusInternalServerError, httperr.ErrorResponse{
		ErrorType: httperr.HttpInternalError,
		Message:   "Failed to evaluate aggregation",
		Details:   err.Error(),
	}
}
