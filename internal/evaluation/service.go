package evaluation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aevon-lab/hitpolicy/internal/core/hitpolicy"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWorkerCount  = 8
	defaultMaxBatchSize = 1000
	defaultMaxBodyBytes = 1 << 20
)

var (
	// ErrInvalidRequest marks request validation errors that should return HTTP 400.
	ErrInvalidRequest = errors.New("invalid aggregation request")

	// ErrPolicyNotFound marks requests naming an unregistered hit policy.
	ErrPolicyNotFound = errors.New("unknown hit policy")

	// ErrBatchTooLarge marks batches over the configured group limit.
	ErrBatchTooLarge = errors.New("batch exceeds max groups")
)

// Options tunes the service. Zero values fall back to defaults.
type Options struct {
	WorkerCount   int
	MaxBatchSize  int
	MaxBodySizeMB int
}

// Service evaluates numeric hit-policy aggregations on behalf of a decision
// table engine. Each call is independent; the service holds only read-only state.
type Service struct {
	definitions  hitpolicy.DefinitionRepository
	workerCount  int
	maxBatchSize int
	maxBodyBytes int64
	newID        func() string
}

// NewService creates a new evaluation service.
func NewService(definitions hitpolicy.DefinitionRepository, opts Options) *Service {
	s := &Service{
		definitions:  definitions,
		workerCount:  opts.WorkerCount,
		maxBatchSize: opts.MaxBatchSize,
		maxBodyBytes: int64(opts.MaxBodySizeMB) << 20,
		newID:        uuid.NewString,
	}
	if s.workerCount <= 0 {
		s.workerCount = defaultWorkerCount
	}
	if s.maxBatchSize <= 0 {
		s.maxBatchSize = defaultMaxBatchSize
	}
	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = defaultMaxBodyBytes
	}
	return s
}

// Aggregate resolves the request's policy and aggregates its values.
// Type aggregation failures are returned wrapped; errors.Is(err, hitpolicy.ErrUnaggregatable) holds.
func (s *Service) Aggregate(ctx context.Context, req AggregateRequest) (*AggregateResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp := &AggregateResponse{
		EvaluationID: s.newID(),
		Definition:   req.Definition,
		ValueCount:   len(req.Values),
	}

	agg, err := s.resolve(ctx, req, resp)
	if err != nil {
		return nil, err
	}
	resp.Policy = agg.Name()

	result, err := agg.Aggregate(req.Values)
	if err != nil {
		slog.Warn("[Evaluation] Type aggregation failed",
			"evaluation_id", resp.EvaluationID,
			"policy", resp.Policy,
			"definition", resp.Definition,
			"value_count", resp.ValueCount,
			"error", err)
		return nil, fmt.Errorf("aggregate %s: %w", resp.Policy, err)
	}

	resp.Result = result
	resp.Empty = result == nil
	return resp, nil
}

// resolve picks the aggregator for req and records definition metadata on resp.
func (s *Service) resolve(ctx context.Context, req AggregateRequest, resp *AggregateResponse) (hitpolicy.Aggregator, error) {
	policy := strings.TrimSpace(req.Policy)

	if req.Definition != "" {
		def, err := s.definitions.Get(ctx, req.Definition)
		if err != nil {
			return nil, err
		}
		if policy != "" && !strings.EqualFold(policy, def.Policy) {
			return nil, invalidRequestf("policy %q conflicts with definition %q (%s)", policy, def.Name, def.Policy)
		}
		policy = def.Policy
		resp.Decision = def.Decision
		resp.Fingerprint = def.Fingerprint
	}

	if policy == "" {
		return nil, invalidRequestf("policy or definition is required")
	}

	agg, ok := hitpolicy.Lookup(policy)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPolicyNotFound, policy)
	}
	return agg, nil
}

// AggregateBatch evaluates groups concurrently, bounded by the worker count.
// Per-group failures are reported in the matching BatchItem; only an invalid
// batch or a cancelled context fails the whole call.
func (s *Service) AggregateBatch(ctx context.Context, groups []AggregateRequest) (*BatchResponse, error) {
	if len(groups) == 0 {
		return nil, invalidRequestf("groups must not be empty")
	}
	if len(groups) > s.maxBatchSize {
		return nil, fmt.Errorf("%w: %d groups, limit %d", ErrBatchTooLarge, len(groups), s.maxBatchSize)
	}

	results := make([]BatchItem, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workerCount)
	for i, req := range groups {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			resp, err := s.Aggregate(gctx, req)
			if err != nil && isCancellation(err) {
				return err
			}
			results[i] = batchItem(i, resp, err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch evaluation: %w", err)
	}

	return &BatchResponse{
		BatchID: s.newID(),
		Results: results,
	}, nil
}

// Policies returns the registered policy names.
func (s *Service) Policies() []string {
	return hitpolicy.PolicyNames()
}

// Definitions lists loaded definitions, optionally filtered by decision.
func (s *Service) Definitions(ctx context.Context, decision string) ([]hitpolicy.Definition, error) {
	defs, err := s.definitions.List(ctx, decision)
	if err != nil {
		return nil, err
	}
	if defs == nil {
		defs = []hitpolicy.Definition{}
	}
	return defs, nil
}

// Ping reports whether the policy registry and definition store are usable.
func (s *Service) Ping(ctx context.Context) error {
	if len(hitpolicy.Policies) == 0 {
		return errors.New("no hit policies registered")
	}
	_, err := s.definitions.List(ctx, "")
	return err
}

func batchItem(i int, resp *AggregateResponse, err error) BatchItem {
	if err != nil {
		status, body := errorResponse(err)
		return BatchItem{Index: i, Status: status, Error: &body}
	}
	return BatchItem{Index: i, Status: http.StatusOK, Response: resp}
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func invalidRequestf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
