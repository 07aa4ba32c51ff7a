package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Harshitk-cp/currency/internal/currency"
	"github.com/Harshitk-cp/currency/internal/definition"
	"github.com/Harshitk-cp/currency/internal/domain"
	"github.com/Harshitk-cp/currency/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNetworkRequired     = errors.New("network or network_name is required")
	ErrNetworkAmbiguous    = errors.New("network and network_name are mutually exclusive")
	ErrNetworkNotFound     = errors.New("network not found")
	ErrDataRequired        = errors.New("observations or source is required")
	ErrDataAmbiguous       = errors.New("observations and source are mutually exclusive")
	ErrInvalidObservations = errors.New("invalid observations")
	ErrSourceNotFound      = errors.New("observation source not found")
	ErrSourceUnavailable   = errors.New("stored observations are not configured")
	ErrTooManySteps        = errors.New("time range exceeds the step limit")
	ErrTooMuchWork         = errors.New("time range times network size exceeds the work limit")
	ErrCanceled            = errors.New("estimate canceled")
	ErrEstimateNotFound    = errors.New("estimate not found")
	ErrPersistenceDisabled = errors.New("estimate storage is not configured")
)

// EstimateRequest selects a network and the observations to run it over.
// Exactly one of Network and NetworkName, and exactly one of Observations and
// Source, must be set.
type EstimateRequest struct {
	Network     *domain.NetworkDefinition `json:"network,omitempty"`
	NetworkName string                    `json:"network_name,omitempty"`

	Observations []domain.Row        `json:"observations,omitempty"`
	Columns      []string            `json:"columns,omitempty"`
	Source       *domain.TableSource `json:"source,omitempty"`
}

const (
	DefaultMaxSteps     = 10_000
	DefaultMaxNodeSteps = 1_000_000
)

// EstimateService builds a fresh network per request, so concurrent requests
// never share node state.
type EstimateService struct {
	registry     *definition.Registry
	observations domain.ObservationStore
	estimates    domain.EstimateStore
	maxSteps     int64
	maxNodeSteps int64
	logger       *zap.Logger
}

// NewEstimateService wires the service. observations and estimates may be
// nil when no database is configured. A non-positive maxSteps falls back to
// DefaultMaxSteps.
func NewEstimateService(
	registry *definition.Registry,
	observations domain.ObservationStore,
	estimates domain.EstimateStore,
	maxSteps int64,
	logger *zap.Logger,
) *EstimateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		registry = definition.NewRegistry(logger)
	}
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &EstimateService{
		registry:     registry,
		observations: observations,
		estimates:    estimates,
		maxSteps:     maxSteps,
		maxNodeSteps: DefaultMaxNodeSteps,
		logger:       logger,
	}
}

// SetMaxNodeSteps caps time steps multiplied by network size for a single
// run. Non-positive values are ignored.
func (s *EstimateService) SetMaxNodeSteps(n int64) {
	if n > 0 {
		s.maxNodeSteps = n
	}
}

// Estimate runs the requested network and persists the result when an
// estimate store is configured.
func (s *EstimateService) Estimate(ctx context.Context, req EstimateRequest) (*domain.EstimateRun, error) {
	def, err := s.resolveNetwork(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	run, err := s.run(ctx, def, req)
	if err != nil {
		estimatesTotal.WithLabelValues(def.Name, statusOf(err)).Inc()
		s.logger.Warn("estimate failed", zap.String("network", def.Name), zap.Error(err))
		return nil, err
	}
	estimatesTotal.WithLabelValues(def.Name, "ok").Inc()
	estimateDuration.WithLabelValues(def.Name).Observe(time.Since(start).Seconds())
	estimateSteps.Observe(float64(run.Steps))

	if s.estimates != nil {
		if err := s.estimates.Create(ctx, run); err != nil {
			return nil, fmt.Errorf("persist estimate: %w", err)
		}
	}

	s.logger.Info("estimate complete",
		zap.String("network", def.Name),
		zap.String("run_id", run.ID.String()),
		zap.Int64("steps", run.Steps),
		zap.Int("series", len(run.Series)))
	return run, nil
}

func (s *EstimateService) run(ctx context.Context, def *domain.NetworkDefinition, req EstimateRequest) (*domain.EstimateRun, error) {
	net, err := definition.Build(def, s.logger)
	if err != nil {
		return nil, err
	}

	tbl, err := s.resolveData(ctx, def, req)
	if err != nil {
		return nil, err
	}

	steps, err := s.checkLimits(tbl, net.Len())
	if err != nil {
		return nil, err
	}

	series, err := net.Estimate(ctx, tbl)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrCanceled, err)
		}
		return nil, err
	}
	return &domain.EstimateRun{
		NetworkName: def.Name,
		Steps:       steps,
		Series:      series,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// checkLimits returns the number of time steps in tbl, rejecting runs whose
// step count or step count times node count is over the configured limits.
func (s *EstimateService) checkLimits(tbl *domain.Table, nodes int) (int64, error) {
	minT, maxT, ok := tbl.TimeRange()
	if !ok {
		return 0, nil
	}
	span := domain.Span(minT, maxT)
	if span > uint64(s.maxSteps) {
		return 0, fmt.Errorf("%w: %d steps, limit %d", ErrTooManySteps, span, s.maxSteps)
	}
	steps := int64(span)
	if nodes > 0 && steps > s.maxNodeSteps/int64(nodes) {
		return 0, fmt.Errorf("%w: %d steps over %d nodes, limit %d", ErrTooMuchWork, steps, nodes, s.maxNodeSteps)
	}
	return steps, nil
}

func (s *EstimateService) resolveNetwork(req EstimateRequest) (*domain.NetworkDefinition, error) {
	switch {
	case req.Network != nil && req.NetworkName != "":
		return nil, ErrNetworkAmbiguous
	case req.Network != nil:
		return req.Network, nil
	case req.NetworkName != "":
		def, ok := s.registry.Get(req.NetworkName)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNetworkNotFound, req.NetworkName)
		}
		return def, nil
	}
	return nil, ErrNetworkRequired
}

func (s *EstimateService) resolveData(ctx context.Context, def *domain.NetworkDefinition, req EstimateRequest) (*domain.Table, error) {
	switch {
	case req.Observations != nil && req.Source != nil:
		return nil, ErrDataAmbiguous

	case req.Source != nil:
		if err := definition.ValidateSource(req.Source); err != nil {
			return nil, err
		}
		if s.observations == nil {
			return nil, ErrSourceUnavailable
		}
		tbl, err := s.observations.Load(ctx, *req.Source)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("%w: %v", ErrSourceNotFound, err)
			}
			return nil, err
		}
		return tbl, nil

	case req.Observations != nil:
		tbl, err := domain.NewTable(def.TimeColumn, req.Columns, req.Observations)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidObservations, err)
		}
		return tbl, nil
	}
	return nil, ErrDataRequired
}

// Describe validates def and returns its nodes in evaluation order.
func (s *EstimateService) Describe(def *domain.NetworkDefinition) ([]currency.NodeInfo, error) {
	net, err := definition.Build(def, s.logger)
	if err != nil {
		return nil, err
	}
	return net.Nodes(), nil
}

// Networks lists the registered network definitions.
func (s *EstimateService) Networks() []*domain.NetworkDefinition {
	return s.registry.List()
}

// GetByID returns a persisted run.
func (s *EstimateService) GetByID(ctx context.Context, id uuid.UUID) (*domain.EstimateRun, error) {
	if s.estimates == nil {
		return nil, ErrPersistenceDisabled
	}
	run, err := s.estimates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrEstimateNotFound
		}
		return nil, err
	}
	return run, nil
}

// IsInvalid reports whether err stems from the request rather than the
// server.
func IsInvalid(err error) bool {
	for _, target := range []error{
		definition.ErrInvalidDefinition,
		definition.ErrInvalidSource,
		currency.ErrConfiguration,
		currency.ErrDependency,
		currency.ErrMissingAttribute,
		currency.ErrNumericDomain,
		ErrInvalidObservations,
		ErrTooManySteps,
		ErrTooMuchWork,
		ErrNetworkRequired,
		ErrNetworkAmbiguous,
		ErrDataRequired,
		ErrDataAmbiguous,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func statusOf(err error) string {
	if IsInvalid(err) {
		return "invalid"
	}
	if errors.Is(err, ErrCanceled) {
		return "canceled"
	}
	return "error"
}
