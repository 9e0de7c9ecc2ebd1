package router

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zen-systems/routesim/pkg/adapter"
	"github.com/zen-systems/routesim/pkg/config"
)

// ErrUnavailable is the synthetic failure injected per call based on the
// configured error rate. It is the only failure mode of the simulator
// itself and is never retried internally.
var ErrUnavailable = errors.New("service temporarily unavailable")

// Service is the routing decision simulator. It owns the simulation
// config, the decision history, and per-agent performance statistics.
// All methods are safe for concurrent use.
type Service struct {
	mu       sync.Mutex
	cfg      config.SimulationConfig
	rules    *RuleSet
	dispatch map[Method]estimator
	history  []Decision
	stats    map[Agent]AgentStats
	rng      *rand.Rand
	advisor  *Advisor
	debug    bool
	wait     func(ctx context.Context, d time.Duration) error
}

// Option configures a Service.
type Option func(*Service)

// WithRand sets the random source. Tests inject a seeded source for
// reproducible runs.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) {
		s.rng = rng
	}
}

// WithDebug enables debug logging.
func WithDebug(debug bool) Option {
	return func(s *Service) {
		s.debug = debug
	}
}

// WithAdapters wires provider adapters for the LLM advisor.
func WithAdapters(adapters map[string]adapter.Adapter) Option {
	return func(s *Service) {
		s.advisor = NewAdvisor(adapters)
	}
}

// WithWait overrides the latency wait function. Tests use this to avoid
// real sleeping.
func WithWait(wait func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Service) {
		s.wait = wait
	}
}

// NewService creates a simulator with the given config and agent rules.
// A nil config or rules falls back to the defaults.
func NewService(sim *config.SimulationConfig, rules *config.AgentRules, opts ...Option) (*Service, error) {
	if sim == nil {
		sim = config.DefaultSimulationConfig()
	}
	if rules == nil {
		rules = config.DefaultAgentRules()
	}

	rs, err := NewRuleSet(rules)
	if err != nil {
		return nil, err
	}

	s := &Service{
		cfg:   *sim,
		rules: rs,
		stats: make(map[Agent]AgentStats),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		wait:  waitTimer,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.dispatch = map[Method]estimator{
		MethodRegex: estimateByPattern(rs),
		MethodLLM:   estimateBySimulatedLLM(rs),
		MethodML:    estimateByFeatures(s.rng),
	}

	return s, nil
}

// Simulate routes a query to an agent category and records the decision.
// It returns ErrUnavailable on a synthetic failure roll and ctx.Err()
// when the context is cancelled during the latency wait; no state is
// committed in either case.
func (s *Service) Simulate(ctx context.Context, query string, rctx *RequestContext) (*Decision, error) {
	start := time.Now()

	s.mu.Lock()
	cfg := s.cfg

	if s.rng.Float64() < float64(cfg.ErrorRate)/100 {
		s.mu.Unlock()
		return nil, fmt.Errorf("routing simulation failed: %w", ErrUnavailable)
	}

	method := selectMethod(cfg.PreferredMethod, query, s.rules)
	estimate, ok := s.dispatch[method]
	if !ok {
		estimate = estimateFallback
		method = MethodFallback
	}
	est := estimate(query, rctx)

	if cfg.EnableLearning {
		est = optimizeEstimate(est, query, s.stats[est.Agent])
	}

	var delay time.Duration
	if cfg.SimulateLatency {
		delay = simulatedLatency(method, s.rng)
	}
	s.mu.Unlock()

	est = s.consultAdvisor(ctx, cfg, query, est)

	if delay > 0 {
		if err := s.wait(ctx, delay); err != nil {
			return nil, err
		}
	}

	decision := s.assemble(query, rctx, method, est, start)

	s.mu.Lock()
	s.stats[decision.SelectedAgent] = updateStats(s.stats[decision.SelectedAgent], decision.Confidence, decision.LatencyMs)
	s.history = append(s.history, *decision)
	s.mu.Unlock()

	if s.debug {
		log.Printf("[router] %s -> %s (method=%s confidence=%.2f latency=%.0fms)",
			decision.Intent, decision.SelectedAgent, decision.Method, decision.Confidence, decision.LatencyMs)
	}

	return decision, nil
}

// consultAdvisor applies the optional LLM refinement. Advisor errors are
// logged and swallowed; the heuristic estimate stands.
func (s *Service) consultAdvisor(ctx context.Context, cfg config.SimulationConfig, query string, est Estimate) Estimate {
	if !s.advisor.shouldConsult(cfg.EnableLLMAdvisor, cfg.AdvisorAdapter, cfg.AdvisorModel, est, cfg.ConfidenceThreshold) {
		return est
	}

	advised, _, err := s.advisor.Consult(ctx, cfg.AdvisorAdapter, cfg.AdvisorModel, query, est)
	if err != nil {
		if s.debug {
			if adapter.IsTransient(err) {
				log.Printf("[router] transient advisor error: %v", err)
			} else {
				log.Printf("[router] advisor error: %v", err)
			}
		}
		return est
	}
	return advised
}

// assemble builds the immutable decision record.
func (s *Service) assemble(query string, rctx *RequestContext, method Method, est Estimate, start time.Time) *Decision {
	now := time.Now()
	metadata := map[string]string{
		"query_length": fmt.Sprintf("%d", len(query)),
	}
	if rctx != nil {
		if rctx.SessionID != "" {
			metadata["session_id"] = rctx.SessionID
		}
		if rctx.PreviousAgent != "" {
			metadata["previous_agent"] = string(rctx.PreviousAgent)
		}
		for k, v := range rctx.Attributes {
			metadata[k] = v
		}
	}

	return &Decision{
		ID:            uuid.NewString(),
		SelectedAgent: est.Agent,
		Confidence:    clamp01(est.Confidence),
		Intent:        classifyIntent(query),
		Method:        method,
		Reasoning:     est.Reasoning,
		LatencyMs:     float64(now.Sub(start).Microseconds()) / 1000,
		Metadata:      metadata,
		Timestamp:     now,
	}
}

// UpdateConfig merges a partial config update atomically.
func (s *Service) UpdateConfig(patch config.SimulationPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Apply(patch)
}

// Config returns a snapshot copy of the current configuration.
func (s *Service) Config() config.SimulationConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// History returns a snapshot copy of the decision history in insertion
// order.
func (s *Service) History() []Decision {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Decision, len(s.history))
	copy(out, s.history)
	return out
}

// Metrics derives summary statistics from the decision history. It is
// recomputed on every call, never cached.
func (s *Service) Metrics() *Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return aggregate(s.history, s.stats)
}

// ClearHistory resets the decision history and zeroes all per-agent
// performance records.
func (s *Service) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.stats = make(map[Agent]AgentStats)
}

// waitTimer suspends for d or until the context is cancelled.
func waitTimer(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
