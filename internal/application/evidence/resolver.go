// Package evidence implements the additive evidence resolver: an
// ordered chain of resolution strategies with a persistent cache in
// front. Collaborator failure is degraded, never surfaced.
package evidence

import (
	"context"
	"fmt"
	"time"

	"github.com/nutrilens/v1/internal/domain/assessment"
	"github.com/nutrilens/v1/internal/infrastructure/monitoring"
	"github.com/nutrilens/v1/internal/ports/outbound"
	"go.uber.org/zap"
)

// Strategy produces evidence for a normalized additive name, or
// reports "no answer" so the next strategy runs. Strategies must not
// fail the resolution for collaborator outages.
type Strategy interface {
	Name() string
	Lookup(ctx context.Context, name string) (assessment.AdditiveEvidence, bool)
}

// Options tunes resolver behavior. StrategyTimeout bounds every
// strategy lookup; in practice only the search collaborator approaches
// it.
type Options struct {
	CacheTTL        time.Duration
	StrategyTimeout time.Duration
}

// Resolver resolves additive names to concern evidence. The resolution
// order is fixed: cache, then each strategy in sequence, then the
// unverified fallback. Whatever a strategy produces is written back to
// the cache before returning.
type Resolver struct {
	cache      outbound.EvidenceCache
	strategies []Strategy
	opts       Options
	metrics    *monitoring.Metrics
	logger     *zap.Logger
}

// NewResolver creates a resolver over the given cache and strategy
// chain. Strategies run in the order given.
func NewResolver(cache outbound.EvidenceCache, strategies []Strategy, opts Options, metrics *monitoring.Metrics, logger *zap.Logger) *Resolver {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * 24 * time.Hour
	}
	if opts.StrategyTimeout <= 0 {
		opts.StrategyTimeout = 10 * time.Second
	}
	return &Resolver{
		cache:      cache,
		strategies: strategies,
		opts:       opts,
		metrics:    metrics,
		logger:     logger.Named("evidence-resolver"),
	}
}

// Resolve returns the concern record for an additive name. It never
// returns an error for a well-formed name: network and collaborator
// failures degrade to the static table or the unverified fallback.
func (r *Resolver) Resolve(ctx context.Context, name string) (assessment.AdditiveEvidence, error) {
	normalized := assessment.NormalizeAdditiveName(name)
	if normalized == "" {
		return assessment.AdditiveEvidence{}, fmt.Errorf("additive name is empty")
	}

	if cached, ok := r.cacheGet(ctx, normalized); ok {
		r.count("cache")
		return cached, nil
	}

	for _, strategy := range r.strategies {
		sctx, cancel := context.WithTimeout(ctx, r.opts.StrategyTimeout)
		ev, ok := strategy.Lookup(sctx, normalized)
		cancel()
		if !ok {
			continue
		}
		ev.RetrievedAt = time.Now().UTC()
		r.cachePut(ctx, normalized, ev)
		r.count(strategy.Name())
		return ev, nil
	}

	// No strategy answered. The absence of evidence is reported but not
	// cached, so the next resolution retries the collaborators once
	// they recover.
	ev := assessment.UnverifiedEvidence(normalized)
	ev.RetrievedAt = time.Now().UTC()
	r.count("unverified")
	return ev, nil
}

// LookupFunc adapts the resolver to the domain's EvidenceLookup
// signature, closing over the request context.
func (r *Resolver) LookupFunc(ctx context.Context) assessment.EvidenceLookup {
	return func(name string) assessment.AdditiveEvidence {
		ev, err := r.Resolve(ctx, name)
		if err != nil {
			return assessment.UnverifiedEvidence(name)
		}
		return ev
	}
}

func (r *Resolver) cacheGet(ctx context.Context, name string) (assessment.AdditiveEvidence, bool) {
	if r.cache == nil {
		return assessment.AdditiveEvidence{}, false
	}
	ev, ok, err := r.cache.Get(ctx, name)
	if err != nil {
		r.logger.Warn("evidence cache read failed", zap.String("additive", name), zap.Error(err))
		r.countCache("get", "error")
		return assessment.AdditiveEvidence{}, false
	}
	if ok {
		r.countCache("get", "hit")
	} else {
		r.countCache("get", "miss")
	}
	return ev, ok
}

func (r *Resolver) cachePut(ctx context.Context, name string, ev assessment.AdditiveEvidence) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Put(ctx, name, ev, r.opts.CacheTTL); err != nil {
		// A failed write only costs a future re-resolution.
		r.logger.Warn("evidence cache write failed", zap.String("additive", name), zap.Error(err))
		r.countCache("put", "error")
		return
	}
	r.countCache("put", "ok")
}

func (r *Resolver) count(strategy string) {
	if r.metrics != nil {
		r.metrics.ResolutionsTotal.WithLabelValues(strategy).Inc()
	}
}

func (r *Resolver) countCache(op, result string) {
	if r.metrics != nil {
		r.metrics.CacheOpsTotal.WithLabelValues(op, result).Inc()
	}
}
