// AngelaMos | 2026
// resolver.go

package tier

import (
	"github.com/skadri1601/TradeSignal-sub000/internal/config"
)

// Resolver answers feature and tier questions for a given user tier.
// It is pure: no caching, no side effects; callers rebuild it from the
// current session snapshot on every decision.
type Resolver struct {
	features map[string]Tier
	override bool
}

// NewResolver builds a resolver from the gating config. Config entries
// extend or replace the shipped table; the override flag forces every
// capability open (showcase deployments only).
func NewResolver(cfg config.TiersConfig) *Resolver {
	features := make(map[string]Tier, len(DefaultFeatures)+len(cfg.Features))
	for key, min := range DefaultFeatures {
		features[key] = min
	}
	for key, min := range cfg.Features {
		features[key] = Parse(min)
	}

	return &Resolver{
		features: features,
		override: cfg.OverrideAll,
	}
}

func (r *Resolver) OverrideAll() bool {
	return r.override
}

// HasFeature reports whether a user at the given tier may use the
// feature. Unknown keys default to allowed.
func (r *Resolver) HasFeature(userTier Tier, key string) bool {
	if r.override {
		return true
	}

	min, ok := r.features[key]
	if !ok {
		return true
	}

	return userTier >= min
}

// HasTier is the direct level comparison used by the route guard.
func (r *Resolver) HasTier(userTier, min Tier) bool {
	if r.override {
		return true
	}
	return userTier >= min
}
