// Package combat resolves single attacks. Unlike character generation,
// combat rolls draw from an unseeded source: an attack is not meant to be
// reproducible, only its formula is.
package combat

import (
	"math"

	"github.com/cursedmounds/kurgan-api/internal/content"
	"github.com/cursedmounds/kurgan-api/internal/errors"
	"github.com/cursedmounds/kurgan-api/internal/pkg/rng"
)

// Stats are the attacker inputs to the damage formula.
type Stats struct {
	Atk  int
	Crit int
	Luck int
}

// Result is the outcome of one attack resolution. It is not persisted as an
// entity; only its side effects (boss hp, damage log) are.
type Result struct {
	Damage int
	Crit   bool
}

// Resolver applies the damage formula with a pluggable roll source.
type Resolver struct {
	source   rng.Source
	tunables *content.Tunables
}

// Config holds the dependencies for the resolver.
type Config struct {
	Source   rng.Source
	Tunables *content.Tunables
}

// Validate ensures all required dependencies are provided.
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Source == nil {
		vb.RequiredField("Source")
	}
	if c.Tunables == nil {
		vb.RequiredField("Tunables")
	}

	return vb.Build()
}

// NewResolver creates a combat resolver.
func NewResolver(cfg *Config) (*Resolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Resolver{source: cfg.Source, tunables: cfg.Tunables}, nil
}

// ResolveAttack computes damage for one attack:
//
//	base      = max(1, atk)
//	critRoll  < clamp(crit, 0, cap) out of 100
//	luckBonus = floor(luck / divisor)
//	damage    = base + luckBonus [+ ceil(base * multiplier) on crit]
//
// Total function over any stat inputs; it has no failure mode.
func (r *Resolver) ResolveAttack(stats Stats) Result {
	base := max(1, stats.Atk)

	critChance := stats.Crit
	if critChance < 0 {
		critChance = 0
	}
	if critChance > r.tunables.CritChanceCap {
		critChance = r.tunables.CritChanceCap
	}

	roll := r.source.Next() * 100
	isCrit := roll < float64(critChance)

	luckBonus := int(math.Floor(float64(stats.Luck) / float64(r.tunables.LuckDivisor)))

	damage := base + luckBonus
	if isCrit {
		damage += int(math.Ceil(float64(base) * r.tunables.CritMultiplier))
	}

	return Result{Damage: damage, Crit: isCrit}
}
