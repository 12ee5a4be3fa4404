// Package chargen generates the daily character sheet from a 32-bit seed.
// Generation is a pure function of the seed: the same seed always yields the
// same archetype, stat vector, and passive, bit-for-bit across platforms.
package chargen

import (
	"github.com/cursedmounds/kurgan-api/internal/content"
	"github.com/cursedmounds/kurgan-api/internal/entities"
	"github.com/cursedmounds/kurgan-api/internal/errors"
	"github.com/cursedmounds/kurgan-api/internal/pkg/rng"
)

// Generator rolls character sheets against a fixed content catalog.
type Generator struct {
	tunables *content.Tunables
}

// Config holds the dependencies for the generator.
type Config struct {
	Tunables *content.Tunables
}

// Validate ensures all required dependencies are provided.
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Tunables == nil {
		vb.RequiredField("Tunables")
	}

	return vb.Build()
}

// New creates a generator. The tunables must already be validated; empty
// catalogs are rejected again at generation time.
func New(cfg *Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Generator{tunables: cfg.Tunables}, nil
}

// Generate rolls a character sheet for the given seed. Each call constructs
// a fresh PRNG, so repeated calls with different seeds never leak state into
// one another.
//
// Draw order is part of the contract: one draw for the archetype, one per
// stat in hp/atk/def/spd/crit/luck order, one for the passive. Changing the
// order changes every seed's output.
func (g *Generator) Generate(seed uint32) (*entities.GeneratedCharacter, error) {
	if len(g.tunables.Archetypes) == 0 {
		return nil, errors.FailedPrecondition("archetype catalog is empty")
	}
	if len(g.tunables.Passives) == 0 {
		return nil, errors.FailedPrecondition("passive catalog is empty")
	}

	m := rng.New(seed)

	archetype := g.tunables.Archetypes[m.Index(len(g.tunables.Archetypes))]

	lo, hi := g.tunables.StatRollMin, g.tunables.StatRollMax
	stats := entities.StatBlock{
		HP:   archetype.Base.HP + m.IntBetween(lo, hi),
		Atk:  archetype.Base.Atk + m.IntBetween(lo, hi),
		Def:  archetype.Base.Def + m.IntBetween(lo, hi),
		Spd:  archetype.Base.Spd + m.IntBetween(lo, hi),
		Crit: archetype.Base.Crit + m.IntBetween(lo, hi),
		Luck: archetype.Base.Luck + m.IntBetween(lo, hi),
	}

	// Floors applied after all draws so they never perturb the sequence.
	stats.HP = max(1, stats.HP)
	stats.Atk = max(1, stats.Atk)
	stats.Def = max(1, stats.Def)
	stats.Spd = max(1, stats.Spd)
	stats.Crit = max(0, stats.Crit)
	stats.Luck = max(0, stats.Luck)

	passive := g.tunables.Passives[m.Index(len(g.tunables.Passives))]

	return &entities.GeneratedCharacter{
		Seed:          seed,
		ArchetypeID:   archetype.ID,
		ArchetypeName: archetype.Name,
		Stats:         stats,
		Passive:       passive,
	}, nil
}
