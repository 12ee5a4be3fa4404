// Package run implements the per-run state machine: a fixed number of
// encounters advanced one room per action, ending in a terminal outcome with
// rewards. The machine is pure; persistence and timestamps belong to the
// orchestrator.
package run

import (
	"github.com/cursedmounds/kurgan-api/internal/content"
	"github.com/cursedmounds/kurgan-api/internal/entities"
	"github.com/cursedmounds/kurgan-api/internal/errors"
	"github.com/cursedmounds/kurgan-api/internal/pkg/rng"
)

// ResultVictory is the outcome result of a completed run.
const ResultVictory = "victory"

// Resolver decides how many rooms an action advances. The default resolver
// always advances exactly 1 regardless of the action; the port exists so a
// richer combat resolution can replace it without reshaping the machine.
type Resolver interface {
	RoomsAdvanced(r *entities.Run, action entities.Action) int
}

type defaultResolver struct{}

func (defaultResolver) RoomsAdvanced(*entities.Run, entities.Action) int {
	return 1
}

// StepResult is what one Advance call produced: either the next encounter or
// the terminal outcome, never both.
type StepResult struct {
	Finished  bool
	Encounter *entities.Encounter
	Outcome   *entities.RunOutcome
}

// Engine advances runs against a fixed content configuration.
type Engine struct {
	tunables *content.Tunables
	resolver Resolver
}

// Config holds the dependencies for the run engine.
type Config struct {
	Tunables *content.Tunables

	// Resolver is optional; the default advances one room per action.
	Resolver Resolver
}

// Validate ensures all required dependencies are provided.
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Tunables == nil {
		vb.RequiredField("Tunables")
	}

	return vb.Build()
}

// New creates a run engine.
func New(cfg *Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	resolver := cfg.Resolver
	if resolver == nil {
		resolver = defaultResolver{}
	}

	return &Engine{tunables: cfg.Tunables, resolver: resolver}, nil
}

// Start builds the initial run state for a fresh seed: active, room 0, with
// the first encounter already generated. ID, owner, and timestamps are the
// caller's to fill in.
func (e *Engine) Start(seed uint32) (*entities.Run, error) {
	first, err := e.buildEncounter(seed, 0)
	if err != nil {
		return nil, err
	}

	return &entities.Run{
		Seed:       seed,
		Status:     entities.RunStatusActive,
		Room:       0,
		Encounters: []entities.Encounter{first},
	}, nil
}

// Advance applies one action to an active run. The room counter moves by the
// resolver's say-so (1 today); reaching the completion threshold flips the
// run to finished and produces the outcome, otherwise the next encounter is
// appended. Advancing a non-active run is rejected, never silently ignored.
func (e *Engine) Advance(r *entities.Run, action entities.Action) (*StepResult, error) {
	if r == nil {
		return nil, errors.InvalidArgument("run is required")
	}
	if !action.Valid() {
		return nil, errors.InvalidArgumentf("unknown action: %q", action)
	}
	if r.Status != entities.RunStatusActive {
		return nil, errors.FailedPreconditionf("run is %s, not %s", r.Status, entities.RunStatusActive).
			WithMeta("status", string(r.Status))
	}

	if n := len(r.Encounters); n > 0 {
		r.Encounters[n-1].Resolved = true
	}

	r.Room += e.resolver.RoomsAdvanced(r, action)

	if r.Room >= e.tunables.CompletionThreshold {
		r.Status = entities.RunStatusFinished
		r.Outcome = &entities.RunOutcome{
			Result:  ResultVictory,
			Rooms:   r.Room,
			Rewards: append([]entities.Reward(nil), e.tunables.FinishRewards...),
		}
		return &StepResult{Finished: true, Outcome: r.Outcome}, nil
	}

	next, err := e.buildEncounter(r.Seed, r.Room)
	if err != nil {
		return nil, err
	}
	r.Encounters = append(r.Encounters, next)

	return &StepResult{Encounter: &r.Encounters[len(r.Encounters)-1]}, nil
}

// buildEncounter derives the encounter at the given index from the run seed.
// The per-encounter seed keeps each step's flavor reproducible from the run
// seed alone.
func (e *Engine) buildEncounter(runSeed uint32, index int) (entities.Encounter, error) {
	seed := rng.EncounterSeed(runSeed, index)
	m := rng.New(seed)

	kind := entities.EncounterEvent
	table := e.tunables.EventFlavor
	if m.Index(2) == 0 {
		kind = entities.EncounterFight
		table = e.tunables.FightFlavor
	}

	if len(table) == 0 {
		return entities.Encounter{}, errors.FailedPreconditionf("%s flavor catalog is empty", kind)
	}

	return entities.Encounter{
		Index:  index,
		Kind:   kind,
		Seed:   seed,
		Flavor: table[m.Index(len(table))],
	}, nil
}
