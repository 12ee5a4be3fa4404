// Package daily implements the daily character orchestrator: one generated
// character sheet per (user, UTC day), derived deterministically from the
// user ID and the day key.
package daily

//go:generate mockgen -destination=mock/mock_service.go -package=dailymock github.com/cursedmounds/kurgan-api/internal/orchestrators/daily Service

import (
	"context"
	"log/slog"

	"github.com/cursedmounds/kurgan-api/internal/engine/chargen"
	"github.com/cursedmounds/kurgan-api/internal/errors"
	"github.com/cursedmounds/kurgan-api/internal/pkg/clock"
	"github.com/cursedmounds/kurgan-api/internal/pkg/rng"
	dailycharacter "github.com/cursedmounds/kurgan-api/internal/repositories/daily_character"
)

// Service defines the interface for daily character operations.
type Service interface {
	// EnsureDailyCharacter returns today's character for the user, generating
	// and storing it on first call of the day. Idempotent within a day.
	EnsureDailyCharacter(ctx context.Context, input *EnsureDailyCharacterInput) (*EnsureDailyCharacterOutput, error)

	// GetDailyCharacter returns the stored character for a (user, day) pair
	// without generating anything.
	GetDailyCharacter(ctx context.Context, input *GetDailyCharacterInput) (*GetDailyCharacterOutput, error)

	// RerollDailyCharacter replaces today's character under a fresh random
	// seed. The cost gate (stars, ads) lives with the caller.
	RerollDailyCharacter(ctx context.Context, input *RerollDailyCharacterInput) (*RerollDailyCharacterOutput, error)
}

// Config holds the dependencies for the daily orchestrator.
type Config struct {
	CharacterRepo dailycharacter.Repository
	Generator     *chargen.Generator
	Clock         clock.Clock

	// SeedFn supplies reroll seeds; defaults to rng.RandomSeed.
	SeedFn func() uint32
}

// Validate ensures all required dependencies are provided.
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.Generator == nil {
		vb.RequiredField("Generator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

type orchestrator struct {
	characterRepo dailycharacter.Repository
	generator     *chargen.Generator
	clock         clock.Clock
	seedFn        func() uint32
}

// NewOrchestrator creates a new daily orchestrator with the provided dependencies.
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	seedFn := cfg.SeedFn
	if seedFn == nil {
		seedFn = rng.RandomSeed
	}

	return &orchestrator{
		characterRepo: cfg.CharacterRepo,
		generator:     cfg.Generator,
		clock:         cfg.Clock,
		seedFn:        seedFn,
	}, nil
}

func (o *orchestrator) EnsureDailyCharacter(ctx context.Context, input *EnsureDailyCharacterInput) (*EnsureDailyCharacterOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	dayKey := clock.DayKey(o.clock.Now())

	existing, err := o.characterRepo.Get(ctx, dailycharacter.GetInput{
		UserID: input.UserID,
		DayKey: dayKey,
	})
	if err == nil {
		return &EnsureDailyCharacterOutput{Character: existing.Character}, nil
	}
	if !errors.IsNotFound(err) {
		return nil, errors.Wrap(err, "failed to look up daily character")
	}

	seed := rng.DailySeed(input.UserID, dayKey)
	char, err := o.generator.Generate(seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate daily character")
	}
	char.UserID = input.UserID
	char.DayKey = dayKey
	char.CreatedAt = o.clock.Now()

	_, err = o.characterRepo.Create(ctx, dailycharacter.CreateInput{Character: char})
	if err != nil {
		// A concurrent Ensure won the SETNX race. Both generated the same
		// sheet from the same derived seed; read back the stored row.
		if errors.IsAlreadyExists(err) {
			stored, getErr := o.characterRepo.Get(ctx, dailycharacter.GetInput{
				UserID: input.UserID,
				DayKey: dayKey,
			})
			if getErr != nil {
				return nil, errors.Wrap(getErr, "failed to read daily character after create race")
			}
			return &EnsureDailyCharacterOutput{Character: stored.Character}, nil
		}
		return nil, errors.Wrap(err, "failed to store daily character")
	}

	slog.Info("Daily character generated",
		"user_id", input.UserID,
		"day_key", dayKey,
		"archetype", char.ArchetypeID,
	)

	return &EnsureDailyCharacterOutput{Character: char, Created: true}, nil
}

func (o *orchestrator) GetDailyCharacter(ctx context.Context, input *GetDailyCharacterInput) (*GetDailyCharacterOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	dayKey := input.DayKey
	if dayKey == "" {
		dayKey = clock.DayKey(o.clock.Now())
	}

	out, err := o.characterRepo.Get(ctx, dailycharacter.GetInput{
		UserID: input.UserID,
		DayKey: dayKey,
	})
	if err != nil {
		return nil, err
	}

	return &GetDailyCharacterOutput{Character: out.Character}, nil
}

func (o *orchestrator) RerollDailyCharacter(ctx context.Context, input *RerollDailyCharacterInput) (*RerollDailyCharacterOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	dayKey := clock.DayKey(o.clock.Now())

	// Rerolling something that was never generated is a client error.
	if _, err := o.characterRepo.Get(ctx, dailycharacter.GetInput{
		UserID: input.UserID,
		DayKey: dayKey,
	}); err != nil {
		return nil, err
	}

	seed := o.seedFn()
	char, err := o.generator.Generate(seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate rerolled character")
	}
	char.UserID = input.UserID
	char.DayKey = dayKey
	char.CreatedAt = o.clock.Now()

	if _, err := o.characterRepo.Replace(ctx, dailycharacter.ReplaceInput{Character: char}); err != nil {
		return nil, errors.Wrap(err, "failed to store rerolled character")
	}

	slog.Info("Daily character rerolled",
		"user_id", input.UserID,
		"day_key", dayKey,
		"archetype", char.ArchetypeID,
	)

	return &RerollDailyCharacterOutput{Character: char}, nil
}
