// Package run implements the run orchestrator: starting, advancing, and
// resuming a user's single active run, and granting terminal rewards into
// the ledger.
package run

//go:generate mockgen -destination=mock/mock_service.go -package=runmock github.com/cursedmounds/kurgan-api/internal/orchestrators/run Service

import (
	"context"
	"log/slog"

	runengine "github.com/cursedmounds/kurgan-api/internal/engine/run"
	"github.com/cursedmounds/kurgan-api/internal/entities"
	"github.com/cursedmounds/kurgan-api/internal/errors"
	"github.com/cursedmounds/kurgan-api/internal/pkg/clock"
	"github.com/cursedmounds/kurgan-api/internal/pkg/idgen"
	"github.com/cursedmounds/kurgan-api/internal/pkg/rng"
	dailycharacter "github.com/cursedmounds/kurgan-api/internal/repositories/daily_character"
	"github.com/cursedmounds/kurgan-api/internal/repositories/ledger"
	runrepo "github.com/cursedmounds/kurgan-api/internal/repositories/run"
)

// LedgerSourceRunFinish marks ledger entries granted by a finished run.
const LedgerSourceRunFinish = "run_finish"

// Service defines the interface for run operations.
type Service interface {
	// StartRun begins a run for the user's daily character. If the user
	// already has an active run it is returned instead of starting a new one.
	StartRun(ctx context.Context, input *StartRunInput) (*StartRunOutput, error)

	// AdvanceRun applies one action to the user's active run.
	AdvanceRun(ctx context.Context, input *AdvanceRunInput) (*AdvanceRunOutput, error)

	// GetCurrentRun returns the user's active run.
	GetCurrentRun(ctx context.Context, input *GetCurrentRunInput) (*GetCurrentRunOutput, error)
}

// Config holds the dependencies for the run orchestrator.
type Config struct {
	RunRepo       runrepo.Repository
	CharacterRepo dailycharacter.Repository
	LedgerRepo    ledger.Repository
	Engine        *runengine.Engine
	IDGenerator   idgen.Generator
	Clock         clock.Clock

	// SeedFn supplies run seeds; defaults to rng.RandomSeed.
	SeedFn func() uint32
}

// Validate ensures all required dependencies are provided.
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.RunRepo == nil {
		vb.RequiredField("RunRepo")
	}
	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.LedgerRepo == nil {
		vb.RequiredField("LedgerRepo")
	}
	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

type orchestrator struct {
	runRepo       runrepo.Repository
	characterRepo dailycharacter.Repository
	ledgerRepo    ledger.Repository
	engine        *runengine.Engine
	idGen         idgen.Generator
	clock         clock.Clock
	seedFn        func() uint32
}

// NewOrchestrator creates a new run orchestrator with the provided dependencies.
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	seedFn := cfg.SeedFn
	if seedFn == nil {
		seedFn = rng.RandomSeed
	}

	return &orchestrator{
		runRepo:       cfg.RunRepo,
		characterRepo: cfg.CharacterRepo,
		ledgerRepo:    cfg.LedgerRepo,
		engine:        cfg.Engine,
		idGen:         cfg.IDGenerator,
		clock:         cfg.Clock,
		seedFn:        seedFn,
	}, nil
}

func (o *orchestrator) StartRun(ctx context.Context, input *StartRunInput) (*StartRunOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	dayKey := clock.DayKey(o.clock.Now())

	// A run belongs to a day's character; no sheet, no run.
	if _, err := o.characterRepo.Get(ctx, dailycharacter.GetInput{
		UserID: input.UserID,
		DayKey: dayKey,
	}); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.FailedPreconditionf("user %s has no daily character for %s", input.UserID, dayKey)
		}
		return nil, errors.Wrap(err, "failed to look up daily character")
	}

	rn, err := o.engine.Start(o.seedFn())
	if err != nil {
		return nil, errors.Wrap(err, "failed to build run")
	}
	rn.ID = o.idGen.Generate()
	rn.UserID = input.UserID
	rn.DayKey = dayKey
	rn.CreatedAt = o.clock.Now()

	if _, err := o.runRepo.Create(ctx, runrepo.CreateInput{Run: rn}); err != nil {
		if errors.IsAlreadyExists(err) {
			active, getErr := o.runRepo.GetActiveByUser(ctx, runrepo.GetActiveByUserInput{UserID: input.UserID})
			if getErr != nil {
				return nil, errors.Wrap(getErr, "failed to resume active run")
			}
			return &StartRunOutput{Run: active.Run, Resumed: true}, nil
		}
		return nil, errors.Wrap(err, "failed to store run")
	}

	slog.Info("Run started",
		"run_id", rn.ID,
		"user_id", input.UserID,
		"seed", rn.Seed,
	)

	return &StartRunOutput{Run: rn}, nil
}

func (o *orchestrator) AdvanceRun(ctx context.Context, input *AdvanceRunInput) (*AdvanceRunOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	active, err := o.runRepo.GetActiveByUser(ctx, runrepo.GetActiveByUserInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}
	rn := active.Run
	previousRoom := rn.Room

	step, err := o.engine.Advance(rn, input.Action)
	if err != nil {
		return nil, err
	}

	if step.Finished {
		rn.FinishedAt = o.clock.Now()
	}

	if _, err := o.runRepo.Update(ctx, runrepo.UpdateInput{
		Run:          rn,
		PreviousRoom: previousRoom,
	}); err != nil {
		return nil, err
	}

	if step.Finished {
		o.grantRewards(ctx, rn)
		slog.Info("Run finished",
			"run_id", rn.ID,
			"user_id", rn.UserID,
			"rooms", rn.Outcome.Rooms,
		)
	}

	return &AdvanceRunOutput{Run: rn, Step: step}, nil
}

func (o *orchestrator) GetCurrentRun(ctx context.Context, input *GetCurrentRunInput) (*GetCurrentRunOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	out, err := o.runRepo.GetActiveByUser(ctx, runrepo.GetActiveByUserInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}

	return &GetCurrentRunOutput{Run: out.Run}, nil
}

// grantRewards appends the outcome's rewards to the ledger. The run is
// already finalized at this point; a failed grant is logged and left for
// reconciliation rather than unwinding the run.
func (o *orchestrator) grantRewards(ctx context.Context, rn *entities.Run) {
	for _, reward := range rn.Outcome.Rewards {
		entry := &entities.LedgerEntry{
			ID:        o.idGen.Generate(),
			UserID:    rn.UserID,
			Source:    LedgerSourceRunFinish,
			Currency:  reward.Currency,
			Amount:    reward.Amount,
			CreatedAt: o.clock.Now(),
		}
		if _, err := o.ledgerRepo.Append(ctx, ledger.AppendInput{Entry: entry}); err != nil {
			slog.Error("Failed to grant run reward",
				"run_id", rn.ID,
				"user_id", rn.UserID,
				"currency", reward.Currency,
				"error", err,
			)
		}
	}
}
