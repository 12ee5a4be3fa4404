// Package boss implements the world boss orchestrator: a shared HP pool every
// user attacks with their daily character, with a damage leaderboard.
package boss

//go:generate mockgen -destination=mock/mock_service.go -package=bossmock github.com/cursedmounds/kurgan-api/internal/orchestrators/boss Service

import (
	"context"
	"log/slog"

	"github.com/cursedmounds/kurgan-api/internal/content"
	"github.com/cursedmounds/kurgan-api/internal/engine/combat"
	"github.com/cursedmounds/kurgan-api/internal/entities"
	"github.com/cursedmounds/kurgan-api/internal/errors"
	"github.com/cursedmounds/kurgan-api/internal/pkg/clock"
	"github.com/cursedmounds/kurgan-api/internal/pkg/idgen"
	bossrepo "github.com/cursedmounds/kurgan-api/internal/repositories/boss"
	dailycharacter "github.com/cursedmounds/kurgan-api/internal/repositories/daily_character"
	"github.com/cursedmounds/kurgan-api/internal/repositories/ledger"
)

// Service defines the interface for boss operations.
type Service interface {
	// SpawnBoss creates a new active boss.
	SpawnBoss(ctx context.Context, input *SpawnBossInput) (*SpawnBossOutput, error)

	// GetBoss returns a boss and its top attackers.
	GetBoss(ctx context.Context, input *GetBossInput) (*GetBossOutput, error)

	// AttackBoss resolves one attack by the user's daily character and
	// applies the damage.
	AttackBoss(ctx context.Context, input *AttackBossInput) (*AttackBossOutput, error)
}

// LedgerSourceBossDefeat marks ledger entries granted for a killing blow.
const LedgerSourceBossDefeat = "boss_defeat"

// Config holds the dependencies for the boss orchestrator.
type Config struct {
	BossRepo      bossrepo.Repository
	CharacterRepo dailycharacter.Repository
	LedgerRepo    ledger.Repository
	Resolver      *combat.Resolver
	Tunables      *content.Tunables
	IDGenerator   idgen.Generator
	Clock         clock.Clock
}

// Validate ensures all required dependencies are provided.
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.BossRepo == nil {
		vb.RequiredField("BossRepo")
	}
	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.LedgerRepo == nil {
		vb.RequiredField("LedgerRepo")
	}
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.Tunables == nil {
		vb.RequiredField("Tunables")
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
	bossRepo      bossrepo.Repository
	characterRepo dailycharacter.Repository
	ledgerRepo    ledger.Repository
	resolver      *combat.Resolver
	tunables      *content.Tunables
	idGen         idgen.Generator
	clock         clock.Clock
}

// NewOrchestrator creates a new boss orchestrator with the provided dependencies.
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		bossRepo:      cfg.BossRepo,
		characterRepo: cfg.CharacterRepo,
		ledgerRepo:    cfg.LedgerRepo,
		resolver:      cfg.Resolver,
		tunables:      cfg.Tunables,
		idGen:         cfg.IDGenerator,
		clock:         cfg.Clock,
	}, nil
}

func (o *orchestrator) SpawnBoss(ctx context.Context, input *SpawnBossInput) (*SpawnBossOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Name == "" {
		return nil, errors.InvalidArgument("boss name is required")
	}
	if input.TotalHP <= 0 {
		return nil, errors.InvalidArgumentf("total HP must be positive: %d", input.TotalHP)
	}

	b := &entities.Boss{
		ID:        o.idGen.Generate(),
		Name:      input.Name,
		TotalHP:   input.TotalHP,
		CurrentHP: input.TotalHP,
		Status:    entities.BossStatusActive,
		SpawnedAt: o.clock.Now(),
	}

	if _, err := o.bossRepo.Create(ctx, bossrepo.CreateInput{Boss: b}); err != nil {
		return nil, errors.Wrap(err, "failed to spawn boss")
	}

	slog.Info("Boss spawned",
		"boss_id", b.ID,
		"name", b.Name,
		"total_hp", b.TotalHP,
	)

	return &SpawnBossOutput{Boss: b}, nil
}

func (o *orchestrator) GetBoss(ctx context.Context, input *GetBossInput) (*GetBossOutput, error) {
	if input == nil || input.BossID == "" {
		return nil, errors.InvalidArgument("boss ID is required")
	}

	got, err := o.bossRepo.Get(ctx, bossrepo.GetInput{ID: input.BossID})
	if err != nil {
		return nil, err
	}

	top, err := o.bossRepo.TopAttackers(ctx, bossrepo.TopAttackersInput{
		BossID: input.BossID,
		Limit:  input.LeaderboardLimit,
	})
	if err != nil {
		return nil, err
	}

	return &GetBossOutput{Boss: got.Boss, TopAttackers: top.Attackers}, nil
}

func (o *orchestrator) AttackBoss(ctx context.Context, input *AttackBossInput) (*AttackBossOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}
	if input.BossID == "" {
		return nil, errors.InvalidArgument("boss ID is required")
	}

	dayKey := clock.DayKey(o.clock.Now())
	char, err := o.characterRepo.Get(ctx, dailycharacter.GetInput{
		UserID: input.UserID,
		DayKey: dayKey,
	})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.FailedPreconditionf("user %s has no daily character for %s", input.UserID, dayKey)
		}
		return nil, errors.Wrap(err, "failed to look up daily character")
	}

	result := o.resolver.ResolveAttack(combat.Stats{
		Atk:  char.Character.Stats.Atk,
		Crit: char.Character.Stats.Crit,
		Luck: char.Character.Stats.Luck,
	})

	applied, err := o.bossRepo.ApplyDamage(ctx, bossrepo.ApplyDamageInput{
		Attack: &entities.BossAttack{
			BossID:    input.BossID,
			UserID:    input.UserID,
			Damage:    result.Damage,
			Crit:      result.Crit,
			CreatedAt: o.clock.Now(),
		},
	})
	if err != nil {
		return nil, err
	}

	if applied.Defeated {
		o.grantDefeatRewards(ctx, input.BossID, input.UserID)
		slog.Info("Boss defeated",
			"boss_id", input.BossID,
			"user_id", input.UserID,
		)
	}

	return &AttackBossOutput{
		Damage:      result.Damage,
		Crit:        result.Crit,
		RemainingHP: applied.RemainingHP,
		Defeated:    applied.Defeated,
	}, nil
}

// grantDefeatRewards pays the killing blow. The defeat is already committed;
// a failed grant is logged and left for reconciliation rather than unwinding
// the damage.
func (o *orchestrator) grantDefeatRewards(ctx context.Context, bossID, userID string) {
	for _, reward := range o.tunables.BossRewards {
		entry := &entities.LedgerEntry{
			ID:        o.idGen.Generate(),
			UserID:    userID,
			Source:    LedgerSourceBossDefeat,
			Currency:  reward.Currency,
			Amount:    reward.Amount,
			CreatedAt: o.clock.Now(),
		}
		if _, err := o.ledgerRepo.Append(ctx, ledger.AppendInput{Entry: entry}); err != nil {
			slog.Error("Failed to grant boss defeat reward",
				"boss_id", bossID,
				"user_id", userID,
				"currency", reward.Currency,
				"error", err,
			)
		}
	}
}
