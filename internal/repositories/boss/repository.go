// Package boss provides persistence for world bosses: hp, defeat state, and
// the per-boss damage attribution leaderboard.
package boss

import (
	"context"

	"github.com/cursedmounds/kurgan-api/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=bossmock github.com/cursedmounds/kurgan-api/internal/repositories/boss Repository

// Repository defines the interface for boss storage.
type Repository interface {
	// Create spawns a new boss.
	// Returns errors.AlreadyExists if a boss with the same ID exists.
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a boss by ID.
	// Returns errors.NotFound if the boss doesn't exist.
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// ApplyDamage atomically decrements the boss hp (floored at zero), flips
	// the status to defeated on the killing blow, and records the attacker's
	// damage attribution. Returns errors.FailedPrecondition if the boss is
	// already defeated, errors.Aborted on a lost concurrent race.
	ApplyDamage(ctx context.Context, input ApplyDamageInput) (*ApplyDamageOutput, error)

	// TopAttackers lists the highest-damage attackers for a boss.
	TopAttackers(ctx context.Context, input TopAttackersInput) (*TopAttackersOutput, error)
}

// CreateInput defines the input for spawning a boss.
type CreateInput struct {
	Boss *entities.Boss
}

// CreateOutput defines the output for spawning a boss.
type CreateOutput struct {
	Boss *entities.Boss
}

// GetInput defines the input for getting a boss.
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a boss.
type GetOutput struct {
	Boss *entities.Boss
}

// ApplyDamageInput defines the input for applying damage.
type ApplyDamageInput struct {
	Attack *entities.BossAttack
}

// ApplyDamageOutput defines the output for applying damage.
type ApplyDamageOutput struct {
	RemainingHP int64
	Defeated    bool
}

// TopAttackersInput defines the input for listing top attackers.
type TopAttackersInput struct {
	BossID string
	Limit  int
}

// TopAttackersOutput defines the output for listing top attackers.
type TopAttackersOutput struct {
	Attackers []entities.BossAttacker
}
