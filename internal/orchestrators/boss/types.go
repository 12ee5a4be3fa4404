package boss

import "github.com/cursedmounds/kurgan-api/internal/entities"

// SpawnBossInput describes the boss to create.
type SpawnBossInput struct {
	Name    string
	TotalHP int64
}

// SpawnBossOutput carries the spawned boss.
type SpawnBossOutput struct {
	Boss *entities.Boss
}

// GetBossInput identifies the boss to fetch. LeaderboardLimit defaults to
// the repository's own limit when zero.
type GetBossInput struct {
	BossID           string
	LeaderboardLimit int
}

// GetBossOutput carries the boss and its leaderboard.
type GetBossOutput struct {
	Boss         *entities.Boss
	TopAttackers []entities.BossAttacker
}

// AttackBossInput identifies the attacker and target.
type AttackBossInput struct {
	UserID string
	BossID string
}

// AttackBossOutput carries the resolved attack and the boss state it left
// behind.
type AttackBossOutput struct {
	Damage      int
	Crit        bool
	RemainingHP int64
	Defeated    bool
}
