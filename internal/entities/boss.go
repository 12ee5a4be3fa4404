package entities

import "time"

// BossStatus is the lifecycle state of a world boss.
type BossStatus string

// Boss statuses
const (
	BossStatusActive   BossStatus = "active"
	BossStatusDefeated BossStatus = "defeated"
)

// Boss is a shared world boss every user attacks. HP never drops below zero;
// the hit that reaches zero flips the status to defeated.
type Boss struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	TotalHP   int64      `json:"total_hp"`
	CurrentHP int64      `json:"current_hp"`
	Status    BossStatus `json:"status"`
	SpawnedAt time.Time  `json:"spawned_at"`
}

// BossAttack is a single damage-attribution record.
type BossAttack struct {
	BossID    string    `json:"boss_id"`
	UserID    string    `json:"user_id"`
	Damage    int       `json:"damage"`
	Crit      bool      `json:"crit"`
	CreatedAt time.Time `json:"created_at"`
}

// BossAttacker is one leaderboard row: total damage a user has dealt to a
// boss.
type BossAttacker struct {
	UserID string `json:"user_id"`
	Damage int64  `json:"damage"`
}
