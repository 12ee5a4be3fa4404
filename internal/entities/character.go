// Package entities defines the domain types persisted and passed between
// layers. Entities carry no behavior; the engine and orchestrators own the
// logic.
package entities

import "time"

// StatBlock is the six-stat vector rolled for generated characters.
type StatBlock struct {
	HP   int `json:"hp"`
	Atk  int `json:"atk"`
	Def  int `json:"def"`
	Spd  int `json:"spd"`
	Crit int `json:"crit"`
	Luck int `json:"luck"`
}

// GeneratedCharacter is a user's character sheet for one UTC day. It is
// created at most once per (user, day) pair and never mutated afterwards;
// a forced reroll replaces the row wholesale under a fresh seed.
type GeneratedCharacter struct {
	UserID        string    `json:"user_id"`
	DayKey        string    `json:"day_key"`
	Seed          uint32    `json:"seed"`
	ArchetypeID   string    `json:"archetype_id"`
	ArchetypeName string    `json:"archetype_name"`
	Stats         StatBlock `json:"stats"`
	Passive       string    `json:"passive"`
	CreatedAt     time.Time `json:"created_at"`
}
