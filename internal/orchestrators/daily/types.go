package daily

import "github.com/cursedmounds/kurgan-api/internal/entities"

// EnsureDailyCharacterInput identifies the user asking for today's character.
type EnsureDailyCharacterInput struct {
	UserID string
}

// EnsureDailyCharacterOutput carries the character and whether this call
// generated it.
type EnsureDailyCharacterOutput struct {
	Character *entities.GeneratedCharacter
	Created   bool
}

// GetDailyCharacterInput identifies a (user, day) pair. DayKey defaults to
// today.
type GetDailyCharacterInput struct {
	UserID string
	DayKey string
}

// GetDailyCharacterOutput carries the stored character.
type GetDailyCharacterOutput struct {
	Character *entities.GeneratedCharacter
}

// RerollDailyCharacterInput identifies the user rerolling today's character.
type RerollDailyCharacterInput struct {
	UserID string
}

// RerollDailyCharacterOutput carries the replacement character.
type RerollDailyCharacterOutput struct {
	Character *entities.GeneratedCharacter
}
