// Package dailycharacter provides persistence for the one-character-per-day
// rows. Rows are created at most once per (user, UTC day) and only replaced
// by a forced reroll.
package dailycharacter

import (
	"context"

	"github.com/cursedmounds/kurgan-api/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=dailycharactermock github.com/cursedmounds/kurgan-api/internal/repositories/daily_character Repository

// Repository defines the interface for daily character storage.
type Repository interface {
	// Create stores a new daily character. The write is conditional: if a row
	// already exists for the same (user, day), Create returns
	// errors.AlreadyExists and leaves the stored row untouched.
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves the character for a (user, day) pair.
	// Returns errors.NotFound if no row exists.
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Replace unconditionally overwrites the row for (user, day). Used by
	// forced rerolls; the cost gate lives with the caller.
	Replace(ctx context.Context, input ReplaceInput) (*ReplaceOutput, error)
}

// CreateInput defines the input for creating a daily character.
type CreateInput struct {
	Character *entities.GeneratedCharacter
}

// CreateOutput defines the output for creating a daily character.
type CreateOutput struct {
	Character *entities.GeneratedCharacter
}

// GetInput defines the input for getting a daily character.
type GetInput struct {
	UserID string
	DayKey string
}

// GetOutput defines the output for getting a daily character.
type GetOutput struct {
	Character *entities.GeneratedCharacter
}

// ReplaceInput defines the input for replacing a daily character.
type ReplaceInput struct {
	Character *entities.GeneratedCharacter
}

// ReplaceOutput defines the output for replacing a daily character.
type ReplaceOutput struct {
	Character *entities.GeneratedCharacter
}
