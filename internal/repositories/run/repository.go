// Package run provides persistence for run state. A user has at most one
// active run; state transitions are serialized per run with optimistic
// concurrency so concurrent advances cannot both finalize.
package run

import (
	"context"

	"github.com/cursedmounds/kurgan-api/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=runmock github.com/cursedmounds/kurgan-api/internal/repositories/run Repository

// Repository defines the interface for run storage.
type Repository interface {
	// Create stores a new run and claims the user's active-run slot.
	// Returns errors.AlreadyExists if the user already has an active run.
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a run by ID.
	// Returns errors.NotFound if the run doesn't exist.
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// GetActiveByUser retrieves the user's current active run.
	// Returns errors.NotFound if the user has none.
	GetActiveByUser(ctx context.Context, input GetActiveByUserInput) (*GetActiveByUserOutput, error)

	// Update persists an advanced run, guarded by the room counter the caller
	// read: if the stored run moved in the meantime the update fails with
	// errors.Aborted and nothing is written. A run transitioning to finished
	// also releases the user's active-run slot.
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)
}

// CreateInput defines the input for creating a run.
type CreateInput struct {
	Run *entities.Run
}

// CreateOutput defines the output for creating a run.
type CreateOutput struct {
	Run *entities.Run
}

// GetInput defines the input for getting a run.
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a run.
type GetOutput struct {
	Run *entities.Run
}

// GetActiveByUserInput defines the input for getting a user's active run.
type GetActiveByUserInput struct {
	UserID string
}

// GetActiveByUserOutput defines the output for getting a user's active run.
type GetActiveByUserOutput struct {
	Run *entities.Run
}

// UpdateInput defines the input for updating a run.
type UpdateInput struct {
	Run *entities.Run

	// PreviousRoom is the room counter the caller observed before advancing.
	PreviousRoom int
}

// UpdateOutput defines the output for updating a run.
type UpdateOutput struct {
	Run *entities.Run
}
