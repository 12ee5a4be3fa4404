package run

import (
	runengine "github.com/cursedmounds/kurgan-api/internal/engine/run"
	"github.com/cursedmounds/kurgan-api/internal/entities"
)

// StartRunInput identifies the user starting a run.
type StartRunInput struct {
	UserID string
}

// StartRunOutput carries the run, flagging whether an existing active run
// was resumed instead of a new one started.
type StartRunOutput struct {
	Run     *entities.Run
	Resumed bool
}

// AdvanceRunInput carries the action applied to the user's active run.
type AdvanceRunInput struct {
	UserID string
	Action entities.Action
}

// AdvanceRunOutput carries the advanced run and what the step produced.
type AdvanceRunOutput struct {
	Run  *entities.Run
	Step *runengine.StepResult
}

// GetCurrentRunInput identifies the user whose active run to fetch.
type GetCurrentRunInput struct {
	UserID string
}

// GetCurrentRunOutput carries the active run.
type GetCurrentRunOutput struct {
	Run *entities.Run
}
