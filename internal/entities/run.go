package entities

import "time"

// RunStatus is the lifecycle state of a run. finished is terminal.
type RunStatus string

// Run statuses
const (
	RunStatusActive   RunStatus = "active"
	RunStatusFinished RunStatus = "finished"
)

// Action is the player input accepted by run advancement. The current
// resolver does not branch on it; it stays in the contract so a richer
// resolution can be substituted later without changing the API.
type Action string

// Run actions
const (
	ActionAttack Action = "ATTACK"
	ActionDefend Action = "DEFEND"
	ActionFlee   Action = "FLEE"
)

// Valid reports whether the action is one of the accepted values.
func (a Action) Valid() bool {
	switch a {
	case ActionAttack, ActionDefend, ActionFlee:
		return true
	}
	return false
}

// EncounterKind classifies a run step.
type EncounterKind string

// Encounter kinds
const (
	EncounterFight EncounterKind = "fight"
	EncounterEvent EncounterKind = "event"
)

// Encounter is one step within a run. Append-only: never mutated after
// creation, only marked resolved.
type Encounter struct {
	Index    int           `json:"index"`
	Kind     EncounterKind `json:"kind"`
	Seed     uint32        `json:"seed"`
	Flavor   string        `json:"flavor"`
	Resolved bool          `json:"resolved"`
}

// Reward is a single currency grant.
type Reward struct {
	Currency string `json:"currency"`
	Amount   int    `json:"amount"`
}

// RunOutcome is the terminal payload of a finished run.
type RunOutcome struct {
	Result  string   `json:"result"`
	Rooms   int      `json:"rooms"`
	Rewards []Reward `json:"rewards"`
}

// Run is a multi-encounter session owned by exactly one (user, day character)
// pair. Room counts resolved encounters; once Status flips to finished the
// run is immutable.
type Run struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	DayKey     string      `json:"day_key"`
	Seed       uint32      `json:"seed"`
	Status     RunStatus   `json:"status"`
	Room       int         `json:"room"`
	Encounters []Encounter `json:"encounters"`
	Outcome    *RunOutcome `json:"outcome,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	FinishedAt time.Time   `json:"finished_at,omitzero"`
}
