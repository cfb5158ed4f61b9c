// ABOUTME: Actions accepted by the practice store and their constructors.
// ABOUTME: Each action is a plain value; the log keeps them in dispatch order.
package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/practice/internal/models"
)

// ActionKind names a state transition.
type ActionKind string

const (
	ActionCreate         ActionKind = "create"
	ActionStartChallenge ActionKind = "start_challenge"
	ActionUpdate         ActionKind = "update"
	ActionDelete         ActionKind = "delete"
	ActionToggleDate     ActionKind = "toggle_date"
	ActionCompleteDate   ActionKind = "complete_date"
	ActionUncompleteDate ActionKind = "uncomplete_date"
	ActionSaveReflection ActionKind = "save_reflection"
	ActionRestart        ActionKind = "restart"
	ActionResetAll       ActionKind = "reset_all"
	ActionImport         ActionKind = "import"
)

// Action is one requested change to the practice set. Only the fields the
// kind needs are read.
type Action struct {
	Kind ActionKind `json:"kind"`

	// Today is the calendar day the action is evaluated against. Dispatch
	// fills it from the store clock when zero.
	Today time.Time `json:"today"`

	PracticeID uuid.UUID           `json:"practice_id,omitempty"`
	Practice   *models.Practice    `json:"practice,omitempty"`
	Practices  []*models.Practice  `json:"practices,omitempty"`
	Type       models.PracticeType `json:"type,omitempty"`
	Edit       models.Edit         `json:"-"`
	Date       string              `json:"date,omitempty"`
	Reflection models.Reflection   `json:"reflection,omitempty"`
}

// Create adds a fully built practice.
func Create(p *models.Practice) Action {
	return Action{Kind: ActionCreate, Practice: p}
}

// StartChallenge adds a 30-day challenge of type t starting today.
func StartChallenge(t models.PracticeType) Action {
	return Action{Kind: ActionStartChallenge, Type: t}
}

// Update applies e to the practice with id.
func Update(id uuid.UUID, e models.Edit) Action {
	return Action{Kind: ActionUpdate, PracticeID: id, Edit: e}
}

// Delete removes the practice with id.
func Delete(id uuid.UUID) Action {
	return Action{Kind: ActionDelete, PracticeID: id}
}

// ToggleDate flips the completion of date.
func ToggleDate(id uuid.UUID, date string) Action {
	return Action{Kind: ActionToggleDate, PracticeID: id, Date: date}
}

// CompleteDate marks date as done. Completing a done day is a no-op.
func CompleteDate(id uuid.UUID, date string) Action {
	return Action{Kind: ActionCompleteDate, PracticeID: id, Date: date}
}

// UncompleteDate clears date. Clearing an open day is a no-op.
func UncompleteDate(id uuid.UUID, date string) Action {
	return Action{Kind: ActionUncompleteDate, PracticeID: id, Date: date}
}

// SaveReflection stores r under date; an empty r un-completes the day.
func SaveReflection(id uuid.UUID, date string, r models.Reflection) Action {
	return Action{Kind: ActionSaveReflection, PracticeID: id, Date: date, Reflection: r}
}

// Restart moves the practice window to today and clears its history.
func Restart(id uuid.UUID) Action {
	return Action{Kind: ActionRestart, PracticeID: id}
}

// ResetAll replaces every practice with the defaults starting today.
func ResetAll() Action {
	return Action{Kind: ActionResetAll}
}

// Import upserts ps by id.
func Import(ps []*models.Practice) Action {
	return Action{Kind: ActionImport, Practices: ps}
}
