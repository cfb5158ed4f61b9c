// ABOUTME: Reflection capture form for one practice day.
// ABOUTME: Collects reflection fields and commits them as a single store action.
package capture

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/practice/internal/dates"
	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/store"
)

// ErrClosed is returned when a cancelled or saved form is used again.
var ErrClosed = errors.New("form is closed")

// State is the lifecycle position of a form.
type State int

const (
	Editing State = iota
	Cancelled
	Saved
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Cancelled:
		return "cancelled"
	case Saved:
		return "saved"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Dispatcher is the part of the store a form commits through.
type Dispatcher interface {
	Dispatch(a store.Action) (store.Result, error)
}

// Fields lists the text fields accepted by Set.
var Fields = []string{"event", "emotion", "insight", "limiting_belief", "reframe"}

// Form edits the reflection for one (practice, day) pair.
type Form struct {
	practice   *models.Practice
	day        string
	reflection models.Reflection
	existed    bool
	state      State
	outcome    models.Outcome
}

// Open starts a form for day. The day must be open under the gating policy;
// a stored reflection pre-fills the form.
func Open(p *models.Practice, day, today time.Time) (*Form, error) {
	key := dates.FormatDate(day)
	if !p.CanRecord(day, today) {
		return nil, fmt.Errorf("%w: %s for %s", store.ErrDayLocked, key, p.Name)
	}
	f := &Form{practice: p, day: key, state: Editing}
	if r, ok := p.Reflections[key]; ok {
		f.reflection = r
		f.existed = true
	}
	return f, nil
}

// State reports where the form is in its lifecycle.
func (f *Form) State() State { return f.state }

// Day returns the day key being edited.
func (f *Form) Day() string { return f.day }

// Practice returns the practice the form was opened for.
func (f *Form) Practice() *models.Practice { return f.practice }

// Reflection returns the current form contents.
func (f *Form) Reflection() models.Reflection { return f.reflection }

// Prefilled reports whether the form started from a stored reflection.
func (f *Form) Prefilled() bool { return f.existed }

// Outcome is the result of a saved form.
func (f *Form) Outcome() models.Outcome { return f.outcome }

// Set assigns a text field by name.
func (f *Form) Set(field, value string) error {
	if f.state != Editing {
		return ErrClosed
	}
	switch strings.ReplaceAll(strings.ToLower(field), "-", "_") {
	case "event":
		f.reflection.Event = value
	case "emotion":
		f.reflection.Emotion = value
	case "insight":
		f.reflection.Insight = value
	case "limiting_belief", "belief":
		f.reflection.LimitingBelief = value
	case "reframe":
		f.reflection.Reframe = value
	default:
		return fmt.Errorf("unknown reflection field %q (valid: %s)", field, strings.Join(Fields, ", "))
	}
	return nil
}

// SetFlag marks a sub-practice as performed or not.
func (f *Form) SetFlag(t models.PracticeType, on bool) error {
	if f.state != Editing {
		return ErrClosed
	}
	if !f.reflection.SetFlag(t, on) {
		return fmt.Errorf("%w: %q", models.ErrInvalidType, t)
	}
	return nil
}

// Clear empties every field, so submitting un-completes the day.
func (f *Form) Clear() error {
	if f.state != Editing {
		return ErrClosed
	}
	f.reflection = models.Reflection{}
	return nil
}

// Cancel closes the form without any store mutation.
func (f *Form) Cancel() error {
	if f.state != Editing {
		return ErrClosed
	}
	f.state = Cancelled
	return nil
}

// Submit commits the form as one save_reflection action. An empty
// reflection un-completes the day. No field is required.
func (f *Form) Submit(d Dispatcher) (models.Outcome, error) {
	if f.state != Editing {
		return "", ErrClosed
	}
	res, err := d.Dispatch(store.SaveReflection(f.practice.ID, f.day, f.reflection))
	if err != nil {
		return "", err
	}
	f.state = Saved
	f.outcome = res.Outcome
	if res.Practice != nil {
		f.practice = res.Practice
	}
	return f.outcome, nil
}
