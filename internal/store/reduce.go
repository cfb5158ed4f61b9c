// ABOUTME: Pure reducer applying an action to the practice set.
// ABOUTME: Untouched practices are shared; changed ones are copied first.
package store

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/practice/internal/dates"
	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/storage"
)

var (
	ErrDayLocked       = errors.New("day is locked")
	ErrUnknownAction   = errors.New("unknown action")
	ErrMissingPractice = errors.New("action has no practice")
	ErrDuplicateID     = errors.New("practice id already exists")
)

// State is the full practice set in creation order.
type State struct {
	Practices []*models.Practice
}

// Find returns the practice with id.
func (s State) Find(id uuid.UUID) (*models.Practice, int) {
	for i, p := range s.Practices {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}

// Reduce applies a to s and returns the next state. s is never modified: a
// practice that changes is cloned, and the slice is rebuilt.
func Reduce(s State, a Action) (State, error) {
	switch a.Kind {
	case ActionCreate, ActionStartChallenge:
		return reduceCreate(s, a)
	case ActionUpdate:
		return modify(s, a.PracticeID, func(p *models.Practice) (bool, error) {
			return true, p.Apply(a.Edit)
		})
	case ActionDelete:
		_, i := s.Find(a.PracticeID)
		if i < 0 {
			return s, notFound(a.PracticeID)
		}
		return State{Practices: slices.Delete(slices.Clone(s.Practices), i, i+1)}, nil
	case ActionToggleDate, ActionCompleteDate, ActionUncompleteDate:
		return reduceDate(s, a)
	case ActionSaveReflection:
		return reduceReflection(s, a)
	case ActionRestart:
		return modify(s, a.PracticeID, func(p *models.Practice) (bool, error) {
			p.Restart(a.Today)
			return true, nil
		})
	case ActionResetAll:
		return State{Practices: models.DefaultPractices(a.Today)}, nil
	case ActionImport:
		return reduceImport(s, a)
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
	}
}

func reduceCreate(s State, a Action) (State, error) {
	if a.Practice == nil {
		return s, ErrMissingPractice
	}
	p := a.Practice.Clone()
	p.Normalize()
	if err := p.Validate(); err != nil {
		return s, err
	}
	if existing, _ := s.Find(p.ID); existing != nil {
		return s, fmt.Errorf("%w: %s", ErrDuplicateID, p.ShortID())
	}
	return State{Practices: append(slices.Clone(s.Practices), p)}, nil
}

func reduceDate(s State, a Action) (State, error) {
	day, err := dates.ParseDate(a.Date)
	if err != nil {
		return s, err
	}
	return modify(s, a.PracticeID, func(p *models.Practice) (bool, error) {
		done := p.IsCompleted(a.Date)
		switch {
		case a.Kind == ActionCompleteDate && done, a.Kind == ActionUncompleteDate && !done:
			return false, nil
		case done:
			return p.Uncomplete(a.Date), nil
		}
		if err := checkOpen(p, day, a); err != nil {
			return false, err
		}
		return true, p.Complete(a.Date)
	})
}

func reduceReflection(s State, a Action) (State, error) {
	day, err := dates.ParseDate(a.Date)
	if err != nil {
		return s, err
	}
	return modify(s, a.PracticeID, func(p *models.Practice) (bool, error) {
		if !p.IsCompleted(a.Date) {
			if a.Reflection.IsEmpty() {
				return false, nil
			}
			if err := checkOpen(p, day, a); err != nil {
				return false, err
			}
		}
		outcome, err := p.SaveReflection(a.Date, a.Reflection)
		return outcome != models.OutcomeUnchanged, err
	})
}

func reduceImport(s State, a Action) (State, error) {
	next := slices.Clone(s.Practices)
	for _, in := range a.Practices {
		if in == nil {
			continue
		}
		p := in.Clone()
		p.Normalize()
		if err := p.Validate(); err != nil {
			return s, fmt.Errorf("import %s: %w", p.Name, err)
		}
		if _, i := (State{Practices: next}).Find(p.ID); i >= 0 {
			next[i] = p
			continue
		}
		next = append(next, p)
	}
	return State{Practices: next}, nil
}

// modify clones the practice with id, applies fn, and swaps the clone in.
// When fn reports no change the original state is returned as is.
func modify(s State, id uuid.UUID, fn func(*models.Practice) (bool, error)) (State, error) {
	orig, i := s.Find(id)
	if i < 0 {
		return s, notFound(id)
	}
	p := orig.Clone()
	changed, err := fn(p)
	if err != nil {
		return s, err
	}
	if !changed {
		return s, nil
	}
	next := slices.Clone(s.Practices)
	next[i] = p
	return State{Practices: next}, nil
}

// checkOpen applies the day-gating policy to a day about to be completed.
func checkOpen(p *models.Practice, day time.Time, a Action) error {
	if !p.InWindow(a.Date) {
		return fmt.Errorf("%w: %s not in %s..%s", models.ErrOutOfWindow, a.Date, p.StartDate, p.EndDate())
	}
	if p.CanRecord(day, a.Today) {
		return nil
	}
	if dates.IsFutureDate(day, a.Today) {
		return fmt.Errorf("%w: %s is in the future", ErrDayLocked, a.Date)
	}
	return fmt.Errorf("%w: %s must be completed in order", ErrDayLocked, a.Date)
}

func notFound(id uuid.UUID) error {
	return fmt.Errorf("%w: practice %s", storage.ErrNotFound, id)
}
