// ABOUTME: Practice state container: reduces actions, logs them, and persists.
// ABOUTME: Persistence is an injected repository whose failures never undo state.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harperreed/practice/internal/dates"
	"github.com/harperreed/practice/internal/logger"
	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/storage"
)

// Entry is one dispatched action in the log.
type Entry struct {
	Seq    int       `json:"seq"`
	At     time.Time `json:"at"`
	Action Action    `json:"action"`
}

// Result describes what a dispatched action did.
type Result struct {
	// Practice is the affected practice after the action, nil for deletes
	// and bulk actions.
	Practice *models.Practice
	// Outcome is set for date and reflection actions.
	Outcome models.Outcome
}

// Store owns the practice set. It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	state State
	log   []Entry

	repo   storage.Repository
	logger *log.Logger
	now    func() time.Time
	loc    *time.Location

	persistFailures int
	persistErr      error
	// repair is set when the stored data was unreadable; the next
	// persisted action rewrites the whole set.
	repair bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the zone that decides what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New builds a store and loads its state from repo.
//
// A repository that cannot be read leaves the defaults in memory only. A
// repository that was never seeded gets the defaults written to it. Records
// that fail validation are skipped; if none survive, the defaults are used.
// Corrupt stored data is rewritten wholesale by the first action.
func New(repo storage.Repository, opts ...Option) *Store {
	s := &Store{
		repo:   repo,
		logger: logger.Discard(),
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

func (s *Store) load() {
	today := s.Today()

	seeded, err := s.repo.Seeded()
	if err != nil {
		s.logger.Warn("could not read storage, using defaults", "err", err)
		s.state = State{Practices: models.DefaultPractices(today)}
		s.repair = errors.Is(err, storage.ErrCorrupt)
		return
	}
	if !seeded {
		s.state = State{Practices: models.DefaultPractices(today)}
		s.logger.Debug("seeding default practices")
		s.persistErrorf(s.repo.ReplaceAll(s.state.Practices), "seed defaults")
		return
	}

	stored, err := s.repo.ListPractices()
	if err != nil {
		s.logger.Warn("could not list practices, using defaults", "err", err)
		s.state = State{Practices: models.DefaultPractices(today)}
		s.repair = errors.Is(err, storage.ErrCorrupt)
		return
	}

	valid := make([]*models.Practice, 0, len(stored))
	for _, p := range stored {
		p.Normalize()
		if err := p.Validate(); err != nil {
			s.logger.Warn("skipping invalid practice", "id", p.ID, "err", err)
			continue
		}
		valid = append(valid, p)
	}
	if len(stored) > 0 && len(valid) == 0 {
		s.logger.Warn("no valid practices stored, using defaults")
		s.state = State{Practices: models.DefaultPractices(today)}
		s.repair = true
		return
	}
	s.state = State{Practices: valid}
}

// Today returns the current calendar day in the store's zone.
func (s *Store) Today() time.Time {
	return dates.Day(s.now().In(s.loc))
}

// Dispatch reduces a into the current state, records it, and persists the
// practices it touched. A persistence failure is logged and kept for
// PersistErr; the in-memory state stays updated.
func (s *Store) Dispatch(a Action) (Result, error) {
	if a.Today.IsZero() {
		a.Today = s.Today()
	} else {
		a.Today = dates.Day(a.Today)
	}
	if a.Kind == ActionStartChallenge && a.Practice == nil {
		p, err := models.NewChallenge(a.Type, a.Today)
		if err != nil {
			return Result{}, err
		}
		a.Practice = p
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	next, err := Reduce(prev, a)
	if err != nil {
		return Result{}, err
	}
	s.state = next
	s.log = append(s.log, Entry{Seq: len(s.log) + 1, At: s.now(), Action: a})
	s.persist(a, prev, next)

	return result(a, prev, next), nil
}

// persist writes the difference between prev and next to the repository.
func (s *Store) persist(a Action, prev, next State) {
	if s.repair {
		err := s.repo.ReplaceAll(next.Practices)
		s.persistErrorf(err, "repair practices")
		s.repair = err != nil
		return
	}
	if a.Kind == ActionResetAll {
		s.persistErrorf(s.repo.ReplaceAll(next.Practices), "reset practices")
		return
	}

	for _, p := range prev.Practices {
		if found, _ := next.Find(p.ID); found == nil {
			s.persistErrorf(s.repo.DeletePractice(p.ID), "delete practice %s", p.ShortID())
		}
	}
	for _, p := range next.Practices {
		if old, _ := prev.Find(p.ID); old != p {
			s.persistErrorf(s.repo.SavePractice(p), "save practice %s", p.ShortID())
		}
	}
}

func (s *Store) persistErrorf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	err = fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
	s.persistFailures++
	s.persistErr = err
	s.logger.Error("persist failed", "err", err)
}

func result(a Action, prev, next State) Result {
	var id uuid.UUID
	switch a.Kind {
	case ActionCreate, ActionStartChallenge:
		id = a.Practice.ID
	case ActionDelete, ActionResetAll, ActionImport:
		return Result{}
	default:
		id = a.PracticeID
	}

	p, _ := next.Find(id)
	r := Result{Practice: p.Clone()}
	if a.Date != "" {
		before, _ := prev.Find(id)
		r.Outcome = outcome(before, p, a.Date)
	}
	return r
}

func outcome(before, after *models.Practice, key string) models.Outcome {
	was, is := before.IsCompleted(key), after.IsCompleted(key)
	switch {
	case !was && is:
		return models.OutcomeCompleted
	case was && !is:
		return models.OutcomeUncompleted
	case before != after:
		return models.OutcomeUpdated
	default:
		return models.OutcomeUnchanged
	}
}

// Practices returns copies of every practice in creation order.
func (s *Store) Practices() []*models.Practice {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Practice, len(s.state.Practices))
	for i, p := range s.state.Practices {
		out[i] = p.Clone()
	}
	return out
}

// Get returns a copy of the practice matching a full id or unique prefix.
func (s *Store) Get(idOrPrefix string) (*models.Practice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := storage.FindByPrefix(s.state.Practices, idOrPrefix)
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// History returns the action log, oldest first.
func (s *Store) History() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Entry(nil), s.log...)
}

// PersistErr returns the most recent persistence failure, if any.
func (s *Store) PersistErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistErr
}

// PersistFailures counts persistence failures since the store was built.
func (s *Store) PersistFailures() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistFailures
}
