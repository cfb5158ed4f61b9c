// ABOUTME: Practice model for fixed-length commitments like daily meditation.
// ABOUTME: Mutators keep completed dates, progress, and streaks consistent.
package models

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/harperreed/practice/internal/dates"
	"github.com/harperreed/practice/internal/progress"
)

var (
	ErrNameRequired    = errors.New("name is required")
	ErrInvalidDuration = errors.New("duration must be 30, 60, or 90 days")
	ErrInvalidType     = errors.New("practice type is required")
	ErrOutOfWindow     = errors.New("date is outside the practice window")
)

// PracticeType is the category of a practice. The set is open; the
// constants below are the ones the app knows how to describe.
type PracticeType string

const (
	TypeMeditation    PracticeType = "meditation"
	TypeSelfInquiry   PracticeType = "self-inquiry"
	TypeContemplation PracticeType = "contemplation"
)

// KnownTypes lists the built-in practice types.
var KnownTypes = []PracticeType{TypeMeditation, TypeSelfInquiry, TypeContemplation}

// TypeTitles maps known types to display titles.
var TypeTitles = map[PracticeType]string{
	TypeMeditation:    "Meditation",
	TypeSelfInquiry:   "Self-Inquiry",
	TypeContemplation: "Contemplation",
}

// Title returns a display title for the type.
func (t PracticeType) Title() string {
	if title, ok := TypeTitles[t]; ok {
		return title
	}
	r, size := utf8.DecodeRuneInString(string(t))
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + string(t)[size:]
}

// Durations are the allowed commitment lengths in days.
var Durations = []int{30, 60, 90}

// DefaultDuration is the length of a challenge and of the default practices.
const DefaultDuration = 30

// IsValidDuration checks a commitment length against Durations.
func IsValidDuration(days int) bool {
	for _, d := range Durations {
		if d == days {
			return true
		}
	}
	return false
}

// Palette holds the display colors assigned to new practices.
var Palette = []string{
	"#6366f1", "#8b5cf6", "#ec4899", "#f43f5e", "#f97316",
	"#eab308", "#22c55e", "#14b8a6", "#06b6d4", "#3b82f6",
}

// RandomColor picks a palette color.
func RandomColor() string {
	return Palette[rand.IntN(len(Palette))]
}

// Practice is a trackable commitment over a fixed window of days.
type Practice struct {
	ID             uuid.UUID             `json:"id" yaml:"id"`
	Type           PracticeType          `json:"type" yaml:"type"`
	Name           string                `json:"name" yaml:"name"`
	Description    string                `json:"description,omitempty" yaml:"description,omitempty"`
	Color          string                `json:"color" yaml:"color"`
	StartDate      string                `json:"start_date" yaml:"start_date"`
	Duration       int                   `json:"duration" yaml:"duration"`
	CompletedDates []string              `json:"completed_dates" yaml:"completed_dates"`
	Progress       float64               `json:"progress" yaml:"progress"`
	CurrentStreak  int                   `json:"current_streak" yaml:"current_streak"`
	LongestStreak  int                   `json:"longest_streak" yaml:"longest_streak"`
	Reflections    map[string]Reflection `json:"reflections,omitempty" yaml:"reflections,omitempty"`
	CreatedAt      time.Time             `json:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at" yaml:"updated_at"`
}

// NewPractice creates a practice starting on start with no completed days.
func NewPractice(practiceType PracticeType, name string, duration int, start time.Time) (*Practice, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(string(practiceType)) == "" {
		return nil, ErrInvalidType
	}
	if !IsValidDuration(duration) {
		return nil, ErrInvalidDuration
	}

	now := time.Now()
	return &Practice{
		ID:             uuid.New(),
		Type:           practiceType,
		Name:           name,
		Color:          RandomColor(),
		StartDate:      dates.FormatDate(start),
		Duration:       duration,
		CompletedDates: []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// NewChallenge creates the 30-day challenge shortcut for a practice type.
func NewChallenge(practiceType PracticeType, start time.Time) (*Practice, error) {
	name := fmt.Sprintf("%d-Day %s Challenge", DefaultDuration, practiceType.Title())
	p, err := NewPractice(practiceType, name, DefaultDuration, start)
	if err != nil {
		return nil, err
	}
	return p.WithDescription(challengeDescriptions[practiceType]), nil
}

var challengeDescriptions = map[PracticeType]string{
	TypeMeditation:    "Sit every day and watch the breath.",
	TypeSelfInquiry:   "Ask \"Who am I?\" and rest in what remains.",
	TypeContemplation: "Spend time each day with a single question or text.",
}

var defaultNamespace = uuid.MustParse("5b0c3c1e-6f7a-4d2b-9a3e-0d4c1f6e8b21")

// DefaultPractices returns the three built-in practices starting today.
// Their IDs are stable so a reset keeps the same records.
func DefaultPractices(today time.Time) []*Practice {
	colors := map[PracticeType]string{
		TypeMeditation:    "#6366f1",
		TypeSelfInquiry:   "#14b8a6",
		TypeContemplation: "#f97316",
	}
	now := time.Now()
	defaults := make([]*Practice, 0, len(KnownTypes))
	for _, t := range KnownTypes {
		defaults = append(defaults, &Practice{
			ID:             uuid.NewSHA1(defaultNamespace, []byte(t)),
			Type:           t,
			Name:           t.Title(),
			Description:    challengeDescriptions[t],
			Color:          colors[t],
			StartDate:      dates.FormatDate(today),
			Duration:       DefaultDuration,
			CompletedDates: []string{},
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return defaults
}

// WithDescription sets the description.
func (p *Practice) WithDescription(desc string) *Practice {
	p.Description = strings.TrimSpace(desc)
	return p
}

// WithColor sets the display color.
func (p *Practice) WithColor(color string) *Practice {
	if color != "" {
		p.Color = color
	}
	return p
}

// ShortID returns the 8-character ID prefix shown in listings.
func (p *Practice) ShortID() string {
	return p.ID.String()[:8]
}

// Start returns the first day of the window.
func (p *Practice) Start() time.Time {
	d, err := dates.ParseDate(p.StartDate)
	if err != nil {
		return time.Time{}
	}
	return d
}

// EndDate returns the key of the last day of the window.
func (p *Practice) EndDate() string {
	return dates.FormatDate(dates.AddDays(p.Start(), p.Duration-1))
}

// Window returns the gating/progress view of the practice.
func (p *Practice) Window() progress.Window {
	return progress.Window{Start: p.Start(), Duration: p.Duration, Completed: p.CompletedDates}
}

// InWindow reports whether a day key lies inside the window.
func (p *Practice) InWindow(key string) bool {
	d, err := dates.ParseDate(key)
	if err != nil {
		return false
	}
	_, ok := p.Window().Index(d)
	return ok
}

// IsCompleted reports whether key is a completed day.
func (p *Practice) IsCompleted(key string) bool {
	i := sort.SearchStrings(p.CompletedDates, key)
	return i < len(p.CompletedDates) && p.CompletedDates[i] == key
}

// CanRecord applies the day-gating policy to day as of today.
func (p *Practice) CanRecord(day, today time.Time) bool {
	return progress.CanRecord(p.Window(), day, today)
}

// Summary derives display progress as of today.
func (p *Practice) Summary(today time.Time) progress.Summary {
	return progress.Summarize(p.Window(), today)
}

// Complete marks key as done. Completing an already completed day is a no-op.
func (p *Practice) Complete(key string) error {
	if !p.InWindow(key) {
		return fmt.Errorf("%w: %s not in %s..%s", ErrOutOfWindow, key, p.StartDate, p.EndDate())
	}
	if p.IsCompleted(key) {
		return nil
	}
	p.CompletedDates = append(p.CompletedDates, key)
	sort.Strings(p.CompletedDates)
	p.touch()
	return nil
}

// Uncomplete removes key and any reflection stored under it.
// It reports whether the day had been completed.
func (p *Practice) Uncomplete(key string) bool {
	i := sort.SearchStrings(p.CompletedDates, key)
	if i >= len(p.CompletedDates) || p.CompletedDates[i] != key {
		return false
	}
	p.CompletedDates = append(p.CompletedDates[:i:i], p.CompletedDates[i+1:]...)
	delete(p.Reflections, key)
	p.touch()
	return true
}

// Outcome is the effect a saved reflection had on a practice.
type Outcome string

const (
	OutcomeCompleted   Outcome = "completed"
	OutcomeUpdated     Outcome = "updated"
	OutcomeUncompleted Outcome = "uncompleted"
	OutcomeUnchanged   Outcome = "unchanged"
)

// SaveReflection records r for key. A non-empty reflection completes the day
// (or overwrites the stored one); an empty reflection un-completes it.
func (p *Practice) SaveReflection(key string, r Reflection) (Outcome, error) {
	if r.IsEmpty() {
		if p.Uncomplete(key) {
			return OutcomeUncompleted, nil
		}
		return OutcomeUnchanged, nil
	}

	outcome := OutcomeUpdated
	if !p.IsCompleted(key) {
		if err := p.Complete(key); err != nil {
			return "", err
		}
		outcome = OutcomeCompleted
	}
	if p.Reflections == nil {
		p.Reflections = make(map[string]Reflection)
	}
	p.Reflections[key] = r.Normalize()
	p.UpdatedAt = time.Now()
	return outcome, nil
}

// Edit holds optional changes to a practice's editable fields.
type Edit struct {
	Name        *string
	Description *string
	Color       *string
	Type        *PracticeType
	Duration    *int
}

// Apply validates and applies e. Shrinking the duration drops completed
// days (and reflections) that no longer fit the window.
func (p *Practice) Apply(e Edit) error {
	if e.Name != nil && strings.TrimSpace(*e.Name) == "" {
		return ErrNameRequired
	}
	if e.Type != nil && strings.TrimSpace(string(*e.Type)) == "" {
		return ErrInvalidType
	}
	if e.Duration != nil && !IsValidDuration(*e.Duration) {
		return ErrInvalidDuration
	}

	if e.Name != nil {
		p.Name = strings.TrimSpace(*e.Name)
	}
	if e.Description != nil {
		p.Description = strings.TrimSpace(*e.Description)
	}
	if e.Color != nil && *e.Color != "" {
		p.Color = *e.Color
	}
	if e.Type != nil {
		p.Type = *e.Type
	}
	if e.Duration != nil {
		p.Duration = *e.Duration
		p.dropOutOfWindow()
	}
	p.touch()
	return nil
}

// Restart moves the window to start today and clears the history.
func (p *Practice) Restart(today time.Time) {
	p.StartDate = dates.FormatDate(today)
	p.CompletedDates = []string{}
	p.Reflections = nil
	p.touch()
}

// Recompute derives progress and streaks from the completed days.
func (p *Practice) Recompute() {
	p.Progress = progress.Percent(len(p.CompletedDates), p.Duration)
	p.CurrentStreak, p.LongestStreak = progress.Streaks(p.CompletedDates)
}

// Normalize repairs a loaded record: sorts and dedupes completed days, drops
// out-of-window days and orphaned reflections, and recomputes derived fields.
func (p *Practice) Normalize() {
	seen := make(map[string]bool, len(p.CompletedDates))
	kept := make([]string, 0, len(p.CompletedDates))
	for _, k := range p.CompletedDates {
		if seen[k] || !p.InWindow(k) {
			continue
		}
		seen[k] = true
		kept = append(kept, k)
	}
	sort.Strings(kept)
	p.CompletedDates = kept
	for k := range p.Reflections {
		if !seen[k] {
			delete(p.Reflections, k)
		}
	}
	p.Recompute()
}

// Validate checks the record-level invariants.
func (p *Practice) Validate() error {
	if p.ID == uuid.Nil {
		return errors.New("practice id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(string(p.Type)) == "" {
		return ErrInvalidType
	}
	if !IsValidDuration(p.Duration) {
		return ErrInvalidDuration
	}
	if _, err := dates.ParseDate(p.StartDate); err != nil {
		return fmt.Errorf("start date: %w", err)
	}
	for i, k := range p.CompletedDates {
		if !p.InWindow(k) {
			return fmt.Errorf("%w: %s", ErrOutOfWindow, k)
		}
		if i > 0 && p.CompletedDates[i-1] >= k {
			return fmt.Errorf("completed dates must be sorted and unique: %s", k)
		}
	}
	for k := range p.Reflections {
		if !p.IsCompleted(k) {
			return fmt.Errorf("reflection for %s has no completed day", k)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (p *Practice) Clone() *Practice {
	c := *p
	c.CompletedDates = append([]string(nil), p.CompletedDates...)
	if c.CompletedDates == nil {
		c.CompletedDates = []string{}
	}
	if p.Reflections != nil {
		c.Reflections = make(map[string]Reflection, len(p.Reflections))
		for k, r := range p.Reflections {
			c.Reflections[k] = r
		}
	}
	return &c
}

func (p *Practice) dropOutOfWindow() {
	kept := make([]string, 0, len(p.CompletedDates))
	for _, k := range p.CompletedDates {
		if p.InWindow(k) {
			kept = append(kept, k)
		} else {
			delete(p.Reflections, k)
		}
	}
	p.CompletedDates = kept
}

// touch recomputes derived fields after a mutation.
func (p *Practice) touch() {
	p.Recompute()
	p.UpdatedAt = time.Now()
}
