// ABOUTME: Tests for the reflection capture form.
// ABOUTME: Drives the form against a real store over an in-memory slot.
package capture

import (
	"testing"
	"time"

	"github.com/harperreed/practice/internal/dates"
	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/slot"
	"github.com/harperreed/practice/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*store.Store, *models.Practice, time.Time) {
	t.Helper()
	repo, err := slot.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	today := dates.MustParse("2024-01-10")
	s := store.New(repo, store.WithClock(func() time.Time { return today }), store.WithLocation(time.UTC))

	p, err := models.NewPractice(models.TypeMeditation, "Sit", 30, dates.MustParse("2024-01-01"))
	require.NoError(t, err)
	res, err := s.Dispatch(store.Create(p))
	require.NoError(t, err)
	return s, res.Practice, today
}

func TestOpenLockedDay(t *testing.T) {
	_, p, today := setup(t)

	_, err := Open(p, dates.MustParse("2024-01-02"), today)
	assert.ErrorIs(t, err, store.ErrDayLocked)
}

func TestSubmitCompletesDay(t *testing.T) {
	s, p, today := setup(t)

	f, err := Open(p, dates.MustParse("2024-01-01"), today)
	require.NoError(t, err)
	assert.Equal(t, Editing, f.State())
	assert.False(t, f.Prefilled())

	require.NoError(t, f.Set("insight", "quiet mind"))
	require.NoError(t, f.Set("limiting-belief", "not enough time"))
	require.NoError(t, f.SetFlag(models.TypeSelfInquiry, true))

	outcome, err := f.Submit(s)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeCompleted, outcome)
	assert.Equal(t, Saved, f.State())

	got, err := s.Get(p.ShortID())
	require.NoError(t, err)
	assert.True(t, got.IsCompleted("2024-01-01"))
	r := got.Reflections["2024-01-01"]
	assert.Equal(t, "quiet mind", r.Insight)
	assert.Equal(t, "not enough time", r.LimitingBelief)
	assert.True(t, r.SelfInquiry)
}

func TestEditPrefillsAndUpdates(t *testing.T) {
	s, p, today := setup(t)
	_, err := s.Dispatch(store.SaveReflection(p.ID, "2024-01-01", models.Reflection{Event: "rain"}))
	require.NoError(t, err)
	p, err = s.Get(p.ID.String())
	require.NoError(t, err)

	f, err := Open(p, dates.MustParse("2024-01-01"), today)
	require.NoError(t, err)
	assert.True(t, f.Prefilled())
	assert.Equal(t, "rain", f.Reflection().Event)

	require.NoError(t, f.Set("emotion", "calm"))
	outcome, err := f.Submit(s)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeUpdated, outcome)

	got, err := s.Get(p.ShortID())
	require.NoError(t, err)
	assert.Equal(t, models.Reflection{Event: "rain", Emotion: "calm"}, got.Reflections["2024-01-01"])
	assert.Len(t, got.CompletedDates, 1)
}

func TestEmptySubmitUncompletes(t *testing.T) {
	s, p, today := setup(t)
	_, err := s.Dispatch(store.SaveReflection(p.ID, "2024-01-01", models.Reflection{Event: "rain"}))
	require.NoError(t, err)
	p, err = s.Get(p.ID.String())
	require.NoError(t, err)

	f, err := Open(p, dates.MustParse("2024-01-01"), today)
	require.NoError(t, err)
	require.NoError(t, f.Clear())

	outcome, err := f.Submit(s)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeUncompleted, outcome)
	assert.Empty(t, f.Practice().CompletedDates)
	assert.Zero(t, f.Practice().Progress)
}

func TestCancelLeavesStoreAlone(t *testing.T) {
	s, p, today := setup(t)
	before := len(s.History())

	f, err := Open(p, dates.MustParse("2024-01-01"), today)
	require.NoError(t, err)
	require.NoError(t, f.Set("event", "ignored"))
	require.NoError(t, f.Cancel())
	assert.Equal(t, Cancelled, f.State())

	_, err = f.Submit(s)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, f.Set("event", "x"), ErrClosed)
	assert.ErrorIs(t, f.Cancel(), ErrClosed)
	assert.Len(t, s.History(), before)
}

func TestSetValidation(t *testing.T) {
	_, p, today := setup(t)
	f, err := Open(p, dates.MustParse("2024-01-01"), today)
	require.NoError(t, err)

	assert.Error(t, f.Set("mood", "x"))
	assert.ErrorIs(t, f.SetFlag("yoga", true), models.ErrInvalidType)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "editing", Editing.String())
	assert.Equal(t, "cancelled", Cancelled.String())
	assert.Equal(t, "saved", Saved.String())
}
