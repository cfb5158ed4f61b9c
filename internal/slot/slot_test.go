// ABOUTME: Tests for the badger-backed practice slot.
// ABOUTME: Uses in-memory badger so no files are left behind.
package slot

import (
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/harperreed/practice/internal/dates"
	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/storage"
	"github.com/harperreed/practice/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSlot(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newPractice(t *testing.T, name string) *models.Practice {
	t.Helper()
	p, err := models.NewPractice(models.TypeMeditation, name, 30, dates.MustParse("2024-01-01"))
	require.NoError(t, err)
	return p
}

func TestEmptySlot(t *testing.T) {
	s := setupSlot(t)

	seeded, err := s.Seeded()
	require.NoError(t, err)
	assert.False(t, seeded)

	ps, err := s.ListPractices()
	require.NoError(t, err)
	assert.Empty(t, ps)
}

func TestSaveListAndOverwrite(t *testing.T) {
	s := setupSlot(t)
	p := newPractice(t, "Sit")

	require.NoError(t, s.SavePractice(p))
	require.NoError(t, p.Complete("2024-01-01"))
	require.NoError(t, s.SavePractice(p))

	ps, err := s.ListPractices()
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, []string{"2024-01-01"}, ps[0].CompletedDates)
	assert.InDelta(t, 3.33, ps[0].Progress, 0.01)

	seeded, err := s.Seeded()
	require.NoError(t, err)
	assert.True(t, seeded, "any write creates the slot")
}

func TestGetByPrefix(t *testing.T) {
	s := setupSlot(t)
	p := newPractice(t, "Sit")
	require.NoError(t, s.SavePractice(p))

	got, err := s.GetPractice(p.ShortID())
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = s.GetPractice("zzzz")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestDelete(t *testing.T) {
	s := setupSlot(t)
	a, b := newPractice(t, "A"), newPractice(t, "B")
	require.NoError(t, s.ReplaceAll([]*models.Practice{a, b}))

	require.NoError(t, s.DeletePractice(a.ID))
	ps, err := s.ListPractices()
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "B", ps[0].Name)

	err = s.DeletePractice(uuid.New())
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestReplaceAllWithNothingKeepsSeeded(t *testing.T) {
	s := setupSlot(t)
	require.NoError(t, s.ReplaceAll(nil))

	seeded, err := s.Seeded()
	require.NoError(t, err)
	assert.True(t, seeded)

	ps, err := s.ListPractices()
	require.NoError(t, err)
	assert.Empty(t, ps)
}

func TestCorruptSlot(t *testing.T) {
	s := setupSlot(t)
	require.NoError(t, s.writeRaw([]byte("{not json")))

	_, err := s.ListPractices()
	assert.Error(t, err)

	// The next wholesale write repairs it.
	require.NoError(t, s.ReplaceAll([]*models.Practice{newPractice(t, "A")}))
	ps, err := s.ListPractices()
	require.NoError(t, err)
	assert.Len(t, ps, 1)
}

func TestCorruptSlotRepairedByFirstAction(t *testing.T) {
	s := setupSlot(t)
	require.NoError(t, s.writeRaw([]byte("{not json")))

	_, err := s.Seeded()
	assert.ErrorIs(t, err, storage.ErrCorrupt)

	today := dates.MustParse("2024-01-01")
	clock := store.WithClock(func() time.Time { return today })
	st := store.New(s, clock, store.WithLocation(time.UTC))
	ps := st.Practices()
	require.Len(t, ps, 3)

	_, err = st.Dispatch(store.CompleteDate(ps[0].ID, "2024-01-01"))
	require.NoError(t, err)
	require.NoError(t, st.PersistErr())

	reopened := store.New(s, clock, store.WithLocation(time.UTC))
	got, err := reopened.Get(ps[0].ID.String())
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01"}, got.CompletedDates)
	assert.Len(t, reopened.Practices(), 3)
}

// writeRaw stores raw bytes in the slot to simulate corrupt data.
func (s *Store) writeRaw(data []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(Key), data)
	})
}
