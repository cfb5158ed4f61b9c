// ABOUTME: Tests for data migration between storage backends.
// ABOUTME: Copies practices between two SQLite databases.
package storage

import (
	"testing"

	"github.com/harperreed/practice/internal/models"
)

func TestMigrateData(t *testing.T) {
	src := setupTestDB(t)
	dst := setupTestDB(t)

	ps := sampleExport(t)
	for _, p := range ps {
		if err := src.SavePractice(p); err != nil {
			t.Fatalf("SavePractice failed: %v", err)
		}
	}
	if err := dst.SavePractice(newTestPractice(t, "Stale")); err != nil {
		t.Fatalf("SavePractice failed: %v", err)
	}

	summary, err := MigrateData(src, dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Practices != 2 || summary.Reflections != 1 {
		t.Errorf("Unexpected summary: %+v", summary)
	}

	got, err := dst.ListPractices()
	if err != nil {
		t.Fatalf("ListPractices failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 practices in destination, got %v", names(got))
	}

	sit, err := dst.GetPractice(ps[0].ID.String())
	if err != nil {
		t.Fatalf("GetPractice failed: %v", err)
	}
	if len(sit.CompletedDates) != 2 || sit.Reflections["2024-01-02"].Reframe != "I have time" {
		t.Errorf("Practice details lost in migration: %+v", sit)
	}

	seeded, err := dst.Seeded()
	if err != nil || !seeded {
		t.Errorf("Destination should be seeded, got %v, %v", seeded, err)
	}
}

func TestMigrateDataEmptySource(t *testing.T) {
	src := setupTestDB(t)
	dst := setupTestDB(t)
	if err := dst.SavePractice(newTestPractice(t, "Stale")); err != nil {
		t.Fatalf("SavePractice failed: %v", err)
	}

	summary, err := MigrateData(src, dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Practices != 0 {
		t.Errorf("Expected 0 practices, got %d", summary.Practices)
	}

	got, _ := dst.ListPractices()
	if len(got) != 0 {
		t.Errorf("Expected empty destination, got %v", names(got))
	}
}

func TestMigrateDataRoundTrip(t *testing.T) {
	a := setupTestDB(t)
	b := setupTestDB(t)

	p := newTestPractice(t, "Trip")
	p.Type = models.TypeContemplation
	if err := a.SavePractice(p); err != nil {
		t.Fatalf("SavePractice failed: %v", err)
	}

	if _, err := MigrateData(a, b); err != nil {
		t.Fatalf("MigrateData a->b failed: %v", err)
	}
	if err := a.DeletePractice(p.ID); err != nil {
		t.Fatalf("DeletePractice failed: %v", err)
	}
	if _, err := MigrateData(b, a); err != nil {
		t.Fatalf("MigrateData b->a failed: %v", err)
	}

	got, err := a.GetPractice(p.ShortID())
	if err != nil {
		t.Fatalf("GetPractice after round-trip failed: %v", err)
	}
	if got.Type != models.TypeContemplation || got.Name != "Trip" {
		t.Errorf("Round-trip mismatch: %+v", got)
	}
}
