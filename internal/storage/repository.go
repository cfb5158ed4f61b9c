// ABOUTME: Repository interface for practice storage backends.
// ABOUTME: Whole-document persistence of practices plus a seeded marker.
package storage

import (
	"github.com/google/uuid"
	"github.com/harperreed/practice/internal/models"
)

// Repository defines the storage interface for practices.
// Writes overwrite the whole practice document; there is no field-level
// merge and no concurrency token, so the last write wins.
type Repository interface {
	ListPractices() ([]*models.Practice, error)
	GetPractice(idOrPrefix string) (*models.Practice, error)
	SavePractice(p *models.Practice) error
	DeletePractice(id uuid.UUID) error

	// ReplaceAll swaps the stored set for ps and marks the store seeded.
	ReplaceAll(ps []*models.Practice) error
	// Seeded reports whether the store has ever been initialized, which
	// distinguishes a first run from a user who deleted every practice.
	Seeded() (bool, error)

	Close() error
}
