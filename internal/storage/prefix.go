// ABOUTME: ID prefix matching shared by backends and the in-memory store.
// ABOUTME: Resolves a full UUID or a unique prefix to a single practice.
package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/practice/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrAmbiguous = errors.New("ambiguous prefix")
	// ErrCorrupt marks stored data that could not be decoded.
	ErrCorrupt = errors.New("corrupt data")
)

// IsFullID reports whether s looks like a complete UUID string.
func IsFullID(s string) bool {
	return len(s) == 36 && strings.Count(s, "-") == 4
}

// FindByPrefix returns the single practice whose ID starts with idOrPrefix.
func FindByPrefix(ps []*models.Practice, idOrPrefix string) (*models.Practice, error) {
	idOrPrefix = strings.ToLower(strings.TrimSpace(idOrPrefix))
	if idOrPrefix == "" {
		return nil, fmt.Errorf("%w: empty id", ErrNotFound)
	}

	var match *models.Practice
	for _, p := range ps {
		if !strings.HasPrefix(p.ID.String(), idOrPrefix) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("%w %s: matches multiple practices", ErrAmbiguous, idOrPrefix)
		}
		match = p
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	return match, nil
}
