// ABOUTME: Practice CRUD operations for SQLite storage.
// ABOUTME: Stores each practice as a JSON document with indexed columns.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/practice/internal/models"
)

const seededKey = "seeded"

// ListPractices returns all practices ordered by creation time.
func (d *DB) ListPractices() ([]*models.Practice, error) {
	rows, err := d.db.Query(`SELECT document FROM practices ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list practices: %w", err)
	}
	defer rows.Close()

	var practices []*models.Practice
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan practice: %w", err)
		}
		p, err := decodePractice([]byte(doc))
		if err != nil {
			return nil, err
		}
		practices = append(practices, p)
	}
	return practices, rows.Err()
}

// GetPractice retrieves a practice by ID or ID prefix.
func (d *DB) GetPractice(idOrPrefix string) (*models.Practice, error) {
	id, err := d.resolvePracticeID(idOrPrefix)
	if err != nil {
		return nil, err
	}

	var doc string
	err = d.db.QueryRow(`SELECT document FROM practices WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	if err != nil {
		return nil, fmt.Errorf("get practice: %w", err)
	}
	return decodePractice([]byte(doc))
}

// SavePractice inserts or overwrites a practice document.
func (d *DB) SavePractice(p *models.Practice) error {
	return savePractice(d.db, p)
}

// DeletePractice removes a practice. Deleting a missing practice is an error.
func (d *DB) DeletePractice(id uuid.UUID) error {
	res, err := d.db.Exec(`DELETE FROM practices WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete practice: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete practice: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// ReplaceAll swaps every stored practice for ps in one transaction.
func (d *DB) ReplaceAll(ps []*models.Practice) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM practices`); err != nil {
		return fmt.Errorf("clear practices: %w", err)
	}
	for _, p := range ps {
		if err := savePractice(tx, p); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(
		`INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		seededKey, time.Now().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("mark seeded: %w", err)
	}
	return tx.Commit()
}

// Seeded reports whether ReplaceAll has ever run against this database.
func (d *DB) Seeded() (bool, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, seededKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read seeded marker: %w", err)
	}
	return true, nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func savePractice(db execer, p *models.Practice) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal practice: %w", err)
	}

	query := `
		INSERT INTO practices (id, practice_type, name, start_date, duration, progress, document, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			practice_type = excluded.practice_type,
			name = excluded.name,
			start_date = excluded.start_date,
			duration = excluded.duration,
			progress = excluded.progress,
			document = excluded.document,
			updated_at = excluded.updated_at
	`
	_, err = db.Exec(query,
		p.ID.String(),
		string(p.Type),
		p.Name,
		p.StartDate,
		p.Duration,
		p.Progress,
		string(doc),
		p.CreatedAt.UTC().Format(time.RFC3339Nano),
		p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save practice: %w", err)
	}
	return nil
}

func decodePractice(data []byte) (*models.Practice, error) {
	var p models.Practice
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal practice: %w", err)
	}
	return &p, nil
}

// resolvePracticeID resolves a full ID or unique prefix to a full ID.
func (d *DB) resolvePracticeID(idOrPrefix string) (string, error) {
	if IsFullID(idOrPrefix) {
		return idOrPrefix, nil
	}
	if idOrPrefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrNotFound)
	}

	rows, err := d.db.Query(`SELECT id FROM practices WHERE id LIKE ? || '%'`, idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("resolve practice ID: %w", err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan practice ID: %w", err)
		}
		matches = append(matches, id)
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("%w %s: matches multiple practices", ErrAmbiguous, idOrPrefix)
	}
	return matches[0], nil
}
