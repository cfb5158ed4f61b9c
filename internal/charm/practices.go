// ABOUTME: Practice CRUD operations for Charm KV storage.
// ABOUTME: Uses type-prefixed keys and client-side ordering.
package charm

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/storage"
)

var _ storage.Repository = (*Client)(nil)

func practiceKey(id uuid.UUID) []byte {
	return []byte(PracticePrefix + id.String())
}

// ListPractices retrieves all practices ordered by creation time.
// Documents that fail to decode are skipped.
func (c *Client) ListPractices() ([]*models.Practice, error) {
	allData, err := c.listByPrefix(PracticePrefix)
	if err != nil {
		return nil, fmt.Errorf("list practices: %w", err)
	}

	practices := make([]*models.Practice, 0, len(allData))
	for _, data := range allData {
		p, err := unmarshalJSON[models.Practice](data)
		if err != nil {
			continue
		}
		practices = append(practices, p)
	}

	sort.SliceStable(practices, func(i, j int) bool {
		if practices[i].CreatedAt.Equal(practices[j].CreatedAt) {
			return practices[i].ID.String() < practices[j].ID.String()
		}
		return practices[i].CreatedAt.Before(practices[j].CreatedAt)
	})
	return practices, nil
}

// GetPractice retrieves a practice by ID or ID prefix.
func (c *Client) GetPractice(idOrPrefix string) (*models.Practice, error) {
	data, err := c.getByIDPrefix(PracticePrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get practice: %w", err)
	}

	p, err := unmarshalJSON[models.Practice](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal practice: %w", err)
	}
	return p, nil
}

// SavePractice overwrites the practice document.
func (c *Client) SavePractice(p *models.Practice) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal practice: %w", err)
	}
	return c.write(func(db KV) error {
		return db.Set(practiceKey(p.ID), data)
	})
}

// DeletePractice removes a practice document.
func (c *Client) DeletePractice(id uuid.UUID) error {
	ok, err := c.has(string(practiceKey(id)))
	if err != nil {
		return fmt.Errorf("delete practice: %w", err)
	}
	if !ok {
		return fmt.Errorf("delete practice: %w: %s", storage.ErrNotFound, id)
	}
	return c.write(func(db KV) error {
		return db.Delete(practiceKey(id))
	})
}

// ReplaceAll deletes every practice document, writes ps, and sets the
// seeded marker. Sync runs once at the end.
func (c *Client) ReplaceAll(ps []*models.Practice) error {
	docs := make(map[string][]byte, len(ps))
	for _, p := range ps {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal practice: %w", err)
		}
		docs[string(practiceKey(p.ID))] = data
	}

	return c.write(func(db KV) error {
		existing, err := c.keysWithPrefix(PracticePrefix)
		if err != nil {
			return err
		}
		for _, key := range existing {
			if _, keep := docs[string(key)]; keep {
				continue
			}
			if err := db.Delete(key); err != nil {
				return fmt.Errorf("delete %s: %w", key, err)
			}
		}
		for key, data := range docs {
			if err := db.Set([]byte(key), data); err != nil {
				return fmt.Errorf("write %s: %w", key, err)
			}
		}
		return db.Set([]byte(SeededKey), []byte(time.Now().Format(time.RFC3339)))
	})
}

// Seeded reports whether the seeded marker exists.
func (c *Client) Seeded() (bool, error) {
	return c.has(SeededKey)
}
