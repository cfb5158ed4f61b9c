// ABOUTME: Data migration between practice storage backends.
// ABOUTME: Copies every practice document from source to destination.

package storage

import "fmt"

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Practices   int
	Reflections int
}

// MigrateData copies all practices from src to dst, replacing whatever dst
// held and marking it seeded.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	practices, err := src.ListPractices()
	if err != nil {
		return nil, fmt.Errorf("list source practices: %w", err)
	}

	summary := &MigrateSummary{}
	for _, p := range practices {
		p.Normalize()
		summary.Practices++
		summary.Reflections += len(p.Reflections)
	}

	if err := dst.ReplaceAll(practices); err != nil {
		return nil, fmt.Errorf("write destination: %w", err)
	}
	return summary, nil
}
