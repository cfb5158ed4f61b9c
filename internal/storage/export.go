// ABOUTME: Export and import functionality for practice data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats over any backend.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/practice/internal/dates"
	"github.com/harperreed/practice/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the current export format version.
const ExportVersion = "1.0"

// ExportData represents the full export format for practice data.
type ExportData struct {
	Version    string             `json:"version" yaml:"version"`
	ExportedAt time.Time          `json:"exported_at" yaml:"exported_at"`
	Tool       string             `json:"tool" yaml:"tool"`
	Practices  []*models.Practice `json:"practices" yaml:"practices"`
}

// NewExportData wraps practices in the export envelope.
func NewExportData(ps []*models.Practice) *ExportData {
	if ps == nil {
		ps = []*models.Practice{}
	}
	return &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now(),
		Tool:       "practice",
		Practices:  ps,
	}
}

// ExportJSON renders practices as indented JSON.
func ExportJSON(ps []*models.Practice) ([]byte, error) {
	return json.MarshalIndent(NewExportData(ps), "", "  ")
}

// ExportYAML renders practices as YAML.
func ExportYAML(ps []*models.Practice) ([]byte, error) {
	return yaml.Marshal(NewExportData(ps))
}

// ExportMarkdown renders practices as a Markdown journal, one section per
// practice with a row for every completed day.
func ExportMarkdown(ps []*models.Practice, today time.Time) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Practice Export - %s\n\n", dates.FormatDate(today))
	fmt.Fprintf(&sb, "Generated: %s\n\n", time.Now().Format(time.RFC3339))

	for _, p := range ps {
		s := p.Summary(today)
		fmt.Fprintf(&sb, "## %s\n\n", p.Name)
		if p.Description != "" {
			fmt.Fprintf(&sb, "%s\n\n", p.Description)
		}
		fmt.Fprintf(&sb, "- Type: %s\n", p.Type.Title())
		fmt.Fprintf(&sb, "- Window: %s to %s (%d days)\n", p.StartDate, p.EndDate(), p.Duration)
		fmt.Fprintf(&sb, "- Progress: %d/%d (%.1f%%)\n", s.Completed, p.Duration, s.Percent)
		fmt.Fprintf(&sb, "- Streak: %d current, %d longest\n\n", s.CurrentStreak, s.LongestStreak)

		if len(p.CompletedDates) == 0 {
			sb.WriteString("_No completed days yet._\n\n")
			continue
		}

		sb.WriteString("| Date | Practices | Event | Emotion | Insight | Limiting belief | Reframe |\n")
		sb.WriteString("|------|-----------|-------|---------|---------|-----------------|---------|\n")
		for _, k := range p.CompletedDates {
			r := p.Reflections[k]
			var flags []string
			for _, f := range r.Flags() {
				flags = append(flags, f.Title())
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s | %s |\n",
				k, strings.Join(flags, ", "), mdCell(r.Event), mdCell(r.Emotion),
				mdCell(r.Insight), mdCell(r.LimitingBelief), mdCell(r.Reframe))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// ParseJSON decodes an export file and normalizes every practice in it.
// Records that fail validation after normalization are rejected.
func ParseJSON(data []byte) (*ExportData, error) {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	for _, p := range exportData.Practices {
		p.Normalize()
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("practice %s: %w", p.ID, err)
		}
	}
	return &exportData, nil
}

func mdCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}
