// ABOUTME: MCP resource implementations for practices.
// ABOUTME: Provides practice://summary and practice://today resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/practice/internal/dates"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	summaryURI = "practice://summary"
	todayURI   = "practice://today"
)

func (s *Server) registerResources() {
	// practice://summary - every practice with progress and streaks
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "Practice Summary",
		Description: "Progress, streaks, and window position for every practice",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)

	// practice://today - what can be recorded today
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today's Practice",
		Description: "Practices done today and the day each one has open next",
		MIMEType:    "application/json",
	}, s.handleTodayResource)
}

type todayEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	DoneToday bool   `json:"done_today"`
	NextOpen  string `json:"next_open,omitempty"`
	Behind    int    `json:"behind"`
}

// Resource handlers

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	today := s.store.Today()
	practices := s.store.Practices()

	views := make([]practiceView, 0, len(practices))
	totals := map[string]int{"practices": len(practices)}
	for _, p := range practices {
		v := viewOf(p, today)
		views = append(views, v)
		totals["completed_days"] += v.Completed
		if v.Finished {
			totals["finished"]++
		}
		if v.CurrentStreak > totals["best_current_streak"] {
			totals["best_current_streak"] = v.CurrentStreak
		}
	}

	result := map[string]any{
		"generated_at": time.Now().Format(time.RFC3339),
		"today":        dates.FormatDate(today),
		"practices":    views,
		"totals":       totals,
	}
	return jsonResource(summaryURI, result)
}

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	today := s.store.Today()
	key := dates.FormatDate(today)

	entries := []todayEntry{}
	done := 0
	for _, p := range s.store.Practices() {
		if !p.InWindow(key) {
			continue
		}
		sum := p.Summary(today)
		e := todayEntry{
			ID:        p.ShortID(),
			Name:      p.Name,
			DoneToday: p.IsCompleted(key),
			NextOpen:  sum.NextOpen,
		}
		if e.NextOpen != "" {
			e.Behind = dates.DaysBetween(dates.MustParse(e.NextOpen), today)
		}
		if e.DoneToday {
			done++
		}
		entries = append(entries, e)
	}

	result := map[string]any{
		"date":      key,
		"practices": entries,
		"counts": map[string]int{
			"active": len(entries),
			"done":   done,
		},
	}
	return jsonResource(todayURI, result)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
