// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Runs handlers against a store backed by an in-memory slot.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/practice/internal/dates"
	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/slot"
	"github.com/harperreed/practice/internal/storage"
	"github.com/harperreed/practice/internal/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// setupTestServer builds a server whose clock is fixed at today.
func setupTestServer(t *testing.T, today string) *Server {
	t.Helper()

	repo, err := slot.OpenInMemory()
	if err != nil {
		t.Fatalf("Failed to open slot: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	day := dates.MustParse(today)
	st := store.New(repo, store.WithClock(func() time.Time { return day }), store.WithLocation(time.UTC))

	server, err := NewServer(st)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func createTestPractice(t *testing.T, s *Server, start string) practiceView {
	t.Helper()

	_, out, err := s.handleCreatePractice(context.Background(), &mcp.CallToolRequest{}, createPracticeInput{
		Type:      "meditation",
		Name:      "Sit",
		StartDate: start,
	})
	if err != nil {
		t.Fatalf("create_practice failed: %v", err)
	}
	return out.Practice
}

func TestNewServer(t *testing.T) {
	server := setupTestServer(t, "2024-01-01")

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.store == nil {
		t.Error("Expected non-nil store")
	}
}

func TestHandleListPracticesDefaults(t *testing.T) {
	server := setupTestServer(t, "2024-05-01")

	_, out, err := server.handleListPractices(context.Background(), &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("list_practices failed: %v", err)
	}
	if out.Today != "2024-05-01" {
		t.Errorf("Today = %s", out.Today)
	}
	if len(out.Practices) != 3 {
		t.Fatalf("Expected 3 default practices, got %d", len(out.Practices))
	}
	for _, p := range out.Practices {
		if p.NextOpen != "2024-05-01" || p.DayNumber != 1 || p.Progress != 0 {
			t.Errorf("Unexpected default view: %+v", p)
		}
	}
}

func TestHandleCreatePractice(t *testing.T) {
	server := setupTestServer(t, "2024-01-10")
	ctx := context.Background()

	tests := []struct {
		name      string
		input     createPracticeInput
		wantErr   error
		errSubstr string
	}{
		{
			name:  "defaults to 30 days from today",
			input: createPracticeInput{Type: "contemplation", Name: "Koan"},
		},
		{
			name:  "explicit duration and start",
			input: createPracticeInput{Type: "journaling", Name: "Pages", Duration: 90, StartDate: "2024-01-01", Color: "#000000"},
		},
		{
			name:    "missing name",
			input:   createPracticeInput{Type: "meditation", Name: "  "},
			wantErr: models.ErrNameRequired,
		},
		{
			name:    "bad duration",
			input:   createPracticeInput{Type: "meditation", Name: "Sit", Duration: 45},
			wantErr: models.ErrInvalidDuration,
		},
		{
			name:      "bad start date",
			input:     createPracticeInput{Type: "meditation", Name: "Sit", StartDate: "01/01/2024"},
			errSubstr: "invalid date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleCreatePractice(ctx, &mcp.CallToolRequest{}, tt.input)
			if tt.wantErr != nil || tt.errSubstr != "" {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				if tt.errSubstr != "" && !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("Error %q should contain %q", err, tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if out.Practice.Name != tt.input.Name {
				t.Errorf("Name = %q", out.Practice.Name)
			}
			if tt.input.Duration == 0 && out.Practice.Duration != 30 {
				t.Errorf("Default duration = %d", out.Practice.Duration)
			}
			if tt.input.StartDate == "" && out.Practice.StartDate != "2024-01-10" {
				t.Errorf("Default start = %s", out.Practice.StartDate)
			}
			if tt.input.Color != "" && out.Practice.Color != tt.input.Color {
				t.Errorf("Color = %s", out.Practice.Color)
			}
		})
	}
}

func TestHandleStartChallenge(t *testing.T) {
	server := setupTestServer(t, "2024-02-01")

	_, out, err := server.handleStartChallenge(context.Background(), &mcp.CallToolRequest{}, startChallengeInput{Type: "self-inquiry"})
	if err != nil {
		t.Fatalf("start_challenge failed: %v", err)
	}
	if out.Practice.Name != "30-Day Self-Inquiry Challenge" {
		t.Errorf("Name = %q", out.Practice.Name)
	}
	if out.Practice.StartDate != "2024-02-01" {
		t.Errorf("StartDate = %s", out.Practice.StartDate)
	}
}

func TestCompleteDayGating(t *testing.T) {
	server := setupTestServer(t, "2024-01-10")
	ctx := context.Background()
	p := createTestPractice(t, server, "2024-01-01")

	_, _, err := server.handleCompleteDay(ctx, &mcp.CallToolRequest{}, dayInput{ID: p.ShortID, Date: "2024-01-02"})
	if !errors.Is(err, store.ErrDayLocked) {
		t.Errorf("Expected ErrDayLocked, got %v", err)
	}

	_, out, err := server.handleCompleteDay(ctx, &mcp.CallToolRequest{}, dayInput{ID: p.ShortID, Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("complete_day failed: %v", err)
	}
	if out.Outcome != string(models.OutcomeCompleted) {
		t.Errorf("Outcome = %s", out.Outcome)
	}
	if out.Practice.NextOpen != "2024-01-02" {
		t.Errorf("NextOpen = %s", out.Practice.NextOpen)
	}
	if out.Practice.Progress < 3.33 || out.Practice.Progress > 3.34 {
		t.Errorf("Progress = %v", out.Practice.Progress)
	}
}

func TestCompleteDayDefaultsToToday(t *testing.T) {
	server := setupTestServer(t, "2024-01-01")
	p := createTestPractice(t, server, "")

	_, out, err := server.handleCompleteDay(context.Background(), &mcp.CallToolRequest{}, dayInput{ID: p.ID})
	if err != nil {
		t.Fatalf("complete_day failed: %v", err)
	}
	if out.Date != "2024-01-01" {
		t.Errorf("Date = %s, want today", out.Date)
	}
}

func TestUncompleteDay(t *testing.T) {
	server := setupTestServer(t, "2024-01-10")
	ctx := context.Background()
	p := createTestPractice(t, server, "2024-01-01")

	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		if _, _, err := server.handleCompleteDay(ctx, &mcp.CallToolRequest{}, dayInput{ID: p.ID, Date: d}); err != nil {
			t.Fatalf("complete_day %s failed: %v", d, err)
		}
	}

	_, out, err := server.handleUncompleteDay(ctx, &mcp.CallToolRequest{}, dayInput{ID: p.ID, Date: "2024-01-02"})
	if err != nil {
		t.Fatalf("uncomplete_day failed: %v", err)
	}
	if out.Outcome != string(models.OutcomeUncompleted) {
		t.Errorf("Outcome = %s", out.Outcome)
	}
	if out.Practice.Completed != 2 || out.Practice.NextOpen != "2024-01-04" {
		t.Errorf("Unexpected view after uncomplete: %+v", out.Practice)
	}
}

func TestHandleSaveReflection(t *testing.T) {
	server := setupTestServer(t, "2024-01-10")
	ctx := context.Background()
	p := createTestPractice(t, server, "2024-01-01")

	_, out, err := server.handleSaveReflection(ctx, &mcp.CallToolRequest{}, saveReflectionInput{
		ID:         p.ID,
		Date:       "2024-01-01",
		Insight:    "the mind wanders",
		Meditation: true,
	})
	if err != nil {
		t.Fatalf("save_reflection failed: %v", err)
	}
	if out.Outcome != string(models.OutcomeCompleted) {
		t.Errorf("Outcome = %s", out.Outcome)
	}

	_, detail, err := server.handleGetPractice(ctx, &mcp.CallToolRequest{}, idInput{ID: p.ShortID})
	if err != nil {
		t.Fatalf("get_practice failed: %v", err)
	}
	r := detail.Reflections["2024-01-01"]
	if r.Insight != "the mind wanders" || !r.Meditation {
		t.Errorf("Reflection = %+v", r)
	}

	_, out, err = server.handleSaveReflection(ctx, &mcp.CallToolRequest{}, saveReflectionInput{ID: p.ID, Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("empty save_reflection failed: %v", err)
	}
	if out.Outcome != string(models.OutcomeUncompleted) || out.Practice.Completed != 0 {
		t.Errorf("Empty reflection should uncomplete: %+v", out)
	}
}

func TestHandleSaveReflectionLocked(t *testing.T) {
	server := setupTestServer(t, "2024-01-10")
	p := createTestPractice(t, server, "2024-01-01")

	_, _, err := server.handleSaveReflection(context.Background(), &mcp.CallToolRequest{}, saveReflectionInput{
		ID: p.ID, Date: "2024-01-05", Event: "skipped ahead",
	})
	if !errors.Is(err, store.ErrDayLocked) {
		t.Errorf("Expected ErrDayLocked, got %v", err)
	}
}

func TestHandleUpdatePractice(t *testing.T) {
	server := setupTestServer(t, "2024-01-10")
	ctx := context.Background()
	p := createTestPractice(t, server, "2024-01-01")

	name := "Evening sit"
	duration := 60
	_, out, err := server.handleUpdatePractice(ctx, &mcp.CallToolRequest{}, updatePracticeInput{
		ID: p.ShortID, Name: &name, Duration: &duration,
	})
	if err != nil {
		t.Fatalf("update_practice failed: %v", err)
	}
	if out.Practice.Name != name || out.Practice.Duration != 60 || out.Practice.EndDate != "2024-02-29" {
		t.Errorf("Unexpected update result: %+v", out.Practice)
	}

	blank := ""
	if _, _, err := server.handleUpdatePractice(ctx, &mcp.CallToolRequest{}, updatePracticeInput{ID: p.ShortID, Name: &blank}); !errors.Is(err, models.ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}
}

func TestHandleDeletePractice(t *testing.T) {
	server := setupTestServer(t, "2024-01-10")
	ctx := context.Background()
	p := createTestPractice(t, server, "2024-01-01")

	if _, _, err := server.handleDeletePractice(ctx, &mcp.CallToolRequest{}, idInput{ID: p.ShortID}); err != nil {
		t.Fatalf("delete_practice failed: %v", err)
	}
	_, _, err := server.handleGetPractice(ctx, &mcp.CallToolRequest{}, idInput{ID: p.ShortID})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestHandleResetPractices(t *testing.T) {
	server := setupTestServer(t, "2024-01-10")
	ctx := context.Background()
	createTestPractice(t, server, "2024-01-01")

	if _, _, err := server.handleResetPractices(ctx, &mcp.CallToolRequest{}, resetInput{}); err == nil {
		t.Error("Expected error without confirm")
	}

	_, out, err := server.handleResetPractices(ctx, &mcp.CallToolRequest{}, resetInput{Confirm: true})
	if err != nil {
		t.Fatalf("reset_practices failed: %v", err)
	}
	if !strings.Contains(out.Message, "3 default practices") {
		t.Errorf("Message = %q", out.Message)
	}

	_, list, _ := server.handleListPractices(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if len(list.Practices) != 3 {
		t.Errorf("Expected 3 practices after reset, got %d", len(list.Practices))
	}
	for _, p := range list.Practices {
		if p.StartDate != "2024-01-10" || p.Completed != 0 {
			t.Errorf("Reset practice not at day 0: %+v", p)
		}
	}
}

func TestHandleSummaryResource(t *testing.T) {
	server := setupTestServer(t, "2024-01-10")
	ctx := context.Background()

	result, err := server.handleSummaryResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.Contents) == 0 {
		t.Fatal("Expected non-empty contents")
	}
	if result.Contents[0].URI != "practice://summary" {
		t.Errorf("URI = %s, want practice://summary", result.Contents[0].URI)
	}

	var body struct {
		Today     string         `json:"today"`
		Practices []practiceView `json:"practices"`
		Totals    map[string]int `json:"totals"`
	}
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body.Today != "2024-01-10" || len(body.Practices) != 3 || body.Totals["practices"] != 3 {
		t.Errorf("Unexpected summary: %+v", body)
	}
}

func TestHandleTodayResource(t *testing.T) {
	server := setupTestServer(t, "2024-01-10")
	ctx := context.Background()
	p := createTestPractice(t, server, "2024-01-01")
	createTestPractice(t, server, "2024-02-01")

	if _, _, err := server.handleCompleteDay(ctx, &mcp.CallToolRequest{}, dayInput{ID: p.ID, Date: "2024-01-01"}); err != nil {
		t.Fatalf("complete_day failed: %v", err)
	}

	result, err := server.handleTodayResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Contents[0].URI != "practice://today" {
		t.Errorf("URI = %s, want practice://today", result.Contents[0].URI)
	}

	var body struct {
		Date      string         `json:"date"`
		Practices []todayEntry   `json:"practices"`
		Counts    map[string]int `json:"counts"`
	}
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	// Three defaults starting today plus the practice from 2024-01-01; the
	// one starting in February is not active yet.
	if body.Counts["active"] != 4 {
		t.Errorf("active = %d, want 4", body.Counts["active"])
	}
	for _, e := range body.Practices {
		if e.ID == p.ShortID && (e.NextOpen != "2024-01-02" || e.Behind != 8) {
			t.Errorf("Unexpected entry: %+v", e)
		}
	}
}
