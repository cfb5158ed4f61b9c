// ABOUTME: MCP tool implementations for practices.
// ABOUTME: Each tool dispatches one store action or reads store state.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/practice/internal/capture"
	"github.com/harperreed/practice/internal/dates"
	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// list_practices
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_practices",
		Description: "List all practices with progress, streaks, and the next open day",
	}, s.handleListPractices)

	// get_practice
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_practice",
		Description: "Get a practice with its completed days and reflections",
	}, s.handleGetPractice)

	// create_practice
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_practice",
		Description: "Create a practice with a 30, 60, or 90 day window",
	}, s.handleCreatePractice)

	// start_challenge
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "start_challenge",
		Description: "Start a 30-day challenge for a practice type beginning today",
	}, s.handleStartChallenge)

	// complete_day
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "complete_day",
		Description: "Mark a day of a practice as done. Days must be completed in order and never in the future",
	}, s.handleCompleteDay)

	// uncomplete_day
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "uncomplete_day",
		Description: "Clear a completed day and its reflection",
	}, s.handleUncompleteDay)

	// save_reflection
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "save_reflection",
		Description: "Save the reflection for a day. A non-empty reflection completes the day; an empty one clears it",
	}, s.handleSaveReflection)

	// update_practice
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_practice",
		Description: "Edit a practice's name, description, color, type, or duration",
	}, s.handleUpdatePractice)

	// delete_practice
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_practice",
		Description: "Delete a practice by ID or ID prefix",
	}, s.handleDeletePractice)

	// reset_practices
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "reset_practices",
		Description: "Replace every practice with the three default practices starting today",
	}, s.handleResetPractices)
}

// Tool input/output types

type emptyInput struct{}

type idInput struct {
	ID string `json:"id" jsonschema:"Practice ID or ID prefix"`
}

type createPracticeInput struct {
	Type        string `json:"type" jsonschema:"Practice type (meditation, self-inquiry, contemplation, or any other label)"`
	Name        string `json:"name" jsonschema:"Display name"`
	Description string `json:"description,omitempty" jsonschema:"Optional description"`
	Duration    int    `json:"duration,omitempty" jsonschema:"Window length in days: 30, 60, or 90 (default 30)"`
	Color       string `json:"color,omitempty" jsonschema:"Display color, random when empty"`
	StartDate   string `json:"start_date,omitempty" jsonschema:"First day YYYY-MM-DD, defaults to today"`
}

type startChallengeInput struct {
	Type string `json:"type" jsonschema:"Practice type (meditation, self-inquiry, contemplation)"`
}

type dayInput struct {
	ID   string `json:"id" jsonschema:"Practice ID or ID prefix"`
	Date string `json:"date,omitempty" jsonschema:"Day YYYY-MM-DD, defaults to today"`
}

type saveReflectionInput struct {
	ID             string `json:"id" jsonschema:"Practice ID or ID prefix"`
	Date           string `json:"date,omitempty" jsonschema:"Day YYYY-MM-DD, defaults to today"`
	Event          string `json:"event,omitempty" jsonschema:"What happened"`
	Emotion        string `json:"emotion,omitempty" jsonschema:"What was felt"`
	Insight        string `json:"insight,omitempty" jsonschema:"What was seen"`
	LimitingBelief string `json:"limiting_belief,omitempty" jsonschema:"A belief that showed up"`
	Reframe        string `json:"reframe,omitempty" jsonschema:"A kinder way to hold it"`
	Meditation     bool   `json:"meditation,omitempty" jsonschema:"Meditated today"`
	SelfInquiry    bool   `json:"self_inquiry,omitempty" jsonschema:"Did self-inquiry today"`
	Contemplation  bool   `json:"contemplation,omitempty" jsonschema:"Contemplated today"`
}

type updatePracticeInput struct {
	ID          string  `json:"id" jsonschema:"Practice ID or ID prefix"`
	Name        *string `json:"name,omitempty" jsonschema:"New name"`
	Description *string `json:"description,omitempty" jsonschema:"New description"`
	Color       *string `json:"color,omitempty" jsonschema:"New color"`
	Type        *string `json:"type,omitempty" jsonschema:"New practice type"`
	Duration    *int    `json:"duration,omitempty" jsonschema:"New window length: 30, 60, or 90. Shrinking drops days outside the new window"`
}

type resetInput struct {
	Confirm bool `json:"confirm" jsonschema:"Must be true; every practice and its history is replaced"`
}

type practiceView struct {
	ID            string  `json:"id"`
	ShortID       string  `json:"short_id"`
	Type          string  `json:"type"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	Color         string  `json:"color"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	Duration      int     `json:"duration"`
	Completed     int     `json:"completed"`
	Progress      float64 `json:"progress"`
	CurrentStreak int     `json:"current_streak"`
	LongestStreak int     `json:"longest_streak"`
	DayNumber     int     `json:"day_number"`
	NextOpen      string  `json:"next_open,omitempty"`
	Finished      bool    `json:"finished"`
}

type listOutput struct {
	Today     string         `json:"today"`
	Practices []practiceView `json:"practices"`
}

type practiceDetail struct {
	Practice       practiceView                 `json:"practice"`
	CompletedDates []string                     `json:"completed_dates"`
	Reflections    map[string]models.Reflection `json:"reflections,omitempty"`
}

type practiceOutput struct {
	Practice practiceView `json:"practice"`
	Message  string       `json:"message"`
	Warning  string       `json:"warning,omitempty"`
}

type dayOutput struct {
	Practice practiceView `json:"practice"`
	Date     string       `json:"date"`
	Outcome  string       `json:"outcome"`
	Message  string       `json:"message"`
	Warning  string       `json:"warning,omitempty"`
}

type simpleOutput struct {
	Message string `json:"message"`
	Warning string `json:"warning,omitempty"`
}

// Tool handlers

func (s *Server) handleListPractices(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, listOutput, error) {
	today := s.store.Today()
	out := listOutput{Today: dates.FormatDate(today), Practices: []practiceView{}}
	for _, p := range s.store.Practices() {
		out.Practices = append(out.Practices, viewOf(p, today))
	}
	return nil, out, nil
}

func (s *Server) handleGetPractice(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, practiceDetail, error) {
	p, err := s.store.Get(input.ID)
	if err != nil {
		return nil, practiceDetail{}, err
	}
	return nil, practiceDetail{
		Practice:       viewOf(p, s.store.Today()),
		CompletedDates: p.CompletedDates,
		Reflections:    p.Reflections,
	}, nil
}

func (s *Server) handleCreatePractice(ctx context.Context, req *mcp.CallToolRequest, input createPracticeInput) (*mcp.CallToolResult, practiceOutput, error) {
	if input.Duration == 0 {
		input.Duration = models.DefaultDuration
	}
	start, err := s.resolveDate(input.StartDate)
	if err != nil {
		return nil, practiceOutput{}, err
	}

	p, err := models.NewPractice(models.PracticeType(strings.TrimSpace(input.Type)), input.Name, input.Duration, start)
	if err != nil {
		return nil, practiceOutput{}, err
	}
	p.WithDescription(input.Description).WithColor(input.Color)

	res, warning, err := s.dispatch(store.Create(p))
	if err != nil {
		return nil, practiceOutput{}, err
	}
	return nil, practiceOutput{
		Practice: viewOf(res.Practice, s.store.Today()),
		Message:  fmt.Sprintf("Created %s (ID: %s)", res.Practice.Name, res.Practice.ShortID()),
		Warning:  warning,
	}, nil
}

func (s *Server) handleStartChallenge(ctx context.Context, req *mcp.CallToolRequest, input startChallengeInput) (*mcp.CallToolResult, practiceOutput, error) {
	res, warning, err := s.dispatch(store.StartChallenge(models.PracticeType(strings.TrimSpace(input.Type))))
	if err != nil {
		return nil, practiceOutput{}, err
	}
	return nil, practiceOutput{
		Practice: viewOf(res.Practice, s.store.Today()),
		Message:  fmt.Sprintf("Started %s (ID: %s)", res.Practice.Name, res.Practice.ShortID()),
		Warning:  warning,
	}, nil
}

func (s *Server) handleCompleteDay(ctx context.Context, req *mcp.CallToolRequest, input dayInput) (*mcp.CallToolResult, dayOutput, error) {
	return s.dayAction(input, store.CompleteDate)
}

func (s *Server) handleUncompleteDay(ctx context.Context, req *mcp.CallToolRequest, input dayInput) (*mcp.CallToolResult, dayOutput, error) {
	return s.dayAction(input, store.UncompleteDate)
}

func (s *Server) dayAction(input dayInput, build func(id uuid.UUID, date string) store.Action) (*mcp.CallToolResult, dayOutput, error) {
	p, err := s.store.Get(input.ID)
	if err != nil {
		return nil, dayOutput{}, err
	}
	day, err := s.resolveDate(input.Date)
	if err != nil {
		return nil, dayOutput{}, err
	}
	key := dates.FormatDate(day)

	res, warning, err := s.dispatch(build(p.ID, key))
	if err != nil {
		return nil, dayOutput{}, err
	}
	return nil, dayOutput{
		Practice: viewOf(res.Practice, s.store.Today()),
		Date:     key,
		Outcome:  string(res.Outcome),
		Message:  fmt.Sprintf("%s %s: %s", res.Practice.Name, key, res.Outcome),
		Warning:  warning,
	}, nil
}

func (s *Server) handleSaveReflection(ctx context.Context, req *mcp.CallToolRequest, input saveReflectionInput) (*mcp.CallToolResult, dayOutput, error) {
	p, err := s.store.Get(input.ID)
	if err != nil {
		return nil, dayOutput{}, err
	}
	day, err := s.resolveDate(input.Date)
	if err != nil {
		return nil, dayOutput{}, err
	}

	form, err := capture.Open(p, day, s.store.Today())
	if err != nil {
		return nil, dayOutput{}, err
	}
	if err := form.Clear(); err != nil {
		return nil, dayOutput{}, err
	}
	fields := map[string]string{
		"event":           input.Event,
		"emotion":         input.Emotion,
		"insight":         input.Insight,
		"limiting_belief": input.LimitingBelief,
		"reframe":         input.Reframe,
	}
	for field, value := range fields {
		if err := form.Set(field, value); err != nil {
			return nil, dayOutput{}, err
		}
	}
	flags := map[models.PracticeType]bool{
		models.TypeMeditation:    input.Meditation,
		models.TypeSelfInquiry:   input.SelfInquiry,
		models.TypeContemplation: input.Contemplation,
	}
	for t, on := range flags {
		if err := form.SetFlag(t, on); err != nil {
			return nil, dayOutput{}, err
		}
	}

	failures := s.store.PersistFailures()
	outcome, err := form.Submit(s.store)
	if err != nil {
		return nil, dayOutput{}, err
	}
	after := form.Practice()
	return nil, dayOutput{
		Practice: viewOf(after, s.store.Today()),
		Date:     form.Day(),
		Outcome:  string(outcome),
		Message:  fmt.Sprintf("Reflection for %s %s: %s", after.Name, form.Day(), outcome),
		Warning:  s.warningSince(failures),
	}, nil
}

func (s *Server) handleUpdatePractice(ctx context.Context, req *mcp.CallToolRequest, input updatePracticeInput) (*mcp.CallToolResult, practiceOutput, error) {
	p, err := s.store.Get(input.ID)
	if err != nil {
		return nil, practiceOutput{}, err
	}

	edit := models.Edit{
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
		Duration:    input.Duration,
	}
	if input.Type != nil {
		t := models.PracticeType(strings.TrimSpace(*input.Type))
		edit.Type = &t
	}

	res, warning, err := s.dispatch(store.Update(p.ID, edit))
	if err != nil {
		return nil, practiceOutput{}, err
	}
	return nil, practiceOutput{
		Practice: viewOf(res.Practice, s.store.Today()),
		Message:  fmt.Sprintf("Updated %s (ID: %s)", res.Practice.Name, res.Practice.ShortID()),
		Warning:  warning,
	}, nil
}

func (s *Server) handleDeletePractice(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	p, err := s.store.Get(input.ID)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	_, warning, err := s.dispatch(store.Delete(p.ID))
	if err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted practice: %s (%s)", p.Name, p.ShortID()),
		Warning: warning,
	}, nil
}

func (s *Server) handleResetPractices(ctx context.Context, req *mcp.CallToolRequest, input resetInput) (*mcp.CallToolResult, simpleOutput, error) {
	if !input.Confirm {
		return nil, simpleOutput{}, errors.New("reset requires confirm=true")
	}
	_, warning, err := s.dispatch(store.ResetAll())
	if err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Reset to %d default practices starting %s", len(s.store.Practices()), dates.FormatDate(s.store.Today())),
		Warning: warning,
	}, nil
}

// dispatch runs a store action and reports a persistence warning if the
// action could not be saved.
func (s *Server) dispatch(a store.Action) (store.Result, string, error) {
	failures := s.store.PersistFailures()
	res, err := s.store.Dispatch(a)
	if err != nil {
		return store.Result{}, "", err
	}
	return res, s.warningSince(failures), nil
}

func (s *Server) warningSince(failures int) string {
	if s.store.PersistFailures() == failures {
		return ""
	}
	return fmt.Sprintf("change applied but not saved: %v", s.store.PersistErr())
}

func (s *Server) resolveDate(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return s.store.Today(), nil
	}
	return dates.ParseDate(strings.TrimSpace(value))
}

func viewOf(p *models.Practice, today time.Time) practiceView {
	sum := p.Summary(today)
	return practiceView{
		ID:            p.ID.String(),
		ShortID:       p.ShortID(),
		Type:          string(p.Type),
		Name:          p.Name,
		Description:   p.Description,
		Color:         p.Color,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate(),
		Duration:      p.Duration,
		Completed:     sum.Completed,
		Progress:      p.Progress,
		CurrentStreak: p.CurrentStreak,
		LongestStreak: p.LongestStreak,
		DayNumber:     sum.DayNumber,
		NextOpen:      sum.NextOpen,
		Finished:      sum.Finished,
	}
}
