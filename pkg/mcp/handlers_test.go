package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/thankful/pkg/db"
	"github.com/unowned-ai/thankful/pkg/examples"
	"github.com/unowned-ai/thankful/pkg/photos"
	"github.com/unowned-ai/thankful/pkg/reminders"
	"github.com/unowned-ai/thankful/pkg/thanks"
)

func newTestServer(t *testing.T, autoGrant bool) *ThankfulMCPServer {
	t.Helper()

	conn, err := db.OpenDBConnection(":memory:", true, "NORMAL")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.InitializeSchema(conn, db.TargetSchemaVersion))

	catalog, err := examples.Load("")
	require.NoError(t, err)

	return NewThankfulMCPServer(Deps{
		Store:     thanks.NewStore(conn, photos.NewDiskStore(t.TempDir()), nil),
		Scheduler: reminders.NewScheduler(reminders.NewSQLiteNotifier(conn, autoGrant, nil), reminders.Content{}, nil),
		Examples:  catalog,
	})
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	var request mcp.CallToolRequest
	request.Params.Name = name
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func decode[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()
	require.False(t, result.IsError, resultText(t, result))
	var v T
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &v))
	return v
}

func TestPing(t *testing.T) {
	s := newTestServer(t, true)

	result, err := s.handlePing(context.Background(), callRequest("ping", nil))
	require.NoError(t, err)
	assert.Equal(t, "pong_thankful", resultText(t, result))
}

func TestAddListGetThanks(t *testing.T) {
	s := newTestServer(t, true)
	ctx := context.Background()

	result, err := s.handleAddThanks(ctx, callRequest("add_thanks", map[string]interface{}{
		"title":    "Warm soup",
		"reason":   "Cold day",
		"icon":     "sun.min.fill",
		"color":    "ff9500",
		"favorite": true,
		"date":     "2024-01-15",
	}))
	require.NoError(t, err)
	added := decode[thanks.Entry](t, result)
	assert.Equal(t, "Warm soup", added.Title)
	assert.Equal(t, thanks.IconSun, added.Icon)
	assert.Equal(t, "#FF9500", added.ColorHex)
	assert.True(t, added.IsFavorite)
	assert.Equal(t, 2024, added.Date.Year())

	_, err = s.handleAddThanks(ctx, callRequest("add_thanks", map[string]interface{}{"title": "Bus on time"}))
	require.NoError(t, err)

	result, err = s.handleListThanks(ctx, callRequest("list_thanks", map[string]interface{}{
		"favorites_only": true,
	}))
	require.NoError(t, err)
	favorites := decode[[]thanks.Entry](t, result)
	require.Len(t, favorites, 1)
	assert.Equal(t, added.ID, favorites[0].ID)

	result, err = s.handleListThanks(ctx, callRequest("list_thanks", map[string]interface{}{
		"search": "BUS",
		"sort":   "title-asc",
	}))
	require.NoError(t, err)
	found := decode[[]thanks.Entry](t, result)
	require.Len(t, found, 1)
	assert.Equal(t, "Bus on time", found[0].Title)

	result, err = s.handleGetThanks(ctx, callRequest("get_thanks", map[string]interface{}{"id": added.ID.String()}))
	require.NoError(t, err)
	assert.Equal(t, added.ID, decode[thanks.Entry](t, result).ID)
}

func TestAddThanksValidation(t *testing.T) {
	s := newTestServer(t, true)
	ctx := context.Background()

	tests := map[string]map[string]interface{}{
		"missing title": {},
		"blank title":   {"title": "   "},
		"bad icon":      {"title": "x", "icon": "rocket"},
		"bad color":     {"title": "x", "color": "blue"},
		"bad date":      {"title": "x", "date": "yesterday"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			result, err := s.handleAddThanks(ctx, callRequest("add_thanks", args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
		})
	}

	result, err := s.handleListThanks(ctx, callRequest("list_thanks", nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", resultText(t, result))
}

func TestUpdateThanks(t *testing.T) {
	s := newTestServer(t, true)
	ctx := context.Background()

	result, err := s.handleAddThanks(ctx, callRequest("add_thanks", map[string]interface{}{"title": "Old", "reason": "kept"}))
	require.NoError(t, err)
	added := decode[thanks.Entry](t, result)

	result, err = s.handleUpdateThanks(ctx, callRequest("update_thanks", map[string]interface{}{
		"id":    added.ID.String(),
		"title": "New",
	}))
	require.NoError(t, err)
	updated := decode[thanks.Entry](t, result)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "kept", updated.Reason)

	result, err = s.handleUpdateThanks(ctx, callRequest("update_thanks", map[string]interface{}{
		"id":    added.ID.String(),
		"title": "",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "discarded")

	result, err = s.handleGetThanks(ctx, callRequest("get_thanks", map[string]interface{}{"id": added.ID.String()}))
	require.NoError(t, err)
	assert.Equal(t, "New", decode[thanks.Entry](t, result).Title)
}

func TestDeleteAndToggle(t *testing.T) {
	s := newTestServer(t, true)
	ctx := context.Background()

	result, err := s.handleAddThanks(ctx, callRequest("add_thanks", map[string]interface{}{"title": "Garden"}))
	require.NoError(t, err)
	added := decode[thanks.Entry](t, result)
	idArgs := map[string]interface{}{"id": added.ID.String()}

	result, err = s.handleToggleFavorite(ctx, callRequest("toggle_favorite", idArgs))
	require.NoError(t, err)
	assert.True(t, decode[thanks.Entry](t, result).IsFavorite)

	for i := 0; i < 2; i++ {
		result, err = s.handleDeleteThanks(ctx, callRequest("delete_thanks", idArgs))
		require.NoError(t, err)
		assert.False(t, result.IsError, "delete %d: %s", i, resultText(t, result))
	}

	result, err = s.handleGetThanks(ctx, callRequest("get_thanks", idArgs))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "not found")

	result, err = s.handleToggleFavorite(ctx, callRequest("toggle_favorite", map[string]interface{}{"id": "not-a-uuid"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestReminderTools(t *testing.T) {
	s := newTestServer(t, true)
	ctx := context.Background()

	result, err := s.handleScheduleReminders(ctx, callRequest("schedule_reminders", map[string]interface{}{
		"time": "19:30",
		"days": "Wednesday, monday",
	}))
	require.NoError(t, err)
	scheduled := decode[reminders.Result](t, result)
	assert.Equal(t, reminders.StateScheduled, scheduled.State)
	assert.Equal(t, []string{"Monday-19-30", "Wednesday-19-30"}, reminders.Identifiers(scheduled.Triggers))

	result, err = s.handleListReminders(ctx, callRequest("list_reminders", nil))
	require.NoError(t, err)
	pending := decode[[]pendingView](t, result)
	require.Len(t, pending, 2)
	assert.Equal(t, "Monday at 7:30 PM", pending[0].Next)

	result, err = s.handleCancelReminder(ctx, callRequest("cancel_reminder", map[string]interface{}{"identifiers": "Monday-19-30"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	result, err = s.handleListReminders(ctx, callRequest("list_reminders", nil))
	require.NoError(t, err)
	assert.Len(t, decode[[]pendingView](t, result), 1)
}

func TestScheduleRemindersRejectsUnknownDays(t *testing.T) {
	s := newTestServer(t, true)
	ctx := context.Background()

	result, err := s.handleScheduleReminders(ctx, callRequest("schedule_reminders", map[string]interface{}{
		"time": "19:30",
		"days": "Monday,Mondey",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Mondey")

	result, err = s.handleListReminders(ctx, callRequest("list_reminders", nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", resultText(t, result))
}

func TestScheduleRemindersDenied(t *testing.T) {
	s := newTestServer(t, false)

	result, err := s.handleScheduleReminders(context.Background(), callRequest("schedule_reminders", map[string]interface{}{
		"time": "8:00 AM",
		"days": "Sunday",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "denied")
}

func TestReminderSummaryTool(t *testing.T) {
	s := newTestServer(t, true)

	result, err := s.handleReminderSummary(context.Background(), callRequest("reminder_summary", map[string]interface{}{
		"time": "19:30",
		"days": "Wednesday,Monday",
	}))
	require.NoError(t, err)
	assert.Equal(t, "Reminders will repeat at 7:30 PM on: Monday, Wednesday.", resultText(t, result))
}

func TestCommonExamplesTool(t *testing.T) {
	s := newTestServer(t, true)
	ctx := context.Background()

	result, err := s.handleCommonExamples(ctx, callRequest("common_examples", nil))
	require.NoError(t, err)
	categories := decode[[]string](t, result)
	assert.Contains(t, categories, "Nature")

	result, err = s.handleCommonExamples(ctx, callRequest("common_examples", map[string]interface{}{"category": "Nature"}))
	require.NoError(t, err)
	assert.NotEmpty(t, decode[[]string](t, result))

	result, err = s.handleCommonExamples(ctx, callRequest("common_examples", map[string]interface{}{"category": "Pets"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.True(t, strings.Contains(resultText(t, result), "Unknown category"))
}

func TestCommonExamplesToolWithoutCatalog(t *testing.T) {
	conn, err := db.OpenDBConnection(":memory:", true, "NORMAL")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.InitializeSchema(conn, db.TargetSchemaVersion))

	s := NewThankfulMCPServer(Deps{
		Store:       thanks.NewStore(conn, photos.NewDiskStore(t.TempDir()), nil),
		Scheduler:   reminders.NewScheduler(reminders.NewSQLiteNotifier(conn, true, nil), reminders.Content{}, nil),
		ExamplesErr: &examples.NotFoundError{Path: "/missing/examples.yaml"},
	})
	ctx := context.Background()

	result, err := s.handleCommonExamples(ctx, callRequest("common_examples", nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "examples file /missing/examples.yaml not found")

	// The other tools keep working.
	result, err = s.handleAddThanks(ctx, callRequest("add_thanks", map[string]interface{}{"title": "Clean sheets"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Monday", "Wednesday"}, splitList(" Monday, ,Wednesday ,"))
	assert.Empty(t, splitList(""))
}
