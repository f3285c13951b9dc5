package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/unowned-ai/thankful/pkg/reminders"
	"github.com/unowned-ai/thankful/pkg/thanks"
)

func (s *ThankfulMCPServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong' to check if the Thankful MCP server is alive."),
	), s.handlePing)

	s.mcpServer.AddTool(mcp.NewTool("add_thanks",
		mcp.WithDescription("Records something the user is thankful for."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Short title of the thing to be thankful for.")),
		mcp.WithString("reason", mcp.Description("Optional reason or note.")),
		mcp.WithString("icon", mcp.Description("Optional icon name; see the icon list in the CLI ('thankful thanks icons'). Defaults to star.fill.")),
		mcp.WithString("color", mcp.Description("Optional hex color, #RRGGBB or #RRGGBBAA. Defaults to #007AFF.")),
		mcp.WithBoolean("favorite", mcp.Description("Mark the entry as a favorite.")),
		mcp.WithString("date", mcp.Description("Optional date, RFC3339 or YYYY-MM-DD. Defaults to now.")),
	), s.handleAddThanks)

	s.mcpServer.AddTool(mcp.NewTool("list_thanks",
		mcp.WithDescription("Lists entries, optionally filtered by favorite flag and search text, in the chosen order."),
		mcp.WithString("search", mcp.Description("Optional text matched case-insensitively against title and reason.")),
		mcp.WithString("sort", mcp.Description("Sort order."), mcp.Enum("title-asc", "title-desc", "date-asc", "date-desc")),
		mcp.WithBoolean("favorites_only", mcp.Description("Only return favorites.")),
	), s.handleListThanks)

	s.mcpServer.AddTool(mcp.NewTool("get_thanks",
		mcp.WithDescription("Retrieves a single entry by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entry id.")),
	), s.handleGetThanks)

	s.mcpServer.AddTool(mcp.NewTool("update_thanks",
		mcp.WithDescription("Updates the given fields of an entry. An empty title discards the edit and leaves the entry unchanged."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entry id.")),
		mcp.WithString("title", mcp.Description("Optional new title.")),
		mcp.WithString("reason", mcp.Description("Optional new reason.")),
		mcp.WithString("icon", mcp.Description("Optional new icon name.")),
		mcp.WithString("color", mcp.Description("Optional new hex color.")),
		mcp.WithBoolean("favorite", mcp.Description("Optional new favorite flag.")),
		mcp.WithString("date", mcp.Description("Optional new date, RFC3339 or YYYY-MM-DD.")),
	), s.handleUpdateThanks)

	s.mcpServer.AddTool(mcp.NewTool("delete_thanks",
		mcp.WithDescription("Deletes an entry and its photo. Deleting an unknown entry succeeds."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entry id.")),
	), s.handleDeleteThanks)

	s.mcpServer.AddTool(mcp.NewTool("toggle_favorite",
		mcp.WithDescription("Flips the favorite flag of an entry."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entry id.")),
	), s.handleToggleFavorite)

	s.mcpServer.AddTool(mcp.NewTool("schedule_reminders",
		mcp.WithDescription("Schedules weekly reminders at a time of day on the given weekdays. Scheduling the same day and time again replaces the earlier reminder."),
		mcp.WithString("time", mcp.Required(), mcp.Description("Time of day, e.g. 19:30 or 7:30 PM.")),
		mcp.WithString("days", mcp.Required(), mcp.Description("Comma-separated weekday names, e.g. Monday,Wednesday.")),
	), s.handleScheduleReminders)

	s.mcpServer.AddTool(mcp.NewTool("list_reminders",
		mcp.WithDescription("Lists pending weekly reminders."),
	), s.handleListReminders)

	s.mcpServer.AddTool(mcp.NewTool("cancel_reminder",
		mcp.WithDescription("Cancels reminders by identifier, e.g. Monday-19-30."),
		mcp.WithString("identifiers", mcp.Required(), mcp.Description("Comma-separated reminder identifiers.")),
	), s.handleCancelReminder)

	s.mcpServer.AddTool(mcp.NewTool("reminder_summary",
		mcp.WithDescription("Describes a reminder selection in one sentence without scheduling anything."),
		mcp.WithString("time", mcp.Required(), mcp.Description("Time of day, e.g. 19:30 or 7:30 PM.")),
		mcp.WithString("days", mcp.Description("Comma-separated weekday names.")),
	), s.handleReminderSummary)

	s.mcpServer.AddTool(mcp.NewTool("common_examples",
		mcp.WithDescription("Lists example categories of common things to be thankful for, or the examples in one category."),
		mcp.WithString("category", mcp.Description("Optional category name.")),
	), s.handleCommonExamples)
}

func (s *ThankfulMCPServer) handlePing(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("pong_thankful"), nil
}

// applyArgs copies the optional entry fields present in request onto d.
func applyArgs(d *thanks.Draft, request mcp.CallToolRequest) error {
	if title, ok := stringArg(request, "title"); ok {
		d.Title = title
	}
	if reason, ok := stringArg(request, "reason"); ok {
		d.Reason = reason
	}
	if raw, ok := stringArg(request, "icon"); ok && raw != "" {
		icon, err := thanks.ParseIcon(raw)
		if err != nil {
			return err
		}
		d.Icon = icon
	}
	if raw, ok := stringArg(request, "color"); ok && raw != "" {
		c, err := thanks.ParseColor(raw)
		if err != nil {
			return err
		}
		d.ColorHex = c.Hex()
	}
	if favorite, ok := boolArg(request, "favorite"); ok {
		d.IsFavorite = favorite
	}
	if raw, ok := stringArg(request, "date"); ok && raw != "" {
		date, err := thanks.ParseDate(raw)
		if err != nil {
			return err
		}
		d.Date = date
	}
	return nil
}

func (s *ThankfulMCPServer) handleAddThanks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, ok := stringArg(request, "title")
	if !ok || strings.TrimSpace(title) == "" {
		return mcp.NewToolResultError("'title' parameter is required and must be a non-empty string."), nil
	}

	draft := thanks.NewDraft(time.Now())
	if err := applyArgs(&draft, request); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entry, _, err := s.editor.Commit(ctx, draft)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to add entry: %v", err)), nil
	}
	return jsonResult(entry)
}

func (s *ThankfulMCPServer) handleListThanks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts := thanks.ViewOptions{Sort: thanks.SortDateDesc}
	if raw, ok := stringArg(request, "sort"); ok && raw != "" {
		sort, err := thanks.ParseSortOption(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opts.Sort = sort
	}
	opts.SearchText, _ = stringArg(request, "search")
	opts.FavoritesOnly, _ = boolArg(request, "favorites_only")

	entries, err := s.store.List(ctx, opts.Sort)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list entries: %v", err)), nil
	}

	view := thanks.Project(entries, opts)
	if len(view) == 0 {
		return mcp.NewToolResultText("[]"), nil
	}
	return jsonResult(view)
}

func (s *ThankfulMCPServer) handleGetThanks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := idArg(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entry, err := s.store.Get(ctx, id)
	if errors.Is(err, thanks.ErrEntryNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("Entry '%s' not found.", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error retrieving entry '%s': %v", id, err)), nil
	}
	return jsonResult(entry)
}

func (s *ThankfulMCPServer) handleUpdateThanks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := idArg(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	existing, err := s.store.Get(ctx, id)
	if errors.Is(err, thanks.ErrEntryNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("Entry '%s' not found.", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error retrieving entry '%s': %v", id, err)), nil
	}

	draft := thanks.DraftFrom(existing)
	if err := applyArgs(&draft, request); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entry, written, err := s.editor.Commit(ctx, draft)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update entry: %v", err)), nil
	}
	if !written {
		return mcp.NewToolResultText(fmt.Sprintf("Edit of entry '%s' discarded: the title is empty. The entry is unchanged.", id)), nil
	}
	return jsonResult(entry)
}

func (s *ThankfulMCPServer) handleDeleteThanks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := idArg(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete entry: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Entry '%s' deleted.", id)), nil
}

func (s *ThankfulMCPServer) handleToggleFavorite(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := idArg(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entry, err := s.store.ToggleFavorite(ctx, id)
	if errors.Is(err, thanks.ErrEntryNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("Entry '%s' not found.", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to toggle favorite: %v", err)), nil
	}
	return jsonResult(entry)
}

func timeAndDays(request mcp.CallToolRequest) (time.Time, []string, error) {
	rawTime, ok := stringArg(request, "time")
	if !ok || strings.TrimSpace(rawTime) == "" {
		return time.Time{}, nil, errors.New("'time' parameter is required")
	}
	at, err := reminders.ParseTimeOfDay(rawTime, time.Local)
	if err != nil {
		return time.Time{}, nil, err
	}
	rawDays, _ := stringArg(request, "days")
	days := splitList(rawDays)
	if err := reminders.ValidateDays(days); err != nil {
		return time.Time{}, nil, err
	}
	return at, days, nil
}

func (s *ThankfulMCPServer) handleScheduleReminders(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	at, days, err := timeAndDays(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(days) == 0 {
		return mcp.NewToolResultError("'days' must name at least one weekday."), nil
	}

	result, err := s.scheduler.Schedule(ctx, at, days)
	if err != nil {
		s.logger.Warn("scheduling finished with errors", zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("Some reminders could not be scheduled (%d of %d succeeded): %v",
			len(result.Submitted), len(result.Triggers), err)), nil
	}
	if result.State == reminders.StateDenied {
		return mcp.NewToolResultText("Notification permission is denied; no reminders were scheduled. Grant it with 'thankful reminders permission grant'."), nil
	}
	return jsonResult(result)
}

type pendingView struct {
	reminders.Pending
	Next string `json:"next"`
}

func (s *ThankfulMCPServer) handleListReminders(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pending, err := s.scheduler.ListPending(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list reminders: %v", err)), nil
	}
	if len(pending) == 0 {
		return mcp.NewToolResultText("[]"), nil
	}

	views := make([]pendingView, len(pending))
	for i, p := range pending {
		views[i] = pendingView{Pending: p, Next: p.Describe()}
	}
	return jsonResult(views)
}

func (s *ThankfulMCPServer) handleCancelReminder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, _ := stringArg(request, "identifiers")
	ids := splitList(raw)
	if len(ids) == 0 {
		return mcp.NewToolResultError("'identifiers' must list at least one reminder identifier."), nil
	}

	if err := s.scheduler.Cancel(ctx, ids...); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to cancel reminders: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Cancelled %s.", strings.Join(ids, ", "))), nil
}

func (s *ThankfulMCPServer) handleReminderSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	at, days, err := timeAndDays(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(reminders.Summary(at, days)), nil
}

func (s *ThankfulMCPServer) handleCommonExamples(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.catalog == nil {
		if s.catalogErr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Common examples are not available: %v.", s.catalogErr)), nil
		}
		return mcp.NewToolResultError("Common examples are not available."), nil
	}

	category, _ := stringArg(request, "category")
	if strings.TrimSpace(category) == "" {
		return jsonResult(s.catalog.Categories())
	}

	items, ok := s.catalog.Examples(category)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("Unknown category '%s'. Available: %s.", category, strings.Join(s.catalog.Categories(), ", "))), nil
	}
	return jsonResult(items)
}
