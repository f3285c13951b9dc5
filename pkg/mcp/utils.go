package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/samber/lo"
)

func stringArg(request mcp.CallToolRequest, name string) (string, bool) {
	v, ok := request.Params.Arguments[name].(string)
	return v, ok
}

func boolArg(request mcp.CallToolRequest, name string) (bool, bool) {
	v, ok := request.Params.Arguments[name].(bool)
	return v, ok
}

func idArg(request mcp.CallToolRequest) (uuid.UUID, error) {
	raw, ok := stringArg(request, "id")
	if !ok || strings.TrimSpace(raw) == "" {
		return uuid.Nil, fmt.Errorf("'id' parameter is required and must be a non-empty string")
	}
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("'id' is not a valid entry id: %v", err)
	}
	return id, nil
}

// splitList turns "Monday, Wednesday" into ["Monday", "Wednesday"].
func splitList(s string) []string {
	return lo.Compact(lo.Map(strings.Split(s, ","), func(item string, _ int) string {
		return strings.TrimSpace(item)
	}))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize result to JSON: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
