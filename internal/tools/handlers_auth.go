package tools

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"workspacemcp/internal/auth"
)

// authSetToken stores a credential supplied over the tool surface. Token
// values never reach the log; only their presence does.
func (h *Handlers) authSetToken(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	requestID := uuid.NewString()
	refreshToken := strings.TrimSpace(optString(req, "refresh_token", ""))
	accessToken := strings.TrimSpace(optString(req, "access_token", ""))
	if refreshToken == "" && accessToken == "" {
		return mcp.NewToolResultError("provide refresh_token, access_token, or both"), nil
	}
	h.logger.Info("tool.call", "tool", "auth_set_token", "request_id", requestID,
		"has_refresh_token", refreshToken != "", "has_access_token", accessToken != "")

	err := h.creds.SetCredentials(&auth.Credentials{
		RefreshToken: refreshToken,
		AccessToken:  accessToken,
	})
	if err != nil {
		return h.errorResult("auth_set_token", requestID, err, "", ""), nil
	}
	return mcp.NewToolResultText("credential stored"), nil
}

func (h *Handlers) authStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	requestID := uuid.NewString()
	h.logger.Info("tool.call", "tool", "auth_status", "request_id", requestID)
	available, detail := h.creds.Status()
	if available {
		return mcp.NewToolResultText("credential available: " + detail), nil
	}
	return mcp.NewToolResultText("no usable credential: " + detail), nil
}
