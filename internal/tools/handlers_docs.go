package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"workspacemcp/internal/diff"
	"workspacemcp/internal/errinfo"
)

func (h *Handlers) docsRead(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	requestID := uuid.NewString()
	documentID, err := req.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError("document_id is required"), nil
	}
	h.logger.Info("tool.call", "tool", "docs_read", "request_id", requestID, "document_id", documentID)

	var text string
	err = h.withRetry(ctx, "docs_read", requestID, func() error {
		var readErr error
		text, readErr = h.engine.ReadText(ctx, documentID)
		return readErr
	})
	if err != nil {
		return h.errorResult("docs_read", requestID, err, errinfo.PhaseRead, documentID), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (h *Handlers) docsReplace(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	requestID := uuid.NewString()
	documentID, err := req.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError("document_id is required"), nil
	}
	text := optString(req, "text", "")
	h.logger.Info("tool.call", "tool", "docs_replace", "request_id", requestID,
		"document_id", documentID, "text_len", len(text))

	err = h.withRetry(ctx, "docs_replace", requestID, func() error {
		return h.engine.ReplaceDocument(ctx, documentID, text)
	})
	if err != nil {
		return h.errorResult("docs_replace", requestID, err, errinfo.PhaseReplace, documentID), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("replaced content of %s (%d bytes)", documentID, len(text))), nil
}

func (h *Handlers) docsPreviewReplace(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	requestID := uuid.NewString()
	documentID, err := req.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError("document_id is required"), nil
	}
	proposed := optString(req, "text", "")
	h.logger.Info("tool.call", "tool", "docs_preview_replace", "request_id", requestID,
		"document_id", documentID, "text_len", len(proposed))

	var current string
	err = h.withRetry(ctx, "docs_preview_replace", requestID, func() error {
		var readErr error
		current, readErr = h.engine.ReadText(ctx, documentID)
		return readErr
	})
	if err != nil {
		return h.errorResult("docs_preview_replace", requestID, err, errinfo.PhaseRead, documentID), nil
	}

	hunks, truncated := diff.TextDiffWithLimit(current, proposed, diff.MaxDiffLines)
	preview := struct {
		Stats     diff.Stats  `json:"stats"`
		Truncated bool        `json:"truncated"`
		Hunks     []diff.Hunk `json:"hunks,omitempty"`
	}{
		Stats:     diff.Summarize(hunks),
		Truncated: truncated,
		Hunks:     hunks,
	}
	payload, marshalErr := json.Marshal(preview)
	if marshalErr != nil {
		return h.errorResult("docs_preview_replace", requestID, marshalErr, errinfo.PhaseRead, documentID), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func (h *Handlers) docsAppend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	requestID := uuid.NewString()
	documentID, err := req.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError("document_id is required"), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text is required"), nil
	}
	h.logger.Info("tool.call", "tool", "docs_append", "request_id", requestID,
		"document_id", documentID, "text_len", len(text))

	err = h.withRetry(ctx, "docs_append", requestID, func() error {
		return h.engine.AppendText(ctx, documentID, text)
	})
	if err != nil {
		return h.errorResult("docs_append", requestID, err, errinfo.PhaseAppend, documentID), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("appended %d bytes to %s", len(text), documentID)), nil
}

func (h *Handlers) docsInsertLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	requestID := uuid.NewString()
	documentID, err := req.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError("document_id is required"), nil
	}
	index, err := requireInt(req, "index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text is required"), nil
	}
	url, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url is required"), nil
	}
	h.logger.Info("tool.call", "tool", "docs_insert_link", "request_id", requestID,
		"document_id", documentID, "index", index)

	err = h.withRetry(ctx, "docs_insert_link", requestID, func() error {
		return h.engine.InsertLink(ctx, documentID, int64(index), text, url)
	})
	if err != nil {
		return h.errorResult("docs_insert_link", requestID, err, errinfo.PhaseInsertLink, documentID), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("inserted link %q at index %d in %s", text, index, documentID)), nil
}

func (h *Handlers) docsInsertTable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	requestID := uuid.NewString()
	documentID, err := req.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError("document_id is required"), nil
	}
	index, err := requireInt(req, "index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rows, err := requireInt(req, "rows")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	columns, err := requireInt(req, "columns")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := stringMatrix(req, "data")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	headerRow := optBool(req, "header_row", false)
	h.logger.Info("tool.call", "tool", "docs_insert_table", "request_id", requestID,
		"document_id", documentID, "index", index, "rows", rows, "columns", columns,
		"header_row", headerRow)

	err = h.withRetry(ctx, "docs_insert_table", requestID, func() error {
		return h.engine.InsertTable(ctx, documentID, int64(index), rows, columns, data, headerRow)
	})
	if err != nil {
		phase := phaseFromError(err, errinfo.PhaseInsertShell)
		return h.errorResult("docs_insert_table", requestID, err, phase, documentID), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("inserted %dx%d table at index %d in %s",
		rows, columns, index, documentID)), nil
}
