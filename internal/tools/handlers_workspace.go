package tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"workspacemcp/internal/backend"
	"workspacemcp/internal/errinfo"
)

func (h *Handlers) sheetsUpdateCells(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	requestID := uuid.NewString()
	spreadsheetID, err := req.RequireString("spreadsheet_id")
	if err != nil {
		return mcp.NewToolResultError("spreadsheet_id is required"), nil
	}
	cellRange, err := req.RequireString("range")
	if err != nil {
		return mcp.NewToolResultError("range is required"), nil
	}
	values, err := stringMatrix(req, "values")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(values) == 0 {
		return mcp.NewToolResultError("values is required"), nil
	}
	h.logger.Info("tool.call", "tool", "sheets_update_cells", "request_id", requestID,
		"spreadsheet_id", spreadsheetID, "range", cellRange, "rows", len(values))

	err = h.withRetry(ctx, "sheets_update_cells", requestID, func() error {
		return h.workspace.UpdateValues(ctx, spreadsheetID, cellRange, values)
	})
	if err != nil {
		return h.errorResult("sheets_update_cells", requestID, err, errinfo.PhaseSheets, spreadsheetID), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("updated %d rows in %s %s", len(values), spreadsheetID, cellRange)), nil
}

func (h *Handlers) slidesAddSlide(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	requestID := uuid.NewString()
	presentationID, err := req.RequireString("presentation_id")
	if err != nil {
		return mcp.NewToolResultError("presentation_id is required"), nil
	}
	layout := optString(req, "layout", "")
	h.logger.Info("tool.call", "tool", "slides_add_slide", "request_id", requestID,
		"presentation_id", presentationID, "layout", layout)

	err = h.withRetry(ctx, "slides_add_slide", requestID, func() error {
		return h.workspace.AddSlide(ctx, presentationID, layout)
	})
	if err != nil {
		return h.errorResult("slides_add_slide", requestID, err, errinfo.PhaseSlides, presentationID), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("added slide to %s", presentationID)), nil
}

func (h *Handlers) driveListFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	requestID := uuid.NewString()
	query := optString(req, "query", "")
	pageSize := optInt(req, "page_size", h.listPageSize)
	h.logger.Info("tool.call", "tool", "drive_list_files", "request_id", requestID,
		"query", query, "page_size", pageSize)

	var files []backend.FileInfo
	err := h.withRetry(ctx, "drive_list_files", requestID, func() error {
		var listErr error
		files, listErr = h.workspace.ListFiles(ctx, query, pageSize)
		return listErr
	})
	if err != nil {
		return h.errorResult("drive_list_files", requestID, err, errinfo.PhaseDrive, ""), nil
	}
	payload, marshalErr := json.Marshal(struct {
		Files []backend.FileInfo `json:"files"`
	}{Files: files})
	if marshalErr != nil {
		return h.errorResult("drive_list_files", requestID, marshalErr, errinfo.PhaseDrive, ""), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func (h *Handlers) driveUploadFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	requestID := uuid.NewString()
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}
	encoded, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content is required"), nil
	}
	content, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return mcp.NewToolResultError("content must be valid base64"), nil
	}
	mimeType := optString(req, "mime_type", "application/octet-stream")
	h.logger.Info("tool.call", "tool", "drive_upload_file", "request_id", requestID,
		"name", name, "mime_type", mimeType, "size", len(content))

	var info backend.FileInfo
	err = h.withRetry(ctx, "drive_upload_file", requestID, func() error {
		var uploadErr error
		info, uploadErr = h.workspace.UploadFile(ctx, name, mimeType, content)
		return uploadErr
	})
	if err != nil {
		return h.errorResult("drive_upload_file", requestID, err, errinfo.PhaseDrive, ""), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("uploaded %s (%d bytes) as %s", name, len(content), info.ID)), nil
}

func (h *Handlers) driveDownloadFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	requestID := uuid.NewString()
	fileID, err := req.RequireString("file_id")
	if err != nil {
		return mcp.NewToolResultError("file_id is required"), nil
	}
	h.logger.Info("tool.call", "tool", "drive_download_file", "request_id", requestID, "file_id", fileID)

	var content []byte
	err = h.withRetry(ctx, "drive_download_file", requestID, func() error {
		var downloadErr error
		content, downloadErr = h.workspace.DownloadFile(ctx, fileID)
		return downloadErr
	})
	if err != nil {
		return h.errorResult("drive_download_file", requestID, err, errinfo.PhaseDrive, fileID), nil
	}
	return mcp.NewToolResultText(base64.StdEncoding.EncodeToString(content)), nil
}
