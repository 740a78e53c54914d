package tools

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"workspacemcp/internal/auth"
	"workspacemcp/internal/docs"
	"workspacemcp/internal/errinfo"
)

// editPhases are the phase markers the engine embeds in multi-phase
// edit errors, most specific first.
var editPhases = []string{
	errinfo.PhaseHeader,
	errinfo.PhaseBorders,
	errinfo.PhaseFillCells,
	errinfo.PhaseInsertShell,
}

// phaseFromError recovers which phase of a multi-phase edit failed.
// Falls back to the operation-level phase when no marker is present,
// such as when validation rejects the input before phase one.
func phaseFromError(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	msg := err.Error()
	for _, phase := range editPhases {
		if strings.Contains(msg, phase+":") {
			return phase
		}
	}
	return fallback
}

func classify(err error, phase, documentID string) *errinfo.ErrorInfo {
	switch {
	case errors.Is(err, docs.ErrNotFound):
		info := errinfo.DocNotFound(phase, documentID)
		info.Detail = err.Error()
		return info
	case errors.Is(err, docs.ErrStructureNotFound):
		return errinfo.StructureNotFound(phase, documentID, err.Error())
	case errors.Is(err, docs.ErrValidation):
		return errinfo.ValidationFailed(phase, err.Error())
	case errors.Is(err, docs.ErrAuth), errors.Is(err, auth.ErrNoCredential):
		return errinfo.AuthRequired(err.Error())
	case errors.Is(err, docs.ErrTransient):
		return errinfo.BackendUnavailable(phase, documentID, err.Error())
	default:
		return errinfo.Internal(phase, err.Error())
	}
}

// errorResult logs the failure and renders it as a tool error carrying
// the structured payload as JSON, with the human-readable message as a
// fallback when encoding fails.
func (h *Handlers) errorResult(tool, requestID string, err error, phase, documentID string) *mcp.CallToolResult {
	info := classify(err, phase, documentID)
	h.logger.Error("tool.failed",
		"tool", tool,
		"request_id", requestID,
		"error_code", info.ErrorCode,
		"phase", info.Phase,
		"document_id", info.DocumentID,
		"retryable", info.Retryable,
		"error", err.Error(),
	)
	payload, marshalErr := json.Marshal(info)
	if marshalErr != nil {
		return mcp.NewToolResultError(info.Message())
	}
	return mcp.NewToolResultError(string(payload))
}
