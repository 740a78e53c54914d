package errinfo

// ErrorInfo is the structured error payload surfaced over the tool
// boundary. Phase and DocumentID give enough context to diagnose a
// multi-phase edit that failed partway through.
type ErrorInfo struct {
	ErrorCode  string `json:"error_code"`
	Phase      string `json:"phase,omitempty"`
	DocumentID string `json:"document_id,omitempty"`
	Retryable  bool   `json:"retryable"`
	Detail     string `json:"detail,omitempty"`
}

const (
	CodeDocNotFound        = "DOC_NOT_FOUND"
	CodeStructureNotFound  = "STRUCTURE_NOT_FOUND"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeBackendUnavailable = "BACKEND_UNAVAILABLE"
	CodeAuthRequired       = "AUTH_REQUIRED"
	CodeInternal           = "INTERNAL"
)

const (
	PhaseRead        = "read"
	PhaseReplace     = "replace"
	PhaseAppend      = "append"
	PhaseInsertLink  = "insert_link"
	PhaseInsertShell = "insert_shell"
	PhaseFillCells   = "fill_cells"
	PhaseBorders     = "style_borders"
	PhaseHeader      = "style_header"
	PhaseSheets      = "sheets"
	PhaseSlides      = "slides"
	PhaseDrive       = "drive"
)

func DocNotFound(phase, documentID string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode:  CodeDocNotFound,
		Phase:      phase,
		DocumentID: documentID,
		Retryable:  false,
	}
}

// StructureNotFound signals that structure a prior successful edit must
// have produced could not be located. It is fatal for the request: the
// document may hold a partially populated table.
func StructureNotFound(phase, documentID, detail string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode:  CodeStructureNotFound,
		Phase:      phase,
		DocumentID: documentID,
		Retryable:  false,
		Detail:     detail,
	}
}

func ValidationFailed(phase, detail string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode: CodeValidationFailed,
		Phase:     phase,
		Retryable: false,
		Detail:    detail,
	}
}

func BackendUnavailable(phase, documentID, detail string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode:  CodeBackendUnavailable,
		Phase:      phase,
		DocumentID: documentID,
		Retryable:  true,
		Detail:     detail,
	}
}

func AuthRequired(detail string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode: CodeAuthRequired,
		Retryable: false,
		Detail:    detail,
	}
}

func Internal(phase, detail string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode: CodeInternal,
		Phase:     phase,
		Retryable: false,
		Detail:    detail,
	}
}

func (e *ErrorInfo) Message() string {
	if e == nil {
		return ""
	}
	msg := e.ErrorCode
	if e.Phase != "" {
		msg += " (" + e.Phase + ")"
	}
	if e.DocumentID != "" {
		msg += " document " + e.DocumentID
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}
