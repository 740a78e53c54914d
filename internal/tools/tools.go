// Package tools exposes the document engine and the workspace
// pass-throughs as MCP tools. Failures surface as tool error results
// carrying a structured payload, never as Go errors; a protocol-level
// failure would abort the whole call instead of giving the model
// something it can act on.
package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"workspacemcp/internal/auth"
	"workspacemcp/internal/backend"
	"workspacemcp/internal/logging"
)

// DocumentEngine is the structural editing surface backed by snapshots
// and ordered edit batches.
type DocumentEngine interface {
	ReadText(ctx context.Context, documentID string) (string, error)
	ReplaceDocument(ctx context.Context, documentID, text string) error
	AppendText(ctx context.Context, documentID, text string) error
	InsertLink(ctx context.Context, documentID string, index int64, text, url string) error
	InsertTable(ctx context.Context, documentID string, index int64, rows, columns int, data [][]string, headerRow bool) error
}

// Workspace covers the single-call spreadsheet, presentation and file
// storage operations.
type Workspace interface {
	UpdateValues(ctx context.Context, spreadsheetID, cellRange string, values [][]string) error
	AddSlide(ctx context.Context, presentationID, layout string) error
	ListFiles(ctx context.Context, query string, pageSize int) ([]backend.FileInfo, error)
	UploadFile(ctx context.Context, name, mimeType string, content []byte) (backend.FileInfo, error)
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

// CredentialManager manages the stored backend credential.
type CredentialManager interface {
	SetCredentials(creds *auth.Credentials) error
	Status() (bool, string)
}

type Handlers struct {
	engine       DocumentEngine
	workspace    Workspace
	creds        CredentialManager
	logger       *slog.Logger
	listPageSize int
	retryInitial time.Duration
}

type Option func(*Handlers)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handlers) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithListPageSize overrides the default page size for file listings.
func WithListPageSize(size int) Option {
	return func(h *Handlers) {
		if size > 0 {
			h.listPageSize = size
		}
	}
}

func New(engine DocumentEngine, workspace Workspace, creds CredentialManager, opts ...Option) *Handlers {
	h := &Handlers{
		engine:       engine,
		workspace:    workspace,
		creds:        creds,
		logger:       logging.Nop(),
		listPageSize: 25,
		retryInitial: initialRetryBackoff,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// traced debug-logs the raw arguments of every call, with secret-shaped
// values masked before they reach the log file.
func (h *Handlers) traced(tool string, next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		h.logger.Debug("tool.args", "tool", tool, "args", logging.RedactAny(req.GetArguments()))
		return next(ctx, req)
	}
}

// Register declares every tool on the server. Descriptions are written
// for the model: they state argument semantics and index conventions up
// front so the model does not have to discover them by failing.
func (h *Handlers) Register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("docs_read",
		mcp.WithDescription("Read the full plain text of a document."),
		mcp.WithString("document_id", mcp.Required(), mcp.Description("Identifier of the document.")),
	), h.traced("docs_read", h.docsRead))

	s.AddTool(mcp.NewTool("docs_replace",
		mcp.WithDescription("Replace the entire document body with new text. The previous content is removed."),
		mcp.WithString("document_id", mcp.Required(), mcp.Description("Identifier of the document.")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Replacement text. An empty string clears the document.")),
	), h.traced("docs_replace", h.docsReplace))

	s.AddTool(mcp.NewTool("docs_preview_replace",
		mcp.WithDescription("Preview a full replacement as a line diff without changing the document."),
		mcp.WithString("document_id", mcp.Required(), mcp.Description("Identifier of the document.")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Proposed replacement text.")),
	), h.traced("docs_preview_replace", h.docsPreviewReplace))

	s.AddTool(mcp.NewTool("docs_append",
		mcp.WithDescription("Append text at the end of a document, before the trailing newline."),
		mcp.WithString("document_id", mcp.Required(), mcp.Description("Identifier of the document.")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to append. Must not be empty.")),
	), h.traced("docs_append", h.docsAppend))

	s.AddTool(mcp.NewTool("docs_insert_link",
		mcp.WithDescription("Insert hyperlinked text at a character index. Indices are 1-based."),
		mcp.WithString("document_id", mcp.Required(), mcp.Description("Identifier of the document.")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("1-based character index for the insertion.")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Visible link text.")),
		mcp.WithString("url", mcp.Required(), mcp.Description("Destination URL.")),
	), h.traced("docs_insert_link", h.docsInsertLink))

	s.AddTool(mcp.NewTool("docs_insert_table",
		mcp.WithDescription("Insert a table at a character index and fill it with data. "+
			"Data is row-major; row 0 can be styled as a header."),
		mcp.WithString("document_id", mcp.Required(), mcp.Description("Identifier of the document.")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("1-based character index for the insertion.")),
		mcp.WithNumber("rows", mcp.Required(), mcp.Description("Number of table rows.")),
		mcp.WithNumber("columns", mcp.Required(), mcp.Description("Number of table columns.")),
		mcp.WithArray("data", mcp.Description("Row-major cell values as a JSON array of string arrays. "+
			"Missing or empty cells stay blank.")),
		mcp.WithBoolean("header_row", mcp.Description("Bold and center row 0 with a shaded background.")),
	), h.traced("docs_insert_table", h.docsInsertTable))

	s.AddTool(mcp.NewTool("sheets_update_cells",
		mcp.WithDescription("Overwrite a spreadsheet cell range with row-major values."),
		mcp.WithString("spreadsheet_id", mcp.Required(), mcp.Description("Identifier of the spreadsheet.")),
		mcp.WithString("range", mcp.Required(), mcp.Description("A1-style range, for example Sheet1!A1:C3.")),
		mcp.WithArray("values", mcp.Required(), mcp.Description("Row-major cell values as a JSON array of string arrays.")),
	), h.traced("sheets_update_cells", h.sheetsUpdateCells))

	s.AddTool(mcp.NewTool("slides_add_slide",
		mcp.WithDescription("Append a slide to a presentation."),
		mcp.WithString("presentation_id", mcp.Required(), mcp.Description("Identifier of the presentation.")),
		mcp.WithString("layout", mcp.Description("Predefined layout name. Defaults to TITLE_AND_BODY.")),
	), h.traced("slides_add_slide", h.slidesAddSlide))

	s.AddTool(mcp.NewTool("drive_list_files",
		mcp.WithDescription("List files in storage, most recently modified first."),
		mcp.WithString("query", mcp.Description("Search expression. Empty lists everything.")),
		mcp.WithNumber("page_size", mcp.Description("Maximum number of files to return.")),
	), h.traced("drive_list_files", h.driveListFiles))

	s.AddTool(mcp.NewTool("drive_upload_file",
		mcp.WithDescription("Upload a new file from base64-encoded content."),
		mcp.WithString("name", mcp.Required(), mcp.Description("File name.")),
		mcp.WithString("mime_type", mcp.Description("MIME type of the content.")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Base64-encoded file content.")),
	), h.traced("drive_upload_file", h.driveUploadFile))

	s.AddTool(mcp.NewTool("drive_download_file",
		mcp.WithDescription("Download a file's content as base64."),
		mcp.WithString("file_id", mcp.Required(), mcp.Description("Identifier of the file.")),
	), h.traced("drive_download_file", h.driveDownloadFile))

	s.AddTool(mcp.NewTool("auth_set_token",
		mcp.WithDescription("Store a backend credential. Provide a refresh token, an access token, or both."),
		mcp.WithString("refresh_token", mcp.Description("Long-lived refresh token.")),
		mcp.WithString("access_token", mcp.Description("Short-lived access token.")),
	), h.traced("auth_set_token", h.authSetToken))

	s.AddTool(mcp.NewTool("auth_status",
		mcp.WithDescription("Report whether a usable backend credential is available."),
	), h.traced("auth_status", h.authStatus))
}
