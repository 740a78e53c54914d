package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"workspacemcp/internal/auth"
	"workspacemcp/internal/backend"
	"workspacemcp/internal/docs"
)

type stubEngine struct {
	readCalls    int
	readErrs     []error
	readText     string
	replaceCalls int
	replaceErr   error

	tableDocID   string
	tableIndex   int64
	tableRows    int
	tableColumns int
	tableData    [][]string
	tableHeader  bool
	tableErr     error
}

func (s *stubEngine) ReadText(ctx context.Context, documentID string) (string, error) {
	s.readCalls++
	if len(s.readErrs) > 0 {
		err := s.readErrs[0]
		s.readErrs = s.readErrs[1:]
		if err != nil {
			return "", err
		}
	}
	return s.readText, nil
}

func (s *stubEngine) ReplaceDocument(ctx context.Context, documentID, text string) error {
	s.replaceCalls++
	return s.replaceErr
}

func (s *stubEngine) AppendText(ctx context.Context, documentID, text string) error {
	return nil
}

func (s *stubEngine) InsertLink(ctx context.Context, documentID string, index int64, text, url string) error {
	return nil
}

func (s *stubEngine) InsertTable(ctx context.Context, documentID string, index int64, rows, columns int, data [][]string, headerRow bool) error {
	s.tableDocID = documentID
	s.tableIndex = index
	s.tableRows = rows
	s.tableColumns = columns
	s.tableData = data
	s.tableHeader = headerRow
	return s.tableErr
}

type stubWorkspace struct {
	spreadsheetID string
	cellRange     string
	values        [][]string
	files         []backend.FileInfo
}

func (s *stubWorkspace) UpdateValues(ctx context.Context, spreadsheetID, cellRange string, values [][]string) error {
	s.spreadsheetID = spreadsheetID
	s.cellRange = cellRange
	s.values = values
	return nil
}

func (s *stubWorkspace) AddSlide(ctx context.Context, presentationID, layout string) error {
	return nil
}

func (s *stubWorkspace) ListFiles(ctx context.Context, query string, pageSize int) ([]backend.FileInfo, error) {
	return s.files, nil
}

func (s *stubWorkspace) UploadFile(ctx context.Context, name, mimeType string, content []byte) (backend.FileInfo, error) {
	return backend.FileInfo{ID: "f1", Name: name}, nil
}

func (s *stubWorkspace) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	return []byte("content"), nil
}

type stubCreds struct {
	saved     *auth.Credentials
	saveErr   error
	available bool
	detail    string
}

func (s *stubCreds) SetCredentials(creds *auth.Credentials) error {
	s.saved = creds
	return s.saveErr
}

func (s *stubCreds) Status() (bool, string) {
	return s.available, s.detail
}

func newTestHandlers(engine *stubEngine, workspace *stubWorkspace, creds *stubCreds) *Handlers {
	if engine == nil {
		engine = &stubEngine{}
	}
	if workspace == nil {
		workspace = &stubWorkspace{}
	}
	if creds == nil {
		creds = &stubCreds{}
	}
	h := New(engine, workspace, creds)
	h.retryInitial = time.Millisecond
	return h
}

func callReq(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("expected one content item, got %d", len(result.Content))
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, not text", result.Content[0])
	}
	return text.Text
}

func TestDocsReadRetriesTransient(t *testing.T) {
	engine := &stubEngine{
		readErrs: []error{
			fmt.Errorf("boom: %w", docs.ErrTransient),
			fmt.Errorf("boom again: %w", docs.ErrTransient),
		},
		readText: "hello\n",
	}
	h := newTestHandlers(engine, nil, nil)

	result, err := h.docsRead(context.Background(), callReq(map[string]any{"document_id": "d1"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
	if engine.readCalls != 3 {
		t.Fatalf("expected 3 attempts, got %d", engine.readCalls)
	}
	if got := resultText(t, result); got != "hello\n" {
		t.Fatalf("text = %q", got)
	}
}

func TestDocsReadGivesUpAfterMaxAttempts(t *testing.T) {
	engine := &stubEngine{
		readErrs: []error{
			fmt.Errorf("a: %w", docs.ErrTransient),
			fmt.Errorf("b: %w", docs.ErrTransient),
			fmt.Errorf("c: %w", docs.ErrTransient),
			fmt.Errorf("d: %w", docs.ErrTransient),
		},
	}
	h := newTestHandlers(engine, nil, nil)

	result, err := h.docsRead(context.Background(), callReq(map[string]any{"document_id": "d1"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error after exhausted retries")
	}
	if engine.readCalls != 3 {
		t.Fatalf("expected 3 attempts, got %d", engine.readCalls)
	}
	if text := resultText(t, result); !strings.Contains(text, "BACKEND_UNAVAILABLE") {
		t.Fatalf("payload %q lacks error code", text)
	}
}

func TestDocsReplaceDoesNotRetryValidation(t *testing.T) {
	engine := &stubEngine{replaceErr: fmt.Errorf("bad input: %w", docs.ErrValidation)}
	h := newTestHandlers(engine, nil, nil)

	result, err := h.docsReplace(context.Background(), callReq(map[string]any{
		"document_id": "d1",
		"text":        "new content",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	if engine.replaceCalls != 1 {
		t.Fatalf("validation failure must not be retried, got %d calls", engine.replaceCalls)
	}
	if text := resultText(t, result); !strings.Contains(text, "VALIDATION_FAILED") {
		t.Fatalf("payload %q lacks error code", text)
	}
}

func TestDocsInsertTablePassesArguments(t *testing.T) {
	engine := &stubEngine{}
	h := newTestHandlers(engine, nil, nil)

	result, err := h.docsInsertTable(context.Background(), callReq(map[string]any{
		"document_id": "d1",
		"index":       float64(5),
		"rows":        float64(2),
		"columns":     float64(2),
		"data":        []any{[]any{"A", "B"}, []any{"C", float64(42)}},
		"header_row":  true,
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
	if engine.tableDocID != "d1" || engine.tableIndex != 5 || engine.tableRows != 2 || engine.tableColumns != 2 {
		t.Fatalf("engine got %s index=%d rows=%d cols=%d",
			engine.tableDocID, engine.tableIndex, engine.tableRows, engine.tableColumns)
	}
	if !engine.tableHeader {
		t.Fatal("header_row not passed through")
	}
	want := [][]string{{"A", "B"}, {"C", "42"}}
	if len(engine.tableData) != 2 || engine.tableData[1][1] != want[1][1] || engine.tableData[0][0] != want[0][0] {
		t.Fatalf("data = %v", engine.tableData)
	}
}

func TestDocsInsertTableSurfacesFailedPhase(t *testing.T) {
	engine := &stubEngine{
		tableErr: fmt.Errorf("insert table in d1: fill_cells: table was created but could not be located: %w",
			docs.ErrStructureNotFound),
	}
	h := newTestHandlers(engine, nil, nil)

	result, err := h.docsInsertTable(context.Background(), callReq(map[string]any{
		"document_id": "d1",
		"index":       float64(1),
		"rows":        float64(2),
		"columns":     float64(2),
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	text := resultText(t, result)
	if !strings.Contains(text, "STRUCTURE_NOT_FOUND") {
		t.Fatalf("payload %q lacks error code", text)
	}
	if !strings.Contains(text, `"phase":"fill_cells"`) {
		t.Fatalf("payload %q lacks failed phase", text)
	}
	if !strings.Contains(text, `"retryable":false`) {
		t.Fatalf("payload %q should be fatal", text)
	}
}

func TestDocsInsertTableRejectsBadMatrix(t *testing.T) {
	h := newTestHandlers(nil, nil, nil)
	result, err := h.docsInsertTable(context.Background(), callReq(map[string]any{
		"document_id": "d1",
		"index":       float64(1),
		"rows":        float64(2),
		"columns":     float64(2),
		"data":        "not a matrix",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for malformed data")
	}
}

func TestSheetsUpdateCells(t *testing.T) {
	workspace := &stubWorkspace{}
	h := newTestHandlers(nil, workspace, nil)

	result, err := h.sheetsUpdateCells(context.Background(), callReq(map[string]any{
		"spreadsheet_id": "s1",
		"range":          "Sheet1!A1:B2",
		"values":         []any{[]any{"Name", "Total"}, []any{"Q1", float64(7)}},
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
	if workspace.spreadsheetID != "s1" || workspace.cellRange != "Sheet1!A1:B2" {
		t.Fatalf("workspace got %s %s", workspace.spreadsheetID, workspace.cellRange)
	}
	if len(workspace.values) != 2 || workspace.values[1][1] != "7" {
		t.Fatalf("values = %v", workspace.values)
	}
}

func TestDriveListFilesRendersJSON(t *testing.T) {
	workspace := &stubWorkspace{files: []backend.FileInfo{{ID: "f1", Name: "report.txt"}}}
	h := newTestHandlers(nil, workspace, nil)

	result, err := h.driveListFiles(context.Background(), callReq(map[string]any{}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, `"id":"f1"`) || !strings.Contains(text, `"name":"report.txt"`) {
		t.Fatalf("payload = %s", text)
	}
}

func TestAuthSetTokenRequiresAValue(t *testing.T) {
	h := newTestHandlers(nil, nil, nil)
	result, err := h.authSetToken(context.Background(), callReq(map[string]any{}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error with no tokens")
	}
}

func TestAuthSetTokenStoresCredential(t *testing.T) {
	creds := &stubCreds{}
	h := newTestHandlers(nil, nil, creds)

	result, err := h.authSetToken(context.Background(), callReq(map[string]any{
		"refresh_token": "rt-1",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
	if creds.saved == nil || creds.saved.RefreshToken != "rt-1" {
		t.Fatalf("saved = %+v", creds.saved)
	}
}

func TestAuthStatus(t *testing.T) {
	creds := &stubCreds{available: true, detail: "refresh token on file"}
	h := newTestHandlers(nil, nil, creds)

	result, err := h.authStatus(context.Background(), callReq(map[string]any{}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "credential available") {
		t.Fatalf("text = %q", text)
	}
}

func TestPhaseFromError(t *testing.T) {
	err := fmt.Errorf("insert table in d1: style_borders: %w", docs.ErrTransient)
	if got := phaseFromError(err, "insert_shell"); got != "style_borders" {
		t.Fatalf("phase = %q", got)
	}
	if got := phaseFromError(errors.New("plain failure"), "insert_shell"); got != "insert_shell" {
		t.Fatalf("fallback phase = %q", got)
	}
}

func TestClassifyAuthError(t *testing.T) {
	info := classify(fmt.Errorf("token refresh: %w", auth.ErrNoCredential), "read", "d1")
	if info.ErrorCode != "AUTH_REQUIRED" {
		t.Fatalf("code = %q", info.ErrorCode)
	}
	if info.Retryable {
		t.Fatal("auth errors are fatal until credentials change")
	}
}
