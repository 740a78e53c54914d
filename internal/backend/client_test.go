package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"workspacemcp/internal/docs"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) Token(ctx context.Context) (string, error) {
	return s.token, s.err
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New(server.URL, staticTokens{token: "tok-123"}, time.Second,
		WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client, server
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	if _, err := New("not a url", staticTokens{}, time.Second); err == nil {
		t.Fatal("expected error for invalid base url")
	}
}

func TestGetDocumentDecodesSnapshot(t *testing.T) {
	var gotPath, gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"documentId":"d1","title":"Notes","body":{"content":[`+
			`{"startIndex":1,"endIndex":7,"paragraph":{"elements":[`+
			`{"startIndex":1,"endIndex":7,"textRun":{"content":"hello\n"}}]}}]}}`)
	}))
	doc, err := client.GetDocument(context.Background(), "d1")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if gotPath != "/v1/documents/d1" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if doc.Title != "Notes" || docs.PlainText(doc) != "hello\n" {
		t.Fatalf("decoded doc = %+v", doc)
	}
}

func TestGetDocumentRejectsEmptyID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))
	if _, err := client.GetDocument(context.Background(), "  "); !errors.Is(err, docs.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBatchUpdateWireShape(t *testing.T) {
	var gotBody []byte
	var gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		fmt.Fprint(w, `{}`)
	}))
	ops := []docs.Op{
		docs.DeleteRange{Start: 1, End: 20},
		docs.InsertText{Index: 1, Text: "fresh\n"},
	}
	if err := client.BatchUpdate(context.Background(), "d1", ops); err != nil {
		t.Fatalf("BatchUpdate: %v", err)
	}
	if gotPath != "/v1/documents/d1:batchUpdate" {
		t.Fatalf("path = %q", gotPath)
	}
	var envelope struct {
		Requests []json.RawMessage `json:"requests"`
	}
	if err := json.Unmarshal(gotBody, &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(envelope.Requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(envelope.Requests))
	}
	if string(envelope.Requests[0]) != `{"deleteContentRange":{"range":{"startIndex":1,"endIndex":20}}}` {
		t.Fatalf("first request = %s", envelope.Requests[0])
	}
	if string(envelope.Requests[1]) != `{"insertText":{"location":{"index":1},"text":"fresh\n"}}` {
		t.Fatalf("second request = %s", envelope.Requests[1])
	}
}

func TestBatchUpdateEmptyOpsIsNoop(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for empty batch")
	}))
	if err := client.BatchUpdate(context.Background(), "d1", nil); err != nil {
		t.Fatalf("BatchUpdate: %v", err)
	}
}

func TestStatusClassification(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, docs.ErrNotFound},
		{http.StatusUnauthorized, docs.ErrAuth},
		{http.StatusForbidden, docs.ErrAuth},
		{http.StatusBadRequest, docs.ErrValidation},
		{http.StatusUnprocessableEntity, docs.ErrValidation},
		{http.StatusTooManyRequests, docs.ErrTransient},
		{http.StatusInternalServerError, docs.ErrTransient},
		{http.StatusBadGateway, docs.ErrTransient},
	}
	for _, tc := range cases {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			fmt.Fprint(w, `{"error":{"message":"backend said no"}}`)
		}))
		_, err := client.GetDocument(context.Background(), "d1")
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: got %v, want %v", tc.status, err, tc.want)
		}
	}
}

func TestErrorDetailSurfacesBackendMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"message":"document d1 does not exist"}}`)
	}))
	_, err := client.GetDocument(context.Background(), "d1")
	if err == nil || !errors.Is(err, docs.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if want := "document d1 does not exist"; !strings.Contains(err.Error(), want) {
		t.Fatalf("error %q does not mention %q", err, want)
	}
}

func TestTokenFailureMapsToAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected when token acquisition fails")
	}))
	defer server.Close()
	client, err := New(server.URL, staticTokens{err: errors.New("no credential")}, time.Second,
		WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.GetDocument(context.Background(), "d1"); !errors.Is(err, docs.ErrAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestUpdateValues(t *testing.T) {
	var gotMethod, gotPath, gotQuery string
	var gotBody []byte
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotBody, _ = io.ReadAll(r.Body)
		fmt.Fprint(w, `{}`)
	}))
	values := [][]string{{"Name", "Total"}, {"Q1", "42"}}
	if err := client.UpdateValues(context.Background(), "sheet1", "Sheet1!A1:B2", values); err != nil {
		t.Fatalf("UpdateValues: %v", err)
	}
	if gotMethod != http.MethodPut {
		t.Fatalf("method = %q", gotMethod)
	}
	if gotPath != "/v1/spreadsheets/sheet1/values/Sheet1!A1:B2" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotQuery != "valueInputOption=USER_ENTERED" {
		t.Fatalf("query = %q", gotQuery)
	}
	if want := `{"values":[["Name","Total"],["Q1","42"]]}`; string(gotBody) != want {
		t.Fatalf("body = %s", gotBody)
	}
}

func TestUpdateValuesRejectsEmpty(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))
	if err := client.UpdateValues(context.Background(), "sheet1", "A1", nil); !errors.Is(err, docs.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddSlideDefaultsLayout(t *testing.T) {
	var gotPath string
	var gotBody []byte
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		fmt.Fprint(w, `{}`)
	}))
	if err := client.AddSlide(context.Background(), "pres1", ""); err != nil {
		t.Fatalf("AddSlide: %v", err)
	}
	if gotPath != "/v1/presentations/pres1:batchUpdate" {
		t.Fatalf("path = %q", gotPath)
	}
	want := `{"requests":[{"createSlide":{"slideLayoutReference":{"predefinedLayout":"TITLE_AND_BODY"}}}]}`
	if string(gotBody) != want {
		t.Fatalf("body = %s", gotBody)
	}
}

func TestListFiles(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"files":[{"id":"f1","name":"report.txt","mimeType":"text/plain"}]}`)
	}))
	files, err := client.ListFiles(context.Background(), "name contains 'report'", 10)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if gotQuery != "pageSize=10&q=name+contains+%27report%27" {
		t.Fatalf("query = %q", gotQuery)
	}
	if len(files) != 1 || files[0].ID != "f1" || files[0].Name != "report.txt" {
		t.Fatalf("files = %+v", files)
	}
}

func TestUploadAndDownloadFile(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/files":
			body, _ := io.ReadAll(r.Body)
			var upload struct {
				Name    string `json:"name"`
				Content string `json:"content"`
			}
			if err := json.Unmarshal(body, &upload); err != nil {
				t.Errorf("decode upload: %v", err)
			}
			if upload.Name != "notes.txt" || upload.Content != "aGVsbG8=" {
				t.Errorf("upload = %+v", upload)
			}
			fmt.Fprint(w, `{"id":"f9","name":"notes.txt"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/v1/files/f9":
			fmt.Fprint(w, "hello")
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	info, err := client.UploadFile(context.Background(), "notes.txt", "text/plain", []byte("hello"))
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if info.ID != "f9" {
		t.Fatalf("info = %+v", info)
	}
	data, err := client.DownloadFile(context.Background(), "f9")
	if err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("content = %q", data)
	}
}
