package backend

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"workspacemcp/internal/docs"
)

// Pass-through calls for the spreadsheet, presentation and file-storage
// services. Single request/response each, no ordering hazards; they share
// the document client's auth and error classification.

type FileInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType,omitempty"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	Size         int64  `json:"size,omitempty"`
}

// UpdateValues overwrites the addressed cell range with row-major values.
func (c *Client) UpdateValues(ctx context.Context, spreadsheetID, cellRange string, values [][]string) error {
	if strings.TrimSpace(spreadsheetID) == "" || strings.TrimSpace(cellRange) == "" {
		return fmt.Errorf("spreadsheet id and range must not be empty: %w", docs.ErrValidation)
	}
	if len(values) == 0 {
		return fmt.Errorf("values must not be empty: %w", docs.ErrValidation)
	}
	payload, err := json.Marshal(map[string]any{"values": values})
	if err != nil {
		return fmt.Errorf("update values %s: encode: %w", spreadsheetID, err)
	}
	endpoint := c.baseURL + "/v1/spreadsheets/" + url.PathEscape(spreadsheetID) +
		"/values/" + url.PathEscape(cellRange) + "?valueInputOption=USER_ENTERED"
	if _, err := c.do(ctx, http.MethodPut, endpoint, payload); err != nil {
		return fmt.Errorf("update values %s %s: %w", spreadsheetID, cellRange, err)
	}
	return nil
}

// AddSlide appends one slide with the given layout to a presentation.
func (c *Client) AddSlide(ctx context.Context, presentationID, layout string) error {
	if strings.TrimSpace(presentationID) == "" {
		return fmt.Errorf("presentation id must not be empty: %w", docs.ErrValidation)
	}
	if layout == "" {
		layout = "TITLE_AND_BODY"
	}
	payload, err := json.Marshal(map[string]any{
		"requests": []map[string]any{
			{"createSlide": map[string]any{
				"slideLayoutReference": map[string]any{"predefinedLayout": layout},
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("add slide %s: encode: %w", presentationID, err)
	}
	endpoint := c.baseURL + "/v1/presentations/" + url.PathEscape(presentationID) + ":batchUpdate"
	if _, err := c.do(ctx, http.MethodPost, endpoint, payload); err != nil {
		return fmt.Errorf("add slide %s: %w", presentationID, err)
	}
	return nil
}

// ListFiles searches file storage. An empty query lists everything, most
// recently modified first.
func (c *Client) ListFiles(ctx context.Context, query string, pageSize int) ([]FileInfo, error) {
	if pageSize <= 0 {
		pageSize = 25
	}
	params := url.Values{}
	if strings.TrimSpace(query) != "" {
		params.Set("q", query)
	}
	params.Set("pageSize", strconv.Itoa(pageSize))
	endpoint := c.baseURL + "/v1/files?" + params.Encode()
	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	var envelope struct {
		Files []FileInfo `json:"files"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("list files: decode: %w", err)
	}
	return envelope.Files, nil
}

// UploadFile stores a new file and returns its metadata.
func (c *Client) UploadFile(ctx context.Context, name, mimeType string, content []byte) (FileInfo, error) {
	if strings.TrimSpace(name) == "" {
		return FileInfo{}, fmt.Errorf("file name must not be empty: %w", docs.ErrValidation)
	}
	payload, err := json.Marshal(map[string]any{
		"name":     name,
		"mimeType": mimeType,
		"content":  base64.StdEncoding.EncodeToString(content),
	})
	if err != nil {
		return FileInfo{}, fmt.Errorf("upload %s: encode: %w", name, err)
	}
	body, err := c.do(ctx, http.MethodPost, c.baseURL+"/v1/files", payload)
	if err != nil {
		return FileInfo{}, fmt.Errorf("upload %s: %w", name, err)
	}
	var info FileInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return FileInfo{}, fmt.Errorf("upload %s: decode: %w", name, err)
	}
	return info, nil
}

// DownloadFile fetches raw file content.
func (c *Client) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	if strings.TrimSpace(fileID) == "" {
		return nil, fmt.Errorf("file id must not be empty: %w", docs.ErrValidation)
	}
	body, err := c.do(ctx, http.MethodGet, c.baseURL+"/v1/files/"+url.PathEscape(fileID)+"?alt=media", nil)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", fileID, err)
	}
	return body, nil
}
