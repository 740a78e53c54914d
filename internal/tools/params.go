package tools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cast"
)

func optString(req mcp.CallToolRequest, key, fallback string) string {
	raw, ok := req.GetArguments()[key]
	if !ok {
		return fallback
	}
	value, err := cast.ToStringE(raw)
	if err != nil {
		return fallback
	}
	return value
}

func optInt(req mcp.CallToolRequest, key string, fallback int) int {
	raw, ok := req.GetArguments()[key]
	if !ok {
		return fallback
	}
	value, err := cast.ToIntE(raw)
	if err != nil {
		return fallback
	}
	return value
}

func optBool(req mcp.CallToolRequest, key string, fallback bool) bool {
	raw, ok := req.GetArguments()[key]
	if !ok {
		return fallback
	}
	value, err := cast.ToBoolE(raw)
	if err != nil {
		return fallback
	}
	return value
}

func requireInt(req mcp.CallToolRequest, key string) (int, error) {
	raw, ok := req.GetArguments()[key]
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}
	value, err := cast.ToIntE(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return value, nil
}

// stringMatrix decodes a row-major matrix argument. Cells arrive as
// whatever JSON type the model sent; numbers and booleans are rendered
// to their string forms rather than rejected.
func stringMatrix(req mcp.CallToolRequest, key string) ([][]string, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return nil, nil
	}
	rows, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an array of arrays", key)
	}
	matrix := make([][]string, 0, len(rows))
	for i, rawRow := range rows {
		cells, ok := rawRow.([]any)
		if !ok {
			return nil, fmt.Errorf("%s row %d must be an array", key, i)
		}
		row := make([]string, 0, len(cells))
		for j, rawCell := range cells {
			cell, err := cast.ToStringE(rawCell)
			if err != nil {
				return nil, fmt.Errorf("%s cell [%d][%d] is not a string value", key, i, j)
			}
			row = append(row, cell)
		}
		matrix = append(matrix, row)
	}
	return matrix, nil
}
