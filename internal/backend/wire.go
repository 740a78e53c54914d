package backend

import (
	"fmt"
	"strings"

	"workspacemcp/internal/docs"
)

// Wire shapes for the backend's batchUpdate request body. One pointer per
// variant; exactly one is set per request entry.

type wireRequest struct {
	InsertText           *wireInsertText           `json:"insertText,omitempty"`
	DeleteContentRange   *wireDeleteContentRange   `json:"deleteContentRange,omitempty"`
	InsertTable          *wireInsertTable          `json:"insertTable,omitempty"`
	UpdateTextStyle      *wireUpdateTextStyle      `json:"updateTextStyle,omitempty"`
	UpdateTableCellStyle *wireUpdateTableCellStyle `json:"updateTableCellStyle,omitempty"`
	UpdateParagraphStyle *wireUpdateParagraphStyle `json:"updateParagraphStyle,omitempty"`
}

type wireLocation struct {
	Index int64 `json:"index"`
}

type wireRange struct {
	StartIndex int64 `json:"startIndex"`
	EndIndex   int64 `json:"endIndex"`
}

type wireInsertText struct {
	Location wireLocation `json:"location"`
	Text     string       `json:"text"`
}

type wireDeleteContentRange struct {
	Range wireRange `json:"range"`
}

type wireInsertTable struct {
	Location wireLocation `json:"location"`
	Rows     int          `json:"rows"`
	Columns  int          `json:"columns"`
}

type wireLink struct {
	URL string `json:"url"`
}

type wireTextStyle struct {
	Bold *bool     `json:"bold,omitempty"`
	Link *wireLink `json:"link,omitempty"`
}

type wireUpdateTextStyle struct {
	Range     wireRange     `json:"range"`
	TextStyle wireTextStyle `json:"textStyle"`
	Fields    string        `json:"fields"`
}

type wireRGB struct {
	Red   float64 `json:"red"`
	Green float64 `json:"green"`
	Blue  float64 `json:"blue"`
}

type wireOptionalColor struct {
	RGBColor wireRGB `json:"rgbColor"`
}

type wireColor struct {
	Color wireOptionalColor `json:"color"`
}

type wireDimension struct {
	Magnitude float64 `json:"magnitude"`
	Unit      string  `json:"unit"`
}

type wireborder struct {
	Color     wireColor     `json:"color"`
	Width     wireDimension `json:"width"`
	DashStyle string        `json:"dashStyle"`
}

type wireTableCellStyle struct {
	BorderTop       *wireborder `json:"borderTop,omitempty"`
	BorderBottom    *wireborder `json:"borderBottom,omitempty"`
	BorderLeft      *wireborder `json:"borderLeft,omitempty"`
	BorderRight     *wireborder `json:"borderRight,omitempty"`
	BackgroundColor *wireColor  `json:"backgroundColor,omitempty"`
}

type wireTableCellLocation struct {
	TableStartLocation wireLocation `json:"tableStartLocation"`
	RowIndex           int          `json:"rowIndex"`
	ColumnIndex        int          `json:"columnIndex"`
}

type wireTableRange struct {
	TableCellLocation wireTableCellLocation `json:"tableCellLocation"`
	RowSpan           int                   `json:"rowSpan"`
	ColumnSpan        int                   `json:"columnSpan"`
}

type wireUpdateTableCellStyle struct {
	TableRange     wireTableRange     `json:"tableRange"`
	TableCellStyle wireTableCellStyle `json:"tableCellStyle"`
	Fields         string             `json:"fields"`
}

type wireParagraphStyle struct {
	Alignment string `json:"alignment"`
}

type wireUpdateParagraphStyle struct {
	Range          wireRange          `json:"range"`
	ParagraphStyle wireParagraphStyle `json:"paragraphStyle"`
	Fields         string             `json:"fields"`
}

func encodeOps(ops []docs.Op) ([]wireRequest, error) {
	requests := make([]wireRequest, 0, len(ops))
	for _, op := range ops {
		encoded, err := encodeOp(op)
		if err != nil {
			return nil, err
		}
		requests = append(requests, encoded)
	}
	return requests, nil
}

// encodeOp matches the closed Op variant set exhaustively. The default
// arm is unreachable while the set stays sealed; it exists so a future
// variant fails loudly instead of being dropped.
func encodeOp(op docs.Op) (wireRequest, error) {
	switch typed := op.(type) {
	case docs.InsertText:
		if typed.Text == "" {
			return wireRequest{}, fmt.Errorf("insert of empty text at %d: %w", typed.Index, docs.ErrValidation)
		}
		return wireRequest{InsertText: &wireInsertText{
			Location: wireLocation{Index: typed.Index},
			Text:     typed.Text,
		}}, nil
	case docs.DeleteRange:
		if typed.End <= typed.Start {
			return wireRequest{}, fmt.Errorf("delete of empty range [%d,%d): %w", typed.Start, typed.End, docs.ErrValidation)
		}
		return wireRequest{DeleteContentRange: &wireDeleteContentRange{
			Range: wireRange{StartIndex: typed.Start, EndIndex: typed.End},
		}}, nil
	case docs.InsertTable:
		return wireRequest{InsertTable: &wireInsertTable{
			Location: wireLocation{Index: typed.Index},
			Rows:     typed.Rows,
			Columns:  typed.Columns,
		}}, nil
	case docs.UpdateTextStyle:
		style := wireTextStyle{Bold: typed.Bold}
		var fields []string
		if typed.Bold != nil {
			fields = append(fields, "bold")
		}
		if typed.LinkURL != "" {
			style.Link = &wireLink{URL: typed.LinkURL}
			fields = append(fields, "link")
		}
		if len(fields) == 0 {
			return wireRequest{}, fmt.Errorf("text style update with no fields: %w", docs.ErrValidation)
		}
		return wireRequest{UpdateTextStyle: &wireUpdateTextStyle{
			Range:     wireRange{StartIndex: typed.Start, EndIndex: typed.End},
			TextStyle: style,
			Fields:    strings.Join(fields, ","),
		}}, nil
	case docs.UpdateTableCellStyle:
		style := wireTableCellStyle{}
		var fields []string
		if typed.BorderWidthPT > 0 {
			border := solidBorder(typed.BorderWidthPT)
			style.BorderTop = &border
			style.BorderBottom = &border
			style.BorderLeft = &border
			style.BorderRight = &border
			fields = append(fields, "borderTop", "borderBottom", "borderLeft", "borderRight")
		}
		if typed.Background != nil {
			style.BackgroundColor = &wireColor{Color: wireOptionalColor{RGBColor: wireRGB{
				Red:   typed.Background.Red,
				Green: typed.Background.Green,
				Blue:  typed.Background.Blue,
			}}}
			fields = append(fields, "backgroundColor")
		}
		if len(fields) == 0 {
			return wireRequest{}, fmt.Errorf("cell style update with no fields: %w", docs.ErrValidation)
		}
		return wireRequest{UpdateTableCellStyle: &wireUpdateTableCellStyle{
			TableRange: wireTableRange{
				TableCellLocation: wireTableCellLocation{
					TableStartLocation: wireLocation{Index: typed.TableStart},
					RowIndex:           typed.Row,
					ColumnIndex:        typed.Column,
				},
				RowSpan:    1,
				ColumnSpan: 1,
			},
			TableCellStyle: style,
			Fields:         strings.Join(fields, ","),
		}}, nil
	case docs.UpdateParagraphStyle:
		if typed.Alignment == "" {
			return wireRequest{}, fmt.Errorf("paragraph style update with no alignment: %w", docs.ErrValidation)
		}
		return wireRequest{UpdateParagraphStyle: &wireUpdateParagraphStyle{
			Range:          wireRange{StartIndex: typed.Start, EndIndex: typed.End},
			ParagraphStyle: wireParagraphStyle{Alignment: typed.Alignment},
			Fields:         "alignment",
		}}, nil
	default:
		return wireRequest{}, fmt.Errorf("unsupported edit operation %T: %w", op, docs.ErrValidation)
	}
}

func solidBorder(widthPT float64) wireborder {
	return wireborder{
		Color:     wireColor{Color: wireOptionalColor{RGBColor: wireRGB{}}},
		Width:     wireDimension{Magnitude: widthPT, Unit: "PT"},
		DashStyle: "SOLID",
	}
}
