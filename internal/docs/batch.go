package docs

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// ReplaceAll deletes the whole body and inserts text at index 1. The
// delete is omitted when the document is already empty (endIndex <= 2)
// because the backend rejects zero-length ranges; the insert is omitted
// for empty replacement text for the same reason.
func ReplaceAll(endIndex int64, text string) []Op {
	var ops []Op
	if endIndex > 2 {
		ops = append(ops, DeleteRange{Start: 1, End: endIndex - 1})
	}
	if text != "" {
		ops = append(ops, InsertText{Index: 1, Text: text})
	}
	return ops
}

// Append inserts one position before the implicit trailing newline, so the
// appended text lands before the terminator instead of after it.
func Append(endIndex int64, text string) []Op {
	return []Op{InsertText{Index: endIndex - 1, Text: text}}
}

// Link inserts display text and styles exactly that range as a hyperlink.
// Both ops share one batch against pre-batch indices, so the range is
// measured from the input text: the insert places exactly that many
// characters starting at index.
func Link(index int64, text, url string) []Op {
	length := int64(utf8.RuneCountInString(text))
	return []Op{
		InsertText{Index: index, Text: text},
		UpdateTextStyle{Start: index, End: index + length, LinkURL: url},
	}
}

// TableShell builds the first table-insertion batch: a literal newline at
// the caller's index, then the table one past it. The newline guarantees
// the table starts its own structural element instead of splitting a run
// of existing text.
func TableShell(index int64, rows, columns int) []Op {
	return []Op{
		InsertText{Index: index, Text: "\n"},
		InsertTable{Index: index + 1, Rows: rows, Columns: columns},
	}
}

type cellFill struct {
	index int64
	text  string
}

// FillCells resolves an insertion point for every non-empty data cell and
// orders the inserts from highest target index to lowest. Ops in one batch
// are applied against the pre-batch snapshot's indices, so a higher-index
// insert must never run after a lower-index one has shifted it.
func FillCells(table *StructuralElement, rows, columns int, data [][]string) ([]Op, error) {
	var fills []cellFill
	for r := 0; r < rows && r < len(data); r++ {
		for c := 0; c < columns && c < len(data[r]); c++ {
			text := data[r][c]
			if text == "" {
				continue
			}
			index, err := CellInsertionPoint(table, r, c)
			if err != nil {
				return nil, err
			}
			fills = append(fills, cellFill{index: index, text: text})
		}
	}
	sort.Slice(fills, func(i, j int) bool { return fills[i].index > fills[j].index })
	ops := make([]Op, 0, len(fills))
	for _, fill := range fills {
		ops = append(ops, InsertText{Index: fill.index, Text: fill.text})
	}
	return ops, nil
}

// CellBorders applies a solid black 1pt border to all four sides of every
// cell of the table as rebuilt in the current snapshot.
func CellBorders(table *StructuralElement) []Op {
	if table.Table == nil {
		return nil
	}
	var ops []Op
	for r, row := range table.Table.TableRows {
		for c := range row.TableCells {
			ops = append(ops, UpdateTableCellStyle{
				TableStart:    table.StartIndex,
				Row:           r,
				Column:        c,
				BorderWidthPT: 1,
			})
		}
	}
	return ops
}

var headerBackground = Color{Red: 0.9, Green: 0.9, Blue: 0.9}

// HeaderStyles centers and bolds row 0 and paints its cells light gray.
// Runs whose trimmed content is empty are the implicit paragraph markers
// and get no bold op. Rows past 0 are never touched here.
func HeaderStyles(table *StructuralElement) []Op {
	if table.Table == nil || len(table.Table.TableRows) == 0 {
		return nil
	}
	bold := true
	var ops []Op
	for c, cell := range table.Table.TableRows[0].TableCells {
		for _, elem := range cell.Content {
			if elem.Paragraph == nil {
				continue
			}
			ops = append(ops, UpdateParagraphStyle{
				Start:     elem.StartIndex,
				End:       elem.EndIndex,
				Alignment: AlignmentCenter,
			})
			for _, pe := range elem.Paragraph.Elements {
				if pe.TextRun == nil || strings.TrimSpace(pe.TextRun.Content) == "" {
					continue
				}
				ops = append(ops, UpdateTextStyle{Start: pe.StartIndex, End: pe.EndIndex, Bold: &bold})
			}
		}
		background := headerBackground
		ops = append(ops, UpdateTableCellStyle{
			TableStart: table.StartIndex,
			Row:        0,
			Column:     c,
			Background: &background,
		})
	}
	return ops
}
