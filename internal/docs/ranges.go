package docs

import "fmt"

// EndIndex returns the end of the document's flattened index space: the
// endIndex of the LAST top-level element. Computing it from the first
// element under-counts as soon as the document holds more than one
// top-level element (for example a paragraph followed by a table) and
// leaves trailing content untouched by a full replace.
//
// A freshly created empty document reports 2: index 1 holds the implicit
// trailing newline.
func EndIndex(doc *Document) int64 {
	content := doc.Body.Content
	if len(content) == 0 {
		return 2
	}
	return content[len(content)-1].EndIndex
}

// LocateTable returns the first table element whose startIndex is at or
// after notBefore. A miss right after a successful insertTable batch means
// the snapshot no longer reflects our own edit.
func LocateTable(doc *Document, notBefore int64) (*StructuralElement, error) {
	for i := range doc.Body.Content {
		elem := &doc.Body.Content[i]
		if elem.Table != nil && elem.StartIndex >= notBefore {
			return elem, nil
		}
	}
	return nil, fmt.Errorf("no table at or after index %d: %w", notBefore, ErrStructureNotFound)
}

// CellInsertionPoint returns the start index of the first paragraph inside
// the addressed cell. Every cell of a freshly created table contains
// exactly one empty paragraph, so a miss here means the table was mutated
// underneath us.
func CellInsertionPoint(table *StructuralElement, row, col int) (int64, error) {
	if table.Table == nil {
		return 0, fmt.Errorf("element at index %d is not a table: %w", table.StartIndex, ErrStructureNotFound)
	}
	if row < 0 || row >= len(table.Table.TableRows) {
		return 0, fmt.Errorf("table has no row %d: %w", row, ErrStructureNotFound)
	}
	cells := table.Table.TableRows[row].TableCells
	if col < 0 || col >= len(cells) {
		return 0, fmt.Errorf("table row %d has no column %d: %w", row, col, ErrStructureNotFound)
	}
	for _, elem := range cells[col].Content {
		if elem.Paragraph != nil {
			return elem.StartIndex, nil
		}
	}
	return 0, fmt.Errorf("cell (%d,%d) has no paragraph content: %w", row, col, ErrStructureNotFound)
}
