package docs

import "strings"

// Document is a point-in-time structural snapshot of one document. It is
// valid only until the next mutation: any applied insertion or deletion
// invalidates every index read from it, so snapshots are never cached
// across edit batches.
type Document struct {
	DocumentID string `json:"documentId"`
	Title      string `json:"title,omitempty"`
	Body       Body   `json:"body"`
}

type Body struct {
	Content []StructuralElement `json:"content"`
}

// StructuralElement is one node of the document content tree. Exactly one
// of Paragraph or Table is set. StartIndex/EndIndex are 1-based and
// half-open: [startIndex, endIndex).
type StructuralElement struct {
	StartIndex int64      `json:"startIndex"`
	EndIndex   int64      `json:"endIndex"`
	Paragraph  *Paragraph `json:"paragraph,omitempty"`
	Table      *Table     `json:"table,omitempty"`
}

type Paragraph struct {
	Elements []ParagraphElement `json:"elements"`
}

type ParagraphElement struct {
	StartIndex int64    `json:"startIndex"`
	EndIndex   int64    `json:"endIndex"`
	TextRun    *TextRun `json:"textRun,omitempty"`
}

type TextRun struct {
	Content string `json:"content"`
}

type Table struct {
	Rows      int        `json:"rows"`
	Columns   int        `json:"columns"`
	TableRows []TableRow `json:"tableRows"`
}

type TableRow struct {
	TableCells []TableCell `json:"tableCells"`
}

// TableCell owns its own nested element sequence; recursion terminates at
// paragraph leaves.
type TableCell struct {
	Content []StructuralElement `json:"content"`
}

// PlainText flattens the snapshot to the text a reader would see. Run
// content carries its own newlines, including the implicit paragraph
// terminators, so flattening is pure concatenation.
func PlainText(doc *Document) string {
	var b strings.Builder
	appendElements(&b, doc.Body.Content)
	return b.String()
}

func appendElements(b *strings.Builder, elements []StructuralElement) {
	for _, elem := range elements {
		switch {
		case elem.Paragraph != nil:
			for _, pe := range elem.Paragraph.Elements {
				if pe.TextRun != nil {
					b.WriteString(pe.TextRun.Content)
				}
			}
		case elem.Table != nil:
			for _, row := range elem.Table.TableRows {
				for _, cell := range row.TableCells {
					appendElements(b, cell.Content)
				}
			}
		}
	}
}
