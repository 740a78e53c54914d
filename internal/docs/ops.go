package docs

// Op is one atomic edit operation. Ops are immutable values built by the
// batch constructors and consumed exactly once by the submission gateway,
// which matches on the variant set exhaustively when encoding the wire
// request. The unexported marker keeps the set closed.
type Op interface {
	isOp()
}

type InsertText struct {
	Index int64
	Text  string
}

// DeleteRange removes the half-open character range [Start, End).
type DeleteRange struct {
	Start int64
	End   int64
}

type InsertTable struct {
	Index   int64
	Rows    int
	Columns int
}

// Color is an RGB triple with components in [0, 1].
type Color struct {
	Red   float64
	Green float64
	Blue  float64
}

// UpdateTextStyle restyles the character range [Start, End). Only the set
// members are written; nil/empty means "leave unchanged".
type UpdateTextStyle struct {
	Start   int64
	End     int64
	Bold    *bool
	LinkURL string
}

// UpdateTableCellStyle addresses a cell structurally by table origin plus
// (row, column). Structural addressing survives the character-index shifts
// caused by text insertions, which is why the border and background passes
// use it instead of literal ranges.
type UpdateTableCellStyle struct {
	TableStart    int64
	Row           int
	Column        int
	BorderWidthPT float64
	Background    *Color
}

const AlignmentCenter = "CENTER"

type UpdateParagraphStyle struct {
	Start     int64
	End       int64
	Alignment string
}

func (InsertText) isOp()           {}
func (DeleteRange) isOp()          {}
func (InsertTable) isOp()          {}
func (UpdateTextStyle) isOp()      {}
func (UpdateTableCellStyle) isOp() {}
func (UpdateParagraphStyle) isOp() {}
