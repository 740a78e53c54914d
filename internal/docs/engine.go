package docs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"workspacemcp/internal/logging"
)

// Gateway is the document backend: snapshot reads plus transactional
// batch submission. Implementations classify failures onto the sentinel
// errors in errors.go.
type Gateway interface {
	GetDocument(ctx context.Context, documentID string) (*Document, error)
	BatchUpdate(ctx context.Context, documentID string, ops []Op) error
}

// Engine sequences snapshot reads, range resolution and batch builds into
// the per-call edit protocol. Every call after the first within one
// operation depends on the observed side effects of the previous one, so
// backend calls are issued strictly sequentially. The engine has no retry
// loop of its own; transient failures propagate to the caller, who owns
// retry policy for the whole operation.
type Engine struct {
	gateway Gateway
	logger  *slog.Logger
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func NewEngine(gateway Gateway, opts ...Option) *Engine {
	engine := &Engine{gateway: gateway, logger: logging.Nop()}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// ReadText returns the document's flattened plain text.
func (e *Engine) ReadText(ctx context.Context, documentID string) (string, error) {
	doc, err := e.gateway.GetDocument(ctx, documentID)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", documentID, err)
	}
	return PlainText(doc), nil
}

// ReplaceDocument replaces the entire body with text.
func (e *Engine) ReplaceDocument(ctx context.Context, documentID, text string) error {
	doc, err := e.gateway.GetDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("replace %s: read snapshot: %w", documentID, err)
	}
	end := EndIndex(doc)
	ops := ReplaceAll(end, text)
	if len(ops) == 0 {
		e.logger.Debug("docs.replace_noop", "document_id", documentID)
		return nil
	}
	if err := e.gateway.BatchUpdate(ctx, documentID, ops); err != nil {
		return fmt.Errorf("replace %s: submit: %w", documentID, err)
	}
	e.logger.Info("docs.replace_done", "document_id", documentID, "end_index", end, "ops", len(ops))
	return nil
}

// AppendText inserts text just before the document's trailing newline.
func (e *Engine) AppendText(ctx context.Context, documentID, text string) error {
	if text == "" {
		return fmt.Errorf("append to %s: text must not be empty: %w", documentID, ErrValidation)
	}
	doc, err := e.gateway.GetDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("append to %s: read snapshot: %w", documentID, err)
	}
	end := EndIndex(doc)
	if err := e.gateway.BatchUpdate(ctx, documentID, Append(end, text)); err != nil {
		return fmt.Errorf("append to %s: submit: %w", documentID, err)
	}
	e.logger.Info("docs.append_done", "document_id", documentID, "at_index", end-1)
	return nil
}

// InsertLink inserts display text at index and styles it as a hyperlink,
// both in one batch.
func (e *Engine) InsertLink(ctx context.Context, documentID string, index int64, text, url string) error {
	if index < 1 {
		return fmt.Errorf("insert link in %s: index must be at least 1: %w", documentID, ErrValidation)
	}
	if text == "" {
		return fmt.Errorf("insert link in %s: display text must not be empty: %w", documentID, ErrValidation)
	}
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("insert link in %s: url must not be empty: %w", documentID, ErrValidation)
	}
	if err := e.gateway.BatchUpdate(ctx, documentID, Link(index, text, url)); err != nil {
		return fmt.Errorf("insert link in %s: submit: %w", documentID, err)
	}
	e.logger.Info("docs.insert_link_done", "document_id", documentID, "index", index, "url", url)
	return nil
}

// InsertTable creates a rows x columns table at index, fills it from
// row-major data, borders every cell, and optionally styles row 0 as a
// header. The work spans four phases; each index-shifting phase is
// followed by a fresh snapshot before any index-dependent follow-up.
// If the shell phase succeeds and a later phase fails, the table stays in
// the document empty or partially styled; the error names the phase so the
// caller can decide whether to retry or accept the partial result.
func (e *Engine) InsertTable(ctx context.Context, documentID string, index int64, rows, columns int, data [][]string, headerRow bool) error {
	if index < 1 {
		return fmt.Errorf("insert table in %s: index must be at least 1: %w", documentID, ErrValidation)
	}
	if rows < 1 || columns < 1 {
		return fmt.Errorf("insert table in %s: rows and columns must be at least 1: %w", documentID, ErrValidation)
	}

	// Phase 1: newline plus empty table shell.
	if err := e.gateway.BatchUpdate(ctx, documentID, TableShell(index, rows, columns)); err != nil {
		return fmt.Errorf("insert table in %s: insert_shell: submit: %w", documentID, err)
	}
	e.logger.Debug("docs.table_phase_done", "document_id", documentID, "phase", "insert_shell")

	// Phase 2: re-fetch, locate our table, fill cells highest-index-first.
	doc, err := e.gateway.GetDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("insert table in %s: fill_cells: read snapshot: %w", documentID, err)
	}
	table, err := LocateTable(doc, index+1)
	if err != nil {
		return fmt.Errorf("insert table in %s: fill_cells: table was created but could not be located: %w", documentID, err)
	}
	fills, err := FillCells(table, rows, columns, data)
	if err != nil {
		return fmt.Errorf("insert table in %s: fill_cells: %w", documentID, err)
	}
	if len(fills) > 0 {
		if err := e.gateway.BatchUpdate(ctx, documentID, fills); err != nil {
			return fmt.Errorf("insert table in %s: fill_cells: submit: %w", documentID, err)
		}
	}
	e.logger.Debug("docs.table_phase_done", "document_id", documentID, "phase", "fill_cells", "ops", len(fills))

	// Phase 3: the fills shifted character indices, so re-fetch and apply
	// borders with structural cell addressing.
	doc, err = e.gateway.GetDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("insert table in %s: style_borders: read snapshot: %w", documentID, err)
	}
	table, err = LocateTable(doc, index+1)
	if err != nil {
		return fmt.Errorf("insert table in %s: style_borders: %w", documentID, err)
	}
	if err := e.gateway.BatchUpdate(ctx, documentID, CellBorders(table)); err != nil {
		return fmt.Errorf("insert table in %s: style_borders: submit: %w", documentID, err)
	}
	e.logger.Debug("docs.table_phase_done", "document_id", documentID, "phase", "style_borders")

	// Phase 4: header styling reuses the phase-3 snapshot; cell style
	// updates shift no character indices.
	if headerRow {
		ops := HeaderStyles(table)
		if len(ops) > 0 {
			if err := e.gateway.BatchUpdate(ctx, documentID, ops); err != nil {
				return fmt.Errorf("insert table in %s: style_header: submit: %w", documentID, err)
			}
		}
		e.logger.Debug("docs.table_phase_done", "document_id", documentID, "phase", "style_header", "ops", len(ops))
	}

	e.logger.Info("docs.insert_table_done", "document_id", documentID, "index", index, "rows", rows, "columns", columns, "header_row", headerRow)
	return nil
}
