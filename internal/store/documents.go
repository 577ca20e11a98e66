package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/roach88/esq/internal/dsl"
)

// ErrNotFound is returned when no document matches a reference.
var ErrNotFound = errors.New("document not found")

// Document is a saved document.
type Document struct {
	ID          string          `json:"id"`
	Seq         int64           `json:"seq"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Fingerprint string          `json:"fingerprint"`
	Body        json.RawMessage `json:"body"`
	Warnings    int             `json:"warnings"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Object decodes the body.
func (d *Document) Object() (dsl.Object, error) {
	return dsl.Decode(d.Body)
}

// Entry is what Save records.
type Entry struct {
	Name     string
	Type     string
	Builder  dsl.Builder
	Warnings int
}

// Save stores the entry's current document. A document whose fingerprint
// is already saved is not stored again; the existing row is returned with
// created false.
func (s *Store) Save(ctx context.Context, e Entry) (*Document, bool, error) {
	if dsl.IsNil(e.Builder) {
		return nil, false, fmt.Errorf("save %s: %w", e.Name, &dsl.TypeError{Op: "save", Want: "Builder", Got: e.Builder})
	}
	body, err := dsl.MarshalCanonical(e.Builder.Document())
	if err != nil {
		return nil, false, fmt.Errorf("save %s: %w", e.Name, err)
	}
	fp, err := dsl.Fingerprint(e.Builder)
	if err != nil {
		return nil, false, fmt.Errorf("save %s: %w", e.Name, err)
	}
	id, err := s.newID()
	if err != nil {
		return nil, false, fmt.Errorf("save %s: %w", e.Name, err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, seq, name, type, fingerprint, body, warnings, created_at)
		SELECT ?, COALESCE(MAX(seq), 0) + 1, ?, ?, ?, ?, ?, ? FROM documents WHERE true
		ON CONFLICT(fingerprint) DO NOTHING
	`,
		id,
		e.Name,
		e.Type,
		fp,
		string(body),
		e.Warnings,
		s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, false, fmt.Errorf("save %s: %w", e.Name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("save %s: %w", e.Name, err)
	}

	doc, err := s.Get(ctx, fp)
	if err != nil {
		return nil, false, fmt.Errorf("save %s: %w", e.Name, err)
	}
	created := n == 1
	s.logger.Info("document saved",
		zap.String("id", doc.ID),
		zap.String("name", doc.Name),
		zap.String("fingerprint", fp),
		zap.Bool("created", created))
	return doc, created, nil
}

const selectDocument = `
	SELECT id, seq, name, type, fingerprint, body, warnings, created_at
	FROM documents
`

// Get returns the document with the given id or fingerprint.
func (s *Store) Get(ctx context.Context, ref string) (*Document, error) {
	row := s.db.QueryRowContext(ctx, selectDocument+`WHERE id = ? OR fingerprint = ?`, ref, ref)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%q: %w", ref, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// ListOptions filters List.
type ListOptions struct {
	// Name keeps only documents with this plan name.
	Name string
	// Limit caps the number of rows; 0 means no limit.
	Limit int
}

// List returns saved documents in save order.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Document, error) {
	query := selectDocument
	var args []any
	if opts.Name != "" {
		query += `WHERE name = ? `
		args = append(args, opts.Name)
	}
	query += `ORDER BY seq ASC, id ASC COLLATE BINARY`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("list documents: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Delete removes the document with the given id or fingerprint.
func (s *Store) Delete(ctx context.Context, ref string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ? OR fingerprint = ?`, ref, ref)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%q: %w", ref, ErrNotFound)
	}
	s.logger.Info("document deleted", zap.String("ref", ref))
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*Document, error) {
	var (
		doc       Document
		body      string
		createdAt string
	)
	if err := row.Scan(&doc.ID, &doc.Seq, &doc.Name, &doc.Type, &doc.Fingerprint, &body, &doc.Warnings, &createdAt); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	doc.Body = json.RawMessage(body)
	doc.CreatedAt = t
	return &doc, nil
}
