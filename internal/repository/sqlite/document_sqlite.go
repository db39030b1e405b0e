package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"scopedocs/internal/model"
	"scopedocs/internal/repository"
	"scopedocs/internal/scope"
)

// DocumentSQLite is a SQLite implementation of repository.DocumentRepository
// for the local single-file store. Timestamps are kept as RFC 3339 text.
type DocumentSQLite struct {
	db *sql.DB
}

// NewDocumentSQLite creates a new DocumentSQLite repository.
func NewDocumentSQLite(db *sql.DB) *DocumentSQLite {
	return &DocumentSQLite{db: db}
}

var _ repository.DocumentRepository = (*DocumentSQLite)(nil)

const selectColumns = `id, scope_key, name, mime_type, byte_size, last_modified_ms, created_at`

func (r *DocumentSQLite) UpsertBatch(ctx context.Context, docs []model.StoredDocument) error {
	if len(docs) == 0 {
		return nil
	}
	const q = `
		INSERT INTO stored_documents (id, namespace, scope_key, name, mime_type, byte_size, last_modified_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			namespace = excluded.namespace,
			scope_key = excluded.scope_key,
			name = excluded.name,
			mime_type = excluded.mime_type,
			byte_size = excluded.byte_size,
			last_modified_ms = excluded.last_modified_ms
	`
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	for _, d := range docs {
		if _, err := tx.ExecContext(ctx, q,
			d.ID,
			string(d.Scope.Namespace),
			d.Scope.Encode(),
			d.Name,
			d.MimeType,
			d.ByteSize,
			d.LastModifiedMs,
			d.CreatedAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert %s: %w", d.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *DocumentSQLite) FindByID(ctx context.Context, id string) (*model.StoredDocument, error) {
	q := `SELECT ` + selectColumns + ` FROM stored_documents WHERE id = ?`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

func (r *DocumentSQLite) ListByScope(ctx context.Context, key scope.Key) ([]model.StoredDocument, error) {
	q := `SELECT ` + selectColumns + ` FROM stored_documents WHERE scope_key = ?`
	rows, err := r.db.QueryContext(ctx, q, key.Encode())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.StoredDocument, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *DocumentSQLite) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM stored_documents WHERE id = ?`, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*model.StoredDocument, error) {
	var (
		d         model.StoredDocument
		key       string
		createdAt string
	)
	if err := s.Scan(&d.ID, &key, &d.Name, &d.MimeType, &d.ByteSize, &d.LastModifiedMs, &createdAt); err != nil {
		return nil, err
	}
	k, err := scope.DecodeKey(key)
	if err != nil {
		return nil, err
	}
	d.Scope = k
	if d.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &d, nil
}
