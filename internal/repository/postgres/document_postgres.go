package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"scopedocs/internal/model"
	"scopedocs/internal/repository"
	"scopedocs/internal/scope"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const selectColumns = `id, scope_key, name, mime_type, byte_size, last_modified_ms, created_at`

// UpsertBatch inserts or replaces all documents inside one transaction.
func (r *DocumentPostgres) UpsertBatch(ctx context.Context, docs []model.StoredDocument) error {
	if len(docs) == 0 {
		return nil
	}
	const q = `
		INSERT INTO stored_documents (id, namespace, scope_key, name, mime_type, byte_size, last_modified_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			namespace = EXCLUDED.namespace,
			scope_key = EXCLUDED.scope_key,
			name = EXCLUDED.name,
			mime_type = EXCLUDED.mime_type,
			byte_size = EXCLUDED.byte_size,
			last_modified_ms = EXCLUDED.last_modified_ms
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
			d.CreatedAt,
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

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.StoredDocument, error) {
	q := `SELECT ` + selectColumns + ` FROM stored_documents WHERE id = $1`
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListByScope returns documents whose scope key matches exactly.
func (r *DocumentPostgres) ListByScope(ctx context.Context, key scope.Key) ([]model.StoredDocument, error) {
	q := `SELECT ` + selectColumns + ` FROM stored_documents WHERE scope_key = $1`
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

// Delete removes a document by ID. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM stored_documents WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*model.StoredDocument, error) {
	var (
		d   model.StoredDocument
		key string
	)
	if err := s.Scan(
		&d.ID,
		&key,
		&d.Name,
		&d.MimeType,
		&d.ByteSize,
		&d.LastModifiedMs,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	k, err := scope.DecodeKey(key)
	if err != nil {
		return nil, err
	}
	d.Scope = k
	return &d, nil
}
