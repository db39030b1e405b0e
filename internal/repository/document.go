package repository

import (
	"context"

	"scopedocs/internal/model"
	"scopedocs/internal/scope"
)

// DocumentRepository persists document metadata and the scope index.
// Payload bytes are not stored here; see package storage.
type DocumentRepository interface {
	// UpsertBatch writes every document in a single transaction, replacing rows with the same ID.
	// CreatedAt of an existing row is preserved.
	UpsertBatch(ctx context.Context, docs []model.StoredDocument) error

	// FindByID returns a document by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.StoredDocument, error)

	// ListByScope returns every document filed under exactly this scope key. Order is unspecified.
	ListByScope(ctx context.Context, key scope.Key) ([]model.StoredDocument, error)

	// Delete removes a document by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
