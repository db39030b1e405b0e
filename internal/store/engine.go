// Package store is the blob store engine: document metadata and the scope
// index live in a repository, payload bytes in object storage.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"scopedocs/internal/config"
	"scopedocs/internal/database"
	"scopedocs/internal/database/migration"
	"scopedocs/internal/docerr"
	"scopedocs/internal/model"
	"scopedocs/internal/repository"
	"scopedocs/internal/repository/postgres"
	"scopedocs/internal/repository/sqlite"
	"scopedocs/internal/scope"
	"scopedocs/internal/storage"
)

const uploadConcurrency = 4

// Engine persists StoredDocuments. It is safe for concurrent use; several
// engines may be opened against the same backends.
type Engine struct {
	repo  repository.DocumentRepository
	blobs storage.Storage
	db    *sql.DB
	log   *zap.Logger
}

// New wires an engine from already-open backends.
func New(repo repository.DocumentRepository, blobs storage.Storage, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{repo: repo, blobs: blobs, log: log.Named("store")}
}

// Open connects to the configured backends, creating the schema on first use.
// Any failure to reach persistent storage is reported as StorageUnavailable.
func Open(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, docerr.Unavailable("unable to open document storage", err)
	}
	if err := migration.EnsureMigrated(ctx, db, cfg.Driver, database.Target(cfg), log); err != nil {
		_ = db.Close()
		return nil, docerr.Unavailable("unable to prepare document storage", err)
	}
	blobs, err := storage.New(cfg)
	if err != nil {
		_ = db.Close()
		return nil, docerr.Unavailable("unable to open payload storage", err)
	}

	var repo repository.DocumentRepository
	if cfg.Driver == config.DriverPostgres {
		repo = postgres.NewDocumentPostgres(db)
	} else {
		repo = sqlite.NewDocumentSQLite(db)
	}

	e := New(repo, blobs, log)
	e.db = db
	return e, nil
}

// DB exposes the metadata database for health checks. It is nil for engines built with New.
func (e *Engine) DB() *sql.DB { return e.db }

// Close releases the metadata database.
func (e *Engine) Close() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

// ObjectKey is where the payload of a document is kept.
func ObjectKey(ns scope.Namespace, id string) string {
	return "documents/" + string(ns) + "/" + id
}

// Put upserts a batch as one unit: payloads are uploaded first, then every
// metadata row is committed in a single transaction. If either step fails the
// payloads this call created are removed again and one StorageFailure is
// returned. Objects that already existed under a document's id belong to an
// earlier committed put and are left in place.
func (e *Engine) Put(ctx context.Context, docs ...model.StoredDocument) error {
	if len(docs) == 0 {
		return nil
	}

	var (
		mu       sync.Mutex
		uploaded []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)
	for _, d := range docs {
		key := ObjectKey(d.Scope.Namespace, d.ID)
		payload := d.Payload
		contentType := d.MimeType
		name := d.Name
		g.Go(func() error {
			_, err := e.blobs.Stat(gctx, key)
			existed := err == nil
			if err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
				return fmt.Errorf("stat %s: %w", key, err)
			}
			_, err = e.blobs.Put(gctx, key, bytes.NewReader(payload), storage.PutObjectOptions{
				Size:        int64(len(payload)),
				ContentType: contentType,
				Metadata:    map[string]string{"original-filename": name},
			})
			if err != nil {
				return fmt.Errorf("upload %s: %w", key, err)
			}
			if !existed {
				mu.Lock()
				uploaded = append(uploaded, key)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.rollback(ctx, uploaded)
		return docerr.Failure("unable to store documents", err)
	}

	if err := e.repo.UpsertBatch(ctx, docs); err != nil {
		e.rollback(ctx, uploaded)
		return docerr.Failure("unable to store documents", err)
	}

	e.log.Debug("documents stored", zap.Int("count", len(docs)), zap.String("scope", docs[0].Scope.Encode()))
	return nil
}

func (e *Engine) rollback(ctx context.Context, keys []string) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		if err := e.blobs.Delete(ctx, key); err != nil {
			e.log.Warn("payload rollback failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// ListByScope returns documents filed exactly under key, without payloads.
// No match yields an empty slice.
func (e *Engine) ListByScope(ctx context.Context, key scope.Key) ([]model.StoredDocument, error) {
	docs, err := e.repo.ListByScope(ctx, key)
	if err != nil {
		return []model.StoredDocument{}, docerr.Failure("unable to load stored documents", err)
	}
	if docs == nil {
		docs = []model.StoredDocument{}
	}
	return docs, nil
}

// Get returns a document with its payload. A missing payload leaves Payload nil.
func (e *Engine) Get(ctx context.Context, id string) (*model.StoredDocument, error) {
	doc, err := e.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, docerr.NotFound(id)
		}
		return nil, docerr.Failure("unable to load document", err)
	}

	rc, _, err := e.blobs.Get(ctx, ObjectKey(doc.Scope.Namespace, doc.ID))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			e.log.Warn("document payload missing", zap.String("id", id))
			return doc, nil
		}
		return nil, docerr.Failure("unable to load document", err)
	}
	defer rc.Close()

	payload, err := io.ReadAll(rc)
	if err != nil {
		return nil, docerr.Failure("unable to load document", err)
	}
	doc.Payload = payload
	return doc, nil
}

// DeleteByID removes a document and its payload. Deleting an absent ID is a no-op.
func (e *Engine) DeleteByID(ctx context.Context, id string) error {
	doc, err := e.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return docerr.Failure("unable to remove document", err)
	}
	// Payload first; if it fails the row stays and the delete can be retried.
	if err := e.blobs.Delete(ctx, ObjectKey(doc.Scope.Namespace, doc.ID)); err != nil {
		return docerr.Failure("unable to remove document", err)
	}
	if err := e.repo.Delete(ctx, id); err != nil {
		return docerr.Failure("unable to remove document", err)
	}
	return nil
}
