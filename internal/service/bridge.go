package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"scopedocs/internal/docerr"
	"scopedocs/internal/model"
	"scopedocs/internal/scope"
)

// LibraryBridge reuses evidence-library documents as input for another scope.
type LibraryBridge interface {
	// Browse lists the evidence library of the session.
	Browse(ctx context.Context, session scope.Session) ([]model.DocumentSummary, error)

	// Materialize rebuilds a submittable file from a stored document. It
	// returns nil when the payload is missing or does not match ByteSize.
	Materialize(doc *model.StoredDocument) *model.File

	// ImportSelected feeds the selected library documents into target and
	// returns the target listing afterwards.
	ImportSelected(ctx context.Context, session scope.Session, ids []string, target scope.Scope) ([]model.DocumentSummary, error)
}

type libraryBridge struct {
	store   DocumentStore
	catalog CatalogService
	log     *zap.Logger
}

// NewLibraryBridge constructs a LibraryBridge.
func NewLibraryBridge(store DocumentStore, catalog CatalogService, log *zap.Logger) LibraryBridge {
	if log == nil {
		log = zap.NewNop()
	}
	return &libraryBridge{store: store, catalog: catalog, log: log.Named("bridge")}
}

func (b *libraryBridge) Browse(ctx context.Context, session scope.Session) ([]model.DocumentSummary, error) {
	return b.catalog.ListDocuments(ctx, session.Library())
}

func (b *libraryBridge) Materialize(doc *model.StoredDocument) *model.File {
	if doc == nil || doc.Payload == nil || int64(len(doc.Payload)) != doc.ByteSize {
		return nil
	}
	return &model.File{
		Name:           doc.Name,
		MimeType:       doc.MimeType,
		Size:           doc.ByteSize,
		LastModifiedMs: doc.LastModifiedMs,
		Content:        doc.Payload,
	}
}

func (b *libraryBridge) ImportSelected(ctx context.Context, session scope.Session, ids []string, target scope.Scope) ([]model.DocumentSummary, error) {
	if len(ids) == 0 {
		return []model.DocumentSummary{}, docerr.Validation("no documents selected")
	}
	library, err := session.Library().Key()
	if err != nil {
		return []model.DocumentSummary{}, err
	}
	if _, err := target.Key(); err != nil {
		return []model.DocumentSummary{}, err
	}

	ctx, span := tracer.Start(ctx, "bridge.ImportSelected", trace.WithAttributes(
		attribute.String("scopedocs.library", library.Encode()),
		attribute.Int("scopedocs.selected", len(ids)),
	))
	defer span.End()

	files := make([]model.File, 0, len(ids))
	for _, id := range ids {
		doc, err := b.store.Get(ctx, id)
		if err != nil {
			if errors.Is(err, docerr.ErrNotFound) {
				b.log.Info("selected document missing", zap.String("id", id))
				continue
			}
			recordError(span, err)
			return []model.DocumentSummary{}, err
		}
		if !doc.Scope.Equal(library) {
			b.log.Warn("selected document outside library", zap.String("id", id), zap.String("scope", doc.Scope.Encode()))
			continue
		}
		f := b.Materialize(doc)
		if f == nil {
			b.log.Warn("selected document has no usable payload", zap.String("id", id))
			continue
		}
		files = append(files, *f)
	}
	if len(files) == 0 {
		return []model.DocumentSummary{}, docerr.Validation("no valid documents selected")
	}

	return b.catalog.AddFiles(ctx, target, files)
}
