package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"scopedocs/internal/docerr"
	"scopedocs/internal/ingest"
	"scopedocs/internal/model"
	"scopedocs/internal/scope"
)

var tracer = otel.Tracer("scopedocs/internal/service")

// DocumentStore is the persistence the catalog and the bridge are built on.
// *store.Engine satisfies it.
type DocumentStore interface {
	ListByScope(ctx context.Context, key scope.Key) ([]model.StoredDocument, error)
	Put(ctx context.Context, docs ...model.StoredDocument) error
	Get(ctx context.Context, id string) (*model.StoredDocument, error)
	DeleteByID(ctx context.Context, id string) error
}

// CatalogService is the facade every upload surface talks to.
// Failing calls return a non-nil error whose docerr.Message is fit for display;
// listings are then empty rather than nil.
type CatalogService interface {
	// ListDocuments returns the documents filed under s.
	ListDocuments(ctx context.Context, s scope.Scope) ([]model.DocumentSummary, error)

	// AddFiles ingests files under s and returns the full listing afterwards.
	AddFiles(ctx context.Context, s scope.Scope, files []model.File) ([]model.DocumentSummary, error)

	// RemoveDocument permanently deletes a document. Unknown IDs are ignored.
	RemoveDocument(ctx context.Context, id string) error

	// OpenDocument returns a document with its payload.
	OpenDocument(ctx context.Context, id string) (*model.StoredDocument, error)
}

type catalogService struct {
	store    DocumentStore
	pipeline *ingest.Pipeline
}

// NewCatalogService constructs a CatalogService. opts configure the ingest pipeline.
func NewCatalogService(store DocumentStore, opts ...ingest.Option) CatalogService {
	return &catalogService{store: store, pipeline: ingest.New(store, opts...)}
}

func (s *catalogService) ListDocuments(ctx context.Context, sc scope.Scope) ([]model.DocumentSummary, error) {
	key, err := sc.Key()
	if err != nil {
		return []model.DocumentSummary{}, err
	}
	ctx, span := startSpan(ctx, "catalog.ListDocuments", key)
	defer span.End()

	docs, err := s.store.ListByScope(ctx, key)
	if err != nil {
		recordError(span, err)
		return []model.DocumentSummary{}, err
	}
	span.SetAttributes(attribute.Int("scopedocs.documents", len(docs)))
	return model.Summaries(docs), nil
}

func (s *catalogService) AddFiles(ctx context.Context, sc scope.Scope, files []model.File) ([]model.DocumentSummary, error) {
	key, err := sc.Key()
	if err != nil {
		return []model.DocumentSummary{}, err
	}
	ctx, span := startSpan(ctx, "catalog.AddFiles", key)
	defer span.End()

	res, err := s.pipeline.Ingest(ctx, key, files)
	if err != nil {
		recordError(span, err)
		return []model.DocumentSummary{}, err
	}
	span.SetAttributes(
		attribute.Int("scopedocs.added", len(res.Added)),
		attribute.Int("scopedocs.skipped", len(res.Skipped)),
	)

	docs, err := s.store.ListByScope(ctx, key)
	if err != nil {
		recordError(span, err)
		return []model.DocumentSummary{}, err
	}
	return model.Summaries(docs), nil
}

func (s *catalogService) RemoveDocument(ctx context.Context, id string) error {
	if id == "" {
		return docerr.Validation("id is required")
	}
	ctx, span := tracer.Start(ctx, "catalog.RemoveDocument", trace.WithAttributes(attribute.String("scopedocs.document_id", id)))
	defer span.End()

	if err := s.store.DeleteByID(ctx, id); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

func (s *catalogService) OpenDocument(ctx context.Context, id string) (*model.StoredDocument, error) {
	if id == "" {
		return nil, docerr.Validation("id is required")
	}
	ctx, span := tracer.Start(ctx, "catalog.OpenDocument", trace.WithAttributes(attribute.String("scopedocs.document_id", id)))
	defer span.End()

	doc, err := s.store.Get(ctx, id)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return doc, nil
}

func startSpan(ctx context.Context, name string, key scope.Key) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("scopedocs.namespace", string(key.Namespace)),
		attribute.String("scopedocs.scope", key.Encode()),
	))
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, docerr.Code(err))
}
