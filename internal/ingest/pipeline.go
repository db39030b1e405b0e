// Package ingest filters a batch of candidate files against what a scope
// already holds and persists the rest.
package ingest

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scopedocs/internal/model"
	"scopedocs/internal/scope"
)

// idSpace namespaces the name-based document IDs.
var idSpace = uuid.MustParse("6f1d7f0e-4b4e-5c55-9a53-2f5c0d3b7a10")

// Store is the subset of the engine the pipeline needs.
type Store interface {
	ListByScope(ctx context.Context, key scope.Key) ([]model.StoredDocument, error)
	Put(ctx context.Context, docs ...model.StoredDocument) error
}

// Result reports how a batch was split.
type Result struct {
	Added   []model.StoredDocument
	Skipped []model.File
}

// Pipeline runs dedup and ingest. The existing-set read and the final write
// are separate steps; concurrent ingests into one scope can both pass the
// check.
type Pipeline struct {
	store   Store
	metrics *Metrics
	log     *zap.Logger
	now     func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMetrics records ingest outcomes.
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithClock overrides time.Now for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func New(store Store, opts ...Option) *Pipeline {
	p := &Pipeline{store: store, log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.Named("ingest")
	return p
}

// Ingest persists every file whose identity key is not already stored under
// key. Files repeated inside the batch are all kept. An empty batch performs
// no reads or writes.
func (p *Pipeline) Ingest(ctx context.Context, key scope.Key, files []model.File) (Result, error) {
	if len(files) == 0 {
		return Result{}, nil
	}

	existing, err := p.store.ListByScope(ctx, key)
	if err != nil {
		return Result{}, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, d := range existing {
		seen[d.IdentityKey()] = struct{}{}
	}

	var res Result
	createdAt := p.now().UTC()
	for i, f := range files {
		if _, dup := seen[f.IdentityKey()]; dup {
			res.Skipped = append(res.Skipped, f)
			continue
		}
		res.Added = append(res.Added, newDocument(key, f, i, createdAt))
	}

	if len(res.Added) > 0 {
		if err := p.store.Put(ctx, res.Added...); err != nil {
			p.metrics.observe(key.Namespace, outcomeFailed, len(res.Added))
			return Result{}, err
		}
	}

	p.metrics.observe(key.Namespace, outcomeAdded, len(res.Added))
	p.metrics.observe(key.Namespace, outcomeSkipped, len(res.Skipped))
	p.log.Debug("batch ingested",
		zap.String("scope", key.Encode()),
		zap.Int("added", len(res.Added)),
		zap.Int("skipped", len(res.Skipped)),
	)
	return res, nil
}

// DocumentID derives the ID of the idx-th file of a batch. The same file at
// the same position of a batch for the same scope always gets the same ID.
func DocumentID(key scope.Key, f model.File, idx int) string {
	name := key.Encode() + "\x00" + f.Name + "\x00" +
		strconv.FormatInt(f.LastModifiedMs, 10) + "\x00" +
		strconv.FormatInt(f.Size, 10) + "\x00" +
		strconv.Itoa(idx)
	return uuid.NewSHA1(idSpace, []byte(name)).String()
}

func newDocument(key scope.Key, f model.File, idx int, createdAt time.Time) model.StoredDocument {
	mime := f.MimeType
	if mime == "" {
		mime = model.UnknownMimeType
	}
	return model.StoredDocument{
		ID:             DocumentID(key, f, idx),
		Scope:          key,
		Name:           f.Name,
		MimeType:       mime,
		ByteSize:       f.Size,
		LastModifiedMs: f.LastModifiedMs,
		Payload:        f.Content,
		CreatedAt:      createdAt,
	}
}
