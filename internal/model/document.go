package model

import (
	"time"

	"scopedocs/internal/scope"
)

// UnknownMimeType is stored when the uploaded file carries no content type.
const UnknownMimeType = "Unknown"

// StoredDocument is one persisted attachment. Documents are immutable once
// stored; replacing one means deleting it and adding the new file.
type StoredDocument struct {
	ID             string    `json:"id"`
	Scope          scope.Key `json:"-"`
	Name           string    `json:"name"`
	MimeType       string    `json:"mime_type"`
	ByteSize       int64     `json:"byte_size"`
	LastModifiedMs int64     `json:"last_modified_ms"`
	Payload        []byte    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// Summary drops the payload for listings.
func (d StoredDocument) Summary() DocumentSummary {
	return DocumentSummary{
		ID:             d.ID,
		Name:           d.Name,
		ByteSize:       d.ByteSize,
		MimeType:       d.MimeType,
		LastModifiedMs: d.LastModifiedMs,
		CreatedAt:      d.CreatedAt,
	}
}

// DocumentSummary is what listings return to callers.
type DocumentSummary struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ByteSize       int64     `json:"byte_size"`
	MimeType       string    `json:"mime_type"`
	LastModifiedMs int64     `json:"last_modified_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// Summaries converts a slice of documents, never returning nil.
func Summaries(docs []StoredDocument) []DocumentSummary {
	out := make([]DocumentSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Summary())
	}
	return out
}

// File is a submittable file: either freshly uploaded or materialized from a
// stored document.
type File struct {
	Name           string
	MimeType       string
	Size           int64
	LastModifiedMs int64
	Content        []byte
}

// IdentityKey is the content-identity heuristic used to spot a re-selected file.
func IdentityKey(name string, lastModifiedMs, size int64) string {
	return name + "::" + itoa(lastModifiedMs) + "::" + itoa(size)
}
