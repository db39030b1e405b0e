package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scopedocs/internal/model"
	"scopedocs/internal/scope"
)

var (
	columns    = []string{"id", "scope_key", "name", "mime_type", "byte_size", "last_modified_ms", "created_at"}
	syllabusKey = scope.Key{Namespace: scope.NamespaceSyllabus, Fields: []string{"1", "2", "3", "4"}}
)

func TestDocumentPostgres_UpsertBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	docs := []model.StoredDocument{
		{ID: "a", Scope: syllabusKey, Name: "a.pdf", MimeType: "application/pdf", ByteSize: 10, LastModifiedMs: 100, CreatedAt: now},
		{ID: "b", Scope: syllabusKey, Name: "b.pdf", MimeType: "application/pdf", ByteSize: 20, LastModifiedMs: 200, CreatedAt: now},
	}

	t.Run("commits all rows in one transaction", func(t *testing.T) {
		mock.ExpectBegin()
		for _, d := range docs {
			mock.ExpectExec("INSERT INTO stored_documents").
				WithArgs(d.ID, "syllabus", syllabusKey.Encode(), d.Name, d.MimeType, d.ByteSize, d.LastModifiedMs, d.CreatedAt).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectCommit()

		assert.NoError(t, repo.UpsertBatch(ctx, docs))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when a row fails", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO stored_documents").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO stored_documents").WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := repo.UpsertBatch(ctx, docs)
		assert.ErrorContains(t, err, "upsert b: disk full")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty batch touches nothing", func(t *testing.T) {
		assert.NoError(t, repo.UpsertBatch(ctx, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(columns).
			AddRow("test-id", syllabusKey.Encode(), "file.txt", "text/plain", 100, 1700, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM stored_documents WHERE id = ?").
			WithArgs("test-id").
			WillReturnRows(rows)

		doc, err := repo.FindByID(ctx, "test-id")

		require.NoError(t, err)
		assert.Equal(t, "test-id", doc.ID)
		assert.True(t, syllabusKey.Equal(doc.Scope))
		assert.Equal(t, int64(1700), doc.LastModifiedMs)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM stored_documents WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, doc)
	})
}

func TestDocumentPostgres_ListByScope(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		rows := sqlmock.NewRows(columns).
			AddRow("a", syllabusKey.Encode(), "a.pdf", "application/pdf", 10, 100, time.Now()).
			AddRow("b", syllabusKey.Encode(), "b.pdf", "Unknown", 20, 200, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM stored_documents WHERE scope_key = ?").
			WithArgs(syllabusKey.Encode()).
			WillReturnRows(rows)

		docs, err := repo.ListByScope(ctx, syllabusKey)

		require.NoError(t, err)
		assert.Len(t, docs, 2)
		assert.Equal(t, "Unknown", docs[1].MimeType)
	})

	t.Run("no match is an empty slice", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM stored_documents WHERE scope_key = ?").
			WillReturnRows(sqlmock.NewRows(columns))

		docs, err := repo.ListByScope(ctx, syllabusKey)

		require.NoError(t, err)
		assert.NotNil(t, docs)
		assert.Empty(t, docs)
	})

	t.Run("corrupt scope key", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM stored_documents WHERE scope_key = ?").
			WillReturnRows(sqlmock.NewRows(columns).AddRow("a", "garbage", "a.pdf", "x", 1, 1, time.Now()))

		_, err := repo.ListByScope(ctx, syllabusKey)
		assert.ErrorContains(t, err, "decode scope key")
	})
}

func TestDocumentPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)

	mock.ExpectExec("DELETE FROM stored_documents WHERE id = ?").
		WithArgs("test-id").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), "test-id"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
