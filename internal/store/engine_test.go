package store

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"scopedocs/internal/docerr"
	"scopedocs/internal/model"
	repoMocks "scopedocs/internal/repository/mocks"
	"scopedocs/internal/scope"
	"scopedocs/internal/storage"
	storeMocks "scopedocs/internal/storage/mocks"
)

var facultyKey = scope.Key{Namespace: scope.NamespaceFaculty, Fields: []string{"3", "jdoe"}}

func doc(id string) model.StoredDocument {
	return model.StoredDocument{
		ID:             id,
		Scope:          facultyKey,
		Name:           id + ".pdf",
		MimeType:       "application/pdf",
		ByteSize:       5,
		LastModifiedMs: 100,
		Payload:        []byte("hello"),
		CreatedAt:      time.Now().UTC(),
	}
}

func TestEngine_Put(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		docs       []model.StoredDocument
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			docs: []model.StoredDocument{doc("a"), doc("b")},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mStore.On("Stat", mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, storage.ErrObjectNotFound).Twice()
				for _, id := range []string{"a", "b"} {
					mStore.On("Put", mock.Anything, "documents/faculty/"+id, mock.Anything, storage.PutObjectOptions{
						Size:        5,
						ContentType: "application/pdf",
						Metadata:    map[string]string{"original-filename": id + ".pdf"},
					}).Return(storage.ObjectInfo{Key: "documents/faculty/" + id}, nil).Once()
				}
				mRepo.On("UpsertBatch", ctx, mock.MatchedBy(func(docs []model.StoredDocument) bool {
					return len(docs) == 2
				})).Return(nil).Once()
			},
		},
		{
			name:       "empty batch is a no-op",
			docs:       nil,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {},
		},
		{
			name: "payload upload error",
			docs: []model.StoredDocument{doc("a")},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mStore.On("Stat", mock.Anything, "documents/faculty/a").Return(storage.ObjectInfo{}, storage.ErrObjectNotFound).Once()
				mStore.On("Put", mock.Anything, "documents/faculty/a", mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("bucket gone")).Once()
			},
			wantErr: docerr.ErrStorageFailure,
		},
		{
			name: "metadata error rolls back payloads",
			docs: []model.StoredDocument{doc("a"), doc("b")},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mStore.On("Stat", mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, storage.ErrObjectNotFound).Twice()
				mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, nil).Twice()
				mRepo.On("UpsertBatch", ctx, mock.Anything).Return(errors.New("db fail")).Once()
				mStore.On("Delete", mock.Anything, "documents/faculty/a").Return(nil).Once()
				mStore.On("Delete", mock.Anything, "documents/faculty/b").Return(errors.New("delete fail")).Once()
			},
			wantErr: docerr.ErrStorageFailure,
		},
		{
			name: "metadata error keeps payloads committed earlier",
			docs: []model.StoredDocument{doc("a"), doc("b")},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mStore.On("Stat", mock.Anything, "documents/faculty/a").Return(storage.ObjectInfo{Key: "documents/faculty/a", Size: 5}, nil).Once()
				mStore.On("Stat", mock.Anything, "documents/faculty/b").Return(storage.ObjectInfo{}, storage.ErrObjectNotFound).Once()
				mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, nil).Twice()
				mRepo.On("UpsertBatch", ctx, mock.Anything).Return(errors.New("database is locked")).Once()
				mStore.On("Delete", mock.Anything, "documents/faculty/b").Return(nil).Once()
			},
			wantErr: docerr.ErrStorageFailure,
		},
		{
			name: "stat error aborts before upload",
			docs: []model.StoredDocument{doc("a")},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mStore.On("Stat", mock.Anything, "documents/faculty/a").Return(storage.ObjectInfo{}, errors.New("timeout")).Once()
			},
			wantErr: docerr.ErrStorageFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockDocumentRepository)
			e := New(mRepo, mStore, nil)

			tt.setupMocks(mStore, mRepo)

			err := e.Put(ctx, tt.docs...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestEngine_ListByScope(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("ListByScope", ctx, facultyKey).Return([]model.StoredDocument{doc("a")}, nil)

		docs, err := New(mRepo, nil, nil).ListByScope(ctx, facultyKey)
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})

	t.Run("failure yields empty list and error", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("ListByScope", ctx, facultyKey).Return(nil, errors.New("db fail"))

		docs, err := New(mRepo, nil, nil).ListByScope(ctx, facultyKey)
		assert.ErrorIs(t, err, docerr.ErrStorageFailure)
		assert.NotNil(t, docs)
		assert.Empty(t, docs)
	})
}

func TestEngine_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		setupMocks  func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository)
		wantErr     error
		wantPayload []byte
	}{
		{
			name: "happy path",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				d := doc("a")
				d.Payload = nil
				mRepo.On("FindByID", ctx, "a").Return(&d, nil)
				mStore.On("Get", ctx, "documents/faculty/a").
					Return(io.NopCloser(strings.NewReader("hello")), storage.ObjectInfo{Size: 5}, nil)
			},
			wantPayload: []byte("hello"),
		},
		{
			name: "not found",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "a").Return(nil, sql.ErrNoRows)
			},
			wantErr: docerr.ErrNotFound,
		},
		{
			name: "payload missing leaves payload nil",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				d := doc("a")
				d.Payload = nil
				mRepo.On("FindByID", ctx, "a").Return(&d, nil)
				mStore.On("Get", ctx, "documents/faculty/a").Return(nil, storage.ObjectInfo{}, storage.ErrObjectNotFound)
			},
		},
		{
			name: "payload backend error",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				d := doc("a")
				mRepo.On("FindByID", ctx, "a").Return(&d, nil)
				mStore.On("Get", ctx, "documents/faculty/a").Return(nil, storage.ObjectInfo{}, errors.New("timeout"))
			},
			wantErr: docerr.ErrStorageFailure,
		},
		{
			name: "repository error",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "a").Return(nil, errors.New("db fail"))
			},
			wantErr: docerr.ErrStorageFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockDocumentRepository)
			tt.setupMocks(mStore, mRepo)

			got, err := New(mRepo, mStore, nil).Get(ctx, "a")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantPayload, got.Payload)
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestEngine_DeleteByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				d := doc("a")
				mRepo.On("FindByID", ctx, "a").Return(&d, nil)
				mStore.On("Delete", ctx, "documents/faculty/a").Return(nil)
				mRepo.On("Delete", ctx, "a").Return(nil)
			},
		},
		{
			name: "absent id is a no-op",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "a").Return(nil, sql.ErrNoRows)
			},
		},
		{
			name: "payload delete error keeps the row",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				d := doc("a")
				mRepo.On("FindByID", ctx, "a").Return(&d, nil)
				mStore.On("Delete", ctx, "documents/faculty/a").Return(errors.New("storage fail"))
			},
			wantErr: docerr.ErrStorageFailure,
		},
		{
			name: "row delete error",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				d := doc("a")
				mRepo.On("FindByID", ctx, "a").Return(&d, nil)
				mStore.On("Delete", ctx, "documents/faculty/a").Return(nil)
				mRepo.On("Delete", ctx, "a").Return(errors.New("db fail"))
			},
			wantErr: docerr.ErrStorageFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockDocumentRepository)
			tt.setupMocks(mStore, mRepo)

			err := New(mRepo, mStore, nil).DeleteByID(ctx, "a")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}
