package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"scopedocs/internal/model"
	"scopedocs/internal/scope"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListDocuments(ctx context.Context, s scope.Scope) ([]model.DocumentSummary, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentSummary), args.Error(1)
}

func (m *MockCatalogService) AddFiles(ctx context.Context, s scope.Scope, files []model.File) ([]model.DocumentSummary, error) {
	args := m.Called(ctx, s, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentSummary), args.Error(1)
}

func (m *MockCatalogService) RemoveDocument(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService) OpenDocument(ctx context.Context, id string) (*model.StoredDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StoredDocument), args.Error(1)
}
