package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"scopedocs/internal/model"
	"scopedocs/internal/scope"
)

type MockLibraryBridge struct {
	mock.Mock
}

func (m *MockLibraryBridge) Browse(ctx context.Context, session scope.Session) ([]model.DocumentSummary, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentSummary), args.Error(1)
}

func (m *MockLibraryBridge) Materialize(doc *model.StoredDocument) *model.File {
	args := m.Called(doc)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*model.File)
}

func (m *MockLibraryBridge) ImportSelected(ctx context.Context, session scope.Session, ids []string, target scope.Scope) ([]model.DocumentSummary, error) {
	args := m.Called(ctx, session, ids, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentSummary), args.Error(1)
}
