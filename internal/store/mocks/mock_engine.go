package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"scopedocs/internal/model"
	"scopedocs/internal/scope"
)

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) ListByScope(ctx context.Context, key scope.Key) ([]model.StoredDocument, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StoredDocument), args.Error(1)
}

func (m *MockEngine) Put(ctx context.Context, docs ...model.StoredDocument) error {
	args := m.Called(ctx, docs)
	return args.Error(0)
}

func (m *MockEngine) Get(ctx context.Context, id string) (*model.StoredDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StoredDocument), args.Error(1)
}

func (m *MockEngine) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
