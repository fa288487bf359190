package mocks

import (
	"context"
	"io"

	"signage/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockMedia struct {
	mock.Mock
}

func (m *MockMedia) List(ctx context.Context) ([]model.MediaObject, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MediaObject), args.Error(1)
}

func (m *MockMedia) ListByModTime(ctx context.Context) ([]model.MediaObject, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MediaObject), args.Error(1)
}

func (m *MockMedia) Put(ctx context.Context, name string, r io.Reader, size int64) (*model.MediaObject, error) {
	args := m.Called(ctx, name, r, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MediaObject), args.Error(1)
}

func (m *MockMedia) Open(ctx context.Context, name string) (io.ReadCloser, *model.MediaObject, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*model.MediaObject), args.Error(2)
}

func (m *MockMedia) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
