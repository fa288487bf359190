package mocks

import (
	"context"
	"io"

	"signage/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockPlaylistService struct {
	mock.Mock
}

func (m *MockPlaylistService) ListMedia(ctx context.Context) ([]model.MediaObject, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MediaObject), args.Error(1)
}

func (m *MockPlaylistService) ListPlaybackMedia(ctx context.Context) ([]model.MediaObject, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MediaObject), args.Error(1)
}

func (m *MockPlaylistService) UploadMedia(ctx context.Context, name string, r io.Reader, size int64) (*model.MediaObject, error) {
	args := m.Called(ctx, name, r, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MediaObject), args.Error(1)
}

func (m *MockPlaylistService) OpenMedia(ctx context.Context, name string) (io.ReadCloser, *model.MediaObject, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*model.MediaObject), args.Error(2)
}

func (m *MockPlaylistService) DeleteMedia(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockPlaylistService) ListURLs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPlaylistService) AddURL(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func (m *MockPlaylistService) DeleteURL(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func (m *MockPlaylistService) Check(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
