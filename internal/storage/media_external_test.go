package storage_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"signage/internal/model"
	"signage/internal/storage"
	"signage/internal/storage/mocks"
)

func TestMediaStore_BackendErrors(t *testing.T) {
	ctx := context.Background()
	ioErr := model.NewStorageError("list", "bucket", errors.New("timeout"))

	backend := new(mocks.MockStorage)
	backend.On("List", ctx).Return(nil, ioErr).Once()
	backend.On("Put", ctx, "a.png", mock.Anything, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
		return opt.Size == 3 && opt.ContentType != ""
	})).Return(storage.ObjectInfo{}, ioErr).Once()
	backend.On("Delete", ctx, "a.png").Return(ioErr).Once()

	store := storage.NewMediaStore(backend, 1024)

	_, err := store.List(ctx)
	assert.ErrorIs(t, err, model.ErrStorage)

	_, err = store.Put(ctx, "a.png", strings.NewReader("abc"), 3)
	assert.ErrorIs(t, err, model.ErrStorage)

	err = store.Delete(ctx, "a.png")
	assert.ErrorIs(t, err, model.ErrStorage)

	backend.AssertExpectations(t)
}

func TestMediaStore_BackendNeverSeesInvalidNames(t *testing.T) {
	ctx := context.Background()
	backend := new(mocks.MockStorage)
	store := storage.NewMediaStore(backend, 1024)

	_, err := store.Put(ctx, "../evil", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.ErrorIs(t, store.Delete(ctx, "../../etc/passwd"), model.ErrInvalidInput)
	_, _, err = store.Open(ctx, storage.TempPrefix+"abc")
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	backend.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	backend.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	backend.AssertNotCalled(t, "Open", mock.Anything, mock.Anything)
}
