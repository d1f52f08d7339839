package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/catalog_api/internal/repository/repotest"
	"github.com/GTDGit/catalog_api/internal/sse"
	"github.com/GTDGit/catalog_api/internal/utils"
)

func newCategoryService() (*CategoryService, *repotest.MemoryStore, *recordingNotifier) {
	store := repotest.NewMemoryStore()
	notifier := &recordingNotifier{}
	return NewCategoryService(store.Repositories().Categories, notifier), store, notifier
}

func TestCategoryService_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc, _, notifier := newCategoryService()

	created, err := svc.CreateCategory(ctx, &CategoryRequest{Name: "Shorts"})
	require.NoError(t, err)
	assert.Equal(t, "Shorts", created.Name)
	assert.NotZero(t, created.ID)

	got, err := svc.GetCategory(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shorts", got.Name)
	assert.NotNil(t, got.Products)

	assert.Equal(t, []sse.EventType{sse.EventCategoryCreated}, notifier.types())
}

func TestCategoryService_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, notifier := newCategoryService()

	_, err := svc.GetCategory(ctx, 404)
	assert.ErrorIs(t, err, utils.ErrCategoryNotFound)

	_, err = svc.UpdateCategory(ctx, 404, &CategoryRequest{Name: "x"})
	assert.ErrorIs(t, err, utils.ErrCategoryNotFound)

	err = svc.DeleteCategory(ctx, 404)
	assert.ErrorIs(t, err, utils.ErrCategoryNotFound)

	assert.Empty(t, notifier.types())
}

func TestCategoryService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, _, notifier := newCategoryService()

	created, err := svc.CreateCategory(ctx, &CategoryRequest{Name: "Music"})
	require.NoError(t, err)

	updated, err := svc.UpdateCategory(ctx, created.ID, &CategoryRequest{Name: "Vinyl"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Vinyl", updated.Name)

	require.NoError(t, svc.DeleteCategory(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteCategory(ctx, created.ID), utils.ErrCategoryNotFound)

	assert.Equal(t, []sse.EventType{
		sse.EventCategoryCreated,
		sse.EventCategoryUpdated,
		sse.EventCategoryDeleted,
	}, notifier.types())
}

func TestCategoryService_StoreErrorsPassThrough(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newCategoryService()
	boom := errors.New("connection reset")
	store.Fail("categories.List", boom)
	store.Fail("categories.Create", boom)

	_, err := svc.ListCategories(ctx)
	assert.ErrorIs(t, err, boom)

	_, err = svc.CreateCategory(ctx, &CategoryRequest{Name: "x"})
	assert.ErrorIs(t, err, boom)
	assert.False(t, utils.IsNotFound(err))
}
