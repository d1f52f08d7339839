package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/catalog_api/internal/models"
	"github.com/GTDGit/catalog_api/internal/repository/repotest"
	"github.com/GTDGit/catalog_api/internal/sse"
	"github.com/GTDGit/catalog_api/internal/utils"
)

func newProductService() (*ProductService, *repotest.MemoryStore, *recordingNotifier) {
	store := repotest.NewMemoryStore()
	notifier := &recordingNotifier{}
	return NewProductService(store, notifier), store, notifier
}

func tagIDsOf(p *models.Product) []int {
	ids := make([]int, len(p.Tags))
	for i, t := range p.Tags {
		ids[i] = t.ID
	}
	return ids
}

func TestProductService_CreateWithoutTags(t *testing.T) {
	ctx := context.Background()
	svc, store, notifier := newProductService()
	categoryID := seedCategory(t, store, "Books")

	res, err := svc.CreateProduct(ctx, &CreateProductRequest{
		Name:       "Go in Action",
		Price:      price("39.99"),
		Stock:      12,
		CategoryID: &categoryID,
	})
	require.NoError(t, err)
	assert.Empty(t, res.ProductTags)

	p := res.Product
	assert.NotZero(t, p.ID)
	assert.Equal(t, "Go in Action", p.Name)
	assert.Equal(t, "39.99", p.Price.StringFixed(2))
	assert.Equal(t, 12, p.Stock)
	require.NotNil(t, p.Category)
	assert.Equal(t, "Books", p.Category.Name)
	assert.NotNil(t, p.Tags)
	assert.Empty(t, p.Tags)

	assert.Equal(t, []sse.EventType{sse.EventProductCreated}, notifier.types())
}

func TestProductService_CreateWithTags(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newProductService()
	tags := seedTags(t, store, "a", "b", "c")

	res, err := svc.CreateProduct(ctx, &CreateProductRequest{
		Name:   "Basketball",
		Price:  price("200.00"),
		Stock:  3,
		TagIDs: []int{tags[0], tags[2], tags[0]},
	})
	require.NoError(t, err)

	require.Len(t, res.ProductTags, 2)
	for _, row := range res.ProductTags {
		assert.NotZero(t, row.ID)
		assert.Equal(t, res.Product.ID, row.ProductID)
	}
	assert.Equal(t, []int{tags[0], tags[2]}, tagIDsOf(res.Product))
}

func TestProductService_CreateRollsBackOnBadTag(t *testing.T) {
	ctx := context.Background()
	svc, store, notifier := newProductService()

	_, err := svc.CreateProduct(ctx, &CreateProductRequest{
		Name:   "Orphan",
		Price:  price("1"),
		TagIDs: []int{999},
	})
	require.Error(t, err)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products, "product insert must roll back with the failed join rows")
	assert.Equal(t, 1, store.Transactions())
	assert.Empty(t, notifier.types())
}

func TestProductService_CreateValidatesInvariants(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newProductService()

	_, err := svc.CreateProduct(ctx, &CreateProductRequest{Name: "x", Price: price("-0.01")})
	assert.ErrorIs(t, err, utils.ErrNegativePrice)

	_, err = svc.CreateProduct(ctx, &CreateProductRequest{Name: "x", Price: price("1"), Stock: -1})
	assert.ErrorIs(t, err, utils.ErrNegativeStock)

	_, err = svc.CreateProduct(ctx, &CreateProductRequest{Name: "x"})
	assert.ErrorIs(t, err, utils.ErrPriceRequired)

	assert.Zero(t, store.Calls())
}

func TestProductService_UpdateReconcilesTags(t *testing.T) {
	ctx := context.Background()
	svc, store, notifier := newProductService()
	tags := seedTags(t, store, "t1", "t2", "t3", "t4")

	created, err := svc.CreateProduct(ctx, &CreateProductRequest{
		Name:   "Lamp",
		Price:  price("15"),
		TagIDs: []int{tags[0], tags[1], tags[2]},
	})
	require.NoError(t, err)
	id := created.Product.ID

	var tag1Row int
	for _, row := range created.ProductTags {
		if row.TagID == tags[0] {
			tag1Row = row.ID
		}
	}

	existing, err := store.Repositories().ProductTags.ListByProduct(ctx, id)
	require.NoError(t, err)
	toAdd, toRemove := ReconcileTags(id, existing, []int{tags[1], tags[2], tags[3]})
	assert.Equal(t, []models.ProductTag{{ProductID: id, TagID: tags[3]}}, toAdd)
	assert.Equal(t, []int{tag1Row}, toRemove)

	res, err := svc.UpdateProduct(ctx, id, &UpdateProductRequest{
		Name:   ptr("Desk Lamp"),
		TagIDs: []int{tags[1], tags[2], tags[3]},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), res.Removed)
	require.Len(t, res.Added, 1)
	assert.Equal(t, tags[3], res.Added[0].TagID)
	assert.Equal(t, "Desk Lamp", res.Product.Name)
	assert.Equal(t, "15", res.Product.Price.String())
	assert.ElementsMatch(t, []int{tags[1], tags[2], tags[3]}, tagIDsOf(res.Product))

	assert.Equal(t, []sse.EventType{
		sse.EventProductCreated,
		sse.EventProductUpdated,
		sse.EventProductTagsReconciled,
	}, notifier.types())
}

func TestProductService_UpdateSameTagsTwiceIsNoop(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newProductService()
	tags := seedTags(t, store, "x", "y")

	created, err := svc.CreateProduct(ctx, &CreateProductRequest{Name: "Pen", Price: price("2")})
	require.NoError(t, err)
	id := created.Product.ID

	first, err := svc.UpdateProduct(ctx, id, &UpdateProductRequest{TagIDs: tags})
	require.NoError(t, err)
	assert.Len(t, first.Added, 2)

	second, err := svc.UpdateProduct(ctx, id, &UpdateProductRequest{TagIDs: tags})
	require.NoError(t, err)
	assert.Zero(t, second.Removed)
	assert.Empty(t, second.Added)
	assert.ElementsMatch(t, tags, tagIDsOf(second.Product))
}

func TestProductService_UpdateWithoutTagIDsKeepsTags(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newProductService()
	tags := seedTags(t, store, "keep")

	created, err := svc.CreateProduct(ctx, &CreateProductRequest{Name: "Cup", Price: price("4"), TagIDs: tags})
	require.NoError(t, err)

	res, err := svc.UpdateProduct(ctx, created.Product.ID, &UpdateProductRequest{Stock: ptr(9)})
	require.NoError(t, err)
	assert.Equal(t, 9, res.Product.Stock)
	assert.Equal(t, tags, tagIDsOf(res.Product))

	cleared, err := svc.UpdateProduct(ctx, created.Product.ID, &UpdateProductRequest{TagIDs: []int{}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared.Removed)
	assert.Empty(t, cleared.Product.Tags)
}

func TestProductService_UpdateIsAtomic(t *testing.T) {
	ctx := context.Background()
	svc, store, notifier := newProductService()
	tags := seedTags(t, store, "one")

	created, err := svc.CreateProduct(ctx, &CreateProductRequest{Name: "Chair", Price: price("30")})
	require.NoError(t, err)

	boom := errors.New("insert failed")
	store.Fail("productTags.BulkCreate", boom)

	_, err = svc.UpdateProduct(ctx, created.Product.ID, &UpdateProductRequest{
		Name:   ptr("Armchair"),
		TagIDs: tags,
	})
	assert.ErrorIs(t, err, boom)

	got, err := svc.GetProduct(ctx, created.Product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chair", got.Name, "field update must roll back with the failed reconciliation")
	assert.Equal(t, []sse.EventType{sse.EventProductCreated}, notifier.types())
}

func TestProductService_UpdateNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newProductService()

	_, err := svc.UpdateProduct(ctx, 77, &UpdateProductRequest{Name: ptr("ghost")})
	assert.ErrorIs(t, err, utils.ErrProductNotFound)
}

func TestProductService_UpdateValidatesInvariants(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newProductService()

	_, err := svc.UpdateProduct(ctx, 1, &UpdateProductRequest{Price: price("-5")})
	assert.ErrorIs(t, err, utils.ErrNegativePrice)

	_, err = svc.UpdateProduct(ctx, 1, &UpdateProductRequest{Stock: ptr(-2)})
	assert.ErrorIs(t, err, utils.ErrNegativeStock)
}

func TestProductService_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newProductService()
	tags := seedTags(t, store, "gone")

	created, err := svc.CreateProduct(ctx, &CreateProductRequest{Name: "Vase", Price: price("11"), TagIDs: tags})
	require.NoError(t, err)
	id := created.Product.ID

	_, err = svc.GetProduct(ctx, id+100)
	assert.ErrorIs(t, err, utils.ErrProductNotFound)

	require.NoError(t, svc.DeleteProduct(ctx, id))
	assert.ErrorIs(t, svc.DeleteProduct(ctx, id), utils.ErrProductNotFound)

	rows, err := store.Repositories().ProductTags.ListByProduct(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestProductService_ListNestsCategoryAndTags(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newProductService()
	categoryID := seedCategory(t, store, "Garden")
	tags := seedTags(t, store, "green", "outdoor")

	_, err := svc.CreateProduct(ctx, &CreateProductRequest{
		Name: "Hose", Price: price("25"), CategoryID: &categoryID, TagIDs: tags,
	})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, &CreateProductRequest{
		Name: "Rake", Price: price("18"), CategoryID: &categoryID, TagIDs: tags[:1],
	})
	require.NoError(t, err)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	for _, p := range products {
		require.NotNil(t, p.Category, p.Name)
		assert.Equal(t, models.CategorySummary{ID: categoryID, Name: "Garden"}, *p.Category)
		require.NotEmpty(t, p.Tags, p.Name)
		for _, tag := range p.Tags {
			assert.NotZero(t, tag.ID)
			assert.NotEmpty(t, tag.Name)
		}
	}
}

func TestProductService_UpdateCategory(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newProductService()
	shirts := seedCategory(t, store, "Shirts")
	hats := seedCategory(t, store, "Hats")

	created, err := svc.CreateProduct(ctx, &CreateProductRequest{Name: "Polo", Price: price("20"), CategoryID: &shirts})
	require.NoError(t, err)
	id := created.Product.ID

	res, err := svc.UpdateProduct(ctx, id, &UpdateProductRequest{Stock: ptr(1)})
	require.NoError(t, err)
	require.NotNil(t, res.Product.CategoryID)
	assert.Equal(t, shirts, *res.Product.CategoryID)

	res, err = svc.UpdateProduct(ctx, id, &UpdateProductRequest{CategoryID: SetInt(hats)})
	require.NoError(t, err)
	require.NotNil(t, res.Product.Category)
	assert.Equal(t, "Hats", res.Product.Category.Name)

	res, err = svc.UpdateProduct(ctx, id, &UpdateProductRequest{CategoryID: SetNull()})
	require.NoError(t, err)
	assert.Nil(t, res.Product.CategoryID)
	assert.Nil(t, res.Product.Category)

	_, err = svc.UpdateProduct(ctx, id, &UpdateProductRequest{CategoryID: SetInt(999)})
	assert.Error(t, err)
}

func TestOptionalInt_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		want OptionalInt
	}{
		{"absent", `{}`, OptionalInt{}},
		{"null", `{"categoryId": null}`, SetNull()},
		{"value", `{"categoryId": 7}`, SetInt(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateProductRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.CategoryID)
		})
	}

	var req UpdateProductRequest
	assert.Error(t, json.Unmarshal([]byte(`{"categoryId": "seven"}`), &req))
}
