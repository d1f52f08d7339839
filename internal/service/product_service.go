package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/catalog_api/internal/models"
	"github.com/GTDGit/catalog_api/internal/repository"
	"github.com/GTDGit/catalog_api/internal/sse"
	"github.com/GTDGit/catalog_api/internal/utils"
)

// ProductService provides product-related business logic, including keeping
// the product/tag join rows in line with the tag ids a client submits.
type ProductService struct {
	store    repository.Transactor
	notifier sse.CatalogNotifier
}

// NewProductService constructs a ProductService.
func NewProductService(store repository.Transactor, notifier sse.CatalogNotifier) *ProductService {
	return &ProductService{store: store, notifier: notifier}
}

// CreateProductRequest represents the request to create a new product.
type CreateProductRequest struct {
	Name       string           `json:"name" binding:"required"`
	Price      *decimal.Decimal `json:"price" binding:"required"`
	Stock      int              `json:"stock"`
	CategoryID *int             `json:"categoryId"`
	TagIDs     []int            `json:"tagIds"`
}

// UpdateProductRequest represents the request to update a product. Nil fields
// are left unchanged; a nil TagIDs leaves the tag set alone while an empty
// list removes every tag. CategoryID set to null detaches the category.
type UpdateProductRequest struct {
	Name       *string          `json:"name"`
	Price      *decimal.Decimal `json:"price"`
	Stock      *int             `json:"stock"`
	CategoryID OptionalInt      `json:"categoryId"`
	TagIDs     []int            `json:"tagIds"`
}

// OptionalInt is a JSON field that tells an absent key apart from null.
// Set is true whenever the key was present; Value is nil for null.
type OptionalInt struct {
	Set   bool
	Value *int
}

// SetInt returns an OptionalInt holding v.
func SetInt(v int) OptionalInt {
	return OptionalInt{Set: true, Value: &v}
}

// SetNull returns an OptionalInt holding an explicit null.
func SetNull() OptionalInt {
	return OptionalInt{Set: true}
}

// UnmarshalJSON is only called when the key is present, including for null.
func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// MarshalJSON writes the value or null.
func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// CreateProductResult holds the created product and the join rows created for it.
type CreateProductResult struct {
	Product     *models.Product
	ProductTags []models.ProductTag
}

// UpdateProductResult is the outcome of a product update.
type UpdateProductResult struct {
	Product *models.Product     `json:"product"`
	Removed int64               `json:"removed"`
	Added   []models.ProductTag `json:"added"`
}

// ListProducts returns all products with category and tags.
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.Repositories().Products.List(ctx)
}

// GetProduct retrieves a product by ID with category and tags.
func (s *ProductService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	product, err := s.store.Repositories().Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// CreateProduct creates a product and one join row per distinct tag id in a
// single transaction.
func (s *ProductService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*CreateProductResult, error) {
	if req.Price == nil {
		return nil, utils.ErrPriceRequired
	}
	if req.Price.IsNegative() {
		return nil, utils.ErrNegativePrice
	}
	if req.Stock < 0 {
		return nil, utils.ErrNegativeStock
	}

	product := &models.Product{
		Name:       req.Name,
		Price:      *req.Price,
		Stock:      req.Stock,
		CategoryID: req.CategoryID,
	}

	result := &CreateProductResult{}
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		if err := r.Products.Create(ctx, product); err != nil {
			return err
		}

		if len(req.TagIDs) > 0 {
			rows, _ := ReconcileTags(product.ID, nil, req.TagIDs)
			created, err := r.ProductTags.BulkCreate(ctx, rows)
			if err != nil {
				return err
			}
			result.ProductTags = created
		}

		created, err := r.Products.GetByID(ctx, product.ID)
		if err != nil {
			return err
		}
		result.Product = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(sse.NewCatalogEvent(sse.EventProductCreated, result.Product.ID, result.Product))
	return result, nil
}

// UpdateProduct updates the supplied product fields and, when tag ids are
// given, reconciles the join rows. Both steps commit together or not at all.
func (s *ProductService) UpdateProduct(ctx context.Context, id int, req *UpdateProductRequest) (*UpdateProductResult, error) {
	if req.Price != nil && req.Price.IsNegative() {
		return nil, utils.ErrNegativePrice
	}
	if req.Stock != nil && *req.Stock < 0 {
		return nil, utils.ErrNegativeStock
	}

	patch := repository.ProductPatch{
		Name:        req.Name,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID.Value,
		CategorySet: req.CategoryID.Set,
	}

	result := &UpdateProductResult{Added: []models.ProductTag{}}
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		if err := r.Products.Update(ctx, id, patch); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return utils.ErrProductNotFound
			}
			return err
		}

		if req.TagIDs != nil {
			existing, err := r.ProductTags.ListByProduct(ctx, id)
			if err != nil {
				return err
			}

			toAdd, toRemove := ReconcileTags(id, existing, req.TagIDs)

			removed, err := r.ProductTags.DeleteByIDs(ctx, toRemove)
			if err != nil {
				return err
			}
			added, err := r.ProductTags.BulkCreate(ctx, toAdd)
			if err != nil {
				return err
			}
			result.Removed = removed
			result.Added = added
		}

		product, err := r.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		result.Product = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(sse.NewCatalogEvent(sse.EventProductUpdated, id, result.Product))
	if result.Removed > 0 || len(result.Added) > 0 {
		s.notifier.Notify(sse.NewCatalogEvent(sse.EventProductTagsReconciled, id, map[string]interface{}{
			"removed": result.Removed,
			"added":   result.Added,
		}))
	}
	return result, nil
}

// DeleteProduct deletes a product and its tag associations.
func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	n, err := s.store.Repositories().Products.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return utils.ErrProductNotFound
	}
	s.notifier.Notify(sse.NewCatalogEvent(sse.EventProductDeleted, id, nil))
	return nil
}
