package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/GTDGit/catalog_api/internal/models"
	"github.com/GTDGit/catalog_api/internal/repository"
	"github.com/GTDGit/catalog_api/internal/sse"
	"github.com/GTDGit/catalog_api/internal/utils"
)

// CategoryService handles category CRUD operations.
type CategoryService struct {
	categories repository.CategoryRepo
	notifier   sse.CatalogNotifier
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(categories repository.CategoryRepo, notifier sse.CatalogNotifier) *CategoryService {
	return &CategoryService{categories: categories, notifier: notifier}
}

// CategoryRequest is the body accepted by category create and update.
type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListCategories returns every category.
func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// GetCategory returns a category with its products.
func (s *CategoryService) GetCategory(ctx context.Context, id int) (*models.CategoryDetail, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// CreateCategory creates a new category.
func (s *CategoryService) CreateCategory(ctx context.Context, req *CategoryRequest) (*models.Category, error) {
	category := &models.Category{Name: req.Name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	s.notifier.Notify(sse.NewCatalogEvent(sse.EventCategoryCreated, category.ID, category))
	return category, nil
}

// UpdateCategory renames a category.
func (s *CategoryService) UpdateCategory(ctx context.Context, id int, req *CategoryRequest) (*models.Category, error) {
	category := &models.Category{ID: id, Name: req.Name}
	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrCategoryNotFound
		}
		return nil, err
	}
	s.notifier.Notify(sse.NewCatalogEvent(sse.EventCategoryUpdated, category.ID, category))
	return category, nil
}

// DeleteCategory deletes a category. Its products stay, without a category.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int) error {
	n, err := s.categories.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return utils.ErrCategoryNotFound
	}
	s.notifier.Notify(sse.NewCatalogEvent(sse.EventCategoryDeleted, id, nil))
	return nil
}
