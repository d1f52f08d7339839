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

// TagService handles tag CRUD operations.
type TagService struct {
	tags     repository.TagRepo
	notifier sse.CatalogNotifier
}

// NewTagService constructs a TagService.
func NewTagService(tags repository.TagRepo, notifier sse.CatalogNotifier) *TagService {
	return &TagService{tags: tags, notifier: notifier}
}

// CreateTagRequest represents the request to create a tag.
type CreateTagRequest struct {
	Name string `json:"name"`
}

// UpdateTagRequest represents the request to update a tag. A missing name
// leaves the tag unchanged.
type UpdateTagRequest struct {
	Name *string `json:"name"`
}

// ListTags returns every tag with its tagged products.
func (s *TagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.tags.List(ctx)
}

// GetTag returns a tag with its tagged products.
func (s *TagService) GetTag(ctx context.Context, id int) (*models.Tag, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrTagNotFound
		}
		return nil, err
	}
	return tag, nil
}

// CreateTag creates a new tag.
func (s *TagService) CreateTag(ctx context.Context, req *CreateTagRequest) (*models.Tag, error) {
	tag := &models.Tag{Name: req.Name}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	tag.Products = []models.ProductSummary{}
	s.notifier.Notify(sse.NewCatalogEvent(sse.EventTagCreated, tag.ID, tag))
	return tag, nil
}

// UpdateTag renames a tag.
func (s *TagService) UpdateTag(ctx context.Context, id int, req *UpdateTagRequest) (*models.Tag, error) {
	if _, err := s.tags.Update(ctx, id, req.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrTagNotFound
		}
		return nil, err
	}

	// Reload so the response carries the tagged products as well.
	tag, err := s.GetTag(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(sse.NewCatalogEvent(sse.EventTagUpdated, tag.ID, tag))
	return tag, nil
}

// DeleteTag deletes a tag and its product associations.
func (s *TagService) DeleteTag(ctx context.Context, id int) error {
	n, err := s.tags.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return utils.ErrTagNotFound
	}
	s.notifier.Notify(sse.NewCatalogEvent(sse.EventTagDeleted, id, nil))
	return nil
}
