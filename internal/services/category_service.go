package services

import (
	"context"
	"time"

	"expenses/internal/cache"
	"expenses/internal/core"
	"expenses/internal/log"
	"expenses/internal/storage"
)

const categoryListKey = "categories:all"

// CategoryService serves the category taxonomy. The full list is
// reference data the pickers read constantly and writers touch rarely, so
// it sits behind a small TTL cache invalidated by every category write.
type CategoryService struct {
	storage *storage.Repository
	logger  *log.Logger
	list    cache.Cache[[]core.Category]
}

func NewCategoryService(storage *storage.Repository, logger *log.Logger, ttl time.Duration) *CategoryService {
	return &CategoryService{
		storage: storage,
		logger:  logger.WithComponent(log.ComponentCategory),
		list:    cache.NewLRUCache[[]core.Category](1, ttl),
	}
}

// List returns all categories, defaults first then by name.
func (s *CategoryService) List(ctx context.Context) ([]core.Category, error) {
	if cached, ok := s.list.Get(categoryListKey); ok {
		return cached, nil
	}
	categories, err := s.storage.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	s.list.Set(categoryListKey, categories)
	return categories, nil
}

// Get retrieves one category by ID, bypassing the cache.
func (s *CategoryService) Get(ctx context.Context, id int64) (*core.Category, error) {
	return s.storage.GetCategory(ctx, id)
}

// Create adds a custom category and invalidates the cached list.
func (s *CategoryService) Create(ctx context.Context, c core.Category) (*core.Category, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.IsDefault = false
	created, err := s.storage.CreateCategory(ctx, c)
	if err != nil {
		return nil, err
	}
	s.list.Delete(categoryListKey)
	s.logger.InfoContext(ctx, "Category created",
		log.FieldCategoryID, created.ID, "name", created.Name)
	return created, nil
}

// Delete removes a category and invalidates the cached list. While any
// expense references the category the storage layer rejects the delete
// with core.ErrReferenced; budgets referencing it get their category
// cleared by the engine instead.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := s.storage.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.list.Delete(categoryListKey)
	s.logger.InfoContext(ctx, "Category deleted", log.FieldCategoryID, id)
	return nil
}
