package service

import (
	"context"
	"errors"
	"strings"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"
	"github.com/wajeehjabribrahim/manajel-store/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CategoryService struct {
	categories repository.CategoryRepo
	products   repository.ProductRepo
	catalog    ProductCatalog
	log        *zap.Logger
}

func NewCategoryService(categories repository.CategoryRepo, products repository.ProductRepo, catalog ProductCatalog, log *zap.Logger) *CategoryService {
	return &CategoryService{categories: categories, products: products, catalog: catalog, log: log}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

func (s *CategoryService) Create(ctx context.Context, name, nameAr string) (*models.Category, error) {
	name, nameAr = strings.TrimSpace(name), strings.TrimSpace(nameAr)
	if v := missingFields([]string{"name", "nameAr"}, map[string]string{"name": name, "nameAr": nameAr}); v != nil {
		return nil, v
	}

	existing, err := s.categories.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCategoryExists
	}

	c := &models.Category{Name: name, NameAr: nameAr}
	if err := s.categories.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, name, nameAr string) (*models.Category, error) {
	name, nameAr = strings.TrimSpace(name), strings.TrimSpace(nameAr)
	if v := missingFields([]string{"name", "nameAr"}, map[string]string{"name": name, "nameAr": nameAr}); v != nil {
		return nil, v
	}

	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}

	if other, err := s.categories.GetByName(ctx, name); err != nil {
		return nil, err
	} else if other != nil && other.ID != id {
		return nil, ErrCategoryExists
	}

	c.Name, c.NameAr = name, nameAr
	if err := s.categories.Update(ctx, c); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrCategoryExists
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return c, nil
}

// usage counts built-in and stored products that reference the category by
// id or name. Stored copies of built-in products are counted once.
func (s *CategoryService) usage(ctx context.Context, c *models.Category) (int64, error) {
	keys := []string{c.ID.String(), c.Name}

	var builtin int64
	for _, p := range s.catalog.Products() {
		if p.Category == keys[0] || p.Category == keys[1] {
			builtin++
		}
	}

	stored, err := s.products.CountByCategory(ctx, keys, s.catalog.IDs())
	if err != nil {
		return 0, err
	}
	return builtin + stored, nil
}

// Delete refuses while any product references the category by id or name.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrCategoryNotFound
	}

	n, err := s.usage(ctx, c)
	if err != nil {
		return err
	}
	if n > 0 {
		return &CategoryInUseError{Count: n}
	}

	ok, err := s.categories.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCategoryNotFound
	}
	s.log.Info("category deleted", zap.String("id", id.String()), zap.String("name", c.Name))
	return nil
}
