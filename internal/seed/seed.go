// Package seed fills an empty database with the default categories and,
// optionally, a stored copy of the built-in catalog. Re-running is a no-op
// for rows that already exist.
package seed

import (
	"context"
	"fmt"

	"github.com/wajeehjabribrahim/manajel-store/internal/catalog"
	"github.com/wajeehjabribrahim/manajel-store/internal/repository"

	"go.uber.org/zap"
)

type Seeder struct {
	categories repository.CategoryRepo
	products   repository.ProductRepo
	catalog    *catalog.Catalog
	log        *zap.Logger
}

func New(categories repository.CategoryRepo, products repository.ProductRepo, c *catalog.Catalog, log *zap.Logger) *Seeder {
	return &Seeder{categories: categories, products: products, catalog: c, log: log}
}

// Categories creates every default category missing by name.
func (s *Seeder) Categories(ctx context.Context) (int, error) {
	created := 0
	for _, c := range s.catalog.DefaultCategories() {
		existing, err := s.categories.GetByName(ctx, c.Name)
		if err != nil {
			return created, fmt.Errorf("lookup category %q: %w", c.Name, err)
		}
		if existing != nil {
			s.log.Debug("category exists", zap.String("name", c.Name))
			continue
		}
		if err := s.categories.Create(ctx, &c); err != nil {
			return created, fmt.Errorf("create category %q: %w", c.Name, err)
		}
		created++
	}
	return created, nil
}

// Products stores the built-in products that have no row yet, appended to
// the end of the display order. Stored copies count towards category usage
// and appear in exports; the built-in entry still wins on reads.
func (s *Seeder) Products(ctx context.Context) (int, error) {
	created := 0
	for _, p := range s.catalog.Products() {
		existing, err := s.products.GetByID(ctx, p.ID)
		if err != nil {
			return created, fmt.Errorf("lookup product %s: %w", p.ID, err)
		}
		if existing != nil {
			continue
		}
		next, err := s.products.NextDisplayOrder(ctx)
		if err != nil {
			return created, err
		}
		p.DisplayOrder = next
		if err := s.products.Create(ctx, &p); err != nil {
			return created, fmt.Errorf("create product %s: %w", p.ID, err)
		}
		s.log.Info("catalog product stored", zap.String("id", p.ID), zap.String("name", p.Name))
		created++
	}
	return created, nil
}
