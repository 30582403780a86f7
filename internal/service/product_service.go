package service

import (
	"context"
	"errors"
	"strings"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"
	"github.com/wajeehjabribrahim/manajel-store/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type ProductInput struct {
	Name          string
	NameEn        string
	Description   string
	DescriptionEn string
	Category      string
	Price         decimal.Decimal
	Sizes         models.SizeMap
	Image         string
	ImageData     string
	Images        []string
	Featured      bool
	InStock       *bool
	Rating        float64
	Reviews       int
}

type ProductQuery struct {
	Category string
	Featured *bool
}

type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

type ProductService struct {
	products repository.ProductRepo
	catalog  ProductCatalog
	log      *zap.Logger
}

func NewProductService(products repository.ProductRepo, catalog ProductCatalog, log *zap.Logger) *ProductService {
	return &ProductService{products: products, catalog: catalog, log: log}
}

// List returns built-in products followed by stored ones. Stored rows that
// reuse a built-in id are hidden. A database failure degrades to the
// built-in list only.
func (s *ProductService) List(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.catalog.Products() {
		if matches(&p, q) {
			out = append(out, withListPrice(p))
		}
	}

	stored, err := s.products.List(ctx, repository.ProductListFilter{Category: q.Category, Featured: q.Featured})
	if err != nil {
		s.log.Error("list products from database, serving built-in catalog", zap.Error(err))
		return out, nil
	}
	for _, p := range stored {
		if s.catalog.Has(p.ID) {
			continue
		}
		out = append(out, withListPrice(p))
	}
	return out, nil
}

func matches(p *models.Product, q ProductQuery) bool {
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	if q.Featured != nil && p.Featured != *q.Featured {
		return false
	}
	return true
}

// Find looks a product up in the built-in catalog, then in the database.
// Returns nil, nil when neither has it.
func (s *ProductService) Find(ctx context.Context, id string) (*models.Product, error) {
	if p, ok := s.catalog.Get(id); ok {
		return p, nil
	}
	return s.products.GetByID(ctx, id)
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	out := withListPrice(*p)
	return &out, nil
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	p := &models.Product{}
	if err := applyProductInput(p, in); err != nil {
		return nil, err
	}

	next, err := s.products.NextDisplayOrder(ctx)
	if err != nil {
		return nil, err
	}
	p.DisplayOrder = next

	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("product created", zap.String("id", p.ID), zap.String("price", p.Price.String()))
	return p, nil
}

// Update replaces the editable fields of a stored product. Built-in
// products are not stored and report not found.
func (s *ProductService) Update(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	if err := applyProductInput(p, in); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	ok, err := s.products.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProductNotFound
	}
	s.log.Info("product deleted", zap.String("id", id))
	return nil
}

// Move swaps the product with its neighbour. moved is false at either end
// of the list.
func (s *ProductService) Move(ctx context.Context, id string, dir MoveDirection) (bool, error) {
	var offset int
	switch dir {
	case MoveUp:
		offset = -1
	case MoveDown:
		offset = 1
	default:
		return false, ErrInvalidDirection
	}

	moved, err := s.products.Move(ctx, id, offset)
	if errors.Is(err, repository.ErrNotFound) {
		return false, ErrProductNotFound
	}
	return moved, err
}

func (s *ProductService) Reorder(ctx context.Context, positions []repository.ProductPosition) (int, error) {
	if len(positions) == 0 {
		return 0, ErrEmptyReorder
	}

	seen := make(map[string]struct{}, len(positions))
	var fields []FieldError
	for i, p := range positions {
		if strings.TrimSpace(p.ID) == "" {
			fields = append(fields, FieldError{Field: fieldIndex("products", i, "id"), Message: "required"})
			continue
		}
		if p.DisplayOrder < 0 {
			fields = append(fields, FieldError{Field: fieldIndex("products", i, "displayOrder"), Message: "must be >= 0"})
		}
		if _, dup := seen[p.ID]; dup {
			fields = append(fields, FieldError{Field: fieldIndex("products", i, "id"), Message: "duplicate id"})
		}
		seen[p.ID] = struct{}{}
	}
	if len(fields) > 0 {
		return 0, newValidation("invalid reorder request", fields...)
	}

	if err := s.products.ApplyPositions(ctx, positions); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrProductNotFound
		}
		return 0, err
	}
	return len(positions), nil
}

func applyProductInput(p *models.Product, in ProductInput) error {
	if v := missingFields(
		[]string{"name", "description", "category"},
		map[string]string{"name": in.Name, "description": in.Description, "category": in.Category},
	); v != nil {
		return v
	}

	sizes := NormalizeSizes(in.Sizes, in.Price)
	price := ListPrice(sizes, in.Price)
	if !price.IsPositive() {
		return ErrInvalidPrice
	}

	p.Name = strings.TrimSpace(in.Name)
	p.NameEn = optional(in.NameEn)
	p.Description = strings.TrimSpace(in.Description)
	p.DescriptionEn = optional(in.DescriptionEn)
	p.Category = strings.TrimSpace(in.Category)
	p.Price = price
	p.Sizes = datatypes.NewJSONType(sizes)
	p.Image = optional(in.Image)
	p.ImageData = optional(in.ImageData)
	p.Images = datatypes.JSONSlice[string](cleanStrings(in.Images))
	p.Featured = in.Featured
	p.InStock = in.InStock == nil || *in.InStock
	p.Rating = in.Rating
	p.Reviews = in.Reviews
	return nil
}

// withListPrice normalizes sizes and derives the display price.
func withListPrice(p models.Product) models.Product {
	sizes := NormalizeSizes(p.SizeOptions(), p.Price)
	p.Sizes = datatypes.NewJSONType(sizes)
	p.Price = ListPrice(sizes, p.Price)
	return p
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
