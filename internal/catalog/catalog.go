// Package catalog holds the built-in product list shipped with the binary.
// These products are always listed and can be ordered without a database row.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"time"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
)

//go:embed catalog.yaml
var builtin []byte

type sizeEntry struct {
	Weight string  `yaml:"weight"`
	Price  float64 `yaml:"price"`
}

type productEntry struct {
	ID            string               `yaml:"id"`
	Name          string               `yaml:"name"`
	NameEn        string               `yaml:"nameEn"`
	Category      string               `yaml:"category"`
	Description   string               `yaml:"description"`
	DescriptionEn string               `yaml:"descriptionEn"`
	Price         float64              `yaml:"price"`
	Sizes         map[string]sizeEntry `yaml:"sizes"`
	Image         string               `yaml:"image"`
	Images        []string             `yaml:"images"`
	Featured      bool                 `yaml:"featured"`
	InStock       bool                 `yaml:"inStock"`
	Rating        float64              `yaml:"rating"`
	Reviews       int                  `yaml:"reviews"`
}

type categoryEntry struct {
	Name   string `yaml:"name"`
	NameAr string `yaml:"nameAr"`
}

type file struct {
	Categories []categoryEntry `yaml:"categories"`
	Products   []productEntry  `yaml:"products"`
}

type Catalog struct {
	products   []models.Product
	index      map[string]int
	categories []models.Category
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(builtin)
}

// MustLoad is Load for process start-up.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{index: make(map[string]int, len(f.Products))}
	declared := make(map[string]struct{}, len(f.Categories))
	for _, e := range f.Categories {
		declared[e.Name] = struct{}{}
		c.categories = append(c.categories, models.Category{Name: e.Name, NameAr: e.NameAr})
	}
	epoch := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, e := range f.Products {
		if e.ID == "" || e.Name == "" {
			return nil, fmt.Errorf("catalog product %d: id and name are required", i)
		}
		if _, dup := c.index[e.ID]; dup {
			return nil, fmt.Errorf("catalog product %q: duplicate id", e.ID)
		}
		// products reference categories by name, the same key the admin API stores
		if _, ok := declared[e.Category]; len(declared) > 0 && !ok {
			return nil, fmt.Errorf("catalog product %q: unknown category %q", e.ID, e.Category)
		}

		sizes := make(models.SizeMap, len(e.Sizes))
		for k, s := range e.Sizes {
			sizes[k] = models.SizeOption{Weight: s.Weight, Price: decimal.NewFromFloat(s.Price)}
		}

		p := models.Product{
			ID:           e.ID,
			Name:         e.Name,
			Description:  e.Description,
			Category:     e.Category,
			Price:        decimal.NewFromFloat(e.Price),
			Sizes:        datatypes.NewJSONType(sizes),
			Images:       datatypes.JSONSlice[string](e.Images),
			Featured:     e.Featured,
			InStock:      e.InStock,
			DisplayOrder: i,
			Rating:       e.Rating,
			Reviews:      e.Reviews,
			CreatedAt:    epoch,
			UpdatedAt:    epoch,
		}
		if e.NameEn != "" {
			p.NameEn = &e.NameEn
		}
		if e.DescriptionEn != "" {
			p.DescriptionEn = &e.DescriptionEn
		}
		if e.Image != "" {
			p.Image = &e.Image
		}

		c.index[e.ID] = len(c.products)
		c.products = append(c.products, p)
	}

	return c, nil
}

// Products returns a copy of the built-in products in catalog order.
func (c *Catalog) Products() []models.Product {
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Get(id string) (*models.Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	p := c.products[i]
	return &p, true
}

func (c *Catalog) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// IDs returns the built-in product ids, sorted.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.index))
	for id := range c.index {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DefaultCategories is the category seed list.
func (c *Catalog) DefaultCategories() []models.Category {
	out := make([]models.Category, len(c.categories))
	copy(out, c.categories)
	return out
}
