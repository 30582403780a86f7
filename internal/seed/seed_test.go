package seed

import (
	"context"
	"testing"

	"github.com/wajeehjabribrahim/manajel-store/internal/catalog"
	"github.com/wajeehjabribrahim/manajel-store/internal/models"
	"github.com/wajeehjabribrahim/manajel-store/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memCategories struct {
	repository.CategoryRepo
	byName map[string]models.Category
}

func (m *memCategories) GetByName(_ context.Context, name string) (*models.Category, error) {
	if c, ok := m.byName[name]; ok {
		return &c, nil
	}
	return nil, nil
}

func (m *memCategories) Create(_ context.Context, c *models.Category) error {
	m.byName[c.Name] = *c
	return nil
}

type memProducts struct {
	repository.ProductRepo
	byID map[string]models.Product
}

func (m *memProducts) GetByID(_ context.Context, id string) (*models.Product, error) {
	if p, ok := m.byID[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (m *memProducts) NextDisplayOrder(context.Context) (int, error) { return len(m.byID), nil }

func (m *memProducts) Create(_ context.Context, p *models.Product) error {
	m.byID[p.ID] = *p
	return nil
}

const testYAML = `
categories:
  - {name: oils, nameAr: زيوت}
  - {name: soap, nameAr: صابون}
products:
  - {id: "1", name: زيت زيتون, category: oils, price: 45, inStock: true}
  - {id: "2", name: صابون, category: soap, price: 10, inStock: true}
`

func TestSeeder_IsIdempotent(t *testing.T) {
	c, err := catalog.Parse([]byte(testYAML))
	require.NoError(t, err)

	cats := &memCategories{byName: map[string]models.Category{"oils": {Name: "oils"}}}
	prods := &memProducts{byID: map[string]models.Product{}}
	s := New(cats, prods, c, zap.NewNop())
	ctx := context.Background()

	n, err := s.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, cats.byName, "soap")

	n, err = s.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, prods.byID["1"].DisplayOrder)
	assert.Equal(t, 1, prods.byID["2"].DisplayOrder)

	n, err = s.Products(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
