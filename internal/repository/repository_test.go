package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wajeehjabribrahim/manajel-store/internal/migrate"
	"github.com/wajeehjabribrahim/manajel-store/internal/models"
	"github.com/wajeehjabribrahim/manajel-store/internal/repository"
	"github.com/wajeehjabribrahim/manajel-store/pkg/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupRepos(t *testing.T) (*repository.Repository, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestPostgres(t)
	if err := migrate.MigrateStoreDB(context.Background(), db, zap.NewNop(), migrate.DefaultMigrateOptions()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repository.New(db), db
}

func truncate(t *testing.T, db *gorm.DB) {
	t.Helper()
	err := db.Exec(`TRUNCATE outbox_messages, order_items, orders, contact_messages, products, categories, users RESTART IDENTITY CASCADE`).Error
	require.NoError(t, err)
}

func newProduct(t *testing.T, repos *repository.Repository, name string, order int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:         name,
		Description:  name,
		Category:     "oils",
		Price:        decimal.NewFromInt(10),
		Sizes:        datatypes.NewJSONType(models.SizeMap{}),
		InStock:      true,
		DisplayOrder: order,
	}
	require.NoError(t, repos.Products.Create(context.Background(), p))
	return p
}

func displayOrders(t *testing.T, repos *repository.Repository, ids ...string) []int {
	t.Helper()
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		p, err := repos.Products.GetByID(context.Background(), id)
		require.NoError(t, err)
		require.NotNil(t, p)
		out = append(out, p.DisplayOrder)
	}
	return out
}

func TestRepositories(t *testing.T) {
	repos, db := setupRepos(t)
	ctx := context.Background()

	t.Run("product sizes round trip", func(t *testing.T) {
		truncate(t, db)
		p := &models.Product{
			Name:        "زيت زيتون",
			Description: "cold pressed",
			Category:    "oils",
			Price:       decimal.NewFromInt(35),
			Sizes: datatypes.NewJSONType(models.SizeMap{
				"medium": {Weight: "500g", Price: decimal.NewFromInt(35)},
			}),
			Images:  datatypes.JSONSlice[string]{"a.jpg"},
			InStock: true,
		}
		require.NoError(t, repos.Products.Create(ctx, p))
		require.NotEmpty(t, p.ID)

		got, err := repos.Products.GetByID(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		sizes := got.SizeOptions()
		require.Contains(t, sizes, "medium")
		assert.Equal(t, "500g", sizes["medium"].Weight)
		assert.True(t, sizes["medium"].Price.Equal(decimal.NewFromInt(35)))
		assert.Equal(t, []string{"a.jpg"}, []string(got.Images))

		next, err := repos.Products.NextDisplayOrder(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, next)

		missing, err := repos.Products.GetByID(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("batch reorder is atomic", func(t *testing.T) {
		truncate(t, db)
		a := newProduct(t, repos, "A", 5)
		b := newProduct(t, repos, "B", 6)

		err := repos.Products.ApplyPositions(ctx, []repository.ProductPosition{
			{ID: a.ID, DisplayOrder: 0},
			{ID: "missing", DisplayOrder: 1},
		})
		require.True(t, errors.Is(err, repository.ErrNotFound))
		assert.Equal(t, []int{5, 6}, displayOrders(t, repos, a.ID, b.ID))

		err = repos.Products.ApplyPositions(ctx, []repository.ProductPosition{
			{ID: a.ID, DisplayOrder: 0},
			{ID: b.ID, DisplayOrder: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1}, displayOrders(t, repos, a.ID, b.ID))
	})

	t.Run("move swaps neighbours and rewrites ties", func(t *testing.T) {
		truncate(t, db)
		a := newProduct(t, repos, "A", 0)
		b := newProduct(t, repos, "B", 0)
		c := newProduct(t, repos, "C", 0)

		moved, err := repos.Products.Move(ctx, a.ID, -1)
		require.NoError(t, err)
		assert.False(t, moved)

		moved, err = repos.Products.Move(ctx, c.ID, -1)
		require.NoError(t, err)
		assert.True(t, moved)
		assert.Equal(t, []int{0, 2, 1}, displayOrders(t, repos, a.ID, b.ID, c.ID))

		_, err = repos.Products.Move(ctx, "missing", 1)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("category usage counts name and id", func(t *testing.T) {
		truncate(t, db)
		cat := &models.Category{Name: "oils", NameAr: "زيوت"}
		require.NoError(t, repos.Categories.Create(ctx, cat))
		newProduct(t, repos, "A", 0)

		p := newProduct(t, repos, "B", 1)
		p.Category = cat.ID.String()
		require.NoError(t, repos.Products.Save(ctx, p))

		keys := []string{cat.ID.String(), cat.Name}
		n, err := repos.Products.CountByCategory(ctx, keys, nil)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)

		n, err = repos.Products.CountByCategory(ctx, keys, []string{p.ID})
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		err = repos.Categories.Create(ctx, &models.Category{Name: "oils", NameAr: "x"})
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	t.Run("order cancel only from pending", func(t *testing.T) {
		truncate(t, db)
		o := &models.Order{
			Reference:       "MN-TEST0001",
			Status:          models.OrderStatusPending,
			Total:           decimal.NewFromInt(70),
			ShippingName:    "Lina",
			ShippingPhone:   "0599123456",
			ShippingCity:    "Nablus",
			ShippingAddress: "Main st",
			Items: []models.OrderItem{
				{ProductID: "1", Name: "Oil", Size: "medium", Quantity: 2, Price: decimal.NewFromInt(35), Total: decimal.NewFromInt(70)},
			},
		}
		err := repos.Orders.WithTx(ctx, func(orders repository.OrderRepo, outbox repository.OutboxRepo) error {
			if err := orders.Create(ctx, o); err != nil {
				return err
			}
			return outbox.Enqueue(ctx, &models.OutboxMessage{Kind: models.OutboxOrderCreated, Key: o.ID.String(), Payload: datatypes.JSON(`{}`)})
		})
		require.NoError(t, err)

		got, err := repos.Orders.GetByID(ctx, o.ID)
		require.NoError(t, err)
		require.Len(t, got.Items, 1)
		assert.True(t, got.Total.Equal(decimal.NewFromInt(70)))

		ok, err := repos.Orders.TransitionStatus(ctx, o.ID, models.OrderStatusPending, models.OrderStatusCancelled)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repos.Orders.TransitionStatus(ctx, o.ID, models.OrderStatusPending, models.OrderStatusCancelled)
		require.NoError(t, err)
		assert.False(t, ok)

		pending, err := repos.Outbox.CountPending(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, pending)
	})

	t.Run("order rolls back with its outbox row", func(t *testing.T) {
		truncate(t, db)
		boom := errors.New("boom")
		o := &models.Order{Reference: "MN-TEST0002", ShippingName: "x", ShippingPhone: "x", ShippingCity: "x", ShippingAddress: "x"}
		err := repos.Orders.WithTx(ctx, func(orders repository.OrderRepo, _ repository.OutboxRepo) error {
			if err := orders.Create(ctx, o); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		got, err := repos.Orders.GetByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("outbox respects attempts and due time", func(t *testing.T) {
		truncate(t, db)
		now := time.Now().UTC()
		due := &models.OutboxMessage{Kind: models.OutboxContactReceived, Key: "a", Payload: datatypes.JSON(`{}`), NextAttemptAt: now.Add(-time.Minute)}
		later := &models.OutboxMessage{Kind: models.OutboxContactReceived, Key: "b", Payload: datatypes.JSON(`{}`), NextAttemptAt: now.Add(time.Hour)}
		exhausted := &models.OutboxMessage{Kind: models.OutboxContactReceived, Key: "c", Payload: datatypes.JSON(`{}`), NextAttemptAt: now.Add(-time.Minute), Attempts: 10}
		for _, m := range []*models.OutboxMessage{due, later, exhausted} {
			require.NoError(t, repos.Outbox.Enqueue(ctx, m))
		}

		err := repos.Outbox.WithTx(ctx, func(tx repository.OutboxRepo) error {
			list, err := tx.LockDue(ctx, now, 10, 20)
			if err != nil {
				return err
			}
			require.Len(t, list, 1)
			assert.Equal(t, "a", list[0].Key)
			return tx.MarkSent(ctx, list[0].ID, now.Add(-8*24*time.Hour))
		})
		require.NoError(t, err)

		purged, err := repos.Outbox.PurgeSent(ctx, now.Add(-7*24*time.Hour))
		require.NoError(t, err)
		assert.EqualValues(t, 1, purged)
	})

	t.Run("user email is unique ignoring case", func(t *testing.T) {
		truncate(t, db)
		require.NoError(t, repos.Users.Create(ctx, &models.User{Email: "Lina@Example.com", Password: "h"}))
		err := repos.Users.Create(ctx, &models.User{Email: "lina@example.com", Password: "h"})
		assert.ErrorIs(t, err, repository.ErrDuplicate)

		u, err := repos.Users.GetByEmail(ctx, "LINA@example.com")
		require.NoError(t, err)
		require.NotNil(t, u)

		ok, err := repos.Users.UpdatePassword(ctx, uuid.New(), "x")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
