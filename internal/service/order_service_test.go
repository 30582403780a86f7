package service_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"
	"github.com/wajeehjabribrahim/manajel-store/internal/repository"
	"github.com/wajeehjabribrahim/manajel-store/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newOrderService(orders *MockOrderRepo, users *MockUserRepo, products *MockProductRepo, admins ...string) *service.OrderService {
	if users == nil {
		users = &MockUserRepo{}
	}
	if products == nil {
		products = &MockProductRepo{}
	}
	finder := service.NewProductService(products, testCatalog(), zap.NewNop())
	return service.NewOrderService(orders, users, finder, admins, "https://manajel.works", zap.NewNop())
}

func guestShipping() service.ShippingInput {
	return service.ShippingInput{
		Name:    "Ahmad",
		Phone:   "+970 599 123 456",
		City:    "Salfit",
		Address: "Main street 1",
		Email:   "ahmad@example.com",
	}
}

func TestOrderService_Create_UsesServerPrices(t *testing.T) {
	orders := &MockOrderRepo{}
	svc := newOrderService(orders, nil, nil, "admin@manajel.works")

	order, err := svc.Create(context.Background(), service.CreateOrderInput{
		Items: []service.CreateOrderItem{
			{ProductID: "1", Size: "medium", Quantity: 2, Price: 35},
			{ProductID: "1", Size: "Small", Quantity: 1, Price: 20.004},
		},
		Shipping: guestShipping(),
	})
	require.NoError(t, err)

	assert.True(t, order.Total.Equal(decimal.NewFromInt(90)), "total %s", order.Total)
	require.Len(t, order.Items, 2)
	assert.True(t, order.Items[1].Price.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, "small", order.Items[1].Size)
	assert.Equal(t, "زيت زيتون", order.Items[0].Name)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.NotEmpty(t, order.Reference)
	assert.Nil(t, order.UserID)

	require.Len(t, orders.Created, 1)
	require.Len(t, orders.Outbox.Enqueued, 1)
	assert.Equal(t, models.OutboxOrderCreated, orders.Outbox.Enqueued[0].Kind)
	assert.Equal(t, order.ID.String(), orders.Outbox.Enqueued[0].Key)
}

func TestOrderService_Create_RejectsTamperedPrice(t *testing.T) {
	orders := &MockOrderRepo{}
	svc := newOrderService(orders, nil, nil)

	_, err := svc.Create(context.Background(), service.CreateOrderInput{
		Items:    []service.CreateOrderItem{{ProductID: "1", Size: "medium", Quantity: 1, Price: 1}},
		Shipping: guestShipping(),
	})

	require.ErrorIs(t, err, service.ErrPriceMismatch)
	var itemErr *service.ItemError
	require.True(t, errors.As(err, &itemErr))
	assert.Equal(t, 0, itemErr.Index)
	assert.Empty(t, orders.Created)
}

func TestOrderService_Create_OutOfStockCreatesNothing(t *testing.T) {
	orders := &MockOrderRepo{}
	svc := newOrderService(orders, nil, nil, "admin@manajel.works")

	_, err := svc.Create(context.Background(), service.CreateOrderInput{
		Items: []service.CreateOrderItem{
			{ProductID: "1", Size: "medium", Quantity: 1, Price: 35},
			{ProductID: "2", Quantity: 1, Price: 15},
		},
		Shipping: guestShipping(),
	})

	require.ErrorIs(t, err, service.ErrOutOfStock)
	assert.Empty(t, orders.Created)
	assert.Nil(t, orders.Outbox)
}

func TestOrderService_Create_QuantityBounds(t *testing.T) {
	cases := map[string]float64{
		"zero":        0,
		"negative":    -3,
		"fractional":  1.5,
		"too large":   10000,
		"not a value": math.NaN(),
	}
	for name, qty := range cases {
		t.Run(name, func(t *testing.T) {
			orders := &MockOrderRepo{}
			svc := newOrderService(orders, nil, nil)
			_, err := svc.Create(context.Background(), service.CreateOrderInput{
				Items:    []service.CreateOrderItem{{ProductID: "1", Size: "medium", Quantity: qty, Price: 35}},
				Shipping: guestShipping(),
			})
			assert.ErrorIs(t, err, service.ErrQuantityInvalid)
			assert.Empty(t, orders.Created)
		})
	}

	orders := &MockOrderRepo{}
	_, err := newOrderService(orders, nil, nil).Create(context.Background(), service.CreateOrderInput{
		Items:    []service.CreateOrderItem{{ProductID: "1", Size: "medium", Quantity: 9999, Price: 35}},
		Shipping: guestShipping(),
	})
	require.NoError(t, err)
}

func TestOrderService_Create_PriceBounds(t *testing.T) {
	for _, price := range []float64{-0.5, 1000000, math.Inf(1)} {
		_, err := newOrderService(&MockOrderRepo{}, nil, nil).Create(context.Background(), service.CreateOrderInput{
			Items:    []service.CreateOrderItem{{ProductID: "1", Quantity: 1, Price: price}},
			Shipping: guestShipping(),
		})
		if !errors.Is(err, service.ErrPriceInvalid) {
			t.Errorf("price %v: expected ErrPriceInvalid, got %v", price, err)
		}
	}
}

func TestOrderService_Create_EmptyCart(t *testing.T) {
	_, err := newOrderService(&MockOrderRepo{}, nil, nil).Create(context.Background(), service.CreateOrderInput{Shipping: guestShipping()})
	if !errors.Is(err, service.ErrEmptyItems) {
		t.Fatalf("Expected ErrEmptyItems, got %v", err)
	}
}

func TestOrderService_Create_UnknownProduct(t *testing.T) {
	_, err := newOrderService(&MockOrderRepo{}, nil, nil).Create(context.Background(), service.CreateOrderInput{
		Items:    []service.CreateOrderItem{{ProductID: "missing", Quantity: 1, Price: 10}},
		Shipping: guestShipping(),
	})
	if !errors.Is(err, service.ErrProductNotFound) {
		t.Fatalf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestOrderService_Create_StoredProductFallsBackToBasePrice(t *testing.T) {
	products := &MockProductRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Product, error) {
			if id != "db-1" {
				return nil, nil
			}
			return &models.Product{ID: "db-1", Name: "فريكة", Price: decimal.NewFromFloat(12.5), InStock: true}, nil
		},
	}
	orders := &MockOrderRepo{}
	order, err := newOrderService(orders, nil, products).Create(context.Background(), service.CreateOrderInput{
		Items:    []service.CreateOrderItem{{ProductID: "db-1", Size: "large", Quantity: 3, Price: 12.5}},
		Shipping: guestShipping(),
	})
	require.NoError(t, err)
	assert.Equal(t, "37.5", order.Total.String())
	// no admin addresses configured
	assert.Empty(t, orders.Outbox.Enqueued)
}

func TestOrderService_Create_GuestShippingValidation(t *testing.T) {
	svc := newOrderService(&MockOrderRepo{}, nil, nil)
	items := []service.CreateOrderItem{{ProductID: "1", Size: "medium", Quantity: 1, Price: 35}}

	_, err := svc.Create(context.Background(), service.CreateOrderInput{
		Items:    items,
		Shipping: service.ShippingInput{Name: "Ahmad", Phone: "0599123456"},
	})
	require.ErrorIs(t, err, service.ErrValidation)
	var v *service.ValidationError
	require.True(t, errors.As(err, &v))
	assert.Equal(t, []service.FieldError{
		{Field: "city", Message: "required"},
		{Field: "address", Message: "required"},
	}, v.Fields)

	bad := guestShipping()
	bad.Phone = "12ab"
	_, err = svc.Create(context.Background(), service.CreateOrderInput{Items: items, Shipping: bad})
	assert.ErrorIs(t, err, service.ErrValidation)

	bad = guestShipping()
	bad.Email = "not-an-email"
	_, err = svc.Create(context.Background(), service.CreateOrderInput{Items: items, Shipping: bad})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestOrderService_Create_AuthenticatedUsesProfile(t *testing.T) {
	uid := uuid.New()
	users := &MockUserRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
			return &models.User{ID: id, Name: "Sara", Phone: "0599000000", City: "Nablus", Address: "Old city", Email: "sara@example.com"}, nil
		},
	}
	orders := &MockOrderRepo{}
	svc := newOrderService(orders, users, nil)

	ctx := service.WithIdentity(context.Background(), uid, models.RoleUser)
	order, err := svc.Create(ctx, service.CreateOrderInput{
		Items:    []service.CreateOrderItem{{ProductID: "1", Size: "medium", Quantity: 1, Price: 35}},
		Shipping: service.ShippingInput{Name: "ignored"},
	})
	require.NoError(t, err)
	require.NotNil(t, order.UserID)
	assert.Equal(t, uid, *order.UserID)
	assert.Equal(t, "Sara", order.ShippingName)
	assert.Equal(t, "Nablus", order.ShippingCity)
	require.NotNil(t, order.Email)
	assert.Equal(t, "sara@example.com", *order.Email)
}

func TestOrderService_Create_IncompleteProfile(t *testing.T) {
	users := &MockUserRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
			return &models.User{ID: id, Name: "Sara", Email: "sara@example.com"}, nil
		},
	}
	orders := &MockOrderRepo{}
	ctx := service.WithIdentity(context.Background(), uuid.New(), models.RoleUser)
	_, err := newOrderService(orders, users, nil).Create(ctx, service.CreateOrderInput{
		Items:    []service.CreateOrderItem{{ProductID: "1", Size: "medium", Quantity: 1, Price: 35}},
		Shipping: guestShipping(),
	})
	require.ErrorIs(t, err, service.ErrProfileIncomplete)
	assert.Empty(t, orders.Created)
}

func TestOrderService_Create_OutboxFailureRollsBack(t *testing.T) {
	orders := &MockOrderRepo{Outbox: &MockOutboxRepo{
		EnqueueFunc: func(ctx context.Context, m *models.OutboxMessage) error { return errors.New("db down") },
	}}
	_, err := newOrderService(orders, nil, nil, "admin@manajel.works").Create(context.Background(), service.CreateOrderInput{
		Items:    []service.CreateOrderItem{{ProductID: "1", Size: "medium", Quantity: 1, Price: 35}},
		Shipping: guestShipping(),
	})
	require.Error(t, err)
	assert.Empty(t, orders.Created)
}

func ownedOrder(owner uuid.UUID, status models.OrderStatus) *models.Order {
	return &models.Order{ID: uuid.New(), UserID: &owner, Status: status}
}

func TestOrderService_Cancel_Pending(t *testing.T) {
	owner := uuid.New()
	o := ownedOrder(owner, models.OrderStatusPending)
	var from, to models.OrderStatus
	orders := &MockOrderRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Order, error) { return o, nil },
		TransitionStatusFunc: func(ctx context.Context, id uuid.UUID, f, t models.OrderStatus) (bool, error) {
			from, to = f, t
			return true, nil
		},
	}
	ctx := service.WithIdentity(context.Background(), owner, models.RoleUser)
	got, err := newOrderService(orders, nil, nil).Cancel(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, got.Status)
	assert.Equal(t, models.OrderStatusPending, from)
	assert.Equal(t, models.OrderStatusCancelled, to)
}

func TestOrderService_Cancel_OnlyFromPending(t *testing.T) {
	owner := uuid.New()
	for _, st := range []models.OrderStatus{
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
	} {
		o := ownedOrder(owner, st)
		called := false
		orders := &MockOrderRepo{
			GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Order, error) { return o, nil },
			TransitionStatusFunc: func(ctx context.Context, id uuid.UUID, f, t models.OrderStatus) (bool, error) {
				called = true
				return true, nil
			},
		}
		ctx := service.WithIdentity(context.Background(), owner, models.RoleUser)
		_, err := newOrderService(orders, nil, nil).Cancel(ctx, o.ID)
		assert.ErrorIs(t, err, service.ErrOrderNotCancellable, "status %s", st)
		assert.False(t, called, "status %s must not be written", st)
		assert.Equal(t, st, o.Status)
	}
}

func TestOrderService_Cancel_LostRace(t *testing.T) {
	owner := uuid.New()
	o := ownedOrder(owner, models.OrderStatusPending)
	orders := &MockOrderRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Order, error) { return o, nil },
		TransitionStatusFunc: func(ctx context.Context, id uuid.UUID, f, t models.OrderStatus) (bool, error) {
			return false, nil
		},
	}
	ctx := service.WithIdentity(context.Background(), owner, models.RoleUser)
	_, err := newOrderService(orders, nil, nil).Cancel(ctx, o.ID)
	assert.ErrorIs(t, err, service.ErrOrderNotCancellable)
}

func TestOrderService_Cancel_OtherUser(t *testing.T) {
	o := ownedOrder(uuid.New(), models.OrderStatusPending)
	orders := &MockOrderRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Order, error) { return o, nil },
	}
	ctx := service.WithIdentity(context.Background(), uuid.New(), models.RoleUser)
	_, err := newOrderService(orders, nil, nil).Cancel(ctx, o.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestOrderService_Get_Access(t *testing.T) {
	owner := uuid.New()
	owned := ownedOrder(owner, models.OrderStatusPending)
	guest := &models.Order{ID: uuid.New(), Status: models.OrderStatusPending}
	orders := &MockOrderRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			switch id {
			case owned.ID:
				return owned, nil
			case guest.ID:
				return guest, nil
			}
			return nil, nil
		},
	}
	svc := newOrderService(orders, nil, nil)
	anon := context.Background()

	_, err := svc.Get(anon, guest.ID)
	assert.NoError(t, err)

	_, err = svc.Get(anon, owned.ID)
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = svc.Get(service.WithIdentity(anon, uuid.New(), models.RoleUser), owned.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = svc.Get(service.WithIdentity(anon, owner, models.RoleUser), owned.ID)
	assert.NoError(t, err)

	_, err = svc.Get(service.WithIdentity(anon, uuid.New(), models.RoleAdmin), owned.ID)
	assert.NoError(t, err)

	_, err = svc.Get(anon, uuid.New())
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	id := uuid.New()
	orders := &MockOrderRepo{
		UpdateStatusFunc: func(ctx context.Context, got uuid.UUID, status models.OrderStatus) (bool, error) {
			return got == id, nil
		},
		GetByIDFunc: func(ctx context.Context, got uuid.UUID) (*models.Order, error) {
			return &models.Order{ID: got, Status: models.OrderStatusShipped}, nil
		},
	}
	svc := newOrderService(orders, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), id, "completed")
	assert.ErrorIs(t, err, service.ErrInvalidOrderStatus)

	_, err = svc.UpdateStatus(context.Background(), uuid.New(), models.OrderStatusShipped)
	assert.ErrorIs(t, err, service.ErrOrderNotFound)

	o, err := svc.UpdateStatus(context.Background(), id, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, o.Status)
}

func TestOrderService_ListMine_RequiresUser(t *testing.T) {
	var seen repository.OrderListFilter
	orders := &MockOrderRepo{
		ListFunc: func(ctx context.Context, f repository.OrderListFilter) ([]models.Order, int64, error) {
			seen = f
			return nil, 0, nil
		},
	}
	svc := newOrderService(orders, nil, nil)

	_, err := svc.ListMine(context.Background())
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	uid := uuid.New()
	_, err = svc.ListMine(service.WithUserID(context.Background(), uid))
	require.NoError(t, err)
	require.NotNil(t, seen.UserID)
	assert.Equal(t, uid, *seen.UserID)
}
