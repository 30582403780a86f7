package service_test

import (
	"context"
	"time"

	"github.com/wajeehjabribrahim/manajel-store/internal/catalog"
	"github.com/wajeehjabribrahim/manajel-store/internal/models"
	"github.com/wajeehjabribrahim/manajel-store/internal/repository"
	"github.com/wajeehjabribrahim/manajel-store/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockUserRepo
type MockUserRepo struct {
	CreateFunc         func(ctx context.Context, u *models.User) error
	GetByEmailFunc     func(ctx context.Context, email string) (*models.User, error)
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*models.User, error)
	ExistsByEmailFunc  func(ctx context.Context, email string) (bool, error)
	UpdateProfileFunc  func(ctx context.Context, id uuid.UUID, fields map[string]any) error
	UpdatePasswordFunc func(ctx context.Context, id uuid.UUID, hash string) (bool, error)
	UpdateRoleFunc     func(ctx context.Context, id uuid.UUID, role models.Role) error
	ListFunc           func(ctx context.Context, f repository.UserListFilter) ([]repository.UserWithOrderCount, int64, error)
}

func (m *MockUserRepo) Create(ctx context.Context, u *models.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	return nil
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	return false, nil
}

func (m *MockUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, id, fields)
	}
	return nil
}

func (m *MockUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) (bool, error) {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, hash)
	}
	return true, nil
}

func (m *MockUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	if m.UpdateRoleFunc != nil {
		return m.UpdateRoleFunc(ctx, id, role)
	}
	return nil
}

func (m *MockUserRepo) List(ctx context.Context, f repository.UserListFilter) ([]repository.UserWithOrderCount, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

// MockProductRepo
type MockProductRepo struct {
	CreateFunc           func(ctx context.Context, p *models.Product) error
	SaveFunc             func(ctx context.Context, p *models.Product) error
	GetByIDFunc          func(ctx context.Context, id string) (*models.Product, error)
	ListFunc             func(ctx context.Context, f repository.ProductListFilter) ([]models.Product, error)
	DeleteFunc           func(ctx context.Context, id string) (bool, error)
	NextDisplayOrderFunc func(ctx context.Context) (int, error)
	CountByCategoryFunc  func(ctx context.Context, keys, skipIDs []string) (int64, error)
	MoveFunc             func(ctx context.Context, id string, offset int) (bool, error)
	ApplyPositionsFunc   func(ctx context.Context, positions []repository.ProductPosition) error
}

func (m *MockProductRepo) Create(ctx context.Context, p *models.Product) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil
}

func (m *MockProductRepo) Save(ctx context.Context, p *models.Product) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, p)
	}
	return nil
}

func (m *MockProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProductRepo) List(ctx context.Context, f repository.ProductListFilter) ([]models.Product, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, nil
}

func (m *MockProductRepo) Delete(ctx context.Context, id string) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return false, nil
}

func (m *MockProductRepo) NextDisplayOrder(ctx context.Context) (int, error) {
	if m.NextDisplayOrderFunc != nil {
		return m.NextDisplayOrderFunc(ctx)
	}
	return 0, nil
}

func (m *MockProductRepo) CountByCategory(ctx context.Context, keys, skipIDs []string) (int64, error) {
	if m.CountByCategoryFunc != nil {
		return m.CountByCategoryFunc(ctx, keys, skipIDs)
	}
	return 0, nil
}

func (m *MockProductRepo) Move(ctx context.Context, id string, offset int) (bool, error) {
	if m.MoveFunc != nil {
		return m.MoveFunc(ctx, id, offset)
	}
	return false, nil
}

func (m *MockProductRepo) ApplyPositions(ctx context.Context, positions []repository.ProductPosition) error {
	if m.ApplyPositionsFunc != nil {
		return m.ApplyPositionsFunc(ctx, positions)
	}
	return nil
}

// MockCategoryRepo
type MockCategoryRepo struct {
	CreateFunc    func(ctx context.Context, c *models.Category) error
	UpdateFunc    func(ctx context.Context, c *models.Category) error
	GetByIDFunc   func(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetByNameFunc func(ctx context.Context, name string) (*models.Category, error)
	ListFunc      func(ctx context.Context) ([]models.Category, error)
	DeleteFunc    func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *MockCategoryRepo) Create(ctx context.Context, c *models.Category) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return nil
}

func (m *MockCategoryRepo) Update(ctx context.Context, c *models.Category) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, c)
	}
	return nil
}

func (m *MockCategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCategoryRepo) GetByName(ctx context.Context, name string) (*models.Category, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockCategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockCategoryRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return false, nil
}

// MockOutboxRepo records enqueued messages.
type MockOutboxRepo struct {
	Enqueued []models.OutboxMessage

	EnqueueFunc func(ctx context.Context, m *models.OutboxMessage) error
}

func (m *MockOutboxRepo) Enqueue(ctx context.Context, msg *models.OutboxMessage) error {
	if m.EnqueueFunc != nil {
		if err := m.EnqueueFunc(ctx, msg); err != nil {
			return err
		}
	}
	m.Enqueued = append(m.Enqueued, *msg)
	return nil
}

func (m *MockOutboxRepo) LockDue(ctx context.Context, now time.Time, maxAttempts, limit int) ([]models.OutboxMessage, error) {
	return nil, nil
}

func (m *MockOutboxRepo) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error { return nil }

func (m *MockOutboxRepo) MarkFailed(ctx context.Context, id uuid.UUID, reason string, next time.Time) error {
	return nil
}

func (m *MockOutboxRepo) PurgeSent(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (m *MockOutboxRepo) CountPending(ctx context.Context) (int64, error) {
	return int64(len(m.Enqueued)), nil
}

func (m *MockOutboxRepo) WithTx(ctx context.Context, fn func(tx repository.OutboxRepo) error) error {
	return fn(m)
}

// MockOrderRepo keeps created orders in memory. WithTx discards writes
// made by a failing callback, like a rolled back transaction.
type MockOrderRepo struct {
	Created []*models.Order
	Outbox  *MockOutboxRepo

	CreateFunc           func(ctx context.Context, o *models.Order) error
	GetByIDFunc          func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListFunc             func(ctx context.Context, f repository.OrderListFilter) ([]models.Order, int64, error)
	UpdateStatusFunc     func(ctx context.Context, id uuid.UUID, status models.OrderStatus) (bool, error)
	TransitionStatusFunc func(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (bool, error)
}

func (m *MockOrderRepo) Create(ctx context.Context, o *models.Order) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, o); err != nil {
			return err
		}
	}
	m.Created = append(m.Created, o)
	return nil
}

func (m *MockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockOrderRepo) List(ctx context.Context, f repository.OrderListFilter) ([]models.Order, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

func (m *MockOrderRepo) ListAll(ctx context.Context) ([]models.Order, error) {
	out := make([]models.Order, 0, len(m.Created))
	for _, o := range m.Created {
		out = append(out, *o)
	}
	return out, nil
}

func (m *MockOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (bool, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return false, nil
}

func (m *MockOrderRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (bool, error) {
	if m.TransitionStatusFunc != nil {
		return m.TransitionStatusFunc(ctx, id, from, to)
	}
	return false, nil
}

func (m *MockOrderRepo) WithTx(ctx context.Context, fn func(orders repository.OrderRepo, outbox repository.OutboxRepo) error) error {
	if m.Outbox == nil {
		m.Outbox = &MockOutboxRepo{}
	}
	orders, queued := len(m.Created), len(m.Outbox.Enqueued)
	if err := fn(m, m.Outbox); err != nil {
		m.Created = m.Created[:orders]
		m.Outbox.Enqueued = m.Outbox.Enqueued[:queued]
		return err
	}
	return nil
}

// MockContactRepo
type MockContactRepo struct {
	Created []*models.ContactMessage
	Outbox  *MockOutboxRepo

	GetByIDFunc      func(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error)
	ListFunc         func(ctx context.Context, status *models.ContactStatus) ([]models.ContactMessage, error)
	UpdateStatusFunc func(ctx context.Context, id uuid.UUID, status models.ContactStatus) (bool, error)
	DeleteFunc       func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *MockContactRepo) Create(ctx context.Context, msg *models.ContactMessage) error {
	m.Created = append(m.Created, msg)
	return nil
}

func (m *MockContactRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockContactRepo) List(ctx context.Context, status *models.ContactStatus) ([]models.ContactMessage, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, status)
	}
	return nil, nil
}

func (m *MockContactRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ContactStatus) (bool, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return false, nil
}

func (m *MockContactRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return false, nil
}

func (m *MockContactRepo) WithTx(ctx context.Context, fn func(contacts repository.ContactRepo, outbox repository.OutboxRepo) error) error {
	if m.Outbox == nil {
		m.Outbox = &MockOutboxRepo{}
	}
	return fn(m, m.Outbox)
}

// MockStatsRepo
type MockStatsRepo struct {
	StatusCounts     []repository.StatusCount
	TotalRevenue     decimal.Decimal
	MonthRevenue     decimal.Decimal
	OrdersThisMonth  int64
	OrderDays        []repository.DayCount
	Delivered        []repository.MonthTotal
	Users            int64
	UsersSinceFunc   func(since time.Time) int64
	Admins           int64
	UsersWithOrders  int64
	UserDays         []repository.DayCount
	OrdersPerDaySeen time.Time
}

func (m *MockStatsRepo) OrderStatusCounts(ctx context.Context) ([]repository.StatusCount, error) {
	return m.StatusCounts, nil
}

func (m *MockStatsRepo) Revenue(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	if since.IsZero() {
		return m.TotalRevenue, nil
	}
	return m.MonthRevenue, nil
}

func (m *MockStatsRepo) CountOrdersSince(ctx context.Context, since time.Time) (int64, error) {
	return m.OrdersThisMonth, nil
}

func (m *MockStatsRepo) OrdersPerDay(ctx context.Context, since time.Time) ([]repository.DayCount, error) {
	m.OrdersPerDaySeen = since
	return m.OrderDays, nil
}

func (m *MockStatsRepo) DeliveredByMonth(ctx context.Context) ([]repository.MonthTotal, error) {
	return m.Delivered, nil
}

func (m *MockStatsRepo) CountUsers(ctx context.Context, since time.Time) (int64, error) {
	if since.IsZero() || m.UsersSinceFunc == nil {
		return m.Users, nil
	}
	return m.UsersSinceFunc(since), nil
}

func (m *MockStatsRepo) CountUsersByRole(ctx context.Context, role models.Role) (int64, error) {
	return m.Admins, nil
}

func (m *MockStatsRepo) CountUsersWithOrders(ctx context.Context) (int64, error) {
	return m.UsersWithOrders, nil
}

func (m *MockStatsRepo) UsersPerDay(ctx context.Context, since time.Time) ([]repository.DayCount, error) {
	return m.UserDays, nil
}

// MockPasswordHasher prefixes instead of hashing.
type MockPasswordHasher struct{}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	return "hashed_" + password, nil
}

func (m *MockPasswordHasher) Compare(hash, password string) bool {
	return hash == "hashed_"+password
}

// MockTokenProvider
type MockTokenProvider struct {
	SignAccessFunc func(ctx context.Context, sub uuid.UUID, role string, ttl time.Duration) (string, time.Time, error)
	ParseFunc      func(ctx context.Context, token string) (*service.Claims, error)
}

func (m *MockTokenProvider) SignAccess(ctx context.Context, sub uuid.UUID, role string, ttl time.Duration) (string, time.Time, error) {
	if m.SignAccessFunc != nil {
		return m.SignAccessFunc(ctx, sub, role, ttl)
	}
	return "access_token", time.Now().Add(ttl), nil
}

func (m *MockTokenProvider) ParseAndValidateAccess(ctx context.Context, token string) (*service.Claims, error) {
	if m.ParseFunc != nil {
		return m.ParseFunc(ctx, token)
	}
	return nil, service.ErrUnauthorized
}

// MockCache is an in-memory CacheClient.
type MockCache struct {
	Keys        map[string]time.Duration
	Blacklisted map[string]time.Duration
}

func NewMockCache() *MockCache {
	return &MockCache{Keys: map[string]time.Duration{}, Blacklisted: map[string]time.Duration{}}
}

func (m *MockCache) SetRateLimit(ctx context.Context, key string, ttl time.Duration) error {
	m.Keys[key] = ttl
	return nil
}

func (m *MockCache) CheckRateLimit(ctx context.Context, key string) (bool, error) {
	_, ok := m.Keys[key]
	return ok, nil
}

func (m *MockCache) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	m.Blacklisted[jti] = ttl
	return nil
}

func (m *MockCache) IsTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	_, ok := m.Blacklisted[jti]
	return ok, nil
}

const testCatalogYAML = `
products:
  - id: "1"
    name: زيت زيتون
    nameEn: Olive Oil
    category: Olive Oil
    description: زيت
    price: 45
    sizes:
      small: {weight: 250ml, price: 20}
      medium: {weight: 500ml, price: 35}
    inStock: true
  - id: "2"
    name: صابون
    nameEn: Soap
    category: Traditional Soap
    description: صابون نابلسي
    price: 15
    inStock: false
`

func testCatalog() *catalog.Catalog {
	c, err := catalog.Parse([]byte(testCatalogYAML))
	if err != nil {
		panic(err)
	}
	return c
}
