package service_test

import (
	"context"
	"strings"
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

func TestAdminService_ListUsers_Pagination(t *testing.T) {
	var seen repository.UserListFilter
	users := &MockUserRepo{
		ListFunc: func(ctx context.Context, f repository.UserListFilter) ([]repository.UserWithOrderCount, int64, error) {
			seen = f
			return []repository.UserWithOrderCount{{User: models.User{Name: "Sara"}, OrderCount: 2}}, 21, nil
		},
	}
	svc := service.NewAdminService(users, &MockStatsRepo{}, &MockPasswordHasher{}, zap.NewNop())

	page, err := svc.ListUsers(context.Background(), 3, 10, " sara ")
	require.NoError(t, err)
	assert.Equal(t, service.Pagination{Total: 21, Page: 3, Limit: 10, Pages: 3}, page.Pagination)
	assert.Equal(t, 20, seen.Offset)
	assert.Equal(t, "sara", seen.Search)

	page, err = svc.ListUsers(context.Background(), 0, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 10, page.Pagination.Limit)
}

func TestAdminService_ResetPassword(t *testing.T) {
	known := uuid.New()
	var hash string
	users := &MockUserRepo{
		UpdatePasswordFunc: func(ctx context.Context, id uuid.UUID, h string) (bool, error) {
			hash = h
			return id == known, nil
		},
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
	}
	svc := service.NewAdminService(users, &MockStatsRepo{}, &MockPasswordHasher{}, zap.NewNop())

	_, err := svc.ResetPassword(context.Background(), known, "123")
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.ResetPassword(context.Background(), known, strings.Repeat("x", 73))
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.ResetPassword(context.Background(), uuid.New(), "newpass1")
	assert.ErrorIs(t, err, service.ErrUserNotFound)

	u, err := svc.ResetPassword(context.Background(), known, "newpass1")
	require.NoError(t, err)
	assert.Equal(t, known, u.ID)
	assert.Equal(t, "hashed_newpass1", hash)
}

func TestAdminService_OrderStats(t *testing.T) {
	stats := &MockStatsRepo{
		StatusCounts: []repository.StatusCount{
			{Status: models.OrderStatusPending, Count: 2},
			{Status: models.OrderStatusDelivered, Count: 3},
			{Status: models.OrderStatusCancelled, Count: 1},
		},
		TotalRevenue:    decimal.NewFromInt(100),
		MonthRevenue:    decimal.NewFromInt(40),
		OrdersThisMonth: 2,
	}
	svc := service.NewAdminService(&MockUserRepo{}, stats, &MockPasswordHasher{}, zap.NewNop())

	st, err := svc.OrderStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(6), st.TotalOrders)
	assert.Equal(t, int64(1), st.CancelledOrders)
	assert.Equal(t, "20", st.AverageOrderValue.String())
	require.Len(t, st.OrdersByDay, 7)
	for _, d := range st.OrdersByDay {
		assert.Zero(t, d.Count)
	}
	assert.Equal(t, st.OrdersByDay[0].Date, stats.OrdersPerDaySeen.Format("2006-01-02"))
}

func TestAdminService_UserStats(t *testing.T) {
	stats := &MockStatsRepo{Users: 10, Admins: 2, UsersWithOrders: 4}
	svc := service.NewAdminService(&MockUserRepo{}, stats, &MockPasswordHasher{}, zap.NewNop())

	st, err := svc.UserStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(8), st.RegularUsers)
	assert.Equal(t, int64(4), st.ActiveUsers)
	assert.Len(t, st.UserGrowth, 7)
}

func TestAdminService_YearlyDelivered(t *testing.T) {
	stats := &MockStatsRepo{Delivered: []repository.MonthTotal{
		{Year: 2025, Month: 12, Total: decimal.NewFromInt(50), Count: 1},
		{Year: 2026, Month: 1, Total: decimal.NewFromInt(30), Count: 2},
		{Year: 2026, Month: 3, Total: decimal.NewFromInt(20), Count: 1},
	}}
	svc := service.NewAdminService(&MockUserRepo{}, stats, &MockPasswordHasher{}, zap.NewNop())

	years, err := svc.YearlyDelivered(context.Background())
	require.NoError(t, err)
	require.Len(t, years, 2)
	assert.Equal(t, 2026, years[0].Year)
	assert.Equal(t, "50", years[0].Total.String())
	assert.Equal(t, int64(3), years[0].Count)
	assert.Len(t, years[0].Months, 2)
	assert.Equal(t, 2025, years[1].Year)
}
