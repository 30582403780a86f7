package repository

import (
	"context"
	"time"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StatusCount struct {
	Status models.OrderStatus
	Count  int64
}

type DayCount struct {
	Day   string // YYYY-MM-DD, UTC
	Count int64
}

type MonthTotal struct {
	Year  int
	Month int
	Total decimal.Decimal
	Count int64
}

type StatsRepo interface {
	OrderStatusCounts(ctx context.Context) ([]StatusCount, error)
	// Revenue sums non-cancelled order totals created at or after since.
	Revenue(ctx context.Context, since time.Time) (decimal.Decimal, error)
	CountOrdersSince(ctx context.Context, since time.Time) (int64, error)
	OrdersPerDay(ctx context.Context, since time.Time) ([]DayCount, error)
	DeliveredByMonth(ctx context.Context) ([]MonthTotal, error)

	CountUsers(ctx context.Context, since time.Time) (int64, error)
	CountUsersByRole(ctx context.Context, role models.Role) (int64, error)
	CountUsersWithOrders(ctx context.Context) (int64, error)
	UsersPerDay(ctx context.Context, since time.Time) ([]DayCount, error)
}

type statsRepo struct{ db *gorm.DB }

func NewStatsRepo(db *gorm.DB) StatsRepo { return &statsRepo{db: db} }

func (r *statsRepo) OrderStatusCounts(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, count(*) AS count").Group("status").Scan(&rows).Error
	return rows, err
}

func (r *statsRepo) Revenue(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0)").
		Where("status <> ? AND created_at >= ?", models.OrderStatusCancelled, since).
		Scan(&total).Error
	return total, err
}

func (r *statsRepo) CountOrdersSince(ctx context.Context, since time.Time) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("created_at >= ?", since).Count(&cnt).Error
	return cnt, err
}

func (r *statsRepo) OrdersPerDay(ctx context.Context, since time.Time) ([]DayCount, error) {
	return r.perDay(ctx, &models.Order{}, since)
}

func (r *statsRepo) DeliveredByMonth(ctx context.Context) ([]MonthTotal, error) {
	var rows []MonthTotal
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select(`EXTRACT(YEAR FROM created_at AT TIME ZONE 'UTC')::int AS year,
			EXTRACT(MONTH FROM created_at AT TIME ZONE 'UTC')::int AS month,
			COALESCE(SUM(total), 0) AS total,
			count(*) AS count`).
		Where("status = ?", models.OrderStatusDelivered).
		Group("year, month").
		Order("year DESC, month ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *statsRepo) CountUsers(ctx context.Context, since time.Time) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("created_at >= ?", since).Count(&cnt).Error
	return cnt, err
}

func (r *statsRepo) CountUsersByRole(ctx context.Context, role models.Role) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&cnt).Error
	return cnt, err
}

func (r *statsRepo) CountUsersWithOrders(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("user_id IS NOT NULL").
		Distinct("user_id").
		Count(&cnt).Error
	return cnt, err
}

func (r *statsRepo) UsersPerDay(ctx context.Context, since time.Time) ([]DayCount, error) {
	return r.perDay(ctx, &models.User{}, since)
}

func (r *statsRepo) perDay(ctx context.Context, model any, since time.Time) ([]DayCount, error) {
	var rows []DayCount
	err := r.db.WithContext(ctx).Model(model).
		Select("to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, count(*) AS count").
		Where("created_at >= ?", since).
		Group("day").
		Order("day ASC").
		Scan(&rows).Error
	return rows, err
}
