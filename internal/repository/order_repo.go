package repository

import (
	"context"
	"errors"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderListFilter struct {
	UserID *uuid.UUID
	Status *models.OrderStatus
	Limit  int
	Offset int
}

type OrderRepo interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, f OrderListFilter) ([]models.Order, int64, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (bool, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (bool, error)

	WithTx(ctx context.Context, fn func(orders OrderRepo, outbox OutboxRepo) error) error
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) OrderRepo { return &orderRepo{db: db} }

// Create inserts the order together with its items.
func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	return translate(r.db.WithContext(ctx).Create(o).Error)
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("User").
		First(&ord, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ord, nil
}

func (r *orderRepo) List(ctx context.Context, f OrderListFilter) ([]models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})

	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []models.Order
	err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).
		Preload("Items").Preload("User").
		Find(&list).Error
	return list, total, err
}

// ListAll is used by exports and ignores paging.
func (r *orderRepo) ListAll(ctx context.Context) ([]models.Order, error) {
	var list []models.Order
	err := r.db.WithContext(ctx).Order("created_at DESC").Preload("Items").Preload("User").Find(&list).Error
	return list, err
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	return tx.RowsAffected > 0, tx.Error
}

// TransitionStatus updates only while the order is still in from.
func (r *orderRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return tx.RowsAffected > 0, tx.Error
}

func (r *orderRepo) WithTx(ctx context.Context, fn func(orders OrderRepo, outbox OutboxRepo) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&orderRepo{db: tx}, &outboxRepo{db: tx})
	})
}
