package repository

import (
	"context"
	"errors"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactRepo interface {
	Create(ctx context.Context, m *models.ContactMessage) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error)
	List(ctx context.Context, status *models.ContactStatus) ([]models.ContactMessage, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ContactStatus) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	WithTx(ctx context.Context, fn func(contacts ContactRepo, outbox OutboxRepo) error) error
}

type contactRepo struct{ db *gorm.DB }

func NewContactRepo(db *gorm.DB) ContactRepo { return &contactRepo{db: db} }

func (r *contactRepo) Create(ctx context.Context, m *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *contactRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	var m models.ContactMessage
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *contactRepo) List(ctx context.Context, status *models.ContactStatus) ([]models.ContactMessage, error) {
	q := r.db.WithContext(ctx).Model(&models.ContactMessage{})
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var list []models.ContactMessage
	err := q.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *contactRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ContactStatus) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.ContactMessage{}).Where("id = ?", id).Update("status", status)
	return tx.RowsAffected > 0, tx.Error
}

func (r *contactRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.ContactMessage{}, "id = ?", id)
	return tx.RowsAffected > 0, tx.Error
}

func (r *contactRepo) WithTx(ctx context.Context, fn func(contacts ContactRepo, outbox OutboxRepo) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&contactRepo{db: tx}, &outboxRepo{db: tx})
	})
}
