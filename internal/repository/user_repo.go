package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserListFilter struct {
	Search string // name, email or phone
	Limit  int
	Offset int
}

// UserWithOrderCount is a user row plus the number of orders it placed.
type UserWithOrderCount struct {
	models.User
	OrderCount int64
}

type UserRepo interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, fields map[string]any) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) (bool, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error
	List(ctx context.Context, f UserListFilter) ([]UserWithOrderCount, int64, error)
}

type userRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) UserRepo { return &userRepo{db: db} }

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("lower(email) = lower(?)", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("lower(email) = lower(?)", email).Count(&cnt).Error
	return cnt > 0, err
}

func (r *userRepo) UpdateProfile(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	tx := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash)
	return tx.RowsAffected > 0, tx.Error
}

func (r *userRepo) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role).Error
}

func (r *userRepo) List(ctx context.Context, f UserListFilter) ([]UserWithOrderCount, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})

	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + s + "%"
		q = q.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 10
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []UserWithOrderCount
	err := q.Select("users.*, (SELECT count(*) FROM orders o WHERE o.user_id = users.id) AS order_count").
		Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).
		Scan(&list).Error
	return list, total, err
}
