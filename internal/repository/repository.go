package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

type Repository struct {
	DB         *gorm.DB
	Users      UserRepo
	Products   ProductRepo
	Categories CategoryRepo
	Orders     OrderRepo
	Contacts   ContactRepo
	Outbox     OutboxRepo
	Stats      StatsRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:         db,
		Users:      NewUserRepo(db),
		Products:   NewProductRepo(db),
		Categories: NewCategoryRepo(db),
		Orders:     NewOrderRepo(db),
		Contacts:   NewContactRepo(db),
		Outbox:     NewOutboxRepo(db),
		Stats:      NewStatsRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }

// WithTx runs fn against a repository set bound to a single transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(buildRepository(tx))
	})
}

// translate maps driver errors onto repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return errors.Join(ErrDuplicate, err)
	}
	return err
}
