package service

import (
	"context"
	"time"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"

	"github.com/google/uuid"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type Claims struct {
	UserID uuid.UUID
	Role   models.Role
	ID     string // jti
	Exp    time.Time
}

type TokenProvider interface {
	SignAccess(ctx context.Context, sub uuid.UUID, role string, ttl time.Duration) (token string, exp time.Time, err error)
	ParseAndValidateAccess(ctx context.Context, token string) (*Claims, error)
}

// CacheClient is the redis subset used for rate limiting and logout.
type CacheClient interface {
	SetRateLimit(ctx context.Context, key string, ttl time.Duration) error
	CheckRateLimit(ctx context.Context, key string) (bool, error)
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, jti string) (bool, error)
}

// ProductCatalog is the read-only built-in product list.
type ProductCatalog interface {
	Products() []models.Product
	Get(id string) (*models.Product, bool)
	Has(id string) bool
	IDs() []string
}
