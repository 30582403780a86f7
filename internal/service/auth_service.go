package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"
	"github.com/wajeehjabribrahim/manajel-store/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	minPasswordLen = 6
	maxPasswordLen = 72 // bcrypt input limit
)

type RegisterInput struct {
	Name     string
	Phone    string
	City     string
	Address  string
	Email    string
	Password string
}

// ProfileUpdate holds the editable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	Phone   *string
	City    *string
	Address *string
}

type Session struct {
	User        *models.User
	AccessToken string
	ExpiresAt   time.Time
}

type AuthService struct {
	users       repository.UserRepo
	hasher      PasswordHasher
	tokens      TokenProvider
	cache       CacheClient // nil disables logout blacklisting
	adminEmails map[string]struct{}
	accessTTL   time.Duration
	now         func() time.Time
	log         *zap.Logger
}

func NewAuthService(
	users repository.UserRepo,
	hasher PasswordHasher,
	tokens TokenProvider,
	cache CacheClient,
	adminEmails []string,
	accessTTL time.Duration,
	log *zap.Logger,
) *AuthService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = normalizeEmail(e); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &AuthService{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		cache:       cache,
		adminEmails: admins,
		accessTTL:   accessTTL,
		now:         time.Now,
		log:         log,
	}
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.City = strings.TrimSpace(in.City)
	in.Address = strings.TrimSpace(in.Address)
	in.Email = normalizeEmail(in.Email)

	v := missingFields(
		[]string{"name", "phone", "city", "address", "email", "password"},
		map[string]string{
			"name": in.Name, "phone": in.Phone, "city": in.City,
			"address": in.Address, "email": in.Email, "password": in.Password,
		},
	)
	if in.Password != "" && len(in.Password) < minPasswordLen {
		if v == nil {
			v = newValidation("invalid data")
		}
		v.Fields = append(v.Fields, FieldError{Field: "password", Message: "too short"})
	}
	if len(in.Password) > maxPasswordLen {
		if v == nil {
			v = newValidation("invalid data")
		}
		v.Fields = append(v.Fields, FieldError{Field: "password", Message: "too long"})
	}
	if v != nil {
		v.Message = "invalid data"
		return nil, v
	}

	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	u := &models.User{
		ID:        uuid.New(),
		Name:      in.Name,
		Phone:     in.Phone,
		City:      in.City,
		Address:   in.Address,
		Email:     in.Email,
		Password:  hash,
		Role:      models.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	s.log.Info("user registered", zap.String("user_id", u.ID.String()))
	return u, nil
}

// Login checks the credentials and issues an access token. Accounts listed
// in the admin email set are promoted to admin on the way in.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !s.hasher.Compare(u.Password, password) {
		return nil, ErrInvalidCredentials
	}

	if _, ok := s.adminEmails[normalizeEmail(u.Email)]; ok && u.Role != models.RoleAdmin {
		if err := s.users.UpdateRole(ctx, u.ID, models.RoleAdmin); err != nil {
			return nil, err
		}
		u.Role = models.RoleAdmin
		s.log.Info("user promoted to admin", zap.String("user_id", u.ID.String()))
	}

	token, exp, err := s.tokens.SignAccess(ctx, u.ID, string(u.Role), s.accessTTL)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, AccessToken: token, ExpiresAt: exp}, nil
}

// Authenticate validates a bearer token and returns its claims. Revoked
// tokens are refused.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.tokens.ParseAndValidateAccess(ctx, token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if s.cache != nil && claims.ID != "" {
		revoked, err := s.cache.IsTokenBlacklisted(ctx, claims.ID)
		if err != nil {
			s.log.Warn("token blacklist lookup failed", zap.Error(err))
		} else if revoked {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.ParseAndValidateAccess(ctx, token)
	if err != nil {
		return ErrUnauthorized
	}
	if s.cache == nil || claims.ID == "" {
		return nil
	}
	ttl := claims.Exp.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.cache.BlacklistToken(ctx, claims.ID, ttl)
}

func (s *AuthService) Profile(ctx context.Context) (*models.User, error) {
	uid, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, in ProfileUpdate) (*models.User, error) {
	uid, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Phone != nil {
		fields["phone"] = strings.TrimSpace(*in.Phone)
	}
	if in.City != nil {
		fields["city"] = strings.TrimSpace(*in.City)
	}
	if in.Address != nil {
		fields["address"] = strings.TrimSpace(*in.Address)
	}
	if len(fields) == 0 {
		return nil, newValidation("no fields provided")
	}
	fields["updated_at"] = s.now().UTC()

	if err := s.users.UpdateProfile(ctx, uid, fields); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.Profile(ctx)
}
