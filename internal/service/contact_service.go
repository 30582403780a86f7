package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"
	"github.com/wajeehjabribrahim/manajel-store/internal/notification"
	"github.com/wajeehjabribrahim/manajel-store/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var contactEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

type ContactService struct {
	contacts    repository.ContactRepo
	cache       CacheClient // nil when redis is disabled
	rateWindow  time.Duration
	adminEmails []string
	now         func() time.Time
	log         *zap.Logger
}

func NewContactService(
	contacts repository.ContactRepo,
	cache CacheClient,
	rateWindow time.Duration,
	adminEmails []string,
	log *zap.Logger,
) *ContactService {
	return &ContactService{
		contacts:    contacts,
		cache:       cache,
		rateWindow:  rateWindow,
		adminEmails: adminEmails,
		now:         time.Now,
		log:         log,
	}
}

// Submit stores a contact form message and queues the admin notification.
// clientKey identifies the sender for rate limiting, usually the client IP.
func (s *ContactService) Submit(ctx context.Context, clientKey string, in ContactInput) (*models.ContactMessage, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)

	if v := missingFields(
		[]string{"name", "email", "subject", "message"},
		map[string]string{"name": in.Name, "email": in.Email, "subject": in.Subject, "message": in.Message},
	); v != nil {
		return nil, v
	}
	if !contactEmailPattern.MatchString(in.Email) {
		return nil, newValidation("invalid email address", FieldError{Field: "email", Message: "invalid format"})
	}

	key := "rl:contact:" + clientKey
	if s.cache != nil && clientKey != "" {
		limited, err := s.cache.CheckRateLimit(ctx, key)
		if err != nil {
			s.log.Warn("contact rate limit check failed", zap.Error(err))
		} else if limited {
			return nil, ErrTooManyRequests
		}
	}

	now := s.now().UTC()
	m := &models.ContactMessage{
		ID:        uuid.New(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     optional(in.Phone),
		Subject:   in.Subject,
		Message:   in.Message,
		Status:    models.ContactStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.contacts.WithTx(ctx, func(contacts repository.ContactRepo, outbox repository.OutboxRepo) error {
		if err := contacts.Create(ctx, m); err != nil {
			return err
		}
		if len(s.adminEmails) == 0 {
			return nil
		}
		return enqueueEmail(ctx, outbox, models.OutboxContactReceived, m.ID.String(),
			notification.ContactReceived(m, s.adminEmails), now)
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil && clientKey != "" && s.rateWindow > 0 {
		if err := s.cache.SetRateLimit(ctx, key, s.rateWindow); err != nil {
			s.log.Warn("contact rate limit set failed", zap.Error(err))
		}
	}

	s.log.Info("contact message received", zap.String("id", m.ID.String()))
	return m, nil
}

func (s *ContactService) List(ctx context.Context, status *models.ContactStatus) ([]models.ContactMessage, error) {
	if status != nil && !status.Valid() {
		return nil, newValidation("invalid status", FieldError{Field: "status", Message: "must be new or read"})
	}
	return s.contacts.List(ctx, status)
}

func (s *ContactService) SetStatus(ctx context.Context, id uuid.UUID, status models.ContactStatus) (*models.ContactMessage, error) {
	if !status.Valid() {
		return nil, newValidation("invalid status", FieldError{Field: "status", Message: "must be new or read"})
	}
	ok, err := s.contacts.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrMessageNotFound
	}
	return s.contacts.GetByID(ctx, id)
}

func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	ok, err := s.contacts.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrMessageNotFound
	}
	return nil
}
