package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"
	"github.com/wajeehjabribrahim/manajel-store/internal/notification"
	"github.com/wajeehjabribrahim/manajel-store/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func contactInput() service.ContactInput {
	return service.ContactInput{
		Name:    "Omar",
		Email:   "omar@example.com",
		Subject: "Wholesale",
		Message: "Do you ship to Amman?",
	}
}

func TestContactService_Submit(t *testing.T) {
	contacts := &MockContactRepo{}
	svc := service.NewContactService(contacts, nil, time.Minute, []string{"admin@manajel.works"}, zap.NewNop())

	m, err := svc.Submit(context.Background(), "10.0.0.1", contactInput())
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusNew, m.Status)
	assert.Nil(t, m.Phone)
	require.Len(t, contacts.Created, 1)

	require.Len(t, contacts.Outbox.Enqueued, 1)
	var msg notification.EmailMessage
	require.NoError(t, json.Unmarshal(contacts.Outbox.Enqueued[0].Payload, &msg))
	assert.Equal(t, []string{"admin@manajel.works"}, msg.To)
	assert.Equal(t, notification.TemplateContactReceived, msg.Template)
}

func TestContactService_Submit_Validation(t *testing.T) {
	svc := service.NewContactService(&MockContactRepo{}, nil, time.Minute, nil, zap.NewNop())

	in := contactInput()
	in.Subject = ""
	_, err := svc.Submit(context.Background(), "", in)
	assert.ErrorIs(t, err, service.ErrValidation)

	in = contactInput()
	in.Email = "omar@example"
	_, err = svc.Submit(context.Background(), "", in)
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestContactService_Submit_RateLimited(t *testing.T) {
	contacts := &MockContactRepo{}
	cache := NewMockCache()
	svc := service.NewContactService(contacts, cache, time.Minute, nil, zap.NewNop())

	_, err := svc.Submit(context.Background(), "10.0.0.2", contactInput())
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), "10.0.0.2", contactInput())
	assert.ErrorIs(t, err, service.ErrTooManyRequests)
	assert.Len(t, contacts.Created, 1)

	_, err = svc.Submit(context.Background(), "10.0.0.3", contactInput())
	assert.NoError(t, err)
}

func TestContactService_SetStatusAndDelete(t *testing.T) {
	known := uuid.New()
	contacts := &MockContactRepo{
		UpdateStatusFunc: func(ctx context.Context, id uuid.UUID, s models.ContactStatus) (bool, error) { return id == known, nil },
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
			return &models.ContactMessage{ID: id, Status: models.ContactStatusRead}, nil
		},
		DeleteFunc: func(ctx context.Context, id uuid.UUID) (bool, error) { return id == known, nil },
	}
	svc := service.NewContactService(contacts, nil, 0, nil, zap.NewNop())

	m, err := svc.SetStatus(context.Background(), known, models.ContactStatusRead)
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusRead, m.Status)

	_, err = svc.SetStatus(context.Background(), known, "archived")
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.SetStatus(context.Background(), uuid.New(), models.ContactStatusRead)
	assert.ErrorIs(t, err, service.ErrMessageNotFound)

	assert.NoError(t, svc.Delete(context.Background(), known))
	assert.ErrorIs(t, svc.Delete(context.Background(), uuid.New()), service.ErrMessageNotFound)
}
