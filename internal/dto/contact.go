package dto

import (
	"time"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"
)

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone" binding:"omitempty,phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type ContactStatusRequest struct {
	ID     string `json:"id" binding:"required,uuid"`
	Status string `json:"status" binding:"required"`
}

type ContactDeleteRequest struct {
	ID string `json:"id" binding:"required,uuid"`
}

type ContactMessageResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewContactMessageResponse(m *models.ContactMessage) ContactMessageResponse {
	return ContactMessageResponse{
		ID:        m.ID.String(),
		Name:      m.Name,
		Email:     m.Email,
		Phone:     str(m.Phone),
		Subject:   m.Subject,
		Message:   m.Message,
		Status:    string(m.Status),
		CreatedAt: m.CreatedAt,
	}
}

type ContactSubmitResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    ContactMessageResponse `json:"data"`
}

type ContactListResponse struct {
	Messages []ContactMessageResponse `json:"messages"`
}
