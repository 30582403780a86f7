package handlers

import (
	"context"
	"net/http"

	"github.com/wajeehjabribrahim/manajel-store/internal/dto"
	"github.com/wajeehjabribrahim/manajel-store/internal/models"
	"github.com/wajeehjabribrahim/manajel-store/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ContactService interface {
	Submit(ctx context.Context, clientKey string, in service.ContactInput) (*models.ContactMessage, error)
	List(ctx context.Context, status *models.ContactStatus) ([]models.ContactMessage, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.ContactStatus) (*models.ContactMessage, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ContactHandler struct {
	svc ContactService
	log *zap.Logger
}

func NewContactHandler(svc ContactService, log *zap.Logger) *ContactHandler {
	return &ContactHandler{svc: svc, log: log}
}

// Submit godoc
// @Summary Send a contact form message
// @Tags contact
// @Accept json
// @Produce json
// @Param body body dto.ContactRequest true "message"
// @Success 201 {object} dto.ContactSubmitResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 429 {object} dto.RateLimitedErrorResponse
// @Router /api/contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.log, "submit contact", err)
		return
	}
	m, err := h.svc.Submit(c.Request.Context(), c.ClientIP(), service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		writeError(c, h.log, "submit contact", err)
		return
	}
	c.JSON(http.StatusCreated, dto.ContactSubmitResponse{
		Success: true,
		Message: "تم إرسال رسالتك بنجاح",
		Data:    dto.NewContactMessageResponse(m),
	})
}

// List godoc
// @Summary Contact messages, newest first
// @Tags contact
// @Produce json
// @Security BearerAuth
// @Param action query string false "list"
// @Param status query string false "new or read"
// @Success 200 {object} dto.ContactListResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse
// @Failure 403 {object} dto.ForbiddenErrorResponse
// @Router /api/contact [get]
func (h *ContactHandler) List(c *gin.Context) {
	if a := c.Query("action"); a != "" && a != "list" {
		writeError(c, h.log, "list contact", service.ErrValidation)
		return
	}
	var status *models.ContactStatus
	if s := c.Query("status"); s != "" {
		st := models.ContactStatus(s)
		status = &st
	}

	msgs, err := h.svc.List(c.Request.Context(), status)
	if err != nil {
		writeError(c, h.log, "list contact", err)
		return
	}
	out := dto.ContactListResponse{Messages: make([]dto.ContactMessageResponse, 0, len(msgs))}
	for i := range msgs {
		out.Messages = append(out.Messages, dto.NewContactMessageResponse(&msgs[i]))
	}
	c.JSON(http.StatusOK, out)
}

// SetStatus godoc
// @Summary Mark a message new or read
// @Tags contact
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ContactStatusRequest true "status"
// @Success 200 {object} dto.ContactSubmitResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/contact [put]
func (h *ContactHandler) SetStatus(c *gin.Context) {
	var req dto.ContactStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.log, "update contact", err)
		return
	}
	m, err := h.svc.SetStatus(c.Request.Context(), uuid.MustParse(req.ID), models.ContactStatus(req.Status))
	if err != nil {
		writeError(c, h.log, "update contact", err)
		return
	}
	c.JSON(http.StatusOK, dto.ContactSubmitResponse{Success: true, Message: "Message updated", Data: dto.NewContactMessageResponse(m)})
}

// Delete godoc
// @Summary Delete a message
// @Tags contact
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ContactDeleteRequest true "id"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/contact [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	var req dto.ContactDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.log, "delete contact", err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), uuid.MustParse(req.ID)); err != nil {
		writeError(c, h.log, "delete contact", err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "Message deleted successfully"})
}
