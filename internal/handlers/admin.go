package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/wajeehjabribrahim/manajel-store/internal/dto"
	"github.com/wajeehjabribrahim/manajel-store/internal/models"
	"github.com/wajeehjabribrahim/manajel-store/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AdminService interface {
	ListUsers(ctx context.Context, page, limit int, search string) (*service.UserPage, error)
	ResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) (*models.User, error)
	OrderStats(ctx context.Context) (*service.OrderStats, error)
	UserStats(ctx context.Context) (*service.UserStats, error)
	YearlyDelivered(ctx context.Context) ([]service.YearTotal, error)
}

type AdminHandler struct {
	svc AdminService
	log *zap.Logger
}

func NewAdminHandler(svc AdminService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, log: log}
}

// Users godoc
// @Summary Paginated users with order counts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(10)
// @Param search query string false "name, email or phone"
// @Success 200 {object} dto.UsersResponse
// @Router /api/admin/users [get]
func (h *AdminHandler) Users(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	res, err := h.svc.ListUsers(c.Request.Context(), page, limit, c.Query("search"))
	if err != nil {
		writeError(c, h.log, "list users", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUsersResponse(res))
}

// ResetPassword godoc
// @Summary Set a new password for a user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ResetPasswordRequest true "user and password"
// @Success 200 {object} dto.ResetPasswordResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/admin/users/reset-password [post]
func (h *AdminHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.log, "reset password", err)
		return
	}
	u, err := h.svc.ResetPassword(c.Request.Context(), uuid.MustParse(req.UserID), req.NewPassword)
	if err != nil {
		writeError(c, h.log, "reset password", err)
		return
	}
	c.JSON(http.StatusOK, dto.ResetPasswordResponse{Success: true, Message: "Password reset successfully", User: dto.NewUserResponse(u)})
}

// OrderStats godoc
// @Summary Order dashboard figures
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.OrderStats
// @Router /api/admin/orders-stats [get]
func (h *AdminHandler) OrderStats(c *gin.Context) {
	s, err := h.svc.OrderStats(c.Request.Context())
	if err != nil {
		writeError(c, h.log, "order stats", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// UserStats godoc
// @Summary User dashboard figures
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.UserStats
// @Router /api/admin/users-stats [get]
func (h *AdminHandler) UserStats(c *gin.Context) {
	s, err := h.svc.UserStats(c.Request.Context())
	if err != nil {
		writeError(c, h.log, "user stats", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// OrdersYearly godoc
// @Summary Delivered revenue per year and month
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.YearlyResponse
// @Router /api/admin/orders-yearly [get]
func (h *AdminHandler) OrdersYearly(c *gin.Context) {
	years, err := h.svc.YearlyDelivered(c.Request.Context())
	if err != nil {
		writeError(c, h.log, "orders yearly", err)
		return
	}
	c.JSON(http.StatusOK, dto.YearlyResponse{Years: years})
}
