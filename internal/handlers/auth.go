package handlers

import (
	"context"
	"net/http"

	"github.com/wajeehjabribrahim/manajel-store/internal/dto"
	"github.com/wajeehjabribrahim/manajel-store/internal/middleware"
	"github.com/wajeehjabribrahim/manajel-store/internal/models"
	"github.com/wajeehjabribrahim/manajel-store/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*service.Session, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, in service.ProfileUpdate) (*models.User, error)
}

type AuthHandler struct {
	svc AuthService
	log *zap.Logger
}

func NewAuthHandler(svc AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

// Register godoc
// @Summary Register a customer account
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "account"
// @Success 201 {object} dto.RegisterResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.log, "register", err)
		return
	}
	u, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Phone:    req.Phone,
		City:     req.City,
		Address:  req.Address,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, h.log, "register", err)
		return
	}
	c.JSON(http.StatusCreated, dto.RegisterResponse{OK: true, User: dto.NewUserResponse(u)})
}

// Login godoc
// @Summary Sign in
// @Description Returns an HS256 access token
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.log, "login", err)
		return
	}
	s, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.log, "login", err)
		return
	}
	c.JSON(http.StatusOK, dto.LoginResponse{User: dto.NewUserResponse(s.User), AccessToken: s.AccessToken, ExpiresAt: s.ExpiresAt})
}

// Logout godoc
// @Summary Revoke the current token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(middleware.CtxToken)
	if err := h.svc.Logout(c.Request.Context(), token); err != nil {
		writeError(c, h.log, "logout", err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "logged out"})
}

// Profile godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserEnvelope
// @Failure 401 {object} dto.UnauthorizedErrorResponse
// @Router /api/auth/user [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	u, err := h.svc.Profile(c.Request.Context())
	if err != nil {
		writeError(c, h.log, "profile", err)
		return
	}
	c.JSON(http.StatusOK, dto.UserEnvelope{User: dto.NewUserResponse(u)})
}

// UpdateProfile godoc
// @Summary Update phone, city or address
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.UpdateProfileRequest true "fields to change"
// @Success 200 {object} dto.UserEnvelope
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse
// @Router /api/auth/user [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.log, "update profile", err)
		return
	}
	u, err := h.svc.UpdateProfile(c.Request.Context(), service.ProfileUpdate{Phone: req.Phone, City: req.City, Address: req.Address})
	if err != nil {
		writeError(c, h.log, "update profile", err)
		return
	}
	c.JSON(http.StatusOK, dto.UserEnvelope{User: dto.NewUserResponse(u)})
}
