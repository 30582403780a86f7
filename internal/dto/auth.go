package dto

import (
	"time"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone" binding:"omitempty,phone"`
	City     string `json:"city"`
	Address  string `json:"address"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	City      string    `json:"city"`
	Address   string    `json:"address"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		City:      u.City,
		Address:   u.Address,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

type RegisterResponse struct {
	OK   bool         `json:"ok"`
	User UserResponse `json:"user"`
}

type LoginResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
}

type UserEnvelope struct {
	User UserResponse `json:"user"`
}

// UpdateProfileRequest leaves absent fields untouched.
type UpdateProfileRequest struct {
	Phone   *string `json:"phone" binding:"omitempty,phone"`
	City    *string `json:"city"`
	Address *string `json:"address"`
}
