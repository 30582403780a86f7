package dto

import (
	"github.com/wajeehjabribrahim/manajel-store/internal/repository"
	"github.com/wajeehjabribrahim/manajel-store/internal/service"
)

type AdminUserResponse struct {
	UserResponse
	OrderCount int64 `json:"orderCount"`
}

type UsersResponse struct {
	Users      []AdminUserResponse `json:"users"`
	Pagination service.Pagination  `json:"pagination"`
}

func NewUsersResponse(p *service.UserPage) UsersResponse {
	out := UsersResponse{Users: make([]AdminUserResponse, 0, len(p.Users)), Pagination: p.Pagination}
	for i := range p.Users {
		u := p.Users[i]
		out.Users = append(out.Users, newAdminUser(u))
	}
	return out
}

func newAdminUser(u repository.UserWithOrderCount) AdminUserResponse {
	return AdminUserResponse{UserResponse: NewUserResponse(&u.User), OrderCount: u.OrderCount}
}

type ResetPasswordRequest struct {
	UserID      string `json:"userId" binding:"required,uuid"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type ResetPasswordResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type YearlyResponse struct {
	Years []service.YearTotal `json:"years"`
}
