package dto

import (
	"time"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"
)

type CategoryRequest struct {
	Name   string `json:"name"`
	NameAr string `json:"nameAr"`
}

type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	NameAr    string    `json:"nameAr"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewCategoryResponse(c *models.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID.String(), Name: c.Name, NameAr: c.NameAr, CreatedAt: c.CreatedAt}
}
