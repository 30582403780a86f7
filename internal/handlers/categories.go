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

type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, name, nameAr string) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, name, nameAr string) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CategoryHandler struct {
	svc CategoryService
	log *zap.Logger
}

func NewCategoryHandler(svc CategoryService, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{svc: svc, log: log}
}

// pathID parses the :id parameter. An id that is not a uuid cannot exist,
// so it is reported as notFoundErr.
func pathID(c *gin.Context, log *zap.Logger, op string, notFoundErr error) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, log, op, notFoundErr)
		return uuid.Nil, false
	}
	return id, true
}

// List godoc
// @Summary Categories, oldest first
// @Tags categories
// @Produce json
// @Success 200 {array} dto.CategoryResponse
// @Router /api/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	cats, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, h.log, "list categories", err)
		return
	}
	out := make([]dto.CategoryResponse, 0, len(cats))
	for i := range cats {
		out = append(out, dto.NewCategoryResponse(&cats[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Create godoc
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CategoryRequest true "category"
// @Success 201 {object} dto.CategoryResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Router /api/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.log, "create category", err)
		return
	}
	cat, err := h.svc.Create(c.Request.Context(), req.Name, req.NameAr)
	if err != nil {
		writeError(c, h.log, "create category", err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewCategoryResponse(cat))
}

// Update godoc
// @Summary Rename category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "category id"
// @Param body body dto.CategoryRequest true "category"
// @Success 200 {object} dto.CategoryResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Router /api/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c, h.log, "update category", service.ErrCategoryNotFound)
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.log, "update category", err)
		return
	}
	cat, err := h.svc.Update(c.Request.Context(), id, req.Name, req.NameAr)
	if err != nil {
		writeError(c, h.log, "update category", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCategoryResponse(cat))
}

// Delete godoc
// @Summary Delete category
// @Description Refused with 400 while products still use the category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path string true "category id"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, h.log, "delete category", service.ErrCategoryNotFound)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.log, "delete category", err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "Category deleted successfully"})
}
