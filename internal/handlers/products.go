package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/wajeehjabribrahim/manajel-store/internal/dto"
	"github.com/wajeehjabribrahim/manajel-store/internal/models"
	"github.com/wajeehjabribrahim/manajel-store/internal/repository"
	"github.com/wajeehjabribrahim/manajel-store/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductService interface {
	List(ctx context.Context, q service.ProductQuery) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, in service.ProductInput) (*models.Product, error)
	Update(ctx context.Context, id string, in service.ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	Move(ctx context.Context, id string, dir service.MoveDirection) (bool, error)
	Reorder(ctx context.Context, positions []repository.ProductPosition) (int, error)
}

type ProductHandler struct {
	svc ProductService
	log *zap.Logger
}

func NewProductHandler(svc ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{svc: svc, log: log}
}

func productInput(req dto.ProductRequest) service.ProductInput {
	return service.ProductInput{
		Name:          req.Name,
		NameEn:        req.NameEn,
		Description:   req.Description,
		DescriptionEn: req.DescriptionEn,
		Category:      req.Category,
		Price:         req.Price,
		Sizes:         req.SizeMap(),
		Image:         req.Image,
		ImageData:     req.ImageData,
		Images:        req.Images,
		Featured:      req.Featured,
		InStock:       req.InStock,
		Rating:        req.Rating,
		Reviews:       req.Reviews,
	}
}

// List godoc
// @Summary Product catalog
// @Description Built-in products followed by stored ones, names in the requested language
// @Tags products
// @Produce json
// @Param lang query string false "ar or en" default(ar)
// @Param category query string false "category filter"
// @Param featured query bool false "featured only"
// @Success 200 {object} dto.ProductListResponse
// @Failure 500 {object} dto.InternalErrorResponse
// @Router /api/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	lang := dto.Lang(c.Query("lang"))
	q := service.ProductQuery{Category: c.Query("category")}
	if v, err := strconv.ParseBool(c.Query("featured")); err == nil {
		q.Featured = &v
	}

	products, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		writeError(c, h.log, "list products", err)
		return
	}
	out := dto.ProductListResponse{Products: make([]dto.ProductResponse, 0, len(products))}
	for i := range products {
		out.Products = append(out.Products, dto.NewProductResponse(&products[i], lang))
	}
	c.JSON(http.StatusOK, out)
}

// Get godoc
// @Summary Product by id
// @Tags products
// @Produce json
// @Param id path string true "product id"
// @Param lang query string false "ar or en" default(ar)
// @Success 200 {object} dto.ProductEnvelope
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, "get product", err)
		return
	}
	c.JSON(http.StatusOK, dto.ProductEnvelope{Product: dto.NewProductResponse(p, dto.Lang(c.Query("lang")))})
}

// Create godoc
// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body dto.ProductRequest true "product"
// @Success 201 {object} dto.ProductEnvelope
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse
// @Failure 403 {object} dto.ForbiddenErrorResponse
// @Router /api/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.log, "create product", err)
		return
	}
	p, err := h.svc.Create(c.Request.Context(), productInput(req))
	if err != nil {
		writeError(c, h.log, "create product", err)
		return
	}
	c.JSON(http.StatusCreated, dto.ProductEnvelope{Product: dto.NewProductResponse(p, dto.LangAR)})
}

// Update godoc
// @Summary Replace product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "product id"
// @Param product body dto.ProductRequest true "product"
// @Success 200 {object} dto.ProductEnvelope
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.log, "update product", err)
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), productInput(req))
	if err != nil {
		writeError(c, h.log, "update product", err)
		return
	}
	c.JSON(http.StatusOK, dto.ProductEnvelope{Product: dto.NewProductResponse(p, dto.LangAR)})
}

// Delete godoc
// @Summary Delete product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "product id"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.log, "delete product", err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "Product deleted successfully"})
}

// Move godoc
// @Summary Move product one step up or down
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "product id"
// @Param body body dto.MoveProductRequest true "direction"
// @Success 200 {object} dto.MoveProductResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/products/{id}/reorder [put]
func (h *ProductHandler) Move(c *gin.Context) {
	var req dto.MoveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.log, "move product", err)
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")

	moved, err := h.svc.Move(ctx, id, service.MoveDirection(req.Direction))
	if err != nil {
		writeError(c, h.log, "move product", err)
		return
	}

	msg := "Product order updated successfully"
	if !moved {
		msg = "Cannot move product in this direction"
	}
	out := dto.MoveProductResponse{Message: msg}
	if p, err := h.svc.Get(ctx, id); err == nil {
		r := dto.NewProductResponse(p, dto.LangAR)
		out.Product = &r
	}
	c.JSON(http.StatusOK, out)
}

// ReorderBatch godoc
// @Summary Rewrite display order of many products at once
// @Description All positions are applied in one transaction; an unknown id aborts the whole batch
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ReorderBatchRequest true "positions"
// @Success 200 {object} dto.ReorderBatchResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/products/reorder-batch [put]
func (h *ProductHandler) ReorderBatch(c *gin.Context) {
	var req dto.ReorderBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.log, "reorder products", err)
		return
	}
	positions := make([]repository.ProductPosition, 0, len(req.Products))
	for _, p := range req.Products {
		positions = append(positions, repository.ProductPosition{ID: p.ID, DisplayOrder: p.DisplayOrder})
	}

	n, err := h.svc.Reorder(c.Request.Context(), positions)
	if err != nil {
		writeError(c, h.log, "reorder products", err)
		return
	}
	c.JSON(http.StatusOK, dto.ReorderBatchResponse{Message: "Products reordered successfully", Count: n})
}
