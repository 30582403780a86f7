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

type OrderService interface {
	Create(ctx context.Context, in service.CreateOrderInput) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error)
	Cancel(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListAll(ctx context.Context, q service.OrderListQuery) ([]models.Order, int64, error)
	ListMine(ctx context.Context) ([]models.Order, error)
}

type OrderHandler struct {
	svc OrderService
	log *zap.Logger
}

func NewOrderHandler(svc OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, log: log}
}

// Create godoc
// @Summary Checkout
// @Description Revalidates every cart line against the catalog. Shipping fields are required for guests only.
// @Tags orders
// @Accept json
// @Produce json
// @Param order body dto.CreateOrderRequest true "cart"
// @Success 201 {object} dto.CreateOrderResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse
// @Router /api/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.log, "create order", err)
		return
	}

	in := service.CreateOrderInput{
		Items: make([]service.CreateOrderItem, 0, len(req.Items)),
		Shipping: service.ShippingInput{
			Name:    req.Name,
			Phone:   req.Phone,
			City:    req.City,
			Address: req.Address,
			Email:   req.Email,
		},
		Notes: req.Notes,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, service.CreateOrderItem{
			ProductID: it.ID,
			Name:      it.Name,
			Size:      it.Size,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Image:     it.Image,
		})
	}

	o, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.log, "create order", err)
		return
	}
	c.JSON(http.StatusCreated, dto.CreateOrderResponse{OK: true, OrderID: o.ID.String(), Reference: o.Reference, Total: o.Total})
}

// Get godoc
// @Summary Order by id
// @Description Visible to admins, the owner, or anyone for guest orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "order id"
// @Success 200 {object} dto.OrderEnvelope
// @Failure 401 {object} dto.UnauthorizedErrorResponse
// @Failure 403 {object} dto.ForbiddenErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, h.log, "get order", service.ErrOrderNotFound)
	if !ok {
		return
	}
	o, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, "get order", err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderEnvelope{Order: dto.NewOrderResponse(o)})
}

// UpdateStatus godoc
// @Summary Change order status
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "order id"
// @Param body body dto.UpdateOrderStatusRequest true "status"
// @Success 200 {object} dto.OrderEnvelope
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/orders/{id} [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, h.log, "update order", service.ErrOrderNotFound)
	if !ok {
		return
	}
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.log, "update order", err)
		return
	}
	o, err := h.svc.UpdateStatus(c.Request.Context(), id, models.OrderStatus(req.Status))
	if err != nil {
		writeError(c, h.log, "update order", err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderEnvelope{Order: dto.NewOrderResponse(o)})
}

// Cancel godoc
// @Summary Cancel a pending order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "order id"
// @Success 200 {object} dto.OrderEnvelope
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 403 {object} dto.ForbiddenErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, h.log, "cancel order", service.ErrOrderNotFound)
	if !ok {
		return
	}
	o, err := h.svc.Cancel(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, "cancel order", err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderEnvelope{Order: dto.NewOrderResponse(o)})
}

// ListAll godoc
// @Summary All orders, newest first
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param status query string false "status filter"
// @Param limit query int false "page size"
// @Param offset query int false "offset"
// @Success 200 {object} dto.OrderListResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Router /api/orders/all [get]
func (h *OrderHandler) ListAll(c *gin.Context) {
	var q service.OrderListQuery
	if s := c.Query("status"); s != "" {
		st := models.OrderStatus(s)
		if !st.Valid() {
			writeError(c, h.log, "list orders", service.ErrInvalidOrderStatus)
			return
		}
		q.Status = &st
	}
	q.Limit, _ = strconv.Atoi(c.Query("limit"))
	q.Offset, _ = strconv.Atoi(c.Query("offset"))

	orders, total, err := h.svc.ListAll(c.Request.Context(), q)
	if err != nil {
		writeError(c, h.log, "list orders", err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderListResponse{Orders: dto.NewOrderList(orders), Total: &total})
}

// ListMine godoc
// @Summary Orders of the signed in user
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.OrderListResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse
// @Router /api/orders/user [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	orders, err := h.svc.ListMine(c.Request.Context())
	if err != nil {
		writeError(c, h.log, "list user orders", err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderListResponse{Orders: dto.NewOrderList(orders)})
}
