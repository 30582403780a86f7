package dto

import (
	"time"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"

	"github.com/shopspring/decimal"
)

// OrderItemRequest is one cart line. Quantity and price stay float64 so
// fractional or out of range values reach the order validator intact.
type OrderItemRequest struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Size     string  `json:"size"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
}

// CreateOrderRequest is the whole cart. Shipping fields are read only for
// guest checkout.
type CreateOrderRequest struct {
	Items   []OrderItemRequest `json:"items"`
	Name    string             `json:"name"`
	Phone   string             `json:"phone"`
	City    string             `json:"city"`
	Address string             `json:"address"`
	Email   string             `json:"email"`
	Notes   string             `json:"notes"`
}

type CreateOrderResponse struct {
	OK        bool            `json:"ok"`
	OrderID   string          `json:"orderId"`
	Reference string          `json:"reference"`
	Total     decimal.Decimal `json:"total" swaggertype:"number"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type OrderItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price" swaggertype:"number"`
	Total     decimal.Decimal `json:"total" swaggertype:"number"`
	Image     string          `json:"image,omitempty"`
}

type OrderUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	Reference       string              `json:"reference"`
	UserID          *string             `json:"userId"`
	User            *OrderUser          `json:"user,omitempty"`
	Status          string              `json:"status"`
	Total           decimal.Decimal     `json:"total" swaggertype:"number"`
	ShippingName    string              `json:"shippingName"`
	ShippingPhone   string              `json:"shippingPhone"`
	ShippingCity    string              `json:"shippingCity"`
	ShippingAddress string              `json:"shippingAddress"`
	ShippingNotes   *string             `json:"shippingNotes"`
	Email           *string             `json:"email"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

func NewOrderResponse(o *models.Order) OrderResponse {
	out := OrderResponse{
		ID:              o.ID.String(),
		Reference:       o.Reference,
		Status:          string(o.Status),
		Total:           o.Total,
		ShippingName:    o.ShippingName,
		ShippingPhone:   o.ShippingPhone,
		ShippingCity:    o.ShippingCity,
		ShippingAddress: o.ShippingAddress,
		ShippingNotes:   o.ShippingNotes,
		Email:           o.Email,
		Items:           make([]OrderItemResponse, 0, len(o.Items)),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if o.UserID != nil {
		id := o.UserID.String()
		out.UserID = &id
	}
	if o.User != nil {
		out.User = &OrderUser{ID: o.User.ID.String(), Name: o.User.Name, Email: o.User.Email}
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, OrderItemResponse{
			ID:        it.ID.String(),
			ProductID: it.ProductID,
			Name:      it.Name,
			Size:      it.Size,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Total:     it.Total,
			Image:     str(it.Image),
		})
	}
	return out
}

func NewOrderList(orders []models.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return out
}

type OrderEnvelope struct {
	Order OrderResponse `json:"order"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  *int64          `json:"total,omitempty"`
}
