package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"
	"github.com/wajeehjabribrahim/manajel-store/internal/notification"
	"github.com/wajeehjabribrahim/manajel-store/internal/repository"

	"github.com/google/uuid"
	"github.com/nanorand/nanorand"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	maxItemQuantity = 9999
	maxItemPrice    = 999999
)

var guestPhonePattern = regexp.MustCompile(`^[0-9+\-\s()]{7,}$`)

// ProductFinder resolves a product id to its current record, or nil.
type ProductFinder interface {
	Find(ctx context.Context, id string) (*models.Product, error)
}

type CreateOrderItem struct {
	ProductID string
	Name      string
	Size      string
	Quantity  float64
	Price     float64
	Image     string
}

type ShippingInput struct {
	Name    string
	Phone   string
	City    string
	Address string
	Email   string
}

type CreateOrderInput struct {
	Items    []CreateOrderItem
	Shipping ShippingInput
	Notes    string
}

type OrderListQuery struct {
	Status *models.OrderStatus
	Limit  int
	Offset int
}

type OrderService struct {
	orders      repository.OrderRepo
	users       repository.UserRepo
	products    ProductFinder
	adminEmails []string
	publicURL   string
	now         func() time.Time
	reference   func() (string, error)
	log         *zap.Logger
}

func NewOrderService(
	orders repository.OrderRepo,
	users repository.UserRepo,
	products ProductFinder,
	adminEmails []string,
	publicURL string,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:      orders,
		users:       users,
		products:    products,
		adminEmails: adminEmails,
		publicURL:   publicURL,
		now:         time.Now,
		reference:   newOrderReference,
		log:         log,
	}
}

func newOrderReference() (string, error) {
	code, err := nanorand.Gen(8)
	if err != nil {
		return "", err
	}
	return "MN-" + strings.ToUpper(code), nil
}

// Create validates the cart against current product data and stores the
// order with its items. The admin notification is queued in the same
// transaction and delivered later by the outbox relay.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyItems
	}

	for i, it := range in.Items {
		if err := checkItemNumbers(it); err != nil {
			return nil, &ItemError{Index: i, ProductID: it.ProductID, Err: err}
		}
	}

	now := s.now().UTC()
	items := make([]models.OrderItem, 0, len(in.Items))
	total := decimal.Zero

	for i, it := range in.Items {
		p, err := s.products.Find(ctx, strings.TrimSpace(it.ProductID))
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, &ItemError{Index: i, ProductID: it.ProductID, Err: ErrProductNotFound}
		}
		if !p.InStock {
			return nil, &ItemError{Index: i, ProductID: it.ProductID, Err: ErrOutOfStock}
		}

		price := AuthoritativePrice(p, it.Size)
		if !PriceWithinTolerance(decimal.NewFromFloat(it.Price), price) {
			s.log.Warn("order item price mismatch",
				zap.String("product", p.ID),
				zap.Float64("client", it.Price),
				zap.String("server", price.String()))
			return nil, &ItemError{Index: i, ProductID: it.ProductID, Err: ErrPriceMismatch}
		}

		qty := int(it.Quantity)
		line := price.Mul(decimal.NewFromInt(int64(qty)))
		total = total.Add(line)

		image := optional(it.Image)
		if image == nil {
			image = p.Image
		}

		items = append(items, models.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Size:      strings.ToLower(strings.TrimSpace(it.Size)),
			Quantity:  qty,
			Price:     price,
			Total:     line,
			Image:     image,
			CreatedAt: now,
		})
	}

	order := &models.Order{
		ID:            uuid.New(),
		Status:        models.OrderStatusPending,
		Total:         total,
		ShippingNotes: optional(in.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
		Items:         items,
	}
	if err := s.resolveShipping(ctx, in.Shipping, order); err != nil {
		return nil, err
	}

	ref, err := s.reference()
	if err != nil {
		return nil, err
	}
	order.Reference = ref

	err = s.orders.WithTx(ctx, func(orders repository.OrderRepo, outbox repository.OutboxRepo) error {
		if err := orders.Create(ctx, order); err != nil {
			return err
		}
		return s.enqueueOrderCreated(ctx, outbox, order)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("reference", order.Reference),
		zap.String("total", order.Total.String()),
		zap.Int("items", len(order.Items)))
	return order, nil
}

func checkItemNumbers(it CreateOrderItem) error {
	q := it.Quantity
	if math.IsNaN(q) || math.IsInf(q, 0) || q != math.Trunc(q) || q < 1 || q > maxItemQuantity {
		return ErrQuantityInvalid
	}
	p := it.Price
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 || p > maxItemPrice {
		return ErrPriceInvalid
	}
	return nil
}

// resolveShipping fills the shipping fields from the signed-in user's
// profile, or from the request for guest checkout.
func (s *OrderService) resolveShipping(ctx context.Context, in ShippingInput, o *models.Order) error {
	if uid, ok := UserIDFromContext(ctx); ok {
		u, err := s.users.GetByID(ctx, uid)
		if err != nil {
			return err
		}
		if u == nil {
			return ErrUnauthorized
		}
		if !u.ProfileComplete() {
			return ErrProfileIncomplete
		}
		o.UserID = &u.ID
		o.ShippingName = u.Name
		o.ShippingPhone = u.Phone
		o.ShippingCity = u.City
		o.ShippingAddress = u.Address
		o.Email = optional(u.Email)
		return nil
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.City = strings.TrimSpace(in.City)
	in.Address = strings.TrimSpace(in.Address)
	in.Email = strings.TrimSpace(in.Email)

	if v := missingFields(
		[]string{"name", "phone", "city", "address"},
		map[string]string{"name": in.Name, "phone": in.Phone, "city": in.City, "address": in.Address},
	); v != nil {
		v.Message = "missing delivery data"
		return v
	}
	if in.Email != "" && !strings.Contains(in.Email, "@") {
		return newValidation("invalid email", FieldError{Field: "email", Message: "must contain @"})
	}
	if !guestPhonePattern.MatchString(in.Phone) {
		return newValidation("invalid phone", FieldError{Field: "phone", Message: "digits, spaces, +, -, parentheses; at least 7"})
	}

	o.ShippingName = in.Name
	o.ShippingPhone = in.Phone
	o.ShippingCity = in.City
	o.ShippingAddress = in.Address
	o.Email = optional(in.Email)
	return nil
}

func (s *OrderService) enqueueOrderCreated(ctx context.Context, outbox repository.OutboxRepo, o *models.Order) error {
	if len(s.adminEmails) == 0 {
		s.log.Warn("no admin emails configured, order notification skipped", zap.String("order_id", o.ID.String()))
		return nil
	}
	return enqueueEmail(ctx, outbox, models.OutboxOrderCreated, o.ID.String(),
		notification.OrderCreated(o, s.adminEmails, s.publicURL), s.now())
}

// Get returns an order visible to the caller: admins see all, guest
// orders are visible by id, and owned orders only to their owner.
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	if err := canAccessOrder(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func canAccessOrder(ctx context.Context, o *models.Order) error {
	if o.UserID == nil || isAdmin(ctx) {
		return nil
	}
	uid, ok := UserIDFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if uid != *o.UserID {
		return ErrForbidden
	}
	return nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidOrderStatus
	}
	ok, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOrderNotFound
	}
	s.log.Info("order status updated", zap.String("order_id", id.String()), zap.String("status", string(status)))
	return s.orders.GetByID(ctx, id)
}

// Cancel moves a pending order to cancelled. Any other status is refused
// and left untouched.
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	if err := canAccessOrder(ctx, o); err != nil {
		return nil, err
	}
	if o.Status != models.OrderStatusPending {
		return nil, ErrOrderNotCancellable
	}

	ok, err := s.orders.TransitionStatus(ctx, id, models.OrderStatusPending, models.OrderStatusCancelled)
	if err != nil {
		return nil, err
	}
	if !ok {
		// status changed between read and update
		return nil, ErrOrderNotCancellable
	}
	o.Status = models.OrderStatusCancelled
	s.log.Info("order cancelled", zap.String("order_id", id.String()))
	return o, nil
}

func (s *OrderService) ListAll(ctx context.Context, q OrderListQuery) ([]models.Order, int64, error) {
	if q.Status != nil && !q.Status.Valid() {
		return nil, 0, ErrInvalidOrderStatus
	}
	return s.orders.List(ctx, repository.OrderListFilter{Status: q.Status, Limit: q.Limit, Offset: q.Offset})
}

func (s *OrderService) ListMine(ctx context.Context) ([]models.Order, error) {
	uid, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	list, _, err := s.orders.List(ctx, repository.OrderListFilter{UserID: &uid, Limit: 200})
	return list, err
}

// Export returns every order for the spreadsheet report.
func (s *OrderService) Export(ctx context.Context) ([]models.Order, error) {
	return s.orders.ListAll(ctx)
}

func enqueueEmail(ctx context.Context, outbox repository.OutboxRepo, kind models.OutboxKind, key string, msg notification.EmailMessage, now time.Time) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal %s notification: %w", kind, err)
	}
	return outbox.Enqueue(ctx, &models.OutboxMessage{
		Kind:          kind,
		Key:           key,
		Payload:       payload,
		NextAttemptAt: now.UTC(),
	})
}
