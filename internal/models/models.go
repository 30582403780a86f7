package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func init() {
	// money goes over the wire as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"type:text;not null;default:''"`
	Phone     string    `gorm:"type:text;not null;default:''"`
	City      string    `gorm:"type:text;not null;default:''"`
	Address   string    `gorm:"type:text;not null;default:''"`
	Email     string    `gorm:"not null"` // unique through lower(email) index
	Password  string    `gorm:"not null"` // bcrypt hash
	Role      Role      `gorm:"type:text;not null;default:'user';index"`
	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (User) TableName() string { return "users" }

// ProfileComplete reports whether the user can check out without
// supplying shipping details.
func (u *User) ProfileComplete() bool {
	return u.Name != "" && u.Phone != "" && u.City != "" && u.Address != ""
}

const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

var SizeKeys = []string{SizeSmall, SizeMedium, SizeLarge}

type SizeOption struct {
	Weight string          `json:"weight"`
	Price  decimal.Decimal `json:"price"`
}

type SizeMap map[string]SizeOption

type Product struct {
	ID            string                      `gorm:"type:text;primaryKey"`
	Name          string                      `gorm:"type:text;not null"`
	NameEn        *string                     `gorm:"type:text"`
	Description   string                      `gorm:"type:text;not null;default:''"`
	DescriptionEn *string                     `gorm:"type:text"`
	Category      string                      `gorm:"type:text;not null;index"`
	Price         decimal.Decimal             `gorm:"type:numeric(12,2);not null;default:0"`
	Sizes         datatypes.JSONType[SizeMap] `gorm:"type:jsonb;not null;default:'{}'"`
	Image         *string                     `gorm:"type:text"`
	ImageData     *string                     `gorm:"type:text"`
	Images        datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'"`
	Featured      bool                        `gorm:"not null;default:false"`
	InStock       bool                        `gorm:"not null;default:true"`
	DisplayOrder  int                         `gorm:"not null;default:0"`
	Rating        float64                     `gorm:"not null;default:0"`
	Reviews       int                         `gorm:"not null;default:0"`
	CreatedAt     time.Time                   `gorm:"not null;default:now()"`
	UpdatedAt     time.Time                   `gorm:"not null;default:now()"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// SizeOptions returns the decoded sizes, never nil.
func (p *Product) SizeOptions() SizeMap {
	m := p.Sizes.Data()
	if m == nil {
		return SizeMap{}
	}
	return m
}

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"type:text;not null;uniqueIndex:ux_categories_name"`
	NameAr    string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Category) TableName() string { return "categories" }

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Reference       string          `gorm:"type:text;not null;uniqueIndex:ux_orders_reference"`
	UserID          *uuid.UUID      `gorm:"type:uuid;index"` // nil for guest checkout
	User            *User           `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	Status          OrderStatus     `gorm:"type:text;not null;default:'pending';index"`
	Total           decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	ShippingName    string          `gorm:"type:text;not null"`
	ShippingPhone   string          `gorm:"type:text;not null"`
	ShippingCity    string          `gorm:"type:text;not null"`
	ShippingAddress string          `gorm:"type:text;not null"`
	ShippingNotes   *string         `gorm:"type:text"`
	Email           *string         `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is a snapshot of the product at order time.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID string          `gorm:"type:text;not null;index"`
	Name      string          `gorm:"type:text;not null"`
	Size      string          `gorm:"type:text;not null;default:''"`
	Quantity  int             `gorm:"type:int;not null"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Total     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Image     *string         `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (OrderItem) TableName() string { return "order_items" }

type ContactStatus string

const (
	ContactStatusNew  ContactStatus = "new"
	ContactStatusRead ContactStatus = "read"
)

func (s ContactStatus) Valid() bool {
	return s == ContactStatusNew || s == ContactStatusRead
}

type ContactMessage struct {
	ID        uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string        `gorm:"type:text;not null"`
	Email     string        `gorm:"type:text;not null"`
	Phone     *string       `gorm:"type:text"`
	Subject   string        `gorm:"type:text;not null"`
	Message   string        `gorm:"type:text;not null"`
	Status    ContactStatus `gorm:"type:text;not null;default:'new';index"`
	CreatedAt time.Time     `gorm:"not null;default:now();index"`
	UpdatedAt time.Time     `gorm:"not null;default:now()"`
}

func (ContactMessage) TableName() string { return "contact_messages" }

type OutboxKind string

const (
	OutboxOrderCreated    OutboxKind = "order_created"
	OutboxContactReceived OutboxKind = "contact_received"
)

// OutboxMessage is a pending notification written in the same transaction
// as the row it announces.
type OutboxMessage struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Kind          OutboxKind     `gorm:"type:text;not null;index"`
	Key           string         `gorm:"type:text;not null"`
	Payload       datatypes.JSON `gorm:"type:jsonb;not null"`
	Attempts      int            `gorm:"not null;default:0"`
	LastError     *string        `gorm:"type:text"`
	NextAttemptAt time.Time      `gorm:"not null;default:now()"`
	SentAt        *time.Time
	CreatedAt     time.Time `gorm:"not null;default:now()"`
}

func (OutboxMessage) TableName() string { return "outbox_messages" }
