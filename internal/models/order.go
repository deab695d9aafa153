package models

import "time"

// OrderStatus is the set of states an order can be in. There is no
// transition graph: any status in the set may overwrite any other.
type OrderStatus = string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatuses lists every accepted order status value.
var ValidOrderStatuses = map[OrderStatus]bool{
	OrderStatusPending:    true,
	OrderStatusProcessing: true,
	OrderStatusShipped:    true,
	OrderStatusDelivered:  true,
	OrderStatusCancelled:  true,
}

// OrderItem represents a single line within an order. Items are owned
// exclusively by their order: created with it, deleted with it, never
// updated on their own.
type OrderItem struct {
	ID        uint    `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID   string  `json:"order_id" gorm:"type:varchar(36);index;not null"`
	ProductID string  `json:"product_id" gorm:"type:varchar(36);not null" validate:"required"`
	Quantity  int     `json:"quantity" gorm:"not null" validate:"required,gte=1"`
	Price     float64 `json:"price" gorm:"not null"` // Unit price at the time of order
}

// Order represents a customer order header plus its line items.
type Order struct {
	ID             string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID         string      `json:"user_id" gorm:"type:varchar(36);index" validate:"required"`
	TotalAmount    float64     `json:"total_amount"`
	Status         OrderStatus `json:"status"`
	TrackingNumber string      `json:"tracking_number"`
	PaymentStatus  string      `json:"payment_status"`
	Notes          string      `json:"notes"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	Items          []OrderItem `json:"items" gorm:"foreignKey:OrderID;references:ID"`
}

// OrderUpdate carries the optional fields of a partial order update.
// A nil pointer means "keep the stored value"; a non-nil pointer overwrites,
// even with an empty string. Presence is never inferred from a zero value.
type OrderUpdate struct {
	Status         *string `json:"status"`
	TrackingNumber *string `json:"tracking_number"`
	PaymentStatus  *string `json:"payment_status"`
	Notes          *string `json:"notes"`
}

// IsEmpty reports whether the update carries no fields at all. An empty
// update is still applied: it refreshes updated_at and nothing else.
func (u OrderUpdate) IsEmpty() bool {
	return u.Status == nil && u.TrackingNumber == nil && u.PaymentStatus == nil && u.Notes == nil
}
