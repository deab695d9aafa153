package repositories

import (
	"storefront/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	// GetByID returns the order header together with all of its line items.
	GetByID(id string) (*models.Order, error)
	// Create persists the order header and its items as one unit.
	Create(order *models.Order) error
	// Update applies the supplied fields only (coalesce semantics) and
	// returns the full updated record, items included.
	Update(id string, update models.OrderUpdate) (*models.Order, error)
	// Delete removes the order's items and header atomically. A partial
	// delete (items gone, header present) is never observable.
	Delete(id string) error
}
