package repositories

import (
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetAll retrieves all orders with their items from the database.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order and its line items by order ID.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// Create persists the order header and its line items. GORM creates the
// associated items in the same transaction as the header.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Update overwrites only the fields present in the update and always
// refreshes updated_at. Absent fields keep their stored values. The full
// updated record, items included, is reloaded and returned.
func (r *GORMOrderRepository) Update(id string, update models.OrderUpdate) (*models.Order, error) {
	columns := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if update.Status != nil {
		columns["status"] = *update.Status
	}
	if update.TrackingNumber != nil {
		columns["tracking_number"] = *update.TrackingNumber
	}
	if update.PaymentStatus != nil {
		columns["payment_status"] = *update.PaymentStatus
	}
	if update.Notes != nil {
		columns["notes"] = *update.Notes
	}

	res := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(columns)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}

	return r.GetByID(id)
}

// Delete removes all line items and then the order header in one
// transaction. If the header delete affects zero rows the order did not
// exist, so the item deletion is rolled back and ErrNotFound is reported.
// Any storage error likewise rolls the whole unit back before propagating.
// gorm.DB.Transaction commits or rolls back and releases the transactional
// connection exactly once on every path.
func (r *GORMOrderRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete items of order %s: %w", id, err)
		}

		res := tx.Delete(&models.Order{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete order %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
		}
		return nil
	})
}
