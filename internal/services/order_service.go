package services

import (
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/google/uuid"
)

// Sentinel errors for checkout and update rejections. Handlers map them to
// validation failures with errors.Is, never by message wording.
var (
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrderByID retrieves a single order with its line items.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// CreateOrder creates a new order from the checkout request. Unit prices
// are captured from the catalog at creation time, so the stored total
// always equals the sum of price x quantity over the items.
func (s *OrderService) CreateOrder(orderRequest models.Order) (*models.Order, error) {
	var totalAmount float64
	var processedItems []models.OrderItem

	for _, item := range orderRequest.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: %d for product %s", ErrInvalidQuantity, item.Quantity, item.ProductID)
		}

		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s not found: %w", item.ProductID, err)
		}

		if product.Stock < item.Quantity {
			return nil, fmt.Errorf("%w for product %s (requested: %d, available: %d)", ErrInsufficientStock, product.Name, item.Quantity, product.Stock)
		}

		itemPrice := product.Price
		processedItems = append(processedItems, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     itemPrice,
		})
		totalAmount += itemPrice * float64(item.Quantity)
	}

	newOrder := &models.Order{
		ID:          uuid.New().String(),
		UserID:      orderRequest.UserID,
		Items:       processedItems,
		TotalAmount: totalAmount,
		Status:      models.OrderStatusPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.orderRepo.Create(newOrder); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	return newOrder, nil
}

// UpdateOrder applies a partial update to an existing order. Fields absent
// from the update keep their stored values; updated_at is always refreshed.
// A status outside the accepted set is rejected before touching the store.
func (s *OrderService) UpdateOrder(id string, update models.OrderUpdate) (*models.Order, error) {
	if update.Status != nil && !models.ValidOrderStatuses[*update.Status] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *update.Status)
	}

	order, err := s.orderRepo.Update(id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", id, err)
	}
	return order, nil
}

// DeleteOrder removes an order and all of its line items atomically.
func (s *OrderService) DeleteOrder(id string) error {
	if err := s.orderRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, err)
	}
	return nil
}
