package repositories_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupOrderDB opens a fresh in-memory SQLite database for one test. The
// shared-cache name keeps the database alive across the pool's connections.
func setupOrderDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedOrder(t *testing.T, repo repositories.OrderRepository, id string, items []models.OrderItem) *models.Order {
	t.Helper()

	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	order := &models.Order{
		ID:             id,
		UserID:         "user-1",
		TotalAmount:    total,
		Status:         models.OrderStatusPending,
		TrackingNumber: "TRACK-1",
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
		Items:          items,
	}
	if err := repo.Create(order); err != nil {
		t.Fatalf("failed to seed order %s: %v", id, err)
	}
	return order
}

func TestOrderRepository_GetByIDReturnsAllItems(t *testing.T) {
	db := setupOrderDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	seedOrder(t, repo, "order-1", []models.OrderItem{
		{ProductID: "p1", Quantity: 2, Price: 10.0},
		{ProductID: "p2", Quantity: 1, Price: 5.0},
	})
	// A second order's items must never leak into the first order's read.
	seedOrder(t, repo, "order-2", []models.OrderItem{
		{ProductID: "p3", Quantity: 4, Price: 1.0},
	})

	order, err := repo.GetByID("order-1")
	assert.NoError(t, err)
	assert.Len(t, order.Items, 2)
	for _, item := range order.Items {
		assert.Equal(t, "order-1", item.OrderID)
	}
	assert.Equal(t, 25.0, order.TotalAmount)
}

func TestOrderRepository_GetByIDNotFound(t *testing.T) {
	db := setupOrderDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	order, err := repo.GetByID("missing")
	assert.Nil(t, order)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestOrderRepository_UpdateCoalesce(t *testing.T) {
	db := setupOrderDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	created := seedOrder(t, repo, "order-1", []models.OrderItem{
		{ProductID: "p1", Quantity: 2, Price: 10.0},
	})

	time.Sleep(10 * time.Millisecond)

	status := models.OrderStatusShipped
	updated, err := repo.Update("order-1", models.OrderUpdate{Status: &status})
	assert.NoError(t, err)

	// Exactly the supplied field changed; everything else kept its value.
	assert.Equal(t, models.OrderStatusShipped, updated.Status)
	assert.Equal(t, "TRACK-1", updated.TrackingNumber)
	assert.Equal(t, created.UserID, updated.UserID)
	assert.Equal(t, created.TotalAmount, updated.TotalAmount)
	assert.Equal(t, created.Notes, updated.Notes)
	assert.Len(t, updated.Items, 1)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestOrderRepository_UpdateWithNoFieldsOnlyRefreshesTimestamp(t *testing.T) {
	db := setupOrderDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	created := seedOrder(t, repo, "order-1", []models.OrderItem{
		{ProductID: "p1", Quantity: 1, Price: 3.0},
	})

	time.Sleep(10 * time.Millisecond)

	updated, err := repo.Update("order-1", models.OrderUpdate{})
	assert.NoError(t, err)
	assert.Equal(t, created.Status, updated.Status)
	assert.Equal(t, created.TrackingNumber, updated.TrackingNumber)
	assert.Equal(t, created.PaymentStatus, updated.PaymentStatus)
	assert.Equal(t, created.Notes, updated.Notes)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestOrderRepository_UpdateOverwritesWithEmptyString(t *testing.T) {
	db := setupOrderDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	seedOrder(t, repo, "order-1", nil)

	// A present-but-empty field overwrites; presence comes from the
	// pointer, never from the value.
	empty := ""
	updated, err := repo.Update("order-1", models.OrderUpdate{TrackingNumber: &empty})
	assert.NoError(t, err)
	assert.Equal(t, "", updated.TrackingNumber)
	assert.Equal(t, models.OrderStatusPending, updated.Status)
}

func TestOrderRepository_UpdateNotFound(t *testing.T) {
	db := setupOrderDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	status := models.OrderStatusShipped
	updated, err := repo.Update("missing", models.OrderUpdate{Status: &status})
	assert.Nil(t, updated)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestOrderRepository_DeleteRemovesHeaderAndItems(t *testing.T) {
	db := setupOrderDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	seedOrder(t, repo, "order-1", []models.OrderItem{
		{ProductID: "p1", Quantity: 2, Price: 10.0},
		{ProductID: "p2", Quantity: 1, Price: 5.0},
	})

	err := repo.Delete("order-1")
	assert.NoError(t, err)

	var headers, items int64
	db.Model(&models.Order{}).Where("id = ?", "order-1").Count(&headers)
	db.Model(&models.OrderItem{}).Where("order_id = ?", "order-1").Count(&items)
	assert.Equal(t, int64(0), headers)
	assert.Equal(t, int64(0), items)
}

func TestOrderRepository_DeleteNotFoundRollsBackItemDeletion(t *testing.T) {
	db := setupOrderDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	// Items without a header: the delete removes them in step one, then
	// observes zero affected header rows and must roll that removal back.
	orphans := []models.OrderItem{
		{OrderID: "headless", ProductID: "p1", Quantity: 1, Price: 2.0},
		{OrderID: "headless", ProductID: "p2", Quantity: 3, Price: 4.0},
	}
	if err := db.Create(&orphans).Error; err != nil {
		t.Fatalf("failed to seed orphan items: %v", err)
	}

	err := repo.Delete("headless")
	assert.True(t, errors.Is(err, repositories.ErrNotFound))

	var items int64
	db.Model(&models.OrderItem{}).Where("order_id = ?", "headless").Count(&items)
	assert.Equal(t, int64(2), items, "rolled-back delete must leave the items untouched")
}

func TestOrderRepository_DeleteRollsBackOnStorageError(t *testing.T) {
	db := setupOrderDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	seedOrder(t, repo, "order-1", []models.OrderItem{
		{ProductID: "p1", Quantity: 2, Price: 10.0},
		{ProductID: "p2", Quantity: 1, Price: 5.0},
	})

	// Fail the header delete after the item delete has already run, so
	// the transaction hits a storage error between its two statements.
	errHeaderDelete := errors.New("header delete failed")
	err := db.Callback().Delete().Before("gorm:delete").Register("fail_order_header_delete", func(tx *gorm.DB) {
		if tx.Statement.Table == "orders" {
			tx.AddError(errHeaderDelete)
		}
	})
	if err != nil {
		t.Fatalf("failed to register delete callback: %v", err)
	}

	err = repo.Delete("order-1")
	assert.True(t, errors.Is(err, errHeaderDelete))

	if err := db.Callback().Delete().Remove("fail_order_header_delete"); err != nil {
		t.Fatalf("failed to remove delete callback: %v", err)
	}

	// The failed delete must leave the order exactly as it was: header
	// present, both items present.
	order, err := repo.GetByID("order-1")
	assert.NoError(t, err)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 25.0, order.TotalAmount)
}

func TestOrderRepository_SecondDeleteReportsNotFound(t *testing.T) {
	db := setupOrderDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	seedOrder(t, repo, "order-1", []models.OrderItem{
		{ProductID: "p1", Quantity: 1, Price: 1.0},
	})

	assert.NoError(t, repo.Delete("order-1"))
	assert.True(t, errors.Is(repo.Delete("order-1"), repositories.ErrNotFound))
}
