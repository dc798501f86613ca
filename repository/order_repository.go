package repositories

import (
	"context"
	"time"

	"storefront/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SalesSummaryRow aggregates revenue-bearing orders in a date range.
type SalesSummaryRow struct {
	TotalOrders  int64   `json:"total_orders"`
	TotalRevenue float64 `json:"total_revenue"`
}

// TopProductRow aggregates sold quantity and revenue per product.
type TopProductRow struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	TotalSold   int64     `json:"total_sold"`
	Revenue     float64   `json:"revenue"`
}

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	// CreateFromCart persists the order and empties the originating cart as
	// one transaction. Either both changes commit or neither does.
	CreateFromCart(ctx context.Context, order *models.Order, cartID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	FindAll(ctx context.Context, page, limit int) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	SalesSummary(ctx context.Context, from, to time.Time, statuses []models.OrderStatus) (*SalesSummaryRow, error)
	TopProducts(ctx context.Context, limit int, statuses []models.OrderStatus) ([]TopProductRow, error)
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new instance of GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) CreateFromCart(ctx context.Context, order *models.Order, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Cart{}).
			Where("id = ?", cartID).
			Update("total_price", 0).Error
	})
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("OrderItems").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormOrderRepository) FindAll(ctx context.Context, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("OrderItems").
		Offset(offset).
		Limit(limit).
		Order("order_date DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes an order and its dependent item rows.
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormOrderRepository) SalesSummary(ctx context.Context, from, to time.Time, statuses []models.OrderStatus) (*SalesSummaryRow, error) {
	var row SalesSummaryRow
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COUNT(*) AS total_orders, COALESCE(SUM(total_price), 0) AS total_revenue").
		Where("order_date BETWEEN ? AND ?", from, to).
		Where("status IN ?", statuses).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *GormOrderRepository) TopProducts(ctx context.Context, limit int, statuses []models.OrderStatus) ([]TopProductRow, error) {
	var rows []TopProductRow
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.product_id, order_items.product_name, SUM(order_items.quantity) AS total_sold, SUM(order_items.price) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status IN ?", statuses).
		Group("order_items.product_id, order_items.product_name").
		Order("total_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
