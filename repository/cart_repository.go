package repositories

import (
	"context"

	"storefront/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartRepository defines the interface for cart data access
type CartRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	// Save replaces the cart's item set and total in one transaction so a
	// reader never observes lines without the matching total.
	Save(ctx context.Context, cart *models.Cart) error
}

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new instance of GormCartRepository
func NewGormCartRepository(db *gorm.DB) CartRepository {
	return &GormCartRepository{db: db}
}

func (r *GormCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormCartRepository) Create(ctx context.Context, cart *models.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *GormCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		for i := range cart.Items {
			cart.Items[i].CartID = cart.ID
		}
		if len(cart.Items) > 0 {
			if err := tx.Create(&cart.Items).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Cart{}).
			Where("id = ?", cart.ID).
			Update("total_price", cart.TotalPrice).Error
	})
}
