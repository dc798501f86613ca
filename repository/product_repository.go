package repositories

import (
	"context"

	"storefront/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductFilters narrows FindAll results. Zero values mean "no filter".
type ProductFilters struct {
	Category string
	Search   string
}

// ProductRepository defines the interface for catalog data access
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindAll(ctx context.Context, page, limit int, filters *ProductFilters) ([]models.Product, int64, error)
	FindByStockLessThan(ctx context.Context, threshold int) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new instance of GormProductRepository
func NewGormProductRepository(db *gorm.DB) ProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) FindAll(ctx context.Context, page, limit int, filters *ProductFilters) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Product{})
	if filters != nil {
		if filters.Category != "" {
			query = query.Where("category = ?", filters.Category)
		}
		if filters.Search != "" {
			query = query.Where("name ILIKE ?", "%"+filters.Search+"%")
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("name ASC").
		Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *GormProductRepository) FindByStockLessThan(ctx context.Context, threshold int) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("stock < ?", threshold).
		Order("stock ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *GormProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error
	return total, err
}
