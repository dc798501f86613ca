package services

import (
	"context"
	"errors"

	"storefront/cache"
	"storefront/models"
	repositories "storefront/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateProductRequest is the admin payload for creating a product.
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Stock       int     `json:"stock" binding:"min=0"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
}

// UpdateProductRequest carries optional fields; nil means "leave unchanged".
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"image_url"`
}

// ProductListResponse is a paginated catalog page.
type ProductListResponse struct {
	Products []models.Product `json:"products"`
	Meta     MetaData         `json:"meta"`
}

// MetaData describes a pagination window.
type MetaData struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

// ProductService defines the interface for catalog business logic.
type ProductService interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError)
	ListProducts(ctx context.Context, page, limit int, filters *repositories.ProductFilters) (*ProductListResponse, *ServiceError)
	CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, *ServiceError)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*models.Product, *ServiceError)
	DeleteProduct(ctx context.Context, id uuid.UUID) *ServiceError
}

// productServiceImpl implements ProductService.
type productServiceImpl struct {
	repo   repositories.ProductRepository
	cache  *cache.Manager
	logger *zap.Logger
}

// NewProductService creates a new ProductService. cacheManager may be nil
// when Redis is not configured.
func NewProductService(repo repositories.ProductRepository, cacheManager *cache.Manager, logger *zap.Logger) ProductService {
	return &productServiceImpl{
		repo:   repo,
		cache:  cacheManager,
		logger: logger,
	}
}

func (s *productServiceImpl) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError) {
	if product, ok := s.cache.GetProduct(ctx, id.String()); ok {
		return product, nil
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		s.logger.Error("Failed to fetch product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch product"}
	}

	s.cache.SetProductAsync(product)
	return product, nil
}

func (s *productServiceImpl) ListProducts(ctx context.Context, page, limit int, filters *repositories.ProductFilters) (*ProductListResponse, *ServiceError) {
	cacheKey := cache.ListKey(page, limit, filters)
	var cached ProductListResponse
	if s.cache.GetProductList(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	products, total, err := s.repo.FindAll(ctx, page, limit, filters)
	if err != nil {
		s.logger.Error("Failed to fetch products", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch products"}
	}

	resp := &ProductListResponse{
		Products: products,
		Meta: MetaData{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: calculateTotalPages(total, limit),
			HasMore:    total > int64(page*limit),
		},
	}

	s.cache.SetProductListAsync(cacheKey, resp)
	return resp, nil
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, *ServiceError) {
	product := &models.Product{
		Name:        req.Name,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create product"}
	}

	s.cache.InvalidateProducts(ctx)
	s.logger.Info("Product created", zap.String("product_id", product.ID.String()), zap.String("name", product.Name))
	return product, nil
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*models.Product, *ServiceError) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		s.logger.Error("Failed to fetch product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update product"}
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, &ServiceError{StatusCode: 400, Message: "Price must be greater than zero"}
		}
		product.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, &ServiceError{StatusCode: 400, Message: "Stock cannot be negative"}
		}
		product.Stock = *req.Stock
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}

	if err := s.repo.Update(ctx, product); err != nil {
		s.logger.Error("Failed to update product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update product"}
	}

	s.cache.InvalidateProduct(ctx, id.String())
	s.cache.InvalidateProducts(ctx)
	return product, nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, id uuid.UUID) *ServiceError {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		s.logger.Error("Failed to fetch product", zap.String("product_id", id.String()), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete product"}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete product", zap.String("product_id", id.String()), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete product"}
	}

	s.cache.InvalidateProduct(ctx, id.String())
	s.cache.InvalidateProducts(ctx)
	return nil
}

func calculateTotalPages(total int64, limit int) int64 {
	if limit == 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
