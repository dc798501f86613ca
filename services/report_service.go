package services

import (
	"context"
	"time"

	"storefront/models"
	repositories "storefront/repository"

	"go.uber.org/zap"
)

// revenueStatuses are the order states that count toward revenue reports.
var revenueStatuses = []models.OrderStatus{
	models.OrderStatusConfirmed,
	models.OrderStatusShipped,
	models.OrderStatusDelivered,
}

// SalesSummary is the revenue report for a date range.
type SalesSummary struct {
	TotalOrders  int64     `json:"total_orders"`
	TotalRevenue float64   `json:"total_revenue"`
	From         time.Time `json:"from"`
	To           time.Time `json:"to"`
}

// LowStockProduct flags a product below the stock threshold.
type LowStockProduct struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Stock       int    `json:"stock"`
}

// ReportService defines the interface for sales reporting.
type ReportService interface {
	GetSalesSummary(ctx context.Context, from, to *time.Time) (*SalesSummary, *ServiceError)
	GetTopProducts(ctx context.Context, limit int) ([]repositories.TopProductRow, *ServiceError)
	GetLowStock(ctx context.Context, threshold int) ([]LowStockProduct, *ServiceError)
}

// reportServiceImpl implements ReportService.
type reportServiceImpl struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	logger      *zap.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, logger *zap.Logger) ReportService {
	return &reportServiceImpl{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// GetSalesSummary reports order count and revenue between from and to.
// Defaults: to = now, from = to minus 30 days.
func (s *reportServiceImpl) GetSalesSummary(ctx context.Context, from, to *time.Time) (*SalesSummary, *ServiceError) {
	toUse := time.Now()
	if to != nil {
		toUse = *to
	}
	fromUse := toUse.AddDate(0, 0, -30)
	if from != nil {
		fromUse = *from
	}

	row, err := s.orderRepo.SalesSummary(ctx, fromUse, toUse, revenueStatuses)
	if err != nil {
		s.logger.Error("Failed to compute sales summary", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to compute sales summary"}
	}

	return &SalesSummary{
		TotalOrders:  row.TotalOrders,
		TotalRevenue: row.TotalRevenue,
		From:         fromUse,
		To:           toUse,
	}, nil
}

// GetTopProducts lists best sellers by sold quantity.
func (s *reportServiceImpl) GetTopProducts(ctx context.Context, limit int) ([]repositories.TopProductRow, *ServiceError) {
	if limit < 1 {
		limit = 1
	}
	rows, err := s.orderRepo.TopProducts(ctx, limit, revenueStatuses)
	if err != nil {
		s.logger.Error("Failed to compute top products", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to compute top products"}
	}
	return rows, nil
}

// GetLowStock lists products with stock below the threshold.
func (s *reportServiceImpl) GetLowStock(ctx context.Context, threshold int) ([]LowStockProduct, *ServiceError) {
	products, err := s.productRepo.FindByStockLessThan(ctx, threshold)
	if err != nil {
		s.logger.Error("Failed to fetch low stock products", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch low stock products"}
	}

	result := make([]LowStockProduct, 0, len(products))
	for _, p := range products {
		result = append(result, LowStockProduct{
			ProductID:   p.ID.String(),
			ProductName: p.Name,
			Stock:       p.Stock,
		})
	}
	return result, nil
}
