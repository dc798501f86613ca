package services_test

import (
	"context"
	"testing"
	"time"

	"storefront/models"
	"storefront/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetSalesSummaryCountsRevenueStatusesOnly(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	reports := services.NewReportService(f.orders, f.products, zap.NewNop())

	productID := f.addProduct("Tea Leaves 500g", 10.00)

	placeOrder := func(status models.OrderStatus) {
		_, svcErr := f.cartSvc.AddToCart(ctx, f.userID, productID, 1)
		require.Nil(t, svcErr)
		order, svcErr := f.orderSvc.Checkout(ctx, f.userID, "CARD")
		require.Nil(t, svcErr)
		_, svcErr = f.orderSvc.UpdateOrderStatus(ctx, order.ID, status)
		require.Nil(t, svcErr)
	}

	placeOrder(models.OrderStatusConfirmed)
	placeOrder(models.OrderStatusDelivered)
	placeOrder(models.OrderStatusPending)   // not revenue
	placeOrder(models.OrderStatusCancelled) // not revenue

	summary, svcErr := reports.GetSalesSummary(ctx, nil, nil)
	require.Nil(t, svcErr)

	assert.Equal(t, int64(2), summary.TotalOrders)
	assert.InDelta(t, 20.00, summary.TotalRevenue, 1e-9)
}

func TestGetSalesSummaryDefaultsToLastThirtyDays(t *testing.T) {
	f := newOrderFixture(t)
	reports := services.NewReportService(f.orders, f.products, zap.NewNop())

	summary, svcErr := reports.GetSalesSummary(context.Background(), nil, nil)
	require.Nil(t, svcErr)

	assert.WithinDuration(t, time.Now(), summary.To, time.Minute)
	assert.WithinDuration(t, summary.To.AddDate(0, 0, -30), summary.From, time.Minute)
}

func TestGetLowStock(t *testing.T) {
	f := newOrderFixture(t)
	reports := services.NewReportService(f.orders, f.products, zap.NewNop())

	f.products.add(&models.Product{Name: "Sugar 1kg", Price: 1.10, Stock: 2})
	f.products.add(&models.Product{Name: "Iodized Salt 1kg", Price: 0.60, Stock: 50})

	low, svcErr := reports.GetLowStock(context.Background(), 5)
	require.Nil(t, svcErr)

	require.Len(t, low, 1)
	assert.Equal(t, "Sugar 1kg", low[0].ProductName)
	assert.Equal(t, 2, low[0].Stock)
}
