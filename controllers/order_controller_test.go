package controllers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/controllers"
	"storefront/middleware"
	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// stubOrderService records the last checkout call and returns canned results.
type stubOrderService struct {
	checkoutUserID  uuid.UUID
	checkoutPayment string
	checkoutErr     *services.ServiceError

	statusOrderID uuid.UUID
	statusValue   models.OrderStatus
}

func (s *stubOrderService) Checkout(_ context.Context, userID uuid.UUID, paymentMethod string) (*models.Order, *services.ServiceError) {
	s.checkoutUserID = userID
	s.checkoutPayment = paymentMethod
	if s.checkoutErr != nil {
		return nil, s.checkoutErr
	}
	return &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		Status:        models.OrderStatusPending,
		PaymentMethod: paymentMethod,
		OrderDate:     time.Now(),
	}, nil
}

func (s *stubOrderService) GetOrdersForUser(_ context.Context, _ uuid.UUID) ([]models.Order, *services.ServiceError) {
	return nil, nil
}

func (s *stubOrderService) GetAllOrders(_ context.Context, _, _ int) ([]models.Order, int64, *services.ServiceError) {
	return nil, 0, nil
}

func (s *stubOrderService) GetOrderByID(_ context.Context, orderID uuid.UUID) (*models.Order, *services.ServiceError) {
	return &models.Order{ID: orderID, Status: s.statusValue}, nil
}

func (s *stubOrderService) UpdateOrderStatus(_ context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, *services.ServiceError) {
	s.statusOrderID = orderID
	s.statusValue = status
	return &models.Order{ID: orderID, Status: status}, nil
}

func (s *stubOrderService) DeleteOrder(_ context.Context, _ uuid.UUID) *services.ServiceError {
	return nil
}

func setupOrderRouter(stub *stubOrderService, authUserID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := controllers.NewOrderController(stub)

	r := gin.New()
	// Stands in for the auth middleware.
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserContextKey, authUserID.String())
		c.Set(middleware.RoleContextKey, "USER")
	})
	r.POST("/orders/create", ctrl.CreateOrder)
	r.POST("/orders/checkout/:userId", ctrl.CheckoutLegacy)
	r.PUT("/orders/:id/status", ctrl.UpdateStatus)
	return r
}

func TestCreateOrderRequiresPaymentMethod(t *testing.T) {
	stub := &stubOrderService{}
	r := setupOrderRouter(stub, uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/orders/create", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderDelegatesToService(t *testing.T) {
	stub := &stubOrderService{}
	userID := uuid.New()
	r := setupOrderRouter(stub, userID)

	req := httptest.NewRequest(http.MethodPost, "/orders/create", strings.NewReader(`{"payment_method":"CARD"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, stub.checkoutUserID)
	assert.Equal(t, "CARD", stub.checkoutPayment)
}

func TestCheckoutLegacyRejectsOtherUsersPath(t *testing.T) {
	stub := &stubOrderService{}
	r := setupOrderRouter(stub, uuid.New())

	otherUser := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/orders/checkout/"+otherUser.String()+"?paymentMethod=CARD", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, uuid.Nil, stub.checkoutUserID)
}

func TestCheckoutLegacyMatchingUser(t *testing.T) {
	stub := &stubOrderService{}
	userID := uuid.New()
	r := setupOrderRouter(stub, userID)

	req := httptest.NewRequest(http.MethodPost, "/orders/checkout/"+userID.String()+"?paymentMethod=UPI", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, stub.checkoutUserID)
	assert.Equal(t, "UPI", stub.checkoutPayment)
}

func TestCheckoutLegacyRequiresPaymentMethod(t *testing.T) {
	stub := &stubOrderService{}
	userID := uuid.New()
	r := setupOrderRouter(stub, userID)

	req := httptest.NewRequest(http.MethodPost, "/orders/checkout/"+userID.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutLegacyPropagatesServiceError(t *testing.T) {
	stub := &stubOrderService{checkoutErr: &services.ServiceError{StatusCode: 400, Message: "Cannot create an order from an empty cart"}}
	userID := uuid.New()
	r := setupOrderRouter(stub, userID)

	req := httptest.NewRequest(http.MethodPost, "/orders/checkout/"+userID.String()+"?paymentMethod=CARD", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "empty cart")
}

func TestUpdateStatusNormalizesAndValidates(t *testing.T) {
	stub := &stubOrderService{}
	r := setupOrderRouter(stub, uuid.New())
	orderID := uuid.New()

	req := httptest.NewRequest(http.MethodPut, "/orders/"+orderID.String()+"/status?status=shipped", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, orderID, stub.statusOrderID)
	assert.Equal(t, models.OrderStatusShipped, stub.statusValue)

	req = httptest.NewRequest(http.MethodPut, "/orders/"+orderID.String()+"/status?status=TELEPORTED", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
