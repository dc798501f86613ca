package controllers

import (
	"net/http"
	"strconv"

	"storefront/middleware"
	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderRequest is the checkout request body.
type OrderRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

type OrderController struct {
	orders services.OrderService
}

func NewOrderController(orders services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// CreateOrder checks out the authenticated user's cart
func (oc *OrderController) CreateOrder(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment_method is required"})
		return
	}

	order, svcErr := oc.orders.Checkout(c.Request.Context(), userID, req.PaymentMethod)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, order)
}

// CheckoutLegacy keeps the old path form /orders/checkout/:userId with
// paymentMethod as a query parameter. The path user must match the caller.
func (oc *OrderController) CheckoutLegacy(c *gin.Context) {
	authUserID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	pathUserID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	if pathUserID != authUserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	paymentMethod := c.Query("paymentMethod")
	if paymentMethod == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paymentMethod is required"})
		return
	}

	order, svcErr := oc.orders.Checkout(c.Request.Context(), pathUserID, paymentMethod)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, order)
}

// MyOrders lists the authenticated user's orders
func (oc *OrderController) MyOrders(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orders, svcErr := oc.orders.GetOrdersForUser(c.Request.Context(), userID)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// AllOrders lists every order, paginated (admin only)
func (oc *OrderController) AllOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	orders, total, svcErr := oc.orders.GetAllOrders(c.Request.Context(), page, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"meta": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetOrder returns a single order by id
func (oc *OrderController) GetOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	order, svcErr := oc.orders.GetOrderByID(c.Request.Context(), orderID)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateStatus moves an order to the supplied status (admin only). Any
// status may follow any other.
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	status, err := models.ParseOrderStatus(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, svcErr := oc.orders.UpdateOrderStatus(c.Request.Context(), orderID, status)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeleteOrder removes an order and its items (admin only)
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	if svcErr := oc.orders.DeleteOrder(c.Request.Context(), orderID); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.Status(http.StatusNoContent)
}
