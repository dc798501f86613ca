package services

import (
	"context"
	"errors"
	"time"

	"storefront/kafka"
	"storefront/models"
	repositories "storefront/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderService defines the interface for order business logic.
type OrderService interface {
	Checkout(ctx context.Context, userID uuid.UUID, paymentMethod string) (*models.Order, *ServiceError)
	GetOrdersForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, *ServiceError)
	GetAllOrders(ctx context.Context, page, limit int) ([]models.Order, int64, *ServiceError)
	GetOrderByID(ctx context.Context, orderID uuid.UUID) (*models.Order, *ServiceError)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, *ServiceError)
	DeleteOrder(ctx context.Context, orderID uuid.UUID) *ServiceError
}

// orderServiceImpl implements OrderService.
type orderServiceImpl struct {
	orderRepo   repositories.OrderRepository
	cartRepo    repositories.CartRepository
	userRepo    repositories.UserRepository
	productRepo repositories.ProductRepository
	locker      *UserLocker
	producer    kafka.ProducerAPI
	logger      *zap.Logger
}

// NewOrderService creates a new OrderService. producer may be nil when event
// publishing is disabled.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	cartRepo repositories.CartRepository,
	userRepo repositories.UserRepository,
	productRepo repositories.ProductRepository,
	locker *UserLocker,
	producer kafka.ProducerAPI,
	logger *zap.Logger,
) OrderService {
	return &orderServiceImpl{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		locker:      locker,
		producer:    producer,
		logger:      logger,
	}
}

// Checkout drains the user's cart into a new PENDING order. The order rows
// and the cart wipe commit as a single transaction; concurrent checkouts for
// the same user are serialized by the user lock, so the loser observes the
// emptied cart and gets a 400.
func (s *orderServiceImpl) Checkout(ctx context.Context, userID uuid.UUID, paymentMethod string) (*models.Order, *ServiceError) {
	s.locker.Lock(userID)
	defer s.locker.Unlock(userID)

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "User not found"}
		}
		s.logger.Error("Failed to resolve user", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create order"}
	}

	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 400, Message: "Cannot create an order from an empty cart"}
		}
		s.logger.Error("Failed to load cart", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create order"}
	}
	if len(cart.Items) == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Cannot create an order from an empty cart"}
	}

	order := &models.Order{
		UserID:        userID,
		Status:        models.OrderStatusPending,
		PaymentMethod: paymentMethod,
		OrderDate:     time.Now(),
	}
	// Copy each cart line by value; the order must not alias the cart's
	// mutable rows. The total is summed from the copies, independently of
	// the cart's own derived total. A line whose product cannot be resolved
	// aborts the checkout before anything is written: the name snapshot is
	// immutable once the order commits.
	total := 0.0
	for _, item := range cart.Items {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &ServiceError{StatusCode: 409, Message: "Product is no longer available"}
			}
			s.logger.Error("Failed to resolve product during checkout",
				zap.String("user_id", userID.String()),
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err),
			)
			return nil, &ServiceError{StatusCode: 500, Message: "Failed to create order"}
		}
		order.OrderItems = append(order.OrderItems, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
		total += item.Price
	}
	order.TotalPrice = total

	if err := s.orderRepo.CreateFromCart(ctx, order, cart.ID); err != nil {
		s.logger.Error("Checkout transaction failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create order"}
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Float64("total_price", order.TotalPrice),
	)

	// Best-effort event publish; a broker failure never fails the checkout.
	if s.producer != nil {
		event := kafka.OrderCreatedEvent{
			Event:      "order.created",
			OrderID:    order.ID.String(),
			UserID:     userID.String(),
			TotalPrice: order.TotalPrice,
			Timestamp:  order.OrderDate,
		}
		if err := s.producer.SendOrderEvent(ctx, event); err != nil {
			s.logger.Warn("Failed to publish order event", zap.Error(err))
		}
	}

	return order, nil
}

func (s *orderServiceImpl) GetOrdersForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, *ServiceError) {
	orders, err := s.orderRepo.FindByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to fetch orders", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}
	return orders, nil
}

func (s *orderServiceImpl) GetAllOrders(ctx context.Context, page, limit int) ([]models.Order, int64, *ServiceError) {
	orders, total, err := s.orderRepo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch all orders", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}
	return orders, total, nil
}

func (s *orderServiceImpl) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		s.logger.Error("Failed to fetch order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch order"}
	}
	return order, nil
}

// UpdateOrderStatus moves the order to the given status. Transitions are
// intentionally unconstrained.
func (s *orderServiceImpl) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, *ServiceError) {
	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		s.logger.Error("Failed to update order status", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update order status"}
	}
	return s.GetOrderByID(ctx, orderID)
}

func (s *orderServiceImpl) DeleteOrder(ctx context.Context, orderID uuid.UUID) *ServiceError {
	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		s.logger.Error("Failed to delete order", zap.String("order_id", orderID.String()), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete order"}
	}
	return nil
}
