package services

import (
	"context"
	"errors"

	"storefront/models"
	repositories "storefront/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CartService defines the interface for cart business logic.
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, *ServiceError)
	AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Cart, *ServiceError)
	UpdateCartItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Cart, *ServiceError)
	RemoveFromCart(ctx context.Context, userID, productID uuid.UUID) (*models.Cart, *ServiceError)
	ClearCart(ctx context.Context, userID uuid.UUID) *ServiceError
}

// cartServiceImpl implements CartService.
type cartServiceImpl struct {
	cartRepo    repositories.CartRepository
	userRepo    repositories.UserRepository
	productRepo repositories.ProductRepository
	locker      *UserLocker
	logger      *zap.Logger
}

// NewCartService creates a new CartService. The locker must be the same
// instance handed to the order service so checkout serializes against cart
// edits.
func NewCartService(
	cartRepo repositories.CartRepository,
	userRepo repositories.UserRepository,
	productRepo repositories.ProductRepository,
	locker *UserLocker,
	logger *zap.Logger,
) CartService {
	return &cartServiceImpl{
		cartRepo:    cartRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		locker:      locker,
		logger:      logger,
	}
}

// GetCart returns the user's cart, creating an empty one on first access.
func (s *cartServiceImpl) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, *ServiceError) {
	s.locker.Lock(userID)
	defer s.locker.Unlock(userID)
	return s.getCartLocked(ctx, userID)
}

// getCartLocked is the lazy-create path. Callers must hold the user lock.
func (s *cartServiceImpl) getCartLocked(ctx context.Context, userID uuid.UUID) (*models.Cart, *ServiceError) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("Failed to load cart", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load cart"}
	}

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "User not found"}
		}
		s.logger.Error("Failed to resolve user", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load cart"}
	}

	cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	if err := s.cartRepo.Create(ctx, cart); err != nil {
		s.logger.Error("Failed to create cart", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create cart"}
	}
	return cart, nil
}

// AddToCart accumulates quantity onto an existing line or appends a new one.
// The line price is recomputed from the catalog's current unit price, not the
// cart's stored snapshot.
func (s *cartServiceImpl) AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Cart, *ServiceError) {
	if quantity <= 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Quantity must be greater than zero"}
	}

	s.locker.Lock(userID)
	defer s.locker.Unlock(userID)

	cart, svcErr := s.getCartLocked(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		s.logger.Error("Failed to resolve product", zap.String("product_id", productID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 503, Message: "Catalog unavailable"}
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += quantity
			cart.Items[i].Price = float64(cart.Items[i].Quantity) * product.Price
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
			Price:     float64(quantity) * product.Price,
		})
	}

	return s.persist(ctx, cart)
}

// UpdateCartItem replaces the quantity of an existing line. A quantity of
// zero is allowed and keeps the line around with a zero price.
func (s *cartServiceImpl) UpdateCartItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Cart, *ServiceError) {
	if quantity < 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Quantity cannot be negative"}
	}

	s.locker.Lock(userID)
	defer s.locker.Unlock(userID)

	cart, svcErr := s.getCartLocked(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	idx := -1
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, &ServiceError{StatusCode: 404, Message: "Cart item not found"}
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		s.logger.Error("Failed to resolve product", zap.String("product_id", productID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 503, Message: "Catalog unavailable"}
	}

	cart.Items[idx].Quantity = quantity
	cart.Items[idx].Price = float64(quantity) * product.Price

	return s.persist(ctx, cart)
}

// RemoveFromCart deletes the line if present. Removing an absent product is
// a no-op.
func (s *cartServiceImpl) RemoveFromCart(ctx context.Context, userID, productID uuid.UUID) (*models.Cart, *ServiceError) {
	s.locker.Lock(userID)
	defer s.locker.Unlock(userID)

	cart, svcErr := s.getCartLocked(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept

	return s.persist(ctx, cart)
}

// ClearCart removes all lines and resets the total to zero.
func (s *cartServiceImpl) ClearCart(ctx context.Context, userID uuid.UUID) *ServiceError {
	s.locker.Lock(userID)
	defer s.locker.Unlock(userID)

	cart, svcErr := s.getCartLocked(ctx, userID)
	if svcErr != nil {
		return svcErr
	}

	cart.Items = []models.CartItem{}
	_, svcErr = s.persist(ctx, cart)
	return svcErr
}

// persist recomputes the total from the in-memory line set as the last step
// before saving.
func (s *cartServiceImpl) persist(ctx context.Context, cart *models.Cart) (*models.Cart, *ServiceError) {
	cart.RecalculateTotal()
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.String("user_id", cart.UserID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save cart"}
	}
	return cart, nil
}
